// Package crosshair documents the Crosshair backend, a relay between a
// code-editor front end and an LLM provider.
//
// # Request Flow
//
// A single POST /api/improve-code request moves through three stages:
//
//  1. Prompt construction: the instruction, optional code snippet, and
//     replayed conversation history are rendered into a system prompt and
//     a user message. An empty snippet switches the service from improving
//     code to generating it from scratch.
//
//  2. Provider call: exactly one request to the configured provider
//     (Gemini over HTTP, or Anthropic via its SDK). Failures are
//     classified into a closed taxonomy: invalid API key, rate limit,
//     model unavailable, or generic service error.
//
//  3. Response parsing: the raw model text is split into fenced code
//     blocks and interleaved prose. Blocks headed by a
//     startLine:endLine:filepath specification become precise edit
//     records; the prose is rendered as HTML; in whole-file mode a
//     unified diff against the original snippet is computed. Parsing
//     never fails — malformed output degrades to a best-effort fallback.
//
// # Response Format
//
// The response body carries:
//
//   - improvedCode: every fence block re-wrapped in fences, in order
//   - explanation: the interleaved prose as HTML
//   - preciseEdits: line-ranged replacements (omitted in whole-file mode)
//   - diffInfo: additions/deletions/changes plus the unified diff text
//     (whole-file improvements only)
//
// Errors are returned as {"detail": message} with the status conveying
// the failure class: 400 for an empty prompt, 429 for rate limits, 503
// for an unavailable model, and 500 otherwise.
//
// # Configuration
//
// Configuration comes from environment variables (optionally via a .env
// file) and is validated once at startup; a missing credential for the
// selected provider aborts the process with a clear error. See cmd/main.go
// for the full list of variables.
package crosshair
