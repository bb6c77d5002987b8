// Package assist orchestrates one editor request: prompt construction, a
// single provider call, and response parsing into the API shape.
package assist

import (
	"context"
	"log"

	"github.com/Kaztic/crosshair/internal/diff"
	"github.com/Kaztic/crosshair/internal/parser"
	"github.com/Kaztic/crosshair/pkg/models"
)

// Provider is the opaque LLM collaborator. Implementations classify their
// failures into the package error taxonomy.
type Provider interface {
	Call(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Request is one improve-or-generate job.
type Request struct {
	Code        string
	Instruction string
	History     []models.ConversationMessage
	WholeFile   bool
}

// Response is the structured result of a job.
type Response struct {
	Code        string
	Explanation string
	Edits       []models.CodeEdit
	DiffInfo    *models.DiffInfo
}

// Service runs assist requests against a provider. Stateless; safe for
// concurrent use.
type Service struct {
	provider Provider
}

// NewService creates an assist service backed by the given provider.
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// Run builds the prompt, calls the provider once, and parses the raw
// response. Provider failures are returned unmodified; parsing never
// fails.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	prompt, err := BuildPrompt(req.Code, req.Instruction, req.History, req.WholeFile)
	if err != nil {
		return nil, err
	}

	log.Printf("sending prompt (mode=%s, wholeFile=%t, ~%d tokens)",
		modeName(prompt.Mode), req.WholeFile, EstimateTokensSimple(prompt.System+prompt.User))

	raw, err := s.provider.Call(ctx, prompt.System, prompt.User)
	if err != nil {
		return nil, err
	}

	parsed := parser.Parse(raw, req.WholeFile)
	log.Printf("parsed response: code length=%d, explanation length=%d, edits=%d",
		len(parsed.Code), len(parsed.Explanation), len(parsed.Edits))

	resp := &Response{
		Code:        parsed.Code,
		Explanation: parsed.Explanation,
		Edits:       parsed.Edits,
	}

	if req.WholeFile && prompt.Mode == ModeImprove {
		info := diff.Compute(req.Code, parser.ExtractFirstBlock(parsed.Code))
		log.Printf("generated diff info: +%d, -%d, ~%d", info.Additions, info.Deletions, info.Changes)
		resp.DiffInfo = &info
	}

	return resp, nil
}

func modeName(mode Mode) string {
	if mode == ModeGenerate {
		return "generate"
	}
	return "improve"
}
