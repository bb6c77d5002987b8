// Package models defines the wire types shared between the HTTP layer and
// the assist service.
package models

// ConversationMessage is a single turn of editor/assistant conversation,
// replayed verbatim into the prompt. Role is "user" or "assistant".
type ConversationMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CodeEdit is one precisely-located replacement region as stated by the
// model. StartLine and EndLine are 1-based and inclusive; they are not
// validated against the caller's file.
type CodeEdit struct {
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	Filepath  string `json:"filepath"`
	Code      string `json:"code"`
}

// DiffInfo summarizes a whole-file edit. Changes counts matched
// addition/deletion pairs; Additions and Deletions are the unmatched
// remainders.
type DiffInfo struct {
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Diff      string `json:"diff"`
}

// ImproveCodeRequest is the body of POST /api/improve-code. Code may be
// empty, which switches the service into generation mode.
type ImproveCodeRequest struct {
	Code                string                `json:"code"`
	Prompt              string                `json:"prompt"`
	ConversationHistory []ConversationMessage `json:"conversationHistory,omitempty"`
	WholeFile           bool                  `json:"wholeFile,omitempty"`
}

// ImproveCodeResponse carries the parsed model output back to the editor.
type ImproveCodeResponse struct {
	ImprovedCode string     `json:"improvedCode"`
	Explanation  string     `json:"explanation"`
	PreciseEdits []CodeEdit `json:"preciseEdits,omitempty"`
	DiffInfo     *DiffInfo  `json:"diffInfo,omitempty"`
}

// ErrorResponse is the body returned for every error status.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
