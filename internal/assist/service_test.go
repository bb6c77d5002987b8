package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type stubProvider struct {
	response string
	err      error

	called    bool
	gotSystem string
	gotUser   string
}

func (p *stubProvider) Call(_ context.Context, systemPrompt, userMessage string) (string, error) {
	p.called = true
	p.gotSystem = systemPrompt
	p.gotUser = userMessage
	if p.err != nil {
		return "", p.err
	}
	return p.response, nil
}

func TestRunPreciseEdits(t *testing.T) {
	provider := &stubProvider{
		response: "Replace the loop:\n```3:5:main.cpp\nfor (int i = 0; i < n; ++i) {}\n```\nThat fixes it.",
	}
	s := NewService(provider)

	resp, err := s.Run(context.Background(), Request{
		Code:        "old code",
		Instruction: "fix the loop",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !provider.called {
		t.Fatal("provider was not called")
	}
	if len(resp.Edits) != 1 {
		t.Fatalf("Run() returned %d edits, want 1", len(resp.Edits))
	}
	edit := resp.Edits[0]
	if edit.StartLine != 3 || edit.EndLine != 5 || edit.Filepath != "main.cpp" {
		t.Errorf("edit = %+v", edit)
	}
	if resp.DiffInfo != nil {
		t.Errorf("Run() DiffInfo = %+v, want nil without whole-file mode", resp.DiffInfo)
	}
	if !strings.Contains(resp.Explanation, "<p>Replace the loop:</p>") {
		t.Errorf("Run() Explanation = %q", resp.Explanation)
	}
}

func TestRunWholeFileDiff(t *testing.T) {
	provider := &stubProvider{
		response: "```\nint total = 0;\nint result = compute(2);\n```\nExplained.",
	}
	s := NewService(provider)

	resp, err := s.Run(context.Background(), Request{
		Code:        "int total = 0;\nint result = compute(1);",
		Instruction: "bump the argument",
		WholeFile:   true,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(resp.Edits) != 0 {
		t.Errorf("Run() Edits = %v, want none in whole-file mode", resp.Edits)
	}
	if resp.DiffInfo == nil {
		t.Fatal("Run() DiffInfo = nil, want computed diff")
	}
	if resp.DiffInfo.Changes != 1 {
		t.Errorf("DiffInfo.Changes = %d, want 1", resp.DiffInfo.Changes)
	}
	if resp.DiffInfo.Diff == "" {
		t.Error("DiffInfo.Diff is empty")
	}
}

func TestRunGenerateSkipsDiff(t *testing.T) {
	provider := &stubProvider{response: "```\nnew file\n```"}
	s := NewService(provider)

	resp, err := s.Run(context.Background(), Request{
		Instruction: "generate a file",
		WholeFile:   true,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if resp.DiffInfo != nil {
		t.Errorf("Run() DiffInfo = %+v, want nil in generate mode", resp.DiffInfo)
	}
}

func TestRunEmptyInstruction(t *testing.T) {
	provider := &stubProvider{response: "unused"}
	s := NewService(provider)

	_, err := s.Run(context.Background(), Request{Code: "x", Instruction: "  "})
	if !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("Run() error = %v, want ErrEmptyPrompt", err)
	}
	if provider.called {
		t.Error("provider must not be called for an empty instruction")
	}
}

func TestRunPropagatesProviderError(t *testing.T) {
	wrapped := fmt.Errorf("%w: upstream said no", ErrRateLimit)
	provider := &stubProvider{err: wrapped}
	s := NewService(provider)

	_, err := s.Run(context.Background(), Request{Instruction: "anything"})
	if !errors.Is(err, ErrRateLimit) {
		t.Errorf("Run() error = %v, want ErrRateLimit", err)
	}
}

func TestRunNeverFailsOnMalformedResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "no fences", response: "I could not produce code."},
		{name: "unbalanced fence", response: "```go\nfunc main()"},
		{name: "empty", response: ""},
		{name: "malformed spec", response: "```abc:def:file\nx\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(&stubProvider{response: tt.response})
			resp, err := s.Run(context.Background(), Request{Instruction: "go"})
			if err != nil {
				t.Fatalf("Run() error = %v, parser output must never fail", err)
			}
			if resp.Code == "" && resp.Explanation == "" && tt.response != "" {
				t.Error("Run() discarded the model output entirely")
			}
		})
	}
}

func TestEstimateTokensSimple(t *testing.T) {
	count := EstimateTokensSimple("hello world, this is a prompt")
	if count <= 0 {
		t.Errorf("EstimateTokensSimple() = %d, want positive count", count)
	}

	if got := EstimateTokensSimple(""); got != 0 {
		t.Errorf("EstimateTokensSimple(\"\") = %d, want 0", got)
	}
}
