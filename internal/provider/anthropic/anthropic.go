// Package anthropic adapts the official Anthropic SDK to the assist
// provider interface.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Kaztic/crosshair/internal/assist"
)

const maxResponseTokens = 8192

// Provider is an assist.Provider backed by the Anthropic Messages API.
type Provider struct {
	client anthropic.Client
	model  anthropic.Model
}

// New creates a provider for the given model.
func New(apiKey, model string) *Provider {
	return &Provider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
	}
}

// Call sends one message exchange and returns the model's text. Failures
// are classified into the assist error taxonomy.
func (p *Provider) Call(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: maxResponseTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)),
		},
	})
	if err != nil {
		return "", classify(err)
	}

	for _, block := range resp.Content {
		if block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("%w: empty response", assist.ErrService)
}

func classify(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return classifyStatus(apierr.StatusCode, err)
	}
	return fmt.Errorf("%w: %v", assist.ErrService, err)
}

func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %v", assist.ErrAPIKey, err)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", assist.ErrRateLimit, err)
	case status >= 500:
		return fmt.Errorf("%w: %v", assist.ErrModelUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", assist.ErrService, err)
	}
}
