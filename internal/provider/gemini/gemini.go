// Package gemini calls the Google Gemini generateContent API over HTTP.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kaztic/crosshair/internal/assist"
)

// DefaultBaseURL is the production Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client is an assist.Provider backed by the Gemini API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a Gemini client for the given model.
func NewClient(apiKey, model string) *Client {
	return &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// NewClientWithBaseURL creates a client against a non-default endpoint.
// Used by tests to point at a local server.
func NewClientWithBaseURL(apiKey, model, baseURL string) *Client {
	c := NewClient(apiKey, model)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

type generateRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Call sends one generateContent request and returns the model's text.
// Failures are classified into the assist error taxonomy.
func (c *Client) Call(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if c.apiKey == "" {
		return "", assist.ErrNotConfigured
	}

	reqBody := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemPrompt}}},
		Contents: []content{
			{Role: "user", Parts: []part{{Text: userMessage}}},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", assist.ErrService, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", assist.ErrService, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", assist.ErrService, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", assist.ErrService, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Gemini API error %d: %s", resp.StatusCode, respBody)
		return "", classifyStatus(resp.StatusCode, respBody)
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: parse response: %v", assist.ErrService, err)
	}

	var text strings.Builder
	for _, cand := range parsed.Candidates {
		for _, p := range cand.Content.Parts {
			text.WriteString(p.Text)
		}
		break
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: empty response", assist.ErrService)
	}

	return text.String(), nil
}

// classifyStatus maps an HTTP error status onto the taxonomy. A 400 only
// counts as a key problem when the body says so.
func classifyStatus(status int, body []byte) error {
	message := string(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", assist.ErrAPIKey, status)
	case status == http.StatusBadRequest && strings.Contains(strings.ToLower(message), "api key"):
		return fmt.Errorf("%w: status %d", assist.ErrAPIKey, status)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", assist.ErrRateLimit, status)
	case status >= 500:
		return fmt.Errorf("%w: status %d", assist.ErrModelUnavailable, status)
	default:
		return fmt.Errorf("%w: status %d", assist.ErrService, status)
	}
}
