package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Kaztic/crosshair/internal/assist"
)

func TestCallSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Goog-Api-Key") != "test-key" {
			t.Error("missing or invalid API key header")
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-1.5-pro:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var body struct {
			SystemInstruction struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"systemInstruction"`
			Contents []struct {
				Role  string `json:"role"`
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(body.SystemInstruction.Parts) == 0 || body.SystemInstruction.Parts[0].Text != "system text" {
			t.Error("system instruction not forwarded")
		}
		if len(body.Contents) != 1 || body.Contents[0].Role != "user" {
			t.Error("user content not forwarded")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{
					"content": map[string]any{
						"parts": []map[string]string{
							{"text": "```\ncode\n```"},
							{"text": "\nexplanation"},
						},
					},
				},
			},
		})
	}))
	defer ts.Close()

	c := NewClientWithBaseURL("test-key", "gemini-1.5-pro", ts.URL)

	got, err := c.Call(context.Background(), "system text", "user text")
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	want := "```\ncode\n```\nexplanation"
	if got != want {
		t.Errorf("Call() = %q, want %q", got, want)
	}
}

func TestCallMissingKey(t *testing.T) {
	c := NewClient("", "gemini-1.5-pro")

	_, err := c.Call(context.Background(), "s", "u")
	if !errors.Is(err, assist.ErrNotConfigured) {
		t.Errorf("Call() error = %v, want ErrNotConfigured", err)
	}
}

func TestCallErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			wantErr: assist.ErrAPIKey,
		},
		{
			name:    "forbidden",
			status:  http.StatusForbidden,
			wantErr: assist.ErrAPIKey,
		},
		{
			name:    "bad request with key message",
			status:  http.StatusBadRequest,
			body:    `{"error": {"status": "INVALID_ARGUMENT", "message": "API key not valid"}}`,
			wantErr: assist.ErrAPIKey,
		},
		{
			name:    "bad request otherwise",
			status:  http.StatusBadRequest,
			body:    `{"error": {"message": "malformed content"}}`,
			wantErr: assist.ErrService,
		},
		{
			name:    "rate limited",
			status:  http.StatusTooManyRequests,
			wantErr: assist.ErrRateLimit,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			wantErr: assist.ErrModelUnavailable,
		},
		{
			name:    "bad gateway",
			status:  http.StatusBadGateway,
			wantErr: assist.ErrModelUnavailable,
		},
		{
			name:    "teapot",
			status:  http.StatusTeapot,
			wantErr: assist.ErrService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			c := NewClientWithBaseURL("test-key", "gemini-1.5-pro", ts.URL)

			_, err := c.Call(context.Background(), "s", "u")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Call() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCallEmptyCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer ts.Close()

	c := NewClientWithBaseURL("test-key", "gemini-1.5-pro", ts.URL)

	_, err := c.Call(context.Background(), "s", "u")
	if !errors.Is(err, assist.ErrService) {
		t.Errorf("Call() error = %v, want ErrService", err)
	}
}
