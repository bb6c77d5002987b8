// Package config loads and validates the service configuration from
// environment variables. Validation happens once at startup so a missing
// credential is a clear fatal error instead of a failure on the first
// request.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/Kaztic/crosshair/pkg/utils"
)

var (
	ErrNoAPIKey        = errors.New("API key for the selected provider is not set")
	ErrInvalidProvider = errors.New("AI_PROVIDER must be \"gemini\" or \"anthropic\"")
)

// Supported provider names.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Config holds the runtime configuration for the Crosshair backend.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string
	// Provider selects the LLM backend: "gemini" or "anthropic".
	Provider string
	// GeminiAPIKey authenticates against the Gemini API.
	GeminiAPIKey string
	// GeminiModel is the Gemini model name.
	GeminiModel string
	// AnthropicAPIKey authenticates against the Anthropic API.
	AnthropicAPIKey string
	// AnthropicModel is the Anthropic model name.
	AnthropicModel string
	// AllowedOrigins are the CORS origins permitted to call the API.
	AllowedOrigins []string
	// ValidAPIKeys are static bearer keys accepted by the auth gate.
	// Empty together with AccessTokenSecret means the gate is off.
	ValidAPIKeys []string
	// AccessTokenSecret signs and verifies HS256 access tokens.
	AccessTokenSecret string
	// DisableAuth bypasses the auth gate entirely.
	DisableAuth bool
	// RequestsPerMinute caps requests per client address. Zero disables
	// local rate limiting.
	RequestsPerMinute int
}

// Load reads the configuration from the environment and validates it.
// The credential for the selected provider must be present.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:              utils.GetEnvWithDefault("ADDR", ":8000"),
		Provider:          utils.GetEnvWithDefault("AI_PROVIDER", ProviderGemini),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       utils.GetEnvWithDefault("GEMINI_MODEL", "gemini-1.5-pro"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:    utils.GetEnvWithDefault("ANTHROPIC_MODEL", "claude-sonnet-4-5"),
		AllowedOrigins:    splitList(os.Getenv("ALLOWED_ORIGINS")),
		ValidAPIKeys:      splitList(os.Getenv("VALID_API_KEYS")),
		AccessTokenSecret: os.Getenv("ACCESS_TOKEN_SECRET"),
		DisableAuth:       isTruthy(os.Getenv("DISABLE_AUTH")),
	}

	if rpm := os.Getenv("REQUESTS_PER_MINUTE"); rpm != "" {
		n, err := strconv.Atoi(rpm)
		if err != nil || n < 0 {
			return nil, errors.New("REQUESTS_PER_MINUTE must be a non-negative integer")
		}
		cfg.RequestsPerMinute = n
	}

	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, ErrNoAPIKey
		}
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, ErrNoAPIKey
		}
	default:
		return nil, ErrInvalidProvider
	}

	return cfg, nil
}

// AuthEnabled reports whether the bearer-token gate is active.
func (c *Config) AuthEnabled() bool {
	if c.DisableAuth {
		return false
	}
	return len(c.ValidAPIKeys) > 0 || c.AccessTokenSecret != ""
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func isTruthy(value string) bool {
	return value == "true" || value == "1"
}
