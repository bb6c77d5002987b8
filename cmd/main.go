// Crosshair backend.
//
// A stateless HTTP relay between a code-editor front end and an LLM
// provider: it builds a prompt from a code snippet and an instruction,
// performs one provider call, and reshapes the raw response into
// structured edits, an explanation, and a diff summary.
//
// CLI Usage:
//
//	--issue-token="client-name"
//	  Issues a signed access token for the named client. Requires
//	  ACCESS_TOKEN_SECRET to be set.
//
// Environment Variables:
//   - ADDR: HTTP listen address (default ":8000")
//   - AI_PROVIDER: "gemini" (default) or "anthropic"
//   - GEMINI_API_KEY / GEMINI_MODEL: Gemini credentials and model
//   - ANTHROPIC_API_KEY / ANTHROPIC_MODEL: Anthropic credentials and model
//   - ALLOWED_ORIGINS: comma-separated CORS origins
//   - VALID_API_KEYS: comma-separated static bearer keys
//   - ACCESS_TOKEN_SECRET: HS256 secret for access tokens
//   - DISABLE_AUTH: "true" or "1" to bypass the auth gate
//   - REQUESTS_PER_MINUTE: per-client rate limit (0 disables)
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Kaztic/crosshair/internal/app"
	"github.com/Kaztic/crosshair/internal/assist"
	"github.com/Kaztic/crosshair/internal/auth"
	"github.com/Kaztic/crosshair/internal/config"
	"github.com/Kaztic/crosshair/internal/provider/anthropic"
	"github.com/Kaztic/crosshair/internal/provider/gemini"
	"github.com/Kaztic/crosshair/pkg/utils"
)

// loadEnvFile loads environment variables from a .env file if present.
// It attempts to load from the current directory and parent directories
// up to the root directory.
func loadEnvFile() {
	// Try current directory first
	err := godotenv.Load()
	if err == nil {
		log.Println("Loaded environment variables from .env file in current directory")
		return
	}

	workDir, err := os.Getwd()
	if err != nil {
		log.Printf("Warning: Could not determine current directory: %v", err)
		return
	}

	// Try parent directories recursively
	for dir := workDir; dir != "/"; dir = filepath.Dir(dir) {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			err = godotenv.Load(envPath)
			if err == nil {
				log.Printf("Loaded environment variables from %s", envPath)
				return
			}
		}
	}

	log.Println("No .env file found. Using existing environment variables.")
}

// newProvider selects the configured LLM backend.
func newProvider(cfg *config.Config) assist.Provider {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		log.Printf("Using Anthropic provider (model: %s, key: %s)",
			cfg.AnthropicModel, utils.MaskToken(cfg.AnthropicAPIKey))
		return anthropic.New(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	default:
		log.Printf("Using Gemini provider (model: %s, key: %s)",
			cfg.GeminiModel, utils.MaskToken(cfg.GeminiAPIKey))
		return gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
}

func main() {
	loadEnvFile()

	issueToken := flag.String("issue-token", "", "Issue a signed access token for the named client")
	flag.Parse()

	if *issueToken != "" {
		secret := os.Getenv("ACCESS_TOKEN_SECRET")
		if secret == "" {
			log.Fatal("ACCESS_TOKEN_SECRET must be set to issue tokens")
		}
		token, err := auth.CreateAccessToken(*issueToken, secret)
		if err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Println(token)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	service := assist.NewService(newProvider(cfg))
	a := app.NewApp(cfg, service)

	if !cfg.AuthEnabled() {
		log.Println("API authorization is disabled - all requests will be accepted")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Starting server on %s...", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	} else {
		log.Println("Server gracefully stopped")
	}
}
