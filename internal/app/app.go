// Package app wires the HTTP surface: routing, CORS, rate limiting, the
// auth gate, and the mapping from the assist error taxonomy onto HTTP
// statuses.
package app

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/Kaztic/crosshair/internal/assist"
	"github.com/Kaztic/crosshair/internal/auth"
	"github.com/Kaztic/crosshair/internal/config"
	"github.com/Kaztic/crosshair/pkg/models"
)

// App holds the router and the services behind it.
type App struct {
	Router http.Handler

	service        *assist.Service
	auth           *auth.Service
	allowedOrigins []string

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter
	rpm       int
}

// NewApp creates the application and registers its routes.
func NewApp(cfg *config.Config, service *assist.Service) *App {
	a := &App{
		service:        service,
		auth:           auth.NewService(cfg.ValidAPIKeys, cfg.AccessTokenSecret, cfg.DisableAuth),
		allowedOrigins: cfg.AllowedOrigins,
		limiters:       make(map[string]*rate.Limiter),
		rpm:            cfg.RequestsPerMinute,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", a.handleRoot)
	mux.HandleFunc("/api/improve-code", a.handleImproveCode)
	a.Router = a.withCORS(mux)

	return a
}

func (a *App) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Welcome to Crosshair API!"})
}

func (a *App) handleImproveCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if !a.allowRequest(r) {
		writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
		return
	}

	if err := a.auth.Authorize(r.Header.Get("Authorization")); err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.ImproveCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		log.Printf("empty prompt received")
		writeError(w, http.StatusBadRequest, "Prompt cannot be empty")
		return
	}

	if len(req.ConversationHistory) > 0 {
		log.Printf("received conversation history with %d messages", len(req.ConversationHistory))
	}

	result, err := a.service.Run(r.Context(), assist.Request{
		Code:        req.Code,
		Instruction: req.Prompt,
		History:     req.ConversationHistory,
		WholeFile:   req.WholeFile,
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.ImproveCodeResponse{
		ImprovedCode: result.Code,
		Explanation:  result.Explanation,
		PreciseEdits: result.Edits,
		DiffInfo:     result.DiffInfo,
	})
}

// writeServiceError maps the assist error taxonomy onto HTTP statuses.
// Unclassified errors are reported generically so internals never leak to
// the client.
func (a *App) writeServiceError(w http.ResponseWriter, err error) {
	log.Printf("assist request failed: %v", err)

	switch {
	case errors.Is(err, assist.ErrEmptyPrompt):
		writeError(w, http.StatusBadRequest, "Prompt cannot be empty")
	case errors.Is(err, assist.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "API key not configured. Please check the server configuration.")
	case errors.Is(err, assist.ErrAPIKey):
		writeError(w, http.StatusInternalServerError, "API key issue. Please contact the administrator.")
	case errors.Is(err, assist.ErrRateLimit):
		writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
	case errors.Is(err, assist.ErrModelUnavailable):
		writeError(w, http.StatusServiceUnavailable, "AI model service is currently unavailable. Please try again later.")
	case errors.Is(err, assist.ErrService):
		writeError(w, http.StatusInternalServerError, "AI service error: "+err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Error processing code")
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{Detail: detail})
}

// allowRequest applies the per-client token bucket. Disabled when no limit
// is configured.
func (a *App) allowRequest(r *http.Request) bool {
	if a.rpm <= 0 {
		return true
	}

	key := r.RemoteAddr
	if host, _, ok := strings.Cut(r.RemoteAddr, ":"); ok {
		key = host
	}

	a.limiterMu.Lock()
	limiter, ok := a.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(a.rpm)/60.0), a.rpm)
		a.limiters[key] = limiter
	}
	a.limiterMu.Unlock()

	return limiter.Allow()
}

// withCORS handles preflight requests and sets the allow headers for
// configured origins.
func (a *App) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && a.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *App) originAllowed(origin string) bool {
	for _, allowed := range a.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
