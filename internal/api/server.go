package api

import (
	"errors"
	"net/http"

	"github.com/fyreone/fyreone/internal/account"
	"github.com/fyreone/fyreone/internal/log"
	"github.com/fyreone/fyreone/internal/store"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger        log.Logger
	Assistant     Asker            // Required
	Accounts      *account.Service // Required
	Store         *store.Store     // Required: backs the admin endpoints
	Providers     ProviderStatus   // Reported by /health
	AdminPassword string           // Required: guards the admin endpoints
	CORSOrigins   []string         // Allowed origins for CORS; "*" allows any
	IsDev         bool             // Disables HSTS (plain HTTP in dev)
	TrustProxy    bool             // Trust X-Real-IP/X-Forwarded-For headers (behind reverse proxy)
	RateBurst     int              // Rate limiter burst size per IP (0 = default 60)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Assistant == nil {
		return nil, errors.New("assistant is required")
	}
	if cfg.Accounts == nil {
		return nil, errors.New("account service is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.AdminPassword == "" {
		return nil, errors.New("admin password is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	ask := &askHandler{
		assistant:  cfg.Assistant,
		trustProxy: cfg.TrustProxy,
		logger:     logger,
	}
	accounts := &accountHandler{
		accounts:   cfg.Accounts,
		trustProxy: cfg.TrustProxy,
		logger:     logger,
	}
	admin := &adminHandler{
		store:    cfg.Store,
		password: cfg.AdminPassword,
		logger:   logger,
	}

	mux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("POST /signup", accounts.signup)
	mux.HandleFunc("POST /login", accounts.login)
	mux.HandleFunc("POST /ask", ask.ask)

	// Dashboard endpoints
	mux.HandleFunc("POST /admin/auth", admin.auth)
	mux.HandleFunc("GET /admin/leads", admin.leads)
	mux.HandleFunc("GET /admin/stats", admin.stats)
	mux.HandleFunc("GET /admin/queries", admin.queries)

	// Rate limiter: per-IP token bucket (1 token/sec refill)
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → CORS → RateLimit → Routes
	// RequestID must be before Logging so request_id is available in log attributes.
	// CORS must be before RateLimit so preflight OPTIONS gets proper CORS headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Wrap with security headers
	isDev := cfg.IsDev
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w, isDev)
		handler.ServeHTTP(w, r)
	})

	// Use a top-level mux to separate health probes from middleware stack
	health := &healthHandler{providers: cfg.Providers}
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health.health)
	topMux.Handle("/", final)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
