package http

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nightfall/internal/app"
	"nightfall/internal/auth"
	"nightfall/internal/config"
	"nightfall/internal/transport/ws"
)

// Server represents the HTTP server
type Server struct {
	server   *http.Server
	router   *chi.Mux
	session  *app.GameSession
	config   *config.Config
	logger   *slog.Logger
	tokens   *auth.TokenProvider
	password *auth.PasswordChecker
	cookies  auth.CookieSettings
	limiter  *auth.IPRateLimiter
}

// NewServer creates a new HTTP server. gatherer backs the /metrics endpoint.
func NewServer(cfg *config.Config, session *app.GameSession, gatherer prometheus.Gatherer, logger *slog.Logger) (*Server, error) {
	password, err := auth.NewPasswordChecker(cfg.Auth.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("admin auth: %w", err)
	}

	s := &Server{
		router:   chi.NewRouter(),
		session:  session,
		config:   cfg,
		logger:   logger,
		tokens:   auth.NewTokenProvider(cfg.Auth.SessionSecret, cfg.Auth.TokenTTL),
		password: password,
		cookies:  auth.CookieSettings{Name: cfg.Auth.CookieName, Secure: cfg.IsProduction()},
		limiter:  auth.NewIPRateLimiter(cfg.Auth.LoginRatePerMinute, cfg.Auth.LoginBurst),
	}

	s.setupRoutes(gatherer)

	s.server = &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler exposes the router (used by tests)
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	r := s.router
	r.Use(chimw.RequestID)
	if s.config.Server.TrustProxy {
		// forwarded headers are client-controlled unless a proxy rewrites them
		r.Use(chimw.RealIP)
	}
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(s.cors)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// WebSocket stays outside the handler timeout
	r.Method(http.MethodGet, "/ws", ws.NewHandler(s.session, s.logger))

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))

		r.Get("/health", s.handleHealth)
		r.Get("/roles", s.handleRoles)
		r.Get("/status", s.handleStatus)
		r.Get("/spectate", s.handleSpectate)

		r.Route("/players", func(r chi.Router) {
			r.Get("/", s.handlePlayers)
			r.Get("/{id}", s.handlePlayerView)
			r.Get("/{id}/role", s.handleRole)
			r.Post("/{id}/vote", s.handleVote)
			r.Post("/{id}/postmortem", s.handlePostmortem)
			r.Get("/{id}/necromancer", s.handleNecromancer)
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(auth.RateLimitMiddleware(s.limiter, s.handleLoginLimited)).Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Get("/dashboard", s.handleDashboard)
				r.Get("/results", s.handleAdminResults)
				r.Get("/necromancer", s.handleNecromancerConsole)
				r.Post("/start", s.handleStart)
				r.Post("/reveal", s.handleReveal)
				r.Post("/next-night", s.handleNextNight)
				r.Post("/new-game", s.handleNewGame)
				r.Post("/eliminate/{id}", s.handleEliminate)
				r.Post("/couple", s.handleCouple)
				r.Post("/swap", s.handleSwap)
				r.Post("/postmortem/{msgID}/reveal", s.handleRevealMessage)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.sendError(w, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})
}

// requestLogger logs one line per request
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		if r.URL.Path == "/metrics" && !s.config.IsDevelopment() {
			return
		}
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", time.Since(start),
			"requestID", chimw.GetReqID(r.Context()),
		)
	})
}

// cors reflects configured origins with credentials, or allows any origin without them
func (s *Server) cors(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(s.config.Server.AllowedOrigins))
	for _, o := range s.config.Server.AllowedOrigins {
		allowed[o] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(allowed) == 0 {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin := r.Header.Get("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for WebSocket support
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Flush implements http.Flusher
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
