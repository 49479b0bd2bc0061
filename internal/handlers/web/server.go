// Package web serves the game over HTTP with JSON bodies.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/KirkDiggler/mindmeld/internal/services/game"
)

const (
	defaultTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 64 << 10
)

// Config holds the configuration for the HTTP server
type Config struct {
	// GameService handles every action
	GameService game.Service

	// Addr is the listen address, host:port
	Addr string

	// PublicURL is the base URL encoded in join QR codes. Derived from the
	// request when empty.
	PublicURL string

	// AllowedOrigins lists origins allowed by CORS, all when empty
	AllowedOrigins []string

	// Version is reported by /version
	Version string

	// Timeout bounds reading and writing a single request
	Timeout time.Duration

	// Logger is used for request and failure logs, silent when nil
	Logger *zerolog.Logger
}

// Server exposes the game service over HTTP
type Server struct {
	gameService game.Service
	config      *Config
	logger      zerolog.Logger
	handler     http.Handler
	srv         *http.Server
}

// New creates a new HTTP server
func New(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	s := &Server{
		gameService: cfg.GameService,
		config:      cfg,
		logger:      logger.With().Str("component", "web").Logger(),
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: origins,
		AllowedHeaders: []string{"*"},
	})

	s.handler = c.Handler(s.logRequests(s.routes()))

	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}

	return s, nil
}

// Handler returns the fully wrapped router
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("listening")
		err := s.srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info().Msg("shutting down")
	return s.srv.Shutdown(shutdownCtx)
}

func (s *Server) routes() *httprouter.Router {
	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		s.logger.Error().Interface("panic", i).Str("path", r.URL.Path).Msg("handler panicked")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	mux.POST("/create", s.handleCreate)
	mux.POST("/join", s.handleJoin)
	mux.POST("/ready", s.handleReady)
	mux.POST("/submit", s.handleSubmit)
	mux.POST("/next", s.handleNext)
	mux.GET("/state", s.handleState)
	mux.GET("/history", s.handleHistory)
	mux.GET("/qr", s.handleQR)
	mux.GET("/healthz", s.handleHealthz)
	mux.GET("/version", s.handleVersion)

	return mux
}

// statusRecorder remembers the status written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		// polling is chatty, keep it out of info
		level := zerolog.DebugLevel
		if rec.status >= http.StatusInternalServerError {
			level = zerolog.WarnLevel
		}
		s.logger.WithLevel(level).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Str("remote", realIP(r)).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func realIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" && net.ParseIP(ip) != nil {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
