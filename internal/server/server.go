// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the converters and the help assistant over HTTP.
// It is a single-process presentation layer: uploads are converted in
// memory and results live only until the next job on the same converter.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/pdiddy/convertkit/internal/workspace"
	"github.com/pdiddy/convertkit/pkg/types"
)

// Assistant answers chat messages. *assistant.Responder satisfies it.
type Assistant interface {
	Respond(utterance string, ctx types.ConversationContext) (string, types.ConversationContext)
	Welcome() string
	ThinkingDelay() time.Duration
}

// Server routes HTTP requests to the workspace and the assistant.
type Server struct {
	ws        *workspace.Workspace
	assistant Assistant
	cfg       types.ServerConfig
	log       zerolog.Logger
}

// New creates a Server.
func New(ws *workspace.Workspace, a Assistant, cfg types.ServerConfig, log zerolog.Logger) *Server {
	return &Server{ws: ws, assistant: a, cfg: cfg, log: log}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(api chi.Router) {
		api.With(s.resolveInstance, s.convertLimiter()).Post("/convert/{kind}", s.handleConvert)
		api.With(s.resolveInstance).Get("/convert/{kind}/artifacts", s.handleListArtifacts)
		api.With(s.resolveInstance).Delete("/convert/{kind}/artifacts", s.handleClearArtifacts)
		api.With(s.resolveInstance).Get("/convert/{kind}/bundle", s.handleBundle)
		api.Get("/artifacts/{handle}", s.handleArtifact)

		api.Get("/chat/welcome", s.handleWelcome)
		api.Post("/chat", s.handleChat)
	})
	return r
}

// convertLimiter caps conversions per client IP per minute. A zero limit
// disables it.
func (s *Server) convertLimiter() func(http.Handler) http.Handler {
	if s.cfg.ConvertRateLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(s.cfg.ConvertRateLimit, time.Minute)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
