// Package httpapi exposes the training modules as a JSON API.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	coreconfig "github.com/m3rciful/salestrainer/core/config"
	"github.com/m3rciful/salestrainer/core/logger"
	"github.com/m3rciful/salestrainer/core/training"
)

// NewRouter builds the chi router for mods.
func NewRouter(reg *training.Registry, mods []*training.Module, origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	attached := make([]string, 0, len(mods))
	for _, mod := range mods {
		h := &moduleHandler{mod: mod, reg: reg}
		h.RegisterRoutes(r)
		attached = append(attached, h.prefix())
	}
	r.Get("/api/public/v1/routes_summary", func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, map[string]any{"attached": attached, "errors": []string{}})
	})
	return r
}

// Server runs the API until its context is cancelled.
type Server struct {
	srv      *http.Server
	shutdown time.Duration
}

// NewServer wraps NewRouter in an http.Server configured from cfg.
func NewServer(cfg coreconfig.HTTPConfig, reg *training.Registry, mods []*training.Module) *Server {
	shutdown := time.Duration(cfg.ShutdownSeconds) * time.Second
	if shutdown <= 0 {
		shutdown = 10 * time.Second
	}
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Listen,
			Handler:           NewRouter(reg, mods, cfg.CORSOrigins),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			// Turns wait on two generation calls.
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  120 * time.Second,
		},
		shutdown: shutdown,
	}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Run serves until ctx is done, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.LogEvent(ctx, logger.HTTP, slog.LevelInfo, "http.listen", slog.String("listen", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	err := s.srv.Shutdown(shutdownCtx)
	logger.LogEvent(ctx, logger.HTTP, slog.LevelInfo, "http.shutdown",
		slog.String("status", logger.Status(err)),
		logger.Err(err),
	)
	return err
}
