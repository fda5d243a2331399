// Package api is the JSON/WebSocket surface of the studio.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"topaz-studio/internal/credentials"
	"topaz-studio/internal/events"
	"topaz-studio/internal/logging"
	"topaz-studio/internal/microstock"
	"topaz-studio/internal/session"
	"topaz-studio/internal/studio"
)

type ServerConfig struct {
	Addr        string
	Studio      *studio.Studio
	Sessions    *session.Store
	Hub         *events.Hub
	Credentials credentials.Store
	Metadata    microstock.MetadataGenerator
	Logger      *slog.Logger
	// RequestTimeout bounds provider work, including runs that outlive
	// the request that started them.
	RequestTimeout time.Duration
	// VideoTimeout replaces RequestTimeout for Veo renders.
	VideoTimeout   time.Duration
	StartTime      time.Time
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

func NewServer(cfg ServerConfig) *Server {
	cfg = cfg.withDefaults()
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(cfg),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      0,
			IdleTimeout:       90 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (cfg ServerConfig) withDefaults() ServerConfig {
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 240 * time.Second
	}
	if cfg.VideoTimeout <= 0 {
		cfg.VideoTimeout = 900 * time.Second
	}
	if cfg.StartTime.IsZero() {
		cfg.StartTime = time.Now()
	}
	if cfg.Credentials == nil {
		cfg.Credentials = credentials.NewMemoryStore()
	}
	if cfg.Hub == nil {
		cfg.Hub = events.NewHub(events.Options{Logger: cfg.Logger})
	}
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewStore(session.Options{Notifier: cfg.Hub, Logger: cfg.Logger})
	}
	return cfg
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
