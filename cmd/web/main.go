package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"topaz-studio/internal/api"
	"topaz-studio/internal/config"
	"topaz-studio/internal/credentials"
	"topaz-studio/internal/events"
	"topaz-studio/internal/gemini"
	"topaz-studio/internal/grok"
	"topaz-studio/internal/httpclient"
	"topaz-studio/internal/logging"
	"topaz-studio/internal/session"
	"topaz-studio/internal/studio"
	"topaz-studio/internal/textgen"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogLevel)
	startTime := time.Now()

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("data dir init failed", "dir", cfg.DataDir, "err", err)
		os.Exit(1)
	}
	creds, err := credentials.OpenSQLite(cfg.CredentialsPath(), logger)
	if err != nil {
		logger.Error("credentials store init failed", "err", err)
		os.Exit(1)
	}
	defer creds.Close()

	gem := gemini.New(gemini.Options{
		APIKey:       cfg.GeminiAPIKey,
		KeyPool:      cfg.GeminiKeyPool,
		Credentials:  creds,
		BaseURL:      cfg.GeminiBaseURL,
		APIVersion:   cfg.GeminiAPIVersion,
		HTTPClient:   httpClient,
		Logger:       logger,
		Attempts:     cfg.RetryAttempts,
		RetryDelay:   cfg.RetryDelay,
		PollInterval: cfg.VideoPollInterval,
	})
	gk := grok.New(grok.Options{
		APIKey:      cfg.GrokAPIKey,
		Credentials: creds,
		BaseURL:     cfg.GrokBaseURL,
		Model:       cfg.GrokModel,
		HTTPClient:  httpClient,
		Logger:      logger,
	})

	st := studio.New(studio.Options{
		Images:       gem,
		Text:         textgen.New(gk, gem, logger),
		Speech:       gem,
		Video:        gem,
		Logger:       logger,
		SlotStagger:  cfg.SlotStagger,
		SceneStagger: cfg.SceneStagger,
	})

	hub := events.NewHub(events.Options{Logger: logger})
	sessions := session.NewStore(session.Options{Notifier: hub, Logger: logger})

	srv := api.NewServer(api.ServerConfig{
		Addr:           cfg.WebAddr,
		Studio:         st,
		Sessions:       sessions,
		Hub:            hub,
		Credentials:    creds,
		Metadata:       gem,
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
		VideoTimeout:   cfg.VideoTimeout,
		StartTime:      startTime,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, sessions, cfg.SessionTTL)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}

func sweepSessions(ctx context.Context, sessions *session.Store, ttl time.Duration) {
	ticker := time.NewTicker(ttl / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.Sweep(ttl)
		}
	}
}
