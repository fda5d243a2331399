package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"topaz-studio/internal/config"
	"topaz-studio/internal/credentials"
	"topaz-studio/internal/gemini"
	"topaz-studio/internal/grok"
	"topaz-studio/internal/handlers"
	"topaz-studio/internal/httpclient"
	"topaz-studio/internal/logging"
	"topaz-studio/internal/mediagroup"
	"topaz-studio/internal/session"
	"topaz-studio/internal/studio"
	"topaz-studio/internal/telegram"
	"topaz-studio/internal/textgen"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogLevel)

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

	tg, err := telegram.New(telegram.Options{
		Token:      cfg.TelegramToken,
		HTTPClient: httpClient,
		Logger:     logger,
		Debug:      cfg.Debug,
	})
	if err != nil {
		logger.Error("telegram init failed", "err", err)
		os.Exit(1)
	}

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

	sessions := session.NewStore(session.Options{Logger: logger})

	handler := handlers.New(handlers.Options{
		Telegram:     tg,
		Studio:       st,
		Sessions:     sessions,
		Credentials:  creds,
		Metadata:     gem,
		Logger:       logger,
		VideoTimeout: cfg.VideoTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, sessions, cfg.SessionTTL)

	sem := make(chan struct{}, cfg.MaxConcurrent)
	onGroupFlush := func(group mediagroup.Group) {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return
		}

		go func() {
			defer func() { <-sem }()

			reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
			defer cancel()

			handler.HandleMediaGroup(reqCtx, group)
		}()
	}

	aggregator := mediagroup.New(mediagroup.Options{
		Debounce: cfg.MediaGroupDebounce,
		OnFlush:  onGroupFlush,
	})
	handler.SetMediaGroupAggregator(aggregator)
	defer aggregator.Stop()

	logger.Info("bot started", "username", tg.Username())

	updates := tg.Updates(telegram.UpdatesOptions{
		Timeout: 30 * time.Second,
	})
	defer tg.StopUpdates()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case update, ok := <-updates:
			if !ok {
				logger.Info("updates channel closed")
				return
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}

			go func(update telegram.Update) {
				defer func() { <-sem }()

				reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
				defer cancel()

				if err := handler.HandleUpdate(reqCtx, update); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("handle update failed", "err", err)
				}
			}(update)
		}
	}
}

// sweepSessions drops chats idle for longer than ttl.
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
