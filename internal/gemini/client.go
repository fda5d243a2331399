package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"topaz-studio/internal/credentials"
	"topaz-studio/internal/logging"
)

type Options struct {
	APIKey       string
	KeyPool      []string
	Credentials  credentials.Store
	BaseURL      string
	APIVersion   string
	HTTPClient   *http.Client
	Logger       *slog.Logger
	Attempts     int
	RetryDelay   time.Duration
	PollInterval time.Duration
	// PickVoice chooses one voice from the candidates; random when nil.
	PickVoice func(voices []string) string
}

type Client struct {
	apiKey       string
	pool         *KeyPool
	creds        credentials.Store
	baseURL      string
	apiVersion   string
	httpClient   *http.Client
	logger       *slog.Logger
	attempts     int
	retryDelay   time.Duration
	pollInterval time.Duration
	pickVoice    func(voices []string) string
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = "v1beta"
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	attempts := opts.Attempts
	if attempts < 1 {
		attempts = 2
	}
	retryDelay := opts.RetryDelay
	if retryDelay < 0 {
		retryDelay = 0
	}
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = 15 * time.Second
	}

	pickVoice := opts.PickVoice
	if pickVoice == nil {
		pickVoice = func(voices []string) string {
			return voices[rand.IntN(len(voices))]
		}
	}

	return &Client{
		apiKey:       credentials.Clean(credentials.Gemini, opts.APIKey),
		pool:         NewKeyPool(opts.KeyPool),
		creds:        opts.Credentials,
		baseURL:      baseURL,
		apiVersion:   apiVersion,
		httpClient:   opts.HTTPClient,
		logger:       logging.WithComponent(logger, "gemini"),
		attempts:     attempts,
		retryDelay:   retryDelay,
		pollInterval: pollInterval,
		pickVoice:    pickVoice,
	}
}

// activeKey resolves the key for this call. custom is true when the key
// belongs to the caller rather than the shared defaults.
func (c *Client) activeKey(ctx context.Context) (key string, custom bool) {
	if userKey := credentials.Lookup(ctx, c.creds, credentials.OwnerFrom(ctx), credentials.Gemini); userKey != "" {
		return userKey, true
	}
	if c.apiKey != "" {
		return c.apiKey, false
	}
	return c.pool.Current(), false
}

// HasKey reports whether any key is available for ctx.
func (c *Client) HasKey(ctx context.Context) bool {
	key, _ := c.activeKey(ctx)
	return key != ""
}

// withRetry runs fn with the active key. Rate limits rotate the shared pool
// and back off by 1.5x per attempt; an invalid caller key fails at once.
func (c *Client) withRetry(ctx context.Context, fn func(key string) error) error {
	var lastErr error
	for i := 0; i < c.attempts; i++ {
		key, custom := c.activeKey(ctx)
		if key == "" {
			return ErrNoKey
		}

		err := fn(key)
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		lastErr = err

		if custom && isInvalidKey(err) {
			return fmt.Errorf("%w: %v", ErrInvalidUserKey, err)
		}

		if isRateLimit(err) {
			if !custom && c.pool.Len() > 0 {
				old, next := c.pool.Rotate()
				c.logger.Warn("rotated default key", "from", old+1, "to", next+1)
			} else if custom {
				c.logger.Warn("custom key hit rate limit", "key", logging.SanitizeKey(key))
			}
			backoff := time.Duration(float64(c.retryDelay) * math.Pow(1.5, float64(i)))
			if err := sleep(ctx, backoff); err != nil {
				return err
			}
			continue
		}

		if i < c.attempts-1 {
			if err := sleep(ctx, c.retryDelay); err != nil {
				return err
			}
			continue
		}
		return err
	}
	return lastErr
}

func (c *Client) generateContent(ctx context.Context, key, model string, payload generateContentRequest) (generateContentResponse, error) {
	url := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, c.apiVersion, model)

	var decoded generateContentResponse
	if err := c.postJSON(ctx, key, url, payload, &decoded); err != nil {
		return generateContentResponse{}, err
	}
	return decoded, nil
}

func (c *Client) postJSON(ctx context.Context, key, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")
	return c.do(httpReq, key, out)
}

func (c *Client) getJSON(ctx context.Context, key, url string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(httpReq, key, out)
}

func (c *Client) do(httpReq *http.Request, key string, out any) error {
	if c.httpClient == nil {
		return errors.New("http client is nil")
	}
	httpReq.Header.Set("x-goog-api-key", key)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer httpResp.Body.Close()

	rawBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		return newAPIError(httpResp.StatusCode, rawBody)
	}

	if err := json.Unmarshal(rawBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func userContent(prompt string, images []Image) []content {
	parts := []part{{Text: prompt}}
	for _, img := range images {
		if img.Empty() {
			continue
		}
		parts = append(parts, part{InlineData: img.inline()})
	}
	return []content{{Role: "user", Parts: parts}}
}
