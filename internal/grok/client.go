// Package grok talks to the xAI chat completions endpoint.
package grok

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"topaz-studio/internal/credentials"
	"topaz-studio/internal/logging"
)

const defaultSystem = "You are Grok, an AI modeled after the Hitchhiker's Guide to the Galaxy."

var ErrNoKey = errors.New("Grok API Key not found")

type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type Options struct {
	APIKey      string
	Credentials credentials.Store
	BaseURL     string
	Model       string
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

type Client struct {
	apiKey     string
	creds      credentials.Store
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.x.ai/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "grok-beta"
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Client{
		apiKey:     credentials.Clean(credentials.Grok, opts.APIKey),
		creds:      opts.Credentials,
		baseURL:    baseURL,
		model:      model,
		httpClient: opts.HTTPClient,
		logger:     logging.WithComponent(logger, "grok"),
	}
}

func (c *Client) key(ctx context.Context) string {
	if k := credentials.Lookup(ctx, c.creds, credentials.OwnerFrom(ctx), credentials.Grok); k != "" {
		return k
	}
	return c.apiKey
}

// HasKey reports whether a Grok key is available for the caller.
func (c *Client) HasKey(ctx context.Context) bool {
	return c.key(ctx) != ""
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []message `json:"messages"`
	Model       string    `json:"model"`
	Stream      bool      `json:"stream"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Chat sends a single-turn completion. An empty system uses the default.
func (c *Client) Chat(ctx context.Context, prompt, system string) (string, error) {
	apiKey := c.key(ctx)
	if apiKey == "" {
		return "", ErrNoKey
	}
	if c.httpClient == nil {
		return "", errors.New("http client is nil")
	}
	if system == "" {
		system = defaultSystem
	}

	body, err := json.Marshal(chatRequest{
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Model:       c.model,
		Stream:      false,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	defer httpResp.Body.Close()

	rawBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		if httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden {
			return "", &APIError{Status: httpResp.StatusCode, Message: "Invalid API Key (Grok)"}
		}
		var envelope struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		msg := fmt.Sprintf("Grok API Error: %d", httpResp.StatusCode)
		if json.Unmarshal(rawBody, &envelope) == nil && envelope.Error.Message != "" {
			msg = envelope.Error.Message
		}
		return "", &APIError{Status: httpResp.StatusCode, Message: msg}
	}

	var decoded chatResponse
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", nil
	}
	return decoded.Choices[0].Message.Content, nil
}
