package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

var textModels = []string{"gemini-3-flash-preview", "gemini-2.0-flash-exp", "gemini-1.5-flash"}

// GenerateText walks the text model chain; a key without access to the
// newest model falls through to the older ones.
func (c *Client) GenerateText(ctx context.Context, prompt string, images []Image) (string, error) {
	var out string
	err := c.withRetry(ctx, func(key string) error {
		var lastErr error
		for _, model := range textModels {
			resp, err := c.generateContent(ctx, key, model, generateContentRequest{
				Contents: userContent(prompt, images),
			})
			if err != nil {
				lastErr = err
				c.logger.Warn("text model failed", "model", model, "err", err)
				continue
			}
			out = textOf(resp)
			return nil
		}
		return lastErr
	})
	return out, err
}

var stockSchema = &schema{
	Type: "OBJECT",
	Properties: map[string]*schema{
		"title":       {Type: "STRING"},
		"keywords":    {Type: "STRING"},
		"category_id": {Type: "NUMBER"},
	},
	Required: []string{"title", "keywords", "category_id"},
}

// GenerateStockMetadata asks for title, keywords and category in JSON mode.
func (c *Client) GenerateStockMetadata(ctx context.Context, prompt string, img Image) (StockMetadata, error) {
	var out StockMetadata
	err := c.withRetry(ctx, func(key string) error {
		var lastErr error
		for _, model := range textModels {
			resp, err := c.generateContent(ctx, key, model, generateContentRequest{
				Contents: userContent(prompt, []Image{img}),
				GenerationConfig: generationConfig{
					ResponseMimeType: "application/json",
					ResponseSchema:   stockSchema,
				},
			})
			if err != nil {
				lastErr = err
				c.logger.Warn("metadata generation failed, trying next", "model", model, "err", err)
				continue
			}

			meta, err := parseStockMetadata(textOf(resp))
			if err != nil {
				lastErr = err
				c.logger.Warn("metadata decode failed, trying next", "model", model, "err", err)
				continue
			}
			out = meta
			return nil
		}
		if lastErr == nil {
			lastErr = fmt.Errorf("failed to generate metadata")
		}
		return lastErr
	})
	return out, err
}

func parseStockMetadata(raw string) (StockMetadata, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "{}"
	}

	var decoded struct {
		Title      string          `json:"title"`
		Keywords   json.RawMessage `json:"keywords"`
		CategoryID json.Number     `json:"category_id"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return StockMetadata{}, fmt.Errorf("decode metadata: %w", err)
	}

	meta := StockMetadata{Title: decoded.Title}

	if len(decoded.Keywords) > 0 {
		var list []string
		if err := json.Unmarshal(decoded.Keywords, &list); err == nil {
			meta.Keywords = strings.Join(list, ", ")
		} else {
			var s string
			if err := json.Unmarshal(decoded.Keywords, &s); err != nil {
				return StockMetadata{}, fmt.Errorf("decode keywords: %w", err)
			}
			meta.Keywords = s
		}
	}

	if decoded.CategoryID != "" {
		f, err := decoded.CategoryID.Float64()
		if err != nil {
			return StockMetadata{}, fmt.Errorf("decode category: %w", err)
		}
		meta.CategoryID = int(f)
	}
	return meta, nil
}
