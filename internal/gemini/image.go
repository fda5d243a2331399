package gemini

import (
	"context"
	"strings"
)

var imageModels = []string{"gemini-2.5-flash-image", "gemini-2.0-flash-exp"}

// GenerateImage returns the first inline image produced by the image model
// chain. refs are sent after the prompt in order.
func (c *Client) GenerateImage(ctx context.Context, prompt string, refs []Image, aspectRatio string) (Image, error) {
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}

	var out Image
	err := c.withRetry(ctx, func(key string) error {
		for i, model := range imageModels {
			req := generateContentRequest{Contents: userContent(prompt, refs)}
			if strings.Contains(model, "image") {
				req.GenerationConfig.ImageConfig = &imageConfig{AspectRatio: aspectRatio}
			}

			resp, err := c.generateContent(ctx, key, model, req)
			if err != nil {
				if i == len(imageModels)-1 {
					return err
				}
				c.logger.Warn("image model failed, trying next", "model", model, "err", err)
				continue
			}

			if inline := firstInline(resp); inline != nil {
				out = Image{Data: inline.Data, MimeType: inline.MimeType}
				return nil
			}
			c.logger.Warn("image model returned no image", "model", model)
		}
		return ErrAllImageModels
	})
	return out, err
}
