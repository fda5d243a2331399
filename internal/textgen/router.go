// Package textgen picks the text provider for a call.
package textgen

import (
	"context"
	"log/slog"

	"topaz-studio/internal/gemini"
	"topaz-studio/internal/logging"
)

type Chatter interface {
	HasKey(ctx context.Context) bool
	Chat(ctx context.Context, prompt, system string) (string, error)
}

type Generator interface {
	GenerateText(ctx context.Context, prompt string, images []gemini.Image) (string, error)
}

type Router struct {
	grok   Chatter
	gemini Generator
	logger *slog.Logger
}

// New builds a router. grok may be nil.
func New(grok Chatter, gem Generator, logger *slog.Logger) *Router {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Router{grok: grok, gemini: gem, logger: logging.WithComponent(logger, "textgen")}
}

func (r *Router) HasGrok(ctx context.Context) bool {
	return r.grok != nil && r.grok.HasKey(ctx)
}

// Generate prefers Grok for text-only prompts and falls back to Gemini on
// any Grok failure. Prompts with images always go to Gemini.
func (r *Router) Generate(ctx context.Context, prompt string, images []gemini.Image) (string, error) {
	if len(images) == 0 && r.HasGrok(ctx) {
		text, err := r.grok.Chat(ctx, prompt, "")
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		r.logger.Warn("grok failed, falling back to gemini", "err", err)
	}
	return r.gemini.GenerateText(ctx, prompt, images)
}
