package textgen

import (
	"context"
	"errors"
	"testing"

	"topaz-studio/internal/gemini"
)

type fakeGrok struct {
	hasKey bool
	text   string
	err    error
	calls  int
}

func (f *fakeGrok) HasKey(context.Context) bool { return f.hasKey }

func (f *fakeGrok) Chat(context.Context, string, string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeGemini struct {
	text   string
	calls  int
	images int
}

func (f *fakeGemini) GenerateText(_ context.Context, _ string, images []gemini.Image) (string, error) {
	f.calls++
	f.images = len(images)
	return f.text, nil
}

func TestRouter_Generate(t *testing.T) {
	tests := []struct {
		name       string
		grok       *fakeGrok
		images     []gemini.Image
		want       string
		grokCalls  int
		geminiCall int
	}{
		{"grok preferred", &fakeGrok{hasKey: true, text: "from grok"}, nil, "from grok", 1, 0},
		{"grok failure falls back", &fakeGrok{hasKey: true, err: errors.New("Invalid API Key (Grok)")}, nil, "from gemini", 1, 1},
		{"images skip grok", &fakeGrok{hasKey: true, text: "from grok"}, []gemini.Image{{Data: "QQ=="}}, "from gemini", 0, 1},
		{"no grok key", &fakeGrok{}, nil, "from gemini", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gem := &fakeGemini{text: "from gemini"}
			r := New(tt.grok, gem, nil)

			got, err := r.Generate(context.Background(), "prompt", tt.images)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Generate = %q, want %q", got, tt.want)
			}
			if tt.grok.calls != tt.grokCalls || gem.calls != tt.geminiCall {
				t.Errorf("calls grok=%d gemini=%d, want %d/%d", tt.grok.calls, gem.calls, tt.grokCalls, tt.geminiCall)
			}
		})
	}
}

func TestRouter_NilGrok(t *testing.T) {
	gem := &fakeGemini{text: "ok"}
	r := New(nil, gem, nil)
	if r.HasGrok(context.Background()) {
		t.Error("HasGrok should be false")
	}
	if got, _ := r.Generate(context.Background(), "p", nil); got != "ok" {
		t.Errorf("Generate = %q", got)
	}
}
