package gemini

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"topaz-studio/internal/credentials"
)

type recorded struct {
	path string
	key  string
	body generateContentRequest
}

type fakeAPI struct {
	mu       sync.Mutex
	calls    []recorded
	respond  func(r recorded) (int, any)
	srv      *httptest.Server
	rawPaths []string
}

func newFakeAPI(t *testing.T, respond func(r recorded) (int, any)) *fakeAPI {
	t.Helper()
	f := &fakeAPI{respond: respond}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{path: r.URL.Path, key: r.Header.Get("x-goog-api-key")}
		if r.Method == http.MethodPost {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		f.mu.Lock()
		f.calls = append(f.calls, rec)
		f.rawPaths = append(f.rawPaths, r.URL.RequestURI())
		f.mu.Unlock()

		status, payload := f.respond(rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) client(opts Options) *Client {
	opts.BaseURL = f.srv.URL
	opts.HTTPClient = f.srv.Client()
	if opts.RetryDelay == 0 {
		opts.RetryDelay = time.Millisecond
	}
	return New(opts)
}

func (f *fakeAPI) recorded() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.calls...)
}

func imageResponse(mime, data string) map[string]any {
	return map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{"parts": []any{
				map[string]any{"text": "here you go"},
				map[string]any{"inlineData": map[string]any{"mimeType": mime, "data": data}},
			}},
		}},
	}
}

func textResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{"parts": []any{map[string]any{"text": text}}},
		}},
	}
}

func errorResponse(code int, msg string) map[string]any {
	return map[string]any{"error": map[string]any{"code": code, "message": msg}}
}

func TestGenerateImage_FirstModel(t *testing.T) {
	api := newFakeAPI(t, func(r recorded) (int, any) {
		return http.StatusOK, imageResponse("image/png", "QUJD")
	})
	c := api.client(Options{APIKey: "default-key-123"})

	img, err := c.GenerateImage(context.Background(), "a cat", []Image{{Data: "data:image/jpeg;base64,UkVG", MimeType: "image/jpeg"}}, "9:16")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Data != "QUJD" || img.MimeType != "image/png" {
		t.Errorf("image = %+v", img)
	}

	calls := api.recorded()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	if calls[0].path != "/v1beta/models/gemini-2.5-flash-image:generateContent" {
		t.Errorf("path = %q", calls[0].path)
	}
	if calls[0].key != "default-key-123" {
		t.Errorf("key = %q", calls[0].key)
	}
	cfg := calls[0].body.GenerationConfig.ImageConfig
	if cfg == nil || cfg.AspectRatio != "9:16" {
		t.Errorf("imageConfig = %+v", cfg)
	}
	parts := calls[0].body.Contents[0].Parts
	if len(parts) != 2 || parts[0].Text != "a cat" || parts[1].InlineData.Data != "UkVG" {
		t.Errorf("parts = %+v", parts)
	}
}

func TestGenerateImage_FallsThroughModels(t *testing.T) {
	api := newFakeAPI(t, func(r recorded) (int, any) {
		if strings.Contains(r.path, "gemini-2.5-flash-image") {
			return http.StatusNotFound, errorResponse(404, "model not found")
		}
		return http.StatusOK, imageResponse("image/png", "WFla")
	})
	c := api.client(Options{APIKey: "default-key-123"})

	img, err := c.GenerateImage(context.Background(), "p", nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Data != "WFla" {
		t.Errorf("image data = %q", img.Data)
	}

	calls := api.recorded()
	if len(calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(calls))
	}
	if calls[1].body.GenerationConfig.ImageConfig != nil {
		t.Error("imageConfig should be omitted for non-image models")
	}
}

func TestGenerateImage_NoImageAnywhere(t *testing.T) {
	api := newFakeAPI(t, func(r recorded) (int, any) {
		return http.StatusOK, textResponse("sorry")
	})
	c := api.client(Options{APIKey: "default-key-123", Attempts: 1})

	_, err := c.GenerateImage(context.Background(), "p", nil, "1:1")
	if !errors.Is(err, ErrAllImageModels) {
		t.Fatalf("err = %v, want ErrAllImageModels", err)
	}
}

func TestRetry_RateLimitRotatesPool(t *testing.T) {
	api := newFakeAPI(t, func(r recorded) (int, any) {
		if r.key == "pool-key-A" {
			return http.StatusTooManyRequests, errorResponse(429, "Resource has been exhausted (e.g. check quota).")
		}
		return http.StatusOK, textResponse("hello")
	})
	c := api.client(Options{KeyPool: []string{"pool-key-A", "pool-key-B"}})

	text, err := c.GenerateText(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello" {
		t.Errorf("text = %q", text)
	}
	if got := c.pool.Current(); got != "pool-key-B" {
		t.Errorf("pool current = %q, want pool-key-B", got)
	}
}

func TestRetry_InvalidCustomKeyFailsFast(t *testing.T) {
	api := newFakeAPI(t, func(r recorded) (int, any) {
		return http.StatusBadRequest, errorResponse(400, "API key not valid. Please pass a valid API key.")
	})

	store := credentials.NewMemoryStore()
	ctx := credentials.WithOwner(context.Background(), "session-1")
	if err := credentials.Save(ctx, store, "session-1", credentials.Gemini, "user-key-0123456789"); err != nil {
		t.Fatalf("save: %v", err)
	}
	c := api.client(Options{APIKey: "default-key-123", Credentials: store, Attempts: 3})

	_, err := c.GenerateText(ctx, "hi", nil)
	if !errors.Is(err, ErrInvalidUserKey) {
		t.Fatalf("err = %v, want ErrInvalidUserKey", err)
	}

	calls := api.recorded()
	if len(calls) != len(textModels) {
		t.Errorf("calls = %d, want one pass over %d models", len(calls), len(textModels))
	}
	for _, call := range calls {
		if call.key != "user-key-0123456789" {
			t.Errorf("key = %q, want user key", call.key)
		}
	}
}

func TestRetry_NoKey(t *testing.T) {
	c := New(Options{HTTPClient: http.DefaultClient})
	if _, err := c.GenerateText(context.Background(), "hi", nil); !errors.Is(err, ErrNoKey) {
		t.Fatalf("err = %v, want ErrNoKey", err)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	api := newFakeAPI(t, func(r recorded) (int, any) {
		return http.StatusInternalServerError, errorResponse(500, "boom")
	})
	c := api.client(Options{APIKey: "default-key-123", Attempts: 3, RetryDelay: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.GenerateText(ctx, "hi", nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("retry sleep did not honour cancellation")
	}
}

func TestGenerateText_FallsThroughModels(t *testing.T) {
	api := newFakeAPI(t, func(r recorded) (int, any) {
		if strings.Contains(r.path, "gemini-3-flash-preview") {
			return http.StatusNotFound, errorResponse(404, "not found")
		}
		return http.StatusOK, textResponse("from fallback")
	})
	c := api.client(Options{APIKey: "default-key-123"})

	text, err := c.GenerateText(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "from fallback" {
		t.Errorf("text = %q", text)
	}
	calls := api.recorded()
	if len(calls) != 2 || !strings.Contains(calls[1].path, "gemini-2.0-flash-exp") {
		t.Errorf("calls = %+v", calls)
	}
}

func TestGenerateSpeech_WrapsWAV(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6}
	api := newFakeAPI(t, func(r recorded) (int, any) {
		return http.StatusOK, imageResponse("audio/L16;rate=24000", base64.StdEncoding.EncodeToString(pcm))
	})
	c := api.client(Options{APIKey: "default-key-123"})

	wav, err := c.GenerateSpeech(context.Background(), "halo", "")
	if err == nil {
		t.Fatal("expected error when audio is not the first part")
	}

	api.respond = func(r recorded) (int, any) {
		return http.StatusOK, map[string]any{"candidates": []any{map[string]any{
			"content": map[string]any{"parts": []any{map[string]any{
				"inlineData": map[string]any{"mimeType": "audio/L16", "data": base64.StdEncoding.EncodeToString(pcm)},
			}}},
		}}}
	}
	wav, err = c.GenerateSpeech(context.Background(), "halo", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wav) != 44+len(pcm) || string(wav[:4]) != "RIFF" {
		t.Fatalf("wav header invalid, len=%d", len(wav))
	}

	calls := api.recorded()
	last := calls[len(calls)-1]
	if !strings.Contains(last.path, speechModel) {
		t.Errorf("path = %q", last.path)
	}
	sc := last.body.GenerationConfig.SpeechConfig
	if sc == nil || sc.VoiceConfig == nil || sc.VoiceConfig.PrebuiltVoiceConfig.VoiceName != "Kore" {
		t.Errorf("speechConfig = %+v", sc)
	}
}

func audioOK(r recorded) (int, any) {
	return http.StatusOK, map[string]any{"candidates": []any{map[string]any{
		"content": map[string]any{"parts": []any{map[string]any{
			"inlineData": map[string]any{"mimeType": "audio/L16", "data": "AAAA"},
		}}},
	}}}
}

func TestGenerateDialogue_Pairings(t *testing.T) {
	first := func(voices []string) string { return voices[0] }

	tests := []struct {
		name    string
		pairing Pairing
		want    [2]string
	}{
		{"male female", PairingMF, [2]string{"Puck", "Zephyr"}},
		{"two males", PairingMM, [2]string{"Puck", "Fenrir"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t, audioOK)
			c := api.client(Options{APIKey: "default-key-123", PickVoice: first})

			lines := []DialogueLine{
				{Speaker: "Naufal", Text: "Ayo masuk!"},
				{Speaker: "Shanum", Text: "Aku takut."},
				{Speaker: "Naufal", Text: "Tenang saja."},
			}
			if _, err := c.GenerateDialogue(context.Background(), lines, tt.pairing); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			body := api.recorded()[0].body
			wantPrompt := "Naufal: \"Ayo masuk!\"\nShanum: \"Aku takut.\"\nNaufal: \"Tenang saja.\""
			if got := body.Contents[0].Parts[0].Text; got != wantPrompt {
				t.Errorf("prompt = %q", got)
			}
			cfgs := body.GenerationConfig.SpeechConfig.MultiSpeakerVoiceConfig.SpeakerVoiceConfigs
			if len(cfgs) != 2 {
				t.Fatalf("speaker configs = %d", len(cfgs))
			}
			if cfgs[0].Speaker != "Naufal" || cfgs[1].Speaker != "Shanum" {
				t.Errorf("speakers = %q, %q", cfgs[0].Speaker, cfgs[1].Speaker)
			}
			got := [2]string{cfgs[0].VoiceConfig.PrebuiltVoiceConfig.VoiceName, cfgs[1].VoiceConfig.PrebuiltVoiceConfig.VoiceName}
			if got != tt.want {
				t.Errorf("voices = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateDialogue_DefaultSpeakers(t *testing.T) {
	api := newFakeAPI(t, audioOK)
	c := api.client(Options{APIKey: "default-key-123"})

	if _, err := c.GenerateDialogue(context.Background(), []DialogueLine{{Speaker: "Solo", Text: "hi"}}, PairingMM); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfgs := api.recorded()[0].body.GenerationConfig.SpeechConfig.MultiSpeakerVoiceConfig.SpeakerVoiceConfigs
	if cfgs[0].Speaker != "Solo" || cfgs[1].Speaker != "Speaker2" {
		t.Errorf("speakers = %q, %q", cfgs[0].Speaker, cfgs[1].Speaker)
	}
	if cfgs[0].VoiceConfig.PrebuiltVoiceConfig.VoiceName == cfgs[1].VoiceConfig.PrebuiltVoiceConfig.VoiceName {
		t.Error("MM pairing should use two distinct voices")
	}
}

func TestGenerateStockMetadata_JoinsKeywordArray(t *testing.T) {
	api := newFakeAPI(t, func(r recorded) (int, any) {
		return http.StatusOK, textResponse(`{"title":"Red apple - Generative AI","keywords":["apple","fruit","red"],"category_id":7}`)
	})
	c := api.client(Options{APIKey: "default-key-123"})

	meta, err := c.GenerateStockMetadata(context.Background(), "describe", Image{Data: "QUJD", MimeType: "image/png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := StockMetadata{Title: "Red apple - Generative AI", Keywords: "apple, fruit, red", CategoryID: 7}
	if meta != want {
		t.Errorf("meta = %+v, want %+v", meta, want)
	}

	cfg := api.recorded()[0].body.GenerationConfig
	if cfg.ResponseMimeType != "application/json" || cfg.ResponseSchema == nil {
		t.Errorf("generationConfig = %+v", cfg)
	}
	if len(cfg.ResponseSchema.Required) != 3 {
		t.Errorf("required = %v", cfg.ResponseSchema.Required)
	}
}

func TestParseStockMetadata_StringKeywords(t *testing.T) {
	meta, err := parseStockMetadata(`{"title":"t","keywords":"a, b","category_id":11.0}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Keywords != "a, b" || meta.CategoryID != 11 {
		t.Errorf("meta = %+v", meta)
	}
	if _, err := parseStockMetadata("not json"); err == nil {
		t.Error("expected decode error")
	}
}

func TestGenerateVideo_PollsAndDownloads(t *testing.T) {
	var api *fakeAPI
	polls := 0
	api = newFakeAPI(t, func(r recorded) (int, any) {
		switch {
		case strings.HasSuffix(r.path, ":predictLongRunning"):
			return http.StatusOK, map[string]any{"name": "operations/op-1"}
		case r.path == "/v1beta/operations/op-1":
			polls++
			if polls < 2 {
				return http.StatusOK, map[string]any{"name": "operations/op-1", "done": false}
			}
			return http.StatusOK, map[string]any{
				"name": "operations/op-1",
				"done": true,
				"response": map[string]any{"generateVideoResponse": map[string]any{
					"generatedSamples": []any{map[string]any{"video": map[string]any{"uri": api.srv.URL + "/files/vid?alt=media"}}},
				}},
			}
		case r.path == "/files/vid":
			return http.StatusOK, "video-bytes"
		}
		return http.StatusNotFound, errorResponse(404, "unexpected "+r.path)
	})
	c := api.client(Options{APIKey: "default-key-123", PollInterval: time.Millisecond})

	video, err := c.GenerateVideo(context.Background(), VideoRequest{
		StartImage: &Image{Data: "QUJD", MimeType: "image/jpeg"},
		Engine:     "quality",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(video.Data), "video-bytes") {
		t.Errorf("video data = %q", video.Data)
	}
	if polls != 2 {
		t.Errorf("polls = %d, want 2", polls)
	}

	calls := api.recorded()
	if !strings.Contains(calls[0].path, videoModelQuality) {
		t.Errorf("model path = %q", calls[0].path)
	}
	last := api.rawPaths[len(api.rawPaths)-1]
	if !strings.Contains(last, "alt=media&key=default-key-123") {
		t.Errorf("download uri = %q", last)
	}
}

func TestGenerateVideo_NoURI(t *testing.T) {
	api := newFakeAPI(t, func(r recorded) (int, any) {
		return http.StatusOK, map[string]any{"name": "operations/op-2", "done": true, "response": map[string]any{}}
	})
	c := api.client(Options{APIKey: "default-key-123", Attempts: 1})

	if _, err := c.GenerateVideo(context.Background(), VideoRequest{}); !errors.Is(err, ErrNoVideo) {
		t.Fatalf("err = %v, want ErrNoVideo", err)
	}
}

func TestWrapPCM_Header(t *testing.T) {
	wav := WrapPCM(make([]byte, 100))

	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Fatal("missing chunk markers")
	}
	if got := binary.LittleEndian.Uint32(wav[4:]); got != 136 {
		t.Errorf("riff size = %d, want 136", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:]); got != 24000 {
		t.Errorf("sample rate = %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[28:]); got != 48000 {
		t.Errorf("byte rate = %d", got)
	}
	if got := binary.LittleEndian.Uint16(wav[34:]); got != 16 {
		t.Errorf("bits per sample = %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:]); got != 100 {
		t.Errorf("data size = %d", got)
	}
}

func TestKeyPool_Rotation(t *testing.T) {
	pool := NewKeyPool([]string{"a", " ", "b", "c"})
	if pool.Len() != 3 {
		t.Fatalf("len = %d, want 3", pool.Len())
	}

	steps := []string{"b", "c", "a"}
	for i, want := range steps {
		pool.Rotate()
		if got := pool.Current(); got != want {
			t.Errorf("step %d: current = %q, want %q", i, got, want)
		}
	}
}

func TestKeyPool_SingleKey(t *testing.T) {
	pool := NewKeyPool([]string{"only"})
	old, next := pool.Rotate()
	if old != 0 || next != 0 || pool.Current() != "only" {
		t.Errorf("rotate = %d -> %d, current %q", old, next, pool.Current())
	}
}

func TestAPIError_KeepsStatusInMessage(t *testing.T) {
	err := newAPIError(429, []byte(`{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`))
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !isRateLimit(err) {
		t.Error("expected rate limit classification")
	}
}
