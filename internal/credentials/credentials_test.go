package credentials

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestClean(t *testing.T) {
	if got := Clean(Gemini, " AIza Sy\nAB\tCD "); got != "AIzaSyABCD" {
		t.Errorf("Clean(gemini) = %q", got)
	}
	if got := Clean(Grok, "  xai key  "); got != "xai key" {
		t.Errorf("Clean(grok) = %q", got)
	}
}

func TestUsable(t *testing.T) {
	if Usable(Gemini, "0123456789") {
		t.Error("10-char gemini key should not be usable")
	}
	if !Usable(Gemini, "0123456789A") {
		t.Error("11-char gemini key should be usable")
	}
	if !Usable(Grok, "x") {
		t.Error("non-empty grok key should be usable")
	}
}

func TestParseProvider(t *testing.T) {
	if p, err := ParseProvider(" GROK "); err != nil || p != Grok {
		t.Errorf("ParseProvider = %q, %v", p, err)
	}
	if _, err := ParseProvider("openai"); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("err = %v, want ErrUnknownProvider", err)
	}
}

func TestSaveAndLookup_Memory(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := Save(ctx, store, "s1", Gemini, "abc"); !errors.Is(err, ErrKeyTooShort) {
		t.Fatalf("err = %v, want ErrKeyTooShort", err)
	}

	if err := Save(ctx, store, "s1", Gemini, "AIzaSy 1234567890"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Lookup(ctx, store, "s1", Gemini); got != "AIzaSy1234567890" {
		t.Errorf("Lookup = %q", got)
	}
	if got := Lookup(ctx, store, "s2", Gemini); got != "" {
		t.Errorf("other owner should see no key, got %q", got)
	}

	if err := Save(ctx, store, "s1", Gemini, "   "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Lookup(ctx, store, "s1", Gemini); got != "" {
		t.Errorf("key should be cleared, got %q", got)
	}
}

func TestLookup_ShortStoredGeminiKeyIgnored(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Set(ctx, "s1", Gemini, "1234567")

	if got := Lookup(ctx, store, "s1", Gemini); got != "" {
		t.Errorf("Lookup = %q, want empty for short key", got)
	}
}

func TestOwnerContext(t *testing.T) {
	ctx := WithOwner(context.Background(), "chat:42")
	if got := OwnerFrom(ctx); got != "chat:42" {
		t.Errorf("OwnerFrom = %q", got)
	}
	if got := OwnerFrom(context.Background()); got != "" {
		t.Errorf("OwnerFrom(empty) = %q", got)
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "credentials.db")

	store, err := OpenSQLite(path, nil)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}

	if got, err := store.Get(ctx, "s1", Grok); err != nil || got != "" {
		t.Fatalf("Get(missing) = %q, %v", got, err)
	}
	if err := store.Set(ctx, "s1", Grok, "xai-first"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, "s1", Grok, "xai-second"); err != nil {
		t.Fatalf("Set (upsert): %v", err)
	}
	if got, _ := store.Get(ctx, "s1", Grok); got != "xai-second" {
		t.Errorf("Get = %q, want xai-second", got)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenSQLite(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if got, _ := reopened.Get(ctx, "s1", Grok); got != "xai-second" {
		t.Errorf("after reopen Get = %q", got)
	}
	if err := reopened.Delete(ctx, "s1", Grok); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := reopened.Get(ctx, "s1", Grok); got != "" {
		t.Errorf("after delete Get = %q", got)
	}
}
