package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitByBytes(t *testing.T) {
	if got := splitByBytes("short", 10); len(got) != 1 || got[0] != "short" {
		t.Fatalf("short text split: %q", got)
	}

	text := strings.Repeat("é", 7) // 14 bytes
	parts := splitByBytes(text, 5)
	if strings.Join(parts, "") != text {
		t.Fatalf("parts lost data: %q", parts)
	}
	for _, p := range parts {
		if len(p) > 5 || !utf8.ValidString(p) {
			t.Errorf("bad part %q (%d bytes)", p, len(p))
		}
	}
}

func TestTruncateByBytes(t *testing.T) {
	if got := truncateByBytes("abc", 10); got != "abc" {
		t.Errorf("got %q", got)
	}
	got := truncateByBytes("aéé", 4)
	if got != "aé" {
		t.Errorf("got %q, want %q", got, "aé")
	}
}

func TestFileName(t *testing.T) {
	if got := fileName("image", "", ".png"); got != "image.png" {
		t.Errorf("fallback = %q", got)
	}
	if got := fileName("image", "image/png", ".jpg"); got != "image.png" {
		t.Errorf("png = %q", got)
	}
}

func TestNewRejectsMissingToken(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error for empty token")
	}
}
