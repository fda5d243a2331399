package studio

import (
	"errors"
	"strings"
)

var (
	ErrBusy             = errors.New("generation already in progress")
	ErrNoImage          = errors.New("slot has no image")
	ErrNotConvertible   = errors.New("only model and product images can become a video review")
	ErrEmptyInstruction = errors.New("edit instruction is empty")

	ErrNoScript    = errors.New("Script cerita belum dibuat. Generate Project terlebih dahulu.")
	ErrNoNarration = errors.New("Tidak ditemukan narasi (🎙️) dalam script.")
	ErrNoSpoken    = errors.New("Tidak ditemukan Dialog atau Narasi dalam script.")
	ErrNoDialogue  = errors.New("Tidak ditemukan dialog karakter (🗣️) dalam script.")
)

// UserMessage turns err into the short text shown to the user. Provider
// status codes map to fixed messages; anything else is shown as is.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if msg == "" {
		msg = fallback
	}
	switch {
	case strings.Contains(msg, "404"):
		return "Model not found (Check Key Access)."
	case strings.Contains(msg, "403"), strings.Contains(msg, "401"):
		return "Invalid API Key or Unauthorized."
	case strings.Contains(msg, "429"), strings.Contains(strings.ToLower(msg), "quota"):
		return "Quota Exceeded (Limit). Check your API Key."
	}
	return msg
}
