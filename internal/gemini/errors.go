package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoKey           = errors.New("no gemini api key configured")
	ErrInvalidUserKey  = errors.New("API Key Invalid. Cek kembali key Anda.")
	ErrAllImageModels  = errors.New("failed to generate image with all available models")
	ErrNoAudio         = errors.New("no audio data returned")
	ErrNoDialogueAudio = errors.New("no multi-speaker audio returned")
	ErrNoVideo         = errors.New("no video returned")
)

// APIError is a non-2xx response. Error() keeps the numeric status so
// callers classifying by substring still see "429", "403" and so on.
type APIError struct {
	Status  int
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gemini API %d", e.Status)
	}
	return fmt.Sprintf("gemini API %d: %s", e.Status, e.Message)
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Body: strings.TrimSpace(string(body))}

	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
		if envelope.Error.Status != "" {
			apiErr.Message = envelope.Error.Status + ": " + apiErr.Message
		}
	} else {
		apiErr.Message = apiErr.Body
	}
	return apiErr
}

func isRateLimit(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == 429 {
		return true
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "429") || strings.Contains(text, "quota")
}

func isInvalidKey(err error) bool {
	text := strings.ToLower(err.Error())
	if strings.Contains(text, "api key not valid") {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == 400 {
		return strings.Contains(strings.ToLower(apiErr.Body), "key") || strings.Contains(text, "key")
	}
	return false
}
