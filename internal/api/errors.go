package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"topaz-studio/internal/credentials"
	"topaz-studio/internal/microstock"
	"topaz-studio/internal/studio"
)

// Error codes carried in ErrorResponse.Code.
const (
	codeBadRequest  = "BAD_REQUEST"
	codeValidation  = "VALIDATION_ERROR"
	codeNotFound    = "NOT_FOUND"
	codeBusy        = "BUSY"
	codeUpstream    = "UPSTREAM_ERROR"
	codeUnavailable = "UNAVAILABLE"
	codeInternal    = "INTERNAL_ERROR"
)

const requestIDHeader = "X-Request-ID"

var errBadBody = errors.New("invalid request body")

var badRequest = []error{
	errBadBody,
	studio.ErrSlotRange,
	studio.ErrSlotKind,
	studio.ErrEmptyInstruction,
	studio.ErrNotConvertible,
	studio.ErrNoImage,
	studio.ErrNoScript,
	studio.ErrNoNarration,
	studio.ErrNoSpoken,
	studio.ErrNoDialogue,
	microstock.ErrNoItems,
	microstock.ErrIndex,
	credentials.ErrUnknownProvider,
	credentials.ErrKeyTooShort,
}

// writeFailure maps domain errors onto status codes. Anything unknown is
// treated as a provider failure and shown the way the studio shows it.
func writeFailure(w http.ResponseWriter, err error, fallback string) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeError(w, http.StatusBadRequest, codeValidation, verrs.Error())
		return
	case errors.Is(err, studio.ErrBusy), errors.Is(err, microstock.ErrBusy):
		writeError(w, http.StatusConflict, codeBusy, err.Error())
		return
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			badRequestError(w, err.Error())
			return
		}
	}
	writeError(w, http.StatusBadGateway, codeUpstream, studio.UserMessage(err, fallback))
}

// writeError sends the error envelope. The request id set by
// RequestIDMiddleware is echoed so a client report can be matched to the log.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: w.Header().Get(requestIDHeader),
	})
}

func badRequestError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, codeBadRequest, message)
}

func notFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, codeNotFound, message)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
