package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"topaz-studio/internal/credentials"
	"topaz-studio/internal/logging"
)

func listKeysHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := sessionFrom(r).ID
		writeJSON(w, http.StatusOK, KeysResponse{
			Gemini: credentials.Has(r.Context(), cfg.Credentials, owner, credentials.Gemini),
			Grok:   credentials.Has(r.Context(), cfg.Credentials, owner, credentials.Grok),
		})
	}
}

func putKeyHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider, err := credentials.ParseProvider(chi.URLParam(r, "provider"))
		if err != nil {
			writeFailure(w, err, "")
			return
		}
		var req KeyRequest
		if err := decodeJSON(r, &req); err != nil {
			badRequestError(w, "invalid request body")
			return
		}
		owner := sessionFrom(r).ID
		if err := credentials.Save(r.Context(), cfg.Credentials, owner, provider, req.Key); err != nil {
			writeFailure(w, err, "")
			return
		}
		cfg.Logger.Info("api key saved", "session_id", owner, "provider", provider,
			"key", logging.SanitizeKey(credentials.Clean(provider, req.Key)))
		listKeysHandler(cfg)(w, r)
	}
}

func deleteKeyHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider, err := credentials.ParseProvider(chi.URLParam(r, "provider"))
		if err != nil {
			writeFailure(w, err, "")
			return
		}
		if err := cfg.Credentials.Delete(r.Context(), sessionFrom(r).ID, provider); err != nil {
			writeError(w, http.StatusInternalServerError, codeInternal, "failed to delete key")
			return
		}
		listKeysHandler(cfg)(w, r)
	}
}
