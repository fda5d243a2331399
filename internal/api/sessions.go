package api

import (
	"encoding/base64"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"topaz-studio/internal/gemini"
	"topaz-studio/internal/imageconv"
	"topaz-studio/internal/prompt"
	"topaz-studio/internal/studio"
)

func createSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := cfg.Sessions.Create()
		cfg.Logger.Info("session created", "session_id", sess.ID)
		writeJSON(w, http.StatusCreated, sessionResponse(sess.ID, sess.Workspace.Snapshot()))
	}
}

func getSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		writeJSON(w, http.StatusOK, sessionResponse(sess.ID, sess.Workspace.Snapshot()))
	}
}

func deleteSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Sessions.Delete(sessionFrom(r).ID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func eventsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		cfg.Hub.Serve(w, r, sess.ID, sessionResponse(sess.ID, sess.Workspace.Snapshot()))
	}
}

func modeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ModeRequest
		if err := decodeJSON(r, &req); err != nil {
			badRequestError(w, "invalid request body")
			return
		}
		mode, ok := prompt.ParseMode(req.Mode)
		if !ok {
			badRequestError(w, "unknown mode")
			return
		}
		sess := sessionFrom(r)
		st, err := sess.Workspace.SwitchMode(mode)
		if err != nil {
			writeFailure(w, err, "")
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse(sess.ID, st))
	}
}

func selectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var set studio.Settings
		if err := decodeJSON(r, &set); err != nil {
			badRequestError(w, "invalid request body")
			return
		}
		if err := set.Validate(); err != nil {
			writeFailure(w, err, "")
			return
		}
		sess := sessionFrom(r)
		st, err := sess.Workspace.Modify(func(st *studio.State) error { return st.Apply(set) })
		if err != nil {
			writeFailure(w, err, "")
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse(sess.ID, st))
	}
}

func putSlotHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, ok := slotParam(r)
		if !ok {
			badRequestError(w, "invalid slot")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			badRequestError(w, "invalid multipart form")
			return
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			badRequestError(w, "missing image")
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			badRequestError(w, "failed to read image")
			return
		}

		img := gemini.Image{
			Data:     base64.StdEncoding.EncodeToString(data),
			MimeType: imageconv.DetectMime(header.Header.Get("Content-Type"), data),
		}
		setSlot(w, r, n, img)
	}
}

func deleteSlotHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, ok := slotParam(r)
		if !ok {
			badRequestError(w, "invalid slot")
			return
		}
		setSlot(w, r, n, gemini.Image{})
	}
}

func setSlot(w http.ResponseWriter, r *http.Request, n int, img gemini.Image) {
	sess := sessionFrom(r)
	kind := studio.SlotKind(chi.URLParam(r, "kind"))
	st, err := sess.Workspace.Modify(func(st *studio.State) error { return st.SetSlot(kind, n, img) })
	if err != nil {
		writeFailure(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(sess.ID, st))
}
