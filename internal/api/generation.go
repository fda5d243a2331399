package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"topaz-studio/internal/studio"
)

// generateHandler claims the workspace before answering, so of several
// concurrent requests exactly one gets 202 and the rest get BUSY. Progress is
// pushed over the events socket.
func generateHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		run, err := cfg.Studio.StartProject(sess.Workspace)
		if err != nil {
			writeFailure(w, err, "")
			return
		}

		ctx, cancel := detach(r.Context(), cfg.RequestTimeout)
		go func() {
			defer cancel()
			if err := run(ctx); err != nil {
				cfg.Logger.Warn("project generation failed", "session_id", sess.ID, "err", err)
			}
		}()
		writeJSON(w, http.StatusAccepted, sessionResponse(sess.ID, sess.Workspace.Snapshot()))
	}
}

type slotAction func(r *http.Request, sess *studio.Workspace, n int) (any, error)

// slotHandler runs a single-slot operation inline and answers with its result.
func slotHandler(timeout time.Duration, fallback string, action slotAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, ok := slotParam(r)
		if !ok {
			badRequestError(w, "invalid slot")
			return
		}
		ctx, cancel := detach(r.Context(), timeout)
		defer cancel()

		ws := sessionFrom(r).Workspace
		out, err := action(r.WithContext(ctx), ws, n)
		if err != nil {
			writeFailure(w, err, fallback)
			return
		}
		if out == nil {
			out = sessionResponse(ws.ID(), ws.Snapshot())
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func regenerateHandler(cfg ServerConfig) http.HandlerFunc {
	return slotHandler(cfg.RequestTimeout, "Gagal regenerasi slot.", func(r *http.Request, ws *studio.Workspace, n int) (any, error) {
		return nil, cfg.Studio.RegenerateSlot(r.Context(), ws, n)
	})
}

func editHandler(cfg ServerConfig) http.HandlerFunc {
	return slotHandler(cfg.RequestTimeout, "Manual edit failed.", func(r *http.Request, ws *studio.Workspace, n int) (any, error) {
		var req EditRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, errBadBody
		}
		return nil, cfg.Studio.EditSlot(r.Context(), ws, n, req.Instruction)
	})
}

func motionHandler(cfg ServerConfig) http.HandlerFunc {
	return slotHandler(cfg.RequestTimeout, "Gagal membuat prompt gerakan.", func(r *http.Request, ws *studio.Workspace, n int) (any, error) {
		text, err := cfg.Studio.GenerateMotion(r.Context(), ws, n)
		if err != nil {
			return nil, err
		}
		return TextResponse{Text: text}, nil
	})
}

func narrationHandler(cfg ServerConfig) http.HandlerFunc {
	return slotHandler(cfg.RequestTimeout, "Gagal membuat narasi iklan lengkap.", func(r *http.Request, ws *studio.Workspace, n int) (any, error) {
		text, err := cfg.Studio.GenerateNarration(r.Context(), ws, n)
		if err != nil {
			return nil, err
		}
		return TextResponse{Text: text}, nil
	})
}

func reviewHandler(cfg ServerConfig) http.HandlerFunc {
	return slotHandler(cfg.RequestTimeout, "Gagal membuat rekomendasi caption.", func(r *http.Request, ws *studio.Workspace, n int) (any, error) {
		return nil, cfg.Studio.ConvertToVideoReview(r.Context(), ws, n)
	})
}

func videoHandler(cfg ServerConfig) http.HandlerFunc {
	return slotHandler(cfg.VideoTimeout, "Gagal membuat video.", func(r *http.Request, ws *studio.Workspace, n int) (any, error) {
		var req VideoRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, errBadBody
		}
		res, err := cfg.Studio.GenerateSlotVideo(r.Context(), ws, n, req.Prompt)
		if err != nil {
			return nil, err
		}
		resp := VideoResponse{Prompt: res.Prompt, Rendered: res.Video != nil}
		if res.Video != nil {
			resp.VideoURI = res.Video.URI
		}
		return resp, nil
	})
}

func downloadVideoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, ok := slotParam(r)
		if !ok || n < 0 || n >= studio.SlotCount {
			badRequestError(w, "invalid slot")
			return
		}
		img := sessionFrom(r).Workspace.Snapshot().Images[n]
		if img == nil || img.Video == nil || len(img.Video.Data) == 0 {
			notFound(w, "no video for this slot")
			return
		}
		mime := img.Video.MimeType
		if mime == "" {
			mime = "video/mp4"
		}
		w.Header().Set("Content-Type", mime)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(img.Video.Data)
	}
}

func audioHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := studio.ParseAudioKind(chi.URLParam(r, "kind"))
		if !ok {
			badRequestError(w, "unknown audio kind")
			return
		}
		ctx, cancel := detach(r.Context(), cfg.RequestTimeout)
		defer cancel()

		wav, err := cfg.Studio.GenerateAudio(ctx, sessionFrom(r).Workspace, kind)
		if err != nil {
			writeFailure(w, err, "Gagal membuat audio.")
			return
		}
		writeWAV(w, wav)
	}
}

func downloadAudioHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := studio.ParseAudioKind(chi.URLParam(r, "kind"))
		if !ok {
			badRequestError(w, "unknown audio kind")
			return
		}
		wav := sessionFrom(r).Workspace.Snapshot().Audio[kind]
		if len(wav) == 0 {
			notFound(w, "audio not generated yet")
			return
		}
		writeWAV(w, wav)
	}
}

func writeWAV(w http.ResponseWriter, wav []byte) {
	w.Header().Set("Content-Type", "audio/wav")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(wav)
}
