package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"topaz-studio/internal/microstock"
	"topaz-studio/internal/studio"
)

func stockListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, stockResponse(sessionFrom(r).Stock))
	}
}

func stockUploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 4*maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			badRequestError(w, "invalid multipart form")
			return
		}
		files := r.MultipartForm.File["files"]
		if len(files) == 0 {
			badRequestError(w, "missing files")
			return
		}

		batch := sessionFrom(r).Stock
		for _, fh := range files {
			f, err := fh.Open()
			if err != nil {
				badRequestError(w, "failed to read "+fh.Filename)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				badRequestError(w, "failed to read "+fh.Filename)
				return
			}
			batch.Add(fh.Filename, fh.Header.Get("Content-Type"), data)
		}
		writeJSON(w, http.StatusOK, stockResponse(batch))
	}
}

func stockResetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batch := sessionFrom(r).Stock
		if err := batch.Reset(); err != nil {
			writeFailure(w, err, "")
			return
		}
		writeJSON(w, http.StatusOK, stockResponse(batch))
	}
}

func stockRemoveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(chi.URLParam(r, "n"))
		if err != nil {
			badRequestError(w, "invalid index")
			return
		}
		batch := sessionFrom(r).Stock
		if err := batch.Remove(n); err != nil {
			writeFailure(w, err, "")
			return
		}
		writeJSON(w, http.StatusOK, stockResponse(batch))
	}
}

// stockProcessHandler claims the batch, then runs it in the background; each
// item change is announced as a microstock event.
func stockProcessHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Metadata == nil {
			writeError(w, http.StatusServiceUnavailable, codeUnavailable, "metadata generator not configured")
			return
		}
		var req StockProcessRequest
		if err := decodeJSON(r, &req); err != nil {
			badRequestError(w, "invalid request body")
			return
		}
		sess := sessionFrom(r)
		batch := sess.Stock
		run, err := batch.Start(cfg.Metadata, req.IsAI, func(i int, it microstock.Item) {
			cfg.Hub.Publish(studio.Event{
				Session: sess.ID,
				Type:    studio.EventStock,
				Slot:    i,
				Message: it.Status.Label(),
				At:      time.Now(),
			})
		})
		if err != nil {
			writeFailure(w, err, "")
			return
		}

		ctx, cancel := detach(r.Context(), cfg.RequestTimeout)
		go func() {
			defer cancel()
			if err := run(ctx); err != nil {
				cfg.Logger.Warn("microstock run stopped", "session_id", sess.ID, "err", err)
			}
		}()
		writeJSON(w, http.StatusAccepted, stockResponse(batch))
	}
}

func stockCSVHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := microstock.WriteCSV(&buf, sessionFrom(r).Stock.Items()); err != nil {
			writeError(w, http.StatusInternalServerError, codeInternal, "failed to build csv")
			return
		}
		w.Header().Set("Content-Type", "text/csv;charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", microstock.CSVFilename(time.Now())))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}
