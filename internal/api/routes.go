package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"topaz-studio/internal/prompt"
	"topaz-studio/internal/studio"
)

const maxUploadBytes = 25 << 20

func NewRouter(cfg ServerConfig) *chi.Mux {
	cfg = cfg.withDefaults()
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(RecoveryMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", catalogHandler())
		r.Post("/sessions", createSessionHandler(cfg))

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Use(SessionMiddleware(cfg.Sessions))

			r.Get("/", getSessionHandler())
			r.Delete("/", deleteSessionHandler(cfg))
			r.Get("/events", eventsHandler(cfg))
			r.Post("/mode", modeHandler())
			r.Put("/selection", selectionHandler())
			r.Put("/slots/{kind}/{n}", putSlotHandler())
			r.Delete("/slots/{kind}/{n}", deleteSlotHandler())

			r.Post("/generate", generateHandler(cfg))
			r.Post("/images/{n}/regenerate", regenerateHandler(cfg))
			r.Post("/images/{n}/edit", editHandler(cfg))
			r.Post("/images/{n}/motion", motionHandler(cfg))
			r.Post("/images/{n}/narration", narrationHandler(cfg))
			r.Post("/images/{n}/review", reviewHandler(cfg))
			r.Post("/images/{n}/video", videoHandler(cfg))
			r.Get("/images/{n}/video", downloadVideoHandler())

			r.Post("/audio/{kind}", audioHandler(cfg))
			r.Get("/audio/{kind}", downloadAudioHandler())

			r.Get("/microstock", stockListHandler())
			r.Post("/microstock", stockUploadHandler())
			r.Delete("/microstock", stockResetHandler())
			r.Delete("/microstock/{n}", stockRemoveHandler())
			r.Post("/microstock/process", stockProcessHandler(cfg))
			r.Get("/microstock/csv", stockCSVHandler())

			r.Get("/keys", listKeysHandler(cfg))
			r.Put("/keys/{provider}", putKeyHandler(cfg))
			r.Delete("/keys/{provider}", deleteKeyHandler(cfg))
		})
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:   "ok",
			UptimeS:  int64(time.Since(cfg.StartTime).Seconds()),
			Sessions: cfg.Sessions.Len(),
		})
	}
}

func catalogHandler() http.HandlerFunc {
	resp := CatalogResponse{
		Modes: []prompt.Mode{
			studio.ModeStoryboard, studio.ModeModel, studio.ModeProduct,
			studio.ModeVideoReview, studio.ModeMicrostock, studio.ModeECourse,
		},
		Categories:           prompt.Categories,
		MicrostockCategories: prompt.MicrostockCategories,
		Characters:           prompt.Characters,
		Templates:            prompt.Templates,
		StoryThemes:          prompt.StoryThemes,
		CartoonStyles:        prompt.CartoonStyles,
		ModelPresets:         prompt.ModelPresets,
		ProdCategories:       prompt.ProdCategories,
		ProdBackgrounds:      prompt.ProdBackgrounds,
		ProdPositions:        prompt.ProdPositions,
		ProdEffects:          prompt.ProdEffects,
		Voices:               prompt.Voices,
		Languages:            prompt.Languages,
		Storyboard:           prompt.StoryboardStructure,
		VideoStyles:          prompt.VideoStyles,
		AudioKinds: []studio.AudioKind{
			studio.AudioNarration, studio.AudioFullDialogue, studio.AudioDialogueMF, studio.AudioDialogueMM,
		},
		Defaults: prompt.DefaultSelection(),
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, resp)
	}
}

// detach keeps the request's values (session owner, request id) for work
// that continues after the response is written.
func detach(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func slotParam(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		return 0, false
	}
	return n, true
}
