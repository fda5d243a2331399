package studio

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"topaz-studio/internal/gemini"
	"topaz-studio/internal/logging"
	"topaz-studio/internal/prompt"
	"topaz-studio/internal/script"
)

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, refs []gemini.Image, aspectRatio string) (gemini.Image, error)
}

// TextGenerator is the provider-fallback text router.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, images []gemini.Image) (string, error)
}

type SpeechGenerator interface {
	GenerateSpeech(ctx context.Context, text, voice string) ([]byte, error)
	GenerateDialogue(ctx context.Context, lines []gemini.DialogueLine, pairing gemini.Pairing) ([]byte, error)
}

type VideoGenerator interface {
	GenerateVideo(ctx context.Context, req gemini.VideoRequest) (gemini.Video, error)
}

type Options struct {
	Images ImageGenerator
	Text   TextGenerator
	Speech SpeechGenerator
	// Video is optional. Without it slot videos fall back to handing back
	// the scene prompt.
	Video  VideoGenerator
	Logger *slog.Logger

	// SlotStagger delays slot i by i*SlotStagger outside storyboard mode.
	SlotStagger time.Duration
	// SceneStagger delays follow-on scene k by k*SceneStagger.
	SceneStagger time.Duration
	// Intn draws the story variation. Defaults to math/rand.
	Intn func(n int) int
}

type Studio struct {
	images ImageGenerator
	text   TextGenerator
	speech SpeechGenerator
	video  VideoGenerator
	logger *slog.Logger

	slotStagger  time.Duration
	sceneStagger time.Duration
	intn         func(int) int
}

func New(opts Options) *Studio {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	slotStagger := opts.SlotStagger
	if slotStagger <= 0 {
		slotStagger = 150 * time.Millisecond
	}
	sceneStagger := opts.SceneStagger
	if sceneStagger <= 0 {
		sceneStagger = 200 * time.Millisecond
	}
	intn := opts.Intn
	if intn == nil {
		intn = rand.Intn
	}
	return &Studio{
		images:       opts.Images,
		text:         opts.Text,
		speech:       opts.Speech,
		video:        opts.Video,
		logger:       logging.WithComponent(logger, "studio"),
		slotStagger:  slotStagger,
		sceneStagger: sceneStagger,
		intn:         intn,
	}
}

// GenerateProject runs a full project generation for the workspace's
// current mode. Storyboards get a script, a strategy text, an anchor scene
// and five follow-on scenes constrained by it; every other mode fills its
// six slots concurrently.
func (s *Studio) GenerateProject(ctx context.Context, ws *Workspace) error {
	run, err := s.StartProject(ws)
	if err != nil {
		return err
	}
	return run(ctx)
}

// StartProject claims the workspace for a project run and returns the run
// itself. It fails with ErrBusy without side effects when the workspace is
// already claimed; the returned run must be called exactly once.
func (s *Studio) StartProject(ws *Workspace) (func(ctx context.Context) error, error) {
	if err := ws.begin(); err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		defer ws.end()
		return s.runProject(ctx, ws)
	}, nil
}

func (s *Studio) runProject(ctx context.Context, ws *Workspace) error {
	st := ws.Update(func(st *State) {
		st.clearOutputs()
	})
	log := s.logger.With("session", ws.ID(), "mode", st.Mode)
	log.Info("project generation started", "prompt", truncate(st.Selection.ManualPrompt, 40))

	var err error
	if st.Mode == ModeStoryboard {
		err = s.generateStoryboard(ctx, ws, st)
	} else {
		err = s.generateSlots(ctx, ws, st)
	}
	if err != nil {
		log.Error("project generation failed", "err", err)
		ws.fail(UserMessage(err, "Unknown error occurred."))
		return err
	}
	log.Info("project generation finished")
	return nil
}

func (s *Studio) generateSlots(ctx context.Context, ws *Workspace, st State) error {
	sel := st.PromptSelection()
	refs := st.ReferenceImages()

	var eg errgroup.Group
	for i := 0; i < SlotCount; i++ {
		i := i
		eg.Go(func() error {
			if err := sleep(ctx, time.Duration(i)*s.slotStagger); err != nil {
				return err
			}
			img, err := s.images.GenerateImage(ctx, prompt.SlotPrompt(sel, i, ""), refs, st.VideoRatio)
			if err != nil {
				return err
			}
			s.storeImage(ws, i, img, prompt.SlotLabel(st.Mode, i))
			return nil
		})
	}
	return eg.Wait()
}

func (s *Studio) generateStoryboard(ctx context.Context, ws *Workspace, st State) error {
	sel := st.PromptSelection()
	refs := st.ReferenceImages()

	variation := prompt.RandomVariation(s.intn)
	raw, err := s.text.Generate(ctx, prompt.StoryScriptPrompt(sel, variation), refs)
	if err != nil {
		return fmt.Errorf("story script: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		s.logger.Warn("story script came back empty", "session", ws.ID())
		return nil
	}
	scenes, grok, veo := script.ParseStory(raw)

	strategy, err := s.text.Generate(ctx, prompt.StrategyPrompt(sel), nil)
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	if strings.TrimSpace(strategy) == "" {
		strategy = "Gagal memuat strategi viral."
	}

	ws.apply(EventScripts, -1, func(st *State) {
		for i := range scenes {
			sc := scenes[i]
			st.Scenes[i] = &sc
		}
		st.Scripts = GlobalScripts{Grok: grok, Veo: veo, Caption: strategy}
	})

	anchor, err := s.images.GenerateImage(ctx, prompt.SlotPrompt(sel, 0, scenes[0].Desc), refs, st.VideoRatio)
	if err != nil {
		return fmt.Errorf("anchor scene: %w", err)
	}
	consistencyRefs := append([]gemini.Image(nil), refs...)
	if !anchor.Empty() {
		s.storeImage(ws, 0, anchor, prompt.SlotLabel(ModeStoryboard, 0))
		consistencyRefs = append(consistencyRefs, anchor)
	}

	var eg errgroup.Group
	for k := 0; k < SlotCount-1; k++ {
		i := k + 1
		k := k
		eg.Go(func() error {
			if err := sleep(ctx, time.Duration(k)*s.sceneStagger); err != nil {
				return err
			}
			p := prompt.SlotPrompt(sel, i, scenes[i].Desc)
			if !anchor.Empty() {
				p += prompt.ConsistencySuffix
			}
			img, err := s.images.GenerateImage(ctx, p, consistencyRefs, st.VideoRatio)
			if err != nil {
				return err
			}
			s.storeImage(ws, i, img, prompt.SlotLabel(ModeStoryboard, i))
			return nil
		})
	}
	return eg.Wait()
}

func (s *Studio) storeImage(ws *Workspace, id int, img gemini.Image, label string) {
	if img.Empty() {
		return
	}
	ws.apply(EventImage, id, func(st *State) {
		st.Images[id] = &GeneratedImage{ID: id, Data: img.Data, MimeType: img.MimeType, Label: label}
	})
}

// RegenerateSlot redraws one slot. Storyboard scenes after the first are
// anchored on scene 1.
func (s *Studio) RegenerateSlot(ctx context.Context, ws *Workspace, id int) error {
	if err := checkSlot(id); err != nil {
		return err
	}
	if err := ws.claimSlot(id, true); err != nil {
		return err
	}
	st := ws.Snapshot()

	refs := st.ReferenceImages()
	if st.Mode == ModeStoryboard && id > 0 && st.Images[0].hasImage() {
		refs = append(refs, st.Images[0].Image())
	}
	p := prompt.SlotPrompt(st.PromptSelection(), id, sceneDesc(st, id))
	if st.Mode == ModeStoryboard {
		p += prompt.RegenerationSuffix
	}

	img, err := s.images.GenerateImage(ctx, p, refs, st.VideoRatio)
	if err != nil {
		s.logger.Error("regenerate failed", "session", ws.ID(), "slot", id, "err", err)
		ws.releaseSlot(id)
		ws.fail(UserMessage(err, "Gagal regenerasi slot."))
		return err
	}
	s.storeImage(ws, id, img, prompt.SlotLabel(st.Mode, id))
	return nil
}

// EditSlot applies a user revision to one slot. Storyboard edits send the
// current image first so it is the inpainting target.
func (s *Studio) EditSlot(ctx context.Context, ws *Workspace, id int, instruction string) error {
	if err := checkSlot(id); err != nil {
		return err
	}
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return ErrEmptyInstruction
	}
	if err := ws.claimSlot(id, false); err != nil {
		return err
	}
	st := ws.Snapshot()
	sel := st.PromptSelection()

	refs := st.ReferenceImages()
	if st.Mode == ModeStoryboard && st.Images[id].hasImage() {
		refs = append([]gemini.Image{st.Images[id].Image()}, refs...)
	}
	base := prompt.SlotPrompt(sel, id, sceneDesc(st, id))

	img, err := s.images.GenerateImage(ctx, prompt.EditPrompt(st.Mode, instruction, base), refs, st.VideoRatio)
	if err != nil {
		s.logger.Error("edit failed", "session", ws.ID(), "slot", id, "err", err)
		ws.releaseSlot(id)
		ws.fail(UserMessage(err, "Manual edit failed."))
		return err
	}
	s.storeImage(ws, id, img, prompt.EditLabel(id))
	return nil
}

// GenerateMotion writes a video motion prompt for the slot image into the
// grok bucket.
func (s *Studio) GenerateMotion(ctx context.Context, ws *Workspace, id int) (string, error) {
	return s.slotText(ctx, ws, id, func(st State, style string) string {
		return prompt.MotionPrompt(style)
	}, func(sc *GlobalScripts, entry string) {
		sc.Grok += entry
	}, "Gagal membuat prompt gerakan.")
}

// GenerateNarration writes a 6 second ad script for the slot image into the
// veo bucket.
func (s *Studio) GenerateNarration(ctx context.Context, ws *Workspace, id int) (string, error) {
	return s.slotText(ctx, ws, id, func(st State, style string) string {
		return prompt.NarrationPrompt(style, st.Selection.ManualPrompt)
	}, func(sc *GlobalScripts, entry string) {
		sc.Veo += entry
	}, "Gagal membuat narasi iklan lengkap.")
}

func (s *Studio) slotText(
	ctx context.Context,
	ws *Workspace,
	id int,
	build func(st State, style string) string,
	appendTo func(sc *GlobalScripts, entry string),
	fallback string,
) (string, error) {
	if err := checkSlot(id); err != nil {
		return "", err
	}
	st := ws.Snapshot()
	if !st.Images[id].hasImage() {
		return "", ErrNoImage
	}
	if err := ws.claimSlot(id, false); err != nil {
		return "", err
	}
	defer ws.releaseSlot(id)

	style := prompt.VideoStyle(id)
	img := gemini.Image{Data: st.Images[id].Data, MimeType: "image/png"}
	result, err := s.text.Generate(ctx, build(st, style), []gemini.Image{img})
	if err != nil {
		s.logger.Error("slot text failed", "session", ws.ID(), "slot", id, "err", err)
		ws.fail(UserMessage(err, fallback))
		return "", err
	}

	entry := fmt.Sprintf("\n[SCENE %d: %s]\n%s\n", id+1, style, result)
	ws.apply(EventScripts, id, func(st *State) {
		appendTo(&st.Scripts, entry)
	})
	return result, nil
}

// ConvertToVideoReview turns a model or product result into the single
// reference of a video review project and asks for caption options.
func (s *Studio) ConvertToVideoReview(ctx context.Context, ws *Workspace, id int) error {
	if err := checkSlot(id); err != nil {
		return err
	}
	st := ws.Snapshot()
	if st.Mode != ModeModel && st.Mode != ModeProduct {
		return ErrNotConvertible
	}
	if !st.Images[id].hasImage() {
		return ErrNoImage
	}
	if err := ws.begin(); err != nil {
		return err
	}
	defer ws.end()

	img := st.Images[id].Image()
	if img.MimeType == "" {
		img.MimeType = "image/png"
	}
	ws.Update(func(st *State) {
		st.Mode = ModeVideoReview
		st.ProductSlots = [ReferenceSlots]gemini.Image{img}
		for i, g := range st.Images {
			if g != nil {
				g.Label = prompt.VideoStyle(i)
			}
		}
	})

	caption, err := s.text.Generate(ctx, prompt.CaptionPrompt(), []gemini.Image{img})
	if err != nil {
		s.logger.Error("caption failed", "session", ws.ID(), "err", err)
		ws.fail("Gagal membuat rekomendasi caption.")
		return err
	}
	if strings.TrimSpace(caption) == "" {
		caption = "Gagal membuat caption."
	}
	ws.apply(EventScripts, -1, func(st *State) {
		st.Scripts.Caption = caption
	})
	return nil
}

// VideoResult is either a rendered clip or, without a video provider, the
// prompt to paste into an external generator.
type VideoResult struct {
	Prompt string
	Video  *gemini.Video
}

// GenerateSlotVideo animates the slot image. The prompt is the scene's GROK
// block, else promptText, else a generic cinematic instruction.
func (s *Studio) GenerateSlotVideo(ctx context.Context, ws *Workspace, id int, promptText string) (VideoResult, error) {
	if err := checkSlot(id); err != nil {
		return VideoResult{}, err
	}
	st := ws.Snapshot()

	p := strings.TrimSpace(promptText)
	if sc := st.Scenes[id]; sc != nil && strings.TrimSpace(sc.GrokScript) != "" {
		p = sc.GrokScript
	}
	if p == "" {
		p = "Cinematic video generation"
	}
	if s.video == nil {
		return VideoResult{Prompt: p}, nil
	}
	if !st.Images[id].hasImage() {
		return VideoResult{}, ErrNoImage
	}

	if err := ws.claimSlot(id, false); err != nil {
		return VideoResult{}, err
	}
	defer ws.releaseSlot(id)

	start := st.Images[id].Image()
	video, err := s.video.GenerateVideo(ctx, gemini.VideoRequest{
		Prompt:      p,
		StartImage:  &start,
		AspectRatio: st.VideoRatio,
		Resolution:  st.VideoResolution,
		Engine:      st.VideoEngine,
	})
	if err != nil {
		s.logger.Error("video failed", "session", ws.ID(), "slot", id, "err", err)
		ws.fail(UserMessage(err, "Gagal membuat video."))
		return VideoResult{}, err
	}

	ws.apply(EventImage, id, func(st *State) {
		if g := st.Images[id]; g != nil {
			g.Video = &video
			g.VideoURI = video.URI
		}
	})
	return VideoResult{Prompt: p, Video: &video}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
