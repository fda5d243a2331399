// Package studio holds the per-session project state and orchestrates the
// multi-stage generation calls that fill it.
package studio

import (
	"errors"
	"fmt"
	"strings"

	"topaz-studio/internal/gemini"
	"topaz-studio/internal/prompt"
	"topaz-studio/internal/script"
)

type Mode = prompt.Mode

const (
	ModeModel       = prompt.ModeModel
	ModeProduct     = prompt.ModeProduct
	ModeVideoReview = prompt.ModeVideoReview
	ModeMicrostock  = prompt.ModeMicrostock
	ModeStoryboard  = prompt.ModeStoryboard
	ModeECourse     = prompt.ModeECourse
)

const (
	SlotCount      = 6
	ReferenceSlots = 4
)

// SlotKind names one of the two reference upload rows.
type SlotKind string

const (
	SlotProduct SlotKind = "product"
	SlotFace    SlotKind = "face"
)

type AudioKind string

const (
	AudioNarration    AudioKind = "narration"
	AudioFullDialogue AudioKind = "full"
	AudioDialogueMF   AudioKind = "dialog_mf"
	AudioDialogueMM   AudioKind = "dialog_mm"
)

func ParseAudioKind(value string) (AudioKind, bool) {
	switch k := AudioKind(strings.ToLower(strings.TrimSpace(value))); k {
	case AudioNarration, AudioFullDialogue, AudioDialogueMF, AudioDialogueMM:
		return k, true
	}
	return "", false
}

var (
	ErrSlotRange = errors.New("slot index out of range")
	ErrSlotKind  = errors.New("unknown slot kind")
)

type GeneratedImage struct {
	ID         int           `json:"id"`
	Data       string        `json:"data"`
	MimeType   string        `json:"mime_type"`
	Label      string        `json:"label,omitempty"`
	Processing bool          `json:"processing"`
	VideoURI   string        `json:"video_uri,omitempty"`
	Video      *gemini.Video `json:"-"`
}

func (g *GeneratedImage) Image() gemini.Image {
	if g == nil {
		return gemini.Image{}
	}
	return gemini.Image{Data: g.Data, MimeType: g.MimeType}
}

func (g *GeneratedImage) hasImage() bool {
	return g != nil && strings.TrimSpace(g.Data) != ""
}

// GlobalScripts are the three project text buckets.
type GlobalScripts struct {
	Grok    string `json:"grok"`
	Veo     string `json:"veo"`
	Caption string `json:"caption"`
}

type State struct {
	Mode            Mode                         `json:"mode"`
	LastProjectMode Mode                         `json:"last_project_mode"`
	ProductSlots    [ReferenceSlots]gemini.Image `json:"product_slots"`
	FaceSlots       [ReferenceSlots]gemini.Image `json:"face_slots"`
	Selection       prompt.Selection             `json:"selection"`
	VideoRatio      string                       `json:"video_ratio"`
	VideoResolution string                       `json:"video_resolution"`
	VideoEngine     string                       `json:"video_engine"`
	Voice           string                       `json:"voice"`
	Images          [SlotCount]*GeneratedImage   `json:"images"`
	Scenes          [SlotCount]*script.Scene     `json:"scenes"`
	Scripts         GlobalScripts                `json:"scripts"`
	Audio           map[AudioKind][]byte         `json:"-"`
	Generating      bool                         `json:"generating"`
	Error           string                       `json:"error,omitempty"`
}

func NewState() State {
	return State{
		Mode:            ModeStoryboard,
		LastProjectMode: ModeStoryboard,
		Selection:       prompt.DefaultSelection(),
		VideoRatio:      "9:16",
		VideoResolution: "720p",
		VideoEngine:     "fast",
		Voice:           "Kore",
		Audio:           map[AudioKind][]byte{},
	}
}

// Clone deep-copies everything a caller could mutate.
func (s State) Clone() State {
	out := s
	for i, img := range s.Images {
		if img != nil {
			cp := *img
			out.Images[i] = &cp
		}
	}
	for i, sc := range s.Scenes {
		if sc != nil {
			cp := *sc
			out.Scenes[i] = &cp
		}
	}
	out.Audio = make(map[AudioKind][]byte, len(s.Audio))
	for k, v := range s.Audio {
		out.Audio[k] = v
	}
	return out
}

// AudioReady lists the audio outputs that exist.
func (s State) AudioReady() []AudioKind {
	var out []AudioKind
	for _, k := range []AudioKind{AudioNarration, AudioFullDialogue, AudioDialogueMF, AudioDialogueMM} {
		if len(s.Audio[k]) > 0 {
			out = append(out, k)
		}
	}
	return out
}

// SwitchMode moves to mode. Entering the e-course view and coming back to
// the same project keep all data; every other switch starts a clean project
// with the target mode's defaults.
func (s *State) SwitchMode(mode Mode) {
	if mode == ModeECourse {
		if s.Mode != ModeECourse {
			s.LastProjectMode = s.Mode
		}
		s.Mode = ModeECourse
		return
	}
	if s.Mode == ModeECourse && mode == s.LastProjectMode {
		s.Mode = mode
		return
	}

	s.Mode = mode
	s.LastProjectMode = mode
	s.clearOutputs()
	s.ProductSlots = [ReferenceSlots]gemini.Image{}
	s.FaceSlots = [ReferenceSlots]gemini.Image{}
	s.Error = ""

	switch mode {
	case ModeProduct, ModeModel:
		s.Selection.ManualPrompt = ""
		s.VideoRatio = "9:16"
	case ModeMicrostock:
		s.Selection.ManualPrompt = ""
		s.VideoRatio = "3:2"
		s.Selection.Category = "stock-photo"
	case ModeStoryboard:
		s.Selection.ManualPrompt = prompt.DefaultStoryPrompt
		s.VideoRatio = "9:16"
	}
}

func (s *State) clearOutputs() {
	s.Images = [SlotCount]*GeneratedImage{}
	s.Scenes = [SlotCount]*script.Scene{}
	s.Scripts = GlobalScripts{}
	s.Audio = map[AudioKind][]byte{}
}

// ReferenceImages returns the filled upload slots. The my-face model preset
// puts face slots ahead of product slots.
func (s State) ReferenceImages() []gemini.Image {
	var refs []gemini.Image
	if s.Mode == ModeModel && s.Selection.ModelPreset == "my-face" {
		refs = appendFilled(refs, s.FaceSlots[:])
	}
	return appendFilled(refs, s.ProductSlots[:])
}

func appendFilled(dst []gemini.Image, slots []gemini.Image) []gemini.Image {
	for _, slot := range slots {
		if !slot.Empty() {
			dst = append(dst, slot)
		}
	}
	return dst
}

// PromptSelection is the selection as the prompt builder sees it.
func (s State) PromptSelection() prompt.Selection {
	sel := s.Selection
	sel.Mode = s.Mode
	sel.RefCount = len(s.ReferenceImages())
	return sel
}

// SetSlot fills (or with an empty image clears) reference slot n.
func (s *State) SetSlot(kind SlotKind, n int, img gemini.Image) error {
	if n < 0 || n >= ReferenceSlots {
		return fmt.Errorf("%w: %d", ErrSlotRange, n)
	}
	switch kind {
	case SlotProduct:
		s.ProductSlots[n] = img
	case SlotFace:
		s.FaceSlots[n] = img
	default:
		return fmt.Errorf("%w: %q", ErrSlotKind, kind)
	}
	return nil
}

// NextFreeSlot returns the first empty slot of kind, or -1.
func (s State) NextFreeSlot(kind SlotKind) int {
	slots := s.ProductSlots
	if kind == SlotFace {
		slots = s.FaceSlots
	}
	for i, slot := range slots {
		if slot.Empty() {
			return i
		}
	}
	return -1
}

func (s *State) markProcessing(id int, on, create bool) {
	switch {
	case s.Images[id] != nil:
		s.Images[id].Processing = on
	case create && on:
		s.Images[id] = &GeneratedImage{ID: id, Processing: true}
	}
}

// slotBusy reports whether a single-slot operation is running.
func (s State) slotBusy() bool {
	for _, img := range s.Images {
		if img != nil && img.Processing {
			return true
		}
	}
	return false
}

func sceneDesc(s State, id int) string {
	if id < 0 || id >= SlotCount || s.Scenes[id] == nil {
		return ""
	}
	return s.Scenes[id].Desc
}

func checkSlot(id int) error {
	if id < 0 || id >= SlotCount {
		return fmt.Errorf("%w: %d", ErrSlotRange, id)
	}
	return nil
}
