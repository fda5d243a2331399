package studio

import (
	"context"
	"fmt"
	"strings"

	"topaz-studio/internal/gemini"
	"topaz-studio/internal/script"
)

var audioFallback = map[AudioKind]string{
	AudioNarration:    "Gagal membuat Voice Over TTS.",
	AudioFullDialogue: "Gagal membuat Full Dialog Audio.",
	AudioDialogueMF:   "Gagal membuat Dialog Cowok & Cewek.",
	AudioDialogueMM:   "Gagal membuat Dialog 2 Cowok.",
}

// GenerateAudio voices the project's grok script. The returned bytes are a
// WAV file and are also kept on the state under kind.
func (s *Studio) GenerateAudio(ctx context.Context, ws *Workspace, kind AudioKind) ([]byte, error) {
	st := ws.Snapshot()
	if strings.TrimSpace(st.Scripts.Grok) == "" {
		ws.fail(ErrNoScript.Error())
		return nil, ErrNoScript
	}

	wav, err := s.speak(ctx, st, kind)
	if err != nil {
		s.logger.Error("audio failed", "session", ws.ID(), "kind", kind, "err", err)
		ws.fail(UserMessage(err, audioFallback[kind]))
		return nil, err
	}

	ws.apply(EventAudio, -1, func(st *State) {
		st.Error = ""
		st.Audio[kind] = wav
	})
	return wav, nil
}

func (s *Studio) speak(ctx context.Context, st State, kind AudioKind) ([]byte, error) {
	raw := st.Scripts.Grok
	switch kind {
	case AudioNarration:
		text := script.Narration(raw)
		if strings.TrimSpace(text) == "" {
			return nil, ErrNoNarration
		}
		return s.speech.GenerateSpeech(ctx, text, st.Voice)
	case AudioFullDialogue:
		text := script.FullDialogue(raw)
		if strings.TrimSpace(text) == "" {
			return nil, ErrNoSpoken
		}
		return s.speech.GenerateSpeech(ctx, text, st.Voice)
	case AudioDialogueMF, AudioDialogueMM:
		parsed := script.Dialogue(raw)
		if len(parsed) == 0 {
			return nil, ErrNoDialogue
		}
		lines := make([]gemini.DialogueLine, len(parsed))
		for i, l := range parsed {
			lines[i] = gemini.DialogueLine{Speaker: l.Speaker, Text: l.Text}
		}
		pairing := gemini.PairingMF
		if kind == AudioDialogueMM {
			pairing = gemini.PairingMM
		}
		return s.speech.GenerateDialogue(ctx, lines, pairing)
	}
	return nil, fmt.Errorf("unknown audio kind %q", kind)
}
