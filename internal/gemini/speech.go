package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"slices"
	"strings"
)

const speechModel = "gemini-2.5-flash-preview-tts"

var (
	MaleVoices   = []string{"Puck", "Fenrir", "Charon"}
	FemaleVoices = []string{"Zephyr", "Kore", "Aoede"}
)

// GenerateSpeech returns a WAV file for a single voice.
func (c *Client) GenerateSpeech(ctx context.Context, text, voice string) ([]byte, error) {
	if voice == "" {
		voice = "Kore"
	}
	cfg := &speechConfig{VoiceConfig: &voiceConfig{PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voice}}}
	return c.speak(ctx, text, cfg, ErrNoAudio)
}

// GenerateDialogue voices the first two distinct speakers of lines.
func (c *Client) GenerateDialogue(ctx context.Context, lines []DialogueLine, pairing Pairing) ([]byte, error) {
	var speakers []string
	var prompt strings.Builder
	for i, l := range lines {
		if !slices.Contains(speakers, l.Speaker) {
			speakers = append(speakers, l.Speaker)
		}
		if i > 0 {
			prompt.WriteByte('\n')
		}
		fmt.Fprintf(&prompt, "%s: \"%s\"", l.Speaker, l.Text)
	}

	speakerA, speakerB := "Speaker1", "Speaker2"
	if len(speakers) > 0 {
		speakerA = speakers[0]
	}
	if len(speakers) > 1 {
		speakerB = speakers[1]
	}

	voiceA, voiceB := c.pickPair(pairing)
	cfg := &speechConfig{MultiSpeakerVoiceConfig: &multiSpeakerVoiceConfig{
		SpeakerVoiceConfigs: []speakerVoiceConfig{
			{Speaker: speakerA, VoiceConfig: voiceConfig{PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voiceA}}},
			{Speaker: speakerB, VoiceConfig: voiceConfig{PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voiceB}}},
		},
	}}
	return c.speak(ctx, prompt.String(), cfg, ErrNoDialogueAudio)
}

func (c *Client) pickPair(pairing Pairing) (string, string) {
	a := c.pickVoice(MaleVoices)
	if pairing == PairingMF {
		return a, c.pickVoice(FemaleVoices)
	}
	remaining := slices.DeleteFunc(slices.Clone(MaleVoices), func(v string) bool { return v == a })
	if len(remaining) == 0 {
		return a, a
	}
	return a, c.pickVoice(remaining)
}

func (c *Client) speak(ctx context.Context, text string, cfg *speechConfig, missing error) ([]byte, error) {
	var out []byte
	err := c.withRetry(ctx, func(key string) error {
		resp, err := c.generateContent(ctx, key, speechModel, generateContentRequest{
			Contents: []content{{Parts: []part{{Text: text}}}},
			GenerationConfig: generationConfig{
				ResponseModalities: []string{"AUDIO"},
				SpeechConfig:       cfg,
			},
		})
		if err != nil {
			return err
		}

		if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 ||
			resp.Candidates[0].Content.Parts[0].InlineData == nil || resp.Candidates[0].Content.Parts[0].InlineData.Data == "" {
			return missing
		}

		pcm, err := base64.StdEncoding.DecodeString(resp.Candidates[0].Content.Parts[0].InlineData.Data)
		if err != nil {
			return fmt.Errorf("decode audio: %w", err)
		}
		out = WrapPCM(pcm)
		return nil
	})
	return out, err
}
