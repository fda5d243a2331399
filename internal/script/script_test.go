package script

import (
	"reflect"
	"strings"
	"testing"
)

const sampleScript = `Berikut naskahnya.
---
[SCENE 1: INTRO / AWAL - GROK 6s]
🎙️ NARASI: "Pagi itu hutan terasa berbeda."
⏱️ VISUAL ACTION (SCENE)
⏱️ 0-6 Detik Breakdown:
• 0-2s: (Naufal berjalan di jalan setapak)
🔊 (Efek suara: Burung berkicau)
🗣️ Naufal: "Shanum, lihat itu!"
• 2-4s: (Shanum menoleh)
🗣️ Shanum: “Apa itu?”

[SCENE 1: INTRO / AWAL - VEO 6s]
⏱️ Video Motion: Slow dolly in, low angle.
ADEGAN_VISUAL: Dua anak di hutan berkabut, cahaya pagi keemasan.
---
[SCENE 2: PEMICU CERITA - GROK 6s]
🎙️ NARASI: Sebuah peti tua muncul dari tanah.
🗣️ Naufal: "Ayo buka!"
[SCENE 2: PEMICU CERITA - VEO 6s]
⏱️ Video Motion: Close up on the chest.
ADEGAN_VISUAL: Peti kayu berukir di antara akar pohon.
---
short
---`

func TestParseStory(t *testing.T) {
	scenes, grok, veo := ParseStory(sampleScript)

	first := scenes[0]
	if first.ID != 0 || first.Name != "SCENE 1: INTRO / AWAL" {
		t.Errorf("scene 0 identity = %d %q", first.ID, first.Name)
	}
	if !strings.HasPrefix(first.GrokScript, "[SCENE 1: INTRO / AWAL - GROK 6s]") {
		t.Errorf("grok block start = %q", first.GrokScript)
	}
	if !strings.HasSuffix(first.GrokScript, `🗣️ Shanum: “Apa itu?”`) {
		t.Errorf("grok block end = %q", first.GrokScript)
	}
	if strings.Contains(first.GrokScript, "VEO") {
		t.Error("grok block must stop before the VEO header")
	}
	if first.VeoScript != "[SCENE 1: INTRO / AWAL - VEO 6s]\n⏱️ Video Motion: Slow dolly in, low angle." {
		t.Errorf("veo block = %q", first.VeoScript)
	}
	if first.Desc != "Dua anak di hutan berkabut, cahaya pagi keemasan." {
		t.Errorf("desc = %q", first.Desc)
	}

	if scenes[1].Desc != "Peti kayu berukir di antara akar pohon." {
		t.Errorf("scene 1 desc = %q", scenes[1].Desc)
	}

	for i := 2; i < 6; i++ {
		s := scenes[i]
		if s.GrokScript != "" || s.VeoScript != "" || s.Desc != "" {
			t.Errorf("scene %d should be empty, got %+v", i, s)
		}
		if s.Name == "" || s.ID != i {
			t.Errorf("scene %d should keep its table name and id, got %+v", i, s)
		}
	}

	if want := first.GrokScript + "\n\n" + scenes[1].GrokScript; grok != want {
		t.Errorf("grok bucket = %q", grok)
	}
	if want := first.VeoScript + "\n\n" + scenes[1].VeoScript; veo != want {
		t.Errorf("veo bucket = %q", veo)
	}
}

func TestParseStory_PreambleIsAChunk(t *testing.T) {
	// A preamble longer than the chunk threshold takes slot 0, as the raw
	// split does. Only headed text is extracted from it.
	raw := "This is a long introduction from the model.\n---\n[SCENE 1: X - GROK 6s]\nbody text here"
	scenes, _, _ := ParseStory(raw)
	if scenes[0].GrokScript != "" {
		t.Errorf("scene 0 grok = %q", scenes[0].GrokScript)
	}
	if scenes[1].GrokScript != "[SCENE 1: X - GROK 6s]\nbody text here" {
		t.Errorf("scene 1 grok = %q", scenes[1].GrokScript)
	}
}

func TestDialogue(t *testing.T) {
	got := Dialogue(sampleScript)
	want := []Line{
		{Speaker: "Naufal", Text: "Shanum, lihat itu!"},
		{Speaker: "Shanum", Text: "Apa itu?"},
		{Speaker: "Naufal", Text: "Ayo buka!"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dialogue = %+v", got)
	}

	if got := Dialogue("🗣️ no colon here\n🗣️ : \"x\"\n🗣️ Ana:"); len(got) != 0 {
		t.Errorf("malformed lines should be skipped, got %+v", got)
	}
}

func TestNarration(t *testing.T) {
	got := Narration(sampleScript)
	want := "Pagi itu hutan terasa berbeda.. Sebuah peti tua muncul dari tanah.. "
	if got != want {
		t.Errorf("Narration = %q, want %q", got, want)
	}
	if Narration("🗣️ A: \"hi\"") != "" {
		t.Error("dialogue lines are not narration")
	}
}

func TestFullDialogue(t *testing.T) {
	got := FullDialogue(sampleScript)
	want := "Pagi itu hutan terasa berbeda.. Shanum, lihat itu!. Apa itu?. Sebuah peti tua muncul dari tanah.. Ayo buka!. "
	if got != want {
		t.Errorf("FullDialogue = %q, want %q", got, want)
	}
}

func TestGrokBlock_HeaderStopsAtBracket(t *testing.T) {
	chunk := "[SCENE 2: catatan] pembuka\n[SCENE 2: HUTAN - GROK 6s]\nkamera maju pelan"
	want := "[SCENE 2: HUTAN - GROK 6s]\nkamera maju pelan"
	if got := grokBlock(chunk); got != want {
		t.Errorf("grokBlock = %q, want %q", got, want)
	}
}
