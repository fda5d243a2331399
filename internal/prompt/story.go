package prompt

import (
	"fmt"
	"strings"
)

// StoryVariation makes every script request unique.
type StoryVariation struct {
	Tone        string
	VisualFocus string
	Seed        int
}

// RandomVariation draws a tone, a visual focus and a seed with intn, which
// behaves like math/rand.Intn.
func RandomVariation(intn func(int) int) StoryVariation {
	return StoryVariation{
		Tone:        NarrativeTones[intn(len(NarrativeTones))],
		VisualFocus: VisualFocuses[intn(len(VisualFocuses))],
		Seed:        intn(1000000),
	}
}

func sceneDefinitions() string {
	defs := make([]string, len(StoryboardStructure))
	for i, s := range StoryboardStructure {
		defs[i] = fmt.Sprintf("%d. %s\n   %s", i+1, s.Name, s.Desc)
	}
	return strings.Join(defs, "\n\n")
}

// StoryScriptPrompt asks for the six-scene master script. The output layout
// it requests is what script.ParseStory reads back.
func StoryScriptPrompt(sel Selection, v StoryVariation) string {
	lang := languageByCode(sel.Language)
	theme := themeByID(sel.StoryTheme)

	var b strings.Builder
	b.WriteString(lang.writer + "\n\n")

	b.WriteString("INPUT PENGGUNA:\n")
	fmt.Fprintf(&b, "1. Konsep Cerita: %q\n", sel.ManualPrompt)
	fmt.Fprintf(&b, "2. Tema: %s\n", theme.Name)
	b.WriteString("3. Karakter Utama: Lihat gambar referensi (jika ada) atau gunakan deskripsi umum.\n\n")

	b.WriteString("*** IMPORTANT RANDOMIZATION INSTRUCTIONS ***\n")
	b.WriteString("Each generation MUST be unique.\n")
	b.WriteString("CURRENT VARIATION DIRECTIVES:\n")
	fmt.Fprintf(&b, "1. %s\n", v.Tone)
	fmt.Fprintf(&b, "2. %s\n", v.VisualFocus)
	fmt.Fprintf(&b, "3. RANDOM SEED: %d (Use this to ensure dialogue and actions are unique from previous runs).\n\n", v.Seed)

	b.WriteString("REQUIRED STORY STRUCTURE (6 SCENES):\n")
	b.WriteString(sceneDefinitions() + "\n\n")

	b.WriteString("OUTPUT FORMAT (STRICTLY FOLLOW THIS HEADER STRUCTURE):\n")
	b.WriteString("Ensure each scene has \"GROK 6s\" and \"VEO 6s\" with exactly 6 seconds duration.\n")
	b.WriteString("ENSURE OUTPUT CONTAINS ALL 6 SCENES (SCENE 1 to SCENE 6).\n")
	b.WriteString("YOU MUST USE THE SEPARATOR \"---\" BETWEEN EVERY SCENE.\n\n")
	b.WriteString("IMPORTANT: IN THE \"VISUAL ACTION (SCENE)\" SECTION, YOU MUST USE THE EXACT HEADER \"0-6 Detik Breakdown\" (DO NOT TRANSLATE THIS HEADER).\n")
	b.WriteString("DO NOT CHANGE THE BULLET POINTS AND ICONS (🔊, 🗣️).\n")
	b.WriteString("DO NOT WRITE \"(SCENE)\" SEPARATELY BELOW THE HEADER.\n\n")
	b.WriteString("CREATE SPECIFIC AND UNIQUE VISUAL DETAILS DIFFERENT FROM PREVIOUS GENERATIONS.\n\n")

	b.WriteString(lang.directive + "\n")
	writeSceneTemplate(&b, v)
	b.WriteString(lang.remainder + "\n---")
	return b.String()
}

func writeSceneTemplate(b *strings.Builder, v StoryVariation) {
	first := StoryboardStructure[0].Name
	second := StoryboardStructure[1].Name

	b.WriteString("---\n")
	fmt.Fprintf(b, "[%s - GROK 6s]\n", first)
	b.WriteString("🎙️ NARASI: \"[Narasi pembuka yang unik sesuai tone]\"\n")
	b.WriteString("⏱️ VISUAL ACTION (SCENE)\n")
	b.WriteString("⏱️ 0-6 Detik Breakdown:\n")
	fmt.Fprintf(b, "• 0-2s: ([Deskripsi visual detail: Karakter A melakukan X di lokasi Y dengan gaya %s])\n", v.Tone)
	b.WriteString("🔊 (Efek suara: Angin/Langkah kaki/dll)\n")
	b.WriteString("🗣️ Karakter: \"[Dialog singkat unik]\"\n")
	b.WriteString("• 2-4s: ([Deskripsi visual detail: Reaksi/Gerakan lanjutan])\n")
	b.WriteString("🔊 (Efek suara)\n")
	b.WriteString("🗣️ Karakter: \"[Dialog/Napas]\"\n")
	b.WriteString("• 4-6s: ([Deskripsi visual detail: Klimaks scene/Transisi])\n")
	b.WriteString("🔊 (Efek suara)\n")
	b.WriteString("🗣️ Karakter: \"[Dialog]\"\n\n")
	fmt.Fprintf(b, "[%s - VEO 6s]\n", first)
	fmt.Fprintf(b, "⏱️ Video Motion: [Instruksi teknis kamera cinematic %s]\n", v.VisualFocus)
	fmt.Fprintf(b, "ADEGAN_VISUAL: [Deskripsi visual SANGAT DETAIL untuk Image Gen: Karakter, Latar, Pencahayaan. Masukkan elemen %s]\n", v.VisualFocus)
	b.WriteString("---\n")
	fmt.Fprintf(b, "[%s - GROK 6s]\n", second)
	b.WriteString("...\n")
}

// StrategyPrompt asks for upload metadata (titles, description, hashtags)
// for the finished story.
func StrategyPrompt(sel Selection) string {
	theme := themeByID(sel.StoryTheme)

	var b strings.Builder
	b.WriteString("Bertindaklah sebagai Pakar Algoritma YouTube & TikTok Viral.\n")
	b.WriteString("Buat Strategi Metadata Video agar FYP dan Trending Topik.\n")
	fmt.Fprintf(&b, "KONSEP: %q\n", sel.ManualPrompt)
	fmt.Fprintf(&b, "TEMA: %s\n\n", theme.Name)
	b.WriteString("BERIKAN OUTPUT BERIKUT:\n")
	b.WriteString("1. JUDUL VIRAL: 3 opsi judul clickbait yang jujur (maksimal 60 karakter, pakai emoji).\n")
	b.WriteString("2. DESKRIPSI: 2-3 kalimat yang memancing rasa penasaran, sisipkan kata kunci utama.\n")
	b.WriteString("3. HASHTAG: 10 hashtag campuran (niche, trending, dan umum).\n")
	b.WriteString("4. JAM UPLOAD TERBAIK: Rekomendasi waktu upload untuk audiens Indonesia.\n")
	b.WriteString("5. HOOK 3 DETIK PERTAMA: Kalimat pembuka yang membuat penonton berhenti scroll.\n")
	return b.String()
}
