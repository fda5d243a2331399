package handlers

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"topaz-studio/internal/studio"
)

// slotKindFor reads the upload caption: anything mentioning a face goes to
// the face row, the rest to products.
func slotKindFor(caption string) studio.SlotKind {
	c := strings.ToLower(strings.TrimSpace(caption))
	if c == "" {
		return studio.SlotProduct
	}
	for _, kw := range []string{"face", "wajah", "muka", "selfie"} {
		if strings.Contains(c, kw) {
			return studio.SlotFace
		}
	}
	return studio.SlotProduct
}

func kindLabel(kind studio.SlotKind) string {
	if kind == studio.SlotFace {
		return "wajah"
	}
	return "produk"
}

func isImageDocument(mimeType, name string) bool {
	if strings.HasPrefix(strings.ToLower(mimeType), "image/") {
		return true
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".webp", ".svg", ".gif":
		return true
	}
	return false
}

// parseSlot turns the user's 1-based slot number into an index.
func parseSlot(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 || n > studio.SlotCount {
		return 0, fmt.Errorf("nomor slot harus 1-%d", studio.SlotCount)
	}
	return n - 1, nil
}

func joinInts(in []int) string {
	parts := make([]string, len(in))
	for i, v := range in {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

// settingFields maps /set field names onto the control-panel update.
var settingFields = map[string]func(*studio.Settings, *string){
	"category":     func(s *studio.Settings, v *string) { s.Category = v },
	"template":     func(s *studio.Settings, v *string) { s.Template = v },
	"character":    func(s *studio.Settings, v *string) { s.Character = v },
	"theme":        func(s *studio.Settings, v *string) { s.StoryTheme = v },
	"cartoon":      func(s *studio.Settings, v *string) { s.CartoonStyle = v },
	"background":   func(s *studio.Settings, v *string) { s.ProdBackground = v },
	"position":     func(s *studio.Settings, v *string) { s.ProdPosition = v },
	"effect":       func(s *studio.Settings, v *string) { s.ProdEffect = v },
	"prodcategory": func(s *studio.Settings, v *string) { s.ProdCategory = v },
	"preset":       func(s *studio.Settings, v *string) { s.ModelPreset = v },
	"language":     func(s *studio.Settings, v *string) { s.Language = v },
	"ratio":        func(s *studio.Settings, v *string) { s.VideoRatio = v },
	"resolution":   func(s *studio.Settings, v *string) { s.VideoResolution = v },
	"engine":       func(s *studio.Settings, v *string) { s.VideoEngine = v },
	"voice":        func(s *studio.Settings, v *string) { s.Voice = v },
}

func settingNames() []string {
	return []string{
		"category", "template", "character", "theme", "cartoon", "background", "position",
		"effect", "prodcategory", "preset", "language", "ratio", "resolution", "engine", "voice",
	}
}
