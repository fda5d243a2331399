package studio

import (
	"github.com/go-playground/validator/v10"
)

// Settings is a partial control-panel update. Nil fields are left alone.
type Settings struct {
	ManualPrompt    *string `json:"manual_prompt"`
	Category        *string `json:"category" validate:"omitempty,oneof=stock-photo flat-3d flat-2d vector illustration realistic"`
	Template        *string `json:"template" validate:"omitempty,oneof=studio-pure-white studio-dark-luxury lifestyle-living"`
	Character       *string `json:"character" validate:"omitempty,oneof=rian sofia aisha naufal my-face"`
	StoryTheme      *string `json:"story_theme" validate:"omitempty,min=1,max=32"`
	CartoonStyle    *string `json:"cartoon_style" validate:"omitempty,min=1,max=32"`
	ProdBackground  *string `json:"prod_background" validate:"omitempty,max=64"`
	ProdPosition    *string `json:"prod_position" validate:"omitempty,max=64"`
	ProdEffect      *string `json:"prod_effect" validate:"omitempty,max=64"`
	ProdCategory    *string `json:"prod_category" validate:"omitempty,max=64"`
	ModelPreset     *string `json:"model_preset" validate:"omitempty,max=32"`
	Language        *string `json:"language" validate:"omitempty,oneof=ID EN MY JW CN"`
	VideoRatio      *string `json:"video_ratio" validate:"omitempty,oneof=1:1 9:16 16:9 3:4 4:3 3:2 2:3"`
	VideoResolution *string `json:"video_resolution" validate:"omitempty,oneof=720p 1080p"`
	VideoEngine     *string `json:"video_engine" validate:"omitempty,oneof=fast quality"`
	Voice           *string `json:"voice" validate:"omitempty,oneof=Kore Fenrir Puck Charon Zephyr Aoede"`
}

var validate = validator.New()

// Validate checks every set field. Errors are validator.ValidationErrors.
func (set Settings) Validate() error {
	return validate.Struct(set)
}

// Apply validates set and copies the non-nil fields into the state.
func (s *State) Apply(set Settings) error {
	if err := set.Validate(); err != nil {
		return err
	}
	assign(&s.Selection.ManualPrompt, set.ManualPrompt)
	assign(&s.Selection.Category, set.Category)
	assign(&s.Selection.Template, set.Template)
	assign(&s.Selection.Character, set.Character)
	assign(&s.Selection.StoryTheme, set.StoryTheme)
	assign(&s.Selection.CartoonStyle, set.CartoonStyle)
	assign(&s.Selection.ProdBackground, set.ProdBackground)
	assign(&s.Selection.ProdPosition, set.ProdPosition)
	assign(&s.Selection.ProdEffect, set.ProdEffect)
	assign(&s.Selection.ProdCategory, set.ProdCategory)
	assign(&s.Selection.ModelPreset, set.ModelPreset)
	assign(&s.Selection.Language, set.Language)
	assign(&s.VideoRatio, set.VideoRatio)
	assign(&s.VideoResolution, set.VideoResolution)
	assign(&s.VideoEngine, set.VideoEngine)
	assign(&s.Voice, set.Voice)
	return nil
}

func assign(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
