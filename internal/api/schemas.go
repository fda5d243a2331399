package api

import (
	"topaz-studio/internal/gemini"
	"topaz-studio/internal/microstock"
	"topaz-studio/internal/prompt"
	"topaz-studio/internal/studio"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	UptimeS  int64  `json:"uptime_s"`
	Sessions int    `json:"sessions"`
}

type SessionResponse struct {
	ID         string             `json:"id"`
	State      studio.State       `json:"state"`
	AudioReady []studio.AudioKind `json:"audio_ready"`
}

func sessionResponse(id string, st studio.State) SessionResponse {
	ready := st.AudioReady()
	if ready == nil {
		ready = []studio.AudioKind{}
	}
	return SessionResponse{ID: id, State: st, AudioReady: ready}
}

type ModeRequest struct {
	Mode string `json:"mode"`
}

type EditRequest struct {
	Instruction string `json:"instruction"`
}

type VideoRequest struct {
	Prompt string `json:"prompt"`
}

type TextResponse struct {
	Text string `json:"text"`
}

type VideoResponse struct {
	Prompt   string `json:"prompt"`
	VideoURI string `json:"video_uri,omitempty"`
	Rendered bool   `json:"rendered"`
}

type StockProcessRequest struct {
	IsAI bool `json:"is_ai"`
}

type StockItemResponse struct {
	Name        string                `json:"name"`
	MimeType    string                `json:"mime_type"`
	Status      microstock.Status     `json:"status"`
	StatusLabel string                `json:"status_label"`
	Metadata    *gemini.StockMetadata `json:"metadata,omitempty"`
	Error       string                `json:"error,omitempty"`
}

type StockResponse struct {
	Items      []StockItemResponse `json:"items"`
	Processing bool                `json:"processing"`
}

func stockResponse(b *microstock.Batch) StockResponse {
	items := b.Items()
	resp := StockResponse{Items: make([]StockItemResponse, len(items)), Processing: b.Processing()}
	for i, it := range items {
		resp.Items[i] = StockItemResponse{
			Name:        it.Name,
			MimeType:    it.MimeType,
			Status:      it.Status,
			StatusLabel: it.Status.Label(),
			Metadata:    it.Metadata,
			Error:       it.Error,
		}
	}
	return resp
}

type KeyRequest struct {
	Key string `json:"key"`
}

type KeysResponse struct {
	Gemini bool `json:"gemini"`
	Grok   bool `json:"grok"`
}

type CatalogResponse struct {
	Modes                []prompt.Mode        `json:"modes"`
	Categories           []prompt.Category    `json:"categories"`
	MicrostockCategories []prompt.Category    `json:"microstock_categories"`
	Characters           []prompt.Character   `json:"characters"`
	Templates            []prompt.Template    `json:"templates"`
	StoryThemes          []prompt.NamedOption `json:"story_themes"`
	CartoonStyles        []prompt.Style       `json:"cartoon_styles"`
	ModelPresets         []prompt.ModelPreset `json:"model_presets"`
	ProdCategories       []string             `json:"prod_categories"`
	ProdBackgrounds      []string             `json:"prod_backgrounds"`
	ProdPositions        []string             `json:"prod_positions"`
	ProdEffects          []string             `json:"prod_effects"`
	Voices               []prompt.Voice       `json:"voices"`
	Languages            []prompt.Language    `json:"languages"`
	Storyboard           [6]prompt.Scene      `json:"storyboard"`
	VideoStyles          [6]string            `json:"video_styles"`
	AudioKinds           []studio.AudioKind   `json:"audio_kinds"`
	Defaults             prompt.Selection     `json:"defaults"`
}
