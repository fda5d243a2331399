package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"topaz-studio/internal/prompt"
	"topaz-studio/internal/studio"
	"topaz-studio/internal/telegram"
)

const panelCallbackPrefix = "st"

var panelRatios = []string{"9:16", "16:9", "1:1", "3:4", "4:3"}

func (h *Handler) sendPanel(chatID, userID int64, st studio.State) error {
	_, err := h.tg.SendTextWithKeyboard(chatID, panelText(st), panelKeyboard(userID, st))
	return err
}

func (h *Handler) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if q == nil || q.Message == nil || q.From == nil {
		return nil
	}
	data := strings.TrimSpace(q.Data)
	if !strings.HasPrefix(data, panelCallbackPrefix+":") {
		return nil
	}

	parts := strings.Split(data, ":")
	if len(parts) < 3 {
		return nil
	}
	ownerID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil
	}
	if ownerID != q.From.ID {
		_ = h.tg.AnswerCallback(q.ID, "Panel ini bukan untukmu.", true)
		return nil
	}

	action := parts[2]
	arg := strings.Join(parts[3:], ":")
	chatID := q.Message.Chat.ID
	ws := h.sessions.GetOrCreate(chatKey(chatID)).Workspace

	if action == "close" {
		_ = h.tg.AnswerCallback(q.ID, "OK", false)
		return h.tg.EditTextWithKeyboard(chatID, q.Message.MessageID, panelText(ws.Snapshot()), tgbotapi.NewInlineKeyboardMarkup())
	}
	if action == "generate" {
		_ = h.tg.AnswerCallback(q.ID, "Generating…", false)
		return h.generate(ctx, chatID, ws)
	}

	if ws.Snapshot().Generating {
		_ = h.tg.AnswerCallback(q.ID, "Masih memproses.", true)
		return nil
	}

	var set studio.Settings
	switch action {
	case "mode":
		mode, ok := prompt.ParseMode(arg)
		if !ok {
			return nil
		}
		if _, err := ws.SwitchMode(mode); err != nil {
			_ = h.tg.AnswerCallback(q.ID, "Masih memproses.", true)
			return nil
		}
	case "voice":
		set.Voice = &arg
	case "ratio":
		set.VideoRatio = &arg
	case "lang":
		set.Language = &arg
	default:
		return nil
	}
	if action != "mode" {
		if err := set.Validate(); err != nil {
			_ = h.tg.AnswerCallback(q.ID, "Nilai tidak valid.", true)
			return nil
		}
		ws.Update(func(st *studio.State) { _ = st.Apply(set) })
	}

	st := ws.Snapshot()
	_ = h.tg.AnswerCallback(q.ID, "OK", false)
	return h.tg.EditTextWithKeyboard(chatID, q.Message.MessageID, panelText(st), panelKeyboard(ownerID, st))
}

func panelText(st studio.State) string {
	var b strings.Builder
	b.WriteString("⚙️ Panel Studio\n\n")
	fmt.Fprintf(&b, "Mode: %s\n", st.Mode)
	fmt.Fprintf(&b, "Rasio: %s\n", st.VideoRatio)
	fmt.Fprintf(&b, "Suara: %s\n", st.Voice)
	fmt.Fprintf(&b, "Bahasa: %s\n", st.Selection.Language)
	fmt.Fprintf(&b, "Referensi: %d foto\n", len(st.ReferenceImages()))
	if p := truncateLine(st.Selection.ManualPrompt, 80); p != "" {
		fmt.Fprintf(&b, "Prompt: %s\n", p)
	}
	return strings.TrimSpace(b.String())
}

func panelKeyboard(ownerID int64, st studio.State) telegram.Keyboard {
	modes := []prompt.Mode{
		studio.ModeStoryboard, studio.ModeModel, studio.ModeProduct,
		studio.ModeVideoReview, studio.ModeMicrostock, studio.ModeECourse,
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, m := range modes {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(mark(string(m), st.Mode == m), cb(ownerID, "mode", string(m))))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}

	row = nil
	for _, r := range panelRatios {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(mark(r, st.VideoRatio == r), cb(ownerID, "ratio", r)))
	}
	rows = append(rows, row)

	row = nil
	for _, v := range prompt.Voices {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(mark(v.ID, st.Voice == v.ID), cb(ownerID, "voice", v.ID)))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	row = nil
	for _, l := range prompt.Languages {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(mark(l.Code, st.Selection.Language == l.Code), cb(ownerID, "lang", l.Code)))
	}
	rows = append(rows, row)

	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("🎨 Generate", cb(ownerID, "generate")),
		tgbotapi.NewInlineKeyboardButtonData("Close", cb(ownerID, "close")),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func cb(ownerID int64, parts ...string) string {
	return fmt.Sprintf("%s:%d:%s", panelCallbackPrefix, ownerID, strings.Join(parts, ":"))
}

func mark(label string, on bool) string {
	if on {
		return "✅ " + label
	}
	return label
}
