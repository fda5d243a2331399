package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"topaz-studio/internal/credentials"
	"topaz-studio/internal/logging"
	"topaz-studio/internal/microstock"
	"topaz-studio/internal/prompt"
	"topaz-studio/internal/studio"
)

const helpText = "🎬 Topaz Studio\n\n" +
	"Kirim foto produk (caption \"wajah\" untuk slot wajah), atur mode, lalu /generate.\n\n" +
	"Perintah:\n" +
	"/mode <storyboard|model|product|video_review|microstock|ecourse>\n" +
	"/panel - panel pengaturan\n" +
	"/prompt <teks> - ide cerita / prompt manual\n" +
	"/set <field> <nilai> - ubah pengaturan\n" +
	"/generate - buat 6 gambar\n" +
	"/regen <n>, /edit <n> <instruksi>\n" +
	"/motion <n>, /narration <n>, /video <n> [prompt], /review <n>\n" +
	"/audio <narration|full|dialog_mf|dialog_mm>\n" +
	"/scripts - tampilkan script\n" +
	"/stock - mode unggah microstock, /stockrun [ai], /csv\n" +
	"/key <gemini|grok> <key>, /clearkey <provider>\n" +
	"/reset - mulai proyek baru"

func (h *Handler) handleCommand(ctx context.Context, chatID int64, userID int64, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	sess := h.sessions.GetOrCreate(chatKey(chatID))
	ws := sess.Workspace

	switch msg.Command() {
	case "start", "help":
		return h.tg.SendText(chatID, helpText)
	case "mode":
		if args == "" {
			return h.sendPanel(chatID, userID, ws.Snapshot())
		}
		return h.switchMode(chatID, ws, args)
	case "panel":
		return h.sendPanel(chatID, userID, ws.Snapshot())
	case "prompt":
		if args == "" {
			return h.tg.SendText(chatID, "❌ Contoh: /prompt Naufal dan Shanum berpetualang di hutan")
		}
		return h.applySettings(chatID, ws, studio.Settings{ManualPrompt: &args})
	case "set":
		return h.setField(chatID, ws, args)
	case "generate":
		return h.generate(ctx, chatID, ws)
	case "regen":
		return h.withSlot(chatID, args, func(id int, _ string) error {
			h.tg.SendTyping(chatID)
			if err := h.studio.RegenerateSlot(ctx, ws, id); err != nil {
				return h.fail(chatID, err, "Gagal regenerasi slot.")
			}
			return h.sendImage(chatID, id, ws.Snapshot().Images[id])
		})
	case "edit":
		return h.withSlot(chatID, args, func(id int, rest string) error {
			if rest == "" {
				return h.tg.SendText(chatID, "❌ Contoh: /edit 2 ganti latar jadi pantai")
			}
			h.tg.SendTyping(chatID)
			if err := h.studio.EditSlot(ctx, ws, id, rest); err != nil {
				return h.fail(chatID, err, "Manual edit failed.")
			}
			return h.sendImage(chatID, id, ws.Snapshot().Images[id])
		})
	case "motion":
		return h.withSlot(chatID, args, func(id int, _ string) error {
			text, err := h.studio.GenerateMotion(ctx, ws, id)
			if err != nil {
				return h.fail(chatID, err, "Gagal membuat prompt gerakan.")
			}
			return h.tg.SendText(chatID, text)
		})
	case "narration":
		return h.withSlot(chatID, args, func(id int, _ string) error {
			text, err := h.studio.GenerateNarration(ctx, ws, id)
			if err != nil {
				return h.fail(chatID, err, "Gagal membuat narasi iklan lengkap.")
			}
			return h.tg.SendText(chatID, text)
		})
	case "video":
		return h.withSlot(chatID, args, func(id int, rest string) error {
			return h.video(ctx, chatID, ws, id, rest)
		})
	case "review":
		return h.withSlot(chatID, args, func(id int, _ string) error {
			if err := h.studio.ConvertToVideoReview(ctx, ws, id); err != nil {
				return h.fail(chatID, err, "Gagal membuat rekomendasi caption.")
			}
			return h.tg.SendText(chatID, "🎥 Mode video review.\n\n"+ws.Snapshot().Scripts.Caption)
		})
	case "audio":
		return h.audio(ctx, chatID, ws, args)
	case "scripts":
		return h.sendScripts(chatID, ws.Snapshot())
	case "stock":
		if sess.ToggleStockUpload() {
			return h.tg.SendText(chatID, "📦 Mode unggah microstock AKTIF. Foto berikutnya masuk ke batch.")
		}
		return h.tg.SendText(chatID, "📷 Mode unggah microstock MATI. Foto kembali ke slot referensi.")
	case "stockrun":
		return h.stockRun(ctx, chatID, sess.Stock, strings.EqualFold(args, "ai"))
	case "csv":
		return h.sendCSV(chatID, sess.Stock)
	case "key":
		return h.saveKey(ctx, chatID, userID, args)
	case "clearkey":
		provider, err := credentials.ParseProvider(args)
		if err != nil {
			return h.tg.SendText(chatID, "❌ Provider: gemini atau grok")
		}
		if err := h.creds.Delete(ctx, ownerKey(userID), provider); err != nil {
			return h.fail(chatID, err, "Gagal menghapus key.")
		}
		return h.tg.SendText(chatID, fmt.Sprintf("🗑 Key %s dihapus.", provider))
	case "reset":
		h.sessions.Reset(chatKey(chatID))
		return h.tg.SendText(chatID, "✅ Proyek baru dimulai.")
	default:
		return h.tg.SendText(chatID, "❌ Perintah tidak dikenal. Gunakan /help.")
	}
}

func (h *Handler) switchMode(chatID int64, ws *studio.Workspace, arg string) error {
	mode, ok := prompt.ParseMode(arg)
	if !ok {
		return h.tg.SendText(chatID, "❌ Mode tidak dikenal. Pilihan: storyboard, model, product, video_review, microstock, ecourse")
	}
	if _, err := ws.SwitchMode(mode); err != nil {
		return h.tg.SendText(chatID, "⏳ Masih memproses, tunggu sebentar.")
	}
	return h.tg.SendText(chatID, fmt.Sprintf("✅ Mode: %s", mode))
}

func (h *Handler) setField(chatID int64, ws *studio.Workspace, args string) error {
	name, value, _ := strings.Cut(args, " ")
	value = strings.TrimSpace(value)
	assign, ok := settingFields[strings.ToLower(name)]
	if !ok || value == "" {
		return h.tg.SendText(chatID, "❌ Format: /set <field> <nilai>\nField: "+strings.Join(settingNames(), ", "))
	}
	var set studio.Settings
	assign(&set, &value)
	return h.applySettings(chatID, ws, set)
}

func (h *Handler) applySettings(chatID int64, ws *studio.Workspace, set studio.Settings) error {
	if err := set.Validate(); err != nil {
		return h.tg.SendText(chatID, "❌ Nilai tidak valid: "+err.Error())
	}
	ws.Update(func(st *studio.State) { _ = st.Apply(set) })
	return h.tg.SendText(chatID, "✅ Pengaturan disimpan.")
}

func (h *Handler) withSlot(chatID int64, args string, fn func(id int, rest string) error) error {
	first, rest, _ := strings.Cut(args, " ")
	id, err := parseSlot(first)
	if err != nil {
		return h.tg.SendText(chatID, "❌ "+err.Error())
	}
	return fn(id, strings.TrimSpace(rest))
}

func (h *Handler) generate(ctx context.Context, chatID int64, ws *studio.Workspace) error {
	st := ws.Snapshot()
	_ = h.tg.SendText(chatID, fmt.Sprintf("🎨 Membuat proyek %s, mohon tunggu...", st.Mode))
	h.tg.SendTyping(chatID)

	err := h.studio.GenerateProject(ctx, ws)
	if errors.Is(err, studio.ErrBusy) {
		return h.tg.SendText(chatID, "⏳ Masih memproses, tunggu sebentar.")
	}
	if err != nil {
		return h.fail(chatID, err, "Unknown error occurred.")
	}

	st = ws.Snapshot()
	if err := h.sendImages(chatID, st); err != nil {
		return err
	}
	if st.Mode == studio.ModeStoryboard && st.Scripts.Grok != "" {
		return h.tg.SendText(chatID, "📝 Script siap. Lihat /scripts, buat suara dengan /audio narration.")
	}
	return nil
}

func (h *Handler) video(ctx context.Context, chatID int64, ws *studio.Workspace, id int, promptText string) error {
	h.tg.SendTyping(chatID)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.videoTimeout)
	defer cancel()
	res, err := h.studio.GenerateSlotVideo(ctx, ws, id, promptText)
	if err != nil {
		return h.fail(chatID, err, "Gagal membuat video.")
	}
	if res.Video == nil || len(res.Video.Data) == 0 {
		return h.tg.SendText(chatID, "🎬 Prompt video:\n\n"+res.Prompt)
	}
	return h.tg.SendDocument(chatID, fmt.Sprintf("scene-%d.mp4", id+1), res.Video.Data, truncateLine(res.Prompt, 200))
}

func (h *Handler) audio(ctx context.Context, chatID int64, ws *studio.Workspace, arg string) error {
	kind, ok := studio.ParseAudioKind(arg)
	if !ok {
		return h.tg.SendText(chatID, "❌ Jenis audio: narration, full, dialog_mf, dialog_mm")
	}
	h.tg.SendTyping(chatID)
	wav, err := h.studio.GenerateAudio(ctx, ws, kind)
	if err != nil {
		return h.fail(chatID, err, "Gagal membuat audio.")
	}
	return h.tg.SendAudio(chatID, string(kind)+".wav", wav, "🔊 "+string(kind))
}

func (h *Handler) sendScripts(chatID int64, st studio.State) error {
	var b strings.Builder
	if s := strings.TrimSpace(st.Scripts.Grok); s != "" {
		b.WriteString("🎬 SCRIPT GROK\n" + s + "\n\n")
	}
	if s := strings.TrimSpace(st.Scripts.Veo); s != "" {
		b.WriteString("🎞 SCRIPT VEO\n" + s + "\n\n")
	}
	if s := strings.TrimSpace(st.Scripts.Caption); s != "" {
		b.WriteString("💬 CAPTION\n" + s)
	}
	if b.Len() == 0 {
		return h.tg.SendText(chatID, "Belum ada script. Jalankan /generate dulu.")
	}
	return h.tg.SendText(chatID, strings.TrimSpace(b.String()))
}

func (h *Handler) stockRun(ctx context.Context, chatID int64, batch *microstock.Batch, isAI bool) error {
	if h.metadata == nil {
		return h.tg.SendText(chatID, "❌ Generator metadata belum dikonfigurasi.")
	}
	_ = h.tg.SendText(chatID, fmt.Sprintf("🏷 Memproses %d file...", batch.Len()))
	err := batch.Process(ctx, h.metadata, isAI, nil)
	switch {
	case errors.Is(err, microstock.ErrNoItems):
		return h.tg.SendText(chatID, "❌ Batch kosong. Aktifkan /stock lalu kirim foto.")
	case errors.Is(err, microstock.ErrBusy):
		return h.tg.SendText(chatID, "⏳ Batch sedang diproses.")
	case err != nil:
		return h.fail(chatID, err, "Proses microstock berhenti.")
	}

	done, failed := 0, 0
	for _, it := range batch.Items() {
		switch it.Status {
		case microstock.StatusDone:
			done++
		case microstock.StatusFailed:
			failed++
		}
	}
	_ = h.tg.SendText(chatID, fmt.Sprintf("✅ %s: %d, %s: %d", microstock.StatusDone.Label(), done, microstock.StatusFailed.Label(), failed))
	if done == 0 {
		return nil
	}
	return h.sendCSV(chatID, batch)
}

func (h *Handler) sendCSV(chatID int64, batch *microstock.Batch) error {
	var buf bytes.Buffer
	if err := microstock.WriteCSV(&buf, batch.Items()); err != nil {
		return h.fail(chatID, err, "Gagal membuat CSV.")
	}
	return h.tg.SendDocument(chatID, microstock.CSVFilename(time.Now()), buf.Bytes(), "")
}

func (h *Handler) saveKey(ctx context.Context, chatID, userID int64, args string) error {
	name, raw, _ := strings.Cut(args, " ")
	provider, err := credentials.ParseProvider(name)
	if err != nil || strings.TrimSpace(raw) == "" {
		return h.tg.SendText(chatID, "❌ Format: /key <gemini|grok> <api key>")
	}
	if err := credentials.Save(ctx, h.creds, ownerKey(userID), provider, raw); err != nil {
		return h.tg.SendText(chatID, "❌ "+err.Error())
	}
	return h.tg.SendText(chatID, fmt.Sprintf("🔑 Key %s disimpan (%s).", provider, logging.SanitizeKey(credentials.Clean(provider, raw))))
}

func truncateLine(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}
