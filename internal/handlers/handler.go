package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"topaz-studio/internal/credentials"
	"topaz-studio/internal/gemini"
	"topaz-studio/internal/logging"
	"topaz-studio/internal/mediagroup"
	"topaz-studio/internal/microstock"
	"topaz-studio/internal/session"
	"topaz-studio/internal/studio"
	"topaz-studio/internal/telegram"
)

// Messenger is the part of the Telegram client the handler talks to.
type Messenger interface {
	SendText(chatID int64, text string) error
	SendTyping(chatID int64)
	SendTextWithKeyboard(chatID int64, text string, kb telegram.Keyboard) (int, error)
	EditTextWithKeyboard(chatID int64, messageID int, text string, kb telegram.Keyboard) error
	AnswerCallback(callbackID, text string, alert bool) error
	SendPhoto(chatID int64, data []byte, mimeType, caption string) error
	SendAudio(chatID int64, name string, data []byte, caption string) error
	SendDocument(chatID int64, name string, data []byte, caption string) error
	DownloadFile(ctx context.Context, fileID string) ([]byte, string, error)
}

type Options struct {
	Telegram     Messenger
	Studio       *studio.Studio
	Sessions     *session.Store
	Credentials  credentials.Store
	Metadata     microstock.MetadataGenerator
	Logger       *slog.Logger
	// VideoTimeout bounds a Veo render independently of the update's own
	// deadline. Zero means 15 minutes.
	VideoTimeout time.Duration
}

type Handler struct {
	tg         Messenger
	studio     *studio.Studio
	sessions   *session.Store
	creds      credentials.Store
	metadata   microstock.MetadataGenerator
	logger     *slog.Logger
	aggregator *mediagroup.Aggregator

	videoTimeout time.Duration
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	videoTimeout := opts.VideoTimeout
	if videoTimeout <= 0 {
		videoTimeout = 15 * time.Minute
	}

	return &Handler{
		tg:           opts.Telegram,
		studio:       opts.Studio,
		sessions:     opts.Sessions,
		creds:        opts.Credentials,
		metadata:     opts.Metadata,
		logger:       logging.WithComponent(logger, "handlers"),
		videoTimeout: videoTimeout,
	}
}

func (h *Handler) SetMediaGroupAggregator(ag *mediagroup.Aggregator) {
	h.aggregator = ag
}

func chatKey(chatID int64) string { return fmt.Sprintf("tg:%d", chatID) }

// ownerKey scopes saved API keys to the Telegram user, so they survive /reset.
func ownerKey(userID int64) string { return fmt.Sprintf("tg:%d", userID) }

func (h *Handler) HandleUpdate(ctx context.Context, update telegram.Update) error {
	if update.CallbackQuery != nil {
		return h.handleCallback(credentials.WithOwner(ctx, ownerKey(update.CallbackQuery.From.ID)), update.CallbackQuery)
	}
	if update.Message == nil || update.Message.From == nil {
		return nil
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID
	ctx = credentials.WithOwner(ctx, ownerKey(userID))

	if msg.IsCommand() {
		return h.handleCommand(ctx, chatID, userID, msg)
	}

	if file, ok := uploadOf(msg); ok {
		if msg.MediaGroupID != "" && h.aggregator != nil {
			h.aggregator.Add(mediagroup.Item{
				ChatID:       chatID,
				UserID:       userID,
				MediaGroupID: msg.MediaGroupID,
				Caption:      msg.Caption,
				File:         file,
			})
			return nil
		}
		return h.processUploads(ctx, chatID, msg.Caption, []mediagroup.File{file})
	}

	if strings.TrimSpace(msg.Text) != "" {
		return h.tg.SendText(chatID, "Kirim foto untuk slot referensi, atau /help untuk daftar perintah.")
	}
	return nil
}

func (h *Handler) HandleMediaGroup(ctx context.Context, group mediagroup.Group) {
	ctx = credentials.WithOwner(ctx, ownerKey(group.UserID))
	if err := h.processUploads(ctx, group.ChatID, group.Caption, group.Files); err != nil {
		h.logger.Error("media group processing failed", "err", err)
	}
}

// uploadOf picks the largest photo size, or an image sent as a document.
func uploadOf(msg *tgbotapi.Message) (mediagroup.File, bool) {
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		return mediagroup.File{FileID: photo.FileID, Name: photo.FileUniqueID + ".jpg", MimeType: "image/jpeg"}, true
	}
	if doc := msg.Document; doc != nil && isImageDocument(doc.MimeType, doc.FileName) {
		return mediagroup.File{FileID: doc.FileID, Name: doc.FileName, MimeType: doc.MimeType}, true
	}
	return mediagroup.File{}, false
}

type downloaded struct {
	file mediagroup.File
	data []byte
	mime string
}

func (h *Handler) download(ctx context.Context, files []mediagroup.File) ([]downloaded, error) {
	out := make([]downloaded, len(files))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, f := range files {
		i := i
		f := f
		eg.Go(func() error {
			data, mimeType, err := h.tg.DownloadFile(egCtx, f.FileID)
			if err != nil {
				return err
			}
			out[i] = downloaded{file: f, data: data, mime: mimeType}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// processUploads routes photos into the microstock batch when stock upload
// is on, and into the next free reference slots otherwise.
func (h *Handler) processUploads(ctx context.Context, chatID int64, caption string, files []mediagroup.File) error {
	h.tg.SendTyping(chatID)
	got, err := h.download(ctx, files)
	if err != nil {
		h.logger.Error("photo download failed", "err", err)
		return h.tg.SendText(chatID, "❌ Gagal mengunduh foto.")
	}

	sess := h.sessions.GetOrCreate(chatKey(chatID))
	if sess.StockUpload() {
		for _, d := range got {
			sess.Stock.Add(d.file.Name, d.mime, d.data)
		}
		return h.tg.SendText(chatID, fmt.Sprintf("📦 %d file ditambahkan ke microstock (total %d). Jalankan /stockrun.", len(got), sess.Stock.Len()))
	}

	kind := slotKindFor(caption)
	var placed []int
	full := false
	sess.Workspace.Update(func(st *studio.State) {
		for _, d := range got {
			n := st.NextFreeSlot(kind)
			if n < 0 {
				full = true
				return
			}
			img := gemini.Image{Data: base64.StdEncoding.EncodeToString(d.data), MimeType: d.mime}
			if err := st.SetSlot(kind, n, img); err == nil {
				placed = append(placed, n+1)
			}
		}
	})

	text := fmt.Sprintf("✅ Foto disimpan di slot %s %s.", kindLabel(kind), joinInts(placed))
	if len(placed) == 0 {
		text = fmt.Sprintf("❌ Semua slot %s sudah terisi. Kosongkan dengan /reset.", kindLabel(kind))
	} else if full {
		text += " Sebagian foto dilewati karena slot penuh."
	}
	return h.tg.SendText(chatID, text)
}

func (h *Handler) sendImage(chatID int64, id int, img *studio.GeneratedImage) error {
	if img == nil || img.Data == "" {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		return fmt.Errorf("decode slot %d: %w", id, err)
	}
	caption := fmt.Sprintf("%d. %s", id+1, img.Label)
	return h.tg.SendPhoto(chatID, data, img.MimeType, caption)
}

func (h *Handler) sendImages(chatID int64, st studio.State) error {
	sent := 0
	for i, img := range st.Images {
		if img == nil || img.Data == "" {
			continue
		}
		if err := h.sendImage(chatID, i, img); err != nil {
			return err
		}
		sent++
	}
	if sent == 0 {
		msg := "❌ Tidak ada gambar yang berhasil dibuat."
		if st.Error != "" {
			msg = "❌ " + st.Error
		}
		return h.tg.SendText(chatID, msg)
	}
	return nil
}

func (h *Handler) fail(chatID int64, err error, fallback string) error {
	h.logger.Error("command failed", "chat_id", chatID, "err", err)
	return h.tg.SendText(chatID, "❌ "+studio.UserMessage(err, fallback))
}
