package handlers

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"topaz-studio/internal/credentials"
	"topaz-studio/internal/gemini"
	"topaz-studio/internal/mediagroup"
	"topaz-studio/internal/session"
	"topaz-studio/internal/studio"
	"topaz-studio/internal/telegram"
)

type outgoing struct {
	kind    string
	text    string
	name    string
	edited  bool
	alerted bool
}

type fakeMessenger struct {
	mu    sync.Mutex
	out   []outgoing
	files map[string][]byte
}

func (f *fakeMessenger) record(s outgoing) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = append(f.out, s)
}

func (f *fakeMessenger) SendText(chatID int64, text string) error {
	f.record(outgoing{kind: "text", text: text})
	return nil
}

func (f *fakeMessenger) SendTyping(int64) {}

func (f *fakeMessenger) SendTextWithKeyboard(chatID int64, text string, kb telegram.Keyboard) (int, error) {
	f.record(outgoing{kind: "panel", text: text})
	return 42, nil
}

func (f *fakeMessenger) EditTextWithKeyboard(chatID int64, messageID int, text string, kb telegram.Keyboard) error {
	f.record(outgoing{kind: "panel", text: text, edited: true})
	return nil
}

func (f *fakeMessenger) AnswerCallback(id, text string, alert bool) error {
	f.record(outgoing{kind: "callback", text: text, alerted: alert})
	return nil
}

func (f *fakeMessenger) SendPhoto(chatID int64, data []byte, mimeType, caption string) error {
	f.record(outgoing{kind: "photo", text: caption})
	return nil
}

func (f *fakeMessenger) SendAudio(chatID int64, name string, data []byte, caption string) error {
	f.record(outgoing{kind: "audio", name: name})
	return nil
}

func (f *fakeMessenger) SendDocument(chatID int64, name string, data []byte, caption string) error {
	f.record(outgoing{kind: "document", name: name, text: string(data)})
	return nil
}

func (f *fakeMessenger) DownloadFile(ctx context.Context, fileID string) ([]byte, string, error) {
	if data, ok := f.files[fileID]; ok {
		return data, "image/png", nil
	}
	return []byte("\x89PNG\r\n\x1a\n"), "image/png", nil
}

func (f *fakeMessenger) last() outgoing {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.out) == 0 {
		return outgoing{}
	}
	return f.out[len(f.out)-1]
}

func (f *fakeMessenger) count(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.out {
		if s.kind == kind {
			n++
		}
	}
	return n
}

type okImages struct{}

func (okImages) GenerateImage(ctx context.Context, p string, refs []gemini.Image, ratio string) (gemini.Image, error) {
	return gemini.Image{Data: "aW1n", MimeType: "image/png"}, nil
}

type echoText struct{}

func (echoText) Generate(ctx context.Context, p string, images []gemini.Image) (string, error) {
	return "generated text", nil
}

type nopSpeech struct{}

func (nopSpeech) GenerateSpeech(ctx context.Context, text, voice string) ([]byte, error) {
	return []byte("RIFF"), nil
}

func (nopSpeech) GenerateDialogue(ctx context.Context, lines []gemini.DialogueLine, p gemini.Pairing) ([]byte, error) {
	return []byte("RIFF"), nil
}

type stockMeta struct{}

func (stockMeta) GenerateStockMetadata(ctx context.Context, p string, img gemini.Image) (gemini.StockMetadata, error) {
	return gemini.StockMetadata{Title: "Leaf", Keywords: "leaf, green", CategoryID: 13}, nil
}

type env struct {
	h        *Handler
	tg       *fakeMessenger
	sessions *session.Store
	creds    *credentials.MemoryStore
}

func newEnv(t *testing.T) *env {
	t.Helper()
	tg := &fakeMessenger{}
	sessions := session.NewStore(session.Options{})
	creds := credentials.NewMemoryStore()
	st := studio.New(studio.Options{
		Images:       okImages{},
		Text:         echoText{},
		Speech:       nopSpeech{},
		SlotStagger:  time.Nanosecond,
		SceneStagger: time.Nanosecond,
		Intn:         func(int) int { return 0 },
	})
	h := New(Options{Telegram: tg, Studio: st, Sessions: sessions, Credentials: creds, Metadata: stockMeta{}})
	return &env{h: h, tg: tg, sessions: sessions, creds: creds}
}

const (
	testChat int64 = 100
	testUser int64 = 7
)

func command(text string) telegram.Update {
	name, _, _ := strings.Cut(text, " ")
	return telegram.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: testChat},
		From:     &tgbotapi.User{ID: testUser},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func photo(caption string) telegram.Update {
	return telegram.Update{Message: &tgbotapi.Message{
		Caption: caption,
		Chat:    &tgbotapi.Chat{ID: testChat},
		From:    &tgbotapi.User{ID: testUser},
		Photo:   []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "big", FileUniqueID: "u1"}},
	}}
}

func (e *env) send(t *testing.T, u telegram.Update) {
	t.Helper()
	if err := e.h.HandleUpdate(context.Background(), u); err != nil {
		t.Fatalf("HandleUpdate: %v", err)
	}
}

func (e *env) state() studio.State {
	return e.sessions.GetOrCreate(chatKey(testChat)).Workspace.Snapshot()
}

func TestHelpAndUnknown(t *testing.T) {
	e := newEnv(t)
	e.send(t, command("/start"))
	if !strings.Contains(e.tg.last().text, "/generate") {
		t.Errorf("help = %q", e.tg.last().text)
	}
	e.send(t, command("/dance"))
	if !strings.Contains(e.tg.last().text, "tidak dikenal") {
		t.Errorf("unknown reply = %q", e.tg.last().text)
	}
}

func TestModeAndSet(t *testing.T) {
	e := newEnv(t)
	e.send(t, command("/mode product"))
	if e.state().Mode != studio.ModeProduct {
		t.Fatalf("mode = %q", e.state().Mode)
	}
	e.send(t, command("/mode hologram"))
	if !strings.Contains(e.tg.last().text, "Mode tidak dikenal") {
		t.Errorf("reply = %q", e.tg.last().text)
	}

	e.send(t, command("/set voice Puck"))
	if e.state().Voice != "Puck" {
		t.Errorf("voice = %q", e.state().Voice)
	}
	e.send(t, command("/set voice Robot"))
	if !strings.Contains(e.tg.last().text, "tidak valid") || e.state().Voice != "Puck" {
		t.Errorf("invalid voice accepted: %q", e.tg.last().text)
	}
	e.send(t, command("/set nothing here"))
	if !strings.Contains(e.tg.last().text, "Field:") {
		t.Errorf("reply = %q", e.tg.last().text)
	}

	e.send(t, command("/prompt kucing di bulan"))
	if e.state().Selection.ManualPrompt != "kucing di bulan" {
		t.Errorf("prompt = %q", e.state().Selection.ManualPrompt)
	}
}

func TestPhotoFillsSlots(t *testing.T) {
	e := newEnv(t)
	e.send(t, photo(""))
	e.send(t, photo("ini wajah saya"))

	st := e.state()
	if st.ProductSlots[0].Empty() || st.FaceSlots[0].Empty() {
		t.Fatalf("slots not filled: product=%v face=%v", st.ProductSlots[0].Empty(), st.FaceSlots[0].Empty())
	}
	if !strings.Contains(e.tg.last().text, "wajah 1") {
		t.Errorf("reply = %q", e.tg.last().text)
	}

	for i := 0; i < 4; i++ {
		e.send(t, photo(""))
	}
	if !strings.Contains(e.tg.last().text, "sudah terisi") {
		t.Errorf("full reply = %q", e.tg.last().text)
	}
}

func TestMediaGroupFillsSeveralSlots(t *testing.T) {
	e := newEnv(t)
	e.h.HandleMediaGroup(context.Background(), mediagroup.Group{
		ChatID: testChat,
		UserID: testUser,
		Files:  []mediagroup.File{{FileID: "a"}, {FileID: "b"}, {FileID: "c"}},
	})
	st := e.state()
	for i := 0; i < 3; i++ {
		if st.ProductSlots[i].Empty() {
			t.Errorf("slot %d empty", i)
		}
	}
	if !strings.Contains(e.tg.last().text, "1, 2, 3") {
		t.Errorf("reply = %q", e.tg.last().text)
	}
}

func TestGenerateSendsSixPhotos(t *testing.T) {
	e := newEnv(t)
	e.send(t, command("/mode product"))
	e.send(t, command("/generate"))
	if n := e.tg.count("photo"); n != studio.SlotCount {
		t.Fatalf("photos sent = %d", n)
	}

	e.send(t, command("/regen 3"))
	if last := e.tg.last(); last.kind != "photo" || !strings.HasPrefix(last.text, "3.") {
		t.Errorf("regen sent %+v", last)
	}
	e.send(t, command("/regen 9"))
	if !strings.Contains(e.tg.last().text, "1-6") {
		t.Errorf("range reply = %q", e.tg.last().text)
	}
	e.send(t, command("/motion 1"))
	if e.tg.last().text != "generated text" {
		t.Errorf("motion reply = %q", e.tg.last().text)
	}
	e.send(t, command("/video 1 zoom in"))
	if !strings.Contains(e.tg.last().text, "zoom in") {
		t.Errorf("video reply = %q", e.tg.last().text)
	}
}

func TestAudioNeedsScript(t *testing.T) {
	e := newEnv(t)
	e.send(t, command("/audio narration"))
	if !strings.Contains(e.tg.last().text, "Script cerita belum dibuat") {
		t.Errorf("reply = %q", e.tg.last().text)
	}
	e.send(t, command("/audio opera"))
	if !strings.Contains(e.tg.last().text, "Jenis audio") {
		t.Errorf("reply = %q", e.tg.last().text)
	}
}

func TestStockFlow(t *testing.T) {
	e := newEnv(t)
	e.send(t, command("/stock"))
	e.send(t, photo(""))
	sess := e.sessions.GetOrCreate(chatKey(testChat))
	if sess.Stock.Len() != 1 {
		t.Fatalf("batch len = %d", sess.Stock.Len())
	}
	if !e.state().ProductSlots[0].Empty() {
		t.Error("stock upload also filled a slot")
	}

	e.send(t, command("/stockrun ai"))
	last := e.tg.last()
	if last.kind != "document" || !strings.HasPrefix(last.name, "AdobeStock_Metadata_") {
		t.Fatalf("last = %+v", last)
	}
	if !strings.Contains(last.text, `"Leaf","leaf,green",13,`) {
		t.Errorf("csv = %q", last.text)
	}
}

func TestKeys(t *testing.T) {
	e := newEnv(t)
	e.send(t, command("/key gemini AIzaSyABCDEFGHIJKLMN"))
	if !strings.Contains(e.tg.last().text, "AIza...KLMN") {
		t.Errorf("reply = %q", e.tg.last().text)
	}
	if !credentials.Has(context.Background(), e.creds, ownerKey(testUser), credentials.Gemini) {
		t.Fatal("key not stored for user")
	}

	e.send(t, command("/reset"))
	if !credentials.Has(context.Background(), e.creds, ownerKey(testUser), credentials.Gemini) {
		t.Error("reset dropped the key")
	}

	e.send(t, command("/clearkey gemini"))
	if credentials.Has(context.Background(), e.creds, ownerKey(testUser), credentials.Gemini) {
		t.Error("key survived clearkey")
	}
}

func TestPanelCallbacks(t *testing.T) {
	e := newEnv(t)
	e.send(t, command("/panel"))
	if e.tg.last().kind != "panel" {
		t.Fatalf("panel not sent: %+v", e.tg.last())
	}

	callback := func(from int64, data string) telegram.Update {
		return telegram.Update{CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb",
			From:    &tgbotapi.User{ID: from},
			Data:    data,
			Message: &tgbotapi.Message{MessageID: 42, Chat: &tgbotapi.Chat{ID: testChat}},
		}}
	}

	e.send(t, callback(testUser, cb(testUser, "ratio", "16:9")))
	if e.state().VideoRatio != "16:9" {
		t.Errorf("ratio = %q", e.state().VideoRatio)
	}
	if last := e.tg.last(); !last.edited || !strings.Contains(last.text, "Rasio: 16:9") {
		t.Errorf("panel not refreshed: %+v", last)
	}

	e.send(t, callback(testUser, cb(testUser, "mode", "model")))
	if e.state().Mode != studio.ModeModel {
		t.Errorf("mode = %q", e.state().Mode)
	}

	e.send(t, callback(99, cb(testUser, "voice", "Puck")))
	if last := e.tg.last(); !last.alerted {
		t.Errorf("foreign user not rejected: %+v", last)
	}
	if e.state().Voice == "Puck" {
		t.Error("foreign user changed the voice")
	}
}

func TestSlotKindFor(t *testing.T) {
	cases := map[string]studio.SlotKind{
		"":              studio.SlotProduct,
		"botol parfum":  studio.SlotProduct,
		"Wajah model":   studio.SlotFace,
		"my FACE photo": studio.SlotFace,
	}
	for caption, want := range cases {
		if got := slotKindFor(caption); got != want {
			t.Errorf("slotKindFor(%q) = %q, want %q", caption, got, want)
		}
	}
}

type deadlineVideo struct {
	mu       sync.Mutex
	deadline time.Time
}

func (v *deadlineVideo) GenerateVideo(ctx context.Context, req gemini.VideoRequest) (gemini.Video, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.deadline, _ = ctx.Deadline()
	return gemini.Video{URI: "https://video.example/1", Data: []byte("mp4"), MimeType: "video/mp4"}, nil
}

func TestVideoUsesOwnDeadline(t *testing.T) {
	tg := &fakeMessenger{}
	sessions := session.NewStore(session.Options{})
	video := &deadlineVideo{}
	st := studio.New(studio.Options{
		Images:       okImages{},
		Text:         echoText{},
		Speech:       nopSpeech{},
		Video:        video,
		SlotStagger:  time.Nanosecond,
		SceneStagger: time.Nanosecond,
		Intn:         func(int) int { return 0 },
	})
	h := New(Options{Telegram: tg, Studio: st, Sessions: sessions, VideoTimeout: 30 * time.Minute})
	e := &env{h: h, tg: tg, sessions: sessions}
	e.send(t, command("/mode product"))
	e.send(t, command("/generate"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := h.HandleUpdate(ctx, command("/video 1 orbit")); err != nil {
		t.Fatal(err)
	}
	if last := tg.last(); last.kind != "document" || last.name != "scene-1.mp4" {
		t.Fatalf("video reply = %+v", last)
	}
	video.mu.Lock()
	defer video.mu.Unlock()
	if remaining := time.Until(video.deadline); remaining < 20*time.Minute {
		t.Errorf("render deadline %v away, want the 30m video timeout", remaining)
	}
}
