package microstock

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"sync"

	"topaz-studio/internal/gemini"
	"topaz-studio/internal/imageconv"
	"topaz-studio/internal/logging"
	"topaz-studio/internal/prompt"
)

type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusFailed     Status = "failed"
)

// Label is the status text shown next to each upload.
func (s Status) Label() string {
	switch s {
	case StatusProcessing:
		return "Proses..."
	case StatusDone:
		return "Selesai"
	case StatusFailed:
		return "Gagal"
	}
	return "Menunggu"
}

var (
	ErrBusy    = errors.New("microstock batch is already processing")
	ErrNoItems = errors.New("no files to process")
	ErrIndex   = errors.New("item index out of range")
)

type Item struct {
	Name     string                `json:"name"`
	MimeType string                `json:"mime_type"`
	Data     []byte                `json:"-"`
	Status   Status                `json:"status"`
	Metadata *gemini.StockMetadata `json:"metadata,omitempty"`
	Error    string                `json:"error,omitempty"`
}

type MetadataGenerator interface {
	GenerateStockMetadata(ctx context.Context, prompt string, img gemini.Image) (gemini.StockMetadata, error)
}

// Batch is an ordered list of uploads waiting for stock metadata.
type Batch struct {
	mu         sync.Mutex
	items      []Item
	processing bool
	logger     *slog.Logger
}

func NewBatch(logger *slog.Logger) *Batch {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Batch{logger: logging.WithComponent(logger, "microstock")}
}

func (b *Batch) Add(name, mime string, data []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, Item{
		Name:     name,
		MimeType: imageconv.DetectMime(mime, data),
		Data:     data,
		Status:   StatusWaiting,
	})
	return len(b.items) - 1
}

// Items returns a copy of the current list.
func (b *Batch) Items() []Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Item, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

func (b *Batch) Remove(i int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.processing {
		return ErrBusy
	}
	if i < 0 || i >= len(b.items) {
		return ErrIndex
	}
	b.items = append(b.items[:i], b.items[i+1:]...)
	return nil
}

func (b *Batch) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.processing {
		return ErrBusy
	}
	b.items = nil
	return nil
}

func (b *Batch) Processing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.processing
}

// Process walks the batch one item at a time. Finished items are skipped so a
// second run only retries failures and new uploads. onUpdate, when set, is
// called after every status change.
func (b *Batch) Process(ctx context.Context, gen MetadataGenerator, isAI bool, onUpdate func(int, Item)) error {
	run, err := b.Start(gen, isAI, onUpdate)
	if err != nil {
		return err
	}
	return run(ctx)
}

// Start claims the batch and returns the run that processes it. The claim
// fails with ErrBusy or ErrNoItems and leaves the batch untouched; a
// successful claim holds until the returned run finishes, which must be
// called exactly once.
func (b *Batch) Start(gen MetadataGenerator, isAI bool, onUpdate func(int, Item)) (func(context.Context) error, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.processing {
		return nil, ErrBusy
	}
	if len(b.items) == 0 {
		return nil, ErrNoItems
	}
	b.processing = true
	n := len(b.items)
	return func(ctx context.Context) error {
		defer func() {
			b.mu.Lock()
			b.processing = false
			b.mu.Unlock()
		}()
		return b.run(ctx, gen, isAI, n, onUpdate)
	}, nil
}

func (b *Batch) run(ctx context.Context, gen MetadataGenerator, isAI bool, n int, onUpdate func(int, Item)) error {

	text := prompt.StockMetadataPrompt(isAI)
	for i := 0; i < n; i++ {
		item, ok := b.set(i, func(it *Item) bool {
			if it.Status == StatusDone {
				return false
			}
			it.Status = StatusProcessing
			it.Error = ""
			return true
		})
		if !ok {
			continue
		}
		notify(onUpdate, i, item)

		meta, err := describe(ctx, gen, text, item)
		if ctx.Err() != nil {
			item, _ = b.set(i, func(it *Item) bool {
				it.Status = StatusWaiting
				return true
			})
			notify(onUpdate, i, item)
			return ctx.Err()
		}

		item, _ = b.set(i, func(it *Item) bool {
			if err != nil {
				it.Status = StatusFailed
				it.Error = err.Error()
				return true
			}
			it.Status = StatusDone
			it.Metadata = &meta
			return true
		})
		if err != nil {
			b.logger.Warn("metadata failed", "file", item.Name, "err", err)
		}
		notify(onUpdate, i, item)
	}
	return nil
}

func describe(ctx context.Context, gen MetadataGenerator, text string, item Item) (gemini.StockMetadata, error) {
	data, mime := item.Data, item.MimeType
	if imageconv.NeedsConversion(mime) {
		converted, err := imageconv.ToPNG(data, mime)
		if err != nil {
			return gemini.StockMetadata{}, err
		}
		data, mime = converted, imageconv.MimePNG
	}
	img := gemini.Image{Data: base64.StdEncoding.EncodeToString(data), MimeType: mime}
	return gen.GenerateStockMetadata(ctx, text, img)
}

func (b *Batch) set(i int, fn func(*Item) bool) (Item, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i >= len(b.items) {
		return Item{}, false
	}
	ok := fn(&b.items[i])
	return b.items[i], ok
}

func notify(fn func(int, Item), i int, item Item) {
	if fn != nil {
		fn(i, item)
	}
}
