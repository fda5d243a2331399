// Package mediagroup collects the messages of one Telegram album so the
// uploads can be handled together.
package mediagroup

import (
	"fmt"
	"sync"
	"time"
)

// File is one upload of an album.
type File struct {
	FileID   string
	Name     string
	MimeType string
}

type Item struct {
	ChatID       int64
	UserID       int64
	MediaGroupID string
	Caption      string
	File         File
}

type Group struct {
	ChatID  int64
	UserID  int64
	Caption string
	Files   []File
}

type Options struct {
	Debounce time.Duration
	// MaxFiles flushes an album as soon as it holds this many files.
	// Zero means Telegram's own album limit.
	MaxFiles int
	OnFlush  func(Group)
}

const albumLimit = 10

type Aggregator struct {
	mu       sync.Mutex
	debounce time.Duration
	maxFiles int
	onFlush  func(Group)
	albums   map[string]*album
	stopped  bool
}

type album struct {
	group Group
	timer *time.Timer
}

func New(opts Options) *Aggregator {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 1200 * time.Millisecond
	}
	maxFiles := opts.MaxFiles
	if maxFiles <= 0 {
		maxFiles = albumLimit
	}

	return &Aggregator{
		debounce: debounce,
		maxFiles: maxFiles,
		onFlush:  opts.OnFlush,
		albums:   make(map[string]*album),
	}
}

// Add queues item and restarts the album's quiet timer. Items without a
// media group id or file are ignored, as is everything after Stop.
func (a *Aggregator) Add(item Item) {
	if item.MediaGroupID == "" || item.File.FileID == "" {
		return
	}
	key := albumKey(item.ChatID, item.MediaGroupID)

	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	al := a.queue(key, item)
	if len(al.group.Files) < a.maxFiles {
		a.mu.Unlock()
		return
	}
	al.timer.Stop()
	delete(a.albums, key)
	a.mu.Unlock()

	a.emit(al.group)
}

// queue appends item to its album and re-arms the timer. Callers hold mu.
func (a *Aggregator) queue(key string, item Item) *album {
	al, ok := a.albums[key]
	if !ok {
		al = &album{group: Group{ChatID: item.ChatID, UserID: item.UserID}}
		a.albums[key] = al
	}
	al.group.Files = append(al.group.Files, item.File)
	if item.Caption != "" {
		al.group.Caption = item.Caption
	}

	if al.timer != nil {
		al.timer.Stop()
	}
	al.timer = time.AfterFunc(a.debounce, func() { a.flush(key) })
	return al
}

// Pending reports how many albums are still collecting.
func (a *Aggregator) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.albums)
}

// Stop discards albums that have not flushed yet.
func (a *Aggregator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	for key, al := range a.albums {
		al.timer.Stop()
		delete(a.albums, key)
	}
}

func (a *Aggregator) flush(key string) {
	a.mu.Lock()
	al, ok := a.albums[key]
	if !ok {
		a.mu.Unlock()
		return
	}
	delete(a.albums, key)
	a.mu.Unlock()

	a.emit(al.group)
}

func (a *Aggregator) emit(group Group) {
	if a.onFlush != nil {
		a.onFlush(group)
	}
}

func albumKey(chatID int64, mediaGroupID string) string {
	return fmt.Sprintf("%d:%s", chatID, mediaGroupID)
}
