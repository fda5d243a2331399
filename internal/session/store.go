package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"topaz-studio/internal/logging"
	"topaz-studio/internal/microstock"
	"topaz-studio/internal/studio"
)

// Session is one user's studio: the generation workspace plus the
// microstock batch.
type Session struct {
	ID        string
	Key       string
	Workspace *studio.Workspace
	Stock     *microstock.Batch

	mu           sync.Mutex
	stockUpload  bool
	lastActivity time.Time
}

// StockUpload reports whether incoming bot uploads go to the microstock batch.
func (s *Session) StockUpload() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stockUpload
}

func (s *Session) ToggleStockUpload() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stockUpload = !s.stockUpload
	return s.stockUpload
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastActivity = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	last := s.lastActivity
	s.mu.Unlock()
	if u := s.Workspace.UpdatedAt(); u.After(last) {
		return u
	}
	return last
}

type Options struct {
	Notifier studio.Notifier
	Logger   *slog.Logger
	Now      func() time.Time
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	byKey    map[string]string

	notify studio.Notifier
	logger *slog.Logger
	now    func() time.Time
}

func NewStore(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		sessions: make(map[string]*Session),
		byKey:    make(map[string]string),
		notify:   opts.Notifier,
		logger:   logging.WithComponent(logger, "session"),
		now:      now,
	}
}

func (s *Store) Create() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked("")
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		sess.touch(s.now())
	}
	return sess, ok
}

// GetOrCreate returns the session bound to an external key such as a
// Telegram chat id.
func (s *Store) GetOrCreate(key string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byKey[key]; ok {
		if sess, ok := s.sessions[id]; ok {
			sess.touch(s.now())
			return sess
		}
	}
	return s.createLocked(key)
}

// Reset replaces the session bound to key with a fresh one.
func (s *Store) Reset(key string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byKey[key]; ok {
		delete(s.sessions, id)
	}
	return s.createLocked(key)
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(id)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than ttl and returns how many went.
func (s *Store) Sweep(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			s.deleteLocked(id)
			n++
		}
	}
	if n > 0 {
		s.logger.Info("swept idle sessions", "count", n, "remaining", len(s.sessions))
	}
	return n
}

func (s *Store) createLocked(key string) *Session {
	id := uuid.NewString()
	sess := &Session{
		ID:           id,
		Key:          key,
		Workspace:    studio.NewWorkspace(id, s.notify),
		Stock:        microstock.NewBatch(s.logger),
		lastActivity: s.now(),
	}
	s.sessions[id] = sess
	if key != "" {
		s.byKey[key] = id
	}
	return sess
}

func (s *Store) deleteLocked(id string) {
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	delete(s.sessions, id)
	if sess.Key != "" && s.byKey[sess.Key] == id {
		delete(s.byKey, sess.Key)
	}
}
