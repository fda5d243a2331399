// Package credentials stores the provider API keys a user brings along.
//
// Keys are scoped per owner (a web session or a Telegram user) and are
// stored unencrypted, the same way a browser keeps them in local storage.
package credentials

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode"
)

type Provider string

const (
	Gemini Provider = "gemini"
	Grok   Provider = "grok"
)

var (
	ErrUnknownProvider = errors.New("unknown provider")
	ErrKeyTooShort     = errors.New("api key too short")
)

// Store persists one key per (owner, provider).
type Store interface {
	Get(ctx context.Context, owner string, provider Provider) (string, error)
	Set(ctx context.Context, owner string, provider Provider, key string) error
	Delete(ctx context.Context, owner string, provider Provider) error
}

func ParseProvider(value string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(value))) {
	case Gemini:
		return Gemini, nil
	case Grok:
		return Grok, nil
	}
	return "", ErrUnknownProvider
}

// Clean normalizes a pasted key. Gemini keys lose every whitespace rune,
// including ones in the middle from line-wrapped copies.
func Clean(provider Provider, raw string) string {
	if provider == Gemini {
		return strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, raw)
	}
	return strings.TrimSpace(raw)
}

// Usable reports whether a stored key should take precedence over defaults.
func Usable(provider Provider, key string) bool {
	if provider == Gemini {
		return len(key) > 10
	}
	return key != ""
}

// Lookup returns the owner's usable key or "".
func Lookup(ctx context.Context, store Store, owner string, provider Provider) string {
	if store == nil || owner == "" {
		return ""
	}
	key, err := store.Get(ctx, owner, provider)
	if err != nil {
		return ""
	}
	key = Clean(provider, key)
	if !Usable(provider, key) {
		return ""
	}
	return key
}

// Save cleans and validates before writing; an empty key clears the entry.
func Save(ctx context.Context, store Store, owner string, provider Provider, raw string) error {
	key := Clean(provider, raw)
	if key == "" {
		return store.Delete(ctx, owner, provider)
	}
	if len(key) <= 5 {
		return ErrKeyTooShort
	}
	return store.Set(ctx, owner, provider, key)
}

type ownerKey struct{}

func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

func OwnerFrom(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey{}).(string)
	return owner
}

type MemoryStore struct {
	mu   sync.RWMutex
	keys map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, owner string, provider Provider) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys[memKey(owner, provider)], nil
}

func (s *MemoryStore) Set(_ context.Context, owner string, provider Provider, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[memKey(owner, provider)] = key
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, owner string, provider Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, memKey(owner, provider))
	return nil
}

func memKey(owner string, provider Provider) string {
	return owner + "\x00" + string(provider)
}

func Has(ctx context.Context, store Store, owner string, provider Provider) bool {
	return Lookup(ctx, store, owner, provider) != ""
}
