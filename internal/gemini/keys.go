package gemini

import (
	"strings"
	"sync"
)

// KeyPool hands out shared default keys round-robin. A key that hits quota
// is marked exhausted and skipped until every key has been exhausted once.
type KeyPool struct {
	mu        sync.Mutex
	keys      []string
	index     int
	exhausted map[int]bool
}

func NewKeyPool(keys []string) *KeyPool {
	var cleaned []string
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	return &KeyPool{keys: cleaned, exhausted: make(map[int]bool)}
}

func (p *KeyPool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

func (p *KeyPool) Current() string {
	if p.Len() == 0 {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.keys[p.index]
}

func (p *KeyPool) Index() int {
	if p.Len() == 0 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

// Rotate marks the current key exhausted and moves on. It returns the old
// and new positions.
func (p *KeyPool) Rotate() (int, int) {
	n := p.Len()
	if n == 0 {
		return 0, 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.exhausted[p.index] = true
	old := p.index
	next := (old + 1) % n
	attempts := 0
	for p.exhausted[next] && attempts < n {
		next = (next + 1) % n
		attempts++
	}
	if attempts == n {
		p.exhausted = make(map[int]bool)
		next = (old + 1) % n
	}
	p.index = next
	return old, next
}
