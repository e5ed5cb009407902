// Package cache provides a bounded, time-aware in-memory store for
// translation results, keyed by short opaque tokens. Telegram callback data
// is limited to 64 bytes, so results are cached here and referenced by token
// instead of being embedded in the button payload.
package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/ankibot/internal/domain"
)

// Default sizing for the result cache.
const (
	// DefaultCapacity bounds the number of live entries.
	DefaultCapacity = 128

	// DefaultTTL is how long an entry stays retrievable after insertion.
	DefaultTTL = 24 * time.Hour
)

// entry pairs a cached translation with its insertion time. Entries are
// immutable once inserted.
type entry struct {
	translation *domain.Translation
	insertedAt  time.Time
}

// ResultCache maps unguessable tokens to previously computed translations.
// Eviction is least-recently-inserted: reads do not refresh an entry's
// position. Expiry is checked lazily on lookup. Safe for concurrent use.
type ResultCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[string]entry
	order    []string // tokens in insertion order, oldest first
	now      func() time.Time
}

// New creates a ResultCache with the given capacity and TTL. Non-positive
// values fall back to the package defaults.
func New(capacity int, ttl time.Duration) *ResultCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &ResultCache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]entry),
		now:      time.Now,
	}
}

// Put stores the translation under a freshly generated token and returns the
// token. If the cache is full, the oldest-inserted live entry is evicted
// first. Tokens are never reused.
func (c *ResultCache) Put(t *domain.Translation) string {
	token := uuid.NewString()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneExpiredLocked()

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[token] = entry{translation: t, insertedAt: c.now()}
	c.order = append(c.order, token)
	return token
}

// Get returns the translation for the token, or false if the token was never
// inserted or its entry is older than the TTL. Lookups are non-destructive
// and do not affect eviction order.
func (c *ResultCache) Get(token string) (*domain.Translation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[token]
	if !ok {
		return nil, false
	}

	if c.now().Sub(e.insertedAt) > c.ttl {
		return nil, false
	}

	return e.translation, true
}

// Len reports the number of physically stored entries, expired or not.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// pruneExpiredLocked drops expired entries from the front of the insertion
// order. Entries are insertion-time sorted, so expired entries always form a
// prefix. Caller must hold c.mu.
func (c *ResultCache) pruneExpiredLocked() {
	now := c.now()
	for len(c.order) > 0 {
		token := c.order[0]
		if now.Sub(c.entries[token].insertedAt) <= c.ttl {
			break
		}
		c.order = c.order[1:]
		delete(c.entries, token)
	}
}
