package inmemorycache

import (
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
)

// Cache stores raw provider payloads keyed by a normalized request signature.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, payload []byte)
}

type cacheEntry struct {
	data      []byte
	createdAt time.Time
}

// ResponseCache is a TTL-bound payload cache. Expiry is checked lazily on
// read. The LRU bound only caps memory.
type ResponseCache struct {
	entries *lru.Cache
	ttl     time.Duration
	now     func() time.Time
}

type Option func(*ResponseCache)

// WithClock replaces the time source used for entry timestamps and expiry.
func WithClock(now func() time.Time) Option {
	return func(c *ResponseCache) {
		c.now = now
	}
}

func NewResponseCache(ttl time.Duration, maxEntries int, opts ...Option) (*ResponseCache, error) {
	entries, err := lru.New(maxEntries)
	if err != nil {
		return nil, err
	}

	c := &ResponseCache{
		entries: entries,
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *ResponseCache) TTL() time.Duration {
	return c.ttl
}

// Get returns a copy of the payload stored under key if it is not older than
// the TTL. Expired and missing entries look the same to the caller.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	v, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}

	entry, ok := v.(cacheEntry)
	if !ok {
		return nil, false
	}

	if c.now().Sub(entry.createdAt) > c.ttl {
		return nil, false
	}

	out := make([]byte, len(entry.data))
	copy(out, entry.data)
	return out, true
}

// Set stores payload under key with the current timestamp, replacing any
// previous entry. It never fails; the cache is best-effort.
func (c *ResponseCache) Set(key string, payload []byte) {
	if key == "" {
		log.Debug().Msg("skipping cache write with empty key")
		return
	}

	data := make([]byte, len(payload))
	copy(data, payload)

	if evicted := c.entries.Add(key, cacheEntry{data: data, createdAt: c.now()}); evicted {
		log.Debug().Str("key", key).Msg("cache evicted least recently used entry")
	}
}

// Len reports how many entries are held, expired ones included.
func (c *ResponseCache) Len() int {
	return c.entries.Len()
}

// CacheKey derives the cache key for an endpoint and its query parameters.
// Parameters are sorted by name so insertion order never changes the key.
func CacheKey(endpoint string, params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(endpoint)
	b.WriteByte('?')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(params[name])
	}

	return b.String()
}
