// Package idempotency keeps the first successful submission per order
// fingerprint and serves repeats from memory.
package idempotency

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jamesfeng2009/forecastdesk/internal/domain"
	"golang.org/x/sync/singleflight"
)

// fingerprintLen is the number of hex characters kept from the digest.
const fingerprintLen = 16

// Fingerprint hashes the canonical field set. Keys are serialized in sorted
// order so the result does not depend on how the fields were supplied.
func Fingerprint(c domain.CanonicalOrder) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any(c)); err != nil {
		return "", fmt.Errorf("encoding canonical order: %w", err)
	}
	sum := sha256.Sum256(bytes.TrimRight(buf.Bytes(), "\n"))
	return hex.EncodeToString(sum[:])[:fingerprintLen], nil
}

// SubmitFunc performs the real submission for a fingerprint miss.
type SubmitFunc func(ctx context.Context) (domain.Submission, error)

// Store is the cache contract used by the service layer.
type Store interface {
	SubmitOrReplay(ctx context.Context, fingerprint string, fn SubmitFunc) (domain.Submission, bool, error)
	Len() int
}

// Cache is an in-memory Store. The zero value is not usable; call New.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]domain.Submission
	order      []string
	maxEntries int
	group      singleflight.Group
}

var _ Store = (*Cache)(nil)

// Option configures a Cache.
type Option func(*Cache)

// WithMaxEntries bounds the cache. When full, the oldest entry is evicted.
// Zero or a negative value means unbounded.
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{entries: make(map[string]domain.Submission)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitOrReplay returns the stored submission for fingerprint, marked as a
// replay, without calling fn. On a miss fn is called and a successful result
// is stored. Failures are never stored. Concurrent misses for the same
// fingerprint share a single fn call; only the caller that ran fn sees
// replay=false.
func (c *Cache) SubmitOrReplay(ctx context.Context, fingerprint string, fn SubmitFunc) (domain.Submission, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Submission{}, false, err
	}
	if sub, ok := c.lookup(fingerprint); ok {
		return sub, true, nil
	}

	invoked := false
	v, err, _ := c.group.Do(fingerprint, func() (any, error) {
		if sub, ok := c.lookup(fingerprint); ok {
			return sub, nil
		}
		invoked = true
		sub, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		sub.RequestID = fingerprint
		sub.IdempotentReplay = false
		c.store(fingerprint, sub)
		return sub, nil
	})
	if err != nil {
		return domain.Submission{}, false, err
	}

	sub := v.(domain.Submission).Clone()
	if !invoked {
		sub.IdempotentReplay = true
	}
	return sub, !invoked, nil
}

// Len reports the number of stored submissions.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Get returns a copy of the stored submission without marking it.
func (c *Cache) Get(fingerprint string) (domain.Submission, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sub, ok := c.entries[fingerprint]
	if !ok {
		return domain.Submission{}, false
	}
	return sub.Clone(), true
}

func (c *Cache) lookup(fingerprint string) (domain.Submission, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sub, ok := c.entries[fingerprint]
	if !ok {
		return domain.Submission{}, false
	}
	out := sub.Clone()
	out.RequestID = fingerprint
	out.IdempotentReplay = true
	return out, true
}

func (c *Cache) store(fingerprint string, sub domain.Submission) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[fingerprint]; !exists {
		c.order = append(c.order, fingerprint)
	}
	c.entries[fingerprint] = sub.Clone()
	for c.maxEntries > 0 && len(c.order) > c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}
