package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/baditaflorin/go_edit_similarity/internal/core/domain"
	"github.com/baditaflorin/go_edit_similarity/internal/ports"
)

// DefaultSize is the number of (base, revised) pairs kept when no size is given.
const DefaultSize = 1024

type pairKey [sha256.Size]byte

// CachedCalculator memoizes results of a delegate calculator keyed on the
// (base, revised) pair. Interactive editors recompute on every keystroke, and
// repeated pairs (undo, redo, re-renders) are served from the cache.
type CachedCalculator struct {
	delegate ports.SimilarityCalculator
	cache    *lru.Cache[pairKey, domain.Result]
	logger   ports.Logger
	hits     atomic.Uint64
	misses   atomic.Uint64
}

// NewCachedCalculator wraps delegate with an LRU cache holding size entries.
func NewCachedCalculator(delegate ports.SimilarityCalculator, size int, logger ports.Logger) (*CachedCalculator, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.New[pairKey, domain.Result](size)
	if err != nil {
		return nil, err
	}
	return &CachedCalculator{
		delegate: delegate,
		cache:    cache,
		logger:   logger,
	}, nil
}

// Compute returns a cached result when the pair was seen before.
func (c *CachedCalculator) Compute(ctx context.Context, base, revised string) domain.Result {
	key := keyFor(base, revised)
	if result, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		c.logger.Debug("Edit ratio cache hit", "ratio", result.Ratio)
		return cloneResult(result)
	}
	c.misses.Add(1)

	result := c.delegate.Compute(ctx, base, revised)
	if result.Cancelled() {
		return result
	}
	c.cache.Add(key, cloneResult(result))
	return result
}

// Len returns the number of cached pairs.
func (c *CachedCalculator) Len() int {
	return c.cache.Len()
}

// Stats returns the cache hit and miss counts.
func (c *CachedCalculator) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Purge drops every cached pair.
func (c *CachedCalculator) Purge() {
	c.cache.Purge()
}

// keyFor hashes the pair with length prefixes so ("ab","c") and ("a","bc") differ.
func keyFor(base, revised string) pairKey {
	h := sha256.New()
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(base)))
	h.Write(n[:])
	h.Write([]byte(base))
	binary.BigEndian.PutUint64(n[:], uint64(len(revised)))
	h.Write(n[:])
	h.Write([]byte(revised))

	var key pairKey
	copy(key[:], h.Sum(nil))
	return key
}

func cloneResult(r domain.Result) domain.Result {
	if r.Details != nil {
		details := make(map[string]interface{}, len(r.Details))
		for k, v := range r.Details {
			details[k] = v
		}
		r.Details = details
	}
	return r
}
