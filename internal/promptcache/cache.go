// Package promptcache implements the tiered read cache for the prompt
// library: a process-memory map in front of a persistent store in front of
// the network. Entries are valid while now - storedAt < TTL; an entry aged
// exactly TTL is expired.
package promptcache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xy2yp/Artify/internal/repository/entrystore"
	"github.com/xy2yp/Artify/pkg/logger"
	"github.com/xy2yp/Artify/pkg/metrics"
)

const DefaultTTL = 2 * time.Hour

// Fetcher produces fresh payload bytes for a key when both cache tiers miss.
type Fetcher func(ctx context.Context) ([]byte, error)

type entry struct {
	payload  []byte
	storedAt time.Time
}

// TieredCache resolves reads memory-first, then store, then Fetcher.
// Concurrent misses on the same key may each invoke the Fetcher; requests
// are not coalesced.
type TieredCache struct {
	mu      sync.Mutex
	entries map[string]entry

	store  entrystore.Store
	ttl    time.Duration
	logger logger.Logger
	now    func() time.Time
}

func New(store entrystore.Store, ttl time.Duration, l logger.Logger) *TieredCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &TieredCache{
		entries: make(map[string]entry),
		store:   store,
		ttl:     ttl,
		logger:  l,
		now:     time.Now,
	}
}

// Get returns the payload for key. A persistent-tier hit is promoted into
// memory stamped with the read time, so it stays warm for a full TTL in
// this process; the stored entry keeps its original timestamp. Store
// failures degrade the cache to memory-plus-network, they never fail the
// read. A fetch failure caches nothing.
func (c *TieredCache) Get(ctx context.Context, key string, fetch Fetcher) ([]byte, error) {
	now := c.now()

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.fresh(e.storedAt, now) {
		c.mu.Unlock()
		metrics.PromptCacheHits.WithLabelValues("memory").Inc()
		c.logger.Debug("prompt cache hit", "tier", "memory", "key", key)
		return e.payload, nil
	}
	c.mu.Unlock()

	stored, found, err := c.store.Get(key)
	if err != nil {
		c.logger.Warn("persistent store read failed, continuing without it", "key", key, "error", err)
	} else if found && c.fresh(stored.StoredAt, now) {
		c.mu.Lock()
		c.entries[key] = entry{payload: stored.Payload, storedAt: now}
		c.mu.Unlock()
		metrics.PromptCacheHits.WithLabelValues("persistent").Inc()
		c.logger.Debug("prompt cache hit", "tier", "persistent", "key", key)
		return stored.Payload, nil
	}

	metrics.PromptCacheMisses.Inc()
	c.logger.Debug("prompt cache miss", "key", key)

	payload, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	stamp := c.now()
	c.mu.Lock()
	c.entries[key] = entry{payload: payload, storedAt: stamp}
	c.mu.Unlock()

	if err := c.store.Put(entrystore.Entry{Key: key, Payload: payload, StoredAt: stamp}); err != nil {
		c.logger.Warn("persistent store write failed, entry kept in memory only", "key", key, "error", err)
	}

	return payload, nil
}

// InvalidateAll wipes both tiers wholesale. A store failure leaves the
// memory tier empty and is logged, not returned.
func (c *TieredCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()

	metrics.PromptCacheInvalidations.Inc()
	c.logger.Info("prompt cache invalidated")

	if err := c.store.Clear(); err != nil {
		c.logger.Warn("persistent store clear failed", "error", err)
	}
}

type Stats struct {
	Entries int      `json:"entries"`
	Keys    []string `json:"keys"`
	TTL     string   `json:"ttl"`
}

func (c *TieredCache) Stats() Stats {
	c.mu.Lock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.Unlock()

	sort.Strings(keys)

	return Stats{
		Entries: len(keys),
		Keys:    keys,
		TTL:     c.ttl.String(),
	}
}

func (c *TieredCache) fresh(storedAt, now time.Time) bool {
	return now.Sub(storedAt) < c.ttl
}
