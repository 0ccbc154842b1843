package engine

import (
	"sync"
	"time"

	"uex-hauler/internal/uex"
)

// Freshness classifies a cache entry at read time. Stale data stays
// servable as a degraded fallback; only the caller decides whether to
// refresh.
type Freshness int

const (
	Missing Freshness = iota
	Fresh
	Stale
)

func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "Fresh"
	case Stale:
		return "Stale"
	default:
		return "Missing"
	}
}

type cacheEntry struct {
	points    []uex.PricePoint
	fetchedAt time.Time
}

// PriceCache holds per-commodity price observations keyed by commodity ID.
// It is the only stateful component of the engine: one writer (the refresh
// collaborator) concurrent with any number of readers. Upsert swaps the
// whole point set so a reader never observes a half-written entry; callers
// must treat returned slices as immutable.
//
// Staleness is computed lazily against the TTL at read time. There is no
// eviction: the working set is a few hundred commodities, bounded by the
// game, not by memory.
type PriceCache struct {
	mu            sync.RWMutex
	priceTTL      time.Duration
	commodityTTL  time.Duration
	entries       map[string]cacheEntry
	commoditiesAt time.Time
}

// NewPriceCache creates an empty cache with the given TTL per resource kind
// (price points vs. the commodities list).
func NewPriceCache(priceTTL, commodityTTL time.Duration) *PriceCache {
	return &PriceCache{
		priceTTL:     priceTTL,
		commodityTTL: commodityTTL,
		entries:      make(map[string]cacheEntry),
	}
}

// Upsert replaces the entire point set for a commodity and marks it fresh
// as of fetchedAt. The cache performs no I/O and never fails.
func (c *PriceCache) Upsert(commodityID string, points []uex.PricePoint, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[commodityID] = cacheEntry{points: points, fetchedAt: fetchedAt}
}

// Get returns the cached points for a commodity and their freshness. It
// never blocks on upstream work: a commodity with no prior successful fetch
// returns Missing with an empty slice.
func (c *PriceCache) Get(commodityID string) ([]uex.PricePoint, Freshness) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[commodityID]
	if !ok {
		return nil, Missing
	}
	if time.Since(e.fetchedAt) > c.priceTTL {
		return e.points, Stale
	}
	return e.points, Fresh
}

// FetchedAt reports when a commodity's points were last upserted.
func (c *PriceCache) FetchedAt(commodityID string) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[commodityID]
	return e.fetchedAt, ok
}

// Clear drops one commodity's entry; used for manual invalidation.
func (c *PriceCache) Clear(commodityID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, commodityID)
}

// ClearAll drops every price entry and the commodities-list timestamp.
func (c *PriceCache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	c.commoditiesAt = time.Time{}
}

// RecordCommodityFetch notes a successful commodities-list fetch so the
// list's freshness can be reported independently of the price points.
func (c *PriceCache) RecordCommodityFetch(fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commoditiesAt = fetchedAt
}

// CommodityFreshness reports the freshness of the commodities list itself.
func (c *PriceCache) CommodityFreshness() Freshness {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.commoditiesAt.IsZero() {
		return Missing
	}
	if time.Since(c.commoditiesAt) > c.commodityTTL {
		return Stale
	}
	return Fresh
}

// Snapshot returns the current point sets for the requested commodities.
// Evaluation and ranking passes work over this map instead of reaching into
// shared state, so one pass sees one consistent view.
func (c *PriceCache) Snapshot(commodityIDs []string) map[string][]uex.PricePoint {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := make(map[string][]uex.PricePoint, len(commodityIDs))
	for _, id := range commodityIDs {
		if e, ok := c.entries[id]; ok {
			snap[id] = e.points
		}
	}
	return snap
}

// PriceTTL exposes the configured price TTL for confidence scoring.
func (c *PriceCache) PriceTTL() time.Duration {
	return c.priceTTL
}

// Len reports how many commodities currently have a cached entry.
func (c *PriceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
