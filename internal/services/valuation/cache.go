package valuation

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ashir876/catch-collect/internal/models"
)

// valuationCache is the request/response cache for computed valuations,
// keyed by (user, list, range, holdings signature). Each user carries a
// generation counter bumped on every holdings mutation: entries written
// under an older generation are never returned or stored, which gives
// last-request-wins semantics: a stale in-flight computation cannot
// overwrite the result of a newer one.
type valuationCache struct {
	mu          sync.Mutex
	ttl         time.Duration
	entries     map[string]cacheEntry
	generations map[string]uint64
}

type cacheEntry struct {
	value      any
	generation uint64
	storedAt   time.Time
}

func newValuationCache(ttl time.Duration) *valuationCache {
	return &valuationCache{
		ttl:         ttl,
		entries:     make(map[string]cacheEntry),
		generations: make(map[string]uint64),
	}
}

// generation returns the current generation for a user. Readers snapshot it
// before loading holdings; writers pass it back so stale results are dropped.
func (c *valuationCache) generation(userID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[userID]
}

// invalidateUser bumps the user's generation, making every cached entry and
// every in-flight computation for that user stale. Called on holdings
// mutation.
func (c *valuationCache) invalidateUser(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[userID]++
	prefix := userID + "|"
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

func (c *valuationCache) get(userID, key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if entry.generation != c.generations[userID] || time.Since(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

// put stores a computed value unless the generation it was computed under
// has been superseded. Every write also sweeps expired entries so keys for
// users that are never queried again do not accumulate.
func (c *valuationCache) put(userID, key string, generation uint64, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, entry := range c.entries {
		if time.Since(entry.storedAt) > c.ttl {
			delete(c.entries, k)
		}
	}

	if generation != c.generations[userID] {
		return
	}
	c.entries[key] = cacheEntry{
		value:      value,
		generation: generation,
		storedAt:   time.Now(),
	}
}

// summaryKey and seriesKey build cache keys scoped to the user prefix used
// by invalidateUser.
func summaryKey(userID string, list models.HoldingList, signature string) string {
	return fmt.Sprintf("%s|summary|%s|%s", userID, list, signature)
}

func seriesKey(userID string, list models.HoldingList, rng models.TimeRange, signature string) string {
	return fmt.Sprintf("%s|series|%s|%s|%s", userID, list, rng, signature)
}

// holdingsSignature derives an order-independent fingerprint of a holdings
// list so cache entries go stale when the list content changes.
func holdingsSignature(holdings []models.HoldingItem) string {
	ids := make([]string, 0, len(holdings))
	for i := range holdings {
		ids = append(ids, holdings[i].ID)
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}
