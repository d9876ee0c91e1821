package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lottoscope/lottoscope/internal/models"
)

// resultCache memoizes prediction results by request options with a TTL.
// The whole cache is purged whenever the engine's history changes, so entries
// can never outlive the history they were computed from.
type resultCache struct {
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	result  *models.PredictionResult
	expires time.Time
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// cacheKey canonicalizes the cache-relevant request options: enabled filters
// (sorted), limits, pool size, weight overrides (sorted by factor name), and
// the history length the result was computed over.
func cacheKey(opts Options, drawCount int) string {
	ids := make([]string, len(opts.EnabledFilters))
	copy(ids, opts.EnabledFilters)
	sort.Strings(ids)

	weights := make([]string, 0, len(opts.Weights))
	for name, w := range opts.Weights {
		weights = append(weights, fmt.Sprintf("%s:%g", name, w))
	}
	sort.Strings(weights)

	return fmt.Sprintf("f=%s|max=%d|min=%g|pool=%d|w=%s|draws=%d",
		strings.Join(ids, ","), opts.MaxCombinations, opts.MinScore,
		opts.PoolSize, strings.Join(weights, ","), drawCount)
}

func (c *resultCache) get(key string) (*models.PredictionResult, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.result, true
}

func (c *resultCache) put(key string, result *models.PredictionResult) {
	if c.ttl <= 0 {
		return
	}
	c.entries[key] = cacheEntry{result: result, expires: c.now().Add(c.ttl)}
}

func (c *resultCache) purge() {
	c.entries = make(map[string]cacheEntry)
}
