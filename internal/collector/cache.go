package collector

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"TrendScreener/internal/metrics"
	"TrendScreener/internal/model"
)

// DefaultCacheTTL matches how long a daily screen stays useful.
const DefaultCacheTTL = time.Hour

type cacheEntry struct {
	history   *model.PriceHistory
	fetchedAt time.Time
}

// CachedFetcher fronts another Fetcher with a time-boxed read-through cache
// keyed by (provider, ticker, window). Concurrent misses on one key share a
// single upstream fetch. Failures are never cached.
type CachedFetcher struct {
	next   Fetcher
	ttl    time.Duration
	window string
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

// NewCachedFetcher wraps next. window names the fetch parameters (e.g. "1y/1d").
func NewCachedFetcher(next Fetcher, ttl time.Duration, window string) *CachedFetcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedFetcher{
		next:    next,
		ttl:     ttl,
		window:  window,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *CachedFetcher) Name() string { return c.next.Name() + "+cache" }

func (c *CachedFetcher) key(ticker string) string {
	return c.next.Name() + "|" + ticker + "|" + c.window
}

func (c *CachedFetcher) FetchHistory(ctx context.Context, ticker string) (*model.PriceHistory, error) {
	key := c.key(ticker)
	if h, ok := c.lookup(key); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return h, nil
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		if h, ok := c.lookup(key); ok {
			return h, nil
		}
		h, err := c.next.FetchHistory(ctx, ticker)
		if err != nil {
			return nil, err
		}
		c.store(key, h)
		return h, nil
	})
	if shared {
		metrics.CacheLookups.WithLabelValues("shared").Inc()
	} else {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}
	if err != nil {
		return nil, err
	}
	return v.(*model.PriceHistory), nil
}

func (c *CachedFetcher) lookup(key string) (*model.PriceHistory, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.history, true
}

func (c *CachedFetcher) store(key string, h *model.PriceHistory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{history: h, fetchedAt: c.now()}
}

// Len returns the number of cached entries, fresh or not.
func (c *CachedFetcher) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge drops every entry.
func (c *CachedFetcher) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
