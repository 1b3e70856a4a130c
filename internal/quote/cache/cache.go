package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/epsilonstar-02/AlphaTrack/internal/market"
	"github.com/epsilonstar-02/AlphaTrack/internal/quote"
)

// entry stores the cached series for a single symbol with its fetch time.
type entry struct {
	fetchedAt time.Time
	series    *market.Series
}

// Source caches normalized series per symbol for a TTL.
// Keys are canonical uppercase symbols. An entry is created on the first
// successful fetch, replaced wholesale on the next successful fetch after
// expiry, and never deleted: stale entries are simply treated as cold and
// re-fetched at read time. Failed fetches leave the map untouched.
//
// Concurrent misses for the same symbol are coalesced into one upstream
// call; this only reduces upstream traffic, the observable results are
// unchanged.
type Source struct {
	S   quote.Source
	TTL time.Duration

	// Now is the clock; nil means time.Now. Injected for tests.
	Now func() time.Time

	mu      sync.RWMutex
	entries map[string]entry // key: canonical symbol
	sf      singleflight.Group
}

func (c *Source) Name() string { return c.S.Name() }

// Daily returns the cached series when fresh, otherwise fetches from the
// underlying source and stores the result.
func (c *Source) Daily(ctx context.Context, symbol string) (*market.Series, error) {
	key := market.CanonicalSymbol(symbol)
	if c.TTL <= 0 {
		return c.S.Daily(ctx, key)
	}

	if s, ok := c.lookup(key); ok {
		return s, nil
	}

	// Coalesce concurrent refreshes per symbol. The shared fetch is
	// detached from any single caller's lifetime so one cancellation
	// cannot fail the coalesced waiters; each caller still honors its
	// own ctx below.
	ch := c.sf.DoChan(key, func() (any, error) {
		// Re-check: another caller may have refreshed while we queued.
		if s, ok := c.lookup(key); ok {
			return s, nil
		}
		s, err := c.S.Daily(context.WithoutCancel(ctx), key)
		if err != nil {
			// Nothing stored and nothing evicted on a failed refresh.
			return nil, err
		}
		c.mu.Lock()
		if c.entries == nil {
			c.entries = make(map[string]entry)
		}
		c.entries[key] = entry{fetchedAt: c.now(), series: s}
		c.mu.Unlock()
		return s, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*market.Series), nil
	}
}

// lookup returns the entry for key if it exists and is still fresh.
func (c *Source) lookup(key string) (*market.Series, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Sub(e.fetchedAt) < c.TTL {
		return e.series, true
	}
	return nil, false
}

func (c *Source) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
