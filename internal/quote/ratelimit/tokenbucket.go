package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/epsilonstar-02/AlphaTrack/internal/market"
	"github.com/epsilonstar-02/AlphaTrack/internal/quote"
)

// TokenBucket meters calls at a steady rate with a burst allowance.
// Refill is computed lazily from elapsed wall time, so no background
// goroutine runs. The bucket starts full.
type TokenBucket struct {
	rate     float64 // tokens per second
	capacity float64

	// now is the clock; nil means time.Now. Injected for tests.
	now func() time.Time

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

func NewTokenBucket(tokensPerSecond float64, burst int) *TokenBucket {
	if tokensPerSecond <= 0 {
		tokensPerSecond = 1e-9
	}
	if burst <= 0 {
		burst = 1
	}
	tb := &TokenBucket{rate: tokensPerSecond, capacity: float64(burst)}
	tb.tokens = tb.capacity
	tb.last = tb.clock()
	return tb
}

func (tb *TokenBucket) clock() time.Time {
	if tb.now != nil {
		return tb.now()
	}
	return time.Now()
}

// take consumes one token if available. When the bucket is empty it
// reports how long until the next token accrues.
func (tb *TokenBucket) take() (bool, time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.clock()
	if elapsed := now.Sub(tb.last).Seconds(); elapsed > 0 {
		tb.tokens += elapsed * tb.rate
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.last = now
	}
	if tb.tokens >= 1 {
		tb.tokens--
		return true, 0
	}
	wait := time.Duration((1 - tb.tokens) / tb.rate * float64(time.Second))
	if wait <= 0 {
		wait = time.Millisecond
	}
	return false, wait
}

// wait blocks until one token is consumed or the context is canceled.
func (tb *TokenBucket) wait(ctx context.Context) error {
	for {
		ok, d := tb.take()
		if ok {
			return nil
		}
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// TokenBucketSource gates upstream calls through a token bucket. Useful
// against the provider's free-tier per-minute quota.
type TokenBucketSource struct {
	S  quote.Source
	TB *TokenBucket
}

func (t *TokenBucketSource) Name() string { return t.S.Name() }

func (t *TokenBucketSource) Daily(ctx context.Context, symbol string) (*market.Series, error) {
	if t.TB != nil {
		if err := t.TB.wait(ctx); err != nil {
			return nil, err
		}
	}
	return t.S.Daily(ctx, symbol)
}
