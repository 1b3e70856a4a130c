package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/epsilonstar-02/AlphaTrack/internal/market"
	"github.com/epsilonstar-02/AlphaTrack/internal/quote"
)

// MinInterval spaces upstream calls at least Interval apart. A caller
// arriving early waits for the remainder or returns when its context is
// canceled. Interval <= 0 disables the gate.
type MinInterval struct {
	S        quote.Source
	Interval time.Duration

	// now is the clock; nil means time.Now. Injected for tests.
	now func() time.Time

	mu   sync.Mutex
	last time.Time
}

func (m *MinInterval) Name() string { return m.S.Name() }

func (m *MinInterval) clock() time.Time {
	if m.now != nil {
		return m.now()
	}
	return time.Now()
}

// gap reports how much of the interval since the previous call is left.
func (m *MinInterval) gap() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last.IsZero() {
		return 0
	}
	return m.Interval - m.clock().Sub(m.last)
}

func (m *MinInterval) Daily(ctx context.Context, symbol string) (*market.Series, error) {
	if m.Interval <= 0 {
		return m.S.Daily(ctx, symbol)
	}

	if d := m.gap(); d > 0 {
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	s, err := m.S.Daily(ctx, symbol)
	m.mu.Lock()
	m.last = m.clock()
	m.mu.Unlock()
	return s, err
}
