package quote

import (
	"context"

	"github.com/epsilonstar-02/AlphaTrack/internal/market"
)

// Source produces the normalized daily series for a symbol.
// Implementations must be safe for concurrent use and must honor ctx on
// any blocking call.
type Source interface {
	Name() string
	Daily(ctx context.Context, symbol string) (*market.Series, error)
}
