package market_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/epsilonstar-02/AlphaTrack/internal/market"
)

func TestCanonicalSymbol(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"aapl", "AAPL"},
		{"  aapl ", "AAPL"},
		{"AAPL", "AAPL"},
		{"\tmsft\n", "MSFT"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, market.CanonicalSymbol(tt.in), "input %q", tt.in)
	}
}

func TestRound2(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want float64
	}{
		{10.256, 10.26},
		{10.254, 10.25},
		{10.0, 10.0},
		{0, 0},
		{-1.005, -1.01},
	}

	for _, tt := range tests {
		require.InDelta(t, tt.want, market.Round2(tt.in), 1e-9, "input %v", tt.in)
	}
}

func TestRound0(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 1251, market.Round0(1250.6), 1e-9)
	require.InDelta(t, 1250, market.Round0(1250.4), 1e-9)
	require.InDelta(t, 0, market.Round0(0), 1e-9)
}
