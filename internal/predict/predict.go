// Package predict derives a naive next-day close estimate from a
// symbol's normalized daily series.
package predict

import (
	"context"
	"errors"

	"github.com/epsilonstar-02/AlphaTrack/internal/market"
	"github.com/epsilonstar-02/AlphaTrack/internal/quote"
)

// ErrInsufficientData is returned when fewer than 2 bars remain after
// windowing.
var ErrInsufficientData = errors.New("not enough data to make a prediction")

// DefaultWindowDays is the trailing window used when the caller does not
// specify one.
const DefaultWindowDays = 30

// Result is the outcome of a prediction.
type Result struct {
	Symbol         string  `json:"symbol"`
	PredictedClose float64 `json:"predictedClose"`
	WindowDays     int     `json:"windowDays"`
}

// Estimator fits a least-squares line to trailing closes and projects it
// one step past the window. It is intentionally a linear extrapolation:
// no seasonality, no confidence interval, no plausibility checks.
type Estimator struct {
	S quote.Source
}

// NextClose obtains the series through the cache/fetch path and predicts
// the next day's close over the trailing windowDays bars. Fetch-level
// errors propagate unchanged.
func (e *Estimator) NextClose(ctx context.Context, symbol string, windowDays int) (Result, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	series, err := e.S.Daily(ctx, symbol)
	if err != nil {
		return Result{}, err
	}

	bars := series.Bars
	if len(bars) > windowDays {
		bars = bars[len(bars)-windowDays:]
	}
	if len(bars) < 2 {
		return Result{}, ErrInsufficientData
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	slope, intercept := fitLine(closes)
	predicted := slope*float64(len(closes)) + intercept

	return Result{
		Symbol:         series.Symbol,
		PredictedClose: market.Round2(predicted),
		WindowDays:     windowDays,
	}, nil
}

// fitLine returns the ordinary-least-squares line over ys indexed
// 0..n-1: y ~= slope*x + intercept.
func fitLine(ys []float64) (slope, intercept float64) {
	n := float64(len(ys))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
