package alphavantage

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/epsilonstar-02/AlphaTrack/internal/market"
)

// maxBars is how many of the most recent calendar entries are retained.
// The fiftyTwoWeek* summary names predate this cap; the window stays 100
// bars, not 252, for compatibility.
const maxBars = 100

// RawBar is one day's record as the provider encodes it: all fields are
// string-encoded numbers.
type RawBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// Normalize converts the provider's newest-first per-date map into a
// chronologically ascending Series capped to the most recent maxBars
// entries, with summary statistics over the retained window only.
func Normalize(symbol string, days map[string]RawBar) (*market.Series, error) {
	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	// Newest first, cap, then reverse to oldest first. Date strings are
	// ISO 8601 so lexical order is chronological order.
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > maxBars {
		dates = dates[:maxBars]
	}
	for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
		dates[i], dates[j] = dates[j], dates[i]
	}

	bars := make([]market.DailyBar, 0, len(dates))
	var (
		high, low, volumeSum float64
	)
	for i, d := range dates {
		rb := days[d]
		open, err := parseField(d, "1. open", rb.Open)
		if err != nil {
			return nil, err
		}
		h, err := parseField(d, "2. high", rb.High)
		if err != nil {
			return nil, err
		}
		l, err := parseField(d, "3. low", rb.Low)
		if err != nil {
			return nil, err
		}
		cl, err := parseField(d, "4. close", rb.Close)
		if err != nil {
			return nil, err
		}
		v, err := parseField(d, "5. volume", rb.Volume)
		if err != nil {
			return nil, err
		}

		bars = append(bars, market.DailyBar{
			Date:   d,
			Open:   open,
			High:   h,
			Low:    l,
			Close:  cl,
			Volume: int64(v), // provider encodes volume as a float string; truncate
		})

		if i == 0 || h > high {
			high = h
		}
		if i == 0 || l < low {
			low = l
		}
		volumeSum += float64(int64(v))
	}

	var latestClose, averageVolume float64
	if len(bars) > 0 {
		latestClose = bars[len(bars)-1].Close
		averageVolume = volumeSum / float64(len(bars))
	}

	return &market.Series{
		Symbol:           symbol,
		Bars:             bars,
		LatestClose:      market.Round2(latestClose),
		FiftyTwoWeekHigh: market.Round2(high),
		FiftyTwoWeekLow:  market.Round2(low),
		AverageVolume:    market.Round0(averageVolume),
	}, nil
}

func parseField(date, field, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: field %q: %w", date, field, err)
	}
	return f, nil
}
