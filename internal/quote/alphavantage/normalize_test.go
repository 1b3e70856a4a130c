package alphavantage_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	alphavantage "github.com/epsilonstar-02/AlphaTrack/internal/quote/alphavantage"
)

func TestNormalize_AscendingOrder(t *testing.T) {
	t.Parallel()

	series, err := alphavantage.Normalize("AAPL", threeDays())
	require.NoError(t, err)

	require.Len(t, series.Bars, 3)
	require.Equal(t, "2025-01-06", series.Bars[0].Date)
	require.Equal(t, "2025-01-07", series.Bars[1].Date)
	require.Equal(t, "2025-01-08", series.Bars[2].Date)
}

func TestNormalize_Summaries(t *testing.T) {
	t.Parallel()

	days := map[string]alphavantage.RawBar{
		"2025-01-06": {Open: "10.004", High: "10.509", Low: "9.501", Close: "10.256", Volume: "1000"},
		"2025-01-07": {Open: "11.0", High: "11.5", Low: "10.5", Close: "11.25", Volume: "1501"},
	}

	series, err := alphavantage.Normalize("AAPL", days)
	require.NoError(t, err)

	// Latest close and the high/low extremes are rounded to cents, the
	// average volume to a whole number.
	require.InDelta(t, 11.25, series.LatestClose, 1e-9)
	require.InDelta(t, 11.5, series.FiftyTwoWeekHigh, 1e-9)
	require.InDelta(t, 9.5, series.FiftyTwoWeekLow, 1e-9)
	require.InDelta(t, 1250, series.AverageVolume, 1e-9)
}

func TestNormalize_VolumeTruncation(t *testing.T) {
	t.Parallel()

	days := map[string]alphavantage.RawBar{
		"2025-01-06": {Open: "10", High: "10", Low: "10", Close: "10", Volume: "1234.9"},
	}

	series, err := alphavantage.Normalize("AAPL", days)
	require.NoError(t, err)
	require.Equal(t, int64(1234), series.Bars[0].Volume)
}

func TestNormalize_CapsAtMostRecentHundred(t *testing.T) {
	t.Parallel()

	days := make(map[string]alphavantage.RawBar, 120)
	start := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		d := start.AddDate(0, 0, i).Format("2006-01-02")
		days[d] = alphavantage.RawBar{
			Open:   "10",
			High:   "11",
			Low:    "9",
			Close:  fmt.Sprintf("%d", 100+i),
			Volume: "1000",
		}
	}

	series, err := alphavantage.Normalize("AAPL", days)
	require.NoError(t, err)

	// The 20 oldest entries fall off; what remains is still ascending.
	require.Len(t, series.Bars, 100)
	require.Equal(t, start.AddDate(0, 0, 20).Format("2006-01-02"), series.Bars[0].Date)
	require.Equal(t, start.AddDate(0, 0, 119).Format("2006-01-02"), series.Bars[99].Date)
	require.InDelta(t, 219, series.LatestClose, 1e-9)
}

func TestNormalize_EmptyInput(t *testing.T) {
	t.Parallel()

	series, err := alphavantage.Normalize("AAPL", map[string]alphavantage.RawBar{})
	require.NoError(t, err)

	require.Empty(t, series.Bars)
	require.Zero(t, series.LatestClose)
	require.Zero(t, series.FiftyTwoWeekHigh)
	require.Zero(t, series.FiftyTwoWeekLow)
	require.Zero(t, series.AverageVolume)
}

func TestNormalize_BadField(t *testing.T) {
	t.Parallel()

	days := map[string]alphavantage.RawBar{
		"2025-01-06": {Open: "10", High: "ten point five", Low: "9", Close: "10", Volume: "1000"},
	}

	series, err := alphavantage.Normalize("AAPL", days)
	require.Nil(t, series)
	require.Error(t, err)
	require.Contains(t, err.Error(), "2. high")
	require.Contains(t, err.Error(), "2025-01-06")
}
