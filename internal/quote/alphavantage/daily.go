package alphavantage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/epsilonstar-02/AlphaTrack/internal/market"
)

// timeSeriesKey is the payload field holding the per-date map.
const timeSeriesKey = "Time Series (Daily)"

// maxBodyBytes caps how much of a response we are willing to buffer.
const maxBodyBytes = 8 << 20

// Daily fetches, classifies and normalizes the daily series for symbol.
// Every failure is reported as a *market.Error; nothing else crosses
// this boundary, panics included.
func (c *Client) Daily(ctx context.Context, symbol string) (series *market.Series, err error) {
	symbol = market.CanonicalSymbol(symbol)

	defer func() {
		if r := recover(); r != nil {
			series = nil
			err = market.Errorf(market.CodeUnexpected, symbol, "unexpected error: %v", r)
		}
		if err != nil {
			err = market.AsError(err, symbol)
		}
	}()

	if c.apiKey == "" {
		return nil, market.NewError(market.CodeNoAPIKey, symbol, "Alpha Vantage API key not configured")
	}

	body, err := c.get(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, market.Errorf(market.CodeInvalidJSON, symbol, "invalid JSON response: %v", err)
	}

	// Soft errors: syntactically valid payloads that signal a non-data
	// condition. Checked before looking for the time series.
	if msg, ok := softMessage(payload, "Note"); ok {
		return nil, market.NewError(market.CodeRateLimit, symbol, msg)
	}
	if msg, ok := softMessage(payload, "Error Message"); ok {
		return nil, market.NewError(market.CodeInvalidSymbol, symbol, msg)
	}
	if msg, ok := softMessage(payload, "Information"); ok {
		return nil, market.NewError(market.CodeServiceInfo, symbol, msg)
	}

	raw, ok := payload[timeSeriesKey]
	if !ok {
		return nil, market.Errorf(market.CodeDataUnavailable, symbol, "missing %q field in response", timeSeriesKey)
	}
	var days map[string]RawBar
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, market.Errorf(market.CodeDataUnavailable, symbol, "malformed %q field: %v", timeSeriesKey, err)
	}

	series, nerr := Normalize(symbol, days)
	if nerr != nil {
		return nil, market.Errorf(market.CodeMissingField, symbol, "data field missing: %v", nerr)
	}
	return series, nil
}

// get performs the upstream GET with bounded retries. Transport failures
// and 5xx responses are retried with a linearly increasing delay; 4xx
// responses are surfaced immediately since client errors are not
// transient. Exhausting the budget yields NETWORK_ERROR.
func (c *Client) get(ctx context.Context, symbol string) ([]byte, error) {
	query := url.Values{}
	query.Set("function", "TIME_SERIES_DAILY")
	query.Set("symbol", symbol)
	query.Set("apikey", c.apiKey)
	query.Set("datatype", "json")
	endpoint := fmt.Sprintf("%s?%s", c.baseURL, query.Encode())

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := c.backoff * time.Duration(attempt-1)
			log.Debug().Str("symbol", symbol).Int("attempt", attempt).Dur("delay", delay).Msg("retrying upstream fetch")
			if err := c.sleep(ctx, delay); err != nil {
				return nil, market.Errorf(market.CodeNetworkError, symbol, "canceled between attempts: %v", err)
			}
		}

		body, status, err := c.attempt(ctx, endpoint)
		if err != nil {
			lastErr = err
			continue
		}
		if status >= 400 && status < 500 {
			return nil, market.Errorf(market.CodeNetworkError, symbol, "provider returned status %d", status)
		}
		if status < 200 || status >= 300 {
			lastErr = fmt.Errorf("provider returned status %d", status)
			continue
		}
		return body, nil
	}
	return nil, market.Errorf(market.CodeNetworkError, symbol, "network error after %d attempts: %v", c.maxAttempts, lastErr)
}

// attempt performs one request and buffers the body.
func (c *Client) attempt(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("reading response: %w", err)
	}
	return body, res.StatusCode, nil
}

// softMessage extracts a non-empty string field from the payload.
func softMessage(payload map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := payload[key]
	if !ok {
		return "", false
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil || msg == "" {
		return fmt.Sprintf("provider signaled %q", key), true
	}
	return msg, true
}
