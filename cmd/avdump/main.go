// avdump fetches one raw TIME_SERIES_DAILY payload and writes it to a
// file (or stdout) for inspecting provider response shapes, soft-error
// notices included.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/epsilonstar-02/AlphaTrack/internal/config"
	"github.com/epsilonstar-02/AlphaTrack/internal/httpx"
	"github.com/epsilonstar-02/AlphaTrack/internal/market"
)

func main() {
	var symbol string
	var outPath string
	var cfgPath string
	var timeoutSec int

	flag.StringVar(&symbol, "symbol", "AAPL", "ticker symbol to dump")
	flag.StringVar(&outPath, "out", "", "output file path (default stdout)")
	flag.StringVar(&cfgPath, "config", "", "path to config.json (optional)")
	flag.IntVar(&timeoutSec, "timeout", 20, "HTTP timeout seconds")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on environment variables")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if cfg.AlphaVantage.APIKey == "" {
		log.Fatal().Msg("ALPHAVANTAGE_API_KEY missing (set in config.json or env)")
	}

	query := url.Values{}
	query.Set("function", "TIME_SERIES_DAILY")
	query.Set("symbol", market.CanonicalSymbol(symbol))
	query.Set("apikey", cfg.AlphaVantage.APIKey)
	query.Set("datatype", "json")
	endpoint := fmt.Sprintf("%s?%s", cfg.AlphaVantage.Endpoint, query.Encode())

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		log.Fatal().Err(err).Msg("build request")
	}
	res, err := httpx.New(time.Duration(timeoutSec) * time.Second).Do(req)
	if err != nil {
		log.Fatal().Err(err).Msg("request failed")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		log.Fatal().Err(err).Msg("read body")
	}
	log.Info().Int("status", res.StatusCode).Int("bytes", len(body)).Msg("response received")

	// Re-indent when the payload is valid JSON; dump as-is otherwise.
	var pretty []byte
	var v any
	if err := json.Unmarshal(body, &v); err == nil {
		pretty, _ = json.MarshalIndent(v, "", "  ")
	} else {
		pretty = body
	}

	if outPath == "" {
		fmt.Println(string(pretty))
		return
	}
	if err := os.WriteFile(outPath, pretty, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", outPath).Msg("write output")
	}
	log.Info().Str("path", outPath).Msg("payload written")
}
