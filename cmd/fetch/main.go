package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/epsilonstar-02/AlphaTrack/internal/config"
	"github.com/epsilonstar-02/AlphaTrack/internal/httpx"
	"github.com/epsilonstar-02/AlphaTrack/internal/predict"
	"github.com/epsilonstar-02/AlphaTrack/internal/quote"
	"github.com/epsilonstar-02/AlphaTrack/internal/quote/alphavantage"
	"github.com/epsilonstar-02/AlphaTrack/internal/quote/cache"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on environment variables")
	}
}

func main() {
	var symbol string
	var days int
	var doPredict bool
	var timeout int
	var configPath string

	flag.StringVar(&symbol, "symbol", getenv("SYMBOL", "AAPL"), "ticker symbol to fetch")
	flag.IntVar(&days, "days", predict.DefaultWindowDays, "trailing window for -predict")
	flag.BoolVar(&doPredict, "predict", false, "also print the next-day close estimate")
	flag.IntVar(&timeout, "timeout", 0, "request timeout seconds (0 = config default)")
	flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if timeout > 0 {
		cfg.AlphaVantage.TimeoutSec = timeout
	}

	av, err := alphavantage.NewClient(cfg.AlphaVantage.APIKey,
		alphavantage.WithBaseURL(cfg.AlphaVantage.Endpoint),
		alphavantage.WithHTTPClient(httpx.New(time.Duration(cfg.AlphaVantage.TimeoutSec)*time.Second)),
		alphavantage.WithMaxAttempts(cfg.AlphaVantage.MaxAttempts),
		alphavantage.WithBackoff(time.Duration(cfg.AlphaVantage.BackoffMillis)*time.Millisecond),
		alphavantage.WithHeader(http.Header{"User-Agent": []string{"alphatrack/1.0"}}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("alphavantage client")
	}
	var src quote.Source = &cache.Source{S: av, TTL: time.Duration(cfg.AlphaVantage.CacheTTLSeconds) * time.Second}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.RequestTimeoutSec)*time.Second)
	defer cancel()

	series, err := src.Daily(ctx, symbol)
	if err != nil {
		log.Fatal().Err(err).Str("symbol", symbol).Msg("fetch failed")
	}

	out := struct {
		Series     any `json:"series"`
		Prediction any `json:"prediction,omitempty"`
	}{Series: series}

	if doPredict {
		est := &predict.Estimator{S: src}
		result, err := est.NextClose(ctx, symbol, days)
		if err != nil {
			log.Fatal().Err(err).Str("symbol", symbol).Msg("predict failed")
		}
		out.Prediction = result
	}

	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
