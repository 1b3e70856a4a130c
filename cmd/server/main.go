package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/epsilonstar-02/AlphaTrack/internal/config"
	"github.com/epsilonstar-02/AlphaTrack/internal/directory"
	"github.com/epsilonstar-02/AlphaTrack/internal/httpx"
	"github.com/epsilonstar-02/AlphaTrack/internal/predict"
	"github.com/epsilonstar-02/AlphaTrack/internal/quote"
	"github.com/epsilonstar-02/AlphaTrack/internal/quote/alphavantage"
	"github.com/epsilonstar-02/AlphaTrack/internal/quote/cache"
	"github.com/epsilonstar-02/AlphaTrack/internal/quote/ratelimit"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on environment variables")
	}
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if cfg.AlphaVantage.APIKey == "" {
		log.Warn().Msg("ALPHAVANTAGE_API_KEY not set; stock requests will fail with NO_API_KEY")
	}

	src, err := buildSource(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("wiring quote source")
	}

	dir, err := directory.Load(cfg.Directory.Path)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.Directory.Path).Msg("company directory unavailable")
		dir = directory.Empty()
	}

	est := &predict.Estimator{S: src}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           withJSONHeaders(recoverPanic(requestLog(newMux(src, est, dir, cfg.Server.RequestTimeoutSec)))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("source", src.Name()).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// buildSource assembles the upstream client with its optional rate-limit
// gate and the TTL cache in front.
func buildSource(cfg config.Config) (quote.Source, error) {
	av, err := alphavantage.NewClient(cfg.AlphaVantage.APIKey,
		alphavantage.WithBaseURL(cfg.AlphaVantage.Endpoint),
		alphavantage.WithHTTPClient(httpx.New(time.Duration(cfg.AlphaVantage.TimeoutSec)*time.Second)),
		alphavantage.WithMaxAttempts(cfg.AlphaVantage.MaxAttempts),
		alphavantage.WithBackoff(time.Duration(cfg.AlphaVantage.BackoffMillis)*time.Millisecond),
		alphavantage.WithHeader(http.Header{"User-Agent": []string{"alphatrack/1.0"}}),
	)
	if err != nil {
		return nil, err
	}

	var src quote.Source = av
	// Prefer token bucket with burst if RPM is set, otherwise use min-interval
	if cfg.AlphaVantage.MaxRequestsPerMinute > 0 {
		rate := float64(cfg.AlphaVantage.MaxRequestsPerMinute) / 60.0
		burst := cfg.AlphaVantage.Burst
		if burst <= 0 {
			burst = 1
		}
		src = &ratelimit.TokenBucketSource{S: src, TB: ratelimit.NewTokenBucket(rate, burst)}
	} else if cfg.AlphaVantage.MinRequestIntervalSec > 0 {
		src = &ratelimit.MinInterval{S: src, Interval: time.Duration(cfg.AlphaVantage.MinRequestIntervalSec) * time.Second}
	}
	if cfg.AlphaVantage.CacheTTLSeconds > 0 {
		src = &cache.Source{S: src, TTL: time.Duration(cfg.AlphaVantage.CacheTTLSeconds) * time.Second}
	}
	return src, nil
}
