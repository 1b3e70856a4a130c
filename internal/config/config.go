package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

type Server struct {
	Port              string `json:"port"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type AlphaVantage struct {
	APIKey                string `json:"api_key"`
	Endpoint              string `json:"endpoint"`
	TimeoutSec            int    `json:"timeout_sec"`
	MaxAttempts           int    `json:"max_attempts"`
	BackoffMillis         int    `json:"backoff_millis"`
	CacheTTLSeconds       int    `json:"cache_ttl_sec"`
	MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
	MinRequestIntervalSec int    `json:"min_request_interval_sec"`
	Burst                 int    `json:"burst"`
}

type Directory struct {
	Path string `json:"path"`
}

type Config struct {
	Server       Server       `json:"server"`
	AlphaVantage AlphaVantage `json:"alphavantage"`
	Directory    Directory    `json:"directory"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 15},
		AlphaVantage: AlphaVantage{
			Endpoint:        "https://www.alphavantage.co/query",
			TimeoutSec:      15,
			MaxAttempts:     3,
			BackoffMillis:   500,
			CacheTTLSeconds: 300,
			// Free tier allows 5 requests/minute; limiting is opt-in.
			MaxRequestsPerMinute: 0,
			Burst:                1,
		},
		Directory: Directory{Path: "data/companies.json"},
	}
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. Environment variables override select fields for secrecy.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if x := envInt("REQUEST_TIMEOUT_SEC"); x > 0 {
		cfg.Server.RequestTimeoutSec = x
	}
	// A missing key is not a startup failure; fetches then report
	// NO_API_KEY without calling upstream.
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("ALPHAVANTAGE_ENDPOINT"); v != "" {
		cfg.AlphaVantage.Endpoint = v
	}
	if x := envInt("ALPHAVANTAGE_TIMEOUT_SEC"); x > 0 {
		cfg.AlphaVantage.TimeoutSec = x
	}
	if x := envInt("ALPHAVANTAGE_MAX_ATTEMPTS"); x > 0 {
		cfg.AlphaVantage.MaxAttempts = x
	}
	if x := envInt("ALPHAVANTAGE_BACKOFF_MS"); x >= 0 {
		cfg.AlphaVantage.BackoffMillis = x
	}
	if x := envInt("CACHE_TTL_SEC"); x >= 0 {
		cfg.AlphaVantage.CacheTTLSeconds = x
	}
	if x := envInt("ALPHAVANTAGE_MAX_RPM"); x >= 0 {
		cfg.AlphaVantage.MaxRequestsPerMinute = x
	}
	if x := envInt("ALPHAVANTAGE_MIN_INTERVAL_SEC"); x >= 0 {
		cfg.AlphaVantage.MinRequestIntervalSec = x
	}
	if x := envInt("ALPHAVANTAGE_BURST"); x > 0 {
		cfg.AlphaVantage.Burst = x
	}
	if v := os.Getenv("COMPANIES_FILE"); v != "" {
		cfg.Directory.Path = v
	}
}

// envInt parses an integer env var; unset, empty or malformed values
// come back as -1 so zero remains a usable override.
func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return -1
	}
	var x int
	if _, err := fmt.Sscanf(v, "%d", &x); err != nil {
		return -1
	}
	return x
}
