package main

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/epsilonstar-02/AlphaTrack/internal/directory"
	"github.com/epsilonstar-02/AlphaTrack/internal/market"
	"github.com/epsilonstar-02/AlphaTrack/internal/predict"
	"github.com/epsilonstar-02/AlphaTrack/internal/quote"
)

// symbolRe gates what reaches the core. Provider-side symbol existence is
// still the provider's call (INVALID_SYMBOL).
var symbolRe = regexp.MustCompile(`^[A-Za-z]{1,5}$`)

type stocksResponse struct {
	Stocks []directory.Company `json:"stocks"`
}

type errorResponse struct {
	Error  string      `json:"error"`
	Code   market.Code `json:"code,omitempty"`
	Symbol string      `json:"symbol,omitempty"`
}

func newMux(src quote.Source, est *predict.Estimator, dir *directory.Directory, timeoutSec int) *http.ServeMux {
	timeout := time.Duration(timeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("GET /api/stocks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, stocksResponse{Stocks: dir.Companies()})
	})
	mux.HandleFunc("GET /api/stock/{symbol}", func(w http.ResponseWriter, r *http.Request) {
		handleStock(w, r, src, timeout)
	})
	mux.HandleFunc("GET /api/predict/{symbol}", func(w http.ResponseWriter, r *http.Request) {
		handlePredict(w, r, est, timeout)
	})
	return mux
}

func handleStock(w http.ResponseWriter, r *http.Request, src quote.Source, timeout time.Duration) {
	symbol := strings.TrimSpace(r.PathValue("symbol"))
	if !symbolRe.MatchString(symbol) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid symbol", Symbol: symbol})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	series, err := src.Daily(ctx, symbol)
	if err != nil {
		writeFetchError(w, err, symbol)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func handlePredict(w http.ResponseWriter, r *http.Request, est *predict.Estimator, timeout time.Duration) {
	symbol := strings.TrimSpace(r.PathValue("symbol"))
	if !symbolRe.MatchString(symbol) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid symbol", Symbol: symbol})
		return
	}

	days := predict.DefaultWindowDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "days must be a positive integer", Symbol: symbol})
			return
		}
		days = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	result, err := est.NextClose(ctx, symbol, days)
	if err != nil {
		if errors.Is(err, predict.ErrInsufficientData) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Symbol: symbol})
			return
		}
		// Fetch-level failures surface as estimation failures; everything
		// that is not a bad request maps to 500 on this endpoint.
		me := market.AsError(err, symbol)
		log.Error().Str("symbol", symbol).Str("code", string(me.Code)).Msg(me.Message)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: me.Message, Code: me.Code, Symbol: me.Symbol})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeFetchError maps a fetch failure to its suggested boundary status.
// Anything outside the taxonomy becomes UNEXPECTED_ERROR here; stack
// detail stays in server logs, never in the response.
func writeFetchError(w http.ResponseWriter, err error, symbol string) {
	me := market.AsError(err, symbol)
	log.Error().Str("symbol", symbol).Str("code", string(me.Code)).Msg(me.Message)
	writeJSON(w, me.HTTPStatus(), errorResponse{Error: me.Message, Code: me.Code, Symbol: me.Symbol})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func withJSONHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		// Basic CORS for browser usage; adjust as needed.
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panic")
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info().Str("method", r.Method).Str("path", r.URL.Path).Dur("took", time.Since(start)).Msg("request")
	})
}
