package market

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the fixed set of failure kinds the fetch/normalize path reports.
type Code string

const (
	CodeNoAPIKey        Code = "NO_API_KEY"
	CodeNetworkError    Code = "NETWORK_ERROR"
	CodeInvalidJSON     Code = "INVALID_JSON"
	CodeRateLimit       Code = "RATE_LIMIT"
	CodeInvalidSymbol   Code = "INVALID_SYMBOL"
	CodeServiceInfo     Code = "SERVICE_INFO"
	CodeDataUnavailable Code = "DATA_UNAVAILABLE"
	CodeMissingField    Code = "MISSING_FIELD"
	CodeUnexpected      Code = "UNEXPECTED_ERROR"
)

// statusByCode maps each failure kind to the HTTP status the boundary
// layer should answer with.
var statusByCode = map[Code]int{
	CodeNoAPIKey:        http.StatusServiceUnavailable,
	CodeNetworkError:    http.StatusServiceUnavailable,
	CodeInvalidJSON:     http.StatusBadGateway,
	CodeRateLimit:       http.StatusTooManyRequests,
	CodeInvalidSymbol:   http.StatusNotFound,
	CodeServiceInfo:     http.StatusServiceUnavailable,
	CodeDataUnavailable: http.StatusBadGateway,
	CodeMissingField:    http.StatusBadGateway,
	CodeUnexpected:      http.StatusInternalServerError,
}

// Error is the structured failure returned by the fetch/cache path.
// A call returns either a Series or an Error, never both.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"error"`
	Symbol  string `json:"symbol"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (symbol=%s)", e.Code, e.Message, e.Symbol)
}

// HTTPStatus returns the suggested status for the boundary layer.
func (e *Error) HTTPStatus() int {
	if s, ok := statusByCode[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// NewError builds an Error for the given kind and symbol.
func NewError(code Code, symbol, message string) *Error {
	return &Error{Code: code, Message: message, Symbol: symbol}
}

// Errorf is NewError with a formatted message.
func Errorf(code Code, symbol, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Symbol: symbol}
}

// AsError coerces any failure into the taxonomy. Errors already carrying
// a Code pass through unchanged; anything else becomes UNEXPECTED_ERROR.
// This is the single top-level adapter: no raw transport or parse error
// crosses the core boundary.
func AsError(err error, symbol string) *Error {
	var me *Error
	if errors.As(err, &me) {
		return me
	}
	return Errorf(CodeUnexpected, symbol, "unexpected error: %v", err)
}
