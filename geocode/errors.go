// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType classifies a failed provider call.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeRateLimit
	// ErrorTypeQuotaExceeded also covers a provider refusing the client,
	// e.g. Nominatim answering 403 to a generic User-Agent.
	ErrorTypeQuotaExceeded
	ErrorTypeTimeout
	ErrorTypeNotFound
	ErrorTypeInvalidRequest
	ErrorTypeNetworkError
)

var errorTypeNames = map[ErrorType]string{
	ErrorTypeUnknown:        "unknown",
	ErrorTypeRateLimit:      "rate_limit",
	ErrorTypeQuotaExceeded:  "quota_exceeded",
	ErrorTypeTimeout:        "timeout",
	ErrorTypeNotFound:       "not_found",
	ErrorTypeInvalidRequest: "invalid_request",
	ErrorTypeNetworkError:   "network",
}

func (t ErrorType) String() string {
	if name, ok := errorTypeNames[t]; ok {
		return name
	}

	return errorTypeNames[ErrorTypeUnknown]
}

// GeocodingError is a failed call to Nominatim or Google Places.
type GeocodingError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *GeocodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *GeocodingError) Unwrap() error {
	return e.Err
}

// isType reports whether err is a GeocodingError of type t. Errors that do
// not come from this package are matched by their text.
func isType(err error, t ErrorType, hints ...string) bool {
	if err == nil {
		return false
	}

	var geoErr *GeocodingError
	if errors.As(err, &geoErr) {
		return geoErr.Type == t
	}

	msg := strings.ToLower(err.Error())
	for _, h := range hints {
		if strings.Contains(msg, h) {
			return true
		}
	}

	return false
}

// IsRateLimitError reports whether the provider asked us to slow down.
func IsRateLimitError(err error) bool {
	return isType(err, ErrorTypeRateLimit, "rate limit", "too many requests", "429")
}

// IsQuotaExceededError reports whether the provider refused the client.
// Google Places reports it in the body as OVER_QUERY_LIMIT.
func IsQuotaExceededError(err error) bool {
	return isType(err, ErrorTypeQuotaExceeded, "over_query_limit", "quota exceeded")
}

// IsTimeoutError reports whether the call timed out.
func IsTimeoutError(err error) bool {
	return isType(err, ErrorTypeTimeout, "timeout", "deadline exceeded")
}

var httpStatusErrors = map[int]struct {
	Type    ErrorType
	Message string
}{
	http.StatusTooManyRequests:    {ErrorTypeRateLimit, "too many requests"},
	http.StatusForbidden:          {ErrorTypeQuotaExceeded, "access denied or quota exceeded"},
	http.StatusBadRequest:         {ErrorTypeInvalidRequest, "invalid request"},
	http.StatusNotFound:           {ErrorTypeNotFound, "not found"},
	http.StatusRequestTimeout:     {ErrorTypeTimeout, "provider timeout"},
	http.StatusGatewayTimeout:     {ErrorTypeTimeout, "provider timeout"},
	http.StatusBadGateway:         {ErrorTypeNetworkError, "service unavailable"},
	http.StatusServiceUnavailable: {ErrorTypeNetworkError, "service unavailable"},
}

// ClassifyHTTPError maps a non-2xx status to a GeocodingError.
func ClassifyHTTPError(statusCode int) *GeocodingError {
	if e, ok := httpStatusErrors[statusCode]; ok {
		return &GeocodingError{
			Type:    e.Type,
			Message: fmt.Sprintf("%s (HTTP %d)", e.Message, statusCode),
		}
	}

	return &GeocodingError{
		Type:    ErrorTypeUnknown,
		Message: fmt.Sprintf("HTTP %d", statusCode),
	}
}

// ClassifyTransportError wraps a failure that happened before any response
// arrived, telling timeouts apart from other network errors.
func ClassifyTransportError(message string, err error) *GeocodingError {
	errType := ErrorTypeNetworkError

	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		errType = ErrorTypeTimeout
	}

	return &GeocodingError{Type: errType, Message: message, Err: err}
}
