// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

// Package httputils holds the round trippers shared by the geocoding and
// places clients.
package httputils

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"regexp"
	"strings"
	"time"
)

const (
	maxTraceLines = 2048
	maxTraceChars = 512
)

// Google APIs take the key as a query parameter, page tokens are long and
// useless in a trace.
var secretParamRegex = regexp.MustCompile(`([?&](?:key|pagetoken)=)[^&\s]+`)

// LoggingRoundTripper writes every transaction to Writer. It is a plain
// pass-through when Writer is nil.
type LoggingRoundTripper struct {
	Transport http.RoundTripper
	Writer    io.Writer
	DumpBody  bool
}

// traceLines prefixes, redacts and truncates a raw dump.
func traceLines(dump []byte, prefix rune) string {
	lines := strings.Split(string(dump), "\n")

	truncated := len(lines) > maxTraceLines
	if truncated {
		lines = lines[:maxTraceLines]
	}

	var sb strings.Builder

	for _, line := range lines {
		line = fmt.Sprintf("%c %s", prefix, secretParamRegex.ReplaceAllString(line, "${1}…"))
		if len(line) > maxTraceChars {
			line = line[:maxTraceChars] + "…"
		}

		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	if truncated {
		sb.WriteString("…\n")
	}

	return sb.String()
}

func (t *LoggingRoundTripper) write(s string) error {
	if _, err := io.WriteString(t.Writer, s); err != nil {
		return fmt.Errorf("tracing HTTP transaction: %w", err)
	}

	return nil
}

// RoundTrip implements the http.RoundTripper interface.
func (t *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Writer == nil {
		return t.Transport.RoundTrip(req)
	}

	dump, err := httputil.DumpRequestOut(req, true)
	if err != nil {
		return nil, fmt.Errorf("tracing HTTP request: %w", err)
	}

	if err := t.write(traceLines(dump, '>')); err != nil {
		return nil, err
	}

	start := time.Now()

	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		_ = t.write(fmt.Sprintf("< ERROR: [%v] %v\n", time.Since(start), err))

		return nil, err
	}

	elapsed := time.Since(start)

	dump, err = httputil.DumpResponse(resp, t.DumpBody)
	if err != nil {
		return nil, fmt.Errorf("tracing HTTP response: %w", err)
	}

	if err := t.write(fmt.Sprintf("< RESPONSE: [%v]\n%s", elapsed, traceLines(dump, '<'))); err != nil {
		return nil, err
	}

	return resp, nil
}

// AppendRequestHeadersRoundTripper sets Headers on every request.
type AppendRequestHeadersRoundTripper struct {
	Transport http.RoundTripper
	Headers   map[string]string
}

// RoundTrip implements the http.RoundTripper interface.
func (t *AppendRequestHeadersRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range t.Headers {
		req.Header.Set(k, v)
	}

	return t.Transport.RoundTrip(req)
}

// NewClient builds an HTTP client that sends userAgent on every request and
// traces transactions to traceWriter when it is not nil.
func NewClient(userAgent string, timeout time.Duration, traceWriter io.Writer, traceBody bool) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &AppendRequestHeadersRoundTripper{
			Headers: map[string]string{
				"User-Agent": userAgent,
				"Accept":     "application/json",
			},
			Transport: &LoggingRoundTripper{
				Writer:    traceWriter,
				DumpBody:  traceBody,
				Transport: http.DefaultTransport,
			},
		},
	}
}
