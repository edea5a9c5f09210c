// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

// Package httputils builds the HTTP client used to reach GeoNames.
package httputils

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"
)

// DefaultUserAgent identifies the client when no user agent is configured.
const DefaultUserAgent = "geonames-lookup/dev"

// ClientOptions configures NewClient.
type ClientOptions struct {
	// UserAgent sent with every request. Defaults to DefaultUserAgent.
	UserAgent string

	// TraceWriter receives request/response dumps. Nil disables tracing.
	TraceWriter io.Writer

	// DumpBody includes bodies in the dumps.
	DumpBody bool
}

// NewClient returns an http.Client with the tracing and header
// round-trippers installed. It sets no client-wide timeout: lookups are
// bounded by their own timer.
func NewClient(options *ClientOptions) *http.Client {
	if options == nil {
		options = &ClientOptions{}
	}

	userAgent := options.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       30 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}

	loggingTransport := &LoggingRoundTripper{
		Writer:    options.TraceWriter,
		DumpBody:  options.DumpBody,
		Transport: transport,
	}

	return &http.Client{
		Transport: &AppendRequestHeadersRoundTripper{
			Headers: map[string]string{
				"User-Agent": userAgent,
			},
			Transport: loggingTransport,
		},
	}
}

// LoggingRoundTripper dumps each HTTP transaction to Writer.
type LoggingRoundTripper struct {
	Transport http.RoundTripper
	Writer    io.Writer
	DumpBody  bool
}

// abbreviate prefixes every line and caps the number and width of lines.
func abbreviate(lines []string, prefix rune) []string {
	const maxLines, maxChars = 2048, 512

	if len(lines) > maxLines {
		lines = append(lines[:maxLines], "…")
	}

	for i, line := range lines {
		line = fmt.Sprintf("%c %s", prefix, line)
		if len(line) > maxChars {
			line = line[:maxChars] + "…"
		}

		lines[i] = line
	}

	return lines
}

func (t *LoggingRoundTripper) dumpRequest(req *http.Request) error {
	dump, err := httputil.DumpRequestOut(req, t.DumpBody)
	if err != nil {
		return fmt.Errorf("tracing HTTP request: %w", err)
	}

	lines := abbreviate(strings.Split(string(dump), "\n"), '>')
	lines = append(lines, "")
	_, err = fmt.Fprint(t.Writer, strings.Join(lines, "\n"))

	return err
}

func (t *LoggingRoundTripper) dumpResponse(resp *http.Response, duration time.Duration) error {
	dump, err := httputil.DumpResponse(resp, t.DumpBody)
	if err != nil {
		return fmt.Errorf("tracing HTTP response: %w", err)
	}

	lines := abbreviate(strings.Split(string(dump), "\n"), '<')

	if _, err := fmt.Fprintf(t.Writer, "< RESPONSE: [%v]\n", duration); err != nil {
		return fmt.Errorf("tracing HTTP response: %w", err)
	}

	lines = append(lines, "")
	_, err = fmt.Fprint(t.Writer, strings.Join(lines, "\n"))

	return err
}

// RoundTrip implements the http.RoundTripper interface.
func (t *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Writer == nil {
		return t.Transport.RoundTrip(req)
	}

	if err := t.dumpRequest(req); err != nil {
		return nil, err
	}

	start := time.Now()

	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		_, _ = fmt.Fprintf(t.Writer, "< ERROR: [%v] %v\n", time.Since(start), err)

		return nil, err
	}

	if err := t.dumpResponse(resp, time.Since(start)); err != nil {
		_ = resp.Body.Close()

		return nil, err
	}

	return resp, nil
}

// AppendRequestHeadersRoundTripper sets Headers on requests that do not
// carry them already.
type AppendRequestHeadersRoundTripper struct {
	Transport http.RoundTripper
	Headers   map[string]string
}

// RoundTrip implements the http.RoundTripper interface.
func (t *AppendRequestHeadersRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var clone *http.Request

	for k, v := range t.Headers {
		if req.Header.Get(k) != "" {
			continue
		}

		// RoundTrippers must not modify the caller's request.
		if clone == nil {
			clone = req.Clone(req.Context())
		}

		clone.Header.Set(k, v)
	}

	if clone == nil {
		clone = req
	}

	return t.Transport.RoundTrip(clone)
}
