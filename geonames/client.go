// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

// Package geonames looks up places by name in the GeoNames web service and
// normalizes the results.
package geonames

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/cwrc/geonames/utils/httputils"
)

// ClientOptions configures a Client. The zero value is usable.
type ClientOptions struct {
	// BaseURL of the searchJSON endpoint. Defaults to DefaultBaseURL.
	BaseURL string

	// Timeout bounds each lookup, body included. Defaults to DefaultTimeout.
	Timeout time.Duration

	// FetchConfig for the outgoing request. Defaults to DefaultFetchConfig.
	FetchConfig *FetchConfig

	// HTTPClient overrides the transport. When set, the options below are
	// ignored.
	HTTPClient Doer

	// UserAgent is the User-Agent header to use in HTTP requests
	UserAgent string

	// Writer for HTTP traces, usually os.Stderr
	TraceWriter io.Writer

	// Enables light tracing of HTTP requests and responses
	EnableHTTPTrace bool

	// Enables full HTTP body tracing
	EnableHTTPBodyTrace bool
}

// Client performs place lookups. It holds no state between calls and is
// safe for concurrent use.
type Client struct {
	creds   *Credentials
	doer    Doer
	baseURL string
	timeout time.Duration
	fetch   *FetchConfig
}

// NewClient creates a client that reads the username from creds on every
// lookup.
func NewClient(creds *Credentials, options *ClientOptions) *Client {
	if options == nil {
		options = &ClientOptions{}
	}

	if creds == nil {
		creds = &Credentials{}
	}

	doer := options.HTTPClient
	if doer == nil {
		var traceWriter io.Writer
		if options.EnableHTTPTrace || options.EnableHTTPBodyTrace {
			traceWriter = options.TraceWriter
		}

		doer = httputils.NewClient(&httputils.ClientOptions{
			UserAgent:   options.UserAgent,
			TraceWriter: traceWriter,
			DumpBody:    options.EnableHTTPBodyTrace,
		})
	}

	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		creds:   creds,
		doer:    doer,
		baseURL: baseURL,
		timeout: timeout,
		fetch:   options.FetchConfig,
	}
}

// Credentials returns the credentials the client reads from.
func (c *Client) Credentials() *Credentials {
	return c.creds
}

// PlaceLookupURI returns the search URL for query using the current username.
func (c *Client) PlaceLookupURI(query string) string {
	return LookupURI(c.baseURL, c.creds.Username(), query)
}

// FindPlace searches GeoNames for query and returns at most MaxRows places in
// provider order. No matches is an empty slice and a nil error.
//
// The client timeout covers the whole lookup: waiting for the response
// headers and reading the body.
func (c *Client) FindPlace(ctx context.Context, query string) ([]NormalizedPlace, error) {
	if c.creds.Username() == "" {
		return nil, missingCredentialsError()
	}

	deadline := time.Now().Add(c.timeout)

	resp, err := FetchWithTimeout(ctx, c.doer, c.PlaceLookupURI(query), c.fetch, c.timeout)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstreamHTTPError(resp.StatusCode)
	}

	payload, err := decodeSearchResponse(ctx, resp.Body, deadline)
	if err != nil {
		return nil, err
	}

	return normalizeAll(payload.Geonames, query), nil
}

type decodeResult struct {
	payload searchResponse
	err     error
}

// decodeSearchResponse reads body until deadline. A body still streaming at
// the deadline is closed and reported as a timeout.
func decodeSearchResponse(ctx context.Context, body io.ReadCloser, deadline time.Time) (*searchResponse, error) {
	results := make(chan decodeResult, 1)

	go func() {
		var r decodeResult
		r.err = json.NewDecoder(body).Decode(&r.payload)
		results <- r
	}()

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case r := <-results:
		if r.err != nil {
			if errors.Is(r.err, io.EOF) {
				r.err = io.ErrUnexpectedEOF
			}

			return nil, malformedResponseError(r.err)
		}

		return &r.payload, nil
	case <-timer.C:
		_ = body.Close()

		return nil, timeoutError()
	case <-ctx.Done():
		_ = body.Close()

		return nil, ctx.Err()
	}
}
