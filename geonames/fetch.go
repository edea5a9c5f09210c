// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

package geonames

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 30 * time.Second

// Doer is the transport used to reach GeoNames. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FetchConfig describes the outgoing request.
//
// A non-nil config replaces the default one entirely, so callers that set
// their own headers must keep "Accept: application/json" to get JSON back.
type FetchConfig struct {
	Method  string
	Headers map[string]string
}

// DefaultFetchConfig asks for JSON with a GET.
func DefaultFetchConfig() *FetchConfig {
	return &FetchConfig{
		Method: http.MethodGet,
		Headers: map[string]string{
			"Accept": "application/json",
		},
	}
}

type fetchResult struct {
	resp *http.Response
	err  error
}

// FetchWithTimeout races the transport against a timer. Whichever settles
// first decides the outcome; the other one is abandoned.
//
// A nil cfg means DefaultFetchConfig and a non-positive timeout means
// DefaultTimeout.
func FetchWithTimeout(
	ctx context.Context,
	doer Doer,
	rawURL string,
	cfg *FetchConfig,
	timeout time.Duration,
) (*http.Response, error) {
	if cfg == nil {
		cfg = DefaultFetchConfig()
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	method := cfg.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, transportError(fmt.Errorf("creating request: %w", err))
	}

	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}

	// Buffered so the transport goroutine never blocks once abandoned.
	results := make(chan fetchResult, 1)

	go func() {
		resp, err := doer.Do(req)
		results <- fetchResult{resp: resp, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-results:
		if r.err != nil {
			return nil, transportError(r.err)
		}

		if r.resp == nil {
			return nil, transportError(fmt.Errorf("transport returned no response"))
		}

		return r.resp, nil
	case <-timer.C:
		go discard(results)

		return nil, timeoutError()
	case <-ctx.Done():
		go discard(results)

		return nil, ctx.Err()
	}
}

// discard waits for an abandoned transport call and releases its body.
func discard(results <-chan fetchResult) {
	r := <-results
	if r.resp != nil && r.resp.Body != nil {
		_, _ = io.Copy(io.Discard, r.resp.Body)
		_ = r.resp.Body.Close()
	}
}
