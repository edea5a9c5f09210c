// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

package geonames

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// doerFunc adapts a function to the Doer interface.
type doerFunc func(req *http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		Status:     http.StatusText(status),
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// trackingBody records whether it was closed.
type trackingBody struct {
	io.Reader
	closed atomic.Bool
}

func (b *trackingBody) Close() error {
	b.closed.Store(true)

	return nil
}

func TestFetchWithTimeoutReturnsResponse(t *testing.T) {
	var got *http.Request

	doer := doerFunc(func(req *http.Request) (*http.Response, error) {
		got = req

		return jsonResponse(http.StatusOK, `{}`), nil
	})

	resp, err := FetchWithTimeout(context.Background(), doer, "http://example.com/searchJSON?q=x", nil, time.Second)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
}

func TestFetchWithTimeoutCustomConfigReplacesDefault(t *testing.T) {
	var got *http.Request

	doer := doerFunc(func(req *http.Request) (*http.Response, error) {
		got = req

		return jsonResponse(http.StatusOK, `{}`), nil
	})

	cfg := &FetchConfig{Headers: map[string]string{"X-Test": "1"}}

	resp, err := FetchWithTimeout(context.Background(), doer, "http://example.com/", cfg, time.Second)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "1", got.Header.Get("X-Test"))
	assert.Empty(t, got.Header.Get("Accept"))
}

func TestFetchWithTimeoutTimesOut(t *testing.T) {
	release := make(chan struct{})
	late := &trackingBody{Reader: strings.NewReader(`{"geonames":[]}`)}
	done := make(chan struct{})

	doer := doerFunc(func(_ *http.Request) (*http.Response, error) {
		<-release

		defer close(done)

		return &http.Response{StatusCode: http.StatusOK, Body: late}, nil
	})

	start := time.Now()
	resp, err := FetchWithTimeout(context.Background(), doer, "http://example.com/", nil, 20*time.Millisecond)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, IsTimeout(err))
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.False(t, IsTransport(err))
	assert.Equal(t, "call to geonames timed out", err.Error())
	assert.Less(t, elapsed, time.Second)

	// The late response is released in the background.
	close(release)
	<-done
	assert.Eventually(t, late.closed.Load, time.Second, 5*time.Millisecond)
}

func TestFetchWithTimeoutTransportError(t *testing.T) {
	boom := errors.New("connection refused")

	doer := doerFunc(func(_ *http.Request) (*http.Response, error) {
		return nil, boom
	})

	resp, err := FetchWithTimeout(context.Background(), doer, "http://example.com/", nil, time.Second)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, IsTransport(err))
	assert.False(t, IsTimeout(err))
	assert.ErrorIs(t, err, boom)
}

func TestFetchWithTimeoutNilResponse(t *testing.T) {
	doer := doerFunc(func(_ *http.Request) (*http.Response, error) {
		return nil, nil
	})

	_, err := FetchWithTimeout(context.Background(), doer, "http://example.com/", nil, time.Second)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestFetchWithTimeoutInvalidURL(t *testing.T) {
	var calls atomic.Int32

	doer := doerFunc(func(_ *http.Request) (*http.Response, error) {
		calls.Add(1)

		return jsonResponse(http.StatusOK, `{}`), nil
	})

	_, err := FetchWithTimeout(context.Background(), doer, "http://[::1", nil, time.Second)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Zero(t, calls.Load())
}

func TestFetchWithTimeoutContextDone(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	doer := doerFunc(func(_ *http.Request) (*http.Response, error) {
		<-release

		return nil, errors.New("abandoned")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FetchWithTimeout(ctx, doer, "http://example.com/", nil, time.Minute)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsTimeout(err))
}
