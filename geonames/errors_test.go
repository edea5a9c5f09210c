// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

package geonames

import (
	"errors"
	"fmt"
	"testing"
)

type errorCheckTestCase struct {
	name string
	err  error
	want bool
}

func runErrorCheckTest(t *testing.T, tests []errorCheckTestCase, checkFunc func(error) bool) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkFunc(tt.err); got != tt.want {
				t.Errorf("checkFunc() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTimeout(t *testing.T) {
	tests := []errorCheckTestCase{
		{name: "timeout kind", err: timeoutError(), want: true},
		{name: "wrapped timeout", err: fmt.Errorf("finding place: %w", timeoutError()), want: true},
		{name: "transport kind", err: transportError(errors.New("i/o timeout")), want: false},
		{name: "plain error mentioning timeout", err: errors.New("timeout"), want: false},
	}

	runErrorCheckTest(t, tests, IsTimeout)
}

func TestIsMissingCredentials(t *testing.T) {
	tests := []errorCheckTestCase{
		{name: "missing credentials kind", err: missingCredentialsError(), want: true},
		{name: "sentinel is not a LookupError", err: ErrMissingCredentials, want: false},
		{name: "upstream kind", err: upstreamHTTPError(401), want: false},
	}

	runErrorCheckTest(t, tests, IsMissingCredentials)
}

func TestIsUpstreamHTTP(t *testing.T) {
	tests := []errorCheckTestCase{
		{name: "500", err: upstreamHTTPError(500), want: true},
		{name: "wrapped 404", err: fmt.Errorf("lookup: %w", upstreamHTTPError(404)), want: true},
		{name: "malformed", err: malformedResponseError(errors.New("eof")), want: false},
		{name: "nil", err: nil, want: false},
	}

	runErrorCheckTest(t, tests, IsUpstreamHTTP)
}

func TestIsMalformedResponse(t *testing.T) {
	tests := []errorCheckTestCase{
		{name: "malformed", err: malformedResponseError(errors.New("bad json")), want: true},
		{name: "transport", err: transportError(errors.New("refused")), want: false},
	}

	runErrorCheckTest(t, tests, IsMalformedResponse)
}

func TestSentinels(t *testing.T) {
	if !errors.Is(timeoutError(), ErrTimeout) {
		t.Error("timeout error should match ErrTimeout")
	}

	if errors.Is(timeoutError(), ErrMissingCredentials) {
		t.Error("timeout error should not match ErrMissingCredentials")
	}

	if !errors.Is(fmt.Errorf("wrapped: %w", missingCredentialsError()), ErrMissingCredentials) {
		t.Error("wrapped missing credentials should match ErrMissingCredentials")
	}
}

func TestStatusCode(t *testing.T) {
	if code, ok := StatusCode(upstreamHTTPError(503)); !ok || code != 503 {
		t.Errorf("StatusCode() = %d, %v, want 503, true", code, ok)
	}

	if _, ok := StatusCode(timeoutError()); ok {
		t.Error("StatusCode() should not report a status for timeouts")
	}
}

func TestLookupErrorUnwrap(t *testing.T) {
	innerErr := errors.New("inner error")
	lookupErr := transportError(innerErr)

	if !errors.Is(lookupErr, innerErr) {
		t.Error("errors.Is should find wrapped error")
	}

	if lookupErr.Error() != "geonames request failed: inner error" {
		t.Errorf("Error() = %q", lookupErr.Error())
	}
}

func TestErrorKindString(t *testing.T) {
	tests := map[ErrorKind]string{
		KindUnknown:            "unknown",
		KindMissingCredentials: "missing credentials",
		KindTimeout:            "timeout",
		KindTransport:          "transport error",
		KindUpstreamHTTP:       "upstream http error",
		KindMalformedResponse:  "malformed response",
	}

	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
