// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

package geonames

import (
	"errors"
	"fmt"
)

// ErrorKind classifies lookup failures.
type ErrorKind int

const (
	// KindUnknown is never produced by this package.
	KindUnknown ErrorKind = iota
	// KindMissingCredentials means no username was configured.
	KindMissingCredentials
	// KindTimeout means the bounded fetch elapsed before the transport settled.
	KindTimeout
	// KindTransport means the transport itself failed (DNS, refused, etc).
	KindTransport
	// KindUpstreamHTTP means GeoNames answered with a non-2xx status.
	KindUpstreamHTTP
	// KindMalformedResponse means the body could not be decoded.
	KindMalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingCredentials:
		return "missing credentials"
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport error"
	case KindUpstreamHTTP:
		return "upstream http error"
	case KindMalformedResponse:
		return "malformed response"
	default:
		return "unknown"
	}
}

const (
	credentialsHelpURL = "https://www.geonames.org/export/web-services.html"

	missingCredentialsMessage = "a geonames username is required: register at https://www.geonames.org/login, " +
		"enable the free web services and set the username (see " + credentialsHelpURL + ")"
	timeoutMessage = "call to geonames timed out"
)

// Sentinels usable with errors.Is.
var (
	ErrMissingCredentials = errors.New(missingCredentialsMessage)
	ErrTimeout            = errors.New(timeoutMessage)
)

// LookupError is returned by every failing lookup.
type LookupError struct {
	Kind    ErrorKind
	Message string
	// StatusCode is set for KindUpstreamHTTP.
	StatusCode int
	Err        error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Is matches the package sentinels by kind.
func (e *LookupError) Is(target error) bool {
	switch target {
	case ErrMissingCredentials:
		return e.Kind == KindMissingCredentials
	case ErrTimeout:
		return e.Kind == KindTimeout
	default:
		return false
	}
}

func missingCredentialsError() *LookupError {
	return &LookupError{
		Kind:    KindMissingCredentials,
		Message: missingCredentialsMessage,
	}
}

func timeoutError() *LookupError {
	return &LookupError{
		Kind:    KindTimeout,
		Message: timeoutMessage,
	}
}

func transportError(err error) *LookupError {
	return &LookupError{
		Kind:    KindTransport,
		Message: "geonames request failed",
		Err:     err,
	}
}

// upstreamHTTPError classifies a non-success HTTP status.
func upstreamHTTPError(statusCode int) *LookupError {
	return &LookupError{
		Kind: KindUpstreamHTTP,
		Message: fmt.Sprintf(
			"something wrong with the call to geonames, possibly a problem with the network or the server. HTTP error: %d",
			statusCode,
		),
		StatusCode: statusCode,
	}
}

func malformedResponseError(err error) *LookupError {
	return &LookupError{
		Kind:    KindMalformedResponse,
		Message: "decoding geonames response",
		Err:     err,
	}
}

func kindOf(err error) ErrorKind {
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Kind
	}

	return KindUnknown
}

// IsMissingCredentials reports whether err is a missing username failure.
func IsMissingCredentials(err error) bool {
	return kindOf(err) == KindMissingCredentials
}

// IsTimeout reports whether err is a bounded-fetch timeout.
func IsTimeout(err error) bool {
	return kindOf(err) == KindTimeout
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	return kindOf(err) == KindTransport
}

// IsUpstreamHTTP reports whether err carries a non-success HTTP status.
func IsUpstreamHTTP(err error) bool {
	return kindOf(err) == KindUpstreamHTTP
}

// IsMalformedResponse reports whether the response body could not be decoded.
func IsMalformedResponse(err error) bool {
	return kindOf(err) == KindMalformedResponse
}

// StatusCode returns the upstream HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) && lookupErr.Kind == KindUpstreamHTTP {
		return lookupErr.StatusCode, true
	}

	return 0, false
}
