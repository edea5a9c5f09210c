// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"io"
	"net/http"
	"strings"
	"time"
)

// stubDoer answers every request with a fixed status and body after delay.
type stubDoer struct {
	status int
	body   string
	delay  time.Duration
}

func (s stubDoer) Do(_ *http.Request) (*http.Response, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	status := s.status
	if status == 0 {
		status = http.StatusOK
	}

	return &http.Response{
		StatusCode: status,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(s.body)),
	}, nil
}
