// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

// Package textutils holds small string helpers for the command line tools.
package textutils

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LowerASCIIFolding removes accents, lowercases and trims s.
func LowerASCIIFolding(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(strings.ToLower(s)),
	)

	return s
}

// QueryKey folds a search query so that "São  Paulo" and "sao paulo" compare
// equal.
func QueryKey(query string) string {
	return strings.Join(strings.Fields(LowerASCIIFolding(query)), " ")
}

// FormatInt formats an integer with commas for human readability.
func FormatInt(n int64) string {
	in := strconv.FormatInt(n, 10)

	numOfDigits := len(in)
	if n < 0 {
		numOfDigits-- // leading minus sign
	}

	numOfCommas := (numOfDigits - 1) / 3

	out := make([]byte, len(in)+numOfCommas)
	if n < 0 {
		in, out[0] = in[1:], '-'
	}

	for i, j, k := len(in)-1, len(out)-1, 0; ; i, j = i-1, j-1 {
		out[j] = in[i]
		if i == 0 {
			return string(out)
		}

		if k++; k == 3 {
			j, k = j-1, 0
			out[j] = ','
		}
	}
}
