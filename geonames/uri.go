// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

package geonames

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultBaseURL is the GeoNames full-text search endpoint.
	DefaultBaseURL = "https://secure.geonames.org/searchJSON"

	// MaxRows caps the number of records requested and returned.
	MaxRows = 10
)

// LookupURI builds the search URL for query. It is pure: the same inputs
// always produce the same string.
func LookupURI(baseURL, username, query string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	var b strings.Builder

	b.WriteString(strings.TrimSpace(baseURL))
	b.WriteString("?q=")
	b.WriteString(encodeURIComponent(query))
	b.WriteString("&username=")
	b.WriteString(encodeURIComponent(username))
	b.WriteString("&maxRows=")
	b.WriteString(strconv.Itoa(MaxRows))

	return b.String()
}

// componentUnescaper undoes the escapes url.QueryEscape applies to
// characters that encodeURIComponent keeps.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent escapes s as a single URI component. Letters, digits
// and -_.!~*'() are kept, everything else is percent-encoded and spaces
// become %20.
func encodeURIComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
