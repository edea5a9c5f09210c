// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

package geonames

import (
	"bytes"
	"encoding/json"
)

const (
	// NameType is the entity type of every result.
	NameType = "place"
	// Repository identifies GeoNames as the result source.
	Repository = "geonames"
	// NoDescription replaces a missing feature-code description.
	NoDescription = "No description available"

	placeURIPrefix = "http://geonames.org/"
)

// NormalizedPlace is the record returned to callers. Its JSON form always
// has exactly these nine keys.
type NormalizedPlace struct {
	NameType            string  `json:"nameType"`
	ID                  string  `json:"id"`
	URI                 string  `json:"uri"`
	URIForDisplay       *string `json:"uriForDisplay"`
	ExternalLink        string  `json:"externalLink"`
	Name                string  `json:"name"`
	Repository          string  `json:"repository"`
	OriginalQueryString string  `json:"originalQueryString"`
	Description         string  `json:"description"`
}

// rawPlace mirrors the parts of a searchJSON record we use. Every field is
// optional and may hold any JSON value.
type rawPlace struct {
	ToponymName looseText `json:"toponymName"`
	AdminName1  looseText `json:"adminName1"`
	CountryName looseText `json:"countryName"`
	GeonameID   looseText `json:"geonameId"`
	FcodeName   looseText `json:"fcodeName"`
}

// looseText is a provider field rendered as text. Strings are used as-is,
// other values keep their JSON literal, and null counts as absent.
type looseText struct {
	text  string
	valid bool
}

func (t *looseText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = looseText{}

		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*t = looseText{text: s, valid: true}

		return nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return err
	}

	*t = looseText{text: compact.String(), valid: true}

	return nil
}

func (t looseText) or(fallback string) string {
	if !t.valid {
		return fallback
	}

	return t.text
}

type searchResponse struct {
	Geonames []rawPlace `json:"geonames"`
}

// PlaceURI is the canonical URI of a GeoNames record.
func PlaceURI(geonameID string) string {
	return placeURIPrefix + geonameID
}

// normalize maps a provider record into a NormalizedPlace.
func normalize(raw rawPlace, query string) NormalizedPlace {
	name := raw.ToponymName.or("") + " " +
		raw.AdminName1.or("") + " " +
		raw.CountryName.or("")

	description := raw.FcodeName.or("")
	if description == "" {
		description = NoDescription
	}

	uri := PlaceURI(raw.GeonameID.or(""))

	return NormalizedPlace{
		NameType:            NameType,
		ID:                  uri,
		URI:                 uri,
		URIForDisplay:       nil,
		ExternalLink:        uri,
		Name:                name,
		Repository:          Repository,
		OriginalQueryString: query,
		Description:         description,
	}
}

// normalizeAll keeps provider order and the MaxRows bound.
func normalizeAll(raws []rawPlace, query string) []NormalizedPlace {
	n := min(len(raws), MaxRows)

	places := make([]NormalizedPlace, 0, n)
	for _, raw := range raws[:n] {
		places = append(places, normalize(raw, query))
	}

	return places
}
