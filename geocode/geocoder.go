// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocode talks to the geocoding provider and keeps the flat cache
// of its answers.
package geocode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Address is the address breakdown of a geocoding answer. Only the fields
// used to pick a district and to confirm the city are decoded.
type Address struct {
	CityDistrict  string `json:"city_district,omitempty"`
	Suburb        string `json:"suburb,omitempty"`
	Neighbourhood string `json:"neighbourhood,omitempty"`
	Quarter       string `json:"quarter,omitempty"`
	City          string `json:"city,omitempty"`
	Town          string `json:"town,omitempty"`
	State         string `json:"state,omitempty"`
	Country       string `json:"country,omitempty"`
	CountryCode   string `json:"country_code,omitempty"`
}

// Place is a decoded geocoding answer.
type Place struct {
	PlaceID     int64   `json:"place_id,omitempty"`
	Lat         string  `json:"lat,omitempty"`
	Lon         string  `json:"lon,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
	Address     Address `json:"address"`
}

// Geocoder performs one network lookup per call. A nil answer with a nil
// error means the provider answered but found nothing usable.
type Geocoder interface {
	Search(ctx context.Context, address string) (json.RawMessage, error)
	Reverse(ctx context.Context, lat, lon float64) (json.RawMessage, error)
}

var jsonNull = []byte("null")

// IsNegative reports whether raw is a negative (no result) answer.
func IsNegative(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)

	return len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull)
}

// DecodePlace decodes a raw answer, returning nil for negative answers.
func DecodePlace(raw json.RawMessage) (*Place, error) {
	if IsNegative(raw) {
		return nil, nil
	}

	var p Place
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decoding geocoding answer: %w", err)
	}

	return &p, nil
}
