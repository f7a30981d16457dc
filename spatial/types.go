// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

// Package spatial provides the small amount of geometry the pipeline needs.
package spatial

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const earthRadius = 6371e3 // meters

// ErrNoCoordinates is returned when a coordinate pair is missing or not numeric.
var ErrNoCoordinates = errors.New("spatial: missing or invalid coordinates")

// Point represents a geographical point with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns the "lat,lng" form Google Places takes as a location.
func (p Point) String() string {
	return strconv.FormatFloat(p.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lng, 'f', 6, 64)
}

// Valid reports whether the point lies within the global lat/lng limits.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// HaversineDistance calculates the distance between two points on Earth in meters.
func (p *Point) HaversineDistance(other *Point) float64 {
	lat1 := p.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - p.Lat) * math.Pi / 180
	dLng := (other.Lng - p.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// Coordinates is a latitude/longitude pair as it was written in the source
// record. The literal text is kept because it is part of cache keys.
type Coordinates struct {
	Lat string
	Lng string
}

// Key returns the "lat,lng" form used by reverse geocoding cache keys.
func (c Coordinates) Key() string {
	return c.Lat + "," + c.Lng
}

// Point parses the literal pair.
func (c Coordinates) Point() (Point, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(c.Lat), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: latitude %q", ErrNoCoordinates, c.Lat)
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(c.Lng), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: longitude %q", ErrNoCoordinates, c.Lng)
	}

	p := Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return Point{}, fmt.Errorf("%w: %s out of range", ErrNoCoordinates, c.Key())
	}

	return p, nil
}

// BoundingBox is an axis-aligned lat/lng rectangle.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// SaoPauloBounds is a rough box around Greater São Paulo.
var SaoPauloBounds = BoundingBox{MinLat: -24.0, MaxLat: -23.2, MinLng: -47.0, MaxLng: -46.0}

// Contains reports whether p is inside the box, borders included.
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// Corners returns the box vertices counter-clockwise starting at south-west.
func (b BoundingBox) Corners() []Point {
	return []Point{
		{Lat: b.MinLat, Lng: b.MinLng},
		{Lat: b.MinLat, Lng: b.MaxLng},
		{Lat: b.MaxLat, Lng: b.MaxLng},
		{Lat: b.MaxLat, Lng: b.MinLng},
	}
}
