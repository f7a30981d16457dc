// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"fmt"
	"math"
	"slices"

	"github.com/uber/h3-go/v4"

	"github.com/abtecnologia/distritos/spatial"
)

// DefaultGridResolution gives hexagons of roughly 9 km across, close to the
// 8 km search areas used by hand before.
const DefaultGridResolution = 5

// Area is a circular nearby search area.
type Area struct {
	Name   string
	Center spatial.Point
	Radius int // meters
}

// SearchGrid covers box with the H3 cells of resolution res. Each area is
// centered on a cell and its radius reaches the farthest cell vertex, so
// the circles together cover the box. Areas are sorted by cell index.
func SearchGrid(box spatial.BoundingBox, res int) ([]Area, error) {
	loop := make(h3.GeoLoop, 0, 4)
	for _, c := range box.Corners() {
		loop = append(loop, h3.NewLatLng(c.Lat, c.Lng))
	}

	cells, err := h3.PolygonToCells(h3.GeoPolygon{GeoLoop: loop}, res)
	if err != nil {
		return nil, fmt.Errorf("covering bounding box with h3 cells: %w", err)
	}

	slices.Sort(cells)

	areas := make([]Area, 0, len(cells))

	for _, cell := range cells {
		center, err := cell.LatLng()
		if err != nil {
			return nil, fmt.Errorf("h3 cell %s center: %w", cell, err)
		}

		boundary, err := cell.Boundary()
		if err != nil {
			return nil, fmt.Errorf("h3 cell %s boundary: %w", cell, err)
		}

		c := spatial.Point{Lat: center.Lat, Lng: center.Lng}
		if !box.Contains(c) {
			continue
		}

		var radius float64

		for _, v := range boundary {
			radius = math.Max(radius, c.HaversineDistance(&spatial.Point{Lat: v.Lat, Lng: v.Lng}))
		}

		areas = append(areas, Area{
			Name:   cell.String(),
			Center: c,
			Radius: int(math.Ceil(radius)),
		})
	}

	return areas, nil
}
