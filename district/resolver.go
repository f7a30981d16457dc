// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package district

import (
	"context"
	"strings"

	"github.com/abtecnologia/distritos/geocode"
	"github.com/abtecnologia/distritos/spatial"
)

// Lookup is the geocoding side of the resolver. *geocode.Service
// implements it.
type Lookup interface {
	Forward(ctx context.Context, address string) *geocode.Place
	Reverse(ctx context.Context, coords spatial.Coordinates) *geocode.Place
}

// Query is what the resolver knows about one record.
type Query struct {
	Address     string
	Prior       string
	Coordinates *spatial.Coordinates
}

// Resolver runs the district resolution chain: prior value, district name
// in the address, neighborhood alias, then forward and reverse geocoding
// while the confidence is not yet high.
type Resolver struct {
	catalog *Catalog
	lookup  Lookup
}

// NewResolver creates a resolver. A nil lookup disables the geocoding
// steps.
func NewResolver(catalog *Catalog, lookup Lookup) *Resolver {
	return &Resolver{catalog: catalog, lookup: lookup}
}

// Catalog returns the catalog the resolver matches against.
func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// Geocoding reports whether the geocoding steps are enabled.
func (r *Resolver) Geocoding() bool {
	return r.lookup != nil
}

// Resolve resolves q. It never fails: when nothing matches the result is
// the unidentified district with low confidence.
func (r *Resolver) Resolve(ctx context.Context, q Query) Resolution {
	res := r.resolveText(q)

	if r.lookup == nil {
		return res
	}

	if res.Confidence.Below(High) && strings.TrimSpace(q.Address) != "" {
		place := r.lookup.Forward(ctx, q.Address)
		res = r.upgrade(res, MethodSearch, place)
	}

	if res.Confidence.Below(High) && q.Coordinates != nil {
		if _, err := q.Coordinates.Point(); err == nil {
			place := r.lookup.Reverse(ctx, *q.Coordinates)
			res = r.upgrade(res, MethodReverse, place)
		}
	}

	return res
}

// resolveText runs the steps that need no network.
func (r *Resolver) resolveText(q Query) Resolution {
	var steps []Step

	if q.Prior != "" {
		if d, ok := r.catalog.Lookup(q.Prior); ok {
			return Resolution{
				District:   d,
				Confidence: High,
				Method:     MethodOriginal,
				Steps:      []Step{{Method: MethodOriginal, Matched: true, Confidence: High}},
			}
		}

		steps = append(steps, Step{Method: MethodOriginal, Confidence: Low})
	}

	if d, ok := r.catalog.FindInText(q.Address); ok {
		return Resolution{
			District:   d,
			Confidence: High,
			Method:     MethodAddress,
			Steps:      append(steps, Step{Method: MethodAddress, Matched: true, Confidence: High}),
		}
	}

	steps = append(steps, Step{Method: MethodAddress, Confidence: Low})

	if d, ok := r.catalog.LookupAlias(q.Address); ok {
		return Resolution{
			District:   d,
			Confidence: Medium,
			Method:     MethodAlias,
			Steps:      append(steps, Step{Method: MethodAlias, Matched: true, Confidence: Medium}),
		}
	}

	return Resolution{
		District:   Unidentified,
		Confidence: Low,
		Method:     MethodUnidentified,
		Steps:      append(steps, Step{Method: MethodAlias, Confidence: Low}),
	}
}

// upgrade replaces res with what place says when it names a district. A
// geocoded answer is at least medium and only runs below high, so the tier
// never drops.
func (r *Resolver) upgrade(res Resolution, method Method, place *geocode.Place) Resolution {
	if place == nil {
		res.Steps = append(res.Steps, Step{Method: method, Confidence: res.Confidence})

		return res
	}

	d, conf, ok := r.catalog.PickFromAddress(place.Address)
	if !ok || conf.Below(res.Confidence) {
		res.Steps = append(res.Steps, Step{Method: method, Confidence: res.Confidence})

		return res
	}

	res.District = d
	res.Confidence = conf
	res.Method = method
	res.Steps = append(res.Steps, Step{Method: method, Matched: true, Confidence: conf})

	return res
}
