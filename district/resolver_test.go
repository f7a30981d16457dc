// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package district

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/abtecnologia/distritos/geocode"
	"github.com/abtecnologia/distritos/spatial"
)

type fakeLookup struct {
	forward  map[string]*geocode.Place
	reverse  map[string]*geocode.Place
	forwards []string
	reverses []string
}

func (f *fakeLookup) Forward(_ context.Context, address string) *geocode.Place {
	f.forwards = append(f.forwards, address)

	return f.forward[address]
}

func (f *fakeLookup) Reverse(_ context.Context, coords spatial.Coordinates) *geocode.Place {
	f.reverses = append(f.reverses, coords.Key())

	return f.reverse[coords.Key()]
}

func placeWith(addr geocode.Address) *geocode.Place {
	return &geocode.Place{Address: addr}
}

func TestResolveWithoutGeocoding(t *testing.T) {
	r := NewResolver(NewCatalog(DefaultDistricts, DefaultAliases), nil)

	tests := []struct {
		name     string
		query    Query
		expected Resolution
	}{
		{
			name:  "district in address",
			query: Query{Address: "Rua X, Vila Mariana, São Paulo - SP"},
			expected: Resolution{
				District: "Vila Mariana", Confidence: High, Method: MethodAddress,
				Steps: []Step{{Method: MethodAddress, Matched: true, Confidence: High}},
			},
		},
		{
			name:  "neighborhood alias",
			query: Query{Address: "Rua Y, Paraíso, São Paulo - SP"},
			expected: Resolution{
				District: "Vila Mariana", Confidence: Medium, Method: MethodAlias,
				Steps: []Step{
					{Method: MethodAddress, Confidence: Low},
					{Method: MethodAlias, Matched: true, Confidence: Medium},
				},
			},
		},
		{
			name:  "nothing matches",
			query: Query{Address: "Rua Desconhecida, 123, São Paulo - SP"},
			expected: Resolution{
				District: Unidentified, Confidence: Low, Method: MethodUnidentified,
				Steps: []Step{
					{Method: MethodAddress, Confidence: Low},
					{Method: MethodAlias, Confidence: Low},
				},
			},
		},
		{
			name:  "valid prior value",
			query: Query{Address: "Rua X, Vila Mariana, São Paulo", Prior: "se"},
			expected: Resolution{
				District: "Sé", Confidence: High, Method: MethodOriginal,
				Steps: []Step{{Method: MethodOriginal, Matched: true, Confidence: High}},
			},
		},
		{
			name:  "unknown prior value",
			query: Query{Address: "Rua X, Vila Mariana, São Paulo", Prior: "Centro"},
			expected: Resolution{
				District: "Vila Mariana", Confidence: High, Method: MethodAddress,
				Steps: []Step{
					{Method: MethodOriginal, Confidence: Low},
					{Method: MethodAddress, Matched: true, Confidence: High},
				},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Resolve(context.Background(), tc.query)
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveGeocodingSteps(t *testing.T) {
	coords := &spatial.Coordinates{Lat: "-23.56", Lng: "-46.69"}

	t.Run("search then reverse upgrade", func(t *testing.T) {
		lookup := &fakeLookup{
			forward: map[string]*geocode.Place{"Rua Sem Nome, 1, São Paulo": placeWith(geocode.Address{Suburb: "Moema"})},
			reverse: map[string]*geocode.Place{"-23.56,-46.69": placeWith(geocode.Address{CityDistrict: "Pinheiros"})},
		}
		r := NewResolver(NewCatalog(DefaultDistricts, DefaultAliases), lookup)

		got := r.Resolve(context.Background(), Query{Address: "Rua Sem Nome, 1, São Paulo", Coordinates: coords})

		assert.Equal(t, "Pinheiros", got.District)
		assert.Equal(t, High, got.Confidence)
		assert.Equal(t, MethodReverse, got.Method)
		assert.Equal(t, []Step{
			{Method: MethodAddress, Confidence: Low},
			{Method: MethodAlias, Confidence: Low},
			{Method: MethodSearch, Matched: true, Confidence: Medium},
			{Method: MethodReverse, Matched: true, Confidence: High},
		}, got.Steps)
	})

	t.Run("high search skips reverse", func(t *testing.T) {
		lookup := &fakeLookup{
			forward: map[string]*geocode.Place{"Rua Y, Paraíso, São Paulo": placeWith(geocode.Address{CityDistrict: "Vila Mariana"})},
		}
		r := NewResolver(NewCatalog(DefaultDistricts, DefaultAliases), lookup)

		got := r.Resolve(context.Background(), Query{Address: "Rua Y, Paraíso, São Paulo", Coordinates: coords})

		assert.Equal(t, MethodSearch, got.Method)
		assert.Equal(t, High, got.Confidence)
		assert.Empty(t, lookup.reverses)
	})

	t.Run("high text match skips geocoding", func(t *testing.T) {
		lookup := &fakeLookup{}
		r := NewResolver(NewCatalog(DefaultDistricts, DefaultAliases), lookup)

		got := r.Resolve(context.Background(), Query{Address: "Rua X, Vila Mariana, São Paulo", Coordinates: coords})

		assert.Equal(t, MethodAddress, got.Method)
		assert.Empty(t, lookup.forwards)
		assert.Empty(t, lookup.reverses)
	})

	t.Run("no answers keep alias", func(t *testing.T) {
		lookup := &fakeLookup{}
		r := NewResolver(NewCatalog(DefaultDistricts, DefaultAliases), lookup)

		got := r.Resolve(context.Background(), Query{Address: "Rua Y, Paraíso, São Paulo", Coordinates: coords})

		assert.Equal(t, "Vila Mariana", got.District)
		assert.Equal(t, Medium, got.Confidence)
		assert.Equal(t, MethodAlias, got.Method)
		assert.Equal(t, []string{"Rua Y, Paraíso, São Paulo"}, lookup.forwards)
		assert.Equal(t, []string{"-23.56,-46.69"}, lookup.reverses)
	})

	t.Run("unrecognized answer keeps unidentified", func(t *testing.T) {
		lookup := &fakeLookup{
			forward: map[string]*geocode.Place{"Rua Z": placeWith(geocode.Address{Suburb: "Bairro Inexistente"})},
		}
		r := NewResolver(NewCatalog(DefaultDistricts, DefaultAliases), lookup)

		got := r.Resolve(context.Background(), Query{Address: "Rua Z"})

		assert.Equal(t, Unidentified, got.District)
		assert.Equal(t, Low, got.Confidence)
		assert.Equal(t, MethodUnidentified, got.Method)
		assert.False(t, got.Resolved())
	})

	t.Run("invalid coordinates and blank address are skipped", func(t *testing.T) {
		lookup := &fakeLookup{}
		r := NewResolver(NewCatalog(DefaultDistricts, DefaultAliases), lookup)

		got := r.Resolve(context.Background(), Query{
			Address:     "  ",
			Coordinates: &spatial.Coordinates{Lat: "N/A", Lng: "-46.6"},
		})

		assert.Equal(t, MethodUnidentified, got.Method)
		assert.Empty(t, lookup.forwards)
		assert.Empty(t, lookup.reverses)
	})
}

func TestResolveConfidenceNeverDrops(t *testing.T) {
	lookup := &fakeLookup{
		forward: map[string]*geocode.Place{"Rua Y, Paraíso, São Paulo": placeWith(geocode.Address{Suburb: "Moema"})},
		reverse: map[string]*geocode.Place{"-23.5,-46.6": placeWith(geocode.Address{Quarter: "Saúde"})},
	}
	r := NewResolver(NewCatalog(DefaultDistricts, DefaultAliases), lookup)

	got := r.Resolve(context.Background(), Query{
		Address:     "Rua Y, Paraíso, São Paulo",
		Coordinates: &spatial.Coordinates{Lat: "-23.5", Lng: "-46.6"},
	})

	prev := Low
	for _, s := range got.Steps {
		assert.False(t, s.Confidence.Below(prev), "step %s lowered confidence", s.Method)
		prev = s.Confidence
	}

	assert.Equal(t, MethodReverse, got.Method)
	assert.Equal(t, "Saúde", got.District)
	assert.Equal(t, Medium, got.Confidence)
}
