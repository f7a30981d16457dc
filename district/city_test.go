// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package district

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abtecnologia/distritos/geocode"
)

func TestCityFilterBelongs(t *testing.T) {
	f := NewCityFilter(DefaultCity)

	tests := []struct {
		address  string
		expected bool
	}{
		{"Av. Paulista, 1000, São Paulo - SP", true},
		{"Rua B, 12, SAO PAULO", true},
		{"Av. Z, Osasco - SP", false},
		{"Rua A, Osasco, São Paulo", false},
		{"Estrada X, Santana de Parnaíba, São Paulo", false},
		{"Rua C, Santana, São Paulo", true},
		{"Av. Goiás, São Caetano do Sul - SP", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.address, func(t *testing.T) {
			assert.Equal(t, tc.expected, f.Belongs(tc.address))
		})
	}
}

func TestCityFilterConfirms(t *testing.T) {
	f := NewCityFilter(DefaultCity)

	tests := []struct {
		name     string
		place    *geocode.Place
		expected bool
	}{
		{"nil", nil, false},
		{"city and state name", &geocode.Place{Address: geocode.Address{City: "São Paulo", State: "São Paulo", CountryCode: "br"}}, true},
		{"town and state code", &geocode.Place{Address: geocode.Address{Town: "Sao Paulo", State: "SP", CountryCode: "BR"}}, true},
		{"other city", &geocode.Place{Address: geocode.Address{City: "Osasco", State: "São Paulo", CountryCode: "br"}}, false},
		{"missing state", &geocode.Place{Address: geocode.Address{City: "São Paulo", CountryCode: "br"}}, false},
		{"other country", &geocode.Place{Address: geocode.Address{City: "São Paulo", State: "SP", CountryCode: "pt"}}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, f.Confirms(tc.place))
		})
	}
}
