// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package district

import (
	"slices"
	"strings"

	"github.com/abtecnologia/distritos/geocode"
	"github.com/abtecnologia/distritos/utils/textutils"
)

// City describes the target city and the neighboring municipalities that
// share its name in addresses but are not part of it.
type City struct {
	Name        string   `yaml:"name"`
	State       string   `yaml:"state"`
	StateName   string   `yaml:"state_name"`
	CountryCode string   `yaml:"country_code"`
	Excluded    []string `yaml:"excluded_cities"`
}

// CityFilter decides whether an address belongs to the city proper.
type CityFilter struct {
	city        City
	name        string
	states      []string
	countryCode string
	excluded    []string
}

// NewCityFilter builds a filter for city.
func NewCityFilter(city City) *CityFilter {
	f := &CityFilter{
		city:        city,
		name:        textutils.Fold(city.Name),
		countryCode: textutils.Fold(city.CountryCode),
	}

	for _, s := range []string{city.State, city.StateName} {
		if k := textutils.Fold(s); k != "" {
			f.states = append(f.states, k)
		}
	}

	for _, e := range city.Excluded {
		if k := textutils.Fold(e); k != "" {
			f.excluded = append(f.excluded, k)
		}
	}

	return f
}

// City returns the city the filter was built for.
func (f *CityFilter) City() City {
	return f.city
}

// Belongs reports whether the address names the city and none of the
// excluded municipalities. It is a plain substring check.
func (f *CityFilter) Belongs(address string) bool {
	folded := textutils.Fold(address)
	if f.name == "" || !strings.Contains(folded, f.name) {
		return false
	}

	for _, e := range f.excluded {
		if strings.Contains(folded, e) {
			return false
		}
	}

	return true
}

// Confirms reports whether a reverse geocoding answer places the point in
// the city: same city (or town), same state and same country.
func (f *CityFilter) Confirms(place *geocode.Place) bool {
	if place == nil {
		return false
	}

	addr := place.Address

	city := addr.City
	if city == "" {
		city = addr.Town
	}

	if textutils.Fold(city) != f.name {
		return false
	}

	if !slices.Contains(f.states, textutils.Fold(addr.State)) {
		return false
	}

	return f.countryCode == "" || textutils.Fold(addr.CountryCode) == f.countryCode
}
