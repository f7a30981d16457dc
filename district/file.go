// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package district

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the optional YAML catalog override. Any section it names replaces
// the corresponding default.
//
//	city:
//	  name: São Paulo
//	  state: SP
//	  state_name: São Paulo
//	  country_code: br
//	districts: [Sé, República, ...]
//	aliases:
//	  - {bairro: Paraíso, distrito: Vila Mariana}
//	excluded_cities: [Osasco, Guarulhos]
type File struct {
	City           *City    `yaml:"city"`
	Districts      []string `yaml:"districts"`
	Aliases        []Alias  `yaml:"aliases"`
	ExcludedCities []string `yaml:"excluded_cities"`
}

// LoadFile reads a catalog override file.
func LoadFile(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog file %s: %w", path, err)
	}

	return &f, nil
}

// Setup is the catalog and city a run works with.
type Setup struct {
	Catalog *Catalog
	City    City
}

// NewSetup combines the defaults with the overrides. The catalog file wins
// over the district list, which wins over the built-in districts. Both
// overrides are optional.
func NewSetup(districts []string, file *File) *Setup {
	names := DefaultDistricts
	if len(districts) > 0 {
		names = districts
	}

	aliases := DefaultAliases
	city := DefaultCity

	if file != nil {
		if len(file.Districts) > 0 {
			names = file.Districts
		}

		if len(file.Aliases) > 0 {
			aliases = file.Aliases
		}

		if file.City != nil {
			excluded := city.Excluded

			city = *file.City
			if len(city.Excluded) == 0 {
				city.Excluded = excluded
			}
		}

		if len(file.ExcludedCities) > 0 {
			city.Excluded = file.ExcludedCities
		}
	}

	return &Setup{
		Catalog: NewCatalog(names, aliases),
		City:    city,
	}
}

// Filter returns the city membership filter for the setup.
func (s *Setup) Filter() *CityFilter {
	return NewCityFilter(s.City)
}
