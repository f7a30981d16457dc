// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

// Package district resolves free text addresses to the official districts of
// a city.
package district

import (
	"regexp"
	"slices"
	"strings"

	"github.com/abtecnologia/distritos/geocode"
	"github.com/abtecnologia/distritos/utils/textutils"
)

// Alias maps a neighborhood (bairro) name to its district.
type Alias struct {
	Neighborhood string `json:"bairro" yaml:"bairro"`
	District     string `json:"distrito" yaml:"distrito"`
}

// entry is a folded name matched as a whole word. label keeps the declared
// spelling of the key.
type entry struct {
	key     string
	label   string
	name    string
	pattern *regexp.Regexp
}

func newEntry(key, label, name string) entry {
	return entry{
		key:     key,
		label:   label,
		name:    name,
		pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\b`),
	}
}

// Catalog holds the official districts and the neighborhood alias table.
// It is immutable after construction.
type Catalog struct {
	names   []string
	byKey   map[string]string
	longest []entry // districts, longest key first
	aliases []entry // declaration order
}

// NewCatalog builds a catalog. Names folding to the same key keep the first
// spelling; aliases keep their declared order.
func NewCatalog(districts []string, aliases []Alias) *Catalog {
	c := &Catalog{byKey: make(map[string]string, len(districts))}

	for _, name := range districts {
		key := textutils.Fold(name)
		if key == "" {
			continue
		}

		if _, dup := c.byKey[key]; dup {
			continue
		}

		c.byKey[key] = name
		c.names = append(c.names, name)
		c.longest = append(c.longest, newEntry(key, name, name))
	}

	// stable, so equal lengths keep the declared order
	slices.SortStableFunc(c.longest, func(a, b entry) int {
		return len(b.key) - len(a.key)
	})

	seen := make(map[string]bool, len(aliases))

	for _, alias := range aliases {
		key := textutils.Fold(alias.Neighborhood)
		if key == "" || alias.District == "" || seen[key] {
			continue
		}

		seen[key] = true
		c.aliases = append(c.aliases, newEntry(key, strings.TrimSpace(alias.Neighborhood), alias.District))
	}

	return c
}

// Names returns the district names in declaration order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Aliases returns the alias table in matching order.
func (c *Catalog) Aliases() []Alias {
	out := make([]Alias, len(c.aliases))
	for i, a := range c.aliases {
		out[i] = Alias{Neighborhood: a.label, District: a.name}
	}

	return out
}

// Len returns the number of districts.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Lookup returns the canonical name of a district given any spelling of it.
func (c *Catalog) Lookup(name string) (string, bool) {
	key := textutils.Fold(name)
	if key == "" {
		return "", false
	}

	d, ok := c.byKey[key]

	return d, ok
}

// FindInText returns the district whose name appears as a whole word in
// text. Longer names are tried first so "Vila Maria" never hides behind a
// shorter district contained in it.
func (c *Catalog) FindInText(text string) (string, bool) {
	return firstMatch(c.longest, textutils.Fold(text))
}

// LookupAlias returns the district of the first neighborhood alias found as
// a whole word in text.
func (c *Catalog) LookupAlias(text string) (string, bool) {
	return firstMatch(c.aliases, textutils.Fold(text))
}

func firstMatch(entries []entry, folded string) (string, bool) {
	if folded == "" {
		return "", false
	}

	for _, e := range entries {
		if e.pattern.MatchString(folded) {
			return e.name, true
		}
	}

	return "", false
}

// PickFromAddress picks a district out of a geocoding address breakdown.
// Fields are tried in the order city_district, suburb, neighbourhood,
// quarter. An exact city_district match is high confidence; an exact match
// on the other fields, or a district name contained in any of them, is
// medium.
func (c *Catalog) PickFromAddress(addr geocode.Address) (string, Confidence, bool) {
	fields := []struct {
		value      string
		exactLevel Confidence
	}{
		{addr.CityDistrict, High},
		{addr.Suburb, Medium},
		{addr.Neighbourhood, Medium},
		{addr.Quarter, Medium},
	}

	for _, f := range fields {
		if f.value == "" {
			continue
		}

		if d, ok := c.Lookup(f.value); ok {
			return d, f.exactLevel, true
		}

		if d, ok := c.FindInText(f.value); ok {
			return d, Medium, true
		}
	}

	return "", Low, false
}
