// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package normalize

import (
	"log"

	"github.com/abtecnologia/distritos/district"
	"github.com/abtecnologia/distritos/utils/textutils"
)

// Summary aggregates the outcome of a run.
type Summary struct {
	Total     int
	Kept      int
	Dropped   int
	Confirmed int // kept through reverse geocoding
	Resolved  int
	Methods   map[district.Method]int
}

// NewSummary returns a summary with every method at zero.
func NewSummary() *Summary {
	s := &Summary{Methods: make(map[district.Method]int, len(district.Methods))}
	for _, m := range district.Methods {
		s.Methods[m] = 0
	}

	return s
}

// Add counts one resolution.
func (s *Summary) Add(res district.Resolution) {
	s.Methods[res.Method]++

	if res.Resolved() {
		s.Resolved++
	}
}

// Log prints the summary.
func (s *Summary) Log() {
	log.Printf("📊 Input records:    %s", textutils.FormatInt(int64(s.Total)))
	log.Printf("📊 Kept in the city: %s (%s confirmed by reverse geocoding)",
		textutils.FormatInt(int64(s.Kept)), textutils.FormatInt(int64(s.Confirmed)))
	log.Printf("📊 District found:   %s", textutils.FormatInt(int64(s.Resolved)))
	log.Print("Methods:")

	for _, m := range district.Methods {
		log.Printf("  - %s: %s", m, textutils.FormatInt(int64(s.Methods[m])))
	}
}
