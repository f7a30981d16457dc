// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

// Package normalize keeps the records located in the city and annotates
// each one with its resolved district.
package normalize

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/abtecnologia/distritos/district"
	"github.com/abtecnologia/distritos/places"
)

// Annotation fields added to every kept record, in this order.
const (
	FieldDistrict   = "distrito_atualizado"
	FieldConfidence = "confianca_distrito"
	FieldMethod     = "metodo_distrito"
	FieldYear       = "year"
	FieldMonth      = "month"
	FieldDay        = "day"

	fieldAddress = "address"
	fieldPrior   = "distrito"
)

// Options configures a Driver.
type Options struct {
	Resolver *district.Resolver
	Filter   *district.CityFilter

	// Lookup confirms records whose address does not name the city. Nil
	// when geocoding is disabled.
	Lookup district.Lookup

	// Now stamps the processing date. Defaults to time.Now.
	Now func() time.Time

	// Progress shows a progress bar when stderr is a terminal
	Progress bool
}

// Driver runs the normalization over a batch of records.
type Driver struct {
	options Options
}

// NewDriver creates a new batch driver.
func NewDriver(options Options) *Driver {
	if options.Now == nil {
		options.Now = time.Now
	}

	return &Driver{options: options}
}

// Run filters and resolves records, returning the annotated records kept
// and the run summary. Input records are not modified.
func (d *Driver) Run(ctx context.Context, records []places.Record) ([]places.Record, *Summary, error) {
	summary := NewSummary()
	summary.Total = len(records)

	today := d.options.Now()

	var bar *progressbar.ProgressBar
	if d.options.Progress && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(records),
			progressbar.OptionSetDescription("Resolving districts"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	out := make([]places.Record, 0, len(records))

	for i, r := range records {
		if bar != nil {
			if err := bar.Add(1); err != nil {
				log.Printf("updating progress bar: %v", err)
			}
		}

		if !d.inCity(ctx, r, summary) {
			continue
		}

		summary.Kept++

		prior, _ := r.Text(fieldPrior)

		res := d.options.Resolver.Resolve(ctx, district.Query{
			Address:     r.String(fieldAddress),
			Prior:       prior,
			Coordinates: r.Coordinates(),
		})

		summary.Add(res)

		annotated, err := r.With(
			places.Field{Key: FieldDistrict, Value: res.District},
			places.Field{Key: FieldConfidence, Value: string(res.Confidence)},
			places.Field{Key: FieldMethod, Value: string(res.Method)},
			places.Field{Key: FieldYear, Value: today.Year()},
			places.Field{Key: FieldMonth, Value: int(today.Month())},
			places.Field{Key: FieldDay, Value: today.Day()},
		)
		if err != nil {
			return nil, nil, fmt.Errorf("annotating record %d: %w", i, err)
		}

		out = append(out, annotated)
	}

	return out, summary, nil
}

// inCity applies the plain city filter and, when it fails and geocoding is
// enabled, the reverse geocoding confirmation.
func (d *Driver) inCity(ctx context.Context, r places.Record, summary *Summary) bool {
	if d.options.Filter.Belongs(r.String(fieldAddress)) {
		return true
	}

	coords := r.Coordinates()
	if d.options.Lookup == nil || coords == nil {
		summary.Dropped++

		return false
	}

	if !d.options.Filter.Confirms(d.options.Lookup.Reverse(ctx, *coords)) {
		summary.Dropped++

		return false
	}

	summary.Confirmed++

	return true
}
