// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abtecnologia/distritos/district"
	"github.com/abtecnologia/distritos/geocode"
)

type geocodingOptions struct {
	Enabled   bool
	CacheFile string
	Sleep     float64
	TraceHTTP bool
	TraceBody bool
}

func (o *geocodingOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(
		&o.Enabled,
		"use-nominatim",
		false,
		"Habilita consultas à API pública Nominatim",
	)
	cmd.Flags().StringVar(
		&o.CacheFile,
		"cache-file",
		"",
		"Arquivo de cache (json) p/ respostas do Nominatim. Padrão: <tema>_cache_nominatim.json",
	)
	cmd.Flags().Float64Var(
		&o.Sleep,
		"sleep",
		1.1,
		"Intervalo entre requests (segundos)",
	)
	cmd.Flags().BoolVar(
		&o.TraceHTTP,
		"trace-http",
		false,
		"Display HTTP requests-responses",
	)
	cmd.Flags().BoolVar(
		&o.TraceBody,
		"trace-http-body",
		false,
		"Display HTTP requests-responses bodies",
	)
}

// open loads the cache and builds the lookup service. It returns nil when
// geocoding is disabled.
func (o *geocodingOptions) open(city district.City) (*geocode.Service, error) {
	if !o.Enabled {
		return nil, nil
	}

	if o.Sleep < 0 {
		return nil, fmt.Errorf("--sleep must not be negative: %v", o.Sleep)
	}

	path := o.CacheFile
	if path == "" {
		path = cfg.Theme + "_cache_nominatim.json"
	}

	cache, err := geocode.LoadCache(path)
	if err != nil {
		return nil, err
	}

	log.Printf("🗺️  Nominatim enabled, %d cached answers in %s", cache.Len(), path)

	opts := geocode.NominatimOptions{
		BaseURL:      cfg.NominatimURL,
		UserAgent:    userAgent(),
		City:         city.Name,
		State:        city.State,
		CountryCodes: city.CountryCode,
		Delay:        time.Duration(o.Sleep * float64(time.Second)),
	}

	if o.TraceHTTP || o.TraceBody {
		opts.TraceWriter = os.Stderr
		opts.TraceBody = o.TraceBody
	}

	return geocode.NewService(cache, geocode.NewNominatim(opts)), nil
}

// closeService writes the cache back and reports what the service did.
func closeService(svc *geocode.Service) error {
	if svc == nil {
		return nil
	}

	m := svc.Metrics
	log.Printf(
		"Geocoding - %d cache hits, %d network calls, %d failures, %d empty answers, %d skipped after failing",
		m.CacheHits, m.NetworkCalls, m.Failures, m.EmptyAnswers, m.SkippedFailed,
	)

	if err := svc.Cache().Save(); err != nil {
		return fmt.Errorf("saving geocoding cache: %w", err)
	}

	log.Printf("💾 %d cached answers saved to %s", svc.Cache().Len(), svc.Cache().Path())

	return nil
}

// lookupOf avoids handing a typed nil to the resolver.
func lookupOf(svc *geocode.Service) district.Lookup {
	if svc == nil {
		return nil
	}

	return svc
}
