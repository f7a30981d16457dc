// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abtecnologia/distritos/places"
	"github.com/abtecnologia/distritos/spatial"
)

type collectOptions struct {
	OutputJSON     string
	OutputCSV      string
	PlaceType      string
	GridResolution int
	SkipTextSearch bool
	SkipNearby     bool
	TraceHTTP      bool
	TraceBody      bool
}

var collectOpts = &collectOptions{}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Coleta os estabelecimentos do tema na Google Places API",
	Long: `Busca os estabelecimentos do tema (ASK_THEME) com duas estratégias:
uma busca por texto para cada distrito e uma busca por proximidade sobre uma
grade de hexágonos H3 que cobre a Grande São Paulo. Os resultados são
deduplicados por place_id e completados com os detalhes de cada lugar.

A chave vem de GOOGLE_API_KEY ou, na falta dela, das Application Default
Credentials via API Keys API.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCollect(cmd.Context(), collectOpts)
	},
}

func apiKey(ctx context.Context) (string, error) {
	if cfg.GoogleAPIKey != "" {
		return cfg.GoogleAPIKey, nil
	}

	log.Println("GOOGLE_API_KEY is not set. Attempting to retrieve via ADC...")

	key, err := places.APIKeyFromADC(ctx, cfg.GoogleProject, cfg.GoogleKeyName)
	if err != nil {
		return "", fmt.Errorf("GOOGLE_API_KEY is not set and ADC failed: %w", err)
	}

	log.Println("✅ Successfully retrieved Google Places API Key via ADC")

	return key, nil
}

func runCollect(ctx context.Context, opts *collectOptions) error {
	if opts.SkipTextSearch && opts.SkipNearby {
		return errors.New("nothing to do: both --skip-text-search and --skip-nearby are set")
	}

	key, err := apiKey(ctx)
	if err != nil {
		return err
	}

	setup, err := loadSetup()
	if err != nil {
		return err
	}

	gopts := places.GoogleOptions{
		APIKey:    key,
		PlaceType: opts.PlaceType,
		UserAgent: userAgent(),
	}

	if opts.TraceHTTP || opts.TraceBody {
		gopts.TraceWriter = os.Stderr
		gopts.TraceBody = opts.TraceBody
	}

	copts := places.DefaultCollectorOptions()
	copts.Theme = cfg.Theme
	copts.City = setup.City.Name
	copts.Districts = setup.Catalog.Names()
	copts.Catalog = setup.Catalog
	copts.SkipTextSearch = opts.SkipTextSearch
	copts.SkipNearby = opts.SkipNearby

	if !opts.SkipNearby {
		copts.Areas, err = places.SearchGrid(spatial.SaoPauloBounds, opts.GridResolution)
		if err != nil {
			return err
		}
	}

	log.Printf("Starting collection of %q in %s", cfg.Theme, setup.City.Name)

	c := places.NewCollector(places.NewGooglePlaces(gopts), copts)

	records, err := c.Collect(ctx)
	if err != nil {
		return err
	}

	log.Printf(
		"Total collection metrics - %d text queries, %d areas, %d pages, %d from text, %d from nearby, %d details, %d failures",
		c.Metrics.TextQueries,
		c.Metrics.NearbyAreas,
		c.Metrics.Pages,
		c.Metrics.FromText,
		c.Metrics.FromNearby,
		c.Metrics.Details,
		c.Metrics.Failures,
	)

	if len(records) == 0 {
		log.Printf("❌ No %s found", cfg.Theme)

		return nil
	}

	stamp := time.Now().Format(timestampLayout)

	outJSON := opts.OutputJSON
	if outJSON == "" {
		outJSON = fmt.Sprintf("%s_SOR_%s.json", cfg.Theme, stamp)
	}

	outCSV := opts.OutputCSV
	if outCSV == "" {
		outCSV = fmt.Sprintf("%s_SOR_%s.csv", cfg.Theme, stamp)
	}

	if err := places.WriteJSON(outJSON, records); err != nil {
		return err
	}

	if err := places.WriteCSV(outCSV, records); err != nil {
		return err
	}

	log.Printf("📁 Output: %s, %s", outJSON, outCSV)

	return nil
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().StringVar(
		&collectOpts.OutputJSON,
		"output-json",
		"",
		"JSON de saída. Padrão: <tema>_SOR_<timestamp>.json",
	)
	collectCmd.Flags().StringVar(
		&collectOpts.OutputCSV,
		"output-csv",
		"",
		"CSV de saída. Padrão: <tema>_SOR_<timestamp>.csv",
	)
	collectCmd.Flags().StringVar(
		&collectOpts.PlaceType,
		"type",
		"restaurant",
		"Tipo de lugar da Places API",
	)
	collectCmd.Flags().IntVar(
		&collectOpts.GridResolution,
		"h3-res",
		places.DefaultGridResolution,
		"Resolução H3 da grade da busca por proximidade",
	)
	collectCmd.Flags().BoolVar(
		&collectOpts.SkipTextSearch,
		"skip-text-search",
		false,
		"Evita a busca por texto por distrito",
	)
	collectCmd.Flags().BoolVar(
		&collectOpts.SkipNearby,
		"skip-nearby",
		false,
		"Evita a busca por proximidade",
	)
	collectCmd.Flags().BoolVar(
		&collectOpts.TraceHTTP,
		"trace-http",
		false,
		"Display HTTP requests-responses",
	)
	collectCmd.Flags().BoolVar(
		&collectOpts.TraceBody,
		"trace-http-body",
		false,
		"Display HTTP requests-responses bodies",
	)
}
