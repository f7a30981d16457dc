// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/abtecnologia/distritos/district"
	"github.com/abtecnologia/distritos/normalize"
	"github.com/abtecnologia/distritos/places"
)

type normalizeOptions struct {
	InputJSON  string
	OutputJSON string
	OutputCSV  string
	Geocoding  geocodingOptions
}

var normalizeOpts = &normalizeOptions{}

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Filtra os registros da cidade e resolve o distrito de cada um",
	Long: `Lê os estabelecimentos coletados, descarta os que não pertencem à cidade
e anota cada registro com distrito_atualizado, confianca_distrito,
metodo_distrito e a data de processamento.

A resolução tenta, em ordem: o distrito já informado, um distrito citado no
endereço, um bairro conhecido e, com --use-nominatim, a busca e a busca reversa
no Nominatim.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runNormalize(cmd.Context(), normalizeOpts)
	},
}

func runNormalize(ctx context.Context, opts *normalizeOptions) (err error) {
	stamp := time.Now().Format(timestampLayout)

	input := opts.InputJSON
	if input == "" {
		input = cfg.Theme + "_SOR.json"
	}

	outJSON := opts.OutputJSON
	if outJSON == "" {
		outJSON = fmt.Sprintf("%s_saida_unificada_SOT_%s.json", cfg.Theme, stamp)
	}

	outCSV := opts.OutputCSV
	if outCSV == "" {
		outCSV = fmt.Sprintf("%s_saida_unificada_SOT_%s.csv", cfg.Theme, stamp)
	}

	records, err := places.ReadJSON(input)
	if err != nil {
		return err
	}

	log.Printf("📥 %d records read from %s", len(records), input)

	setup, err := loadSetup()
	if err != nil {
		return err
	}

	svc, err := opts.Geocoding.open(setup.City)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := closeService(svc); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	lookup := lookupOf(svc)

	driver := normalize.NewDriver(normalize.Options{
		Resolver: district.NewResolver(setup.Catalog, lookup),
		Filter:   setup.Filter(),
		Lookup:   lookup,
		Progress: true,
	})

	out, summary, err := driver.Run(ctx, records)
	if err != nil {
		return err
	}

	if err := places.WriteJSON(outJSON, out); err != nil {
		return err
	}

	if err := places.WriteCSV(outCSV, out); err != nil {
		return err
	}

	log.Printf("📁 Output: %s, %s", outJSON, outCSV)
	summary.Log()

	return nil
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normalizeCmd.Flags().StringVar(
		&normalizeOpts.InputJSON,
		"input-json",
		"",
		"JSON de entrada com registros. Padrão: <tema>_SOR.json",
	)
	normalizeCmd.Flags().StringVar(
		&normalizeOpts.OutputJSON,
		"output-json",
		"",
		"JSON de saída. Padrão: <tema>_saida_unificada_SOT_<timestamp>.json",
	)
	normalizeCmd.Flags().StringVar(
		&normalizeOpts.OutputCSV,
		"output-csv",
		"",
		"CSV de saída. Padrão: <tema>_saida_unificada_SOT_<timestamp>.csv",
	)
	normalizeOpts.Geocoding.register(normalizeCmd)
}
