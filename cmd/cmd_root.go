// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abtecnologia/distritos/config"
	"github.com/abtecnologia/distritos/district"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

// timestampLayout names output files, e.g. Bobs_SOR_20250906_214120.json
const timestampLayout = "20060102_150405"

type rootOptions struct {
	EnvFile     string
	CatalogFile string
}

var (
	rootOpts = &rootOptions{}
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "distritos",
	Short: "estabelecimentos de São Paulo por distrito",
	Long: `
distritos coleta estabelecimentos de um tema (por exemplo, uma rede de
restaurantes) na cidade de São Paulo e resolve o distrito oficial de cada um.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error

		cfg, err = config.Load(rootOpts.EnvFile)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		return nil
	},
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func userAgent() string {
	if cfg.UserAgent != "" {
		return cfg.UserAgent
	}

	return fmt.Sprintf("distritos/%s (+https://github.com/abtecnologia/distritos)", Version)
}

// loadSetup builds the catalog and the city from the defaults, the
// DISTRITOS_SP list and the optional catalog file.
func loadSetup() (*district.Setup, error) {
	var file *district.File

	if rootOpts.CatalogFile != "" {
		var err error

		file, err = district.LoadFile(rootOpts.CatalogFile)
		if err != nil {
			return nil, err
		}
	}

	setup := district.NewSetup(cfg.Districts, file)
	log.Printf("📍 %d districts, %d neighborhood aliases", setup.Catalog.Len(), len(setup.Catalog.Aliases()))

	return setup, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&rootOpts.EnvFile,
		"env-file",
		".env",
		"Arquivo .env com ASK_THEME, DISTRITOS_SP, GOOGLE_API_KEY, ...",
	)
	rootCmd.PersistentFlags().StringVar(
		&rootOpts.CatalogFile,
		"catalog-file",
		"",
		"Arquivo YAML que substitui distritos, bairros e cidades excluídas",
	)
}
