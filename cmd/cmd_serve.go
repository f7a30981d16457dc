// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abtecnologia/distritos/district"
	"github.com/abtecnologia/distritos/server"
)

type serveOptions struct {
	Addr      string
	CacheSize int
	Geocoding geocodingOptions
}

var serveOpts = &serveOptions{}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "API local para resolver distritos",
	Long: `Expõe o resolvedor de distritos por HTTP:

  GET /api/districts
  GET /api/resolve?address=...&distrito=...&lat=...&lon=...

$ curl 'http://localhost:8080/api/resolve?address=Rua+X,+Vila+Mariana,+São+Paulo'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context(), serveOpts)
	},
}

func runServe(ctx context.Context, opts *serveOptions) (err error) {
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

	s, err := server.New(district.NewResolver(setup.Catalog, lookupOf(svc)), setup.Filter(), opts.CacheSize)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.Run(ctx, opts.Addr)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(
		&serveOpts.Addr,
		"addr",
		"localhost:8080",
		"Endereço de escuta",
	)
	serveCmd.Flags().IntVar(
		&serveOpts.CacheSize,
		"cache-size",
		server.DefaultCacheSize,
		"Número de respostas recentes mantidas em memória",
	)
	serveOpts.Geocoding.register(serveCmd)
}
