// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abtecnologia/distritos/district"
)

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return (info.Mode() & os.ModeCharDevice) != 0
}

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve o distrito de endereços, sem consultar o Nominatim",
	Long: `Lê um endereço por linha, e imprime em stdout o endereço seguido da
resolução e de se o endereço pertence à cidade.

$ echo 'Rua Y, Paraíso, São Paulo - SP' | distritos debug resolve
Rua Y, Paraíso, São Paulo - SP		true	{"district":"Vila Mariana","confidence":"média","method":"bairro",...}
	`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		setup, err := loadSetup()
		if err != nil {
			return err
		}

		resolver := district.NewResolver(setup.Catalog, nil)
		filter := setup.Filter()

		input := os.Stdin
		if isTerminal(input) {
			fmt.Fprintln(os.Stderr, "Digite os endereços a analisar, um por linha…")
		}

		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			address := scanner.Text()
			res := resolver.Resolve(cmd.Context(), district.Query{Address: address})

			s, err := json.Marshal(res)
			if err != nil {
				return err
			}

			fmt.Printf("%s\t\t%t\t%s\n", address, filter.Belongs(address), s)
		}

		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugResolveCmd)
}
