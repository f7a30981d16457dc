// Copyright 2025 The Distritos Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var districtsCmd = &cobra.Command{
	Use:   "districts",
	Short: "Lista os distritos e os bairros conhecidos",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		setup, err := loadSetup()
		if err != nil {
			return err
		}

		a, b := strings.Repeat("─", 3), strings.Repeat("─", 30)

		fmt.Printf("Distritos de %s:\n", setup.City.Name)
		fmt.Printf("╭─%3s─┬─%-30s─╮\n", a, b)

		for i, name := range setup.Catalog.Names() {
			fmt.Printf("│ %3d │ %-30s │\n", i+1, name)
		}

		fmt.Printf("╰─%3s─┴─%-30s─╯\n", a, b)

		fmt.Println("Bairros (na ordem em que são testados):")
		fmt.Printf("╭─%-30s─┬─%-30s─╮\n", b, b)

		for _, alias := range setup.Catalog.Aliases() {
			fmt.Printf("│ %-30s │ %-30s │\n", alias.Neighborhood, alias.District)
		}

		fmt.Printf("╰─%-30s─┴─%-30s─╯\n", b, b)

		if len(setup.City.Excluded) > 0 {
			fmt.Printf("Municípios excluídos: %s\n", strings.Join(setup.City.Excluded, ", "))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(districtsCmd)
}
