// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Search GeoNames and print the normalized places as JSON",
	Long: `Searches GeoNames for the given text and prints at most 10 normalized places
as a JSON array. No matches prints an empty array.

Examples:
  geonames find --username demo smith
  GEONAMES_USERNAME=demo geonames find "São Paulo"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient(cmd)
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")

		places, err := client.FindPlace(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("finding %q: %w", query, err)
		}

		output, err := json.MarshalIndent(places, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling json: %w", err)
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(output))

		return err
	},
}

var uriCmd = &cobra.Command{
	Use:   "uri <query>",
	Short: "Print the GeoNames lookup URL for a query without calling it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient(cmd)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), client.PlaceLookupURI(strings.Join(args, " ")))

		return err
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), cfg.String())

		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(uriCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
