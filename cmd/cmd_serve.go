// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/cwrc/geonames/server"
	"github.com/spf13/cobra"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve lookups over HTTP at GET /api/places?q=",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, cfg, err := newClient(cmd)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("listen") {
			cfg.Listen = listenAddr
		}

		if client.Credentials().Username() == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "⚠️  No GeoNames username configured, every lookup will fail")
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "📍 Place lookup server listening on http://%s/api/places?q=\n", cfg.Listen)

		return server.New(client, cfg.Listen).Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(
		&listenAddr,
		"listen",
		"localhost:8080",
		"Address to listen on (overrides the config file)",
	)
}
