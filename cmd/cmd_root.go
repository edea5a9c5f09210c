// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/cwrc/geonames/config"
	"github.com/cwrc/geonames/geonames"
	"github.com/spf13/cobra"
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

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	ConfigPath          string
	Username            string
	BaseURL             string
	UserAgent           string
	Timeout             time.Duration
	EnableHTTPTrace     bool
	EnableHTTPBodyTrace bool
}

var options = &rootOptions{}

var rootCmd = &cobra.Command{
	Use:   "geonames",
	Short: "Look up places in the GeoNames web service",
	Long: `
geonames searches the GeoNames full-text service for place names and prints
normalized results: one record per place with a canonical geonames.org URI,
a display name and a feature description.

A GeoNames username is required. Set it with --username, the GEONAMES_USERNAME
environment variable, or the "username" key of the config file.
`,
	SilenceUsage: true,
}

var Version = "dev"

func Execute(version string) {
	Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

// loadConfig merges the config file, the environment and the flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(options.ConfigPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("username") {
		cfg.Username = options.Username
	}

	if flags.Changed("base-url") {
		cfg.BaseURL = options.BaseURL
	}

	if flags.Changed("user-agent") {
		cfg.UserAgent = options.UserAgent
	}

	if flags.Changed("timeout") && options.Timeout <= 0 {
		return nil, fmt.Errorf("--timeout must be greater than 0, got %s", options.Timeout)
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = fmt.Sprintf("geonames/%s (+https://www.geonames.org)", Version)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newClient builds a lookup client from the merged configuration.
func newClient(cmd *cobra.Command) (*geonames.Client, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	timeout := cfg.Timeout()
	if cmd.Flags().Changed("timeout") {
		timeout = options.Timeout
	}

	client := geonames.NewClient(
		geonames.NewCredentials(cfg.Username),
		&geonames.ClientOptions{
			BaseURL:             cfg.BaseURL,
			Timeout:             timeout,
			UserAgent:           cfg.UserAgent,
			TraceWriter:         cmd.ErrOrStderr(),
			EnableHTTPTrace:     options.EnableHTTPTrace,
			EnableHTTPBodyTrace: options.EnableHTTPBodyTrace,
		},
	)

	return client, cfg, nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(
		&options.ConfigPath,
		"config",
		config.DefaultPath,
		"YAML settings file (optional)",
	)
	flags.StringVar(
		&options.Username,
		"username",
		"",
		"GeoNames account username (overrides "+config.UsernameEnv+" and the config file)",
	)
	flags.StringVar(
		&options.BaseURL,
		"base-url",
		geonames.DefaultBaseURL,
		"GeoNames searchJSON endpoint",
	)
	flags.StringVar(
		&options.UserAgent,
		"user-agent",
		"",
		"User-Agent header sent to GeoNames",
	)
	flags.DurationVar(
		&options.Timeout,
		"timeout",
		geonames.DefaultTimeout,
		"Maximum time to wait for GeoNames to answer a lookup",
	)
	flags.BoolVar(
		&options.EnableHTTPTrace,
		"trace-http",
		false,
		"Display HTTP requests-responses",
	)
	flags.BoolVar(
		&options.EnableHTTPBodyTrace,
		"trace-http-body",
		false,
		"Display HTTP requests-responses bodies",
	)
}
