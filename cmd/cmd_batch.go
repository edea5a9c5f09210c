// Copyright 2025 The CWRC GeoNames Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cwrc/geonames/geonames"
	"github.com/cwrc/geonames/utils/textutils"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// isTerminal reports whether f is a character device. When unsure,
// we say that it isn't.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return (info.Mode() & os.ModeCharDevice) != 0
}

// batchLine is one line of batch output.
type batchLine struct {
	Query  string                     `json:"query"`
	Places []geonames.NormalizedPlace `json:"places,omitempty"`
	Error  string                     `json:"error,omitempty"`
}

// BatchMetrics counts the outcomes of a batch run.
type BatchMetrics struct {
	Queries    int
	Duplicates int
	Places     int
	Empty      int
	Failed     int
}

// placeFinder is the part of *geonames.Client used by batches.
type placeFinder interface {
	FindPlace(ctx context.Context, query string) ([]geonames.NormalizedPlace, error)
}

// readQueries returns the distinct non-blank queries of r, in order. Queries
// that fold to an already seen one are counted as duplicates.
func readQueries(r io.Reader) ([]string, int, error) {
	var (
		queries    []string
		duplicates int
	)

	seen := make(map[string]bool)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}

		key := textutils.QueryKey(query)
		if seen[key] {
			duplicates++

			continue
		}

		seen[key] = true
		queries = append(queries, query)
	}

	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading queries: %w", err)
	}

	return queries, duplicates, nil
}

// runBatch looks up every query sequentially and writes one JSON line per
// query to w. Failed lookups are reported in their line and do not stop the
// batch.
func runBatch(
	ctx context.Context,
	finder placeFinder,
	queries []string,
	w io.Writer,
	bar *progressbar.ProgressBar,
) (BatchMetrics, error) {
	metrics := BatchMetrics{Queries: len(queries)}
	enc := json.NewEncoder(w)

	for i, query := range queries {
		if err := ctx.Err(); err != nil {
			return metrics, err
		}

		line := batchLine{Query: query}

		places, err := finder.FindPlace(ctx, query)
		switch {
		case err != nil:
			metrics.Failed++
			line.Error = err.Error()

			if bar == nil {
				log.Printf("[%d/%d] Lookup %q failed - %s", i+1, len(queries), query, err)
			}
		case len(places) == 0:
			metrics.Empty++
		default:
			metrics.Places += len(places)
			line.Places = places
		}

		if err := enc.Encode(line); err != nil {
			return metrics, fmt.Errorf("writing result for %q: %w", query, err)
		}

		if bar != nil {
			if err := bar.Add(1); err != nil {
				return metrics, fmt.Errorf("updating progress bar: %w", err)
			}
		}
	}

	return metrics, nil
}

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Look up one query per line and print JSON lines",
	Long: `Reads one query per line from a file or from the standard input and prints one
JSON object per query: {"query": ..., "places": [...]} on success or
{"query": ..., "error": ...} on failure. Blank lines are skipped, and so are
queries that only differ from a previous one in case, accents or spacing.

$ printf 'smith\nSmith\nmontevideo\n' | geonames batch --username demo`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient(cmd)
		if err != nil {
			return err
		}

		var input io.Reader

		if len(args) > 0 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening file: %w", err)
			}
			defer f.Close()

			input = f
		} else {
			input = os.Stdin
			if isTerminal(os.Stdin) {
				fmt.Fprintln(os.Stderr, "Enter one query per line, Ctrl+D to finish…")
			}
		}

		queries, duplicates, err := readQueries(input)
		if err != nil {
			return err
		}

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(len(queries),
				progressbar.OptionSetDescription("Looking up"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		metrics, err := runBatch(cmd.Context(), client, queries, cmd.OutOrStdout(), bar)
		metrics.Duplicates = duplicates

		log.Printf(
			"Batch complete - %s queries, %s skipped duplicates, %s places, %s without matches, %s failed",
			textutils.FormatInt(int64(metrics.Queries)),
			textutils.FormatInt(int64(metrics.Duplicates)),
			textutils.FormatInt(int64(metrics.Places)),
			textutils.FormatInt(int64(metrics.Empty)),
			textutils.FormatInt(int64(metrics.Failed)),
		)

		if err != nil {
			return err
		}

		if metrics.Failed > 0 {
			return fmt.Errorf("%d of %d lookups failed", metrics.Failed, metrics.Queries)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
