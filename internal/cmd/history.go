// SPDX-FileCopyrightText: 2026 Logan Lindquist Land
// SPDX-License-Identifier: FSL-1.1-MIT

package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/llbbl/cicd-hello/internal/config"
	"github.com/llbbl/cicd-hello/internal/db"
	"github.com/llbbl/cicd-hello/internal/export"
	"github.com/llbbl/cicd-hello/internal/render"
	"github.com/llbbl/cicd-hello/internal/store"
)

// Flag variables
var (
	historyLimit   int
	exportFormat   string
	exportDir      string
	pruneOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded runs",
	Long:  `Show runs recorded while CICD_HELLO_RECORD was enabled, newest first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closeDB, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB()

		stats, err := s.Stats()
		if err != nil {
			return fmt.Errorf("getting run stats: %w", err)
		}

		runs, err := s.ListRuns(historyLimit)
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}

		now := time.Now()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, render.Stats(stats, now))
		fmt.Fprintln(out)
		fmt.Fprintln(out, render.RunTable(runs, now))
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs to a JSON or YAML file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := export.ValidateFormat(exportFormat); err != nil {
			return err
		}

		s, closeDB, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB()

		runs, err := s.ListRuns(0)
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}

		path, err := export.WriteFile(runs, exportFormat, exportDir)
		if err != nil {
			return fmt.Errorf("exporting runs: %w", err)
		}

		slog.Debug("exported runs", "component", "cmd", "path", path, "count", len(runs))
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d runs to %s\n", len(runs), path)
		return nil
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old runs",
	Long: `Delete runs older than --older-than, or CICD_HELLO_RETENTION when the flag is not set.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		age := pruneOlderThan
		if age <= 0 {
			age = retention()
		}

		s, closeDB, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB()

		deleted, err := s.PruneRuns(time.Now().Add(-age))
		if err != nil {
			return fmt.Errorf("pruning runs: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d runs older than %s\n", deleted, age)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	historyExportCmd.Flags().StringVarP(&exportFormat, "format", "f", export.FormatJSON, "Export format: json or yaml")
	historyExportCmd.Flags().StringVarP(&exportDir, "output", "o", ".", "Directory to write the export file to")
	historyPruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 0, "Delete runs older than this (default from CICD_HELLO_RETENTION)")

	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyPruneCmd)
}

// openStore opens the history database and returns a store plus its close func.
func openStore() (*store.Store, func(), error) {
	database, err := db.OpenAndMigrate(configuredDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening history database: %w", err)
	}

	return store.New(database), func() { db.Close(database) }, nil
}

// retention returns the configured retention period.
func retention() time.Duration {
	if cfg == nil || cfg.Retention <= 0 {
		return config.DefaultRetention
	}
	return cfg.Retention
}
