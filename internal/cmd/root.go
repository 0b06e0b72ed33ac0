// SPDX-FileCopyrightText: 2026 Logan Lindquist Land
// SPDX-License-Identifier: FSL-1.1-MIT

package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/llbbl/cicd-hello/internal/ci"
	"github.com/llbbl/cicd-hello/internal/config"
	"github.com/llbbl/cicd-hello/internal/db"
	"github.com/llbbl/cicd-hello/internal/greeting"
	"github.com/llbbl/cicd-hello/internal/logging"
	"github.com/llbbl/cicd-hello/internal/store"
)

// Version is set at build time with -ldflags
var Version = "dev"

// cfg is loaded before any command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "cicd-hello",
	Short: "Print a fixed greeting to prove a pipeline can run a program",
	Long: `cicd-hello prints two fixed lines to standard output and exits 0.
It is a smoke-test payload for CI/CD pipelines.

Set CICD_HELLO_RECORD=true to keep a history of runs in a local SQLite database.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The greeting runs on defaults when the config is bad; subcommands refuse it.
		loaded, err := config.LoadWithFallback()
		if err != nil && cmd.HasParent() {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
		logging.SetupLogger(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			logging.WithComponent("config").Warn("ignoring invalid configuration, using defaults", "error", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return greet(cmd.OutOrStdout(), cfg)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cicd-hello version %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(dbCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// greet writes the greeting to w. When recording is enabled the run is
// stored afterwards; recording problems are logged and never fail the greeting.
func greet(w io.Writer, c *config.Config) error {
	log := logging.WithComponent("cmd")

	startedAt := time.Now()
	n, err := greeting.Write(w)

	if c != nil && c.Record {
		env := ci.DetectFromOS()
		log.Debug("detected environment", "provider", env.Provider, "ci", env.IsCI())

		run := store.NewRun(startedAt, Version, env)
		run.Finish(n, err, time.Now())

		if recErr := recordRun(c.DBPath, run); recErr != nil {
			log.Warn("failed to record run", "error", recErr)
		} else {
			log.Debug("recorded run", "id", run.ID, "status", run.Status)
		}
	}

	if err != nil {
		return fmt.Errorf("writing greeting: %w", err)
	}
	return nil
}

// recordRun stores a single run in the history database.
func recordRun(dbPath string, run store.Run) error {
	database, err := db.OpenAndMigrate(dbPath)
	if err != nil {
		return err
	}
	defer db.Close(database)

	return store.New(database).RecordRun(run)
}

// configuredDBPath returns the configured database path, empty for the default.
func configuredDBPath() string {
	if cfg == nil {
		return ""
	}
	return cfg.DBPath
}
