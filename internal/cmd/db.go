// SPDX-FileCopyrightText: 2026 Logan Lindquist Land
// SPDX-License-Identifier: FSL-1.1-MIT

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/llbbl/cicd-hello/internal/db"
	"github.com/llbbl/cicd-hello/internal/render"
	"github.com/llbbl/cicd-hello/internal/store"
)

var forceReset bool

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Maintain the run history database",
	Long: `Inspect and maintain the SQLite file that holds recorded runs.
The file lives at CICD_HELLO_DB_PATH, or ~/.cicd-hello/history.db when unset.`,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Bring the history schema up to date",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := historyDBPath()
		if err != nil {
			return err
		}

		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close(database)

		before, _ := db.GetMigrationVersion(database)
		if err := db.RunMigrations(database); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		after, err := db.GetMigrationVersion(database)
		if err != nil {
			return fmt.Errorf("getting migration version: %w", err)
		}

		out := cmd.OutOrStdout()
		if before == after {
			fmt.Fprintf(out, "History schema already at version %d\n", after)
		} else {
			fmt.Fprintf(out, "History schema upgraded: version %d -> %d\n", before, after)
		}
		return nil
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where history is kept and what it holds",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := historyDBPath()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "History file: %s\n", dbPath)

		if !fileExists(dbPath) {
			fmt.Fprintln(out, "No history yet (set CICD_HELLO_RECORD=true or run 'cicd-hello db migrate')")
			return nil
		}

		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close(database)

		version, err := db.GetMigrationVersion(database)
		if err != nil {
			fmt.Fprintf(out, "Schema version: unknown (%v)\n", err)
			return nil
		}
		fmt.Fprintf(out, "Schema version: %d\n", version)

		stats, err := store.New(database).Stats()
		if err != nil {
			fmt.Fprintf(out, "Run counts: unknown (%v)\n", err)
			return nil
		}
		fmt.Fprintln(out, render.Stats(stats, time.Now()))
		return nil
	},
}

var dbPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the history file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := historyDBPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dbPath)
		return nil
	},
}

var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard every recorded run and start an empty history",
	Long: `Remove the history file and recreate it at the latest schema.
Asks for confirmation unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := historyDBPath()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if fileExists(dbPath) {
			if !forceReset {
				ok, err := confirmReset(out, cmd.InOrStdin(), dbPath)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Reset cancelled, history kept.")
					return nil
				}
			}

			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("removing history file: %w", err)
			}
			fmt.Fprintf(out, "Removed %s\n", dbPath)
		}

		database, err := db.OpenAndMigrate(dbPath)
		if err != nil {
			return fmt.Errorf("creating database: %w", err)
		}
		defer db.Close(database)

		version, err := db.GetMigrationVersion(database)
		if err != nil {
			return fmt.Errorf("getting migration version: %w", err)
		}

		fmt.Fprintf(out, "Started empty history at schema version %d\n", version)
		return nil
	},
}

func init() {
	dbResetCmd.Flags().BoolVar(&forceReset, "force", false, "Reset without asking")

	dbCmd.AddCommand(dbMigrateCmd, dbStatusCmd, dbPathCmd, dbResetCmd)
}

// historyDBPath resolves the configured history file, creating its directory.
func historyDBPath() (string, error) {
	dbPath, err := db.ResolvePath(configuredDBPath())
	if err != nil {
		return "", fmt.Errorf("resolving history path: %w", err)
	}
	return dbPath, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// confirmReset tells the user how many runs a reset discards and reads a
// yes/no answer from in.
func confirmReset(out io.Writer, in io.Reader, dbPath string) (bool, error) {
	total := "all"
	if n, err := countRuns(dbPath); err == nil {
		total = fmt.Sprintf("%d", n)
	}

	fmt.Fprintf(out, "This discards %s recorded runs in %s\n", total, dbPath)
	fmt.Fprint(out, "Type 'yes' to reset the history: ")

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(answer), "yes"), nil
}

func countRuns(dbPath string) (int, error) {
	database, err := db.Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close(database)

	stats, err := store.New(database).Stats()
	if err != nil {
		return 0, err
	}
	return stats.Total, nil
}
