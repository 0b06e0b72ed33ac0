// SPDX-FileCopyrightText: 2026 Logan Lindquist Land
// SPDX-License-Identifier: FSL-1.1-MIT

package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/llbbl/cicd-hello/internal/greeting"
	"github.com/llbbl/cicd-hello/internal/render"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [file|-]",
	Short: "Check captured output against the greeting",
	Long: `Check that output captured from an earlier pipeline step is exactly the greeting.

With no argument the greeting is rendered in memory and checked.
With a file argument that file is checked; use - to read from stdin.

  cicd-hello > out.txt && cicd-hello verify out.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := verifySource(cmd, args)
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), render.Status(false, source))
			return fmt.Errorf("verifying %s: %w", source, err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), render.Status(true, source))
		return nil
	},
}

// verifySource checks the input named by args and returns a label for it.
func verifySource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 {
		var buf bytes.Buffer
		if _, err := greeting.Write(&buf); err != nil {
			return "built-in greeting", err
		}
		return "built-in greeting", greeting.Verify(buf.Bytes())
	}

	if args[0] == "-" {
		return "stdin", greeting.VerifyReader(cmd.InOrStdin())
	}

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return path, err
	}
	defer f.Close()

	return path, greeting.VerifyReader(f)
}
