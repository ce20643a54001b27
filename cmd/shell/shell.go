// Package shell provides the "sheetkit shell" interactive REPL command.
package shell

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/config"
	shellpkg "github.com/klytics/sheetkit/internal/shell"
	"github.com/klytics/sheetkit/internal/workbook"
)

// NewCommand creates the "shell" command.
func NewCommand() *cobra.Command {
	var (
		evalCmds    []string
		noOverwrite bool
	)

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Author a workbook interactively",
		Long: `Start an interactive REPL that records cells and rows one command at a
time and builds the workbook when asked. Tab completion works for all commands.

Example session:
  sheetkit> name Data
  sheetkit> header Name Age
  sheetkit> newline
  sheetkit> row Alice 30
  sheetkit> build people.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Current()
			if err != nil {
				return err
			}

			policy := cfg.OverwritePolicy()
			if noOverwrite {
				policy = workbook.FailIfExists
			}
			session := shellpkg.NewSession(policy, cfg.Style.Header)

			if len(evalCmds) > 0 {
				for _, line := range evalCmds {
					out, err := session.Eval(line)
					if err != nil {
						return err
					}
					if out != "" {
						fmt.Fprintln(cmd.OutOrStdout(), out)
					}
				}
				return nil
			}
			return session.Run(cmd.Context())
		},
	}

	cmd.Flags().StringArrayVar(&evalCmds, "eval", nil, "Run a command and exit (repeatable)")
	cmd.Flags().BoolVar(&noOverwrite, "no-overwrite", false, "Fail builds if the output file already exists")
	return cmd
}
