// Package build provides the "sheetkit build" command.
package build

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/config"
	"github.com/klytics/sheetkit/internal/definition"
	"github.com/klytics/sheetkit/internal/output"
	"github.com/klytics/sheetkit/internal/workbook"
)

// Options are the per-invocation overrides of a build.
type Options struct {
	Output      string
	NoOverwrite bool
}

// NewCommand returns the build command.
func NewCommand() *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:   "build <definition.yaml>",
		Short: "Build a workbook from a YAML or JSON definition",
		Long: `Reads a workbook definition and writes it out as an .xlsx file.

Definition format:
  output: people.xlsx
  overwrite: true
  sheets:
    - name: Data
      headers: [Name, Age]
      rows:
        - [Alice, 30]

Use - to read the definition from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Current()
			if err != nil {
				return err
			}

			m, err := Definition(args[0], opts, cfg)
			if err != nil {
				return err
			}

			if jsonFlag {
				return output.PrintJSON(cmd.OutOrStdout(), "build", m)
			}
			PrintManifest(cmd.OutOrStdout(), m)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output .xlsx file path (default: the definition's output)")
	cmd.Flags().BoolVar(&opts.NoOverwrite, "no-overwrite", false, "Fail if the output file already exists")

	return cmd
}

// Definition loads the definition at path and builds it. The output path is
// taken from opts, then the definition, then the definition's file name.
func Definition(path string, opts Options, cfg *config.Config) (*workbook.Manifest, error) {
	def, err := load(path)
	if err != nil {
		return nil, err
	}

	b := workbook.NewBuilder().
		WithOverwritePolicy(cfg.OverwritePolicy()).
		WithHeaderStyle(cfg.Style.Header)
	def.Apply(b)

	out := opts.Output
	if out == "" {
		out = def.Output
	}
	if out == "" && path != "-" {
		out = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if out == "" {
		return nil, fmt.Errorf("%w — pass --output or set 'output' in the definition\n\nExample: sheetkit build --output data.xlsx -", workbook.ErrMissingPath)
	}
	if !strings.HasSuffix(strings.ToLower(out), ".xlsx") {
		out += ".xlsx"
	}
	b.WithPath(cfg.ResolveOutput(out))

	if opts.NoOverwrite {
		b.WithNonOverwriteFile()
	}

	return b.Build()
}

func load(path string) (*definition.Workbook, error) {
	if path != "-" {
		return definition.Load(path)
	}
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("could not read definition from stdin: %w", err)
	}
	return definition.Parse(raw)
}

// PrintManifest writes a human summary of a build.
func PrintManifest(w io.Writer, m *workbook.Manifest) {
	green := color.New(color.FgGreen)
	green.Fprintf(w, "Wrote %s", m.Path)
	fmt.Fprintf(w, " (%d sheets, %d rows)\n", len(m.Sheets), m.RowCount())
	for _, s := range m.Sheets {
		fmt.Fprintf(w, "  %d  %-20s %d rows, %d cells\n", s.ID, s.Name, s.Rows, s.Cells)
	}
}
