// Package watch provides the "sheetkit watch" command, which rebuilds
// workbooks whenever their definition files change.
package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/cmd/build"
	"github.com/klytics/sheetkit/internal/config"
	"github.com/klytics/sheetkit/internal/output"
	w "github.com/klytics/sheetkit/internal/watch"
)

// NewCommand creates the "watch" command.
func NewCommand() *cobra.Command {
	var (
		extensions []string
		recursive  bool
		debounce   int
		opts       build.Options
	)

	cmd := &cobra.Command{
		Use:   "watch <directory> [directory...]",
		Short: "Rebuild workbooks when their definitions change",
		Long: `Watch directories for new or modified workbook definitions and rebuild
each one as it changes. Output paths resolve the same way as 'sheetkit build'.

Example:
  sheetkit watch ./reports --recursive
  sheetkit watch ./defs --ext yaml --no-overwrite`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Current()
			if err != nil {
				return err
			}

			watcher, err := w.New(w.Config{
				Directories: args,
				Extensions:  extensions,
				Recursive:   recursive,
				Debounce:    debounce,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			watcher.Handler = func(path string) error {
				m, err := build.Definition(path, opts, cfg)
				if err != nil {
					fmt.Fprintf(os.Stderr, "[error] %s: %s\n", path, err)
					return err
				}
				if jsonFlag {
					return output.PrintJSON(out, "watch", m)
				}
				fmt.Fprintf(out, "[built] %s → ", path)
				build.PrintManifest(out, m)
				return nil
			}

			if !jsonFlag {
				fmt.Fprintf(out, "Watching %d directory(ies) for %s files\n",
					len(args), strings.Join(watcher.Config.Extensions, ", "))
				fmt.Fprintln(out, "Press Ctrl+C to stop")
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := watcher.Start(ctx); err != nil {
				return err
			}

			if !jsonFlag {
				st := watcher.GetStatus()
				fmt.Fprintf(out, "\nStopped after %d rebuild(s)\n", st.EventCount)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "Definition extensions to watch (default: .yaml,.yml,.json)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Watch directories recursively")
	cmd.Flags().IntVar(&debounce, "debounce", 500, "Debounce interval in milliseconds")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output path for every rebuild (default: each definition's output)")
	cmd.Flags().BoolVar(&opts.NoOverwrite, "no-overwrite", false, "Fail a rebuild if its output file already exists")

	return cmd
}
