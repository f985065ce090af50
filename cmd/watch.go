package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"recast/internal/processor"
	"recast/internal/watcher"
)

var watchFlags conversionFlags

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <dir>",
	Short: "Convert every image dropped into a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, req, err := watchFlags.settings(cmd)
		if err != nil {
			return err
		}

		logger := newLogger(os.Stderr)
		conv, err := processor.New(req, processor.WithLogger(logger))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		w, err := watcher.New(args[0], conv,
			watcher.WithLogger(logger),
			watcher.OnBatch(func(b processor.Batch) {
				for _, res := range b.Results {
					if res.OK {
						fmt.Fprintf(out, "%s %s\n", okStyle.Render("converted"), res.Output)
					} else {
						fmt.Fprintf(out, "%s %s: %s\n", skipStyle.Render("failed"), res.Source, res.Reason())
					}
				}
			}),
		)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fmt.Fprintf(out, "Watching %s, writing %s files to %s (Ctrl+C to stop)\n", args[0], req.Target.Label(), req.OutputDir)
		return w.Run(ctx)
	},
}

func init() {
	watchFlags.register(watchCmd)
	rootCmd.AddCommand(watchCmd)
}
