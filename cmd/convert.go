package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"recast/internal/processor"
	"recast/internal/tui"
)

var convertFlags conversionFlags

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <path>...",
	Short: "Convert images to another format",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, req, err := convertFlags.settings(cmd)
		if err != nil {
			return err
		}

		sources, skipped, err := collectSources(args, cfg.Recursive)
		if err != nil {
			return err
		}
		for _, s := range skipped {
			fmt.Fprintf(os.Stderr, "%s %s: %s\n", skipStyle.Render("skipped"), s.Path, s.Reason)
		}
		if len(sources) == 0 {
			return fmt.Errorf("no images to convert")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var batch processor.Batch
		if interactive() {
			batch, err = convertWithTUI(ctx, req, sources)
		} else {
			batch, err = convertPlain(ctx, req, sources, cmd.OutOrStdout())
		}
		if err != nil {
			return err
		}

		outPath := req.OutputDir
		if abs, absErr := filepath.Abs(outPath); absErr == nil {
			outPath = abs
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, tui.RenderSummary(tui.BatchRows(batch, outPath)))
		if failures := tui.RenderFailures(batch); failures != "" {
			fmt.Fprintln(out, failures)
		}
		if batch.Status == processor.BatchCancelled {
			fmt.Fprintf(out, "Cancelled after %d of %d files.\n", len(batch.Results), batch.Requested)
		}
		fmt.Fprintln(out, doneStyle.Render(batch.Summary()))
		return nil
	},
}

func convertWithTUI(ctx context.Context, req processor.Request, sources []string) (processor.Batch, error) {
	conv, err := processor.New(req)
	if err != nil {
		return processor.Batch{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan processor.Progress, 64)
	model := tui.NewModel(req.Target.Label(), len(sources), updates, cancel)
	program := tea.NewProgram(model)

	uiDone := make(chan struct{})
	go func() {
		_, _ = program.Run()
		close(uiDone)
	}()

	batch, err := conv.Run(ctx, sources, func(p processor.Progress) {
		updates <- p
	})

	close(updates)
	<-uiDone
	return batch, err
}

func convertPlain(ctx context.Context, req processor.Request, sources []string, w io.Writer) (processor.Batch, error) {
	logger := newLogger(os.Stderr)
	conv, err := processor.New(req, processor.WithLogger(logger))
	if err != nil {
		return processor.Batch{}, err
	}

	return conv.Run(ctx, sources, func(p processor.Progress) {
		status := okStyle.Render("ok")
		detail := p.Result.Output
		if !p.Result.OK {
			status = skipStyle.Render("failed")
			detail = p.Result.Reason()
		}
		fmt.Fprintf(w, "[%d/%d] %s %s %s\n", p.Index, p.Total, status, filepath.Base(p.Result.Source), detail)
	})
}

var (
	okStyle   = lipgloss.NewStyle().Foreground(tui.ColorSuccess)
	skipStyle = lipgloss.NewStyle().Foreground(tui.ColorWarn)
	doneStyle = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
)

func init() {
	convertFlags.register(convertCmd)
	convertCmd.Flags().BoolVarP(&convertFlags.recursive, "recursive", "R", false, "descend into subdirectories")

	rootCmd.AddCommand(convertCmd)
}
