package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"recast/internal/probe"
	"recast/internal/tui"
	"recast/pkg/imgutil"
)

var probeRecursive bool

var probeCmd = &cobra.Command{
	Use:   "probe <path>...",
	Short: "Describe images without converting them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var paths []string
		for _, arg := range args {
			info, err := os.Stat(arg)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				paths = append(paths, arg)
				continue
			}
			found, err := expandDir(arg, probeRecursive)
			if err != nil {
				return err
			}
			paths = append(paths, found...)
		}

		out := cmd.OutOrStdout()
		for i, path := range paths {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s\n", probeFileStyle.Render(path))

			info, err := probe.File(path)
			if err != nil {
				fmt.Fprintf(out, "  %s %s\n", probeBulletStyle.Render("-"), probeErrStyle.Render(err.Error()))
				continue
			}
			if info.Kind == imgutil.KindUnknown {
				fmt.Fprintf(out, "  %s %s\n", probeBulletStyle.Render("-"), probeDimStyle.Render("not a recognized image"))
				continue
			}

			fmt.Fprintf(out, "  %s %s\n", probeBulletStyle.Render("-"),
				probeValueStyle.Render(fmt.Sprintf("%s %dx%d %s", info.Kind, info.Width, info.Height, info.Mode)))

			for _, f := range info.Frames {
				payload := "bmp"
				if f.PNG {
					payload = "png"
				}
				fmt.Fprintf(out, "    %s %s\n", probeBulletStyle.Render("-"),
					probeValueStyle.Render(fmt.Sprintf("frame %dx%d %s %d bytes", f.Width, f.Height, payload, f.Size)))
			}

			if len(info.Details) == 0 {
				fmt.Fprintf(out, "  %s %s\n", probeBulletStyle.Render("-"), probeDimStyle.Render("no metadata"))
				continue
			}
			for _, detail := range info.Details {
				fmt.Fprintf(out, "  %s\n", probeCategoryStyle.Render(detail.Category+":"))
				for _, value := range detail.Values {
					fmt.Fprintf(out, "    %s %s\n", probeBulletStyle.Render("-"), probeValueStyle.Render(value))
				}
			}
		}
		return nil
	},
}

var (
	probeFileStyle     = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	probeCategoryStyle = lipgloss.NewStyle().Foreground(tui.ColorAccentAlt)
	probeValueStyle    = lipgloss.NewStyle().Foreground(tui.ColorInk)
	probeDimStyle      = lipgloss.NewStyle().Foreground(tui.ColorDim)
	probeBulletStyle   = lipgloss.NewStyle().Foreground(tui.ColorDim)
	probeErrStyle      = lipgloss.NewStyle().Foreground(tui.ColorWarn)
)

func init() {
	probeCmd.Flags().BoolVarP(&probeRecursive, "recursive", "R", false, "descend into subdirectories")
	rootCmd.AddCommand(probeCmd)
}
