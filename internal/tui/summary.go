package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"recast/internal/processor"
)

type SummaryRow struct {
	Label string
	Value string
}

// BatchRows is the standard table printed after a conversion batch.
func BatchRows(batch processor.Batch, outputDir string) []SummaryRow {
	return []SummaryRow{
		{Label: "Target format", Value: batch.Target.Label()},
		{Label: "Converted", Value: fmt.Sprintf("%d", batch.Converted())},
		{Label: "Failed", Value: fmt.Sprintf("%d", batch.Failed())},
		{Label: "Total", Value: fmt.Sprintf("%d", batch.Requested)},
		{Label: "Status", Value: batch.Status.String()},
		{Label: "Output directory", Value: outputDir},
	}
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

// RenderFailures lists each failed source with its reason, or "" when the
// batch had none.
func RenderFailures(batch processor.Batch) string {
	var lines []string
	for _, res := range batch.Results {
		if res.OK {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s %s %s",
			warnStyle.Render("!"),
			labelStyle.Render(filepath.Base(res.Source)),
			dimStyle.Render(res.Reason()),
		))
	}
	if len(lines) == 0 {
		return ""
	}
	return warnStyle.Render("Failures:") + "\n" + strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(ColorWarn)
)
