package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)
)

// countStyle highlights non-zero problem counts
func countStyle(n int) lipgloss.Style {
	if n > 0 {
		return warnStyle
	}
	return successStyle
}

// PrintSummary renders the run totals and one line per document
func PrintSummary(w io.Writer, r RunReport) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", titleStyle.Render("Extraction summary"))
	fmt.Fprintf(&sb, "%s %d  %s %s  %s %s\n",
		dimStyle.Render("Documents:"), r.Totals.Documents,
		dimStyle.Render("Questions:"), successStyle.Render(fmt.Sprint(r.Totals.Exported)),
		dimStyle.Render("Failed:"), countStyle(r.Totals.FailedExports).Render(fmt.Sprint(r.Totals.FailedExports)),
	)
	fmt.Fprintf(&sb, "%s %s  %s %s  %s %s",
		dimStyle.Render("Invalid pages:"), countStyle(r.Totals.InvalidPages).Render(fmt.Sprint(r.Totals.InvalidPages)),
		dimStyle.Render("Unreadable pages:"), countStyle(r.Totals.SkippedPages).Render(fmt.Sprint(r.Totals.SkippedPages)),
		dimStyle.Render("Skipped files:"), countStyle(r.Totals.SkippedFiles).Render(fmt.Sprint(r.Totals.SkippedFiles)),
	)

	for _, d := range r.Documents {
		fmt.Fprintf(&sb, "\n  %s %s",
			d.Document,
			dimStyle.Render(fmt.Sprintf("pages=%d markers=%d intervals=%d failed=%d", d.Pages, d.Markers, d.Intervals, d.FailedExports)),
		)
	}

	if r.Snapshot != "" {
		fmt.Fprintf(&sb, "\n%s %s", dimStyle.Render("Snapshot:"), r.Snapshot)
	}

	fmt.Fprintln(w, boxStyle.Render(sb.String()))
}
