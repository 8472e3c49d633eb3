// Package report renders the end-of-run summary.
package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Ivanmugu/fasta-extractor/internal/batch"
)

var (
	okColor      = lipgloss.Color("#10B981")
	warnColor    = lipgloss.Color("#F59E0B")
	failColor    = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#9CA3AF")
	borderColor  = lipgloss.Color("#374151")
	primaryColor = lipgloss.Color("#7C3AED")

	headerStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	okStyle     = cellStyle.Foreground(okColor)
	warnStyle   = cellStyle.Foreground(warnColor)
	failStyle   = cellStyle.Foreground(failColor)
	totalsStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
)

// Status is the one-word outcome shown for a result.
func Status(r batch.Result) string {
	switch {
	case r.Err != nil:
		return "failed"
	case r.NoOp:
		return "no-op"
	case len(r.Warnings) > 0:
		return "warnings"
	}
	return "ok"
}

// Render returns a table of results followed by the totals line. dryRun
// changes the wording of the totals only.
func Render(results []batch.Result, s batch.Summary, dryRun bool) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		detail := ""
		if r.Err != nil {
			detail = r.Err.Error()
		} else if len(r.Warnings) > 0 {
			detail = strings.Join(r.Warnings, "; ")
		}
		rows = append(rows, []string{
			displayPath(r.Input),
			fmt.Sprintf("%d", len(r.Outputs)),
			Status(r),
			detail,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		Headers("INPUT", "RECORDS", "STATUS", "DETAIL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col != 2 || row < 0 || row >= len(rows) {
				return cellStyle
			}
			switch rows[row][2] {
			case "failed":
				return failStyle
			case "no-op", "warnings":
				return warnStyle
			}
			return okStyle
		})

	verb := "written"
	if dryRun {
		verb = "planned"
	}
	totals := totalsStyle.Render(fmt.Sprintf("%d inputs: %d succeeded, %d failed, %d no-op; %d records %s",
		s.Inputs, s.Succeeded, s.Failed, s.NoOp, s.Records, verb))
	if s.Warnings > 0 {
		totals += mutedStyle.Render(fmt.Sprintf(" (%d verification warnings)", s.Warnings))
	}
	return lipgloss.JoinVertical(lipgloss.Left, t.Render(), totals) + "\n"
}

// displayPath shortens an input to parent/name, which is what identifies a
// run directory.
func displayPath(p string) string {
	return filepath.Join(filepath.Base(filepath.Dir(p)), filepath.Base(p))
}
