// Package report renders the end-of-run summary. Drop and skip counters are
// always part of the table so data loss is never silent.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// StageSummary is one stage's line in the run summary.
type StageSummary struct {
	Stage    string
	Cached   bool
	Rows     int
	Skipped  int
	Dropped  int
	Duration time.Duration
}

// RunSummary is the full pipeline outcome.
type RunSummary struct {
	RunID    string
	CacheDir string
	Stages   []StageSummary
	Duration time.Duration
}

func statusLabel(cached bool) string {
	if cached {
		return "cached"
	}
	return "built"
}

// Render writes the summary to w, as a styled table on a terminal and plain
// aligned text everywhere else.
func Render(w io.Writer, summary RunSummary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		tw.SetStyle(table.StyleRounded)
	} else {
		style := table.StyleDefault
		style.Options.DrawBorder = false
		style.Options.SeparateColumns = true
		style.Options.SeparateHeader = true
		tw.SetStyle(style)
	}

	tw.AppendHeader(table.Row{"stage", "status", "rows", "skipped", "dropped", "time"})
	for _, stage := range summary.Stages {
		tw.AppendRow(table.Row{
			stage.Stage,
			statusLabel(stage.Cached),
			strconv.Itoa(stage.Rows),
			strconv.Itoa(stage.Skipped),
			strconv.Itoa(stage.Dropped),
			stage.Duration.Round(time.Millisecond).String(),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	tw.Render()

	fmt.Fprintf(w, "run %s finished in %s, artifacts in %s\n",
		summary.RunID, summary.Duration.Round(time.Millisecond), summary.CacheDir)
}

// RenderStages writes the cache status table for ledger entries.
func RenderStages(w io.Writer, rows [][]string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	style := table.StyleDefault
	style.Options.DrawBorder = false
	tw.SetStyle(style)
	tw.AppendHeader(table.Row{"stage", "run", "completed", "rows", "skipped", "dropped"})
	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}
	tw.Render()
}

// Oneline returns a compact textual summary used in log lines.
func Oneline(summary RunSummary) string {
	parts := make([]string, 0, len(summary.Stages))
	for _, stage := range summary.Stages {
		parts = append(parts, fmt.Sprintf("%s=%s", stage.Stage, statusLabel(stage.Cached)))
	}
	return strings.Join(parts, " ")
}
