// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pdiddy/scholar-select/internal/selector"
	"github.com/pdiddy/scholar-select/internal/store"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FAFD7"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C")).Italic(true)
)

const titleWidth = 60

// newTable returns a bordered table with the CLI's header and cell styles.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// renderSelections writes one table per researcher.
func renderSelections(w io.Writer, results []selector.BatchResult) {
	total := 0
	for _, r := range results {
		fmt.Fprintln(w, headingStyle.Render(r.Researcher))
		if len(r.Selections) == 0 {
			fmt.Fprintln(w, hintStyle.Render("  no papers in the recency window"))
			fmt.Fprintln(w)
			continue
		}

		t := newTable("#", "Title", "Year", "Cites", "Base", "Final")
		for i, s := range r.Selections {
			t.Row(
				strconv.Itoa(i+1),
				truncate(s.Paper.Title, titleWidth),
				strconv.Itoa(s.Paper.Year),
				strconv.Itoa(s.Paper.Citations),
				fmt.Sprintf("%.3f", s.Base),
				fmt.Sprintf("%.3f", s.Final),
			)
		}
		fmt.Fprintln(w, t.Render())
		fmt.Fprintln(w)
		total += len(r.Selections)
	}
	fmt.Fprintf(w, "%d papers selected for %d researchers\n", total, len(results))
}

// renderHistory writes stored selections as a table.
func renderHistory(w io.Writer, results []store.QueryResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	t := newTable("Run", "Researcher", "#", "Title", "Year", "Cites")
	for _, r := range results {
		t.Row(
			shortRun(r.RunID),
			r.Researcher,
			strconv.Itoa(r.Rank),
			truncate(r.Title, titleWidth),
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Citations),
		)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "\n%d results\n", len(results))
}

// renderRuns writes run summaries as a table.
func renderRuns(w io.Writer, runs []store.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	t := newTable("Run", "When", "Input", "Similarity", "Researchers", "Papers")
	for _, r := range runs {
		t.Row(
			shortRun(r.ID),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Input,
			r.Similarity,
			strconv.Itoa(r.Researchers),
			strconv.Itoa(r.Papers),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func shortRun(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
