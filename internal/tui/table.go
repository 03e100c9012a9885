package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kartoza/kartoza-pg-geom/internal/postgres"
)

// TableOptions controls RenderTable
type TableOptions struct {
	MaxColWidth int // cells are cut to this many runes; 0 means 40
	MaxRows     int // 0 means all
}

// RenderTable draws a query result as an aligned text table. Spatial columns
// get the SQL colour so decoded WKT stands out.
func RenderTable(res *postgres.Result, opts TableOptions) string {
	if res == nil || len(res.Columns) == 0 {
		return ""
	}
	maxWidth := opts.MaxColWidth
	if maxWidth <= 0 {
		maxWidth = 40
	}

	widths := make([]int, len(res.Columns))
	for i, col := range res.Columns {
		widths[i] = lipgloss.Width(col)
	}
	for _, row := range res.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], maxWidth)
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorOrange)
	sepStyle := lipgloss.NewStyle().Foreground(ColorGray)
	rowStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	var lines []string

	cells := make([]string, len(res.Columns))
	for i, col := range res.Columns {
		cells[i] = headerStyle.Render(padOrTruncate(col, widths[i]))
	}
	lines = append(lines, strings.Join(cells, sepStyle.Render(" │ ")))

	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("─", w)
	}
	lines = append(lines, sepStyle.Render(strings.Join(seps, "─┼─")))

	shown := len(res.Rows)
	if opts.MaxRows > 0 && shown > opts.MaxRows {
		shown = opts.MaxRows
	}
	for _, row := range res.Rows[:shown] {
		cells := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = padOrTruncate(row[i], widths[i])
			}
			if res.IsSpatial(i) {
				cells[i] = SQLStyle.Render(cell)
			} else {
				cells[i] = rowStyle.Render(cell)
			}
		}
		lines = append(lines, strings.Join(cells, sepStyle.Render(" │ ")))
	}

	hidden := len(res.Rows) - shown
	switch {
	case hidden > 0:
		lines = append(lines, HintStyle.Render(fmt.Sprintf("... and %d more rows", hidden)))
	case res.Truncated:
		lines = append(lines, HintStyle.Render("... row limit reached"))
	}

	return strings.Join(lines, "\n")
}

// padOrTruncate fits s into width display cells
func padOrTruncate(s string, width int) string {
	w := lipgloss.Width(s)
	if w <= width {
		return s + strings.Repeat(" ", width-w)
	}
	if width < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		runes = runes[:width-1]
	}
	return string(runes) + "…"
}
