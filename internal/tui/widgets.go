package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Kartoza palette
var (
	ColorOrange   = lipgloss.Color("#DDA036") // Primary/Active
	ColorBlue     = lipgloss.Color("#569FC6") // Secondary/Links
	ColorGray     = lipgloss.Color("#9A9EA0") // Inactive/Subtle
	ColorWhite    = lipgloss.Color("#FFFFFF") // Text
	ColorDarkGray = lipgloss.Color("#3A3A3A") // Background
	ColorRed      = lipgloss.Color("#E95420") // Error
	ColorGreen    = lipgloss.Color("#4CAF50") // Success
	ColorCyan     = lipgloss.Color("#00BCD4") // SQL
)

// HeaderWidth is the standard width for the header
const HeaderWidth = 64

// HeaderStatus is what the header status line shows
type HeaderStatus struct {
	Service string // empty when not connected
	Target  string // table.column being edited, if any
	Mode    string
	SRID    int
}

// RenderHeader renders the application header:
//
//	Kartoza PG Geom - Page Title
//	Geometry values for PostgreSQL
//	────────────────────────────────────────────────────────────────
//	DB: myservice | Target: roads.geom | Mode: wkt | SRID: 4326
//	────────────────────────────────────────────────────────────────
func RenderHeader(pageTitle string, status HeaderStatus) string {
	centered := lipgloss.NewStyle().Align(lipgloss.Center).Width(HeaderWidth)

	title := centered.Copy().Bold(true).Foreground(ColorOrange).
		Render(fmt.Sprintf("Kartoza PG Geom - %s", pageTitle))
	motto := centered.Copy().Italic(true).Foreground(ColorGray).
		Render("Geometry values for PostgreSQL")
	divider := centered.Copy().Foreground(ColorGray).
		Render(strings.Repeat("─", HeaderWidth))

	db := lipgloss.NewStyle().Foreground(ColorGray).Render("Not connected")
	if status.Service != "" {
		db = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true).Render(status.Service)
	}
	target := "-"
	if status.Target != "" {
		target = status.Target
	}
	srid := "-"
	if status.SRID > 0 {
		srid = fmt.Sprintf("%d", status.SRID)
	}
	mode := lipgloss.NewStyle().Foreground(ColorCyan).Render(status.Mode)

	line := fmt.Sprintf("DB: %s | Target: %s | Mode: %s | SRID: %s", db, target, mode, srid)
	statusLine := centered.Copy().Foreground(ColorWhite).Render(line)

	return lipgloss.JoinVertical(lipgloss.Center, title, motto, divider, statusLine, divider)
}

// RenderHelpFooter renders the standard help footer at the bottom of the screen
func RenderHelpFooter(helpText string, width int) string {
	helpStyle := lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true)

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(helpStyle.Render(helpText))
}

// LayoutWithHeaderFooter places header at the top, content below it and the
// footer on the last line
func LayoutWithHeaderFooter(header, content, footer string, width, height int) string {
	header = lipgloss.PlaceHorizontal(width, lipgloss.Center, header)
	content = lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
	footer = lipgloss.PlaceHorizontal(width, lipgloss.Center, footer)

	contentHeight := height - lipgloss.Height(header) - lipgloss.Height(footer) - 2
	if contentHeight < 1 {
		contentHeight = 1
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		lipgloss.Place(width, contentHeight, lipgloss.Center, lipgloss.Top, content),
		footer,
	)
}

// Box style for content areas
var BoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorOrange).
	Padding(1, 2)

// Title style for section headings
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorOrange)

// Label style for form labels
var LabelStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// Value style for displaying values
var ValueStyle = lipgloss.NewStyle().
	Foreground(ColorWhite)

// Hint style for helper text
var HintStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// Error style for error messages
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Bold(true)

// Success style for success messages
var SuccessStyle = lipgloss.NewStyle().
	Foreground(ColorGreen).
	Bold(true)

// SQL style for SQL code
var SQLStyle = lipgloss.NewStyle().
	Foreground(ColorCyan)

var (
	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)

	focusedInputStyle = inputStyle.Copy().
				BorderForeground(ColorOrange)
)
