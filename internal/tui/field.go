package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kartoza/kartoza-pg-geom/internal/spatial"
)

// FieldState is the validity of the text in a geometry field
type FieldState int

const (
	FieldEmpty FieldState = iota
	FieldValid
	FieldInvalid
)

var fieldKeys = struct {
	Toggle key.Binding
	Decode key.Binding
}{
	Toggle: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "toggle wkt/sql")),
	Decode: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "use decoded wkt")),
}

// GeometryFieldModel is a single-line editor for a geometry parameter. It
// can hold bare WKT or a constructor call and switches between the two.
type GeometryFieldModel struct {
	input  textinput.Model
	rawSQL bool
	srid   int
	width  int
}

// NewGeometryFieldModel creates a focused field. The mode follows the
// initial text when there is one, otherwise rawSQL. srid is written into
// constructor calls when switching to SQL mode; 0 leaves it out.
func NewGeometryFieldModel(initial string, rawSQL bool, srid int) GeometryFieldModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 0
	ti.Width = 56
	ti.Focus()

	m := GeometryFieldModel{input: ti, rawSQL: rawSQL, srid: srid, width: 56}
	if strings.TrimSpace(initial) != "" {
		m.SetValue(initial)
	} else {
		m.syncPlaceholder()
	}
	return m
}

// SetValue replaces the text and re-detects the mode
func (m *GeometryFieldModel) SetValue(text string) {
	m.input.SetValue(text)
	m.rawSQL = spatial.DetectMode(text) == spatial.ModeSQLFunction
	m.syncPlaceholder()
}

func (m *GeometryFieldModel) syncPlaceholder() {
	m.input.Placeholder = spatial.GeometryPlaceholder(m.rawSQL)
}

// SetWidth sets the visible width of the input
func (m *GeometryFieldModel) SetWidth(w int) {
	m.width = w
	m.input.Width = w
}

// Value is the current text
func (m GeometryFieldModel) Value() string {
	return m.input.Value()
}

// RawSQL reports whether the field is in SQL function mode
func (m GeometryFieldModel) RawSQL() bool {
	return m.rawSQL
}

// Mode is the current mode
func (m GeometryFieldModel) Mode() spatial.WKTMode {
	if m.rawSQL {
		return spatial.ModeSQLFunction
	}
	return spatial.ModeWKT
}

// Toggle switches between WKT and SQL function mode, converting the text.
// The new mode follows the converted text, so a call with no WKT literal
// stays in SQL mode; an empty field just flips.
func (m *GeometryFieldModel) Toggle() {
	text := m.input.Value()
	if m.rawSQL {
		text = spatial.ToggleGeometryMode(text, false)
	} else if m.srid > 0 {
		srid := m.srid
		text = spatial.WrapWKTInFunction(text, &srid)
	} else {
		text = spatial.ToggleGeometryMode(text, true)
	}
	if strings.TrimSpace(text) == "" {
		m.rawSQL = !m.rawSQL
	} else {
		m.rawSQL = spatial.DetectMode(text) == spatial.ModeSQLFunction
	}
	m.input.SetValue(text)
	m.input.CursorEnd()
	m.syncPlaceholder()
}

// Decoded returns the WKT of a pasted WKB hex value, or "" when the text is
// not WKB or does not decode
func (m GeometryFieldModel) Decoded() string {
	text := strings.TrimSpace(m.input.Value())
	if !spatial.IsWKBHexString(text) {
		return ""
	}
	if wkt := spatial.FormatString(text); wkt != text {
		return wkt
	}
	return ""
}

// State reports whether the text is usable in the current mode. SQL mode
// accepts any constructor call, and checks the WKT literal when there is one.
func (m GeometryFieldModel) State() FieldState {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return FieldEmpty
	}
	if m.rawSQL {
		if !spatial.IsRawSQLFunction(text) {
			return FieldInvalid
		}
		if wkt, ok := spatial.ExtractWKTFromSQL(text); ok && !spatial.IsValidWKT(wkt) {
			return FieldInvalid
		}
		return FieldValid
	}
	if spatial.IsValidWKT(text) {
		return FieldValid
	}
	return FieldInvalid
}

// Update handles toggling and decoding and passes everything else to the input
func (m GeometryFieldModel) Update(msg tea.Msg) (GeometryFieldModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, fieldKeys.Toggle):
			m.Toggle()
			return m, nil
		case key.Matches(msg, fieldKeys.Decode):
			if wkt := m.Decoded(); wkt != "" {
				m.SetValue(wkt)
				m.input.CursorEnd()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the label, input box, helper text and validity line
func (m GeometryFieldModel) View() string {
	label := TitleStyle.Render("Geometry")
	modeTag := SQLStyle.Render("[" + m.Mode().String() + "]")

	box := focusedInputStyle.Width(m.width + 2).Render(m.input.View())

	var status string
	switch m.State() {
	case FieldValid:
		status = SuccessStyle.Render("✓ valid")
	case FieldInvalid:
		status = ErrorStyle.Render("✗ not a valid " + m.modeNoun())
	default:
		status = HintStyle.Render(" ")
	}

	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Center, label, " ", modeTag),
		box,
		HintStyle.Render(spatial.GeometryHelperText(m.rawSQL)),
		status,
	}
	if wkt := m.Decoded(); wkt != "" {
		lines = append(lines, LabelStyle.Render("decoded: ")+ValueStyle.Render(wkt))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m GeometryFieldModel) modeNoun() string {
	if m.rawSQL {
		return "constructor call"
	}
	return "WKT geometry"
}
