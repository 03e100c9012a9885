package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/kartoza/kartoza-pg-geom/internal/postgres"
	"github.com/kartoza/kartoza-pg-geom/internal/spatial"
)

const updateTimeout = 30 * time.Second

// CellTarget is the database cell a committed value is written to
type CellTarget struct {
	DB       postgres.Execer
	Table    string // quoted, see postgres.QualifiedName
	Key      string
	KeyValue string
	Column   string
	Label    string // shown in the header, e.g. public.roads.geom
}

// EditorOptions configures RunEditor
type EditorOptions struct {
	Initial string
	RawSQL  bool
	SRID    int
	Service string
	Target  *CellTarget
	Log     zerolog.Logger
}

// EditorResult is what the user committed
type EditorResult struct {
	Value        *string // nil when the field was committed empty (SQL NULL)
	Mode         spatial.WKTMode
	Committed    bool
	RowsAffected int64
}

var editorKeys = struct {
	Commit key.Binding
	Cancel key.Binding
	Quit   key.Binding
}{
	Commit: key.NewBinding(key.WithKeys("enter", "ctrl+s"), key.WithHelp("enter", "commit")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

// cellUpdatedMsg reports the outcome of writing to the target cell
type cellUpdatedMsg struct {
	rows int64
	err  error
}

// EditorModel is the full-screen geometry editor
type EditorModel struct {
	width  int
	height int
	field  GeometryFieldModel
	opts   EditorOptions
	saving bool
	error  string
	result EditorResult
}

// NewEditorModel creates the editor
func NewEditorModel(opts EditorOptions) *EditorModel {
	return &EditorModel{
		field: NewGeometryFieldModel(opts.Initial, opts.RawSQL, opts.SRID),
		opts:  opts,
	}
}

// Result is the outcome once the program has exited
func (m *EditorModel) Result() EditorResult {
	return m.result
}

// Init starts the cursor blinking
func (m *EditorModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the editor
func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.field.SetWidth(min(max(msg.Width-12, 20), 96))
		return m, nil

	case cellUpdatedMsg:
		m.saving = false
		if msg.err != nil {
			m.opts.Log.Error().Err(msg.err).Str("column", m.opts.Target.Column).Msg("cell update failed")
			m.error = msg.err.Error()
			return m, nil
		}
		m.result.RowsAffected = msg.rows
		m.result.Committed = true
		return m, tea.Quit

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}
		switch {
		case key.Matches(msg, editorKeys.Quit), key.Matches(msg, editorKeys.Cancel):
			return m, tea.Quit
		case key.Matches(msg, editorKeys.Commit):
			return m, m.commit()
		}
		m.error = ""
	}

	var cmd tea.Cmd
	m.field, cmd = m.field.Update(msg)
	return m, cmd
}

func (m *EditorModel) commit() tea.Cmd {
	if m.field.State() == FieldInvalid {
		m.error = "fix the geometry before committing"
		return nil
	}

	var value *string
	if text := strings.TrimSpace(m.field.Value()); text != "" {
		value = &text
	}
	m.result.Value = value
	m.result.Mode = m.field.Mode()

	if m.opts.Target == nil {
		m.result.Committed = true
		return tea.Quit
	}

	m.saving = true
	target := *m.opts.Target
	log := m.opts.Log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
		defer cancel()

		start := time.Now()
		rows, err := postgres.UpdateCell(ctx, target.DB, target.Table, target.Key, target.KeyValue, target.Column, value)
		log.Debug().Dur("took", time.Since(start)).Int64("rows", rows).Msg("cell updated")
		return cellUpdatedMsg{rows: rows, err: err}
	}
}

// View renders the editor
func (m *EditorModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	status := HeaderStatus{
		Service: m.opts.Service,
		Mode:    m.field.Mode().String(),
		SRID:    m.opts.SRID,
	}
	if m.opts.Target != nil {
		status.Target = m.opts.Target.Label
	}
	header := RenderHeader("Edit Geometry", status)

	sections := []string{m.field.View()}
	if m.saving {
		sections = append(sections, "", HintStyle.Render("Saving..."))
	}
	if m.error != "" {
		errorBox := BoxStyle.Copy().BorderForeground(ColorRed).Padding(0, 1)
		sections = append(sections, "", errorBox.Render(ErrorStyle.Render("Error: "+m.error)))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	help := fmt.Sprintf("%s: commit • %s • %s • esc: cancel",
		editorKeys.Commit.Help().Key,
		fieldKeys.Toggle.Help().Key+": "+fieldKeys.Toggle.Help().Desc,
		fieldKeys.Decode.Help().Key+": "+fieldKeys.Decode.Help().Desc,
	)
	footer := RenderHelpFooter(help, m.width)

	return LayoutWithHeaderFooter(header, content, footer, m.width, m.height)
}

// RunEditor runs the editor full screen until the user commits or cancels
func RunEditor(opts EditorOptions) (EditorResult, error) {
	m := NewEditorModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return EditorResult{}, err
	}
	return m.Result(), nil
}
