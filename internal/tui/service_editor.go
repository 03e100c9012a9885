package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kartoza/kartoza-pg-geom/internal/postgres"
)

// Field indices
const (
	fieldName = iota
	fieldHost
	fieldPort
	fieldDBName
	fieldUser
	fieldPassword
	fieldSSLMode
)

type serviceField struct {
	label       string
	placeholder string
	limit       int
	secret      bool
}

var serviceFields = []serviceField{
	fieldName:     {"Service Name:", "my-gis-db", 50, false},
	fieldHost:     {"Host:", "localhost", 100, false},
	fieldPort:     {"Port:", "5432", 10, false},
	fieldDBName:   {"Database:", "gis", 100, false},
	fieldUser:     {"User:", "postgres", 100, false},
	fieldPassword: {"Password:", "••••••••", 100, true},
	fieldSSLMode:  {"SSL Mode:", "prefer", 20, false},
}

// ServiceEditorModel edits one pg_service.conf entry
type ServiceEditorModel struct {
	width        int
	height       int
	inputs       []textinput.Model
	focusedInput int
	isNew        bool
	originalName string
	options      map[string]string
	error        string
	saved        *postgres.ServiceEntry
}

// NewServiceEditorModel creates an editor for entry, or for a new entry when nil
func NewServiceEditorModel(entry *postgres.ServiceEntry) *ServiceEditorModel {
	m := &ServiceEditorModel{
		inputs:  make([]textinput.Model, len(serviceFields)),
		isNew:   entry == nil,
		options: map[string]string{},
	}

	for i, f := range serviceFields {
		ti := textinput.New()
		ti.Placeholder = f.placeholder
		ti.CharLimit = f.limit
		ti.Width = 40
		ti.Prompt = ""
		if f.secret {
			ti.EchoMode = textinput.EchoPassword
		}
		m.inputs[i] = ti
	}

	if entry != nil {
		m.inputs[fieldName].SetValue(entry.Name)
		m.inputs[fieldHost].SetValue(entry.Host)
		m.inputs[fieldPort].SetValue(entry.Port)
		m.inputs[fieldDBName].SetValue(entry.DBName)
		m.inputs[fieldUser].SetValue(entry.User)
		m.inputs[fieldPassword].SetValue(entry.Password)
		m.inputs[fieldSSLMode].SetValue(entry.SSLMode)
		m.originalName = entry.Name
		for k, v := range entry.Options {
			m.options[k] = v
		}
	} else {
		m.inputs[fieldPort].SetValue("5432")
		m.inputs[fieldSSLMode].SetValue("prefer")
	}

	m.inputs[fieldName].Focus()
	return m
}

// Saved is the entry written to pg_service.conf, nil if the editor was cancelled
func (m *ServiceEditorModel) Saved() *postgres.ServiceEntry {
	return m.saved
}

// Init initializes the service editor
func (m *ServiceEditorModel) Init() tea.Cmd {
	return textinput.Blink
}

// Entry builds a service entry from the form
func (m *ServiceEditorModel) Entry() postgres.ServiceEntry {
	return postgres.ServiceEntry{
		Name:     m.inputs[fieldName].Value(),
		Host:     m.inputs[fieldHost].Value(),
		Port:     m.inputs[fieldPort].Value(),
		DBName:   m.inputs[fieldDBName].Value(),
		User:     m.inputs[fieldUser].Value(),
		Password: m.inputs[fieldPassword].Value(),
		SSLMode:  m.inputs[fieldSSLMode].Value(),
		Options:  m.options,
	}
}

// Update handles messages for the service editor
func (m *ServiceEditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("esc", "ctrl+c"))):
			return m, tea.Quit

		case key.Matches(msg, key.NewBinding(key.WithKeys("tab", "down"))):
			m.focus(m.focusedInput + 1)
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("shift+tab", "up"))):
			m.focus(m.focusedInput - 1)
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+s", "enter"))):
			return m, m.save()
		}

		m.error = ""
	}

	var cmd tea.Cmd
	m.inputs[m.focusedInput], cmd = m.inputs[m.focusedInput].Update(msg)
	return m, cmd
}

func (m *ServiceEditorModel) save() tea.Cmd {
	entry := m.Entry()
	switch {
	case entry.Name == "":
		m.error = "Service name is required"
		return nil
	case entry.Host == "":
		m.error = "Host is required"
		return nil
	}

	// A rename drops the old section
	if !m.isNew && m.originalName != entry.Name {
		if err := postgres.DeleteServiceEntry(m.originalName); err != nil {
			m.error = "Failed to rename: " + err.Error()
			return nil
		}
	}
	if err := postgres.SaveServiceEntry(entry); err != nil {
		m.error = "Failed to save: " + err.Error()
		return nil
	}

	m.saved = &entry
	return tea.Quit
}

func (m *ServiceEditorModel) focus(i int) {
	m.inputs[m.focusedInput].Blur()
	n := len(m.inputs)
	m.focusedInput = (i%n + n) % n
	m.inputs[m.focusedInput].Focus()
}

// View renders the service editor
func (m *ServiceEditorModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	title := "Edit Connection"
	if m.isNew {
		title = "New Connection"
	}
	header := RenderHeader(title, HeaderStatus{Service: m.originalName})
	footer := RenderHelpFooter("tab/↓: next • shift+tab/↑: prev • ctrl+s/enter: save • esc: cancel", m.width)

	return LayoutWithHeaderFooter(header, m.renderForm(), footer, m.width, m.height)
}

func (m *ServiceEditorModel) renderForm() string {
	var sections []string

	if m.error != "" {
		errorBox := BoxStyle.Copy().
			BorderForeground(ColorRed).
			Width(50).
			Align(lipgloss.Center)
		sections = append(sections, errorBox.Render(ErrorStyle.Render("Error: "+m.error)), "")
	}

	label := lipgloss.NewStyle().
		Foreground(ColorGray).
		Width(15).
		Align(lipgloss.Right).
		PaddingRight(1)
	focusedLabel := label.Copy().Foreground(ColorOrange).Bold(true)

	for i, f := range serviceFields {
		l, box := label, inputStyle
		if i == m.focusedInput {
			l, box = focusedLabel, focusedInputStyle
		}
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Center, l.Render(f.label), box.Render(m.inputs[i].View())))
	}

	sections = append(sections, "", HintStyle.Render("SSL modes: disable, allow, prefer, require, verify-ca, verify-full"))
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

// RunServiceEditor edits entry (nil for a new one) full screen and returns
// the saved entry, or nil when cancelled
func RunServiceEditor(entry *postgres.ServiceEntry) (*postgres.ServiceEntry, error) {
	m := NewServiceEditorModel(entry)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return nil, err
	}
	return m.Saved(), nil
}
