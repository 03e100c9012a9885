package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kartoza/kartoza-pg-geom/internal/postgres"
)

func TestServiceEditorDefaults(t *testing.T) {
	m := NewServiceEditorModel(nil)
	entry := m.Entry()
	if entry.Port != "5432" || entry.SSLMode != "prefer" {
		t.Errorf("unexpected defaults %+v", entry)
	}
}

func TestServiceEditorRequiresName(t *testing.T) {
	m := NewServiceEditorModel(nil)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.error != "Service name is required" {
		t.Errorf("unexpected error %q", m.error)
	}
	if m.Saved() != nil {
		t.Error("expected nothing saved")
	}
}

func TestServiceEditorFocusWraps(t *testing.T) {
	m := NewServiceEditorModel(nil)
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focusedInput != fieldSSLMode {
		t.Errorf("expected focus to wrap to the last field, got %d", m.focusedInput)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focusedInput != fieldName {
		t.Errorf("expected focus to wrap to the first field, got %d", m.focusedInput)
	}
}

func TestServiceEditorSaveAndRename(t *testing.T) {
	t.Setenv("PGSERVICEFILE", filepath.Join(t.TempDir(), "pg_service.conf"))

	if err := postgres.SaveServiceEntry(postgres.ServiceEntry{Name: "old", Host: "db", Options: map[string]string{"connect_timeout": "5"}}); err != nil {
		t.Fatalf("SaveServiceEntry failed: %v", err)
	}

	m := NewServiceEditorModel(&postgres.ServiceEntry{Name: "old", Host: "db", Options: map[string]string{"connect_timeout": "5"}})
	m.inputs[fieldName].SetValue("new")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	if m.Saved() == nil {
		t.Fatalf("expected entry to be saved, error %q", m.error)
	}

	services, err := postgres.ParsePGServiceFile()
	if err != nil {
		t.Fatalf("ParsePGServiceFile failed: %v", err)
	}
	if len(services) != 1 || services[0].Name != "new" {
		t.Fatalf("expected only the renamed service, got %+v", services)
	}
	if services[0].Options["connect_timeout"] != "5" {
		t.Error("expected extra options to be kept")
	}
}
