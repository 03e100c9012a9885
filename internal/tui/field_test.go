package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kartoza/kartoza-pg-geom/internal/spatial"
)

func typeText(m GeometryFieldModel, text string) GeometryFieldModel {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestGeometryFieldPlaceholderFollowsMode(t *testing.T) {
	m := NewGeometryFieldModel("", false, 0)
	if m.input.Placeholder != "POINT(30 40)" {
		t.Errorf("expected WKT placeholder, got %q", m.input.Placeholder)
	}

	m = NewGeometryFieldModel("", true, 0)
	if m.input.Placeholder != spatial.GeometryPlaceholder(true) {
		t.Errorf("expected SQL placeholder, got %q", m.input.Placeholder)
	}
	if m.Mode() != spatial.ModeSQLFunction {
		t.Error("expected SQL mode")
	}
}

func TestGeometryFieldDetectsInitialMode(t *testing.T) {
	m := NewGeometryFieldModel("ST_GeomFromText('POINT(1 2)', 4326)", false, 0)
	if !m.RawSQL() {
		t.Error("expected constructor call to start in SQL mode")
	}

	m = NewGeometryFieldModel("POINT(1 2)", true, 0)
	if m.RawSQL() {
		t.Error("expected bare WKT to start in WKT mode")
	}
}

func TestGeometryFieldToggle(t *testing.T) {
	m := NewGeometryFieldModel("POINT(30 40)", false, 0)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.Value() != "ST_GeomFromText('POINT(30 40)')" {
		t.Errorf("expected wrapped value, got %q", m.Value())
	}
	if !m.RawSQL() {
		t.Error("expected SQL mode after toggle")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.Value() != "POINT(30 40)" {
		t.Errorf("expected unwrapped value, got %q", m.Value())
	}
	if m.RawSQL() {
		t.Error("expected WKT mode after second toggle")
	}
}

func TestGeometryFieldToggleWithSRID(t *testing.T) {
	m := NewGeometryFieldModel("POINT(30 40)", false, 4326)
	m.Toggle()
	if m.Value() != "ST_GeomFromText('POINT(30 40)', 4326)" {
		t.Errorf("expected SRID in constructor, got %q", m.Value())
	}
}

func TestGeometryFieldToggleEmpty(t *testing.T) {
	m := NewGeometryFieldModel("", false, 4326)
	m.Toggle()
	if m.Value() != "" {
		t.Errorf("expected empty value, got %q", m.Value())
	}
	if m.input.Placeholder != spatial.GeometryPlaceholder(true) {
		t.Errorf("expected placeholder to follow mode, got %q", m.input.Placeholder)
	}
}

func TestGeometryFieldToggleKeepsUnextractableCall(t *testing.T) {
	m := NewGeometryFieldModel("ST_MakePoint(1, 2)", false, 0)
	if !m.RawSQL() {
		t.Fatal("expected SQL mode for a constructor call")
	}

	m.Toggle()
	if m.Value() != "ST_MakePoint(1, 2)" {
		t.Errorf("expected text unchanged, got %q", m.Value())
	}
	if !m.RawSQL() {
		t.Error("expected to stay in SQL mode")
	}
	if m.State() != FieldValid {
		t.Errorf("expected valid state, got %v", m.State())
	}
}

func TestGeometryFieldState(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		rawSQL bool
		want   FieldState
	}{
		{"empty", "", false, FieldEmpty},
		{"valid wkt", "POINT(1 2)", false, FieldValid},
		{"wkt with z", "POINT(1 2 3)", false, FieldValid},
		{"broken wkt", "POINT(1 2", false, FieldInvalid},
		{"valid call", "ST_GeomFromText('POINT(1 2)', 4326)", true, FieldValid},
		{"call without wkt", "ST_MakePoint(1, 2)", true, FieldValid},
		{"call with bad wkt", "ST_GeomFromText('POINT(x)')", true, FieldInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewGeometryFieldModel(tt.text, tt.rawSQL, 0)
			if got := m.State(); got != tt.want {
				t.Errorf("expected state %d, got %d", tt.want, got)
			}
		})
	}
}

func TestGeometryFieldDecodesPastedHex(t *testing.T) {
	m := NewGeometryFieldModel("", false, 0)
	m = typeText(m, "0x0101000000000000000000F03F0000000000000040")

	if got := m.Decoded(); got != "POINT(1 2)" {
		t.Fatalf("expected decoded POINT(1 2), got %q", got)
	}
	if m.State() != FieldInvalid {
		t.Error("expected raw hex to be invalid WKT")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if m.Value() != "POINT(1 2)" {
		t.Errorf("expected decoded value in field, got %q", m.Value())
	}
	if m.State() != FieldValid {
		t.Error("expected decoded WKT to be valid")
	}
}

func TestGeometryFieldDecodedIgnoresText(t *testing.T) {
	for _, text := range []string{"POINT(1 2)", "0x00", "hello"} {
		m := NewGeometryFieldModel(text, false, 0)
		if got := m.Decoded(); got != "" {
			t.Errorf("%q: expected no decoded value, got %q", text, got)
		}
	}
}
