package tui

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type fakeExecer struct {
	query string
	args  []interface{}
	err   error
}

func (f *fakeExecer) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.query = query
	f.args = args
	if f.err != nil {
		return nil, f.err
	}
	return fakeResult{}, nil
}

type fakeResult struct{}

func (fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (fakeResult) RowsAffected() (int64, error) { return 1, nil }

func press(m *EditorModel, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestEditorCommitWithoutTarget(t *testing.T) {
	m := NewEditorModel(EditorOptions{Initial: "POINT(1 2)", Log: zerolog.Nop()})

	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !isQuit(cmd) {
		t.Fatal("expected commit to quit")
	}

	res := m.Result()
	if !res.Committed || res.Value == nil || *res.Value != "POINT(1 2)" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestEditorRejectsInvalidValue(t *testing.T) {
	m := NewEditorModel(EditorOptions{Initial: "POINT(1", Log: zerolog.Nop()})

	if cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("expected no command for invalid value")
	}
	if m.error == "" {
		t.Error("expected an error message")
	}
	if m.Result().Committed {
		t.Error("expected nothing committed")
	}
}

func TestEditorEmptyCommitsNull(t *testing.T) {
	m := NewEditorModel(EditorOptions{Log: zerolog.Nop()})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if res := m.Result(); !res.Committed || res.Value != nil {
		t.Errorf("expected NULL commit, got %+v", res)
	}
}

func TestEditorCancel(t *testing.T) {
	m := NewEditorModel(EditorOptions{Initial: "POINT(1 2)", Log: zerolog.Nop()})
	if !isQuit(press(m, tea.KeyMsg{Type: tea.KeyEsc})) {
		t.Error("expected esc to quit")
	}
	if m.Result().Committed {
		t.Error("expected nothing committed on cancel")
	}
}

func TestEditorWritesTargetCell(t *testing.T) {
	db := &fakeExecer{}
	m := NewEditorModel(EditorOptions{
		Initial: "ST_GeomFromText('POINT(30 40)', 4326)",
		Target:  &CellTarget{DB: db, Table: `"roads"`, Key: "id", KeyValue: "7", Column: "geom"},
		Log:     zerolog.Nop(),
	})

	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected update command")
	}
	if !m.saving {
		t.Error("expected editor to be saving")
	}

	msg := cmd()
	if _, cmd = m.Update(msg); !isQuit(cmd) {
		t.Fatal("expected quit after successful update")
	}

	if db.query != `UPDATE "roads" SET "geom" = ST_GeomFromText('POINT(30 40)', 4326) WHERE "id" = $1` {
		t.Errorf("unexpected query %q", db.query)
	}
	if res := m.Result(); !res.Committed || res.RowsAffected != 1 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestEditorShowsUpdateError(t *testing.T) {
	db := &fakeExecer{err: errors.New("permission denied")}
	m := NewEditorModel(EditorOptions{
		Initial: "POINT(1 2)",
		Target:  &CellTarget{DB: db, Table: `"roads"`, Key: "id", KeyValue: "7", Column: "geom"},
		Log:     zerolog.Nop(),
	})

	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if _, next := m.Update(cmd()); next != nil {
		t.Error("expected editor to stay open on failure")
	}
	if !strings.Contains(m.error, "permission denied") {
		t.Errorf("expected driver error to be shown, got %q", m.error)
	}
	if m.Result().Committed {
		t.Error("expected nothing committed")
	}
}

func TestEditorView(t *testing.T) {
	m := NewEditorModel(EditorOptions{Initial: "POINT(1 2)", Service: "gis", SRID: 4326, Log: zerolog.Nop()})
	if m.View() != "" {
		t.Error("expected empty view before the window size is known")
	}

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	for _, want := range []string{"Edit Geometry", "gis", "4326", "ctrl+t"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}
