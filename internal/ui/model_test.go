package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/dpshade/scrib-digital/internal/config"
	"github.com/dpshade/scrib-digital/internal/models"
	"github.com/dpshade/scrib-digital/internal/placeholder"
	"github.com/dpshade/scrib-digital/internal/service"
	"github.com/dpshade/scrib-digital/internal/storage"
)

func newTestService(t *testing.T) *service.Service {
	t.Helper()
	store, err := storage.NewStorage(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	svc := service.NewService(store, config.DefaultConfig(), nil)
	if err := svc.InitLibrary(); err != nil {
		t.Fatalf("InitLibrary: %v", err)
	}
	return svc
}

func typeText(m tea.Model, text string) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestFillFormNavigation(t *testing.T) {
	form := NewFillForm([]string{"A", "B", "C"}, placeholder.Record{"B": " dos "})

	if form.Focused() != "A" {
		t.Fatalf("expected A focused, got %q", form.Focused())
	}

	form.Update(tea.KeyMsg{Type: tea.KeyTab})
	form.Update(tea.KeyMsg{Type: tea.KeyTab})
	if form.Focused() != "C" {
		t.Errorf("expected C after two tabs, got %q", form.Focused())
	}

	form.Update(tea.KeyMsg{Type: tea.KeyTab})
	if form.Focused() != "A" {
		t.Errorf("expected focus to wrap to A, got %q", form.Focused())
	}

	form.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if form.Focused() != "C" {
		t.Errorf("expected shift+tab to wrap to C, got %q", form.Focused())
	}

	_, changed := form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("tres")})
	if !changed {
		t.Error("expected typing to report a change")
	}

	want := placeholder.Record{"A": "", "B": "dos", "C": "tres"}
	if diff := cmp.Diff(want, form.Record()); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	if form.Missing() != 1 {
		t.Errorf("expected 1 missing value, got %d", form.Missing())
	}
}

func TestFillFormEmpty(t *testing.T) {
	form := NewFillForm(nil, nil)

	cmd, changed := form.Update(tea.KeyMsg{Type: tea.KeyTab})
	if cmd != nil || changed {
		t.Error("expected an empty form to ignore input")
	}
	if form.Focused() != "" {
		t.Errorf("expected no focused field, got %q", form.Focused())
	}
	if form.View() != "" {
		t.Errorf("expected empty view, got %q", form.View())
	}
}

func TestModelLivePreview(t *testing.T) {
	svc := newTestService(t)
	tmpl, err := svc.GetTemplate("certificacion-de-firma-modelo-base")
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}

	m, err := NewModel(svc, tmpl, nil)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if len(m.Result().Missing) != len(tmpl.Variables()) {
		t.Fatalf("expected every variable missing, got %v", m.Result().Missing)
	}

	var model tea.Model = *m
	model = typeText(model, "ANA PEREZ")
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	model = typeText(model, "22.333.444")

	got := model.(Model)
	if !strings.Contains(got.Result().Text(), "ANA PEREZ") {
		t.Errorf("expected preview to contain the typed name, got %q", got.Result().Text())
	}
	for _, name := range got.Result().Missing {
		if name == "NOMBRE COMPLETO" || name == "DNI" {
			t.Errorf("%s should no longer be missing", name)
		}
	}

	record := got.Record()
	if record["DNI"] != "22.333.444" {
		t.Errorf("expected DNI in record, got %q", record["DNI"])
	}

	view := got.View()
	if !strings.Contains(view, "missing") {
		t.Errorf("expected missing status in view, got %q", view)
	}
}

func TestModelPrefillsFromCase(t *testing.T) {
	svc := newTestService(t)
	tmpl, err := svc.GetTemplate("certificacion-de-firma-modelo-base")
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}

	cf := &models.CaseFile{
		ID:       "prefill",
		Template: tmpl.ID,
		Values:   map[string]string{"CIUDAD": "Mendoza"},
	}
	m, err := NewModel(svc, tmpl, cf)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if m.Record()["CIUDAD"] != "Mendoza" {
		t.Errorf("expected CIUDAD prefilled, got %q", m.Record()["CIUDAD"])
	}
}

func TestModelSaveCase(t *testing.T) {
	svc := newTestService(t)
	tmpl, err := svc.GetTemplate("certificacion-de-firma-modelo-base")
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}

	m, err := NewModel(svc, tmpl, nil)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	var model tea.Model = *m
	model = typeText(model, "ANA PEREZ")
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	got := model.(Model)
	if got.statusType != "success" {
		t.Fatalf("expected save to succeed, status %q", got.status)
	}

	saved, err := svc.LoadCase(got.caseFile.FilePath)
	if err != nil {
		t.Fatalf("LoadCase: %v", err)
	}
	if saved.Template != tmpl.ID {
		t.Errorf("expected template %q, got %q", tmpl.ID, saved.Template)
	}
	if saved.Values["NOMBRE COMPLETO"] != "ANA PEREZ" {
		t.Errorf("expected saved name, got %q", saved.Values["NOMBRE COMPLETO"])
	}
}

func TestModelQuit(t *testing.T) {
	svc := newTestService(t)
	tmpl, err := svc.GetTemplate("certificacion-de-firma-modelo-base")
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	m, err := NewModel(svc, tmpl, nil)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected esc to quit")
	}
}
