package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dpshade/scrib-digital/internal/errors"
	"github.com/dpshade/scrib-digital/internal/placeholder"
)

const testCase = `id: perez
template: certificacion-de-firma-modelo-base
clause:
  parties:
    - name: ANA PEREZ
      id_number: 22.333.444
      gender: F
      role: VENDEDORA
    - name: JUAN GOMEZ
      id_number: 30.111.222
      gender: M
      role: COMPRADOR
  act_number: "125"
  volume: "7"
  folio: "31"
  form_number: "08 N° 12345678"
  registration_tag: AB123CD
  date: "2025-03-14"
values:
  NOMBRE COMPLETO: ANA PEREZ
  CIUDAD: Mendoza
`

// run executes one command line against dir and returns stdout and stderr
func run(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("SCRIB_MARKER", "")
	t.Setenv("SCRIB_LOG_LEVEL", "")

	var stdout, stderr bytes.Buffer
	root := (&CLI{}).RootCmd("test")
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--dir", dir}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func initLibrary(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, _, err := run(t, dir, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	return dir
}

func writeCase(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "cases", "perez.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write case: %v", err)
	}
	return path
}

func TestUninitializedLibrary(t *testing.T) {
	_, _, err := run(t, filepath.Join(t.TempDir(), "missing"), "list")
	if !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestInitAndList(t *testing.T) {
	dir := initLibrary(t)

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("expected config.yaml after init: %v", err)
	}

	out, _, err := run(t, dir, "list", "--format", "ids")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := strings.Fields(out)
	want := []string{"acta-y-certificacion-08", "certificacion-de-firma-modelo-base"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}

	if _, _, err := run(t, dir, "list", "--format", "yaml"); err == nil {
		t.Error("expected unknown format to fail")
	}
}

func TestRenderWithVars(t *testing.T) {
	dir := initLibrary(t)

	out, stderr, err := run(t, dir, "render", "certificacion-de-firma-modelo-base",
		"--var", "NOMBRE COMPLETO=ANA PEREZ", "--var", "CIUDAD=Mendoza")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "por ANA PEREZ, DNI N° [DNI]") {
		t.Errorf("unexpected render:\n%s", out)
	}
	if !strings.Contains(out, "En la ciudad de Mendoza") {
		t.Errorf("expected city in render:\n%s", out)
	}
	if !strings.Contains(stderr, "5 placeholder(s) without value") {
		t.Errorf("expected missing report on stderr, got %q", stderr)
	}

	_, _, err = run(t, dir, "render", "certificacion-de-firma-modelo-base", "--strict")
	if !errors.HasCode(err, errors.ErrCodeMissingField) {
		t.Errorf("expected --strict to fail with MISSING_FIELD, got %v", err)
	}

	if _, _, err := run(t, dir, "render", "certificacion-de-firma-modelo-base", "--var", "NOVALUE"); err == nil {
		t.Error("expected malformed --var to fail")
	}
	if _, _, err := run(t, dir, "render"); err == nil {
		t.Error("expected render without template or case to fail")
	}
}

func TestRenderMarkerStyles(t *testing.T) {
	dir := initLibrary(t)

	out, _, err := run(t, dir, "render", "certificacion-de-firma-modelo-base", "--marker", "blank")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "[") {
		t.Errorf("expected no markers with blank style:\n%s", out)
	}

	out, _, err = run(t, dir, "render", "certificacion-de-firma-modelo-base", "--marker", "markdown")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "**[DNI]**") {
		t.Errorf("expected markdown markers:\n%s", out)
	}
}

func TestRenderCase(t *testing.T) {
	dir := initLibrary(t)
	writeCase(t, dir, testCase)

	out, _, err := run(t, dir, "render", "--case", "perez", "--var", "DNI=22.333.444")
	if err != nil {
		t.Fatalf("render --case: %v", err)
	}
	if !strings.Contains(out, "por ANA PEREZ, DNI N° 22.333.444") {
		t.Errorf("expected case values in render:\n%s", out)
	}
	// DIA, MES and AÑO come from the clause date
	if !strings.Contains(out, "del año") || strings.Contains(out, "[MES]") {
		t.Errorf("expected computed date fields:\n%s", out)
	}

	out, _, err = run(t, dir, "render", "acta-y-certificacion-08", "--case", "perez", "--json")
	if err != nil {
		t.Fatalf("render --json: %v", err)
	}
	if !strings.Contains(out, `"sections"`) || !strings.Contains(out, "ACTA NÚMERO CIENTO VEINTICINCO") {
		t.Errorf("unexpected JSON render:\n%s", out)
	}
}

func TestClauseCommand(t *testing.T) {
	dir := initLibrary(t)
	casePath := writeCase(t, dir, testCase)

	out, _, err := run(t, dir, "clause", "act", "--case", casePath)
	if err != nil {
		t.Fatalf("clause act: %v", err)
	}
	for _, want := range []string{"ANA PEREZ", "JUAN GOMEZ", "COMPARECEN", "CATORCE"} {
		if !strings.Contains(out, want) {
			t.Errorf("act missing %q:\n%s", want, out)
		}
	}

	out, _, err = run(t, dir, "clause", "banderita", "--case", "perez")
	if err != nil {
		t.Fatalf("clause banderita: %v", err)
	}
	if !strings.HasPrefix(out, "CERTIFICO") {
		t.Errorf("unexpected certification:\n%s", out)
	}

	if _, _, err := run(t, dir, "clause", "testamento", "--case", "perez"); err == nil {
		t.Error("expected unknown clause kind to fail")
	}

	writeCase(t, dir, "id: perez\nclause:\n  act_number: \"1\"\n")
	_, _, err = run(t, dir, "clause", "act", "--case", "perez")
	if !errors.HasCode(err, errors.ErrCodeNoParties) {
		t.Errorf("expected NO_PARTIES, got %v", err)
	}
}

func TestTemplateLifecycle(t *testing.T) {
	dir := initLibrary(t)

	out, _, err := run(t, dir, "new", "--title", "Poder Especial", "--body", "Otorga {{APODERADO}} poder.")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !strings.Contains(out, "Created template: poder-especial") {
		t.Errorf("unexpected new output: %q", out)
	}

	if _, _, err := run(t, dir, "add-var", "poder-especial", "fecha", "de", "otorgamiento"); err != nil {
		t.Fatalf("add-var: %v", err)
	}

	out, _, err = run(t, dir, "vars", "poder-especial")
	if err != nil {
		t.Fatalf("vars: %v", err)
	}
	want := []string{"APODERADO", "FECHA DE OTORGAMIENTO"}
	if diff := cmp.Diff(want, strings.Split(strings.TrimSpace(out), "\n")); diff != "" {
		t.Errorf("vars mismatch (-want +got):\n%s", diff)
	}

	out, _, err = run(t, dir, "search", "poder")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.HasPrefix(out, "poder-especial") {
		t.Errorf("expected poder-especial first, got:\n%s", out)
	}

	if _, _, err := run(t, dir, "new", "--title", "Poder Especial"); !errors.HasCode(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("expected ALREADY_EXISTS, got %v", err)
	}

	if _, _, err := run(t, dir, "delete", "poder-especial"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := run(t, dir, "show", "poder-especial"); !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND after delete, got %v", err)
	}
}

func TestNewFromFile(t *testing.T) {
	dir := initLibrary(t)
	bodyPath := filepath.Join(t.TempDir(), "constancia.md")
	if err := os.WriteFile(bodyPath, []byte("Conste que {{NOMBRE}} compareció."), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := run(t, dir, "new", "--title", "Constancia", "--file", bodyPath); err != nil {
		t.Fatalf("new --file: %v", err)
	}
	out, _, err := run(t, dir, "show", "constancia", "--format", "json")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, `"NOMBRE"`) {
		t.Errorf("expected variable in JSON:\n%s", out)
	}
}

func TestValidateCommand(t *testing.T) {
	dir := initLibrary(t)
	writeCase(t, dir, testCase)

	out, _, err := run(t, dir, "validate", "--case", "perez")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "DNI") {
		t.Errorf("expected missing DNI warning:\n%s", out)
	}

	out, _, err = run(t, dir, "validate", "certificacion-de-firma-modelo-base", "--var", "EXTRA=1")
	if err != nil {
		t.Fatalf("validate vars: %v", err)
	}
	if !strings.Contains(out, "EXTRA") {
		t.Errorf("expected unused value warning:\n%s", out)
	}

	writeCase(t, dir, "id: perez\nclause:\n  act_number: \"1\"\n")
	if _, _, err := run(t, dir, "validate", "--case", "perez"); !errors.HasCode(err, errors.ErrCodeNoParties) {
		t.Errorf("expected NO_PARTIES, got %v", err)
	}
}

func TestCaseCommands(t *testing.T) {
	dir := initLibrary(t)

	out, _, err := run(t, dir, "case", "new", "lopez", "--template", "certificacion-de-firma-modelo-base")
	if err != nil {
		t.Fatalf("case new: %v", err)
	}
	if !strings.Contains(out, "Created case: lopez") {
		t.Errorf("unexpected output: %q", out)
	}

	out, _, err = run(t, dir, "case", "list")
	if err != nil {
		t.Fatalf("case list: %v", err)
	}
	if !strings.Contains(out, "lopez") {
		t.Errorf("expected lopez in list:\n%s", out)
	}

	writeCase(t, dir, testCase)
	out, _, err = run(t, dir, "case", "show", "perez")
	if err != nil {
		t.Fatalf("case show: %v", err)
	}
	if !strings.Contains(out, "computed:") || !strings.Contains(out, "COMPARECIENTES") {
		t.Errorf("expected computed fields:\n%s", out)
	}
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()

	out, _, err := run(t, dir, "config", "--path")
	if err != nil {
		t.Fatalf("config --path: %v", err)
	}
	if strings.TrimSpace(out) != filepath.Join(dir, "config.yaml") {
		t.Errorf("unexpected path %q", out)
	}

	out, _, err = run(t, dir, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out, "marker: brackets") {
		t.Errorf("expected default marker:\n%s", out)
	}
}

func TestParseVars(t *testing.T) {
	got, err := parseVars([]string{"NOMBRE COMPLETO=ANA = PEREZ", " DNI =1"})
	if err != nil {
		t.Fatalf("parseVars: %v", err)
	}
	want := placeholder.Record{"NOMBRE COMPLETO": "ANA = PEREZ", "DNI": "1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}

	if _, err := parseVars([]string{"=x"}); err == nil {
		t.Error("expected empty name to fail")
	}
}
