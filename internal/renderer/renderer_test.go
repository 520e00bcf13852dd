package renderer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dpshade/scrib-digital/internal/models"
	"github.com/dpshade/scrib-digital/internal/placeholder"
)

func demoTemplate() *models.Template {
	return &models.Template{
		ID:    "demo-1",
		Title: "Certificación de Firma (Modelo Base)",
		Body: "CERTIFICO que la firma que antecede ha sido puesta en mi presencia por {{NOMBRE COMPLETO}}, " +
			"DNI N° {{DNI}}, quien justifica identidad con {{TIPO DOCUMENTO}}.\n\n" +
			"En la ciudad de {{CIUDAD}}, a los {{DIA}} días del mes de {{MES}} del año {{AÑO}}.",
	}
}

func TestRenderTextFlagsMissing(t *testing.T) {
	r := NewRenderer(demoTemplate(), MarkerBrackets)
	record := placeholder.Record{
		"NOMBRE COMPLETO": "ANA PEREZ",
		"DNI":             "22.333.444",
		"TIPO DOCUMENTO":  "DNI",
		"CIUDAD":          "Mendoza",
	}

	got := r.RenderText(record)
	if !strings.Contains(got, "por ANA PEREZ, DNI N° 22.333.444") {
		t.Errorf("values not substituted:\n%s", got)
	}
	if !strings.Contains(got, "a los [DIA] días del mes de [MES] del año [AÑO]") {
		t.Errorf("missing values not flagged:\n%s", got)
	}
}

func TestRenderSectionsAndMissing(t *testing.T) {
	tmpl := &models.Template{
		ID:                "acta-08",
		ActBody:           "ACTA {{NUMERO}} - {{CLIENTE}}",
		CertificationBody: "CERTIFICO {{CLIENTE}} al folio {{FOLIO}}",
	}
	res := NewRenderer(tmpl, MarkerMarkdown).Render(placeholder.Record{"NUMERO": "12"})

	if len(res.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(res.Sections))
	}
	if res.Sections[0].Name != models.SectionAct || res.Sections[1].Name != models.SectionCertification {
		t.Errorf("unexpected section order %+v", res.Sections)
	}
	if res.Sections[0].Text != "ACTA 12 - **[CLIENTE]**" {
		t.Errorf("unexpected act text %q", res.Sections[0].Text)
	}
	if diff := cmp.Diff([]string{"CLIENTE", "FOLIO"}, res.Missing); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
	if res.Complete() {
		t.Error("result with missing values reported complete")
	}
	if res.Text() != "ACTA 12 - **[CLIENTE]**\n\nCERTIFICO **[CLIENTE]** al folio **[FOLIO]**" {
		t.Errorf("unexpected joined text %q", res.Text())
	}
}

func TestRenderJSON(t *testing.T) {
	r := NewRenderer(&models.Template{ID: "x", Body: "Hola {{NOMBRE}}"}, MarkerBrackets)
	out, err := r.RenderJSON(placeholder.Record{"NOMBRE": "Ana"})
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var res Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if res.TemplateID != "x" || res.Sections[0].Text != "Hola Ana" || len(res.Missing) != 0 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestRenderIsStateless(t *testing.T) {
	r := NewRenderer(demoTemplate(), MarkerBrackets)
	first := r.RenderText(placeholder.Record{"DIA": "14"})
	_ = r.RenderText(placeholder.Record{"DIA": "15", "MES": "marzo"})
	again := r.RenderText(placeholder.Record{"DIA": "14"})
	if first != again {
		t.Error("rendering the same record twice produced different output")
	}
}

func TestMarkerStyles(t *testing.T) {
	if ParseMarkerStyle("MARKDOWN") != MarkerMarkdown || ParseMarkerStyle("???") != MarkerBrackets {
		t.Error("ParseMarkerStyle mapped names incorrectly")
	}
	if Marker(MarkerBlank)("DNI") != "" {
		t.Error("blank marker should render nothing")
	}
	if !strings.Contains(Marker(MarkerTerminal)("DNI"), "[DNI]") {
		t.Error("terminal marker should keep the bracketed name")
	}
}

func TestPretty(t *testing.T) {
	out, err := Pretty("**COMPARECE**: ANA", 60)
	if err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	if !strings.Contains(out, "COMPARECE") {
		t.Errorf("pretty output lost text: %q", out)
	}
}
