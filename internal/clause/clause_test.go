package clause

import (
	"strings"
	"testing"

	"github.com/dpshade/scrib-digital/internal/errors"
	"github.com/dpshade/scrib-digital/internal/grammar"
	"github.com/dpshade/scrib-digital/internal/models"
	"github.com/dpshade/scrib-digital/internal/placeholder"
)

var testOffice = models.Office{
	City:         "Mendoza",
	Jurisdiction: "Provincia de Mendoza",
	Notary:       "MARÍA LÓPEZ",
	NotaryTitle:  "Escribana Titular",
	Registry:     "número 45",
}

func twoParties() []models.Party {
	return []models.Party{
		{Name: "ANA PEREZ", IDNumber: "22.333.444", BirthDate: "1980-03-14", Gender: models.Feminine, Role: "VENDEDORA"},
		{Name: "JUAN GOMEZ", IDNumber: "30.111.222", BirthDate: "1985-07-02", Gender: models.Masculine, Role: "COMPRADOR"},
	}
}

func testContext(parties []models.Party) models.ClauseContext {
	return models.ClauseContext{
		Parties:         parties,
		ActNumber:       "125",
		Volume:          "7",
		Folio:           "31",
		FormNumber:      "08 N° 12345678",
		RegistrationTag: "AB123CD",
		Date:            "2025-03-14",
	}
}

func TestAppearanceActPlural(t *testing.T) {
	got, err := AppearanceAct(testContext(twoParties()), testOffice)
	if err != nil {
		t.Fatalf("AppearanceAct: %v", err)
	}

	wants := []string{
		"ACTA NÚMERO CIENTO VEINTICINCO (125)",
		"a los CATORCE días del mes de MARZO del año DOS MIL VEINTICINCO",
		"COMPARECEN: **ANA PEREZ**",
		"nacida el 14 de marzo de 1980",
		" y **JUAN GOMEZ**",
		"nacido el 2 de julio de 1985",
		"los comparecientes son mayores de edad, a quienes identifico",
		"sus documentos de identidad",
		"carácter de VENDEDORA y COMPRADOR, y requieren",
		"certificar sus firmas en el formulario número 08 N° 12345678",
		"dominio AB123CD",
		"Leída que les fue, los comparecientes así lo otorgan y firman ante mí",
		"ante mí, MARÍA LÓPEZ, Escribana Titular del Registro Notarial número 45",
	}
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("act missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "{{") {
		t.Errorf("act left placeholders:\n%s", got)
	}
}

func TestAppearanceActSingular(t *testing.T) {
	got, err := AppearanceAct(testContext(twoParties()[:1]), testOffice)
	if err != nil {
		t.Fatalf("AppearanceAct: %v", err)
	}

	wants := []string{
		"COMPARECE: **ANA PEREZ**",
		"la compareciente es mayor de edad, a quien identifico",
		"su documento de identidad",
		"certificar su firma",
		"Leída que le fue, la compareciente así lo otorga y firma ante mí",
	}
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("act missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "COMPARECEN") || strings.Contains(got, "mayores") {
		t.Errorf("single party act used plural forms:\n%s", got)
	}
}

func TestAppearanceActPluralOverride(t *testing.T) {
	ctx := testContext(twoParties()[1:])
	ctx.Plural = true

	got, err := AppearanceAct(ctx, testOffice)
	if err != nil {
		t.Fatalf("AppearanceAct: %v", err)
	}
	if !strings.Contains(got, "COMPARECEN:") || !strings.Contains(got, "mayores de edad") {
		t.Errorf("plural override ignored:\n%s", got)
	}
}

func TestSignatureCertification(t *testing.T) {
	got, err := SignatureCertification(testContext(twoParties()), testOffice)
	if err != nil {
		t.Fatalf("SignatureCertification: %v", err)
	}

	wants := []string{
		"CERTIFICO: Que las firmas que anteceden en el formulario número 08 N° 12345678",
		"han sido puestas en mi presencia por **ANA PEREZ**",
		"a quienes identifico",
		"en el carácter de VENDEDORA y COMPRADOR",
		"ACTA NÚMERO CIENTO VEINTICINCO (125), al FOLIO 31 del LIBRO 7",
		"En la ciudad de Mendoza, Provincia de Mendoza, a los CATORCE días del mes de MARZO del año DOS MIL VEINTICINCO.",
	}
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("certification missing %q:\n%s", want, got)
		}
	}

	single, err := SignatureCertification(testContext(twoParties()[:1]), testOffice)
	if err != nil {
		t.Fatalf("SignatureCertification: %v", err)
	}
	if !strings.Contains(single, "Que la firma que antecede") || !strings.Contains(single, "ha sido puesta") {
		t.Errorf("singular certification wrong:\n%s", single)
	}
}

func TestBuildWithoutPartiesFails(t *testing.T) {
	for _, kind := range Kinds() {
		_, err := Build(kind, testContext(nil), testOffice, Options{})
		if !errors.HasCode(err, errors.ErrCodeNoParties) {
			t.Errorf("%s: expected no-parties error, got %v", kind, err)
		}
	}
}

func TestBuildUnknownKind(t *testing.T) {
	_, err := Build(Kind("testamento"), testContext(twoParties()), testOffice, Options{})
	if !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestBuildWithEmptyFields(t *testing.T) {
	ctx := models.ClauseContext{Parties: []models.Party{{Name: "ANA"}}}

	got, err := Build(KindAct, ctx, models.Office{}, Options{})
	if err != nil {
		t.Fatalf("Build with empty fields: %v", err)
	}
	if !strings.HasPrefix(got, "ACTA NÚMERO  (). LIBRO . FOLIO .") {
		t.Errorf("empty fields should interpolate as blanks:\n%s", got)
	}
	if !strings.Contains(got, "a los ... días del mes de ... del año ...") {
		t.Errorf("unknown date should render ellipses:\n%s", got)
	}

	marked, err := Build(KindAct, ctx, models.Office{}, Options{Marker: placeholder.BracketMarker})
	if err != nil {
		t.Fatalf("Build with marker: %v", err)
	}
	if !strings.Contains(marked, "LIBRO [LIBRO]") {
		t.Errorf("marker should flag empty fields:\n%s", marked)
	}
}

func TestContextOfficeOverridesProfile(t *testing.T) {
	ctx := testContext(twoParties())
	ctx.Office = models.Office{City: "San Rafael"}

	record, err := Fields(ctx, testOffice, Options{})
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if record[FieldCity] != "San Rafael" || record[FieldNotary] != "MARÍA LÓPEZ" {
		t.Errorf("office merge wrong: city=%q notary=%q", record[FieldCity], record[FieldNotary])
	}
}

func TestFieldsEndOfMonth(t *testing.T) {
	tests := map[string]string{
		"2025-04-30": "TREINTA",
		"2025-03-31": "TREINTA Y UNO",
	}
	for date, want := range tests {
		ctx := testContext(twoParties())
		ctx.Date = date
		record, err := Fields(ctx, testOffice, Options{Emphasis: grammar.PlainText})
		if err != nil {
			t.Fatalf("Fields(%s): %v", date, err)
		}
		if got := record[FieldDay]; got != want {
			t.Errorf("day for %s = %q, want %q", date, got, want)
		}
	}
}

func TestFieldsForUserTemplates(t *testing.T) {
	record, err := Fields(testContext(twoParties()), testOffice, Options{Emphasis: grammar.PlainText})
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}

	body := "{{COMPARECE}}: {{NOMBRES}}, {{MAYOR DE EDAD}}. {{DIA}} de {{MES}} de {{AÑO}} ({{FECHA}})"
	got := placeholder.Render(body, record)
	want := "COMPARECEN: ANA PEREZ y JUAN GOMEZ, mayores de edad. CATORCE de MARZO de DOS MIL VEINTICINCO (14 de marzo de 2025)"
	if got != want {
		t.Errorf("unexpected render\n got: %s\nwant: %s", got, want)
	}
}

func TestSpelledDate(t *testing.T) {
	tests := map[string]string{
		"2025-03-01": "al PRIMER día del mes de MARZO del año DOS MIL VEINTICINCO",
		"2025-03-21": "a los VEINTIÚN días del mes de MARZO del año DOS MIL VEINTICINCO",
		"2025-03-31": "a los TREINTA Y UN días del mes de MARZO del año DOS MIL VEINTICINCO",
		"2150-12-10": "a los DIEZ días del mes de DICIEMBRE del año 2150",
	}
	for in, want := range tests {
		if got := SpelledDate(grammar.ParseDate(in)); got != want {
			t.Errorf("SpelledDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSpelledActNumber(t *testing.T) {
	ctx := models.ClauseContext{ActNumber: "1.021"}
	if got := spelledActNumber(ctx); got != "MIL VEINTIUNO" {
		t.Errorf("unexpected spelling %q", got)
	}
	ctx.ActNumberSpelled = "MIL VEINTIUNO BIS"
	if got := spelledActNumber(ctx); got != "MIL VEINTIUNO BIS" {
		t.Errorf("caller spelling should win, got %q", got)
	}
	if got := spelledActNumber(models.ClauseContext{ActNumber: "12-A"}); got != "" {
		t.Errorf("non numeric act should not be spelled, got %q", got)
	}
}

func TestParseKind(t *testing.T) {
	if k, ok := ParseKind("Banderita"); !ok || k != KindCertification {
		t.Errorf("banderita should map to certification")
	}
	if k, ok := ParseKind("acta"); !ok || k != KindAct {
		t.Errorf("acta should map to act")
	}
	if _, ok := ParseKind("poder"); ok {
		t.Errorf("unknown kind accepted")
	}
}
