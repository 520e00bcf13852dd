// Package clause builds the two fixed legal clauses of a signature
// certification: the appearance act recorded in the requirements book, and
// the certification note ("banderita") attached to the signed form.
//
// Both skeletons are ordinary placeholder templates filled from Fields, so
// the same computed fragments are available to user-authored templates.
package clause

import (
	"strconv"
	"strings"

	"github.com/dpshade/scrib-digital/internal/errors"
	"github.com/dpshade/scrib-digital/internal/grammar"
	"github.com/dpshade/scrib-digital/internal/models"
	"github.com/dpshade/scrib-digital/internal/placeholder"
)

// Kind selects a clause skeleton
type Kind string

const (
	KindAct           Kind = "act"
	KindCertification Kind = "certification"
)

// Kinds lists the available skeletons
func Kinds() []Kind {
	return []Kind{KindAct, KindCertification}
}

// ParseKind accepts the kind names and their Spanish aliases
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "act", "acta":
		return KindAct, true
	case "certification", "certificacion", "certificación", "banderita":
		return KindCertification, true
	default:
		return "", false
	}
}

// Field names computed from a ClauseContext
const (
	FieldActNumber        = "NUMERO ACTA"
	FieldActNumberSpelled = "NUMERO ACTA LETRAS"
	FieldVolume           = "LIBRO"
	FieldFolio            = "FOLIO"
	FieldFormNumber       = "FORMULARIO"
	FieldRegistrationTag  = "DOMINIO"
	FieldCity             = "CIUDAD"
	FieldJurisdiction     = "JURISDICCION"
	FieldNotary           = "ESCRIBANO"
	FieldNotaryTitle      = "CARACTER ESCRIBANO"
	FieldRegistry         = "REGISTRO"
	FieldDate             = "FECHA"
	FieldDateSpelled      = "FECHA LETRAS"
	FieldDay              = "DIA"
	FieldMonth            = "MES"
	FieldYear             = "AÑO"
	FieldParties          = "COMPARECIENTES"
	FieldNames            = "NOMBRES"
	FieldRoles            = "CARACTER"
	FieldIdentification   = "IDENTIFICACION"
	FieldTheParty         = "EL COMPARECIENTE"
)

// agreementFields are clause words that branch on singular/plural. Each is
// exposed under its uppercase key, e.g. {{COMPARECE}}.
var agreementFields = []string{
	"comparece", "es", "ha", "requiere", "justifica", "otorga", "antecede",
	"interviene", "firma ante mí", "mayor de edad", "a quien", "quien", "su",
	"le", "firma", "la firma", "puesta", "documento", "compareciente",
}

// Options tune how a clause is rendered
type Options struct {
	// Marker renders interpolation points whose value is empty. Nil leaves
	// them blank.
	Marker placeholder.MarkerFunc
	// Emphasis wraps party names; nil means markdown bold
	Emphasis grammar.EmphasisFunc
}

func blankMarker(string) string { return "" }

// Fields computes every interpolation value of ctx. office supplies the
// boilerplate that ctx.Office leaves empty. It fails only when ctx has no
// parties.
func Fields(ctx models.ClauseContext, office models.Office, opts Options) (placeholder.Record, error) {
	comp, err := grammar.ComposeParties(ctx.Parties, grammar.ComposeOptions{
		ForcePlural: ctx.Plural,
		Emphasis:    opts.Emphasis,
	})
	if err != nil {
		return nil, err
	}

	emphasis := opts.Emphasis
	if emphasis == nil {
		emphasis = grammar.MarkdownBold
	}
	names := make([]string, len(ctx.Parties))
	for i, p := range ctx.Parties {
		names[i] = emphasis(strings.TrimSpace(p.Name))
	}

	off := ctx.Office.Merge(office)
	date := grammar.ParseDate(ctx.Date)

	record := placeholder.Record{
		FieldActNumber:        ctx.ActNumber,
		FieldActNumberSpelled: spelledActNumber(ctx),
		FieldVolume:           ctx.Volume,
		FieldFolio:            ctx.Folio,
		FieldFormNumber:       ctx.FormNumber,
		FieldRegistrationTag:  ctx.RegistrationTag,
		FieldCity:             off.City,
		FieldJurisdiction:     off.Jurisdiction,
		FieldNotary:           off.Notary,
		FieldNotaryTitle:      off.NotaryTitle,
		FieldRegistry:         off.Registry,
		FieldDate:             shortDate(date),
		FieldDateSpelled:      SpelledDate(date),
		FieldDay:              spelledDay(date),
		FieldMonth:            grammar.MonthName(date.Month),
		FieldYear:             spelledYear(date),
		FieldParties:          comp.Enumeration,
		FieldNames:            grammar.JoinList(names),
		FieldRoles:            comp.Roles,
		FieldIdentification:   identification(comp),
		FieldTheParty:         comp.Word("el") + " " + comp.Word("compareciente"),
	}
	for _, key := range agreementFields {
		record[strings.ToUpper(key)] = comp.Word(key)
	}
	// the appearance verb is written in capitals in every skeleton
	record["COMPARECE"] = comp.Word("COMPARECE")
	return record, nil
}

// Build renders the skeleton of kind for ctx
func Build(kind Kind, ctx models.ClauseContext, office models.Office, opts Options) (string, error) {
	skeleton, ok := skeletons[kind]
	if !ok {
		return "", errors.ValidationError("unknown clause kind").WithContext("kind", string(kind))
	}

	record, err := Fields(ctx, office, opts)
	if err != nil {
		return "", err
	}

	marker := opts.Marker
	if marker == nil {
		marker = blankMarker
	}
	return placeholder.Fill(skeleton, record).String(marker), nil
}

// AppearanceAct renders the act in which the parties appear and request the
// certification of their signatures
func AppearanceAct(ctx models.ClauseContext, office models.Office) (string, error) {
	return Build(KindAct, ctx, office, Options{})
}

// SignatureCertification renders the certification note for the signed form
func SignatureCertification(ctx models.ClauseContext, office models.Office) (string, error) {
	return Build(KindCertification, ctx, office, Options{})
}

// Skeleton returns the raw skeleton text of kind
func Skeleton(kind Kind) string {
	return skeletons[kind]
}

// SpelledDate renders the date as it is written in an act: "a los CATORCE
// días del mes de MARZO del año DOS MIL VEINTICINCO". Unknown parts are
// rendered as an ellipsis.
func SpelledDate(d grammar.Date) string {
	var day string
	switch {
	case d.Day == 1:
		day = "al PRIMER día"
	case d.Day > 0:
		day = "a los " + grammar.Apocope(grammar.SpellDay(d.Day)) + " días"
	default:
		day = "a los " + grammar.UnknownMarker + " días"
	}
	return day + " del mes de " + grammar.MonthName(d.Month) + " del año " + spelledYear(d)
}

func spelledDay(d grammar.Date) string {
	if d.Day == 0 {
		return grammar.UnknownMarker
	}
	return grammar.SpellDay(d.Day)
}

func spelledYear(d grammar.Date) string {
	if d.Year == 0 {
		return grammar.UnknownMarker
	}
	return grammar.SpellYear(d.Year)
}

func shortDate(d grammar.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Short()
}

// spelledActNumber prefers the caller's spelling and otherwise spells a
// numeric act number
func spelledActNumber(ctx models.ClauseContext) string {
	if s := strings.TrimSpace(ctx.ActNumberSpelled); s != "" {
		return s
	}
	digits := strings.ReplaceAll(strings.TrimSpace(ctx.ActNumber), ".", "")
	n, err := strconv.Atoi(digits)
	if err != nil {
		return ""
	}
	return grammar.SpellCardinal(n)
}

// identification is the identity boilerplate, singular or plural
func identification(c grammar.Composition) string {
	return "identifico en los términos del artículo 306, inciso a) del Código Civil y Comercial " +
		"de la Nación, por exhibición de " + c.Word("su") + " " + c.Word("documento") +
		" de identidad, de lo que doy fe"
}
