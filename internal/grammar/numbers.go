// Package grammar composes Spanish legal prose: spelled numbers and dates,
// gender and number agreement, and the enumeration of the parties that
// appear in a notarial document.
//
// Every function is pure. Out-of-range or malformed input never fails; it
// degrades to the numeral, the unchanged word, or an ellipsis so that a
// document still being drafted can always be previewed.
package grammar

import (
	"strconv"
	"strings"
)

var smallCardinals = [...]string{
	"CERO", "UNO", "DOS", "TRES", "CUATRO", "CINCO", "SEIS", "SIETE", "OCHO", "NUEVE",
	"DIEZ", "ONCE", "DOCE", "TRECE", "CATORCE", "QUINCE", "DIECISÉIS", "DIECISIETE", "DIECIOCHO", "DIECINUEVE",
	"VEINTE", "VEINTIUNO", "VEINTIDÓS", "VEINTITRÉS", "VEINTICUATRO", "VEINTICINCO", "VEINTISÉIS", "VEINTISIETE", "VEINTIOCHO", "VEINTINUEVE",
}

var tens = [...]string{
	3: "TREINTA", 4: "CUARENTA", 5: "CINCUENTA", 6: "SESENTA", 7: "SETENTA", 8: "OCHENTA", 9: "NOVENTA",
}

var hundreds = [...]string{
	1: "CIENTO", 2: "DOSCIENTOS", 3: "TRESCIENTOS", 4: "CUATROCIENTOS", 5: "QUINIENTOS",
	6: "SEISCIENTOS", 7: "SETECIENTOS", 8: "OCHOCIENTOS", 9: "NOVECIENTOS",
}

// Covered ranges
const (
	MaxDay      = 31
	MinYear     = 1900
	MaxYear     = 2099
	MaxCardinal = 999999
)

// SpellDay spells a day-of-month (0..31). Other values fall back to the numeral.
func SpellDay(n int) string {
	if n < 0 || n > MaxDay {
		return strconv.Itoa(n)
	}
	return SpellCardinal(n)
}

// SpellYear spells a year between MinYear and MaxYear, e.g. "DOS MIL VEINTICINCO".
// Other values fall back to the numeral.
func SpellYear(year int) string {
	if year < MinYear || year > MaxYear {
		return strconv.Itoa(year)
	}
	return SpellCardinal(year)
}

// SpellCardinal spells 0..MaxCardinal as an uppercase Spanish cardinal.
// Other values fall back to the numeral.
func SpellCardinal(n int) string {
	if n < 0 || n > MaxCardinal {
		return strconv.Itoa(n)
	}
	if n == 0 {
		return smallCardinals[0]
	}

	var parts []string
	if thousands := n / 1000; thousands > 0 {
		if thousands > 1 {
			// "VEINTIÚN MIL", never "VEINTIUNO MIL"
			parts = append(parts, Apocope(spellBelowThousand(thousands)))
		}
		parts = append(parts, "MIL")
	}
	if rest := n % 1000; rest > 0 {
		parts = append(parts, spellBelowThousand(rest))
	}
	return strings.Join(parts, " ")
}

// spellBelowThousand spells 1..999
func spellBelowThousand(n int) string {
	if n == 100 {
		return "CIEN"
	}

	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, hundreds[h])
	}

	rest := n % 100
	switch {
	case rest == 0:
	case rest < len(smallCardinals):
		parts = append(parts, smallCardinals[rest])
	case rest%10 == 0:
		parts = append(parts, tens[rest/10])
	default:
		parts = append(parts, tens[rest/10]+" Y "+smallCardinals[rest%10])
	}
	return strings.Join(parts, " ")
}

// Apocope shortens a spelled number ending in "UNO" for use before a
// masculine noun: "VEINTIUNO" becomes "VEINTIÚN", "TREINTA Y UNO" becomes
// "TREINTA Y UN".
func Apocope(spelled string) string {
	switch {
	case strings.HasSuffix(spelled, "VEINTIUNO"):
		return strings.TrimSuffix(spelled, "VEINTIUNO") + "VEINTIÚN"
	case strings.HasSuffix(spelled, "UNO"):
		return strings.TrimSuffix(spelled, "O")
	default:
		return spelled
	}
}
