package grammar

import (
	"strconv"
	"strings"
)

// UnknownMarker stands in for a date part that has not been filled in yet
const UnknownMarker = "..."

var monthNames = [...]string{
	"ENERO", "FEBRERO", "MARZO", "ABRIL", "MAYO", "JUNIO",
	"JULIO", "AGOSTO", "SEPTIEMBRE", "OCTUBRE", "NOVIEMBRE", "DICIEMBRE",
}

// MonthName returns the uppercase month name for 1..12, UnknownMarker otherwise
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return UnknownMarker
	}
	return monthNames[month-1]
}

// MonthNameShort returns the lowercase month name for 1..12, UnknownMarker otherwise
func MonthNameShort(month int) string {
	if month < 1 || month > 12 {
		return UnknownMarker
	}
	return strings.ToLower(monthNames[month-1])
}

// Date is a possibly incomplete calendar date. Zero fields are unknown.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate reads YYYY-MM-DD or DD/MM/YYYY. Parts that are missing or not
// numeric are left at zero; it never fails.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}

	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		return Date{
			Day:   atoiPart(parts, 0),
			Month: atoiPart(parts, 1),
			Year:  atoiPart(parts, 2),
		}
	}

	// Tolerate a trailing time component ("2025-03-14T10:00:00Z")
	if i := strings.IndexAny(s, "T "); i > 0 {
		s = s[:i]
	}
	parts := strings.Split(s, "-")
	return Date{
		Year:  atoiPart(parts, 0),
		Month: atoiPart(parts, 1),
		Day:   atoiPart(parts, 2),
	}
}

func atoiPart(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// IsZero reports whether no part of the date is known
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Complete reports whether day, month and year are all known
func (d Date) Complete() bool {
	return d.Year > 0 && d.Month > 0 && d.Day > 0
}

// Short renders "14 de marzo de 2025". Unknown parts render as UnknownMarker.
func (d Date) Short() string {
	day, year := UnknownMarker, UnknownMarker
	if d.Day > 0 {
		day = strconv.Itoa(d.Day)
	}
	if d.Year > 0 {
		year = strconv.Itoa(d.Year)
	}
	return day + " de " + MonthNameShort(d.Month) + " de " + year
}

// ShortDate renders a raw date string in short form. Input that carries no
// recognizable date is returned unchanged.
func ShortDate(raw string) string {
	d := ParseDate(raw)
	if d.IsZero() {
		return raw
	}
	return d.Short()
}
