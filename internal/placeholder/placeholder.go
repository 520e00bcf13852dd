package placeholder

import (
	"regexp"
	"strings"
	"unicode"
)

// placeholderPattern matches {{NAME}} markers. The match is non-greedy and
// never spans lines, so an unterminated "{{" simply does not match.
var placeholderPattern = regexp.MustCompile(`\{\{(.*?)\}\}`)

// Record maps variable names to their supplied values
type Record map[string]string

// Scan returns the unique variable names referenced in text, in order of
// first appearance. Empty names and names containing braces are rejected.
func Scan(text string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		name, ok := canonicalName(match[1])
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	return names
}

// ScanAll scans several bodies and merges the results, keeping the order in
// which names first appear across the bodies.
func ScanAll(bodies ...string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, body := range bodies {
		for _, name := range Scan(body) {
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}

	return names
}

// canonicalName trims a raw match and reports whether it is a usable name
func canonicalName(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", false
	}
	if strings.ContainsAny(name, "{}") {
		return "", false
	}
	return name, true
}

// NormalizeName turns free text typed in the template editor into a variable
// name: uppercase, letters, digits and single spaces only.
func NormalizeName(input string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(input) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tag wraps a variable name in placeholder braces
func Tag(name string) string {
	return "{{" + name + "}}"
}
