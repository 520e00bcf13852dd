package grammar

import (
	"strings"
	"unicode"

	"github.com/dpshade/scrib-digital/internal/models"
)

// Number is grammatical number
type Number int

const (
	Singular Number = iota
	Plural
)

// NumberFor returns Plural when plural is true
func NumberFor(plural bool) Number {
	if plural {
		return Plural
	}
	return Singular
}

// forms holds the four inflections of one lexical entry
type forms struct {
	masc, fem, mascPl, femPl string
}

func invariant(sing, pl string) forms {
	return forms{sing, sing, pl, pl}
}

// lexicon maps a lexical key to its inflections. Keys are lowercase; the
// aliases after the first key of each entry accept the "nacido/a" notation
// used in clause drafts.
var lexicon = map[string]forms{}

func register(f forms, keys ...string) {
	for _, k := range keys {
		lexicon[k] = f
	}
}

func init() {
	// Participles and adjectives describing a party
	register(forms{"nacido", "nacida", "nacidos", "nacidas"}, "nacido", "nacido/a", "nacida")
	register(forms{"domiciliado", "domiciliada", "domiciliados", "domiciliadas"}, "domiciliado", "domiciliado/a", "domiciliada")
	register(forms{"identificado", "identificada", "identificados", "identificadas"}, "identificado", "identificado/a", "identificada")
	register(forms{"ciudadano", "ciudadana", "ciudadanos", "ciudadanas"}, "ciudadano", "ciudadano/a", "ciudadana")
	register(forms{"argentino", "argentina", "argentinos", "argentinas"}, "argentino", "argentino/a")
	register(forms{"hábil", "hábil", "hábiles", "hábiles"}, "hábil")
	register(forms{"conocido", "conocida", "conocidos", "conocidas"}, "conocido", "conocido/a")
	register(forms{"requirente", "requirente", "requirentes", "requirentes"}, "requirente")
	register(forms{"interesado", "interesada", "interesados", "interesadas"}, "interesado", "interesado/a")

	// Articles and contractions
	register(forms{"el", "la", "los", "las"}, "el", "el/la", "la")
	register(forms{"del", "de la", "de los", "de las"}, "del", "del/de la", "de la")
	register(forms{"al", "a la", "a los", "a las"}, "al", "al/a la", "a la")
	register(forms{"un", "una", "unos", "unas"}, "un", "un/una")

	// Gender invariant nouns and pronouns
	register(invariant("compareciente", "comparecientes"), "compareciente")
	register(invariant("persona", "personas"), "persona")
	register(invariant("quien", "quienes"), "quien")
	register(invariant("a quien", "a quienes"), "a quien")
	register(invariant("su", "sus"), "su")
	register(invariant("le", "les"), "le")
	register(invariant("mayor de edad", "mayores de edad"), "mayor de edad")
	register(invariant("firma", "firmas"), "firma")
	register(invariant("la firma", "las firmas"), "la firma")
	register(invariant("documento", "documentos"), "documento")
	register(invariant("puesta", "puestas"), "puesta")

	// Verbs, third person
	register(invariant("comparece", "comparecen"), "comparece")
	register(invariant("es", "son"), "es")
	register(invariant("ha", "han"), "ha")
	register(invariant("requiere", "requieren"), "requiere")
	register(invariant("justifica", "justifican"), "justifica")
	register(invariant("manifiesta", "manifiestan"), "manifiesta")
	register(invariant("firma ante mí", "firman ante mí"), "firma ante mí")
	register(invariant("otorga", "otorgan"), "otorga")
	register(invariant("antecede", "anteceden"), "antecede")
	register(invariant("acredita", "acreditan"), "acredita")
	register(invariant("interviene", "intervienen"), "interviene")
}

// Inflect returns the singular form of key agreeing with gender. Unknown keys
// and unknown gender tags are returned unchanged.
func Inflect(key string, gender models.Gender) string {
	return InflectNumber(key, gender, Singular)
}

// InflectNumber returns the form of key agreeing with gender and number.
// Keys are matched case-insensitively; an all-uppercase key yields an
// uppercase form. Unknown keys pass through unchanged, and so does any key
// when the gender tag is unknown.
func InflectNumber(key string, gender models.Gender, number Number) string {
	f, ok := lexicon[strings.ToLower(strings.TrimSpace(key))]
	if !ok || !gender.Valid() {
		return key
	}

	var word string
	switch {
	case number == Plural && gender == models.Feminine:
		word = f.femPl
	case number == Plural:
		word = f.mascPl
	case gender == models.Feminine:
		word = f.fem
	default:
		word = f.masc
	}

	if isUpper(key) {
		return strings.ToUpper(word)
	}
	return word
}

// Known reports whether key is part of the agreement vocabulary
func Known(key string) bool {
	_, ok := lexicon[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

// CollectiveGender returns the gender used for words agreeing with a group of
// parties: feminine only when every party is feminine.
func CollectiveGender(parties []models.Party) models.Gender {
	if len(parties) == 0 {
		return models.Masculine
	}
	for _, p := range parties {
		if p.Gender != models.Feminine {
			return models.Masculine
		}
	}
	return models.Feminine
}

func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
