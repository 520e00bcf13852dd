package models

import "strings"

// Gender is the grammatical gender tag that drives inflection
type Gender string

const (
	Masculine Gender = "M"
	Feminine  Gender = "F"
)

// ParseGender accepts the usual spellings of the two tags. Anything else is
// returned as-is and is treated as unknown by the agreement tables.
func ParseGender(s string) Gender {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M", "MASCULINO", "MASC", "H", "HOMBRE", "V", "VARON", "VARÓN":
		return Masculine
	case "F", "FEMENINO", "FEM", "MUJER":
		return Feminine
	default:
		return Gender(s)
	}
}

// Valid reports whether g is one of the two known tags
func (g Gender) Valid() bool {
	return g == Masculine || g == Feminine
}

// UnmarshalYAML normalizes gender tags when reading case files
func (g *Gender) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*g = ParseGender(raw)
	return nil
}

// Party is a compareciente appearing in the document
type Party struct {
	Name         string `yaml:"name"`
	DocumentType string `yaml:"document_type,omitempty"`
	IDNumber     string `yaml:"id_number"`
	BirthDate    string `yaml:"birth_date"`
	CivilStatus  string `yaml:"civil_status"`
	Address      string `yaml:"address"`
	Locality     string `yaml:"locality"`
	Department   string `yaml:"department"`
	Province     string `yaml:"province"`
	Nationality  string `yaml:"nationality"`
	Gender       Gender `yaml:"gender"`
	Role         string `yaml:"role"`
}

// DefaultDocumentType is used when a party does not name its identity document
const DefaultDocumentType = "D.N.I."

// Document returns the identity document label for the party
func (p Party) Document() string {
	if strings.TrimSpace(p.DocumentType) == "" {
		return DefaultDocumentType
	}
	return p.DocumentType
}
