package models

import (
	"strings"
	"time"

	"github.com/dpshade/scrib-digital/internal/placeholder"
)

// Template is a notarial document model with {{VARIABLE}} placeholders
type Template struct {
	// Frontmatter fields
	ID          string            `yaml:"id"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description,omitempty"`
	Kind        string            `yaml:"kind,omitempty"` // "act", "certification" or empty for free text
	Metadata    map[string]string `yaml:"metadata,omitempty"`
	CreatedAt   time.Time         `yaml:"created_at"`
	UpdatedAt   time.Time         `yaml:"updated_at"`

	// Multi-section variant: the act and its certification, each scanned on its own
	ActBody           string `yaml:"act_body,omitempty"`
	CertificationBody string `yaml:"certification_body,omitempty"`

	// Content fields
	Body     string `yaml:"-"` // The markdown content after frontmatter
	FilePath string `yaml:"-"` // Path to the file
}

// Section is one independently renderable body of a template
type Section struct {
	Name string
	Body string
}

// Section names
const (
	SectionBody          = "body"
	SectionAct           = "act"
	SectionCertification = "certification"
)

// Sections returns the non-empty bodies of the template in document order
func (t *Template) Sections() []Section {
	var sections []Section
	if strings.TrimSpace(t.Body) != "" {
		sections = append(sections, Section{Name: SectionBody, Body: t.Body})
	}
	if strings.TrimSpace(t.ActBody) != "" {
		sections = append(sections, Section{Name: SectionAct, Body: t.ActBody})
	}
	if strings.TrimSpace(t.CertificationBody) != "" {
		sections = append(sections, Section{Name: SectionCertification, Body: t.CertificationBody})
	}
	return sections
}

// Variables returns every variable referenced by the template, in order of
// first appearance across its sections
func (t *Template) Variables() []string {
	var bodies []string
	for _, s := range t.Sections() {
		bodies = append(bodies, s.Body)
	}
	return placeholder.ScanAll(bodies...)
}

// EmptyRecord returns a record with an empty entry for every variable, the
// starting point of a new fill form
func (t *Template) EmptyRecord() placeholder.Record {
	record := make(placeholder.Record)
	for _, name := range t.Variables() {
		record[name] = ""
	}
	return record
}

// AppendVariable adds a normalized placeholder to the end of the body and
// returns the name that was inserted
func (t *Template) AppendVariable(input string) string {
	name := placeholder.NormalizeName(input)
	if name == "" {
		return ""
	}
	tag := placeholder.Tag(name)
	if t.Body == "" {
		t.Body = tag
	} else {
		t.Body += " " + tag
	}
	return name
}

// FilterValue returns the value used for fuzzy matching
func (t Template) FilterValue() string {
	return cleanString(t.Title + " " + t.Description)
}

// DisplayTitle returns the title, or the ID when no title is set
func (t Template) DisplayTitle() string {
	if t.Title != "" {
		return cleanString(t.Title)
	}
	return cleanString(t.ID)
}

// cleanString removes control characters and collapses whitespace
func cleanString(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\n' || r == '\r' || r == '\t' || r < 32 || r == 127
	}), " ")
}
