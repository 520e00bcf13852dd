package renderer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dpshade/scrib-digital/internal/models"
	"github.com/dpshade/scrib-digital/internal/placeholder"
)

// MarkerStyle selects how missing values are flagged in rendered output
type MarkerStyle string

const (
	MarkerBrackets MarkerStyle = "brackets" // [NAME]
	MarkerMarkdown MarkerStyle = "markdown" // **[NAME]**
	MarkerTerminal MarkerStyle = "terminal" // [NAME] highlighted with lipgloss
	MarkerBlank    MarkerStyle = "blank"    // nothing
)

// ParseMarkerStyle returns the style named s, or MarkerBrackets
func ParseMarkerStyle(s string) MarkerStyle {
	switch MarkerStyle(strings.ToLower(strings.TrimSpace(s))) {
	case MarkerMarkdown:
		return MarkerMarkdown
	case MarkerTerminal:
		return MarkerTerminal
	case MarkerBlank:
		return MarkerBlank
	default:
		return MarkerBrackets
	}
}

var missingStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("9")).
	Bold(true)

// Marker returns the marker function for style
func Marker(style MarkerStyle) placeholder.MarkerFunc {
	switch style {
	case MarkerMarkdown:
		return func(name string) string { return "**[" + name + "]**" }
	case MarkerTerminal:
		return func(name string) string { return missingStyle.Render(placeholder.BracketMarker(name)) }
	case MarkerBlank:
		return func(string) string { return "" }
	default:
		return placeholder.BracketMarker
	}
}

// Renderer renders a template against the values typed for it
type Renderer struct {
	template *models.Template
	marker   placeholder.MarkerFunc
}

// NewRenderer creates a new renderer instance
func NewRenderer(tmpl *models.Template, style MarkerStyle) *Renderer {
	return &Renderer{
		template: tmpl,
		marker:   Marker(style),
	}
}

// RenderedSection is one rendered body of a template
type RenderedSection struct {
	Name    string   `json:"name"`
	Text    string   `json:"text"`
	Missing []string `json:"missing,omitempty"`
}

// Result is a fully rendered template
type Result struct {
	TemplateID string            `json:"template_id"`
	Title      string            `json:"title"`
	Sections   []RenderedSection `json:"sections"`
	Missing    []string          `json:"missing,omitempty"`
}

// Render fills every section of the template. Missing names are collected
// across sections in order of first appearance.
func (r *Renderer) Render(record placeholder.Record) Result {
	result := Result{
		TemplateID: r.template.ID,
		Title:      r.template.Title,
	}

	seen := make(map[string]bool)
	for _, section := range r.template.Sections() {
		doc := placeholder.Fill(section.Body, record)
		missing := doc.Missing()
		result.Sections = append(result.Sections, RenderedSection{
			Name:    section.Name,
			Text:    doc.String(r.marker),
			Missing: missing,
		})
		for _, name := range missing {
			if !seen[name] {
				seen[name] = true
				result.Missing = append(result.Missing, name)
			}
		}
	}

	return result
}

// Text joins the rendered sections, separated by a blank line
func (res Result) Text() string {
	parts := make([]string, len(res.Sections))
	for i, s := range res.Sections {
		parts[i] = s.Text
	}
	return strings.Join(parts, "\n\n")
}

// Complete reports whether every placeholder received a value
func (res Result) Complete() bool {
	return len(res.Missing) == 0
}

// RenderText renders the template as plain text
func (r *Renderer) RenderText(record placeholder.Record) string {
	return r.Render(record).Text()
}

// RenderJSON renders the template as JSON with per-section missing fields
func (r *Renderer) RenderJSON(record placeholder.Record) (string, error) {
	jsonBytes, err := json.MarshalIndent(r.Render(record), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// createGlamourRenderer picks a glamour style matching the terminal
// background. GLAMOUR_STYLE overrides the detection.
func createGlamourRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	profile := termenv.ColorProfile()
	styleOption := glamour.WithAutoStyle()
	if profile == termenv.TrueColor || profile == termenv.ANSI256 {
		if lipgloss.HasDarkBackground() {
			styleOption = glamour.WithStandardStyle("dark")
		} else {
			styleOption = glamour.WithStandardStyle("light")
		}
	}

	return glamour.NewTermRenderer(
		styleOption,
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(wordWrap),
	)
}

// Pretty renders markdown text for the terminal with glamour
func Pretty(markdown string, wordWrap int) (string, error) {
	if wordWrap <= 0 {
		wordWrap = 80
	}
	tr, err := createGlamourRenderer(wordWrap)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := tr.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
