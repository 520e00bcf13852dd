package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dpshade/scrib-digital/internal/placeholder"
)

// FillForm holds one text input per template variable, in order of first
// appearance in the template
type FillForm struct {
	names   []string
	inputs  []textinput.Model
	focused int
}

// NewFillForm creates a form for names prefilled from values
func NewFillForm(names []string, values placeholder.Record) *FillForm {
	inputs := make([]textinput.Model, len(names))
	for i, name := range names {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = placeholder.BracketMarker(name)
		inputs[i].CharLimit = 500
		inputs[i].Width = 60
		inputs[i].SetValue(values[name])
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
	}

	return &FillForm{
		names:  names,
		inputs: inputs,
	}
}

// Update handles form navigation and passes other keys to the focused input.
// It reports whether a value may have changed.
func (f *FillForm) Update(msg tea.Msg) (tea.Cmd, bool) {
	if len(f.inputs) == 0 {
		return nil, false
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "down", "enter":
			f.nextField()
			return nil, false
		case "shift+tab", "up":
			f.prevField()
			return nil, false
		}
	}

	before := f.inputs[f.focused].Value()
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd, f.inputs[f.focused].Value() != before
}

func (f *FillForm) nextField() {
	f.focus((f.focused + 1) % len(f.inputs))
}

func (f *FillForm) prevField() {
	f.focus((f.focused - 1 + len(f.inputs)) % len(f.inputs))
}

func (f *FillForm) focus(i int) {
	f.inputs[f.focused].Blur()
	f.focused = i
	f.inputs[f.focused].Focus()
}

// Focused returns the name of the focused variable
func (f *FillForm) Focused() string {
	if len(f.names) == 0 {
		return ""
	}
	return f.names[f.focused]
}

// Record returns the typed values keyed by variable name. Values are
// trimmed; blank values are kept as empty strings.
func (f *FillForm) Record() placeholder.Record {
	record := make(placeholder.Record, len(f.names))
	for i, name := range f.names {
		record[name] = strings.TrimSpace(f.inputs[i].Value())
	}
	return record
}

// Missing counts the variables without a value
func (f *FillForm) Missing() int {
	n := 0
	for _, in := range f.inputs {
		if strings.TrimSpace(in.Value()) == "" {
			n++
		}
	}
	return n
}

// Resize fits the inputs to width
func (f *FillForm) Resize(width int) {
	w := width - 6
	if w < 20 {
		w = 20
	}
	for i := range f.inputs {
		f.inputs[i].Width = w
	}
}

// View renders the labels and inputs
func (f *FillForm) View() string {
	var b strings.Builder
	for i, name := range f.names {
		label := StyleFormLabel.Render(name)
		if i == f.focused {
			label = StyleFocusedLabel.Render(name)
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n\n")
	}
	return b.String()
}
