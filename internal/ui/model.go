package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dpshade/scrib-digital/internal/clipboard"
	"github.com/dpshade/scrib-digital/internal/models"
	"github.com/dpshade/scrib-digital/internal/placeholder"
	"github.com/dpshade/scrib-digital/internal/renderer"
	"github.com/dpshade/scrib-digital/internal/service"
)

// KeyMap defines all key bindings
type KeyMap struct {
	Next       key.Binding
	Prev       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Copy       key.Binding
	Save       key.Binding
	Pretty     key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to show in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Copy, k.Save, k.Pretty, k.Quit}
}

// FullHelp returns keybindings to show in the full help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.ScrollUp, k.ScrollDown},
		{k.Copy, k.Save, k.Pretty, k.Quit},
	}
}

var keys = KeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab", "down", "enter"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "scroll preview"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdown", "scroll preview"),
	),
	Copy: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "copy"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save case"),
	),
	Pretty: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("ctrl+p", "markdown preview"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
}

// Model is the fill form: one input per template variable and a live
// preview of the rendered document
type Model struct {
	service  *service.Service
	template *models.Template
	caseFile *models.CaseFile

	form     *FillForm
	viewport viewport.Model
	help     help.Model
	keys     KeyMap

	result     renderer.Result
	pretty     bool
	width      int
	height     int
	status     string
	statusType string
}

// clearStatusMsg clears the status line
type clearStatusMsg time.Time

func clearStatusCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearStatusMsg(t)
	})
}

// NewModel creates the fill form for tmpl. cf may be nil; when given, its
// values and computed clause fields prefill the inputs and ctrl+s writes
// back to it.
func NewModel(svc *service.Service, tmpl *models.Template, cf *models.CaseFile) (*Model, error) {
	values := placeholder.Record{}
	if cf != nil {
		record, err := svc.CaseRecord(cf)
		if err != nil {
			return nil, fmt.Errorf("failed to prefill from case: %w", err)
		}
		values = record
	}

	vp := viewport.New(80, 12)
	vp.Style = lipgloss.NewStyle()

	m := &Model{
		service:  svc,
		template: tmpl,
		caseFile: cf,
		form:     NewFillForm(tmpl.Variables(), values),
		viewport: vp,
		help:     help.New(),
		keys:     keys,
		width:    80,
	}
	m.refreshPreview()
	return m, nil
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles window, key and status messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.form.Resize(msg.Width)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = previewHeight(msg.Height, len(m.form.names))
		m.help.Width = msg.Width
		m.refreshPreview()
		return m, nil

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Copy):
			m.copyDocument()
			return m, clearStatusCmd()
		case key.Matches(msg, m.keys.Save):
			m.saveCase()
			return m, clearStatusCmd()
		case key.Matches(msg, m.keys.Pretty):
			m.pretty = !m.pretty
			m.refreshPreview()
			return m, nil
		case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	cmd, changed := m.form.Update(msg)
	if changed {
		m.refreshPreview()
	}
	return m, cmd
}

// previewHeight leaves room for the header, the inputs and the help line
func previewHeight(height, fields int) int {
	h := height - 3*fields - 8
	if h < 5 {
		h = 5
	}
	return h
}

// record is what the preview renders: the prefilled case record overlaid
// with the form values
func (m *Model) record() placeholder.Record {
	record := placeholder.Record{}
	if m.caseFile != nil {
		if base, err := m.service.CaseRecord(m.caseFile); err == nil {
			record = base
		}
	}
	for k, v := range m.form.Record() {
		record[k] = v
	}
	return record
}

// refreshPreview re-renders the whole document from the current values
func (m *Model) refreshPreview() {
	style := renderer.MarkerTerminal
	if m.pretty {
		style = renderer.MarkerMarkdown
	}
	m.result = m.service.Render(m.template, m.record(), style)

	content := m.result.Text()
	if m.pretty {
		if out, err := renderer.Pretty(content, m.viewport.Width); err == nil {
			content = out
		}
	} else {
		content = lipgloss.NewStyle().Width(m.viewport.Width).Render(content)
	}
	m.viewport.SetContent(content)
}

func (m *Model) copyDocument() {
	text := m.service.Render(m.template, m.record(), renderer.MarkerBrackets).Text()
	msg, err := clipboard.CopyWithFallback(text)
	if err != nil {
		m.status, m.statusType = err.Error(), "error"
		return
	}
	m.status, m.statusType = msg, "success"
}

func (m *Model) saveCase() {
	if m.caseFile == nil {
		m.caseFile = &models.CaseFile{Template: m.template.ID}
	}
	if m.caseFile.Values == nil {
		m.caseFile.Values = map[string]string{}
	}
	for k, v := range m.form.Record() {
		m.caseFile.Values[k] = v
	}

	if err := m.service.SaveCase(m.caseFile); err != nil {
		m.status, m.statusType = err.Error(), "error"
		return
	}
	m.status, m.statusType = "Saved "+m.caseFile.FilePath, "success"
}

// Record returns the values typed in the form
func (m Model) Record() placeholder.Record {
	return m.form.Record()
}

// Result returns the last rendered document
func (m Model) Result() renderer.Result {
	return m.result
}

// View renders the form, the preview and the status line
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(CreateMainHeader(m.template.DisplayTitle()))
	b.WriteString("\n\n")

	if len(m.form.names) == 0 {
		b.WriteString(StyleTextMuted.Render("This template has no {{VARIABLE}} placeholders."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.form.View())
	}

	missing := len(m.result.Missing)
	progress := fmt.Sprintf("%d/%d fields complete", len(m.form.names)-m.form.Missing(), len(m.form.names))
	if missing > 0 {
		b.WriteString(CreateStatus(fmt.Sprintf("%s, missing: %s", progress, strings.Join(m.result.Missing, ", ")), "warning"))
	} else {
		b.WriteString(CreateStatus(progress, "success"))
	}
	b.WriteString("\n")

	b.WriteString(StyleContentContainer.Render(m.viewport.View()))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(CreateStatus(m.status, m.statusType))
		b.WriteString("\n")
	}
	b.WriteString(CreateHelp(m.help.View(m.keys)))

	return b.String()
}

// Run starts the fill form and returns the values typed when it exits
func Run(svc *service.Service, tmpl *models.Template, cf *models.CaseFile) (placeholder.Record, error) {
	m, err := NewModel(svc, tmpl, cf)
	if err != nil {
		return nil, err
	}

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return nil, fmt.Errorf("fill form failed: %w", err)
	}
	if fm, ok := final.(Model); ok {
		return fm.Record(), nil
	}
	if fm, ok := final.(*Model); ok {
		return fm.Record(), nil
	}
	return m.Record(), nil
}
