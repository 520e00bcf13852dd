package service

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dpshade/scrib-digital/internal/clause"
	"github.com/dpshade/scrib-digital/internal/config"
	"github.com/dpshade/scrib-digital/internal/errors"
	"github.com/dpshade/scrib-digital/internal/grammar"
	"github.com/dpshade/scrib-digital/internal/models"
	"github.com/dpshade/scrib-digital/internal/placeholder"
	"github.com/dpshade/scrib-digital/internal/renderer"
	"github.com/dpshade/scrib-digital/internal/storage"
	"github.com/dpshade/scrib-digital/internal/validation"
)

// Service provides the document operations shared by the CLI and the fill
// form
type Service struct {
	storage   *storage.Storage
	config    *config.Config
	validator *validation.Validator
	logger    *zap.Logger
	templates []*models.Template // listing cache, bodies may be empty
}

// NewService creates a new service instance
func NewService(store *storage.Storage, cfg *config.Config, logger *zap.Logger) *Service {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		storage:   store,
		config:    cfg,
		validator: validation.NewValidator(),
		logger:    logger,
	}
}

// Config returns the active configuration
func (s *Service) Config() *config.Config {
	return s.config
}

// BaseDir returns the library root
func (s *Service) BaseDir() string {
	return s.storage.GetBaseDir()
}

// InitLibrary creates the library layout, writes a default configuration
// and seeds the base templates that are not present yet
func (s *Service) InitLibrary() error {
	if err := s.storage.InitLibrary(); err != nil {
		return errors.StorageError("init library", err)
	}

	cfgPath := config.Path(s.storage.GetBaseDir())
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := s.config.Save(cfgPath); err != nil {
			return errors.StorageError("write config", err)
		}
	}

	for _, tmpl := range DefaultTemplates() {
		if _, err := s.GetTemplate(tmpl.ID); err == nil {
			continue
		}
		if err := s.SaveTemplate(tmpl); err != nil {
			return err
		}
		s.logger.Info("seeded template", zap.String("id", tmpl.ID))
	}
	return nil
}

func (s *Service) loadTemplates() error {
	templates, err := s.storage.ListTemplates()
	if err != nil {
		return errors.StorageError("list templates", err)
	}
	s.templates = templates
	return nil
}

// ListTemplates returns every template in the library
func (s *Service) ListTemplates() ([]*models.Template, error) {
	if s.templates == nil {
		if err := s.loadTemplates(); err != nil {
			return nil, err
		}
	}
	return s.templates, nil
}

// SearchTemplates fuzzy-matches query against title, description and ID
func (s *Service) SearchTemplates(query string) ([]*models.Template, error) {
	templates, err := s.ListTemplates()
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(query) == "" {
		return templates, nil
	}

	searchStrings := make([]string, len(templates))
	for i, t := range templates {
		searchStrings[i] = t.FilterValue() + " " + t.ID
	}

	matches := fuzzy.Find(query, searchStrings)

	results := make([]*models.Template, 0, len(matches))
	for _, match := range matches {
		results = append(results, templates[match.Index])
	}
	s.logger.Debug("searched templates", zap.String("query", query), zap.Int("results", len(results)))

	return results, nil
}

// GetTemplate returns a template by ID with its bodies loaded
func (s *Service) GetTemplate(id string) (*models.Template, error) {
	templates, err := s.ListTemplates()
	if err != nil {
		return nil, err
	}

	for _, t := range templates {
		if t.ID != id {
			continue
		}
		if len(t.Sections()) == 0 && t.FilePath != "" {
			full, err := s.storage.LoadTemplate(t.FilePath)
			if err != nil {
				return nil, errors.StorageError("load template", err).WithContext("id", id)
			}
			return full, nil
		}
		return t, nil
	}

	return nil, errors.NotFoundError(fmt.Sprintf("template %q", id))
}

// SaveTemplate validates and writes a template, keeping the creation time
// of an existing one
func (s *Service) SaveTemplate(tmpl *models.Template) error {
	if tmpl.ID == "" {
		tmpl.ID = NewTemplateID(tmpl.Title)
	}
	if result := s.validator.ValidateTemplate(tmpl); !result.Valid {
		return result.ToAppError()
	}

	now := time.Now()
	if existing, err := s.GetTemplate(tmpl.ID); err == nil {
		tmpl.CreatedAt = existing.CreatedAt
		if tmpl.FilePath == "" {
			tmpl.FilePath = existing.FilePath
		}
	} else {
		tmpl.CreatedAt = now
	}
	tmpl.UpdatedAt = now

	if err := s.storage.SaveTemplate(tmpl); err != nil {
		return errors.StorageError("save template", err).WithContext("id", tmpl.ID)
	}
	s.templates = nil

	s.logger.Debug("saved template", zap.String("id", tmpl.ID), zap.Strings("variables", tmpl.Variables()))
	return nil
}

// CreateTemplate creates a template from a title and body. It fails when
// the derived ID is taken.
func (s *Service) CreateTemplate(title, description, body string) (*models.Template, error) {
	tmpl := &models.Template{
		ID:          NewTemplateID(title),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Body:        body,
	}
	if _, err := s.GetTemplate(tmpl.ID); err == nil {
		return nil, errors.AlreadyExistsError(fmt.Sprintf("template %q", tmpl.ID))
	}
	if err := s.SaveTemplate(tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// DeleteTemplate deletes a template by ID
func (s *Service) DeleteTemplate(id string) error {
	tmpl, err := s.GetTemplate(id)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteTemplate(tmpl); err != nil {
		return errors.StorageError("delete template", err).WithContext("id", id)
	}
	s.templates = nil

	s.logger.Info("deleted template", zap.String("id", id))
	return nil
}

// AddVariable appends a normalized {{VARIABLE}} to the body of a template
// and returns the inserted name
func (s *Service) AddVariable(id, input string) (string, error) {
	tmpl, err := s.GetTemplate(id)
	if err != nil {
		return "", err
	}

	name := tmpl.AppendVariable(input)
	if name == "" {
		return "", errors.ValidationError("variable name has no letters or digits").WithContext("input", input)
	}
	if err := s.SaveTemplate(tmpl); err != nil {
		return "", err
	}
	return name, nil
}

// TemplateVariables returns the variables of a template in order of first
// appearance
func (s *Service) TemplateVariables(id string) ([]string, error) {
	tmpl, err := s.GetTemplate(id)
	if err != nil {
		return nil, err
	}
	return tmpl.Variables(), nil
}

// Render renders a template against record with the given marker style
func (s *Service) Render(tmpl *models.Template, record placeholder.Record, style renderer.MarkerStyle) renderer.Result {
	result := renderer.NewRenderer(tmpl, style).Render(record)
	if !result.Complete() {
		s.logger.Debug("rendered with missing values",
			zap.String("template", tmpl.ID),
			zap.Strings("missing", result.Missing))
	}
	return result
}

// RenderTemplate renders the template with ID id
func (s *Service) RenderTemplate(id string, record placeholder.Record, style renderer.MarkerStyle) (renderer.Result, error) {
	tmpl, err := s.GetTemplate(id)
	if err != nil {
		return renderer.Result{}, err
	}
	return s.Render(tmpl, record, style), nil
}

// CaseRecord builds the record used to render a template for a case file:
// the clause fields computed from its parties overlaid with the values typed
// by hand. A case without parties contributes only its typed values.
func (s *Service) CaseRecord(cf *models.CaseFile) (placeholder.Record, error) {
	record := make(placeholder.Record)

	if len(cf.Clause.Parties) > 0 {
		fields, err := clause.Fields(cf.Clause, s.config.Office, s.clauseOptions(renderer.MarkerBlank))
		if err != nil {
			return nil, err
		}
		for k, v := range fields {
			record[k] = v
		}
	}
	for k, v := range cf.Values {
		if v != "" {
			record[k] = v
		}
	}
	return record, nil
}

// RenderCase renders the template named by a case file
func (s *Service) RenderCase(cf *models.CaseFile, templateID string, style renderer.MarkerStyle) (renderer.Result, error) {
	if templateID == "" {
		templateID = cf.Template
	}
	if templateID == "" {
		return renderer.Result{}, errors.ValidationError("case file names no template").WithContext("case", cf.ID)
	}

	record, err := s.CaseRecord(cf)
	if err != nil {
		return renderer.Result{}, err
	}
	return s.RenderTemplate(templateID, record, style)
}

// BuildClause renders the skeleton of kind for ctx using the office profile
func (s *Service) BuildClause(kind clause.Kind, ctx models.ClauseContext, style renderer.MarkerStyle) (string, error) {
	result := s.validator.ValidateClause(ctx)
	for _, w := range result.Warnings {
		s.logger.Warn("clause input", zap.String("field", w.Field), zap.String("problem", w.Message))
	}
	if !result.Valid {
		return "", result.ToAppError()
	}

	text, err := clause.Build(kind, ctx, s.config.Office, s.clauseOptions(style))
	if err != nil {
		return "", err
	}
	s.logger.Debug("built clause",
		zap.String("kind", string(kind)),
		zap.Int("parties", len(ctx.Parties)),
		zap.Bool("plural", grammar.IsPlural(len(ctx.Parties), ctx.Plural)))
	return text, nil
}

func (s *Service) clauseOptions(style renderer.MarkerStyle) clause.Options {
	opts := clause.Options{}
	if style != renderer.MarkerBlank {
		opts.Marker = renderer.Marker(style)
	}
	if s.config.PlainNames() {
		opts.Emphasis = grammar.PlainText
	}
	return opts
}

// ValidateRecord reports missing and unused values for a template
func (s *Service) ValidateRecord(id string, record placeholder.Record) (*validation.ValidationResult, error) {
	tmpl, err := s.GetTemplate(id)
	if err != nil {
		return nil, err
	}
	return s.validator.ValidateRecord(tmpl, record), nil
}

// ValidateCase checks a case file: its clause context when it has parties,
// and its values against its template when it names one
func (s *Service) ValidateCase(cf *models.CaseFile) (*validation.ValidationResult, error) {
	result := &validation.ValidationResult{Valid: true}
	if len(cf.Clause.Parties) > 0 || cf.Template == "" {
		result.Merge(s.validator.ValidateClause(cf.Clause))
	}
	if cf.Template != "" {
		record, err := s.CaseRecord(cf)
		if err != nil {
			return nil, err
		}
		recordResult, err := s.ValidateRecord(cf.Template, record)
		if err != nil {
			return nil, err
		}
		for _, w := range recordResult.Warnings {
			// computed clause fields are expected to go unused
			if w.Code == validation.CodeUnusedValue {
				if _, typed := cf.Values[w.Field]; !typed {
					continue
				}
			}
			result.Warnings = append(result.Warnings, w)
		}
	}
	return result, nil
}

// LoadCase loads a case file from path
func (s *Service) LoadCase(path string) (*models.CaseFile, error) {
	cf, err := s.storage.LoadCase(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFileCorrupted, "failed to load case file").WithContext("path", path)
	}
	return cf, nil
}

// NewCase writes a case file prefilled for templateID. An empty id gets a
// generated one.
func (s *Service) NewCase(id, templateID string) (*models.CaseFile, error) {
	if id == "" {
		id = "caso-" + uuid.NewString()[:8]
	}

	cf := &models.CaseFile{
		ID:       id,
		Template: templateID,
		Clause: models.ClauseContext{
			Parties: []models.Party{{DocumentType: models.DefaultDocumentType, Gender: models.Masculine}},
			Date:    time.Now().Format("2006-01-02"),
		},
		Values: map[string]string{},
	}
	if templateID != "" {
		tmpl, err := s.GetTemplate(templateID)
		if err != nil {
			return nil, err
		}
		computed, _ := clause.Fields(models.ClauseContext{Parties: cf.Clause.Parties}, models.Office{}, clause.Options{})
		for _, name := range tmpl.Variables() {
			if _, ok := computed[name]; !ok {
				cf.Values[name] = ""
			}
		}
	}

	if err := s.storage.SaveCase(cf); err != nil {
		return nil, errors.StorageError("save case", err).WithContext("id", id)
	}
	return cf, nil
}

// SaveCase writes a case file
func (s *Service) SaveCase(cf *models.CaseFile) error {
	if cf.ID == "" {
		cf.ID = "caso-" + uuid.NewString()[:8]
	}
	if err := s.storage.SaveCase(cf); err != nil {
		return errors.StorageError("save case", err).WithContext("id", cf.ID)
	}
	s.logger.Debug("saved case", zap.String("id", cf.ID), zap.String("path", cf.FilePath))
	return nil
}

// ListCases returns the case files in the library
func (s *Service) ListCases() ([]string, error) {
	paths, err := s.storage.ListCases()
	if err != nil {
		return nil, errors.StorageError("list cases", err)
	}
	return paths, nil
}

// NewTemplateID derives a file-safe ID from a title: accents are stripped,
// letters lowercased and runs of anything else collapsed to '-'
func NewTemplateID(title string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(stripMarks, title)
	if err != nil {
		plain = title
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}

	id := strings.TrimSuffix(b.String(), "-")
	if id == "" {
		return "modelo-" + uuid.NewString()[:8]
	}
	return id
}
