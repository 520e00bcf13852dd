package storage

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dpshade/scrib-digital/internal/models"
)

// Library layout under the root path
const (
	TemplatesDir = "templates"
	CasesDir     = "cases"
	StateDir     = ".scrib"
)

// Storage handles all file system operations for templates and case files
type Storage struct {
	rootPath string
	cache    *MetadataCache
	logger   *zap.Logger
}

// NewStorage creates a new storage instance rooted at rootPath, or at
// ~/.scrib when rootPath is empty
func NewStorage(rootPath string, logger *zap.Logger) (*Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rootPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		rootPath = filepath.Join(homeDir, ".scrib")
	}

	cache := NewMetadataCache(rootPath)
	if err := cache.Load(); err != nil {
		// cache is optional
		logger.Warn("failed to load metadata cache", zap.Error(err))
	}

	return &Storage{
		rootPath: rootPath,
		cache:    cache,
		logger:   logger,
	}, nil
}

// InitLibrary creates the directory structure for a template library
func (s *Storage) InitLibrary() error {
	dirs := []string{
		s.rootPath,
		filepath.Join(s.rootPath, TemplatesDir),
		filepath.Join(s.rootPath, CasesDir),
		filepath.Join(s.rootPath, StateDir, "cache"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetBaseDir returns the root path of the storage
func (s *Storage) GetBaseDir() string {
	return s.rootPath
}

// TemplatePath returns the relative path a template with id is stored at
func TemplatePath(id string) string {
	return filepath.Join(TemplatesDir, id+".md")
}

// CasePath returns the relative path a case file with id is stored at
func CasePath(id string) string {
	return filepath.Join(CasesDir, id+".yaml")
}

// LoadTemplate loads a template from a markdown file with YAML frontmatter
func (s *Storage) LoadTemplate(path string) (*models.Template, error) {
	file, err := os.Open(filepath.Join(s.rootPath, path))
	if err != nil {
		return nil, fmt.Errorf("failed to open template file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	template, err := parseTemplateFile(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	template.FilePath = path
	return template, nil
}

// SaveTemplate writes a template to its file path, defaulting to
// templates/<id>.md
func (s *Storage) SaveTemplate(template *models.Template) error {
	if template.FilePath == "" {
		template.FilePath = TemplatePath(template.ID)
	}
	fullPath := filepath.Join(s.rootPath, template.FilePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	content, err := serializeTemplate(template)
	if err != nil {
		return fmt.Errorf("failed to serialize template: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write template file: %w", err)
	}

	return nil
}

// DeleteTemplate deletes a template file
func (s *Storage) DeleteTemplate(template *models.Template) error {
	fullPath := filepath.Join(s.rootPath, template.FilePath)

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("template file does not exist: %s", fullPath)
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete template file: %w", err)
	}

	return nil
}

// ListTemplates returns every template in the library. Unchanged files are
// served from the metadata cache and carry no body; call LoadTemplate for
// the full document.
func (s *Storage) ListTemplates() ([]*models.Template, error) {
	templatesDir := filepath.Join(s.rootPath, TemplatesDir)
	if _, err := os.Stat(templatesDir); os.IsNotExist(err) {
		return []*models.Template{}, nil
	}

	var templates []*models.Template
	existingFiles := make(map[string]bool)
	cacheModified := false

	err := filepath.Walk(templatesDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}

		relPath, _ := filepath.Rel(s.rootPath, path)
		existingFiles[relPath] = true

		if cached, valid := s.cache.Get(relPath, info); valid {
			templates = append(templates, cached.ToTemplate())
			return nil
		}

		template, err := s.LoadTemplate(relPath)
		if err != nil {
			s.logger.Warn("skipping unreadable template", zap.String("path", relPath), zap.Error(err))
			return nil
		}

		s.cache.Set(relPath, info, template)
		cacheModified = true

		templates = append(templates, template)
		return nil
	})

	if s.cache.Cleanup(existingFiles) {
		cacheModified = true
	}

	if cacheModified {
		if err := s.cache.Save(); err != nil {
			s.logger.Warn("failed to save metadata cache", zap.Error(err))
		}
	}

	return templates, err
}

// LoadCase loads a case file. Absolute paths are read as given, relative
// ones from the library root.
func (s *Storage) LoadCase(path string) (*models.CaseFile, error) {
	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(s.rootPath, path)
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}

	var cf models.CaseFile
	if err := yaml.Unmarshal(content, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse case file: %w", err)
	}

	cf.FilePath = path
	return &cf, nil
}

// SaveCase writes a case file to its file path, defaulting to
// cases/<id>.yaml
func (s *Storage) SaveCase(cf *models.CaseFile) error {
	if cf.FilePath == "" {
		cf.FilePath = CasePath(cf.ID)
	}
	fullPath := cf.FilePath
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(s.rootPath, fullPath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(cf); err != nil {
		return fmt.Errorf("failed to encode case file: %w", err)
	}

	if err := os.WriteFile(fullPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write case file: %w", err)
	}

	return nil
}

// ListCases returns the relative paths of every case file in the library
func (s *Storage) ListCases() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.rootPath, CasesDir, "*.yaml"))
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		rel, _ := filepath.Rel(s.rootPath, m)
		paths = append(paths, rel)
	}
	return paths, nil
}

// Helper functions

func parseTemplateFile(content []byte) (*models.Template, error) {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() || strings.TrimRight(scanner.Text(), "\r") != "---" {
		return nil, fmt.Errorf("missing frontmatter delimiter")
	}

	var frontmatterLines []string
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimRight(line, "\r") == "---" {
			closed = true
			break
		}
		frontmatterLines = append(frontmatterLines, line)
	}
	if !closed {
		return nil, fmt.Errorf("unterminated frontmatter")
	}

	var template models.Template
	if err := yaml.Unmarshal([]byte(strings.Join(frontmatterLines, "\n")), &template); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	var bodyLines []string
	for scanner.Scan() {
		bodyLines = append(bodyLines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Trim only the blank lines written after the closing delimiter
	template.Body = strings.TrimLeft(strings.Join(bodyLines, "\n"), " \t\n")

	return &template, nil
}

// serializeTemplate converts a template to YAML frontmatter + markdown body
func serializeTemplate(template *models.Template) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("---\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(template); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	buf.WriteString("---\n")

	if template.Body != "" {
		buf.WriteString("\n")
		buf.WriteString(template.Body)
		if !strings.HasSuffix(template.Body, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}
