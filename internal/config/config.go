package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dpshade/scrib-digital/internal/models"
)

// Environment variables read by the configuration
const (
	EnvLibraryDir = "SCRIB_DIR"
	EnvMarker     = "SCRIB_MARKER"
	EnvLogLevel   = "SCRIB_LOG_LEVEL"
)

// FileName is the configuration file inside the library directory
const FileName = "config.yaml"

// Config holds the office profile and rendering preferences
type Config struct {
	// Office boilerplate used by the clause skeletons
	Office models.Office `yaml:"office"`

	Render RenderConfig `yaml:"render"`

	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig configures how documents are rendered
type RenderConfig struct {
	Marker   string `yaml:"marker"`   // brackets, markdown, terminal, blank
	Emphasis string `yaml:"emphasis"` // markdown, plain
	WordWrap int    `yaml:"word_wrap"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Office: models.Office{
			NotaryTitle: "Escribano Titular",
		},
		Render: RenderConfig{
			Marker:   "brackets",
			Emphasis: "markdown",
			WordWrap: 80,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// LibraryDir returns the library root: $SCRIB_DIR, or ~/.scrib
func LibraryDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(EnvLibraryDir)); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".scrib"), nil
}

// Path returns the configuration file path inside libraryDir
func Path(libraryDir string) string {
	return filepath.Join(libraryDir, FileName)
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if m := os.Getenv(EnvMarker); m != "" {
		c.Render.Marker = m
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.Logging.Level = lvl
	}
}

// ValidMarkers lists the accepted marker styles
var ValidMarkers = []string{"brackets", "markdown", "terminal", "blank"}

// Validate validates the configuration
func (c *Config) Validate() error {
	c.Render.Marker = strings.ToLower(strings.TrimSpace(c.Render.Marker))
	if c.Render.Marker == "" {
		c.Render.Marker = "brackets"
	}
	valid := false
	for _, m := range ValidMarkers {
		if c.Render.Marker == m {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid marker style: %s (valid: %v)", c.Render.Marker, ValidMarkers)
	}

	switch strings.ToLower(c.Render.Emphasis) {
	case "", "markdown", "plain":
	default:
		return fmt.Errorf("invalid emphasis: %s (valid: markdown, plain)", c.Render.Emphasis)
	}

	if c.Render.WordWrap < 0 {
		return fmt.Errorf("word_wrap must not be negative")
	}
	return nil
}

// PlainNames reports whether party names are rendered without emphasis
func (c *Config) PlainNames() bool {
	return strings.EqualFold(c.Render.Emphasis, "plain")
}
