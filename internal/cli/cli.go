package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dpshade/scrib-digital/internal/clipboard"
	"github.com/dpshade/scrib-digital/internal/config"
	"github.com/dpshade/scrib-digital/internal/errors"
	"github.com/dpshade/scrib-digital/internal/logging"
	"github.com/dpshade/scrib-digital/internal/models"
	"github.com/dpshade/scrib-digital/internal/placeholder"
	"github.com/dpshade/scrib-digital/internal/renderer"
	"github.com/dpshade/scrib-digital/internal/service"
	"github.com/dpshade/scrib-digital/internal/storage"
)

// skipLibraryCheck marks commands that run before the library exists
const skipLibraryCheck = "skip-library-check"

// CLI holds the state shared by every command: the global flags and the
// service built from them
type CLI struct {
	dir     string
	verbose bool

	service *service.Service
	logger  *zap.Logger
}

// Execute runs the command line and prints a formatted error on failure
func Execute(version string) error {
	c := &CLI{}
	root := c.RootCmd(version)
	err := root.Execute()
	if err != nil {
		handler := errors.NewCLIErrorHandler(c.logger, c.verbose)
		fmt.Fprintln(os.Stderr, handler.HandleError(err))
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
	return err
}

// RootCmd builds the command tree
func (c *CLI) RootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "scrib",
		Short: "Notarial document templates",
		Long: `Scrib fills notarial document templates: free-text models with
{{VARIABLE}} placeholders and the clause skeletons of the appearance act
and the signature certification.

The library lives in ~/.scrib (or $SCRIB_DIR, or --dir) and holds:
  - templates/  markdown files with YAML frontmatter
  - cases/      YAML case files with parties and typed values
  - config.yaml the office profile and rendering preferences`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.dir, "dir", "", "library directory (default $SCRIB_DIR or ~/.scrib)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "verbose logging and error details")

	root.AddCommand(c.initCmd())
	root.AddCommand(c.listCmd())
	root.AddCommand(c.searchCmd())
	root.AddCommand(c.showCmd())
	root.AddCommand(c.varsCmd())
	root.AddCommand(c.newCmd())
	root.AddCommand(c.addVarCmd())
	root.AddCommand(c.deleteCmd())
	root.AddCommand(c.renderCmd())
	root.AddCommand(c.clauseCmd())
	root.AddCommand(c.fillCmd())
	root.AddCommand(c.validateCmd())
	root.AddCommand(c.caseCmd())
	root.AddCommand(c.configCmd())

	return root
}

// setup loads the configuration and wires the service for cmd
func (c *CLI) setup(cmd *cobra.Command) error {
	dir := c.dir
	if dir == "" {
		var err error
		if dir, err = config.LibraryDir(); err != nil {
			return err
		}
	}

	cfg, err := config.Load(config.Path(dir))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidConfig, "failed to load configuration").
			WithContext("path", config.Path(dir))
	}

	logger, err := logging.New(cfg.Logging.Level, c.verbose)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create logger")
	}
	c.logger = logger

	store, err := storage.NewStorage(dir, logger)
	if err != nil {
		return errors.StorageError("open library", err)
	}
	c.service = service.NewService(store, cfg, logger)

	if cmd.Annotations[skipLibraryCheck] == "" {
		if _, err := os.Stat(filepath.Join(c.service.BaseDir(), storage.TemplatesDir)); os.IsNotExist(err) {
			return errors.NotFoundError("library").
				WithDetails("run 'scrib init' to create it").
				WithContext("dir", c.service.BaseDir())
		}
	}

	logger.Debug("library ready", zap.String("dir", c.service.BaseDir()))
	return nil
}

// parseVars parses repeated --var NAME=VALUE flags. Names keep their case;
// only surrounding whitespace is trimmed.
func parseVars(pairs []string) (placeholder.Record, error) {
	record := make(placeholder.Record, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.ValidationError(fmt.Sprintf("invalid --var %q, expected NAME=VALUE", pair))
		}
		record[name] = value
	}
	return record, nil
}

// casePath resolves a --case argument: a file relative to the working
// directory, a path inside the library, or a bare case ID
func (c *CLI) casePath(arg string) string {
	if filepath.IsAbs(arg) {
		return arg
	}
	if _, err := os.Stat(arg); err == nil {
		if abs, err := filepath.Abs(arg); err == nil {
			return abs
		}
	}
	if filepath.Ext(arg) == "" {
		return storage.CasePath(arg)
	}
	return arg
}

func (c *CLI) loadCase(arg string) (*models.CaseFile, error) {
	return c.service.LoadCase(c.casePath(arg))
}

// markerStyle returns the --marker flag, or the configured default
func (c *CLI) markerStyle(cmd *cobra.Command) renderer.MarkerStyle {
	marker, _ := cmd.Flags().GetString("marker")
	if marker == "" {
		marker = c.service.Config().Render.Marker
	}
	return renderer.ParseMarkerStyle(marker)
}

// emit writes text to out, renders it through glamour when pretty is set and
// copies it to the clipboard when toClipboard is set
func (c *CLI) emit(cmd *cobra.Command, text string, pretty, toClipboard bool) error {
	out := cmd.OutOrStdout()
	if pretty {
		rendered, err := renderer.Pretty(text, c.service.Config().Render.WordWrap)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to render markdown")
		}
		fmt.Fprint(out, rendered)
	} else {
		fmt.Fprintln(out, text)
	}

	if toClipboard {
		msg, err := clipboard.CopyWithFallback(text)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), msg)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncate shortens s to max runes for table output
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
