package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dpshade/scrib-digital/internal/errors"
	"github.com/dpshade/scrib-digital/internal/models"
)

func (c *CLI) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "init",
		Short:       "Create the library and seed the default templates",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipLibraryCheck: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.service.InitLibrary(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Initialized library: %s\n", c.service.BaseDir())
			fmt.Fprintf(out, "\nNext steps:\n")
			fmt.Fprintf(out, "  1. Edit the office profile in %s\n", "config.yaml")
			fmt.Fprintf(out, "  2. Run: scrib case new --template acta-y-certificacion-08\n")
			fmt.Fprintf(out, "  3. Run: scrib render --case <case-id>\n")
			return nil
		},
	}
}

func (c *CLI) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List templates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			templates, err := c.service.ListTemplates()
			if err != nil {
				return err
			}
			return formatTemplates(cmd.OutOrStdout(), templates, format)
		},
	}
	cmd.Flags().StringP("format", "f", "", "output format: json, ids, table")
	return cmd
}

func (c *CLI) searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy search templates by title, description and ID",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			templates, err := c.service.SearchTemplates(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return formatTemplates(cmd.OutOrStdout(), templates, format)
		},
	}
	cmd.Flags().StringP("format", "f", "", "output format: json, ids, table")
	return cmd
}

func (c *CLI) showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <template-id>",
		Short: "Show a template with its variables and bodies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			tmpl, err := c.service.GetTemplate(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				return writeJSON(out, templateJSON(tmpl))
			}

			fmt.Fprintf(out, "ID: %s\n", tmpl.ID)
			fmt.Fprintf(out, "Title: %s\n", tmpl.DisplayTitle())
			if tmpl.Description != "" {
				fmt.Fprintf(out, "Description: %s\n", tmpl.Description)
			}
			if tmpl.Kind != "" {
				fmt.Fprintf(out, "Kind: %s\n", tmpl.Kind)
			}
			if !tmpl.CreatedAt.IsZero() {
				fmt.Fprintf(out, "Created: %s\n", tmpl.CreatedAt.Format("2006-01-02 15:04"))
			}
			if !tmpl.UpdatedAt.IsZero() {
				fmt.Fprintf(out, "Updated: %s\n", tmpl.UpdatedAt.Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(out, "Variables: %s\n", strings.Join(tmpl.Variables(), ", "))
			for _, s := range tmpl.Sections() {
				fmt.Fprintf(out, "\n[%s]\n%s\n", s.Name, s.Body)
			}
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "", "output format: json")
	return cmd
}

func (c *CLI) varsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vars <template-id>",
		Short: "List the variables of a template in order of first appearance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			vars, err := c.service.TemplateVariables(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				if vars == nil {
					vars = []string{}
				}
				return writeJSON(out, vars)
			}
			for _, v := range vars {
				fmt.Fprintln(out, v)
			}
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "", "output format: json")
	return cmd
}

func (c *CLI) newCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a template",
		Long: `Create a free-text template. The body comes from --body, from --file,
or from standard input when --file is "-".

Example:
  scrib new --title "Poder General" --file poder.md
  scrib new --title "Constancia" --body "Conste que {{NOMBRE}} ..."`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")
			description, _ := cmd.Flags().GetString("description")
			body, _ := cmd.Flags().GetString("body")
			file, _ := cmd.Flags().GetString("file")

			if file != "" {
				content, err := readBody(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
				body = content
			}

			tmpl, err := c.service.CreateTemplate(title, description, body)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created template: %s\n", tmpl.ID)
			if vars := tmpl.Variables(); len(vars) > 0 {
				fmt.Fprintf(out, "Variables: %s\n", strings.Join(vars, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringP("title", "t", "", "template title (required)")
	cmd.Flags().StringP("description", "d", "", "template description")
	cmd.Flags().StringP("body", "b", "", "template body")
	cmd.Flags().String("file", "", "read the body from a file, or - for stdin")
	_ = cmd.MarkFlagRequired("title")
	cmd.MarkFlagsMutuallyExclusive("body", "file")
	return cmd
}

func readBody(stdin io.Reader, file string) (string, error) {
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeFileNotFound, "failed to read template body").
			WithContext("file", file)
	}
	return string(data), nil
}

func (c *CLI) addVarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-var <template-id> <name>",
		Short: "Append a {{VARIABLE}} placeholder to a template",
		Long: `Append a placeholder to the end of the template body. The name is
uppercased and keeps only letters, digits and single spaces.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := c.service.AddVariable(args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added {{%s}} to %s\n", name, args[0])
			return nil
		},
	}
}

func (c *CLI) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <template-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a template",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.service.DeleteTemplate(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted template: %s\n", args[0])
			return nil
		},
	}
}

// templateSummary is the JSON shape of a template
type templateSummary struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Kind        string            `json:"kind,omitempty"`
	Variables   []string          `json:"variables,omitempty"`
	Sections    map[string]string `json:"sections,omitempty"`
	UpdatedAt   string            `json:"updated_at,omitempty"`
}

func templateJSON(t *models.Template) templateSummary {
	summary := templateSummary{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Kind:        t.Kind,
		Variables:   t.Variables(),
	}
	if sections := t.Sections(); len(sections) > 0 {
		summary.Sections = make(map[string]string, len(sections))
		for _, s := range sections {
			summary.Sections[s.Name] = s.Body
		}
	}
	if !t.UpdatedAt.IsZero() {
		summary.UpdatedAt = t.UpdatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return summary
}

func formatTemplates(out io.Writer, templates []*models.Template, format string) error {
	switch format {
	case "json":
		summaries := make([]templateSummary, 0, len(templates))
		for _, t := range templates {
			// listings come from the metadata cache, without bodies
			s := templateJSON(t)
			s.Variables, s.Sections = nil, nil
			summaries = append(summaries, s)
		}
		return writeJSON(out, summaries)
	case "ids":
		for _, t := range templates {
			fmt.Fprintln(out, t.ID)
		}
	case "table":
		fmt.Fprintf(out, "%-36s %-40s %-6s %s\n", "ID", "Title", "Kind", "Updated")
		fmt.Fprintln(out, strings.Repeat("-", 96))
		for _, t := range templates {
			updated := ""
			if !t.UpdatedAt.IsZero() {
				updated = t.UpdatedAt.Format("2006-01-02")
			}
			fmt.Fprintf(out, "%-36s %-40s %-6s %s\n",
				truncate(t.ID, 36), truncate(t.DisplayTitle(), 40), t.Kind, updated)
		}
	case "":
		for _, t := range templates {
			fmt.Fprintf(out, "%s - %s\n", t.ID, t.DisplayTitle())
			if t.Description != "" {
				fmt.Fprintf(out, "  %s\n", t.Description)
			}
			fmt.Fprintln(out)
		}
	default:
		return errors.ValidationError(fmt.Sprintf("unknown format %q (valid: json, ids, table)", format))
	}
	return nil
}
