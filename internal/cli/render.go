package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dpshade/scrib-digital/internal/clause"
	"github.com/dpshade/scrib-digital/internal/errors"
	"github.com/dpshade/scrib-digital/internal/models"
	"github.com/dpshade/scrib-digital/internal/placeholder"
	"github.com/dpshade/scrib-digital/internal/renderer"
	"github.com/dpshade/scrib-digital/internal/ui"
	"github.com/dpshade/scrib-digital/internal/validation"
)

func (c *CLI) renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [template-id]",
		Short: "Render a template with values",
		Long: `Render a template. Values come from --var flags, from a case file, or
both; --var wins over the case. Placeholders without a value are flagged
with the marker style (brackets, markdown, terminal or blank).

Example:
  scrib render certificacion-de-firma-modelo-base --var "NOMBRE COMPLETO=ANA PEREZ"
  scrib render --case perez --pretty
  scrib render acta-y-certificacion-08 --case perez --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, _ := cmd.Flags().GetStringArray("var")
			caseArg, _ := cmd.Flags().GetString("case")
			asJSON, _ := cmd.Flags().GetBool("json")
			pretty, _ := cmd.Flags().GetBool("pretty")
			toClipboard, _ := cmd.Flags().GetBool("copy")
			strict, _ := cmd.Flags().GetBool("strict")

			vars, err := parseVars(pairs)
			if err != nil {
				return err
			}

			templateID := ""
			if len(args) > 0 {
				templateID = args[0]
			}
			style := c.markerStyle(cmd)
			if pretty && !cmd.Flags().Changed("marker") {
				style = renderer.MarkerMarkdown
			}

			var result renderer.Result
			if caseArg != "" {
				cf, err := c.loadCase(caseArg)
				if err != nil {
					return err
				}
				if cf.Values == nil {
					cf.Values = map[string]string{}
				}
				for k, v := range vars {
					cf.Values[k] = v
				}
				result, err = c.service.RenderCase(cf, templateID, style)
				if err != nil {
					return err
				}
			} else {
				if templateID == "" {
					return errors.InvalidCommandError("render", "a template ID or --case is required")
				}
				result, err = c.service.RenderTemplate(templateID, vars, style)
				if err != nil {
					return err
				}
			}

			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else if err := c.emit(cmd, result.Text(), pretty, toClipboard); err != nil {
				return err
			}

			if !result.Complete() {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d placeholder(s) without value: %s\n",
					len(result.Missing), strings.Join(result.Missing, ", "))
				if strict {
					return errors.NewAppError(errors.ErrCodeMissingField, "document is incomplete").
						WithDetails(strings.Join(result.Missing, ", "))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringArray("var", nil, "value as NAME=VALUE (repeatable)")
	cmd.Flags().StringP("case", "c", "", "case file or case ID")
	cmd.Flags().StringP("marker", "m", "", "missing value marker: brackets, markdown, terminal, blank")
	cmd.Flags().Bool("json", false, "print sections and missing names as JSON")
	cmd.Flags().BoolP("pretty", "p", false, "render markdown for the terminal")
	cmd.Flags().Bool("copy", false, "copy the rendered text to the clipboard")
	cmd.Flags().Bool("strict", false, "fail when a placeholder has no value")
	cmd.MarkFlagsMutuallyExclusive("json", "pretty")
	return cmd
}

func (c *CLI) clauseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clause <act|certification>",
		Short: "Build the appearance act or the signature certification for a case",
		Long: `Build a clause from the parties and act data of a case file. The
agreement of articles, nouns and verbs follows the number and gender of
the parties; the date and act number are spelled out in words.

Kinds: act (acta), certification (certificacion, banderita).

Example:
  scrib clause act --case perez
  scrib clause banderita --case perez --copy`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(clause.KindAct), string(clause.KindCertification)},
		RunE: func(cmd *cobra.Command, args []string) error {
			caseArg, _ := cmd.Flags().GetString("case")
			pretty, _ := cmd.Flags().GetBool("pretty")
			toClipboard, _ := cmd.Flags().GetBool("copy")

			kind, ok := clause.ParseKind(args[0])
			if !ok {
				return errors.InvalidCommandError("clause", fmt.Sprintf("unknown kind %q (valid: act, certification)", args[0]))
			}

			cf, err := c.loadCase(caseArg)
			if err != nil {
				return err
			}

			// blank fields stay empty unless a marker is asked for
			style := renderer.MarkerBlank
			if cmd.Flags().Changed("marker") {
				style = c.markerStyle(cmd)
			}

			text, err := c.service.BuildClause(kind, cf.Clause, style)
			if err != nil {
				return err
			}
			return c.emit(cmd, text, pretty, toClipboard)
		},
	}
	cmd.Flags().StringP("case", "c", "", "case file or case ID (required)")
	cmd.Flags().StringP("marker", "m", "", "blank field marker: brackets, markdown, terminal, blank")
	cmd.Flags().BoolP("pretty", "p", false, "render markdown for the terminal")
	cmd.Flags().Bool("copy", false, "copy the clause to the clipboard")
	_ = cmd.MarkFlagRequired("case")
	return cmd
}

func (c *CLI) fillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill [template-id]",
		Short: "Fill a template interactively with a live preview",
		Long: `Open the fill form: one input per variable and a live preview of the
document. ctrl+y copies, ctrl+s saves the values to a case file, ctrl+p
toggles the markdown preview. The final document is printed on exit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caseArg, _ := cmd.Flags().GetString("case")

			var cf *models.CaseFile
			templateID := ""
			if len(args) > 0 {
				templateID = args[0]
			}
			if caseArg != "" {
				loaded, err := c.loadCase(caseArg)
				if err != nil {
					return err
				}
				cf = loaded
				if templateID == "" {
					templateID = cf.Template
				}
			}
			if templateID == "" {
				return errors.InvalidCommandError("fill", "a template ID or a case naming one is required")
			}

			tmpl, err := c.service.GetTemplate(templateID)
			if err != nil {
				return err
			}

			values, err := ui.Run(c.service, tmpl, cf)
			if err != nil {
				return err
			}

			record := placeholder.Record{}
			if cf != nil {
				if record, err = c.service.CaseRecord(cf); err != nil {
					return err
				}
			}
			for k, v := range values {
				record[k] = v
			}
			result := c.service.Render(tmpl, record, renderer.MarkerBrackets)
			fmt.Fprintln(cmd.OutOrStdout(), result.Text())
			return nil
		},
	}
	cmd.Flags().StringP("case", "c", "", "case file or case ID to prefill from")
	return cmd
}

func (c *CLI) validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [template-id]",
		Short: "Check a case file or a set of values against a template",
		Long: `Report problems before rendering: a clause without parties, parties
without name or with an unknown gender, incomplete dates, template
variables without value and values no template variable uses.

Errors make the command fail; warnings are only printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caseArg, _ := cmd.Flags().GetString("case")
			pairs, _ := cmd.Flags().GetStringArray("var")
			asJSON, _ := cmd.Flags().GetBool("json")

			var result *validation.ValidationResult
			switch {
			case caseArg != "":
				cf, err := c.loadCase(caseArg)
				if err != nil {
					return err
				}
				if len(args) > 0 {
					cf.Template = args[0]
				}
				if result, err = c.service.ValidateCase(cf); err != nil {
					return err
				}
			case len(args) > 0:
				vars, err := parseVars(pairs)
				if err != nil {
					return err
				}
				if result, err = c.service.ValidateRecord(args[0], vars); err != nil {
					return err
				}
			default:
				return errors.InvalidCommandError("validate", "a template ID or --case is required")
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, result); err != nil {
					return err
				}
			} else {
				printValidation(cmd, result)
			}
			if !result.Valid {
				return result.ToAppError()
			}
			return nil
		},
	}
	cmd.Flags().StringP("case", "c", "", "case file or case ID")
	cmd.Flags().StringArray("var", nil, "value as NAME=VALUE (repeatable)")
	cmd.Flags().Bool("json", false, "print the result as JSON")
	return cmd
}

func printValidation(cmd *cobra.Command, result *validation.ValidationResult) {
	out := cmd.OutOrStdout()
	for _, e := range result.Errors {
		fmt.Fprintf(out, "error   %-20s %s\n", e.Field, e.Message)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "warning %-20s %s\n", w.Field, w.Message)
	}
	if result.Valid && len(result.Warnings) == 0 {
		fmt.Fprintln(out, "OK")
	}
}
