package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dpshade/scrib-digital/internal/config"
	"github.com/dpshade/scrib-digital/internal/errors"
)

func (c *CLI) caseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "case",
		Aliases: []string{"cases"},
		Short:   "Manage case files",
		Long: `A case file holds the parties and act data of one document in progress
together with the values typed for its template. Case files live in the
cases/ directory of the library and are plain YAML.`,
	}

	cmd.AddCommand(c.caseNewCmd())
	cmd.AddCommand(c.caseListCmd())
	cmd.AddCommand(c.caseShowCmd())
	return cmd
}

func (c *CLI) caseNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [case-id]",
		Short: "Create a case file prefilled for a template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templateID, _ := cmd.Flags().GetString("template")

			id := ""
			if len(args) > 0 {
				id = args[0]
			}

			cf, err := c.service.NewCase(id, templateID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created case: %s\n", cf.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "File: %s\n", filepath.Join(c.service.BaseDir(), cf.FilePath))
			return nil
		},
	}
	cmd.Flags().StringP("template", "t", "", "template the case is drafted for")
	return cmd
}

func (c *CLI) caseListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List case files",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := c.service.ListCases()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range paths {
				cf, err := c.service.LoadCase(p)
				if err != nil {
					fmt.Fprintf(out, "%-30s (unreadable)\n", strings.TrimSuffix(filepath.Base(p), ".yaml"))
					continue
				}
				names := make([]string, 0, len(cf.Clause.Parties))
				for _, party := range cf.Clause.Parties {
					if party.Name != "" {
						names = append(names, party.Name)
					}
				}
				fmt.Fprintf(out, "%-30s %-36s %s\n", cf.ID, cf.Template, truncate(strings.Join(names, ", "), 50))
			}
			return nil
		},
	}
}

func (c *CLI) caseShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <case>",
		Short: "Print a case file with the fields computed from its parties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := c.loadCase(args[0])
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(cf)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to encode case file")
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, string(data))

			if len(cf.Clause.Parties) == 0 {
				return nil
			}
			record, err := c.service.CaseRecord(cf)
			if err != nil {
				return err
			}
			computed, err := yaml.Marshal(map[string]map[string]string{"computed": record})
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to encode computed fields")
			}
			fmt.Fprintf(out, "---\n%s", computed)
			return nil
		},
	}
}

func (c *CLI) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Show the effective configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipLibraryCheck: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			pathOnly, _ := cmd.Flags().GetBool("path")

			out := cmd.OutOrStdout()
			if pathOnly {
				fmt.Fprintln(out, config.Path(c.service.BaseDir()))
				return nil
			}

			data, err := yaml.Marshal(c.service.Config())
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to encode configuration")
			}
			fmt.Fprint(out, string(data))
			return nil
		},
	}
	cmd.Flags().Bool("path", false, "print only the configuration file path")
	return cmd
}
