package main

import (
	"github.com/henrybloomingdale/cristin-report/internal/classify"
	"github.com/henrybloomingdale/cristin-report/internal/docx"
	"github.com/henrybloomingdale/cristin-report/internal/output"
	"github.com/spf13/cobra"
)

// placeholdersCmd implements the placeholders subcommand.
var placeholdersCmd = &cobra.Command{
	Use:   "placeholders <template.docx>",
	Short: "Check a template's placeholders",
	Long: `List the {{ key }} placeholders found in a Word template and the required
keys it is missing. Exits non-zero when any required key is missing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := docx.Open(args[0])
		if err != nil {
			return err
		}

		missing := t.Missing(classify.RequiredPlaceholders())
		if err := output.FormatPlaceholders(cmd.OutOrStdout(), args[0], t.Placeholders(), missing, outputCfg("")); err != nil {
			return err
		}
		if len(missing) > 0 {
			return &docx.TemplateError{Path: args[0], Missing: missing}
		}
		return nil
	},
}

// keysCmd implements the keys subcommand.
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the placeholders a template must contain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.FormatKeys(cmd.OutOrStdout(), outputCfg(""))
	},
}
