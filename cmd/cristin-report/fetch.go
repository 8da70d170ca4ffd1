package main

import (
	"fmt"

	"github.com/henrybloomingdale/cristin-report/internal/cristin"
	"github.com/henrybloomingdale/cristin-report/internal/output"
	"github.com/spf13/cobra"
)

var flagOut string

func init() {
	fetchCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output JSON file (default cristin_<person-id>.json)")
}

// fetchCmd implements the fetch subcommand.
var fetchCmd = &cobra.Command{
	Use:   "fetch <person-id>",
	Short: "Save a person's raw publication records",
	Long: `Download every publication record for a person and save the raw JSON, for
offline work with --from-file or for debugging classification.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := cristin.ValidatePersonID(args[0])
		if err != nil {
			return err
		}

		records, err := newClient().FetchPublications(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}

		path := flagOut
		if path == "" {
			path = "cristin_" + id + ".json"
		}
		if err := cristin.SaveRecords(path, records); err != nil {
			return err
		}

		return output.FormatDump(cmd.OutOrStdout(), path, len(records), outputCfg(""))
	},
}
