package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/henrybloomingdale/cristin-report/internal/classify"
	"github.com/henrybloomingdale/cristin-report/internal/config"
	"github.com/henrybloomingdale/cristin-report/internal/cristin"
	"github.com/henrybloomingdale/cristin-report/internal/docx"
	"github.com/henrybloomingdale/cristin-report/internal/output"
	"github.com/henrybloomingdale/cristin-report/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagYear     int
	flagTemplate string
	flagOutDir   string
	flagManual   string
	flagFromFile string
	flagDump     string
	flagRIS      string
)

func init() {
	for _, cmd := range []*cobra.Command{generateCmd, previewCmd} {
		cmd.Flags().IntVarP(&flagYear, "year", "y", defaultYear(), "Report year")
		cmd.Flags().StringVarP(&flagManual, "manual", "m", "", "YAML file with manual field text")
		cmd.Flags().StringVar(&flagFromFile, "from-file", "", "Read publications from a saved JSON dump instead of the API")
		cmd.Flags().StringVar(&flagRIS, "ris", "", "Export the year's publications to a RIS file")
	}
	generateCmd.Flags().StringVarP(&flagTemplate, "template", "t", "", "Word template (default templates/"+docx.TemplateName+")")
	generateCmd.Flags().StringVarP(&flagOutDir, "out-dir", "o", "", "Directory for the generated report (default "+config.DefaultOutputDir+")")
	generateCmd.Flags().StringVar(&flagDump, "dump", "", "Also save the fetched publications to this JSON file")
}

// generateCmd implements the generate subcommand.
var generateCmd = &cobra.Command{
	Use:   "generate <person-id>",
	Short: "Generate the annual report document",
	Long: `Fetch publications and person details, classify the year's publications into
report sections, merge manual fields, and render the Word template.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateYear(flagYear); err != nil {
			return err
		}
		tmpl, err := templatePath(flagTemplate)
		if err != nil {
			return err
		}

		client := newClient()
		req, err := buildRequest(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		req.TemplatePath = tmpl
		req.OutputDir = outputDir(flagOutDir)

		gen := &report.Generator{
			Client:   client,
			Renderer: docx.NewRenderer(classify.RequiredPlaceholders(), logger),
			Logger:   logger,
		}
		res, err := gen.Generate(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("generating report: %w", err)
		}

		return output.FormatResult(cmd.OutOrStdout(), res, outputCfg(flagRIS))
	},
}

// previewCmd implements the preview subcommand.
var previewCmd = &cobra.Command{
	Use:   "preview <person-id>",
	Short: "Show the classified references without rendering",
	Long:  `Run the report pipeline up to the template step and print what each report section would contain.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateYear(flagYear); err != nil {
			return err
		}

		client := newClient()
		req, err := buildRequest(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}

		gen := &report.Generator{Client: client, Logger: logger}
		res, err := gen.Prepare(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("preparing report: %w", err)
		}

		return output.FormatPreview(cmd.OutOrStdout(), res, outputCfg(flagRIS))
	},
}

// buildRequest collects the parts of a report request shared by generate
// and preview: the year, manual fields and any preloaded or dumped records.
func buildRequest(ctx context.Context, client *cristin.Client, personID string) (report.Request, error) {
	id, err := cristin.ValidatePersonID(personID)
	if err != nil {
		return report.Request{}, err
	}
	req := report.Request{PersonID: id, Year: strconv.Itoa(flagYear)}

	if flagManual != "" {
		req.ManualFields, err = config.LoadManualFields(flagManual)
		if err != nil {
			return report.Request{}, err
		}
		for key := range req.ManualFields {
			if !classify.IsManualField(key) {
				logger.Warn("ignoring unknown manual field", zap.String("key", key))
			}
		}
	}

	switch {
	case flagFromFile != "":
		req.Records, err = cristin.LoadRecords(flagFromFile)
		if err != nil {
			return report.Request{}, err
		}
		if req.Records == nil {
			req.Records = []cristin.Record{}
		}
		logger.Debug("loaded publications from file", zap.String("path", flagFromFile), zap.Int("records", len(req.Records)))
	case flagDump != "":
		req.Records, err = client.FetchPublications(ctx, id)
		if err != nil {
			return report.Request{}, fmt.Errorf("fetching publications: %w", err)
		}
		if err := cristin.SaveRecords(flagDump, req.Records); err != nil {
			return report.Request{}, err
		}
		if req.Records == nil {
			req.Records = []cristin.Record{}
		}
		logger.Info("publications saved", zap.String("path", flagDump), zap.Int("records", len(req.Records)))
	}
	return req, nil
}
