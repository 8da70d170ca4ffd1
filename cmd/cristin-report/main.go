// Command cristin-report builds annual reports from a researcher's CRISTIN
// publication records.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/henrybloomingdale/cristin-report/internal/config"
	"github.com/henrybloomingdale/cristin-report/internal/cristin"
	"github.com/henrybloomingdale/cristin-report/internal/docx"
	"github.com/henrybloomingdale/cristin-report/internal/logging"
	"github.com/henrybloomingdale/cristin-report/internal/output"
	"github.com/henrybloomingdale/cristin-report/internal/registry"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagJSON    bool
	flagHuman   bool
	flagVerbose bool
	flagConfig  string
	flagBaseURL string

	cfg    *config.Config
	logger = zap.NewNop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cristin-report",
	Short: "Annual report generator for CRISTIN researchers",
	Long: `Fetch a researcher's publications from the CRISTIN registry, sort them into
report sections, and fill a Word template to produce the annual report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagBaseURL != "" {
			cfg.BaseURL = flagBaseURL
		}

		logger = logging.New(os.Stderr, flagVerbose)
		return validateGlobalFlags()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as structured JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagHuman, "human", "H", false, "Rich colorful terminal output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug details to stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/cristin-report/config.yml)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "CRISTIN API base URL (or set CRISTIN_BASE_URL)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(placeholdersCmd)
	rootCmd.AddCommand(keysCmd)
}

func validateGlobalFlags() error {
	if flagJSON && flagHuman {
		return errors.New("--json and --human cannot be used together")
	}
	return nil
}

func outputCfg(risFile string) output.OutputConfig {
	return output.OutputConfig{
		JSON:    flagJSON,
		Human:   flagHuman,
		RISFile: risFile,
	}
}

func newClient() *cristin.Client {
	base := registry.NewBaseClient(
		registry.WithBaseURL(cfg.BaseURL),
		registry.WithTimeout(cfg.Timeout),
		registry.WithRate(cfg.Rate),
	)
	return cristin.NewClient(base,
		cristin.WithPerPage(cfg.PerPage),
		cristin.WithMaxPages(cfg.MaxPages),
	)
}

// validateYear accepts four-digit report years.
func validateYear(year int) error {
	if year < 1000 || year > 9999 {
		return fmt.Errorf("invalid --year %d: expected a four-digit year", year)
	}
	return nil
}

func defaultYear() int {
	return time.Now().Year()
}

// templatePath picks the template from the flag, the config, or the
// default templates directory, in that order.
func templatePath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg != nil && cfg.Template != "" {
		return cfg.Template, nil
	}
	return docx.ResolveTemplate(config.DefaultTemplateDir)
}

func outputDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil && cfg.OutputDir != "" {
		return cfg.OutputDir
	}
	return config.DefaultOutputDir
}
