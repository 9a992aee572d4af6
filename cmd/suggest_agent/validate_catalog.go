package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/context-suggester/internal/catalog"
	"github.com/jonathan/context-suggester/internal/observability"
)

var validateCatalogCmd = &cobra.Command{
	Use:   "validate-catalog",
	Short: "Validate a suggestion catalog directory",
	Long:  "Loads every *.json file under the catalog directory, validates each record against the record schema and the feature vocabulary, and reports accepted and rejected counts.",
	RunE:  runValidateCatalog,
}

var (
	validateCatalogDir     string
	validateCatalogStrict  bool
	validateCatalogVerbose bool
)

func init() {
	validateCatalogCmd.Flags().StringVarP(&validateCatalogDir, "data", "d", "", "Catalog directory of *.json files (required)")
	validateCatalogCmd.Flags().BoolVar(&validateCatalogStrict, "strict", false, "Fail when any file is skipped or record rejected")
	validateCatalogCmd.Flags().BoolVarP(&validateCatalogVerbose, "verbose", "v", false, "Log every rejected record")

	if err := validateCatalogCmd.MarkFlagRequired("data"); err != nil {
		panic(fmt.Sprintf("failed to mark data flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCatalogCmd)
}

func runValidateCatalog(cmd *cobra.Command, _ []string) error {
	level := "error"
	if validateCatalogVerbose {
		level = "debug"
	}
	logger := observability.MustLogger(level, validateCatalogVerbose)
	defer func() { _ = logger.Sync() }()

	result, err := catalog.LoadDir(validateCatalogDir, &catalog.Options{Logger: logger})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Files:     %d (%d skipped)\n", result.Files, result.FilesSkipped)
	_, _ = fmt.Fprintf(out, "Accepted:  %d\n", len(result.Suggestions))
	_, _ = fmt.Fprintf(out, "Rejected:  %d\n", result.Rejected)

	observability.NewPrinter(out).PrintIssues(result.Issues)

	if validateCatalogStrict && (result.Rejected > 0 || result.FilesSkipped > 0) {
		return fmt.Errorf("catalog has %d rejected records and %d skipped files", result.Rejected, result.FilesSkipped)
	}
	return nil
}
