package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/context-suggester/internal/schemas"
	rootschemas "github.com/jonathan/context-suggester/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a schema",
	Long:  "Validates a JSON document against one of the built-in schemas (report, suggestion) or a schema file given with --schema.",
	RunE:  runValidate,
}

var (
	validateInput  string
	validateKind   string
	validateSchema string
)

var builtinSchemas = map[string]string{
	"report":     rootschemas.Report,
	"suggestion": rootschemas.Suggestion,
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to the JSON document (required)")
	validateCmd.Flags().StringVarP(&validateKind, "kind", "k", "report", "Built-in schema: report or suggestion")
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Path to a JSON Schema file (overrides --kind)")

	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	var err error
	if validateSchema != "" {
		err = schemas.ValidateJSON(validateSchema, validateInput)
	} else {
		schema, ok := builtinSchemas[validateKind]
		if !ok {
			return fmt.Errorf("unknown schema kind %q: use report or suggestion", validateKind)
		}
		content, readErr := os.ReadFile(validateInput)
		if readErr != nil {
			return fmt.Errorf("failed to read %s: %w", validateInput, readErr)
		}
		err = schemas.ValidateJSONString(schema, string(content))
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✅ %s is valid\n", validateInput)
	return nil
}
