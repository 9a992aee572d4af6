// Package main provides the entry point for the context-aware suggestion CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "suggest_agent",
	Short: "Context-aware suggestion engine",
	Long:  "suggest_agent turns current weather, time of day, season and calendar events into a context vector and ranks a catalog of suggestions against it.",
	// Errors are printed once by main.
	SilenceErrors: true,
	SilenceUsage:  true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
