// Package main provides the entry point for the CV builder CLI and local server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath     string
	dataDir        string
	storageBackend string
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:          "cv_builder",
	Short:        "Local-first CV builder",
	Long:         "cv_builder edits a single CV document, keeps named snapshots and renders it with eight templates to JSON, DOCX and PDF.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON/YAML config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding the local profile (overrides config)")
	rootCmd.PersistentFlags().StringVar(&storageBackend, "storage", "", "Storage backend: file, postgres or memory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print formatted summaries and debug logs")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
