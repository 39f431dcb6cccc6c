package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a CV from a JSON export",
	Long:  "Merges a previously exported JSON document into the current one. Sections missing from the file keep their current content.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	return withApp(cmd, func(a *app) error {
		if err := a.exports.Import(data); err != nil {
			return err
		}
		a.printer.PrintDocument(a.store.Document(), a.store.Labels())
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", args[0])
		return err
	})
}
