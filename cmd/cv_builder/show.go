package main

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/cv-builder/internal/observability"
	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current CV document",
	Long:  "Prints a summary of the current document, or the full document as JSON with --json.",
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the full document as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(a *app) error {
		doc := a.store.Document()
		if showJSON {
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal document: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintDocument(doc, a.store.Labels())
		return nil
	})
}
