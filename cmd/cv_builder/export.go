package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/cv-builder/internal/export"
	"github.com/spf13/cobra"
)

var exportOutDir string

var exportCmd = &cobra.Command{
	Use:       "export <json|docx|pdf|all>",
	Short:     "Export the current CV",
	Long:      "Writes the current document as JSON, DOCX or PDF into the output directory. 'all' writes every available format.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{export.FormatJSON, export.FormatDOCX, export.FormatPDF, "all"},
	RunE:      runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", ".", "Output directory")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format := args[0]

	return withApp(cmd, func(a *app) error {
		ctx := cmd.Context()

		if format == "all" {
			paths, err := a.exports.ExportAll(ctx, exportOutDir)
			for _, p := range paths {
				//nolint:errcheck // best-effort listing
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return err
		}

		var run func(context.Context) (*export.Artifact, error)
		switch format {
		case export.FormatJSON:
			run = a.exports.JSON
		case export.FormatDOCX:
			run = a.exports.DOCX
		case export.FormatPDF:
			run = a.exports.PDF
		default:
			return fmt.Errorf("unknown format %q (want json, docx, pdf or all)", format)
		}

		art, err := run(ctx)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(exportOutDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		path := filepath.Join(exportOutDir, art.Filename)
		if err := os.WriteFile(path, art.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
		return err
	})
}
