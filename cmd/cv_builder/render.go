package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	renderOutFile string
	renderPrint   bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the current CV with the selected template",
	Long:  "Renders the live preview (or the print view with --print) as a standalone HTML page and reports the page count.",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutFile, "out", "o", "", "Write the HTML page to this file instead of stdout")
	renderCmd.Flags().BoolVar(&renderPrint, "print", false, "Render the print view used for PDF export")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(a *app) error {
		ctx := cmd.Context()

		var page string
		if renderPrint {
			html, err := a.exports.PrintView(ctx)
			if err != nil {
				return err
			}
			page = html
		} else {
			preview, err := a.exports.Preview(ctx)
			if err != nil {
				return err
			}
			a.printer.PrintPreview(preview)
			page = preview.Visual.HTML()
			if renderOutFile != "" {
				//nolint:errcheck // summary line
				fmt.Fprintf(cmd.OutOrStdout(), "Pages: %d\n", preview.Pages)
			}
		}

		if renderOutFile == "" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), page)
			return err
		}
		if err := os.WriteFile(renderOutFile, []byte(page), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", renderOutFile, err)
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", renderOutFile)
		return err
	})
}
