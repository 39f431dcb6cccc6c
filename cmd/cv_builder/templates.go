package main

import (
	"fmt"

	"github.com/jonathan/cv-builder/internal/observability"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/spf13/cobra"
)

var templatesUse string

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the templates or select one",
	Long:  "Lists every template with its empty-section policy and inline-edit support. --use selects the template for previews and exports.",
	RunE:  runTemplates,
}

func init() {
	templatesCmd.Flags().StringVar(&templatesUse, "use", "", "Select this template")
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(a *app) error {
		if templatesUse != "" {
			if err := a.store.SetTemplate(templatesUse); err != nil {
				return err
			}
		}

		var skins []rendering.Renderer
		for _, name := range a.registry.Names() {
			if skin, ok := a.registry.Get(name); ok {
				skins = append(skins, skin)
			}
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintTemplates(skins, a.store.Preferences().TemplateID)

		if templatesUse != "" {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Selected %s\n", templatesUse)
			return err
		}
		return nil
	})
}
