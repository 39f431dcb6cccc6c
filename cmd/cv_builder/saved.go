package main

import (
	"fmt"
	"strings"

	"github.com/jonathan/cv-builder/internal/observability"
	"github.com/spf13/cobra"
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage saved CVs",
	Long:  "Saved CVs are named snapshots of the document together with the template chosen when they were saved.",
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved CVs, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runSavedList,
}

var savedSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current document as a new CV",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavedSave,
}

var savedUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Overwrite a saved CV with the current document and template",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavedUpdate,
}

var savedLoadCmd = &cobra.Command{
	Use:   "load <id>",
	Short: "Replace the current document with a saved CV",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavedLoad,
}

var savedDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved CV",
	Args:  cobra.ExactArgs(1),
	RunE:  runSavedDelete,
}

func init() {
	savedCmd.AddCommand(savedListCmd, savedSaveCmd, savedUpdateCmd, savedLoadCmd, savedDeleteCmd)
	rootCmd.AddCommand(savedCmd)
}

func runSavedList(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(a *app) error {
		observability.NewPrinter(cmd.OutOrStdout()).PrintSavedCVs(a.store.SavedCVs())
		return nil
	})
}

func runSavedSave(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	return withApp(cmd, func(a *app) error {
		saved := a.store.SaveAsNew(name)
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Saved %q as %s\n", saved.Name, saved.ID)
		return err
	})
}

func runSavedUpdate(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app) error {
		saved, err := a.store.UpdateSaved(args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated %q (%s)\n", saved.Name, saved.Template)
		return err
	})
}

func runSavedLoad(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app) error {
		if err := a.store.LoadSaved(args[0]); err != nil {
			return err
		}
		a.printer.PrintDocument(a.store.Document(), a.store.Labels())
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s with template %s\n", args[0], a.store.Preferences().TemplateID)
		return err
	})
}

func runSavedDelete(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app) error {
		if err := a.store.DeleteSaved(args[0]); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return err
	})
}
