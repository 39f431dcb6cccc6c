package main

import (
	"fmt"

	"github.com/jonathan/cv-builder/internal/prompts"
	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the writing-assistant prompt for the current CV",
	Long:  "Builds a ready-to-paste prompt, in the selected language, that asks an assistant to review and improve the current document.",
	RunE:  runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)
}

func runPrompt(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(a *app) error {
		doc, prefs := a.store.Snapshot()
		text, err := prompts.Build(prefs.Language, doc)
		if err != nil {
			return fmt.Errorf("failed to build prompt: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	})
}
