package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetConfirm bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the current document",
	Long:  "Replaces the current document with an empty one. Saved CVs and preferences are kept.",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetConfirm, "yes", "y", false, "Confirm clearing the document")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if !resetConfirm {
		return fmt.Errorf("reset clears the current document; pass --yes to confirm")
	}
	return withApp(cmd, func(a *app) error {
		a.store.Reset()
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "Document cleared")
		return err
	})
}
