package main

import (
	"fmt"

	"github.com/jonathan/cv-builder/internal/store"
	"github.com/spf13/cobra"
)

var photoClear bool

var photoCmd = &cobra.Command{
	Use:   "photo [file]",
	Short: "Set or clear the profile photo",
	Long:  "Reads an image file and stores it inline in the document. --clear removes the photo.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPhoto,
}

func init() {
	photoCmd.Flags().BoolVar(&photoClear, "clear", false, "Remove the current photo")
	rootCmd.AddCommand(photoCmd)
}

func runPhoto(cmd *cobra.Command, args []string) error {
	if photoClear == (len(args) == 1) {
		return fmt.Errorf("pass either an image file or --clear")
	}

	return withApp(cmd, func(a *app) error {
		if photoClear {
			if err := a.store.ClearPhoto(); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Photo removed")
			return err
		}

		loader := store.NewPhotoLoader(a.store, a.notifier, a.logger)
		loader.Select(cmd.Context(), args[0])
		loader.Wait()
		if err := a.firstError(); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Photo set from %s\n", args[0])
		return err
	})
}
