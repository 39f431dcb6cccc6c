package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	prefsLanguage string
	prefsAccent   string
	prefsFont     string
	prefsFontSize int
	prefsDark     bool
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change preferences",
	Long:  "Prints the current preferences as JSON. Flags change the language, accent color, font or dark mode first.",
	RunE:  runPrefs,
}

func init() {
	prefsCmd.Flags().StringVar(&prefsLanguage, "language", "", "Interface and document language: es, en or fr")
	prefsCmd.Flags().StringVar(&prefsAccent, "accent", "", "Accent color as #RRGGBB")
	prefsCmd.Flags().StringVar(&prefsFont, "font", "", "Font family")
	prefsCmd.Flags().IntVar(&prefsFontSize, "font-size", 0, "Base font size in px (12-20)")
	prefsCmd.Flags().BoolVar(&prefsDark, "dark", false, "Enable dark mode (use --dark=false to disable)")
	rootCmd.AddCommand(prefsCmd)
}

func runPrefs(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(a *app) error {
		prefs := a.store.Preferences()
		if prefsLanguage != "" {
			prefs.Language = prefsLanguage
		}
		if prefsAccent != "" {
			prefs.AccentColor = prefsAccent
		}
		if prefsFont != "" {
			prefs.Design.FontFamily = prefsFont
		}
		if prefsFontSize != 0 {
			prefs.Design.FontSize = prefsFontSize
		}
		if cmd.Flags().Changed("dark") {
			prefs.DarkMode = prefsDark
		}
		if err := a.store.SetPreferences(prefs); err != nil {
			return err
		}

		data, err := json.MarshalIndent(a.store.Preferences(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal preferences: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	})
}
