package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/particle-field/internal/config"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the available themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		themes, err := config.LoadThemes(configPath)
		if err != nil {
			return err
		}
		return printThemes(cmd, themes)
	},
}

func printThemes(cmd *cobra.Command, themes *config.ThemeSet) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tBOUNDARY\tCOUNT\tTITLE")
	for _, id := range themes.IDs() {
		t, _ := themes.Get(id)
		count := fmt.Sprint(t.Count)
		switch {
		case t.Count == 0 && len(t.Layers) > 0:
			count = "layers"
		case t.Count == 0:
			count = "auto"
		}
		boundary := t.Boundary
		if boundary == "" {
			boundary = "-"
		}
		title := t.Title
		if id == themes.Fallback {
			title += " (fallback)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", id, t.Kind, boundary, count, title)
	}
	return w.Flush()
}
