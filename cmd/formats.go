package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/edugen/internal/content"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List subjects, worksheet formats and item types",
		Args:  cobra.NoArgs,
		RunE:  runFormats,
	}
}

func runFormats(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	rule := strings.Repeat("─", 60)

	fmt.Fprintln(w, "Subjects")
	fmt.Fprintln(w, rule)
	for _, s := range content.Subjects() {
		fmt.Fprintf(w, "%-18s  %s\n", s, s.Label())
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Formats")
	fmt.Fprintln(w, rule)
	formats := make([]string, 0, len(cfg.Generator.Formats))
	for f := range cfg.Generator.Formats {
		formats = append(formats, string(f))
	}
	slices.Sort(formats)
	for _, name := range formats {
		spec := cfg.Generator.Formats[content.Format(name)]
		types := make([]string, len(spec.ItemTypes))
		for i, t := range spec.ItemTypes {
			types[i] = string(t)
		}
		fmt.Fprintf(w, "%-8s  %s\n", name, strings.Join(types, ", "))
		for i, v := range spec.Variants {
			fmt.Fprintf(w, "  --variant %d  %2d selection  %2d open\n", i, v.Selection, v.Open)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Item types")
	fmt.Fprintln(w, rule)
	for _, t := range slices.Concat(content.SelectionTypes, content.OpenTypes) {
		fmt.Fprintf(w, "%-16s  %s\n", t, content.FamilyOf(t))
	}
	return nil
}
