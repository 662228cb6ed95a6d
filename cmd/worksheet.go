package cmd

import (
	"context"
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/edugen/internal/content"
	"github.com/abhisek/edugen/internal/generator"
	"github.com/abhisek/edugen/internal/store"
	"github.com/abhisek/edugen/internal/ui"
)

func newWorksheetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worksheet",
		Short: "Generate a worksheet with test questions and assignments",
		Example: `  edugen worksheet -s math -g 5 -t "Fractions"
  edugen worksheet -s biology -g 8 -t "Cell structure" -f test --variant 1
  edugen worksheet -s history -g 9 -t "The Industrial Revolution" --types open_question --json`,
		Args: cobra.NoArgs,
		RunE: runWorksheet,
	}
	commonFlags(cmd)
	cmd.Flags().Bool("no-save", false, "Do not store the result")
	f := cmd.Flags()
	f.StringP("format", "f", string(content.FormatMixed), "Format: test, open, mixed")
	f.StringSlice("types", nil, "Restrict item types (comma separated)")
	f.Int("variant", 0, "Count variant of the format (see 'edugen formats')")
	f.Bool("answers", true, "Print the answer key")
	return cmd
}

func runWorksheet(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	f := cmd.Flags()
	format, _ := f.GetString("format")
	rawTypes, _ := f.GetStringSlice("types")
	variant, _ := f.GetInt("variant")
	answers, _ := f.GetBool("answers")
	out := readOutput(cmd)

	req := generator.WorksheetRequest{
		Common:  readCommon(cmd),
		Format:  content.Format(format),
		Variant: variant,
	}
	for _, t := range rawTypes {
		req.ItemTypes = append(req.ItemTypes, content.NormalizeType(t))
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	gen, err := e.newGenerator(ctx, out.agent)
	if err != nil {
		return err
	}

	var res *generator.WorksheetResult
	err = runWork(ctx, "Generating worksheet", func(ctx context.Context, onProgress func(int)) error {
		var err error
		res, err = gen.RunWorksheet(ctx, req, onProgress)
		return err
	})
	if err != nil {
		return userError(err)
	}

	if out.save {
		rec := &store.ArtifactRecord{
			ID:               res.RunID,
			Kind:             store.KindWorksheet,
			Model:            res.Model,
			BackfillAttempts: res.Reconcile.Attempts,
			MissingSelection: res.Reconcile.MissingSelection,
			MissingOpen:      res.Reconcile.MissingOpen,
		}
		if err := saveArtifact(ctx, e, rec, req.Common, req, res.Worksheet); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if out.asJSON {
		return writeJSON(w, res.Worksheet)
	}
	lipgloss.Fprintln(w, ui.RenderWorksheet(title(req.Common), res.Worksheet, answers))
	if missing := res.Reconcile.MissingSelection + res.Reconcile.MissingOpen; missing > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "note: %d item(s) short of the requested count\n", missing)
	}
	return nil
}

func title(c generator.Common) string {
	return fmt.Sprintf("%s · grade %d · %s", c.Subject.Label(), c.Grade, c.Topic)
}
