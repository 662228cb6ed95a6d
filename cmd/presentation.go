package cmd

import (
	"context"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/edugen/internal/generator"
	"github.com/abhisek/edugen/internal/store"
	"github.com/abhisek/edugen/internal/ui"
)

func newPresentationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "presentation",
		Aliases: []string{"slides"},
		Short:   "Generate a slide presentation",
		Example: `  edugen presentation -s physics -g 7 -t "Newton's laws" --slides 8`,
		Args:    cobra.NoArgs,
		RunE:    runPresentation,
	}
	commonFlags(cmd)
	cmd.Flags().Bool("no-save", false, "Do not store the result")
	cmd.Flags().Int("slides", 0, "Number of slides, 3-30 (default from config)")
	return cmd
}

func runPresentation(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	slides, _ := cmd.Flags().GetInt("slides")
	out := readOutput(cmd)
	req := generator.PresentationRequest{Common: readCommon(cmd), SlideCount: slides}
	if err := req.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	gen, err := e.newGenerator(ctx, out.agent)
	if err != nil {
		return err
	}

	var res *generator.PresentationResult
	err = runWork(ctx, "Generating presentation", func(ctx context.Context, onProgress func(int)) error {
		var err error
		res, err = gen.RunPresentation(ctx, req, onProgress)
		return err
	})
	if err != nil {
		return userError(err)
	}

	if out.save {
		rec := &store.ArtifactRecord{ID: res.RunID, Kind: store.KindPresentation, Model: res.Model}
		if err := saveArtifact(ctx, e, rec, req.Common, req, res.Presentation); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if out.asJSON {
		return writeJSON(w, res.Presentation)
	}
	lipgloss.Fprintln(w, ui.RenderPresentation(res.Presentation))
	return nil
}
