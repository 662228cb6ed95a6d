package cmd

import (
	"context"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/edugen/internal/content"
	"github.com/abhisek/edugen/internal/generator"
	"github.com/abhisek/edugen/internal/ui"
)

func newRegenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regenerate",
		Short: "Generate one replacement item",
		Long: `Generate a single item of the given type, for example to replace a weak
question in an existing worksheet. Pass the old item's text with --replacing
so the model produces something different.`,
		Example: `  edugen regenerate -s math -g 5 -t "Fractions" --type single_choice --replacing "What is 1/2 + 1/4?"`,
		Args:    cobra.NoArgs,
		RunE:    runRegenerate,
	}
	commonFlags(cmd)
	cmd.Flags().String("type", string(content.TypeSingleChoice), "Item type")
	cmd.Flags().String("replacing", "", "Text of the item being replaced")
	return cmd
}

func runRegenerate(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	typ, _ := cmd.Flags().GetString("type")
	replacing, _ := cmd.Flags().GetString("replacing")
	out := readOutput(cmd)
	req := generator.RegenerateRequest{
		Common:    readCommon(cmd),
		Type:      content.NormalizeType(typ),
		Replacing: replacing,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	gen, err := e.newGenerator(ctx, out.agent)
	if err != nil {
		return err
	}

	var res *generator.RegeneratedItem
	err = runWork(ctx, "Generating item", func(ctx context.Context, _ func(int)) error {
		var err error
		res, err = gen.RegenerateItem(ctx, req)
		return err
	})
	if err != nil {
		return userError(err)
	}

	w := cmd.OutOrStdout()
	if out.asJSON {
		return writeJSON(w, res)
	}
	lipgloss.Fprintln(w, ui.RenderItem(res.Item, res.Answer))
	return nil
}
