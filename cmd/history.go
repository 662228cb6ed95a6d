package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/edugen/internal/content"
	"github.com/abhisek/edugen/internal/generator"
	"github.com/abhisek/edugen/internal/store"
	"github.com/abhisek/edugen/internal/ui"
)

// saveArtifact fills the request fields of rec and stores it.
func saveArtifact(ctx context.Context, e *env, rec *store.ArtifactRecord, c generator.Common, req, artifact any) error {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	contentJSON, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("encode %s: %w", rec.Kind, err)
	}
	rec.Subject = string(c.Subject)
	rec.Grade = c.Grade
	rec.Topic = c.Topic
	rec.Difficulty = string(c.Difficulty)
	rec.Version = buildVersion()
	rec.RequestJSON = string(reqJSON)
	rec.ContentJSON = string(contentJSON)

	if err := e.store.ArtifactRepo().Save(ctx, rec); err != nil {
		return err
	}
	e.logger.Sugar().Debugw("artifact.saved", "id", rec.ID, "kind", rec.Kind)
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and show stored worksheets and presentations",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored artifacts, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryList,
	}
	list.Flags().IntP("limit", "n", 20, "Number of artifacts to show")
	list.Flags().StringP("kind", "k", "", "Filter by kind: worksheet, presentation")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored artifact by ID or unique ID prefix",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShow,
	}
	show.Flags().Bool("json", false, "Print the stored JSON")
	show.Flags().Bool("answers", true, "Include the answer key of worksheets")

	cmd.AddCommand(list, show)
	return cmd
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	limit, _ := cmd.Flags().GetInt("limit")
	kind, _ := cmd.Flags().GetString("kind")
	switch kind {
	case "", store.KindWorksheet, store.KindPresentation:
	default:
		return fmt.Errorf("unknown kind %q", kind)
	}

	recs, err := e.store.ArtifactRepo().List(cmd.Context(), kind, limit)
	if err != nil {
		return fmt.Errorf("list artifacts: %w", err)
	}

	w := cmd.OutOrStdout()
	if len(recs) == 0 {
		fmt.Fprintln(w, "No artifacts stored yet.")
		return nil
	}

	fmt.Fprintf(w, "%-8s  %-16s  %-12s  %-16s  %5s  %-30s  %s\n",
		"ID", "Timestamp", "Kind", "Subject", "Grade", "Topic", "Missing")
	fmt.Fprintln(w, strings.Repeat("─", 110))
	for _, r := range recs {
		missing := "-"
		if r.Kind == store.KindWorksheet {
			missing = fmt.Sprintf("%d", r.MissingSelection+r.MissingOpen)
		}
		fmt.Fprintf(w, "%-8s  %-16s  %-12s  %-16s  %5d  %-30s  %s\n",
			truncate(r.ID, 8),
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.Kind,
			r.Subject,
			r.Grade,
			truncate(r.Topic, 30),
			missing,
		)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	rec, err := e.store.ArtifactRepo().Get(cmd.Context(), args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("artifact %q not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("get artifact: %w", err)
	}

	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		fmt.Fprintln(w, rec.ContentJSON)
		return nil
	}

	var c generator.Common
	if err := json.Unmarshal([]byte(rec.RequestJSON), &c); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}

	switch rec.Kind {
	case store.KindWorksheet:
		var ws content.Worksheet
		if err := json.Unmarshal([]byte(rec.ContentJSON), &ws); err != nil {
			return fmt.Errorf("decode worksheet: %w", err)
		}
		answers, _ := cmd.Flags().GetBool("answers")
		lipgloss.Fprintln(w, ui.RenderWorksheet(title(c), ws, answers))
	case store.KindPresentation:
		var p content.Presentation
		if err := json.Unmarshal([]byte(rec.ContentJSON), &p); err != nil {
			return fmt.Errorf("decode presentation: %w", err)
		}
		lipgloss.Fprintln(w, ui.RenderPresentation(p))
	default:
		return fmt.Errorf("artifact %s has unknown kind %q", rec.ID, rec.Kind)
	}
	fmt.Fprintf(w, "\nmodel %s · %s · %s\n", rec.Model, rec.Version, rec.Timestamp.Local().Format("2006-01-02 15:04"))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
