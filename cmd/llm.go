package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/edugen/internal/llm"
	"github.com/abhisek/edugen/internal/store"
)

func newLLMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "llm",
		Short: "Inspect LLM request/response events",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List recent LLM events",
		Args:  cobra.NoArgs,
		RunE:  runLLMList,
	}
	list.Flags().IntP("limit", "n", 20, "Number of events to show")
	list.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. worksheet, backfill, item-review)")
	list.Flags().String("run", "", "Filter by generation run ID")

	view := &cobra.Command{
		Use:   "view <id>",
		Short: "View full request/response for an LLM event",
		Args:  cobra.ExactArgs(1),
		RunE:  runLLMView,
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregated LLM token usage and estimated cost",
		Args:  cobra.NoArgs,
		RunE:  runLLMStats,
	}

	cmd.AddCommand(list, view, stats)
	return cmd
}

func runLLMList(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	limit, _ := cmd.Flags().GetInt("limit")
	purpose, _ := cmd.Flags().GetString("purpose")
	runID, _ := cmd.Flags().GetString("run")

	events, err := e.store.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{
		Limit:   limit,
		Purpose: purpose,
		RunID:   runID,
	})
	if err != nil {
		return fmt.Errorf("query events: %w", err)
	}

	w := cmd.OutOrStdout()
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM events found.")
		return nil
	}

	fmt.Fprintf(w, "%-5s  %-19s  %-8s  %-14s  %-28s  %-6s  %-6s  %-7s  %s\n",
		"ID", "Timestamp", "Run", "Purpose", "Model", "In", "Out", "Ms", "OK")
	fmt.Fprintln(w, strings.Repeat("─", 110))

	for _, ev := range events {
		ok := "✓"
		if !ev.Success {
			ok = "✗"
		}
		fmt.Fprintf(w, "%-5d  %-19s  %-8s  %-14s  %-28s  %-6d  %-6d  %-7d  %s\n",
			ev.ID,
			ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(ev.RunID, 8),
			ev.Purpose,
			truncate(ev.Model, 28),
			ev.InputTokens,
			ev.OutputTokens,
			ev.LatencyMs,
			ok,
		)
	}
	return nil
}

func runLLMView(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid ID %q: %w", args[0], err)
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	ev, err := e.store.EventRepo().GetLLMEvent(cmd.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("event %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}

	w := cmd.OutOrStdout()
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(w, "ID:        %d\n", ev.ID)
	fmt.Fprintf(w, "Time:      %s\n", ev.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Run:       %s\n", ev.RunID)
	fmt.Fprintf(w, "Provider:  %s\n", ev.Provider)
	fmt.Fprintf(w, "Model:     %s\n", ev.Model)
	fmt.Fprintf(w, "Purpose:   %s\n", ev.Purpose)
	fmt.Fprintf(w, "Tokens:    %d in / %d out\n", ev.InputTokens, ev.OutputTokens)
	fmt.Fprintf(w, "Latency:   %dms\n", ev.LatencyMs)
	fmt.Fprintf(w, "Success:   %v\n", ev.Success)
	if ev.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:     %s\n", ev.ErrorMessage)
	}

	for _, part := range []struct{ name, body string }{
		{"REQUEST", ev.RequestBody},
		{"RESPONSE", ev.ResponseBody},
	} {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sep)
		fmt.Fprintln(w, part.name)
		fmt.Fprintln(w, sep)
		if part.body == "" {
			fmt.Fprintln(w, "(not captured)")
			continue
		}
		fmt.Fprintln(w, part.body)
	}
	return nil
}

func runLLMStats(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	stats, err := e.store.EventRepo().UsageByPurpose(ctx)
	if err != nil {
		return fmt.Errorf("query usage: %w", err)
	}
	if len(stats) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded yet.")
		return nil
	}

	rule := strings.Repeat("─", 80)
	fmt.Fprintln(w, "Usage by Purpose")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-16s  %6s  %6s  %10s  %10s  %10s  %8s\n",
		"Purpose", "Calls", "Failed", "Input", "Output", "Total", "Avg Ms")
	fmt.Fprintln(w, rule)

	var total store.UsageStat
	for _, st := range stats {
		fmt.Fprintf(w, "%-16s  %6d  %6d  %10d  %10d  %10d  %8d\n",
			st.Key, st.Calls, st.Failures, st.InputTokens, st.OutputTokens,
			st.InputTokens+st.OutputTokens, avgLatency(st))
		total.Calls += st.Calls
		total.Failures += st.Failures
		total.InputTokens += st.InputTokens
		total.OutputTokens += st.OutputTokens
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-16s  %6d  %6d  %10d  %10d  %10d\n",
		"TOTAL", total.Calls, total.Failures, total.InputTokens, total.OutputTokens,
		total.InputTokens+total.OutputTokens)

	modelUsage, err := e.store.EventRepo().UsageByModel(ctx)
	if err != nil {
		return fmt.Errorf("query model usage: %w", err)
	}
	if len(modelUsage) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Estimated Cost (USD)")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(w, rule)

	var totalCost float64
	var unknown []string
	for _, mu := range modelUsage {
		cost := llm.LookupCost(mu.Key)
		if cost == nil {
			unknown = append(unknown, mu.Key)
			fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
				truncate(mu.Key, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, "?")
			continue
		}
		c := cost.Cost(mu.InputTokens, mu.OutputTokens)
		totalCost += c
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
			truncate(mu.Key, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, formatCost(c))
	}

	fmt.Fprintln(w, rule)
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(totalCost))
	if len(unknown) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
	return nil
}

func avgLatency(st store.UsageStat) int64 {
	if st.Calls == 0 {
		return 0
	}
	return st.LatencyMs / int64(st.Calls)
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
