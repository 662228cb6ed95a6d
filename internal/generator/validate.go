package generator

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/edugen/internal/content"
	"github.com/abhisek/edugen/internal/validation"
)

// ValidationReport summarizes the validation stage.
type ValidationReport struct {
	// Rejected lists the ordinals removed by the deterministic rules.
	Rejected     []int                   `json:"rejected,omitempty"`
	Warnings     int                     `json:"warnings"`
	AgentRan     bool                    `json:"agentRan"`
	AgentError   string                  `json:"agentError,omitempty"`
	AgentIssues  []validation.AgentIssue `json:"agentIssues,omitempty"`
	AgentDropped int                     `json:"agentDropped"`
}

// validate runs the deterministic rules over Selection ++ Open, removes
// every item with an error, then lets the agent review and replace the
// survivors. Items are tracked by ordinal, so removals never depend on
// positions in re-sliced lists. Validation never fails the run: an agent
// error keeps the pre-review items.
func (g *Generator) validate(ctx context.Context, r *run, c Common, fams content.Families) (content.Families, ValidationReport) {
	var report ValidationReport

	combined := fams.Combined()
	outcome := g.config.Rules.Validate(combined, c.Subject, c.Grade)
	report.Warnings = len(outcome.Warnings)
	for _, w := range outcome.Warnings {
		if w.ItemIndex >= 0 && w.ItemIndex < len(combined) {
			r.logger.Debug("validation.warning",
				zap.Int("ordinal", combined[w.ItemIndex].Ordinal),
				zap.String("code", w.Code),
				zap.String("message", w.Message),
			)
		}
	}

	rejected := make(map[int]bool)
	for idx := range outcome.ErrorIndices() {
		if idx < 0 || idx >= len(combined) {
			r.logger.Warn("validation.bad_index", zap.Int("index", idx), zap.Int("items", len(combined)))
			continue
		}
		rejected[combined[idx].Ordinal] = true
	}
	for _, e := range outcome.Errors {
		if e.ItemIndex >= 0 && e.ItemIndex < len(combined) {
			r.logger.Info("validation.rejected",
				zap.Int("ordinal", combined[e.ItemIndex].Ordinal),
				zap.String("code", e.Code),
				zap.String("message", e.Message),
			)
		}
	}

	fams = content.Families{
		Selection: withoutOrdinals(fams.Selection, rejected),
		Open:      withoutOrdinals(fams.Open, rejected),
	}
	for _, it := range combined {
		if rejected[it.Ordinal] {
			report.Rejected = append(report.Rejected, it.Ordinal)
		}
	}

	if !g.config.AgentValidation || g.config.Agent == nil {
		logValidationDone(r, report, fams)
		return fams, report
	}

	// Captured before the fix step: ordinals decide where fixed items go.
	preSelection := ordinalSet(fams.Selection)
	known := ordinalSet(fams.Open)
	for ord := range preSelection {
		known[ord] = true
	}
	survivors := fams.Combined()

	report.AgentRan = true
	out, err := g.config.Agent.Review(ctx, survivors, validation.Context{
		Subject:    c.Subject,
		Grade:      c.Grade,
		Topic:      c.topic(),
		Difficulty: c.Difficulty,
	}, validation.AgentOptions{AutoFix: true})
	if err != nil {
		report.AgentError = err.Error()
		r.logger.Warn("validation.agent_failed", zap.Error(err))
		logValidationDone(r, report, fams)
		return fams, report
	}
	report.AgentIssues = out.Issues
	report.AgentDropped = max(len(survivors)-len(out.FixedItems), 0)

	var resplit content.Families
	for _, it := range out.FixedItems {
		switch {
		case preSelection[it.Ordinal]:
			resplit.Selection = append(resplit.Selection, it)
		case known[it.Ordinal]:
			resplit.Open = append(resplit.Open, it)
		default:
			// Items the agent introduced get a fresh identity and are
			// routed by type.
			r.nextOrdinal++
			it.Ordinal = r.nextOrdinal
			resplit = resplit.Append(content.Classify([]content.Item{it}))
		}
	}

	logValidationDone(r, report, resplit)
	return resplit, report
}

func logValidationDone(r *run, report ValidationReport, fams content.Families) {
	r.logger.Info("validation.done",
		zap.Int("rejected", len(report.Rejected)),
		zap.Bool("agent_ran", report.AgentRan),
		zap.Int("agent_issues", len(report.AgentIssues)),
		zap.Int("agent_dropped", report.AgentDropped),
		zap.Int("selection", len(fams.Selection)),
		zap.Int("open", len(fams.Open)),
	)
}

func withoutOrdinals(items []content.Item, drop map[int]bool) []content.Item {
	out := make([]content.Item, 0, len(items))
	for _, it := range items {
		if !drop[it.Ordinal] {
			out = append(out, it)
		}
	}
	return out
}

func ordinalSet(items []content.Item) map[int]bool {
	set := make(map[int]bool, len(items))
	for _, it := range items {
		set[it.Ordinal] = true
	}
	return set
}
