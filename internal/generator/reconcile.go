package generator

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/edugen/internal/content"
	"github.com/abhisek/edugen/internal/prompt"
)

// shortfall is the reconciler state.
type shortfall int

const (
	satisfied shortfall = iota
	needsSelection
	needsOpen
	needsBoth
)

func (s shortfall) String() string {
	switch s {
	case satisfied:
		return "satisfied"
	case needsSelection:
		return "needs_selection"
	case needsOpen:
		return "needs_open"
	case needsBoth:
		return "needs_both"
	}
	return "unknown"
}

// missing returns the shortfall state and the per-family deficits.
func missing(f content.Families, target content.TargetCounts) (shortfall, content.TargetCounts) {
	m := content.TargetCounts{
		Selection: max(target.Selection-len(f.Selection), 0),
		Open:      max(target.Open-len(f.Open), 0),
	}
	switch {
	case m.Selection > 0 && m.Open > 0:
		return needsBoth, m
	case m.Selection > 0:
		return needsSelection, m
	case m.Open > 0:
		return needsOpen, m
	}
	return satisfied, m
}

// RoundReport describes one backfill attempt.
type RoundReport struct {
	Attempt       int                  `json:"attempt"`
	Requested     content.TargetCounts `json:"requested"`
	SelectionType content.ItemType     `json:"selectionType,omitempty"`
	OpenType      content.ItemType     `json:"openType,omitempty"`
	Received      int                  `json:"received"`
	Error         string               `json:"error,omitempty"`
}

// ReconcileReport summarizes the backfill loop. A non-zero Missing* after
// the loop means the artifact is smaller than requested.
type ReconcileReport struct {
	Attempts         int           `json:"attempts"`
	Rounds           []RoundReport `json:"rounds,omitempty"`
	MissingSelection int           `json:"missingSelection"`
	MissingOpen      int           `json:"missingOpen"`
}

// reconcile tops up both families until they reach their targets or the
// attempt budget runs out. Attempts are sequential; each one asks for
// exactly the missing items, one type per family, rotating through the
// family's types by attempt number. A failed attempt is logged and counts
// against the budget. Existing items are never removed or reordered.
func (g *Generator) reconcile(ctx context.Context, r *run, req WorksheetRequest, target content.TargetCounts, fams content.Families) (content.Families, ReconcileReport) {
	var report ReconcileReport
	selTypes := g.config.typesFor(content.FamilySelection, req.Format, req.ItemTypes)
	openTypes := g.config.typesFor(content.FamilyOpen, req.Format, req.ItemTypes)

	for attempt := 0; attempt < g.config.MaxBackfillAttempts; attempt++ {
		state, need := missing(fams, target)
		if state == satisfied {
			break
		}
		if ctx.Err() != nil {
			r.logger.Info("reconcile.canceled", zap.Int("attempt", attempt+1))
			break
		}

		round := RoundReport{Attempt: attempt + 1, Requested: need}
		params := prompt.BackfillParams{
			Common:   promptCommon(req.Common),
			Existing: itemTexts(fams),
		}
		if need.Selection > 0 {
			round.SelectionType = selTypes[attempt%len(selTypes)]
			params.SelectionType = round.SelectionType
			params.SelectionCount = need.Selection
		}
		if need.Open > 0 {
			round.OpenType = openTypes[attempt%len(openTypes)]
			params.OpenType = round.OpenType
			params.OpenCount = need.Open
		}

		report.Attempts++
		r.logger.Info("reconcile.attempt",
			zap.Int("attempt", round.Attempt),
			zap.Stringer("state", state),
			zap.Int("missing_selection", need.Selection),
			zap.Int("missing_open", need.Open),
		)

		raw, err := g.invoke(ctx, r, PurposeBackfill, g.config.Prompts.Backfill(params))
		if err == nil {
			var items []content.Item
			items, err = g.parseItems(r, raw)
			if err == nil {
				round.Received = len(items)
				fams = fams.Append(content.Classify(items))
			}
		}
		if err != nil {
			round.Error = err.Error()
			r.logger.Warn("reconcile.attempt_failed", zap.Int("attempt", round.Attempt), zap.Error(err))
		}
		report.Rounds = append(report.Rounds, round)
	}

	_, final := missing(fams, target)
	report.MissingSelection = final.Selection
	report.MissingOpen = final.Open

	fields := []zap.Field{
		zap.Int("attempts", report.Attempts),
		zap.Int("missing_selection", final.Selection),
		zap.Int("missing_open", final.Open),
	}
	if final.Total() > 0 {
		r.logger.Warn("reconcile.exhausted", fields...)
	} else {
		r.logger.Info("reconcile.done", fields...)
	}
	return fams, report
}

func itemTexts(f content.Families) []string {
	out := make([]string, 0, f.Len())
	for _, it := range f.Combined() {
		if t := it.Text(); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func promptCommon(c Common) prompt.Common {
	return prompt.Common{
		Subject:    c.Subject,
		Grade:      c.Grade,
		Topic:      c.topic(),
		Difficulty: c.Difficulty,
	}
}
