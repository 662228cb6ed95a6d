// Package validation checks generated items before assembly. Deterministic
// rules reject malformed items; an LLM reviewer critiques and repairs the
// survivors.
package validation

import (
	"context"

	"github.com/abhisek/edugen/internal/content"
)

// Issue is a single finding against the item at ItemIndex of the validated
// sequence.
type Issue struct {
	ItemIndex int
	Code      string
	Message   string
}

// Outcome is the result of deterministic validation. Items referenced by
// Errors must be removed; Warnings are informational.
type Outcome struct {
	Valid    bool
	Errors   []Issue
	Warnings []Issue
}

// ErrorIndices returns the distinct item indices that have errors.
func (o Outcome) ErrorIndices() map[int]bool {
	idx := make(map[int]bool, len(o.Errors))
	for _, e := range o.Errors {
		idx[e.ItemIndex] = true
	}
	return idx
}

// Deterministic validates items without calling a model.
type Deterministic interface {
	Validate(items []content.Item, subject content.Subject, grade int) Outcome
}

// Context is the generation context given to the reviewer.
type Context struct {
	Subject    content.Subject
	Grade      int
	Topic      string
	Difficulty content.Difficulty
}

// AgentOptions controls the reviewer.
type AgentOptions struct {
	// AutoFix lets the reviewer replace items with corrected versions.
	AutoFix bool
}

// Verdicts returned by the reviewer per item.
const (
	VerdictOK   = "ok"
	VerdictFix  = "fix"
	VerdictDrop = "drop"
)

// AgentIssue is a reviewer finding for the item with the given ordinal.
type AgentIssue struct {
	Ordinal int
	Verdict string
	Message string
}

// AgentOutcome is the result of a review pass. FixedItems is the complete
// replacement sequence: corrected items keep their ordinal, dropped items
// are absent, and order is preserved.
type AgentOutcome struct {
	ProblemItems []content.Item
	FixedItems   []content.Item
	Issues       []AgentIssue
}

// Agent reviews items with a model.
type Agent interface {
	Review(ctx context.Context, items []content.Item, c Context, opts AgentOptions) (AgentOutcome, error)
}

// PassThrough is an Agent that accepts every item unchanged.
type PassThrough struct{}

func (PassThrough) Review(_ context.Context, items []content.Item, _ Context, _ AgentOptions) (AgentOutcome, error) {
	return AgentOutcome{FixedItems: append([]content.Item(nil), items...)}, nil
}
