// Package prompt builds system and user prompts for content generation.
package prompt

import "github.com/abhisek/edugen/internal/content"

// Prompts is a system/user prompt pair sent to the model.
type Prompts struct {
	System string
	User   string
}

// Assembler builds prompts. Implementations must be pure.
type Assembler interface {
	Worksheet(p WorksheetParams) Prompts
	Backfill(p BackfillParams) Prompts
	Single(p SingleParams) Prompts
	Presentation(p PresentationParams) Prompts
}

// Common holds the parameters shared by every prompt.
type Common struct {
	Subject    content.Subject
	Grade      int
	Topic      string
	Difficulty content.Difficulty
}

// WorksheetParams describes the initial worksheet request.
type WorksheetParams struct {
	Common
	ItemTypes []content.ItemType
	Target    content.TargetCounts
}

// BackfillParams asks for a small, exact number of missing items. A zero
// count means that family needs nothing.
type BackfillParams struct {
	Common
	SelectionType  content.ItemType
	SelectionCount int
	OpenType       content.ItemType
	OpenCount      int

	// Existing holds question texts already generated, to avoid repeats.
	Existing []string
}

// Total returns the exact number of items the backfill prompt requests.
func (p BackfillParams) Total() int { return p.SelectionCount + p.OpenCount }

// SingleParams asks for exactly one item of a given type.
type SingleParams struct {
	Common
	Type content.ItemType

	// Replacing is the text of the item being regenerated, if any.
	Replacing string
}

// PresentationParams describes a slide deck request.
type PresentationParams struct {
	Common
	SlideCount int
}

// Default is the built-in Assembler.
type Default struct {
	// MaxExisting bounds how many existing questions are listed in
	// backfill prompts. Zero means 20.
	MaxExisting int
}

var _ Assembler = Default{}
