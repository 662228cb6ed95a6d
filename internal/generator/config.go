package generator

import (
	"fmt"
	"time"

	"github.com/abhisek/edugen/internal/content"
	"github.com/abhisek/edugen/internal/llm"
	"github.com/abhisek/edugen/internal/prompt"
	"github.com/abhisek/edugen/internal/validation"
)

// FormatSpec defines the default item types and count variants of a format.
type FormatSpec struct {
	ItemTypes []content.ItemType     `yaml:"item_types"`
	Variants  []content.TargetCounts `yaml:"variants"`
}

// Config controls the behavior of the Generator.
type Config struct {
	// Prompts builds every prompt. Nil means prompt.Default{}.
	Prompts prompt.Assembler `yaml:"-"`

	// Rules rejects structurally broken items. Nil means validation.NewRules().
	Rules validation.Deterministic `yaml:"-"`

	// Agent reviews and repairs surviving items. Nil skips the review.
	Agent validation.Agent `yaml:"-"`

	// AgentValidation enables the Agent stage.
	AgentValidation bool `yaml:"agent_validation"`

	// MaxBackfillAttempts bounds the extra calls made to cover a shortfall.
	MaxBackfillAttempts int `yaml:"max_backfill_attempts"`

	// CallTimeout bounds each model call, retries included.
	CallTimeout time.Duration `yaml:"call_timeout"`

	// MaxTokens is the token budget for each model response.
	MaxTokens int `yaml:"max_tokens"`

	// Temperature controls model output randomness (0.0-1.0).
	Temperature float64 `yaml:"temperature"`

	// Tiers selects the model for free and paid requests.
	Tiers llm.Tiers `yaml:"-"`

	// Formats maps each worksheet format to its defaults.
	Formats map[content.Format]FormatSpec `yaml:"formats"`

	// DefaultSlides is used when a presentation request has no slide count.
	DefaultSlides int `yaml:"default_slides"`
}

// DefaultFormats returns the built-in worksheet formats.
func DefaultFormats() map[content.Format]FormatSpec {
	return map[content.Format]FormatSpec{
		content.FormatTest: {
			ItemTypes: []content.ItemType{content.TypeSingleChoice, content.TypeMultipleChoice},
			Variants:  []content.TargetCounts{{Selection: 10}, {Selection: 15}, {Selection: 20}},
		},
		content.FormatOpen: {
			ItemTypes: []content.ItemType{content.TypeOpenQuestion, content.TypeMatching, content.TypeFillBlank},
			Variants:  []content.TargetCounts{{Open: 5}, {Open: 8}, {Open: 10}},
		},
		content.FormatMixed: {
			ItemTypes: []content.ItemType{
				content.TypeSingleChoice, content.TypeMultipleChoice,
				content.TypeOpenQuestion, content.TypeMatching, content.TypeFillBlank,
			},
			Variants: []content.TargetCounts{{Open: 5, Selection: 10}, {Open: 3, Selection: 7}, {Open: 6, Selection: 14}},
		},
	}
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		AgentValidation:     true,
		MaxBackfillAttempts: 3,
		CallTimeout:         90 * time.Second,
		MaxTokens:           8192,
		Temperature:         0.7,
		Formats:             DefaultFormats(),
		DefaultSlides:       DefaultSlideCount,
	}
}

// Target returns the counts for a format variant. Indices past the last
// variant clamp to the last one.
func (c Config) Target(format content.Format, variant int) (content.TargetCounts, error) {
	spec, ok := c.Formats[format]
	if !ok || len(spec.Variants) == 0 {
		return content.TargetCounts{}, fmt.Errorf("%w: unknown format %q", ErrInvalidRequest, format)
	}
	if variant < 0 {
		variant = 0
	}
	if variant >= len(spec.Variants) {
		variant = len(spec.Variants) - 1
	}
	return spec.Variants[variant], nil
}

// typesFor returns the item types to use for one family: the requested
// types of that family, else the format defaults of that family, else every
// recognized type of the family.
func (c Config) typesFor(family content.Family, format content.Format, requested []content.ItemType) []content.ItemType {
	pick := func(types []content.ItemType) []content.ItemType {
		var out []content.ItemType
		for _, t := range types {
			if content.FamilyOf(t) == family {
				out = append(out, t)
			}
		}
		return out
	}
	if out := pick(requested); len(out) > 0 {
		return out
	}
	if out := pick(c.Formats[format].ItemTypes); len(out) > 0 {
		return out
	}
	if family == content.FamilySelection {
		return content.SelectionTypes
	}
	return content.OpenTypes
}
