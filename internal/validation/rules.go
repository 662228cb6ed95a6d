package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/edugen/internal/content"
)

// Issue codes.
const (
	CodeShape           = "shape"
	CodeEmptyQuestion   = "empty_question"
	CodeTooFewOptions   = "too_few_options"
	CodeEmptyColumns    = "empty_columns"
	CodeNoBlanks        = "no_blanks"
	CodeDuplicateOption = "duplicate_option"
	CodeIndexRange      = "index_out_of_range"
	CodeEmptyAnswer     = "empty_answer"
	CodeDuplicateItem   = "duplicate_item"
	CodeLongText        = "long_text"
	CodeUnknownType     = "unknown_type"
)

// Rules is the built-in Deterministic validator.
//
// Only structural defects are errors. Out-of-range answer references are
// warnings because the assembler degrades them to a fallback answer.
type Rules struct {
	// YoungGrade is the highest grade that gets the long-text warning.
	YoungGrade int
	// MaxYoungRunes is the text length above which the warning fires.
	MaxYoungRunes int
}

// NewRules returns Rules with default thresholds.
func NewRules() *Rules {
	return &Rules{YoungGrade: 4, MaxYoungRunes: 300}
}

var _ Deterministic = (*Rules)(nil)

// Validate applies every rule to every item. Indices in the outcome refer
// to positions in items.
func (r *Rules) Validate(items []content.Item, subject content.Subject, grade int) Outcome {
	var out Outcome
	seen := make(map[string]int, len(items))

	for i, it := range items {
		errs, warns := r.check(it, grade)
		for _, e := range errs {
			e.ItemIndex = i
			out.Errors = append(out.Errors, e)
		}
		for _, w := range warns {
			w.ItemIndex = i
			out.Warnings = append(out.Warnings, w)
		}

		key := normalizeText(it.Text())
		if key == "" {
			continue
		}
		if first, dup := seen[key]; dup {
			out.Warnings = append(out.Warnings, Issue{
				ItemIndex: i,
				Code:      CodeDuplicateItem,
				Message:   fmt.Sprintf("same text as item %d", first),
			})
		} else {
			seen[key] = i
		}
	}

	out.Valid = len(out.Errors) == 0
	return out
}

func (r *Rules) check(it content.Item, grade int) (errs, warns []Issue) {
	fail := func(code, format string, args ...any) {
		errs = append(errs, Issue{Code: code, Message: fmt.Sprintf(format, args...)})
	}
	warn := func(code, format string, args ...any) {
		warns = append(warns, Issue{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if it.Body == nil {
		fail(CodeShape, "item has no body")
		return errs, warns
	}
	if err := checkShape(it); err != nil {
		fail(CodeShape, "%s: %v", it.Type, err)
	}

	text := strings.TrimSpace(it.Text())
	if text == "" {
		fail(CodeEmptyQuestion, "%s item has no question text", it.Type)
	}
	if grade > 0 && grade <= r.YoungGrade && utf8.RuneCountInString(text) > r.MaxYoungRunes {
		warn(CodeLongText, "text has %d characters, long for grade %d", utf8.RuneCountInString(text), grade)
	}

	switch b := it.Body.(type) {
	case *content.SingleChoice:
		checkOptions(b.Options, fail, warn)
		if b.CorrectIndex == nil {
			warn(CodeIndexRange, "no correct option given")
		} else if *b.CorrectIndex < 0 || *b.CorrectIndex >= len(b.Options) {
			warn(CodeIndexRange, "correct index %d outside %d options", *b.CorrectIndex, len(b.Options))
		}
	case *content.MultipleChoice:
		checkOptions(b.Options, fail, warn)
		if len(b.CorrectIndices) == 0 {
			warn(CodeIndexRange, "no correct options given")
		}
		for _, idx := range b.CorrectIndices {
			if idx < 0 || idx >= len(b.Options) {
				warn(CodeIndexRange, "correct index %d outside %d options", idx, len(b.Options))
			}
		}
	case *content.OpenQuestion:
		if strings.TrimSpace(b.CorrectAnswer) == "" {
			warn(CodeEmptyAnswer, "open question has no reference answer")
		}
	case *content.Matching:
		if len(b.LeftColumn) == 0 || len(b.RightColumn) == 0 {
			fail(CodeEmptyColumns, "matching needs both columns, got %d and %d", len(b.LeftColumn), len(b.RightColumn))
		}
		if len(b.CorrectPairs) == 0 {
			warn(CodeEmptyAnswer, "matching has no correct pairs")
		}
		for _, p := range b.CorrectPairs {
			if p.Left < 0 || p.Left >= len(b.LeftColumn) || p.Right < 0 || p.Right >= len(b.RightColumn) {
				warn(CodeIndexRange, "pair %s outside %dx%d columns", content.PairLabel(p), len(b.LeftColumn), len(b.RightColumn))
			}
		}
	case *content.FillBlank:
		if len(b.Blanks) == 0 {
			fail(CodeNoBlanks, "fill-in-the-blank text has no blanks")
		}
		for _, bl := range b.Blanks {
			if strings.TrimSpace(bl.CorrectAnswer) == "" {
				warn(CodeEmptyAnswer, "blank (%d) has no answer", bl.Position)
			}
		}
	case *content.Unrecognized:
		warn(CodeUnknownType, "unrecognized item type %q", b.RawType)
	}
	return errs, warns
}

func checkOptions(options []string, fail, warn func(code, format string, args ...any)) {
	if len(options) < 2 {
		fail(CodeTooFewOptions, "selection item needs at least 2 options, got %d", len(options))
		return
	}
	seen := make(map[string]bool, len(options))
	for _, o := range options {
		key := normalizeText(o)
		if seen[key] {
			warn(CodeDuplicateOption, "option %q appears more than once", o)
		}
		seen[key] = true
	}
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
