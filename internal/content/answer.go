package content

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Delimiters used when rendering derived answers.
const (
	ChoiceDelimiter = ", "
	PairDelimiter   = ", "
	BlankDelimiter  = "; "
)

// Warning codes reported by answer derivation.
const (
	WarnShapeViolation = "shape_violation"
	WarnEmptyAnswer    = "empty_answer"
)

// Warning is a data-quality signal. It is logged, never returned as an error.
type Warning struct {
	Code    string
	Message string
}

// DeriveAnswer computes the canonical answer string for an item. It is a pure
// function of the item: out-of-range references degrade to a fallback value
// plus a shape_violation warning instead of failing.
func DeriveAnswer(it Item) (string, []Warning) {
	var (
		answer string
		warns  []Warning
	)

	switch b := it.Body.(type) {
	case *SingleChoice:
		answer, warns = singleChoiceAnswer(b)
	case *MultipleChoice:
		answer, warns = multipleChoiceAnswer(b)
	case *OpenQuestion:
		answer = b.CorrectAnswer
	case *Matching:
		answer, warns = matchingAnswer(b)
	case *FillBlank:
		answer = fillBlankAnswer(b)
	case *Unrecognized:
		answer = firstString(b.Fields, "correctAnswer", "correct_answer", "answer")
	}

	if strings.TrimSpace(answer) == "" {
		warns = append(warns, Warning{
			Code:    WarnEmptyAnswer,
			Message: fmt.Sprintf("derived answer for %s item is empty", it.Type),
		})
	}
	return answer, warns
}

func singleChoiceAnswer(b *SingleChoice) (string, []Warning) {
	if len(b.Options) == 0 {
		return "", []Warning{{Code: WarnShapeViolation, Message: "single_choice item has no options"}}
	}
	if b.CorrectIndex == nil {
		return b.Options[0], []Warning{{
			Code:    WarnShapeViolation,
			Message: "single_choice correctIndex missing, falling back to first option",
		}}
	}
	idx := *b.CorrectIndex
	if idx < 0 || idx >= len(b.Options) {
		return b.Options[0], []Warning{{
			Code:    WarnShapeViolation,
			Message: fmt.Sprintf("single_choice correctIndex %d out of range [0,%d), falling back to first option", idx, len(b.Options)),
		}}
	}
	return b.Options[idx], nil
}

func multipleChoiceAnswer(b *MultipleChoice) (string, []Warning) {
	var (
		picked []string
		warns  []Warning
	)
	for _, idx := range b.CorrectIndices {
		if idx < 0 || idx >= len(b.Options) {
			warns = append(warns, Warning{
				Code:    WarnShapeViolation,
				Message: fmt.Sprintf("multiple_choice correct index %d out of range [0,%d) dropped", idx, len(b.Options)),
			})
			continue
		}
		picked = append(picked, b.Options[idx])
	}
	return strings.Join(picked, ChoiceDelimiter), warns
}

func matchingAnswer(b *Matching) (string, []Warning) {
	var (
		parts []string
		warns []Warning
	)
	for _, p := range b.CorrectPairs {
		if p.Left < 0 || p.Left >= len(b.LeftColumn) || p.Right < 0 || p.Right >= len(b.RightColumn) {
			warns = append(warns, Warning{
				Code:    WarnShapeViolation,
				Message: fmt.Sprintf("matching pair (%d,%d) out of range %dx%d", p.Left, p.Right, len(b.LeftColumn), len(b.RightColumn)),
			})
		}
		parts = append(parts, PairLabel(p))
	}
	return strings.Join(parts, PairDelimiter), warns
}

func fillBlankAnswer(b *FillBlank) string {
	parts := make([]string, 0, len(b.Blanks))
	for _, bl := range b.Blanks {
		parts = append(parts, fmt.Sprintf("(%d) %s", bl.Position, bl.CorrectAnswer))
	}
	return strings.Join(parts, BlankDelimiter)
}

// PairLabel renders a matching pair as "{left+1}-{Letter(right)}", e.g.
// Pair{0, 2} is "1-C".
func PairLabel(p Pair) string {
	return strconv.Itoa(p.Left+1) + "-" + Letter(p.Right)
}

// Letter returns the alphabetic label of a 0-based index: 0 is "A", 25 is
// "Z", 26 is "AA". Negative indexes render as "?".
func Letter(i int) string {
	if i < 0 {
		return "?"
	}
	var b []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

// letterIndex is the inverse of Letter.
func letterIndex(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return 0, false
		}
		n = n*26 + int(r-'A'+1)
	}
	return n - 1, true
}

// ParsePairLabel parses a display label such as "1-A" back into a Pair.
func ParsePairLabel(s string) (Pair, bool) {
	left, right, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Pair{}, false
	}
	l, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil || l < 1 {
		return Pair{}, false
	}
	r, ok := letterIndex(right)
	if !ok {
		return Pair{}, false
	}
	return Pair{Left: l - 1, Right: r}, true
}

// rawString decodes a JSON string value, returning "" for anything else.
func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
