package prompt

import (
	"fmt"
	"strings"

	"github.com/abhisek/edugen/internal/content"
)

const worksheetSystemPrompt = `You are an experienced school teacher who writes worksheets.

Rules:
- Respond with a single JSON object and nothing else: {"tasks": [ ... ]}.
- Every task has a "type" field: one of "single_choice", "multiple_choice", "open_question", "matching", "fill_blank".
- Use exactly the field names shown in the examples. Indices are 0-based integers.
- Content must be factually correct and appropriate for the grade and difficulty.
- Selection tasks need 4 distinct options; distractors should reflect common mistakes.
- Do not number the tasks and do not add commentary outside the JSON.`

// shapeExamples are embedded in prompts to reduce shape drift.
var shapeExamples = map[content.ItemType]string{
	content.TypeSingleChoice:   `{"type": "single_choice", "question": "What is 7 * 8?", "options": ["54", "56", "58", "64"], "correctIndex": 1}`,
	content.TypeMultipleChoice: `{"type": "multiple_choice", "question": "Which numbers are prime?", "options": ["2", "4", "5", "9"], "correctIndices": [0, 2]}`,
	content.TypeOpenQuestion:   `{"type": "open_question", "question": "Explain why ice floats on water.", "correctAnswer": "Ice is less dense than liquid water."}`,
	content.TypeMatching:       `{"type": "matching", "instruction": "Match each country to its capital.", "leftColumn": ["France", "Japan"], "rightColumn": ["Tokyo", "Paris"], "correctPairs": [[0, 1], [1, 0]]}`,
	content.TypeFillBlank:      `{"type": "fill_blank", "textWithBlanks": "Water boils at (1) degrees Celsius at (2) pressure.", "blanks": [{"position": 1, "correctAnswer": "100"}, {"position": 2, "correctAnswer": "sea-level"}]}`,
}

var difficultyGuidance = map[content.Difficulty]string{
	content.DifficultyEasy:   "basic recall and one-step reasoning",
	content.DifficultyMedium: "application of the concept in familiar situations",
	content.DifficultyHard:   "multi-step reasoning and transfer to unfamiliar situations",
}

// ShapeExample returns the JSON example for an item type, or "" if unknown.
func ShapeExample(t content.ItemType) string {
	return shapeExamples[t]
}

func writeCommon(b *strings.Builder, c Common) {
	fmt.Fprintf(b, "Subject: %s\n", c.Subject.Label())
	fmt.Fprintf(b, "Grade: %d\n", c.Grade)
	fmt.Fprintf(b, "Topic: %s\n", c.Topic)
	fmt.Fprintf(b, "Difficulty: %s (%s)\n", c.Difficulty, difficultyGuidance[c.Difficulty])
}

func writeExamples(b *strings.Builder, types []content.ItemType) {
	b.WriteString("\nJSON shape of each task type:\n")
	for _, t := range types {
		if ex := shapeExamples[t]; ex != "" {
			fmt.Fprintf(b, "- %s: %s\n", t, ex)
		}
	}
}

// splitTypes returns the requested types of each family in request order.
func splitTypes(types []content.ItemType) (sel, open []content.ItemType) {
	for _, t := range types {
		if content.FamilyOf(t) == content.FamilySelection {
			sel = append(sel, t)
		} else {
			open = append(open, t)
		}
	}
	return sel, open
}

func typeList(types []content.ItemType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = `"` + string(t) + `"`
	}
	return strings.Join(names, ", ")
}

// Worksheet builds the initial generation prompt.
func (d Default) Worksheet(p WorksheetParams) Prompts {
	sel, open := splitTypes(p.ItemTypes)

	var b strings.Builder
	writeCommon(&b, p.Common)

	b.WriteString("\nGenerate a worksheet with:\n")
	if p.Target.Selection > 0 {
		fmt.Fprintf(&b, "- exactly %d test tasks using the types %s\n", p.Target.Selection, typeList(sel))
	}
	if p.Target.Open > 0 {
		fmt.Fprintf(&b, "- exactly %d open tasks using the types %s\n", p.Target.Open, typeList(open))
	}
	fmt.Fprintf(&b, "Total: %d tasks.", p.Target.Total())
	if p.Target.Selection > 0 && p.Target.Open > 0 {
		b.WriteString(" List all test tasks first, then the open tasks.")
	}
	b.WriteString("\n")

	var shown []content.ItemType
	if p.Target.Selection > 0 {
		shown = append(shown, sel...)
	}
	if p.Target.Open > 0 {
		shown = append(shown, open...)
	}
	writeExamples(&b, shown)

	return Prompts{System: worksheetSystemPrompt, User: b.String()}
}

// Backfill builds a focused prompt requesting exactly p.Total() items.
func (d Default) Backfill(p BackfillParams) Prompts {
	var b strings.Builder
	writeCommon(&b, p.Common)

	fmt.Fprintf(&b, "\nGenerate exactly %d additional tasks:\n", p.Total())
	var shown []content.ItemType
	if p.SelectionCount > 0 {
		fmt.Fprintf(&b, "- %d tasks of type %q\n", p.SelectionCount, p.SelectionType)
		shown = append(shown, p.SelectionType)
	}
	if p.OpenCount > 0 {
		fmt.Fprintf(&b, "- %d tasks of type %q\n", p.OpenCount, p.OpenType)
		shown = append(shown, p.OpenType)
	}
	writeExamples(&b, shown)

	b.WriteString("\nDo not repeat these existing tasks:\n")
	b.WriteString(existingList(p.Existing, d.maxExisting()))

	fmt.Fprintf(&b, "\n\nReturn {\"tasks\": [...]} with exactly %d elements.", p.Total())
	return Prompts{System: worksheetSystemPrompt, User: b.String()}
}

// Single builds a prompt for one replacement item.
func (d Default) Single(p SingleParams) Prompts {
	var b strings.Builder
	writeCommon(&b, p.Common)

	fmt.Fprintf(&b, "\nGenerate exactly 1 task of type %q.\n", p.Type)
	writeExamples(&b, []content.ItemType{p.Type})
	if p.Replacing != "" {
		fmt.Fprintf(&b, "\nIt replaces this task, so it must be different from it:\n%s\n", p.Replacing)
	}
	b.WriteString("\nReturn {\"tasks\": [ ... ]} with exactly 1 element.")
	return Prompts{System: worksheetSystemPrompt, User: b.String()}
}

func (d Default) maxExisting() int {
	if d.MaxExisting > 0 {
		return d.MaxExisting
	}
	return 20
}

// existingList formats prior task texts, keeping only the most recent max.
func existingList(existing []string, max int) string {
	if len(existing) == 0 {
		return "None"
	}
	if max > 0 && len(existing) > max {
		existing = existing[len(existing)-max:]
	}
	var b strings.Builder
	for i, q := range existing {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
