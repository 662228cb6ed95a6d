package content

import (
	"fmt"
	"strings"
)

// Worksheet is the final, schema-conformant worksheet artifact.
type Worksheet struct {
	Assignments   []Assignment   `json:"assignments"`
	TestQuestions []TestQuestion `json:"testQuestions"`
	Answers       Answers        `json:"answers"`
}

// Assignment is one numbered open task.
type Assignment struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// TestQuestion is one selection-style question.
type TestQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Answers is the answer key, aligned with Assignments and TestQuestions.
type Answers struct {
	AssignmentAnswers []string `json:"assignmentAnswers"`
	TestAnswers       []string `json:"testAnswers"`
}

// ItemWarning ties a derivation warning to the item that produced it.
type ItemWarning struct {
	Ordinal int
	Type    ItemType
	Warning
}

// AssembleWorksheet converts validated, classified items into a Worksheet.
// Each family is truncated to its target count; surplus items are dropped
// silently. Open items are numbered into "Task N" titles. All warnings
// raised while deriving answers are returned for the caller to log.
func AssembleWorksheet(selection, open []Item, target TargetCounts) (Worksheet, []ItemWarning) {
	selection = truncate(selection, target.Selection)
	open = truncate(open, target.Open)

	ws := Worksheet{
		Assignments:   make([]Assignment, 0, len(open)),
		TestQuestions: make([]TestQuestion, 0, len(selection)),
		Answers: Answers{
			AssignmentAnswers: make([]string, 0, len(open)),
			TestAnswers:       make([]string, 0, len(selection)),
		},
	}

	var warnings []ItemWarning
	collect := func(it Item, ws []Warning) {
		for _, w := range ws {
			warnings = append(warnings, ItemWarning{Ordinal: it.Ordinal, Type: it.Type, Warning: w})
		}
	}

	for _, it := range selection {
		answer, w := DeriveAnswer(it)
		collect(it, w)
		ws.TestQuestions = append(ws.TestQuestions, TestQuestion{
			Question: it.Text(),
			Options:  append([]string(nil), it.Options()...),
			Answer:   answer,
		})
		ws.Answers.TestAnswers = append(ws.Answers.TestAnswers, answer)
	}

	for i, it := range open {
		answer, w := DeriveAnswer(it)
		collect(it, w)
		ws.Assignments = append(ws.Assignments, Assignment{
			Title: fmt.Sprintf("Task %d", i+1),
			Text:  AssignmentText(it),
		})
		ws.Answers.AssignmentAnswers = append(ws.Answers.AssignmentAnswers, answer)
	}

	return ws, warnings
}

// AssignmentText renders the learner-facing text of an open item.
func AssignmentText(it Item) string {
	switch b := it.Body.(type) {
	case *OpenQuestion:
		return b.Question
	case *Matching:
		var sb strings.Builder
		sb.WriteString(b.Instruction)
		for i, l := range b.LeftColumn {
			fmt.Fprintf(&sb, "\n%d. %s", i+1, l)
		}
		if len(b.RightColumn) > 0 {
			sb.WriteString("\n")
		}
		for i, r := range b.RightColumn {
			fmt.Fprintf(&sb, "\n%s. %s", Letter(i), r)
		}
		return strings.TrimSpace(sb.String())
	case *FillBlank:
		return b.TextWithBlanks
	case *SingleChoice, *MultipleChoice:
		// Only reachable when a selection item is assembled as an assignment.
		var sb strings.Builder
		sb.WriteString(it.Text())
		for i, o := range it.Options() {
			fmt.Fprintf(&sb, "\n%s) %s", Letter(i), o)
		}
		return sb.String()
	}
	return it.Text()
}

func truncate(items []Item, n int) []Item {
	if n < 0 {
		n = 0
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}
