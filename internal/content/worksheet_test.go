package content

import (
	"fmt"
	"testing"
)

func singleChoiceItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{Ordinal: i + 1, Type: TypeSingleChoice, Body: &SingleChoice{
			Question: fmt.Sprintf("Question %d", i+1), Options: []string{"a", "b", "c", "d"}, CorrectIndex: intPtr(i % 4),
		}}
	}
	return items
}

func openItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{Ordinal: 100 + i, Type: TypeOpenQuestion, Body: &OpenQuestion{
			Question: fmt.Sprintf("Explain %d", i+1), CorrectAnswer: fmt.Sprintf("answer %d", i+1),
		}}
	}
	return items
}

func TestAssembleWorksheet_ExactCounts(t *testing.T) {
	ws, warns := AssembleWorksheet(singleChoiceItems(10), openItems(5), TargetCounts{Open: 5, Selection: 10})

	if len(ws.TestQuestions) != 10 {
		t.Fatalf("expected 10 test questions, got %d", len(ws.TestQuestions))
	}
	if len(ws.Assignments) != 5 {
		t.Fatalf("expected 5 assignments, got %d", len(ws.Assignments))
	}
	if got := len(ws.Answers.TestAnswers) + len(ws.Answers.AssignmentAnswers); got != 15 {
		t.Fatalf("expected 15 derived answers, got %d", got)
	}
	if len(warns) != 0 {
		t.Errorf("expected no warnings, got %v", warns)
	}
	if ws.TestQuestions[1].Answer != "b" {
		t.Errorf("expected second answer %q, got %q", "b", ws.TestQuestions[1].Answer)
	}
	if ws.Assignments[0].Title != "Task 1" || ws.Assignments[4].Title != "Task 5" {
		t.Errorf("unexpected titles: %q .. %q", ws.Assignments[0].Title, ws.Assignments[4].Title)
	}
	if ws.Answers.AssignmentAnswers[2] != "answer 3" {
		t.Errorf("unexpected assignment answer: %q", ws.Answers.AssignmentAnswers[2])
	}
}

func TestAssembleWorksheet_TruncatesSurplus(t *testing.T) {
	for _, extra := range []int{0, 1, 7, 50} {
		ws, _ := AssembleWorksheet(singleChoiceItems(3+extra), openItems(2+extra), TargetCounts{Open: 2, Selection: 3})
		if len(ws.TestQuestions) > 3 {
			t.Errorf("extra=%d: %d test questions exceed target 3", extra, len(ws.TestQuestions))
		}
		if len(ws.Assignments) > 2 {
			t.Errorf("extra=%d: %d assignments exceed target 2", extra, len(ws.Assignments))
		}
		// Surplus is dropped from the tail, so the first items survive in order.
		if ws.TestQuestions[0].Question != "Question 1" {
			t.Errorf("extra=%d: expected first question kept, got %q", extra, ws.TestQuestions[0].Question)
		}
	}
}

func TestAssembleWorksheet_ShortfallIsNotAnError(t *testing.T) {
	ws, _ := AssembleWorksheet(singleChoiceItems(2), nil, TargetCounts{Open: 4, Selection: 10})
	if len(ws.TestQuestions) != 2 || len(ws.Assignments) != 0 {
		t.Fatalf("expected reduced counts 2/0, got %d/%d", len(ws.TestQuestions), len(ws.Assignments))
	}
	if ws.Assignments == nil || ws.Answers.AssignmentAnswers == nil {
		t.Error("expected empty, non-nil slices for JSON output")
	}
}

func TestAssembleWorksheet_OutOfRangeAnswerWarns(t *testing.T) {
	bad := []Item{{Ordinal: 42, Type: TypeSingleChoice, Body: &SingleChoice{
		Question: "Q", Options: []string{"first", "second", "third", "fourth"}, CorrectIndex: intPtr(7),
	}}}
	ws, warns := AssembleWorksheet(bad, nil, TargetCounts{Selection: 1})
	if ws.Answers.TestAnswers[0] != "first" {
		t.Errorf("expected fallback to first option, got %q", ws.Answers.TestAnswers[0])
	}
	if len(warns) != 1 || warns[0].Ordinal != 42 || warns[0].Code != WarnShapeViolation {
		t.Fatalf("expected one shape warning for ordinal 42, got %+v", warns)
	}
}

func TestAssignmentText_Matching(t *testing.T) {
	it := Item{Type: TypeMatching, Body: &Matching{
		Instruction: "Match the capitals.",
		LeftColumn:  []string{"France", "Italy"},
		RightColumn: []string{"Rome", "Paris"},
	}}
	want := "Match the capitals.\n1. France\n2. Italy\n\nA. Rome\nB. Paris"
	if got := AssignmentText(it); got != want {
		t.Errorf("unexpected text:\n%s\nwant:\n%s", got, want)
	}
}
