package prompt

import (
	"strings"
	"testing"

	"github.com/abhisek/edugen/internal/content"
)

func common() Common {
	return Common{
		Subject:    content.SubjectBiology,
		Grade:      7,
		Topic:      "Photosynthesis",
		Difficulty: content.DifficultyMedium,
	}
}

func TestWorksheet_IncludesCountsAndShapes(t *testing.T) {
	p := Default{}.Worksheet(WorksheetParams{
		Common:    common(),
		ItemTypes: []content.ItemType{content.TypeSingleChoice, content.TypeOpenQuestion},
		Target:    content.TargetCounts{Open: 5, Selection: 10},
	})

	for _, want := range []string{
		"Subject: Biology", "Grade: 7", "Topic: Photosynthesis",
		"exactly 10 test tasks", "exactly 5 open tasks", "Total: 15 tasks",
		ShapeExample(content.TypeSingleChoice), ShapeExample(content.TypeOpenQuestion),
	} {
		if !strings.Contains(p.User, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
	if strings.Contains(p.User, ShapeExample(content.TypeMatching)) {
		t.Error("user prompt should only show requested types")
	}
	if p.System == "" {
		t.Error("expected system prompt")
	}
}

func TestWorksheet_OmitsEmptyFamily(t *testing.T) {
	p := Default{}.Worksheet(WorksheetParams{
		Common:    common(),
		ItemTypes: []content.ItemType{content.TypeSingleChoice, content.TypeOpenQuestion},
		Target:    content.TargetCounts{Selection: 10},
	})
	if strings.Contains(p.User, "open tasks") {
		t.Error("did not expect open tasks line when open count is zero")
	}
	if strings.Contains(p.User, ShapeExample(content.TypeOpenQuestion)) {
		t.Error("did not expect open example when open count is zero")
	}
}

func TestWorksheet_OrderingOnlyWhenMixed(t *testing.T) {
	const ordering = "List all test tasks first"
	open := Default{}.Worksheet(WorksheetParams{
		Common:    common(),
		ItemTypes: []content.ItemType{content.TypeSingleChoice, content.TypeOpenQuestion},
		Target:    content.TargetCounts{Open: 4},
	})
	if strings.Contains(open.User, "test tasks") {
		t.Errorf("did not expect test tasks in open-only prompt:\n%s", open.User)
	}
	if !strings.Contains(open.User, "Total: 4 tasks.") {
		t.Errorf("missing total line:\n%s", open.User)
	}

	mixed := Default{}.Worksheet(WorksheetParams{
		Common:    common(),
		ItemTypes: []content.ItemType{content.TypeSingleChoice, content.TypeOpenQuestion},
		Target:    content.TargetCounts{Open: 2, Selection: 3},
	})
	if !strings.Contains(mixed.User, ordering) {
		t.Errorf("expected ordering sentence in mixed prompt:\n%s", mixed.User)
	}
}

func TestBackfill_RequestsExactTotal(t *testing.T) {
	p := Default{}.Backfill(BackfillParams{
		Common:         common(),
		SelectionType:  content.TypeMultipleChoice,
		SelectionCount: 3,
		OpenType:       content.TypeFillBlank,
		OpenCount:      2,
		Existing:       []string{"What is chlorophyll?"},
	})
	for _, want := range []string{
		"exactly 5 additional tasks",
		`3 tasks of type "multiple_choice"`,
		`2 tasks of type "fill_blank"`,
		ShapeExample(content.TypeMultipleChoice),
		ShapeExample(content.TypeFillBlank),
		"1. What is chlorophyll?",
		"exactly 5 elements",
	} {
		if !strings.Contains(p.User, want) {
			t.Errorf("backfill prompt missing %q", want)
		}
	}
}

func TestBackfill_SingleFamily(t *testing.T) {
	p := Default{}.Backfill(BackfillParams{
		Common:         common(),
		SelectionType:  content.TypeSingleChoice,
		SelectionCount: 3,
		OpenType:       content.TypeOpenQuestion,
	})
	if strings.Contains(p.User, `of type "open_question"`) {
		t.Error("did not expect open type when open count is zero")
	}
	if !strings.Contains(p.User, "None") {
		t.Error("expected 'None' for empty existing list")
	}
}

func TestExistingList_KeepsMostRecent(t *testing.T) {
	got := existingList([]string{"a", "b", "c", "d"}, 2)
	if got != "1. c\n2. d" {
		t.Errorf("unexpected list: %q", got)
	}
}

func TestSingle_MentionsReplacement(t *testing.T) {
	p := Default{}.Single(SingleParams{Common: common(), Type: content.TypeMatching, Replacing: "Old task"})
	if !strings.Contains(p.User, "Old task") || !strings.Contains(p.User, `exactly 1 task of type "matching"`) {
		t.Errorf("unexpected single prompt: %s", p.User)
	}
}

func TestPresentation_FirstAndLastTypes(t *testing.T) {
	p := Default{}.Presentation(PresentationParams{Common: common(), SlideCount: 8})
	if !strings.Contains(p.User, "exactly 8 slides") {
		t.Error("expected slide count in prompt")
	}
	if !strings.Contains(p.User, `slide 8 must have type "conclusion"`) {
		t.Error("expected conclusion rule in prompt")
	}
}
