package content

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mixedItems() []Item {
	idx := 1
	return []Item{
		{Ordinal: 1, Type: TypeOpenQuestion, Body: &OpenQuestion{Question: "Why?", CorrectAnswer: "Because"}},
		{Ordinal: 2, Type: TypeSingleChoice, Body: &SingleChoice{Question: "2+2?", Options: []string{"3", "4"}, CorrectIndex: &idx}},
		{Ordinal: 3, Type: ItemType("essay"), Body: &Unrecognized{RawType: "essay"}},
		{Ordinal: 4, Type: TypeMultipleChoice, Body: &MultipleChoice{Question: "Primes?", Options: []string{"2", "3", "4"}, CorrectIndices: []int{0, 1}}},
		{Ordinal: 5, Type: TypeMatching, Body: &Matching{Instruction: "Match"}},
		{Ordinal: 6, Type: TypeFillBlank, Body: &FillBlank{TextWithBlanks: "(1) is red"}},
	}
}

func ordinals(items []Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Ordinal
	}
	return out
}

func TestClassify_PartitionsByFamily(t *testing.T) {
	f := Classify(mixedItems())

	if diff := cmp.Diff([]int{2, 4}, ordinals(f.Selection)); diff != "" {
		t.Errorf("selection ordinals (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 3, 5, 6}, ordinals(f.Open)); diff != "" {
		t.Errorf("open ordinals (-want +got):\n%s", diff)
	}
	if f.Len() != len(mixedItems()) {
		t.Errorf("expected %d items total, got %d", len(mixedItems()), f.Len())
	}
}

func TestClassify_UnrecognizedGoesToOpen(t *testing.T) {
	f := Classify([]Item{{Type: ItemType("crossword"), Body: &Unrecognized{RawType: "crossword"}}})
	if len(f.Selection) != 0 || len(f.Open) != 1 {
		t.Fatalf("expected unrecognized item in open family, got %d/%d", len(f.Selection), len(f.Open))
	}
}

func TestClassify_Idempotent(t *testing.T) {
	first := Classify(mixedItems())
	second := Classify(first.Combined())

	if diff := cmp.Diff(ordinals(first.Selection), ordinals(second.Selection)); diff != "" {
		t.Errorf("selection changed on reclassification:\n%s", diff)
	}
	if diff := cmp.Diff(ordinals(first.Open), ordinals(second.Open)); diff != "" {
		t.Errorf("open changed on reclassification:\n%s", diff)
	}
}

func TestClassify_Empty(t *testing.T) {
	f := Classify(nil)
	if f.Len() != 0 {
		t.Fatalf("expected empty families, got %d", f.Len())
	}
}

func TestFamilies_AppendPreservesOrder(t *testing.T) {
	base := Classify(mixedItems()[:3])
	more := Classify(mixedItems()[3:])

	got := base.Append(more)
	if diff := cmp.Diff([]int{2, 4}, ordinals(got.Selection)); diff != "" {
		t.Errorf("selection (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 3, 5, 6}, ordinals(got.Open)); diff != "" {
		t.Errorf("open (-want +got):\n%s", diff)
	}
	if len(base.Selection) != 1 {
		t.Errorf("Append must not mutate the receiver, selection len %d", len(base.Selection))
	}
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		raw  string
		want ItemType
	}{
		{"single_choice", TypeSingleChoice},
		{"singleChoice", TypeSingleChoice},
		{"Multiple-Choice", TypeMultipleChoice},
		{"open", TypeOpenQuestion},
		{"fill in blank", TypeFillBlank},
		{"fillBlank", TypeFillBlank},
		{"match", TypeMatching},
		{"Essay", ItemType("essay")},
	}
	for _, tt := range tests {
		if got := NormalizeType(tt.raw); got != tt.want {
			t.Errorf("NormalizeType(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
