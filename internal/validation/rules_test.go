package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/edugen/internal/content"
)

func intp(i int) *int { return &i }

func single(q string, opts []string, correct *int) content.Item {
	return content.Item{Type: content.TypeSingleChoice, Body: &content.SingleChoice{Question: q, Options: opts, CorrectIndex: correct}}
}

func open(q, a string) content.Item {
	return content.Item{Type: content.TypeOpenQuestion, Body: &content.OpenQuestion{Question: q, CorrectAnswer: a}}
}

func codes(issues []Issue) map[int][]string {
	out := map[int][]string{}
	for _, is := range issues {
		out[is.ItemIndex] = append(out[is.ItemIndex], is.Code)
	}
	return out
}

func TestRules_ValidItems(t *testing.T) {
	items := []content.Item{
		single("2+2?", []string{"3", "4"}, intp(1)),
		{Type: content.TypeMultipleChoice, Body: &content.MultipleChoice{Question: "Primes?", Options: []string{"2", "3", "4"}, CorrectIndices: []int{0, 1}}},
		open("Why is the sky blue?", "Rayleigh scattering"),
		{Type: content.TypeMatching, Body: &content.Matching{
			Instruction: "Match", LeftColumn: []string{"a", "b"}, RightColumn: []string{"x", "y"},
			CorrectPairs: []content.Pair{{Left: 0, Right: 1}, {Left: 1, Right: 0}},
		}},
		{Type: content.TypeFillBlank, Body: &content.FillBlank{
			TextWithBlanks: "Water boils at (1) C", Blanks: []content.Blank{{Position: 1, CorrectAnswer: "100"}},
		}},
	}

	out := NewRules().Validate(items, content.SubjectMath, 7)
	assert.True(t, out.Valid)
	assert.Empty(t, out.Errors)
	assert.Empty(t, out.Warnings)
}

func TestRules_StructuralErrors(t *testing.T) {
	items := []content.Item{
		single("", []string{"a", "b"}, intp(0)),
		single("Only one option?", []string{"a"}, intp(0)),
		{Type: content.TypeMatching, Body: &content.Matching{Instruction: "Match", LeftColumn: []string{"a"}}},
		{Type: content.TypeFillBlank, Body: &content.FillBlank{TextWithBlanks: "No gaps here"}},
		{Type: content.TypeOpenQuestion},
		open("Fine question", "Fine answer"),
	}

	out := NewRules().Validate(items, content.SubjectMath, 7)
	require.False(t, out.Valid)

	got := codes(out.Errors)
	assert.Contains(t, got[0], CodeEmptyQuestion)
	assert.Contains(t, got[1], CodeTooFewOptions)
	assert.Contains(t, got[2], CodeEmptyColumns)
	assert.Contains(t, got[3], CodeNoBlanks)
	assert.Contains(t, got[4], CodeShape)
	assert.NotContains(t, got, 5)

	idx := out.ErrorIndices()
	assert.Len(t, idx, 5)
	assert.False(t, idx[5])
}

func TestRules_OutOfRangeIsWarningOnly(t *testing.T) {
	items := []content.Item{
		single("Capital of France?", []string{"Paris", "Rome", "Oslo", "Bern"}, intp(7)),
		single("No key", []string{"a", "b"}, nil),
		{Type: content.TypeMatching, Body: &content.Matching{
			Instruction: "Match", LeftColumn: []string{"a"}, RightColumn: []string{"x"},
			CorrectPairs: []content.Pair{{Left: 0, Right: 3}},
		}},
	}

	out := NewRules().Validate(items, content.SubjectGeography, 5)
	assert.True(t, out.Valid, "index problems must not remove items")
	got := codes(out.Warnings)
	for i := range items {
		assert.Contains(t, got[i], CodeIndexRange, "item %d", i)
	}
}

func TestRules_Warnings(t *testing.T) {
	long := strings.Repeat("word ", 100)
	items := []content.Item{
		single("Pick", []string{"Same", "same ", "other"}, intp(0)),
		open("Repeated question?", ""),
		open("repeated   QUESTION?", "answer"),
		open(long, "answer"),
		{Type: "essay", Body: &content.Unrecognized{RawType: "essay"}},
	}

	out := NewRules().Validate(items, content.SubjectLanguage, 3)
	got := codes(out.Warnings)
	assert.Contains(t, got[0], CodeDuplicateOption)
	assert.Contains(t, got[1], CodeEmptyAnswer)
	assert.Contains(t, got[2], CodeDuplicateItem)
	assert.Contains(t, got[3], CodeLongText)
	assert.Contains(t, got[4], CodeUnknownType)

	older := NewRules().Validate(items[3:4], content.SubjectLanguage, 9)
	assert.Empty(t, older.Warnings, "long text is fine for older grades")
}

func TestCheckShape_UnknownTypePasses(t *testing.T) {
	it := content.Item{Type: "essay", Body: &content.Unrecognized{RawType: "essay"}}
	assert.NoError(t, checkShape(it))
}

func TestShapeSchemasCompile(t *testing.T) {
	schemas, err := shapeSchemas()
	require.NoError(t, err)
	for _, typ := range append(append([]content.ItemType{}, content.SelectionTypes...), content.OpenTypes...) {
		assert.Contains(t, schemas, typ)
	}
}
