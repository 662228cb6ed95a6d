package content

import (
	"fmt"
	"strings"
)

// Subject is the school subject a worksheet or presentation is generated for.
type Subject string

const (
	SubjectMath            Subject = "math"
	SubjectPhysics         Subject = "physics"
	SubjectChemistry       Subject = "chemistry"
	SubjectBiology         Subject = "biology"
	SubjectGeography       Subject = "geography"
	SubjectHistory         Subject = "history"
	SubjectLiterature      Subject = "literature"
	SubjectLanguage        Subject = "language"
	SubjectEnglish         Subject = "english"
	SubjectComputerScience Subject = "computer_science"
)

var subjectLabels = map[Subject]string{
	SubjectMath:            "Mathematics",
	SubjectPhysics:         "Physics",
	SubjectChemistry:       "Chemistry",
	SubjectBiology:         "Biology",
	SubjectGeography:       "Geography",
	SubjectHistory:         "History",
	SubjectLiterature:      "Literature",
	SubjectLanguage:        "Native language",
	SubjectEnglish:         "English",
	SubjectComputerScience: "Computer science",
}

// Valid reports whether s is a known subject.
func (s Subject) Valid() bool {
	_, ok := subjectLabels[s]
	return ok
}

// Label returns the human-readable subject name used in prompts.
func (s Subject) Label() string {
	if l, ok := subjectLabels[s]; ok {
		return l
	}
	return string(s)
}

// Subjects returns all known subjects in a stable order.
func Subjects() []Subject {
	return []Subject{
		SubjectMath, SubjectPhysics, SubjectChemistry, SubjectBiology,
		SubjectGeography, SubjectHistory, SubjectLiterature, SubjectLanguage,
		SubjectEnglish, SubjectComputerScience,
	}
}

// Difficulty is the requested difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of easy, medium, hard.
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Format controls which families are requested and in what quantity.
type Format string

const (
	// FormatTest requests selection-style items only.
	FormatTest Format = "test"

	// FormatOpen requests free-form items only.
	FormatOpen Format = "open"

	// FormatMixed requests both families.
	FormatMixed Format = "mixed"
)

// ItemType is the discriminator carried by every generated item.
type ItemType string

const (
	TypeSingleChoice   ItemType = "single_choice"
	TypeMultipleChoice ItemType = "multiple_choice"
	TypeOpenQuestion   ItemType = "open_question"
	TypeMatching       ItemType = "matching"
	TypeFillBlank      ItemType = "fill_blank"
)

// typeAliases maps spellings seen in model output to canonical types.
var typeAliases = map[string]ItemType{
	"single_choice":   TypeSingleChoice,
	"singlechoice":    TypeSingleChoice,
	"single":          TypeSingleChoice,
	"choice":          TypeSingleChoice,
	"multiple_choice": TypeMultipleChoice,
	"multiplechoice":  TypeMultipleChoice,
	"multi_choice":    TypeMultipleChoice,
	"multiple":        TypeMultipleChoice,
	"open_question":   TypeOpenQuestion,
	"openquestion":    TypeOpenQuestion,
	"open":            TypeOpenQuestion,
	"matching":        TypeMatching,
	"match":           TypeMatching,
	"fill_blank":      TypeFillBlank,
	"fillblank":       TypeFillBlank,
	"fill_blanks":     TypeFillBlank,
	"fill_in_blank":   TypeFillBlank,
	"fill_in_blanks":  TypeFillBlank,
	"fill_the_blank":  TypeFillBlank,
}

// NormalizeType maps a raw discriminator to its canonical ItemType.
// Unknown tags are returned lower-cased and unchanged otherwise.
func NormalizeType(raw string) ItemType {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if t, ok := typeAliases[key]; ok {
		return t
	}
	if t, ok := typeAliases[strings.ReplaceAll(key, "_", "")]; ok {
		return t
	}
	return ItemType(key)
}

// Known reports whether t is one of the five recognized item types.
func (t ItemType) Known() bool {
	switch t {
	case TypeSingleChoice, TypeMultipleChoice, TypeOpenQuestion, TypeMatching, TypeFillBlank:
		return true
	}
	return false
}

// Family is one of the two structural groups items are classified into.
type Family string

const (
	FamilySelection Family = "selection"
	FamilyOpen      Family = "open"
)

// FamilyOf returns the family an item type belongs to. Anything that is not a
// selection-style type, including unrecognized tags, is open.
func FamilyOf(t ItemType) Family {
	if t == TypeSingleChoice || t == TypeMultipleChoice {
		return FamilySelection
	}
	return FamilyOpen
}

// SelectionTypes and OpenTypes list the recognized types of each family.
var (
	SelectionTypes = []ItemType{TypeSingleChoice, TypeMultipleChoice}
	OpenTypes      = []ItemType{TypeOpenQuestion, TypeMatching, TypeFillBlank}
)

// TargetCounts is the number of items requested per family.
type TargetCounts struct {
	Open      int `json:"openCount" yaml:"open"`
	Selection int `json:"selectionCount" yaml:"selection"`
}

// Total returns the total number of requested items.
func (t TargetCounts) Total() int { return t.Open + t.Selection }

func (t TargetCounts) String() string {
	return fmt.Sprintf("open=%d selection=%d", t.Open, t.Selection)
}
