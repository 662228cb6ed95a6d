package content

import (
	"encoding/json"
	"fmt"
)

// Item is one generated task before final assembly.
//
// Ordinal is a stable identity assigned when the item is first parsed. It is
// carried through validation and fixing so that removals and re-splits never
// depend on positions in a re-sliced list.
type Item struct {
	Ordinal int
	Type    ItemType
	Body    Body
}

// Body is the type-specific payload of an Item. The set of implementations is
// closed: *SingleChoice, *MultipleChoice, *OpenQuestion, *Matching,
// *FillBlank and *Unrecognized.
type Body interface {
	itemType() ItemType
}

// SingleChoice is a question with exactly one correct option.
// CorrectIndex is nil when the model omitted it.
type SingleChoice struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correctIndex,omitempty"`
}

// MultipleChoice is a question with one or more correct options.
type MultipleChoice struct {
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	CorrectIndices []int    `json:"correctIndices"`
}

// OpenQuestion is a free-form question with a reference answer.
type OpenQuestion struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctAnswer"`
}

// Pair links a left-column index to a right-column index, both 0-based.
type Pair struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Matching asks the learner to connect items from two columns.
type Matching struct {
	Instruction  string   `json:"instruction"`
	LeftColumn   []string `json:"leftColumn"`
	RightColumn  []string `json:"rightColumn"`
	CorrectPairs []Pair   `json:"correctPairs"`
}

// Blank is one gap in a fill-in-the-blank text. Position is the 1-based
// marker used in the text, e.g. "(1)".
type Blank struct {
	Position      int    `json:"position"`
	CorrectAnswer string `json:"correctAnswer"`
}

// FillBlank is a text with numbered gaps.
type FillBlank struct {
	TextWithBlanks string  `json:"textWithBlanks"`
	Blanks         []Blank `json:"blanks"`
}

// Unrecognized holds an item whose type tag is not one of the known types.
// It is routed to the open family and assembled on a best-effort basis.
type Unrecognized struct {
	RawType string
	Fields  map[string]json.RawMessage
}

func (*SingleChoice) itemType() ItemType   { return TypeSingleChoice }
func (*MultipleChoice) itemType() ItemType { return TypeMultipleChoice }
func (*OpenQuestion) itemType() ItemType   { return TypeOpenQuestion }
func (*Matching) itemType() ItemType       { return TypeMatching }
func (*FillBlank) itemType() ItemType      { return TypeFillBlank }
func (u *Unrecognized) itemType() ItemType { return ItemType(u.RawType) }

// MarshalJSON encodes the item in the same flat shape the model produces:
// the body's fields plus a "type" discriminator.
func (it Item) MarshalJSON() ([]byte, error) {
	fields := map[string]json.RawMessage{}
	switch b := it.Body.(type) {
	case *Unrecognized:
		for k, v := range b.Fields {
			fields[k] = v
		}
	case nil:
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("marshal %s body: %w", it.Type, err)
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("flatten %s body: %w", it.Type, err)
		}
	}
	typ, _ := json.Marshal(string(it.Type))
	fields["type"] = typ
	return json.Marshal(fields)
}

// Text returns the main prompt text of the item regardless of its type.
func (it Item) Text() string {
	switch b := it.Body.(type) {
	case *SingleChoice:
		return b.Question
	case *MultipleChoice:
		return b.Question
	case *OpenQuestion:
		return b.Question
	case *Matching:
		return b.Instruction
	case *FillBlank:
		return b.TextWithBlanks
	case *Unrecognized:
		return firstString(b.Fields, "question", "text", "instruction", "prompt", "title")
	}
	return ""
}

// Options returns the answer options of selection-style items, nil otherwise.
func (it Item) Options() []string {
	switch b := it.Body.(type) {
	case *SingleChoice:
		return b.Options
	case *MultipleChoice:
		return b.Options
	}
	return nil
}

// Family returns the family the item is classified into.
func (it Item) Family() Family {
	return FamilyOf(it.Type)
}
