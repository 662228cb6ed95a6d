package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrNoItems is returned when a payload carries no recognizable item list.
var ErrNoItems = errors.New("payload has no item list")

// itemListKeys are the envelope keys models use for the item array.
var itemListKeys = []string{"items", "tasks", "questions", "assignments"}

// DecodeItems reads the item list out of an extracted JSON object. Elements
// that are not JSON objects are dropped and counted; everything else decodes
// into an Item, with unknown tags kept as *Unrecognized. Ordinals are left
// zero for the caller to assign.
func DecodeItems(payload json.RawMessage) (items []Item, dropped int, err error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, 0, err
	}

	var list []json.RawMessage
	found := false
	for _, key := range itemListKeys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &list); err == nil {
			found = true
			break
		}
	}
	if !found {
		// A bare item instead of a list. Envelope tags such as
		// {"type":"worksheet"} are not items.
		if NormalizeType(firstString(envelope, "type")).Known() {
			it, err := DecodeItem(payload)
			if err != nil {
				return nil, 1, nil
			}
			return []Item{it}, 0, nil
		}
		return nil, 0, ErrNoItems
	}

	items = make([]Item, 0, len(list))
	for _, raw := range list {
		it, err := DecodeItem(raw)
		if err != nil {
			dropped++
			continue
		}
		items = append(items, it)
	}
	return items, dropped, nil
}

// DecodeItem decodes a single item object, tolerating the field-name and
// value-type drift typical of model output.
func DecodeItem(raw json.RawMessage) (Item, error) {
	var f map[string]json.RawMessage
	if err := json.Unmarshal(raw, &f); err != nil {
		return Item{}, err
	}
	if f == nil {
		return Item{}, errors.New("item is null")
	}

	rawType := firstString(f, "type", "taskType", "task_type", "kind")
	typ := NormalizeType(rawType)

	switch typ {
	case TypeSingleChoice:
		sc := &SingleChoice{
			Question: firstString(f, "question", "text", "prompt"),
			Options:  firstStrings(f, "options", "choices", "variants"),
		}
		sc.CorrectIndex = choiceIndex(f, sc.Options)
		return Item{Type: typ, Body: sc}, nil

	case TypeMultipleChoice:
		mc := &MultipleChoice{
			Question: firstString(f, "question", "text", "prompt"),
			Options:  firstStrings(f, "options", "choices", "variants"),
		}
		mc.CorrectIndices = choiceIndices(f, mc.Options)
		return Item{Type: typ, Body: mc}, nil

	case TypeOpenQuestion:
		return Item{Type: typ, Body: &OpenQuestion{
			Question:      firstString(f, "question", "text", "prompt"),
			CorrectAnswer: firstString(f, "correctAnswer", "correct_answer", "answer"),
		}}, nil

	case TypeMatching:
		return Item{Type: typ, Body: &Matching{
			Instruction:  firstString(f, "instruction", "question", "text"),
			LeftColumn:   firstStrings(f, "leftColumn", "left_column", "left"),
			RightColumn:  firstStrings(f, "rightColumn", "right_column", "right"),
			CorrectPairs: pairs(firstRaw(f, "correctPairs", "correct_pairs", "pairs", "answers")),
		}}, nil

	case TypeFillBlank:
		return Item{Type: typ, Body: &FillBlank{
			TextWithBlanks: firstString(f, "textWithBlanks", "text_with_blanks", "text", "question"),
			Blanks:         blanks(firstRaw(f, "blanks", "answers", "gaps")),
		}}, nil
	}

	return Item{Type: typ, Body: &Unrecognized{RawType: string(typ), Fields: f}}, nil
}

func firstRaw(f map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, k := range keys {
		if v, ok := f[k]; ok && !isNull(v) {
			return v
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// firstString returns the first key holding a string (numbers are formatted).
func firstString(f map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		v, ok := f[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return strings.TrimSpace(s)
		}
		var n json.Number
		if err := json.Unmarshal(v, &n); err == nil {
			return n.String()
		}
	}
	return ""
}

// firstStrings returns the first key holding a list of strings. A single
// string is treated as a one-element list.
func firstStrings(f map[string]json.RawMessage, keys ...string) []string {
	for _, k := range keys {
		v, ok := f[k]
		if !ok {
			continue
		}
		if ss, ok := stringList(v); ok {
			return ss
		}
	}
	return nil
}

func stringList(raw json.RawMessage) ([]string, bool) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return []string{s}, true
		}
		return nil, false
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		var s string
		if err := json.Unmarshal(e, &s); err == nil {
			out = append(out, strings.TrimSpace(s))
			continue
		}
		var n json.Number
		if err := json.Unmarshal(e, &n); err == nil {
			out = append(out, n.String())
		}
	}
	return out, true
}

// flexInt reads a JSON number or a numeric string.
func flexInt(raw json.RawMessage) (int, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if fl, err := n.Float64(); err == nil && fl == float64(int(fl)) {
			return int(fl), true
		}
		return 0, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// Keys holding the correct option. Index keys are read as numbers first;
// answer keys often hold the option text, which may itself be a number.
var (
	choiceIndexKeys   = []string{"correctIndex", "correct_index"}
	choiceAnswerKeys  = []string{"correctOption", "correctAnswer", "correct_answer", "answer"}
	choiceIndicesKeys = []string{"correctIndices", "correct_indices", "correctIndex"}
	choiceAnswersKeys = []string{"correctAnswers", "correct_answers", "answers"}
)

// choiceIndex finds the correct option index.
func choiceIndex(f map[string]json.RawMessage, options []string) *int {
	if raw := firstRaw(f, choiceIndexKeys...); raw != nil {
		if i, ok := optionRef(raw, options, false); ok {
			return &i
		}
	}
	if raw := firstRaw(f, choiceAnswerKeys...); raw != nil {
		if i, ok := optionRef(raw, options, true); ok {
			return &i
		}
	}
	return nil
}

func choiceIndices(f map[string]json.RawMessage, options []string) []int {
	raw, byText := firstRaw(f, choiceIndicesKeys...), false
	if raw == nil {
		raw, byText = firstRaw(f, choiceAnswersKeys...), true
	}
	if raw == nil {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		elems = []json.RawMessage{raw}
	}
	out := make([]int, 0, len(elems))
	for _, e := range elems {
		if i, ok := optionRef(e, options, byText); ok {
			out = append(out, i)
		}
	}
	return out
}

// optionRef resolves one reference to an option. JSON numbers are indices.
// A string is matched against the option text first when byText is set,
// else parsed as an index first.
func optionRef(raw json.RawMessage, options []string, byText bool) (int, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return flexInt(raw)
	}
	if byText {
		if i := optionIndex(options, s); i >= 0 {
			return i, true
		}
	}
	if i, ok := flexInt(raw); ok {
		return i, true
	}
	if i := optionIndex(options, s); i >= 0 {
		return i, true
	}
	return 0, false
}

func optionIndex(options []string, text string) int {
	text = strings.TrimSpace(text)
	for i, o := range options {
		if strings.EqualFold(strings.TrimSpace(o), text) {
			return i
		}
	}
	return -1
}

// pairs accepts [[l,r],...], [{"left":l,"right":r},...] and ["1-A",...].
// Numeric forms are 0-based; the string form uses the display convention.
func pairs(raw json.RawMessage) []Pair {
	if raw == nil {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	out := make([]Pair, 0, len(elems))
	for _, e := range elems {
		var tuple []json.RawMessage
		if err := json.Unmarshal(e, &tuple); err == nil {
			if len(tuple) != 2 {
				continue
			}
			l, okL := flexInt(tuple[0])
			r, okR := flexInt(tuple[1])
			if okL && okR {
				out = append(out, Pair{Left: l, Right: r})
			}
			continue
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(e, &obj); err == nil {
			lr := firstRaw(obj, "left", "leftIndex", "left_index")
			rr := firstRaw(obj, "right", "rightIndex", "right_index")
			if lr == nil || rr == nil {
				continue
			}
			l, okL := flexInt(lr)
			r, okR := flexInt(rr)
			if okL && okR {
				out = append(out, Pair{Left: l, Right: r})
			}
			continue
		}
		var s string
		if err := json.Unmarshal(e, &s); err == nil {
			if p, ok := ParsePairLabel(s); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

// blanks accepts [{"position":1,"correctAnswer":"x"},...] and ["x",...].
func blanks(raw json.RawMessage) []Blank {
	if raw == nil {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	out := make([]Blank, 0, len(elems))
	for i, e := range elems {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(e, &obj); err == nil {
			b := Blank{Position: i + 1}
			if pr := firstRaw(obj, "position", "index", "number"); pr != nil {
				if p, ok := flexInt(pr); ok {
					b.Position = p
				}
			}
			b.CorrectAnswer = firstString(obj, "correctAnswer", "correct_answer", "answer")
			out = append(out, b)
			continue
		}
		var s string
		if err := json.Unmarshal(e, &s); err == nil {
			out = append(out, Blank{Position: i + 1, CorrectAnswer: strings.TrimSpace(s)})
		}
	}
	return out
}
