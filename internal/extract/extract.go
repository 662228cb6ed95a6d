// Package extract finds the JSON payload embedded in free-form model output.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrNoObject is wrapped by ParseError when the text holds no balanced object.
var ErrNoObject = errors.New("no balanced JSON object found")

// ParseError reports that model output contained no recoverable JSON object.
// Snippet holds the beginning of the offending text for logging.
type ParseError struct {
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse model output: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

const snippetLen = 200

// Object returns the first balanced top-level JSON object in raw. Prose and
// markdown fences around the object are skipped. Braces inside JSON strings
// do not count toward nesting. If the first balanced object does not parse,
// Object fails; malformed JSON is never patched.
func Object(raw string) (json.RawMessage, error) {
	start, end, ok := scan(raw)
	if !ok {
		return nil, &ParseError{Snippet: snippet(raw), Err: ErrNoObject}
	}

	candidate := raw[start : end+1]
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &probe); err != nil {
		return nil, &ParseError{Snippet: snippet(candidate), Err: err}
	}
	return json.RawMessage(candidate), nil
}

// Decode extracts the first JSON object from raw and unmarshals it into v.
func Decode(raw string, v any) error {
	obj, err := Object(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(obj, v); err != nil {
		return &ParseError{Snippet: snippet(string(obj)), Err: err}
	}
	return nil
}

// scan is a byte-level state machine over raw. It is safe to iterate bytes
// because the delimiters it tracks are ASCII, and UTF-8 never encodes ASCII
// bytes inside multi-byte sequences.
func scan(raw string) (start, end int, ok bool) {
	depth := 0
	start = -1
	inString := false
	escape := false

	for i := 0; i < len(raw); i++ {
		b := raw[i]

		if escape {
			escape = false
			continue
		}
		if inString {
			switch b {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			// Quotes only open strings inside an object; stray quotes in the
			// surrounding prose are ignored.
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return start, i, true
			}
		}
	}
	return -1, -1, false
}

func snippet(s string) string {
	if len(s) <= snippetLen {
		return s
	}
	cut := snippetLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
