package validation

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/edugen/internal/content"
)

// shapeDefinitions describe the field types of each item in its flat JSON
// form (see content.Item.MarshalJSON). Content rules such as minimum option
// counts live in rules.go so that each failure gets a specific code.
var shapeDefinitions = map[content.ItemType]map[string]any{
	content.TypeSingleChoice: object([]any{"question", "options"}, map[string]any{
		"question":     str(),
		"options":      nullable(array(str())),
		"correctIndex": map[string]any{"type": "integer"},
	}),
	content.TypeMultipleChoice: object([]any{"question", "options"}, map[string]any{
		"question":       str(),
		"options":        nullable(array(str())),
		"correctIndices": nullable(array(map[string]any{"type": "integer"})),
	}),
	content.TypeOpenQuestion: object([]any{"question"}, map[string]any{
		"question":      str(),
		"correctAnswer": str(),
	}),
	content.TypeMatching: object([]any{"leftColumn", "rightColumn"}, map[string]any{
		"instruction": str(),
		"leftColumn":  nullable(array(str())),
		"rightColumn": nullable(array(str())),
		"correctPairs": nullable(array(object([]any{"left", "right"}, map[string]any{
			"left":  map[string]any{"type": "integer"},
			"right": map[string]any{"type": "integer"},
		}))),
	}),
	content.TypeFillBlank: object([]any{"textWithBlanks"}, map[string]any{
		"textWithBlanks": str(),
		"blanks": nullable(array(object([]any{"position"}, map[string]any{
			"position":      map[string]any{"type": "integer"},
			"correctAnswer": str(),
		}))),
	}),
}

func object(required []any, props map[string]any) map[string]any {
	return map[string]any{"type": "object", "required": required, "properties": props}
}

func array(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

func str() map[string]any { return map[string]any{"type": "string"} }

func nullable(def map[string]any) map[string]any {
	out := make(map[string]any, len(def))
	for k, v := range def {
		out[k] = v
	}
	out["type"] = []any{def["type"], "null"}
	return out
}

// shapeSchemas compiles the definitions once per process.
var shapeSchemas = sync.OnceValues(func() (map[content.ItemType]*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	out := make(map[content.ItemType]*jsonschema.Schema, len(shapeDefinitions))
	for t, def := range shapeDefinitions {
		// Round-trip so the compiler sees plain JSON values.
		raw, err := json.Marshal(def)
		if err != nil {
			return nil, fmt.Errorf("marshal %s shape: %w", t, err)
		}
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(raw)))
		if err != nil {
			return nil, fmt.Errorf("parse %s shape: %w", t, err)
		}
		url := fmt.Sprintf("shape://%s.json", t)
		if err := c.AddResource(url, doc); err != nil {
			return nil, fmt.Errorf("add %s shape: %w", t, err)
		}
		sch, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile %s shape: %w", t, err)
		}
		out[t] = sch
	}
	return out, nil
})

// checkShape validates the flat JSON form of it against its type's shape.
// Unrecognized types have no shape and always pass.
func checkShape(it content.Item) error {
	schemas, err := shapeSchemas()
	if err != nil {
		return err
	}
	sch, ok := schemas[it.Type]
	if !ok {
		return nil
	}
	raw, err := json.Marshal(it)
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(raw)))
	if err != nil {
		return err
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("%s", firstLine(err.Error()))
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
