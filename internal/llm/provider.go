package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one request to a language model.
type Provider interface {
	// Generate returns the model's reply. With a Schema set the reply is
	// JSON validated against it; without one it is the raw text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model used when a request names none.
	ModelID() string
}

// Request is a single model call.
type Request struct {
	System   string
	Messages []Message

	// Model overrides the configured model for this call. Aliases such as
	// "claude-haiku" resolve as they do in configuration.
	Model string

	// Schema asks for structured output. Generation prompts leave it nil
	// and extract JSON from prose; reviews set it.
	Schema *Schema

	MaxTokens int

	// Temperature is sent only when positive.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role identifies the author of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema. Definition is the decoded schema document;
// Name is kebab-case, e.g. "item-review".
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a model reply.
type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model is the model that actually served the call.
	Model string

	// StopReason is one of "end", "max_tokens" or "error".
	StopReason string
}

// Usage counts the tokens of one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// modelAliases maps friendly model names to provider model IDs. Names that
// are not aliases are used as given.
type modelAliases map[string]string

func (a modelAliases) resolve(name string) string {
	if id, ok := a[name]; ok {
		return id
	}
	return name
}

// pick returns the resolved per-request override, or fallback when the
// request names no model.
func (a modelAliases) pick(override, fallback string) string {
	if override == "" {
		return fallback
	}
	return a.resolve(override)
}
