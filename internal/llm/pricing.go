package llm

import (
	"regexp"
	"strings"
)

// ModelCost holds per-million-token pricing for a model in USD.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown. IDs are
// matched after dropping a vendor or "models/" prefix and a release-date or
// "-latest" suffix, so "anthropic/claude-sonnet-4-20250514" prices as
// "claude-sonnet-4". OpenRouter ":free" variants cost nothing.
func LookupCost(modelID string) *ModelCost {
	id := strings.ToLower(strings.TrimSpace(modelID))
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
	}
	if base, ok := strings.CutSuffix(id, ":free"); ok && base != "" {
		return &ModelCost{}
	}
	for _, candidate := range []string{id, modelVersionSuffix.ReplaceAllString(id, "")} {
		if c, ok := modelCosts[candidate]; ok {
			return &c
		}
	}
	return nil
}

// modelVersionSuffix matches the release tags providers append to model IDs.
var modelVersionSuffix = regexp.MustCompile(`(-\d{8}|-\d{4}-\d{2}-\d{2}|-latest|-exp|-preview(-\d{2}-\d{2,4})?)$`)

// modelCosts is the pricing table (models.dev, 2026-02-15), keyed by the
// undated model ID.
var modelCosts = map[string]ModelCost{
	// Anthropic
	"claude-3-haiku":    {InputPerMTok: 0.25, OutputPerMTok: 1.25},
	"claude-3-opus":     {InputPerMTok: 15, OutputPerMTok: 75},
	"claude-3-sonnet":   {InputPerMTok: 3, OutputPerMTok: 15},
	"claude-3-5-haiku":  {InputPerMTok: 0.8, OutputPerMTok: 4},
	"claude-3-5-sonnet": {InputPerMTok: 3, OutputPerMTok: 15},
	"claude-3-7-sonnet": {InputPerMTok: 3, OutputPerMTok: 15},
	"claude-haiku-4-5":  {InputPerMTok: 1, OutputPerMTok: 5},
	"claude-sonnet-4":   {InputPerMTok: 3, OutputPerMTok: 15},
	"claude-sonnet-4-0": {InputPerMTok: 3, OutputPerMTok: 15},
	"claude-sonnet-4-5": {InputPerMTok: 3, OutputPerMTok: 15},
	"claude-opus-4":     {InputPerMTok: 15, OutputPerMTok: 75},
	"claude-opus-4-0":   {InputPerMTok: 15, OutputPerMTok: 75},
	"claude-opus-4-1":   {InputPerMTok: 15, OutputPerMTok: 75},
	"claude-opus-4-5":   {InputPerMTok: 5, OutputPerMTok: 25},
	"claude-opus-4-6":   {InputPerMTok: 5, OutputPerMTok: 25},

	// OpenAI
	"gpt-3.5-turbo": {InputPerMTok: 0.5, OutputPerMTok: 1.5},
	"gpt-4":         {InputPerMTok: 30, OutputPerMTok: 60},
	"gpt-4-turbo":   {InputPerMTok: 10, OutputPerMTok: 30},
	"gpt-4o":        {InputPerMTok: 2.5, OutputPerMTok: 10},
	"gpt-4o-mini":   {InputPerMTok: 0.15, OutputPerMTok: 0.6},
	"gpt-4.1":       {InputPerMTok: 2, OutputPerMTok: 8},
	"gpt-4.1-mini":  {InputPerMTok: 0.4, OutputPerMTok: 1.6},
	"gpt-4.1-nano":  {InputPerMTok: 0.1, OutputPerMTok: 0.4},
	"gpt-5":         {InputPerMTok: 1.25, OutputPerMTok: 10},
	"gpt-5-mini":    {InputPerMTok: 0.25, OutputPerMTok: 2},
	"gpt-5-nano":    {InputPerMTok: 0.05, OutputPerMTok: 0.4},
	"gpt-5.1":       {InputPerMTok: 1.25, OutputPerMTok: 10},
	"gpt-5.2":       {InputPerMTok: 1.75, OutputPerMTok: 14},
	"o1":            {InputPerMTok: 15, OutputPerMTok: 60},
	"o1-mini":       {InputPerMTok: 1.1, OutputPerMTok: 4.4},
	"o3":            {InputPerMTok: 2, OutputPerMTok: 8},
	"o3-mini":       {InputPerMTok: 1.1, OutputPerMTok: 4.4},
	"o4-mini":       {InputPerMTok: 1.1, OutputPerMTok: 4.4},

	// Google
	"gemini-1.5-flash":      {InputPerMTok: 0.075, OutputPerMTok: 0.3},
	"gemini-1.5-flash-8b":   {InputPerMTok: 0.0375, OutputPerMTok: 0.15},
	"gemini-1.5-pro":        {InputPerMTok: 1.25, OutputPerMTok: 5},
	"gemini-2.0-flash":      {InputPerMTok: 0.1, OutputPerMTok: 0.4},
	"gemini-2.0-flash-lite": {InputPerMTok: 0.075, OutputPerMTok: 0.3},
	"gemini-2.5-flash":      {InputPerMTok: 0.3, OutputPerMTok: 2.5},
	"gemini-2.5-flash-lite": {InputPerMTok: 0.1, OutputPerMTok: 0.4},
	"gemini-2.5-pro":        {InputPerMTok: 1.25, OutputPerMTok: 10},
	"gemini-3-flash":        {InputPerMTok: 0.5, OutputPerMTok: 3},
	"gemini-3-pro":          {InputPerMTok: 2, OutputPerMTok: 12},
	"gemini-flash":          {InputPerMTok: 0.3, OutputPerMTok: 2.5},
	"gemini-flash-lite":     {InputPerMTok: 0.1, OutputPerMTok: 0.4},
}
