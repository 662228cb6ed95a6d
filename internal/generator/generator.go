// Package generator turns generation requests into worksheets and
// presentations. It drives the model, reconciles item counts against the
// request, validates the items, and assembles the final artifact.
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/edugen/internal/content"
	"github.com/abhisek/edugen/internal/extract"
	"github.com/abhisek/edugen/internal/llm"
	"github.com/abhisek/edugen/internal/prompt"
	"github.com/abhisek/edugen/internal/validation"
)

// LLM purpose labels recorded with every call.
const (
	PurposeWorksheet    = "worksheet"
	PurposeBackfill     = "backfill"
	PurposePresentation = "presentation"
	PurposeRegenerate   = "regenerate"
)

// Generator produces educational content with an LLM provider. It keeps no
// per-request state and is safe for concurrent use.
type Generator struct {
	provider llm.Provider
	config   Config
	logger   *zap.Logger
}

// New creates a Generator. Every provider call is bounded by
// cfg.CallTimeout. A nil logger discards diagnostics.
func New(provider llm.Provider, cfg Config, logger *zap.Logger) *Generator {
	if cfg.Prompts == nil {
		cfg.Prompts = prompt.Default{}
	}
	if cfg.Rules == nil {
		cfg.Rules = validation.NewRules()
	}
	if cfg.Formats == nil {
		cfg.Formats = DefaultFormats()
	}
	if cfg.DefaultSlides <= 0 {
		cfg.DefaultSlides = DefaultSlideCount
	}
	if cfg.MaxBackfillAttempts < 0 {
		cfg.MaxBackfillAttempts = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		provider: llm.WithTimeout(provider, cfg.CallTimeout),
		config:   cfg,
		logger:   logger,
	}
}

// run carries the state of one generation request.
type run struct {
	id          string
	model       string
	logger      *zap.Logger
	progress    *progress
	nextOrdinal int
}

func (g *Generator) newRun(ctx context.Context, kind string, c Common, onProgress ProgressFunc) (context.Context, *run) {
	id := uuid.NewString()
	model := g.config.Tiers.SelectModel(c.Paid)
	if model == "" {
		model = g.provider.ModelID()
	}
	logger := g.logger.With(
		zap.String("run_id", id),
		zap.String("kind", kind),
		zap.String("subject", string(c.Subject)),
		zap.Int("grade", c.Grade),
	)
	r := &run{
		id:       id,
		model:    model,
		logger:   logger,
		progress: newProgress(onProgress, logger),
	}
	return llm.WithRunID(ctx, id), r
}

// assignOrdinals gives each item the next stable identity of the run.
func (r *run) assignOrdinals(items []content.Item) {
	for i := range items {
		r.nextOrdinal++
		items[i].Ordinal = r.nextOrdinal
	}
}

// invoke sends one prompt pair and returns the raw model text.
func (g *Generator) invoke(ctx context.Context, r *run, purpose string, p prompt.Prompts) (string, error) {
	resp, err := g.provider.Generate(llm.WithPurpose(ctx, purpose), llm.Request{
		System:      p.System,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: p.User}},
		Model:       r.model,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return "", err
	}
	if resp.StopReason == "max_tokens" {
		r.logger.Warn("llm.truncated", zap.String("purpose", purpose))
	}
	return string(resp.Content), nil
}

// parseItems extracts, decodes and numbers the items in raw model text.
func (g *Generator) parseItems(r *run, raw string) ([]content.Item, error) {
	obj, err := extract.Object(raw)
	if err != nil {
		return nil, err
	}
	items, dropped, err := content.DecodeItems(obj)
	if err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if dropped > 0 {
		r.logger.Info("items.dropped", zap.Int("count", dropped))
	}
	r.assignOrdinals(items)
	return items, nil
}

// aiFailure logs err and converts it into the caller-visible error. A
// canceled caller context is returned as is.
func aiFailure(ctx context.Context, r *run, stage string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		r.logger.Info("generation.canceled", zap.String("stage", stage), zap.Error(ctxErr))
		return ctxErr
	}

	fields := []zap.Field{zap.String("stage", stage), zap.Error(err)}
	var pe *extract.ParseError
	if errors.As(err, &pe) {
		fields = append(fields, zap.String("snippet", pe.Snippet))
	}
	r.logger.Error("generation.failed", fields...)
	return ErrAI
}
