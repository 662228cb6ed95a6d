package generator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/edugen/internal/content"
	"github.com/abhisek/edugen/internal/prompt"
)

// RegeneratedItem is a single replacement item with its derived answer.
type RegeneratedItem struct {
	Item     content.Item      `json:"item"`
	Answer   string            `json:"answer"`
	Warnings []content.Warning `json:"warnings,omitempty"`
}

var errNoUsableItem = errors.New("no usable item in response")

// RegenerateItem asks the model for one item of req.Type. Responses whose
// item fails the deterministic rules are retried up to the backfill budget;
// if none is usable the result is ErrAI.
func (g *Generator) RegenerateItem(ctx context.Context, req RegenerateRequest) (*RegeneratedItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, r := g.newRun(ctx, "regenerate", req.Common, nil)
	r.logger.Info("regenerate.start", zap.String("type", string(req.Type)), zap.String("model", r.model))

	prompts := g.config.Prompts.Single(prompt.SingleParams{
		Common:    promptCommon(req.Common),
		Type:      req.Type,
		Replacing: req.Replacing,
	})

	attempts := max(g.config.MaxBackfillAttempts, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		it, err := g.regenerateOnce(ctx, r, req, prompts)
		if err == nil {
			answer, warnings := content.DeriveAnswer(it)
			r.logger.Info("regenerate.done", zap.Int("attempt", attempt))
			return &RegeneratedItem{Item: it, Answer: answer, Warnings: warnings}, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		r.logger.Warn("regenerate.attempt_failed", zap.Int("attempt", attempt), zap.Error(err))
	}
	return nil, aiFailure(ctx, r, "regenerate", lastErr)
}

func (g *Generator) regenerateOnce(ctx context.Context, r *run, req RegenerateRequest, p prompt.Prompts) (content.Item, error) {
	raw, err := g.invoke(ctx, r, PurposeRegenerate, p)
	if err != nil {
		return content.Item{}, err
	}
	items, err := g.parseItems(r, raw)
	if err != nil {
		return content.Item{}, err
	}

	// Items of any other type are ignored.
	var candidates []content.Item
	for _, it := range items {
		if it.Type == req.Type {
			candidates = append(candidates, it)
		}
	}
	if len(candidates) == 0 {
		return content.Item{}, fmt.Errorf("%w: no %s among %d items", errNoUsableItem, req.Type, len(items))
	}

	for _, it := range candidates {
		outcome := g.config.Rules.Validate([]content.Item{it}, req.Subject, req.Grade)
		if outcome.Valid {
			return it, nil
		}
		for _, e := range outcome.Errors {
			r.logger.Info("validation.rejected", zap.Int("ordinal", it.Ordinal), zap.String("code", e.Code))
		}
	}
	return content.Item{}, fmt.Errorf("%w (%d items)", errNoUsableItem, len(items))
}
