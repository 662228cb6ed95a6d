package generator

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/edugen/internal/content"
	"github.com/abhisek/edugen/internal/extract"
	"github.com/abhisek/edugen/internal/prompt"
)

// PresentationResult is a finished presentation with run details.
type PresentationResult struct {
	RunID        string
	Model        string
	SlideCount   int
	Presentation content.Presentation
	Warnings     []content.Warning
}

// GeneratePresentation generates a slide deck in a single model call. The
// deck is normalized rather than rejected; only a failed call or an
// unparseable response returns ErrAI.
func (g *Generator) GeneratePresentation(ctx context.Context, req PresentationRequest, onProgress ProgressFunc) (*content.Presentation, error) {
	res, err := g.RunPresentation(ctx, req, onProgress)
	if err != nil {
		return nil, err
	}
	return &res.Presentation, nil
}

// RunPresentation is GeneratePresentation returning the full result.
func (g *Generator) RunPresentation(ctx context.Context, req PresentationRequest, onProgress ProgressFunc) (*PresentationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	n := req.SlideCount
	if n == 0 {
		n = g.config.DefaultSlides
	}

	ctx, r := g.newRun(ctx, "presentation", req.Common, onProgress)
	r.logger.Info("presentation.start", zap.Int("slides", n), zap.String("model", r.model))
	r.progress.report(progressAccepted)

	prompts := g.config.Prompts.Presentation(prompt.PresentationParams{
		Common:     promptCommon(req.Common),
		SlideCount: n,
	})
	r.progress.report(progressPrompted)

	raw, err := g.invoke(ctx, r, PurposePresentation, prompts)
	if err != nil {
		return nil, aiFailure(ctx, r, "invoke", err)
	}
	obj, err := extract.Object(raw)
	if err != nil {
		return nil, aiFailure(ctx, r, "parse", err)
	}
	deck, warnings, err := content.NormalizePresentation(obj, n, req.topic())
	if err != nil {
		return nil, aiFailure(ctx, r, "decode", err)
	}
	r.progress.report(progressParsed)

	for _, w := range warnings {
		event := "slides." + w.Code
		if w.Code == content.WarnSlideCount && len(deck.Slides) < n {
			event = "slides.short"
		}
		r.logger.Info(event, zap.String("message", w.Message))
	}
	r.progress.report(progressValidated)

	r.logger.Info("presentation.done", zap.Int("slides", len(deck.Slides)))
	r.progress.report(progressDone)

	return &PresentationResult{
		RunID:        r.id,
		Model:        r.model,
		SlideCount:   n,
		Presentation: deck,
		Warnings:     warnings,
	}, nil
}
