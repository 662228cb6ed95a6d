package generator

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/edugen/internal/content"
	"github.com/abhisek/edugen/internal/prompt"
)

// WorksheetResult is a finished worksheet with the details of how it was
// produced.
type WorksheetResult struct {
	RunID      string
	Model      string
	Target     content.TargetCounts
	Worksheet  content.Worksheet
	Reconcile  ReconcileReport
	Validation ValidationReport
	Warnings   []content.ItemWarning
}

// GenerateWorksheet generates a worksheet for req. onProgress may be nil.
// Only a failure of the initial model call or its parse is returned, as
// ErrAI; shortfalls that backfill cannot cover yield a smaller worksheet.
func (g *Generator) GenerateWorksheet(ctx context.Context, req WorksheetRequest, onProgress ProgressFunc) (*content.Worksheet, error) {
	res, err := g.RunWorksheet(ctx, req, onProgress)
	if err != nil {
		return nil, err
	}
	return &res.Worksheet, nil
}

// RunWorksheet is GenerateWorksheet returning the full result.
func (g *Generator) RunWorksheet(ctx context.Context, req WorksheetRequest, onProgress ProgressFunc) (*WorksheetResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	target, err := g.config.Target(req.Format, req.Variant)
	if err != nil {
		return nil, err
	}

	ctx, r := g.newRun(ctx, "worksheet", req.Common, onProgress)
	r.logger.Info("worksheet.start",
		zap.String("format", string(req.Format)),
		zap.Stringer("target", target),
		zap.String("model", r.model),
	)
	r.progress.report(progressAccepted)

	selTypes := g.config.typesFor(content.FamilySelection, req.Format, req.ItemTypes)
	openTypes := g.config.typesFor(content.FamilyOpen, req.Format, req.ItemTypes)
	var types []content.ItemType
	if target.Selection > 0 {
		types = append(types, selTypes...)
	}
	if target.Open > 0 {
		types = append(types, openTypes...)
	}
	prompts := g.config.Prompts.Worksheet(prompt.WorksheetParams{
		Common:    promptCommon(req.Common),
		ItemTypes: types,
		Target:    target,
	})
	r.progress.report(progressPrompted)

	raw, err := g.invoke(ctx, r, PurposeWorksheet, prompts)
	if err != nil {
		return nil, aiFailure(ctx, r, "invoke", err)
	}
	items, err := g.parseItems(r, raw)
	if err != nil {
		return nil, aiFailure(ctx, r, "parse", err)
	}
	fams := content.Classify(items)
	r.logger.Info("worksheet.parsed",
		zap.Int("selection", len(fams.Selection)),
		zap.Int("open", len(fams.Open)),
	)
	r.progress.report(progressParsed)

	fams, reconcileReport := g.reconcile(ctx, r, req, target, fams)
	r.progress.report(progressReconciled)

	fams, validationReport := g.validate(ctx, r, req.Common, fams)
	r.progress.report(progressValidated)

	ws, warnings := content.AssembleWorksheet(fams.Selection, fams.Open, target)
	for _, w := range warnings {
		r.logger.Warn(answerEvent(w.Code),
			zap.Int("ordinal", w.Ordinal),
			zap.String("type", string(w.Type)),
			zap.String("message", w.Message),
		)
	}
	r.progress.report(progressAssembled)

	r.logger.Info("worksheet.done",
		zap.Int("test_questions", len(ws.TestQuestions)),
		zap.Int("assignments", len(ws.Assignments)),
		zap.Int("backfill_attempts", reconcileReport.Attempts),
	)
	r.progress.report(progressDone)

	return &WorksheetResult{
		RunID:      r.id,
		Model:      r.model,
		Target:     target,
		Worksheet:  ws,
		Reconcile:  reconcileReport,
		Validation: validationReport,
		Warnings:   warnings,
	}, nil
}

func answerEvent(code string) string {
	switch code {
	case content.WarnEmptyAnswer:
		return "answer.empty"
	case content.WarnShapeViolation:
		return "answer.fallback"
	}
	return "answer." + code
}
