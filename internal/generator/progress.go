package generator

import "go.uber.org/zap"

// ProgressFunc receives completion percentages in 0..100. It is called
// synchronously from the generating goroutine and must not block.
type ProgressFunc func(percent int)

// Worksheet milestones.
const (
	progressAccepted   = 5
	progressPrompted   = 15
	progressParsed     = 60
	progressReconciled = 75
	progressValidated  = 90
	progressAssembled  = 95
	progressDone       = 100
)

// progress forwards milestones to the caller's callback. Values never
// decrease, and a panicking callback is logged and otherwise ignored.
type progress struct {
	fn     ProgressFunc
	last   int
	logger *zap.Logger
}

func newProgress(fn ProgressFunc, logger *zap.Logger) *progress {
	return &progress{fn: fn, last: -1, logger: logger}
}

func (p *progress) report(pct int) {
	if p.fn == nil {
		return
	}
	pct = max(pct, p.last, 0)
	pct = min(pct, 100)
	if pct == p.last {
		return
	}
	p.last = pct

	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("progress.callback_panic", zap.Int("percent", pct), zap.Any("panic", r))
		}
	}()
	p.fn(pct)
}
