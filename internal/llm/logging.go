package llm

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/edugen/internal/store"
)

// LoggingProvider records every call it forwards as an LLM request event,
// whatever the outcome. Event storage failures never fail the call.
type LoggingProvider struct {
	inner  Provider
	name   string
	events store.EventRepo
	logger *zap.Logger
}

// WithLogging wraps p so each call is appended to repo under the provider
// name. A nil repo only emits debug logs; a nil logger discards them.
func WithLogging(p Provider, name string, repo store.EventRepo, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingProvider{inner: p, name: name, events: repo, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ev := store.LLMRequestEventData{
		RunID:       RunIDFrom(ctx),
		Provider:    l.name,
		Model:       cmp.Or(req.Model, l.inner.ModelID()),
		Purpose:     PurposeFrom(ctx),
		RequestBody: transcript(req),
	}

	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	ev.LatencyMs = time.Since(start).Milliseconds()

	switch {
	case err != nil:
		ev.ErrorMessage = err.Error()
	default:
		ev.Success = true
	}
	if resp != nil {
		ev.Model = cmp.Or(resp.Model, ev.Model)
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}

	l.logger.Debug("llm.call",
		zap.String("run_id", ev.RunID),
		zap.String("purpose", ev.Purpose),
		zap.String("model", ev.Model),
		zap.Int64("latency_ms", ev.LatencyMs),
		zap.Int("input_tokens", ev.InputTokens),
		zap.Int("output_tokens", ev.OutputTokens),
		zap.Error(err),
	)

	if l.events != nil {
		if appendErr := l.events.AppendLLMRequest(ctx, ev); appendErr != nil {
			l.logger.Warn("llm.event_append_failed", zap.String("run_id", ev.RunID), zap.Error(appendErr))
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// transcript renders a request as the sections shown by "llm view".
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
