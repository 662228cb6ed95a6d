package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/edugen/internal/content"
	"github.com/abhisek/edugen/internal/extract"
	"github.com/abhisek/edugen/internal/llm"
)

// ErrReviewUnavailable is returned when no item could be reviewed.
var ErrReviewUnavailable = errors.New("review unavailable")

// ReviewerConfig configures the LLM reviewer.
type ReviewerConfig struct {
	// Concurrency bounds parallel review calls. Zero means 4.
	Concurrency int `yaml:"concurrency"`
	// Model overrides the provider model for review calls.
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// Reviewer is the built-in Agent. It reviews each item with its own model
// call, in parallel up to the configured concurrency.
type Reviewer struct {
	provider llm.Provider
	cfg      ReviewerConfig
	logger   *zap.Logger
}

var _ Agent = (*Reviewer)(nil)

// NewReviewer creates a Reviewer. A nil logger discards diagnostics.
func NewReviewer(provider llm.Provider, cfg ReviewerConfig, logger *zap.Logger) *Reviewer {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reviewer{provider: provider, cfg: cfg, logger: logger}
}

// reviewSchema is the structured output requested per item. The corrected
// item travels as a JSON string so the schema stays strict.
var reviewSchema = &llm.Schema{
	Name:        "item-review",
	Description: "Verdict on one worksheet task",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"verdict": map[string]any{
				"type": "string",
				"enum": []any{VerdictOK, VerdictFix, VerdictDrop},
			},
			"issues": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"fixedItem": map[string]any{
				"type":        "string",
				"description": "The corrected task as a JSON object string when verdict is fix, otherwise empty",
			},
		},
		"required":             []any{"verdict", "issues", "fixedItem"},
		"additionalProperties": false,
	},
}

const reviewSystemPrompt = `You are a strict reviewer of school worksheet tasks.

Check the task for factual errors, a wrong or missing answer key, ambiguity, and fit for the grade and difficulty.
Answer with a JSON object: {"verdict": "ok" | "fix" | "drop", "issues": ["..."], "fixedItem": "..."}.
- "ok": the task is correct as is; fixedItem is "".
- "fix": the task has problems you can correct; fixedItem is the corrected task as a JSON string with the same "type" and field names.
- "drop": the task is unusable; fixedItem is "".`

type reviewVerdict struct {
	Verdict   string   `json:"verdict"`
	Issues    []string `json:"issues"`
	FixedItem string   `json:"fixedItem"`
}

type reviewResult struct {
	item    content.Item
	drop    bool
	problem bool
	issue   *AgentIssue
	err     error
}

// Review checks every item. Calls that fail leave their item unchanged. The
// returned error is non-nil only when ctx ends or every call failed; the
// outcome is then the unchanged input.
func (r *Reviewer) Review(ctx context.Context, items []content.Item, c Context, opts AgentOptions) (AgentOutcome, error) {
	unchanged := AgentOutcome{FixedItems: append([]content.Item(nil), items...)}
	if len(items) == 0 {
		return unchanged, nil
	}

	results := make([]reviewResult, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for i, it := range items {
		g.Go(func() error {
			results[i] = r.reviewOne(gctx, it, c, opts)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return unchanged, err
	}

	var out AgentOutcome
	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
		}
		if res.issue != nil {
			out.Issues = append(out.Issues, *res.issue)
		}
		if res.problem {
			out.ProblemItems = append(out.ProblemItems, res.item)
		}
		if !res.drop {
			out.FixedItems = append(out.FixedItems, res.item)
		}
	}
	if failed == len(items) {
		return unchanged, fmt.Errorf("%w: all %d review calls failed: %v", ErrReviewUnavailable, failed, results[0].err)
	}
	return out, nil
}

func (r *Reviewer) reviewOne(ctx context.Context, it content.Item, c Context, opts AgentOptions) reviewResult {
	keep := reviewResult{item: it}

	payload, err := json.Marshal(it)
	if err != nil {
		keep.err = err
		return keep
	}

	resp, err := r.provider.Generate(llm.WithPurpose(ctx, "agent-review"), llm.Request{
		System: reviewSystemPrompt,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: reviewPrompt(c, string(payload)),
		}},
		Schema:      reviewSchema,
		Model:       r.cfg.Model,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		r.logger.Warn("review.call_failed", zap.Int("ordinal", it.Ordinal), zap.Error(err))
		keep.err = err
		return keep
	}

	var v reviewVerdict
	if err := extract.Decode(string(resp.Content), &v); err != nil {
		r.logger.Warn("review.parse_failed", zap.Int("ordinal", it.Ordinal), zap.Error(err))
		keep.err = err
		return keep
	}

	msg := strings.Join(v.Issues, "; ")
	switch strings.ToLower(strings.TrimSpace(v.Verdict)) {
	case VerdictDrop:
		return reviewResult{
			item:    it,
			drop:    true,
			problem: true,
			issue:   &AgentIssue{Ordinal: it.Ordinal, Verdict: VerdictDrop, Message: msg},
		}
	case VerdictFix:
		res := reviewResult{
			item:    it,
			problem: true,
			issue:   &AgentIssue{Ordinal: it.Ordinal, Verdict: VerdictFix, Message: msg},
		}
		if !opts.AutoFix {
			return res
		}
		fixed, err := decodeFix(it, v.FixedItem)
		if err != nil {
			r.logger.Info("review.fix_rejected", zap.Int("ordinal", it.Ordinal), zap.Error(err))
			return res
		}
		res.item = fixed
		return res
	default:
		return keep
	}
}

// decodeFix parses a corrected item. The fix keeps the original ordinal and
// must stay in the original family.
func decodeFix(orig content.Item, raw string) (content.Item, error) {
	obj, err := extract.Object(raw)
	if err != nil {
		return orig, err
	}
	fixed, err := content.DecodeItem(obj)
	if err != nil {
		return orig, err
	}
	if fixed.Family() != orig.Family() {
		return orig, fmt.Errorf("fix changes %s item into %s", orig.Type, fixed.Type)
	}
	fixed.Ordinal = orig.Ordinal
	return fixed, nil
}

func reviewPrompt(c Context, item string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", c.Subject.Label())
	fmt.Fprintf(&b, "Grade: %d\n", c.Grade)
	fmt.Fprintf(&b, "Topic: %s\n", c.Topic)
	fmt.Fprintf(&b, "Difficulty: %s\n\n", c.Difficulty)
	b.WriteString("Task:\n")
	b.WriteString(item)
	return b.String()
}
