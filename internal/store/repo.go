package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record lookup matches nothing.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match when non-empty
	RunID   string    // exact run match when non-empty
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	RunID        string
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// UsageStat aggregates token usage for one group of events.
type UsageStat struct {
	Key          string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns one event by ID, or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// UsageByPurpose aggregates events grouped by purpose label.
	UsageByPurpose(ctx context.Context) ([]UsageStat, error)

	// UsageByModel aggregates events grouped by model.
	UsageByModel(ctx context.Context) ([]UsageStat, error)
}

// Artifact kinds.
const (
	KindWorksheet    = "worksheet"
	KindPresentation = "presentation"
)

// ArtifactRecord is a generated worksheet or presentation with the request
// that produced it.
type ArtifactRecord struct {
	ID         string
	Sequence   int64
	Timestamp  time.Time
	Kind       string
	Subject    string
	Grade      int
	Topic      string
	Difficulty string
	Model      string
	Version    string

	// Reconciliation outcome. Presentations leave these zero.
	BackfillAttempts int
	MissingSelection int
	MissingOpen      int

	RequestJSON string
	ContentJSON string
}

// ArtifactRepo persists generated artifacts.
type ArtifactRepo interface {
	// Save stores rec, assigning Sequence and Timestamp when zero.
	Save(ctx context.Context, rec *ArtifactRecord) error

	// Get returns the artifact with the given ID or unique ID prefix,
	// or ErrNotFound.
	Get(ctx context.Context, id string) (*ArtifactRecord, error)

	// List returns artifacts newest first. An empty kind matches all.
	List(ctx context.Context, kind string, limit int) ([]ArtifactRecord, error)
}
