package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	llmEventsTable = "llm_request_events"
	artifactsTable = "artifacts"
)

// Columns and tables are declared the way ent's generated migrate package
// does, so schema.Migrate can create and evolve them.
var (
	llmEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "run_id", Type: field.TypeString, Default: ""},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}

	llmEventsSchema = &schema.Table{
		Name:       llmEventsTable,
		Columns:    llmEventColumns,
		PrimaryKey: []*schema.Column{llmEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventColumns[6]}},
			{Name: "llmrequestevent_run_id", Columns: []*schema.Column{llmEventColumns[3]}},
		},
	}

	artifactColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "kind", Type: field.TypeString},
		{Name: "subject", Type: field.TypeString},
		{Name: "grade", Type: field.TypeInt},
		{Name: "topic", Type: field.TypeString},
		{Name: "difficulty", Type: field.TypeString, Default: ""},
		{Name: "model", Type: field.TypeString, Default: ""},
		{Name: "version", Type: field.TypeString, Default: ""},
		{Name: "backfill_attempts", Type: field.TypeInt, Default: 0},
		{Name: "missing_selection", Type: field.TypeInt, Default: 0},
		{Name: "missing_open", Type: field.TypeInt, Default: 0},
		{Name: "request_json", Type: field.TypeString, Size: 2147483647},
		{Name: "content_json", Type: field.TypeString, Size: 2147483647},
	}

	artifactsSchema = &schema.Table{
		Name:       artifactsTable,
		Columns:    artifactColumns,
		PrimaryKey: []*schema.Column{artifactColumns[0]},
		Indexes: []*schema.Index{
			{Name: "artifact_kind", Columns: []*schema.Column{artifactColumns[3]}},
		},
	}

	tables = []*schema.Table{llmEventsSchema, artifactsSchema}
)
