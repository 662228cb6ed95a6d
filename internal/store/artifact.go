package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var artifactSelectColumns = []string{
	"id", "sequence", "created_at", "kind", "subject", "grade", "topic",
	"difficulty", "model", "version", "backfill_attempts", "missing_selection",
	"missing_open", "request_json", "content_json",
}

type artifactRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *artifactRepo) Save(ctx context.Context, rec *ArtifactRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("save artifact: empty id")
	}
	if rec.Sequence == 0 {
		seqNum, err := r.seq.Next(ctx)
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		rec.Sequence = seqNum
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	query, args := builder().Insert(artifactsTable).
		Columns(artifactSelectColumns...).
		Values(
			rec.ID, rec.Sequence, rec.Timestamp.UnixMilli(), rec.Kind, rec.Subject, rec.Grade, rec.Topic,
			rec.Difficulty, rec.Model, rec.Version, rec.BackfillAttempts, rec.MissingSelection,
			rec.MissingOpen, rec.RequestJSON, rec.ContentJSON,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save artifact: %w", err)
	}
	return nil
}

func (r *artifactRepo) Get(ctx context.Context, id string) (*ArtifactRecord, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	// Exact match first, then a unique prefix like the short IDs printed
	// by `history list`.
	for _, pred := range []*entsql.Predicate{entsql.EQ("id", id), entsql.HasPrefix("id", id)} {
		query, args := builder().Select(artifactSelectColumns...).
			From(entsql.Table(artifactsTable)).
			Where(pred).
			OrderBy(entsql.Desc("sequence")).
			Limit(2).
			Query()

		recs, err := r.query(ctx, query, args)
		if err != nil {
			return nil, err
		}
		switch len(recs) {
		case 0:
			continue
		case 1:
			return &recs[0], nil
		default:
			return nil, fmt.Errorf("artifact id prefix %q is ambiguous", id)
		}
	}
	return nil, ErrNotFound
}

func (r *artifactRepo) List(ctx context.Context, kind string, limit int) ([]ArtifactRecord, error) {
	sel := builder().Select(artifactSelectColumns...).
		From(entsql.Table(artifactsTable)).
		OrderBy(entsql.Desc("sequence"))
	if kind != "" {
		sel.Where(entsql.EQ("kind", kind))
	}
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()
	return r.query(ctx, query, args)
}

func (r *artifactRepo) query(ctx context.Context, query string, args []any) ([]ArtifactRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	var out []ArtifactRecord
	for rows.Next() {
		var rec ArtifactRecord
		var createdAt int64
		err := rows.Scan(
			&rec.ID, &rec.Sequence, &createdAt, &rec.Kind, &rec.Subject, &rec.Grade, &rec.Topic,
			&rec.Difficulty, &rec.Model, &rec.Version, &rec.BackfillAttempts, &rec.MissingSelection,
			&rec.MissingOpen, &rec.RequestJSON, &rec.ContentJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		rec.Timestamp = time.UnixMilli(createdAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return out, nil
}
