package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Abhiram-Bhat/aifit/internal/models"
	"github.com/jackc/pgx/v5"
)

// AppendSessionSummary inserts a finished-session record. Summaries are
// immutable; a duplicate ID is silently skipped (replay idempotency).
func (db *DB) AppendSessionSummary(ctx context.Context, s models.SessionSummary) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO pose_sessions (id, exercise, duration_sec, reps, started_at, saved_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT DO NOTHING`,
		s.ID, s.Exercise, s.DurationSec, s.Reps, s.StartedAt, s.SavedAt)
	if err != nil {
		return fmt.Errorf("inserting session summary: %w", err)
	}
	return nil
}

// ListSessionSummaries retrieves summaries saved within [start, end), oldest
// first.
func (db *DB) ListSessionSummaries(ctx context.Context, start, end time.Time) ([]models.SessionSummary, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, exercise, duration_sec, reps, started_at, saved_at
		 FROM pose_sessions
		 WHERE saved_at >= $1 AND saved_at < $2
		 ORDER BY saved_at`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying session summaries: %w", err)
	}
	defer rows.Close()

	return scanSessionRows(rows)
}

// AllSessionSummaries retrieves the full history, oldest first.
func (db *DB) AllSessionSummaries(ctx context.Context) ([]models.SessionSummary, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, exercise, duration_sec, reps, started_at, saved_at
		 FROM pose_sessions
		 ORDER BY saved_at`)
	if err != nil {
		return nil, fmt.Errorf("querying session summaries: %w", err)
	}
	defer rows.Close()

	return scanSessionRows(rows)
}

func scanSessionRows(rows pgx.Rows) ([]models.SessionSummary, error) {
	var out []models.SessionSummary
	for rows.Next() {
		var s models.SessionSummary
		if err := rows.Scan(&s.ID, &s.Exercise, &s.DurationSec, &s.Reps, &s.StartedAt, &s.SavedAt); err != nil {
			return nil, fmt.Errorf("scanning session summary: %w", err)
		}
		s.Date = s.SavedAt.Format("2006-01-02")
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
