package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// RenderStatus is the lifecycle state of a render record.
type RenderStatus string

const (
	RenderRunning   RenderStatus = "running"
	RenderSucceeded RenderStatus = "succeeded"
	RenderFailed    RenderStatus = "failed"
)

// Render is one recorded encode attempt.
type Render struct {
	ID           string
	ProjectID    string
	Tier         string
	Status       RenderStatus
	Encoder      string
	OutputPath   string
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// BeginRender records a render as running.
func (s *Store) BeginRender(ctx context.Context, id, projectID, tier string) error {
	if err := s.execWithRetry(ctx,
		`INSERT INTO renders (id, project_id, tier, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, projectID, tier, RenderRunning, formatTime(time.Now()),
	); err != nil {
		return fmt.Errorf("insert render: %w", err)
	}
	return nil
}

// FinishRender marks a render as succeeded, or failed when renderErr is set.
func (s *Store) FinishRender(ctx context.Context, id, encoder, outputPath string, renderErr error) error {
	status := RenderSucceeded
	message := ""
	if renderErr != nil {
		status = RenderFailed
		message = renderErr.Error()
	}
	if err := s.execWithRetry(ctx,
		`UPDATE renders SET status = ?, encoder = ?, output_path = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		status, nullableString(encoder), nullableString(outputPath), nullableString(message), formatTime(time.Now()), id,
	); err != nil {
		return fmt.Errorf("update render: %w", err)
	}
	return nil
}

// Renders lists the most recent renders for projectID, newest first. A
// non-positive limit returns all of them.
func (s *Store) Renders(ctx context.Context, projectID string, limit int) ([]Render, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, project_id, tier, status, encoder, output_path, error_message, started_at, finished_at
              FROM renders WHERE project_id = ? ORDER BY started_at DESC, rowid DESC`
	args := []any{strings.TrimSpace(projectID)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query renders: %w", err)
	}
	defer rows.Close()

	var out []Render
	for rows.Next() {
		var (
			r                        Render
			status                   string
			encoder, output, message sql.NullString
			startedAt, finishedAt    sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.Tier, &status, &encoder, &output, &message, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan render: %w", err)
		}
		r.Status = RenderStatus(status)
		r.Encoder = encoder.String
		r.OutputPath = output.String
		r.ErrorMessage = message.String
		r.StartedAt = parseTime(startedAt)
		r.FinishedAt = parseTime(finishedAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate renders: %w", err)
	}
	return out, nil
}
