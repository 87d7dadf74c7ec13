package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clipforge/internal/services"
	"clipforge/internal/timeline"
)

var _ timeline.Sink = (*Store)(nil)

// ReplaceTimeline swaps the stored timeline for projectID with entries in one
// transaction. The render id in ctx, when present, is recorded alongside.
func (s *Store) ReplaceTimeline(ctx context.Context, projectID string, entries []timeline.Entry) error {
	ctx = ensureContext(ctx)
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return errors.New("replace timeline: empty project id")
	}
	renderID, _ := services.RenderIDFromContext(ctx)
	builtAt := formatTime(time.Now())

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin timeline tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, "DELETE FROM timeline_entries WHERE project_id = ?", projectID); err != nil {
			return fmt.Errorf("clear timeline: %w", err)
		}
		for i, entry := range entries {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO timeline_entries (
                    project_id, position, clip_filename, start_seconds, end_seconds, keyword, render_id, built_at
                ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				projectID, i, entry.ClipFilename, entry.Start, entry.End, entry.Keyword, nullableString(renderID), builtAt,
			); err != nil {
				return fmt.Errorf("insert timeline entry %d: %w", i, err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit timeline: %w", err)
		}
		return nil
	})
}

// Timeline returns the stored entries for projectID in order. A project with
// no stored timeline yields an empty slice.
func (s *Store) Timeline(ctx context.Context, projectID string) ([]timeline.Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT clip_filename, start_seconds, end_seconds, keyword
         FROM timeline_entries WHERE project_id = ? ORDER BY position`,
		strings.TrimSpace(projectID),
	)
	if err != nil {
		return nil, fmt.Errorf("query timeline: %w", err)
	}
	defer rows.Close()

	var entries []timeline.Entry
	for rows.Next() {
		var entry timeline.Entry
		if err := rows.Scan(&entry.ClipFilename, &entry.Start, &entry.End, &entry.Keyword); err != nil {
			return nil, fmt.Errorf("scan timeline entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timeline: %w", err)
	}
	return entries, nil
}
