package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
	"github.com/Rupali110289/emiprdict/internal/core/ports/driven"
)

// historyStore implements driven.FetchHistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.FetchHistoryStore = (*historyStore)(nil)

// Record stores one attempt.
func (s *historyStore) Record(ctx context.Context, rec domain.FetchRecord) error {
	if rec.ID == "" || !rec.Outcome.IsValid() {
		return fmt.Errorf("%w: fetch record needs an id and a known outcome", domain.ErrInvalidInput)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO fetch_records
			(id, call_id, name, locator, attempt, outcome, size_bytes, error, started_at, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.CallID, rec.Name, rec.Locator, rec.Attempt, string(rec.Outcome),
		rec.SizeBytes, rec.Error, rec.StartedAt.UnixNano(), int64(rec.Duration))
	if err != nil {
		return fmt.Errorf("saving fetch record: %w", err)
	}
	return nil
}

// List returns attempts newest first. Rows with equal start times come
// back in reverse insertion order.
func (s *historyStore) List(ctx context.Context, name string, limit int) ([]domain.FetchRecord, error) {
	query := `
		SELECT id, call_id, name, locator, attempt, outcome, size_bytes, error, started_at, duration_ns
		FROM fetch_records`
	var args []any
	if name != "" {
		query += " WHERE name = ?"
		args = append(args, name)
	}
	query += " ORDER BY started_at DESC, rowid DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying fetch records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.FetchRecord, 0)
	for rows.Next() {
		var (
			rec       domain.FetchRecord
			outcome   string
			startedAt int64
			duration  int64
		)
		if err := rows.Scan(&rec.ID, &rec.CallID, &rec.Name, &rec.Locator, &rec.Attempt,
			&outcome, &rec.SizeBytes, &rec.Error, &startedAt, &duration); err != nil {
			return nil, fmt.Errorf("scanning fetch record: %w", err)
		}
		rec.Outcome = domain.AttemptOutcome(outcome)
		rec.StartedAt = time.Unix(0, startedAt)
		rec.Duration = time.Duration(duration)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fetch records: %w", err)
	}
	return records, nil
}

// Prune deletes attempts started before the cutoff.
func (s *historyStore) Prune(ctx context.Context, before time.Time) (int, error) {
	result, err := s.store.db.ExecContext(ctx,
		"DELETE FROM fetch_records WHERE started_at < ?", before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("pruning fetch records: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning fetch records: %w", err)
	}
	return int(n), nil
}
