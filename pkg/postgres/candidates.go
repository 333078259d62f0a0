package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Navy-M/Web-Exams-sub000/pkg/db"
)

// GetCandidates retrieves the candidate records for the given IDs
func (d *DB) GetCandidates(ctx context.Context, candidateIDs []string) ([]db.Candidate, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, username, full_name
		FROM candidate
		WHERE id = ANY($1)
		ORDER BY id
	`, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}

	candidates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.Candidate, error) {
		var c db.Candidate
		err := row.Scan(&c.ID, &c.Username, &c.FullName)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan candidates: %w", err)
	}
	return candidates, nil
}

// ListCandidateIDs returns every candidate ID known to the store, including
// candidates that only have test results
func (d *DB) ListCandidateIDs(ctx context.Context) ([]string, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id FROM candidate
		UNION
		SELECT DISTINCT candidate_id FROM test_result
		ORDER BY 1
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate ids: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan candidate ids: %w", err)
	}
	return ids, nil
}

// InsertCandidates upserts candidate records
func (d *DB) InsertCandidates(ctx context.Context, candidates []db.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range candidates {
		batch.Queue(`
			INSERT INTO candidate (id, username, full_name)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username, full_name = EXCLUDED.full_name
		`, c.ID, c.Username, c.FullName)
	}

	if err := d.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert candidates: %w", err)
	}
	return nil
}
