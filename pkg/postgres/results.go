package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Navy-M/Web-Exams-sub000/pkg/db"
)

// GetTestResults retrieves every result for the given candidates in insertion order
func (d *DB) GetTestResults(ctx context.Context, candidateIDs []string) ([]db.TestResult, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, candidate_id, test_type, raw_scores, normalized_scores, traits,
		       overall_score, duration_seconds, completed_at
		FROM test_result
		WHERE candidate_id = ANY($1)
		ORDER BY seq
	`, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query test results: %w", err)
	}
	defer rows.Close()

	var results []db.TestResult
	for rows.Next() {
		var r db.TestResult
		if err := rows.Scan(
			&r.ID, &r.CandidateID, &r.TestType, &r.RawScores, &r.NormalizedScores, &r.Traits,
			&r.OverallScore, &r.DurationSeconds, &r.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan test result: %w", err)
		}
		r.CompletedAt = r.CompletedAt.UTC()
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating test results: %w", err)
	}

	return results, nil
}

// InsertTestResults appends test results in slice order. Results without an ID get a new UUID;
// results whose ID already exists are skipped, so loading the same snapshot twice is harmless.
func (d *DB) InsertTestResults(ctx context.Context, results []db.TestResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range results {
		row := insertableResult(r)
		_, err := tx.Exec(ctx, `
			INSERT INTO test_result (id, candidate_id, test_type, raw_scores, normalized_scores, traits,
			                         overall_score, duration_seconds, completed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING
		`, row.ID, row.CandidateID, row.TestType, row.RawScores, row.NormalizedScores, row.Traits,
			row.OverallScore, row.DurationSeconds, row.CompletedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to insert test result for candidate %s: %w", r.CandidateID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// insertableResult fills the defaults the table's NOT NULL columns need
func insertableResult(r db.TestResult) db.TestResult {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.RawScores == nil {
		r.RawScores = map[string]float64{}
	}
	if r.NormalizedScores == nil {
		r.NormalizedScores = map[string]float64{}
	}
	if r.Traits == nil {
		r.Traits = []string{}
	}
	return r
}

var _ db.Database = (*DB)(nil)
var _ db.Writer = (*DB)(nil)
