package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Navy-M/Web-Exams-sub000/pkg/db"
)

// ImportSnapshotResult reports how many records were written
type ImportSnapshotResult struct {
	Candidates  int
	TestResults int
}

// ImportSnapshot copies a snapshot's candidates and results into a writable store.
// Results are written in snapshot order so equal-timestamp ties resolve the same way
// in both stores.
func ImportSnapshot(ctx context.Context, writer db.Writer, snapshot db.Snapshot, logger *zap.Logger) (*ImportSnapshotResult, error) {
	logger.Debug("Importing candidates", zap.Int("count", len(snapshot.Candidates)))
	if err := writer.InsertCandidates(ctx, snapshot.Candidates); err != nil {
		return nil, fmt.Errorf("failed to import candidates: %w", err)
	}

	logger.Debug("Importing test results", zap.Int("count", len(snapshot.TestResults)))
	if err := writer.InsertTestResults(ctx, snapshot.TestResults); err != nil {
		return nil, fmt.Errorf("failed to import test results: %w", err)
	}

	logger.Info("Snapshot imported",
		zap.Int("candidates", len(snapshot.Candidates)),
		zap.Int("test_results", len(snapshot.TestResults)))

	return &ImportSnapshotResult{
		Candidates:  len(snapshot.Candidates),
		TestResults: len(snapshot.TestResults),
	}, nil
}
