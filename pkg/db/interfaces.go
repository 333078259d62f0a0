package db

import "context"

// TestResultStore provides read access to stored test results
type TestResultStore interface {
	// GetTestResults returns every result for the given candidates in insertion order
	GetTestResults(ctx context.Context, candidateIDs []string) ([]TestResult, error)
}

// CandidateStore provides read access to candidate records
type CandidateStore interface {
	GetCandidates(ctx context.Context, candidateIDs []string) ([]Candidate, error)
	ListCandidateIDs(ctx context.Context) ([]string, error)
}

// Database defines the interface for all read operations used by allocation.
// Both the YAML-backed SnapshotDB and postgres.DB implement this interface.
type Database interface {
	TestResultStore
	CandidateStore
}

// Writer defines the operations used to load candidates and results into a store
type Writer interface {
	InsertCandidates(ctx context.Context, candidates []Candidate) error
	InsertTestResults(ctx context.Context, results []TestResult) error
}
