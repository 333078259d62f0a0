package db

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Snapshot is the on-disk layout of a snapshot file
type Snapshot struct {
	Candidates  []Candidate  `yaml:"candidates"`
	TestResults []TestResult `yaml:"testResults"`
}

// SnapshotDB is a read-only store backed by a YAML snapshot file.
// Results keep the order they appear in the file.
type SnapshotDB struct {
	snapshot Snapshot
}

// LoadSnapshotDB reads and checks a snapshot file
func LoadSnapshotDB(path string) (*SnapshotDB, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot builds a SnapshotDB from YAML.
// Returns an error if a candidate ID or result ID appears more than once.
func ParseSnapshot(data []byte) (*SnapshotDB, error) {
	var snapshot Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	candidateIDs := make(map[string]bool, len(snapshot.Candidates))
	for i, candidate := range snapshot.Candidates {
		id := strings.TrimSpace(candidate.ID)
		if id == "" {
			return nil, fmt.Errorf("candidates[%d] has no id", i)
		}
		if candidateIDs[id] {
			return nil, fmt.Errorf("data integrity violation: duplicate candidate id %s", id)
		}
		candidateIDs[id] = true
		snapshot.Candidates[i].ID = id
	}

	resultIDs := make(map[string]bool, len(snapshot.TestResults))
	for i, result := range snapshot.TestResults {
		if strings.TrimSpace(result.CandidateID) == "" {
			return nil, fmt.Errorf("testResults[%d] has no candidateId", i)
		}
		if result.ID == "" {
			continue
		}
		if resultIDs[result.ID] {
			return nil, fmt.Errorf("data integrity violation: duplicate test result id %s", result.ID)
		}
		resultIDs[result.ID] = true
	}

	return &SnapshotDB{snapshot: snapshot}, nil
}

// Snapshot returns the loaded snapshot
func (s *SnapshotDB) Snapshot() Snapshot {
	return s.snapshot
}

// GetTestResults returns the results for the given candidates in file order
func (s *SnapshotDB) GetTestResults(ctx context.Context, candidateIDs []string) ([]TestResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var results []TestResult
	for _, result := range s.snapshot.TestResults {
		if slices.Contains(candidateIDs, strings.TrimSpace(result.CandidateID)) {
			result.CandidateID = strings.TrimSpace(result.CandidateID)
			results = append(results, result)
		}
	}
	return results, nil
}

// GetCandidates returns the candidate records for the given IDs.
// Unknown IDs are skipped.
func (s *SnapshotDB) GetCandidates(ctx context.Context, candidateIDs []string) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var candidates []Candidate
	for _, candidate := range s.snapshot.Candidates {
		if slices.Contains(candidateIDs, candidate.ID) {
			candidates = append(candidates, candidate)
		}
	}
	return candidates, nil
}

// ListCandidateIDs returns every candidate known to the snapshot, including
// candidates that only appear in test results, in first-seen order
func (s *SnapshotDB) ListCandidateIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}

	for _, candidate := range s.snapshot.Candidates {
		add(candidate.ID)
	}
	for _, result := range s.snapshot.TestResults {
		add(result.CandidateID)
	}
	return ids, nil
}
