package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSnapshot = `
candidates:
  - id: cand-1
    username: ann
    fullName: Ann Example
  - id: cand-2
    username: bob
testResults:
  - id: r1
    candidateId: cand-1
    testType: DISC
    normalizedScores: {D: 90, I: 40}
    overallScore: 80
    durationSeconds: 300
    completedAt: 2025-03-01T09:00:00Z
  - id: r2
    candidateId: cand-3
    testType: MBTI
    traits: [INTJ]
    overallScore: 70
    completedAt: 2025-03-02T09:00:00Z
  - id: r3
    candidateId: cand-1
    testType: DISC
    normalizedScores: {D: 60}
    overallScore: 50
    completedAt: 2025-03-03T09:00:00Z
`

func TestParseSnapshot(t *testing.T) {
	store, err := ParseSnapshot([]byte(testSnapshot))
	require.NoError(t, err)

	snapshot := store.Snapshot()
	require.Len(t, snapshot.Candidates, 2)
	require.Len(t, snapshot.TestResults, 3)

	first := snapshot.TestResults[0]
	assert.Equal(t, "DISC", first.TestType)
	assert.Equal(t, map[string]float64{"D": 90, "I": 40}, first.NormalizedScores)
	assert.Equal(t, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), first.CompletedAt)
}

func TestSnapshotDB_GetTestResults_KeepsFileOrder(t *testing.T) {
	store, err := ParseSnapshot([]byte(testSnapshot))
	require.NoError(t, err)

	results, err := store.GetTestResults(context.Background(), []string{"cand-1"})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "r1", results[0].ID)
	assert.Equal(t, "r3", results[1].ID)
}

func TestSnapshotDB_GetCandidates_SkipsUnknown(t *testing.T) {
	store, err := ParseSnapshot([]byte(testSnapshot))
	require.NoError(t, err)

	candidates, err := store.GetCandidates(context.Background(), []string{"cand-2", "cand-9"})
	require.NoError(t, err)

	assert.Equal(t, []Candidate{{ID: "cand-2", Username: "bob"}}, candidates)
}

func TestSnapshotDB_ListCandidateIDs(t *testing.T) {
	store, err := ParseSnapshot([]byte(testSnapshot))
	require.NoError(t, err)

	ids, err := store.ListCandidateIDs(context.Background())
	require.NoError(t, err)

	// cand-3 only appears in test results
	assert.Equal(t, []string{"cand-1", "cand-2", "cand-3"}, ids)
}

func TestSnapshotDB_CancelledContext(t *testing.T) {
	store, err := ParseSnapshot([]byte(testSnapshot))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.GetTestResults(ctx, []string{"cand-1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseSnapshot_IntegrityViolations(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		expected string
	}{
		{
			name:     "duplicate candidate",
			yaml:     "candidates: [{id: a}, {id: a}]",
			expected: "duplicate candidate id a",
		},
		{
			name:     "duplicate result id",
			yaml:     "testResults: [{id: r1, candidateId: a, testType: DISC}, {id: r1, candidateId: b, testType: DISC}]",
			expected: "duplicate test result id r1",
		},
		{
			name:     "result without candidate",
			yaml:     "testResults: [{testType: DISC}]",
			expected: "has no candidateId",
		},
		{
			name:     "candidate without id",
			yaml:     "candidates: [{username: ann}]",
			expected: "has no id",
		},
		{
			name:     "malformed yaml",
			yaml:     "candidates: {",
			expected: "failed to parse snapshot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSnapshot([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestLoadSnapshotDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSnapshot), 0644))

	store, err := LoadSnapshotDB(path)
	require.NoError(t, err)
	assert.Len(t, store.Snapshot().TestResults, 3)

	_, err = LoadSnapshotDB(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
