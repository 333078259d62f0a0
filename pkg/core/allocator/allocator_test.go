package allocator

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsForJob(result *AllocationResult, job string) []AllocationRow {
	var rows []AllocationRow
	for _, row := range result.Table {
		if row.Job == job {
			rows = append(rows, row)
		}
	}
	return rows
}

func rankedIDs(rows []AllocationRow) []string {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	return ids
}

func TestAllocate_EmptyCandidateIDs(t *testing.T) {
	for _, ids := range [][]string{nil, {}, {"", "  "}} {
		result, err := Allocate(Input{CandidateIDs: ids, Capacities: map[string]int{"analyst": 1}})

		require.Error(t, err)
		assert.True(t, IsInputError(err))
		assert.Nil(t, result)
	}
}

func TestAllocate_CandidateWithoutResultsRanksLast(t *testing.T) {
	input := Input{
		CandidateIDs: []string{"y", "x"},
		Capacities:   map[string]int{"analyst": 1},
		JobRequirements: map[string]map[string]RawCriterion{
			"analyst": {"DISC": ListCriterion("D")},
		},
		Results: []TestResult{
			{CandidateID: "x", TestType: "DISC", NormalizedScores: map[string]float64{"D": 90, "I": 40}, OverallScore: 80},
		},
	}

	result, err := Allocate(input)
	require.NoError(t, err)

	require.Len(t, result.Assignments, 1)
	assert.Equal(t, []Slot{{UserID: "x", Score: 90}}, result.Assignments[0].Slots)
	assert.Equal(t, []Slot{{UserID: "y", Score: 0}}, result.Waitlist[0].Queue)

	rows := rowsForJob(result, "analyst")
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Rank)
	assert.True(t, rows[0].Selected)
	assert.Equal(t, []string{TestTypeDISC}, rows[0].TestTypes)
	assert.Equal(t, 2, rows[1].Rank)
	assert.False(t, rows[1].Selected)
	assert.Empty(t, rows[1].TestTypes)
}

func TestAllocate_SkipsJobsWithoutCapacity(t *testing.T) {
	input := Input{
		CandidateIDs: []string{"a", "b"},
		Capacities:   map[string]int{"closed": 0, "negative": -2, "open": 1},
		JobRequirements: map[string]map[string]RawCriterion{
			"requirements-only": {"DISC": ListCriterion("D")},
		},
	}

	result, err := Allocate(input)
	require.NoError(t, err)

	require.Len(t, result.Assignments, 1)
	assert.Equal(t, "open", result.Assignments[0].Job)
	assert.Empty(t, rowsForJob(result, "closed"))
	assert.Empty(t, rowsForJob(result, "negative"))
	assert.Empty(t, rowsForJob(result, "requirements-only"))
	assert.Empty(t, ValidateResult(result, input))
}

func TestAllocate_NoJobs(t *testing.T) {
	result, err := Allocate(Input{CandidateIDs: []string{"a"}})
	require.NoError(t, err)

	assert.NotNil(t, result.Assignments)
	assert.NotNil(t, result.Waitlist)
	assert.NotNil(t, result.Table)
	assert.Empty(t, result.Table)
}

func TestAllocate_CapacityCut(t *testing.T) {
	var results []TestResult
	ids := make([]string, 0, 5)
	for i := range 5 {
		id := fmt.Sprintf("c%d", i)
		ids = append(ids, id)
		results = append(results, TestResult{CandidateID: id, TestType: TestTypeMBTI, OverallScore: float64(10 * i)})
	}

	tests := []struct {
		capacity         int
		expectedSelected int
	}{
		{1, 1},
		{3, 3},
		{5, 5},
		{8, 5},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("capacity %d", tt.capacity), func(t *testing.T) {
			input := Input{CandidateIDs: ids, Capacities: map[string]int{"job": tt.capacity}, Results: results}

			result, err := Allocate(input)
			require.NoError(t, err)

			assert.Len(t, result.Assignments[0].Slots, tt.expectedSelected)
			assert.Len(t, result.Waitlist[0].Queue, 5-tt.expectedSelected)

			rows := rowsForJob(result, "job")
			require.Len(t, rows, 5)
			for i, row := range rows {
				assert.Equal(t, i+1, row.Rank)
				assert.Equal(t, i < tt.expectedSelected, row.Selected)
			}
			// Highest overall score first
			assert.Equal(t, []string{"c4", "c3", "c2", "c1", "c0"}, rankedIDs(rows))
			assert.Empty(t, ValidateResult(result, input))
		})
	}
}

func TestAllocate_WellbeingBreaksTies(t *testing.T) {
	// GHQ has zero weight so both candidates score 80 from MBTI alone
	input := Input{
		CandidateIDs: []string{"a", "b"},
		Capacities:   map[string]int{"job": 1},
		Weights:      map[string]float64{TestTypeGHQ: 0, TestTypeMBTI: 1},
		Results: []TestResult{
			{CandidateID: "a", TestType: TestTypeMBTI, OverallScore: 80},
			{CandidateID: "a", TestType: TestTypeGHQ, OverallScore: 40},
			{CandidateID: "b", TestType: TestTypeMBTI, OverallScore: 80},
			{CandidateID: "b", TestType: TestTypeGHQ, OverallScore: 10},
		},
	}

	result, err := Allocate(input)
	require.NoError(t, err)

	rows := rowsForJob(result, "job")
	assert.Equal(t, 80.0, rows[0].Score)
	assert.Equal(t, 80.0, rows[1].Score)
	// b has wellbeing 90, a has 60
	assert.Equal(t, []string{"b", "a"}, rankedIDs(rows))
	assert.Equal(t, 90.0, rows[0].Wellbeing)
}

func TestAllocate_StrengthsBreakTiesAfterWellbeing(t *testing.T) {
	input := Input{
		CandidateIDs: []string{"a", "b"},
		Capacities:   map[string]int{"job": 1},
		Weights:      map[string]float64{TestTypeGHQ: 0, TestTypeMBTI: 1},
		Results: []TestResult{
			{CandidateID: "a", TestType: TestTypeMBTI, OverallScore: 80, Traits: []string{"INTJ"}},
			{CandidateID: "a", TestType: TestTypeGHQ, OverallScore: 20},
			{CandidateID: "b", TestType: TestTypeMBTI, OverallScore: 80, Traits: []string{"INTJ", "Leader"}},
			{CandidateID: "b", TestType: TestTypeGHQ, OverallScore: 20},
		},
	}

	result, err := Allocate(input)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, rankedIDs(rowsForJob(result, "job")))
}

func TestAllocate_UsesLatestResult(t *testing.T) {
	input := Input{
		CandidateIDs: []string{"a", "b"},
		Capacities:   map[string]int{"job": 1},
		Results: []TestResult{
			{CandidateID: "a", TestType: TestTypeMBTI, OverallScore: 95, CompletedAt: baseTime},
			{CandidateID: "a", TestType: TestTypeMBTI, OverallScore: 20, CompletedAt: baseTime.Add(time.Hour)},
			{CandidateID: "b", TestType: TestTypeMBTI, OverallScore: 50, CompletedAt: baseTime},
		},
	}

	result, err := Allocate(input)
	require.NoError(t, err)

	assert.Equal(t, []Slot{{UserID: "b", Score: 50}}, result.Assignments[0].Slots)
}

func TestAllocate_CandidateCanBeSelectedForSeveralJobs(t *testing.T) {
	input := Input{
		CandidateIDs: []string{"a", "b"},
		Capacities:   map[string]int{"analyst": 1, "engineer": 1},
		Results: []TestResult{
			{CandidateID: "a", TestType: TestTypeDISC, OverallScore: 90},
			{CandidateID: "b", TestType: TestTypeDISC, OverallScore: 40},
		},
	}

	result, err := Allocate(input)
	require.NoError(t, err)

	require.Len(t, result.Assignments, 2)
	assert.Equal(t, "analyst", result.Assignments[0].Job)
	assert.Equal(t, "engineer", result.Assignments[1].Job)
	assert.Equal(t, "a", result.Assignments[0].Slots[0].UserID)
	assert.Equal(t, "a", result.Assignments[1].Slots[0].UserID)
}

func TestAllocate_DisplayNames(t *testing.T) {
	input := Input{
		CandidateIDs: []string{"a", "b", "c"},
		Capacities:   map[string]int{"job": 3},
		Candidates: map[string]CandidateInfo{
			"a": {Username: "ann", FullName: "Ann Example"},
			"b": {Username: "bob"},
		},
	}

	result, err := Allocate(input)
	require.NoError(t, err)

	names := make(map[string]string)
	for _, row := range result.Table {
		names[row.UserID] = row.DisplayName
	}
	assert.Equal(t, map[string]string{"a": "Ann Example", "b": "bob", "c": "c"}, names)
}

func TestAllocate_DuplicateCandidateIDsCollapse(t *testing.T) {
	input := Input{
		CandidateIDs: []string{"a", " a ", "b", "a"},
		Capacities:   map[string]int{"job": 5},
	}

	result, err := Allocate(input)
	require.NoError(t, err)

	assert.Len(t, result.Table, 2)
	assert.Len(t, result.Assignments[0].Slots, 2)
	assert.Empty(t, ValidateResult(result, input))
}

func largeInput() Input {
	input := Input{
		Capacities: map[string]int{"analyst": 3, "engineer": 2, "manager": 1, "support": 4},
		Weights:    map[string]float64{TestTypeDISC: 2, TestTypeMBTI: 1, TestTypeGHQ: 0.5},
		JobRequirements: map[string]map[string]RawCriterion{
			"analyst":  {"DISC": ListCriterion("C"), "MBTI": ListCriterion("INTJ", "ISTJ")},
			"engineer": {"DISC": ObjectCriterion(Criterion{Scores: map[string]float64{"D": 60, "C": 80}})},
			"manager":  {"DISC": ListCriterion("D", "I"), "GHQ": ObjectCriterion(Criterion{PreferLow: []string{"distress"}})},
		},
	}

	mbti := []string{"INTJ", "ENFP", "ISTJ", "ESFJ"}
	for i := range 12 {
		id := fmt.Sprintf("cand-%02d", i)
		input.CandidateIDs = append(input.CandidateIDs, id)
		input.Results = append(input.Results,
			TestResult{
				CandidateID:      id,
				TestType:         TestTypeDISC,
				NormalizedScores: map[string]float64{"D": float64(i * 7 % 100), "I": float64(i * 13 % 100), "C": float64(i * 29 % 100)},
				OverallScore:     float64(i * 11 % 100),
				DurationSeconds:  float64(100 + i),
				CompletedAt:      baseTime.Add(time.Duration(i) * time.Minute),
			},
			TestResult{
				CandidateID:  id,
				TestType:     TestTypeMBTI,
				Traits:       []string{mbti[i%len(mbti)]},
				OverallScore: 60,
				CompletedAt:  baseTime,
			},
		)
		if i%3 == 0 {
			input.Results = append(input.Results, TestResult{
				CandidateID:      id,
				TestType:         TestTypeGHQ,
				NormalizedScores: map[string]float64{"distress": float64(i * 5)},
				OverallScore:     float64(i * 5),
				CompletedAt:      baseTime,
			})
		}
	}
	return input
}

func TestAllocate_Idempotent(t *testing.T) {
	input := largeInput()

	first, err := Allocate(input)
	require.NoError(t, err)
	second, err := Allocate(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Empty(t, ValidateResult(first, input))
}

func TestAllocate_ParallelMatchesSequential(t *testing.T) {
	input := largeInput()

	sequential, err := Allocate(input)
	require.NoError(t, err)
	parallel, err := Allocate(input, WithParallelism(4))
	require.NoError(t, err)

	assert.Equal(t, sequential, parallel)
}

func TestAllocate_ScoresStayInRange(t *testing.T) {
	input := largeInput()
	input.Results = append(input.Results, TestResult{
		CandidateID:      "cand-00",
		TestType:         TestTypeHolland,
		NormalizedScores: map[string]float64{"R": 400},
		OverallScore:     -50,
		CompletedAt:      baseTime,
	})

	result, err := Allocate(input)
	require.NoError(t, err)

	for _, row := range result.Table {
		assert.GreaterOrEqual(t, row.Score, 0.0)
		assert.LessOrEqual(t, row.Score, 100.0)
	}
}
