package allocator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func discResult() TestResult {
	return TestResult{
		CandidateID:      "a",
		TestType:         TestTypeDISC,
		NormalizedScores: map[string]float64{"D": 90, "I": 40},
		OverallScore:     80,
	}
}

func TestFitness_PreferHighScenario(t *testing.T) {
	// DISC {D:90, I:40}, overall 80, job prefers high D
	fitness := Fitness(discResult(), Criterion{PreferHigh: []string{"D"}})
	assert.Equal(t, 90.0, fitness)
}

func TestFitness_EmptyCriterionUsesOverall(t *testing.T) {
	assert.Equal(t, 80.0, Fitness(discResult(), Criterion{}))
}

func TestFitness_AveragesApplicableParts(t *testing.T) {
	criterion := Criterion{
		Traits:     []string{"Leader"}, // no match -> 0
		PreferHigh: []string{"D"},      // 90
	}
	assert.Equal(t, 45.0, Fitness(discResult(), criterion))
}

func TestFitness_NonFiniteOverallFallsBackToZero(t *testing.T) {
	result := TestResult{OverallScore: math.NaN()}
	assert.Equal(t, 0.0, Fitness(result, Criterion{}))

	result.OverallScore = math.Inf(1)
	assert.Equal(t, 0.0, Fitness(result, Criterion{PreferHigh: []string{"missing"}}))
}

func TestTraitMatchScore(t *testing.T) {
	tests := []struct {
		name     string
		desired  []string
		traits   []string
		expected float64
	}{
		{"no desired traits", nil, []string{"INTJ"}, 0},
		{"full match", []string{"INTJ"}, []string{"INTJ"}, 100},
		{"case insensitive", []string{"INTJ", "Leader"}, []string{"intj"}, 50},
		{"full width characters", []string{"INTJ"}, []string{"ＩＮＴＪ"}, 100},
		{"duplicates count once", []string{"Chess", "chess", "Reading"}, []string{"CHESS"}, 50},
		{"candidate has no traits", []string{"Chess"}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TraitMatchScore(tt.desired, tt.traits))
		})
	}
}

func TestScoreDiffScore(t *testing.T) {
	result := discResult()

	// 100-|80-90| = 90 and 100-|50-40| = 90
	assert.Equal(t, 90.0, ScoreDiffScore(map[string]float64{"D": 80, "I": 50}, result))

	// Missing candidate dimension scores neutral 50: (90 + 50) / 2
	assert.Equal(t, 70.0, ScoreDiffScore(map[string]float64{"D": 80, "Z": 10}, result))

	// Differences beyond 100 clamp to 0
	assert.Equal(t, 0.0, ScoreDiffScore(map[string]float64{"I": 250}, result))

	// Non-finite target is treated as neutral
	assert.Equal(t, 50.0, ScoreDiffScore(map[string]float64{"D": math.NaN()}, result))

	assert.Equal(t, 0.0, ScoreDiffScore(nil, result))
}

func TestPreferHighScore_MissingDimensionUsesFallback(t *testing.T) {
	// (90 + 80) / 2: "X" is missing so the overall score stands in
	assert.Equal(t, 85.0, PreferHighScore([]string{"D", "X"}, discResult(), 80))
}

func TestPreferHighScore_FallsBackToRawScores(t *testing.T) {
	result := TestResult{
		NormalizedScores: map[string]float64{"I": 20},
		RawScores:        map[string]float64{"D": 70},
		OverallScore:     50,
	}
	assert.Equal(t, 70.0, PreferHighScore([]string{"D"}, result, 50))
}

func TestPreferHighScore_CaseInsensitiveDimension(t *testing.T) {
	result := TestResult{NormalizedScores: map[string]float64{"strategic thinking": 60}}
	assert.Equal(t, 60.0, PreferHighScore([]string{"Strategic Thinking"}, result, 0))
}

func TestPreferHighScore_NonFiniteValueTreatedAsMissing(t *testing.T) {
	result := TestResult{NormalizedScores: map[string]float64{"D": math.NaN()}, OverallScore: 30}
	assert.Equal(t, 30.0, PreferHighScore([]string{"D"}, result, 30))
}

func TestPreferHighScore_ClampsOutOfRangeValues(t *testing.T) {
	result := TestResult{NormalizedScores: map[string]float64{"D": 140, "I": -20}}
	assert.Equal(t, 50.0, PreferHighScore([]string{"D", "I"}, result, 0))
}

func TestPreferLowScore(t *testing.T) {
	// 100 - 90 = 10
	assert.Equal(t, 10.0, PreferLowScore([]string{"D"}, discResult(), 20))

	// Missing dimension uses the fallback (100 - overall = 20): (60 + 20) / 2
	assert.Equal(t, 40.0, PreferLowScore([]string{"I", "X"}, discResult(), 20))

	assert.Equal(t, 10.0, Fitness(discResult(), Criterion{PreferLow: []string{"D"}}))
	assert.Equal(t, 20.0, Fitness(discResult(), Criterion{PreferLow: []string{"X"}}))
}
