package allocator

import (
	"maps"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// neutralScoreDiff is used for a target dimension the candidate has no value for
const neutralScoreDiff = 50.0

// Fitness scores one test result against a job's criterion for that test,
// returning a value in [0, 100].
//
// Each non-empty part of the criterion (traits, scores, preferHigh, preferLow)
// produces its own 0-100 score and the fitness is their unweighted average.
// An empty criterion means the job has no explicit requirement for the test,
// so the candidate's overall score is used as is.
func Fitness(result TestResult, criterion Criterion) float64 {
	overall := clamp(result.OverallScore, 0)

	if criterion.IsEmpty() {
		return overall
	}

	var parts []float64
	if len(criterion.Traits) > 0 {
		parts = append(parts, TraitMatchScore(criterion.Traits, result.Traits))
	}
	if len(criterion.Scores) > 0 {
		parts = append(parts, ScoreDiffScore(criterion.Scores, result))
	}
	if len(criterion.PreferHigh) > 0 {
		parts = append(parts, PreferHighScore(criterion.PreferHigh, result, overall))
	}
	if len(criterion.PreferLow) > 0 {
		parts = append(parts, PreferLowScore(criterion.PreferLow, result, 100-overall))
	}

	return clamp(mean(parts), 0)
}

// TraitMatchScore returns the percentage of desired traits the candidate has.
// Matching ignores case and Unicode width differences; duplicate desired traits
// count once. Returns 0 when nothing is desired.
func TraitMatchScore(desired, traits []string) float64 {
	caser := cases.Fold()

	have := make(map[string]bool, len(traits))
	for _, trait := range traits {
		if key := foldTrait(caser, trait); key != "" {
			have[key] = true
		}
	}

	want := make(map[string]bool, len(desired))
	matched := 0
	for _, trait := range desired {
		key := foldTrait(caser, trait)
		if key == "" || want[key] {
			continue
		}
		want[key] = true
		if have[key] {
			matched++
		}
	}

	if len(want) == 0 {
		return 0
	}
	return clamp(float64(matched)/float64(len(want))*100, 0)
}

func foldTrait(caser cases.Caser, trait string) string {
	return caser.String(norm.NFKC.String(strings.TrimSpace(trait)))
}

// ScoreDiffScore rewards closeness to explicit target values: each dimension
// scores 100 - |target - value|, a missing candidate value scores 50, and the
// result is the average. Returns 0 when there are no targets.
func ScoreDiffScore(targets map[string]float64, result TestResult) float64 {
	if len(targets) == 0 {
		return 0
	}

	total := 0.0
	for _, dim := range slices.Sorted(maps.Keys(targets)) {
		target := targets[dim]
		value, ok := dimensionValue(result, dim)
		if !ok || math.IsNaN(target) || math.IsInf(target, 0) {
			total += neutralScoreDiff
			continue
		}
		total += clamp(100-math.Abs(target-value), neutralScoreDiff)
	}
	return clamp(total/float64(len(targets)), 0)
}

// PreferHighScore averages the candidate's values for the listed dimensions.
// A missing dimension contributes fallback instead of 0.
func PreferHighScore(dims []string, result TestResult, fallback float64) float64 {
	if len(dims) == 0 {
		return 0
	}
	fallback = clamp(fallback, 0)

	total := 0.0
	for _, dim := range dims {
		if value, ok := dimensionValue(result, dim); ok {
			total += clamp(value, fallback)
		} else {
			total += fallback
		}
	}
	return clamp(total/float64(len(dims)), 0)
}

// PreferLowScore averages 100 - value for the listed dimensions.
// A missing dimension contributes fallback (normally 100 - overall).
func PreferLowScore(dims []string, result TestResult, fallback float64) float64 {
	if len(dims) == 0 {
		return 0
	}
	fallback = clamp(fallback, 0)

	total := 0.0
	for _, dim := range dims {
		if value, ok := dimensionValue(result, dim); ok {
			total += 100 - clamp(value, 100-fallback)
		} else {
			total += fallback
		}
	}
	return clamp(total/float64(len(dims)), 0)
}

// dimensionValue looks a dimension up in the normalized scores, then the raw
// scores. Names match exactly first, then case-insensitively.
// Non-finite values are treated as missing.
func dimensionValue(result TestResult, dim string) (float64, bool) {
	for _, scores := range []map[string]float64{result.NormalizedScores, result.RawScores} {
		if value, ok := lookupDimension(scores, dim); ok {
			return value, true
		}
	}
	return 0, false
}

func lookupDimension(scores map[string]float64, dim string) (float64, bool) {
	if value, ok := scores[dim]; ok {
		return value, !math.IsNaN(value) && !math.IsInf(value, 0)
	}

	// Pick the lexically smallest key on ambiguous case-insensitive matches
	matchKey := ""
	found := false
	for key := range scores {
		if strings.EqualFold(key, strings.TrimSpace(dim)) && (!found || key < matchKey) {
			matchKey = key
			found = true
		}
	}
	if !found {
		return 0, false
	}
	value := scores[matchKey]
	return value, !math.IsNaN(value) && !math.IsInf(value, 0)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
