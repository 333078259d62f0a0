package allocator

import (
	"math"
	"slices"
)

// DefaultTestWeight applies to test types missing from the weight table
const DefaultTestWeight = 1.0

// NormalizeWeights rescales the configured per-test weights over the test
// types a candidate actually has, so that they sum to 1.
//
// Rules:
//   - a test type missing from the table gets DefaultTestWeight
//   - an explicit non-positive (or non-finite) weight counts as 0
//   - if every present test ends up at 0, all present tests share equally
//
// Test types the candidate lacks are not part of the normalization at all, so
// candidates are compared on the tests they took rather than penalised for the
// ones they did not. The result is empty when present is empty.
func NormalizeWeights(table map[string]float64, present []string) map[string]float64 {
	normalized := make(map[string]float64, len(present))
	if len(present) == 0 {
		return normalized
	}

	canonicalTable := make(map[string]float64, len(table))
	for testType, weight := range table {
		canonicalTable[CanonicalTestType(testType)] = weight
	}

	testTypes := make([]string, 0, len(present))
	for _, testType := range present {
		testType = CanonicalTestType(testType)
		if !slices.Contains(testTypes, testType) {
			testTypes = append(testTypes, testType)
		}
	}
	slices.Sort(testTypes)

	raw := make([]float64, len(testTypes))
	sum := 0.0
	for i, testType := range testTypes {
		weight, ok := canonicalTable[testType]
		switch {
		case !ok:
			weight = DefaultTestWeight
		case math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0:
			weight = 0
		}
		raw[i] = weight
		sum += weight
	}

	// All present tests explicitly weighted to zero: fall back to equal weights
	if sum <= 0 {
		for i := range raw {
			raw[i] = 1
		}
		sum = float64(len(raw))
	}

	for i, testType := range testTypes {
		normalized[testType] = raw[i] / sum
	}
	return normalized
}
