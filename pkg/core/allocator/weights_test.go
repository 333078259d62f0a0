package allocator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWeights(t *testing.T) {
	tests := []struct {
		name     string
		table    map[string]float64
		present  []string
		expected map[string]float64
	}{
		{
			name:     "missing weights default to equal",
			table:    nil,
			present:  []string{TestTypeDISC, TestTypeMBTI},
			expected: map[string]float64{TestTypeDISC: 0.5, TestTypeMBTI: 0.5},
		},
		{
			name:     "configured weights are rescaled",
			table:    map[string]float64{TestTypeDISC: 3, TestTypeMBTI: 1},
			present:  []string{TestTypeDISC, TestTypeMBTI},
			expected: map[string]float64{TestTypeDISC: 0.75, TestTypeMBTI: 0.25},
		},
		{
			name:     "absent tests are not part of the universe",
			table:    map[string]float64{TestTypeDISC: 1, TestTypeGHQ: 5},
			present:  []string{TestTypeDISC},
			expected: map[string]float64{TestTypeDISC: 1},
		},
		{
			name:     "non-positive weights count as zero",
			table:    map[string]float64{TestTypeDISC: 0, TestTypeMBTI: 2},
			present:  []string{TestTypeDISC, TestTypeMBTI},
			expected: map[string]float64{TestTypeDISC: 0, TestTypeMBTI: 1},
		},
		{
			name:     "all zero weights fall back to equal",
			table:    map[string]float64{TestTypeDISC: 0, TestTypeMBTI: -1},
			present:  []string{TestTypeDISC, TestTypeMBTI},
			expected: map[string]float64{TestTypeDISC: 0.5, TestTypeMBTI: 0.5},
		},
		{
			name:     "non-finite weight counts as zero",
			table:    map[string]float64{TestTypeDISC: math.NaN(), TestTypeMBTI: 4},
			present:  []string{TestTypeDISC, TestTypeMBTI},
			expected: map[string]float64{TestTypeDISC: 0, TestTypeMBTI: 1},
		},
		{
			name:     "table keys match case-insensitively",
			table:    map[string]float64{"disc": 3},
			present:  []string{TestTypeDISC, TestTypeMBTI},
			expected: map[string]float64{TestTypeDISC: 0.75, TestTypeMBTI: 0.25},
		},
		{
			name:     "no present tests",
			table:    map[string]float64{TestTypeDISC: 1},
			present:  nil,
			expected: map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeWeights(tt.table, tt.present))
		})
	}
}

func TestNormalizeWeights_SumsToOne(t *testing.T) {
	table := map[string]float64{
		TestTypeDISC:    0.3,
		TestTypeMBTI:    1.7,
		TestTypeClifton: 2.9,
		TestTypeGHQ:     0.1,
	}
	presentSets := [][]string{
		{TestTypeDISC},
		{TestTypeDISC, TestTypeMBTI},
		{TestTypeDISC, TestTypeMBTI, TestTypeClifton},
		{TestTypeDISC, TestTypeMBTI, TestTypeClifton, TestTypeGHQ, TestTypeHolland},
	}

	for _, present := range presentSets {
		weights := NormalizeWeights(table, present)
		assert.Len(t, weights, len(present))

		sum := 0.0
		for _, w := range weights {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}
