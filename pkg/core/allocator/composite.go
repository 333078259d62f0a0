package allocator

// Composite is a candidate's score for one job and how each test contributed
type Composite struct {
	Score     float64
	Breakdown map[string]TestContribution
}

// CompositeScore combines a candidate's per-test fitness for one job into a
// single 0-100 score: the sum of fitness times normalized weight over the
// tests the candidate has. Tests are summed in lexical order so the same
// inputs always give bit-identical scores. A candidate with no tests scores 0.
func CompositeScore(bundle FeatureBundle, criteria map[string]Criterion, weights map[string]float64) Composite {
	testTypes := bundle.TestTypes()
	composite := Composite{Breakdown: make(map[string]TestContribution, len(testTypes))}
	if len(testTypes) == 0 {
		return composite
	}

	normalized := NormalizeWeights(weights, testTypes)

	total := 0.0
	for _, testType := range testTypes {
		canonical := CanonicalTestType(testType)
		fitness := clamp(Fitness(bundle[testType], criteria[canonical]), 0)
		weight := finiteOr(normalized[canonical], 0)

		composite.Breakdown[testType] = TestContribution{Fitness: fitness, Weight: weight}
		total += fitness * weight
	}

	composite.Score = clamp(total, 0)
	return composite
}
