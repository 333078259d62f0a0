package allocator

// LatestResults reduces a snapshot of test results to the most recent result per
// (candidate, test type). The newest CompletedAt wins; on equal timestamps the
// result that appears later in the slice wins, so callers should pass results in
// insertion order. Older results are replaced, never merged.
// Test type names are canonicalised, so "disc" and "DISC" are the same test.
func LatestResults(results []TestResult) map[string]FeatureBundle {
	bundles := make(map[string]FeatureBundle)

	for _, result := range results {
		result.TestType = CanonicalTestType(result.TestType)

		bundle, ok := bundles[result.CandidateID]
		if !ok {
			bundle = make(FeatureBundle)
			bundles[result.CandidateID] = bundle
		}

		current, exists := bundle[result.TestType]
		if exists && result.CompletedAt.Before(current.CompletedAt) {
			continue
		}
		bundle[result.TestType] = result
	}

	return bundles
}

// ExtractFeatures builds a feature bundle for every requested candidate.
// Candidates without results get an empty bundle; results for candidates
// outside candidateIDs are ignored.
func ExtractFeatures(candidateIDs []string, results []TestResult) map[string]FeatureBundle {
	latest := LatestResults(results)

	features := make(map[string]FeatureBundle, len(candidateIDs))
	for _, id := range candidateIDs {
		if bundle, ok := latest[id]; ok {
			features[id] = bundle
		} else {
			features[id] = FeatureBundle{}
		}
	}
	return features
}
