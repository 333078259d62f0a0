package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Navy-M/Web-Exams-sub000/pkg/core/allocator"
)

// CandidateFeatures is the latest-result view of one candidate
type CandidateFeatures struct {
	CandidateID string
	DisplayName string
	Bundle      allocator.FeatureBundle
	Tiebreak    allocator.TiebreakFields
}

// ViewFeatures returns the feature bundle and tie-break values of each
// requested candidate, in request order
func ViewFeatures(
	ctx context.Context,
	store AllocateCandidatesStore,
	candidateIDs []string,
	logger *zap.Logger,
) ([]CandidateFeatures, error) {
	candidateIDs = normalizeCandidateIDs(candidateIDs)
	if len(candidateIDs) == 0 {
		return nil, allocator.NewInputError("candidate IDs must not be empty", nil)
	}

	logger.Debug("Fetching test results", zap.Int("candidates", len(candidateIDs)))
	storedResults, err := store.GetTestResults(ctx, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch test results: %w", newStoreError(err))
	}

	candidates, err := store.GetCandidates(ctx, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", newStoreError(err))
	}
	info := toCandidateInfo(candidates)

	bundles := allocator.ExtractFeatures(candidateIDs, toEngineResults(storedResults))

	features := make([]CandidateFeatures, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		bundle := bundles[id]
		features = append(features, CandidateFeatures{
			CandidateID: id,
			DisplayName: info[id].DisplayName(id),
			Bundle:      bundle,
			Tiebreak:    allocator.NewTiebreakFields(bundle),
		})
		logger.Debug("Extracted features",
			zap.String("candidate_id", id),
			zap.Strings("test_types", bundle.TestTypes()))
	}

	return features, nil
}
