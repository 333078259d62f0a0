package services

import (
	"strings"

	"github.com/Navy-M/Web-Exams-sub000/pkg/core/allocator"
	"github.com/Navy-M/Web-Exams-sub000/pkg/db"
)

// normalizeCandidateIDs trims IDs and drops blanks and repeats, keeping first-seen order
func normalizeCandidateIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	normalized := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		normalized = append(normalized, id)
	}
	return normalized
}

// toEngineResults converts stored results to allocator results, keeping order
func toEngineResults(results []db.TestResult) []allocator.TestResult {
	converted := make([]allocator.TestResult, 0, len(results))
	for _, r := range results {
		converted = append(converted, allocator.TestResult{
			CandidateID:      strings.TrimSpace(r.CandidateID),
			TestType:         r.TestType,
			RawScores:        r.RawScores,
			NormalizedScores: r.NormalizedScores,
			Traits:           r.Traits,
			OverallScore:     r.OverallScore,
			DurationSeconds:  r.DurationSeconds,
			CompletedAt:      r.CompletedAt,
		})
	}
	return converted
}

// toCandidateInfo indexes display info by candidate ID
func toCandidateInfo(candidates []db.Candidate) map[string]allocator.CandidateInfo {
	info := make(map[string]allocator.CandidateInfo, len(candidates))
	for _, c := range candidates {
		info[c.ID] = allocator.CandidateInfo{Username: c.Username, FullName: c.FullName}
	}
	return info
}
