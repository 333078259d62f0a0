package allocator

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// TiebreakFields are the job-independent values used to order candidates
// whose composite scores are equal
type TiebreakFields struct {
	// Wellbeing is 100 - overall GHQ score, or 0 when the candidate has no GHQ result
	Wellbeing float64

	// StrengthsCount is the number of trait entries across all tests
	StrengthsCount int

	// DurationSeconds is the total time spent on all tests
	DurationSeconds float64

	// EarliestCompletion is the first completion timestamp (zero if HasCompletion is false)
	EarliestCompletion time.Time
	HasCompletion      bool
}

// NewTiebreakFields derives the tie-break values from a feature bundle
func NewTiebreakFields(bundle FeatureBundle) TiebreakFields {
	fields := TiebreakFields{
		StrengthsCount:  bundle.StrengthsCount(),
		DurationSeconds: bundle.TotalDuration(),
	}

	for testType := range bundle {
		if CanonicalTestType(testType) == TestTypeGHQ {
			overall, _ := bundle.Overall(testType)
			fields.Wellbeing = clamp(100-clamp(overall, 0), 0)
			break
		}
	}

	fields.EarliestCompletion, fields.HasCompletion = bundle.EarliestCompletion()
	return fields
}

// RankEntry is one candidate's position data for a single job
type RankEntry struct {
	CandidateID string
	Score       float64
	Tiebreak    TiebreakFields
}

// CompareEntries orders two entries best-first. Keys are applied in turn, each
// only when all previous keys tie:
//  1. composite score, higher first
//  2. wellbeing, higher first
//  3. strengths count, higher first
//  4. total test duration, lower first (faster test-takers win ties)
//  5. earliest completion, earlier first (no completion sorts last)
//  6. candidate ID, lexical
//
// Key 6 makes the order strict: distinct IDs never compare equal.
func CompareEntries(a, b RankEntry) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Tiebreak.Wellbeing, a.Tiebreak.Wellbeing); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Tiebreak.StrengthsCount, a.Tiebreak.StrengthsCount); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Tiebreak.DurationSeconds, b.Tiebreak.DurationSeconds); c != 0 {
		return c
	}
	if c := compareCompletion(a.Tiebreak, b.Tiebreak); c != 0 {
		return c
	}
	return strings.Compare(a.CandidateID, b.CandidateID)
}

func compareCompletion(a, b TiebreakFields) int {
	switch {
	case a.HasCompletion && b.HasCompletion:
		return a.EarliestCompletion.Compare(b.EarliestCompletion)
	case a.HasCompletion:
		return -1
	case b.HasCompletion:
		return 1
	default:
		return 0
	}
}

// RankCandidates sorts entries in place, best first, using CompareEntries
func RankCandidates(entries []RankEntry) {
	slices.SortFunc(entries, CompareEntries)
}
