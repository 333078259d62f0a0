package allocator

import (
	"math"
	"slices"
	"time"
)

// Test type constants
const (
	TestTypeMBTI              = "MBTI"
	TestTypeDISC              = "DISC"
	TestTypeHolland           = "HOLLAND"
	TestTypeGardner           = "GARDNER"
	TestTypeClifton           = "CLIFTON"
	TestTypeGHQ               = "GHQ"
	TestTypePersonalFavorites = "PERSONAL_FAVORITES"
)

// TestResult is one completed psychometric test for one candidate
type TestResult struct {
	CandidateID string
	TestType    string

	// RawScores are the upstream per-dimension raw values
	RawScores map[string]float64

	// NormalizedScores are the per-dimension values on a 0-100 scale
	NormalizedScores map[string]float64

	// Traits are categorical tags (MBTI type, strengths, favourites...)
	Traits []string

	// OverallScore is the test's single 0-100 summary
	OverallScore float64

	DurationSeconds float64
	CompletedAt     time.Time
}

// FeatureBundle holds the latest result per test type for one candidate.
// A missing test type is a valid state and contributes nothing.
type FeatureBundle map[string]TestResult

// TestTypes returns the test types present in the bundle in lexical order
func (fb FeatureBundle) TestTypes() []string {
	types := make([]string, 0, len(fb))
	for testType := range fb {
		types = append(types, testType)
	}
	slices.Sort(types)
	return types
}

// Overall returns the overall score for a test type and whether it is present
func (fb FeatureBundle) Overall(testType string) (float64, bool) {
	result, ok := fb[testType]
	if !ok {
		return 0, false
	}
	return finiteOr(result.OverallScore, 0), true
}

// StrengthsCount returns the number of trait entries across all tests
func (fb FeatureBundle) StrengthsCount() int {
	count := 0
	for _, result := range fb {
		count += len(result.Traits)
	}
	return count
}

// TotalDuration returns the sum of all test durations in seconds
func (fb FeatureBundle) TotalDuration() float64 {
	total := 0.0
	for _, testType := range fb.TestTypes() {
		d := fb[testType].DurationSeconds
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			continue
		}
		total += d
	}
	return total
}

// EarliestCompletion returns the earliest completion timestamp in the bundle.
// The boolean is false when the bundle is empty.
func (fb FeatureBundle) EarliestCompletion() (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, result := range fb {
		if !found || result.CompletedAt.Before(earliest) {
			earliest = result.CompletedAt
			found = true
		}
	}
	return earliest, found
}

// Criterion is a job's canonical requirement for a single test type.
// Parts may be combined; a criterion with no parts does not constrain the test.
type Criterion struct {
	Traits     []string           `yaml:"traits,omitempty" json:"traits,omitempty" mapstructure:"traits"`
	Scores     map[string]float64 `yaml:"scores,omitempty" json:"scores,omitempty" mapstructure:"scores"`
	PreferHigh []string           `yaml:"preferHigh,omitempty" json:"preferHigh,omitempty" mapstructure:"preferHigh"`
	PreferLow  []string           `yaml:"preferLow,omitempty" json:"preferLow,omitempty" mapstructure:"preferLow"`
}

// IsEmpty returns true if the criterion has no applicable parts
func (c Criterion) IsEmpty() bool {
	return len(c.Traits) == 0 && len(c.Scores) == 0 && len(c.PreferHigh) == 0 && len(c.PreferLow) == 0
}

// CandidateInfo is the display information for a candidate
type CandidateInfo struct {
	Username string
	FullName string
}

// DisplayName returns the full name, falling back to the username and then the ID
func (ci CandidateInfo) DisplayName(candidateID string) string {
	if ci.FullName != "" {
		return ci.FullName
	}
	if ci.Username != "" {
		return ci.Username
	}
	return candidateID
}

// Input is everything a single allocation run needs
type Input struct {
	// CandidateIDs is the pool of candidates to rank (required, non-empty)
	CandidateIDs []string `yaml:"candidateIds" json:"candidateIds"`

	// Capacities is the number of slots per job. Jobs with capacity <= 0 are skipped
	Capacities map[string]int `yaml:"capacities" json:"capacities"`

	// Weights is the per-test importance table for the whole run
	Weights map[string]float64 `yaml:"weights,omitempty" json:"weights,omitempty"`

	// JobRequirements holds the raw requirement config per job and test type
	JobRequirements map[string]map[string]RawCriterion `yaml:"jobRequirements,omitempty" json:"jobRequirements,omitempty"`

	// Results is the snapshot of test results for the candidates, in insertion order
	Results []TestResult `yaml:"-" json:"-"`

	// Candidates holds display info keyed by candidate ID
	Candidates map[string]CandidateInfo `yaml:"-" json:"-"`
}

// TestContribution is one test's share of a composite score
type TestContribution struct {
	Fitness float64 `json:"fitness"`
	Weight  float64 `json:"weight"`
}

// Slot is one ranked candidate within a job's assignment or waitlist
type Slot struct {
	UserID string  `json:"userId"`
	Score  float64 `json:"score"`
}

// JobAssignment lists the selected candidates for a job
type JobAssignment struct {
	Job   string `json:"job"`
	Slots []Slot `json:"slots"`
}

// JobWaitlist lists the waitlisted candidates for a job, best first
type JobWaitlist struct {
	Job   string `json:"job"`
	Queue []Slot `json:"queue"`
}

// AllocationRow is one (job, candidate) line of the ranking table
type AllocationRow struct {
	Job             string                      `json:"job"`
	Rank            int                         `json:"rank"`
	UserID          string                      `json:"userId"`
	DisplayName     string                      `json:"displayName"`
	Score           float64                     `json:"score"`
	Selected        bool                        `json:"selected"`
	Wellbeing       float64                     `json:"wellbeing"`
	StrengthsCount  int                         `json:"strengthsCount"`
	DurationSeconds float64                     `json:"durationSeconds"`
	TestTypes       []string                    `json:"testTypes"`
	Breakdown       map[string]TestContribution `json:"breakdown,omitempty"`
}

// AllocationResult is the complete, immutable output of one run
type AllocationResult struct {
	Assignments []JobAssignment `json:"assignments"`
	Waitlist    []JobWaitlist   `json:"waitlist"`
	Table       []AllocationRow `json:"table"`
}

// clamp restricts v to [0, 100]; non-finite values become fallback
func clamp(v, fallback float64) float64 {
	v = finiteOr(v, fallback)
	return max(0, min(100, v))
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
