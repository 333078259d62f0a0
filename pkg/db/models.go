package db

import "time"

// Candidate is a person who can be allocated to jobs
type Candidate struct {
	ID       string `yaml:"id" json:"id"`
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	FullName string `yaml:"fullName,omitempty" json:"fullName,omitempty"`
}

// TestResult is one stored psychometric test attempt.
// A candidate may have several attempts of the same test; only the latest is used for allocation.
type TestResult struct {
	ID               string             `yaml:"id,omitempty" json:"id,omitempty"`
	CandidateID      string             `yaml:"candidateId" json:"candidateId"`
	TestType         string             `yaml:"testType" json:"testType"`
	RawScores        map[string]float64 `yaml:"rawScores,omitempty" json:"rawScores,omitempty"`
	NormalizedScores map[string]float64 `yaml:"normalizedScores,omitempty" json:"normalizedScores,omitempty"`
	Traits           []string           `yaml:"traits,omitempty" json:"traits,omitempty"`
	OverallScore     float64            `yaml:"overallScore" json:"overallScore"`
	DurationSeconds  float64            `yaml:"durationSeconds,omitempty" json:"durationSeconds,omitempty"`
	CompletedAt      time.Time          `yaml:"completedAt" json:"completedAt"`
}
