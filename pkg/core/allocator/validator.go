package allocator

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// ValidationError describes one invariant violation in an allocation result
type ValidationError struct {
	Job         string
	UserID      string
	Check       string
	Description string
}

// ValidateResult re-checks an allocation result against its input:
//   - every score is finite and within [0, 100]
//   - each allocated job ranks every candidate exactly once, ranks 1..N
//   - selected = min(capacity, N) and waitlisted = N - selected
//   - jobs with capacity <= 0 produce no rows
//
// Returns an empty slice for a valid result.
func ValidateResult(result *AllocationResult, input Input) []ValidationError {
	errors := []ValidationError{}
	if result == nil {
		return append(errors, ValidationError{Check: "Result", Description: "result is nil"})
	}

	candidateCount := len(uniqueCandidateIDs(input.CandidateIDs))

	rowsByJob := make(map[string][]AllocationRow)
	for _, row := range result.Table {
		rowsByJob[row.Job] = append(rowsByJob[row.Job], row)

		if math.IsNaN(row.Score) || math.IsInf(row.Score, 0) || row.Score < 0 || row.Score > 100 {
			errors = append(errors, ValidationError{
				Job:         row.Job,
				UserID:      row.UserID,
				Check:       "ScoreRange",
				Description: fmt.Sprintf("score %v is outside [0, 100]", row.Score),
			})
		}
	}

	for _, job := range slices.Sorted(maps.Keys(input.Capacities)) {
		capacity := input.Capacities[job]
		rows := rowsByJob[job]
		if capacity <= 0 {
			if len(rows) > 0 {
				errors = append(errors, ValidationError{
					Job:         job,
					Check:       "SkippedJob",
					Description: fmt.Sprintf("job has capacity %d but produced %d rows", capacity, len(rows)),
				})
			}
			continue
		}

		errors = append(errors, validateJobRows(job, capacity, candidateCount, rows)...)
	}

	for _, assignment := range result.Assignments {
		capacity := input.Capacities[assignment.Job]
		if want := min(capacity, candidateCount); len(assignment.Slots) != want {
			errors = append(errors, ValidationError{
				Job:         assignment.Job,
				Check:       "SelectedCount",
				Description: fmt.Sprintf("job has %d selected candidates but expected %d", len(assignment.Slots), want),
			})
		}
	}

	for _, waitlist := range result.Waitlist {
		capacity := input.Capacities[waitlist.Job]
		if want := candidateCount - min(capacity, candidateCount); len(waitlist.Queue) != want {
			errors = append(errors, ValidationError{
				Job:         waitlist.Job,
				Check:       "WaitlistCount",
				Description: fmt.Sprintf("job has %d waitlisted candidates but expected %d", len(waitlist.Queue), want),
			})
		}
	}

	return errors
}

func validateJobRows(job string, capacity, candidateCount int, rows []AllocationRow) []ValidationError {
	var errors []ValidationError

	if len(rows) != candidateCount {
		errors = append(errors, ValidationError{
			Job:         job,
			Check:       "RowCount",
			Description: fmt.Sprintf("job has %d rows but there are %d candidates", len(rows), candidateCount),
		})
	}

	seenRanks := make(map[int]bool, len(rows))
	seenUsers := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row.Rank < 1 || row.Rank > len(rows) || seenRanks[row.Rank] {
			errors = append(errors, ValidationError{
				Job:         job,
				UserID:      row.UserID,
				Check:       "RankSequence",
				Description: fmt.Sprintf("rank %d is out of range or repeated", row.Rank),
			})
		}
		seenRanks[row.Rank] = true

		if seenUsers[row.UserID] {
			errors = append(errors, ValidationError{
				Job:         job,
				UserID:      row.UserID,
				Check:       "DuplicateCandidate",
				Description: "candidate is ranked more than once",
			})
		}
		seenUsers[row.UserID] = true

		if wantSelected := row.Rank <= capacity; row.Selected != wantSelected {
			errors = append(errors, ValidationError{
				Job:         job,
				UserID:      row.UserID,
				Check:       "CapacityCut",
				Description: fmt.Sprintf("rank %d selected=%t but capacity is %d", row.Rank, row.Selected, capacity),
			})
		}
	}

	return errors
}
