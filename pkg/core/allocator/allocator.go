package allocator

import (
	"maps"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Option configures an allocation run
type Option func(*allocationOptions)

type allocationOptions struct {
	parallelism int
}

// WithParallelism allocates up to n jobs concurrently. Jobs never share state,
// so the result is identical to a sequential run. Values below 1 mean sequential.
func WithParallelism(n int) Option {
	return func(o *allocationOptions) {
		o.parallelism = max(n, 1)
	}
}

// jobAllocation is the ranked outcome for a single job
type jobAllocation struct {
	assignment JobAssignment
	waitlist   JobWaitlist
	rows       []AllocationRow
}

// candidatePool holds the per-candidate data shared read-only by every job
type candidatePool struct {
	ids       []string
	features  map[string]FeatureBundle
	tiebreaks map[string]TiebreakFields
	info      map[string]CandidateInfo
}

// Allocate runs the allocation engine on a snapshot of inputs.
//
// Each job with positive capacity is handled independently: every candidate is
// scored against the job, the candidates are ranked with CompareEntries, and
// the ranked list is cut at the job's capacity into selected and waitlisted.
// A candidate may be selected for more than one job.
//
// Returns an input error if there are no candidate IDs. Otherwise the run
// always completes, and re-running on the same input gives an identical result.
func Allocate(input Input, opts ...Option) (*AllocationResult, error) {
	options := allocationOptions{parallelism: 1}
	for _, opt := range opts {
		opt(&options)
	}

	candidateIDs := uniqueCandidateIDs(input.CandidateIDs)
	if len(candidateIDs) == 0 {
		return nil, NewInputError("candidate IDs must not be empty", nil)
	}

	pool := &candidatePool{
		ids:       candidateIDs,
		features:  ExtractFeatures(candidateIDs, input.Results),
		tiebreaks: make(map[string]TiebreakFields, len(candidateIDs)),
		info:      input.Candidates,
	}
	for _, id := range candidateIDs {
		pool.tiebreaks[id] = NewTiebreakFields(pool.features[id])
	}

	jobs := jobsToAllocate(input.Capacities)
	criteriaByJob := BuildJobCriteria(input.JobRequirements)

	allocations := make([]jobAllocation, len(jobs))
	var group errgroup.Group
	group.SetLimit(options.parallelism)
	for i, job := range jobs {
		group.Go(func() error {
			allocations[i] = allocateJob(job, input.Capacities[job], pool, criteriaByJob[job], input.Weights)
			return nil
		})
	}
	// Job allocation cannot fail
	_ = group.Wait()

	return buildResult(allocations), nil
}

// allocateJob scores, ranks and cuts the candidate pool for one job
func allocateJob(job string, capacity int, pool *candidatePool, criteria map[string]Criterion, weights map[string]float64) jobAllocation {
	entries := make([]RankEntry, 0, len(pool.ids))
	composites := make(map[string]Composite, len(pool.ids))

	for _, id := range pool.ids {
		composite := CompositeScore(pool.features[id], criteria, weights)
		composites[id] = composite
		entries = append(entries, RankEntry{
			CandidateID: id,
			Score:       composite.Score,
			Tiebreak:    pool.tiebreaks[id],
		})
	}

	RankCandidates(entries)

	selectedCount := min(capacity, len(entries))
	allocation := jobAllocation{
		assignment: JobAssignment{Job: job, Slots: make([]Slot, 0, selectedCount)},
		waitlist:   JobWaitlist{Job: job, Queue: make([]Slot, 0, len(entries)-selectedCount)},
		rows:       make([]AllocationRow, 0, len(entries)),
	}

	for i, entry := range entries {
		slot := Slot{UserID: entry.CandidateID, Score: entry.Score}
		selected := i < selectedCount
		if selected {
			allocation.assignment.Slots = append(allocation.assignment.Slots, slot)
		} else {
			allocation.waitlist.Queue = append(allocation.waitlist.Queue, slot)
		}

		allocation.rows = append(allocation.rows, AllocationRow{
			Job:             job,
			Rank:            i + 1,
			UserID:          entry.CandidateID,
			DisplayName:     pool.info[entry.CandidateID].DisplayName(entry.CandidateID),
			Score:           entry.Score,
			Selected:        selected,
			Wellbeing:       entry.Tiebreak.Wellbeing,
			StrengthsCount:  entry.Tiebreak.StrengthsCount,
			DurationSeconds: entry.Tiebreak.DurationSeconds,
			TestTypes:       pool.features[entry.CandidateID].TestTypes(),
			Breakdown:       composites[entry.CandidateID].Breakdown,
		})
	}

	return allocation
}

// buildResult concatenates per-job allocations in job order
func buildResult(allocations []jobAllocation) *AllocationResult {
	// Initialize with empty slices (not nil) for easier consumption
	result := &AllocationResult{
		Assignments: make([]JobAssignment, 0, len(allocations)),
		Waitlist:    make([]JobWaitlist, 0, len(allocations)),
		Table:       []AllocationRow{},
	}

	for _, allocation := range allocations {
		result.Assignments = append(result.Assignments, allocation.assignment)
		result.Waitlist = append(result.Waitlist, allocation.waitlist)
		result.Table = append(result.Table, allocation.rows...)
	}
	return result
}

// jobsToAllocate returns the jobs with positive capacity in lexical order
func jobsToAllocate(capacities map[string]int) []string {
	jobs := make([]string, 0, len(capacities))
	for _, job := range slices.Sorted(maps.Keys(capacities)) {
		if capacities[job] > 0 {
			jobs = append(jobs, job)
		}
	}
	return jobs
}

// uniqueCandidateIDs trims IDs, drops blanks and keeps the first occurrence of duplicates
func uniqueCandidateIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	return unique
}
