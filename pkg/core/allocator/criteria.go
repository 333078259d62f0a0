package allocator

// BuildJobCriteria normalizes every job's raw requirements into canonical
// criteria keyed by job name, then by canonical test type.
// Jobs without requirements map to an empty criteria set, meaning every test
// counts with the candidate's overall score.
func BuildJobCriteria(requirements map[string]map[string]RawCriterion) map[string]map[string]Criterion {
	criteria := make(map[string]map[string]Criterion, len(requirements))
	for job, raw := range requirements {
		criteria[job] = NormalizeJobSpec(raw)
	}
	return criteria
}
