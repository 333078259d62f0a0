package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Navy-M/Web-Exams-sub000/internal/config"
	"github.com/Navy-M/Web-Exams-sub000/pkg/core/allocator"
	"github.com/Navy-M/Web-Exams-sub000/pkg/db"
)

// runNamespace scopes run IDs so they never collide with other name-based UUIDs
var runNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:allocation-run"))

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("failed to register notblank validation: %v", err))
	}
}

// AllocateCandidatesRequest is one allocation run's parameters
type AllocateCandidatesRequest struct {
	CandidateIDs    []string                                     `json:"candidateIds" validate:"required,min=1,dive,notblank"`
	Capacities      map[string]int                               `json:"capacities"`
	Weights         map[string]float64                           `json:"weights,omitempty"`
	JobRequirements map[string]map[string]allocator.RawCriterion `json:"jobRequirements,omitempty"`

	// Parallelism is the number of jobs allocated concurrently; 0 means sequential
	Parallelism int `json:"-" validate:"min=0"`
}

// AllocateCandidatesResult contains the allocation results
type AllocateCandidatesResult struct {
	// RunID is derived from the input, so identical inputs give identical IDs
	RunID            string
	Allocation       *allocator.AllocationResult
	ValidationErrors []allocator.ValidationError
	CandidateCount   int
	ResultCount      int
}

// AllocateCandidatesStore defines the store operations needed for an allocation run
type AllocateCandidatesStore interface {
	GetTestResults(ctx context.Context, candidateIDs []string) ([]db.TestResult, error)
	GetCandidates(ctx context.Context, candidateIDs []string) ([]db.Candidate, error)
}

// LoadRequestFromConfig builds an allocation request from the configured jobs and weights
func LoadRequestFromConfig(cfg *config.Config, candidateIDs []string) AllocateCandidatesRequest {
	return AllocateCandidatesRequest{
		CandidateIDs:    candidateIDs,
		Capacities:      cfg.Capacities(),
		Weights:         cfg.Weights,
		JobRequirements: cfg.JobRequirements(),
		Parallelism:     cfg.ParallelJobs,
	}
}

// AllocateCandidates ranks the requested candidates for every job and cuts each
// ranking at the job's capacity.
// Returns an input error for an invalid request and a store error if the
// snapshot cannot be read; the engine itself never runs on a partial snapshot.
func AllocateCandidates(
	ctx context.Context,
	store AllocateCandidatesStore,
	req AllocateCandidatesRequest,
	logger *zap.Logger,
) (*AllocateCandidatesResult, error) {
	logger.Debug("Starting allocateCandidates",
		zap.Int("candidate_ids", len(req.CandidateIDs)),
		zap.Int("jobs", len(req.Capacities)),
		zap.Int("parallelism", req.Parallelism))

	// Step 1: Validate request
	if err := validate.Struct(req); err != nil {
		return nil, allocator.NewInputError(describeValidationError(err), err)
	}
	candidateIDs := normalizeCandidateIDs(req.CandidateIDs)

	// Step 2: Fetch snapshot
	logger.Debug("Fetching test results", zap.Int("candidates", len(candidateIDs)))
	storedResults, err := store.GetTestResults(ctx, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch test results: %w", newStoreError(err))
	}
	logger.Debug("Found test results", zap.Int("count", len(storedResults)))

	logger.Debug("Fetching candidate display info")
	candidates, err := store.GetCandidates(ctx, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", newStoreError(err))
	}
	logger.Debug("Found candidates", zap.Int("count", len(candidates)))

	input := allocator.Input{
		CandidateIDs:    candidateIDs,
		Capacities:      req.Capacities,
		Weights:         req.Weights,
		JobRequirements: req.JobRequirements,
		Results:         toEngineResults(storedResults),
		Candidates:      toCandidateInfo(candidates),
	}

	// Step 3: Run allocation
	logger.Debug("Running allocation")
	allocation, err := allocator.Allocate(input, allocator.WithParallelism(req.Parallelism))
	if err != nil {
		return nil, fmt.Errorf("failed to allocate candidates: %w", err)
	}

	// Step 4: Validate allocation
	validationErrors := allocator.ValidateResult(allocation, input)
	for _, ve := range validationErrors {
		logger.Warn("Allocation validation error",
			zap.String("job", ve.Job),
			zap.String("user_id", ve.UserID),
			zap.String("check", ve.Check),
			zap.String("description", ve.Description))
	}

	runID, err := computeRunID(input, storedResults)
	if err != nil {
		return nil, fmt.Errorf("failed to compute run id: %w", err)
	}

	logger.Info("Allocation complete",
		zap.String("run_id", runID),
		zap.Int("candidates", len(candidateIDs)),
		zap.Int("jobs", len(allocation.Assignments)),
		zap.Int("rows", len(allocation.Table)),
		zap.Int("validation_errors", len(validationErrors)))

	return &AllocateCandidatesResult{
		RunID:            runID,
		Allocation:       allocation,
		ValidationErrors: validationErrors,
		CandidateCount:   len(candidateIDs),
		ResultCount:      len(storedResults),
	}, nil
}

// runDocument is the canonical form a run ID is derived from
type runDocument struct {
	Input   allocator.Input `yaml:",inline"`
	Results []db.TestResult `yaml:"results"`
}

// computeRunID hashes the YAML encoding of the run's inputs. yaml.v3 sorts map
// keys, so equal inputs always encode to the same bytes.
func computeRunID(input allocator.Input, results []db.TestResult) (string, error) {
	data, err := yaml.Marshal(runDocument{Input: input, Results: results})
	if err != nil {
		return "", err
	}
	return uuid.NewSHA1(runNamespace, data).String(), nil
}

func describeValidationError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "invalid allocation request"
	}

	problems := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		problems = append(problems, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return "invalid allocation request: " + strings.Join(problems, ", ")
}
