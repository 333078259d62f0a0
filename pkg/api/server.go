package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Navy-M/Web-Exams-sub000/pkg/core/allocator"
	"github.com/Navy-M/Web-Exams-sub000/pkg/core/services"
)

const shutdownTimeout = 10 * time.Second

// Server exposes allocation runs over HTTP
type Server struct {
	store       services.AllocateCandidatesStore
	logger      *zap.Logger
	parallelism int
	router      *gin.Engine
}

// NewServer creates a server backed by store. parallelism is applied to every run.
func NewServer(store services.AllocateCandidatesStore, logger *zap.Logger, parallelism int) *Server {
	s := &Server{
		store:       store,
		logger:      logger,
		parallelism: parallelism,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	v1.POST("/allocations", s.createAllocation)
	v1.GET("/candidates/:id/features", s.getFeatures)

	s.router = r
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// allocationResponse is the body returned for a completed run
type allocationResponse struct {
	RunID            string                      `json:"runId"`
	Assignments      []allocator.JobAssignment   `json:"assignments"`
	Waitlist         []allocator.JobWaitlist     `json:"waitlist"`
	Table            []allocator.AllocationRow   `json:"table"`
	ValidationErrors []allocator.ValidationError `json:"validationErrors,omitempty"`
}

func (s *Server) createAllocation(c *gin.Context) {
	var req services.AllocateCandidatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	req.Parallelism = s.parallelism

	result, err := services.AllocateCandidates(c.Request.Context(), s.store, req, s.logger)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, allocationResponse{
		RunID:            result.RunID,
		Assignments:      result.Allocation.Assignments,
		Waitlist:         result.Allocation.Waitlist,
		Table:            result.Allocation.Table,
		ValidationErrors: result.ValidationErrors,
	})
}

type featuresResponse struct {
	CandidateID    string                 `json:"candidateId"`
	DisplayName    string                 `json:"displayName"`
	Tests          map[string]testSummary `json:"tests"`
	Wellbeing      float64                `json:"wellbeing"`
	StrengthsCount int                    `json:"strengthsCount"`
	Duration       float64                `json:"durationSeconds"`
}

type testSummary struct {
	OverallScore     float64            `json:"overallScore"`
	NormalizedScores map[string]float64 `json:"normalizedScores,omitempty"`
	Traits           []string           `json:"traits,omitempty"`
	CompletedAt      time.Time          `json:"completedAt"`
}

func (s *Server) getFeatures(c *gin.Context) {
	features, err := services.ViewFeatures(c.Request.Context(), s.store, []string{c.Param("id")}, s.logger)
	if err != nil {
		s.writeError(c, err)
		return
	}

	f := features[0]
	tests := make(map[string]testSummary, len(f.Bundle))
	for testType, result := range f.Bundle {
		tests[testType] = testSummary{
			OverallScore:     result.OverallScore,
			NormalizedScores: result.NormalizedScores,
			Traits:           result.Traits,
			CompletedAt:      result.CompletedAt,
		}
	}

	c.JSON(http.StatusOK, featuresResponse{
		CandidateID:    f.CandidateID,
		DisplayName:    f.DisplayName,
		Tests:          tests,
		Wellbeing:      f.Tiebreak.Wellbeing,
		StrengthsCount: f.Tiebreak.StrengthsCount,
		Duration:       f.Tiebreak.DurationSeconds,
	})
}

// writeError maps service errors to status codes: bad input is the caller's
// fault, an unavailable store is an upstream failure
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case allocator.IsInputError(err):
		status = http.StatusBadRequest
	case services.IsStoreError(err):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
