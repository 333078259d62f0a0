package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Navy-M/Web-Exams-sub000/pkg/core/services"
	"github.com/Navy-M/Web-Exams-sub000/pkg/db"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

// AllocateCmd creates the allocate command
func AllocateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocate [candidate_id...]",
		Short: "Rank candidates for every configured job and cut at capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")

			candidateIDs, err := resolveCandidateIDs(app.Ctx, app.Database, args, all)
			if err != nil {
				return err
			}

			req := services.LoadRequestFromConfig(app.Cfg, candidateIDs)
			result, err := services.AllocateCandidates(app.Ctx, app.Database, req, app.Logger)
			if err != nil {
				return err
			}

			printAllocation(os.Stdout, result)

			if len(result.ValidationErrors) > 0 {
				return fmt.Errorf("allocation failed validation with %d errors", len(result.ValidationErrors))
			}
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "Allocate every candidate in the store")

	return cmd
}

// resolveCandidateIDs returns the explicit IDs, or every stored candidate when all is set
func resolveCandidateIDs(ctx context.Context, store db.CandidateStore, args []string, all bool) ([]string, error) {
	if all && len(args) > 0 {
		return nil, fmt.Errorf("pass candidate IDs or --all, not both")
	}
	if !all {
		if len(args) == 0 {
			return nil, fmt.Errorf("no candidate IDs given (use --all to allocate every candidate)")
		}
		return args, nil
	}

	ids, err := store.ListCandidateIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("the store has no candidates")
	}
	return ids, nil
}

func printAllocation(w io.Writer, result *services.AllocateCandidatesResult) {
	fmt.Fprintf(w, "\n✓ Allocation complete!\n\n")
	fmt.Fprintf(w, "Run ID:       %s\n", result.RunID)
	fmt.Fprintf(w, "Candidates:   %d\n", result.CandidateCount)
	fmt.Fprintf(w, "Test results: %d\n\n", result.ResultCount)

	if len(result.Allocation.Assignments) == 0 {
		fmt.Fprintln(w, "No jobs with capacity to allocate.")
		return
	}

	for i, assignment := range result.Allocation.Assignments {
		fmt.Fprintf(w, "%s (%d selected, %d waitlisted)\n",
			assignment.Job, len(assignment.Slots), len(result.Allocation.Waitlist[i].Queue))
	}
	fmt.Fprintln(w)

	nameWidth := len("Candidate")
	for _, row := range result.Allocation.Table {
		nameWidth = max(nameWidth, len(row.DisplayName))
	}

	currentJob := ""
	for _, row := range result.Allocation.Table {
		if row.Job != currentJob {
			currentJob = row.Job
			fmt.Fprintf(w, "\n== %s ==\n", row.Job)
			fmt.Fprintf(w, "%-5s %-*s %7s %9s %9s %8s  %s\n",
				"Rank", nameWidth, "Candidate", "Score", "Wellbeing", "Strengths", "Duration", "Tests")
		}

		color := scoreColor(row.Score, row.Selected, colorGreen, colorYellow, colorDim)
		status := " "
		if row.Selected {
			status = "✓"
		}
		fmt.Fprintf(w, "%s%s%-4d %-*s %7.2f %9.1f %9d %7.0fs  %s%s\n",
			color, status, row.Rank, nameWidth, row.DisplayName, row.Score,
			row.Wellbeing, row.StrengthsCount, row.DurationSeconds,
			formatTestTypes(row.TestTypes), colorReset)
	}
	fmt.Fprintln(w)

	if len(result.ValidationErrors) > 0 {
		fmt.Fprintf(w, "%s⚠️  %d validation errors:%s\n", colorRed, len(result.ValidationErrors), colorReset)
		for _, ve := range result.ValidationErrors {
			fmt.Fprintf(w, "  ✗ [%s] %s %s: %s\n", ve.Check, ve.Job, ve.UserID, ve.Description)
		}
		fmt.Fprintln(w)
	}
}

// scoreColor picks the row colour: selected candidates are green, waitlisted
// candidates with a reasonable score yellow, the rest dim
func scoreColor(score float64, selected bool, green, yellow, dim string) string {
	switch {
	case selected:
		return green
	case score >= 50:
		return yellow
	default:
		return dim
	}
}

func formatTestTypes(testTypes []string) string {
	if len(testTypes) == 0 {
		return "-"
	}
	return strings.Join(testTypes, ",")
}
