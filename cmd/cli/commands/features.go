package commands

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Navy-M/Web-Exams-sub000/pkg/core/services"
)

// FeaturesCmd creates the features command
func FeaturesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "features <candidate_id...>",
		Short: "Show the latest test results used to rank each candidate",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			features, err := services.ViewFeatures(app.Ctx, app.Database, args, app.Logger)
			if err != nil {
				return err
			}

			printFeatures(os.Stdout, features)
			return nil
		},
	}
}

func printFeatures(w io.Writer, features []services.CandidateFeatures) {
	for _, f := range features {
		fmt.Fprintf(w, "\n%s (%s)\n", f.DisplayName, f.CandidateID)

		if len(f.Bundle) == 0 {
			fmt.Fprintf(w, "  %sNo test results%s\n", colorDim, colorReset)
			continue
		}

		for _, testType := range f.Bundle.TestTypes() {
			result := f.Bundle[testType]
			fmt.Fprintf(w, "  %-20s overall %6.2f  completed %s\n",
				testType, result.OverallScore, result.CompletedAt.Format("2006-01-02 15:04"))
			if len(result.NormalizedScores) > 0 {
				fmt.Fprintf(w, "  %-20s %s\n", "", formatScores(result.NormalizedScores))
			}
			if len(result.Traits) > 0 {
				fmt.Fprintf(w, "  %-20s traits: %s\n", "", strings.Join(result.Traits, ", "))
			}
		}

		fmt.Fprintf(w, "  wellbeing %.1f, strengths %d, duration %.0fs\n",
			f.Tiebreak.Wellbeing, f.Tiebreak.StrengthsCount, f.Tiebreak.DurationSeconds)
	}
	fmt.Fprintln(w)
}

// formatScores renders dimension scores in name order
func formatScores(scores map[string]float64) string {
	parts := make([]string, 0, len(scores))
	for _, dim := range slices.Sorted(maps.Keys(scores)) {
		parts = append(parts, fmt.Sprintf("%s=%.1f", dim, scores[dim]))
	}
	return strings.Join(parts, " ")
}
