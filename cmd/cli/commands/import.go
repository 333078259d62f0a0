package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Navy-M/Web-Exams-sub000/pkg/core/services"
	"github.com/Navy-M/Web-Exams-sub000/pkg/db"
)

// ImportCmd creates the import command
func ImportCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <snapshot_file>",
		Short: "Load a YAML snapshot of candidates and test results into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := requirePostgres(app, "import")
			if err != nil {
				return err
			}

			snapshot, err := db.LoadSnapshotDB(args[0])
			if err != nil {
				return err
			}

			result, err := services.ImportSnapshot(app.Ctx, pg, snapshot.Snapshot(), app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Imported %d candidates and %d test results\n\n", result.Candidates, result.TestResults)
			return nil
		},
	}
}
