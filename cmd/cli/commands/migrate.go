package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := requirePostgres(app, "migrate")
			if err != nil {
				return err
			}

			applied, err := pg.RunMigrations(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			app.Logger.Info("Migrations complete", zap.Strings("applied", applied))

			if len(applied) == 0 {
				fmt.Println("Database is up to date.")
				return nil
			}
			fmt.Printf("\n✓ Applied %d migrations:\n", len(applied))
			for _, filename := range applied {
				fmt.Printf("  %s\n", filename)
			}
			return nil
		},
	}
}
