package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Navy-M/Web-Exams-sub000/cmd/cli/commands"
	"github.com/Navy-M/Web-Exams-sub000/internal/config"
	"github.com/Navy-M/Web-Exams-sub000/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     = &commands.AppContext{Ctx: context.Background()}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Candidate allocation CLI - rank candidates for jobs from psychometric test results",
		Long: `A CLI tool for allocating candidates to jobs. Candidates are scored per job from
their latest psychometric test results, ranked, and cut at each job's capacity.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Postgres != nil {
				app.Postgres.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects allocation_config.<env>.yaml and prefixes log files)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")

	// Add all commands
	rootCmd.AddCommand(commands.AllocateCmd(app))
	rootCmd.AddCommand(commands.FeaturesCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.ImportCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config and the upstream store
func initApp() error {
	var err error

	app.Logger, err = logging.New(env, logging.Options{Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.Int("jobs", len(app.Cfg.Jobs)),
		zap.Int("parallel_jobs", app.Cfg.ParallelJobs))

	app.Database, app.Postgres, err = commands.OpenStore(app.Ctx, app.Cfg, app.Logger)
	if err != nil {
		return err
	}
	app.Logger.Info("Store initialized successfully")

	return nil
}
