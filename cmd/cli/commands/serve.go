package commands

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Navy-M/Web-Exams-sub000/pkg/api"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the allocation HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = app.Cfg.ServerAddr()
			}

			gin.SetMode(gin.ReleaseMode)
			server := api.NewServer(app.Database, app.Logger, app.Cfg.ParallelJobs)

			ctx, stop := signal.NotifyContext(app.Ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.Run(ctx, addr)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")

	return cmd
}
