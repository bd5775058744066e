package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ytget/clipshr/internal/httpapi"
	"github.com/ytget/clipshr/internal/platform"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var port int
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.buildApp()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				app.config.Server.Port = port
			}
			if cmd.Flags().Changed("bind") {
				app.config.Server.Bind = bind
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if app.config.Fetch.InstallYTDLP {
				if err := app.fetcher.EnsureInstalled(runCtx); err != nil {
					return err
				}
			}
			if path, err := platform.LookupBinary(app.config.Encoder.FFmpegPath); err != nil {
				app.logger.Warn("ffmpeg not found, post-processing will fail", "error", err)
			} else {
				app.logger.Debug("using ffmpeg", "path", path)
			}

			app.logger.Info("storage ready", "media_dir", app.config.Paths.MediaDir, "history", app.history.Path())

			if !app.logger.IsDebug() {
				gin.SetMode(gin.ReleaseMode)
			}
			server := httpapi.NewServer(app.orchestrator, app.config.Paths.MediaDir, app.logger)
			listener, err := server.Listen(app.config.Server.Bind, app.config.Server.Port)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "clipshr listening on http://%s\n", listener.Addr())

			err = server.Serve(runCtx)
			app.orchestrator.Wait()
			return err
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Preferred port (falls back to a free port when taken)")
	cmd.Flags().StringVar(&bind, "bind", "", "Bind address")

	return cmd
}
