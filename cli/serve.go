package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/models"
	"github.com/harperreed/amil/tui"
	"github.com/harperreed/amil/web"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and Prometheus metrics",
		Long: `Serve the read API under /api, backup import and export, and /metrics.
Due-soon tasks are also logged while the server runs.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.service(ctx)
			if err != nil {
				return err
			}

			n := crm.ForService(svc, func(tasks []models.Task) {
				for _, t := range tasks {
					a.logger.Info("task due soon", "id", t.ID, "title", t.Title, "due", t.DueDate)
				}
			})
			n.Interval = a.v.GetDuration("notify.interval")
			n.Window = a.v.GetDuration("notify.window")
			n.Start(ctx)
			defer n.Stop()

			return web.NewServer(svc, a.logger).ListenAndServe(ctx, a.v.GetString("server.addr"))
		},
	}
	cmd.Flags().String("addr", web.DefaultAddr, "listen address")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal interface",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			// stderr shares the terminal with the full-screen UI
			if a.logger.GetLevel() < log.ErrorLevel {
				a.logger.SetLevel(log.ErrorLevel)
			}
			return tui.Run(cmd.Context(), svc, a.v.GetDuration("notify.interval"), a.v.GetDuration("notify.window"))
		},
	}
}
