package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/models"
	"github.com/harperreed/amil/viz"
)

func (a *app) reportCmd() *cobra.Command {
	var from, to string
	var asJSON, dashboard bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarise activity over a period (default: the last month)",
		Example: `  amil report
  amil report --from 2024-01-01 --to 2024-03-31 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}

			now := svc.Now()
			start, end := now.AddDate(0, -1, 0), now
			if from != "" {
				if start, err = models.ParseTime(from); err != nil {
					return fmt.Errorf("invalid --from: %w", err)
				}
			}
			if to != "" {
				if end, err = models.ParseTime(to); err != nil {
					return fmt.Errorf("invalid --to: %w", err)
				}
			}
			if end.Before(start) {
				return fmt.Errorf("--to %s is before --from %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
			}

			snap := svc.Snapshot()
			report := viz.GenerateReport(snap, crm.StartOfDay(start), crm.EndOfDay(end))
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			loc := a.locale()
			if dashboard {
				fmt.Fprintln(out, viz.RenderDashboard(viz.GenerateDashboardStats(snap, now), loc))
			}
			fmt.Fprint(out, viz.RenderReport(report, loc))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day (2006-01-02)")
	cmd.Flags().StringVar(&to, "to", "", "last day (2006-01-02)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&dashboard, "dashboard", false, "prefix the report with the dashboard counters")
	return cmd
}

func (a *app) graphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render graphs of CRM data",
	}

	var output, format string
	cmd.PersistentFlags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.PersistentFlags().StringVar(&format, "format", string(viz.FormatDOT), "output format (dot, svg)")

	render := func(cmd *cobra.Command, draw func(svc *crm.Service, f viz.GraphFormat) ([]byte, error)) error {
		svc, err := a.service(cmd.Context())
		if err != nil {
			return err
		}
		f := viz.GraphFormat(format)
		if f != viz.FormatDOT && f != viz.FormatSVG {
			return fmt.Errorf("unsupported graph format %q (use dot or svg)", format)
		}

		data, err := draw(svc, f)
		if err != nil {
			return fmt.Errorf("failed to render graph: %w", err)
		}
		if output == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write graph: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Graph written to %s\n", output)
		return nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "pipeline",
		Short: "Render customers and their deals as Graphviz DOT or SVG",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return render(cmd, func(svc *crm.Service, f viz.GraphFormat) ([]byte, error) {
				return viz.PipelineGraph(cmd.Context(), svc.Snapshot(), a.locale(), f)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "customer <id|name>",
		Short: "Render one customer with their interactions, deals and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return render(cmd, func(svc *crm.Service, f viz.GraphFormat) ([]byte, error) {
				id, err := svc.ResolveCustomer(args[0])
				if err != nil {
					return nil, err
				}
				return viz.CustomerGraph(cmd.Context(), svc.Snapshot(), id, a.locale(), f)
			})
		},
	})
	return cmd
}
