// ABOUTME: Deal subcommands, pipeline summary and rejection reason list
// ABOUTME: Rejected deals remember their reason in the shared reason list
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/i18n"
	"github.com/harperreed/amil/models"
)

func (a *app) dealsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deals",
		Aliases: []string{"deal", "d"},
		Short:   "Manage the deal pipeline",
	}
	cmd.AddCommand(a.dealsAddCmd())
	cmd.AddCommand(a.dealsListCmd())
	cmd.AddCommand(a.dealsUpdateCmd())
	cmd.AddCommand(a.dealsDeleteCmd())
	cmd.AddCommand(a.dealsPipelineCmd())
	cmd.AddCommand(a.reasonsCmd())
	return cmd
}

func addDealFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "deal name")
	cmd.Flags().String("customer", "", "customer id or exact name")
	cmd.Flags().Float64("value", 0, "deal value in the configured currency")
	cmd.Flags().Float64("probability", models.DefaultProbability, "success probability, 0-100")
	cmd.Flags().String("status", "", "status (ongoing, closed, rejected)")
	cmd.Flags().String("close-date", "", "expected close date (2006-01-02)")
	cmd.Flags().String("reason", "", "rejection reason")
	cmd.Flags().String("notes", "", "free-form notes")
}

func (a *app) applyDealFlags(cmd *cobra.Command, svc *crm.Service, d *models.Deal) error {
	flags := cmd.Flags()
	if flags.Changed("title") {
		d.Title, _ = flags.GetString("title")
	}
	if flags.Changed("customer") {
		ref, _ := flags.GetString("customer")
		id, err := svc.ResolveCustomer(ref)
		if err != nil {
			return err
		}
		d.CustomerID = id
	}
	if flags.Changed("value") {
		d.Value, _ = flags.GetFloat64("value")
	}
	if flags.Changed("probability") {
		d.Probability, _ = flags.GetFloat64("probability")
	}
	if flags.Changed("status") {
		v, _ := flags.GetString("status")
		s, err := models.ParseDealStatus(v)
		if err != nil {
			return err
		}
		d.Status = s
	}
	if flags.Changed("close-date") {
		v, _ := flags.GetString("close-date")
		t, err := models.ParseTime(v)
		if err != nil {
			return err
		}
		d.ExpectedCloseDate = t
	}
	if flags.Changed("reason") {
		d.RejectionReason, _ = flags.GetString("reason")
	}
	if flags.Changed("notes") {
		d.Notes, _ = flags.GetString("notes")
	}
	return nil
}

func (a *app) dealsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create a deal",
		Example: `  amil deals add --title "Office fit-out" --customer "Sara Ahmed" --value 25000 --close-date 2024-07-01`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			draft := models.Deal{Probability: models.DefaultProbability}
			if err := a.applyDealFlags(cmd, svc, &draft); err != nil {
				return err
			}

			d, err := svc.CreateDeal(draft)
			if err := a.settle(err); err != nil {
				return fmt.Errorf("failed to create deal: %w", err)
			}

			loc := a.locale()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Deal created: %s (ID: %s)\n", d.Title, d.ID)
			fmt.Fprintf(out, "  %s: %s\n", loc.T("customer"), a.customerLabel(svc, d.CustomerID))
			fmt.Fprintf(out, "  %s: %s\n", loc.T("dealValue"), loc.Money(d.Value))
			fmt.Fprintf(out, "  %s: %s\n", loc.T("expectedValue"), loc.Money(d.WeightedValue()))
			fmt.Fprintf(out, "  %s: %s\n", loc.T("expectedCloseDate"), loc.Date(d.ExpectedCloseDate))
			return nil
		},
	}
	addDealFlags(cmd)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("close-date")
	return cmd
}

func (a *app) dealsListCmd() *cobra.Command {
	var query, status, customer string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List deals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}

			f := crm.DealFilter{Query: query}
			if f.Status, err = parseOptional(status, models.ParseDealStatus); err != nil {
				return err
			}
			if customer != "" {
				if f.CustomerID, err = svc.ResolveCustomer(customer); err != nil {
					return err
				}
			}

			deals := svc.Deals(f)
			loc := a.locale()
			out := cmd.OutOrStdout()
			if len(deals) == 0 {
				fmt.Fprintln(out, loc.T("noDealsRecorded"))
				return nil
			}

			tw := newTable(out, "ID", loc.T("dealName"), loc.T("customer"), loc.T("dealValue"), loc.T("successProbability"), loc.T("dealStatus"), loc.T("expectedCloseDate"))
			for _, d := range deals {
				row(tw, d.ID, truncate(d.Title, 30), a.customerLabel(svc, d.CustomerID), loc.Money(d.Value),
					fmt.Sprintf("%.0f%%", d.Probability), loc.Label(d.Status), loc.Date(d.ExpectedCloseDate))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "match deal name")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&customer, "customer", "", "only this customer (id or name)")
	return cmd
}

func (a *app) dealsUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a deal; only the flags given change",
		Example: `  amil deals update 01HX... --status closed
  amil deals update 01HX... --status rejected --reason "Price too high"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			draft, ok := svc.Deal(args[0])
			if !ok {
				return fmt.Errorf("deal %s: %w", args[0], crm.ErrNotFound)
			}
			if err := a.applyDealFlags(cmd, svc, &draft); err != nil {
				return err
			}

			d, err := svc.UpdateDeal(args[0], draft)
			if err := a.settle(err); err != nil {
				return fmt.Errorf("failed to update deal: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deal updated: %s (%s)\n", d.Title, a.locale().Label(d.Status))
			return nil
		},
	}
	addDealFlags(cmd)
	return cmd
}

func (a *app) dealsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a deal",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			d, ok := svc.Deal(args[0])
			if !ok {
				return fmt.Errorf("deal %s: %w", args[0], crm.ErrNotFound)
			}

			ok, err = a.confirm(cmd, fmt.Sprintf("%s (%s)", a.locale().T("confirmDeleteDeal"), d.Title))
			if err != nil || !ok {
				return err
			}
			if err := a.settle(svc.DeleteDeal(d.ID)); err != nil {
				return fmt.Errorf("failed to delete deal: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deal deleted: %s\n", d.Title)
			return nil
		},
	}
}

func (a *app) dealsPipelineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pipeline",
		Short: "Summarise deals by status with close rate and rejection reasons",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			snap := svc.Snapshot()
			p := crm.Pipeline(snap.Deals)
			loc := a.locale()
			out := cmd.OutOrStdout()

			tw := newTable(out, loc.T("dealStatus"), "#")
			row(tw, loc.Label(models.DealOngoing), fmt.Sprint(p.Ongoing))
			row(tw, loc.Label(models.DealClosed), fmt.Sprint(p.Closed))
			row(tw, loc.Label(models.DealRejected), fmt.Sprint(p.Rejected))
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s: %s\n", loc.T("expectedValue"), loc.Money(p.WeightedValue))
			fmt.Fprintf(out, "%s: %s\n", loc.T("closedDeals"), loc.Money(p.ClosedValue))
			fmt.Fprintf(out, "%s: %s\n", loc.T("dealCloseRate"), i18n.FormatPercent(p.CloseRate(), loc.Language))

			stats := crm.RejectionStats(snap.Deals, snap.RejectionReasons)
			if len(stats) > 0 {
				fmt.Fprintf(out, "\n%s\n", loc.T("rejectionReasons"))
				tw = newTable(out, loc.T("rejectionReason"), "#")
				for _, s := range stats {
					row(tw, s.Reason, fmt.Sprint(s.Count))
				}
				return tw.Flush()
			}
			return nil
		},
	}
}

func (a *app) reasonsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reasons",
		Short: "Manage the list of rejection reasons",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List known rejection reasons",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range svc.RejectionReasons() {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <reason>",
		Short: "Add a rejection reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.settle(svc.AddRejectionReason(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Reason added: %s\n", args[0])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <reason>",
		Short: "Forget a rejection reason; deals keep their text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.settle(svc.RemoveRejectionReason(args[0])); err != nil {
				return fmt.Errorf("reason %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Reason removed: %s\n", args[0])
			return nil
		},
	})
	return cmd
}
