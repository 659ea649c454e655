// ABOUTME: Interaction subcommands
// ABOUTME: Logging an interaction refreshes the customer's last contact date
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/models"
)

func (a *app) interactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "interactions",
		Aliases: []string{"interaction", "i"},
		Short:   "Log and review customer interactions",
	}
	cmd.AddCommand(a.interactionsAddCmd())
	cmd.AddCommand(a.interactionsListCmd())
	cmd.AddCommand(a.interactionsUpdateCmd())
	cmd.AddCommand(a.interactionsDeleteCmd())
	return cmd
}

func addInteractionFlags(cmd *cobra.Command) {
	cmd.Flags().String("customer", "", "customer id or exact name")
	cmd.Flags().String("type", "", "interaction type (call, meeting, email, message)")
	cmd.Flags().String("date", "", `when it happened ("2006-01-02 15:04", default now)`)
	cmd.Flags().Int("duration", 0, "duration in minutes")
	cmd.Flags().String("outcome", "", "outcome (positive, negative, neutral)")
	cmd.Flags().String("notes", "", "what was discussed")
	cmd.Flags().String("next", "", "next action")
}

func (a *app) applyInteractionFlags(cmd *cobra.Command, svc *crm.Service, i *models.Interaction) error {
	flags := cmd.Flags()
	if flags.Changed("customer") {
		ref, _ := flags.GetString("customer")
		id, err := svc.ResolveCustomer(ref)
		if err != nil {
			return err
		}
		i.CustomerID = id
	}
	if flags.Changed("type") {
		v, _ := flags.GetString("type")
		t, err := models.ParseInteractionType(v)
		if err != nil {
			return err
		}
		i.Type = t
	}
	if flags.Changed("date") {
		v, _ := flags.GetString("date")
		date, err := models.ParseTime(v)
		if err != nil {
			return err
		}
		i.Date = date
	}
	if flags.Changed("duration") {
		minutes, _ := flags.GetInt("duration")
		i.Duration = &minutes
	}
	if flags.Changed("outcome") {
		v, _ := flags.GetString("outcome")
		o, err := models.ParseOutcome(v)
		if err != nil {
			return err
		}
		i.Outcome = o
	}
	if flags.Changed("notes") {
		i.Notes, _ = flags.GetString("notes")
	}
	if flags.Changed("next") {
		i.NextAction, _ = flags.GetString("next")
	}
	return nil
}

func (a *app) interactionsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Log an interaction",
		Example: `  amil interactions add --customer "Sara Ahmed" --type call --outcome positive --notes "asked for a quote"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			draft := models.Interaction{Date: svc.Now()}
			if err := a.applyInteractionFlags(cmd, svc, &draft); err != nil {
				return err
			}

			i, err := svc.CreateInteraction(draft)
			if err := a.settle(err); err != nil {
				return fmt.Errorf("failed to log interaction: %w", err)
			}

			loc := a.locale()
			out := cmd.OutOrStdout()
			name, _ := svc.CustomerName(i.CustomerID)
			fmt.Fprintf(out, "✓ Interaction logged (ID: %s)\n", i.ID)
			fmt.Fprintf(out, "  %s: %s\n", loc.T("customer"), name)
			fmt.Fprintf(out, "  %s: %s · %s\n", loc.T("interactionType"), loc.Label(i.Type), loc.Label(i.Outcome))
			fmt.Fprintf(out, "  %s: %s\n", loc.T("dateTime"), loc.DateTime(i.Date))
			return nil
		},
	}
	addInteractionFlags(cmd)
	_ = cmd.MarkFlagRequired("customer")
	return cmd
}

func (a *app) interactionsListCmd() *cobra.Command {
	var customer, typ, outcome, from, to string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List interactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}

			var f crm.InteractionFilter
			if customer != "" {
				if f.CustomerID, err = svc.ResolveCustomer(customer); err != nil {
					return err
				}
			}
			if f.Type, err = parseOptional(typ, models.ParseInteractionType); err != nil {
				return err
			}
			if f.Outcome, err = parseOptional(outcome, models.ParseOutcome); err != nil {
				return err
			}
			if f.Range, err = parseRange(from, to); err != nil {
				return err
			}

			interactions := svc.Interactions(f)
			loc := a.locale()
			out := cmd.OutOrStdout()
			if len(interactions) == 0 {
				fmt.Fprintln(out, loc.T("noInteractionsRecorded"))
				return nil
			}

			tw := newTable(out, "ID", loc.T("dateTime"), loc.T("customer"), loc.T("interactionType"), loc.T("outcome"), loc.T("notes"))
			for _, i := range interactions {
				row(tw, i.ID, loc.DateTime(i.Date), a.customerLabel(svc, i.CustomerID), loc.Label(i.Type), loc.Label(i.Outcome), truncate(i.Notes, 40))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&customer, "customer", "", "only this customer (id or name)")
	cmd.Flags().StringVar(&typ, "type", "", "filter by interaction type")
	cmd.Flags().StringVar(&outcome, "outcome", "", "filter by outcome")
	cmd.Flags().StringVar(&from, "from", "", "first day (2006-01-02)")
	cmd.Flags().StringVar(&to, "to", "", "last day (2006-01-02)")
	return cmd
}

func (a *app) interactionsUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an interaction; only the flags given change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			draft, ok := svc.Interaction(args[0])
			if !ok {
				return fmt.Errorf("interaction %s: %w", args[0], crm.ErrNotFound)
			}
			if err := a.applyInteractionFlags(cmd, svc, &draft); err != nil {
				return err
			}

			i, err := svc.UpdateInteraction(args[0], draft)
			if err := a.settle(err); err != nil {
				return fmt.Errorf("failed to update interaction: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Interaction updated (ID: %s)\n", i.ID)
			return nil
		},
	}
	addInteractionFlags(cmd)
	return cmd
}

func (a *app) interactionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an interaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			if _, ok := svc.Interaction(args[0]); !ok {
				return fmt.Errorf("interaction %s: %w", args[0], crm.ErrNotFound)
			}

			ok, err := a.confirm(cmd, a.locale().T("confirmDeleteInteraction"))
			if err != nil || !ok {
				return err
			}
			if err := a.settle(svc.DeleteInteraction(args[0])); err != nil {
				return fmt.Errorf("failed to delete interaction: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Interaction deleted: %s\n", args[0])
			return nil
		},
	}
}

// customerLabel names a referenced customer, or the unknown placeholder.
func (a *app) customerLabel(svc *crm.Service, id string) string {
	if id == "" {
		return a.locale().T("generalTask")
	}
	if name, ok := svc.CustomerName(id); ok {
		return name
	}
	return a.locale().T("unknownCustomer")
}

// parseRange reads --from/--to day flags; either may be empty.
func parseRange(from, to string) (crm.DayRange, error) {
	var r crm.DayRange
	var err error
	if from != "" {
		if r.From, err = models.ParseTime(from); err != nil {
			return r, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if to != "" {
		if r.To, err = models.ParseTime(to); err != nil {
			return r, fmt.Errorf("invalid --to: %w", err)
		}
	}
	return r, nil
}
