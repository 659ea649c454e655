// ABOUTME: Customer subcommands
// ABOUTME: add, list, show, update and delete with localized output
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/models"
)

func (a *app) customersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer", "c"},
		Short:   "Manage customers",
	}
	cmd.AddCommand(a.customersAddCmd())
	cmd.AddCommand(a.customersListCmd())
	cmd.AddCommand(a.customersShowCmd())
	cmd.AddCommand(a.customersUpdateCmd())
	cmd.AddCommand(a.customersDeleteCmd())
	return cmd
}

func addCustomerFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "customer name")
	cmd.Flags().String("phone", "", "phone number")
	cmd.Flags().String("email", "", "email address")
	cmd.Flags().String("type", "", "customer type (new, potential, permanent)")
	cmd.Flags().StringSlice("tags", nil, "comma-separated tags")
	cmd.Flags().String("notes", "", "free-form notes")
}

// applyCustomerFlags copies every flag the user set onto c.
func applyCustomerFlags(cmd *cobra.Command, c *models.Customer) error {
	flags := cmd.Flags()
	if flags.Changed("name") {
		c.Name, _ = flags.GetString("name")
	}
	if flags.Changed("phone") {
		c.Phone, _ = flags.GetString("phone")
	}
	if flags.Changed("email") {
		c.Email, _ = flags.GetString("email")
	}
	if flags.Changed("type") {
		v, _ := flags.GetString("type")
		t, err := models.ParseCustomerType(v)
		if err != nil {
			return err
		}
		c.Type = t
	}
	if flags.Changed("tags") {
		c.Tags, _ = flags.GetStringSlice("tags")
	}
	if flags.Changed("notes") {
		c.Notes, _ = flags.GetString("notes")
	}
	return nil
}

func (a *app) customersAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a customer",
		Example: `  amil customers add --name "Sara Ahmed" --phone 01012345678 --tags vip,cairo
  amil customers add --name "محمد علي" --phone 0100000000 --type دائم`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			var draft models.Customer
			if err := applyCustomerFlags(cmd, &draft); err != nil {
				return err
			}

			c, err := svc.CreateCustomer(draft)
			if err := a.settle(err); err != nil {
				return fmt.Errorf("failed to create customer: %w", err)
			}

			loc := a.locale()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Customer created: %s (ID: %s)\n", c.Name, c.ID)
			fmt.Fprintf(out, "  %s: %s\n", loc.T("phone"), c.Phone)
			fmt.Fprintf(out, "  %s: %s\n", loc.T("customerType"), loc.Label(c.Type))
			return nil
		},
	}
	addCustomerFlags(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

func (a *app) customersListCmd() *cobra.Command {
	var query, typ, tag string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List customers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			t, err := parseOptional(typ, models.ParseCustomerType)
			if err != nil {
				return err
			}

			customers := svc.Customers(crm.CustomerFilter{Query: query, Type: t, Tag: tag})
			loc := a.locale()
			out := cmd.OutOrStdout()
			if len(customers) == 0 {
				fmt.Fprintln(out, loc.T("noCustomers"))
				return nil
			}

			tw := newTable(out, "ID", loc.T("name"), loc.T("phone"), loc.T("customerType"), loc.T("tags"), loc.T("lastContact"))
			for _, c := range customers {
				row(tw, c.ID, truncate(c.Name, 30), c.Phone, loc.Label(c.Type), strings.Join(c.Tags, ","), optionalDate(c.LastContact, loc))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "match name, phone or email")
	cmd.Flags().StringVar(&typ, "type", "", "filter by customer type")
	cmd.Flags().StringVar(&tag, "tag", "", "filter by tag")
	return cmd
}

func (a *app) customersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <customer>",
		Short: "Show a customer with related records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			id, err := svc.ResolveCustomer(args[0])
			if err != nil {
				return err
			}
			c, _ := svc.Customer(id)

			loc := a.locale()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (ID: %s)\n", c.Name, c.ID)
			fmt.Fprintf(out, "  %s: %s\n", loc.T("phone"), c.Phone)
			if c.Email != "" {
				fmt.Fprintf(out, "  %s: %s\n", loc.T("email"), c.Email)
			}
			fmt.Fprintf(out, "  %s: %s\n", loc.T("customerType"), loc.Label(c.Type))
			if len(c.Tags) > 0 {
				fmt.Fprintf(out, "  %s: %s\n", loc.T("tags"), strings.Join(c.Tags, ", "))
			}
			fmt.Fprintf(out, "  %s: %s\n", loc.T("createdAt"), loc.Date(c.CreatedAt))
			fmt.Fprintf(out, "  %s: %s\n", loc.T("lastContact"), optionalDate(c.LastContact, loc))
			if c.Notes != "" {
				fmt.Fprintf(out, "  %s: %s\n", loc.T("notes"), c.Notes)
			}

			interactions := svc.Interactions(crm.InteractionFilter{CustomerID: id})
			fmt.Fprintf(out, "\n%s (%d)\n", loc.T("interactions"), len(interactions))
			for _, i := range interactions {
				fmt.Fprintf(out, "  %s  %s  %s  %s\n", loc.DateTime(i.Date), loc.Label(i.Type), loc.Label(i.Outcome), truncate(i.Notes, 40))
			}

			deals := svc.Deals(crm.DealFilter{CustomerID: id})
			fmt.Fprintf(out, "\n%s (%d)\n", loc.T("deals"), len(deals))
			for _, d := range deals {
				fmt.Fprintf(out, "  %s  %s  %s\n", d.Title, loc.Money(d.Value), loc.Label(d.Status))
			}

			now := svc.Now()
			tasks := svc.Tasks(crm.TaskFilter{CustomerID: id})
			fmt.Fprintf(out, "\n%s (%d)\n", loc.T("tasks"), len(tasks))
			for _, t := range tasks {
				mark := " "
				if t.IsOverdue(now) {
					mark = "!"
				}
				fmt.Fprintf(out, " %s%s  %s  %s\n", mark, t.Title, loc.DateTime(t.DueDate), loc.Label(t.Status))
			}
			return nil
		},
	}
}

func (a *app) customersUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <customer>",
		Short: "Update a customer; only the flags given change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			id, err := svc.ResolveCustomer(args[0])
			if err != nil {
				return err
			}
			draft, _ := svc.Customer(id)
			if err := applyCustomerFlags(cmd, &draft); err != nil {
				return err
			}

			c, err := svc.UpdateCustomer(id, draft)
			if err := a.settle(err); err != nil {
				return fmt.Errorf("failed to update customer: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Customer updated: %s (ID: %s)\n", c.Name, c.ID)
			return nil
		},
	}
	addCustomerFlags(cmd)
	return cmd
}

func (a *app) customersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <customer>",
		Aliases: []string{"rm"},
		Short:   "Delete a customer",
		Long: `Delete a customer. Interactions, deals and tasks that point at the customer
are kept and show as belonging to an unknown customer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			id, err := svc.ResolveCustomer(args[0])
			if err != nil {
				return err
			}
			c, _ := svc.Customer(id)

			ok, err := a.confirm(cmd, fmt.Sprintf("%s (%s)", a.locale().T("confirmDeleteCustomer"), c.Name))
			if err != nil || !ok {
				return err
			}
			if err := a.settle(svc.DeleteCustomer(id)); err != nil {
				return fmt.Errorf("failed to delete customer: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Customer deleted: %s\n", c.Name)
			return nil
		},
	}
}
