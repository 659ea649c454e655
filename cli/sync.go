// ABOUTME: Charm cloud sync subcommands
// ABOUTME: Charm authenticates with SSH keys, so there is no login or logout
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/harperreed/amil/charm"
)

func (a *app) syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync data through a charm server",
		Long: `Sync uses the charm storage backend (--backend charm). These commands work
on the charm store regardless of the configured backend.`,
	}
	cmd.AddCommand(a.syncStatusCmd())
	cmd.AddCommand(a.syncNowCmd())
	cmd.AddCommand(a.syncLinkCmd())
	cmd.AddCommand(a.syncAutoCmd())
	cmd.AddCommand(a.syncHostCmd())
	cmd.AddCommand(a.syncWipeCmd())
	return cmd
}

func (a *app) syncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync configuration and connection state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.charmClient()
			if err != nil {
				return err
			}
			st := c.Status()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Charm Sync Status")
			fmt.Fprintln(out, "─────────────────")
			fmt.Fprintf(out, "Server:    %s\n", st.Host)
			fmt.Fprintf(out, "Auto-sync: %v\n", st.AutoSync)
			if st.Connected {
				fmt.Fprintf(out, "Status:    Connected\n")
				fmt.Fprintf(out, "ID:        %s\n", st.UserID)
			} else {
				fmt.Fprintf(out, "Status:    Not connected\n")
			}
			fmt.Fprintf(out, "Keys:      %d\n", st.Keys)
			return nil
		},
	}
}

func (a *app) syncNowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Push and pull changes immediately",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.charmClient()
			if err != nil {
				return err
			}
			if err := c.Sync(); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Sync complete")
			return nil
		},
	}
}

func (a *app) syncLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link",
		Short: "Link this device to a charm account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.charmClient()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Linking to %s...\n", c.Config().Host)
			if err := c.Sync(); err != nil {
				return fmt.Errorf("link failed: %w", err)
			}
			if id, err := c.ID(); err != nil {
				fmt.Fprintln(out, "✓ Device linked (ID unavailable)")
			} else {
				fmt.Fprintf(out, "✓ Linked to account: %s\n", id)
			}
			fmt.Fprintf(out, "✓ Auto-sync: %v\n", c.Config().AutoSync)
			return nil
		},
	}
}

func (a *app) syncAutoCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "auto <on|off>",
		Short:     "Sync after every write",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			cfg, err := charm.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load charm config: %w", err)
			}
			if err := cfg.SetAutoSync(enabled); err != nil {
				return fmt.Errorf("failed to save charm config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Auto-sync: %v\n", enabled)
			return nil
		},
	}
}

func (a *app) syncHostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "host <host>",
		Short: "Point sync at another charm server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := charm.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load charm config: %w", err)
			}
			if err := cfg.SetHost(args[0]); err != nil {
				return fmt.Errorf("failed to save charm config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Sync server: %s\n", args[0])
			return nil
		},
	}
}

func (a *app) syncWipeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wipe",
		Short: "Delete all local charm data; the account stays linked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok, err := a.confirm(cmd, "WARNING: this deletes ALL local data. Continue?")
			if err != nil || !ok {
				return err
			}
			c, err := a.charmClient()
			if err != nil {
				return err
			}
			if err := c.Reset(); err != nil {
				return fmt.Errorf("failed to reset store: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ All data wiped")
			return nil
		},
	}
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return v, nil
}
