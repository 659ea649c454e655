// ABOUTME: Google contacts and calendar import subcommands
// ABOUTME: Authenticates once, stores the token under XDG data home and reuses it
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/harperreed/amil/sync"
)

func (a *app) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import customers and meetings from Google",
		Long: `Import Google contacts as new customers and recent calendar meetings as
interactions. Set google.client_id and google.client_secret (or
AMIL_GOOGLE_CLIENT_ID / AMIL_GOOGLE_CLIENT_SECRET) to your OAuth app first.`,
	}
	var reauth bool
	cmd.PersistentFlags().BoolVar(&reauth, "reauth", false, "run the Google consent flow even if a token is saved")

	cmd.AddCommand(&cobra.Command{
		Use:   "google-contacts",
		Short: "Import Google contacts as customers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.service(ctx)
			if err != nil {
				return err
			}
			client, err := a.googleClient(ctx, cmd, reauth)
			if err != nil {
				return err
			}
			people, err := sync.NewPeopleClient(ctx, client)
			if err != nil {
				return err
			}

			bar := a.progress(cmd, "Importing contacts")
			res, err := sync.ImportContacts(ctx, svc, people, bar, a.logger)
			_ = bar.Finish()
			if err != nil {
				return err
			}
			if err := a.settle(res.Persisted); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Contacts imported: %d fetched\n", res.Fetched)
			fmt.Fprintf(out, "  Created:  %d\n", res.Created)
			fmt.Fprintf(out, "  Matched:  %d\n", res.Matched)
			fmt.Fprintf(out, "  Known:    %d\n", res.Known)
			fmt.Fprintf(out, "  Skipped:  %d\n", res.Skipped)
			return nil
		},
	})

	var days int
	calendarCmd := &cobra.Command{
		Use:   "google-calendar",
		Short: "Log recent Google calendar meetings as interactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.service(ctx)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("days") {
				days = a.v.GetInt("google.calendar_days")
			}
			client, err := a.googleClient(ctx, cmd, reauth)
			if err != nil {
				return err
			}
			cal, err := sync.NewCalendarClient(ctx, client)
			if err != nil {
				return err
			}

			bar := a.progress(cmd, "Importing events")
			res, err := sync.ImportCalendar(ctx, svc, cal, days, bar, a.logger)
			_ = bar.Finish()
			if err != nil {
				return err
			}
			if err := a.settle(res.Persisted); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Calendar imported: %d events from the last %d days\n", res.Fetched, days)
			fmt.Fprintf(out, "  Logged:    %d\n", res.Logged)
			fmt.Fprintf(out, "  Known:     %d\n", res.Known)
			fmt.Fprintf(out, "  Unmatched: %d\n", res.Unmatched)
			for reason, n := range res.Skipped {
				fmt.Fprintf(out, "  Skipped (%s): %d\n", reason, n)
			}
			return nil
		},
	}
	calendarCmd.Flags().IntVar(&days, "days", sync.DefaultCalendarDays, "how many days back to import")
	cmd.AddCommand(calendarCmd)

	return cmd
}

// googleClient loads the saved token, running the consent flow when there is
// none or reauth is set.
func (a *app) googleClient(ctx context.Context, cmd *cobra.Command, reauth bool) (*http.Client, error) {
	cfg, err := sync.NewOAuthConfig(a.v.GetString("google.client_id"), a.v.GetString("google.client_secret"), "")
	if err != nil {
		return nil, err
	}

	path := sync.TokenPath()
	token, err := sync.LoadToken(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		a.logger.Warn("ignoring unreadable google token", "path", path, "err", err)
	}
	if token == nil || reauth {
		token, err = sync.Authenticate(ctx, cfg, cmd.ErrOrStderr())
		if err != nil {
			return nil, err
		}
		if err := sync.SaveToken(path, token); err != nil {
			return nil, err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Tokens saved to %s\n", path)
	}
	return sync.HTTPClient(ctx, cfg, token)
}

func (a *app) progress(cmd *cobra.Command, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}
