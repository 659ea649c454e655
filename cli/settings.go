package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harperreed/amil/i18n"
	"github.com/harperreed/amil/models"
)

func (a *app) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change language, currency and theme",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			s := svc.Settings()
			loc := i18n.LocaleFor(s)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", loc.T("language"), s.Language)
			fmt.Fprintf(out, "%s: %s (%s)\n", loc.T("currency"), s.Currency, i18n.CurrencyName(s.Currency, s.Language))
			fmt.Fprintf(out, "%s: %s\n", loc.T("theme"), i18n.ThemeName(s.Theme, s.Language, s.DarkMode))
			darkMode := loc.T("no")
			if s.DarkMode {
				darkMode = loc.T("yes")
			}
			fmt.Fprintf(out, "%s: %s\n", loc.T("darkMode"), darkMode)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting (language, currency, theme, dark-mode)",
		Example: `  amil settings set language en
  amil settings set currency USD
  amil settings set dark-mode true`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			next := svc.Settings()
			value := strings.TrimSpace(args[1])
			switch strings.ToLower(args[0]) {
			case "language", "lang":
				lang, ok := languageAliases[strings.ToLower(value)]
				if !ok {
					return fmt.Errorf("unsupported language %q (use ar or en)", value)
				}
				next.Language = lang
			case "currency":
				next.Currency = strings.ToUpper(value)
			case "theme":
				next.Theme = strings.ToLower(value)
			case "dark-mode", "darkmode", "dark":
				on, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("dark-mode must be true or false: %w", err)
				}
				next.DarkMode = on
			default:
				return fmt.Errorf("unknown setting %q", args[0])
			}

			saved, err := svc.SaveSettings(next)
			if err := a.settle(err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", i18n.T("settings", saved.Language))
			return nil
		},
	})

	return cmd
}

var languageAliases = map[string]string{
	"ar":      models.LanguageArabic,
	"arabic":  models.LanguageArabic,
	"العربية": models.LanguageArabic,
	"en":      models.LanguageEnglish,
	"english": models.LanguageEnglish,
}
