package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/amil/i18n"
	"github.com/harperreed/amil/models"
)

var languageNames = map[string]string{
	models.LanguageArabic:  "العربية",
	models.LanguageEnglish: "English",
}

func (m Model) renderSettingsTab() string {
	settings := m.svc.Settings()
	loc := i18n.LocaleFor(settings)

	var s strings.Builder
	s.WriteString(m.renderField(loc.T("language"), languageNames[settings.Language]))
	s.WriteString(m.renderField(loc.T("currency"), settings.Currency+" · "+i18n.CurrencyName(settings.Currency, settings.Language)))
	s.WriteString(m.renderField(loc.T("theme"), i18n.ThemeName(settings.Theme, settings.Language, settings.DarkMode)))
	s.WriteString(m.renderField(loc.T("darkMode"), yesNo(settings.DarkMode, loc)))
	if reasons := m.svc.RejectionReasons(); len(reasons) > 0 {
		s.WriteString(m.renderField(loc.T("rejectionReasons"), strings.Join(reasons, ", ")))
	}
	return s.String()
}

func (m Model) handleSettingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	next := m.svc.Settings()
	switch msg.String() {
	case "l":
		if next.Language == models.LanguageArabic {
			next.Language = models.LanguageEnglish
		} else {
			next.Language = models.LanguageArabic
		}
	case "c":
		next.Currency = cycle(models.Currencies, next.Currency)
	case "t":
		next.Theme = cycle(models.Themes, next.Theme)
	case "m":
		next.DarkMode = !next.DarkMode
	default:
		return m, nil
	}

	_, err := m.svc.SaveSettings(next)
	m.setResult("✓ "+i18n.T("settings", next.Language), err)
	return m, nil
}

// cycle returns the entry after current, wrapping around.
func cycle(options []string, current string) string {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

// yesNo renders a boolean in the active language.
func yesNo(v bool, loc i18n.Locale) string {
	if v {
		return loc.T("yes")
	}
	return loc.T("no")
}
