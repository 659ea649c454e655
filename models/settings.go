// ABOUTME: Process-wide display settings: language, currency, theme and dark mode
// ABOUTME: Defaults match a fresh install (Arabic, Egyptian pound, default theme)
package models

import "fmt"

const (
	LanguageArabic  = "ar"
	LanguageEnglish = "en"
)

var (
	Currencies = []string{"EGP", "USD", "EUR", "SAR", "AED"}
	Themes     = []string{"default", "green", "purple", "orange"}
)

type Settings struct {
	Language string `json:"language"`
	Currency string `json:"currency"`
	Theme    string `json:"theme"`
	DarkMode bool   `json:"darkMode"`
}

func DefaultSettings() Settings {
	return Settings{
		Language: LanguageArabic,
		Currency: "EGP",
		Theme:    "default",
		DarkMode: false,
	}
}

// Validate rejects values outside the supported sets.
func (s Settings) Validate() error {
	if s.Language != LanguageArabic && s.Language != LanguageEnglish {
		return &ValidationError{Field: "language", Reason: fmt.Sprintf("unsupported language %q", s.Language)}
	}
	if !contains(Currencies, s.Currency) {
		return &ValidationError{Field: "currency", Reason: fmt.Sprintf("unsupported currency %q", s.Currency)}
	}
	if !contains(Themes, s.Theme) {
		return &ValidationError{Field: "theme", Reason: fmt.Sprintf("unsupported theme %q", s.Theme)}
	}
	return nil
}

// WithDefaults fills empty fields from DefaultSettings.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.Language == "" {
		s.Language = d.Language
	}
	if s.Currency == "" {
		s.Currency = d.Currency
	}
	if s.Theme == "" {
		s.Theme = d.Theme
	}
	return s
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
