// ABOUTME: Currency and date rendering for Arabic and English
// ABOUTME: Settings arrive as an explicit Locale so output depends only on arguments
package i18n

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/harperreed/amil/models"
)

// Locale carries the display settings formatting depends on.
type Locale struct {
	Language string
	Currency string
}

func LocaleFor(s models.Settings) Locale {
	return Locale{Language: s.Language, Currency: s.Currency}
}

func (l Locale) T(key string) string { return T(key, l.Language) }
func (l Locale) Label(v Labeled) string { return Label(v, l.Language) }
func (l Locale) Money(amount float64) string { return FormatCurrency(amount, l.Currency, l.Language) }
func (l Locale) Date(t time.Time) string { return FormatDate(t, l.Language) }
func (l Locale) DateTime(t time.Time) string { return FormatDateTime(t, l.Language) }
func (l Locale) IsRTL() bool { return l.Language == models.LanguageArabic }

var (
	arabicSymbols = map[string]string{
		"EGP": "ج.م",
		"USD": "$",
		"EUR": "€",
		"SAR": "ر.س",
		"AED": "د.إ",
	}
	englishSymbols = map[string]string{
		"EGP": "EGP",
		"USD": "$",
		"EUR": "€",
		"SAR": "SAR",
		"AED": "AED",
	}
	arabicPrinter  = message.NewPrinter(language.MustParse("ar-EG"))
	englishPrinter = message.NewPrinter(language.AmericanEnglish)
)

// Symbol returns the currency symbol, defaulting to the Egyptian pound.
func Symbol(currency, lang string) string {
	table := englishSymbols
	if lang == models.LanguageArabic {
		table = arabicSymbols
	}
	if s, ok := table[currency]; ok {
		return s
	}
	return table["EGP"]
}

// FormatCurrency renders Arabic as "amount symbol", English dollars and euros
// with two decimals after the symbol, and other English currencies as
// "CODE amount".
func FormatCurrency(amount float64, currency, lang string) string {
	sym := Symbol(currency, lang)
	if lang == models.LanguageArabic {
		return fmt.Sprintf("%s %s", arabicPrinter.Sprint(number.Decimal(amount)), sym)
	}
	if currency == "USD" || currency == "EUR" {
		sign := ""
		if amount < 0 {
			sign = "-"
			amount = -amount
		}
		return sign + sym + englishPrinter.Sprint(number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	}
	return fmt.Sprintf("%s %s", sym, englishPrinter.Sprint(number.Decimal(amount)))
}

// FormatNumber groups digits for the language.
func FormatNumber(v float64, lang string) string {
	if lang == models.LanguageArabic {
		return arabicPrinter.Sprint(number.Decimal(v))
	}
	return englishPrinter.Sprint(number.Decimal(v))
}

// FormatPercent renders a 0..1 ratio with one decimal.
func FormatPercent(ratio float64, lang string) string {
	p := englishPrinter
	if lang == models.LanguageArabic {
		p = arabicPrinter
	}
	return p.Sprint(number.Percent(ratio, number.MaxFractionDigits(1)))
}

var arabicMonths = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

func FormatDate(t time.Time, lang string) string {
	if t.IsZero() {
		return "-"
	}
	if lang == models.LanguageArabic {
		return fmt.Sprintf("%d %s %d", t.Day(), arabicMonths[t.Month()-1], t.Year())
	}
	return t.Format("Jan 2, 2006")
}

func FormatDateTime(t time.Time, lang string) string {
	if t.IsZero() {
		return "-"
	}
	if lang == models.LanguageArabic {
		return fmt.Sprintf("%s %s", FormatDate(t, lang), t.Format("15:04"))
	}
	return t.Format("Jan 2, 2006 3:04 PM")
}
