// ABOUTME: Tests for labels and currency/date formatting
// ABOUTME: English output is asserted exactly; Arabic by its symbol and month names
package i18n

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harperreed/amil/models"
)

func TestLabelsBothLanguages(t *testing.T) {
	assert.Equal(t, "إيجابي", Label(models.OutcomePositive, "ar"))
	assert.Equal(t, "Positive", Label(models.OutcomePositive, "en"))
	assert.Equal(t, "قيد الانتظار", Label(models.TaskPending, "ar"))
	assert.Equal(t, "In Progress", Label(models.TaskInProgress, "en"))
	assert.Equal(t, "مرفوض", Label(models.DealRejected, "ar"))
}

func TestEveryVariantHasLabels(t *testing.T) {
	var all []Labeled
	for _, v := range models.CustomerTypes {
		all = append(all, v)
	}
	for _, v := range models.InteractionTypes {
		all = append(all, v)
	}
	for _, v := range models.Outcomes {
		all = append(all, v)
	}
	for _, v := range models.DealStatuses {
		all = append(all, v)
	}
	for _, v := range models.Priorities {
		all = append(all, v)
	}
	for _, v := range models.TaskStatuses {
		all = append(all, v)
	}
	for _, v := range all {
		for _, lang := range []string{"ar", "en"} {
			assert.NotEqual(t, v.LabelKey(), Label(v, lang), "%s/%s", v.LabelKey(), lang)
		}
	}
}

func TestLabelsRoundTripThroughParsing(t *testing.T) {
	for _, v := range models.Outcomes {
		parsed, err := models.ParseOutcome(Label(v, "ar"))
		assert.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
}

func TestTFallsBack(t *testing.T) {
	assert.Equal(t, "Unknown Customer", T("unknownCustomer", "en"))
	assert.Equal(t, "عميل غير معروف", T("unknownCustomer", "ar"))
	assert.Equal(t, "Customers", T("customers", "fr"))
	assert.Equal(t, "no.such.key", T("no.such.key", "ar"))
}

func TestCurrencyAndThemeNames(t *testing.T) {
	assert.Equal(t, "Saudi Riyal", CurrencyName("SAR", "en"))
	assert.Equal(t, "يورو", CurrencyName("EUR", "ar"))
	assert.Equal(t, "Royal Purple", ThemeName("purple", "en", false))
	assert.Equal(t, "Night Purple", ThemeName("purple", "en", true))
}

func TestFormatCurrencyEnglish(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{1234.5, "USD", "$1,234.50"},
		{1234.5, "EUR", "€1,234.50"},
		{0, "USD", "$0.00"},
		{-20, "USD", "-$20.00"},
		{1234.5, "EGP", "EGP 1,234.5"},
		{1000000, "SAR", "SAR 1,000,000"},
		{75, "AED", "AED 75"},
		{10, "XXX", "EGP 10"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.amount, tt.currency, "en"), "%v %s", tt.amount, tt.currency)
	}
}

func TestFormatCurrencyArabicAppendsSymbol(t *testing.T) {
	for code, sym := range arabicSymbols {
		got := FormatCurrency(1500, code, "ar")
		assert.True(t, strings.HasSuffix(got, " "+sym), "%s: %q", code, got)
	}
}

func TestLocaleMoney(t *testing.T) {
	l := LocaleFor(models.Settings{Language: "en", Currency: "USD"})
	assert.Equal(t, "$99.90", l.Money(99.9))
	assert.False(t, l.IsRTL())
	assert.True(t, LocaleFor(models.DefaultSettings()).IsRTL())
}

func TestFormatDates(t *testing.T) {
	ts := time.Date(2024, time.March, 7, 15, 4, 0, 0, time.UTC)

	assert.Equal(t, "Mar 7, 2024", FormatDate(ts, "en"))
	assert.Equal(t, "Mar 7, 2024 3:04 PM", FormatDateTime(ts, "en"))
	assert.Equal(t, "7 مارس 2024", FormatDate(ts, "ar"))
	assert.Equal(t, "7 مارس 2024 15:04", FormatDateTime(ts, "ar"))
	assert.Equal(t, "-", FormatDate(time.Time{}, "en"))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "25%", FormatPercent(0.25, "en"))
}
