package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/amil/models"
)

func TestMatchCustomerByPhoneOrEmail(t *testing.T) {
	existing := []models.Customer{
		{ID: "c1", Name: "Alice", Phone: "+20 100 123 4567", Email: "alice@example.com"},
		{ID: "c2", Name: "Bob", Phone: "0111-222-333"},
	}
	matcher := NewCustomerMatcher(existing)

	match, found := matcher.FindMatch("00201001234567", "")
	require.True(t, found)
	assert.Equal(t, "c1", match.ID)

	match, found = matcher.FindMatch("", "ALICE@example.com")
	require.True(t, found)
	assert.Equal(t, "c1", match.ID)

	match, found = matcher.FindMatch("0111222333", "bob@elsewhere.com")
	require.True(t, found)
	assert.Equal(t, "c2", match.ID)

	_, found = matcher.FindMatch("0999", "charlie@example.com")
	assert.False(t, found)
}

func TestMatcherAddPreventsDuplicatesInOneImport(t *testing.T) {
	matcher := NewCustomerMatcher(nil)
	matcher.Add(&models.Customer{ID: "new", Phone: "0100"})

	match, found := matcher.FindMatch("0100", "")
	require.True(t, found)
	assert.Equal(t, "new", match.ID)
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Alice@Example.com", "alice@example.com"},
		{" alice.smith@example.com ", "alice.smith@example.com"},
		{"ALICE@EXAMPLE.COM", "alice@example.com"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizeEmail(tt.input), tt.input)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"+20 100 123", "20100123"},
		{"0020100123", "20100123"},
		{"(010) 555-1234", "0105551234"},
		{"٠١٠٠١٢٣", "0100123"},
		{"۰۱۲۳", "0123"},
		{"+۹۸ ۹۱۲", "98912"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizePhone(tt.input), tt.input)
	}
}
