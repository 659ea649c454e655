// ABOUTME: Customer deduplication and matching logic
// ABOUTME: Finds existing customers by normalised phone or email during import
package sync

import (
	"strings"
	"unicode"

	"github.com/harperreed/amil/models"
)

type CustomerMatcher struct {
	byPhone map[string]*models.Customer
	byEmail map[string]*models.Customer
}

// NewCustomerMatcher creates a matcher from existing customers.
func NewCustomerMatcher(customers []models.Customer) *CustomerMatcher {
	m := &CustomerMatcher{
		byPhone: make(map[string]*models.Customer),
		byEmail: make(map[string]*models.Customer),
	}
	for i := range customers {
		m.Add(&customers[i])
	}
	return m
}

// FindMatch looks for an existing customer by phone first, then email.
func (m *CustomerMatcher) FindMatch(phone, email string) (*models.Customer, bool) {
	if p := normalizePhone(phone); p != "" {
		if c, ok := m.byPhone[p]; ok {
			return c, true
		}
	}
	if e := normalizeEmail(email); e != "" {
		if c, ok := m.byEmail[e]; ok {
			return c, true
		}
	}
	return nil, false
}

// FindByEmail is used to link calendar attendees.
func (m *CustomerMatcher) FindByEmail(email string) (*models.Customer, bool) {
	c, ok := m.byEmail[normalizeEmail(email)]
	return c, ok
}

// Add indexes a customer so later records in the same import match it.
func (m *CustomerMatcher) Add(c *models.Customer) {
	if p := normalizePhone(c.Phone); p != "" {
		m.byPhone[p] = c
	}
	if e := normalizeEmail(c.Email); e != "" {
		m.byEmail[e] = c
	}
}

// normalizeEmail converts email to lowercase for comparison.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizePhone keeps digits only and folds the 00 international prefix,
// so "+20 100-123" and "0020100123" compare equal.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			// Arabic-Indic and Extended (Persian) Arabic-Indic digits fold to ASCII
			switch {
			case r >= '٠' && r <= '٩':
				r = '0' + (r - '٠')
			case r >= '۰' && r <= '۹':
				r = '0' + (r - '۰')
			}
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(strings.TrimSpace(phone), "00") {
		digits = strings.TrimPrefix(digits, "00")
	}
	return digits
}
