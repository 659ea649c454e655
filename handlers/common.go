// ABOUTME: Helpers shared by the MCP tool handlers
// ABOUTME: Timestamp formatting, optional date parsing and customer resolution
package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/i18n"
	"github.com/harperreed/amil/models"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

const defaultLimit = 50

type DeleteOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeLayout)
	return &s
}

// parseDate accepts RFC 3339 as well as bare dates; empty input yields fallback.
func parseDate(field, value string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	t, err := models.ParseTime(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s format (use ISO 8601 or YYYY-MM-DD): %w", field, err)
	}
	return t, nil
}

func limitOf(n int) int {
	if n <= 0 {
		return defaultLimit
	}
	return n
}

// resolveCustomer returns the id to use for a customer reference. An id wins;
// otherwise the name must match exactly one customer (case-insensitive).
func resolveCustomer(svc *crm.Service, id, name string) (string, error) {
	if id = strings.TrimSpace(id); id != "" {
		if _, ok := svc.Customer(id); !ok {
			return "", fmt.Errorf("customer %s not found", id)
		}
		return id, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("customer_id or customer_name is required")
	}
	var match []models.Customer
	for _, c := range svc.Customers(crm.CustomerFilter{Query: name}) {
		if strings.EqualFold(c.Name, name) {
			match = append(match, c)
		}
	}
	switch len(match) {
	case 0:
		return "", fmt.Errorf("no customer named %q", name)
	case 1:
		return match[0].ID, nil
	default:
		return "", fmt.Errorf("%d customers named %q, pass customer_id instead", len(match), name)
	}
}

// customerLabel is the display name for a reference, or the unknown-customer
// placeholder in the configured language.
func customerLabel(svc *crm.Service, id string) string {
	if id == "" {
		return ""
	}
	if name, ok := svc.CustomerName(id); ok {
		return name
	}
	return i18n.T("unknownCustomer", svc.Settings().Language)
}

// warnOrFail turns a persistence warning into a note on the result and passes
// every other error through.
func warnOrFail(err error) (string, error) {
	if err == nil {
		return "", nil
	}
	if crm.IsWarning(err) {
		return err.Error(), nil
	}
	return "", err
}
