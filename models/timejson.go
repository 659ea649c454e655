// ABOUTME: Lenient timestamp decoding for stored entities and imported backups
// ABOUTME: Accepts RFC 3339 plus the date-only and minute-precision local forms
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime parses RFC 3339 timestamps, falling back to local-time layouts
// without a zone.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

type flexTime struct {
	t time.Time
}

func (f *flexTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	t, err := ParseTime(s)
	if err != nil {
		return err
	}
	f.t = t
	return nil
}

func (f *flexTime) ptr() *time.Time {
	if f == nil || f.t.IsZero() {
		return nil
	}
	t := f.t
	return &t
}

func (c *Customer) UnmarshalJSON(data []byte) error {
	type alias Customer
	aux := struct {
		*alias
		CreatedAt   flexTime  `json:"createdAt"`
		LastContact *flexTime `json:"lastContact"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("customer: %w", err)
	}
	c.CreatedAt = aux.CreatedAt.t
	c.LastContact = aux.LastContact.ptr()
	return nil
}

func (i *Interaction) UnmarshalJSON(data []byte) error {
	type alias Interaction
	aux := struct {
		*alias
		Date flexTime `json:"date"`
	}{alias: (*alias)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("interaction: %w", err)
	}
	i.Date = aux.Date.t
	return nil
}

func (d *Deal) UnmarshalJSON(data []byte) error {
	type alias Deal
	aux := struct {
		*alias
		ExpectedCloseDate flexTime `json:"expectedCloseDate"`
		CreatedAt         flexTime `json:"createdAt"`
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("deal: %w", err)
	}
	d.ExpectedCloseDate = aux.ExpectedCloseDate.t
	d.CreatedAt = aux.CreatedAt.t
	return nil
}

func (t *Task) UnmarshalJSON(data []byte) error {
	type alias Task
	aux := struct {
		*alias
		DueDate   flexTime `json:"dueDate"`
		CreatedAt flexTime `json:"createdAt"`
	}{alias: (*alias)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("task: %w", err)
	}
	t.DueDate = aux.DueDate.t
	t.CreatedAt = aux.CreatedAt.t
	return nil
}
