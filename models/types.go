// ABOUTME: Data models for CRM entities
// ABOUTME: Defines Customer, Interaction, Deal, Task and Settings structs
package models

import (
	"strings"
	"time"
)

type Customer struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Phone       string       `json:"phone"`
	Email       string       `json:"email,omitempty"`
	Type        CustomerType `json:"type"`
	Tags        []string     `json:"tags"`
	CreatedAt   time.Time    `json:"createdAt"`
	LastContact *time.Time   `json:"lastContact,omitempty"`
	Notes       string       `json:"notes,omitempty"`
}

type Interaction struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	Type       InteractionType `json:"type"`
	Date       time.Time       `json:"date"`
	Duration   *int            `json:"duration,omitempty"` // minutes
	Outcome    Outcome         `json:"outcome"`
	Notes      string          `json:"notes"`
	NextAction string          `json:"nextAction,omitempty"`
}

// DefaultProbability is the success probability offered for a new deal.
const DefaultProbability = 50

type Deal struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	CustomerID        string     `json:"customerId"`
	Value             float64    `json:"value"`
	Status            DealStatus `json:"status"`
	Probability       float64    `json:"probability"`
	ExpectedCloseDate time.Time  `json:"expectedCloseDate"`
	CreatedAt         time.Time  `json:"createdAt"`
	Notes             string     `json:"notes,omitempty"`
	RejectionReason   string     `json:"rejectionReason,omitempty"`
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	CustomerID  string     `json:"customerId,omitempty"`
	Description string     `json:"description"`
	DueDate     time.Time  `json:"dueDate"`
	Priority    Priority   `json:"priority"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// WeightedValue is the deal value scaled by its success probability.
func (d Deal) WeightedValue() float64 {
	return d.Value * d.Probability / 100
}

// IsOverdue reports whether an incomplete task is past its due date.
func (t Task) IsOverdue(now time.Time) bool {
	return t.Status != TaskCompleted && t.DueDate.Before(now)
}

// HasTag matches tags case-insensitively.
func (c Customer) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Normalize trims free-text fields and drops empty tags.
func (c *Customer) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	tags := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	c.Tags = tags
	if c.Type == "" {
		c.Type = CustomerNew
	}
}

func (c *Customer) Validate() error {
	if c.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if c.Phone == "" {
		return &ValidationError{Field: "phone", Reason: "required"}
	}
	if !c.Type.Valid() {
		return &ValidationError{Field: "type", Reason: "unknown customer type " + string(c.Type)}
	}
	return nil
}

func (i *Interaction) Normalize() {
	i.CustomerID = strings.TrimSpace(i.CustomerID)
	i.NextAction = strings.TrimSpace(i.NextAction)
	if i.Type == "" {
		i.Type = InteractionCall
	}
	if i.Outcome == "" {
		i.Outcome = OutcomeNeutral
	}
}

func (i *Interaction) Validate() error {
	if i.CustomerID == "" {
		return &ValidationError{Field: "customerId", Reason: "required"}
	}
	if i.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "required"}
	}
	if !i.Type.Valid() {
		return &ValidationError{Field: "type", Reason: "unknown interaction type " + string(i.Type)}
	}
	if !i.Outcome.Valid() {
		return &ValidationError{Field: "outcome", Reason: "unknown outcome " + string(i.Outcome)}
	}
	if i.Duration != nil && *i.Duration < 0 {
		return &ValidationError{Field: "duration", Reason: "must not be negative"}
	}
	return nil
}

func (d *Deal) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.CustomerID = strings.TrimSpace(d.CustomerID)
	d.RejectionReason = strings.TrimSpace(d.RejectionReason)
	if d.Status == "" {
		d.Status = DealOngoing
	}
}

func (d *Deal) Validate() error {
	if d.Title == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if d.CustomerID == "" {
		return &ValidationError{Field: "customerId", Reason: "required"}
	}
	if d.Value < 0 {
		return &ValidationError{Field: "value", Reason: "must not be negative"}
	}
	if d.Probability < 0 || d.Probability > 100 {
		return &ValidationError{Field: "probability", Reason: "must be between 0 and 100"}
	}
	if !d.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown deal status " + string(d.Status)}
	}
	if d.ExpectedCloseDate.IsZero() {
		return &ValidationError{Field: "expectedCloseDate", Reason: "required"}
	}
	return nil
}

func (t *Task) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	t.CustomerID = strings.TrimSpace(t.CustomerID)
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Status == "" {
		t.Status = TaskPending
	}
}

func (t *Task) Validate() error {
	if t.Title == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if t.DueDate.IsZero() {
		return &ValidationError{Field: "dueDate", Reason: "required"}
	}
	if !t.Priority.Valid() {
		return &ValidationError{Field: "priority", Reason: "unknown priority " + string(t.Priority)}
	}
	if !t.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown task status " + string(t.Status)}
	}
	return nil
}
