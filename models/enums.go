// ABOUTME: Stable enum variants for customer, interaction, deal and task fields
// ABOUTME: Decodes codes, English literals and Arabic literals into one variant
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLiteral is returned when a string matches no variant of an enum.
var ErrUnknownLiteral = errors.New("unknown enum literal")

type CustomerType string

const (
	CustomerNew       CustomerType = "new"
	CustomerPotential CustomerType = "potential"
	CustomerPermanent CustomerType = "permanent"
)

type InteractionType string

const (
	InteractionCall    InteractionType = "call"
	InteractionMeeting InteractionType = "meeting"
	InteractionEmail   InteractionType = "email"
	InteractionMessage InteractionType = "message"
)

type Outcome string

const (
	OutcomePositive Outcome = "positive"
	OutcomeNegative Outcome = "negative"
	OutcomeNeutral  Outcome = "neutral"
)

type DealStatus string

const (
	DealOngoing  DealStatus = "ongoing"
	DealClosed   DealStatus = "closed"
	DealRejected DealStatus = "rejected"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "inProgress"
	TaskCompleted  TaskStatus = "completed"
)

// Literal tables map lowercased codes, English labels and Arabic labels to the code.
var (
	customerTypeLiterals = map[string]string{
		"new": "new", "potential": "potential", "permanent": "permanent",
		"جديد": "new", "محتمل": "potential", "دائم": "permanent",
	}
	interactionTypeLiterals = map[string]string{
		"call": "call", "meeting": "meeting", "email": "email", "message": "message",
		"مكالمة": "call", "مقابلة": "meeting", "إيميل": "email", "رسالة": "message",
	}
	outcomeLiterals = map[string]string{
		"positive": "positive", "negative": "negative", "neutral": "neutral",
		"إيجابي": "positive", "سلبي": "negative", "محايد": "neutral",
	}
	dealStatusLiterals = map[string]string{
		"ongoing": "ongoing", "closed": "closed", "rejected": "rejected",
		"جاري": "ongoing", "مغلق": "closed", "مرفوض": "rejected",
	}
	priorityLiterals = map[string]string{
		"high": "high", "medium": "medium", "low": "low",
		"عالي": "high", "متوسط": "medium", "منخفض": "low",
	}
	taskStatusLiterals = map[string]string{
		"pending": "pending", "inprogress": "inProgress", "in progress": "inProgress",
		"in-progress": "inProgress", "completed": "completed",
		"قيد الانتظار": "pending", "جاري": "inProgress", "مكتمل": "completed",
	}
)

func parseLiteral(enum string, table map[string]string, s string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if code, ok := table[key]; ok {
		return code, nil
	}
	return "", fmt.Errorf("%w: %s %q", ErrUnknownLiteral, enum, s)
}

// isCode reports whether s is a stable code rather than a display literal.
func isCode(table map[string]string, s string) bool {
	for _, code := range table {
		if code == s {
			return true
		}
	}
	return false
}

func unmarshalLiteral(data []byte, enum string, table map[string]string) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", fmt.Errorf("%s: %w", enum, err)
	}
	return parseLiteral(enum, table, s)
}

// ParseCustomerType accepts a code, an English label or an Arabic label.
func ParseCustomerType(s string) (CustomerType, error) {
	code, err := parseLiteral("customer type", customerTypeLiterals, s)
	return CustomerType(code), err
}

func (t *CustomerType) UnmarshalJSON(data []byte) error {
	code, err := unmarshalLiteral(data, "customer type", customerTypeLiterals)
	if err != nil {
		return err
	}
	*t = CustomerType(code)
	return nil
}

func (t CustomerType) Valid() bool { return isCode(customerTypeLiterals, string(t)) }
func (t CustomerType) LabelKey() string { return "customer." + string(t) }

func ParseInteractionType(s string) (InteractionType, error) {
	code, err := parseLiteral("interaction type", interactionTypeLiterals, s)
	return InteractionType(code), err
}

func (t *InteractionType) UnmarshalJSON(data []byte) error {
	code, err := unmarshalLiteral(data, "interaction type", interactionTypeLiterals)
	if err != nil {
		return err
	}
	*t = InteractionType(code)
	return nil
}

func (t InteractionType) Valid() bool { return isCode(interactionTypeLiterals, string(t)) }
func (t InteractionType) LabelKey() string { return "interaction." + string(t) }

func ParseOutcome(s string) (Outcome, error) {
	code, err := parseLiteral("outcome", outcomeLiterals, s)
	return Outcome(code), err
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	code, err := unmarshalLiteral(data, "outcome", outcomeLiterals)
	if err != nil {
		return err
	}
	*o = Outcome(code)
	return nil
}

func (o Outcome) Valid() bool { return isCode(outcomeLiterals, string(o)) }
func (o Outcome) LabelKey() string { return "outcome." + string(o) }

func ParseDealStatus(s string) (DealStatus, error) {
	code, err := parseLiteral("deal status", dealStatusLiterals, s)
	return DealStatus(code), err
}

func (s *DealStatus) UnmarshalJSON(data []byte) error {
	code, err := unmarshalLiteral(data, "deal status", dealStatusLiterals)
	if err != nil {
		return err
	}
	*s = DealStatus(code)
	return nil
}

func (s DealStatus) Valid() bool { return isCode(dealStatusLiterals, string(s)) }
func (s DealStatus) LabelKey() string { return "deal." + string(s) }

func ParsePriority(s string) (Priority, error) {
	code, err := parseLiteral("priority", priorityLiterals, s)
	return Priority(code), err
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	code, err := unmarshalLiteral(data, "priority", priorityLiterals)
	if err != nil {
		return err
	}
	*p = Priority(code)
	return nil
}

func (p Priority) Valid() bool { return isCode(priorityLiterals, string(p)) }
func (p Priority) LabelKey() string { return "priority." + string(p) }

func ParseTaskStatus(s string) (TaskStatus, error) {
	code, err := parseLiteral("task status", taskStatusLiterals, s)
	return TaskStatus(code), err
}

func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	code, err := unmarshalLiteral(data, "task status", taskStatusLiterals)
	if err != nil {
		return err
	}
	*s = TaskStatus(code)
	return nil
}

func (s TaskStatus) Valid() bool { return isCode(taskStatusLiterals, string(s)) }

func (s TaskStatus) LabelKey() string { return "task." + string(s) }

var (
	CustomerTypes    = []CustomerType{CustomerNew, CustomerPotential, CustomerPermanent}
	InteractionTypes = []InteractionType{InteractionCall, InteractionMeeting, InteractionEmail, InteractionMessage}
	Outcomes         = []Outcome{OutcomePositive, OutcomeNegative, OutcomeNeutral}
	DealStatuses     = []DealStatus{DealOngoing, DealClosed, DealRejected}
	Priorities       = []Priority{PriorityHigh, PriorityMedium, PriorityLow}
	TaskStatuses     = []TaskStatus{TaskPending, TaskInProgress, TaskCompleted}
)
