// ABOUTME: Tests for CRM data models
// ABOUTME: Covers bilingual enum decoding, lenient timestamps and draft validation
package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutcomeAcceptsBothLanguages(t *testing.T) {
	tests := []struct {
		in   string
		want Outcome
	}{
		{"positive", OutcomePositive},
		{"Positive", OutcomePositive},
		{"إيجابي", OutcomePositive},
		{"سلبي", OutcomeNegative},
		{" neutral ", OutcomeNeutral},
		{"محايد", OutcomeNeutral},
	}
	for _, tt := range tests {
		got, err := ParseOutcome(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseUnknownLiteral(t *testing.T) {
	_, err := ParseDealStatus("won")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLiteral))
	assert.Contains(t, err.Error(), "deal status")
}

func TestTaskStatusLiterals(t *testing.T) {
	for _, in := range []string{"inProgress", "In Progress", "جاري", "in-progress"} {
		got, err := ParseTaskStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, TaskInProgress, got)
	}
	pending, err := ParseTaskStatus("قيد الانتظار")
	require.NoError(t, err)
	assert.Equal(t, TaskPending, pending)
}

func TestValidOnlyAcceptsCodes(t *testing.T) {
	assert.True(t, CustomerPermanent.Valid())
	assert.False(t, CustomerType("دائم").Valid())
	assert.True(t, TaskInProgress.Valid())
	assert.False(t, TaskStatus("inprogress").Valid())
}

func TestDecodeLegacyArabicCustomer(t *testing.T) {
	raw := `{"id":"1700000000000","name":"أحمد","phone":"0100","type":"دائم","tags":["vip"],
		"createdAt":"2024-03-01T10:00:00.000Z","lastContact":"2024-03-05T09:30"}`

	var c Customer
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.Equal(t, "1700000000000", c.ID)
	assert.Equal(t, CustomerPermanent, c.Type)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), c.CreatedAt.UTC())
	require.NotNil(t, c.LastContact)
	assert.Equal(t, 5, c.LastContact.Day())
	assert.Equal(t, 9, c.LastContact.Hour())
}

func TestEncodeWritesStableCodes(t *testing.T) {
	task := Task{ID: "t1", Title: "call back", Priority: PriorityHigh, Status: TaskInProgress}
	data, err := json.Marshal(task)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"inProgress"`)
	assert.Contains(t, string(data), `"priority":"high"`)
}

func TestDecodeRejectsUnknownEnum(t *testing.T) {
	var d Deal
	err := json.Unmarshal([]byte(`{"id":"1","status":"maybe"}`), &d)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLiteral))
}

func TestDecodeDateOnlyAndEmptyTimes(t *testing.T) {
	var d Deal
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","status":"جاري","expectedCloseDate":"2024-06-30","createdAt":""}`), &d))
	assert.Equal(t, DealOngoing, d.Status)
	assert.Equal(t, 30, d.ExpectedCloseDate.Day())
	assert.True(t, d.CreatedAt.IsZero())
}

func TestParseTimeRejectsGarbage(t *testing.T) {
	_, err := ParseTime("yesterday")
	assert.Error(t, err)
}

func TestCustomerValidate(t *testing.T) {
	c := Customer{Name: "  Sara ", Phone: " 555 ", Tags: []string{" a ", "", "b"}}
	c.Normalize()
	require.NoError(t, c.Validate())
	assert.Equal(t, "Sara", c.Name)
	assert.Equal(t, CustomerNew, c.Type)
	assert.Equal(t, []string{"a", "b"}, c.Tags)

	missing := Customer{Name: "x"}
	err := missing.Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "phone", verr.Field)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestDealValidate(t *testing.T) {
	base := Deal{Title: "ERP", CustomerID: "c1", Value: 10, Probability: 50, ExpectedCloseDate: time.Now()}
	base.Normalize()
	require.NoError(t, base.Validate())

	neg := base
	neg.Value = -1
	assert.ErrorContains(t, neg.Validate(), "value")

	prob := base
	prob.Probability = 101
	assert.ErrorContains(t, prob.Validate(), "probability")
}

func TestWeightedValueAndOverdue(t *testing.T) {
	assert.Equal(t, 500.0, Deal{Value: 1000, Probability: 50}.WeightedValue())

	now := time.Now()
	assert.True(t, Task{DueDate: now.Add(-time.Hour), Status: TaskPending}.IsOverdue(now))
	assert.False(t, Task{DueDate: now.Add(-time.Hour), Status: TaskCompleted}.IsOverdue(now))
}

func TestSettingsDefaultsAndValidate(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, Settings{Language: "ar", Currency: "EGP", Theme: "default"}, s)
	require.NoError(t, s.Validate())

	s.Currency = "GBP"
	assert.ErrorContains(t, s.Validate(), "currency")

	filled := Settings{Language: "en"}.WithDefaults()
	assert.Equal(t, "EGP", filled.Currency)
	assert.Equal(t, "en", filled.Language)
}
