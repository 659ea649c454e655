// ABOUTME: Tests for the Google contacts and calendar importers
// ABOUTME: Exercises conversion, filtering and merging without calling Google
package sync

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/people/v1"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/models"
	"github.com/harperreed/amil/store"
)

func setupTestService(t *testing.T) *crm.Service {
	t.Helper()
	kv, err := store.OpenMemory()
	require.NoError(t, err)
	svc, err := crm.Open(kv, crm.WithClock(func() time.Time {
		return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestConvertPersonPrefersPrimary(t *testing.T) {
	person := &people.Person{
		ResourceName: "people/123",
		Names:        []*people.Name{{DisplayName: "Alice Smith"}},
		EmailAddresses: []*people.EmailAddress{
			{Value: "other@example.com"},
			{Value: "alice@example.com", Metadata: &people.FieldMetadata{Primary: true}},
		},
		PhoneNumbers:  []*people.PhoneNumber{{Value: "0100 123 4567"}},
		Organizations: []*people.Organization{{Name: "Acme Corp"}},
		Biographies:   []*people.Biography{{Value: "Met at the fair"}},
	}

	gc := convertPerson(person)
	assert.Equal(t, "Alice Smith", gc.Name)
	assert.Equal(t, "alice@example.com", gc.Email)
	assert.Equal(t, "0100 123 4567", gc.Phone)
	assert.Equal(t, "Acme Corp", gc.Company)

	c := gc.Customer()
	assert.Equal(t, models.CustomerNew, c.Type)
	assert.Equal(t, []string{GoogleTag}, c.Tags)
	assert.Equal(t, "Acme Corp\nMet at the fair", c.Notes)
	assert.Equal(t, gc.CustomerID(), c.ID)
}

func TestCustomerIDIsDeterministic(t *testing.T) {
	a := &GoogleContact{ResourceName: "people/1"}
	b := &GoogleContact{ResourceName: "people/1"}
	c := &GoogleContact{ResourceName: "people/2"}

	assert.Equal(t, a.CustomerID(), b.CustomerID())
	assert.NotEqual(t, a.CustomerID(), c.CustomerID())
}

func TestContactsImporterDeduplicates(t *testing.T) {
	svc := setupTestService(t)
	_, err := svc.CreateCustomer(models.Customer{Name: "Bob", Phone: "+20 111 222", Type: models.CustomerPermanent})
	require.NoError(t, err)

	importer := NewContactsImporter(svc, quietLogger())
	assert.False(t, importer.Stage(&GoogleContact{ResourceName: "people/b", Name: "Bobby", Phone: "0020111222"}))
	assert.True(t, importer.Stage(&GoogleContact{ResourceName: "people/a", Name: "Alice", Phone: "0100"}))
	assert.False(t, importer.Stage(&GoogleContact{ResourceName: "people/a2", Name: "Alice again", Phone: "0100"}))

	res, err := importer.Commit()
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)

	customers := svc.Customers(crm.CustomerFilter{Tag: GoogleTag})
	require.Len(t, customers, 1)
	assert.Equal(t, "Alice", customers[0].Name)

	// A second run over the same contact adds nothing
	again := NewContactsImporter(svc, quietLogger())
	assert.False(t, again.Stage(&GoogleContact{ResourceName: "people/a", Name: "Alice", Phone: "0100"}))
}

func meeting(id string, attendees ...*calendar.EventAttendee) *calendar.Event {
	return &calendar.Event{
		Id:        id,
		Summary:   "Quarterly review",
		Start:     &calendar.EventDateTime{DateTime: "2024-05-08T10:00:00Z"},
		End:       &calendar.EventDateTime{DateTime: "2024-05-08T10:45:00Z"},
		Attendees: attendees,
	}
}

func TestShouldSkipEvent(t *testing.T) {
	me := &calendar.EventAttendee{Email: "me@example.com", Self: true}
	other := &calendar.EventAttendee{Email: "alice@example.com"}

	tests := []struct {
		name   string
		event  *calendar.Event
		skip   bool
		reason string
	}{
		{"nil", nil, true, "nil event"},
		{"solo", meeting("e1", me), true, "solo event (1 attendee)"},
		{"all day", &calendar.Event{Start: &calendar.EventDateTime{Date: "2024-05-08"}, End: &calendar.EventDateTime{Date: "2024-05-09"}}, true, "all-day event"},
		{"cancelled", func() *calendar.Event { e := meeting("e2", me, other); e.Status = "cancelled"; return e }(), true, "cancelled"},
		{"declined", meeting("e3", &calendar.EventAttendee{Email: "me@example.com", Self: true, ResponseStatus: "declined"}, other), true, "declined"},
		{"meeting", meeting("e4", me, other), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skip, reason := shouldSkipEvent(tt.event)
			assert.Equal(t, tt.skip, skip)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestEventInteractionsLinksCustomersByEmail(t *testing.T) {
	svc := setupTestService(t)
	alice, err := svc.CreateCustomer(models.Customer{Name: "Alice", Phone: "0100", Email: "Alice@Example.com"})
	require.NoError(t, err)
	matcher := NewCustomerMatcher(svc.Customers(crm.CustomerFilter{}))

	event := meeting("evt-1",
		&calendar.EventAttendee{Email: "me@example.com", Self: true},
		&calendar.EventAttendee{Email: "alice@example.com"},
		&calendar.EventAttendee{Email: "stranger@example.com"},
	)

	interactions, err := EventInteractions(event, matcher)
	require.NoError(t, err)
	require.Len(t, interactions, 1)

	i := interactions[0]
	assert.Equal(t, alice.ID, i.CustomerID)
	assert.Equal(t, models.InteractionMeeting, i.Type)
	assert.Equal(t, models.OutcomeNeutral, i.Outcome)
	require.NotNil(t, i.Duration)
	assert.Equal(t, 45, *i.Duration)
	assert.Equal(t, "Quarterly review", i.Notes)

	again, err := EventInteractions(event, matcher)
	require.NoError(t, err)
	assert.Equal(t, i.ID, again[0].ID)

	res, err := svc.MergeInteractions(append(interactions, again...))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.Known)

	got, _ := svc.Customer(alice.ID)
	require.NotNil(t, got.LastContact)
	assert.True(t, got.LastContact.Equal(time.Date(2024, 5, 8, 10, 0, 0, 0, time.UTC)))
}
