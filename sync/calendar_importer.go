// ABOUTME: Calendar event importer from Google Calendar API
// ABOUTME: Logs past meetings with known customers as meeting interactions
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"google.golang.org/api/calendar/v3"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/models"
)

const (
	maxResults = 250 // Google Calendar API max per page

	DefaultCalendarDays = 30
)

// CalendarNamespace seeds interaction ids derived from event ids.
var CalendarNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://www.googleapis.com/calendar/amil/events"))

// shouldSkipEvent determines if an event should be skipped during import
// Returns (true, reason) if the event should be skipped, (false, "") otherwise
func shouldSkipEvent(event *calendar.Event) (bool, string) {
	if event == nil {
		return true, "nil event"
	}
	if event.Start == nil || event.End == nil {
		return true, "missing start time"
	}
	// All-day events set Date instead of DateTime
	if event.Start.Date != "" {
		return true, "all-day event"
	}
	if event.Status == "cancelled" {
		return true, "cancelled"
	}
	for _, attendee := range event.Attendees {
		if attendee.Self && attendee.ResponseStatus == "declined" {
			return true, "declined"
		}
	}
	attendeeCount := len(event.Attendees)
	if attendeeCount <= 1 {
		return true, fmt.Sprintf("solo event (%d attendee%s)", attendeeCount, pluralize(attendeeCount))
	}
	return false, ""
}

// pluralize returns "s" if count != 1, otherwise ""
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}

// EventInteractions converts one meeting into an interaction per attendee
// that matches a customer by email.
func EventInteractions(event *calendar.Event, matcher *CustomerMatcher) ([]models.Interaction, error) {
	start, err := time.Parse(time.RFC3339, event.Start.DateTime)
	if err != nil {
		return nil, fmt.Errorf("event %s: bad start: %w", event.Id, err)
	}
	end, err := time.Parse(time.RFC3339, event.End.DateTime)
	if err != nil {
		return nil, fmt.Errorf("event %s: bad end: %w", event.Id, err)
	}
	var duration *int
	if minutes := int(end.Sub(start).Minutes()); minutes > 0 {
		duration = &minutes
	}

	var out []models.Interaction
	seen := map[string]bool{}
	for _, attendee := range event.Attendees {
		if attendee.Self {
			continue
		}
		customer, ok := matcher.FindByEmail(attendee.Email)
		if !ok || seen[customer.ID] {
			continue
		}
		seen[customer.ID] = true
		out = append(out, models.Interaction{
			ID:         uuid.NewSHA1(CalendarNamespace, []byte(event.Id+"/"+customer.ID)).String(),
			CustomerID: customer.ID,
			Type:       models.InteractionMeeting,
			Date:       start,
			Duration:   duration,
			Outcome:    models.OutcomeNeutral,
			Notes:      event.Summary,
		})
	}
	return out, nil
}

// CalendarResult summarises one calendar import.
type CalendarResult struct {
	Fetched   int
	Logged    int
	Known     int
	Unmatched int
	Skipped   map[string]int
	Persisted error
}

// ImportCalendar fetches primary-calendar events from the last days and
// logs meetings with known customers.
func ImportCalendar(ctx context.Context, svc *crm.Service, client *calendar.Service, days int, progress Progress, logger *log.Logger) (CalendarResult, error) {
	if days <= 0 {
		days = DefaultCalendarDays
	}
	now := svc.Now()
	matcher := NewCustomerMatcher(svc.Customers(crm.CustomerFilter{}))

	res := CalendarResult{Skipped: map[string]int{}}
	var batch []models.Interaction
	pageToken := ""
	for {
		call := client.Events.List("primary").
			Context(ctx).
			MaxResults(maxResults).
			SingleEvents(true).
			OrderBy("startTime").
			TimeMin(now.AddDate(0, 0, -days).Format(time.RFC3339)).
			TimeMax(now.Format(time.RFC3339))
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Do()
		if err != nil {
			return res, fmt.Errorf("failed to fetch calendar events: %w", err)
		}
		res.Fetched += len(events.Items)

		for _, event := range events.Items {
			if progress != nil {
				_ = progress.Add(1)
			}
			if skip, reason := shouldSkipEvent(event); skip {
				res.Skipped[reason]++
				continue
			}
			interactions, err := EventInteractions(event, matcher)
			if err != nil {
				logger.Warn("skipping event", "err", err)
				res.Skipped["unparseable"]++
				continue
			}
			if len(interactions) == 0 {
				res.Unmatched++
				continue
			}
			batch = append(batch, interactions...)
		}

		pageToken = events.NextPageToken
		if pageToken == "" {
			break
		}
	}

	merged, err := svc.MergeInteractions(batch)
	res.Logged = merged.Added
	res.Known = merged.Known
	if err != nil {
		if !crm.IsWarning(err) {
			return res, err
		}
		res.Persisted = err
	}
	return res, nil
}
