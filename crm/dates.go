// ABOUTME: Calendar-day helpers for range filters and reports
// ABOUTME: Ranges are inclusive of the start day and run to the end of the last day
package crm

import "time"

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay is 23:59:59.999 on t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayRange matches times whose calendar day lies in [From, To]. Zero bounds are open.
type DayRange struct {
	From time.Time
	To   time.Time
}

func (r DayRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(StartOfDay(r.From)) {
		return false
	}
	if !r.To.IsZero() && t.After(EndOfDay(r.To)) {
		return false
	}
	return true
}

func (r DayRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}
