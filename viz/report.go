// ABOUTME: Period report aggregation over a CRM snapshot
// ABOUTME: Filters each collection by its own date and reduces it to summary metrics
package viz

import (
	"time"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/models"
)

type Report struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	NewCustomers    int                         `json:"newCustomers"`
	CustomersByType map[models.CustomerType]int `json:"customersByType"`

	Interactions            int                            `json:"interactions"`
	InteractionsByType      map[models.InteractionType]int `json:"interactionsByType"`
	PositiveInteractions    int                            `json:"positiveInteractions"`
	PositiveInteractionRate float64                        `json:"positiveInteractionRate"`

	Deals              int                               `json:"deals"`
	DealsByStatus      map[models.DealStatus]StatusTotal `json:"dealsByStatus"`
	ClosedDeals        int                               `json:"closedDeals"`
	ClosedValue        float64                           `json:"closedValue"`
	ExpectedValue      float64                           `json:"expectedValue"`
	CloseRate          float64                           `json:"closeRate"`
	AverageClosedValue float64                           `json:"averageClosedValue"`

	Tasks          int                       `json:"tasks"`
	TasksByStatus  map[models.TaskStatus]int `json:"tasksByStatus"`
	CompletedTasks int                       `json:"completedTasks"`
}

type StatusTotal struct {
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// GenerateReport aggregates customers and deals by creation date,
// interactions by interaction date and tasks by creation date. The range
// starts at the beginning of start's day and runs to 23:59:59.999 on end's day.
func GenerateReport(snap crm.Snapshot, start, end time.Time) *Report {
	r := &Report{
		Start:              crm.StartOfDay(start),
		End:                crm.EndOfDay(end),
		CustomersByType:    make(map[models.CustomerType]int),
		InteractionsByType: make(map[models.InteractionType]int),
		DealsByStatus:      make(map[models.DealStatus]StatusTotal),
		TasksByStatus:      make(map[models.TaskStatus]int),
	}
	for _, t := range models.CustomerTypes {
		r.CustomersByType[t] = 0
	}
	for _, t := range models.InteractionTypes {
		r.InteractionsByType[t] = 0
	}
	for _, st := range models.DealStatuses {
		r.DealsByStatus[st] = StatusTotal{}
	}
	for _, st := range models.TaskStatuses {
		r.TasksByStatus[st] = 0
	}

	in := func(t time.Time) bool {
		return !t.Before(r.Start) && !t.After(r.End)
	}

	for _, c := range snap.Customers {
		if in(c.CreatedAt) {
			r.NewCustomers++
			r.CustomersByType[c.Type]++
		}
	}

	for _, i := range snap.Interactions {
		if !in(i.Date) {
			continue
		}
		r.Interactions++
		r.InteractionsByType[i.Type]++
		if i.Outcome == models.OutcomePositive {
			r.PositiveInteractions++
		}
	}
	if r.Interactions > 0 {
		r.PositiveInteractionRate = float64(r.PositiveInteractions) / float64(r.Interactions)
	}

	var deals []models.Deal
	for _, d := range snap.Deals {
		if in(d.CreatedAt) {
			deals = append(deals, d)
			st := r.DealsByStatus[d.Status]
			st.Count++
			st.Value += d.Value
			r.DealsByStatus[d.Status] = st
		}
	}
	p := crm.Pipeline(deals)
	r.Deals = p.Total
	r.ClosedDeals = p.Closed
	r.ClosedValue = p.ClosedValue
	r.ExpectedValue = p.WeightedValue
	r.CloseRate = p.CloseRate()
	if p.Closed > 0 {
		r.AverageClosedValue = p.ClosedValue / float64(p.Closed)
	}

	for _, t := range snap.Tasks {
		if in(t.CreatedAt) {
			r.Tasks++
			r.TasksByStatus[t.Status]++
			if t.Status == models.TaskCompleted {
				r.CompletedTasks++
			}
		}
	}

	return r
}
