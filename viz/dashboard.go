// ABOUTME: Dashboard statistics across the whole CRM
// ABOUTME: Pipeline totals, overdue and today's tasks, rejection reasons and stale customers
package viz

import (
	"time"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/models"
)

type DashboardStats struct {
	TotalCustomers    int
	TotalInteractions int
	Pipeline          crm.PipelineStats
	Rejections        []crm.ReasonCount

	OverdueTasks []models.Task
	TodayTasks   []models.Task
	DueSoon      []models.Task
	TaskCounts   map[models.TaskStatus]int

	// Customers never contacted or not contacted in StaleAfter
	StaleCustomers []StaleCustomer
}

type StaleCustomer struct {
	Name      string
	DaysSince int // -1 when never contacted
}

const StaleAfter = 30 * 24 * time.Hour

func GenerateDashboardStats(snap crm.Snapshot, now time.Time) *DashboardStats {
	stats := &DashboardStats{
		TotalCustomers:    len(snap.Customers),
		TotalInteractions: len(snap.Interactions),
		Pipeline:          crm.Pipeline(snap.Deals),
		Rejections:        crm.RejectionStats(snap.Deals, snap.RejectionReasons),
		OverdueTasks:      crm.SortTasks(crm.Overdue(snap.Tasks, now), now),
		TodayTasks:        crm.SortTasks(crm.DueToday(snap.Tasks, now), now),
		DueSoon:           crm.DueSoon(snap.Tasks, now, crm.DefaultNotifyWindow),
		TaskCounts:        crm.StatusCounts(snap.Tasks),
	}

	for _, c := range snap.Customers {
		if c.LastContact == nil {
			stats.StaleCustomers = append(stats.StaleCustomers, StaleCustomer{Name: c.Name, DaysSince: -1})
			continue
		}
		if since := now.Sub(*c.LastContact); since > StaleAfter {
			stats.StaleCustomers = append(stats.StaleCustomers, StaleCustomer{
				Name:      c.Name,
				DaysSince: int(since.Hours() / 24),
			})
		}
	}
	return stats
}
