// ABOUTME: Tests for report aggregation, dashboard stats and text rendering
// ABOUTME: Builds snapshots by hand so every figure can be checked exactly
package viz

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/i18n"
	"github.com/harperreed/amil/models"
)

func day(d, h int) time.Time {
	return time.Date(2024, 3, d, h, 0, 0, 0, time.Local)
}

func reportSnapshot() crm.Snapshot {
	return crm.Snapshot{
		Customers: []models.Customer{
			{ID: "c1", Name: "Ahmed", Type: models.CustomerPermanent, CreatedAt: day(1, 9)},
			{ID: "c2", Name: "Mona", Type: models.CustomerNew, CreatedAt: day(20, 9)},
		},
		Interactions: []models.Interaction{
			{ID: "i1", CustomerID: "c1", Type: models.InteractionCall, Outcome: models.OutcomePositive, Date: day(2, 10)},
			{ID: "i2", CustomerID: "c1", Type: models.InteractionEmail, Outcome: models.OutcomeNegative, Date: day(5, 23)},
			{ID: "i3", CustomerID: "c2", Type: models.InteractionCall, Outcome: models.OutcomePositive, Date: day(20, 10)},
		},
		Deals: []models.Deal{
			{ID: "d1", Title: "ERP", CustomerID: "c1", Value: 1000, Probability: 100, Status: models.DealClosed, CreatedAt: day(1, 10)},
			{ID: "d2", Title: "CRM", CustomerID: "c1", Value: 500, Probability: 50, Status: models.DealOngoing, CreatedAt: day(2, 10)},
			{ID: "d3", Title: "Web", CustomerID: "c1", Value: 300, Probability: 20, Status: models.DealRejected, RejectionReason: "price", CreatedAt: day(3, 10)},
			{ID: "d4", Title: "App", CustomerID: "c1", Value: 700, Probability: 30, Status: models.DealOngoing, CreatedAt: day(4, 10)},
			{ID: "d5", Title: "Late", CustomerID: "c2", Value: 9000, Probability: 90, Status: models.DealClosed, CreatedAt: day(25, 10)},
		},
		Tasks: []models.Task{
			{ID: "t1", Title: "Call", Status: models.TaskCompleted, CreatedAt: day(2, 8), DueDate: day(3, 8)},
			{ID: "t2", Title: "Mail", Status: models.TaskPending, CreatedAt: day(3, 8), DueDate: day(6, 8)},
		},
		Settings:         models.DefaultSettings(),
		RejectionReasons: []string{"price", "timing"},
	}
}

func TestGenerateReportFiltersByRange(t *testing.T) {
	r := GenerateReport(reportSnapshot(), day(1, 15), day(5, 0))

	assert.Equal(t, 1, r.NewCustomers)
	assert.Equal(t, 1, r.CustomersByType[models.CustomerPermanent])
	assert.Equal(t, 0, r.CustomersByType[models.CustomerNew])

	// The end date covers the whole day, so the 23:00 email counts.
	assert.Equal(t, 2, r.Interactions)
	assert.Equal(t, 1, r.InteractionsByType[models.InteractionEmail])
	assert.Equal(t, 1, r.PositiveInteractions)
	assert.InDelta(t, 0.5, r.PositiveInteractionRate, 1e-9)

	assert.Equal(t, 4, r.Deals)
	assert.Equal(t, 1, r.ClosedDeals)
	assert.InDelta(t, 1000, r.ClosedValue, 1e-9)
	assert.InDelta(t, 0.25, r.CloseRate, 1e-9)
	assert.InDelta(t, 1000, r.AverageClosedValue, 1e-9)
	assert.InDelta(t, 250+210, r.ExpectedValue, 1e-9)
	assert.Equal(t, StatusTotal{Count: 2, Value: 1200}, r.DealsByStatus[models.DealOngoing])

	assert.Equal(t, 2, r.Tasks)
	assert.Equal(t, 1, r.CompletedTasks)
	assert.Equal(t, 1, r.TasksByStatus[models.TaskPending])
}

func TestGenerateReportEmptyRange(t *testing.T) {
	r := GenerateReport(reportSnapshot(), day(10, 0), day(11, 0))

	assert.Zero(t, r.Deals)
	assert.Zero(t, r.CloseRate)
	assert.Zero(t, r.AverageClosedValue)
	assert.Zero(t, r.PositiveInteractionRate)
	assert.Len(t, r.DealsByStatus, len(models.DealStatuses))
}

func TestRenderReportEnglish(t *testing.T) {
	loc := i18n.Locale{Language: models.LanguageEnglish, Currency: "USD"}
	out := RenderReport(GenerateReport(reportSnapshot(), day(1, 0), day(5, 0)), loc)

	assert.Contains(t, out, "Reports")
	assert.Contains(t, out, "New Customers")
	assert.Contains(t, out, "$1,000.00")
	assert.Contains(t, out, "25%")
	assert.Contains(t, out, "Mar 1, 2024")
}

func TestRenderReportArabic(t *testing.T) {
	loc := i18n.LocaleFor(models.DefaultSettings())
	out := RenderReport(GenerateReport(reportSnapshot(), day(1, 0), day(5, 0)), loc)

	assert.Contains(t, out, "العملاء الجدد")
	assert.Contains(t, out, "مارس")
	assert.Contains(t, out, "ج.م")
}

func TestDashboardStats(t *testing.T) {
	snap := reportSnapshot()
	contacted := day(28, 9)
	snap.Customers[0].LastContact = &contacted
	now := day(30, 12)
	snap.Tasks = append(snap.Tasks,
		models.Task{ID: "t3", Title: "Soon", Status: models.TaskPending, DueDate: now.Add(30 * time.Minute)},
		models.Task{ID: "t4", Title: "Today", Status: models.TaskInProgress, DueDate: day(30, 18)},
	)

	stats := GenerateDashboardStats(snap, now)

	assert.Equal(t, 2, stats.TotalCustomers)
	assert.Equal(t, 3, stats.TotalInteractions)
	assert.Equal(t, 2, stats.Pipeline.Ongoing)
	assert.Equal(t, 2, stats.Pipeline.Closed)
	assert.Equal(t, 1, stats.Pipeline.Rejected)

	require.Len(t, stats.OverdueTasks, 1)
	assert.Equal(t, "t2", stats.OverdueTasks[0].ID)
	assert.Len(t, stats.TodayTasks, 2)
	require.Len(t, stats.DueSoon, 1)
	assert.Equal(t, "t3", stats.DueSoon[0].ID)

	require.Len(t, stats.StaleCustomers, 1)
	assert.Equal(t, "Mona", stats.StaleCustomers[0].Name)
	assert.Equal(t, -1, stats.StaleCustomers[0].DaysSince)

	out := RenderDashboard(stats, i18n.Locale{Language: models.LanguageEnglish, Currency: "EGP"})
	assert.True(t, strings.Contains(out, "AMIL CRM"))
	assert.Contains(t, out, "Overdue Tasks")
	assert.Contains(t, out, "price")
	assert.Contains(t, out, "Soon")
}

func TestBarRowScales(t *testing.T) {
	var out strings.Builder
	barRow(&out, "x", 5, 10)
	assert.Contains(t, out.String(), strings.Repeat("█", 5)+strings.Repeat("░", 5))

	out.Reset()
	barRow(&out, "empty", 0, 0)
	assert.Contains(t, out.String(), strings.Repeat("░", 10))
}

func TestPipelineGraphDOT(t *testing.T) {
	snap := reportSnapshot()
	snap.Deals = append(snap.Deals, models.Deal{ID: "orphan", Title: "Lost", CustomerID: "gone", Status: models.DealOngoing})

	out, err := PipelineGraph(context.Background(), snap, i18n.Locale{Language: models.LanguageEnglish, Currency: "USD"}, FormatDOT)
	require.NoError(t, err)

	dot := string(out)
	assert.Contains(t, dot, "customer_c1")
	assert.Contains(t, dot, "deal_d1")
	assert.Contains(t, dot, "customer_unknown")
	assert.Contains(t, dot, "Unknown Customer")
}

func TestCustomerGraphDOT(t *testing.T) {
	snap := reportSnapshot()
	snap.Tasks[1].CustomerID = "c2"
	loc := i18n.Locale{Language: models.LanguageEnglish, Currency: "USD"}

	out, err := CustomerGraph(context.Background(), snap, "c2", loc, FormatDOT)
	require.NoError(t, err)

	dot := string(out)
	assert.Contains(t, dot, "customer_c2")
	assert.Contains(t, dot, "interaction_i3")
	assert.Contains(t, dot, "deal_d5")
	assert.Contains(t, dot, "task_t2")
	assert.NotContains(t, dot, "deal_d1")

	_, err = CustomerGraph(context.Background(), snap, "missing", loc, FormatDOT)
	assert.ErrorIs(t, err, crm.ErrNotFound)
}
