// ABOUTME: Plain-text rendering of reports and the dashboard for the terminal
// ABOUTME: All labels and amounts go through the caller's locale
package viz

import (
	"fmt"
	"strings"

	"github.com/harperreed/amil/i18n"
	"github.com/harperreed/amil/models"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"

func RenderReport(r *Report, loc i18n.Locale) string {
	var out strings.Builder

	out.WriteString(rule)
	out.WriteString("  " + loc.T("reportsAndStats") + "\n")
	out.WriteString(fmt.Sprintf("  %s %s %s\n", loc.Date(r.Start), loc.T("to"), loc.Date(r.End)))
	out.WriteString(rule + "\n")

	out.WriteString(strings.ToUpper(loc.T("performanceSummary")) + "\n")
	row(&out, loc.T("newCustomers"), fmt.Sprint(r.NewCustomers))
	row(&out, loc.T("totalInteractions"), fmt.Sprint(r.Interactions))
	row(&out, loc.T("successRate"), i18n.FormatPercent(r.PositiveInteractionRate, loc.Language))
	row(&out, loc.T("closedDeals"), fmt.Sprintf("%d (%s)", r.ClosedDeals, loc.Money(r.ClosedValue)))
	row(&out, loc.T("expectedValue"), loc.Money(r.ExpectedValue))
	row(&out, loc.T("dealCloseRate"), i18n.FormatPercent(r.CloseRate, loc.Language))
	row(&out, loc.T("averageDealValue"), loc.Money(r.AverageClosedValue))
	row(&out, loc.T("completedTasks"), fmt.Sprint(r.CompletedTasks))
	out.WriteString("\n")

	out.WriteString(strings.ToUpper(loc.T("customersByType")) + "\n")
	counts := make([]int, 0, len(models.CustomerTypes))
	for _, t := range models.CustomerTypes {
		counts = append(counts, r.CustomersByType[t])
	}
	for i, t := range models.CustomerTypes {
		barRow(&out, loc.Label(t), counts[i], maxOf(counts))
	}
	out.WriteString("\n")

	out.WriteString(strings.ToUpper(loc.T("interactionsByType")) + "\n")
	counts = counts[:0]
	for _, t := range models.InteractionTypes {
		counts = append(counts, r.InteractionsByType[t])
	}
	for i, t := range models.InteractionTypes {
		barRow(&out, loc.Label(t), counts[i], maxOf(counts))
	}
	out.WriteString("\n")

	out.WriteString(strings.ToUpper(loc.T("dealStatus")) + "\n")
	for _, st := range models.DealStatuses {
		total := r.DealsByStatus[st]
		row(&out, loc.Label(st), fmt.Sprintf("%d (%s)", total.Count, loc.Money(total.Value)))
	}
	out.WriteString("\n")

	out.WriteString(strings.ToUpper(loc.T("taskStatus")) + "\n")
	for _, st := range models.TaskStatuses {
		row(&out, loc.Label(st), fmt.Sprint(r.TasksByStatus[st]))
	}

	return out.String()
}

func RenderDashboard(stats *DashboardStats, loc i18n.Locale) string {
	var out strings.Builder

	out.WriteString(rule)
	out.WriteString("  AMIL CRM\n")
	out.WriteString(rule + "\n")

	out.WriteString(strings.ToUpper(loc.T("deals")) + "\n")
	p := stats.Pipeline
	counts := []int{p.Ongoing, p.Closed, p.Rejected}
	for i, st := range models.DealStatuses {
		barRow(&out, loc.Label(st), counts[i], maxOf(counts))
	}
	row(&out, loc.T("expectedValue"), loc.Money(p.WeightedValue))
	row(&out, loc.T("dealCloseRate"), i18n.FormatPercent(p.CloseRate(), loc.Language))
	out.WriteString("\n")

	out.WriteString(strings.ToUpper(loc.T("tasks")) + "\n")
	row(&out, loc.T("overdueTasks"), fmt.Sprint(len(stats.OverdueTasks)))
	row(&out, loc.T("todayTasks"), fmt.Sprint(len(stats.TodayTasks)))
	for _, st := range models.TaskStatuses {
		row(&out, loc.Label(st), fmt.Sprint(stats.TaskCounts[st]))
	}
	out.WriteString("\n")

	if len(stats.Rejections) > 0 {
		out.WriteString(strings.ToUpper(loc.T("rejectionReasons")) + "\n")
		counts = counts[:0]
		for _, rc := range stats.Rejections {
			counts = append(counts, rc.Count)
		}
		for _, rc := range stats.Rejections {
			barRow(&out, rc.Reason, rc.Count, maxOf(counts))
		}
		out.WriteString("\n")
	}

	out.WriteString(fmt.Sprintf("  %d %s  %d %s\n",
		stats.TotalCustomers, loc.T("customers"), stats.TotalInteractions, loc.T("interactions")))

	if len(stats.DueSoon) > 0 {
		out.WriteString("\n" + strings.ToUpper(loc.T("taskNotifications")) + "\n")
		for _, t := range stats.DueSoon {
			out.WriteString(fmt.Sprintf("  ⏰ %s  %s\n", t.Title, loc.DateTime(t.DueDate)))
		}
	}
	if len(stats.StaleCustomers) > 0 {
		out.WriteString(fmt.Sprintf("\n  ⚠️  %d %s - 30+ days\n", len(stats.StaleCustomers), loc.T("customers")))
	}

	return out.String()
}

func row(out *strings.Builder, label, value string) {
	out.WriteString(fmt.Sprintf("  %-24s %s\n", label, value))
}

// barRow draws a 10-block bar scaled against top.
func barRow(out *strings.Builder, label string, count, top int) {
	if top == 0 {
		top = 1
	}
	n := (count * 10) / top
	bar := strings.Repeat("█", n) + strings.Repeat("░", 10-n)
	out.WriteString(fmt.Sprintf("  %-16s %s %3d\n", label, bar, count))
}

func maxOf(values []int) int {
	m := 0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}
