package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/viz"
)

// renderReportTab shows the dashboard counters followed by the period report.
func (m Model) renderReportTab() string {
	snap := m.svc.Snapshot()
	loc := m.locale()

	dashboard := viz.RenderDashboard(viz.GenerateDashboardStats(snap, m.svc.Now()), loc)
	report := viz.RenderReport(viz.GenerateReport(snap, m.reportFrom, m.reportTo), loc)
	return m.styles().fieldValue.Render(dashboard + "\n" + report)
}

func (m Model) handleReportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "[":
		m.shiftReport(-1)
	case "]":
		m.shiftReport(1)
	}
	return m, nil
}

// shiftReport moves the report period by whole months.
func (m *Model) shiftReport(months int) {
	m.reportFrom = crm.StartOfDay(m.reportFrom.AddDate(0, months, 0))
	m.reportTo = crm.EndOfDay(m.reportTo.AddDate(0, months, 0))
}
