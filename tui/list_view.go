package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/models"
)

// listing is one tab's table content with the record id behind each row.
type listing struct {
	columns []table.Column
	rows    []table.Row
	ids     []string
	empty   string
}

func (m Model) renderListView() string {
	var s strings.Builder
	st := m.styles()

	s.WriteString(st.title.Render("AMIL CRM"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if panel := m.renderNotifications(); panel != "" {
		s.WriteString(panel)
		s.WriteString("\n\n")
	}

	switch m.entityType {
	case EntityReports:
		s.WriteString(m.renderReportTab())
	case EntitySettings:
		s.WriteString(m.renderSettingsTab())
	default:
		if m.searching || m.searchQuery != "" {
			s.WriteString(fmt.Sprintf("/%s", m.searchQuery))
			if m.searching {
				s.WriteString("█")
			}
			s.WriteString("\n")
		}
		s.WriteString(m.renderTable())
	}
	s.WriteString("\n")

	s.WriteString(m.renderStatus())
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	st := m.styles()
	loc := m.locale()
	var rendered []string

	for i, key := range tabKeys {
		if EntityType(i) == m.entityType {
			rendered = append(rendered, st.tabActive.Render(loc.T(key)))
		} else {
			rendered = append(rendered, st.tabInactive.Render(loc.T(key)))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderStatus() string {
	st := m.styles()
	switch {
	case m.err != nil:
		return st.warning.Render("Error: "+m.err.Error()) + "\n"
	case m.statusMessage != "":
		return st.success.Render(m.statusMessage) + "\n"
	}
	return ""
}

func (m Model) renderTable() string {
	l := m.currentListing()
	if len(l.rows) == 0 {
		return m.styles().fieldValue.Render(l.empty) + "\n"
	}

	height := m.height - 12
	if height < 5 {
		height = 5
	}

	t := table.New(
		table.WithColumns(l.columns),
		table.WithRows(l.rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	if m.selectedRow < len(l.rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) currentListing() listing {
	switch m.entityType {
	case EntityCustomers:
		return m.customersListing()
	case EntityInteractions:
		return m.interactionsListing()
	case EntityDeals:
		return m.dealsListing()
	case EntityTasks:
		return m.tasksListing()
	}
	return listing{}
}

func (m Model) customersListing() listing {
	loc := m.locale()
	l := listing{
		columns: []table.Column{
			{Title: loc.T("name"), Width: 24},
			{Title: loc.T("phone"), Width: 16},
			{Title: loc.T("customerType"), Width: 10},
			{Title: loc.T("tags"), Width: 20},
			{Title: loc.T("lastContact"), Width: 16},
		},
		empty: loc.T("noCustomers"),
	}

	for _, c := range m.svc.Customers(crm.CustomerFilter{Query: m.searchQuery}) {
		last := "-"
		if c.LastContact != nil {
			last = loc.Date(*c.LastContact)
		}
		l.rows = append(l.rows, table.Row{
			c.Name,
			c.Phone,
			loc.Label(c.Type),
			strings.Join(c.Tags, ", "),
			last,
		})
		l.ids = append(l.ids, c.ID)
	}
	return l
}

func (m Model) interactionsListing() listing {
	loc := m.locale()
	l := listing{
		columns: []table.Column{
			{Title: loc.T("customer"), Width: 20},
			{Title: loc.T("interactionType"), Width: 10},
			{Title: loc.T("dateTime"), Width: 20},
			{Title: loc.T("outcome"), Width: 10},
			{Title: loc.T("notes"), Width: 26},
		},
		empty: loc.T("noInteractionsRecorded"),
	}

	for _, i := range m.svc.Interactions(crm.InteractionFilter{}) {
		customer := m.customerLabel(i.CustomerID)
		if !matchesQuery(m.searchQuery, customer, i.Notes, i.NextAction) {
			continue
		}
		l.rows = append(l.rows, table.Row{
			customer,
			loc.Label(i.Type),
			loc.DateTime(i.Date),
			loc.Label(i.Outcome),
			i.Notes,
		})
		l.ids = append(l.ids, i.ID)
	}
	return l
}

func (m Model) dealsListing() listing {
	loc := m.locale()
	l := listing{
		columns: []table.Column{
			{Title: loc.T("dealName"), Width: 24},
			{Title: loc.T("customer"), Width: 18},
			{Title: loc.T("dealValue"), Width: 16},
			{Title: loc.T("successProbability"), Width: 8},
			{Title: loc.T("dealStatus"), Width: 10},
		},
		empty: loc.T("noDealsRecorded"),
	}

	for _, d := range m.svc.Deals(crm.DealFilter{Query: m.searchQuery}) {
		l.rows = append(l.rows, table.Row{
			d.Title,
			m.customerLabel(d.CustomerID),
			loc.Money(d.Value),
			strconv.FormatFloat(d.Probability, 'f', -1, 64) + "%",
			loc.Label(d.Status),
		})
		l.ids = append(l.ids, d.ID)
	}
	return l
}

func (m Model) tasksListing() listing {
	loc := m.locale()
	now := m.svc.Now()
	l := listing{
		columns: []table.Column{
			{Title: loc.T("taskTitle"), Width: 24},
			{Title: loc.T("customer"), Width: 18},
			{Title: loc.T("dueDate"), Width: 20},
			{Title: loc.T("priority"), Width: 8},
			{Title: loc.T("status"), Width: 14},
		},
		empty: loc.T("noTasksRecorded"),
	}

	for _, t := range m.svc.Tasks(crm.TaskFilter{}) {
		if !matchesQuery(m.searchQuery, t.Title, t.Description) {
			continue
		}
		due := loc.DateTime(t.DueDate)
		if t.IsOverdue(now) {
			due = "! " + due
		}
		l.rows = append(l.rows, table.Row{
			t.Title,
			m.customerLabel(t.CustomerID),
			due,
			loc.Label(t.Priority),
			loc.Label(t.Status),
		})
		l.ids = append(l.ids, t.ID)
	}
	return l
}

func matchesQuery(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func (m Model) renderListHelp() string {
	var help []string
	switch m.entityType {
	case EntityReports:
		help = []string{"Tab: Switch tabs", "[/]: Previous/next month", "q: Quit"}
	case EntitySettings:
		help = []string{"Tab: Switch tabs", "l: Language", "c: Currency", "t: Theme", "m: Dark mode", "q: Quit"}
	default:
		help = []string{
			"↑/↓: Navigate",
			"Tab: Switch tabs",
			"Enter: View details",
			"/: Search",
			"n: New",
			"e: Edit",
			"d: Delete",
		}
		switch m.entityType {
		case EntityDeals:
			help = append(help, "g: Pipeline graph")
		case EntityTasks:
			help = append(help, "s: Next status")
		}
		help = append(help, "q: Quit")
	}
	return m.styles().help.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKeys(msg)
	}

	switch msg.String() {
	case "tab":
		m.switchTab((m.entityType + 1) % entityCount)
		return m, nil
	case "shift+tab":
		m.switchTab((m.entityType + entityCount - 1) % entityCount)
		return m, nil
	}

	switch m.entityType {
	case EntityReports:
		return m.handleReportKeys(msg)
	case EntitySettings:
		return m.handleSettingsKeys(msg)
	}

	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.currentListing().ids)-1 {
			m.selectedRow++
		}
	case "enter":
		if id := m.getSelectedID(); id != "" {
			m.viewMode = ViewDetail
			m.selectedID = id
		}
	case "/":
		m.searching = true
	case "n":
		m.selectedID = ""
		m.returnMode = ViewList
		m.initFormInputs()
		m.viewMode = ViewEdit
		return m, textinput.Blink
	case "e":
		if id := m.getSelectedID(); id != "" {
			m.selectedID = id
			m.returnMode = ViewList
			m.initFormInputs()
			m.viewMode = ViewEdit
			return m, textinput.Blink
		}
	case "d":
		if id := m.getSelectedID(); id != "" {
			m.selectedID = id
			m.returnMode = ViewList
			m.viewMode = ViewConfirmDelete
		}
	case "g":
		if m.entityType == EntityDeals {
			m.returnMode = ViewList
			m.openGraph()
		}
	case "s":
		if m.entityType == EntityTasks {
			if id := m.getSelectedID(); id != "" {
				m.advanceTaskStatus(id)
			}
		}
	}

	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.searchQuery = ""
	case tea.KeyEnter:
		m.searching = false
	case tea.KeyBackspace:
		if r := []rune(m.searchQuery); len(r) > 0 {
			m.searchQuery = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.searchQuery += " "
	case tea.KeyRunes:
		m.searchQuery += string(msg.Runes)
	}
	m.selectedRow = 0
	return m, nil
}

func (m *Model) switchTab(to EntityType) {
	m.entityType = to
	m.selectedRow = 0
	m.searchQuery = ""
	m.searching = false
	m.statusMessage = ""
	m.err = nil
}

func (m Model) getSelectedID() string {
	ids := m.currentListing().ids
	if m.selectedRow < len(ids) {
		return ids[m.selectedRow]
	}
	return ""
}

var nextTaskStatus = map[models.TaskStatus]models.TaskStatus{
	models.TaskPending:    models.TaskInProgress,
	models.TaskInProgress: models.TaskCompleted,
	models.TaskCompleted:  models.TaskPending,
}

// advanceTaskStatus cycles pending, in progress, completed.
func (m *Model) advanceTaskStatus(id string) {
	t, ok := m.svc.Task(id)
	if !ok {
		return
	}
	next := nextTaskStatus[t.Status]
	_, err := m.svc.SetTaskStatus(id, next)
	if m.setResult("✓ "+t.Title+": "+m.locale().Label(next), err) {
		m.refreshNotifications()
	}
}
