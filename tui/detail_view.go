package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/models"
)

func (m Model) renderDetailView() string {
	var s strings.Builder
	loc := m.locale()

	s.WriteString(m.styles().title.Render(strings.ToUpper(loc.T(tabKeys[m.entityType]))))
	s.WriteString("\n\n")

	switch m.entityType {
	case EntityCustomers:
		s.WriteString(m.renderCustomerDetail())
	case EntityInteractions:
		s.WriteString(m.renderInteractionDetail())
	case EntityDeals:
		s.WriteString(m.renderDealDetail())
	case EntityTasks:
		s.WriteString(m.renderTaskDetail())
	}

	s.WriteString("\n")
	s.WriteString(m.renderStatus())
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) renderCustomerDetail() string {
	c, ok := m.svc.Customer(m.selectedID)
	if !ok {
		return "Error: customer not found"
	}
	loc := m.locale()

	var s strings.Builder
	s.WriteString(m.renderField(loc.T("name"), c.Name))
	s.WriteString(m.renderField(loc.T("phone"), c.Phone))
	s.WriteString(m.renderField(loc.T("email"), c.Email))
	s.WriteString(m.renderField(loc.T("customerType"), loc.Label(c.Type)))
	s.WriteString(m.renderField(loc.T("tags"), strings.Join(c.Tags, ", ")))
	s.WriteString(m.renderField(loc.T("createdAt"), loc.Date(c.CreatedAt)))
	if c.LastContact != nil {
		s.WriteString(m.renderField(loc.T("lastContact"), loc.DateTime(*c.LastContact)))
	}
	s.WriteString(m.renderField(loc.T("notes"), c.Notes))

	interactions := m.svc.Interactions(crm.InteractionFilter{CustomerID: c.ID})
	if len(interactions) > 0 {
		s.WriteString(fmt.Sprintf("\n%s (%d):\n", loc.T("interactions"), len(interactions)))
		for _, i := range interactions {
			s.WriteString(fmt.Sprintf("  • %s  %s  %s\n", loc.DateTime(i.Date), loc.Label(i.Type), loc.Label(i.Outcome)))
		}
	}

	deals := m.svc.Deals(crm.DealFilter{CustomerID: c.ID})
	if len(deals) > 0 {
		s.WriteString(fmt.Sprintf("\n%s (%d):\n", loc.T("deals"), len(deals)))
		for _, d := range deals {
			s.WriteString(fmt.Sprintf("  • %s  %s  %s\n", d.Title, loc.Money(d.Value), loc.Label(d.Status)))
		}
	}

	tasks := m.svc.Tasks(crm.TaskFilter{CustomerID: c.ID})
	if len(tasks) > 0 {
		s.WriteString(fmt.Sprintf("\n%s (%d):\n", loc.T("tasks"), len(tasks)))
		for _, t := range tasks {
			s.WriteString(fmt.Sprintf("  • %s  %s  %s\n", t.Title, loc.DateTime(t.DueDate), loc.Label(t.Status)))
		}
	}

	return s.String()
}

func (m Model) renderInteractionDetail() string {
	i, ok := m.svc.Interaction(m.selectedID)
	if !ok {
		return "Error: interaction not found"
	}
	loc := m.locale()

	var s strings.Builder
	s.WriteString(m.renderField(loc.T("customer"), m.customerLabel(i.CustomerID)))
	s.WriteString(m.renderField(loc.T("interactionType"), loc.Label(i.Type)))
	s.WriteString(m.renderField(loc.T("dateTime"), loc.DateTime(i.Date)))
	if i.Duration != nil {
		s.WriteString(m.renderField(loc.T("duration"), fmt.Sprintf("%d %s", *i.Duration, loc.T("minutes"))))
	}
	s.WriteString(m.renderField(loc.T("outcome"), loc.Label(i.Outcome)))
	s.WriteString(m.renderField(loc.T("notes"), i.Notes))
	s.WriteString(m.renderField(loc.T("nextAction"), i.NextAction))
	return s.String()
}

func (m Model) renderDealDetail() string {
	d, ok := m.svc.Deal(m.selectedID)
	if !ok {
		return "Error: deal not found"
	}
	loc := m.locale()

	var s strings.Builder
	s.WriteString(m.renderField(loc.T("dealName"), d.Title))
	s.WriteString(m.renderField(loc.T("customer"), m.customerLabel(d.CustomerID)))
	s.WriteString(m.renderField(loc.T("dealValue"), loc.Money(d.Value)))
	s.WriteString(m.renderField(loc.T("successProbability"), strconv.FormatFloat(d.Probability, 'f', -1, 64)+"%"))
	s.WriteString(m.renderField(loc.T("expectedValue"), loc.Money(d.WeightedValue())))
	s.WriteString(m.renderField(loc.T("dealStatus"), loc.Label(d.Status)))
	s.WriteString(m.renderField(loc.T("expectedCloseDate"), loc.Date(d.ExpectedCloseDate)))
	if d.Status == models.DealRejected {
		s.WriteString(m.renderField(loc.T("rejectionReason"), d.RejectionReason))
	}
	s.WriteString(m.renderField(loc.T("createdAt"), loc.Date(d.CreatedAt)))
	s.WriteString(m.renderField(loc.T("notes"), d.Notes))
	return s.String()
}

func (m Model) renderTaskDetail() string {
	t, ok := m.svc.Task(m.selectedID)
	if !ok {
		return "Error: task not found"
	}
	loc := m.locale()

	var s strings.Builder
	s.WriteString(m.renderField(loc.T("taskTitle"), t.Title))
	s.WriteString(m.renderField(loc.T("taskDescription"), t.Description))
	s.WriteString(m.renderField(loc.T("customer"), m.customerLabel(t.CustomerID)))
	due := loc.DateTime(t.DueDate)
	if t.IsOverdue(m.svc.Now()) {
		due += "  " + m.styles().warning.Render(loc.T("overdue"))
	}
	s.WriteString(m.renderField(loc.T("dueDate"), due))
	s.WriteString(m.renderField(loc.T("priority"), loc.Label(t.Priority)))
	s.WriteString(m.renderField(loc.T("status"), loc.Label(t.Status)))
	s.WriteString(m.renderField(loc.T("createdAt"), loc.Date(t.CreatedAt)))
	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		return ""
	}
	st := m.styles()
	return st.fieldLabel.Render(label+":") + " " + st.fieldValue.Render(value) + "\n"
}

func (m Model) renderDetailHelp() string {
	help := []string{"Esc: Back", "e: Edit", "d: Delete"}
	switch m.entityType {
	case EntityDeals:
		help = append(help, "g: Pipeline graph")
	case EntityTasks:
		help = append(help, "s: Next status")
	}
	help = append(help, "q: Quit")
	return m.styles().help.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.selectedID = ""
	case "e":
		m.returnMode = ViewDetail
		m.initFormInputs()
		m.viewMode = ViewEdit
		return m, textinput.Blink
	case "d":
		m.returnMode = ViewDetail
		m.viewMode = ViewConfirmDelete
	case "g":
		if m.entityType == EntityDeals {
			m.returnMode = ViewDetail
			m.openGraph()
		}
	case "s":
		if m.entityType == EntityTasks {
			m.advanceTaskStatus(m.selectedID)
		}
	}

	return m, nil
}

