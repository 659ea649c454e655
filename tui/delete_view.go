// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Asks before deleting customers, interactions, deals and tasks
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var confirmDeleteKeys = map[EntityType]string{
	EntityCustomers:    "confirmDeleteCustomer",
	EntityInteractions: "confirmDeleteInteraction",
	EntityDeals:        "confirmDeleteDeal",
	EntityTasks:        "confirmDeleteTask",
}

func (m Model) renderConfirmDeleteView() string {
	st := m.styles()
	loc := m.locale()

	entityName := m.selectedName()
	if entityName == "" {
		return fmt.Sprintf("Error: record %s not found", m.selectedID)
	}

	title := st.warning.Render("⚠  DELETE CONFIRMATION  ⚠")
	message := loc.T(confirmDeleteKeys[m.entityType])
	entityInfo := fmt.Sprintf("\n%s\n", entityName)
	warning := "\nThis action cannot be undone!"

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		st.confirmBtn.Render("Yes, Delete (y)"),
		st.cancelBtn.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		entityInfo,
		warning,
		"",
		buttons,
	)

	box := st.confirmBox.Render(content)

	// Center the box on screen
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}

// selectedName is the human label of the record awaiting deletion.
func (m Model) selectedName() string {
	loc := m.locale()
	switch m.entityType {
	case EntityCustomers:
		if c, ok := m.svc.Customer(m.selectedID); ok {
			return c.Name
		}
	case EntityInteractions:
		if i, ok := m.svc.Interaction(m.selectedID); ok {
			return fmt.Sprintf("%s · %s · %s", m.customerLabel(i.CustomerID), loc.Label(i.Type), loc.DateTime(i.Date))
		}
	case EntityDeals:
		if d, ok := m.svc.Deal(m.selectedID); ok {
			return d.Title
		}
	case EntityTasks:
		if t, ok := m.svc.Task(m.selectedID); ok {
			return t.Title
		}
	}
	return ""
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		name := m.selectedName()
		if m.setResult("✓ Deleted: "+name, m.performDelete()) {
			if m.entityType == EntityTasks {
				m.refreshNotifications()
			}
			m.selectedID = ""
			m.selectedRow = 0
		}
		m.viewMode = ViewList
	case "n", "N", "esc":
		m.viewMode = m.returnMode
	}

	return m, nil
}

func (m Model) performDelete() error {
	switch m.entityType {
	case EntityCustomers:
		return m.svc.DeleteCustomer(m.selectedID)
	case EntityInteractions:
		return m.svc.DeleteInteraction(m.selectedID)
	case EntityDeals:
		return m.svc.DeleteDeal(m.selectedID)
	case EntityTasks:
		return m.svc.DeleteTask(m.selectedID)
	default:
		return fmt.Errorf("unknown entity type")
	}
}
