package tui

import (
	"fmt"
	"strings"
)

const maxNotifications = 3

// renderNotifications is the due-soon banner shown above every list. It is
// empty when nothing is due inside the window.
func (m Model) renderNotifications() string {
	if len(m.dueSoon) == 0 {
		return ""
	}
	loc := m.locale()
	now := m.svc.Now()

	var s strings.Builder
	s.WriteString(fmt.Sprintf("🔔 %s (%d)", loc.T("taskNotifications"), len(m.dueSoon)))
	for i, t := range m.dueSoon {
		if i == maxNotifications {
			s.WriteString(fmt.Sprintf("\n   … +%d", len(m.dueSoon)-maxNotifications))
			break
		}
		minutes := int(t.DueDate.Sub(now).Minutes())
		s.WriteString(fmt.Sprintf("\n   %s · %s · %s (%dm)",
			t.Title, m.customerLabel(t.CustomerID), loc.DateTime(t.DueDate), minutes))
	}
	return m.styles().notifyBox.Render(s.String())
}
