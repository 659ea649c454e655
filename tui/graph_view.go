package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/amil/viz"
)

func (m Model) renderGraphView() string {
	var s strings.Builder
	st := m.styles()

	s.WriteString(st.title.Render("PIPELINE GRAPH"))
	s.WriteString("\n\n")

	switch {
	case m.err != nil:
		s.WriteString(st.warning.Render("Error: " + m.err.Error()))
	case m.graphDOT == "":
		s.WriteString("Generating graph...\n")
	default:
		s.WriteString(st.fieldValue.Render(m.graphDOT))
	}

	s.WriteString("\n\n")
	s.WriteString(m.renderGraphHelp())

	return s.String()
}

func (m Model) renderGraphHelp() string {
	help := []string{
		"Esc: Back",
		"q: Quit",
	}
	return m.styles().help.Render(strings.Join(help, " • "))
}

func (m Model) handleGraphKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = m.returnMode
		m.graphDOT = ""
		m.err = nil
	}

	return m, nil
}

// openGraph renders the pipeline as DOT source and switches to the graph view.
func (m *Model) openGraph() {
	m.viewMode = ViewGraph
	m.graphDOT = ""
	m.err = nil

	snap := m.svc.Snapshot()
	data, err := viz.PipelineGraph(context.Background(), snap, m.locale(), viz.FormatDOT)
	if err != nil {
		m.err = err
		return
	}
	m.graphDOT = string(data)
}
