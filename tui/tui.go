// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Provides interactive full-screen interface for CRM operations
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/i18n"
	"github.com/harperreed/amil/models"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewEdit
	ViewGraph
	ViewConfirmDelete
)

// EntityType is the active tab
type EntityType int

const (
	EntityCustomers EntityType = iota
	EntityInteractions
	EntityDeals
	EntityTasks
	EntityReports
	EntitySettings
)

const entityCount = 6

var tabKeys = [entityCount]string{"customers", "interactions", "deals", "tasks", "reports", "settings"}

// hasRecords reports whether the tab lists records that can be opened,
// edited and deleted.
func (e EntityType) hasRecords() bool {
	return e <= EntityTasks
}

// Model is the main bubbletea model
type Model struct {
	svc        *crm.Service
	viewMode   ViewMode
	entityType EntityType

	// List view state
	selectedRow int
	searchQuery string
	searching   bool

	// Detail view state
	selectedID string
	returnMode ViewMode

	// Edit view state
	formInputs []textinput.Model
	formLabels []string
	focusIndex int

	// Graph view state
	graphDOT string

	// Report period
	reportFrom time.Time
	reportTo   time.Time

	// Due-soon notifications
	notifier       *crm.Notifier
	notifyInterval time.Duration
	dueSoon        []models.Task

	statusMessage string
	width         int
	height        int
	err           error
}

type notifyMsg struct {
	tasks []models.Task
}

// NewModel creates a new TUI model. Non-positive interval or window fall
// back to the notifier defaults.
func NewModel(svc *crm.Service, interval, window time.Duration) Model {
	if interval <= 0 {
		interval = crm.DefaultNotifyInterval
	}
	n := crm.ForService(svc, nil)
	n.Interval = interval
	if window > 0 {
		n.Window = window
	}

	now := svc.Now()
	return Model{
		svc:            svc,
		viewMode:       ViewList,
		entityType:     EntityCustomers,
		reportFrom:     crm.StartOfDay(now.AddDate(0, -1, 0)),
		reportTo:       crm.EndOfDay(now),
		notifier:       n,
		notifyInterval: interval,
		width:          80,
		height:         24,
	}
}

// Run starts the full-screen program and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, svc *crm.Service, interval, window time.Duration) error {
	p := tea.NewProgram(NewModel(svc, interval, window), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	n := m.notifier
	return func() tea.Msg {
		return notifyMsg{tasks: n.Check()}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case notifyMsg:
		m.dueSoon = msg.tasks
		return m, m.scheduleCheck()
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewEdit:
		return m.renderEditView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

// scheduleCheck arms the next due-soon check. Only notifyMsg calls it, so
// exactly one tick chain is alive at a time.
func (m Model) scheduleCheck() tea.Cmd {
	n := m.notifier
	return tea.Tick(m.notifyInterval, func(time.Time) tea.Msg {
		return notifyMsg{tasks: n.Check()}
	})
}

// refreshNotifications recomputes the due-soon set after a task change.
func (m *Model) refreshNotifications() {
	m.dueSoon = m.notifier.Check()
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if msg.String() == "q" && m.viewMode != ViewEdit && !m.searching {
		return m, tea.Quit
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewEdit:
		return m.handleEditKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

func (m Model) locale() i18n.Locale {
	return i18n.LocaleFor(m.svc.Settings())
}

func (m Model) styles() styles {
	return newStyles(m.svc.Settings())
}

// setResult records the outcome of a mutation. A persist warning still
// counts as success; the change is live in memory.
func (m *Model) setResult(done string, err error) bool {
	switch {
	case err == nil:
		m.err = nil
		m.statusMessage = done
		return true
	case crm.IsWarning(err):
		m.err = nil
		m.statusMessage = done + " (warning: " + err.Error() + ")"
		return true
	default:
		m.err = err
		m.statusMessage = ""
		return false
	}
}

// customerLabel resolves a customer id for display. Tasks without a
// customer read as general tasks; dangling ids read as unknown.
func (m Model) customerLabel(id string) string {
	loc := m.locale()
	if id == "" {
		return loc.T("generalTask")
	}
	if name, ok := m.svc.CustomerName(id); ok {
		return name
	}
	return loc.T("unknownCustomer")
}
