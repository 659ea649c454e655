// ABOUTME: Tests for the bubbletea model
// ABOUTME: Drives key presses through Update and checks state and rendered views
package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/amil/crm"
	"github.com/harperreed/amil/models"
	"github.com/harperreed/amil/store"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func setupTestService(t *testing.T) *crm.Service {
	t.Helper()
	kv, err := store.OpenMemory()
	require.NoError(t, err)
	svc, err := crm.Open(kv, crm.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	settings := svc.Settings()
	settings.Language = models.LanguageEnglish
	_, err = svc.SaveSettings(settings)
	require.NoError(t, err)
	return svc
}

func addCustomer(t *testing.T, svc *crm.Service, name string) models.Customer {
	t.Helper()
	c, err := svc.CreateCustomer(models.Customer{Name: name, Phone: "0100", Type: models.CustomerPotential})
	require.NoError(t, err)
	return c
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestTabsWrapAround(t *testing.T) {
	m := NewModel(setupTestService(t), 0, 0)

	m = press(t, m, "shift+tab")
	assert.Equal(t, EntitySettings, m.entityType)

	m = press(t, m, "tab")
	assert.Equal(t, EntityCustomers, m.entityType)

	for i := 0; i < entityCount; i++ {
		m = press(t, m, "tab")
	}
	assert.Equal(t, EntityCustomers, m.entityType)
}

func TestListViewShowsCustomers(t *testing.T) {
	svc := setupTestService(t)
	addCustomer(t, svc, "Sara")

	view := NewModel(svc, 0, 0).View()
	assert.Contains(t, view, "Customers")
	assert.Contains(t, view, "Sara")
	assert.Contains(t, view, "Potential")
}

func TestEmptyListMessage(t *testing.T) {
	m := NewModel(setupTestService(t), 0, 0)
	m = press(t, m, "tab", "tab")
	assert.Equal(t, EntityDeals, m.entityType)
	assert.Contains(t, m.View(), "No deals recorded")
}

func TestSearchFiltersRows(t *testing.T) {
	svc := setupTestService(t)
	addCustomer(t, svc, "Sara")
	addCustomer(t, svc, "Omar")

	m := NewModel(svc, 0, 0)
	m = press(t, m, "/", "o", "m", "enter")
	assert.False(t, m.searching)
	assert.Equal(t, "om", m.searchQuery)

	l := m.currentListing()
	require.Len(t, l.rows, 1)
	assert.Equal(t, "Omar", l.rows[0][0])

	m = press(t, m, "/", "esc")
	assert.Empty(t, m.searchQuery)
	assert.Len(t, m.currentListing().rows, 2)
}

func TestCreateCustomerThroughForm(t *testing.T) {
	svc := setupTestService(t)
	m := NewModel(svc, 0, 0)

	m = press(t, m, "n")
	require.Equal(t, ViewEdit, m.viewMode)
	require.Len(t, m.formInputs, 6)

	m = press(t, m, "L", "a", "i", "l", "a")
	m.formInputs[1].SetValue("0100 555")
	m.formInputs[3].SetValue("دائم")
	m = press(t, m, "enter")

	require.NoError(t, m.err)
	assert.Equal(t, ViewList, m.viewMode)
	customers := svc.Customers(crm.CustomerFilter{})
	require.Len(t, customers, 1)
	assert.Equal(t, "Laila", customers[0].Name)
	assert.Equal(t, models.CustomerPermanent, customers[0].Type)
	assert.Contains(t, m.statusMessage, "Created")
}

func TestInvalidFormStaysOpen(t *testing.T) {
	svc := setupTestService(t)
	m := NewModel(svc, 0, 0)

	m = press(t, m, "n", "enter")
	assert.Equal(t, ViewEdit, m.viewMode)
	assert.ErrorIs(t, m.err, crm.ErrValidation)
	assert.Contains(t, m.View(), "Error:")
	assert.Empty(t, svc.Customers(crm.CustomerFilter{}))

	m = press(t, m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
	assert.NoError(t, m.err)
}

func TestEditPrefillsAndUpdates(t *testing.T) {
	svc := setupTestService(t)
	c := addCustomer(t, svc, "Sara")

	m := NewModel(svc, 0, 0)
	m = press(t, m, "e")
	require.Equal(t, ViewEdit, m.viewMode)
	assert.Equal(t, c.ID, m.selectedID)
	assert.Equal(t, "Sara", m.formInputs[0].Value())
	assert.Equal(t, "potential", m.formInputs[3].Value())

	m.formInputs[5].SetValue("prefers mornings")
	m = press(t, m, "enter")
	require.NoError(t, m.err)

	got, ok := svc.Customer(c.ID)
	require.True(t, ok)
	assert.Equal(t, "prefers mornings", got.Notes)
	assert.Equal(t, c.CreatedAt, got.CreatedAt)
}

func TestDealFormResolvesCustomerByName(t *testing.T) {
	svc := setupTestService(t)
	c := addCustomer(t, svc, "Sara")

	m := NewModel(svc, 0, 0)
	m = press(t, m, "tab", "tab", "n")
	require.Len(t, m.formInputs, 8)
	m.formInputs[0].SetValue("Website")
	m.formInputs[1].SetValue("sara")
	m.formInputs[2].SetValue("1000")
	m = press(t, m, "enter")
	require.NoError(t, m.err)

	deals := svc.Deals(crm.DealFilter{})
	require.Len(t, deals, 1)
	assert.Equal(t, c.ID, deals[0].CustomerID)
	assert.Equal(t, float64(models.DefaultProbability), deals[0].Probability)
	assert.Equal(t, models.DealOngoing, deals[0].Status)
}

func TestResolveCustomerAmbiguous(t *testing.T) {
	svc := setupTestService(t)
	addCustomer(t, svc, "Sara")
	addCustomer(t, svc, "sara")

	m := NewModel(svc, 0, 0)
	_, err := m.resolveCustomer("Sara", true)
	assert.ErrorContains(t, err, "2 customers")

	_, err = m.resolveCustomer("", true)
	assert.Error(t, err)

	id, err := m.resolveCustomer("", false)
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestDeleteConfirmation(t *testing.T) {
	svc := setupTestService(t)
	addCustomer(t, svc, "Sara")
	m := NewModel(svc, 0, 0)

	m = press(t, m, "d")
	require.Equal(t, ViewConfirmDelete, m.viewMode)
	assert.Contains(t, m.View(), "Are you sure you want to delete this customer?")

	m = press(t, m, "n")
	assert.Equal(t, ViewList, m.viewMode)
	assert.Len(t, svc.Customers(crm.CustomerFilter{}), 1)

	m = press(t, m, "d", "y")
	assert.Equal(t, ViewList, m.viewMode)
	assert.Empty(t, svc.Customers(crm.CustomerFilter{}))
	assert.Contains(t, m.statusMessage, "Deleted: Sara")
}

func TestDetailViewAndBack(t *testing.T) {
	svc := setupTestService(t)
	c := addCustomer(t, svc, "Sara")
	_, err := svc.CreateInteraction(models.Interaction{
		CustomerID: c.ID,
		Type:       models.InteractionMeeting,
		Date:       testNow.Add(-time.Hour),
		Outcome:    models.OutcomePositive,
	})
	require.NoError(t, err)

	m := NewModel(svc, 0, 0)
	m = press(t, m, "enter")
	require.Equal(t, ViewDetail, m.viewMode)

	view := m.View()
	assert.Contains(t, view, "Sara")
	assert.Contains(t, view, "Interactions (1)")
	assert.Contains(t, view, "Meeting")

	m = press(t, m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
	assert.Empty(t, m.selectedID)
}

func TestTaskStatusCycles(t *testing.T) {
	svc := setupTestService(t)
	task, err := svc.CreateTask(models.Task{Title: "Call back", DueDate: testNow.Add(2 * time.Hour)})
	require.NoError(t, err)

	m := NewModel(svc, 0, 0)
	m = press(t, m, "tab", "tab", "tab")
	require.Equal(t, EntityTasks, m.entityType)

	m = press(t, m, "s")
	got, _ := svc.Task(task.ID)
	assert.Equal(t, models.TaskInProgress, got.Status)

	m = press(t, m, "s", "s")
	got, _ = svc.Task(task.ID)
	assert.Equal(t, models.TaskPending, got.Status)
	assert.Contains(t, m.statusMessage, "Call back")
}

func TestNotificationsBanner(t *testing.T) {
	svc := setupTestService(t)
	_, err := svc.CreateTask(models.Task{Title: "Call back", DueDate: testNow.Add(30 * time.Minute)})
	require.NoError(t, err)
	_, err = svc.CreateTask(models.Task{Title: "Later", DueDate: testNow.Add(48 * time.Hour)})
	require.NoError(t, err)

	m := NewModel(svc, time.Minute, time.Hour)
	msg := m.Init()()
	next, cmd := m.Update(msg)
	m = next.(Model)
	assert.NotNil(t, cmd)

	require.Len(t, m.dueSoon, 1)
	view := m.View()
	assert.Contains(t, view, "Task Notifications (1)")
	assert.Contains(t, view, "Call back")
	assert.NotContains(t, view, "Later ·")
}

func TestNotificationsRefreshAfterCompletion(t *testing.T) {
	svc := setupTestService(t)
	_, err := svc.CreateTask(models.Task{Title: "Call back", DueDate: testNow.Add(30 * time.Minute)})
	require.NoError(t, err)

	m := NewModel(svc, 0, 0)
	next, _ := m.Update(m.Init()())
	m = next.(Model)
	require.Len(t, m.dueSoon, 1)

	m = press(t, m, "tab", "tab", "tab", "s", "s")
	assert.Empty(t, m.dueSoon)
}

func TestSettingsKeys(t *testing.T) {
	svc := setupTestService(t)
	m := NewModel(svc, 0, 0)
	m = press(t, m, "shift+tab")
	require.Equal(t, EntitySettings, m.entityType)

	m = press(t, m, "c")
	assert.Equal(t, "USD", svc.Settings().Currency)

	m = press(t, m, "t", "m")
	assert.Equal(t, "green", svc.Settings().Theme)
	assert.True(t, svc.Settings().DarkMode)
	assert.Contains(t, m.View(), "Night Green")

	m = press(t, m, "l")
	assert.Equal(t, models.LanguageArabic, svc.Settings().Language)
	assert.Contains(t, m.View(), "الإعدادات")
}

func TestReportTabShiftsPeriod(t *testing.T) {
	m := NewModel(setupTestService(t), 0, 0)
	m = press(t, m, "tab", "tab", "tab", "tab")
	require.Equal(t, EntityReports, m.entityType)
	assert.NotEmpty(t, m.View())

	from := m.reportFrom
	m = press(t, m, "[")
	assert.Equal(t, from.AddDate(0, -1, 0), m.reportFrom)
	m = press(t, m, "]")
	assert.Equal(t, from, m.reportFrom)
}

func TestPipelineGraphView(t *testing.T) {
	svc := setupTestService(t)
	c := addCustomer(t, svc, "Sara")
	_, err := svc.CreateDeal(models.Deal{
		Title:             "Website",
		CustomerID:        c.ID,
		Value:             1000,
		Probability:       50,
		ExpectedCloseDate: testNow.AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	m := NewModel(svc, 0, 0)
	m = press(t, m, "tab", "tab", "g")
	require.Equal(t, ViewGraph, m.viewMode)
	require.NoError(t, m.err)
	assert.Contains(t, m.graphDOT, "customer_"+c.ID)

	m = press(t, m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
	assert.Empty(t, m.graphDOT)
}

func TestQuitIgnoredWhileEditing(t *testing.T) {
	m := NewModel(setupTestService(t), 0, 0)
	m = press(t, m, "n", "q")
	assert.Equal(t, ViewEdit, m.viewMode)
	assert.Equal(t, "q", m.formInputs[0].Value())

	m = press(t, m, "esc")
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}
