package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/amil/models"
)

const (
	formTimeLayout = "2006-01-02 15:04"
	formDateLayout = "2006-01-02"
)

type formField struct {
	label       string
	placeholder string
	value       string
	limit       int
}

func (m Model) renderEditView() string {
	var s strings.Builder
	st := m.styles()
	loc := m.locale()

	verb := "NEW"
	if m.selectedID != "" {
		verb = "EDIT"
	}
	s.WriteString(st.title.Render(verb + " · " + loc.T(tabKeys[m.entityType])))
	s.WriteString("\n\n")

	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(st.fieldLabel.Render(m.formLabels[i]))
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if m.err != nil {
		s.WriteString(st.warning.Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	}

	s.WriteString(m.renderEditHelp())

	return s.String()
}

func (m Model) renderEditHelp() string {
	help := []string{
		"Tab/↓: Next field",
		"Shift+Tab/↑: Previous field",
		"Enter: Save",
		"Esc: Cancel",
	}
	return m.styles().help.Render(strings.Join(help, " • "))
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = m.returnMode
		m.err = nil
		if m.returnMode == ViewList {
			m.selectedID = ""
		}
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		return m, m.updateFormFocus()
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex + len(m.formInputs) - 1) % len(m.formInputs)
		return m, m.updateFormFocus()
	case "enter":
		if m.saveEntity() {
			m.viewMode = m.returnMode
			if m.returnMode == ViewList {
				m.selectedID = ""
			}
		}
		return m, nil
	}

	// Update current input
	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

// initFormInputs builds the form for the active tab, prefilled from the
// selected record when editing.
func (m *Model) initFormInputs() {
	var fields []formField
	switch m.entityType {
	case EntityCustomers:
		fields = m.customerForm()
	case EntityInteractions:
		fields = m.interactionForm()
	case EntityDeals:
		fields = m.dealForm()
	case EntityTasks:
		fields = m.taskForm()
	}

	m.formInputs = make([]textinput.Model, len(fields))
	m.formLabels = make([]string, len(fields))
	for i, f := range fields {
		input := textinput.New()
		input.Placeholder = f.placeholder
		input.CharLimit = f.limit
		if input.CharLimit == 0 {
			input.CharLimit = 100
		}
		input.SetValue(f.value)
		m.formInputs[i] = input
		m.formLabels[i] = f.label
	}

	m.err = nil
	m.focusIndex = 0
	m.updateFormFocus()
}

func (m *Model) updateFormFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.formInputs {
		if i == m.focusIndex {
			cmd = m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
	return cmd
}

func (m Model) formValue(i int) string {
	return strings.TrimSpace(m.formInputs[i].Value())
}

func (m Model) customerForm() []formField {
	loc := m.locale()
	c := models.Customer{Type: models.CustomerNew}
	if m.selectedID != "" {
		c, _ = m.svc.Customer(m.selectedID)
	}
	return []formField{
		{label: loc.T("name"), placeholder: "Sara Ahmed", value: c.Name},
		{label: loc.T("phone"), placeholder: "+20 100 000 0000", value: c.Phone, limit: 30},
		{label: loc.T("email"), placeholder: "sara@example.com", value: c.Email},
		{label: loc.T("customerType"), placeholder: "new / potential / permanent", value: string(c.Type), limit: 20},
		{label: loc.T("tags"), placeholder: "vip, cairo", value: strings.Join(c.Tags, ", "), limit: 200},
		{label: loc.T("notes"), value: c.Notes, limit: 500},
	}
}

func (m Model) interactionForm() []formField {
	loc := m.locale()
	i := models.Interaction{
		Type:    models.InteractionCall,
		Date:    m.svc.Now(),
		Outcome: models.OutcomeNeutral,
	}
	if m.selectedID != "" {
		i, _ = m.svc.Interaction(m.selectedID)
	}
	duration := ""
	if i.Duration != nil {
		duration = strconv.Itoa(*i.Duration)
	}
	customer := ""
	if name, ok := m.svc.CustomerName(i.CustomerID); ok {
		customer = name
	}
	return []formField{
		{label: loc.T("customer"), placeholder: "name or id", value: customer},
		{label: loc.T("interactionType"), placeholder: "call / meeting / email / message", value: string(i.Type), limit: 20},
		{label: loc.T("dateTime"), placeholder: formTimeLayout, value: i.Date.Local().Format(formTimeLayout), limit: 25},
		{label: loc.T("duration"), placeholder: loc.T("minutes"), value: duration, limit: 6},
		{label: loc.T("outcome"), placeholder: "positive / negative / neutral", value: string(i.Outcome), limit: 20},
		{label: loc.T("notes"), value: i.Notes, limit: 500},
		{label: loc.T("nextAction"), value: i.NextAction, limit: 200},
	}
}

func (m Model) dealForm() []formField {
	loc := m.locale()
	d := models.Deal{
		Status:            models.DealOngoing,
		Probability:       models.DefaultProbability,
		ExpectedCloseDate: m.svc.Now().AddDate(0, 1, 0),
	}
	if m.selectedID != "" {
		d, _ = m.svc.Deal(m.selectedID)
	}
	customer := ""
	if name, ok := m.svc.CustomerName(d.CustomerID); ok {
		customer = name
	}
	value := ""
	if d.Value != 0 {
		value = strconv.FormatFloat(d.Value, 'f', -1, 64)
	}
	return []formField{
		{label: loc.T("dealName"), value: d.Title},
		{label: loc.T("customer"), placeholder: "name or id", value: customer},
		{label: loc.T("dealValue"), placeholder: "0", value: value, limit: 20},
		{label: loc.T("successProbability"), placeholder: "0-100", value: strconv.FormatFloat(d.Probability, 'f', -1, 64), limit: 5},
		{label: loc.T("dealStatus"), placeholder: "ongoing / closed / rejected", value: string(d.Status), limit: 20},
		{label: loc.T("expectedCloseDate"), placeholder: formDateLayout, value: d.ExpectedCloseDate.Local().Format(formDateLayout), limit: 25},
		{label: loc.T("rejectionReason"), placeholder: strings.Join(m.svc.RejectionReasons(), " / "), value: d.RejectionReason, limit: 200},
		{label: loc.T("notes"), value: d.Notes, limit: 500},
	}
}

func (m Model) taskForm() []formField {
	loc := m.locale()
	t := models.Task{
		Priority: models.PriorityMedium,
		Status:   models.TaskPending,
		DueDate:  m.svc.Now().Add(24 * time.Hour),
	}
	if m.selectedID != "" {
		t, _ = m.svc.Task(m.selectedID)
	}
	customer := ""
	if name, ok := m.svc.CustomerName(t.CustomerID); ok {
		customer = name
	}
	return []formField{
		{label: loc.T("taskTitle"), value: t.Title},
		{label: loc.T("taskDescription"), value: t.Description, limit: 500},
		{label: loc.T("customer"), placeholder: loc.T("generalTask"), value: customer},
		{label: loc.T("dueDate"), placeholder: formTimeLayout, value: t.DueDate.Local().Format(formTimeLayout), limit: 25},
		{label: loc.T("priority"), placeholder: "high / medium / low", value: string(t.Priority), limit: 20},
		{label: loc.T("status"), placeholder: "pending / inProgress / completed", value: string(t.Status), limit: 20},
	}
}

// saveEntity validates the form and creates or updates the record. It
// reports whether the form can close.
func (m *Model) saveEntity() bool {
	var (
		label string
		err   error
	)
	switch m.entityType {
	case EntityCustomers:
		label, err = m.saveCustomer()
	case EntityInteractions:
		label, err = m.saveInteraction()
	case EntityDeals:
		label, err = m.saveDeal()
	case EntityTasks:
		label, err = m.saveTask()
	}

	verb := "Created"
	if m.selectedID != "" {
		verb = "Updated"
	}
	ok := m.setResult(fmt.Sprintf("✓ %s: %s", verb, label), err)
	if ok && m.entityType == EntityTasks {
		m.refreshNotifications()
	}
	return ok
}

func (m *Model) saveCustomer() (string, error) {
	typ, err := parseOptional(m.formValue(3), models.ParseCustomerType)
	if err != nil {
		return "", err
	}
	draft := models.Customer{
		Name:  m.formValue(0),
		Phone: m.formValue(1),
		Email: m.formValue(2),
		Type:  typ,
		Tags:  splitTags(m.formValue(4)),
		Notes: m.formValue(5),
	}

	if m.selectedID == "" {
		c, err := m.svc.CreateCustomer(draft)
		return c.Name, err
	}
	c, err := m.svc.UpdateCustomer(m.selectedID, draft)
	return c.Name, err
}

func (m *Model) saveInteraction() (string, error) {
	customerID, err := m.resolveCustomer(m.formValue(0), true)
	if err != nil {
		return "", err
	}
	typ, err := parseOptional(m.formValue(1), models.ParseInteractionType)
	if err != nil {
		return "", err
	}
	date, err := models.ParseTime(m.formValue(2))
	if err != nil {
		return "", err
	}
	outcome, err := parseOptional(m.formValue(4), models.ParseOutcome)
	if err != nil {
		return "", err
	}
	draft := models.Interaction{
		CustomerID: customerID,
		Type:       typ,
		Date:       date,
		Outcome:    outcome,
		Notes:      m.formValue(5),
		NextAction: m.formValue(6),
	}
	if v := m.formValue(3); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return "", fmt.Errorf("duration must be whole minutes: %q", v)
		}
		draft.Duration = &minutes
	}

	label := m.customerLabel(customerID)
	if m.selectedID == "" {
		_, err = m.svc.CreateInteraction(draft)
		return label, err
	}
	_, err = m.svc.UpdateInteraction(m.selectedID, draft)
	return label, err
}

func (m *Model) saveDeal() (string, error) {
	customerID, err := m.resolveCustomer(m.formValue(1), true)
	if err != nil {
		return "", err
	}
	value, err := parseNumber("value", m.formValue(2))
	if err != nil {
		return "", err
	}
	probability, err := parseNumber("probability", m.formValue(3))
	if err != nil {
		return "", err
	}
	status, err := parseOptional(m.formValue(4), models.ParseDealStatus)
	if err != nil {
		return "", err
	}
	closeDate, err := models.ParseTime(m.formValue(5))
	if err != nil {
		return "", err
	}
	draft := models.Deal{
		Title:             m.formValue(0),
		CustomerID:        customerID,
		Value:             value,
		Probability:       probability,
		Status:            status,
		ExpectedCloseDate: closeDate,
		RejectionReason:   m.formValue(6),
		Notes:             m.formValue(7),
	}

	if m.selectedID == "" {
		d, err := m.svc.CreateDeal(draft)
		return d.Title, err
	}
	d, err := m.svc.UpdateDeal(m.selectedID, draft)
	return d.Title, err
}

func (m *Model) saveTask() (string, error) {
	customerID, err := m.resolveCustomer(m.formValue(2), false)
	if err != nil {
		return "", err
	}
	due, err := models.ParseTime(m.formValue(3))
	if err != nil {
		return "", err
	}
	priority, err := parseOptional(m.formValue(4), models.ParsePriority)
	if err != nil {
		return "", err
	}
	status, err := parseOptional(m.formValue(5), models.ParseTaskStatus)
	if err != nil {
		return "", err
	}
	draft := models.Task{
		Title:       m.formValue(0),
		Description: m.formValue(1),
		CustomerID:  customerID,
		DueDate:     due,
		Priority:    priority,
		Status:      status,
	}

	if m.selectedID == "" {
		t, err := m.svc.CreateTask(draft)
		return t.Title, err
	}
	t, err := m.svc.UpdateTask(m.selectedID, draft)
	return t.Title, err
}

// resolveCustomer maps a form entry to a customer id. An exact id wins,
// then a unique case-insensitive name match.
func (m Model) resolveCustomer(entry string, required bool) (string, error) {
	if entry == "" {
		if required {
			return "", fmt.Errorf("%s is required", strings.ToLower(m.locale().T("customer")))
		}
		return "", nil
	}
	return m.svc.ResolveCustomer(entry)
}

// parseOptional leaves an empty enum field for the record defaults.
func parseOptional[T ~string](v string, parse func(string) (T, error)) (T, error) {
	if v == "" {
		var zero T
		return zero, nil
	}
	return parse(v)
}

func parseNumber(field, v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %q", field, v)
	}
	return n, nil
}

func splitTags(v string) []string {
	var tags []string
	for _, t := range strings.Split(v, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
