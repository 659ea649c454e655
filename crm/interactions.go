// ABOUTME: Interaction log operations and filters
// ABOUTME: Logging, editing or removing an interaction refreshes the customer's last contact
package crm

import (
	"time"

	"github.com/harperreed/amil/models"
	"github.com/harperreed/amil/store"
)

// InteractionFilter matches on customer, type, outcome and an inclusive day range.
type InteractionFilter struct {
	CustomerID string
	Type       models.InteractionType
	Outcome    models.Outcome
	Range      DayRange
}

func (f InteractionFilter) Match(i *models.Interaction) bool {
	if f.CustomerID != "" && i.CustomerID != f.CustomerID {
		return false
	}
	if f.Type != "" && i.Type != f.Type {
		return false
	}
	if f.Outcome != "" && i.Outcome != f.Outcome {
		return false
	}
	return f.Range.Contains(i.Date)
}

func (s *Service) Interactions(f InteractionFilter) []models.Interaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interactions.List(f.Match)
}

func (s *Service) Interaction(id string) (models.Interaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interactions.Get(id)
}

func (s *Service) CreateInteraction(draft models.Interaction) (models.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if draft.Date.IsZero() {
		draft.Date = now
	}
	i, err := s.interactions.Create(draft, s.ids.New(now), now)
	if err != nil {
		return i, err
	}
	s.touchCustomer(i.CustomerID, &i.Date)
	return i, s.persist(store.KeyInteractions, store.KeyCustomers)
}

func (s *Service) UpdateInteraction(id string, draft models.Interaction) (models.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, _ := s.interactions.Get(id)
	i, err := s.interactions.Update(id, draft)
	if err != nil {
		return i, err
	}
	s.touchCustomer(i.CustomerID, &i.Date)
	if previous.CustomerID != i.CustomerID {
		s.touchCustomer(previous.CustomerID, s.latestContact(previous.CustomerID))
	}
	return i, s.persist(store.KeyInteractions, store.KeyCustomers)
}

// DeleteInteraction is a no-op for unknown ids. The customer's last contact
// falls back to its latest remaining interaction.
func (s *Service) DeleteInteraction(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, ok := s.interactions.Delete(id)
	if !ok {
		return nil
	}
	s.touchCustomer(removed.CustomerID, s.latestContact(removed.CustomerID))
	return s.persist(store.KeyInteractions, store.KeyCustomers)
}

// touchCustomer sets LastContact, silently skipping dangling references.
func (s *Service) touchCustomer(customerID string, at *time.Time) {
	var stamp *time.Time
	if at != nil {
		t := *at
		stamp = &t
	}
	if !s.customers.Mutate(customerID, func(c *models.Customer) { c.LastContact = stamp }) {
		s.log.Debug("last contact skipped, customer missing", "customer", customerID)
	}
}

func (s *Service) latestContact(customerID string) *time.Time {
	var latest *time.Time
	for _, i := range s.interactions.List(func(i *models.Interaction) bool { return i.CustomerID == customerID }) {
		if latest == nil || i.Date.After(*latest) {
			d := i.Date
			latest = &d
		}
	}
	return latest
}
