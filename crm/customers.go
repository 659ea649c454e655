// ABOUTME: Customer manager operations and filters
// ABOUTME: Deleting a customer leaves interactions, deals and tasks pointing at it
package crm

import (
	"fmt"
	"strings"

	"github.com/harperreed/amil/models"
	"github.com/harperreed/amil/store"
)

// CustomerFilter matches on free text (name or phone), type and tag.
type CustomerFilter struct {
	Query string
	Type  models.CustomerType
	Tag   string
}

func (f CustomerFilter) Match(c *models.Customer) bool {
	if q := strings.TrimSpace(f.Query); q != "" {
		if !strings.Contains(strings.ToLower(c.Name), strings.ToLower(q)) &&
			!strings.Contains(c.Phone, q) &&
			!strings.Contains(strings.ToLower(c.Email), strings.ToLower(q)) {
			return false
		}
	}
	if f.Type != "" && c.Type != f.Type {
		return false
	}
	if f.Tag != "" && !c.HasTag(f.Tag) {
		return false
	}
	return true
}

func (s *Service) Customers(f CustomerFilter) []models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customers.List(f.Match)
}

func (s *Service) Customer(id string) (models.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customers.Get(id)
}

func (s *Service) CreateCustomer(draft models.Customer) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	draft.LastContact = nil
	c, err := s.customers.Create(draft, s.ids.New(now), now)
	if err != nil {
		return c, err
	}
	s.log.Info("customer created", "id", c.ID, "name", c.Name)
	return c, s.persist(store.KeyCustomers)
}

// UpdateCustomer keeps the last-contact stamp, which only interactions change.
func (s *Service) UpdateCustomer(id string, draft models.Customer) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.customers.Get(id); ok {
		draft.LastContact = existing.LastContact
	}
	c, err := s.customers.Update(id, draft)
	if err != nil {
		return c, err
	}
	return c, s.persist(store.KeyCustomers)
}

// DeleteCustomer is a no-op for unknown ids.
func (s *Service) DeleteCustomer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers.Delete(id); !ok {
		return nil
	}
	s.log.Info("customer deleted", "id", id)
	return s.persist(store.KeyCustomers)
}

// ResolveCustomer accepts an id or a name. A name must match exactly one
// customer, ignoring case.
func (s *Service) ResolveCustomer(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.customers.Get(ref); ok {
		return ref, nil
	}
	var ids []string
	for _, c := range s.customers.List(nil) {
		if strings.EqualFold(c.Name, ref) {
			ids = append(ids, c.ID)
		}
	}
	switch len(ids) {
	case 1:
		return ids[0], nil
	case 0:
		return "", fmt.Errorf("no customer named %q: %w", ref, ErrNotFound)
	default:
		return "", fmt.Errorf("%d customers are named %q; use the id", len(ids), ref)
	}
}
