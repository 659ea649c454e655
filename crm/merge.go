// ABOUTME: Batch merge of externally sourced customers and interactions
// ABOUTME: Records carry their own ids so repeated imports add nothing new
package crm

import (
	"github.com/harperreed/amil/models"
	"github.com/harperreed/amil/store"
)

// MergeResult counts what a merge did with each record of the batch.
type MergeResult struct {
	Added   int
	Known   int
	Invalid int
}

// MergeCustomers appends customers whose id is not yet present. Invalid
// records are skipped and counted. The store is written once per batch.
func (s *Service) MergeCustomers(batch []models.Customer) (MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res MergeResult
	now := s.now()
	for _, c := range batch {
		if c.ID == "" {
			c.ID = s.ids.New(now)
		}
		if _, ok := s.customers.Get(c.ID); ok {
			res.Known++
			continue
		}
		c.LastContact = nil
		if _, err := s.customers.Insert(c, now); err != nil {
			s.log.Warn("skipping customer", "id", c.ID, "name", c.Name, "err", err)
			res.Invalid++
			continue
		}
		res.Added++
	}
	if res.Added == 0 {
		return res, nil
	}
	s.log.Info("customers merged", "added", res.Added, "known", res.Known)
	return res, s.persist(store.KeyCustomers)
}

// MergeInteractions appends interactions whose id is not yet present and
// refreshes the last contact of every touched customer.
func (s *Service) MergeInteractions(batch []models.Interaction) (MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res MergeResult
	now := s.now()
	touched := map[string]bool{}
	for _, i := range batch {
		if i.ID == "" {
			i.ID = s.ids.New(now)
		}
		if _, ok := s.interactions.Get(i.ID); ok {
			res.Known++
			continue
		}
		added, err := s.interactions.Insert(i, now)
		if err != nil {
			s.log.Warn("skipping interaction", "id", i.ID, "err", err)
			res.Invalid++
			continue
		}
		touched[added.CustomerID] = true
		res.Added++
	}
	if res.Added == 0 {
		return res, nil
	}
	for id := range touched {
		s.touchCustomer(id, s.latestContact(id))
	}
	s.log.Info("interactions merged", "added", res.Added, "known", res.Known)
	return res, s.persist(store.KeyInteractions, store.KeyCustomers)
}
