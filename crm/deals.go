// ABOUTME: Deal operations, pipeline aggregation and rejection reason bookkeeping
// ABOUTME: New rejection reasons typed on a deal join the persisted reason list
package crm

import (
	"strings"

	"github.com/harperreed/amil/models"
	"github.com/harperreed/amil/store"
)

// DealFilter matches on status, customer and free text over the title.
type DealFilter struct {
	Query      string
	Status     models.DealStatus
	CustomerID string
}

func (f DealFilter) Match(d *models.Deal) bool {
	if f.Status != "" && d.Status != f.Status {
		return false
	}
	if f.CustomerID != "" && d.CustomerID != f.CustomerID {
		return false
	}
	if q := strings.TrimSpace(f.Query); q != "" && !strings.Contains(strings.ToLower(d.Title), strings.ToLower(q)) {
		return false
	}
	return true
}

func (s *Service) Deals(f DealFilter) []models.Deal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deals.List(f.Match)
}

func (s *Service) Deal(id string) (models.Deal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deals.Get(id)
}

func (s *Service) CreateDeal(draft models.Deal) (models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	d, err := s.deals.Create(draft, s.ids.New(now), now)
	if err != nil {
		return d, err
	}
	s.log.Info("deal created", "id", d.ID, "title", d.Title, "status", d.Status)
	return d, s.persist(s.dealKeys(d)...)
}

func (s *Service) UpdateDeal(id string, draft models.Deal) (models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.deals.Update(id, draft)
	if err != nil {
		return d, err
	}
	return d, s.persist(s.dealKeys(d)...)
}

func (s *Service) DeleteDeal(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.deals.Delete(id); !ok {
		return nil
	}
	return s.persist(store.KeyDeals)
}

// dealKeys records a new rejection reason and names the documents to write.
func (s *Service) dealKeys(d models.Deal) []string {
	if s.learnReason(d.RejectionReason) {
		return []string{store.KeyDeals, store.KeyRejectionReasons}
	}
	return []string{store.KeyDeals}
}

func (s *Service) learnReason(reason string) bool {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return false
	}
	for _, r := range s.reasons {
		if r == reason {
			return false
		}
	}
	s.reasons = append(s.reasons, reason)
	return true
}

func (s *Service) RejectionReasons() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.reasons...)
}

func (s *Service) AddRejectionReason(reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(reason) == "" {
		return &ValidationError{Field: "reason", Reason: "required"}
	}
	if !s.learnReason(reason) {
		return nil
	}
	return s.persist(store.KeyRejectionReasons)
}

// RemoveRejectionReason forgets a known reason. Deals keep their stored text.
func (s *Service) RemoveRejectionReason(reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reason = strings.TrimSpace(reason)
	for i, r := range s.reasons {
		if r == reason {
			s.reasons = append(s.reasons[:i], s.reasons[i+1:]...)
			return s.persist(store.KeyRejectionReasons)
		}
	}
	return ErrNotFound
}

func dedupeReasons(reasons []string) []string {
	seen := make(map[string]bool, len(reasons))
	out := make([]string, 0, len(reasons))
	for _, r := range reasons {
		r = strings.TrimSpace(r)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

// PipelineStats summarises deals by status.
type PipelineStats struct {
	Ongoing       int     `json:"ongoing"`
	Closed        int     `json:"closed"`
	Rejected      int     `json:"rejected"`
	Total         int     `json:"total"`
	WeightedValue float64 `json:"weightedValue"`
	ClosedValue   float64 `json:"closedValue"`
}

// Pipeline counts deals per status. Only ongoing deals contribute weighted value.
func Pipeline(deals []models.Deal) PipelineStats {
	var p PipelineStats
	for _, d := range deals {
		p.Total++
		switch d.Status {
		case models.DealOngoing:
			p.Ongoing++
			p.WeightedValue += d.WeightedValue()
		case models.DealClosed:
			p.Closed++
			p.ClosedValue += d.Value
		case models.DealRejected:
			p.Rejected++
		}
	}
	return p
}

// CloseRate is closed deals over all deals, 0 for an empty pipeline.
func (p PipelineStats) CloseRate() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Closed) / float64(p.Total)
}

type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// RejectionStats counts rejected deals per known reason. Matching is exact and
// case-sensitive; reasons outside the known list are not reported.
func RejectionStats(deals []models.Deal, reasons []string) []ReasonCount {
	out := make([]ReasonCount, 0, len(reasons))
	for _, reason := range reasons {
		n := 0
		for _, d := range deals {
			if d.Status == models.DealRejected && d.RejectionReason == reason {
				n++
			}
		}
		out = append(out, ReasonCount{Reason: reason, Count: n})
	}
	return out
}
