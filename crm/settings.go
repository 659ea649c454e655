// ABOUTME: Settings access for the CRM service
// ABOUTME: Settings change only through SaveSettings and are persisted immediately
package crm

import (
	"github.com/harperreed/amil/models"
	"github.com/harperreed/amil/store"
)

func (s *Service) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *Service) SaveSettings(next models.Settings) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next = next.WithDefaults()
	if err := next.Validate(); err != nil {
		return s.settings, err
	}
	s.settings = next
	s.log.Info("settings saved", "language", next.Language, "currency", next.Currency, "theme", next.Theme)
	return next, s.persist(store.KeySettings)
}
