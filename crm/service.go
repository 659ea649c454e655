// ABOUTME: CRM service owning the four collections, settings and rejection reasons
// ABOUTME: Loads every document once at open and writes it back after each change
package crm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/amil/models"
	"github.com/harperreed/amil/store"
)

// Service is the single in-process owner of CRM state. The mutex only lets
// the notifier and the HTTP/MCP handlers read consistent snapshots.
type Service struct {
	mu  sync.RWMutex
	kv  store.KV
	log *log.Logger
	now func() time.Time
	ids *IDSource

	customers    *Collection[models.Customer, *models.Customer]
	interactions *Collection[models.Interaction, *models.Interaction]
	deals        *Collection[models.Deal, *models.Deal]
	tasks        *Collection[models.Task, *models.Task]
	settings     models.Settings
	reasons      []string
}

type Option func(*Service)

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock replaces time.Now for stamps and due-date checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Open loads all documents from kv. Missing keys start empty; settings that
// cannot be read fall back to defaults.
func Open(kv store.KV, opts ...Option) (*Service, error) {
	s := &Service{
		kv:           kv,
		log:          log.New(io.Discard),
		now:          time.Now,
		ids:          NewIDSource(),
		customers:    newCollection[models.Customer](store.KeyCustomers),
		interactions: newCollection[models.Interaction](store.KeyInteractions),
		deals:        newCollection[models.Deal](store.KeyDeals),
		tasks:        newCollection[models.Task](store.KeyTasks),
		settings:     models.DefaultSettings(),
		reasons:      []string{},
	}
	for _, opt := range opts {
		opt(s)
	}

	docs := []struct {
		key    string
		target any
	}{
		{store.KeyCustomers, s.customers},
		{store.KeyInteractions, s.interactions},
		{store.KeyDeals, s.deals},
		{store.KeyTasks, s.tasks},
		{store.KeyRejectionReasons, &s.reasons},
	}
	for _, doc := range docs {
		if err := s.load(doc.key, doc.target); err != nil {
			return nil, err
		}
	}
	s.reasons = dedupeReasons(s.reasons)

	var settings models.Settings
	if err := s.load(store.KeySettings, &settings); err != nil {
		s.log.Warn("ignoring unreadable settings", "err", err)
	} else {
		settings = settings.WithDefaults()
		if err := settings.Validate(); err != nil {
			s.log.Warn("ignoring invalid settings", "err", err)
		} else {
			s.settings = settings
		}
	}

	s.log.Debug("crm loaded",
		"customers", s.customers.Len(),
		"interactions", s.interactions.Len(),
		"deals", s.deals.Len(),
		"tasks", s.tasks.Len())
	return s, nil
}

func (s *Service) load(key string, target any) error {
	data, err := s.kv.Get([]byte(key))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// write serialises one document. Failures become warnings.
func (s *Service) write(key string, doc any) error {
	data, err := json.Marshal(doc)
	if err == nil {
		err = s.kv.Set([]byte(key), data)
	}
	if err != nil {
		s.log.Warn("persist failed", "key", key, "err", err)
		return &PersistWarning{Key: key, Err: err}
	}
	return nil
}

// persist writes each named document, joining any warnings.
func (s *Service) persist(keys ...string) error {
	var errs []error
	for _, key := range keys {
		var doc any
		switch key {
		case store.KeyCustomers:
			doc = s.customers
		case store.KeyInteractions:
			doc = s.interactions
		case store.KeyDeals:
			doc = s.deals
		case store.KeyTasks:
			doc = s.tasks
		case store.KeySettings:
			doc = s.settings
		case store.KeyRejectionReasons:
			doc = s.reasons
		default:
			continue
		}
		if err := s.write(key, doc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Now is the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) Close() error {
	return s.kv.Close()
}

// Snapshot is a consistent copy of all state.
type Snapshot struct {
	Customers        []models.Customer
	Interactions     []models.Interaction
	Deals            []models.Deal
	Tasks            []models.Task
	Settings         models.Settings
	RejectionReasons []string
}

func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Customers:        s.customers.List(nil),
		Interactions:     s.interactions.List(nil),
		Deals:            s.deals.List(nil),
		Tasks:            s.tasks.List(nil),
		Settings:         s.settings,
		RejectionReasons: append([]string{}, s.reasons...),
	}
}

// CustomerName resolves a customer id, reporting false for dangling references.
func (s *Service) CustomerName(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers.Get(id)
	return c.Name, ok
}
