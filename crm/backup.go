// ABOUTME: Whole-state backup export and import
// ABOUTME: Import parses the full document before touching any state
package crm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/harperreed/amil/models"
	"github.com/harperreed/amil/store"
)

type Backup struct {
	Customers        []models.Customer    `json:"customers"`
	Interactions     []models.Interaction `json:"interactions"`
	Deals            []models.Deal        `json:"deals"`
	Tasks            []models.Task        `json:"tasks"`
	Settings         models.Settings      `json:"settings"`
	RejectionReasons []string             `json:"rejectionReasons"`
	ExportDate       time.Time            `json:"exportDate"`
}

// backupDoc distinguishes absent keys from empty ones.
type backupDoc struct {
	Customers        *[]models.Customer    `json:"customers"`
	Interactions     *[]models.Interaction `json:"interactions"`
	Deals            *[]models.Deal        `json:"deals"`
	Tasks            *[]models.Task        `json:"tasks"`
	Settings         *models.Settings      `json:"settings"`
	RejectionReasons *[]string             `json:"rejectionReasons"`
	ExportDate       *string               `json:"exportDate"`
}

func (s *Service) Export() Backup {
	snap := s.Snapshot()
	return Backup{
		Customers:        snap.Customers,
		Interactions:     snap.Interactions,
		Deals:            snap.Deals,
		Tasks:            snap.Tasks,
		Settings:         snap.Settings,
		RejectionReasons: snap.RejectionReasons,
		ExportDate:       s.now(),
	}
}

// WriteBackup encodes b with two-space indentation.
func WriteBackup(w io.Writer, b Backup) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(b)
}

// BackupFileName is crm-backup-YYYY-MM-DD.json for the export day.
func BackupFileName(t time.Time) string {
	return fmt.Sprintf("crm-backup-%s.json", t.Format("2006-01-02"))
}

// Import replaces every collection present in the document and returns the
// keys it replaced. Any decode or validation failure returns
// ErrMalformedBackup and leaves state untouched.
func (s *Service) Import(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBackup, err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return nil, fmt.Errorf("%w: not a JSON object", ErrMalformedBackup)
	}
	var doc backupDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBackup, err)
	}
	if err := checkBackup(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBackup, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string
	if doc.Customers != nil {
		s.customers.Replace(*doc.Customers)
		keys = append(keys, store.KeyCustomers)
	}
	if doc.Interactions != nil {
		s.interactions.Replace(*doc.Interactions)
		keys = append(keys, store.KeyInteractions)
	}
	if doc.Deals != nil {
		s.deals.Replace(*doc.Deals)
		keys = append(keys, store.KeyDeals)
	}
	if doc.Tasks != nil {
		s.tasks.Replace(*doc.Tasks)
		keys = append(keys, store.KeyTasks)
	}
	if doc.Settings != nil {
		s.settings = *doc.Settings
		keys = append(keys, store.KeySettings)
	}
	if doc.RejectionReasons != nil {
		s.reasons = dedupeReasons(*doc.RejectionReasons)
		keys = append(keys, store.KeyRejectionReasons)
	}
	s.log.Info("backup imported", "keys", keys)
	return keys, s.persist(keys...)
}

func checkBackup(doc *backupDoc) error {
	if doc.Customers != nil {
		if err := checkRecords[models.Customer]("customers", *doc.Customers); err != nil {
			return err
		}
	}
	if doc.Interactions != nil {
		if err := checkRecords[models.Interaction]("interactions", *doc.Interactions); err != nil {
			return err
		}
	}
	if doc.Deals != nil {
		if err := checkRecords[models.Deal]("deals", *doc.Deals); err != nil {
			return err
		}
	}
	if doc.Tasks != nil {
		if err := checkRecords[models.Task]("tasks", *doc.Tasks); err != nil {
			return err
		}
	}
	if doc.Settings != nil {
		settings := doc.Settings.WithDefaults()
		if err := settings.Validate(); err != nil {
			return fmt.Errorf("settings: %w", err)
		}
		doc.Settings = &settings
	}
	return nil
}

// checkRecords normalises records in place and rejects invalid ones and
// missing or repeated ids.
func checkRecords[T any, PT interface {
	*T
	models.Record
}](name string, records []T) error {
	seen := make(map[string]bool, len(records))
	for i := range records {
		rec := PT(&records[i])
		rec.Normalize()
		id := rec.GetID()
		if id == "" {
			return fmt.Errorf("%s[%d]: %w", name, i, &models.ValidationError{Field: "id", Reason: "required"})
		}
		if seen[id] {
			return fmt.Errorf("%s[%d]: %w", name, i, &models.ValidationError{Field: "id", Reason: "duplicate " + id})
		}
		seen[id] = true
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("%s[%d]: %w", name, i, err)
		}
	}
	return nil
}
