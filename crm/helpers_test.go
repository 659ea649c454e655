// ABOUTME: Shared fixtures for CRM service tests
// ABOUTME: In-memory badger store, a fixed clock and a store that fails writes
package crm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harperreed/amil/models"
	"github.com/harperreed/amil/store"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *store.BadgerStore {
	t.Helper()
	kv, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return openTestService(t, newTestStore(t))
}

func openTestService(t *testing.T, kv store.KV) *Service {
	t.Helper()
	s, err := Open(kv, WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return s
}

var errDiskFull = errors.New("disk full")

// failingKV reads through to an inner store but rejects writes while failing is set.
type failingKV struct {
	store.KV
	failing bool
}

func (f *failingKV) Set(key, value []byte) error {
	if f.failing {
		return errDiskFull
	}
	return f.KV.Set(key, value)
}

func sampleCustomer(name string) models.Customer {
	return models.Customer{
		Name:  name,
		Phone: "0100000000",
		Type:  models.CustomerPotential,
		Tags:  []string{"vip"},
	}
}

func sampleDeal(customerID string, value, prob float64, status models.DealStatus) models.Deal {
	return models.Deal{
		Title:             "Deal",
		CustomerID:        customerID,
		Value:             value,
		Probability:       prob,
		Status:            status,
		ExpectedCloseDate: testNow.AddDate(0, 1, 0),
	}
}

func sampleTask(title string, due time.Time, status models.TaskStatus) models.Task {
	return models.Task{
		Title:    title,
		DueDate:  due,
		Priority: models.PriorityMedium,
		Status:   status,
	}
}
