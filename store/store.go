// ABOUTME: Key-value storage contract used to persist the six CRM documents
// ABOUTME: Every backend (badger, sqlite, charm, redis) satisfies KV
package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// Keys holding the persisted JSON documents.
const (
	KeyCustomers        = "crm-customers"
	KeyInteractions     = "crm-interactions"
	KeyDeals            = "crm-deals"
	KeyTasks            = "crm-tasks"
	KeySettings         = "crm-settings"
	KeyRejectionReasons = "crm-rejection-reasons"
)

// AllKeys lists the document keys in load order.
var AllKeys = []string{
	KeyCustomers,
	KeyInteractions,
	KeyDeals,
	KeyTasks,
	KeySettings,
	KeyRejectionReasons,
}

type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Close() error
}

// Present returns the document keys that exist in kv.
func Present(kv KV) ([]string, error) {
	var found []string
	for _, key := range AllKeys {
		_, err := kv.Get([]byte(key))
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		found = append(found, key)
	}
	return found, nil
}

// Copy writes every document present in src to dst, byte for byte, and
// returns the keys it copied. Documents absent from src are left alone in dst.
func Copy(src, dst KV) ([]string, error) {
	var copied []string
	for _, key := range AllKeys {
		data, err := src.Get([]byte(key))
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return copied, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := dst.Set([]byte(key), data); err != nil {
			return copied, fmt.Errorf("failed to write %s: %w", key, err)
		}
		copied = append(copied, key)
	}
	return copied, nil
}

// Mirror makes dst hold exactly the documents of src: it copies every
// document src has and deletes the ones src lacks. It returns both key sets.
func Mirror(src, dst KV) (copied, removed []string, err error) {
	copied, err = Copy(src, dst)
	if err != nil {
		return copied, nil, err
	}
	have := make(map[string]bool, len(copied))
	for _, key := range copied {
		have[key] = true
	}
	for _, key := range AllKeys {
		if have[key] {
			continue
		}
		_, err := dst.Get([]byte(key))
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return copied, removed, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := dst.Delete([]byte(key)); err != nil {
			return copied, removed, fmt.Errorf("failed to delete %s: %w", key, err)
		}
		removed = append(removed, key)
	}
	return copied, removed, nil
}
