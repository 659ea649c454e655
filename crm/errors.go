// ABOUTME: Error taxonomy of the CRM core
// ABOUTME: Validation, not-found, malformed backup and recoverable persistence warnings
package crm

import (
	"errors"
	"fmt"

	"github.com/harperreed/amil/models"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrMalformedBackup = errors.New("malformed backup")
	ErrValidation      = models.ErrValidation
)

// ValidationError names the offending field of a rejected draft.
type ValidationError = models.ValidationError

// PersistWarning reports a store write that failed after the in-memory
// mutation was applied. The returned record is still valid.
type PersistWarning struct {
	Key string
	Err error
}

func (w *PersistWarning) Error() string {
	return fmt.Sprintf("could not persist %s: %v", w.Key, w.Err)
}

func (w *PersistWarning) Unwrap() error {
	return w.Err
}

// IsWarning reports whether err only carries persistence warnings.
func IsWarning(err error) bool {
	if err == nil {
		return false
	}
	var w *PersistWarning
	if !errors.As(err, &w) {
		return false
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if !IsWarning(e) {
				return false
			}
		}
	}
	return true
}
