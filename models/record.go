// ABOUTME: Record contract shared by all stored entities plus validation errors
// ABOUTME: Lets one generic collection manage customers, interactions, deals and tasks
package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError names the offending field of a rejected draft.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Record is implemented by pointers to the four entity types.
type Record interface {
	GetID() string
	SetID(id string)
	// Created returns the creation stamp, zero for entities without one.
	Created() time.Time
	SetCreated(t time.Time)
	Normalize()
	Validate() error
}

func (c *Customer) GetID() string { return c.ID }
func (c *Customer) SetID(id string) { c.ID = id }
func (c *Customer) Created() time.Time { return c.CreatedAt }
func (c *Customer) SetCreated(t time.Time) { c.CreatedAt = t }
func (i *Interaction) GetID() string { return i.ID }
func (i *Interaction) SetID(id string) { i.ID = id }
func (i *Interaction) Created() time.Time { return time.Time{} }
func (i *Interaction) SetCreated(time.Time) {}
func (d *Deal) GetID() string { return d.ID }
func (d *Deal) SetID(id string) { d.ID = id }
func (d *Deal) Created() time.Time { return d.CreatedAt }
func (d *Deal) SetCreated(t time.Time) { d.CreatedAt = t }
func (t *Task) GetID() string { return t.ID }
func (t *Task) SetID(id string) { t.ID = id }
func (t *Task) Created() time.Time { return t.CreatedAt }
func (t *Task) SetCreated(at time.Time) { t.CreatedAt = at }
