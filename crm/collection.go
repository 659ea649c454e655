// ABOUTME: Generic ordered collection backing each entity manager
// ABOUTME: Handles id assignment, creation stamps, in-place replace and removal
package crm

import (
	"encoding/json"
	"time"

	"github.com/harperreed/amil/models"
)

// Collection keeps records in insertion order under one store key.
type Collection[T any, PT interface {
	*T
	models.Record
}] struct {
	key   string
	items []T
}

func newCollection[T any, PT interface {
	*T
	models.Record
}](key string) *Collection[T, PT] {
	return &Collection[T, PT]{key: key, items: []T{}}
}

func (c *Collection[T, PT]) Key() string { return c.key }

func (c *Collection[T, PT]) Len() int { return len(c.items) }

func (c *Collection[T, PT]) index(id string) int {
	for i := range c.items {
		if PT(&c.items[i]).GetID() == id {
			return i
		}
	}
	return -1
}

// List returns copies of the records accepted by match, in stored order.
// A nil match accepts everything.
func (c *Collection[T, PT]) List(match func(*T) bool) []T {
	out := make([]T, 0, len(c.items))
	for i := range c.items {
		if match == nil || match(&c.items[i]) {
			out = append(out, c.items[i])
		}
	}
	return out
}

func (c *Collection[T, PT]) Get(id string) (T, bool) {
	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Create validates the draft, stamps it and appends it.
func (c *Collection[T, PT]) Create(draft T, id string, now time.Time) (T, error) {
	rec := PT(&draft)
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		var zero T
		return zero, err
	}
	rec.SetID(id)
	rec.SetCreated(now)
	c.items = append(c.items, draft)
	return draft, nil
}

// Insert appends a record that already carries its id, keeping a set
// creation stamp.
func (c *Collection[T, PT]) Insert(rec T, now time.Time) (T, error) {
	p := PT(&rec)
	p.Normalize()
	if err := p.Validate(); err != nil {
		var zero T
		return zero, err
	}
	if p.Created().IsZero() {
		p.SetCreated(now)
	}
	c.items = append(c.items, rec)
	return rec, nil
}

// Update replaces the record at id, keeping its id and creation stamp.
func (c *Collection[T, PT]) Update(id string, draft T) (T, error) {
	var zero T
	i := c.index(id)
	if i < 0 {
		return zero, ErrNotFound
	}
	rec := PT(&draft)
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return zero, err
	}
	rec.SetID(id)
	rec.SetCreated(PT(&c.items[i]).Created())
	c.items[i] = draft
	return draft, nil
}

// Delete removes id and reports whether it was present.
func (c *Collection[T, PT]) Delete(id string) (T, bool) {
	i := c.index(id)
	if i < 0 {
		var zero T
		return zero, false
	}
	removed := c.items[i]
	c.items = append(c.items[:i], c.items[i+1:]...)
	return removed, true
}

// Mutate applies fn to the record at id in place.
func (c *Collection[T, PT]) Mutate(id string, fn func(*T)) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	fn(&c.items[i])
	return true
}

func (c *Collection[T, PT]) Replace(items []T) {
	if items == nil {
		items = []T{}
	}
	c.items = append([]T(nil), items...)
}

func (c *Collection[T, PT]) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.items)
}

func (c *Collection[T, PT]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	c.Replace(items)
	return nil
}
