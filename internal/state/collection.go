// Package state holds the client-side mirror of server resources: one
// store per resource type, each the single authoritative copy consumed by
// every view. Mutations are never optimistic; a store changes only after
// the server confirms, so a failed action leaves prior data untouched.
package state

import (
	"sync"

	"github.com/jtallard/biblio/internal/domain"
)

// Snapshot is the copy of a collection handed to views: the items plus
// the loading/error/success flags the UI renders. Error and Success never
// describe the same transition.
type Snapshot[T domain.Entity] struct {
	Items   []T
	Loading bool
	Error   string
	Success string
}

// Collection is the generic slice of state behind each resource store.
// Loading is true strictly between an action's dispatch and settlement.
type Collection[T domain.Entity] struct {
	mu      sync.RWMutex
	items   []T
	loading bool
	err     string
	success string
}

// Snapshot returns a copy of the current state. The items slice is
// copied so the caller can read it while actions settle.
func (c *Collection[T]) Snapshot() Snapshot[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return Snapshot[T]{
		Items:   items,
		Loading: c.loading,
		Error:   c.err,
		Success: c.success,
	}
}

// Len returns the collection size.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Find returns the item with the given id.
func (c *Collection[T]) Find(id int) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// begin marks an action in flight and clears the previous error.
func (c *Collection[T]) begin() {
	c.mu.Lock()
	c.loading = true
	c.err = ""
	c.mu.Unlock()
}

// fail settles an action with the normalized error. Prior items are kept.
func (c *Collection[T]) fail(err error) {
	c.mu.Lock()
	c.loading = false
	c.err = err.Error()
	c.mu.Unlock()
}

// replaceAll settles a fetch by replacing the whole collection. No merge,
// no diffing.
func (c *Collection[T]) replaceAll(items []T) {
	c.mu.Lock()
	c.items = items
	c.loading = false
	c.mu.Unlock()
}

// appendOne settles a create by appending the server-returned entity.
func (c *Collection[T]) appendOne(item T) {
	c.mu.Lock()
	c.items = append(c.items, item)
	c.loading = false
	c.mu.Unlock()
}

// replaceOne settles an update by replacing the entity in place. An id
// not in the collection is a silent no-op, not an insertion.
func (c *Collection[T]) replaceOne(item T) {
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].EntityID() == item.EntityID() {
			c.items[i] = item
			break
		}
	}
	c.loading = false
	c.mu.Unlock()
}

// removeOne settles a delete by filtering the entity out by id.
func (c *Collection[T]) removeOne(id int) {
	c.mu.Lock()
	kept := c.items[:0]
	for _, item := range c.items {
		if item.EntityID() != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
	c.loading = false
	c.mu.Unlock()
}

// settle clears the loading flag without touching items.
func (c *Collection[T]) settle() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
}

// setSuccess records a transient success message for the view to show
// and clear.
func (c *Collection[T]) setSuccess(msg string) {
	c.mu.Lock()
	c.success = msg
	c.mu.Unlock()
}

// ClearError drops the stored error after the view has rendered it.
func (c *Collection[T]) ClearError() {
	c.mu.Lock()
	c.err = ""
	c.mu.Unlock()
}

// ClearSuccess drops the transient success message.
func (c *Collection[T]) ClearSuccess() {
	c.mu.Lock()
	c.success = ""
	c.mu.Unlock()
}
