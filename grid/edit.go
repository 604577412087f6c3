// Package grid holds the state logic behind the inline-editable record
// grids: a coordinator that allows at most one editable cell across the
// whole grid and routes each save to the entity that actually owns the
// field, and a pure search projection over rendered rows.
package grid

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrEditActive   = errors.New("another cell is already being edited")
	ErrNoActiveEdit = errors.New("no cell is being edited")
	ErrFieldUnknown = errors.New("field is not routed to any entity")
)

// EntityKind names one of the record types joined into a grid row.
type EntityKind string

// Routing is the static field -> entity table supplied per grid. It is
// consulted when an edit opens, not when it saves, so a cell can never be
// opened against one entity and written to another.
type Routing map[string]EntityKind

// RowBinding ties a rendered row to the ids of the records it was joined
// from. RowID is the row's primary key; Targets holds the id to patch for
// each entity kind, which for a joined entity differs from RowID.
type RowBinding struct {
	RowID   int
	Targets map[EntityKind]int
}

// Descriptor is the single active edit. Pending holds the value as typed so
// a failed save can be retried or cancelled without losing it.
type Descriptor struct {
	RowID    int
	Kind     EntityKind
	EntityID int
	Field    string
	Pending  string
}

// Patcher persists a single-field change against one entity.
type Patcher interface {
	Patch(ctx context.Context, kind EntityKind, entityID int, field, value string) error
}

// Coordinator owns the Idle | Editing state of one grid. All transitions go
// through it; there is no other edit state.
type Coordinator struct {
	mu      sync.Mutex
	active  *Descriptor
	routing Routing
	patcher Patcher
	refresh func(ctx context.Context)
}

// NewCoordinator builds a coordinator for one grid. refresh runs after every
// successful save and is expected to refetch the whole grid; it may be nil.
func NewCoordinator(routing Routing, patcher Patcher, refresh func(ctx context.Context)) *Coordinator {
	return &Coordinator{
		routing: routing,
		patcher: patcher,
		refresh: refresh,
	}
}

// Open begins editing one cell. It is a no-op returning ErrEditActive while
// another edit is active: the existing edit must be saved or cancelled
// first. The field is resolved through the routing table here, at open time.
func (c *Coordinator) Open(binding RowBinding, field, initial string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		return ErrEditActive
	}
	kind, ok := c.routing[field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrFieldUnknown, field)
	}
	entityID, ok := binding.Targets[kind]
	if !ok {
		return fmt.Errorf("%w: row %d has no %s target", ErrFieldUnknown, binding.RowID, kind)
	}

	c.active = &Descriptor{
		RowID:    binding.RowID,
		Kind:     kind,
		EntityID: entityID,
		Field:    field,
		Pending:  initial,
	}
	return nil
}

// SetPending replaces the in-progress value of the active edit.
func (c *Coordinator) SetPending(value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return ErrNoActiveEdit
	}
	c.active.Pending = value
	return nil
}

// Save patches the routed entity with the pending value. On success the edit
// state clears and the grid refresh runs; on failure the descriptor stays
// active with its pending value intact so the caller can retry or cancel.
func (c *Coordinator) Save(ctx context.Context) error {
	c.mu.Lock()
	if c.active == nil {
		c.mu.Unlock()
		return ErrNoActiveEdit
	}
	d := *c.active
	c.mu.Unlock()

	if err := c.patcher.Patch(ctx, d.Kind, d.EntityID, d.Field, d.Pending); err != nil {
		return err
	}

	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()

	if c.refresh != nil {
		c.refresh(ctx)
	}
	return nil
}

// Cancel discards the pending value and returns the grid to idle. No
// network effect.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
}

// Active reports the current edit, if any.
func (c *Coordinator) Active() (Descriptor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return Descriptor{}, false
	}
	return *c.active, true
}
