// Package selection implements the cascading dependent-selection state
// machine shared by the player-creation, player-edit and game-registration
// flows: category -> entity list -> entity -> dependent detail.
//
// Every stage change invalidates the stages below it synchronously, then
// refetches asynchronously. Completions are validated against the selection
// identity current at completion time, so a slow fetch for an abandoned
// selection can never overwrite a newer one.
package selection

import (
	"context"
	"sync"
)

// EmptyCategoryPolicy decides what an empty category selection means for the
// entity list. Call sites differ: game registration lists all teams when no
// category is chosen, other flows may require a category first.
type EmptyCategoryPolicy int

const (
	EmptyListsAll EmptyCategoryPolicy = iota
	EmptyRequiresSelection
)

// Notice is a non-fatal fetch failure surfaced to the owner of the cascade.
// The failed stage's dependent state has already been cleared when the
// callback fires.
type Notice struct {
	Stage string // "entities" or "detail"
	Err   error
}

type Sources[E any, D any] struct {
	ListEntities func(ctx context.Context, category string) ([]E, error)
	FetchDetail  func(ctx context.Context, entityID int) (D, error)
}

type State[E any, D any] struct {
	Category  string
	Entities  []E
	EntityID  int // 0 means no entity selected
	Detail    D
	HasDetail bool
}

type Cascade[E any, D any] struct {
	mu        sync.Mutex
	listGen   uint64
	detailGen uint64
	state     State[E, D]

	src      Sources[E, D]
	policy   EmptyCategoryPolicy
	onNotice func(Notice)
}

func NewCascade[E any, D any](src Sources[E, D], policy EmptyCategoryPolicy, onNotice func(Notice)) *Cascade[E, D] {
	return &Cascade[E, D]{
		src:      src,
		policy:   policy,
		onNotice: onNotice,
	}
}

// SelectCategory clears the entity selection and dependent detail
// synchronously, then refetches the entity list for the new category. If a
// newer selection lands while the fetch is in flight, the result is dropped.
func (c *Cascade[E, D]) SelectCategory(ctx context.Context, category string) {
	c.mu.Lock()
	c.listGen++
	c.detailGen++
	gen := c.listGen
	c.state.Category = category
	c.state.EntityID = 0
	c.state.Entities = nil
	c.clearDetailLocked()
	if category == "" && c.policy == EmptyRequiresSelection {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	entities, err := c.src.ListEntities(ctx, category)

	c.mu.Lock()
	if gen != c.listGen {
		// A newer category selection won; this result is stale.
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.state.Entities = nil
		c.mu.Unlock()
		c.notify("entities", err)
		return
	}
	c.state.Entities = entities
	c.mu.Unlock()
}

// SelectEntity clears the dependent detail synchronously, then refetches it
// for the new entity. Passing 0 deselects and issues no fetch.
func (c *Cascade[E, D]) SelectEntity(ctx context.Context, entityID int) {
	c.mu.Lock()
	c.detailGen++
	gen := c.detailGen
	c.state.EntityID = entityID
	c.clearDetailLocked()
	if entityID == 0 {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	detail, err := c.src.FetchDetail(ctx, entityID)

	c.mu.Lock()
	if gen != c.detailGen || c.state.EntityID != entityID {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.clearDetailLocked()
		c.mu.Unlock()
		c.notify("detail", err)
		return
	}
	c.state.Detail = detail
	c.state.HasDetail = true
	c.mu.Unlock()
}

// State returns a copy of the current selection state.
func (c *Cascade[E, D]) State() State[E, D] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Cascade[E, D]) clearDetailLocked() {
	var zero D
	c.state.Detail = zero
	c.state.HasDetail = false
}

func (c *Cascade[E, D]) notify(stage string, err error) {
	if c.onNotice != nil {
		c.onNotice(Notice{Stage: stage, Err: err})
	}
}
