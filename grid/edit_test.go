package grid

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patchCall struct {
	Kind     EntityKind
	EntityID int
	Field    string
	Value    string
}

type fakePatcher struct {
	calls []patchCall
	err   error
}

func (f *fakePatcher) Patch(ctx context.Context, kind EntityKind, entityID int, field, value string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, patchCall{Kind: kind, EntityID: entityID, Field: field, Value: value})
	return nil
}

var testRouting = Routing{
	"game_title": "match",
	"category":   "team",
}

func testBinding() RowBinding {
	return RowBinding{
		RowID: 7,
		Targets: map[EntityKind]int{
			"match": 7,
			"team":  3,
		},
	}
}

func TestCoordinatorSingleActiveEdit(t *testing.T) {
	c := NewCoordinator(testRouting, &fakePatcher{}, nil)

	require.NoError(t, c.Open(testBinding(), "game_title", "Spring Cup"))

	err := c.Open(testBinding(), "category", "U12")
	assert.ErrorIs(t, err, ErrEditActive)

	active, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, "game_title", active.Field, "the original edit must survive a rejected second open")
}

func TestCoordinatorRoutesToJoinedEntity(t *testing.T) {
	patcher := &fakePatcher{}
	c := NewCoordinator(testRouting, patcher, nil)

	require.NoError(t, c.Open(testBinding(), "category", "U12"))

	active, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, EntityKind("team"), active.Kind)
	assert.Equal(t, 3, active.EntityID, "a team-owned field targets the joined team id, not the row id")

	require.NoError(t, c.SetPending("U15"))
	require.NoError(t, c.Save(context.Background()))

	require.Len(t, patcher.calls, 1)
	assert.Equal(t, patchCall{Kind: "team", EntityID: 3, Field: "category", Value: "U15"}, patcher.calls[0])
}

func TestCoordinatorUnknownField(t *testing.T) {
	c := NewCoordinator(testRouting, &fakePatcher{}, nil)

	err := c.Open(testBinding(), "photo", "")
	assert.ErrorIs(t, err, ErrFieldUnknown)

	_, ok := c.Active()
	assert.False(t, ok)
}

func TestCoordinatorMissingTargetRefusesOpen(t *testing.T) {
	c := NewCoordinator(testRouting, &fakePatcher{}, nil)

	binding := RowBinding{RowID: 7, Targets: map[EntityKind]int{"match": 7}}
	err := c.Open(binding, "category", "U12")
	assert.ErrorIs(t, err, ErrFieldUnknown)
}

func TestCoordinatorSaveFailureRetainsPending(t *testing.T) {
	patcher := &fakePatcher{err: errors.New("db down")}
	refreshed := 0
	c := NewCoordinator(testRouting, patcher, func(ctx context.Context) { refreshed++ })

	require.NoError(t, c.Open(testBinding(), "game_title", "Spring Cup"))
	require.NoError(t, c.SetPending("Autumn Cup"))

	err := c.Save(context.Background())
	require.Error(t, err)

	active, ok := c.Active()
	require.True(t, ok, "a failed save keeps the edit open")
	assert.Equal(t, "Autumn Cup", active.Pending)
	assert.Zero(t, refreshed)

	// Retry after the patcher recovers.
	patcher.err = nil
	require.NoError(t, c.Save(context.Background()))
	_, ok = c.Active()
	assert.False(t, ok)
	assert.Equal(t, 1, refreshed)
}

func TestCoordinatorCancelDiscards(t *testing.T) {
	patcher := &fakePatcher{}
	c := NewCoordinator(testRouting, patcher, nil)

	require.NoError(t, c.Open(testBinding(), "game_title", "Spring Cup"))
	c.Cancel()

	_, ok := c.Active()
	assert.False(t, ok)
	assert.Empty(t, patcher.calls)

	assert.ErrorIs(t, c.SetPending("x"), ErrNoActiveEdit)
	assert.ErrorIs(t, c.Save(context.Background()), ErrNoActiveEdit)
}
