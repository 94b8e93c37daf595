package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandle(rec *recorder, roofID string, index int) *fakeHandle {
	return &fakeHandle{roofID: roofID, index: index, rec: rec}
}

func TestRegistry_CreateAndLen(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry()
	r.Create("a", 0, newHandle(rec, "a", 0))
	r.Create("a", 1, newHandle(rec, "a", 1))
	r.Create("b", 0, newHandle(rec, "b", 0))

	assert.Equal(t, 2, r.Len("a"))
	assert.Equal(t, 1, r.Len("b"))
	assert.Equal(t, 0, r.Len("c"))
	assert.True(t, r.Has("a", 1))
	assert.False(t, r.Has("a", 2))
	assert.Equal(t, []string{"a", "b"}, r.Roofs())
	assert.Empty(t, rec.events)
}

func TestRegistry_CreateOverExistingTearsDown(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry()
	old := newHandle(rec, "a", 0)
	r.Create("a", 0, old)
	r.Create("a", 0, newHandle(rec, "a", 0))

	assert.True(t, old.cleared)
	assert.True(t, old.removed)
	assert.Equal(t, 1, r.Len("a"))
}

func TestRegistry_TeardownClearsBeforeRemove(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry()
	r.Create("a", 1, newHandle(rec, "a", 1))
	r.Create("a", 0, newHandle(rec, "a", 0))

	assert.Equal(t, 2, r.DestroyAll("a"))
	assert.Equal(t, []string{"clear a/0", "remove a/0", "clear a/1", "remove a/1"}, rec.events)
	assert.Equal(t, 0, r.Len("a"))
	assert.Empty(t, r.Roofs())
}

func TestRegistry_ReplaceRemovesOldSetFirst(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry()
	old := newHandle(rec, "a", 0)
	r.Create("a", 0, old)

	fresh := map[int]PanelHandle{0: newHandle(rec, "a", 0), 1: newHandle(rec, "a", 1)}
	r.Replace("a", fresh)

	require.True(t, old.removed)
	assert.Equal(t, 2, r.Len("a"))
	assert.Equal(t, []string{"clear a/0", "remove a/0"}, rec.events)

	r.Replace("a", nil)
	assert.Equal(t, 0, r.Len("a"))
}

func TestRegistry_Destroy(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry()
	h := newHandle(rec, "a", 3)
	r.Create("a", 3, h)

	assert.False(t, r.Destroy("a", 4))
	assert.False(t, r.Destroy("b", 3))
	assert.True(t, r.Destroy("a", 3))
	assert.True(t, h.cleared)
	assert.True(t, h.removed)
	assert.False(t, r.Destroy("a", 3))
	assert.Empty(t, r.Roofs())
}
