package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/dashboard/adapters/store"
	"github.com/bloodlink/dashboard/core"
	"github.com/bloodlink/dashboard/service"
)

func TestBrowserBinding_Issue(t *testing.T) {
	persistence := store.NewMemoryStore()
	binding := service.NewBrowserBinding(persistence)

	assert.False(t, binding.Matches(""), "empty binding matches nothing")
	assert.False(t, binding.Matches("anything"))

	first, err := binding.Issue(t.Context())
	require.NoError(t, err)
	assert.NotEmpty(t, first)
	assert.True(t, binding.Matches(first))

	second, err := binding.Issue(t.Context())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.False(t, binding.Matches(first), "a new login locks out the previous browser")
	assert.True(t, binding.Matches(second))

	persisted, err := persistence.Get(t.Context(), service.KeyBrowser)
	require.NoError(t, err)
	assert.Equal(t, second, persisted)
}

func TestBrowserBinding_Restore(t *testing.T) {
	persistence := store.NewMemoryStore()
	value, err := service.NewBrowserBinding(persistence).Issue(t.Context())
	require.NoError(t, err)

	restored := service.NewBrowserBinding(persistence)
	assert.False(t, restored.Matches(value), "nothing loaded before Restore")
	restored.Restore(t.Context())
	assert.True(t, restored.Matches(value))

	require.NoError(t, restored.Revoke(t.Context()))
	assert.False(t, restored.Matches(value))

	_, err = persistence.Get(t.Context(), service.KeyBrowser)
	assert.ErrorIs(t, err, core.ErrNotFound)

	empty := service.NewBrowserBinding(persistence)
	empty.Restore(t.Context())
	assert.False(t, empty.Matches(value))
}

func TestBrowserBinding_StoreFailures(t *testing.T) {
	persistence := newFlakyStore()
	binding := service.NewBrowserBinding(persistence)
	value, err := binding.Issue(t.Context())
	require.NoError(t, err)

	persistence.failSet = true
	_, err = binding.Issue(t.Context())
	assert.ErrorIs(t, err, core.ErrStoreOperationFailed)
	assert.True(t, binding.Matches(value), "failed issue keeps the current binding")

	persistence.failDelete = true
	assert.ErrorIs(t, binding.Revoke(t.Context()), core.ErrStoreOperationFailed)
	assert.True(t, binding.Matches(value))

	persistence.failGet = true
	binding.Restore(t.Context())
	assert.False(t, binding.Matches(value), "unreadable binding restores empty")
}
