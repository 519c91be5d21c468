package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leavedesk/internal/platform/sentinel"
)

func TestStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	created, err := store.Create(ctx, Employee{ID: "EMP001", Name: "Alice Johnson", Email: "alice@company.com"})
	require.NoError(t, err)
	assert.Equal(t, DefaultDepartment, created.Department)
	assert.Equal(t, StatusActive, created.Status)

	got, err := store.Get(ctx, "EMP001")
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", got.Name)
	assert.True(t, store.Exists(ctx, "EMP001"))
}

func TestStoreRejectsDuplicateAndBlank(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, err := store.Create(ctx, Employee{ID: "EMP001", Name: "Alice"})
	require.NoError(t, err)

	_, err = store.Create(ctx, Employee{ID: "EMP001", Name: "Someone Else"})
	require.ErrorIs(t, err, sentinel.ErrAlreadyExists)

	_, err = store.Create(ctx, Employee{ID: " ", Name: "Nobody"})
	require.ErrorIs(t, err, sentinel.ErrInvalidInput)

	_, err = store.Get(ctx, "EMP404")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestStoreListByDepartment(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	for _, emp := range []Employee{
		{ID: "EMP001", Name: "Alice", Department: "Engineering"},
		{ID: "EMP002", Name: "Bob", Department: "HR"},
		{ID: "EMP003", Name: "Carol", Department: "engineering"},
	} {
		_, err := store.Create(ctx, emp)
		require.NoError(t, err)
	}

	eng := store.List(ctx, "ENGINEERING")
	require.Len(t, eng, 2)
	assert.Equal(t, "EMP001", eng[0].ID)
	assert.Equal(t, "EMP003", eng[1].ID)

	assert.Len(t, store.List(ctx, "All"), 3)
	assert.Equal(t, []string{"Engineering", "HR"}, store.Departments(ctx))
}

func TestStoreSetStatus(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	_, err := store.Create(ctx, Employee{ID: "EMP001", Name: "Alice"})
	require.NoError(t, err)

	updated, err := store.SetStatus(ctx, "EMP001", StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, updated.Status)

	status, ok := ParseStatus("inactive")
	assert.True(t, ok)
	assert.Equal(t, StatusInactive, status)
}
