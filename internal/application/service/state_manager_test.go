package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billstock/backend/internal/domain/entity"
	"github.com/billstock/backend/internal/domain/enum"
	"github.com/billstock/backend/internal/infrastructure/remote"
)

func TestForOwnerLoadsSnapshotAndReseedsCounter(t *testing.T) {
	mem := remote.NewMemoryStore()
	ownerID := uuid.New()
	ctx := context.Background()

	total := 50.0
	require.NoError(t, mem.UpsertCustomer(ctx, ownerID, entity.Entity{
		ID: "c1", Fields: []entity.Field{{ID: "f1", Label: "Name", Value: "Asha"}},
	}))
	require.NoError(t, mem.UpsertBill(ctx, ownerID, entity.Bill{
		ID: "b7", Num: 7, Status: enum.BillStatusArchived, SavedAt: 10, TotalAmount: &total,
	}))

	mgr := NewStateManager(mem, false)
	store, err := mgr.ForOwner(ctx, ownerID)
	require.NoError(t, err)

	state := store.State()
	require.Len(t, state.Customers, 1)
	require.Len(t, state.Bills, 1)
	assert.Empty(t, state.Queue)
	assert.Equal(t, int64(8), state.NextBillNum)
}

func TestForOwnerReturnsSameStorePerOwner(t *testing.T) {
	mgr := NewStateManager(remote.NewMemoryStore(), false)
	ownerID := uuid.New()
	ctx := context.Background()

	first, err := mgr.ForOwner(ctx, ownerID)
	require.NoError(t, err)
	second, err := mgr.ForOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := mgr.ForOwner(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotSame(t, first, other, "owners get isolated state machines")
}

func TestForOwnerSeedsStarterCatalogWhenEmpty(t *testing.T) {
	mgr := NewStateManager(remote.NewMemoryStore(), true)

	store, err := mgr.ForOwner(context.Background(), uuid.New())
	require.NoError(t, err)

	state := store.State()
	assert.Len(t, state.Customers, 2)
	assert.Len(t, state.Items, 4)
}

func TestForOwnerSkipsSeedWhenSnapshotHasData(t *testing.T) {
	mem := remote.NewMemoryStore()
	ownerID := uuid.New()
	require.NoError(t, mem.UpsertItem(context.Background(), ownerID, entity.Entity{
		ID: "i1", Fields: []entity.Field{{ID: "f1", Label: "Name", Value: "Rice"}},
	}))

	mgr := NewStateManager(mem, true)
	store, err := mgr.ForOwner(context.Background(), ownerID)
	require.NoError(t, err)

	state := store.State()
	assert.Empty(t, state.Customers)
	assert.Len(t, state.Items, 1)
}

func TestEvictForcesReload(t *testing.T) {
	mgr := NewStateManager(remote.NewMemoryStore(), false)
	ownerID := uuid.New()
	ctx := context.Background()

	first, err := mgr.ForOwner(ctx, ownerID)
	require.NoError(t, err)

	mgr.Evict(ownerID)

	second, err := mgr.ForOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}
