package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/billstock/backend/internal/application/statestore"
	"github.com/billstock/backend/internal/domain/billing"
	"github.com/billstock/backend/internal/domain/entity"
	"github.com/billstock/backend/internal/infrastructure/remote"
	syncpkg "github.com/billstock/backend/internal/sync"
	"github.com/billstock/backend/pkg/utils"
)

// StateManager owns one state store per authenticated owner. The first request
// for an owner loads their snapshot from the remote store, seeds a fresh state
// machine with it, and attaches the sync reconciler. Every transition for that
// owner then flows through the same single-writer store.
type StateManager struct {
	mu       sync.Mutex
	remote   remote.Store
	stores   map[uuid.UUID]*statestore.Store
	seedDemo bool
}

// NewStateManager creates a state manager backed by the given remote store.
// When seedDemo is set, owners whose remote snapshot is empty get a small
// starter catalog on first load.
func NewStateManager(remoteStore remote.Store, seedDemo bool) *StateManager {
	return &StateManager{
		remote:   remoteStore,
		stores:   make(map[uuid.UUID]*statestore.Store),
		seedDemo: seedDemo,
	}
}

// ForOwner returns the owner's live state store, creating and loading it on
// first use. The snapshot load is dispatched before the reconciler attaches,
// so loading never echoes records back to the remote store.
func (m *StateManager) ForOwner(ctx context.Context, ownerID uuid.UUID) (*statestore.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[ownerID]; ok {
		return store, nil
	}

	snapshot, err := m.remote.FetchAll(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot for owner %s: %w", ownerID, err)
	}

	store := statestore.New(billing.NewState())
	store.Dispatch(billing.LoadSnapshot{
		Customers: snapshot.Customers,
		Items:     snapshot.Items,
		Bills:     snapshot.Bills,
	})

	syncpkg.Attach(m.remote, store, ownerID)

	if m.seedDemo && len(snapshot.Customers) == 0 && len(snapshot.Items) == 0 && len(snapshot.Bills) == 0 {
		seedStarterCatalog(store)
	}

	m.stores[ownerID] = store
	return store, nil
}

// Evict drops the in-memory store for an owner. The next request rebuilds it
// from the remote snapshot.
func (m *StateManager) Evict(ownerID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, ownerID)
}

// seedStarterCatalog dispatches a small demo catalog through the store, so the
// seeds flow through the reconciler and land in the remote store like any
// user-entered record.
func seedStarterCatalog(store *statestore.Store) {
	customers := [][]entity.Field{
		{
			{ID: utils.NewID(), Label: "Name", Value: "Rahul Sharma"},
			{ID: utils.NewID(), Label: "Phone", Value: "9876543210"},
		},
		{
			{ID: utils.NewID(), Label: "Name", Value: "Priya Patel"},
			{ID: utils.NewID(), Label: "Phone", Value: "9123456780"},
		},
	}
	for _, fields := range customers {
		store.Dispatch(billing.AddCustomer{ID: utils.NewID(), Fields: fields})
	}

	items := [][]entity.Field{
		{
			{ID: utils.NewID(), Label: "Name", Value: "Basmati Rice"},
			{ID: utils.NewID(), Label: "Rate", Value: "85"},
			{ID: utils.NewID(), Label: "Unit", Value: "kg"},
		},
		{
			{ID: utils.NewID(), Label: "Name", Value: "Refined Oil"},
			{ID: utils.NewID(), Label: "Rate", Value: "140"},
			{ID: utils.NewID(), Label: "Unit", Value: "litre"},
		},
		{
			{ID: utils.NewID(), Label: "Name", Value: "Wheat Flour"},
			{ID: utils.NewID(), Label: "Rate", Value: "42"},
			{ID: utils.NewID(), Label: "Unit", Value: "kg"},
		},
		{
			{ID: utils.NewID(), Label: "Name", Value: "Sugar"},
			{ID: utils.NewID(), Label: "Rate", Value: "44"},
			{ID: utils.NewID(), Label: "Unit", Value: "kg"},
		},
	}
	for _, fields := range items {
		store.Dispatch(billing.AddItem{ID: utils.NewID(), Fields: fields})
	}
}
