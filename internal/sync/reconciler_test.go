package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billstock/backend/internal/application/statestore"
	"github.com/billstock/backend/internal/domain/billing"
	"github.com/billstock/backend/internal/domain/entity"
	"github.com/billstock/backend/internal/domain/enum"
	"github.com/billstock/backend/internal/infrastructure/remote"
)

func testReconciler(t *testing.T) (*Reconciler, *remote.MemoryStore, *statestore.Store) {
	t.Helper()
	mem := remote.NewMemoryStore()
	states := statestore.New(billing.NewState())
	return New(mem, states, uuid.New()), mem, states
}

func opKeys(ops []op) []string {
	keys := make([]string, len(ops))
	for i, o := range ops {
		keys[i] = o.collection + "/" + o.kind + "/" + o.id
	}
	return keys
}

func ent(id, name string) entity.Entity {
	return entity.Entity{ID: id, Fields: []entity.Field{{ID: "f1", Label: "Name", Value: name}}}
}

func TestDiffSkipsUnchangedCollectionsBySliceIdentity(t *testing.T) {
	r, _, _ := testReconciler(t)

	state := billing.Reduce(billing.NewState(), billing.AddCustomer{ID: "c1"})
	next := billing.Reduce(state, billing.SetSyncStatus{Status: enum.SyncStatusSynced})

	ops := r.diff(state, next, billing.SetSyncStatus{Status: enum.SyncStatusSynced})
	assert.Empty(t, ops)
}

func TestDiffEntitiesEmitsUpsertsAndDeletes(t *testing.T) {
	r, _, _ := testReconciler(t)

	prev := billing.AppState{Customers: []entity.Entity{ent("a", "A"), ent("b", "B")}}
	next := billing.AppState{Customers: []entity.Entity{ent("a", "A changed"), ent("c", "C")}}

	ops := r.diff(prev, next, billing.UpdateCustomer{ID: "a"})

	assert.ElementsMatch(t, []string{
		"customers/upsert/a",
		"customers/upsert/c",
		"customers/delete/b",
	}, opKeys(ops))
}

func TestDiffEntitiesSkipsValueEqualRecords(t *testing.T) {
	r, _, _ := testReconciler(t)

	prev := billing.AppState{Items: []entity.Entity{ent("a", "A"), ent("b", "B")}}
	// Same content, different slice: only the changed record syncs.
	next := billing.AppState{Items: []entity.Entity{ent("a", "A"), ent("b", "B changed")}}

	ops := r.diff(prev, next, billing.UpdateItem{ID: "b"})

	assert.Equal(t, []string{"items/upsert/b"}, opKeys(ops))
}

func TestDiffBillsIsAppendAndDeleteOnly(t *testing.T) {
	r, _, _ := testReconciler(t)

	b1 := entity.Bill{ID: "b1", Num: 1}
	b2 := entity.Bill{ID: "b2", Num: 2}
	b3 := entity.Bill{ID: "b3", Num: 3}

	prev := billing.AppState{Bills: []entity.Bill{b1, b2}}
	next := billing.AppState{Bills: []entity.Bill{b1, b3}}

	ops := r.diff(prev, next, billing.SaveBill{ID: "b3"})

	assert.ElementsMatch(t, []string{
		"bills/upsert/b3",
		"bills/delete/b2",
	}, opKeys(ops))
}

func TestDiffBillsAddPaymentForcesUpsert(t *testing.T) {
	r, _, _ := testReconciler(t)

	b1 := entity.Bill{ID: "b1", Num: 1}
	b1Paid := b1.Clone()
	b1Paid.Payments = []entity.PaymentEntry{{ID: "p1", Amount: 10}}

	prev := billing.AppState{Bills: []entity.Bill{b1}}
	next := billing.AppState{Bills: []entity.Bill{b1Paid}}

	ops := r.diff(prev, next, billing.AddPayment{ID: "b1"})
	assert.Equal(t, []string{"bills/upsert/b1"}, opKeys(ops))

	// Without the action hint the archive diff assumes membership equality.
	ops = r.diff(prev, next, billing.SetSyncStatus{})
	assert.Empty(t, ops)
}

func TestAttachMirrorsDispatchesToRemote(t *testing.T) {
	mem := remote.NewMemoryStore()
	states := statestore.New(billing.NewState())
	ownerID := uuid.New()
	Attach(mem, states, ownerID)

	states.Dispatch(billing.AddCustomer{ID: "c1", Fields: []entity.Field{
		{ID: "f1", Label: "Name", Value: "Asha"},
	}})

	require.Eventually(t, func() bool {
		snap, err := mem.FetchAll(context.Background(), ownerID)
		if err != nil || len(snap.Customers) != 1 {
			return false
		}
		return states.State().SyncStatus == enum.SyncStatusSynced
	}, 2*time.Second, 10*time.Millisecond)

	snap, err := mem.FetchAll(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, "c1", snap.Customers[0].ID)
	assert.Equal(t, "Asha", snap.Customers[0].Name())
}

func TestAttachMirrorsSaveAndDelete(t *testing.T) {
	mem := remote.NewMemoryStore()
	states := statestore.New(billing.NewState())
	ownerID := uuid.New()
	Attach(mem, states, ownerID)

	states.Dispatch(billing.NewBill{ID: "b1", RowID: "r1"})
	states.Dispatch(billing.SaveBill{ID: "b1", TotalAmount: 20, SavedAt: 1})

	require.Eventually(t, func() bool {
		snap, _ := mem.FetchAll(context.Background(), ownerID)
		return len(snap.Bills) == 1
	}, 2*time.Second, 10*time.Millisecond)

	states.Dispatch(billing.DeleteBill{ID: "b1"})

	require.Eventually(t, func() bool {
		snap, _ := mem.FetchAll(context.Background(), ownerID)
		return len(snap.Bills) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

// failingStore wraps a working store but refuses customer upserts.
type failingStore struct {
	remote.Store
}

func (f failingStore) UpsertCustomer(context.Context, uuid.UUID, entity.Entity) error {
	return errors.New("remote unavailable")
}

func TestRemoteFailureFlipsSyncStatusToError(t *testing.T) {
	mem := remote.NewMemoryStore()
	states := statestore.New(billing.NewState())
	Attach(failingStore{Store: mem}, states, uuid.New())

	states.Dispatch(billing.AddCustomer{ID: "c1"})

	require.Eventually(t, func() bool {
		return states.State().SyncStatus == enum.SyncStatusError
	}, 2*time.Second, 10*time.Millisecond)

	// The local mutation stands even though the mirror write failed.
	assert.Len(t, states.State().Customers, 1)
}
