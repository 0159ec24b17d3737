// Package sync mirrors local state transitions into the remote store.
//
// The reconciler has no change log: it derives operations by diffing
// consecutive state snapshots per collection. Remote writes are fire and
// forget; a failure flips the sync status to error and is logged, never
// retried automatically and never allowed to block or roll back a local
// mutation. Local state is the source of truth.
package sync

import (
	"context"
	"log"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/billstock/backend/internal/application/statestore"
	"github.com/billstock/backend/internal/domain/billing"
	"github.com/billstock/backend/internal/domain/entity"
	"github.com/billstock/backend/internal/domain/enum"
	"github.com/billstock/backend/internal/infrastructure/remote"
)

const opTimeout = 10 * time.Second

// Reconciler observes (prev, next) snapshots from the state store and pushes
// the minimal upsert/delete set to the remote store.
type Reconciler struct {
	remote  remote.Store
	states  *statestore.Store
	ownerID uuid.UUID
}

// New creates a reconciler for one owner.
func New(remoteStore remote.Store, states *statestore.Store, ownerID uuid.UUID) *Reconciler {
	return &Reconciler{remote: remoteStore, states: states, ownerID: ownerID}
}

// Attach subscribes the reconciler to the state store.
func Attach(remoteStore remote.Store, states *statestore.Store, ownerID uuid.UUID) *Reconciler {
	r := New(remoteStore, states, ownerID)
	states.Subscribe(r.Observe)
	return r
}

// op is one pending remote operation, carried with enough context to log.
type op struct {
	collection string
	kind       string // "upsert" or "delete"
	id         string
	do         func(ctx context.Context) error
}

// Observe computes the operation set for one transition and hands it to a
// background goroutine. Runs on the dispatch path, so it must stay cheap:
// unchanged collections are skipped by slice identity before any value
// comparison happens.
func (r *Reconciler) Observe(prev, next billing.AppState, action billing.Action) {
	ops := r.diff(prev, next, action)
	if len(ops) == 0 {
		return
	}
	go r.apply(ops)
}

func (r *Reconciler) diff(prev, next billing.AppState, action billing.Action) []op {
	var ops []op

	if !sameEntitySlice(prev.Customers, next.Customers) {
		ops = append(ops, r.diffEntities("customers", prev.Customers, next.Customers,
			r.remote.UpsertCustomer, r.remote.DeleteCustomer)...)
	}
	if !sameEntitySlice(prev.Items, next.Items) {
		ops = append(ops, r.diffEntities("items", prev.Items, next.Items,
			r.remote.UpsertItem, r.remote.DeleteItem)...)
	}
	if !sameBillSlice(prev.Bills, next.Bills) {
		ops = append(ops, r.diffBills(prev.Bills, next.Bills, action)...)
	}

	return ops
}

// diffEntities emits an upsert for every entity that is new or whose field
// content changed, and a delete for every entity that disappeared.
func (r *Reconciler) diffEntities(
	collection string,
	prev, next []entity.Entity,
	upsert func(context.Context, uuid.UUID, entity.Entity) error,
	del func(context.Context, string) error,
) []op {
	prevByID := make(map[string]entity.Entity, len(prev))
	for _, e := range prev {
		prevByID[e.ID] = e
	}

	var ops []op
	seen := make(map[string]bool, len(next))
	for _, e := range next {
		seen[e.ID] = true
		old, existed := prevByID[e.ID]
		if existed && reflect.DeepEqual(old.Fields, e.Fields) {
			continue
		}
		e := e
		ops = append(ops, op{
			collection: collection, kind: "upsert", id: e.ID,
			do: func(ctx context.Context) error { return upsert(ctx, r.ownerID, e) },
		})
	}
	for _, e := range prev {
		if seen[e.ID] {
			continue
		}
		id := e.ID
		ops = append(ops, op{
			collection: collection, kind: "delete", id: id,
			do: func(ctx context.Context) error { return del(ctx, id) },
		})
	}
	return ops
}

// diffBills treats the archive as append/delete only. A bill present in both
// snapshots is assumed unchanged: once archived, a bill mutates only through
// the add-payment action, and that action requests its own upsert here
// instead of a content diff.
func (r *Reconciler) diffBills(prev, next []entity.Bill, action billing.Action) []op {
	addedPaymentTo := ""
	if a, ok := action.(billing.AddPayment); ok {
		addedPaymentTo = a.ID
	}

	prevIDs := make(map[string]bool, len(prev))
	for _, b := range prev {
		prevIDs[b.ID] = true
	}

	var ops []op
	seen := make(map[string]bool, len(next))
	for _, b := range next {
		seen[b.ID] = true
		if prevIDs[b.ID] && b.ID != addedPaymentTo {
			continue
		}
		b := b
		ops = append(ops, op{
			collection: "bills", kind: "upsert", id: b.ID,
			do: func(ctx context.Context) error { return r.remote.UpsertBill(ctx, r.ownerID, b) },
		})
	}
	for _, b := range prev {
		if seen[b.ID] {
			continue
		}
		id := b.ID
		ops = append(ops, op{
			collection: "bills", kind: "delete", id: id,
			do: func(ctx context.Context) error { return r.remote.DeleteBill(ctx, id) },
		})
	}
	return ops
}

// apply runs one transition's operations off the dispatch path. Each op
// targets a distinct record id, so out-of-order completion relative to other
// in-flight batches is safe. There is no ordering guarantee between an upsert
// and a later delete for the same id if the transport reorders them; that
// race is inherited from the design and left unresolved.
func (r *Reconciler) apply(ops []op) {
	r.setStatus(enum.SyncStatusSyncing)

	failed := false
	for _, o := range ops {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		if err := o.do(ctx); err != nil {
			log.Printf("[sync] %s %s id=%s failed: %v", o.kind, o.collection, o.id, err)
			failed = true
		}
		cancel()
	}

	if failed {
		r.setStatus(enum.SyncStatusError)
		return
	}
	r.setStatus(enum.SyncStatusSynced)
}

func (r *Reconciler) setStatus(status enum.SyncStatus) {
	r.states.Dispatch(billing.SetSyncStatus{Status: status})
}

// sameEntitySlice is the no-op fast path: the reducer passes untouched
// collections through as the identical slice, which this detects without
// walking contents.
func sameEntitySlice(a, b []entity.Entity) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}

func sameBillSlice(a, b []entity.Bill) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
