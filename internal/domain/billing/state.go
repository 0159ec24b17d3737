// Package billing is the bill and payment state machine: a pure reducer over
// an immutable application state.
//
// All state transitions are total functions. Reduce never performs I/O, never
// panics, and treats an action referencing an unknown bill or entity id as a
// no-op that returns its input unchanged. Collections that a transition does
// not touch are passed through as the same slice value, which is what lets the
// sync reconciler skip them cheaply.
package billing

import (
	"github.com/billstock/backend/internal/domain/entity"
	"github.com/billstock/backend/internal/domain/enum"
)

// AppState is the full application state: catalogs, the in-progress bill
// queue, the saved-bill archive, the active bill pointer, and the monotonic
// bill counter.
//
// Queue and Bills are disjoint; a bill lives in exactly one of them and its
// Status field mirrors which. ActiveBillID always references a queue entry or
// is empty. NextBillNum is carried in the state itself so the reducer has no
// hidden counter; it only ever increases within a process lifetime.
type AppState struct {
	Customers    []entity.Entity
	Items        []entity.Entity
	Bills        []entity.Bill
	Queue        []entity.Bill
	ActiveBillID string
	NextBillNum  int64
	SyncStatus   enum.SyncStatus
}

// NewState returns the empty initial state. Bill numbering starts at 1.
func NewState() AppState {
	return AppState{
		NextBillNum: 1,
		SyncStatus:  enum.SyncStatusIdle,
	}
}

// QueuedBill returns the queued bill with the given id.
func (s AppState) QueuedBill(id string) (entity.Bill, bool) {
	for _, b := range s.Queue {
		if b.ID == id {
			return b, true
		}
	}
	return entity.Bill{}, false
}

// ArchivedBill returns the archived bill with the given id.
func (s AppState) ArchivedBill(id string) (entity.Bill, bool) {
	for _, b := range s.Bills {
		if b.ID == id {
			return b, true
		}
	}
	return entity.Bill{}, false
}

// Customer returns the customer with the given id.
func (s AppState) Customer(id string) (entity.Entity, bool) {
	return findEntity(s.Customers, id)
}

// Item returns the stock item with the given id.
func (s AppState) Item(id string) (entity.Entity, bool) {
	return findEntity(s.Items, id)
}

// ActiveBill returns the bill ActiveBillID points at, if any.
func (s AppState) ActiveBill() (entity.Bill, bool) {
	if s.ActiveBillID == "" {
		return entity.Bill{}, false
	}
	return s.QueuedBill(s.ActiveBillID)
}

func findEntity(list []entity.Entity, id string) (entity.Entity, bool) {
	for _, e := range list {
		if e.ID == id {
			return e, true
		}
	}
	return entity.Entity{}, false
}
