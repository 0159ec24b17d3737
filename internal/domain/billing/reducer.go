package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/billstock/backend/internal/domain/entity"
	"github.com/billstock/backend/internal/domain/enum"
)

// Reduce applies one action to the state and returns the resulting state.
//
// The input state is never mutated: changed collections are rebuilt as fresh
// slices, untouched collections are carried over as the same slice value.
// Unknown action types and unknown target ids return the input unchanged.
func Reduce(state AppState, action Action) AppState {
	switch a := action.(type) {
	case AddCustomer:
		next := state
		next.Customers = appendEntity(state.Customers, a.ID, a.Fields)
		return next

	case UpdateCustomer:
		updated, ok := replaceEntity(state.Customers, a.ID, a.Fields)
		if !ok {
			return state
		}
		next := state
		next.Customers = updated
		return next

	case DeleteCustomer:
		filtered, ok := removeEntity(state.Customers, a.ID)
		if !ok {
			return state
		}
		next := state
		next.Customers = filtered
		return next

	case AddItem:
		next := state
		next.Items = appendEntity(state.Items, a.ID, a.Fields)
		return next

	case UpdateItem:
		updated, ok := replaceEntity(state.Items, a.ID, a.Fields)
		if !ok {
			return state
		}
		next := state
		next.Items = updated
		return next

	case DeleteItem:
		filtered, ok := removeEntity(state.Items, a.ID)
		if !ok {
			return state
		}
		next := state
		next.Items = filtered
		return next

	case NewBill:
		return reduceNewBill(state, a)

	case SetActiveBill:
		if _, ok := state.QueuedBill(a.ID); !ok {
			return state
		}
		next := state
		next.ActiveBillID = a.ID
		return next

	case UpdateBillRows:
		return updateQueued(state, a.ID, func(b entity.Bill) entity.Bill {
			b.Rows = entity.CloneRows(a.Rows)
			return b
		})

	case UpdateBillCustomer:
		return updateQueued(state, a.ID, func(b entity.Bill) entity.Bill {
			if a.Customer != nil {
				c := *a.Customer
				b.Customer = &c
			} else {
				b.Customer = nil
			}
			return b
		})

	case SaveBill:
		return reduceSaveBill(state, a)

	case AddPayment:
		return reduceAddPayment(state, a)

	case EditBill:
		return reduceEditBill(state, a)

	case DeleteFromQueue:
		return reduceDeleteFromQueue(state, a)

	case DeleteBill:
		filtered, ok := removeBill(state.Bills, a.ID)
		if !ok {
			return state
		}
		next := state
		next.Bills = filtered
		return next

	case LoadSnapshot:
		return reduceLoadSnapshot(state, a)

	case SetSyncStatus:
		next := state
		next.SyncStatus = a.Status
		return next
	}

	return state
}

func reduceNewBill(state AppState, a NewBill) AppState {
	id := a.ID
	if id == "" {
		id = uuid.NewString()
	}
	rowID := a.RowID
	if rowID == "" {
		rowID = uuid.NewString()
	}

	bill := entity.Bill{
		ID:     id,
		Num:    state.NextBillNum,
		Status: enum.BillStatusQueued,
		Rows: []entity.BillRow{
			{ID: rowID, Name: "", Price: "", Qty: "1"},
		},
		Customer: nil,
		Payments: []entity.PaymentEntry{},
	}

	next := state
	next.Queue = appendBill(state.Queue, bill)
	next.ActiveBillID = id
	next.NextBillNum = state.NextBillNum + 1
	return next
}

func reduceSaveBill(state AppState, a SaveBill) AppState {
	bill, ok := state.QueuedBill(a.ID)
	if !ok {
		return state
	}

	saved := bill.Clone()
	saved.Status = enum.BillStatusArchived
	saved.SavedAt = a.SavedAt
	if saved.SavedAt == 0 {
		saved.SavedAt = time.Now().UnixMilli()
	}
	total := a.TotalAmount
	saved.TotalAmount = &total
	if a.Payment != nil {
		saved.Payments = append(saved.Payments, withPaymentDefaults(*a.Payment))
	}

	remaining, _ := removeBill(state.Queue, a.ID)

	next := state
	next.Queue = remaining
	next.Bills = appendBill(state.Bills, saved)
	if state.ActiveBillID == a.ID {
		next.ActiveBillID = firstBillID(remaining)
	}
	return next
}

func reduceAddPayment(state AppState, a AddPayment) AppState {
	idx := billIndex(state.Bills, a.ID)
	if idx < 0 {
		return state
	}

	bills := make([]entity.Bill, len(state.Bills))
	copy(bills, state.Bills)
	updated := bills[idx].Clone()
	updated.Payments = append(updated.Payments, withPaymentDefaults(a.Payment))
	bills[idx] = updated

	next := state
	next.Bills = bills
	return next
}

func reduceEditBill(state AppState, a EditBill) AppState {
	bill, ok := state.ArchivedBill(a.ID)
	if !ok {
		return state
	}

	reopened := bill.Clone()
	reopened.Status = enum.BillStatusQueued
	reopened.SavedAt = 0

	filtered, _ := removeBill(state.Bills, a.ID)

	next := state
	next.Bills = filtered
	next.Queue = appendBill(state.Queue, reopened)
	next.ActiveBillID = a.ID
	return next
}

func reduceDeleteFromQueue(state AppState, a DeleteFromQueue) AppState {
	remaining, ok := removeBill(state.Queue, a.ID)
	if !ok {
		return state
	}

	next := state
	next.Queue = remaining
	if state.ActiveBillID == a.ID {
		next.ActiveBillID = firstBillID(remaining)
	}
	return next
}

func reduceLoadSnapshot(state AppState, a LoadSnapshot) AppState {
	next := state
	next.Customers = cloneEntities(a.Customers)
	next.Items = cloneEntities(a.Items)
	next.Bills = cloneBills(a.Bills)
	next.Queue = nil
	next.ActiveBillID = ""

	// Never reissue a number already present in the loaded archive, and never
	// move the counter backwards within a process lifetime.
	maxNum := int64(0)
	for _, b := range a.Bills {
		if b.Num > maxNum {
			maxNum = b.Num
		}
	}
	if maxNum+1 > next.NextBillNum {
		next.NextBillNum = maxNum + 1
	}
	return next
}

// updateQueued rewrites one queued bill in place; unknown ids are no-ops.
func updateQueued(state AppState, id string, fn func(entity.Bill) entity.Bill) AppState {
	idx := billIndex(state.Queue, id)
	if idx < 0 {
		return state
	}

	queue := make([]entity.Bill, len(state.Queue))
	copy(queue, state.Queue)
	queue[idx] = fn(queue[idx].Clone())

	next := state
	next.Queue = queue
	return next
}

func withPaymentDefaults(p entity.PaymentEntry) entity.PaymentEntry {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PaidAt == 0 {
		p.PaidAt = time.Now().UnixMilli()
	}
	if p.Amount < 0 {
		p.Amount = 0
	}
	return p
}

func appendEntity(list []entity.Entity, id string, fields []entity.Field) []entity.Entity {
	if id == "" {
		id = uuid.NewString()
	}
	out := make([]entity.Entity, len(list), len(list)+1)
	copy(out, list)
	return append(out, entity.Entity{ID: id, Fields: entity.CloneFields(fields)})
}

func replaceEntity(list []entity.Entity, id string, fields []entity.Field) ([]entity.Entity, bool) {
	idx := -1
	for i, e := range list {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	out := make([]entity.Entity, len(list))
	copy(out, list)
	out[idx] = entity.Entity{ID: id, Fields: entity.CloneFields(fields)}
	return out, true
}

func removeEntity(list []entity.Entity, id string) ([]entity.Entity, bool) {
	found := false
	out := make([]entity.Entity, 0, len(list))
	for _, e := range list {
		if e.ID == id {
			found = true
			continue
		}
		out = append(out, e)
	}
	if !found {
		return nil, false
	}
	return out, true
}

func appendBill(list []entity.Bill, b entity.Bill) []entity.Bill {
	out := make([]entity.Bill, len(list), len(list)+1)
	copy(out, list)
	return append(out, b)
}

func removeBill(list []entity.Bill, id string) ([]entity.Bill, bool) {
	found := false
	out := make([]entity.Bill, 0, len(list))
	for _, b := range list {
		if b.ID == id {
			found = true
			continue
		}
		out = append(out, b)
	}
	if !found {
		return list, false
	}
	return out, true
}

func billIndex(list []entity.Bill, id string) int {
	for i, b := range list {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func firstBillID(list []entity.Bill) string {
	if len(list) == 0 {
		return ""
	}
	return list[0].ID
}

func cloneEntities(list []entity.Entity) []entity.Entity {
	if list == nil {
		return nil
	}
	out := make([]entity.Entity, len(list))
	for i, e := range list {
		out[i] = entity.Entity{ID: e.ID, Fields: entity.CloneFields(e.Fields)}
	}
	return out
}

func cloneBills(list []entity.Bill) []entity.Bill {
	if list == nil {
		return nil
	}
	out := make([]entity.Bill, len(list))
	for i, b := range list {
		out[i] = b.Clone()
	}
	return out
}
