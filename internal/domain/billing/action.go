package billing

import (
	"github.com/billstock/backend/internal/domain/entity"
	"github.com/billstock/backend/internal/domain/enum"
)

// Action is a discrete state transition input. Concrete actions are plain
// structs; Reduce dispatches on their type.
//
// Actions that create records carry their ids and timestamps from the caller,
// keeping Reduce deterministic. When an id is left empty the reducer fills it
// with a random token, which is convenient but not replayable.
type Action interface {
	isAction()
}

// AddCustomer appends a customer to the catalog.
type AddCustomer struct {
	ID     string
	Fields []entity.Field
}

// UpdateCustomer replaces a customer's full field list.
type UpdateCustomer struct {
	ID     string
	Fields []entity.Field
}

// DeleteCustomer removes a customer from the catalog.
type DeleteCustomer struct {
	ID string
}

// AddItem appends a stock item to the catalog.
type AddItem struct {
	ID     string
	Fields []entity.Field
}

// UpdateItem replaces a stock item's full field list.
type UpdateItem struct {
	ID     string
	Fields []entity.Field
}

// DeleteItem removes a stock item from the catalog.
type DeleteItem struct {
	ID string
}

// NewBill creates a queued bill with one blank row, assigns it the next bill
// number, and makes it the active bill.
type NewBill struct {
	ID    string
	RowID string
}

// SetActiveBill points the active-bill cursor at a queued bill.
type SetActiveBill struct {
	ID string
}

// UpdateBillRows replaces the row list of a queued bill.
type UpdateBillRows struct {
	ID   string
	Rows []entity.BillRow
}

// UpdateBillCustomer sets or clears the customer reference of a queued bill.
type UpdateBillCustomer struct {
	ID       string
	Customer *string
}

// SaveBill archives a queued bill: freezes TotalAmount to the caller-supplied
// value, stamps SavedAt, and appends Payment when one is supplied. Prior
// payments are preserved verbatim. The machine does not require a payment;
// the calling layer enforces the first-save payment policy.
type SaveBill struct {
	ID          string
	TotalAmount float64
	Payment     *entity.PaymentEntry
	SavedAt     int64
}

// AddPayment appends a payment entry to an archived bill. Rows, TotalAmount
// and archive membership are untouched; this is the only in-place mutation of
// an archived bill.
type AddPayment struct {
	ID      string
	Payment entity.PaymentEntry
}

// EditBill moves an archived bill back into the queue for editing. SavedAt is
// cleared; payments and the frozen TotalAmount are kept, so money already
// collected survives the edit.
type EditBill struct {
	ID string
}

// DeleteFromQueue removes an in-progress bill.
type DeleteFromQueue struct {
	ID string
}

// DeleteBill removes an archived bill.
type DeleteBill struct {
	ID string
}

// LoadSnapshot replaces the catalogs and the archive with records fetched
// from the remote store, empties the queue, and reseeds the bill counter past
// the highest archived number so reloaded numbers are never reissued.
type LoadSnapshot struct {
	Customers []entity.Entity
	Items     []entity.Entity
	Bills     []entity.Bill
}

// SetSyncStatus records the reconciler's latest observed sync health.
type SetSyncStatus struct {
	Status enum.SyncStatus
}

func (AddCustomer) isAction()        {}
func (UpdateCustomer) isAction()     {}
func (DeleteCustomer) isAction()     {}
func (AddItem) isAction()            {}
func (UpdateItem) isAction()         {}
func (DeleteItem) isAction()         {}
func (NewBill) isAction()            {}
func (SetActiveBill) isAction()      {}
func (UpdateBillRows) isAction()     {}
func (UpdateBillCustomer) isAction() {}
func (SaveBill) isAction()           {}
func (AddPayment) isAction()         {}
func (EditBill) isAction()           {}
func (DeleteFromQueue) isAction()    {}
func (DeleteBill) isAction()         {}
func (LoadSnapshot) isAction()       {}
func (SetSyncStatus) isAction()      {}
