package entity

import (
	"github.com/billstock/backend/internal/domain/enum"
)

// BillRow is one line item of a bill. Price and Qty stay as the strings the
// cashier typed (possibly empty or partial numbers); numeric interpretation
// happens only at computation time and treats unparseable text as zero.
type BillRow struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Qty   string `json:"qty"`
}

// PaymentEntry is one collected payment against a bill. Entries are immutable
// once recorded and the payments list is append-only: money already taken is
// never rewritten.
type PaymentEntry struct {
	ID     string           `json:"id"`
	Amount float64          `json:"amount"`
	Mode   enum.PaymentMode `json:"mode"`
	PaidAt int64            `json:"paidAt"`
	Note   string           `json:"note,omitempty"`
}

// Bill is the aggregate root: line rows, an optional customer reference, and
// the payment ledger, identified by a sequential bill number.
//
// TotalAmount is a frozen snapshot taken at save time and is the canonical
// total for due computation from then on; row edits after saving do not move
// it until the bill is explicitly re-saved.
//
// Amount is the legacy single-payment field from before the payments ledger
// existed. It is consulted only when Payments is empty (see billing.TotalPaid).
type Bill struct {
	ID          string          `json:"id"`
	Num         int64           `json:"num"`
	Status      enum.BillStatus `json:"status"`
	Rows        []BillRow       `json:"rows"`
	Customer    *string         `json:"customer"`
	SavedAt     int64           `json:"savedAt,omitempty"`
	TotalAmount *float64        `json:"totalAmount,omitempty"`
	Payments    []PaymentEntry  `json:"payments"`
	Amount      float64         `json:"amount,omitempty"`
}

// CustomerName resolves the bill's customer reference against the customer
// catalog; empty when unset or dangling.
func (b Bill) CustomerName(customers []Entity) string {
	if b.Customer == nil {
		return ""
	}
	for _, c := range customers {
		if c.ID == *b.Customer {
			return c.Name()
		}
	}
	return ""
}

// CloneRows copies a row slice so reducer output never aliases caller slices.
func CloneRows(rows []BillRow) []BillRow {
	if rows == nil {
		return nil
	}
	out := make([]BillRow, len(rows))
	copy(out, rows)
	return out
}

// ClonePayments copies a payment slice.
func ClonePayments(payments []PaymentEntry) []PaymentEntry {
	if payments == nil {
		return nil
	}
	out := make([]PaymentEntry, len(payments))
	copy(out, payments)
	return out
}

// Clone returns a deep copy of the bill.
func (b Bill) Clone() Bill {
	out := b
	out.Rows = CloneRows(b.Rows)
	out.Payments = ClonePayments(b.Payments)
	if b.Customer != nil {
		c := *b.Customer
		out.Customer = &c
	}
	if b.TotalAmount != nil {
		t := *b.TotalAmount
		out.TotalAmount = &t
	}
	return out
}
