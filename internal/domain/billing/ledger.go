package billing

import (
	"github.com/billstock/backend/internal/domain/entity"
	"github.com/billstock/backend/pkg/money"
)

// The ledger helpers below are the single source of payment-due arithmetic.
// Every decision point (save policy, archive listing, payment prompts) must
// call these rather than re-deriving the sums.

// TotalPaid sums all recorded payments against a bill.
//
// Bills written before the payments ledger existed carry a single legacy
// Amount value instead; it is consulted only when the payments list is empty.
// When both exist the legacy amount is ignored, matching how migrated data
// has always been read.
func TotalPaid(b entity.Bill) float64 {
	if len(b.Payments) == 0 {
		if b.Amount > 0 {
			return b.Amount
		}
		return 0
	}
	amounts := make([]float64, len(b.Payments))
	for i, p := range b.Payments {
		amounts[i] = p.Amount
	}
	return money.Sum(amounts...)
}

// BillTotal is the canonical value of a bill: the frozen TotalAmount snapshot
// once the bill has been saved, otherwise the parse-safe sum of its rows.
func BillTotal(b entity.Bill) float64 {
	if b.TotalAmount != nil {
		return *b.TotalAmount
	}
	return RowsTotal(b.Rows)
}

// RowsTotal sums price*qty across rows, treating unparseable entries as zero.
func RowsTotal(rows []entity.BillRow) float64 {
	amounts := make([]float64, len(rows))
	for i, r := range rows {
		amounts[i] = money.RowAmount(r.Price, r.Qty)
	}
	return money.Sum(amounts...)
}

// BalanceDue is the signed remainder of the bill total minus everything paid.
// Negative means change is owed to the customer.
func BalanceDue(b entity.Bill) float64 {
	return money.Sub(BillTotal(b), TotalPaid(b))
}

// Settled reports whether the bill has no outstanding balance (within the
// shared epsilon). Overpaid bills are settled.
func Settled(b entity.Bill) bool {
	return money.Settled(BalanceDue(b))
}
