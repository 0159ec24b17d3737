package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/billstock/backend/internal/domain/entity"
	"github.com/billstock/backend/internal/domain/enum"
)

func TestTotalPaidSumsLedger(t *testing.T) {
	bill := entity.Bill{Payments: []entity.PaymentEntry{
		{ID: "p1", Amount: 10.10, Mode: enum.PaymentModeCash},
		{ID: "p2", Amount: 20.20, Mode: enum.PaymentModeUPI},
	}}

	assert.InDelta(t, 30.30, TotalPaid(bill), 1e-9)
}

func TestTotalPaidLegacyAmountFallback(t *testing.T) {
	legacy := entity.Bill{Amount: 45}
	assert.Equal(t, 45.0, TotalPaid(legacy))

	// Once a ledger exists the legacy amount is shadowed, not added.
	migrated := entity.Bill{
		Amount:   45,
		Payments: []entity.PaymentEntry{{ID: "p1", Amount: 10}},
	}
	assert.Equal(t, 10.0, TotalPaid(migrated))

	empty := entity.Bill{}
	assert.Zero(t, TotalPaid(empty))
}

func TestBillTotalPrefersFrozenSnapshot(t *testing.T) {
	frozen := 100.0
	bill := entity.Bill{
		TotalAmount: &frozen,
		Rows:        []entity.BillRow{{ID: "r1", Price: "10", Qty: "2"}},
	}
	assert.Equal(t, 100.0, BillTotal(bill), "row edits do not move a frozen total")

	unsaved := entity.Bill{Rows: []entity.BillRow{{ID: "r1", Price: "10", Qty: "2"}}}
	assert.InDelta(t, 20.0, BillTotal(unsaved), 1e-9)
}

func TestRowsTotalTreatsUnparseableAsZero(t *testing.T) {
	rows := []entity.BillRow{
		{ID: "r1", Price: "10.5", Qty: "2"},
		{ID: "r2", Price: "abc", Qty: "3"},
		{ID: "r3", Price: "5", Qty: ""},
	}
	assert.InDelta(t, 21.0, RowsTotal(rows), 1e-9)
}

func TestBalanceDueIsSigned(t *testing.T) {
	total := 20.0
	bill := entity.Bill{
		TotalAmount: &total,
		Payments:    []entity.PaymentEntry{{ID: "p1", Amount: 25}},
	}
	assert.InDelta(t, -5.0, BalanceDue(bill), 1e-9)
}

func TestSettledWithinEpsilon(t *testing.T) {
	total := 10.0
	almost := entity.Bill{
		TotalAmount: &total,
		Payments:    []entity.PaymentEntry{{ID: "p1", Amount: 9.995}},
	}
	assert.True(t, Settled(almost), "residue below a paisa counts as settled")

	short := entity.Bill{
		TotalAmount: &total,
		Payments:    []entity.PaymentEntry{{ID: "p1", Amount: 9.9}},
	}
	assert.False(t, Settled(short))
}
