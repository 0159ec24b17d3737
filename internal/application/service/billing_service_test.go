package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billstock/backend/internal/domain/entity"
	"github.com/billstock/backend/internal/domain/enum"
	"github.com/billstock/backend/internal/infrastructure/remote"
	"github.com/billstock/backend/pkg/apperror"
	"github.com/billstock/backend/pkg/pagination"
)

func newBillingFixture(t *testing.T) (*BillingService, *CatalogService, uuid.UUID) {
	t.Helper()
	mgr := NewStateManager(remote.NewMemoryStore(), false)
	return NewBillingService(mgr), NewCatalogService(mgr), uuid.New()
}

func errCode(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	return apperror.GetAppError(err).Code
}

func cashPayment(amount float64) *PaymentInput {
	return &PaymentInput{Amount: amount, Mode: enum.PaymentModeCash}
}

func TestNewBillStartsBlankAndActive(t *testing.T) {
	svc, _, owner := newBillingFixture(t)
	ctx := context.Background()

	bill, err := svc.NewBill(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), bill.Num)
	require.Len(t, bill.Rows, 1)
	assert.Equal(t, "1", bill.Rows[0].Qty)

	queue, err := svc.Queue(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, bill.ID, queue.ActiveBillID)
	require.Len(t, queue.Bills, 1)
}

func TestSaveBillRequiresContent(t *testing.T) {
	svc, _, owner := newBillingFixture(t)
	ctx := context.Background()

	bill, err := svc.NewBill(ctx, owner)
	require.NoError(t, err)

	_, err = svc.SaveBill(ctx, owner, bill.ID, cashPayment(10))
	assert.Equal(t, http.StatusBadRequest, errCode(t, err), "a single blank row is not saveable")
}

func TestSaveBillRequiresFirstPayment(t *testing.T) {
	svc, _, owner := newBillingFixture(t)
	ctx := context.Background()

	bill, err := svc.NewBill(ctx, owner)
	require.NoError(t, err)
	_, err = svc.UpdateRows(ctx, owner, bill.ID, []entity.BillRow{
		{Name: "Rice", Price: "10", Qty: "2"},
	})
	require.NoError(t, err)

	_, err = svc.SaveBill(ctx, owner, bill.ID, nil)
	assert.Equal(t, http.StatusBadRequest, errCode(t, err))

	_, err = svc.SaveBill(ctx, owner, bill.ID, &PaymentInput{Amount: 10, Mode: "cheque"})
	assert.Equal(t, http.StatusBadRequest, errCode(t, err), "unknown payment mode is rejected")

	_, err = svc.SaveBill(ctx, owner, bill.ID, cashPayment(0))
	assert.Equal(t, http.StatusBadRequest, errCode(t, err), "zero payment is rejected")
}

func TestSaveBillFreezesTotalAndComputesDue(t *testing.T) {
	svc, _, owner := newBillingFixture(t)
	ctx := context.Background()

	bill, err := svc.NewBill(ctx, owner)
	require.NoError(t, err)
	_, err = svc.UpdateRows(ctx, owner, bill.ID, []entity.BillRow{
		{Name: "Rice", Price: "10", Qty: "2"},
	})
	require.NoError(t, err)

	saved, err := svc.SaveBill(ctx, owner, bill.ID, cashPayment(25))
	require.NoError(t, err)

	assert.Equal(t, enum.BillStatusArchived, saved.Status)
	require.NotNil(t, saved.TotalAmount)
	assert.InDelta(t, 20.0, *saved.TotalAmount, 1e-9)
	assert.InDelta(t, 25.0, saved.Paid, 1e-9)
	assert.InDelta(t, -5.0, saved.Due, 1e-9)
	assert.Equal(t, "₹-5.00", saved.DueDisplay)
	assert.True(t, saved.Settled)
	assert.NotEmpty(t, saved.Payments[0].ID)
	assert.NotZero(t, saved.SavedAt)
}

func TestEditedBillResavesWithoutNewPayment(t *testing.T) {
	svc, _, owner := newBillingFixture(t)
	ctx := context.Background()

	bill, err := svc.NewBill(ctx, owner)
	require.NoError(t, err)
	_, err = svc.UpdateRows(ctx, owner, bill.ID, []entity.BillRow{
		{Name: "Rice", Price: "10", Qty: "2"},
	})
	require.NoError(t, err)
	_, err = svc.SaveBill(ctx, owner, bill.ID, cashPayment(25))
	require.NoError(t, err)

	reopened, err := svc.EditBill(ctx, owner, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.BillStatusQueued, reopened.Status)
	require.Len(t, reopened.Payments, 1)

	_, err = svc.UpdateRows(ctx, owner, bill.ID, []entity.BillRow{
		{Name: "Rice", Price: "10", Qty: "3"},
	})
	require.NoError(t, err)

	resaved, err := svc.SaveBill(ctx, owner, bill.ID, nil)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, *resaved.TotalAmount, 1e-9)
	assert.InDelta(t, 25.0, resaved.Paid, 1e-9)
	assert.InDelta(t, 5.0, resaved.Due, 1e-9)
	assert.False(t, resaved.Settled)
}

func TestAddPaymentAgainstArchivedBill(t *testing.T) {
	svc, _, owner := newBillingFixture(t)
	ctx := context.Background()

	bill, err := svc.NewBill(ctx, owner)
	require.NoError(t, err)
	_, err = svc.UpdateRows(ctx, owner, bill.ID, []entity.BillRow{
		{Name: "Rice", Price: "100", Qty: "1"},
	})
	require.NoError(t, err)
	_, err = svc.SaveBill(ctx, owner, bill.ID, cashPayment(60))
	require.NoError(t, err)

	// Payments only attach once the bill is archived.
	_, err = svc.AddPayment(ctx, owner, "missing", cashPayment(40))
	assert.Equal(t, http.StatusNotFound, errCode(t, err))

	paid, err := svc.AddPayment(ctx, owner, bill.ID, &PaymentInput{
		Amount: 40, Mode: enum.PaymentModeUPI, Note: "gpay",
	})
	require.NoError(t, err)
	require.Len(t, paid.Payments, 2)
	assert.InDelta(t, 100.0, paid.Paid, 1e-9)
	assert.True(t, paid.Settled)
}

func TestBillLookupsReturnNotFound(t *testing.T) {
	svc, _, owner := newBillingFixture(t)
	ctx := context.Background()

	_, err := svc.GetBill(ctx, owner, "missing")
	assert.Equal(t, http.StatusNotFound, errCode(t, err))

	err = svc.SetActiveBill(ctx, owner, "missing")
	assert.Equal(t, http.StatusNotFound, errCode(t, err))

	_, err = svc.UpdateRows(ctx, owner, "missing", nil)
	assert.Equal(t, http.StatusNotFound, errCode(t, err))

	err = svc.DeleteBill(ctx, owner, "missing")
	assert.Equal(t, http.StatusNotFound, errCode(t, err))
}

func TestSetBillCustomerValidatesCatalog(t *testing.T) {
	svc, catalog, owner := newBillingFixture(t)
	ctx := context.Background()

	bill, err := svc.NewBill(ctx, owner)
	require.NoError(t, err)

	missing := "ghost"
	_, err = svc.SetBillCustomer(ctx, owner, bill.ID, &missing)
	assert.Equal(t, http.StatusNotFound, errCode(t, err))

	cust, err := catalog.AddCustomer(ctx, owner, []entity.Field{
		{Label: "Name", Value: "Asha"},
	})
	require.NoError(t, err)

	withCust, err := svc.SetBillCustomer(ctx, owner, bill.ID, &cust.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", withCust.CustomerName)

	cleared, err := svc.SetBillCustomer(ctx, owner, bill.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.Customer)
}

func TestArchiveIsNewestFirstAndPaginated(t *testing.T) {
	svc, _, owner := newBillingFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		bill, err := svc.NewBill(ctx, owner)
		require.NoError(t, err)
		_, err = svc.UpdateRows(ctx, owner, bill.ID, []entity.BillRow{
			{Name: "Rice", Price: "10", Qty: "1"},
		})
		require.NoError(t, err)
		_, err = svc.SaveBill(ctx, owner, bill.ID, cashPayment(10))
		require.NoError(t, err)
	}

	page, err := svc.Archive(ctx, owner, &pagination.PaginationParams{Page: 1, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, int64(3), page.Items[0].Num, "latest save comes first")
	assert.Equal(t, int64(2), page.Items[1].Num)

	rest, err := svc.Archive(ctx, owner, &pagination.PaginationParams{Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, rest.Items, 1)
	assert.Equal(t, int64(1), rest.Items[0].Num)
}

func TestDeleteFromQueueAndSyncStatus(t *testing.T) {
	svc, _, owner := newBillingFixture(t)
	ctx := context.Background()

	bill, err := svc.NewBill(ctx, owner)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFromQueue(ctx, owner, bill.ID))
	queue, err := svc.Queue(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, queue.Bills)
	assert.Empty(t, queue.ActiveBillID)

	status, err := svc.SyncStatus(ctx, owner)
	require.NoError(t, err)
	assert.NotEmpty(t, status)
}
