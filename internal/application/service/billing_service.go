package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/billstock/backend/internal/domain/billing"
	"github.com/billstock/backend/internal/domain/entity"
	"github.com/billstock/backend/internal/domain/enum"
	"github.com/billstock/backend/pkg/apperror"
	"github.com/billstock/backend/pkg/money"
	"github.com/billstock/backend/pkg/pagination"
	"github.com/billstock/backend/pkg/utils"
)

// BillingService is the calling layer in front of the billing state machine.
// The reducer itself accepts anything well-formed; policy decisions (a first
// save must collect a payment, rows must not be empty, payment amounts must be
// positive) live here.
type BillingService struct {
	states *StateManager
}

// NewBillingService creates a new billing service
func NewBillingService(states *StateManager) *BillingService {
	return &BillingService{states: states}
}

// BillDetail is a bill together with its derived money figures. Due is signed;
// a negative due is change owed back to the customer.
type BillDetail struct {
	entity.Bill
	CustomerName string  `json:"customerName,omitempty"`
	Total        float64 `json:"total"`
	Paid         float64 `json:"paid"`
	Due          float64 `json:"due"`
	DueDisplay   string  `json:"dueDisplay"`
	Settled      bool    `json:"settled"`
}

// PaymentInput is a payment as submitted by the caller.
type PaymentInput struct {
	Amount float64
	Mode   enum.PaymentMode
	Note   string
}

// QueueView is the in-progress side of the workspace: every queued bill plus
// the active bill pointer.
type QueueView struct {
	Bills        []BillDetail `json:"bills"`
	ActiveBillID string       `json:"activeBillId,omitempty"`
}

// NewBill creates a queued bill with one blank row and makes it active.
func (s *BillingService) NewBill(ctx context.Context, ownerID uuid.UUID) (*BillDetail, error) {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	id := utils.NewID()
	state := store.Dispatch(billing.NewBill{ID: id, RowID: utils.NewID()})
	bill, _ := state.QueuedBill(id)
	detail := s.detail(bill, state.Customers)
	return &detail, nil
}

// Queue returns all in-progress bills and the active bill pointer.
func (s *BillingService) Queue(ctx context.Context, ownerID uuid.UUID) (*QueueView, error) {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	state := store.State()
	bills := make([]BillDetail, 0, len(state.Queue))
	for _, b := range state.Queue {
		bills = append(bills, s.detail(b, state.Customers))
	}
	return &QueueView{Bills: bills, ActiveBillID: state.ActiveBillID}, nil
}

// Archive returns a page of saved bills, newest first.
func (s *BillingService) Archive(ctx context.Context, ownerID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[BillDetail], error) {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	state := store.State()
	bills := make([]BillDetail, 0, len(state.Bills))
	for i := len(state.Bills) - 1; i >= 0; i-- {
		bills = append(bills, s.detail(state.Bills[i], state.Customers))
	}

	page, total := pagination.Paginate(bills, params)
	return pagination.NewPaginatedResult(page, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// GetBill returns one bill by id, looking in the queue first, then the archive.
func (s *BillingService) GetBill(ctx context.Context, ownerID uuid.UUID, id string) (*BillDetail, error) {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	state := store.State()
	bill, ok := state.QueuedBill(id)
	if !ok {
		bill, ok = state.ArchivedBill(id)
	}
	if !ok {
		return nil, apperror.NewNotFoundError("Bill")
	}
	detail := s.detail(bill, state.Customers)
	return &detail, nil
}

// SetActiveBill points the workspace at a queued bill.
func (s *BillingService) SetActiveBill(ctx context.Context, ownerID uuid.UUID, id string) error {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if _, ok := store.State().QueuedBill(id); !ok {
		return apperror.NewNotFoundError("Bill")
	}
	store.Dispatch(billing.SetActiveBill{ID: id})
	return nil
}

// UpdateRows replaces the row list of a queued bill.
func (s *BillingService) UpdateRows(ctx context.Context, ownerID uuid.UUID, id string, rows []entity.BillRow) (*BillDetail, error) {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if _, ok := store.State().QueuedBill(id); !ok {
		return nil, apperror.NewNotFoundError("Bill")
	}

	rows = entity.CloneRows(rows)
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = utils.NewID()
		}
	}

	state := store.Dispatch(billing.UpdateBillRows{ID: id, Rows: rows})
	bill, _ := state.QueuedBill(id)
	detail := s.detail(bill, state.Customers)
	return &detail, nil
}

// SetBillCustomer sets or clears the customer reference of a queued bill.
func (s *BillingService) SetBillCustomer(ctx context.Context, ownerID uuid.UUID, id string, customerID *string) (*BillDetail, error) {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	state := store.State()
	if _, ok := state.QueuedBill(id); !ok {
		return nil, apperror.NewNotFoundError("Bill")
	}
	if customerID != nil {
		if _, ok := state.Customer(*customerID); !ok {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	state = store.Dispatch(billing.UpdateBillCustomer{ID: id, Customer: customerID})
	bill, _ := state.QueuedBill(id)
	detail := s.detail(bill, state.Customers)
	return &detail, nil
}

// SaveBill archives a queued bill. The first save of a bill must collect a
// payment; a bill that already carries payments (it came back to the queue via
// edit) may be re-saved without one. The total is frozen from the rows as they
// stand now.
func (s *BillingService) SaveBill(ctx context.Context, ownerID uuid.UUID, id string, payment *PaymentInput) (*BillDetail, error) {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	bill, ok := store.State().QueuedBill(id)
	if !ok {
		return nil, apperror.NewNotFoundError("Bill")
	}
	if !hasBillableRow(bill.Rows) {
		return nil, apperror.NewBadRequestError("Bill has no rows to save")
	}
	if payment == nil && len(bill.Payments) == 0 && bill.Amount <= 0 {
		return nil, apperror.NewBadRequestError("A payment is required to save a bill")
	}

	var entry *entity.PaymentEntry
	if payment != nil {
		e, err := s.paymentEntry(payment)
		if err != nil {
			return nil, err
		}
		entry = &e
	}

	state := store.Dispatch(billing.SaveBill{
		ID:          id,
		TotalAmount: billing.RowsTotal(bill.Rows),
		Payment:     entry,
		SavedAt:     time.Now().UnixMilli(),
	})
	saved, _ := state.ArchivedBill(id)
	detail := s.detail(saved, state.Customers)
	return &detail, nil
}

// AddPayment appends a payment to an archived bill. Overpayment is allowed;
// the due simply goes negative.
func (s *BillingService) AddPayment(ctx context.Context, ownerID uuid.UUID, id string, payment *PaymentInput) (*BillDetail, error) {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if _, ok := store.State().ArchivedBill(id); !ok {
		return nil, apperror.NewNotFoundError("Bill")
	}

	entry, err := s.paymentEntry(payment)
	if err != nil {
		return nil, err
	}

	state := store.Dispatch(billing.AddPayment{ID: id, Payment: entry})
	bill, _ := state.ArchivedBill(id)
	detail := s.detail(bill, state.Customers)
	return &detail, nil
}

// EditBill moves an archived bill back into the queue and makes it active.
// Payments already collected travel with it.
func (s *BillingService) EditBill(ctx context.Context, ownerID uuid.UUID, id string) (*BillDetail, error) {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if _, ok := store.State().ArchivedBill(id); !ok {
		return nil, apperror.NewNotFoundError("Bill")
	}

	state := store.Dispatch(billing.EditBill{ID: id})
	bill, _ := state.QueuedBill(id)
	detail := s.detail(bill, state.Customers)
	return &detail, nil
}

// DeleteFromQueue discards an in-progress bill.
func (s *BillingService) DeleteFromQueue(ctx context.Context, ownerID uuid.UUID, id string) error {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if _, ok := store.State().QueuedBill(id); !ok {
		return apperror.NewNotFoundError("Bill")
	}
	store.Dispatch(billing.DeleteFromQueue{ID: id})
	return nil
}

// DeleteBill removes an archived bill, payments and all.
func (s *BillingService) DeleteBill(ctx context.Context, ownerID uuid.UUID, id string) error {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if _, ok := store.State().ArchivedBill(id); !ok {
		return apperror.NewNotFoundError("Bill")
	}
	store.Dispatch(billing.DeleteBill{ID: id})
	return nil
}

// SyncStatus reports the reconciler's latest observed sync health for an owner.
func (s *BillingService) SyncStatus(ctx context.Context, ownerID uuid.UUID) (enum.SyncStatus, error) {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return store.State().SyncStatus, nil
}

func (s *BillingService) paymentEntry(payment *PaymentInput) (entity.PaymentEntry, error) {
	if payment == nil || payment.Amount <= 0 {
		return entity.PaymentEntry{}, apperror.NewBadRequestError("Payment amount must be positive")
	}
	if !payment.Mode.IsValid() {
		return entity.PaymentEntry{}, apperror.NewBadRequestError("Invalid payment mode")
	}
	return entity.PaymentEntry{
		ID:     utils.NewID(),
		Amount: payment.Amount,
		Mode:   payment.Mode,
		PaidAt: time.Now().UnixMilli(),
		Note:   payment.Note,
	}, nil
}

func (s *BillingService) detail(bill entity.Bill, customers []entity.Entity) BillDetail {
	total := billing.BillTotal(bill)
	paid := billing.TotalPaid(bill)
	due := billing.BalanceDue(bill)
	return BillDetail{
		Bill:         bill,
		CustomerName: bill.CustomerName(customers),
		Total:        total,
		Paid:         paid,
		Due:          due,
		DueDisplay:   money.FormatINR(due),
		Settled:      billing.Settled(bill),
	}
}

// hasBillableRow reports whether at least one row carries content worth
// keeping. A single untouched blank row does not make a bill saveable.
func hasBillableRow(rows []entity.BillRow) bool {
	for _, r := range rows {
		if strings.TrimSpace(r.Name) != "" || money.RowAmount(r.Price, r.Qty) > 0 {
			return true
		}
	}
	return false
}
