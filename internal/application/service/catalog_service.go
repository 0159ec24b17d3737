package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/billstock/backend/internal/domain/billing"
	"github.com/billstock/backend/internal/domain/entity"
	"github.com/billstock/backend/pkg/apperror"
	"github.com/billstock/backend/pkg/utils"
)

// CatalogService handles customer and stock item catalog operations. All
// mutations go through the owner's state store; the reconciler picks them up
// from there.
type CatalogService struct {
	states *StateManager
}

// NewCatalogService creates a new catalog service
func NewCatalogService(states *StateManager) *CatalogService {
	return &CatalogService{states: states}
}

// ListCustomers returns the full customer catalog for an owner.
func (s *CatalogService) ListCustomers(ctx context.Context, ownerID uuid.UUID) ([]entity.Entity, error) {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	customers := store.State().Customers
	if customers == nil {
		customers = []entity.Entity{}
	}
	return customers, nil
}

// AddCustomer creates a customer from a free-form field list.
func (s *CatalogService) AddCustomer(ctx context.Context, ownerID uuid.UUID, fields []entity.Field) (*entity.Entity, error) {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	fields, err = prepareFields(fields)
	if err != nil {
		return nil, err
	}

	id := utils.NewID()
	state := store.Dispatch(billing.AddCustomer{ID: id, Fields: fields})
	customer, _ := state.Customer(id)
	return &customer, nil
}

// UpdateCustomer replaces a customer's full field list.
func (s *CatalogService) UpdateCustomer(ctx context.Context, ownerID uuid.UUID, id string, fields []entity.Field) (*entity.Entity, error) {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if _, ok := store.State().Customer(id); !ok {
		return nil, apperror.NewNotFoundError("Customer")
	}

	fields, err = prepareFields(fields)
	if err != nil {
		return nil, err
	}

	state := store.Dispatch(billing.UpdateCustomer{ID: id, Fields: fields})
	customer, _ := state.Customer(id)
	return &customer, nil
}

// DeleteCustomer removes a customer. Bills referencing the customer keep their
// reference; the name simply stops resolving.
func (s *CatalogService) DeleteCustomer(ctx context.Context, ownerID uuid.UUID, id string) error {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if _, ok := store.State().Customer(id); !ok {
		return apperror.NewNotFoundError("Customer")
	}
	store.Dispatch(billing.DeleteCustomer{ID: id})
	return nil
}

// ListItems returns the full stock item catalog for an owner.
func (s *CatalogService) ListItems(ctx context.Context, ownerID uuid.UUID) ([]entity.Entity, error) {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	items := store.State().Items
	if items == nil {
		items = []entity.Entity{}
	}
	return items, nil
}

// AddItem creates a stock item from a free-form field list.
func (s *CatalogService) AddItem(ctx context.Context, ownerID uuid.UUID, fields []entity.Field) (*entity.Entity, error) {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	fields, err = prepareFields(fields)
	if err != nil {
		return nil, err
	}

	id := utils.NewID()
	state := store.Dispatch(billing.AddItem{ID: id, Fields: fields})
	item, _ := state.Item(id)
	return &item, nil
}

// UpdateItem replaces a stock item's full field list.
func (s *CatalogService) UpdateItem(ctx context.Context, ownerID uuid.UUID, id string, fields []entity.Field) (*entity.Entity, error) {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if _, ok := store.State().Item(id); !ok {
		return nil, apperror.NewNotFoundError("Item")
	}

	fields, err = prepareFields(fields)
	if err != nil {
		return nil, err
	}

	state := store.Dispatch(billing.UpdateItem{ID: id, Fields: fields})
	item, _ := state.Item(id)
	return &item, nil
}

// DeleteItem removes a stock item. Bill rows already built from it are
// unaffected; rows copy values, they do not reference items.
func (s *CatalogService) DeleteItem(ctx context.Context, ownerID uuid.UUID, id string) error {
	store, err := s.states.ForOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if _, ok := store.State().Item(id); !ok {
		return apperror.NewNotFoundError("Item")
	}
	store.Dispatch(billing.DeleteItem{ID: id})
	return nil
}

// prepareFields validates a submitted field list and assigns ids to fields
// that arrived without one.
func prepareFields(fields []entity.Field) ([]entity.Field, error) {
	if len(fields) == 0 {
		return nil, apperror.NewBadRequestError("At least one field is required")
	}
	out := entity.CloneFields(fields)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = utils.NewID()
		}
	}
	return out, nil
}
