package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billstock/backend/internal/domain/entity"
	"github.com/billstock/backend/internal/infrastructure/remote"
)

func newCatalogFixture(t *testing.T) (*CatalogService, uuid.UUID) {
	t.Helper()
	mgr := NewStateManager(remote.NewMemoryStore(), false)
	return NewCatalogService(mgr), uuid.New()
}

func TestAddCustomerAssignsIDs(t *testing.T) {
	svc, owner := newCatalogFixture(t)

	customer, err := svc.AddCustomer(context.Background(), owner, []entity.Field{
		{Label: "Name", Value: "Asha"},
		{Label: "Phone", Value: "9876543210"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, customer.ID)
	require.Len(t, customer.Fields, 2)
	assert.NotEmpty(t, customer.Fields[0].ID)
	assert.NotEmpty(t, customer.Fields[1].ID)
	assert.Equal(t, "Asha", customer.Name())
}

func TestAddCustomerKeepsSubmittedFieldIDs(t *testing.T) {
	svc, owner := newCatalogFixture(t)

	customer, err := svc.AddCustomer(context.Background(), owner, []entity.Field{
		{ID: "f-client", Label: "Name", Value: "Asha"},
	})
	require.NoError(t, err)
	assert.Equal(t, "f-client", customer.Fields[0].ID)
}

func TestAddCustomerRejectsEmptyFieldList(t *testing.T) {
	svc, owner := newCatalogFixture(t)

	_, err := svc.AddCustomer(context.Background(), owner, nil)
	assert.Equal(t, http.StatusBadRequest, errCode(t, err))
}

func TestUpdateCustomerReplacesFieldList(t *testing.T) {
	svc, owner := newCatalogFixture(t)
	ctx := context.Background()

	customer, err := svc.AddCustomer(ctx, owner, []entity.Field{
		{Label: "Name", Value: "Asha"},
		{Label: "Phone", Value: "111"},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateCustomer(ctx, owner, customer.ID, []entity.Field{
		{Label: "Name", Value: "Asha Devi"},
	})
	require.NoError(t, err)
	require.Len(t, updated.Fields, 1)
	assert.Equal(t, "Asha Devi", updated.Name())

	_, err = svc.UpdateCustomer(ctx, owner, "missing", []entity.Field{
		{Label: "Name", Value: "x"},
	})
	assert.Equal(t, http.StatusNotFound, errCode(t, err))
}

func TestDeleteCustomer(t *testing.T) {
	svc, owner := newCatalogFixture(t)
	ctx := context.Background()

	customer, err := svc.AddCustomer(ctx, owner, []entity.Field{
		{Label: "Name", Value: "Asha"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCustomer(ctx, owner, customer.ID))

	list, err := svc.ListCustomers(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = svc.DeleteCustomer(ctx, owner, customer.ID)
	assert.Equal(t, http.StatusNotFound, errCode(t, err))
}

func TestItemCatalogRoundTrip(t *testing.T) {
	svc, owner := newCatalogFixture(t)
	ctx := context.Background()

	item, err := svc.AddItem(ctx, owner, []entity.Field{
		{Label: "Name", Value: "Basmati Rice"},
		{Label: "Rate", Value: "85"},
		{Label: "Unit", Value: "kg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "85", item.Rate())
	assert.Equal(t, "kg", item.Unit())

	updated, err := svc.UpdateItem(ctx, owner, item.ID, []entity.Field{
		{Label: "Name", Value: "Basmati Rice"},
		{Label: "Rate", Value: "90"},
	})
	require.NoError(t, err)
	assert.Equal(t, "90", updated.Rate())

	require.NoError(t, svc.DeleteItem(ctx, owner, item.ID))
	items, err := svc.ListItems(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCatalogsAreIsolatedPerOwner(t *testing.T) {
	mgr := NewStateManager(remote.NewMemoryStore(), false)
	svc := NewCatalogService(mgr)
	ctx := context.Background()
	ownerA, ownerB := uuid.New(), uuid.New()

	_, err := svc.AddCustomer(ctx, ownerA, []entity.Field{{Label: "Name", Value: "Asha"}})
	require.NoError(t, err)

	listB, err := svc.ListCustomers(ctx, ownerB)
	require.NoError(t, err)
	assert.Empty(t, listB)
}
