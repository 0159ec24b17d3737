// Package remote abstracts the backing store the sync reconciler mirrors
// local state into. The local state machine is the source of truth; the
// remote store is a best-effort, eventually-consistent copy.
//
// Every operation targets a single record and is idempotent. There is no
// transactional multi-record API: each collection is reconciled independently.
package remote

import (
	"context"

	"github.com/google/uuid"

	"github.com/billstock/backend/internal/domain/entity"
)

// Snapshot is everything the store holds for one owner, used to seed local
// state on startup or login.
type Snapshot struct {
	Customers []entity.Entity
	Items     []entity.Entity
	Bills     []entity.Bill
}

// Store is the remote mirror for one device's catalogs and bills.
type Store interface {
	UpsertCustomer(ctx context.Context, ownerID uuid.UUID, customer entity.Entity) error
	DeleteCustomer(ctx context.Context, id string) error

	UpsertItem(ctx context.Context, ownerID uuid.UUID, item entity.Entity) error
	DeleteItem(ctx context.Context, id string) error

	UpsertBill(ctx context.Context, ownerID uuid.UUID, bill entity.Bill) error
	DeleteBill(ctx context.Context, id string) error

	// FetchAll loads the full snapshot for an owner. Collections come back in
	// insertion order (bills by saved-at).
	FetchAll(ctx context.Context, ownerID uuid.UUID) (*Snapshot, error)
}
