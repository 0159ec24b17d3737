package remote

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/billstock/backend/internal/domain/entity"
)

// MemoryStore is an in-process Store used in tests and when the service runs
// without a configured database. Records survive only for the process
// lifetime.
type MemoryStore struct {
	mu        sync.RWMutex
	customers map[string]memRecord[entity.Entity]
	items     map[string]memRecord[entity.Entity]
	bills     map[string]memRecord[entity.Bill]
	seq       int64
}

type memRecord[T any] struct {
	ownerID uuid.UUID
	value   T
	seq     int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers: make(map[string]memRecord[entity.Entity]),
		items:     make(map[string]memRecord[entity.Entity]),
		bills:     make(map[string]memRecord[entity.Bill]),
	}
}

func (s *MemoryStore) UpsertCustomer(_ context.Context, ownerID uuid.UUID, customer entity.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[customer.ID] = memRecord[entity.Entity]{ownerID: ownerID, value: cloneEntity(customer), seq: s.nextSeq(s.customers[customer.ID].seq)}
	return nil
}

func (s *MemoryStore) DeleteCustomer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.customers, id)
	return nil
}

func (s *MemoryStore) UpsertItem(_ context.Context, ownerID uuid.UUID, item entity.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = memRecord[entity.Entity]{ownerID: ownerID, value: cloneEntity(item), seq: s.nextSeq(s.items[item.ID].seq)}
	return nil
}

func (s *MemoryStore) DeleteItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) UpsertBill(_ context.Context, ownerID uuid.UUID, bill entity.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bills[bill.ID] = memRecord[entity.Bill]{ownerID: ownerID, value: bill.Clone(), seq: s.nextSeq(s.bills[bill.ID].seq)}
	return nil
}

func (s *MemoryStore) DeleteBill(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bills, id)
	return nil
}

func (s *MemoryStore) FetchAll(_ context.Context, ownerID uuid.UUID) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{}
	snap.Customers = collectEntities(s.customers, ownerID)
	snap.Items = collectEntities(s.items, ownerID)

	type seqBill struct {
		seq  int64
		bill entity.Bill
	}
	var bills []seqBill
	for _, rec := range s.bills {
		if rec.ownerID == ownerID {
			bills = append(bills, seqBill{seq: rec.seq, bill: rec.value.Clone()})
		}
	}
	sort.Slice(bills, func(i, j int) bool {
		if bills[i].bill.SavedAt != bills[j].bill.SavedAt {
			return bills[i].bill.SavedAt < bills[j].bill.SavedAt
		}
		return bills[i].seq < bills[j].seq
	})
	for _, sb := range bills {
		snap.Bills = append(snap.Bills, sb.bill)
	}
	return snap, nil
}

// nextSeq preserves a record's original insertion order across upserts so
// FetchAll ordering stays stable.
func (s *MemoryStore) nextSeq(existing int64) int64 {
	if existing != 0 {
		return existing
	}
	s.seq++
	return s.seq
}

func collectEntities(m map[string]memRecord[entity.Entity], ownerID uuid.UUID) []entity.Entity {
	type seqEntity struct {
		seq int64
		e   entity.Entity
	}
	var recs []seqEntity
	for _, rec := range m {
		if rec.ownerID == ownerID {
			recs = append(recs, seqEntity{seq: rec.seq, e: cloneEntity(rec.value)})
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
	out := make([]entity.Entity, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.e)
	}
	return out
}

func cloneEntity(e entity.Entity) entity.Entity {
	return entity.Entity{ID: e.ID, Fields: entity.CloneFields(e.Fields)}
}
