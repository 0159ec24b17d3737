package statestore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billstock/backend/internal/domain/billing"
	"github.com/billstock/backend/internal/domain/entity"
)

func TestDispatchAppliesActionAndReturnsNextState(t *testing.T) {
	store := New(billing.NewState())

	next := store.Dispatch(billing.AddCustomer{ID: "c1", Fields: []entity.Field{
		{ID: "f1", Label: "Name", Value: "Asha"},
	}})

	require.Len(t, next.Customers, 1)
	assert.Equal(t, next, store.State())
}

func TestObserversSeeConsecutiveSnapshotsInApplyOrder(t *testing.T) {
	store := New(billing.NewState())

	type transition struct {
		prevCount, nextCount int
	}
	var seen []transition
	store.Subscribe(func(prev, next billing.AppState, _ billing.Action) {
		seen = append(seen, transition{len(prev.Customers), len(next.Customers)})
	})

	store.Dispatch(billing.AddCustomer{ID: "c1"})
	store.Dispatch(billing.AddCustomer{ID: "c2"})
	store.Dispatch(billing.DeleteCustomer{ID: "c1"})

	require.Len(t, seen, 3)
	assert.Equal(t, transition{0, 1}, seen[0])
	assert.Equal(t, transition{1, 2}, seen[1])
	assert.Equal(t, transition{2, 1}, seen[2])
}

func TestAllObserversAreNotified(t *testing.T) {
	store := New(billing.NewState())

	calls := make([]int, 2)
	store.Subscribe(func(_, _ billing.AppState, _ billing.Action) { calls[0]++ })
	store.Subscribe(func(_, _ billing.AppState, _ billing.Action) { calls[1]++ })

	store.Dispatch(billing.AddItem{ID: "i1"})

	assert.Equal(t, []int{1, 1}, calls)
}

func TestConcurrentDispatchesSerialize(t *testing.T) {
	store := New(billing.NewState())

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			store.Dispatch(billing.NewBill{})
		}()
	}
	wg.Wait()

	state := store.State()
	assert.Len(t, state.Queue, n)
	assert.Equal(t, int64(n+1), state.NextBillNum)

	// Every bill number was issued exactly once.
	nums := make(map[int64]bool, n)
	for _, b := range state.Queue {
		assert.False(t, nums[b.Num], "bill number %d issued twice", b.Num)
		nums[b.Num] = true
	}
}
