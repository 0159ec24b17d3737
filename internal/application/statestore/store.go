// Package statestore owns the live application state and serializes all
// transitions through a single writer.
//
// Every Dispatch runs the reducer to completion under one lock, then delivers
// the (previous, next) snapshot pair to observers in apply order before the
// next action is accepted. Observers therefore see transitions exactly as they
// happened, with no reordering; anything slow an observer wants to do (remote
// writes) must be handed off to its own goroutine.
package statestore

import (
	"sync"

	"github.com/billstock/backend/internal/domain/billing"
)

// Observer receives consecutive state snapshots after each applied action.
// Called synchronously on the dispatch path; must not block.
type Observer func(prev, next billing.AppState, action billing.Action)

// Store is the single-writer state container.
type Store struct {
	mu        sync.Mutex
	state     billing.AppState
	observers []Observer
}

// New creates a store seeded with the given initial state.
func New(initial billing.AppState) *Store {
	return &Store{state: initial}
}

// Subscribe registers an observer. Register observers before traffic starts;
// registration is not synchronized against in-flight dispatches.
func (s *Store) Subscribe(obs Observer) {
	s.observers = append(s.observers, obs)
}

// Dispatch applies one action and returns the resulting state. Transitions
// run to completion, one at a time.
func (s *Store) Dispatch(action billing.Action) billing.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	next := billing.Reduce(prev, action)
	s.state = next

	for _, obs := range s.observers {
		obs(prev, next, action)
	}
	return next
}

// State returns the current state snapshot.
func (s *Store) State() billing.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
