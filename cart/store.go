package cart

import (
	"context"
	"sync"
	"time"
)

// Store hands out one Manager per user. The manager is created on first
// access and seeded with the server's cart; it lives until Drop (logout).
type Store struct {
	api        CartAPI
	notifier   Notifier
	events     Events
	graceDelay time.Duration

	mu       sync.Mutex
	managers map[string]*Manager
}

func NewStore(api CartAPI, notifier Notifier, events Events, graceDelay time.Duration) *Store {
	return &Store{
		api:        api,
		notifier:   notifier,
		events:     events,
		graceDelay: graceDelay,
		managers:   map[string]*Manager{},
	}
}

// ForUser returns the user's manager, fetching the authoritative cart on
// first access.
func (s *Store) ForUser(ctx context.Context, userID string) *Manager {
	s.mu.Lock()
	manager, ok := s.managers[userID]
	if !ok {
		manager = NewManager(userID, s.api, s.notifier, s.events, s.graceDelay)
		s.managers[userID] = manager
	}
	s.mu.Unlock()

	if !ok {
		manager.FetchCart(ctx)
	}
	return manager
}

// Drop discards a user's manager and cancels its pending timers.
func (s *Store) Drop(userID string) {
	s.mu.Lock()
	manager, ok := s.managers[userID]
	delete(s.managers, userID)
	s.mu.Unlock()

	if ok {
		manager.Close()
	}
}
