package repository

import (
	"context"
	"slices"
	"sync"

	"fortnite-stats-bot/internal/model"
)

// MemoryStore keeps saved searches in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[int64][]model.Query
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[int64][]model.Query)}
}

func (s *MemoryStore) Save(_ context.Context, userID int64, q model.Query) (bool, error) {
	if !q.Valid() {
		return false, ErrInvalidQuery
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.users[userID], q) >= 0 {
		return false, nil
	}
	s.users[userID] = append(s.users[userID], q)
	return true, nil
}

func (s *MemoryStore) List(_ context.Context, userID int64) ([]model.Query, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.users[userID])
	if out == nil {
		out = []model.Query{}
	}
	return out, nil
}

func (s *MemoryStore) RemoveAt(_ context.Context, userID int64, index int) (model.Query, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.users[userID]
	if index < 0 || index >= len(list) {
		return model.Query{}, ErrOutOfRange
	}
	removed := list[index]
	s.users[userID] = slices.Delete(list, index, index+1)
	if len(s.users[userID]) == 0 {
		delete(s.users, userID)
	}
	return removed, nil
}

func (s *MemoryStore) Contains(_ context.Context, userID int64, q model.Query) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.users[userID], q) >= 0, nil
}
