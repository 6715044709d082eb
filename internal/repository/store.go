// Package repository provides saved-search storage backends.
package repository

import (
	"context"
	"errors"

	"fortnite-stats-bot/internal/model"
)

// Common errors for repository operations.
var (
	ErrOutOfRange   = errors.New("saved search index out of range")
	ErrInvalidQuery = errors.New("query is not complete")
)

// Store persists each user's saved searches in insertion order without duplicates.
// Implementations must be safe for concurrent use across users.
type Store interface {
	// Save appends q unless an equal query is already stored.
	Save(ctx context.Context, userID int64, q model.Query) (bool, error)
	// List returns the user's saved queries, empty when there are none.
	List(ctx context.Context, userID int64) ([]model.Query, error)
	// RemoveAt deletes the entry at the zero-based index and returns it.
	RemoveAt(ctx context.Context, userID int64, index int) (model.Query, error)
	// Contains reports whether an equal query is stored.
	Contains(ctx context.Context, userID int64, q model.Query) (bool, error)
}

func indexOf(list []model.Query, q model.Query) int {
	for i, item := range list {
		if item.Equal(q) {
			return i
		}
	}
	return -1
}
