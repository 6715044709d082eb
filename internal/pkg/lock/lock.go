// Package lock serializes the updates of a single user.
// Updates of different users never wait on each other.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// userSlot is a one-token semaphore with a waiter count for cleanup.
type userSlot struct {
	token   chan struct{}
	holders int
}

// UserLock provides per-user mutual exclusion with context-aware acquisition.
type UserLock struct {
	mu    sync.Mutex
	slots map[int64]*userSlot
}

// NewUserLock creates a new UserLock instance.
func NewUserLock() *UserLock {
	return &UserLock{slots: make(map[int64]*userSlot)}
}

// acquireSlot returns the user's slot and registers the caller on it.
func (ul *UserLock) acquireSlot(userID int64) *userSlot {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	slot, ok := ul.slots[userID]
	if !ok {
		slot = &userSlot{token: make(chan struct{}, 1)}
		ul.slots[userID] = slot
	}
	slot.holders++
	return slot
}

// releaseSlot unregisters the caller and drops the slot once nobody uses it.
func (ul *UserLock) releaseSlot(userID int64, slot *userSlot) {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	slot.holders--
	if slot.holders == 0 {
		delete(ul.slots, userID)
	}
}

// Lock blocks until the user's lock is held or ctx is done.
func (ul *UserLock) Lock(ctx context.Context, userID int64) error {
	slot := ul.acquireSlot(userID)
	select {
	case slot.token <- struct{}{}:
		return nil
	case <-ctx.Done():
		ul.releaseSlot(userID, slot)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrLockTimeout
		}
		return ctx.Err()
	}
}

// TryLock acquires the lock without blocking.
func (ul *UserLock) TryLock(userID int64) bool {
	slot := ul.acquireSlot(userID)
	select {
	case slot.token <- struct{}{}:
		return true
	default:
		ul.releaseSlot(userID, slot)
		return false
	}
}

// Unlock releases a lock obtained by Lock or TryLock.
func (ul *UserLock) Unlock(userID int64) {
	ul.mu.Lock()
	slot, ok := ul.slots[userID]
	ul.mu.Unlock()
	if !ok {
		return
	}
	select {
	case <-slot.token:
		ul.releaseSlot(userID, slot)
	default:
	}
}

// WithLock runs fn while holding the user's lock.
func (ul *UserLock) WithLock(ctx context.Context, userID int64, fn func(ctx context.Context) error) error {
	if err := ul.Lock(ctx, userID); err != nil {
		return err
	}
	defer ul.Unlock(userID)
	return fn(ctx)
}

// WithLockTimeout is WithLock with an upper bound on the wait.
func (ul *UserLock) WithLockTimeout(ctx context.Context, userID int64, timeout time.Duration, fn func(ctx context.Context) error) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	err := ul.Lock(waitCtx, userID)
	cancel()
	if err != nil {
		return err
	}
	defer ul.Unlock(userID)

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// IsLocked reports whether the user's lock is currently held.
// This is a point-in-time check.
func (ul *UserLock) IsLocked(userID int64) bool {
	ul.mu.Lock()
	defer ul.mu.Unlock()
	slot, ok := ul.slots[userID]
	return ok && len(slot.token) == 1
}

// Len returns the number of users with a held or awaited lock.
func (ul *UserLock) Len() int {
	ul.mu.Lock()
	defer ul.mu.Unlock()
	return len(ul.slots)
}
