// Package lock provides per-user locking so that two updates from the same
// chat user are never applied concurrently.
package lock

import "sync"

// userMutex is a mutex shared by every holder and waiter for one user.
// held is guarded by UserLock.mu.
type userMutex struct {
	mu   sync.Mutex
	refs int
	held bool
}

// UserLock hands out one mutex per user ID. Entries are dropped once no
// goroutine holds or waits on them, so the map stays bounded by the number
// of users with in-flight requests.
type UserLock struct {
	mu    sync.Mutex
	locks map[int64]*userMutex
}

// NewUserLock creates a new UserLock instance.
func NewUserLock() *UserLock {
	return &UserLock{locks: make(map[int64]*userMutex)}
}

// acquire returns the user's mutex with its reference count taken.
func (ul *UserLock) acquire(userID int64) *userMutex {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	m, ok := ul.locks[userID]
	if !ok {
		m = &userMutex{}
		ul.locks[userID] = m
	}
	m.refs++
	return m
}

// release drops a reference and forgets the mutex when it reaches zero.
func (ul *UserLock) release(userID int64, m *userMutex) {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	m.refs--
	if m.refs == 0 {
		delete(ul.locks, userID)
	}
}

func (ul *UserLock) markHeld(m *userMutex) {
	ul.mu.Lock()
	m.held = true
	ul.mu.Unlock()
}

// Lock blocks until the user's lock is held.
func (ul *UserLock) Lock(userID int64) {
	m := ul.acquire(userID)
	m.mu.Lock()
	ul.markHeld(m)
}

// Unlock releases the user's lock. Unlocking a user whose lock is not held
// is a no-op, even while other callers are waiting on it.
func (ul *UserLock) Unlock(userID int64) {
	ul.mu.Lock()
	m, ok := ul.locks[userID]
	if !ok || !m.held {
		ul.mu.Unlock()
		return
	}
	m.held = false
	ul.mu.Unlock()

	m.mu.Unlock()
	ul.release(userID, m)
}

// TryLock acquires the user's lock without blocking.
// Returns false if another request for the same user is in flight.
func (ul *UserLock) TryLock(userID int64) bool {
	m := ul.acquire(userID)
	if m.mu.TryLock() {
		ul.markHeld(m)
		return true
	}
	ul.release(userID, m)
	return false
}

// WithLock runs fn while holding the user's lock.
func (ul *UserLock) WithLock(userID int64, fn func() error) error {
	ul.Lock(userID)
	defer ul.Unlock(userID)
	return fn()
}

// size reports how many users currently have a tracked mutex.
func (ul *UserLock) size() int {
	ul.mu.Lock()
	defer ul.mu.Unlock()
	return len(ul.locks)
}
