// Package keylock provides an exclusive lock table keyed by string, used to
// serialize mutations on a single equipment record. Locks on distinct keys
// never contend.
package keylock

import (
	"context"
	"sync"
	"time"

	apperrors "inventory-system/pkg/errors"
)

type entry struct {
	ch   chan struct{} // capacity 1; holding the token = holding the lock
	refs int
}

type KeyLock struct {
	mu      sync.Mutex
	entries map[string]*entry
	timeout time.Duration
}

func New(timeout time.Duration) *KeyLock {
	return &KeyLock{
		entries: make(map[string]*entry),
		timeout: timeout,
	}
}

// Acquire blocks until the lock for key is held, ctx is done, or the
// configured timeout elapses. On success the returned release function must
// be called exactly once.
func (l *KeyLock) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	select {
	case e.ch <- struct{}{}:
		return func() { l.release(key, e) }, nil
	case <-ctx.Done():
		l.drop(key, e)
		return nil, ctx.Err()
	case <-timer.C:
		l.drop(key, e)
		return nil, apperrors.ErrLockTimeout
	}
}

func (l *KeyLock) release(key string, e *entry) {
	<-e.ch
	l.drop(key, e)
}

// drop decrements the waiter count and removes the entry once nobody holds
// or waits for it, so the table does not grow with every key ever touched.
func (l *KeyLock) drop(key string, e *entry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()
}
