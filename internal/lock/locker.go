// Package lock serializes work over one series: event-triggered and
// API-triggered reconciliation passes of the same series never interleave.
package lock

import (
	"context"
	"sync"
	"time"
)

type Locker interface {
	Lock(seriesID int64) Unlocker
	ContextLock(ctx context.Context, seriesID int64) (Unlocker, error)
}

type Unlocker interface {
	Unlock()
}

type lock struct {
	mu     sync.Mutex
	ref    uint64
	locker *locker
	id     int64
}

// Unlock implements Unlocker.
func (lck *lock) Unlock() {
	lck.locker.release(lck)
	lck.mu.Unlock()
}

type locker struct {
	mu sync.Mutex
	l  map[int64]*lock
}

func (l *locker) getOrCreate(seriesID int64) *lock {
	l.mu.Lock()
	defer l.mu.Unlock()

	result, ok := l.l[seriesID]
	if !ok {
		result = &lock{locker: l, id: seriesID}
		l.l[seriesID] = result
	}
	result.ref++
	return result
}

// ContextLock implements Locker.
func (l *locker) ContextLock(ctx context.Context, seriesID int64) (Unlocker, error) {
	itemLock := l.getOrCreate(seriesID)
	if itemLock.mu.TryLock() {
		return itemLock, nil
	}

	for {
		select {
		case <-ctx.Done():
			l.release(itemLock)
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
			if itemLock.mu.TryLock() {
				return itemLock, nil
			}
		}
	}
}

// Lock implements Locker.
func (l *locker) Lock(seriesID int64) Unlocker {
	itemLock := l.getOrCreate(seriesID)
	itemLock.mu.Lock()
	return itemLock
}

func (l *locker) release(lck *lock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lck.ref--
	if lck.ref == 0 {
		delete(l.l, lck.id)
	}
}

func NewLocker() Locker {
	return &locker{
		l: map[int64]*lock{},
	}
}
