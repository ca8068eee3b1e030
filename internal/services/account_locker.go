package services

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// accountLocker hands out one mutual-exclusion slot per account.
// Slots are channels so a waiter can give up when its context ends.
type accountLocker struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*lockSlot
}

type lockSlot struct {
	sem  chan struct{}
	refs int
}

func newAccountLocker() *accountLocker {
	return &accountLocker{
		slots: make(map[uuid.UUID]*lockSlot),
	}
}

// Lock acquires every id in ascending byte order. On failure nothing stays held.
func (l *accountLocker) Lock(ctx context.Context, ids ...uuid.UUID) (func(), error) {
	ordered := sortedUnique(ids)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	held := make([]uuid.UUID, 0, len(ordered))
	for _, id := range ordered {
		if err := l.acquire(ctx, id); err != nil {
			l.releaseAll(held)
			return nil, err
		}
		held = append(held, id)
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.releaseAll(held) })
	}, nil
}

func (l *accountLocker) acquire(ctx context.Context, id uuid.UUID) error {
	l.mu.Lock()
	slot, ok := l.slots[id]
	if !ok {
		slot = &lockSlot{sem: make(chan struct{}, 1)}
		l.slots[id] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		l.unref(id, slot)
		l.mu.Unlock()
		return ctx.Err()
	}
}

func (l *accountLocker) releaseAll(ids []uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := len(ids) - 1; i >= 0; i-- {
		slot := l.slots[ids[i]]
		<-slot.sem
		l.unref(ids[i], slot)
	}
}

// unref must be called with mu held
func (l *accountLocker) unref(id uuid.UUID, slot *lockSlot) {
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, id)
	}
}

// size is the number of accounts currently locked or waited on
func (l *accountLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

func sortedUnique(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}
