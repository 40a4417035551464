package client

import (
	"context"
	"sync"
)

// ListView holds the rows backing one list screen. Every Refresh gets a
// sequence number; a response arriving after a newer Refresh started is
// discarded, so slow responses never overwrite fresh ones.
type ListView[T any] struct {
	shell *Shell
	load  func(ctx context.Context, token string) ([]T, error)

	mu    sync.Mutex
	seq   uint64
	items []T
}

// NewListView builds a view over the loader function.
func NewListView[T any](shell *Shell, load func(ctx context.Context, token string) ([]T, error)) *ListView[T] {
	return &ListView[T]{shell: shell, load: load}
}

// Items returns the rows from the last applied refresh.
func (v *ListView[T]) Items() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.items
}

// Refresh reloads the list. A failed fetch degrades to an empty list
// rather than keeping stale rows; a 401 additionally forces the shell
// back to the login screen.
func (v *ListView[T]) Refresh(ctx context.Context) ([]T, error) {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	token := v.shell.store.Token()
	v.mu.Unlock()

	items, err := v.load(ctx, token)
	if err != nil {
		err = v.shell.ObserveError(err)
		items = nil
	}
	if items == nil {
		items = []T{}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq {
		// A newer refresh started while this one was in flight.
		return v.items, err
	}
	v.items = items
	return items, err
}
