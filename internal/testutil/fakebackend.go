// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/Makepad-fr/tada/internal/model"
)

// ErrBackend is a ready-made error for injection.
var ErrBackend = errors.New("backend unavailable")

// FakeBackend is an in-memory store.Backend for tests.
type FakeBackend[T model.Entity] struct {
	mu    sync.Mutex
	items []T
	calls []string

	// NewItem builds the item returned by Create.
	NewItem func(title string) T

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// When Gate is non-nil every call signals Entered (if set) and then
	// blocks until Gate yields a value or is closed.
	Gate    chan struct{}
	Entered chan string
}

// NewFakeBackend creates a FakeBackend holding items.
func NewFakeBackend[T model.Entity](newItem func(title string) T, items ...T) *FakeBackend[T] {
	return &FakeBackend[T]{items: items, NewItem: newItem}
}

// Calls returns the names of the methods called so far.
func (f *FakeBackend[T]) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// List implements store.Backend.
func (f *FakeBackend[T]) List(ctx context.Context) ([]T, error) {
	if err := f.enter(ctx, "List"); err != nil {
		return nil, err
	}
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.items), nil
}

// Create implements store.Backend.
func (f *FakeBackend[T]) Create(ctx context.Context, title string) (T, error) {
	var zero T
	if err := f.enter(ctx, "Create"); err != nil {
		return zero, err
	}
	if f.CreateErr != nil {
		return zero, f.CreateErr
	}
	item := f.NewItem(title)
	f.mu.Lock()
	f.items = append(f.items, item)
	f.mu.Unlock()
	return item, nil
}

// Update implements store.Backend. It echoes item back.
func (f *FakeBackend[T]) Update(ctx context.Context, item T) (T, error) {
	var zero T
	if err := f.enter(ctx, "Update"); err != nil {
		return zero, err
	}
	if f.UpdateErr != nil {
		return zero, f.UpdateErr
	}
	return item, nil
}

// Delete implements store.Backend.
func (f *FakeBackend[T]) Delete(ctx context.Context, id int64) error {
	if err := f.enter(ctx, "Delete"); err != nil {
		return err
	}
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	f.items = slices.DeleteFunc(f.items, func(t T) bool { return t.EntityID() == id })
	f.mu.Unlock()
	return nil
}

func (f *FakeBackend[T]) enter(ctx context.Context, name string) error {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()

	if f.Gate == nil {
		return nil
	}
	if f.Entered != nil {
		f.Entered <- name
	}
	select {
	case <-f.Gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
