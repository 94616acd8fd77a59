package store

import (
	"context"
	"slices"
	"sync"

	"github.com/Makepad-fr/tada/internal/model"
)

// Action names an asynchronous store operation. It doubles as the loading flag key.
type Action string

const (
	ActionFetch  Action = "fetchTodos"
	ActionAdd    Action = "addTodo"
	ActionUpdate Action = "updateTodo"
	ActionDelete Action = "deleteTodo"
)

// Backend is the remote side of a todo store.
type Backend[T model.Entity] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, title string) (T, error)
	Update(ctx context.Context, item T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Todos is a todo list backed by a Backend. Actions never return errors:
// failures are logged and turned into an error toast.
type Todos[T model.Entity] struct {
	backend  Backend[T]
	notifier Notifier
	opts     options

	mu      sync.RWMutex
	items   []T
	loading map[Action]int
}

// NewTodos creates an empty store. notifier may be nil.
func NewTodos[T model.Entity](backend Backend[T], notifier Notifier, opts ...Option) *Todos[T] {
	return &Todos[T]{
		backend:  backend,
		notifier: notifier,
		opts:     newOptions(opts),
		loading:  make(map[Action]int),
	}
}

// Items returns a copy of the list in display order.
func (s *Todos[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Loading reports whether an action with the given key is in flight.
func (s *Todos[T]) Loading(key Action) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[key] > 0
}

// Fetch replaces the whole list with what the backend returns.
func (s *Todos[T]) Fetch(ctx context.Context) {
	s.perform(ctx, ActionFetch, "Failed to fetch todos", func(ctx context.Context) error {
		items, err := s.backend.List(ctx)
		if err != nil {
			return err
		}
		s.commit(func() { s.items = items })
		return nil
	})
}

// Add creates a todo and puts it at the top of the list.
func (s *Todos[T]) Add(ctx context.Context, title string) {
	s.perform(ctx, ActionAdd, "Failed to add todo", func(ctx context.Context) error {
		item, err := s.backend.Create(ctx, title)
		if err != nil {
			return err
		}
		s.commit(func() { s.items = append([]T{item}, s.items...) })
		s.notify(Notice{Text: "Todo added successfully", Status: StatusSuccess})
		return nil
	})
}

// Update saves item and replaces the entry with the same id, keeping its
// position. If no entry has that id the list is left alone.
func (s *Todos[T]) Update(ctx context.Context, item T) {
	s.perform(ctx, ActionUpdate, "Failed to update todo", func(ctx context.Context) error {
		updated, err := s.backend.Update(ctx, item)
		if err != nil {
			return err
		}
		s.commit(func() {
			id := updated.EntityID()
			if i := slices.IndexFunc(s.items, func(t T) bool { return t.EntityID() == id }); i >= 0 {
				s.items[i] = updated
			}
		})
		s.notify(Notice{Text: "Todo updated successfully", Status: StatusInfo})
		return nil
	})
}

// Delete removes every entry with the given id once the backend agrees.
func (s *Todos[T]) Delete(ctx context.Context, id int64) {
	s.perform(ctx, ActionDelete, "Failed to delete todo", func(ctx context.Context) error {
		if err := s.backend.Delete(ctx, id); err != nil {
			return err
		}
		s.commit(func() {
			s.items = slices.DeleteFunc(s.items, func(t T) bool { return t.EntityID() == id })
		})
		s.notify(Notice{Text: "Todo deleted", Status: StatusWarning})
		return nil
	})
}

func (s *Todos[T]) perform(ctx context.Context, key Action, failure string, effect func(context.Context) error) {
	s.setLoading(key, true)
	defer s.setLoading(key, false)

	if err := effect(ctx); err != nil {
		s.opts.logger.Error("todo action failed", "action", string(key), "err", err)
		s.notify(Notice{Text: failure, Status: StatusError})
	}
}

func (s *Todos[T]) setLoading(key Action, on bool) {
	s.commit(func() {
		if on {
			s.loading[key]++
			return
		}
		if s.loading[key] > 0 {
			s.loading[key]--
		}
	})
}

func (s *Todos[T]) commit(mutate func()) {
	s.mu.Lock()
	mutate()
	s.mu.Unlock()
	s.opts.changed()
}

func (s *Todos[T]) notify(n Notice) {
	if s.notifier != nil {
		s.notifier.Add(n)
	}
}
