package store

import (
	"sync"

	"github.com/Makepad-fr/tada/internal/model"
)

// Root composes the stores the UI binds to. It is created once per
// program and handed to the screens explicitly.
type Root struct {
	Toasts *Toasts
	Home   *Todos[model.TodoItem]
	Todos  *Todos[model.Todo]

	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

// NewRoot wires the toast store into both todo stores.
func NewRoot(home Backend[model.TodoItem], todos Backend[model.Todo], opts ...Option) *Root {
	r := &Root{subs: make(map[chan struct{}]struct{})}
	opts = append(opts, OnChange(r.broadcast))

	r.Toasts = NewToasts(opts...)
	r.Home = NewTodos[model.TodoItem](home, r.Toasts, opts...)
	r.Todos = NewTodos[model.Todo](todos, r.Toasts, opts...)
	return r
}

// Subscribe returns a channel that receives a value after state changes.
// Bursts of changes are coalesced. Call the returned func to stop.
func (r *Root) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	r.mu.Lock()
	r.subs[ch] = struct{}{}
	r.mu.Unlock()

	return ch, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, ok := r.subs[ch]; ok {
			delete(r.subs, ch)
			close(ch)
		}
	}
}

// Close drops pending toasts and their timers.
func (r *Root) Close() {
	r.Toasts.Clear()
}

func (r *Root) broadcast() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for ch := range r.subs {
		select {
		case ch <- struct{}{}:
		default:
			// a wakeup is already pending
		}
	}
}
