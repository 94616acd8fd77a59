package store

import (
	"slices"
	"sync"
	"time"
)

// Status is the severity of a toast.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusWarning Status = "warning"
	StatusInfo    Status = "info"
)

// Notice is the payload accepted by a Notifier.
// An empty Status means StatusSuccess.
type Notice struct {
	Text   string
	Status Status
}

// Notifier is the only thing the todo stores know about toasts.
type Notifier interface {
	Add(n Notice) (dismiss func())
}

// Toast is a transient notification.
type Toast struct {
	ID     int64
	Status Status
	Text   string

	timer *time.Timer
}

// Toasts is the toast store. The newest toast is first.
type Toasts struct {
	opts options

	mu     sync.Mutex
	toasts []*Toast
	lastID int64
}

// NewToasts creates an empty toast store.
func NewToasts(opts ...Option) *Toasts {
	return &Toasts{opts: newOptions(opts)}
}

// Add shows a toast and schedules its removal after the toast lifetime.
// The returned func removes it right away; calling it more than once is harmless.
func (s *Toasts) Add(n Notice) func() {
	status := n.Status
	if status == "" {
		status = StatusSuccess
	}

	s.mu.Lock()
	id := s.nextID()
	t := &Toast{ID: id, Status: status, Text: n.Text}
	// The lock is held until the toast is in the list, so an early
	// firing timer always finds it.
	t.timer = time.AfterFunc(s.opts.lifetime, func() { s.Remove(id) })
	s.toasts = append([]*Toast{t}, s.toasts...)
	s.mu.Unlock()

	s.opts.changed()
	return func() { s.Remove(id) }
}

// Remove drops the toast with the given id and stops its timer.
// Unknown ids are ignored.
func (s *Toasts) Remove(id int64) {
	s.mu.Lock()
	i := slices.IndexFunc(s.toasts, func(t *Toast) bool { return t.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.toasts[i].timer.Stop()
	s.toasts = slices.Delete(s.toasts, i, i+1)
	s.mu.Unlock()

	s.opts.changed()
}

// Clear removes every toast.
func (s *Toasts) Clear() {
	s.mu.Lock()
	n := len(s.toasts)
	for _, t := range s.toasts {
		t.timer.Stop()
	}
	s.toasts = nil
	s.mu.Unlock()

	if n > 0 {
		s.opts.changed()
	}
}

// List returns a snapshot of the current toasts, newest first.
func (s *Toasts) List() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Toast, 0, len(s.toasts))
	for _, t := range s.toasts {
		out = append(out, Toast{ID: t.ID, Status: t.Status, Text: t.Text})
	}
	return out
}

// nextID hands out millisecond timestamps, bumped when two toasts land in
// the same millisecond. Caller holds s.mu.
func (s *Toasts) nextID() int64 {
	id := s.opts.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
