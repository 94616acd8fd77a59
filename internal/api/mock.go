package api

import (
	"context"
	"sync"
	"time"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

var _ store.Backend[model.TodoItem] = (*Mock)(nil)

// MockLatency is the artificial delay of each Mock call.
type MockLatency struct {
	Fetch  time.Duration
	Add    time.Duration
	Update time.Duration
	Delete time.Duration
}

// DefaultMockLatency mimics a slow network.
func DefaultMockLatency() MockLatency {
	return MockLatency{
		Fetch:  1000 * time.Millisecond,
		Add:    800 * time.Millisecond,
		Update: 700 * time.Millisecond,
		Delete: 500 * time.Millisecond,
	}
}

// Mock is the offline backend behind the home screen. List always returns
// the fixed demo set; Create assigns millisecond timestamp ids.
type Mock struct {
	latency MockLatency
	now     func() time.Time

	mu     sync.Mutex
	lastID int64
}

// NewMock creates a Mock with the given latency.
func NewMock(latency MockLatency) *Mock {
	return &Mock{latency: latency, now: time.Now}
}

func (m *Mock) List(ctx context.Context) ([]model.TodoItem, error) {
	if err := sleep(ctx, m.latency.Fetch); err != nil {
		return nil, err
	}
	return model.MockTodos(), nil
}

func (m *Mock) Create(ctx context.Context, title string) (model.TodoItem, error) {
	if err := sleep(ctx, m.latency.Add); err != nil {
		return model.TodoItem{}, err
	}
	return model.TodoItem{ID: m.nextID(), Title: title}, nil
}

func (m *Mock) Update(ctx context.Context, item model.TodoItem) (model.TodoItem, error) {
	if err := sleep(ctx, m.latency.Update); err != nil {
		return model.TodoItem{}, err
	}
	return item, nil
}

func (m *Mock) Delete(ctx context.Context, _ int64) error {
	return sleep(ctx, m.latency.Delete)
}

func (m *Mock) nextID() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.now().UnixMilli()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	m.lastID = id
	return id
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
