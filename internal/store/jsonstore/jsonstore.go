package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/Makepad-fr/tada/internal/model"
)

// JSON-backed todo collection for the development server.
// Single file, human-readable, portable. One process owns the file.

// DefaultFileName is used when no data file is configured.
const DefaultFileName = "todos.json"

// ErrNotFound is returned when no todo has the requested id.
var ErrNotFound = errors.New("todo not found")

// DefaultPath returns todos.json in the working directory.
func DefaultPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, DefaultFileName), nil
}

// File is a todo collection stored as a JSON array.
type File struct {
	path string
	mu   sync.Mutex
}

// Open returns a File for path. The file is created on first write.
func Open(path string) *File {
	return &File{path: path}
}

// Path returns the file location.
func (f *File) Path() string { return f.path }

// Seed writes items if the file does not exist yet.
func (f *File) Seed(items []model.TodoItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := os.Stat(f.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat file: %w", err)
	}
	return f.save(items)
}

// List returns every todo in file order.
func (f *File) List() ([]model.TodoItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

// Get returns the todo with the given id.
func (f *File) Get(id int64) (model.TodoItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.load()
	if err != nil {
		return model.TodoItem{}, err
	}
	i := slices.IndexFunc(items, func(t model.TodoItem) bool { return t.ID == id })
	if i < 0 {
		return model.TodoItem{}, ErrNotFound
	}
	return items[i], nil
}

// Create appends item with the next free id and returns it.
func (f *File) Create(item model.TodoItem) (model.TodoItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.load()
	if err != nil {
		return model.TodoItem{}, err
	}
	var maxID int64
	for _, it := range items {
		maxID = max(maxID, it.ID)
	}
	item.ID = maxID + 1
	items = append(items, item)
	if err := f.save(items); err != nil {
		return model.TodoItem{}, err
	}
	return item, nil
}

// Update replaces the todo with item.ID.
func (f *File) Update(item model.TodoItem) (model.TodoItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.load()
	if err != nil {
		return model.TodoItem{}, err
	}
	i := slices.IndexFunc(items, func(t model.TodoItem) bool { return t.ID == item.ID })
	if i < 0 {
		return model.TodoItem{}, ErrNotFound
	}
	items[i] = item
	if err := f.save(items); err != nil {
		return model.TodoItem{}, err
	}
	return item, nil
}

// Delete removes the todo with the given id. It reports whether one existed.
func (f *File) Delete(id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.load()
	if err != nil {
		return false, err
	}
	n := len(items)
	items = slices.DeleteFunc(items, func(t model.TodoItem) bool { return t.ID == id })
	if len(items) == n {
		return false, nil
	}
	return true, f.save(items)
}

func (f *File) load() ([]model.TodoItem, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.TodoItem{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var items []model.TodoItem
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if items == nil {
		items = []model.TodoItem{}
	}
	return items, nil
}

func (f *File) save(items []model.TodoItem) error {
	if items == nil {
		items = []model.TodoItem{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	if err := os.WriteFile(f.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
