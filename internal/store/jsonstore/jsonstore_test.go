package jsonstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Makepad-fr/tada/internal/model"
)

func newFile(t *testing.T) *File {
	t.Helper()
	return Open(filepath.Join(t.TempDir(), "data", DefaultFileName))
}

func TestListMissingFile(t *testing.T) {
	f := newFile(t)
	items, err := f.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", items)
	}
}

func TestSeedOnlyOnce(t *testing.T) {
	f := newFile(t)
	if err := f.Seed(model.MockTodos()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := f.Seed([]model.TodoItem{{ID: 1, Title: "other"}}); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	items, err := f.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 10 {
		t.Errorf("expected seeded mock set to be kept, got %d items", len(items))
	}
}

func TestCreateAssignsNextID(t *testing.T) {
	f := newFile(t)
	if err := f.Seed([]model.TodoItem{{ID: 4, Title: "four"}, {ID: 9, Title: "nine"}}); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	got, err := f.Create(model.TodoItem{ID: 1, Title: "new"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID != 10 {
		t.Errorf("expected id 10, got %d", got.ID)
	}
	stored, err := f.Get(10)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Title != "new" {
		t.Errorf("expected stored title %q, got %q", "new", stored.Title)
	}
}

func TestUpdate(t *testing.T) {
	f := newFile(t)
	if _, err := f.Create(model.TodoItem{Title: "a"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := f.Update(model.TodoItem{ID: 1, Title: "b", Completed: true}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := f.Get(1)
	if got.Title != "b" || !got.Completed {
		t.Errorf("update not persisted: %+v", got)
	}

	if _, err := f.Update(model.TodoItem{ID: 99}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	f := newFile(t)
	if _, err := f.Create(model.TodoItem{Title: "a"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := f.Delete(1)
	if err != nil || !found {
		t.Fatalf("Delete: found=%v err=%v", found, err)
	}
	found, err = f.Delete(1)
	if err != nil || found {
		t.Errorf("second Delete: found=%v err=%v", found, err)
	}
	if _, err := f.Get(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCorruptFile(t *testing.T) {
	f := newFile(t)
	if err := os.MkdirAll(filepath.Dir(f.Path()), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(f.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := f.List(); err == nil {
		t.Error("expected an error for a corrupt file")
	}
}
