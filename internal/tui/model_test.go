package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/router"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/testutil"
)

func press(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func newTestModel(t *testing.T, start string) (Model, *store.Root) {
	t.Helper()

	nextID := int64(100)
	home := testutil.NewFakeBackend(func(title string) model.TodoItem {
		nextID++
		return model.TodoItem{ID: nextID, Title: title}
	}, model.MockTodos()...)
	todos := testutil.NewFakeBackend(func(title string) model.Todo {
		nextID++
		return model.Todo{ID: nextID, Title: title}
	}, model.Todo{ID: 1, Title: "alpha"}, model.Todo{ID: 2, Title: "beta"})

	root := store.NewRoot(home, todos,
		store.WithLogger(logging.Discard()),
		store.WithToastLifetime(time.Minute),
	)
	t.Cleanup(root.Close)

	r, err := NewRouter()
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	m, err := New(context.Background(), root, r, start, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(m.Close)

	// Load the first screen the way Init would.
	m = step(t, m, m.fetch())
	return m, root
}

// step runs cmd synchronously and feeds the store change back into the model.
func step(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(actionDoneMsg); !ok {
		t.Fatal("expected the command to run a store action")
	}
	next, _ := m.Update(changedMsg{})
	return next.(Model)
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func newestToast(t *testing.T, root *store.Root) store.Toast {
	t.Helper()
	list := root.Toasts.List()
	if len(list) == 0 {
		t.Fatal("expected a toast")
	}
	return list[0]
}

func TestStartRedirectsToTodos(t *testing.T) {
	m, root := newTestModel(t, "")

	if m.Route().Name != ScreenTodos {
		t.Fatalf("expected todos screen, got %q", m.Route().Name)
	}
	if got := len(root.Todos.Items()); got != 2 {
		t.Errorf("expected 2 todos after fetch, got %d", got)
	}
	if v := m.View(); !strings.Contains(v, "alpha") || !strings.Contains(v, "beta") {
		t.Errorf("view misses todos:\n%s", v)
	}
}

func TestDeleteSelected(t *testing.T) {
	m, root := newTestModel(t, "")

	m, cmd := send(m, press("d"))
	m = step(t, m, cmd)

	items := root.Todos.Items()
	if len(items) != 1 || items[0].Title != "beta" {
		t.Errorf("unexpected todos %+v", items)
	}
	if toast := newestToast(t, root); toast.Text != "Todo deleted" || toast.Status != store.StatusWarning {
		t.Errorf("unexpected toast %+v", toast)
	}
}

func TestAddRejectsBlankTitle(t *testing.T) {
	m, root := newTestModel(t, "")

	m, _ = send(m, press("a"))
	if m.mode != modeAdd {
		t.Fatal("a should open the add input")
	}
	m.input.SetValue("   ")
	m, cmd := send(m, press("enter"))
	if cmd != nil || m.inputErr != emptyTitleMsg || m.mode != modeAdd {
		t.Fatalf("blank title should be rejected, got err=%q mode=%v", m.inputErr, m.mode)
	}

	m.input.SetValue("  Write tests ")
	m, cmd = send(m, press("enter"))
	if m.mode != modeBrowse {
		t.Error("input should close after submit")
	}
	m = step(t, m, cmd)

	if items := root.Todos.Items(); len(items) != 3 || items[0].Title != "Write tests" {
		t.Errorf("unexpected todos %+v", items)
	}
	if toast := newestToast(t, root); toast.Text != "Todo added successfully" {
		t.Errorf("unexpected toast %+v", toast)
	}
}

func TestEscCancelsInput(t *testing.T) {
	m, root := newTestModel(t, "")

	m, _ = send(m, press("a"))
	m.input.SetValue("never mind")
	m, cmd := send(m, press("esc"))
	if cmd != nil || m.mode != modeBrowse || m.input.Value() != "" {
		t.Errorf("esc should close the input, mode=%v value=%q", m.mode, m.input.Value())
	}
	if len(root.Todos.Items()) != 2 {
		t.Error("esc must not add anything")
	}
}

func TestEditTodo(t *testing.T) {
	m, root := newTestModel(t, "")

	m, _ = send(m, press("e"))
	if m.mode != modeEdit || m.input.Value() != "alpha" || m.editID != 1 {
		t.Fatalf("edit should prefill the selected title, got mode=%v value=%q", m.mode, m.input.Value())
	}
	m.input.SetValue("alpha v2")
	m, cmd := send(m, press("enter"))
	m = step(t, m, cmd)

	if items := root.Todos.Items(); items[0].Title != "alpha v2" {
		t.Errorf("unexpected todos %+v", items)
	}
	if toast := newestToast(t, root); toast.Status != store.StatusInfo {
		t.Errorf("unexpected toast %+v", toast)
	}
}

func TestToggleOnHome(t *testing.T) {
	m, root := newTestModel(t, "")

	m, cmd := send(m, press("1"))
	if m.Route().Name != ScreenHome {
		t.Fatalf("expected home, got %q", m.Route().Name)
	}
	m = step(t, m, cmd)

	first := root.Home.Items()[0]
	m, cmd = send(m, press(" "))
	m = step(t, m, cmd)

	got := root.Home.Items()[0]
	if got.ID != first.ID || got.Completed == first.Completed {
		t.Errorf("expected item %d to flip completion, got %+v", first.ID, got)
	}
	if !strings.Contains(m.View(), "Home") {
		t.Error("home view should carry its header")
	}
}

func TestToggleIgnoredOnTodos(t *testing.T) {
	m, _ := newTestModel(t, "todos")

	if _, cmd, handled := m.handleKey(press(" ")); handled || cmd != nil {
		t.Error("space must not run a store action on the todos screen")
	}
}

func TestHelpScreen(t *testing.T) {
	m, _ := newTestModel(t, "")

	m, cmd := send(m, press("?"))
	if cmd != nil {
		t.Error("help has nothing to fetch")
	}
	if m.Route().Meta.Resolved != router.LayoutEmpty {
		t.Errorf("help should use the empty layout, got %q", m.Route().Meta.Resolved)
	}
	if v := m.View(); !strings.Contains(v, "key bindings") || strings.Contains(v, "alpha") {
		t.Errorf("unexpected help view:\n%s", v)
	}

	if _, cmd := send(m, press("d")); cmd != nil {
		t.Error("delete must do nothing on the help screen")
	}

	m, _ = send(m, press("2"))
	if m.Route().Name != ScreenTodos {
		t.Errorf("2 should go back to todos, got %q", m.Route().Name)
	}
}

func TestDismissNewestToast(t *testing.T) {
	m, root := newTestModel(t, "")
	root.Toasts.Add(store.Notice{Text: "older"})
	root.Toasts.Add(store.Notice{Text: "newer"})

	send(m, press("x"))

	list := root.Toasts.List()
	if len(list) != 1 || list[0].Text != "older" {
		t.Errorf("unexpected toasts %+v", list)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, "")

	_, cmd := send(m, press("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestUnknownStartScreen(t *testing.T) {
	r, err := NewRouter()
	if err != nil {
		t.Fatal(err)
	}
	root := store.NewRoot(testutil.NewFakeBackend[model.TodoItem](nil), testutil.NewFakeBackend[model.Todo](nil))
	if _, err := New(context.Background(), root, r, "nowhere", logging.Discard()); err == nil {
		t.Error("expected error for unknown screen")
	}
}
