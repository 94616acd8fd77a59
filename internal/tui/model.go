// Package tui is the interactive terminal front end. Screens bind to the
// root store and re-render whenever it reports a change.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/router"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
	"github.com/Makepad-fr/tada/internal/validate"
)

const emptyTitleMsg = "Title cannot be empty"

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAdd
	modeEdit
)

// changedMsg is sent after the root store reports a change.
type changedMsg struct{}

// actionDoneMsg is sent when a store action returns.
type actionDoneMsg struct{ action store.Action }

// Model is the Bubble Tea model of the whole program.
type Model struct {
	ctx    context.Context
	root   *store.Root
	router *router.Router
	logger *log.Logger

	changes     <-chan struct{}
	unsubscribe func()

	route router.Route
	home  list.Model
	todos list.Model

	mode     inputMode
	input    textinput.Model
	editID   int64
	inputErr string
	navErr   string

	spinner       spinner.Model
	width, height int
}

// New builds the model and navigates to start, a route name or path.
func New(ctx context.Context, root *store.Root, r *router.Router, start string, logger *log.Logger) (Model, error) {
	if logger == nil {
		logger = log.Default()
	}
	m := Model{
		ctx:    ctx,
		root:   root,
		router: r,
		logger: logger,
		width:  80,
		height: 24,
	}

	m.home = newList(true)
	m.todos = newList(false)

	m.input = textinput.New()
	m.input.Prompt = "> "
	m.input.CharLimit = 200

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = ui.Current().Accent

	rt, err := navigate(r, start)
	if err != nil {
		return Model{}, err
	}
	m.route = rt
	m.changes, m.unsubscribe = root.Subscribe()
	m.resize()
	m.sync()
	return m, nil
}

func newList(home bool) list.Model {
	t := ui.Current()
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Help
	l.Styles.PaginationStyle = t.Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)

	extra := func() []key.Binding { return keys.listKeys(home) }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra
	return l
}

// navigate accepts a route name first, then a path.
func navigate(r *router.Router, target string) (router.Route, error) {
	if target == "" {
		target = "/"
	}
	if !strings.HasPrefix(target, "/") {
		return r.PushName(target)
	}
	return r.Push(target)
}

// Close stops listening for store changes.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Route returns the current screen.
func (m Model) Route() router.Route { return m.route }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForChange(), m.fetch())
}

func (m Model) waitForChange() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

// run executes a store action off the UI goroutine.
func (m Model) run(action store.Action, fn func(ctx context.Context)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		fn(ctx)
		return actionDoneMsg{action: action}
	}
}

// fetch loads the list of the current screen, the way a page refreshes on mount.
func (m Model) fetch() tea.Cmd {
	switch m.route.Name {
	case ScreenHome:
		return m.run(store.ActionFetch, m.root.Home.Fetch)
	case ScreenTodos:
		return m.run(store.ActionFetch, m.root.Todos.Fetch)
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case changedMsg:
		m.sync()
		return m, m.waitForChange()

	case actionDoneMsg:
		m.logger.Debug("action finished", "action", msg.action, "screen", m.route.Name)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.mode != modeBrowse {
		return m.updateInput(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		lst := m.activeList()
		if lst != nil && lst.FilterState() == list.Filtering {
			return m.updateList(msg)
		}
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}
	return m.updateList(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit, true

	case key.Matches(msg, keys.Home):
		return m.goTo(ScreenHome)
	case key.Matches(msg, keys.Todos):
		return m.goTo("/")
	case key.Matches(msg, keys.Help):
		return m.goTo("/help")

	case key.Matches(msg, keys.Dismiss):
		if shown := m.root.Toasts.List(); len(shown) > 0 {
			m.root.Toasts.Remove(shown[0].ID)
		}
		return m, nil, true
	}

	if m.route.Name == ScreenHelp {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, keys.Refresh):
		return m, m.fetch(), true

	case key.Matches(msg, keys.Add):
		m.mode = modeAdd
		m.inputErr = ""
		m.input.SetValue("")
		m.input.Placeholder = "New todo title..."
		m.resize()
		return m, m.input.Focus(), true

	case key.Matches(msg, keys.Edit):
		it, ok := m.selected()
		if !ok {
			return m, nil, true
		}
		m.mode = modeEdit
		m.editID = it.id
		m.inputErr = ""
		m.input.SetValue(it.title)
		m.input.CursorEnd()
		m.input.Placeholder = "Edit todo title..."
		m.resize()
		return m, m.input.Focus(), true

	case key.Matches(msg, keys.Delete):
		it, ok := m.selected()
		if !ok {
			return m, nil, true
		}
		if m.route.Name == ScreenHome {
			return m, m.run(store.ActionDelete, func(ctx context.Context) { m.root.Home.Delete(ctx, it.id) }), true
		}
		return m, m.run(store.ActionDelete, func(ctx context.Context) { m.root.Todos.Delete(ctx, it.id) }), true

	case key.Matches(msg, keys.Toggle):
		if m.route.Name != ScreenHome {
			return m, nil, false
		}
		item, ok := m.homeItem()
		if !ok {
			return m, nil, true
		}
		item.Completed = !item.Completed
		return m, m.run(store.ActionUpdate, func(ctx context.Context) { m.root.Home.Update(ctx, item) }), true
	}
	return m, nil, false
}

func (m Model) goTo(target string) (Model, tea.Cmd, bool) {
	rt, err := navigate(m.router, target)
	if err != nil {
		m.logger.Warn("navigation failed", "to", target, "err", err)
		m.navErr = err.Error()
		return m, nil, true
	}
	m.navErr = ""
	m.route = rt
	m.sync()
	return m, m.fetch(), true
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			m.closeInput()
			return m, nil
		case "enter":
			title := strings.TrimSpace(m.input.Value())
			if err := validate.Title(title); err != nil {
				var fe *validate.FieldError
				if errors.As(err, &fe) {
					m.inputErr = emptyTitleMsg
				} else {
					m.inputErr = err.Error()
				}
				return m, nil
			}
			cmd := m.submit(title)
			m.closeInput()
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit(title string) tea.Cmd {
	home := m.route.Name == ScreenHome
	if m.mode == modeAdd {
		if home {
			return m.run(store.ActionAdd, func(ctx context.Context) { m.root.Home.Add(ctx, title) })
		}
		return m.run(store.ActionAdd, func(ctx context.Context) { m.root.Todos.Add(ctx, title) })
	}

	if home {
		item, ok := findByID(m.root.Home.Items(), m.editID)
		if !ok {
			return nil
		}
		item.Title = title
		return m.run(store.ActionUpdate, func(ctx context.Context) { m.root.Home.Update(ctx, item) })
	}
	item := model.Todo{ID: m.editID, Title: title}
	return m.run(store.ActionUpdate, func(ctx context.Context) { m.root.Todos.Update(ctx, item) })
}

func (m *Model) closeInput() {
	m.mode = modeBrowse
	m.inputErr = ""
	m.editID = 0
	m.input.SetValue("")
	m.input.Blur()
	m.resize()
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.route.Name {
	case ScreenHome:
		m.home, cmd = m.home.Update(msg)
	case ScreenTodos:
		m.todos, cmd = m.todos.Update(msg)
	}
	return m, cmd
}

func (m *Model) activeList() *list.Model {
	switch m.route.Name {
	case ScreenHome:
		return &m.home
	case ScreenTodos:
		return &m.todos
	}
	return nil
}

func (m Model) selected() (listItem, bool) {
	lst := m.activeList()
	if lst == nil {
		return listItem{}, false
	}
	it, ok := lst.SelectedItem().(listItem)
	return it, ok
}

func (m Model) homeItem() (model.TodoItem, bool) {
	it, ok := m.selected()
	if !ok {
		return model.TodoItem{}, false
	}
	return findByID(m.root.Home.Items(), it.id)
}

// sync copies store state into the list widgets.
func (m *Model) sync() {
	homeItems := m.root.Home.Items()
	li := make([]list.Item, 0, len(homeItems))
	done := 0
	for _, it := range homeItems {
		li = append(li, listItem{id: it.ID, title: it.Title, done: it.Completed, checkable: true})
		if it.Completed {
			done++
		}
	}
	setItems(&m.home, li)
	m.home.Title = ui.Header("Home", done, len(homeItems)-done)

	todoItems := m.root.Todos.Items()
	li = make([]list.Item, 0, len(todoItems))
	for _, it := range todoItems {
		li = append(li, listItem{id: it.ID, title: it.Title})
	}
	setItems(&m.todos, li)
	m.todos.Title = ui.Current().Title.Render("Todos") + fmt.Sprintf("  %d", len(todoItems))
}

func setItems(l *list.Model, items []list.Item) {
	l.SetItems(items)
	if n := len(items); n > 0 && l.Index() >= n {
		l.Select(n - 1)
	}
}

func (m *Model) resize() {
	w := m.width - 4
	h := m.height - 8
	if m.mode != modeBrowse {
		h -= 4
	}
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.home.SetSize(w, h)
	m.todos.SetSize(w, h)
}

func (m Model) loading() bool {
	switch m.route.Name {
	case ScreenHome:
		return anyLoading(m.root.Home)
	case ScreenTodos:
		return anyLoading(m.root.Todos)
	}
	return false
}

type loader interface {
	Loading(store.Action) bool
}

func anyLoading(s loader) bool {
	for _, a := range []store.Action{store.ActionFetch, store.ActionAdd, store.ActionUpdate, store.ActionDelete} {
		if s.Loading(a) {
			return true
		}
	}
	return false
}

func findByID[T model.Entity](items []T, id int64) (T, bool) {
	for _, it := range items {
		if it.EntityID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}
