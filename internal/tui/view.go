package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/router"
	"github.com/Makepad-fr/tada/internal/ui"
)

// listItem adapts a todo to bubbles/list.Item.
type listItem struct {
	id        int64
	title     string
	done      bool
	checkable bool
}

func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.title }

// itemDelegate renders items on a single line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()

	text := ui.Truncate(it.title, m.Width()-8)
	line := text
	if it.checkable {
		box := t.Muted.Render(t.BoxUnchecked)
		if it.done {
			box = t.Success.Render(t.BoxChecked)
			text = t.Done.Render(text)
		}
		line = box + " " + text
	}

	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprint(w, prefix+line)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.route.Meta.Resolved == router.LayoutEmpty {
		return m.helpView()
	}

	t := ui.Current()
	var b strings.Builder
	b.WriteString(m.tabs())
	if m.loading() {
		b.WriteString("  " + m.spinner.View() + t.Muted.Render(" loading"))
	}
	b.WriteString("\n")

	if toasts := ui.Toasts(m.root.Toasts.List()); toasts != "" {
		b.WriteString(lipgloss.PlaceHorizontal(m.width-2, lipgloss.Right, toasts))
		b.WriteString("\n")
	}
	if m.navErr != "" {
		b.WriteString(t.Error.Render(m.navErr) + "\n")
	}

	switch m.route.Name {
	case ScreenHome:
		items := m.root.Home.Items()
		done := 0
		for _, it := range items {
			if it.Completed {
				done++
			}
		}
		b.WriteString(t.Muted.Render(ui.ProgressBar(done, len(items), 28)) + "\n")
		b.WriteString(m.home.View())
	case ScreenTodos:
		b.WriteString(m.todos.View())
	}

	if m.mode != modeBrowse {
		b.WriteString("\n" + m.inputView())
	}
	return ui.Panel(strings.Split(b.String(), "\n"))
}

func (m Model) tabs() string {
	t := ui.Current()
	tab := func(num, label, name string) string {
		s := num + " " + label
		if m.route.Name == name {
			return t.Selected.Render(" " + s + " ")
		}
		return t.Muted.Render(" " + s + " ")
	}
	return t.Title.Render("tada") + "  " +
		tab("1", "Home", ScreenHome) + tab("2", "Todos", ScreenTodos) + tab("?", "Help", ScreenHelp)
}

func (m Model) inputView() string {
	t := ui.Current()
	title := "Add todo"
	if m.mode == modeEdit {
		title = "Edit todo"
	}
	if m.inputErr != "" {
		title += "  " + t.Error.Render(m.inputErr)
	}
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(title + "\n" + m.input.View())
}

func (m Model) helpView() string {
	t := ui.Current()
	lines := []string{t.Title.Render("tada key bindings"), ""}
	for _, k := range keys.all() {
		h := k.Help()
		lines = append(lines, fmt.Sprintf("  %-8s %s", t.Accent.Render(h.Key), h.Desc))
	}
	lines = append(lines, "", t.Help.Render("press 1 or 2 to go back"))
	return strings.Join(lines, "\n")
}
