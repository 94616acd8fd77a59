package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/store"
)

// OK prints a success line.
func OK(w io.Writer, msg string) { Notice(w, store.StatusSuccess, msg) }

// Fail prints an error line.
func Fail(w io.Writer, msg string) { Notice(w, store.StatusError, msg) }

// Notice prints a status line the way toasts look in the TUI.
func Notice(w io.Writer, status store.Status, msg string) {
	sym, style := statusStyle(Current(), status)
	fmt.Fprintln(w, style.Render(sym+" "+msg))
}

// Toast renders one toast as a small framed box.
func Toast(t store.Toast) string {
	th := Current()
	sym, style := statusStyle(th, t.Status)
	return lipgloss.NewStyle().
		Border(th.Border).
		BorderForeground(style.GetForeground()).
		Padding(0, 1).
		Render(style.Render(sym) + " " + t.Text)
}

// Toasts stacks toasts vertically, in the order given.
func Toasts(list []store.Toast) string {
	if len(list) == 0 {
		return ""
	}
	boxes := make([]string, 0, len(list))
	for _, t := range list {
		boxes = append(boxes, Toast(t))
	}
	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}

func statusStyle(t Theme, status store.Status) (string, lipgloss.Style) {
	switch status {
	case store.StatusError:
		return t.SymError, t.Error
	case store.StatusWarning:
		return t.SymWarn, t.Warning
	case store.StatusInfo:
		return t.SymInf, t.Info
	default:
		return t.SymDone, t.Success
	}
}

// Header is the "Todos ✔ 3 • 7 Total 10" summary line.
func Header(title string, done, pending int) string {
	t := Current()
	return strings.Join([]string{
		t.Title.Render(title),
		" ",
		t.Success.Render(t.SymDone), fmt.Sprintf(" %d  ", done),
		t.Pending.Render(t.SymPending), fmt.Sprintf(" %d  ", pending),
		t.Accent.Render("Total"), fmt.Sprintf(" %d", done+pending),
	}, "")
}
