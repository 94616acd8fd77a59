package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from the current theme.
type Theme struct {
	Name string

	Title, Muted, Accent      lipgloss.Style
	Success, Error, Pending   lipgloss.Style
	Warning, Info             lipgloss.Style
	Done, Selected, Help      lipgloss.Style
	Border                    lipgloss.Border
	BorderColor               lipgloss.TerminalColor
	BoxUnchecked, BoxChecked  string
	SymDone, SymPending       string
	SymError, SymWarn, SymInf string
}

var asciiBorder = lipgloss.Border{
	Top: "-", Bottom: "-", Left: "|", Right: "|",
	TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
}

// ThemeNames lists the themes SetTheme understands.
func ThemeNames() []string { return []string{"classic", "neon", "mono"} }

var (
	mu      sync.RWMutex
	current = buildTheme("classic")
)

// SetTheme switches the current theme. Unknown names fall back to classic.
func SetTheme(name string) {
	t := buildTheme(name)
	mu.Lock()
	current = t
	mu.Unlock()
}

// Current returns the active theme.
func Current() Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func buildTheme(name string) Theme {
	plain := lipgloss.NewStyle()
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		return Theme{
			Name:     "neon",
			Title:    plain.Bold(true).Foreground(lipgloss.Color("13")),
			Muted:    plain.Foreground(lipgloss.Color("8")),
			Accent:   plain.Foreground(lipgloss.Color("14")),
			Success:  plain.Foreground(lipgloss.Color("10")),
			Error:    plain.Foreground(lipgloss.Color("9")).Bold(true),
			Pending:  plain.Foreground(lipgloss.Color("11")),
			Warning:  plain.Foreground(lipgloss.Color("11")).Bold(true),
			Info:     plain.Foreground(lipgloss.Color("14")),
			Done:     plain.Faint(true).Strikethrough(true),
			Selected: plain.Bold(true).Foreground(lipgloss.Color("13")),
			Help:     plain.Faint(true),
			Border:   lipgloss.RoundedBorder(), BorderColor: lipgloss.Color("13"),
			BoxUnchecked: "◻", BoxChecked: "◼",
			SymDone: "✔", SymPending: "•", SymError: "✖", SymWarn: "▲", SymInf: "●",
		}
	case "mono":
		return Theme{
			Name:  "mono",
			Title: plain.Bold(true), Muted: plain, Accent: plain,
			Success: plain, Error: plain, Pending: plain,
			Warning: plain, Info: plain,
			Done: plain, Selected: plain.Reverse(true), Help: plain,
			Border: asciiBorder, BorderColor: lipgloss.NoColor{},
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "x", SymPending: "-", SymError: "x", SymWarn: "!", SymInf: "i",
		}
	default:
		return Theme{
			Name:     "classic",
			Title:    plain.Bold(true),
			Muted:    plain.Faint(true),
			Accent:   plain.Foreground(lipgloss.Color("12")),
			Success:  plain.Foreground(lipgloss.Color("42")),
			Error:    plain.Foreground(lipgloss.Color("9")).Bold(true),
			Pending:  plain.Foreground(lipgloss.Color("214")),
			Warning:  plain.Foreground(lipgloss.Color("214")).Bold(true),
			Info:     plain.Foreground(lipgloss.Color("12")),
			Done:     plain.Faint(true).Strikethrough(true),
			Selected: plain.Bold(true).Reverse(true),
			Help:     plain.Faint(true),
			Border:   lipgloss.RoundedBorder(), BorderColor: lipgloss.Color("8"),
			BoxUnchecked: "☐", BoxChecked: "☑",
			SymDone: "✔", SymPending: "•", SymError: "✖", SymWarn: "!", SymInf: "i",
		}
	}
}
