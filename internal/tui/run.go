package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/store"
)

// Options configure Run.
type Options struct {
	// Start is the first screen, as a route name or path. Empty means "/".
	Start  string
	Logger *log.Logger
}

// Run starts the program on the alternate screen and blocks until the user quits
// or ctx is canceled.
func Run(ctx context.Context, root *store.Root, opts Options) error {
	r, err := NewRouter()
	if err != nil {
		return err
	}
	m, err := New(ctx, root, r, opts.Start, opts.Logger)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
