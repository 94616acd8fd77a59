package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (a *app) lsCmd() *cobra.Command {
	var (
		plain  bool
		group  bool
		screen string
	)
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List todos (interactive unless --plain)",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, _ []string) error {
			if !plain {
				return a.interactive(cmd, screen)
			}
			s, err := a.newSession()
			if err != nil {
				return err
			}
			items, err := a.fetch(cmd.Context(), s)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.streams.Out, ui.Panel(listLines(items, group)))
			return nil
		}),
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print the list instead of opening the interactive screen")
	cmd.Flags().BoolVar(&group, "group", false, "with --plain, group output by pending/done")
	cmd.Flags().StringVar(&screen, "screen", "", "first screen: home, todos or help")
	return cmd
}

// interactive runs the TUI. Logs go to a file while it owns the terminal.
func (a *app) interactive(cmd *cobra.Command, screen string) error {
	f, err := logging.OpenFile(a.cfg.Log.File)
	if err != nil {
		return err
	}
	defer f.Close()
	logger := logging.New(f, logging.FromConfig(a.cfg.Log.Level, a.cfg.Log.Format))
	a.logger = logger

	latency := api.MockLatency{}
	if a.cfg.MockLatency {
		latency = api.DefaultMockLatency()
	}
	todos, err := api.NewClient[model.Todo](a.cfg.APIURL, a.clientOptions()...)
	if err != nil {
		return err
	}

	root := store.NewRoot(api.NewMock(latency), todos,
		store.WithLogger(logger),
		store.WithToastLifetime(a.cfg.ToastTTL.Duration),
	)
	defer root.Close()

	logger.Info("starting", "api", todos.BaseURL(), "screen", screen)
	return tui.Run(cmd.Context(), root, tui.Options{Start: screen, Logger: logger})
}

func listLines(items []model.TodoItem, group bool) []string {
	t := ui.Current()
	done := 0
	for _, it := range items {
		if it.Completed {
			done++
		}
	}

	lines := []string{
		ui.Header("Todos", done, len(items)-done),
		t.Muted.Render(ui.ProgressBar(done, len(items), 28)),
		"",
	}
	if group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items, nil)...)
	}
	return append(lines, "", t.Muted.Render("Tip: add with `tada add \"Buy milk\"`"))
}

// flatLines numbers items by their position in all (or in items when all is nil),
// so indexes match what done/rm/edit expect.
func flatLines(items, all []model.TodoItem) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("no items")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		n := i + 1
		if all != nil {
			n = indexOf(all, it.ID) + 1
		}
		box := t.Muted.Render(t.BoxUnchecked)
		if it.Completed {
			box = t.Success.Render(t.BoxChecked)
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			t.Muted.Render(fmt.Sprintf("%2d.", n)), box, ui.Truncate(it.Title, 80)))
	}
	return out
}

func groupLines(items []model.TodoItem) []string {
	t := ui.Current()
	var pend, done []model.TodoItem
	for _, it := range items {
		if it.Completed {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	section := func(name string, part []model.TodoItem) []string {
		lines := []string{t.Accent.Render(name)}
		if len(part) == 0 {
			return append(lines, t.Muted.Render("(none)"))
		}
		return append(lines, flatLines(part, items)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}

func indexOf(items []model.TodoItem, id int64) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
