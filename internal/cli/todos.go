package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
	"github.com/Makepad-fr/tada/internal/validate"
)

// session is a todo store plus the toasts its actions produce.
type session struct {
	todos  *store.Todos[model.TodoItem]
	toasts *store.Toasts
}

func (a *app) newSession() (*session, error) {
	client, err := api.NewClient[model.TodoItem](a.cfg.APIURL, a.clientOptions()...)
	if err != nil {
		return nil, err
	}
	opts := []store.Option{store.WithLogger(a.logger), store.WithToastLifetime(a.cfg.ToastTTL.Duration)}
	toasts := store.NewToasts(opts...)
	return &session{
		todos:  store.NewTodos[model.TodoItem](client, toasts, opts...),
		toasts: toasts,
	}, nil
}

func (a *app) clientOptions() []api.ClientOption {
	opts := []api.ClientOption{api.WithLogger(a.logger)}
	if tok, err := a.creds.Token(); err != nil {
		a.logger.Warn("ignoring stored credentials", "err", err)
	} else if tok != "" {
		opts = append(opts, api.WithToken(tok))
	}
	return opts
}

// report prints the toasts raised so far, oldest first, and clears them.
// It fails when any of them is an error.
func (a *app) report(s *session) error {
	shown := s.toasts.List()
	s.toasts.Clear()

	failed := false
	for i := len(shown) - 1; i >= 0; i-- {
		t := shown[i]
		if t.Status == store.StatusError {
			failed = true
			ui.Notice(a.streams.Err, t.Status, t.Text)
			continue
		}
		ui.Notice(a.streams.Out, t.Status, t.Text)
	}
	if failed {
		return &exitError{Code: ExitError}
	}
	return nil
}

// fetch loads the remote list and stops on failure.
func (a *app) fetch(ctx context.Context, s *session) ([]model.TodoItem, error) {
	s.todos.Fetch(ctx)
	if err := a.report(s); err != nil {
		return nil, err
	}
	return s.todos.Items(), nil
}

// pick resolves a 1-based index argument against items.
func (a *app) pick(items []model.TodoItem, arg string) (model.TodoItem, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return model.TodoItem{}, usageError("not a number: %s", arg)
	}
	if n < 1 || n > len(items) {
		ui.Fail(a.streams.Err, fmt.Sprintf("index out of range: have %d, got %d", len(items), n))
		fmt.Fprintln(a.streams.Err, ui.Current().Muted.Render("Hint: run `tada ls --plain` to see valid indexes"))
		return model.TodoItem{}, &exitError{Code: ExitUsage}
	}
	return items[n-1], nil
}

func title(args []string) (string, error) {
	t := strings.TrimSpace(strings.Join(args, " "))
	if err := validate.Title(t); err != nil {
		return "", usageError("empty title")
	}
	return t, nil
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add <title...>",
		Short:   "Add a todo (the title can be several words)",
		Example: `  tada add "Buy milk"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			t, err := title(args)
			if err != nil {
				return err
			}
			s, err := a.newSession()
			if err != nil {
				return err
			}
			s.todos.Add(cmd.Context(), t)
			return a.report(s)
		}),
	}
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <index>",
		Short: "Toggle completion of the todo at a 1-based index",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession()
			if err != nil {
				return err
			}
			items, err := a.fetch(cmd.Context(), s)
			if err != nil {
				return err
			}
			item, err := a.pick(items, args[0])
			if err != nil {
				return err
			}
			item.Completed = !item.Completed
			s.todos.Update(cmd.Context(), item)
			return a.report(s)
		}),
	}
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <index>",
		Short: "Remove the todo at a 1-based index",
		Args:  cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession()
			if err != nil {
				return err
			}
			items, err := a.fetch(cmd.Context(), s)
			if err != nil {
				return err
			}
			item, err := a.pick(items, args[0])
			if err != nil {
				return err
			}
			s.todos.Delete(cmd.Context(), item.ID)
			return a.report(s)
		}),
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <index> <title...>",
		Short: "Rename the todo at a 1-based index",
		Args:  cobra.MinimumNArgs(2),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			t, err := title(args[1:])
			if err != nil {
				return err
			}
			s, err := a.newSession()
			if err != nil {
				return err
			}
			items, err := a.fetch(cmd.Context(), s)
			if err != nil {
				return err
			}
			item, err := a.pick(items, args[0])
			if err != nil {
				return err
			}
			item.Title = t
			s.todos.Update(cmd.Context(), item)
			return a.report(s)
		}),
	}
}
