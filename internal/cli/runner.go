// Package cli is the tada command line. Every subcommand runs through the
// same stores the TUI uses and reports their toasts as status lines.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// exitError ends a command with a specific exit code. A nil Err means the
// failure was already reported.
type exitError struct {
	Code int
	Err  error
}

func (e *exitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit %d", e.Code)
	}
	return e.Err.Error()
}

func (e *exitError) Unwrap() error { return e.Err }

func usageError(format string, args ...any) error {
	return &exitError{Code: ExitUsage, Err: fmt.Errorf(format, args...)}
}

// Streams are the standard streams a command talks to.
type Streams struct {
	In       io.Reader
	Out, Err io.Writer
}

// app is the state shared by all subcommands, filled in before any of them run.
type app struct {
	streams Streams
	cfg     *config.Config
	logger  *log.Logger
	creds   *auth.Credentials

	flags rootFlags
}

// Run executes the command line in args and returns the exit code.
func Run(ctx context.Context, args []string, streams Streams) int {
	a := &app{streams: streams}
	cmd := a.rootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.Err != nil {
			ui.Fail(streams.Err, ee.Err.Error())
		}
		return ee.Code
	}
	// Anything else comes from cobra itself: unknown command, bad flag, wrong arity.
	ui.Fail(streams.Err, err.Error())
	fmt.Fprintln(streams.Err, ui.Current().Muted.Render("Run `tada --help` for usage."))
	return ExitUsage
}

// runE marks errors returned by a command body as runtime failures, so that
// Run can tell them apart from cobra's usage errors.
func runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		var ee *exitError
		if errors.As(err, &ee) {
			return err
		}
		return &exitError{Code: ExitError, Err: err}
	}
}

// setup loads configuration, applies flags and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return &exitError{Code: ExitError, Err: err}
	}
	if err := a.flags.apply(cmd, cfg); err != nil {
		return &exitError{Code: ExitUsage, Err: err}
	}
	a.cfg = cfg
	ui.SetTheme(cfg.Theme)

	a.logger = logging.New(a.streams.Err, logging.FromConfig(cfg.Log.Level, cfg.Log.Format))

	creds, err := auth.New(cfg.CredentialsDir)
	if err != nil {
		return &exitError{Code: ExitError, Err: err}
	}
	a.creds = creds
	return nil
}
