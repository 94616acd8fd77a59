package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (a *app) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the API token",
	}
	cmd.AddCommand(a.loginCmd(), a.logoutCmd(), a.statusCmd(), a.whoamiCmd())
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a token (read from --token or stdin)",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, _ []string) error {
			if token == "" {
				fmt.Fprint(a.streams.Out, "Paste your token: ")
				line, err := bufio.NewReader(a.streams.In).ReadString('\n')
				if err != nil && strings.TrimSpace(line) == "" {
					return fmt.Errorf("read token: %w", err)
				}
				token = line
			}
			if err := a.creds.Set(token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			ui.OK(a.streams.Out, "logged in")
			return nil
		}),
	}
	cmd.Flags().StringVar(&token, "token", "", "token to store")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the stored token",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, _ []string) error {
			if ti, _ := a.creds.Get(); ti != nil && ti.Source == "env" {
				ui.OK(a.streams.Out, "token is provided by "+auth.EnvToken+" env var (nothing to delete)")
				return nil
			}
			if err := a.creds.Delete(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			ui.OK(a.streams.Out, "logged out")
			return nil
		}),
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from and when it expires",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, _ []string) error {
			ti, err := a.creds.Get()
			if err != nil {
				return err
			}
			out := a.streams.Out
			if ti == nil {
				fmt.Fprintln(out, ui.Current().Muted.Render("not logged in"))
				fmt.Fprintln(out, "Run: tada auth login")
				return nil
			}
			fmt.Fprintf(out, "source: %s\n", ti.Source)
			switch {
			case ti.ExpiresAt == nil:
				fmt.Fprintln(out, "expires: (unknown)")
			case ti.Expired(time.Now()):
				fmt.Fprintf(out, "expires: %s %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339), ui.Current().Error.Render("(expired)"))
			default:
				fmt.Fprintf(out, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
			}
			fmt.Fprintln(out, "env override: "+auth.EnvToken)
			return nil
		}),
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the claims of a JWT token (not verified)",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, _ []string) error {
			ti, err := a.creds.Get()
			if err != nil {
				return err
			}
			if ti == nil {
				return usageError("not logged in. Run: tada auth login")
			}
			claims, err := auth.Claims(ti.Token)
			if err != nil {
				fmt.Fprintln(a.streams.Out, "Opaque token (cannot introspect locally).")
				fmt.Fprintln(a.streams.Out, "source:", ti.Source)
				return nil
			}
			b, err := json.MarshalIndent(claims, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(a.streams.Out, "JWT payload:")
			fmt.Fprintln(a.streams.Out, string(b))
			return nil
		}),
	}
}
