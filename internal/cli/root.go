package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/config"
)

// Version is set at build time.
var Version = "dev"

type rootFlags struct {
	apiURL      string
	logLevel    string
	logFormat   string
	logFile     string
	theme       string
	toastTTL    time.Duration
	mockLatency bool
}

func (a *app) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tada",
		Short: "A todo list for the terminal",
		Long: `tada keeps a todo list on a REST endpoint.

Run without arguments (or with "ls") for the interactive screen, or use the
subcommands to script it.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: runE(func(cmd *cobra.Command, _ []string) error {
			return a.interactive(cmd, "")
		}),
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.flags.apiURL, "api-url", "", "todo collection endpoint (default "+config.DefaultAPIURL+")")
	f.StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn or error")
	f.StringVar(&a.flags.logFormat, "log-format", "", "text, json or logfmt")
	f.StringVar(&a.flags.logFile, "log-file", "", "log file used while the interactive screen runs")
	f.StringVar(&a.flags.theme, "theme", "", "classic, neon or mono")
	f.DurationVar(&a.flags.toastTTL, "toast-ttl", 0, "how long notifications stay on screen")
	f.BoolVar(&a.flags.mockLatency, "mock-latency", true, "simulate network latency on the home screen")

	cmd.AddCommand(
		a.lsCmd(),
		a.addCmd(),
		a.doneCmd(),
		a.rmCmd(),
		a.editCmd(),
		a.authCmd(),
		a.serveCmd(),
	)
	return cmd
}

// apply copies explicitly set flags over cfg.
func (f rootFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	set := cmd.Flags().Changed
	if set("api-url") {
		cfg.APIURL = f.apiURL
	}
	if set("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if set("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if set("log-file") {
		cfg.Log.File = f.logFile
	}
	if set("theme") {
		cfg.Theme = f.theme
	}
	if set("toast-ttl") {
		cfg.ToastTTL = config.Duration{Duration: f.toastTTL}
	}
	if set("mock-latency") {
		cfg.MockLatency = f.mockLatency
	}
	return cfg.Finalize()
}
