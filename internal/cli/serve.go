package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/server"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (a *app) serveCmd() *cobra.Command {
	var (
		listen   string
		dataFile string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local todo API backed by a JSON file",
		Long: `Run a local todo API backed by a JSON file.

The file is seeded with sample todos when it does not exist. Point the
client at it with --api-url http://<listen>/todos.`,
		Args: cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("listen") {
				a.cfg.Serve.Listen = listen
			}
			if cmd.Flags().Changed("data") {
				a.cfg.Serve.DataFile = dataFile
			}

			data := jsonstore.Open(a.cfg.Serve.DataFile)
			if err := data.Seed(model.MockTodos()); err != nil {
				return fmt.Errorf("seed: %w", err)
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			srv := server.New(data, server.Options{Logger: a.logger, Registry: reg})

			ui.OK(a.streams.Out, fmt.Sprintf("serving http://%s/todos (data: %s)", a.cfg.Serve.Listen, data.Path()))
			return srv.ListenAndServe(cmd.Context(), a.cfg.Serve.Listen)
		}),
	}
	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (default "+config.DefaultListen+")")
	cmd.Flags().StringVar(&dataFile, "data", "", "JSON file holding the todos (default ./todos.json)")
	return cmd
}
