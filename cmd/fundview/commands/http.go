package commands

import (
	"os"
	"os/signal"
	"syscall"

	"fundview/internal/httpapi"

	"github.com/spf13/cobra"
)

var httpAddr string

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "Serve the view model over an HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		addr := cfg.HTTPAddr
		if httpAddr != "" {
			addr = httpAddr
		}

		rt := newRuntime(cfg)
		defer rt.save(cfg.CacheDir)

		api := httpapi.New(rt.client, rt.results, rt.recorder, rt.opts)
		return api.ListenAndServe(ctx, addr)
	},
}

func init() {
	httpCmd.Flags().StringVar(&httpAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
	rootCmd.AddCommand(httpCmd)
}
