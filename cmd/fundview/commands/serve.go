package commands

import (
	"os"
	"os/signal"
	"syscall"

	"fundview/internal/mcp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdin/stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := newRuntime(cfg)
	defer rt.save(cfg.CacheDir)

	server := mcp.NewServer(rt.client, rt.results, rt.recorder, mcp.Options{
		Normalize:     rt.opts,
		MermaidCharts: cfg.EnableMermaidCharts,
	})
	err := server.Serve(ctx, Version)
	if err != nil && ctx.Err() == nil {
		return err
	}
	log.Info().Msg("MCP server stopped")
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
