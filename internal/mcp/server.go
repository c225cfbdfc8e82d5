package mcp

import (
	"context"

	"fundview/internal/diagnostics"
	"fundview/internal/results"
	"fundview/internal/simclient"
	"fundview/internal/viewmodel"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Options configure a Server.
type Options struct {
	Normalize     viewmodel.Options
	MermaidCharts bool
}

// Server exposes simulation normalization as MCP tools.
type Server struct {
	client   simclient.Client
	results  *results.Store
	recorder *diagnostics.Recorder
	opts     Options
}

// NewServer wires the tools to a simulation client and a results store. The store
// should be built with the same normalization options.
func NewServer(client simclient.Client, store *results.Store, recorder *diagnostics.Recorder, opts Options) *Server {
	return &Server{
		client:   client,
		results:  store,
		recorder: recorder,
		opts:     opts,
	}
}

// MCPServer builds the protocol server with every tool registered.
func (s *Server) MCPServer(version string) *sdk.Server {
	srv := sdk.NewServer(&sdk.Implementation{Name: "fundview", Version: version}, nil)
	s.registerTools(srv)
	return srv
}

// Serve runs the MCP protocol over stdin/stdout until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context, version string) error {
	log.Info().Str("version", version).Msg("MCP server listening on stdio")
	return s.MCPServer(version).Run(ctx, &sdk.StdioTransport{})
}
