package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ajitpratap0/leadsegment/internal/mcp"
	"github.com/ajitpratap0/leadsegment/internal/segment"
	"github.com/ajitpratap0/leadsegment/pkg/textnorm"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP (Model Context Protocol) server over stdio",
		Long: `Starts an MCP JSON-RPC 2.0 server that reads from stdin and writes to stdout.
All diagnostic logs go to stderr so that stdout remains exclusively MCP protocol traffic.

Tools exposed:
  segment     run one cluster over a CSV export and return the report
  validate    check a CSV export's columns
  geo_config  show the active geographic configuration

If the configured cache is unavailable at startup the server still starts
without a cache.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			eng, closeFn, engErr := newEngine(cmd.Context(), logger)
			defer closeFn()
			if engErr != nil {
				// Continue uncached; results are recomputed on every call.
				logger.Error("mcp: cache unavailable; running without a cache", "error", engErr)
				eng = segment.NewEngine(logger, nil, 0)
			}

			srv := mcp.NewServer(eng, cfg.Geo, textnorm.DefaultStateAliases(), cfg.Segment.Options(), logger)

			// Use a standard log.Logger pointing at stderr for the mcp-go error logger.
			errLogger := log.New(os.Stderr, "mcp: ", log.LstdFlags)

			logger.Info("mcp: leadsegment MCP server starting", "transport", "stdio")

			return mcpserver.ServeStdio(
				srv.MCPServer(),
				mcpserver.WithErrorLogger(errLogger),
			)
		},
	}

	return cmd
}
