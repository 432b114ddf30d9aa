// Package server provides a factory for creating the MCP Oracle server.
package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/txn2/mcp-oracle/pkg/client"
	"github.com/txn2/mcp-oracle/pkg/config"
	"github.com/txn2/mcp-oracle/pkg/middleware"
	"github.com/txn2/mcp-oracle/pkg/tools"
)

// Version is set at build time.
var Version = "dev"

// New creates an MCP server wired to an Oracle toolkit built from cfg.
// The returned toolkit owns the database connection pool and must be
// closed when the server shuts down.
func New(cfg *config.Config) (*mcp.Server, *tools.Toolkit, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("validating config: %w", err)
	}

	logger := newLogger()

	cli, err := client.New(client.Config{
		User:         cfg.Oracle.User,
		Password:     cfg.Oracle.Password,
		DSN:          cfg.Oracle.DSN,
		Timeout:      cfg.Oracle.Timeout,
		MaxOpenConns: cfg.Oracle.MaxOpenConns,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating oracle client: %w", err)
	}

	toolkit := tools.New(cfg.Server.Name, cli, tools.Config{
		DefaultLimit:   cfg.Query.DefaultLimit,
		MaxLimit:       cfg.Query.MaxLimit,
		ReadOnly:       cfg.Query.ReadOnly,
		TableAllowlist: cfg.Query.TableAllowlist,
		CostThreshold:  cfg.Plan.CostThreshold,
		Logger:         logger,
	})

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	}, nil)
	mcpServer.AddReceivingMiddleware(middleware.MCPRequestLogMiddleware(logger))

	toolkit.RegisterTools(mcpServer)

	logger.Info("server configured",
		"name", cfg.Server.Name,
		"version", cfg.Server.Version,
		"tools", toolkit.Tools(),
	)

	return mcpServer, toolkit, nil
}

// newLogger builds the server logger. Logs go to stderr so stdout stays
// reserved for the stdio transport.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
