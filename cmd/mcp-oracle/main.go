// Package main provides the entry point for the mcp-oracle server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	mcpserver "github.com/txn2/mcp-oracle/internal/server"
	"github.com/txn2/mcp-oracle/pkg/config"
	"github.com/txn2/mcp-oracle/pkg/health"
	"github.com/txn2/mcp-oracle/pkg/tools"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type serverOptions struct {
	configPath  string
	transport   string
	address     string
	showVersion bool
}

func parseFlags() serverOptions {
	opts := serverOptions{}
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.transport, "transport", "", "Transport type: stdio, http")
	flag.StringVar(&opts.address, "address", "", "Server address for HTTP transport")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version and exit")
	flag.Parse()
	return opts
}

func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx
}

// loadConfig resolves configuration from the file named by -config, or
// from the environment when no file is given.
func loadConfig(opts serverOptions) (*config.Config, error) {
	if opts.configPath != "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	return config.FromEnv(), nil
}

func createServer(opts serverOptions) (*mcp.Server, *tools.Toolkit, *config.Config, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, nil, err
	}

	mcpServer, toolkit, err := mcpserver.New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return mcpServer, toolkit, cfg, nil
}

func run() error {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("mcp-oracle version %s\n", mcpserver.Version)
		return nil
	}

	ctx := setupSignalHandler()

	mcpServer, toolkit, cfg, err := createServer(opts)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer func() { _ = toolkit.Close() }()

	applyConfigOverrides(cfg, &opts)

	return startServer(ctx, mcpServer, toolkit, opts)
}

// applyConfigOverrides fills unset transport flags from the loaded
// configuration. Flags win; the config carries the stdio/:8080 defaults
// and, in the env path, MCP_TRANSPORT/MCP_ADDRESS.
func applyConfigOverrides(cfg *config.Config, opts *serverOptions) {
	if opts.transport == "" {
		opts.transport = cfg.Server.Transport
	}
	if opts.address == "" {
		opts.address = cfg.Server.Address
	}
}

func startServer(ctx context.Context, mcpServer *mcp.Server, toolkit *tools.Toolkit, opts serverOptions) error {
	switch opts.transport {
	case "stdio":
		return mcpServer.Run(ctx, &mcp.StdioTransport{})
	case "http":
		return serveHTTP(ctx, mcpServer, toolkit, opts.address)
	default:
		return fmt.Errorf("unknown transport: %s", opts.transport)
	}
}

// serveHTTP serves the MCP server over the Streamable HTTP transport until
// ctx is cancelled. Liveness and readiness probes are exposed alongside
// the MCP endpoint.
func serveHTTP(ctx context.Context, mcpServer *mcp.Server, toolkit *tools.Toolkit, address string) error {
	checker := health.NewChecker(toolkit)

	mux := http.NewServeMux()
	mux.Handle("/healthz", checker.LivenessHandler())
	mux.Handle("/readyz", checker.ReadinessHandler())
	mux.Handle("/", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return mcpServer }, nil))

	httpServer := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		checker.SetReady()
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		checker.SetDraining()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
