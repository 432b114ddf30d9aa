// Package tools provides the MCP tools exposed by the Oracle gateway.
package tools

import (
	"context"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/txn2/mcp-oracle/pkg/client"
)

// Tool names.
const (
	toolExecuteSQL       = "execute_sql"
	toolGetSchemas       = "get_schemas"
	toolGetTables        = "get_tables"
	toolGetTableMetadata = "get_table_metadata"
	toolValidateCost     = "validate_and_estimate_cost"
)

// Config holds toolkit configuration.
type Config struct {
	// DefaultLimit is the row cap applied when a caller does not request
	// a specific limit.
	DefaultLimit int

	// MaxLimit caps the rows any single execute_sql call may request.
	MaxLimit int

	// CostThreshold is the plan cost above which validate_and_estimate_cost
	// logs an advisory warning. The response is never affected.
	CostThreshold int

	// ReadOnly rejects write statements submitted to execute_sql.
	ReadOnly bool

	// TableAllowlist, when non-empty, restricts get_tables and
	// get_table_metadata to the named tables.
	TableAllowlist []string

	// Logger receives advisory and diagnostic output. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Toolkit provides the gateway's MCP tools over an Oracle client.
type Toolkit struct {
	name   string
	config Config
	client *client.Client
	logger *slog.Logger

	// allowed holds uppercase allowlist entries; nil means no restriction.
	allowed map[string]struct{}
}

// New creates a new Oracle toolkit.
func New(name string, cli *client.Client, cfg Config) *Toolkit {
	cfg = applyDefaults(cfg)

	var allowed map[string]struct{}
	if len(cfg.TableAllowlist) > 0 {
		allowed = make(map[string]struct{}, len(cfg.TableAllowlist))
		for _, table := range cfg.TableAllowlist {
			allowed[strings.ToUpper(table)] = struct{}{}
		}
	}

	return &Toolkit{
		name:    name,
		config:  cfg,
		client:  cli,
		logger:  cfg.Logger,
		allowed: allowed,
	}
}

// applyDefaults applies default values to the configuration.
func applyDefaults(cfg Config) Config {
	if cfg.DefaultLimit == 0 {
		cfg.DefaultLimit = 1000
	}
	if cfg.MaxLimit == 0 {
		cfg.MaxLimit = 10000
	}
	if cfg.CostThreshold == 0 {
		cfg.CostThreshold = 100000
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}

// Kind returns the toolkit kind.
func (*Toolkit) Kind() string {
	return "oracle"
}

// Name returns the toolkit instance name.
func (t *Toolkit) Name() string {
	return t.name
}

// RegisterTools registers all gateway tools with the MCP server.
func (t *Toolkit) RegisterTools(s *mcp.Server) {
	mcp.AddTool(s, &mcp.Tool{
		Name:        toolExecuteSQL,
		Description: "Executes an SQL query on the Oracle database and returns the rows as JSON.",
	}, t.handleExecuteSQL)

	mcp.AddTool(s, &mcp.Tool{
		Name:        toolGetSchemas,
		Description: "Retrieve the list of schemas (users) visible in the database.",
	}, t.handleGetSchemas)

	mcp.AddTool(s, &mcp.Tool{
		Name:        toolGetTables,
		Description: "Retrieve the list of table names for the given schema.",
	}, t.handleGetTables)

	mcp.AddTool(s, &mcp.Tool{
		Name:        toolGetTableMetadata,
		Description: "Retrieve column metadata for the given schema and table, including type, nullability, statistics, and index/partition membership.",
	}, t.handleGetTableMetadata)

	mcp.AddTool(s, &mcp.Tool{
		Name:        toolValidateCost,
		Description: "Validates an SQL query without executing it and returns its execution plan with the estimated cost.",
	}, t.handleValidateCost)
}

// Tools returns the list of tool names provided by this toolkit.
func (*Toolkit) Tools() []string {
	return []string{
		toolExecuteSQL,
		toolGetSchemas,
		toolGetTables,
		toolGetTableMetadata,
		toolValidateCost,
	}
}

// Config returns the toolkit configuration.
func (t *Toolkit) Config() Config {
	return t.config
}

// tableAllowed reports whether the allowlist permits the table. An empty
// allowlist permits everything.
func (t *Toolkit) tableAllowed(table string) bool {
	if t.allowed == nil {
		return true
	}
	_, ok := t.allowed[strings.ToUpper(table)]
	return ok
}

// Ping verifies connectivity to the underlying database.
func (t *Toolkit) Ping(ctx context.Context) error {
	return t.client.Ping(ctx)
}

// Close releases the underlying client.
func (t *Toolkit) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}
