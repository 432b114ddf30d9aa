package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/txn2/mcp-oracle/pkg/client"
)

// getSchemasInput is empty since the tool has no parameters.
type getSchemasInput struct{}

// getTablesInput defines the input schema for the get_tables tool.
type getTablesInput struct {
	Schema string `json:"schema"`
}

// getTableMetadataInput defines the input schema for the
// get_table_metadata tool.
type getTableMetadataInput struct {
	Schema    string `json:"schema"`
	TableName string `json:"table_name"`
}

// handleGetSchemas returns the schema names visible to the connecting
// credential.
func (t *Toolkit) handleGetSchemas(ctx context.Context, _ *mcp.CallToolRequest, _ getSchemasInput) (*mcp.CallToolResult, any, error) {
	schemas, err := t.client.ListSchemas(ctx)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	if schemas == nil {
		schemas = []string{}
	}
	return jsonResult(schemas)
}

// handleGetTables returns the table names owned by a schema, filtered by
// the allowlist when one is configured.
func (t *Toolkit) handleGetTables(ctx context.Context, _ *mcp.CallToolRequest, input getTablesInput) (*mcp.CallToolResult, any, error) {
	if input.Schema == "" {
		return errorResult("schema is required"), nil, nil
	}

	tables, err := t.client.ListTables(ctx, input.Schema)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	filtered := make([]string, 0, len(tables))
	for _, table := range tables {
		if t.tableAllowed(table) {
			filtered = append(filtered, table)
		}
	}
	return jsonResult(filtered)
}

// handleGetTableMetadata returns column metadata for a table.
func (t *Toolkit) handleGetTableMetadata(ctx context.Context, _ *mcp.CallToolRequest, input getTableMetadataInput) (*mcp.CallToolResult, any, error) {
	if input.Schema == "" || input.TableName == "" {
		return errorResult("schema and table_name are required"), nil, nil
	}
	if !t.tableAllowed(input.TableName) {
		return errorResult(fmt.Sprintf("table %q is not permitted by the configured allowlist",
			strings.ToUpper(input.TableName))), nil, nil
	}

	columns, err := t.client.DescribeTable(ctx, input.Schema, input.TableName)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	if columns == nil {
		columns = []client.ColumnMetadata{}
	}
	return jsonResult(columns)
}
