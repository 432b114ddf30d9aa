package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// executeSQLInput defines the input schema for the execute_sql tool. The
// parameter name sqlString is part of the tool's wire contract; existing
// callers bind to it.
type executeSQLInput struct {
	SQLString string `json:"sqlString"`
	MaxRows   int    `json:"maxRows,omitempty"`
}

// handleExecuteSQL runs caller-supplied SQL and returns the rows as a JSON
// list of column-to-value mappings.
func (t *Toolkit) handleExecuteSQL(ctx context.Context, _ *mcp.CallToolRequest, input executeSQLInput) (*mcp.CallToolResult, any, error) {
	if input.SQLString == "" {
		return errorResult("sqlString is required"), nil, nil
	}

	if t.config.ReadOnly && isWriteStatement(input.SQLString) {
		return errorResult("write operations not allowed in read-only mode"), nil, nil
	}

	limit := input.MaxRows
	if limit <= 0 {
		limit = t.config.DefaultLimit
	}
	if limit > t.config.MaxLimit {
		limit = t.config.MaxLimit
	}

	result, err := t.client.Query(ctx, input.SQLString, limit)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	if result.Truncated {
		t.logger.Debug("query result truncated",
			"tool", toolExecuteSQL,
			"row_limit", limit,
		)
	}

	return jsonResult(result.Rows)
}
