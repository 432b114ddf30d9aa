package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// QueryResult holds the outcome of an ad-hoc query: the statement's column
// names in descriptor order and at most the requested number of rows.
type QueryResult struct {
	Columns   []string         `json:"columns"`
	Rows      []map[string]any `json:"rows"`
	Truncated bool             `json:"truncated"`
}

// Query executes caller-supplied SQL verbatim on a dedicated session and
// returns up to maxRows rows. The statement is not inspected or rewritten;
// a mutating statement will mutate.
func (c *Client) Query(ctx context.Context, sqlText string, maxRows int) (*QueryResult, error) {
	if maxRows <= 0 {
		return nil, fmt.Errorf("%w: row limit must be positive", ErrQueryExecution)
	}

	var result *QueryResult
	err := c.withSession(ctx, func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, sqlText)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrQueryExecution, err)
		}
		defer func() { _ = rows.Close() }()

		result, err = collectRows(rows, maxRows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// collectRows drains at most maxRows rows into column-keyed maps.
func collectRows(rows *sql.Rows, maxRows int) (*QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: reading result columns: %w", ErrQueryExecution, err)
	}

	result := &QueryResult{
		Columns: columns,
		Rows:    []map[string]any{},
	}

	values := make([]any, len(columns))
	scanTargets := make([]any, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	for rows.Next() {
		if len(result.Rows) >= maxRows {
			result.Truncated = true
			break
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("%w: scanning result row: %w", ErrQueryExecution, err)
		}

		row := make(map[string]any, len(columns))
		for i, name := range columns {
			row[name] = normalizeValue(values[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating result rows: %w", ErrQueryExecution, err)
	}
	return result, nil
}

// normalizeValue converts driver values into JSON-friendly types.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return v
	}
}
