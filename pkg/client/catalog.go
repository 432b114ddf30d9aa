package client

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// stmt builds catalog queries with Oracle bind placeholders.
var stmt = sq.StatementBuilder.PlaceholderFormat(sq.Colon)

// ColumnMetadata describes one column of a table, derived per call from
// the ALL_* catalog views.
type ColumnMetadata struct {
	Name            string `json:"column_name"`
	DataType        string `json:"data_type"`
	DataLength      int64  `json:"data_length"`
	Nullable        bool   `json:"nullable"`
	NumDistinct     *int64 `json:"num_distinct"`
	NumNulls        *int64 `json:"num_nulls"`
	Indexed         bool   `json:"is_indexed"`
	PartitionKey    bool   `json:"is_partition_key"`
	SubpartitionKey bool   `json:"is_subpartition_key"`
}

// ListSchemas returns all schema (user) names visible to the connecting
// credential, ordered lexicographically.
func (c *Client) ListSchemas(ctx context.Context) ([]string, error) {
	var schemas []string
	err := c.withSession(ctx, func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, "SELECT USERNAME FROM ALL_USERS ORDER BY USERNAME")
		if err != nil {
			return fmt.Errorf("%w: listing schemas: %w", ErrDataAccess, err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return fmt.Errorf("%w: scanning schema row: %w", ErrDataAccess, err)
			}
			schemas = append(schemas, name)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: iterating schema rows: %w", ErrDataAccess, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return schemas, nil
}

// ListTables returns the table names owned by the given schema. The schema
// is normalized to the catalog's uppercase form; an unknown schema yields
// an empty result, not an error.
func (c *Client) ListTables(ctx context.Context, schema string) ([]string, error) {
	query, args, err := stmt.
		Select("TABLE_NAME").
		From("ALL_TABLES").
		Where(sq.Eq{"OWNER": strings.ToUpper(schema)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: building table query: %w", ErrDataAccess, err)
	}

	var tables []string
	err = c.withSession(ctx, func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: listing tables: %w", ErrDataAccess, err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return fmt.Errorf("%w: scanning table row: %w", ErrDataAccess, err)
			}
			tables = append(tables, name)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: iterating table rows: %w", ErrDataAccess, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// flagExpr renders a YES/NO flag for a left-joined catalog view.
func flagExpr(column, alias string) string {
	return fmt.Sprintf("CASE WHEN %s IS NOT NULL THEN 'YES' ELSE 'NO' END AS %s", column, alias)
}

// DescribeTable returns column metadata for the given table: declared type
// and length, nullability, optimizer statistics, and whether each column
// participates in an index, partition key, or subpartition key. Both
// inputs are normalized to uppercase. An unknown table yields an empty
// result.
func (c *Client) DescribeTable(ctx context.Context, schema, table string) ([]ColumnMetadata, error) {
	query, args, err := stmt.
		Select(
			"col.COLUMN_ID",
			"col.COLUMN_NAME",
			"col.DATA_TYPE",
			"col.DATA_LENGTH",
			"col.NULLABLE",
			"col.NUM_DISTINCT",
			"col.NUM_NULLS",
			flagExpr("idx.COLUMN_NAME", "IS_INDEXED"),
			flagExpr("part.COLUMN_NAME", "IS_PARTITION_KEY"),
			flagExpr("subpart.COLUMN_NAME", "IS_SUBPARTITION_KEY"),
		).
		Distinct().
		From("ALL_TAB_COLUMNS col").
		LeftJoin("ALL_IND_COLUMNS idx ON col.OWNER = idx.TABLE_OWNER" +
			" AND col.TABLE_NAME = idx.TABLE_NAME" +
			" AND col.COLUMN_NAME = idx.COLUMN_NAME").
		LeftJoin("ALL_PART_KEY_COLUMNS part ON col.OWNER = part.OWNER" +
			" AND col.TABLE_NAME = part.NAME" +
			" AND col.COLUMN_NAME = part.COLUMN_NAME").
		LeftJoin("ALL_SUBPART_KEY_COLUMNS subpart ON col.OWNER = subpart.OWNER" +
			" AND col.TABLE_NAME = subpart.NAME" +
			" AND col.COLUMN_NAME = subpart.COLUMN_NAME").
		Where(sq.Eq{
			"col.OWNER":      strings.ToUpper(schema),
			"col.TABLE_NAME": strings.ToUpper(table),
		}).
		OrderBy("col.COLUMN_ID").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: building describe query: %w", ErrDataAccess, err)
	}

	var columns []ColumnMetadata
	err = c.withSession(ctx, func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: describing table: %w", ErrDataAccess, err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			col, err := scanColumnMetadata(rows)
			if err != nil {
				return err
			}
			columns = append(columns, col)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: iterating column rows: %w", ErrDataAccess, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return columns, nil
}

// scanColumnMetadata scans one ALL_TAB_COLUMNS join row.
func scanColumnMetadata(rows *sql.Rows) (ColumnMetadata, error) {
	var (
		col         ColumnMetadata
		columnID    sql.NullInt64
		nullable    string
		numDistinct sql.NullInt64
		numNulls    sql.NullInt64
		indexed     string
		partKey     string
		subpartKey  string
	)
	err := rows.Scan(
		&columnID,
		&col.Name,
		&col.DataType,
		&col.DataLength,
		&nullable,
		&numDistinct,
		&numNulls,
		&indexed,
		&partKey,
		&subpartKey,
	)
	if err != nil {
		return ColumnMetadata{}, fmt.Errorf("%w: scanning column row: %w", ErrDataAccess, err)
	}

	col.Nullable = nullable == "Y"
	if numDistinct.Valid {
		col.NumDistinct = &numDistinct.Int64
	}
	if numNulls.Valid {
		col.NumNulls = &numNulls.Int64
	}
	col.Indexed = indexed == "YES"
	col.PartitionKey = partKey == "YES"
	col.SubpartitionKey = subpartKey == "YES"
	return col, nil
}
