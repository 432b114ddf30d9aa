package client

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockClient(t *testing.T) (*Client, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewWithDB(db, Config{User: "scott", DSN: "db/SVC"}), mock
}

func TestQuery_SingleRow(t *testing.T) {
	cli, mock := newMockClient(t)

	mock.ExpectQuery("SELECT 1 AS X FROM DUAL").
		WillReturnRows(sqlmock.NewRows([]string{"X"}).AddRow(1))

	result, err := cli.Query(context.Background(), "SELECT 1 AS X FROM DUAL", 100)
	require.NoError(t, err)

	assert.Equal(t, []string{"X"}, result.Columns)
	require.Len(t, result.Rows, 1)
	assert.EqualValues(t, 1, result.Rows[0]["X"])
	assert.False(t, result.Truncated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_RowCap(t *testing.T) {
	cli, mock := newMockClient(t)

	rows := sqlmock.NewRows([]string{"ID"}).AddRow(1).AddRow(2).AddRow(3)
	mock.ExpectQuery("SELECT ID FROM ORDERS").WillReturnRows(rows)

	result, err := cli.Query(context.Background(), "SELECT ID FROM ORDERS", 2)
	require.NoError(t, err)

	assert.Len(t, result.Rows, 2)
	assert.True(t, result.Truncated)
}

func TestQuery_ColumnOrder(t *testing.T) {
	cli, mock := newMockClient(t)

	rows := sqlmock.NewRows([]string{"B", "A", "C"}).AddRow("x", "y", "z")
	mock.ExpectQuery("SELECT .+ FROM T").WillReturnRows(rows)

	result, err := cli.Query(context.Background(), "SELECT B, A, C FROM T", 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "A", "C"}, result.Columns)
}

func TestQuery_ByteValuesNormalized(t *testing.T) {
	cli, mock := newMockClient(t)

	rows := sqlmock.NewRows([]string{"NAME"}).AddRow([]byte("widget"))
	mock.ExpectQuery("SELECT NAME FROM PRODUCTS").WillReturnRows(rows)

	result, err := cli.Query(context.Background(), "SELECT NAME FROM PRODUCTS", 10)
	require.NoError(t, err)

	assert.Equal(t, "widget", result.Rows[0]["NAME"])
}

func TestQuery_ExecutionError(t *testing.T) {
	cli, mock := newMockClient(t)

	mock.ExpectQuery("SELECT \\* FROM MISSING").
		WillReturnError(errors.New("ORA-00942: table or view does not exist"))

	_, err := cli.Query(context.Background(), "SELECT * FROM MISSING", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQueryExecution)
	assert.Contains(t, err.Error(), "ORA-00942")
}

func TestQuery_InvalidLimit(t *testing.T) {
	cli, _ := newMockClient(t)

	_, err := cli.Query(context.Background(), "SELECT 1 FROM DUAL", 0)
	assert.ErrorIs(t, err, ErrQueryExecution)
}

func TestQuery_EmptyResult(t *testing.T) {
	cli, mock := newMockClient(t)

	mock.ExpectQuery("SELECT ID FROM EMPTY").
		WillReturnRows(sqlmock.NewRows([]string{"ID"}))

	result, err := cli.Query(context.Background(), "SELECT ID FROM EMPTY", 10)
	require.NoError(t, err)

	assert.Empty(t, result.Rows)
	assert.Equal(t, []string{"ID"}, result.Columns)
	assert.False(t, result.Truncated)
}
