package client

import "errors"

// Error kinds returned by client operations. Callers classify failures
// with errors.Is; every error carries the underlying database error text.
var (
	// ErrConnection indicates a session could not be established.
	ErrConnection = errors.New("connection failed")

	// ErrInvalidQuery indicates the planner rejected the SQL as malformed.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrQueryExecution indicates a statement failed at run time.
	ErrQueryExecution = errors.New("query execution failed")

	// ErrDataAccess indicates a catalog or plan-table lookup failed for
	// reasons other than bad input.
	ErrDataAccess = errors.New("data access failed")
)
