package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// PlanReport is the result of a plan-cost validation: the planner's
// human-readable plan lines and the root operation's cost estimate.
type PlanReport struct {
	StatementID string   `json:"-"`
	Lines       []string `json:"execution_plan"`
	Cost        int      `json:"estimated_cost"`
}

// ExplainPlan asks the Oracle planner for an execution plan and cost
// estimate without running the statement.
//
// PLAN_TABLE is shared by every session that runs EXPLAIN PLAN, so each
// validation tags its submission with a freshly generated statement ID and
// filters every read on that ID. Concurrent validations therefore never
// see each other's rows. All statements run on one session because
// PLAN_TABLE is typically a session-private global temporary table.
func (c *Client) ExplainPlan(ctx context.Context, sqlText string) (*PlanReport, error) {
	// An ID generation failure happens before any statement runs, so it
	// carries no data-access classification.
	id, err := NewStatementID()
	if err != nil {
		return nil, err
	}

	var report *PlanReport
	err = c.withSession(ctx, func(ctx context.Context, conn *sql.Conn) error {
		if err := submitPlan(ctx, conn, id, sqlText); err != nil {
			return err
		}

		lines, err := readPlanOutput(ctx, conn, id)
		if err != nil {
			return err
		}

		cost, err := readPlanCost(ctx, conn, id)
		if err != nil {
			return err
		}

		cleanupPlan(ctx, conn, id)

		report = &PlanReport{StatementID: id, Lines: lines, Cost: cost}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// submitPlan runs EXPLAIN PLAN tagged with the statement ID. The ID is
// generated from a fixed uppercase-alphanumeric charset, so interpolating
// it is safe; the candidate SQL cannot be bound inside EXPLAIN PLAN and is
// passed through verbatim, exactly as the planner will reject or accept it.
func submitPlan(ctx context.Context, conn *sql.Conn, id, sqlText string) error {
	explain := fmt.Sprintf("EXPLAIN PLAN SET STATEMENT_ID = '%s' FOR %s", id, sqlText)
	if _, err := conn.ExecContext(ctx, explain); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	return nil
}

// readPlanOutput reads the formatted plan lines for the tagged submission,
// in planner emission order.
func readPlanOutput(ctx context.Context, conn *sql.Conn, id string) ([]string, error) {
	rows, err := conn.QueryContext(ctx,
		"SELECT PLAN_TABLE_OUTPUT FROM TABLE(DBMS_XPLAN.DISPLAY(NULL, :1, 'TYPICAL'))", id)
	if err != nil {
		return nil, fmt.Errorf("%w: reading plan output: %w", ErrDataAccess, err)
	}
	defer func() { _ = rows.Close() }()

	var lines []string
	for rows.Next() {
		var line sql.NullString
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("%w: scanning plan line: %w", ErrDataAccess, err)
		}
		lines = append(lines, line.String)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating plan lines: %w", ErrDataAccess, err)
	}
	return lines, nil
}

// readPlanCost reads the root operation's cost (plan row ID 0) for the
// tagged submission. A missing row or NULL cost reports as 0.
func readPlanCost(ctx context.Context, conn *sql.Conn, id string) (int, error) {
	var cost sql.NullInt64
	err := conn.QueryRowContext(ctx,
		"SELECT COST FROM PLAN_TABLE WHERE STATEMENT_ID = :1 AND ID = 0", id).Scan(&cost)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: reading plan cost: %w", ErrDataAccess, err)
	}
	if !cost.Valid {
		return 0, nil
	}
	return int(cost.Int64), nil
}

// cleanupPlan removes the tagged rows from PLAN_TABLE. Hygiene only:
// correctness never depends on it, so failures are logged and ignored.
func cleanupPlan(ctx context.Context, conn *sql.Conn, id string) {
	if _, err := conn.ExecContext(ctx,
		"DELETE FROM PLAN_TABLE WHERE STATEMENT_ID = :1", id); err != nil {
		slog.Debug("plan table cleanup failed", "statement_id", id, "error", err)
	}
}
