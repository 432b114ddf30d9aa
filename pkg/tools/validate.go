package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// validateCostInput defines the input schema for the
// validate_and_estimate_cost tool.
type validateCostInput struct {
	Query string `json:"query"`
}

// handleValidateCost validates a query through the Oracle planner and
// returns its execution plan with the estimated cost. A cost above the
// configured threshold logs an advisory warning; it never fails the call.
func (t *Toolkit) handleValidateCost(ctx context.Context, _ *mcp.CallToolRequest, input validateCostInput) (*mcp.CallToolResult, any, error) {
	if input.Query == "" {
		return errorResult("query is required"), nil, nil
	}

	report, err := t.client.ExplainPlan(ctx, input.Query)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	if report.Cost > t.config.CostThreshold {
		t.logger.Warn("estimated query cost exceeds threshold; this query may impact database performance",
			"tool", toolValidateCost,
			"statement_id", report.StatementID,
			"estimated_cost", report.Cost,
			"cost_threshold", t.config.CostThreshold,
		)
	}

	return jsonResult(report)
}
