// Package middleware provides MCP protocol-level middleware for the
// Oracle gateway.
package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// methodToolsCall is the MCP method name for tool invocations.
const methodToolsCall = "tools/call"

// MCPRequestLogMiddleware creates receiving middleware that logs every
// tools/call request with a per-request correlation ID, the tool name,
// duration, and outcome.
func MCPRequestLogMiddleware(logger *slog.Logger) mcp.Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			if method != methodToolsCall {
				return next(ctx, method, req)
			}

			requestID := uuid.NewString()
			toolName := extractToolName(req)
			start := time.Now()

			result, err := next(ctx, method, req)

			logger.Info("tool call",
				"request_id", requestID,
				"tool", toolName,
				"duration_ms", time.Since(start).Milliseconds(),
				"is_error", isErrorOutcome(result, err),
			)

			return result, err
		}
	}
}

// extractToolName extracts the tool name from a tools/call request.
func extractToolName(req mcp.Request) string {
	params, ok := req.GetParams().(*mcp.CallToolParamsRaw)
	if !ok || params == nil {
		return ""
	}
	return params.Name
}

// isErrorOutcome reports whether the call failed, either at the protocol
// level or as a tool error result.
func isErrorOutcome(result mcp.Result, err error) bool {
	if err != nil {
		return true
	}
	if callResult, ok := result.(*mcp.CallToolResult); ok {
		return callResult.IsError
	}
	return false
}
