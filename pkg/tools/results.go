package tools

import (
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// errorPayload is the uniform error object returned to callers. Failures
// travel inside a normal tool result so clients have a single path for
// interpreting responses.
type errorPayload struct {
	Error string `json:"error"`
}

// errorResult builds an error tool result carrying a JSON error object.
func errorResult(msg string) *mcp.CallToolResult {
	data, err := json.Marshal(errorPayload{Error: msg})
	if err != nil {
		data = []byte(`{"error":"internal error"}`)
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}
}

// jsonResult builds a success tool result with the value rendered as
// indented JSON.
func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("encoding result: " + err.Error()), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}
