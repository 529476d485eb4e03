package mcp

import (
	"encoding/json"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/planboard/internal/transport"
)

// toolError reports a failed tool call with the same error body as the REST
// API, so agents can branch on its code.
func toolError(logger *slog.Logger, tool string, err error) *sdkmcp.CallToolResult {
	status, apiErr := transport.MapError(err)
	if status >= 500 && !apiErr.Retryable {
		logger.Error("tool failed", "tool", tool, "error", err)
	} else {
		logger.Debug("tool rejected", "tool", tool, "code", apiErr.Code)
	}

	data, _ := json.Marshal(map[string]any{"error": apiErr})
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}

// jsonResult wraps v as the text content of a tool result.
func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
