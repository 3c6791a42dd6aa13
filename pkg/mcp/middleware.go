package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"n8nmcp/internal/logging"
)

// guard is the uniform boundary adapter around every tool handler: it mints
// a correlation ID for the call, pushes it with the tool name into the
// logging context, and converts panics and returned Go errors into error
// results so nothing below the tool surface can take the session down.
func (s *N8nServer) guard(name string, h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (res *mcp.CallToolResult, err error) {
		ctx = logging.WithTool(ctx, name)
		ctx = logging.WithCallID(ctx, uuid.New().String())

		defer func() {
			if r := recover(); r != nil {
				s.logger.ErrorContext(ctx, "tool handler panicked", "panic", fmt.Sprint(r))
				res = mcp.NewToolResultError(fmt.Sprintf("%s failed: internal error", name))
				err = nil
			}
		}()

		s.logger.DebugContext(ctx, "tool call")
		res, err = h(ctx, req)
		if err != nil {
			s.logger.WarnContext(ctx, "tool call failed", "err", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return res, nil
	}
}

// marshalResult converts a value to a JSON text tool result.
func marshalResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultJSON(json.RawMessage(data))
}

// filteredResult applies an optional jq expression to an API response before
// marshalling. API error-shaped maps pass through untouched so callers see
// the upstream failure as-is.
func (s *N8nServer) filteredResult(ctx context.Context, req mcp.CallToolRequest, result map[string]any) (*mcp.CallToolResult, error) {
	expr := req.GetString("jq", "")
	if expr == "" || isErrorShaped(result) {
		return marshalResult(result)
	}
	out, err := s.jq.Apply(ctx, expr, any(result))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return marshalResult(out)
}

// isErrorShaped reports whether a transport result carries an error.
func isErrorShaped(result map[string]any) bool {
	_, ok := result["error"]
	return ok
}

// argBool reads an optional boolean argument; missing or mistyped values
// fall back to def.
func argBool(req mcp.CallToolRequest, key string, def bool) bool {
	if v, ok := req.GetArguments()[key].(bool); ok {
		return v
	}
	return def
}

// argInt reads an optional integer argument (JSON numbers decode as
// float64); missing or mistyped values fall back to def.
func argInt(req mcp.CallToolRequest, key string, def int) int {
	switch v := req.GetArguments()[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

// argStrings reads an optional array-of-strings argument; non-string
// elements are skipped.
func argStrings(req mcp.CallToolRequest, key string) []string {
	raw, ok := req.GetArguments()[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
