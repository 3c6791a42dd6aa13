package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (s *N8nServer) executionTools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: getExecutionsTool(), Handler: s.handleGetExecutions},
		{Tool: getExecutionTool(), Handler: s.handleGetExecution},
		{Tool: deleteExecutionTool(), Handler: s.handleDeleteExecution},
		{Tool: retryExecutionTool(), Handler: s.handleRetryExecution},
	}
}

func getExecutionsTool() mcp.Tool {
	return mcp.NewTool("get_executions",
		mcp.WithDescription("List workflow execution history"),
		mcp.WithString("workflow_id", mcp.Description("Filter executions to one workflow")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of executions to return (default 20)")),
		mcp.WithString("jq", mcp.Description("Optional jq expression applied to the response")),
	)
}

func getExecutionTool() mcp.Tool {
	return mcp.NewTool("get_execution",
		mcp.WithDescription("Get specific execution details by ID"),
		mcp.WithString("execution_id", mcp.Required(), mcp.Description("ID of the execution to retrieve")),
	)
}

func deleteExecutionTool() mcp.Tool {
	return mcp.NewTool("delete_execution",
		mcp.WithDescription("Delete an execution history entry"),
		mcp.WithString("execution_id", mcp.Required(), mcp.Description("ID of the execution to delete")),
	)
}

func retryExecutionTool() mcp.Tool {
	return mcp.NewTool("retry_execution",
		mcp.WithDescription("Retry a failed execution"),
		mcp.WithString("execution_id", mcp.Required(), mcp.Description("ID of the execution to retry")),
	)
}

func (s *N8nServer) handleGetExecutions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID := req.GetString("workflow_id", "")
	limit := argInt(req, "limit", defaultExecutionLimit)
	return s.filteredResult(ctx, req, s.client.GetExecutions(ctx, workflowID, limit))
}

func (s *N8nServer) handleGetExecution(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	executionID, err := req.RequireString("execution_id")
	if err != nil {
		return mcp.NewToolResultError("execution_id is required"), nil
	}
	return marshalResult(s.client.GetExecution(ctx, executionID))
}

func (s *N8nServer) handleDeleteExecution(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	executionID, err := req.RequireString("execution_id")
	if err != nil {
		return mcp.NewToolResultError("execution_id is required"), nil
	}
	return marshalResult(s.client.DeleteExecution(ctx, executionID))
}

func (s *N8nServer) handleRetryExecution(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	executionID, err := req.RequireString("execution_id")
	if err != nil {
		return mcp.NewToolResultError("execution_id is required"), nil
	}
	return marshalResult(s.client.RetryExecution(ctx, executionID))
}
