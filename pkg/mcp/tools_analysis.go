package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"n8nmcp/internal/health"
	"n8nmcp/internal/validation"
)

const defaultExecutionLimit = 20

func (s *N8nServer) analysisTools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: validateWorkflowTool(), Handler: s.handleValidateWorkflow},
		{Tool: workflowHealthTool(), Handler: s.handleWorkflowHealth},
	}
}

func validateWorkflowTool() mcp.Tool {
	return mcp.NewTool("validate_workflow",
		mcp.WithDescription("Validate a workflow definition against n8n API requirements before create_workflow or update_workflow. Reports errors (will cause API rejection: forbidden fields, missing required fields, malformed nodes, dangling connections) and warnings (reliability risks: credentials referenced by name, missing executionOrder setting). Purely local, no API call"),
		mcp.WithObject("workflow", mcp.Required(), mcp.Description("Workflow definition object to validate")),
	)
}

func workflowHealthTool() mcp.Tool {
	return mcp.NewTool("get_workflow_health",
		mcp.WithDescription("Analyze a workflow's recent executions and report health status (healthy >95% success, degraded 80-95%, unhealthy <80%, unknown without history), success rate, execution counts, average duration, issues and recommendations"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("ID of the workflow to analyze")),
		mcp.WithNumber("execution_limit", mcp.Description("Number of recent executions to analyze (default 20)")),
	)
}

func (s *N8nServer) handleValidateWorkflow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflow := mcp.ParseStringMap(req, "workflow", nil)
	if workflow == nil {
		return mcp.NewToolResultError("workflow is required"), nil
	}
	report := validation.Validate(workflow)
	s.logger.DebugContext(ctx, "workflow validated",
		"errors", len(report.Errors), "warnings", len(report.Warnings))
	return marshalResult(report.ToMap())
}

// handleWorkflowHealth fetches the workflow and its recent executions, then
// hands both to the analyzer. Either fetch failing short-circuits: the
// upstream error is returned as-is, never a partial report.
func (s *N8nServer) handleWorkflowHealth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID, err := req.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError("workflow_id is required"), nil
	}
	limit := argInt(req, "execution_limit", defaultExecutionLimit)

	workflow := s.client.GetWorkflow(ctx, workflowID)
	if isErrorShaped(workflow) {
		return marshalResult(workflow)
	}

	executionsResp := s.client.GetExecutions(ctx, workflowID, limit)
	if isErrorShaped(executionsResp) {
		return marshalResult(executionsResp)
	}
	executions, _ := executionsResp["data"].([]any)

	report := health.Analyze(workflowID, workflow, executions)
	return marshalResult(report)
}
