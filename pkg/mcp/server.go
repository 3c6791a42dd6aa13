// Package mcp exposes the n8n REST API as MCP tools over stdio, plus the
// two local capabilities that never touch the network: workflow-definition
// validation and execution-health analysis.
package mcp

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"n8nmcp/internal/expressions"
	"n8nmcp/internal/validation"
)

const serverVersion = "1.0.0"

// API is what the tool surface needs from the n8n transport collaborator.
// Every method returns a decoded resource map or an error-shaped map with an
// "error" key; none of them return Go errors (see internal/n8n).
type API interface {
	ListWorkflows(ctx context.Context) map[string]any
	GetWorkflow(ctx context.Context, workflowID string) map[string]any
	CreateWorkflow(ctx context.Context, workflow map[string]any) map[string]any
	UpdateWorkflow(ctx context.Context, workflowID string, workflow map[string]any) map[string]any
	DeleteWorkflow(ctx context.Context, workflowID string) map[string]any
	ActivateWorkflow(ctx context.Context, workflowID string, active bool) map[string]any
	DeactivateWorkflow(ctx context.Context, workflowID string) map[string]any
	ExecuteWorkflow(ctx context.Context, workflowID string, data map[string]any) map[string]any
	GetWorkflowVersion(ctx context.Context, workflowID, versionID string) map[string]any
	TransferWorkflow(ctx context.Context, workflowID, destinationProjectID string) map[string]any
	GetWorkflowTags(ctx context.Context, workflowID string) map[string]any
	UpdateWorkflowTags(ctx context.Context, workflowID string, tagIDs []string) map[string]any

	GetExecutions(ctx context.Context, workflowID string, limit int) map[string]any
	GetExecution(ctx context.Context, executionID string) map[string]any
	DeleteExecution(ctx context.Context, executionID string) map[string]any
	RetryExecution(ctx context.Context, executionID string) map[string]any

	ListCredentials(ctx context.Context) map[string]any
	CreateCredential(ctx context.Context, credential map[string]any) map[string]any
	UpdateCredential(ctx context.Context, credentialID string, credential map[string]any) map[string]any
	DeleteCredential(ctx context.Context, credentialID string) map[string]any
	GetCredentialSchema(ctx context.Context, credentialTypeName string) map[string]any
	TransferCredential(ctx context.Context, credentialID, destinationProjectID string) map[string]any

	ListTags(ctx context.Context) map[string]any
	CreateTag(ctx context.Context, tag map[string]any) map[string]any
	GetTag(ctx context.Context, tagID string) map[string]any
	UpdateTag(ctx context.Context, tagID string, tag map[string]any) map[string]any
	DeleteTag(ctx context.Context, tagID string) map[string]any
}

// N8nServerDeps holds the dependencies for creating an N8nServer.
type N8nServerDeps struct {
	Client API
	Logger *slog.Logger
}

// N8nServer wraps an MCP server with n8n tool handlers.
type N8nServer struct {
	client     API
	logger     *slog.Logger
	jq         *expressions.JQ
	credSchema *validation.CredentialSchemaValidator
	mcpServer  *server.MCPServer
}

// NewN8nServer creates an N8nServer with all tools registered.
func NewN8nServer(deps N8nServerDeps) *N8nServer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	s := &N8nServer{
		client:     deps.Client,
		logger:     logger,
		jq:         expressions.NewJQ(),
		credSchema: validation.NewCredentialSchemaValidator(),
	}

	mcpSrv := server.NewMCPServer(
		"n8n-api",
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Bridge to an n8n workflow-automation instance. Manage workflows, executions, credentials and tags through the n8n REST API; use validate_workflow before create_workflow or update_workflow to catch rejections early, and get_workflow_health to diagnose a workflow from its recent executions."),
	)

	mcpSrv.AddTools(s.tools()...)
	s.mcpServer = mcpSrv
	return s
}

// Serve starts the stdio transport and blocks until ctx is cancelled or
// stdin closes.
func (s *N8nServer) Serve(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer returns the underlying MCPServer for testing or custom transports.
func (s *N8nServer) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// tools returns every registered tool, each wrapped with the guard
// middleware that converts failures into error results.
func (s *N8nServer) tools() []server.ServerTool {
	var all []server.ServerTool
	all = append(all, s.workflowTools()...)
	all = append(all, s.analysisTools()...)
	all = append(all, s.executionTools()...)
	all = append(all, s.credentialTools()...)
	all = append(all, s.tagTools()...)
	for i := range all {
		all[i].Handler = s.guard(all[i].Tool.Name, all[i].Handler)
	}
	return all
}
