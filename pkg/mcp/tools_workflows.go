package mcp

import (
	"context"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"n8nmcp/pkg/schema"
)

func (s *N8nServer) workflowTools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: listWorkflowsTool(), Handler: s.handleListWorkflows},
		{Tool: getWorkflowTool(), Handler: s.handleGetWorkflow},
		{Tool: createWorkflowTool(), Handler: s.handleCreateWorkflow},
		{Tool: updateWorkflowTool(), Handler: s.handleUpdateWorkflow},
		{Tool: deleteWorkflowTool(), Handler: s.handleDeleteWorkflow},
		{Tool: activateWorkflowTool(), Handler: s.handleActivateWorkflow},
		{Tool: deactivateWorkflowTool(), Handler: s.handleDeactivateWorkflow},
		{Tool: executeWorkflowTool(), Handler: s.handleExecuteWorkflow},
		{Tool: getWorkflowVersionTool(), Handler: s.handleGetWorkflowVersion},
		{Tool: transferWorkflowTool(), Handler: s.handleTransferWorkflow},
		{Tool: getWorkflowTagsTool(), Handler: s.handleGetWorkflowTags},
		{Tool: updateWorkflowTagsTool(), Handler: s.handleUpdateWorkflowTags},
		{Tool: cloneWorkflowTool(), Handler: s.handleCloneWorkflow},
	}
}

// --- Tool definitions ---

func listWorkflowsTool() mcp.Tool {
	return mcp.NewTool("list_workflows",
		mcp.WithDescription("List workflows with optional filtering. Filters combine with AND logic"),
		mcp.WithString("name_contains", mcp.Description("Filter by name substring (case-insensitive)")),
		mcp.WithBoolean("active", mcp.Description("Filter by active status; omit for all workflows")),
		mcp.WithArray("tag_ids", mcp.Description("Tag IDs the workflow must all carry")),
		mcp.WithString("jq", mcp.Description("Optional jq expression applied to the response")),
	)
}

func getWorkflowTool() mcp.Tool {
	return mcp.NewTool("get_workflow",
		mcp.WithDescription("Get a specific workflow by ID"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("ID of the workflow to retrieve")),
	)
}

func createWorkflowTool() mcp.Tool {
	return mcp.NewTool("create_workflow",
		mcp.WithDescription("Create a new workflow. The definition must carry name, nodes and connections, and must NOT carry server-managed fields (active, id, createdAt, updatedAt, versionId, staticData, meta, pinData, triggerCount, versionCounter, description) — those cause a 400. Run validate_workflow first to catch issues. Use activate_workflow after creation"),
		mcp.WithObject("workflow", mcp.Required(), mcp.Description("Workflow definition object")),
	)
}

func updateWorkflowTool() mcp.Tool {
	return mcp.NewTool("update_workflow",
		mcp.WithDescription("Update an existing workflow. The n8n v1 update endpoint rejects most fields returned by get_workflow; send ONLY name, nodes, connections and settings. When updates keep failing, the reliable path is get_workflow, delete_workflow, create_workflow (execution history, tags and the workflow ID are lost)"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("ID of the workflow to update")),
		mcp.WithObject("workflow", mcp.Required(), mcp.Description("Minimal workflow definition object")),
	)
}

func deleteWorkflowTool() mcp.Tool {
	return mcp.NewTool("delete_workflow",
		mcp.WithDescription("Delete a workflow"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("ID of the workflow to delete")),
	)
}

func activateWorkflowTool() mcp.Tool {
	return mcp.NewTool("activate_workflow",
		mcp.WithDescription("Activate or deactivate a workflow"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("ID of the workflow")),
		mcp.WithBoolean("active", mcp.Required(), mcp.Description("true to activate, false to deactivate")),
	)
}

func deactivateWorkflowTool() mcp.Tool {
	return mcp.NewTool("deactivate_workflow",
		mcp.WithDescription("Deactivate a workflow"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("ID of the workflow to deactivate")),
	)
}

func executeWorkflowTool() mcp.Tool {
	return mcp.NewTool("execute_workflow",
		mcp.WithDescription("Trigger a workflow execution"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("ID of the workflow to execute")),
		mcp.WithObject("data", mcp.Description("Input data passed to the workflow")),
	)
}

func getWorkflowVersionTool() mcp.Tool {
	return mcp.NewTool("get_workflow_version",
		mcp.WithDescription("Get a specific version of a workflow"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("ID of the workflow")),
		mcp.WithString("version_id", mcp.Required(), mcp.Description("Version ID to retrieve")),
	)
}

func transferWorkflowTool() mcp.Tool {
	return mcp.NewTool("transfer_workflow",
		mcp.WithDescription("Transfer a workflow to a different project"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("ID of the workflow to transfer")),
		mcp.WithString("destination_project_id", mcp.Required(), mcp.Description("ID of the destination project")),
	)
}

func getWorkflowTagsTool() mcp.Tool {
	return mcp.NewTool("get_workflow_tags",
		mcp.WithDescription("Get tags assigned to a workflow"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("ID of the workflow")),
	)
}

func updateWorkflowTagsTool() mcp.Tool {
	return mcp.NewTool("update_workflow_tags",
		mcp.WithDescription("Replace the tags assigned to a workflow"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("ID of the workflow")),
		mcp.WithArray("tag_ids", mcp.Required(), mcp.Description("Tag IDs to assign")),
	)
}

func cloneWorkflowTool() mcp.Tool {
	return mcp.NewTool("clone_workflow",
		mcp.WithDescription("Clone a workflow under a new name, automatically stripping server-managed fields that would cause API errors. Credential references are preserved; execution history and tags are not copied"),
		mcp.WithString("source_workflow_id", mcp.Required(), mcp.Description("ID of the workflow to clone")),
		mcp.WithString("new_name", mcp.Required(), mcp.Description("Name for the cloned workflow")),
		mcp.WithBoolean("activate", mcp.Description("Activate the clone after creation (default false)")),
	)
}

// --- Handlers ---

func (s *N8nServer) handleListWorkflows(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := s.client.ListWorkflows(ctx)
	if isErrorShaped(result) {
		return marshalResult(result)
	}

	nameContains := strings.ToLower(req.GetString("name_contains", ""))
	activeArg, activeSet := req.GetArguments()["active"].(bool)
	tagIDs := argStrings(req, "tag_ids")

	if nameContains != "" || activeSet || len(tagIDs) > 0 {
		workflows, _ := result["data"].([]any)
		filtered := make([]any, 0, len(workflows))
		for _, raw := range workflows {
			wf, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if nameContains != "" {
				name, _ := wf["name"].(string)
				if !strings.Contains(strings.ToLower(name), nameContains) {
					continue
				}
			}
			if activeSet {
				if active, _ := wf["active"].(bool); active != activeArg {
					continue
				}
			}
			if len(tagIDs) > 0 && !hasAllTags(wf, tagIDs) {
				continue
			}
			filtered = append(filtered, raw)
		}
		result = map[string]any{"data": filtered}
	}

	return s.filteredResult(ctx, req, result)
}

// hasAllTags reports whether the workflow carries every requested tag ID.
func hasAllTags(workflow map[string]any, tagIDs []string) bool {
	tags, _ := workflow["tags"].([]any)
	present := make(map[string]bool, len(tags))
	for _, raw := range tags {
		if tag, ok := raw.(map[string]any); ok {
			if id, ok := tag["id"].(string); ok {
				present[id] = true
			}
		}
	}
	for _, id := range tagIDs {
		if !present[id] {
			return false
		}
	}
	return true
}

func (s *N8nServer) handleGetWorkflow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID, err := req.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError("workflow_id is required"), nil
	}
	return marshalResult(s.client.GetWorkflow(ctx, workflowID))
}

func (s *N8nServer) handleCreateWorkflow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflow := mcp.ParseStringMap(req, "workflow", nil)
	if workflow == nil {
		return mcp.NewToolResultError("workflow is required"), nil
	}
	return marshalResult(s.client.CreateWorkflow(ctx, workflow))
}

func (s *N8nServer) handleUpdateWorkflow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID, err := req.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError("workflow_id is required"), nil
	}
	workflow := mcp.ParseStringMap(req, "workflow", nil)
	if workflow == nil {
		return mcp.NewToolResultError("workflow is required"), nil
	}
	return marshalResult(s.client.UpdateWorkflow(ctx, workflowID, workflow))
}

func (s *N8nServer) handleDeleteWorkflow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID, err := req.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError("workflow_id is required"), nil
	}
	return marshalResult(s.client.DeleteWorkflow(ctx, workflowID))
}

func (s *N8nServer) handleActivateWorkflow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID, err := req.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError("workflow_id is required"), nil
	}
	active, ok := req.GetArguments()["active"].(bool)
	if !ok {
		return mcp.NewToolResultError("active is required"), nil
	}
	return marshalResult(s.client.ActivateWorkflow(ctx, workflowID, active))
}

func (s *N8nServer) handleDeactivateWorkflow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID, err := req.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError("workflow_id is required"), nil
	}
	return marshalResult(s.client.DeactivateWorkflow(ctx, workflowID))
}

func (s *N8nServer) handleExecuteWorkflow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID, err := req.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError("workflow_id is required"), nil
	}
	data := mcp.ParseStringMap(req, "data", nil)
	return marshalResult(s.client.ExecuteWorkflow(ctx, workflowID, data))
}

func (s *N8nServer) handleGetWorkflowVersion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID, err := req.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError("workflow_id is required"), nil
	}
	versionID, err := req.RequireString("version_id")
	if err != nil {
		return mcp.NewToolResultError("version_id is required"), nil
	}
	return marshalResult(s.client.GetWorkflowVersion(ctx, workflowID, versionID))
}

func (s *N8nServer) handleTransferWorkflow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID, err := req.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError("workflow_id is required"), nil
	}
	destinationProjectID, err := req.RequireString("destination_project_id")
	if err != nil {
		return mcp.NewToolResultError("destination_project_id is required"), nil
	}
	return marshalResult(s.client.TransferWorkflow(ctx, workflowID, destinationProjectID))
}

func (s *N8nServer) handleGetWorkflowTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID, err := req.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError("workflow_id is required"), nil
	}
	return marshalResult(s.client.GetWorkflowTags(ctx, workflowID))
}

func (s *N8nServer) handleUpdateWorkflowTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID, err := req.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError("workflow_id is required"), nil
	}
	tagIDs := argStrings(req, "tag_ids")
	if tagIDs == nil {
		return mcp.NewToolResultError("tag_ids is required"), nil
	}
	return marshalResult(s.client.UpdateWorkflowTags(ctx, workflowID, tagIDs))
}

// handleCloneWorkflow copies a workflow, stripping read-only server state so
// the create call succeeds on the first try.
func (s *N8nServer) handleCloneWorkflow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourceID, err := req.RequireString("source_workflow_id")
	if err != nil {
		return mcp.NewToolResultError("source_workflow_id is required"), nil
	}
	newName, err := req.RequireString("new_name")
	if err != nil {
		return mcp.NewToolResultError("new_name is required"), nil
	}
	activate := argBool(req, "activate", false)

	source := s.client.GetWorkflow(ctx, sourceID)
	if isErrorShaped(source) {
		return marshalResult(source)
	}

	clean := make(map[string]any, len(schema.AllowedCloneFields))
	for _, field := range schema.AllowedCloneFields {
		if v, ok := source[field]; ok {
			clean[field] = v
		}
	}

	var fieldsRemoved []string
	for _, field := range schema.ForbiddenWorkflowFields {
		if _, ok := source[field]; ok {
			fieldsRemoved = append(fieldsRemoved, field)
		}
	}
	sort.Strings(fieldsRemoved)
	if fieldsRemoved == nil {
		fieldsRemoved = []string{}
	}

	clean["name"] = newName

	// Copy settings before touching them; the source map must stay intact.
	settings, ok := clean["settings"].(map[string]any)
	if !ok {
		settings = map[string]any{}
	} else {
		copied := make(map[string]any, len(settings))
		for k, v := range settings {
			copied[k] = v
		}
		settings = copied
	}
	if _, ok := settings["executionOrder"]; !ok {
		settings["executionOrder"] = "v1"
	}
	clean["settings"] = settings

	result := s.client.CreateWorkflow(ctx, clean)
	if isErrorShaped(result) {
		return marshalResult(result)
	}

	if activate {
		if id, ok := result["id"].(string); ok {
			activation := s.client.ActivateWorkflow(ctx, id, true)
			if !isErrorShaped(activation) {
				result = activation
			}
		}
	}

	return marshalResult(map[string]any{
		"cloned_workflow":    result,
		"source_workflow_id": sourceID,
		"fields_removed":     fieldsRemoved,
	})
}
