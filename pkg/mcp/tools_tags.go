package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (s *N8nServer) tagTools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: listTagsTool(), Handler: s.handleListTags},
		{Tool: createTagTool(), Handler: s.handleCreateTag},
		{Tool: getTagTool(), Handler: s.handleGetTag},
		{Tool: updateTagTool(), Handler: s.handleUpdateTag},
		{Tool: deleteTagTool(), Handler: s.handleDeleteTag},
	}
}

func listTagsTool() mcp.Tool {
	return mcp.NewTool("list_tags",
		mcp.WithDescription("List all tags"),
		mcp.WithString("jq", mcp.Description("Optional jq expression applied to the response")),
	)
}

func createTagTool() mcp.Tool {
	return mcp.NewTool("create_tag",
		mcp.WithDescription("Create a new tag"),
		mcp.WithObject("tag", mcp.Required(), mcp.Description("Tag definition with a name")),
	)
}

func getTagTool() mcp.Tool {
	return mcp.NewTool("get_tag",
		mcp.WithDescription("Get a specific tag by ID"),
		mcp.WithString("tag_id", mcp.Required(), mcp.Description("ID of the tag to retrieve")),
	)
}

func updateTagTool() mcp.Tool {
	return mcp.NewTool("update_tag",
		mcp.WithDescription("Update an existing tag"),
		mcp.WithString("tag_id", mcp.Required(), mcp.Description("ID of the tag to update")),
		mcp.WithObject("tag", mcp.Required(), mcp.Description("Tag fields to update")),
	)
}

func deleteTagTool() mcp.Tool {
	return mcp.NewTool("delete_tag",
		mcp.WithDescription("Delete a tag"),
		mcp.WithString("tag_id", mcp.Required(), mcp.Description("ID of the tag to delete")),
	)
}

func (s *N8nServer) handleListTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.filteredResult(ctx, req, s.client.ListTags(ctx))
}

func (s *N8nServer) handleCreateTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag := mcp.ParseStringMap(req, "tag", nil)
	if tag == nil {
		return mcp.NewToolResultError("tag is required"), nil
	}
	return marshalResult(s.client.CreateTag(ctx, tag))
}

func (s *N8nServer) handleGetTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tagID, err := req.RequireString("tag_id")
	if err != nil {
		return mcp.NewToolResultError("tag_id is required"), nil
	}
	return marshalResult(s.client.GetTag(ctx, tagID))
}

func (s *N8nServer) handleUpdateTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tagID, err := req.RequireString("tag_id")
	if err != nil {
		return mcp.NewToolResultError("tag_id is required"), nil
	}
	tag := mcp.ParseStringMap(req, "tag", nil)
	if tag == nil {
		return mcp.NewToolResultError("tag is required"), nil
	}
	return marshalResult(s.client.UpdateTag(ctx, tagID, tag))
}

func (s *N8nServer) handleDeleteTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tagID, err := req.RequireString("tag_id")
	if err != nil {
		return mcp.NewToolResultError("tag_id is required"), nil
	}
	return marshalResult(s.client.DeleteTag(ctx, tagID))
}
