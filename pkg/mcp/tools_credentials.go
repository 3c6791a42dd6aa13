package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (s *N8nServer) credentialTools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: listCredentialsTool(), Handler: s.handleListCredentials},
		{Tool: createCredentialTool(), Handler: s.handleCreateCredential},
		{Tool: updateCredentialTool(), Handler: s.handleUpdateCredential},
		{Tool: deleteCredentialTool(), Handler: s.handleDeleteCredential},
		{Tool: getCredentialSchemaTool(), Handler: s.handleGetCredentialSchema},
		{Tool: transferCredentialTool(), Handler: s.handleTransferCredential},
	}
}

func listCredentialsTool() mcp.Tool {
	return mcp.NewTool("list_credentials",
		mcp.WithDescription("List all credentials (id, name, type; secret data is redacted by the API). Use the IDs when wiring credentials into workflow nodes — references by name break on rename"),
		mcp.WithString("jq", mcp.Description("Optional jq expression applied to the response")),
	)
}

func createCredentialTool() mcp.Tool {
	return mcp.NewTool("create_credential",
		mcp.WithDescription("Create a new credential. Requires name, type (e.g. 'githubApi') and type-specific data"),
		mcp.WithObject("credential", mcp.Required(), mcp.Description("Credential definition with name, type and data")),
		mcp.WithBoolean("validate_data", mcp.Description("Check data against the credential type's schema before submitting (default false)")),
	)
}

func updateCredentialTool() mcp.Tool {
	return mcp.NewTool("update_credential",
		mcp.WithDescription("Update an existing credential (partial or complete)"),
		mcp.WithString("credential_id", mcp.Required(), mcp.Description("ID of the credential to update")),
		mcp.WithObject("credential", mcp.Required(), mcp.Description("Credential fields to update")),
	)
}

func deleteCredentialTool() mcp.Tool {
	return mcp.NewTool("delete_credential",
		mcp.WithDescription("Delete a credential"),
		mcp.WithString("credential_id", mcp.Required(), mcp.Description("ID of the credential to delete")),
	)
}

func getCredentialSchemaTool() mcp.Tool {
	return mcp.NewTool("get_credential_schema",
		mcp.WithDescription("Get the JSON schema for a credential type"),
		mcp.WithString("credential_type_name", mcp.Required(), mcp.Description("Credential type name (e.g. 'githubApi', 'slackApi')")),
	)
}

func transferCredentialTool() mcp.Tool {
	return mcp.NewTool("transfer_credential",
		mcp.WithDescription("Transfer a credential to a different project"),
		mcp.WithString("credential_id", mcp.Required(), mcp.Description("ID of the credential to transfer")),
		mcp.WithString("destination_project_id", mcp.Required(), mcp.Description("ID of the destination project")),
	)
}

func (s *N8nServer) handleListCredentials(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.filteredResult(ctx, req, s.client.ListCredentials(ctx))
}

// handleCreateCredential optionally validates the data payload against the
// credential type's published schema before submitting, turning a blind
// HTTP 400 into named violations.
func (s *N8nServer) handleCreateCredential(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	credential := mcp.ParseStringMap(req, "credential", nil)
	if credential == nil {
		return mcp.NewToolResultError("credential is required"), nil
	}

	if argBool(req, "validate_data", false) {
		credType, _ := credential["type"].(string)
		if credType == "" {
			return mcp.NewToolResultError("validate_data requires the credential to carry a 'type'"), nil
		}
		data, _ := credential["data"].(map[string]any)
		if data == nil {
			data = map[string]any{}
		}

		credSchema := s.client.GetCredentialSchema(ctx, credType)
		if isErrorShaped(credSchema) {
			return marshalResult(credSchema)
		}

		violations, err := s.credSchema.Validate(data, credSchema)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if len(violations) > 0 {
			return marshalResult(map[string]any{
				"error":      "Credential data validation failed",
				"message":    "credential data does not conform to the credential type's schema",
				"violations": violations,
			})
		}
	}

	return marshalResult(s.client.CreateCredential(ctx, credential))
}

func (s *N8nServer) handleUpdateCredential(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	credentialID, err := req.RequireString("credential_id")
	if err != nil {
		return mcp.NewToolResultError("credential_id is required"), nil
	}
	credential := mcp.ParseStringMap(req, "credential", nil)
	if credential == nil {
		return mcp.NewToolResultError("credential is required"), nil
	}
	return marshalResult(s.client.UpdateCredential(ctx, credentialID, credential))
}

func (s *N8nServer) handleDeleteCredential(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	credentialID, err := req.RequireString("credential_id")
	if err != nil {
		return mcp.NewToolResultError("credential_id is required"), nil
	}
	return marshalResult(s.client.DeleteCredential(ctx, credentialID))
}

func (s *N8nServer) handleGetCredentialSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	credentialTypeName, err := req.RequireString("credential_type_name")
	if err != nil {
		return mcp.NewToolResultError("credential_type_name is required"), nil
	}
	return marshalResult(s.client.GetCredentialSchema(ctx, credentialTypeName))
}

func (s *N8nServer) handleTransferCredential(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	credentialID, err := req.RequireString("credential_id")
	if err != nil {
		return mcp.NewToolResultError("credential_id is required"), nil
	}
	destinationProjectID, err := req.RequireString("destination_project_id")
	if err != nil {
		return mcp.NewToolResultError("destination_project_id is required"), nil
	}
	return marshalResult(s.client.TransferCredential(ctx, credentialID, destinationProjectID))
}
