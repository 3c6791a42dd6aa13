// Package n8n is the HTTP transport collaborator for the n8n REST API.
//
// Every call performs exactly one best-effort request and returns a decoded
// map. Failures of any kind (HTTP status, network, decode) are folded into
// an error-shaped map carrying at least an "error" key; methods never return
// Go errors and never panic. Callers distinguish success from failure purely
// by the presence of that key.
package n8n

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const apiKeyHeader = "X-N8N-API-KEY"

// Options configures a Client.
type Options struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration // defaults to 30s
	VerifySSL bool          // off by default; homelab instances rarely have valid certs
	Logger    *slog.Logger
}

// Client talks to a single n8n instance.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client from Options.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	transport := http.DefaultTransport
	if !opts.VerifySSL {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		http:    &http.Client{Timeout: timeout, Transport: transport},
		logger:  logger,
	}
}

// errorResult builds the uniform error shape.
func errorResult(kind, message string) map[string]any {
	return map[string]any{"error": kind, "message": message}
}

// IsError reports whether a result map is error-shaped.
func IsError(result map[string]any) bool {
	_, ok := result["error"]
	return ok
}

// request performs one HTTP request and decodes the JSON response.
func (c *Client) request(ctx context.Context, method, endpoint string, query url.Values, body any) map[string]any {
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errorResult("Unknown error", fmt.Sprintf("encode request body: %v", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return errorResult("Unknown error", err.Error())
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errorResult("Network error", err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorResult("Network error", err.Error())
	}

	if resp.StatusCode >= 400 {
		c.logger.DebugContext(ctx, "n8n API error",
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode))
		return map[string]any{
			"error":   fmt.Sprintf("HTTP %d", resp.StatusCode),
			"message": fmt.Sprintf("%s %s returned %s", method, endpoint, resp.Status),
			"details": string(raw),
		}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return errorResult("Unknown error", fmt.Sprintf("decode response: %v", err))
	}
	switch v := decoded.(type) {
	case map[string]any:
		return v
	case []any:
		// A handful of endpoints return bare arrays; normalize to the
		// list envelope the rest of the API uses.
		return map[string]any{"data": v}
	default:
		return map[string]any{"data": v}
	}
}

// --- Workflows ---

// ListWorkflows returns all workflows.
func (c *Client) ListWorkflows(ctx context.Context) map[string]any {
	return c.request(ctx, http.MethodGet, "/api/v1/workflows", nil, nil)
}

// GetWorkflow returns one workflow by ID.
func (c *Client) GetWorkflow(ctx context.Context, workflowID string) map[string]any {
	return c.request(ctx, http.MethodGet, "/api/v1/workflows/"+url.PathEscape(workflowID), nil, nil)
}

// CreateWorkflow creates a new workflow from a definition map.
func (c *Client) CreateWorkflow(ctx context.Context, workflow map[string]any) map[string]any {
	return c.request(ctx, http.MethodPost, "/api/v1/workflows", nil, workflow)
}

// UpdateWorkflow replaces an existing workflow definition.
func (c *Client) UpdateWorkflow(ctx context.Context, workflowID string, workflow map[string]any) map[string]any {
	return c.request(ctx, http.MethodPut, "/api/v1/workflows/"+url.PathEscape(workflowID), nil, workflow)
}

// DeleteWorkflow deletes a workflow.
func (c *Client) DeleteWorkflow(ctx context.Context, workflowID string) map[string]any {
	return c.request(ctx, http.MethodDelete, "/api/v1/workflows/"+url.PathEscape(workflowID), nil, nil)
}

// ActivateWorkflow toggles a workflow's active flag.
func (c *Client) ActivateWorkflow(ctx context.Context, workflowID string, active bool) map[string]any {
	return c.request(ctx, http.MethodPatch, "/api/v1/workflows/"+url.PathEscape(workflowID), nil,
		map[string]any{"active": active})
}

// DeactivateWorkflow deactivates a workflow via the dedicated endpoint.
func (c *Client) DeactivateWorkflow(ctx context.Context, workflowID string) map[string]any {
	return c.request(ctx, http.MethodPost, "/api/v1/workflows/"+url.PathEscape(workflowID)+"/deactivate", nil, nil)
}

// ExecuteWorkflow triggers a workflow run with optional input data.
func (c *Client) ExecuteWorkflow(ctx context.Context, workflowID string, data map[string]any) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	return c.request(ctx, http.MethodPost, "/api/v1/workflows/"+url.PathEscape(workflowID)+"/execute", nil, data)
}

// GetWorkflowVersion returns a specific version of a workflow.
func (c *Client) GetWorkflowVersion(ctx context.Context, workflowID, versionID string) map[string]any {
	return c.request(ctx, http.MethodGet,
		"/api/v1/workflows/"+url.PathEscape(workflowID)+"/"+url.PathEscape(versionID), nil, nil)
}

// TransferWorkflow moves a workflow to another project.
func (c *Client) TransferWorkflow(ctx context.Context, workflowID, destinationProjectID string) map[string]any {
	return c.request(ctx, http.MethodPut, "/api/v1/workflows/"+url.PathEscape(workflowID)+"/transfer", nil,
		map[string]any{"destinationProjectId": destinationProjectID})
}

// GetWorkflowTags returns the tags assigned to a workflow.
func (c *Client) GetWorkflowTags(ctx context.Context, workflowID string) map[string]any {
	return c.request(ctx, http.MethodGet, "/api/v1/workflows/"+url.PathEscape(workflowID)+"/tags", nil, nil)
}

// UpdateWorkflowTags replaces the tags assigned to a workflow.
func (c *Client) UpdateWorkflowTags(ctx context.Context, workflowID string, tagIDs []string) map[string]any {
	return c.request(ctx, http.MethodPut, "/api/v1/workflows/"+url.PathEscape(workflowID)+"/tags", nil,
		map[string]any{"tags": tagIDs})
}

// --- Executions ---

// GetExecutions lists execution history, optionally filtered by workflow.
func (c *Client) GetExecutions(ctx context.Context, workflowID string, limit int) map[string]any {
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if workflowID != "" {
		query.Set("workflowId", workflowID)
	}
	return c.request(ctx, http.MethodGet, "/api/v1/executions", query, nil)
}

// GetExecution returns one execution by ID.
func (c *Client) GetExecution(ctx context.Context, executionID string) map[string]any {
	return c.request(ctx, http.MethodGet, "/api/v1/executions/"+url.PathEscape(executionID), nil, nil)
}

// DeleteExecution deletes an execution history entry.
func (c *Client) DeleteExecution(ctx context.Context, executionID string) map[string]any {
	return c.request(ctx, http.MethodDelete, "/api/v1/executions/"+url.PathEscape(executionID), nil, nil)
}

// RetryExecution retries a failed execution.
func (c *Client) RetryExecution(ctx context.Context, executionID string) map[string]any {
	return c.request(ctx, http.MethodPost, "/api/v1/executions/"+url.PathEscape(executionID)+"/retry", nil, nil)
}

// --- Credentials ---

// ListCredentials lists credentials (data redacted by the API).
func (c *Client) ListCredentials(ctx context.Context) map[string]any {
	return c.request(ctx, http.MethodGet, "/api/v1/credentials", nil, nil)
}

// CreateCredential creates a new credential.
func (c *Client) CreateCredential(ctx context.Context, credential map[string]any) map[string]any {
	return c.request(ctx, http.MethodPost, "/api/v1/credentials", nil, credential)
}

// UpdateCredential patches an existing credential.
func (c *Client) UpdateCredential(ctx context.Context, credentialID string, credential map[string]any) map[string]any {
	return c.request(ctx, http.MethodPatch, "/api/v1/credentials/"+url.PathEscape(credentialID), nil, credential)
}

// DeleteCredential deletes a credential.
func (c *Client) DeleteCredential(ctx context.Context, credentialID string) map[string]any {
	return c.request(ctx, http.MethodDelete, "/api/v1/credentials/"+url.PathEscape(credentialID), nil, nil)
}

// GetCredentialSchema returns the JSON schema for a credential type.
func (c *Client) GetCredentialSchema(ctx context.Context, credentialTypeName string) map[string]any {
	return c.request(ctx, http.MethodGet, "/api/v1/credentials/schema/"+url.PathEscape(credentialTypeName), nil, nil)
}

// TransferCredential moves a credential to another project.
func (c *Client) TransferCredential(ctx context.Context, credentialID, destinationProjectID string) map[string]any {
	return c.request(ctx, http.MethodPut, "/api/v1/credentials/"+url.PathEscape(credentialID)+"/transfer", nil,
		map[string]any{"destinationProjectId": destinationProjectID})
}

// --- Tags ---

// ListTags lists all tags.
func (c *Client) ListTags(ctx context.Context) map[string]any {
	return c.request(ctx, http.MethodGet, "/api/v1/tags", nil, nil)
}

// CreateTag creates a new tag.
func (c *Client) CreateTag(ctx context.Context, tag map[string]any) map[string]any {
	return c.request(ctx, http.MethodPost, "/api/v1/tags", nil, tag)
}

// GetTag returns one tag by ID.
func (c *Client) GetTag(ctx context.Context, tagID string) map[string]any {
	return c.request(ctx, http.MethodGet, "/api/v1/tags/"+url.PathEscape(tagID), nil, nil)
}

// UpdateTag updates an existing tag.
func (c *Client) UpdateTag(ctx context.Context, tagID string, tag map[string]any) map[string]any {
	return c.request(ctx, http.MethodPut, "/api/v1/tags/"+url.PathEscape(tagID), nil, tag)
}

// DeleteTag deletes a tag.
func (c *Client) DeleteTag(ctx context.Context, tagID string) map[string]any {
	return c.request(ctx, http.MethodDelete, "/api/v1/tags/"+url.PathEscape(tagID), nil, nil)
}
