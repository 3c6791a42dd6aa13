package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalWorkflow returns a definition that passes every error check.
func minimalWorkflow() map[string]any {
	return map[string]any{
		"name": "Test Workflow",
		"nodes": []any{
			map[string]any{
				"id":          "node-1",
				"name":        "Start",
				"type":        "n8n-nodes-base.start",
				"typeVersion": float64(1),
				"position":    []any{float64(250), float64(300)},
			},
		},
		"connections": map[string]any{},
		"settings":    map[string]any{"executionOrder": "v1"},
	}
}

// --- Forbidden fields ---

func TestValidate_ForbiddenField(t *testing.T) {
	wf := minimalWorkflow()
	wf["id"] = "abc123"

	report := Validate(wf)
	assert.False(t, report.Valid())
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "'id'")
	assert.Contains(t, report.Errors[0], "must NOT have additional properties")
}

func TestValidate_ForbiddenFieldsSorted(t *testing.T) {
	wf := minimalWorkflow()
	wf["versionId"] = "v"
	wf["active"] = true
	wf["meta"] = map[string]any{}

	report := Validate(wf)
	require.Len(t, report.Errors, 3)
	assert.Contains(t, report.Errors[0], "'active'")
	assert.Contains(t, report.Errors[1], "'meta'")
	assert.Contains(t, report.Errors[2], "'versionId'")
}

// Adding one forbidden field to a valid workflow increases the error count
// by exactly one and flips validity.
func TestValidate_ForbiddenFieldMonotonicity(t *testing.T) {
	base := Validate(minimalWorkflow())
	assert.True(t, base.Valid())

	wf := minimalWorkflow()
	wf["staticData"] = map[string]any{}
	report := Validate(wf)
	assert.False(t, report.Valid())
	assert.Equal(t, len(base.Errors)+1, len(report.Errors))
}

// --- Required fields ---

func TestValidate_MissingRequiredFields(t *testing.T) {
	for _, removed := range [][]string{
		{"name"},
		{"nodes"},
		{"connections"},
		{"name", "nodes"},
		{"name", "nodes", "connections"},
	} {
		wf := minimalWorkflow()
		for _, field := range removed {
			delete(wf, field)
		}
		report := Validate(wf)
		assert.False(t, report.Valid())
		assert.GreaterOrEqual(t, len(report.Errors), len(removed))
		for _, field := range removed {
			found := false
			for _, msg := range report.Errors {
				if strings.Contains(msg, "'"+field+"'") {
					found = true
					break
				}
			}
			assert.True(t, found, "expected an error naming %q", field)
		}
	}
}

// --- Nodes ---

func TestValidate_NodesNotArray(t *testing.T) {
	wf := minimalWorkflow()
	wf["nodes"] = "not an array"

	report := Validate(wf)
	assert.Contains(t, report.Errors, "Field 'nodes' must be an array.")
}

func TestValidate_EmptyNodesWarns(t *testing.T) {
	wf := map[string]any{
		"name":        "T",
		"nodes":       []any{},
		"connections": map[string]any{},
	}

	report := Validate(wf)
	assert.True(t, report.Valid())
	assert.Equal(t, 0, len(report.Errors))

	joined := strings.Join(report.Warnings, "\n")
	assert.Contains(t, joined, "no nodes")
	assert.Contains(t, joined, "settings")
}

func TestValidate_NodeNotObject(t *testing.T) {
	wf := minimalWorkflow()
	wf["nodes"] = []any{"a string"}

	report := Validate(wf)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "index 0")
	assert.Contains(t, report.Errors[0], "string")
}

func TestValidate_NodeMissingFields(t *testing.T) {
	wf := minimalWorkflow()
	wf["nodes"] = []any{
		map[string]any{"name": "HTTP Request"},
	}
	wf["connections"] = map[string]any{}

	report := Validate(wf)
	assert.False(t, report.Valid())
	// id, position, type, typeVersion missing, in sorted order.
	require.Len(t, report.Errors, 4)
	assert.Contains(t, report.Errors[0], "'id'")
	assert.Contains(t, report.Errors[1], "'position'")
	assert.Contains(t, report.Errors[2], "'type'")
	assert.Contains(t, report.Errors[3], "'typeVersion'")
	for _, msg := range report.Errors {
		assert.Contains(t, msg, "HTTP Request")
	}
}

func TestValidate_UnnamedNodeUsesIndex(t *testing.T) {
	wf := minimalWorkflow()
	wf["nodes"] = []any{
		map[string]any{"id": "n1"},
	}

	report := Validate(wf)
	require.NotEmpty(t, report.Errors)
	assert.Contains(t, report.Errors[0], "index 0")
}

func TestValidate_DuplicateNodeID(t *testing.T) {
	wf := minimalWorkflow()
	node1 := map[string]any{
		"id": "dup", "name": "A", "type": "t", "typeVersion": float64(1),
		"position": []any{float64(0), float64(0)},
	}
	node2 := map[string]any{
		"id": "dup", "name": "B", "type": "t", "typeVersion": float64(1),
		"position": []any{float64(100), float64(0)},
	}
	wf["nodes"] = []any{node1, node2}

	report := Validate(wf)
	assert.False(t, report.Valid())
	joined := strings.ToLower(strings.Join(report.Errors, "\n"))
	assert.Contains(t, joined, "duplicate")
	assert.Contains(t, joined, "dup")
}

func TestValidate_PositionShape(t *testing.T) {
	wf := minimalWorkflow()
	node := wf["nodes"].([]any)[0].(map[string]any)
	node["position"] = []any{float64(1)}

	report := Validate(wf)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "position must be [x, y] array")

	node["position"] = "250,300"
	report = Validate(wf)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "position must be [x, y] array")
}

// --- Credentials ---

func TestValidate_CredentialByNameWarns(t *testing.T) {
	wf := minimalWorkflow()
	node := wf["nodes"].([]any)[0].(map[string]any)
	node["credentials"] = map[string]any{
		"githubApi": map[string]any{"name": "My GitHub Token"},
	}

	report := Validate(wf)
	assert.True(t, report.Valid())
	joined := strings.Join(report.Warnings, "\n")
	assert.Contains(t, joined, "My GitHub Token")
	assert.Contains(t, joined, "by name")
}

func TestValidate_CredentialByIDAccepted(t *testing.T) {
	wf := minimalWorkflow()
	node := wf["nodes"].([]any)[0].(map[string]any)
	node["credentials"] = map[string]any{
		"githubApi": map[string]any{"id": "cred-1", "name": "My GitHub Token"},
	}

	report := Validate(wf)
	for _, w := range report.Warnings {
		assert.NotContains(t, w, "by name")
	}
}

// --- Connections ---

func TestValidate_ConnectionsNotObject(t *testing.T) {
	wf := minimalWorkflow()
	wf["connections"] = []any{}

	report := Validate(wf)
	assert.Contains(t, report.Errors, "Field 'connections' must be an object.")
}

func TestValidate_ConnectionSourceMustMatchNode(t *testing.T) {
	wf := minimalWorkflow()
	wf["connections"] = map[string]any{
		"Ghost Node": map[string]any{"main": []any{}},
	}

	report := Validate(wf)
	assert.False(t, report.Valid())
	joined := strings.Join(report.Errors, "\n")
	assert.Contains(t, joined, "'Ghost Node'")
}

func TestValidate_ConnectionSourceMatches(t *testing.T) {
	wf := minimalWorkflow()
	wf["connections"] = map[string]any{
		"Start": map[string]any{"main": []any{}},
	}

	report := Validate(wf)
	assert.True(t, report.Valid())
}

// --- Settings ---

func TestValidate_MissingSettingsWarns(t *testing.T) {
	wf := minimalWorkflow()
	delete(wf, "settings")

	report := Validate(wf)
	assert.True(t, report.Valid())
	joined := strings.Join(report.Warnings, "\n")
	assert.Contains(t, joined, "executionOrder")
}

func TestValidate_SettingsWithoutExecutionOrderWarns(t *testing.T) {
	wf := minimalWorkflow()
	wf["settings"] = map[string]any{"saveManualExecutions": true}

	report := Validate(wf)
	assert.True(t, report.Valid())
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "Missing 'executionOrder'")
}

// --- Whole-report behavior ---

// Validation is idempotent and does not mutate its input.
func TestValidate_Idempotent(t *testing.T) {
	wf := minimalWorkflow()
	wf["id"] = "x"
	node := wf["nodes"].([]any)[0].(map[string]any)
	node["credentials"] = map[string]any{
		"slackApi": map[string]any{"name": "Slack"},
	}

	first := Validate(wf)
	second := Validate(wf)
	assert.Equal(t, first.Errors, second.Errors)
	assert.Equal(t, first.Warnings, second.Warnings)

	// Input untouched.
	assert.Equal(t, "x", wf["id"])
	assert.Len(t, wf["nodes"].([]any), 1)
}

func TestValidate_UnknownFieldsAccepted(t *testing.T) {
	wf := minimalWorkflow()
	wf["someFutureField"] = "whatever"

	report := Validate(wf)
	assert.True(t, report.Valid())
}

// Empty workflow: {"name":"T","nodes":[],"connections":{}} is valid with
// warnings only.
func TestValidate_MinimalEmptyWorkflow(t *testing.T) {
	report := Validate(map[string]any{
		"name":        "T",
		"nodes":       []any{},
		"connections": map[string]any{},
	})

	m := report.ToMap()
	assert.Equal(t, true, m["valid"])
	assert.Equal(t, 0, m["error_count"])
	assert.Equal(t, 2, m["warning_count"])
}

// Workflow with forbidden fields and missing containers reports all of them.
func TestValidate_ForbiddenAndMissingCombined(t *testing.T) {
	report := Validate(map[string]any{
		"name":   "T",
		"active": true,
		"id":     "x",
	})

	assert.False(t, report.Valid())
	assert.GreaterOrEqual(t, len(report.Errors), 4)
	joined := strings.Join(report.Errors, "\n")
	assert.Contains(t, joined, "'active'")
	assert.Contains(t, joined, "'id'")
	assert.Contains(t, joined, "'nodes'")
	assert.Contains(t, joined, "'connections'")
}
