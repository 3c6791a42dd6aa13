// Package validation checks workflow definitions against the n8n API's
// acceptance rules before submission, so agents get actionable messages
// instead of opaque 400 responses.
//
// Validation is pure and total: any mapping-shaped input produces a report,
// malformed values become errors in the report, and nothing here touches the
// network. Unknown extra fields outside the fixed forbidden list are
// accepted; the API's full rule set is wider than what is documented, so
// only known-bad shapes are encoded.
package validation

import (
	"fmt"
	"sort"

	"n8nmcp/pkg/schema"
)

var (
	forbiddenWorkflowFields = fieldSet(schema.ForbiddenWorkflowFields)
	requiredWorkflowFields  = fieldSet(schema.RequiredWorkflowFields)
	requiredNodeFields      = fieldSet(schema.RequiredNodeFields)
)

func fieldSet(fields []string) map[string]bool {
	s := make(map[string]bool, len(fields))
	for _, f := range fields {
		s[f] = true
	}
	return s
}

// Validate runs every check against a workflow definition and returns the
// aggregated report. Checks are independent and all always run; errors and
// warnings are appended in check order.
func Validate(workflow map[string]any) *schema.ValidationReport {
	report := &schema.ValidationReport{}

	checkForbiddenFields(workflow, report)
	checkRequiredFields(workflow, report)
	validateNodes(workflow, report)
	validateConnections(workflow, report)
	checkScheduleExpressions(workflow, report)
	checkRecommendedSettings(workflow, report)

	return report
}

// checkForbiddenFields flags fields that trigger the API's
// "must NOT have additional properties" rejection.
func checkForbiddenFields(workflow map[string]any, report *schema.ValidationReport) {
	var present []string
	for field := range workflow {
		if forbiddenWorkflowFields[field] {
			present = append(present, field)
		}
	}
	sort.Strings(present)
	for _, field := range present {
		report.AddError(fmt.Sprintf(
			"Forbidden field '%s' present. Remove it to avoid 'must NOT have additional properties' error.",
			field))
	}
}

func checkRequiredFields(workflow map[string]any, report *schema.ValidationReport) {
	var missing []string
	for field := range requiredWorkflowFields {
		if _, ok := workflow[field]; !ok {
			missing = append(missing, field)
		}
	}
	sort.Strings(missing)
	for _, field := range missing {
		report.AddError(fmt.Sprintf("Required field '%s' is missing.", field))
	}
}

// validateNodes checks the structure of the nodes array. Absence is already
// reported by the required-field check, so nil means nothing further to do.
func validateNodes(workflow map[string]any, report *schema.ValidationReport) {
	raw, ok := workflow["nodes"]
	if !ok || raw == nil {
		return
	}

	nodes, ok := raw.([]any)
	if !ok {
		report.AddError("Field 'nodes' must be an array.")
		return
	}

	if len(nodes) == 0 {
		report.AddWarning("Workflow has no nodes. Consider adding at least a trigger node.")
		return
	}

	seenIDs := make(map[string]bool)
	for i, rawNode := range nodes {
		node, ok := rawNode.(map[string]any)
		if !ok {
			report.AddError(fmt.Sprintf("Node at index %d must be an object, got %s.", i, jsonTypeName(rawNode)))
			continue
		}

		label := nodeLabel(node, i)

		var missing []string
		for field := range requiredNodeFields {
			if _, ok := node[field]; !ok {
				missing = append(missing, field)
			}
		}
		sort.Strings(missing)
		for _, field := range missing {
			report.AddError(fmt.Sprintf("Node '%s' missing required field '%s'.", label, field))
		}

		if id := nodeID(node); id != "" {
			if seenIDs[id] {
				report.AddError(fmt.Sprintf("Duplicate node ID '%s' found.", id))
			}
			seenIDs[id] = true
		}

		if position, ok := node["position"]; ok && position != nil {
			if coords, ok := position.([]any); !ok || len(coords) != 2 {
				report.AddError(fmt.Sprintf("Node '%s' position must be [x, y] array.", label))
			}
		}

		checkCredentialRefs(node, label, report)
	}
}

// checkCredentialRefs warns on credentials referenced by display name only.
// A renamed credential silently breaks such a reference; IDs are stable.
func checkCredentialRefs(node map[string]any, label string, report *schema.ValidationReport) {
	credentials, ok := node["credentials"].(map[string]any)
	if !ok {
		return
	}
	// Iterate in sorted key order so repeated runs emit identical reports.
	credTypes := make([]string, 0, len(credentials))
	for credType := range credentials {
		credTypes = append(credTypes, credType)
	}
	sort.Strings(credTypes)
	for _, credType := range credTypes {
		ref := schema.ParseCredentialRef(credentials[credType])
		if ref.Kind == schema.CredentialRefByName {
			report.AddWarning(fmt.Sprintf(
				"Node '%s' references credential '%s' by name. Use 'id' for reliability.",
				label, ref.Name))
		}
	}
}

// validateConnections checks that every connection source names a node.
func validateConnections(workflow map[string]any, report *schema.ValidationReport) {
	raw, ok := workflow["connections"]
	if !ok || raw == nil {
		return
	}

	connections, ok := raw.(map[string]any)
	if !ok {
		report.AddError("Field 'connections' must be an object.")
		return
	}

	nodeNames := make(map[string]bool)
	if nodes, ok := workflow["nodes"].([]any); ok {
		for _, rawNode := range nodes {
			if node, ok := rawNode.(map[string]any); ok {
				if name, ok := node["name"].(string); ok {
					nodeNames[name] = true
				}
			}
		}
	}

	sources := make([]string, 0, len(connections))
	for source := range connections {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	for _, source := range sources {
		if !nodeNames[source] {
			report.AddError(fmt.Sprintf("Connection source '%s' does not match any node name.", source))
		}
	}
}

func checkRecommendedSettings(workflow map[string]any, report *schema.ValidationReport) {
	raw, ok := workflow["settings"]
	if !ok || raw == nil {
		report.AddWarning(`Missing 'settings' field. Recommend adding: {"settings": {"executionOrder": "v1"}}`)
		return
	}
	if settings, ok := raw.(map[string]any); ok {
		if _, ok := settings["executionOrder"]; !ok {
			report.AddWarning(`Missing 'executionOrder' in settings. Recommend: {"executionOrder": "v1"}`)
		}
	}
}

// nodeLabel returns the node's name, or its index when unnamed.
func nodeLabel(node map[string]any, index int) string {
	if name, ok := node["name"].(string); ok && name != "" {
		return name
	}
	return fmt.Sprintf("index %d", index)
}

// nodeID normalizes the node id to a string key; empty when absent.
func nodeID(node map[string]any) string {
	v, ok := node["id"]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// jsonTypeName names a decoded JSON value's type for error messages.
func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
