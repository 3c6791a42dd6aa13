package validation

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"n8nmcp/pkg/schema"
)

// checkScheduleExpressions lints cron expressions on schedule trigger nodes.
// A bad expression is accepted by the API but the trigger never fires, so
// this is a warning rather than an error.
func checkScheduleExpressions(workflow map[string]any, report *schema.ValidationReport) {
	nodes, ok := workflow["nodes"].([]any)
	if !ok {
		return
	}

	for i, rawNode := range nodes {
		node, ok := rawNode.(map[string]any)
		if !ok {
			continue
		}
		nodeType, _ := node["type"].(string)
		if !isScheduleNodeType(nodeType) {
			continue
		}

		parameters, ok := node["parameters"].(map[string]any)
		if !ok {
			continue
		}
		expr, ok := parameters["cronExpression"].(string)
		if !ok || expr == "" {
			continue
		}

		if _, err := cron.ParseStandard(expr); err != nil {
			report.AddWarning(fmt.Sprintf(
				"Node '%s' cron expression '%s' is invalid: %v. The trigger will never fire.",
				nodeLabel(node, i), expr, err))
		}
	}
}

func isScheduleNodeType(nodeType string) bool {
	return strings.HasSuffix(nodeType, ".cron") ||
		strings.HasSuffix(nodeType, ".scheduleTrigger")
}
