// Package health derives a categorical health signal for a workflow from
// its recent execution history.
//
// Analyze is a pure function over already-fetched resources; it performs no
// I/O and never fails. Noisy records are tolerated: unparseable timestamps
// are dropped from the duration sample and records matching neither the
// failed nor the successful predicate count as running/unknown.
package health

import (
	"fmt"
	"math"
	"time"

	"n8nmcp/pkg/schema"
)

// Classification predicates. Successful and failed are evaluated as two
// independent passes over the records, not mutually exclusive filters; the
// running count is whatever the subtraction leaves. This mirrors the
// platform's own accounting, ambiguities included.
func isFailed(e map[string]any) bool {
	return e["status"] == "error" || (truthy(e["stoppedAt"]) && !truthy(e["finished"]))
}

func isSuccessful(e map[string]any) bool {
	return truthy(e["finished"]) && e["status"] != "error"
}

// Analyze classifies recent executions and produces a health report.
// The workflow map must expose at least "name" and "active"; execution
// records optionally expose "finished", "status", "startedAt", "stoppedAt".
func Analyze(workflowID string, workflow map[string]any, executions []any) *schema.HealthReport {
	workflowName := "Unknown"
	if name, ok := workflow["name"].(string); ok {
		workflowName = name
	}

	if len(executions) == 0 {
		return &schema.HealthReport{
			WorkflowID:      workflowID,
			WorkflowName:    workflowName,
			HealthStatus:    schema.HealthUnknown,
			Issues:          []string{"No execution history available"},
			Recommendations: []string{"Execute the workflow to establish baseline metrics"},
		}
	}

	records := make([]map[string]any, 0, len(executions))
	for _, raw := range executions {
		if e, ok := raw.(map[string]any); ok {
			records = append(records, e)
		} else {
			// Malformed entries still count toward the total; they simply
			// match neither predicate.
			records = append(records, map[string]any{})
		}
	}

	total := len(records)
	successful := 0
	for _, e := range records {
		if isSuccessful(e) {
			successful++
		}
	}
	failed := 0
	for _, e := range records {
		if isFailed(e) {
			failed++
		}
	}
	running := total - successful - failed

	completed := successful + failed
	var successRate float64
	if completed > 0 {
		successRate = float64(successful) / float64(completed) * 100
	} else if running == total {
		successRate = 100.0
	} else {
		successRate = 0.0
	}

	var durations []float64
	for _, e := range records {
		started, _ := e["startedAt"].(string)
		stopped, _ := e["stoppedAt"].(string)
		if started == "" || stopped == "" {
			continue
		}
		start, ok := parseTimestamp(started)
		if !ok {
			continue
		}
		stop, ok := parseTimestamp(stopped)
		if !ok {
			continue
		}
		if d := stop.Sub(start).Seconds(); d >= 0 {
			durations = append(durations, d)
		}
	}
	var avgDuration *float64
	if len(durations) > 0 {
		sum := 0.0
		for _, d := range durations {
			sum += d
		}
		avg := round2(sum / float64(len(durations)))
		avgDuration = &avg
	}

	issues := make([]string, 0, 2)
	recommendations := make([]string, 0, 2)

	var status string
	switch {
	case completed == 0:
		status = schema.HealthUnknown
		issues = append(issues, "No completed executions to analyze")
	case successRate > 95:
		status = schema.HealthHealthy
	case successRate >= 80:
		status = schema.HealthDegraded
		issues = append(issues, fmt.Sprintf("%d failed executions in recent history", failed))
		recommendations = append(recommendations, "Review failed execution logs to identify root cause")
	default:
		status = schema.HealthUnhealthy
		issues = append(issues, fmt.Sprintf("High failure rate: %d of %d executions failed", failed, completed))
		recommendations = append(recommendations,
			"Investigate workflow configuration and external dependencies",
			"Consider disabling workflow until issues are resolved")
	}

	if running > 0 {
		issues = append(issues, fmt.Sprintf("%d executions currently running or in unknown state", running))
	}
	if !truthy(workflow["active"]) {
		issues = append(issues, "Workflow is currently inactive")
		recommendations = append(recommendations, "Activate workflow if it should be running")
	}

	rate := round1(successRate)
	return &schema.HealthReport{
		WorkflowID:           workflowID,
		WorkflowName:         workflowName,
		HealthStatus:         status,
		SuccessRate:          &rate,
		TotalExecutions:      total,
		SuccessfulExecutions: successful,
		FailedExecutions:     failed,
		AvgDurationSeconds:   avgDuration,
		Issues:               issues,
		Recommendations:      recommendations,
	}
}

// timestampLayouts accepted for execution records: RFC 3339 with an offset
// or trailing Z (fractional seconds allowed), plus the offset-less form some
// n8n deployments emit.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// truthy applies loose truthiness to decoded JSON values: false, nil, zero,
// empty string, and empty containers are all falsy.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case int:
		return val != 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
