package schema

// Health status values derived from recent execution history.
const (
	HealthHealthy   = "healthy"
	HealthDegraded  = "degraded"
	HealthUnhealthy = "unhealthy"
	HealthUnknown   = "unknown"
)

// HealthReport summarizes a workflow's recent execution history.
// SuccessRate and AvgDurationSeconds are pointers because null is
// meaningful: no completed executions, and no measurable durations.
type HealthReport struct {
	WorkflowID           string   `json:"workflow_id"`
	WorkflowName         string   `json:"workflow_name"`
	HealthStatus         string   `json:"health_status"`
	SuccessRate          *float64 `json:"success_rate"`
	TotalExecutions      int      `json:"total_executions"`
	SuccessfulExecutions int      `json:"successful_executions"`
	FailedExecutions     int      `json:"failed_executions"`
	AvgDurationSeconds   *float64 `json:"avg_duration_seconds"`
	Issues               []string `json:"issues"`
	Recommendations      []string `json:"recommendations"`
}
