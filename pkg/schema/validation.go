package schema

// ValidationReport aggregates errors and warnings from the workflow
// validator. Errors predict rejection by the n8n API; warnings flag
// reliability risks that the API will still accept.
type ValidationReport struct {
	Errors   []string
	Warnings []string
}

// Valid returns true if there are no errors (warnings are acceptable).
func (r *ValidationReport) Valid() bool {
	return len(r.Errors) == 0
}

// AddError appends a validation error (will cause API rejection).
func (r *ValidationReport) AddError(message string) {
	r.Errors = append(r.Errors, message)
}

// AddWarning appends a validation warning (may cause issues).
func (r *ValidationReport) AddWarning(message string) {
	r.Warnings = append(r.Warnings, message)
}

// ToMap converts the report to the tool result shape. Slices are never
// nil so they marshal as [] rather than null.
func (r *ValidationReport) ToMap() map[string]any {
	errs := r.Errors
	if errs == nil {
		errs = []string{}
	}
	warns := r.Warnings
	if warns == nil {
		warns = []string{}
	}
	return map[string]any{
		"valid":         r.Valid(),
		"errors":        errs,
		"warnings":      warns,
		"error_count":   len(r.Errors),
		"warning_count": len(r.Warnings),
	}
}
