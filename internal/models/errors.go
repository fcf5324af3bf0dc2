package models

import "fmt"

// InvariantViolation is a fatal engine defect: continuing past one would
// silently corrupt physician-facing output, so it aborts the affected
// patient's export. It carries enough context to diagnose without a rerun.
type InvariantViolation struct {
	PatientID string
	Date      string
	Metric    CanonicalMetric
	RawValue  string
	Reason    string
}

func (e *InvariantViolation) Error() string {
	if e.Metric != "" {
		return fmt.Sprintf("invariant violation for patient %s on %s: metric %s (raw value %q): %s",
			e.PatientID, e.Date, e.Metric, e.RawValue, e.Reason)
	}
	return fmt.Sprintf("invariant violation for patient %s on %s: %s", e.PatientID, e.Date, e.Reason)
}
