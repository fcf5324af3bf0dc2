package models

// RiskStatus is the categorical triage flag emitted by a risk classifier.
// It is a three-state enumeration: a classifier must never fall back to
// "No abnormality suspected" when the metrics its rule needs are missing.
type RiskStatus string

const (
	RiskNoAbnormality RiskStatus = "No abnormality suspected"
	RiskAbnormality   RiskStatus = "Abnormality suspected"
	RiskInsufficient  RiskStatus = "Insufficient data"
)

// TrendLabel classifies a metric's 30-day direction.
type TrendLabel string

const (
	TrendImproving    TrendLabel = "improving"
	TrendStable       TrendLabel = "stable"
	TrendDeclining    TrendLabel = "declining"
	TrendInsufficient TrendLabel = "insufficient data"
)
