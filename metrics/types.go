// Package metrics keeps in-memory statistics about email generations for the
// health endpoint. Nothing is persisted and no report content is recorded.
package metrics

import "time"

// Status constants for GenerationRecord
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Health constants for SystemStatus
const (
	HealthRunning  = "running"
	HealthDegraded = "degraded"
)

// GenerationRecord describes one finished generation.
type GenerationRecord struct {
	// RequestID identifies the HTTP request that ran the generation
	RequestID string `json:"request_id"`

	// Strategy is the generation strategy that was used
	Strategy string `json:"strategy"`

	// Status is StatusSuccess or StatusError
	Status string `json:"status"`

	// ErrorKind is the core error kind when Status is StatusError
	ErrorKind string `json:"error_kind,omitempty"`

	// StartTime is when the generation began
	StartTime time.Time `json:"start_time"`

	// Duration is the total execution time
	Duration time.Duration `json:"duration"`

	// Truncated reports whether the report text was cut to the token budget
	Truncated bool `json:"truncated,omitempty"`
}

// GenerationMetrics aggregates every recorded generation.
type GenerationMetrics struct {
	TotalProcessed int64 `json:"total_processed"`
	TotalSuccess   int64 `json:"total_success"`
	TotalErrors    int64 `json:"total_errors"`

	// ByStrategy contains per-strategy statistics
	ByStrategy map[string]*StrategyMetrics `json:"by_strategy"`

	// ErrorsByKind counts failures per core error kind
	ErrorsByKind map[string]int64 `json:"errors_by_kind"`
}

// StrategyMetrics represents statistics for one strategy.
type StrategyMetrics struct {
	Count int64 `json:"count"`

	// SuccessRate is the percentage of successful generations (0-100)
	SuccessRate float64 `json:"success_rate"`

	// AvgDuration is the average duration of successful generations
	AvgDuration time.Duration `json:"avg_duration"`
}

// SystemStatus represents the overall service health.
type SystemStatus struct {
	// Health is HealthRunning, or HealthDegraded when the most recent
	// generations all failed at the completion service
	Health  string        `json:"health"`
	Version string        `json:"version"`
	Uptime  time.Duration `json:"uptime"`
}
