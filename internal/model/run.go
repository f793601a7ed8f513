package model

import "time"

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunSummary holds the observability counters recorded for a completed run.
// Derived models (profiles, assignments, centroids) are intentionally not
// persisted; only counts and fit quality survive the run.
type RunSummary struct {
	Rows               int     `json:"rows"`
	CleanRecords       int     `json:"clean_records"`
	DroppedUnparseable int     `json:"dropped_unparseable"`
	DroppedNonPositive int     `json:"dropped_non_positive"`
	Entities           int     `json:"entities"`
	K                  int     `json:"k"`
	Seed               int64   `json:"seed"`
	WCSS               float64 `json:"wcss"`
	DurationMs         int64   `json:"duration_ms"`
}

// Run is one recorded pipeline execution.
type Run struct {
	ID        string      `json:"id"`
	Dataset   string      `json:"dataset"`
	Status    RunStatus   `json:"status"`
	Summary   *RunSummary `json:"summary,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
