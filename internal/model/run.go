package model

import "time"

// RunStatus is the lifecycle state of one enrichment pass run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// PassCounts tallies adapter outcomes over one pass.
type PassCounts struct {
	Pending  int `json:"pending"`
	Enriched int `json:"enriched"`
	Skipped  int `json:"skipped"`
	NoResult int `json:"no_result"`
	Failed   int `json:"failed"`
}

// Processed is the number of entities the pass has looked at.
func (c PassCounts) Processed() int {
	return c.Enriched + c.Skipped + c.NoResult + c.Failed
}

// PassRun is one recorded execution of a pass.
type PassRun struct {
	ID          string     `json:"id"`
	Pass        string     `json:"pass"`
	Status      RunStatus  `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	PassCounts
	Error string `json:"error,omitempty"`
}
