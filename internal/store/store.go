// Package store records enrichment pass runs.
package store

import (
	"context"

	"github.com/rossinienergy/citypages/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Pass   string          `json:"pass,omitempty"`
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
}

// RunLog defines the persistence interface for pass runs.
type RunLog interface {
	// Start records a running pass with pending entities to process.
	Start(ctx context.Context, pass string, pending int) (*model.PassRun, error)
	// Complete marks a run finished with its final counts.
	Complete(ctx context.Context, runID string, counts model.PassCounts) error
	// Fail marks a run aborted by cause.
	Fail(ctx context.Context, runID string, counts model.PassCounts, cause error) error
	// List returns runs newest first.
	List(ctx context.Context, filter RunFilter) ([]model.PassRun, error)
	// LastSuccess returns the latest completed run of pass, or nil.
	LastSuccess(ctx context.Context, pass string) (*model.PassRun, error)

	Migrate(ctx context.Context) error
	Close() error
}
