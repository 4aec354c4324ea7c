package monitoring

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"

	"github.com/rossinienergy/citypages/internal/model"
	"github.com/rossinienergy/citypages/internal/registry"
	"github.com/rossinienergy/citypages/internal/store"
)

// GroupCoverage is the presence count of one attribute group.
type GroupCoverage struct {
	Group   model.Group `json:"group"`
	Present int         `json:"present"`
	Ratio   float64     `json:"ratio"`
}

// Snapshot holds a point-in-time view of registry completeness.
type Snapshot struct {
	Entities       int             `json:"entities"`
	WithGeometry   int             `json:"with_geometry"`
	Coverage       []GroupCoverage `json:"coverage"`
	LastRuns       []model.PassRun `json:"last_runs"`
	CollectedAt    time.Time       `json:"collected_at"`
	RunLogDisabled bool            `json:"run_log_disabled,omitempty"`
}

// Collector gathers coverage from the registry and history from the run log.
type Collector struct {
	runs  store.RunLog
	clock clockwork.Clock
}

// NewCollector creates a collector. runs may be nil.
func NewCollector(runs store.RunLog, clock clockwork.Clock) *Collector {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Collector{runs: runs, clock: clock}
}

// Collect builds a snapshot. lastRuns bounds the run history returned.
func (c *Collector) Collect(ctx context.Context, reg *registry.Registry, lastRuns int) (*Snapshot, error) {
	snap := &Snapshot{
		Entities:    reg.Len(),
		CollectedAt: c.clock.Now().UTC(),
	}

	for _, e := range reg.Entities() {
		if e.HasCoordinates() {
			snap.WithGeometry++
		}
	}

	for _, g := range model.Groups {
		gc := GroupCoverage{Group: g, Present: reg.Coverage(g)}
		if snap.Entities > 0 {
			gc.Ratio = float64(gc.Present) / float64(snap.Entities)
		}
		snap.Coverage = append(snap.Coverage, gc)
	}

	if c.runs == nil {
		snap.RunLogDisabled = true
		return snap, nil
	}
	runs, err := c.runs.List(ctx, store.RunFilter{Limit: lastRuns})
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list runs")
	}
	snap.LastRuns = runs
	return snap, nil
}
