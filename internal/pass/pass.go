// Package pass runs one adapter over the entities lacking its attribute
// group, persisting the registry at checkpoints so an interrupted pass can
// be resumed.
package pass

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rossinienergy/citypages/internal/enrich"
	"github.com/rossinienergy/citypages/internal/model"
	"github.com/rossinienergy/citypages/internal/monitoring"
	"github.com/rossinienergy/citypages/internal/registry"
	"github.com/rossinienergy/citypages/internal/store"
)

// DefaultCheckpoint is used when a non-positive interval is requested.
const DefaultCheckpoint = 10

// Runner applies adapters to a registry persisted at path.
type Runner struct {
	reg     *registry.Registry
	path    string
	runs    store.RunLog
	metrics *monitoring.Metrics
	clock   clockwork.Clock
}

// Option configures a Runner.
type Option func(*Runner)

// WithRunLog records every pass in runs.
func WithRunLog(runs store.RunLog) Option {
	return func(r *Runner) { r.runs = runs }
}

// WithMetrics reports outcomes, durations and checkpoints to m.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithClock sets the clock used to time adapter calls.
func WithClock(c clockwork.Clock) Option {
	return func(r *Runner) { r.clock = c }
}

// NewRunner creates a runner that saves reg to path.
func NewRunner(reg *registry.Registry, path string, opts ...Option) *Runner {
	r := &Runner{reg: reg, path: path, clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the registry the runner mutates.
func (r *Runner) Registry() *registry.Registry { return r.reg }

// Run enriches, in registry order, every entity lacking the adapter's group.
// The registry is saved after every checkpoint entities and once at the end.
// limit > 0 bounds how many pending entities are attempted. Per-entity
// failures never abort the pass; only a failed save or a cancelled context
// does.
func (r *Runner) Run(ctx context.Context, a enrich.Adapter, checkpoint, limit int) (model.PassCounts, error) {
	if checkpoint <= 0 {
		checkpoint = DefaultCheckpoint
	}
	log := zap.L().With(zap.String("component", "pass"), zap.String("pass", a.Name()))

	pending := r.reg.Missing(a.Group())
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	counts := model.PassCounts{Pending: len(pending)}

	run := r.startRun(ctx, a.Name(), counts.Pending, log)

	if counts.Pending == 0 {
		log.Info("pass: nothing to enrich", zap.Int("entities", r.reg.Len()))
		r.completeRun(ctx, run, counts, log)
		return counts, nil
	}
	log.Info("pass: starting", zap.Int("pending", counts.Pending), zap.Int("checkpoint", checkpoint))

	for i, e := range pending {
		if err := ctx.Err(); err != nil {
			return r.abort(ctx, run, counts, eris.Wrap(err, "pass: interrupted"), log)
		}

		outcome := r.enrichOne(ctx, a, &e, log)
		switch outcome {
		case enrich.OutcomeEnriched:
			counts.Enriched++
			if err := r.reg.Put(e); err != nil {
				return r.abort(ctx, run, counts, err, log)
			}
		case enrich.OutcomeSkipped:
			counts.Skipped++
		case enrich.OutcomeNoResult:
			counts.NoResult++
		default:
			counts.Failed++
		}

		if (i+1)%checkpoint == 0 && i+1 < len(pending) {
			if err := r.save(a.Name()); err != nil {
				return r.abort(ctx, run, counts, err, log)
			}
			log.Info("pass: checkpoint",
				zap.Int("processed", i+1),
				zap.Int("pending", len(pending)),
				zap.Int("enriched", counts.Enriched),
			)
		}
	}

	if err := r.save(a.Name()); err != nil {
		return r.abort(ctx, run, counts, err, log)
	}

	log.Info("pass: complete",
		zap.Int("enriched", counts.Enriched),
		zap.Int("skipped", counts.Skipped),
		zap.Int("no_result", counts.NoResult),
		zap.Int("failed", counts.Failed),
	)
	r.completeRun(ctx, run, counts, log)
	return counts, nil
}

func (r *Runner) enrichOne(ctx context.Context, a enrich.Adapter, e *model.Entity, log *zap.Logger) enrich.Outcome {
	start := r.clock.Now()
	err := a.Enrich(ctx, e)
	outcome := enrich.Classify(err)

	if r.metrics != nil {
		r.metrics.AdapterDuration.WithLabelValues(a.Name()).Observe(r.clock.Since(start).Seconds())
		r.metrics.PassEntities.WithLabelValues(a.Name(), string(outcome)).Inc()
	}

	fields := []zap.Field{zap.String("slug", e.Slug), zap.String("name", e.Name)}
	switch outcome {
	case enrich.OutcomeEnriched:
		log.Debug("pass: enriched", fields...)
	case enrich.OutcomeSkipped:
		log.Debug("pass: skipped", append(fields, zap.Error(err))...)
	case enrich.OutcomeNoResult:
		log.Info("pass: no result", append(fields, zap.Error(err))...)
	default:
		log.Warn("pass: failed", append(fields, zap.Error(err))...)
	}
	return outcome
}

func (r *Runner) save(pass string) error {
	if err := r.reg.Save(r.path); err != nil {
		return eris.Wrap(err, "pass: save registry")
	}
	if r.metrics != nil {
		r.metrics.Checkpoints.WithLabelValues(pass).Inc()
	}
	return nil
}

func (r *Runner) abort(ctx context.Context, run *model.PassRun, counts model.PassCounts, cause error, log *zap.Logger) (model.PassCounts, error) {
	// Keep whatever was enriched before the abort.
	if saveErr := r.reg.Save(r.path); saveErr != nil {
		log.Error("pass: save after abort failed", zap.Error(saveErr))
	}
	if run != nil && r.runs != nil {
		if err := r.runs.Fail(context.WithoutCancel(ctx), run.ID, counts, cause); err != nil {
			log.Warn("pass: record failed run", zap.Error(err))
		}
	}
	return counts, cause
}

func (r *Runner) startRun(ctx context.Context, name string, pending int, log *zap.Logger) *model.PassRun {
	if r.runs == nil {
		return nil
	}
	run, err := r.runs.Start(ctx, name, pending)
	if err != nil {
		log.Warn("pass: record run start", zap.Error(err))
		return nil
	}
	return run
}

func (r *Runner) completeRun(ctx context.Context, run *model.PassRun, counts model.PassCounts, log *zap.Logger) {
	if run == nil || r.runs == nil {
		return
	}
	if err := r.runs.Complete(ctx, run.ID, counts); err != nil {
		log.Warn("pass: record run completion", zap.Error(err))
	}
}
