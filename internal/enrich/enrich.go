// Package enrich holds the source adapters. Each adapter fills exactly one
// attribute group of an entity or leaves it untouched.
package enrich

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"

	"github.com/rossinienergy/citypages/internal/model"
)

var (
	// ErrSkipped marks an entity lacking a precondition such as coordinates
	// or an external identifier. No remote call was made.
	ErrSkipped = eris.New("enrich: precondition not met")
	// ErrNoResult marks an empty or degenerate answer from the source.
	ErrNoResult = eris.New("enrich: no result")
)

// Adapter computes one attribute group.
type Adapter interface {
	// Name is the pass name used on the command line and in the run log.
	Name() string
	// Group is the attribute group the adapter writes.
	Group() model.Group
	// Enrich sets the adapter's group on e. On error e is left unchanged.
	Enrich(ctx context.Context, e *model.Entity) error
}

// Outcome classifies the result of one adapter call.
type Outcome string

// Adapter outcomes.
const (
	OutcomeEnriched Outcome = "enriched"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeNoResult Outcome = "no_result"
	OutcomeFailed   Outcome = "failed"
)

// Classify maps an adapter error to its outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeEnriched
	case errors.Is(err, ErrSkipped):
		return OutcomeSkipped
	case errors.Is(err, ErrNoResult):
		return OutcomeNoResult
	default:
		return OutcomeFailed
	}
}

func requireCoordinates(e *model.Entity) (lat, lon float64, err error) {
	lat, lon, ok := e.Coordinates()
	if !ok {
		return 0, 0, eris.Wrap(ErrSkipped, "no coordinates")
	}
	return lat, lon, nil
}
