package enrich

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rossinienergy/citypages/internal/model"
	"github.com/rossinienergy/citypages/pkg/wikidata"
	"github.com/rossinienergy/citypages/pkg/wikipedia"
)

// Describe fills the description group from Wikidata, adding the Wikipedia
// lead extract when the page exists.
type Describe struct {
	wd wikidata.Client
	wp wikipedia.Client
}

// NewDescribe creates the description adapter. wp may be nil.
func NewDescribe(wd wikidata.Client, wp wikipedia.Client) *Describe {
	return &Describe{wd: wd, wp: wp}
}

func (d *Describe) Name() string       { return "describe" }
func (d *Describe) Group() model.Group { return model.GroupDescription }

func (d *Describe) Enrich(ctx context.Context, e *model.Entity) error {
	if e.WikidataID == "" {
		return eris.Wrap(ErrSkipped, "no wikidata id")
	}

	facts, err := d.wd.Describe(ctx, e.WikidataID)
	if err != nil {
		return err
	}

	var extract string
	if d.wp != nil && e.Name != "" {
		s, err := d.wp.Summary(ctx, e.Name)
		switch {
		case err == nil:
			extract = s.Extract
		case errors.Is(err, wikipedia.ErrNotFound):
		default:
			zap.L().Debug("enrich: wikipedia extract unavailable",
				zap.String("slug", e.Slug), zap.Error(err))
		}
	}

	if !facts.Found && extract == "" {
		return eris.Wrapf(ErrNoResult, "wikidata %s", e.WikidataID)
	}

	e.Description = &model.Description{
		Text:      facts.Description,
		Extract:   extract,
		ImageURL:  facts.ImageURL,
		Website:   facts.Website,
		AltitudeM: facts.AltitudeM,
		Inception: facts.Inception,
	}
	return nil
}
