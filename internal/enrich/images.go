package enrich

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"

	"github.com/rossinienergy/citypages/internal/model"
	"github.com/rossinienergy/citypages/pkg/wikipedia"
)

// Images picks the page image. A Wikidata image already found by the
// description pass is reused; otherwise the Wikipedia summary of the entity's
// name is queried, preferring the thumbnail.
type Images struct {
	wp wikipedia.Client
}

// NewImages creates the imagery adapter.
func NewImages(wp wikipedia.Client) *Images {
	return &Images{wp: wp}
}

func (a *Images) Name() string       { return "images" }
func (a *Images) Group() model.Group { return model.GroupImage }

func (a *Images) Enrich(ctx context.Context, e *model.Entity) error {
	if e.Description != nil && e.Description.ImageURL != "" {
		e.Image = &model.Image{URL: e.Description.ImageURL, Kind: "wikidata"}
		return nil
	}
	if e.Name == "" {
		return eris.Wrap(ErrSkipped, "no name")
	}

	s, err := a.wp.Summary(ctx, e.Name)
	if errors.Is(err, wikipedia.ErrNotFound) {
		return eris.Wrapf(ErrNoResult, "no page for %q", e.Name)
	}
	if err != nil {
		return err
	}

	src, kind := s.ImageURL()
	if src == "" {
		return eris.Wrapf(ErrNoResult, "no image for %q", e.Name)
	}
	e.Image = &model.Image{URL: src, Kind: kind}
	return nil
}
