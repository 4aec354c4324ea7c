// Package registry holds the ordered, slug-keyed set of localities and its
// JSON persistence.
package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rossinienergy/citypages/internal/model"
)

// ErrNotFound is returned by Load when the registry file does not exist.
var ErrNotFound = eris.New("registry: file not found")

// Registry is an insertion-ordered map from slug to entity.
type Registry struct {
	order  []string
	bySlug map[string]*model.Entity
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{bySlug: make(map[string]*model.Entity)}
}

// FromEntities builds a registry from es, computing missing slugs. When two
// entities share a slug the first one wins; the dropped ones are returned.
func FromEntities(es []model.Entity) (*Registry, []model.Entity) {
	r := New()
	var dropped []model.Entity
	for _, e := range es {
		if !r.Add(e) {
			dropped = append(dropped, e)
		}
	}
	return r, dropped
}

// Add appends e unless its slug is already taken. An empty slug is derived
// from the name.
func (r *Registry) Add(e model.Entity) bool {
	if e.Slug == "" {
		e.Slug = Slugify(e.Name)
	}
	if e.Population < 0 {
		e.Population = 0
	}
	if _, exists := r.bySlug[e.Slug]; exists {
		return false
	}
	r.order = append(r.order, e.Slug)
	r.bySlug[e.Slug] = &e
	return true
}

// Get returns the entity stored under slug.
func (r *Registry) Get(slug string) (model.Entity, bool) {
	e, ok := r.bySlug[slug]
	if !ok {
		return model.Entity{}, false
	}
	return *e, true
}

// Put replaces the stored entity with the same slug.
func (r *Registry) Put(e model.Entity) error {
	if _, ok := r.bySlug[e.Slug]; !ok {
		return eris.Errorf("registry: unknown slug %q", e.Slug)
	}
	r.bySlug[e.Slug] = &e
	return nil
}

// Len returns the number of entities.
func (r *Registry) Len() int { return len(r.order) }

// Entities returns a copy of every entity in registry order.
func (r *Registry) Entities() []model.Entity {
	out := make([]model.Entity, 0, len(r.order))
	for _, slug := range r.order {
		out = append(out, *r.bySlug[slug])
	}
	return out
}

// Missing returns, in registry order, the entities lacking group g.
func (r *Registry) Missing(g model.Group) []model.Entity {
	var out []model.Entity
	for _, slug := range r.order {
		if e := r.bySlug[slug]; !e.Has(g) {
			out = append(out, *e)
		}
	}
	return out
}

// Coverage returns how many entities carry group g.
func (r *Registry) Coverage(g model.Group) int {
	n := 0
	for _, e := range r.bySlug {
		if e.Has(g) {
			n++
		}
	}
	return n
}

// Load reads a registry snapshot from path.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrapf(ErrNotFound, "registry: %s", path)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "registry: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return Decode(f)
}

// Decode reads a JSON array of entities.
func Decode(rd io.Reader) (*Registry, error) {
	var es []model.Entity
	if err := json.NewDecoder(rd).Decode(&es); err != nil {
		return nil, eris.Wrap(err, "registry: decode")
	}
	r, dropped := FromEntities(es)
	for _, d := range dropped {
		zap.L().Warn("registry: dropping duplicate slug",
			zap.String("slug", d.Slug),
			zap.String("name", d.Name),
		)
	}
	return r, nil
}

// Encode writes the registry as an indented JSON array without HTML escaping.
func (r *Registry) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	es := r.Entities()
	if es == nil {
		es = []model.Entity{}
	}
	return eris.Wrap(enc.Encode(es), "registry: encode")
}

// Save writes the registry to path via a temporary file and rename so an
// interrupted write never leaves a truncated snapshot.
func (r *Registry) Save(path string) error {
	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "registry: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return eris.Wrap(err, "registry: create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()        //nolint:errcheck
		os.Remove(tmpName) //nolint:errcheck
		return eris.Wrap(err, "registry: write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return eris.Wrap(err, "registry: close temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return eris.Wrapf(err, "registry: rename to %s", path)
	}
	return nil
}
