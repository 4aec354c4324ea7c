package pass

import (
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rossinienergy/citypages/internal/config"
	"github.com/rossinienergy/citypages/internal/registry"
)

// ErrPrerequisite is returned when neither the enriched registry nor the
// seed file exists.
var ErrPrerequisite = eris.New("pass: no registry found, run `citypages seed` first")

// LoadRegistry reads the enriched registry, falling back to the seed file
// when no pass has run yet. The returned registry is always saved to the
// enriched registry path.
func LoadRegistry(paths config.PathsConfig) (*registry.Registry, error) {
	reg, err := registry.Load(paths.RegistryPath())
	if err == nil {
		return reg, nil
	}
	if !errors.Is(err, registry.ErrNotFound) {
		return nil, err
	}

	reg, err = registry.Load(paths.SeedPath())
	if errors.Is(err, registry.ErrNotFound) {
		return nil, eris.Wrapf(ErrPrerequisite, "pass: %s and %s missing", paths.RegistryPath(), paths.SeedPath())
	}
	if err != nil {
		return nil, err
	}
	zap.L().Info("pass: starting from seed registry",
		zap.String("seed", paths.SeedPath()),
		zap.Int("entities", reg.Len()),
	)
	return reg, nil
}
