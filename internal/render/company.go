package render

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/rossinienergy/citypages/internal/config"
)

// LoadCompany returns the company metadata, overlaid with the YAML profile
// at cfg.File when one is configured. Keys absent from the file keep their
// configured values.
func LoadCompany(cfg config.CompanyConfig) (config.CompanyConfig, error) {
	if cfg.File == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(cfg.File)
	if err != nil {
		return cfg, eris.Wrapf(err, "render: read company file %s", cfg.File)
	}
	out := cfg
	if err := yaml.Unmarshal(data, &out); err != nil {
		return cfg, eris.Wrapf(err, "render: parse company file %s", cfg.File)
	}
	out.File = cfg.File
	return out, nil
}
