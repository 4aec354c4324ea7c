package config

import (
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site" mapstructure:"site"`
	Company CompanyConfig `yaml:"company" mapstructure:"company"`
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Sources SourcesConfig `yaml:"sources" mapstructure:"sources"`
	HTTP    HTTPConfig    `yaml:"http" mapstructure:"http"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Render  RenderConfig  `yaml:"render" mapstructure:"render"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// SiteConfig describes the published site and the target region.
type SiteConfig struct {
	Domain        string   `yaml:"domain" mapstructure:"domain" validate:"required,url"`
	Region        string   `yaml:"region" mapstructure:"region" validate:"required"`
	RegionQID     string   `yaml:"region_qid" mapstructure:"region_qid" validate:"required,startswith=Q"`
	Country       string   `yaml:"country" mapstructure:"country" validate:"required,len=2"`
	MinPopulation int      `yaml:"min_population" mapstructure:"min_population" validate:"gte=0"`
	Capitals      []string `yaml:"capitals" mapstructure:"capitals"`
}

// CompanyConfig holds the installer's public metadata used on every page.
type CompanyConfig struct {
	Name      string `yaml:"name" mapstructure:"name" validate:"required"`
	LegalName string `yaml:"legal_name" mapstructure:"legal_name"`
	URL       string `yaml:"url" mapstructure:"url" validate:"omitempty,url"`
	Phone     string `yaml:"phone" mapstructure:"phone"`
	Email     string `yaml:"email" mapstructure:"email" validate:"omitempty,email"`
	Logo      string `yaml:"logo" mapstructure:"logo"`
	// File optionally points at a YAML document with the full company profile.
	File      string `yaml:"file" mapstructure:"file"`

	Address  Address   `yaml:"address" mapstructure:"address"`
	Services []Service `yaml:"services" mapstructure:"services" validate:"dive"`
}

// Service is one offering listed in the call to action of every page.
type Service struct {
	Name        string   `yaml:"name" mapstructure:"name" validate:"required"`
	Description string   `yaml:"description" mapstructure:"description"`
	Keywords    []string `yaml:"keywords" mapstructure:"keywords"`
}

// Address is a postal address as rendered in the LocalBusiness markup.
type Address struct {
	Street     string `yaml:"street" mapstructure:"street"`
	City       string `yaml:"city" mapstructure:"city"`
	Province   string `yaml:"province" mapstructure:"province"`
	PostalCode string `yaml:"postal_code" mapstructure:"postal_code"`
	Country    string `yaml:"country" mapstructure:"country" validate:"omitempty,len=2"`
}

// PathsConfig locates the on-disk registry and the generated site.
type PathsConfig struct {
	DataDir      string `yaml:"data_dir" mapstructure:"data_dir" validate:"required"`
	OutputDir    string `yaml:"output_dir" mapstructure:"output_dir" validate:"required"`
	TemplatesDir string `yaml:"templates_dir" mapstructure:"templates_dir"`
	SeedFile     string `yaml:"seed_file" mapstructure:"seed_file" validate:"required"`
	RegistryFile string `yaml:"registry_file" mapstructure:"registry_file" validate:"required"`
}

// SeedPath returns the absolute-or-relative path of the seed registry.
func (p PathsConfig) SeedPath() string {
	return filepath.Join(p.DataDir, p.SeedFile)
}

// RegistryPath returns the path of the enriched registry.
func (p PathsConfig) RegistryPath() string {
	return filepath.Join(p.DataDir, p.RegistryFile)
}

// StoreConfig configures the pass run log.
type StoreConfig struct {
	SQLitePath string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// SourceConfig configures one remote data source.
type SourceConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs" validate:"gte=1,lte=120"`
	// IntervalMs is the minimum spacing between two requests to this source.
	IntervalMs int `yaml:"interval_ms" mapstructure:"interval_ms" validate:"gte=0"`
	// Checkpoint is the number of processed entities between registry saves.
	Checkpoint int `yaml:"checkpoint" mapstructure:"checkpoint" validate:"gte=1"`
}

// GeoNamesConfig configures the optional GeoNames seed source.
type GeoNamesConfig struct {
	SourceConfig `yaml:",inline" mapstructure:",squash"`
	Username     string `yaml:"username" mapstructure:"username"`
	Admin1       string `yaml:"admin1" mapstructure:"admin1"`
}

// SourcesConfig groups every remote source.
type SourcesConfig struct {
	Wikidata   SourceConfig   `yaml:"wikidata" mapstructure:"wikidata"`
	Wikipedia  SourceConfig   `yaml:"wikipedia" mapstructure:"wikipedia"`
	Climate    SourceConfig   `yaml:"climate" mapstructure:"climate"`
	AirQuality SourceConfig   `yaml:"airquality" mapstructure:"airquality"`
	Overpass   SourceConfig   `yaml:"overpass" mapstructure:"overpass"`
	PVGIS      SourceConfig   `yaml:"pvgis" mapstructure:"pvgis"`
	GeoNames   GeoNamesConfig `yaml:"geonames" mapstructure:"geonames"`
}

// HTTPConfig configures the shared transport.
type HTTPConfig struct {
	UserAgent        string `yaml:"user_agent" mapstructure:"user_agent" validate:"required"`
	MaxRetries       int    `yaml:"max_retries" mapstructure:"max_retries" validate:"gte=1"`
	CircuitFailures  int    `yaml:"circuit_failures" mapstructure:"circuit_failures" validate:"gte=1"`
	CircuitResetSecs int    `yaml:"circuit_reset_secs" mapstructure:"circuit_reset_secs" validate:"gte=1"`
}

// MetricsConfig configures the Prometheus textfile written at process end.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

// RenderConfig configures page generation.
type RenderConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency" validate:"gte=1"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=json console"`
}

// DefaultCapitals lists the provincial capitals of Lombardy.
var DefaultCapitals = []string{
	"Milano", "Bergamo", "Brescia", "Como", "Cremona", "Lecco",
	"Lodi", "Mantova", "Monza", "Pavia", "Sondrio", "Varese",
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CITYPAGES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.domain", "https://lombardia.rossinienergy.it")
	v.SetDefault("site.region", "Lombardia")
	v.SetDefault("site.region_qid", "Q1210")
	v.SetDefault("site.country", "IT")
	v.SetDefault("site.min_population", 10000)
	v.SetDefault("site.capitals", DefaultCapitals)

	v.SetDefault("company.name", "Rossini Energy")
	v.SetDefault("company.legal_name", "Rossini Energy SAS")
	v.SetDefault("company.url", "https://rossinienergy.com")
	v.SetDefault("company.phone", "+33 (0)3 74 09 01 05")
	v.SetDefault("company.email", "info@rossinienergy.com")
	v.SetDefault("company.logo", "https://rossinienergy.com/logo.png")
	v.SetDefault("company.address.street", "Piazza Torre Sacchetti 73")
	v.SetDefault("company.address.city", "Stradella")
	v.SetDefault("company.address.province", "PV")
	v.SetDefault("company.address.postal_code", "27049")
	v.SetDefault("company.address.country", "IT")
	v.SetDefault("company.services", []map[string]any{
		{
			"name":        "Installazione Colonnine di Ricarica EV",
			"description": "Installazione di stazioni di ricarica per veicoli elettrici da 7kW a 22kW, in legno di Douglas o alluminio riciclato.",
			"keywords":    []string{"colonnina di ricarica", "ricarica veicoli elettrici", "EV charging"},
		},
		{
			"name":        "Pensiline Fotovoltaiche TOSSO®",
			"description": "Pensiline per parcheggi con pannelli fotovoltaici bifacciali, struttura in legno sostenibile.",
			"keywords":    []string{"pensilina fotovoltaica", "carport solare", "TOSSO"},
		},
		{
			"name":        "Software di Gestione Ricarica",
			"description": "Piattaforma software per il pilotaggio dinamico della ricarica e gestione dell'energia solare.",
			"keywords":    []string{"gestione ricarica", "software energia"},
		},
	})

	v.SetDefault("paths.data_dir", "data")
	v.SetDefault("paths.output_dir", "output")
	v.SetDefault("paths.seed_file", "cities_lombardia.json")
	v.SetDefault("paths.registry_file", "cities_enriched.json")

	v.SetDefault("store.sqlite_path", "data/runs.db")

	v.SetDefault("sources.wikidata.base_url", "https://query.wikidata.org/sparql")
	v.SetDefault("sources.wikidata.timeout_secs", 60)
	v.SetDefault("sources.wikidata.interval_ms", 500)
	v.SetDefault("sources.wikidata.checkpoint", 20)

	v.SetDefault("sources.wikipedia.base_url", "https://it.wikipedia.org/api/rest_v1")
	v.SetDefault("sources.wikipedia.timeout_secs", 10)
	v.SetDefault("sources.wikipedia.interval_ms", 500)
	v.SetDefault("sources.wikipedia.checkpoint", 20)

	v.SetDefault("sources.climate.base_url", "https://climate-api.open-meteo.com/v1/climate")
	v.SetDefault("sources.climate.timeout_secs", 30)
	v.SetDefault("sources.climate.interval_ms", 300)
	v.SetDefault("sources.climate.checkpoint", 20)

	v.SetDefault("sources.airquality.base_url", "https://air-quality-api.open-meteo.com/v1/air-quality")
	v.SetDefault("sources.airquality.timeout_secs", 15)
	v.SetDefault("sources.airquality.interval_ms", 500)
	v.SetDefault("sources.airquality.checkpoint", 30)

	v.SetDefault("sources.overpass.base_url", "https://overpass-api.de/api/interpreter")
	v.SetDefault("sources.overpass.timeout_secs", 60)
	v.SetDefault("sources.overpass.interval_ms", 3000)
	v.SetDefault("sources.overpass.checkpoint", 10)

	v.SetDefault("sources.pvgis.base_url", "https://re.jrc.ec.europa.eu/api/v5_2/PVcalc")
	v.SetDefault("sources.pvgis.timeout_secs", 30)
	v.SetDefault("sources.pvgis.interval_ms", 1000)
	v.SetDefault("sources.pvgis.checkpoint", 20)

	v.SetDefault("sources.geonames.base_url", "http://api.geonames.org/searchJSON")
	v.SetDefault("sources.geonames.timeout_secs", 30)
	v.SetDefault("sources.geonames.interval_ms", 1000)
	v.SetDefault("sources.geonames.checkpoint", 20)
	v.SetDefault("sources.geonames.admin1", "09")

	v.SetDefault("http.user_agent", "RossiniEnergySEO/1.0 (info@rossinienergy.com)")
	v.SetDefault("http.max_retries", 3)
	v.SetDefault("http.circuit_failures", 5)
	v.SetDefault("http.circuit_reset_secs", 60)

	v.SetDefault("render.concurrency", 8)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate checks struct tags on the loaded configuration.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return eris.Wrap(err, "config: validate")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
