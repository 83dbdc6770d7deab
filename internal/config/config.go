package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"pdvlocal/internal/domain"
)

type Config struct {
	Port         string `yaml:"port"`
	StoreDriver  string `yaml:"store_driver"` // bolt | file
	StoreDir     string `yaml:"store_dir"`
	StoreCodec   string `yaml:"store_codec"` // none | gzip | snappy
	CatalogFile  string `yaml:"catalog_file"`
	LogFile      string `yaml:"log_file"`
	LogMode      string `yaml:"log_mode"` // production | development
	TemplatesDir string `yaml:"templates_dir"`
}

func Defaults() Config {
	return Config{
		Port:         "8080",
		StoreDriver:  "bolt",
		StoreDir:     ".",
		StoreCodec:   "none",
		LogFile:      "./pdvlocal.log",
		LogMode:      "production",
		TemplatesDir: "./web/templates",
	}
}

// Load resolves the config from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	env := map[string]*string{
		"PORT":          &cfg.Port,
		"STORE_DRIVER":  &cfg.StoreDriver,
		"STORE_DIR":     &cfg.StoreDir,
		"STORE_CODEC":   &cfg.StoreCodec,
		"CATALOG_FILE":  &cfg.CatalogFile,
		"LOG_FILE":      &cfg.LogFile,
		"LOG_MODE":      &cfg.LogMode,
		"TEMPLATES_DIR": &cfg.TemplatesDir,
	}
	for k, dst := range env {
		if v, ok := os.LookupEnv(k); ok {
			*dst = v
		}
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config file")
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return errors.Wrapf(err, "parse config file %s", path)
	}
	return nil
}

// LoadCatalog reads a YAML list of products:
//
//	- code: "7812345678901"
//	  description: KINDERINI OVO
//	  unit_price: 25.0
//	  image: https://...
func LoadCatalog(path string) ([]domain.Product, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog file")
	}
	var out []domain.Product
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, errors.Wrapf(err, "parse catalog file %s", path)
	}
	seen := map[string]bool{}
	for i, p := range out {
		if p.Code == "" {
			return nil, errors.Errorf("catalog entry %d: missing code", i)
		}
		if p.UnitPrice < 0 {
			return nil, errors.Errorf("catalog entry %s: negative unit_price", p.Code)
		}
		if seen[p.Code] {
			return nil, errors.Errorf("catalog entry %s: duplicate code", p.Code)
		}
		seen[p.Code] = true
	}
	return out, nil
}
