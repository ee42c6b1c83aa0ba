// Package config loads application configuration from a YAML file and
// environment variables, and owns global logger initialization.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/consensus-cli/internal/resolver"
)

// Config holds the full application configuration.
type Config struct {
	Cache    CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Resolver resolver.Config `yaml:"resolver" mapstructure:"resolver"`
	Taxonomy TaxonomyConfig  `yaml:"taxonomy" mapstructure:"taxonomy"`
	Log      LogConfig       `yaml:"log" mapstructure:"log"`
}

// CacheConfig configures the classifier result cache.
type CacheConfig struct {
	Driver        string  `yaml:"driver" mapstructure:"driver"`
	DSN           string  `yaml:"dsn" mapstructure:"dsn"`
	PromptVersion string  `yaml:"prompt_version" mapstructure:"prompt_version"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	MaxConns      int32   `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns      int32   `yaml:"min_conns" mapstructure:"min_conns"`
}

// TaxonomyConfig points at the category catalog file; empty means the
// built-in catalog.
type TaxonomyConfig struct {
	CatalogPath string `yaml:"catalog_path" mapstructure:"catalog_path"`
}

// LogConfig configures the global zap logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from ./config.yaml (optional) and CONSENSUS_*
// environment variables, applying defaults for everything unset.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CONSENSUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("cache.driver", "sqlite")
	v.SetDefault("cache.dsn", "consensus-cache.db")
	v.SetDefault("cache.prompt_version", "v1")
	v.SetDefault("cache.rate_per_second", 2.0)
	v.SetDefault("resolver.name_threshold", 80)
	v.SetDefault("resolver.address_threshold", 60)
	v.SetDefault("resolver.taxonomy_threshold", 80)
	v.SetDefault("resolver.primary_geocoder", "geocoder_a")
	v.SetDefault("resolver.weights.name", 20)
	v.SetDefault("resolver.weights.address", 20)
	v.SetDefault("resolver.weights.coordinates", 20)
	v.SetDefault("resolver.weights.category", 15)
	v.SetDefault("resolver.weights.registry_found", 15)
	v.SetDefault("resolver.weights.registry_active", 10)
	v.SetDefault("resolver.watermarks.default", 50)
	v.SetDefault("resolver.watermarks.per_name", map[string]float64{"registry_found": 100})

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

	return &cfg, nil
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
