// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Mapbox  MapboxConfig  `yaml:"mapbox" mapstructure:"mapbox"`
	Fetcher FetcherConfig `yaml:"fetcher" mapstructure:"fetcher"`
	Run     RunConfig     `yaml:"run" mapstructure:"run"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// MapboxConfig holds geocoding service settings.
type MapboxConfig struct {
	Token        string `yaml:"token" mapstructure:"token"`
	RateCeiling  int    `yaml:"rate_ceiling" mapstructure:"rate_ceiling"`
	CacheEnabled bool   `yaml:"cache_enabled" mapstructure:"cache_enabled"`
	CachePath    string `yaml:"cache_path" mapstructure:"cache_path"`
}

// FetcherConfig configures the upstream station source.
type FetcherConfig struct {
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	PageSize int    `yaml:"page_size" mapstructure:"page_size"`
}

// RunConfig configures batch processing.
type RunConfig struct {
	OutputFile   string `yaml:"output_file" mapstructure:"output_file"`
	ProgressFile string `yaml:"progress_file" mapstructure:"progress_file"`
	BatchSize    int    `yaml:"batch_size" mapstructure:"batch_size"`
}

// ServerConfig configures the read-only HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config file, and environment.
func Load() (*Config, error) {
	// Optional .env, matching how operators historically supplied
	// MAPBOX_TOKEN. Absence is fine.
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("RADIOMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// MAPBOX_TOKEN without the prefix is the documented spelling.
	_ = v.BindEnv("mapbox.token", "RADIOMAP_MAPBOX_TOKEN", "MAPBOX_TOKEN")

	v.SetDefault("mapbox.rate_ceiling", 300)
	v.SetDefault("mapbox.cache_enabled", false)
	v.SetDefault("mapbox.cache_path", "geocode_cache.db")
	v.SetDefault("fetcher.base_url", "http://all.api.radio-browser.info/json/stations")
	v.SetDefault("fetcher.page_size", 10000)
	v.SetDefault("run.output_file", "geocoded_stations.json")
	v.SetDefault("run.progress_file", "geocoding_progress.json")
	v.SetDefault("run.batch_size", 100)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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
