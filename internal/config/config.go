package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Dataset DatasetConfig `yaml:"dataset" mapstructure:"dataset"`
	Segment SegmentConfig `yaml:"segment" mapstructure:"segment"`
	EDA     EDAConfig     `yaml:"eda" mapstructure:"eda"`
	Audit   AuditConfig   `yaml:"audit" mapstructure:"audit"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// DatasetConfig configures where the materialized export lives. Downloading
// it there is the caller's problem.
type DatasetConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// SegmentConfig configures the clustering run.
type SegmentConfig struct {
	K        int   `yaml:"k" mapstructure:"k"`
	Seed     int64 `yaml:"seed" mapstructure:"seed"`
	Restarts int   `yaml:"restarts" mapstructure:"restarts"`
	MaxIter  int   `yaml:"max_iter" mapstructure:"max_iter"`
}

// EDAConfig configures the exploratory summary.
type EDAConfig struct {
	TopModalities int `yaml:"top_modalities" mapstructure:"top_modalities"`
	HistogramBins int `yaml:"histogram_bins" mapstructure:"histogram_bins"`
}

// AuditConfig configures cluster interpretation for the query service.
// Labels are rank-ordered, highest direct-award risk first; LabelFile, when
// set, overrides Labels.
type AuditConfig struct {
	Labels    []string `yaml:"labels" mapstructure:"labels"`
	LabelFile string   `yaml:"label_file" mapstructure:"label_file"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port      int     `yaml:"port" mapstructure:"port"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second
	RateBurst int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SECOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "secop_runs.db")
	v.SetDefault("dataset.path", "secop_auditoria.csv")
	v.SetDefault("segment.k", 4)
	v.SetDefault("segment.seed", 42)
	v.SetDefault("segment.restarts", 10)
	v.SetDefault("segment.max_iter", 300)
	v.SetDefault("eda.top_modalities", 5)
	v.SetDefault("eda.histogram_bins", 30)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 5.0)
	v.SetDefault("server.rate_burst", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
