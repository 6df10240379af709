// Package kcenterconfig loads an optional, file-backed profile for the
// kcenter CLI. The CLI uses its analytics and archive sections, each
// overridable by the matching flag; the cluster, telemetry and log sections
// are parsed, but no flag or run setting takes its value from them.
package kcenterconfig

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds the optional defaults a run can be seeded from.
type Config struct {
	Cluster   ClusterConfig   `mapstructure:"cluster"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

// ClusterConfig holds default ladder parameters.
type ClusterConfig struct {
	K         int     `mapstructure:"k"`
	Epsilon   float64 `mapstructure:"epsilon"`
	DMin      float64 `mapstructure:"d_min"`
	DMax      float64 `mapstructure:"d_max"`
	Window    int     `mapstructure:"window"`
	ClusterSz int     `mapstructure:"cluster_size_hint"`
	Workers   int     `mapstructure:"workers"`
}

// AnalyticsConfig holds the optional SQL analytics-sink connection.
type AnalyticsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Driver   string `mapstructure:"driver"` // postgres, mysql, sqlite, clickhouse
	DSN      string `mapstructure:"dsn"`
	MaxConns int    `mapstructure:"max_conns"`
}

// ArchiveConfig holds the optional object-storage archive-sink configuration.
type ArchiveConfig struct {
	Type      string `mapstructure:"type"` // local or cos
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`
	Scheme    string `mapstructure:"scheme"`
	LocalPath string `mapstructure:"local_path"`
}

// TelemetryConfig holds OpenTelemetry export defaults.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	Endpoint    string `mapstructure:"endpoint"`
}

// LogConfig holds logging defaults.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from the specified file path, or from the
// standard search locations when configPath is empty. A missing file is not
// an error: the CLI's own flag defaults take over.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("kcenter")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/kcenter")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// no config file, defaults stand
		} else if os.IsNotExist(err) {
			// explicit path doesn't exist, defaults stand
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// LoadFromReader loads configuration from raw bytes, useful for tests.
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cluster.epsilon", 0.1)
	v.SetDefault("cluster.cluster_size_hint", 16)
	v.SetDefault("cluster.workers", 1)

	v.SetDefault("analytics.enabled", false)
	v.SetDefault("analytics.driver", "sqlite")
	v.SetDefault("analytics.max_conns", 10)

	v.SetDefault("archive.type", "local")
	v.SetDefault("archive.local_path", "./archive")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "kcenter")

	v.SetDefault("log.level", "info")
}
