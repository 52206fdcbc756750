package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Models  ModelsConfig
	Logger  LoggerConfig
	Metrics MetricsConfig
}

type ServerConfig struct {
	Host string
	Port int
}

// ModelsConfig locates the trained artifacts. Artifacts live at
// <BasePath>/<group>/<name><ArtifactExt>.
type ModelsConfig struct {
	BasePath    string
	ArtifactExt string
	Preload     bool
}

type LoggerConfig struct {
	Level  string
	Format string
	// File enables rotated file output in addition to stderr when set.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("MODELS_BASE_PATH", "models/trained_models")
	v.SetDefault("MODELS_ARTIFACT_EXT", ".json")
	v.SetDefault("MODELS_PRELOAD", false)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("LOGGER_FILE", "")
	v.SetDefault("LOGGER_MAX_SIZE_MB", 100)
	v.SetDefault("LOGGER_MAX_BACKUPS", 3)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("METRICS_PATH", "/metrics")

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Models: ModelsConfig{
			BasePath:    v.GetString("MODELS_BASE_PATH"),
			ArtifactExt: v.GetString("MODELS_ARTIFACT_EXT"),
			Preload:     v.GetBool("MODELS_PRELOAD"),
		},
		Logger: LoggerConfig{
			Level:      v.GetString("LOGGER_LEVEL"),
			Format:     v.GetString("LOGGER_FORMAT"),
			File:       v.GetString("LOGGER_FILE"),
			MaxSizeMB:  v.GetInt("LOGGER_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOGGER_MAX_BACKUPS"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
			Path:    v.GetString("METRICS_PATH"),
		},
	}

	return cfg, nil
}
