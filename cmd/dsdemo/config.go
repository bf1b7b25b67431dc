package main

import (
	"fmt"
	"os"
	"regexp"

	"github.com/aalemi-dev/dynamic-datasource/dsmetrics"
	"github.com/aalemi-dev/dynamic-datasource/logger"
	"github.com/aalemi-dev/dynamic-datasource/metrics"
	"github.com/aalemi-dev/dynamic-datasource/router"
	"github.com/aalemi-dev/dynamic-datasource/tracer"
	"gopkg.in/yaml.v3"
)

// AppConfig is the layout of the dsdemo configuration file.
type AppConfig struct {
	Logger    logger.Config    `yaml:"logger"`
	Metrics   metrics.Config   `yaml:"metrics"`
	Tracer    tracer.Config    `yaml:"tracer"`
	Router    router.Config    `yaml:"router"`
	DSMetrics dsmetrics.Config `yaml:"dsmetrics"`
}

// LoadConfig reads the YAML file at path. ${VAR} references are expanded from
// the environment before decoding so credentials can stay out of the file.
func LoadConfig(path string) (AppConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(raw)
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} with its environment value. Any other '$' is kept,
// so passwords such as "pa$$word" survive decoding.
func expandEnv(raw []byte) []byte {
	return envRef.ReplaceAllFunc(raw, func(ref []byte) []byte {
		return []byte(os.Getenv(string(ref[2 : len(ref)-1])))
	})
}

// ParseConfig decodes raw YAML into an AppConfig.
func ParseConfig(raw []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(expandEnv(raw), &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("decoding config: %w", err)
	}
	if len(cfg.Router.DataSources) == 0 {
		return AppConfig{}, fmt.Errorf("config has no data sources")
	}

	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = cfg.Logger.ServiceName
	}
	if cfg.Tracer.ServiceName == "" {
		cfg.Tracer.ServiceName = cfg.Logger.ServiceName
	}
	return cfg, nil
}
