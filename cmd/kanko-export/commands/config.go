package commands

import (
	"fmt"

	"github.com/kbukum/kanko/config"
	"github.com/kbukum/kanko/extract"
	"github.com/kbukum/kanko/version"
)

const serviceName = "kanko-export"

// AppConfig is the full configuration of the export command.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Extract extract.Config `yaml:"extract" mapstructure:"extract"`
}

// ApplyDefaults fills in the service identity and section defaults.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Short()
	}
	c.ServiceConfig.ApplyDefaults()
	c.Extract.ApplyDefaults()
}

// Validate checks the service and extract sections.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Extract.Validate(); err != nil {
		return fmt.Errorf("config.extract: %w", err)
	}
	return nil
}

// loadDefaults seeds every key so environment variables such as
// EXTRACT_TIMEOUT or LOGGING_LEVEL are picked up without a config file.
func loadDefaults() map[string]any {
	var cfg AppConfig
	cfg.ApplyDefaults()
	return map[string]any{
		"name":                      cfg.Name,
		"environment":               cfg.Environment,
		"version":                   cfg.Version,
		"debug":                     false,
		"logging.level":             "",
		"logging.format":            cfg.Logging.Format,
		"logging.output":            cfg.Logging.Output,
		"logging.no_color":          false,
		"observability.enabled":     false,
		"observability.endpoint":    cfg.Observability.Endpoint,
		"observability.insecure":    false,
		"observability.sample_rate": cfg.Observability.SampleRate,
		"observability.interval":    cfg.Observability.Interval,
		"extract.categories":        cfg.Extract.Categories,
		"extract.base_url":          cfg.Extract.BaseURL,
		"extract.api_version":       cfg.Extract.APIVersion,
		"extract.format":            cfg.Extract.Format,
		"extract.timeout":           cfg.Extract.Timeout,
		"extract.user_agent":        cfg.Extract.UserAgent,
		"extract.run_id":            "",
	}
}

// loadConfig reads config.yml, .env and the environment into an AppConfig.
func loadConfig(path string) (*AppConfig, error) {
	opts := []config.LoaderOption{config.WithDefaults(loadDefaults())}
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	var cfg AppConfig
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
