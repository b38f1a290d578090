package config

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/kbukum/kanko/logger"
	"github.com/kbukum/kanko/observability"
)

var environments = []string{"development", "staging", "production"}

// ServiceConfig holds what every command shares. Commands embed it next to
// their own sections:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Extract extract.Config `yaml:"extract" mapstructure:"extract"`
//	}
type ServiceConfig struct {
	Name          string               `yaml:"name" mapstructure:"name"`
	Environment   string               `yaml:"environment" mapstructure:"environment"`
	Version       string               `yaml:"version" mapstructure:"version"`
	Debug         bool                 `yaml:"debug" mapstructure:"debug"`
	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// GetServiceConfig is promoted to embedding structs, which lets them satisfy
// bootstrap.Config.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig { return c }

// ApplyDefaults fills the shared sections. Debug only lowers the log level
// when none was set, and the service name doubles as the log tag.
func (c *ServiceConfig) ApplyDefaults() {
	c.Environment = cmp.Or(c.Environment, "development")
	if c.Debug {
		c.Logging.Level = cmp.Or(c.Logging.Level, "debug")
	}
	c.Logging.ServiceName = cmp.Or(c.Logging.ServiceName, c.Name)
	c.Logging.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

func (c *ServiceConfig) Validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("config.name is required")
	case !slices.Contains(environments, c.Environment):
		return fmt.Errorf("config.environment must be one of [%s] (got: %s)",
			strings.Join(environments, ", "), c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	return nil
}
