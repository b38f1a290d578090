package extract

import (
	"time"

	"github.com/kbukum/kanko/httpclient"
	"github.com/kbukum/kanko/kanko"
	"github.com/kbukum/kanko/validation"
	"github.com/kbukum/kanko/version"
)

const (
	defaultTimeout = 30 * time.Second
	clientName     = "kanko-api"
)

// categories is the built-in category list. It is never handed out directly.
var categories = [...]string{"温泉"}

// DefaultCategories returns a fresh copy of the built-in category list.
func DefaultCategories() []string {
	return append([]string(nil), categories[:]...)
}

// Config configures an extraction run.
type Config struct {
	// Categories are extracted in order. Defaults to DefaultCategories.
	Categories []string `yaml:"categories" mapstructure:"categories" validate:"required,min=1,dive,required"`

	BaseURL    string        `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	APIVersion string        `yaml:"api_version" mapstructure:"api_version"`
	Format     string        `yaml:"format" mapstructure:"format"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
	UserAgent  string        `yaml:"user_agent" mapstructure:"user_agent"`

	// RunID overrides the generated run identifier. Must be a UUID when set.
	RunID string `yaml:"run_id" mapstructure:"run_id"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if len(c.Categories) == 0 {
		c.Categories = DefaultCategories()
	}
	if c.BaseURL == "" {
		c.BaseURL = kanko.DefaultBaseURL
	}
	if c.APIVersion == "" {
		c.APIVersion = kanko.DefaultAPIVersion
	}
	if c.Format == "" {
		c.Format = kanko.DefaultFormat
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent("kanko-export")
	}
}

// Validate checks the configuration. Call ApplyDefaults first.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	return validation.New().
		Pattern("api_version", c.APIVersion, `^v[0-9]{3}$`).
		OneOf("format", c.Format, []string{kanko.DefaultFormat}).
		OptionalUUID("run_id", c.RunID).
		Err()
}

// Endpoint returns the API endpoint described by c.
func (c *Config) Endpoint() kanko.Endpoint {
	return kanko.Endpoint{
		BaseURL:    c.BaseURL,
		APIVersion: c.APIVersion,
		Format:     c.Format,
	}
}

// HTTPClientConfig returns the transport settings for the API client.
func (c *Config) HTTPClientConfig() httpclient.Config {
	return httpclient.Config{
		Name:      clientName,
		Timeout:   c.Timeout,
		UserAgent: c.UserAgent,
	}
}
