// Package validation checks configuration and command input.
//
// Struct tag validation uses go-playground/validator and reports fields by
// their mapstructure (or json) name, so messages match the keys users write
// in config.yml:
//
//	type Config struct {
//	    Categories []string `mapstructure:"categories" validate:"required,min=1,dive,required"`
//	}
//	err := validation.Validate(cfg)
//
// The chainable Validator covers checks that are awkward to express as tags:
//
//	v := validation.New()
//	v.Pattern("api_version", cfg.APIVersion, `^v[0-9]{3}$`)
//	err := v.Validate()
package validation
