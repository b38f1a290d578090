// Package config loads command configuration from a YAML file, an optional
// .env file and the process environment.
//
// Files are looked up in conventional locations (./cmd/<name>/config.yml,
// ./config/config.yml, ./config.yml) unless given explicitly. Environment
// variables override file values; EXTRACT_TIMEOUT sets extract.timeout.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("kanko-export", &cfg, config.WithConfigFile(path))
package config
