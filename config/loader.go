package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/kanko/logger"
)

// FileSystem is the part of the disk the loader touches.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem reads the local disk. LoadEnv never overrides a variable
// that is already set in the process environment.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver picks the config.yml and .env files a service reads.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles names the files a load reads. Empty means none was found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles keeps the explicit paths in opts and searches for the rest.
func (r *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(configCandidates(serviceName))
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first(envCandidates(serviceName))
	}
	return files
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// upDirs lets a binary started from a nested directory (tests, go run)
// still find the repository layout.
var upDirs = []string{".", "..", "../.."}

// serviceDirs is the service name and, for dashed names, its last word:
// "kanko-export" lives in cmd/kanko-export or cmd/export.
func serviceDirs(serviceName string) []string {
	dirs := []string{serviceName}
	if i := strings.LastIndex(serviceName, "-"); i >= 0 && i < len(serviceName)-1 {
		dirs = append(dirs, serviceName[i+1:])
	}
	return dirs
}

// configCandidates lists config.yml locations, nearest first.
func configCandidates(serviceName string) []string {
	var paths []string
	for _, up := range upDirs {
		for _, dir := range serviceDirs(serviceName) {
			paths = append(paths, up+"/cmd/"+dir+"/config.yml")
		}
	}
	return append(paths, "./config/config.yml", "../config/config.yml", "./config.yml")
}

// envCandidates lists .env locations. A service specific .env.<name>
// anywhere beats a plain .env.
func envCandidates(serviceName string) []string {
	var dirs []string
	for _, dir := range serviceDirs(serviceName) {
		for _, up := range upDirs {
			dirs = append(dirs, up+"/cmd/"+dir, up+"/config/"+dir)
		}
	}
	for _, up := range upDirs {
		dirs = append(dirs, up+"/config")
	}
	dirs = append(dirs, upDirs...)

	var paths []string
	for _, name := range []string{".env." + serviceName, ".env"} {
		for _, dir := range dirs {
			paths = append(paths, dir+"/"+name)
		}
	}
	return paths
}

// LoaderConfig carries the loader's file system and explicit overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	Defaults   map[string]any
}

// LoaderOption configures LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem replaces the disk, mostly for tests.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile reads path instead of searching. A missing path is an error.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile loads path instead of searching for a .env file.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithDefaults sets values used when neither the config file nor the
// environment provides a key. Keys use dotted paths ("extract.timeout").
// Only keys known from defaults or the config file can be overridden by
// the environment.
func WithDefaults(defaults map[string]any) LoaderOption {
	return func(lc *LoaderConfig) {
		if lc.Defaults == nil {
			lc.Defaults = make(map[string]any, len(defaults))
		}
		for k, v := range defaults {
			lc.Defaults[k] = v
		}
	}
}

// envKeys maps extract.api_version to EXTRACT_API_VERSION.
var envKeys = strings.NewReplacer(".", "_")

// LoadConfig fills cfg from, lowest precedence first, defaults, the config
// file and the environment (a .env file is loaded into the environment
// before it is read).
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: RealFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}
	files := (&Resolver{FileSystem: lc.FileSystem}).ResolveFiles(serviceName, lc)

	v := viper.New()
	for key, value := range lc.Defaults {
		v.SetDefault(key, value)
	}
	if err := readConfigFile(v, lc, files.ConfigFile); err != nil {
		return err
	}
	loadEnvFile(lc.FileSystem, files.EnvFile)

	v.SetEnvKeyReplacer(envKeys)
	v.AutomaticEnv()

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode %s config: %w", serviceName, err)
	}
	return nil
}

// readConfigFile reads path into v. A discovered file that vanished is
// skipped; an explicit one must exist.
func readConfigFile(v *viper.Viper, lc LoaderConfig, path string) error {
	if path == "" {
		return nil
	}
	if !lc.FileSystem.Exists(path) {
		if lc.ConfigFile != "" {
			return fmt.Errorf("config file %s not found", path)
		}
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	return nil
}

// loadEnvFile exports path into the process environment. A broken .env
// is logged and otherwise ignored.
func loadEnvFile(fs FileSystem, path string) {
	if path == "" || !fs.Exists(path) {
		return
	}
	if err := fs.LoadEnv(path); err != nil {
		fields := logger.ErrorFields("load env file", err)
		fields["path"] = path
		logger.Warn("failed to load .env file", fields)
	}
}
