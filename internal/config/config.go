// Package config provides configuration loading.
//
// Values are resolved in this order: built-in defaults, PULLSCROLL_*
// environment variables, the TOML config file, then the environment again
// so it always wins. Registered validators normalise the result.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/cristianoliveira/pullscroll/internal/colors"
	"github.com/pelletier/go-toml/v2"
)

const (
	// EnvPrefix is the prefix of environment overrides.
	EnvPrefix = "PULLSCROLL_"
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileExtTOML is the file extension for TOML configuration files.
	FileExtTOML = ".toml"
)

var (
	config   map[string]string
	defaults map[string]string
	mu       sync.RWMutex
)

// Load initializes configuration.
func Load() {
	mu.Lock()
	defer mu.Unlock()

	config = make(map[string]string)
	defaults = make(map[string]string)

	setDefaults()
	loadFromEnv()
	loadFromFile()
	loadFromEnv()
	validate()
	createSampleConfig()
}

// setDefaults populates config with default values.
func setDefaults() {
	home, _ := os.UserHomeDir()
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(home, ".config")
	}
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		xdgStateHome = filepath.Join(home, ".local", "state")
	}

	setDefault("config_dir", filepath.Join(xdgConfigHome, "pullscroll"))
	setDefault("state_dir", filepath.Join(xdgStateHome, "pullscroll"))
	setDefault("cell_height", "16")
	setDefault("initial_items", "20")
	setDefault("page_size", "10")
	setDefault("max_pages", "5")
	setDefault("refresh_delay_ms", "1000")
	setDefault("load_delay_ms", "1000")
	setDefault("fail_every", "0")
	setDefault("logging_enabled", "false")
	setDefault("logging_level", "info")
	setDefault("logging_max_files", "10")
	setDefault("debug", "false")
}

func setDefault(key, value string) {
	config[key] = value
	defaults[key] = value
}

// loadFromFile reads configuration from PULLSCROLL_CONFIG_PATH or
// {config_dir}/config.toml.
func loadFromFile() {
	configPath := os.Getenv(EnvPrefix + "CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join(config["config_dir"], "config"+FileExtTOML)
		if _, err := os.Stat(configPath); err != nil {
			return
		}
	}
	if strings.ToLower(filepath.Ext(configPath)) != FileExtTOML {
		colors.Warning(fmt.Sprintf("unsupported config file format: %s", configPath))
		return
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		colors.Debug(fmt.Sprintf("unable to read config file %s: %v", configPath, err))
		return
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		colors.Warning(fmt.Sprintf("unable to parse config file %s: %v", configPath, err))
		return
	}

	for k, v := range raw {
		key := strings.ToLower(k)
		converted, ok := coerceConfigValue(v)
		if !ok {
			colors.Warning(fmt.Sprintf("unsupported config value type for %s: %T", key, v))
			continue
		}
		config[key] = converted
	}
}

// coerceConfigValue converts a decoded TOML value to its string form.
func coerceConfigValue(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

// loadFromEnv applies environment variable overrides.
func loadFromEnv() {
	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
		if key == "config_path" {
			continue
		}
		config[key] = value
	}
}

// createSampleConfig writes the defaults to {config_dir}/config.toml if no
// file exists yet.
func createSampleConfig() {
	configDir := config["config_dir"]
	if configDir == "" {
		return
	}
	samplePath := filepath.Join(configDir, "config"+FileExtTOML)
	if _, err := os.Stat(samplePath); err == nil {
		return
	}
	if err := os.MkdirAll(configDir, FileModeDir); err != nil {
		colors.Debug(fmt.Sprintf("unable to create config dir %s: %v", configDir, err))
		return
	}

	typed := make(map[string]any, len(defaults))
	for k, v := range defaults {
		if k == "config_dir" || k == "state_dir" {
			continue
		}
		typed[k] = valueToInterface(v)
	}

	data, err := toml.Marshal(typed)
	if err != nil {
		colors.Warning(fmt.Sprintf("unable to marshal sample config: %v", err))
		return
	}
	header := "# pullscroll configuration\n# This file is in TOML format.\n\n"
	if err := os.WriteFile(samplePath, append([]byte(header), data...), 0644); err != nil {
		colors.Warning(fmt.Sprintf("unable to write sample config to %s: %v", samplePath, err))
	}
}

// valueToInterface converts a configuration value to the TOML type it
// should be written as.
func valueToInterface(val string) any {
	if n, err := strconv.Atoi(val); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return val
}

// Get returns a configuration value or default.
func Get(key, defaultValue string) string {
	mu.RLock()
	defer mu.RUnlock()
	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

// GetInt returns a configuration value as integer, or default.
func GetInt(key string, defaultValue int) int {
	mu.RLock()
	defer mu.RUnlock()
	val, ok := config[key]
	if !ok {
		return defaultValue
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return n
}

// GetBool returns a configuration value as boolean, or default.
func GetBool(key string, defaultValue bool) bool {
	mu.RLock()
	defer mu.RUnlock()
	val, ok := config[key]
	if !ok {
		return defaultValue
	}
	switch normalizeBool(val) {
	case "true":
		return true
	case "false":
		return false
	default:
		return defaultValue
	}
}
