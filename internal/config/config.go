// Package config handles the global configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKey is returned by Get and Set for configuration keys that
// don't exist.
var ErrUnknownKey = errors.New("unknown configuration key")

// GlobalConfig represents configuration stored in
// ~/.config/autoscholar/config.yml. Every field is optional; command-line
// flags override whatever is set here.
type GlobalConfig struct {
	ScholarID string  `yaml:"scholar_id,omitempty"` // Google Scholar profile ID
	Name      string  `yaml:"name,omitempty"`       // researcher name to bold in author lists
	Output    string  `yaml:"output,omitempty"`     // output HTML path
	Template  string  `yaml:"template,omitempty"`   // custom template path
	ProxyURL  string  `yaml:"proxy_url,omitempty"`  // HTTP/SOCKS proxy for Scholar requests
	UserAgent string  `yaml:"user_agent,omitempty"` // User-Agent override
	PageSize  int     `yaml:"page_size,omitempty"`  // profile rows per request
	DelayMin  float64 `yaml:"delay_min,omitempty"`  // politeness delay lower bound, seconds
	DelayMax  float64 `yaml:"delay_max,omitempty"`  // politeness delay upper bound, seconds
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "autoscholar"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// Defaults applied when neither flags nor config set a value.
const (
	DefaultOutput   = "publications.html"
	DefaultDelayMin = 1.0
	DefaultDelayMax = 2.5
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/autoscholar/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.Output != "" {
		cfg.Output = ExpandPath(cfg.Output)
	}
	if cfg.Template != "" {
		cfg.Template = ExpandPath(cfg.Template)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// Save writes the global configuration, creating the config directory if
// needed.
func (c *GlobalConfig) Save() error {
	path := GlobalConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	globalConfigCache = nil
	return nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetProxyURL returns the proxy URL, preferring the AUTOSCHOLAR_PROXY
// environment variable over the config file.
func GetProxyURL() string {
	if proxy := os.Getenv("AUTOSCHOLAR_PROXY"); proxy != "" {
		return proxy
	}
	cfg, _ := LoadGlobalConfig()
	return cfg.ProxyURL
}

// GetUserAgent returns the User-Agent override, preferring the
// AUTOSCHOLAR_USER_AGENT environment variable over the config file.
func GetUserAgent() string {
	if ua := os.Getenv("AUTOSCHOLAR_USER_AGENT"); ua != "" {
		return ua
	}
	cfg, _ := LoadGlobalConfig()
	return cfg.UserAgent
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}

// ValidateDelays checks that the politeness delay bounds make sense.
func ValidateDelays(min, max float64) error {
	if min < 0 || max < 0 {
		return fmt.Errorf("delay bounds must be non-negative (got %g and %g)", min, max)
	}
	if min > max {
		return fmt.Errorf("delay-min %g exceeds delay-max %g", min, max)
	}
	return nil
}

// Get returns the value of a config key as a string.
func (c *GlobalConfig) Get(key string) (string, error) {
	switch key {
	case "scholar-id":
		return c.ScholarID, nil
	case "name":
		return c.Name, nil
	case "output":
		return c.Output, nil
	case "template":
		return c.Template, nil
	case "proxy-url":
		return c.ProxyURL, nil
	case "user-agent":
		return c.UserAgent, nil
	case "page-size":
		if c.PageSize == 0 {
			return "", nil
		}
		return strconv.Itoa(c.PageSize), nil
	case "delay-min":
		if c.DelayMin == 0 {
			return "", nil
		}
		return strconv.FormatFloat(c.DelayMin, 'g', -1, 64), nil
	case "delay-max":
		if c.DelayMax == 0 {
			return "", nil
		}
		return strconv.FormatFloat(c.DelayMax, 'g', -1, 64), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Set updates a config key from its string form, validating numeric keys.
func (c *GlobalConfig) Set(key, value string) error {
	switch key {
	case "scholar-id":
		c.ScholarID = value
	case "name":
		c.Name = value
	case "output":
		c.Output = ExpandPath(value)
	case "template":
		c.Template = ExpandPath(value)
	case "proxy-url":
		c.ProxyURL = value
	case "user-agent":
		c.UserAgent = value
	case "page-size":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("page-size must be a positive integer, got %q", value)
		}
		c.PageSize = n
	case "delay-min":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("delay-min must be a non-negative number, got %q", value)
		}
		c.DelayMin = f
	case "delay-max":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("delay-max must be a non-negative number, got %q", value)
		}
		c.DelayMax = f
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// Keys lists the valid configuration keys in display order.
func Keys() []string {
	return []string{
		"scholar-id", "name", "output", "template",
		"proxy-url", "user-agent", "page-size", "delay-min", "delay-max",
	}
}
