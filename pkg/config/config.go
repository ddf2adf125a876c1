package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/kennel/config"
	ConfigFileName    = "kennel.yml"
)

// ValidLogLevels and ValidLogFormats list the accepted logging settings
var (
	ValidLogLevels  = []string{"debug", "info", "warn", "error"}
	ValidLogFormats = []string{"text", "json"}
)

// KennelConfig holds all kennel-cms configuration settings
type KennelConfig struct {
	// DatabaseURL is the PostgreSQL connection string
	DatabaseURL string `yaml:"database_url" json:"database_url"`

	// SeedEnabled runs the provisioner when the server starts
	SeedEnabled bool `yaml:"seed_enabled" json:"seed_enabled"`

	// SeedDataDir replaces the built-in seed files, file by file
	SeedDataDir string `yaml:"seed_data_dir" json:"seed_data_dir"`

	// PublicRoleType is the type of the role granted public read access
	PublicRoleType string `yaml:"public_role_type" json:"public_role_type"`

	// FeaturedPuppies is how many puppies the about page features
	FeaturedPuppies int `yaml:"featured_puppies" json:"featured_puppies"`

	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// fileConfig mirrors KennelConfig with pointers so that explicit zero
// values in the file (seed_enabled: false) are told apart from absent keys
type fileConfig struct {
	DatabaseURL     *string `yaml:"database_url"`
	SeedEnabled     *bool   `yaml:"seed_enabled"`
	SeedDataDir     *string `yaml:"seed_data_dir"`
	PublicRoleType  *string `yaml:"public_role_type"`
	FeaturedPuppies *int    `yaml:"featured_puppies"`
	LogLevel        *string `yaml:"log_level"`
	LogFormat       *string `yaml:"log_format"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *KennelConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *KennelConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *KennelConfig {
	return &KennelConfig{
		SeedEnabled:     true,
		PublicRoleType:  "public",
		FeaturedPuppies: 3,
		LogLevel:        "info",
		LogFormat:       "text",
		sources:         make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*KennelConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("KENNEL_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&file)
	}

	if err := config.applyEnvConfig(); err != nil {
		return nil, err
	}

	return config, nil
}

func attributeNames() []string {
	return []string{
		"database_url", "seed_enabled", "seed_data_dir", "public_role_type",
		"featured_puppies", "log_level", "log_format",
	}
}

func (c *KennelConfig) applyFileConfig(file *fileConfig) {
	if file.DatabaseURL != nil {
		c.DatabaseURL = *file.DatabaseURL
		c.sources["database_url"] = "file"
	}
	if file.SeedEnabled != nil {
		c.SeedEnabled = *file.SeedEnabled
		c.sources["seed_enabled"] = "file"
	}
	if file.SeedDataDir != nil {
		c.SeedDataDir = *file.SeedDataDir
		c.sources["seed_data_dir"] = "file"
	}
	if file.PublicRoleType != nil {
		c.PublicRoleType = *file.PublicRoleType
		c.sources["public_role_type"] = "file"
	}
	if file.FeaturedPuppies != nil {
		c.FeaturedPuppies = *file.FeaturedPuppies
		c.sources["featured_puppies"] = "file"
	}
	if file.LogLevel != nil {
		c.LogLevel = *file.LogLevel
		c.sources["log_level"] = "file"
	}
	if file.LogFormat != nil {
		c.LogFormat = *file.LogFormat
		c.sources["log_format"] = "file"
	}
}

func (c *KennelConfig) applyEnvConfig() error {
	if val := os.Getenv("DATABASE_URL"); val != "" {
		c.DatabaseURL = val
		c.sources["database_url"] = "environment"
	}
	if val := os.Getenv("KENNEL_SEED_ENABLED"); val != "" {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid KENNEL_SEED_ENABLED value %q: %w", val, err)
		}
		c.SeedEnabled = enabled
		c.sources["seed_enabled"] = "environment"
	}
	if val := os.Getenv("KENNEL_SEED_DATA_DIR"); val != "" {
		c.SeedDataDir = val
		c.sources["seed_data_dir"] = "environment"
	}
	if val := os.Getenv("KENNEL_PUBLIC_ROLE_TYPE"); val != "" {
		c.PublicRoleType = val
		c.sources["public_role_type"] = "environment"
	}
	if val := os.Getenv("KENNEL_FEATURED_PUPPIES"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid KENNEL_FEATURED_PUPPIES value %q: %w", val, err)
		}
		c.FeaturedPuppies = n
		c.sources["featured_puppies"] = "environment"
	}
	if val := os.Getenv("KENNEL_LOG_LEVEL"); val != "" {
		c.LogLevel = strings.ToLower(val)
		c.sources["log_level"] = "environment"
	}
	if val := os.Getenv("KENNEL_LOG_FORMAT"); val != "" {
		c.LogFormat = strings.ToLower(val)
		c.sources["log_format"] = "environment"
	}
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *KennelConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *KennelConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// SlogLevel returns LogLevel as a slog level
func (c *KennelConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate validates the configuration
func (c *KennelConfig) Validate() error {
	if !contains(ValidLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	if !contains(ValidLogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log_format: %s", c.LogFormat)
	}
	if c.FeaturedPuppies < 0 {
		return fmt.Errorf("invalid featured_puppies: %d", c.FeaturedPuppies)
	}
	if strings.TrimSpace(c.PublicRoleType) == "" {
		return fmt.Errorf("public_role_type must not be empty")
	}
	if c.DatabaseURL != "" {
		if _, err := url.Parse(c.DatabaseURL); err != nil {
			return fmt.Errorf("invalid database_url: %w", err)
		}
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources.
// The database password is redacted.
func (c *KennelConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "database_url", Value: redactURL(c.DatabaseURL), Source: c.Source("database_url")},
		{Name: "seed_enabled", Value: strconv.FormatBool(c.SeedEnabled), Source: c.Source("seed_enabled")},
		{Name: "seed_data_dir", Value: c.SeedDataDir, Source: c.Source("seed_data_dir")},
		{Name: "public_role_type", Value: c.PublicRoleType, Source: c.Source("public_role_type")},
		{Name: "featured_puppies", Value: strconv.Itoa(c.FeaturedPuppies), Source: c.Source("featured_puppies")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_format", Value: c.LogFormat, Source: c.Source("log_format")},
	}
}

// FormatText returns a text representation of the configuration
func (c *KennelConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-20s %-50s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-20s %-50s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-20s %-50s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *KennelConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "(invalid)"
	}
	return u.Redacted()
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
