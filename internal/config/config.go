// Package config loads cvefocus settings from defaults, an optional YAML
// file, environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/rshade/cvefocus/internal/cve"
	"github.com/rshade/cvefocus/internal/pagination"
)

// Defaults.
const (
	DefaultBaseURL    = "http://localhost:8000"
	DefaultTimeout    = 30 * time.Second
	DefaultPageSize   = 10
	DefaultLocale     = "en-US"
	DefaultServerAddr = ":8080"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"

	configFileName = "config.yaml"
	configDirName  = ".cvefocus"
)

// Environment variables.
const (
	EnvHome      = "CVEFOCUS_HOME"
	EnvAPIURL    = "CVEFOCUS_API_URL"
	EnvLocale    = "CVEFOCUS_LOCALE"
	EnvLogLevel  = "CVEFOCUS_LOG_LEVEL"
	EnvLogFormat = "CVEFOCUS_LOG_FORMAT"
	EnvPageSize  = "CVEFOCUS_PAGE_SIZE"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the effective cvefocus configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Display DisplayConfig `yaml:"display"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`

	configPath string
}

// APIConfig locates the CVE HTTP API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// DisplayConfig controls pagination and date rendering.
type DisplayConfig struct {
	PageSize  int    `yaml:"page_size"`
	PageSizes []int  `yaml:"page_sizes"`
	Locale    string `yaml:"locale"`
	// Timezone is an IANA name such as "Europe/Berlin". Empty means local time.
	Timezone string `yaml:"timezone,omitempty"`
}

// ServerConfig configures the HTML front end.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Display: DisplayConfig{
			PageSize:  DefaultPageSize,
			PageSizes: slices.Clone(pagination.DefaultPageSizes),
			Locale:    DefaultLocale,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// GetConfigDir returns $CVEFOCUS_HOME, or ~/.cvefocus when it is unset.
func GetConfigDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, configDirName), nil
}

// DefaultPath returns the config file location inside GetConfigDir.
func DefaultPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load builds the configuration from defaults, the file at path and the
// process environment. An empty path uses DefaultPath. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(path string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := New()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg.configPath = path

	if _, err := os.Stat(path); err == nil {
		if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
			return nil, mergeErr
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cannot access config path %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(lookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays the CVEFOCUS_* environment variables.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) error {
	if lookupEnv == nil {
		return nil
	}
	if v, ok := lookupEnv(EnvAPIURL); ok && v != "" {
		c.API.BaseURL = v
	}
	if v, ok := lookupEnv(EnvLocale); ok && v != "" {
		c.Display.Locale = v
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookupEnv(EnvPageSize); ok && v != "" {
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%d", &n); err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvPageSize, v)
		}
		c.Display.PageSize = n
	}
	return nil
}

// ConfigPath returns the file the configuration was loaded from or will be
// saved to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath sets the file Save writes to.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the configuration as YAML, creating the parent directory.
func (c *Config) Save() error {
	if c.configPath == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		c.configPath = p
	}
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", c.configPath, err)
	}
	return nil
}

// YAML returns the configuration encoded as YAML.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

// Validate checks the configuration. Every error wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api.base_url must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive, got %s", ErrInvalidConfig, c.API.Timeout)
	}
	if _, err = pagination.NewMenu(c.Display.PageSizes); err != nil {
		return fmt.Errorf("%w: display.page_sizes: %w", ErrInvalidConfig, err)
	}
	if !slices.Contains(c.Display.PageSizes, c.Display.PageSize) {
		return fmt.Errorf("%w: display.page_size %d is not one of %v",
			ErrInvalidConfig, c.Display.PageSize, c.Display.PageSizes)
	}
	if _, err = c.LocaleTag(); err != nil {
		return err
	}
	if _, err = c.Location(); err != nil {
		return err
	}
	if addr := strings.TrimSpace(c.Server.Addr); addr == "" {
		return fmt.Errorf("%w: server.addr must not be empty", ErrInvalidConfig)
	}
	return nil
}

// LocaleTag parses display.locale.
func (c *Config) LocaleTag() (language.Tag, error) {
	tag, err := cve.ParseLocale(c.Display.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("%w: display.locale %q: %w", ErrInvalidConfig, c.Display.Locale, err)
	}
	return tag, nil
}

// Location loads display.timezone. Empty means time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Display.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: display.timezone %q: %w", ErrInvalidConfig, c.Display.Timezone, err)
	}
	return loc, nil
}

// Menu returns the page-size menu with display.page_size selected.
func (c *Config) Menu() (pagination.Menu, error) {
	menu, err := pagination.NewMenu(c.Display.PageSizes)
	if err != nil {
		return pagination.Menu{}, fmt.Errorf("%w: display.page_sizes: %w", ErrInvalidConfig, err)
	}
	selected, ok := menu.Select(c.Display.PageSize)
	if !ok {
		return pagination.Menu{}, fmt.Errorf("%w: display.page_size %d is not one of %v",
			ErrInvalidConfig, c.Display.PageSize, c.Display.PageSizes)
	}
	return selected, nil
}

// DateFormatter returns the formatter for display.locale and display.timezone.
func (c *Config) DateFormatter() (cve.DateFormatter, error) {
	tag, err := c.LocaleTag()
	if err != nil {
		return cve.DateFormatter{}, err
	}
	loc, err := c.Location()
	if err != nil {
		return cve.DateFormatter{}, err
	}
	return cve.NewDateFormatter(tag, loc), nil
}
