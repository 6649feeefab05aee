package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName = "config.yml"
	AppDirName     = "tokmeta"
)

// ConfigDir returns the standard config directory for tokmeta.
// Windows: %APPDATA%\tokmeta\
// macOS/Linux: ~/.config/tokmeta/
func ConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, AppDirName), nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppDirName), nil
}

// ConfigPath returns the path to the config file.
// e.g., ~/.config/tokmeta/config.yml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

type Config struct {
	// Server configuration for `tokmeta serve`
	Server ServerConfig `yaml:"server,omitempty"`

	// Cookies configuration (file location, staleness, guest entry point)
	Cookies CookiesConfig `yaml:"cookies,omitempty"`

	// Engine configuration (yt-dlp invocation)
	Engine EngineConfig `yaml:"engine,omitempty"`
}

// ServerConfig holds HTTP server settings for `tokmeta serve`
type ServerConfig struct {
	// Port is the HTTP listen port (default: 8080)
	Port int `yaml:"port,omitempty"`
}

// CookiesConfig holds the session-cookie file settings
type CookiesConfig struct {
	// File is the path of the cookie jar handed to the extraction engine
	File string `yaml:"file,omitempty"`

	// MaxAge is how long the cookie file is trusted before it is
	// regenerated, as a Go duration string (e.g., "12h")
	MaxAge string `yaml:"max_age,omitempty"`

	// GuestURL is the page visited to obtain guest session cookies
	GuestURL string `yaml:"guest_url,omitempty"`

	// BrowserTimeout bounds the whole browser-automation step (e.g., "60s")
	BrowserTimeout string `yaml:"browser_timeout,omitempty"`
}

// GetMaxAge parses MaxAge, falling back to 12h
func (c *CookiesConfig) GetMaxAge() time.Duration {
	if d, err := time.ParseDuration(c.MaxAge); err == nil && d > 0 {
		return d
	}
	return 12 * time.Hour
}

// GetBrowserTimeout parses BrowserTimeout, falling back to 60s
func (c *CookiesConfig) GetBrowserTimeout() time.Duration {
	if d, err := time.ParseDuration(c.BrowserTimeout); err == nil && d > 0 {
		return d
	}
	return 60 * time.Second
}

// EngineConfig holds yt-dlp settings
type EngineConfig struct {
	// BinaryPath is the yt-dlp executable (default: "yt-dlp" on PATH)
	BinaryPath string `yaml:"binary_path,omitempty"`

	// Timeout bounds a single metadata extraction call (e.g., "90s")
	Timeout string `yaml:"timeout,omitempty"`
}

// GetTimeout parses Timeout, falling back to 90s
func (c *EngineConfig) GetTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Timeout); err == nil && d > 0 {
		return d
	}
	return 90 * time.Second
}

// DefaultCookieFile returns the default cookie jar location inside the
// config directory, falling back to the working directory.
func DefaultCookieFile() string {
	dir, err := ConfigDir()
	if err != nil {
		return "cookies.txt"
	}
	return filepath.Join(dir, "cookies.txt")
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Cookies: CookiesConfig{
			File:           DefaultCookieFile(),
			MaxAge:         "12h",
			GuestURL:       "https://www.tiktok.com/",
			BrowserTimeout: "60s",
		},
		Engine: EngineConfig{
			BinaryPath: "yt-dlp",
			Timeout:    "90s",
		},
	}
}

// Exists checks if config file exists
func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the config from ~/.config/tokmeta/config.yml
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.Cookies.File = expandPath(cfg.Cookies.File)

	return cfg, nil
}

// expandPath expands the tilde (~) in the path to the user's home directory.
func expandPath(path string) string {
	if path == "" {
		return ""
	}

	if strings.HasPrefix(path, "~") {
		if len(path) == 1 || path[1] == '/' || path[1] == '\\' {
			home, err := os.UserHomeDir()
			if err == nil {
				subPath := path[1:]
				if len(subPath) > 0 && (subPath[0] == '/' || subPath[0] == '\\') {
					subPath = subPath[1:]
				}
				return filepath.Join(home, subPath)
			}
		}
	}

	return path
}

// Save writes the config to ~/.config/tokmeta/config.yml
func Save(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	configPath, err := ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Add a header comment
	header := "# tokmeta configuration file\n# Run 'tokmeta init' to regenerate with defaults\n\n"
	content := header + string(data)

	return os.WriteFile(configPath, []byte(content), 0644)
}

// Init creates a new config.yml with default values
func Init() error {
	if Exists() {
		path, _ := ConfigPath()
		return fmt.Errorf("%s already exists", path)
	}
	return Save(DefaultConfig())
}

// LoadOrDefault loads config if it exists, otherwise returns defaults
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		cfg = DefaultConfig()
	}
	return cfg
}
