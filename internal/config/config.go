// Package config handles persistent user configuration for t4auto: the
// back office to talk to, who to log in as, engine tuning, and the
// operator's schedule rows.
//
// Configuration is stored as JSON at ~/.config/t4auto/config.json (or the
// platform-equivalent path returned by os.UserConfigDir).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"t4auto/internal/domain"
	"t4auto/internal/redcat"
	"t4auto/internal/schedule"
	"t4auto/internal/scheduler"
)

const (
	appDir   = "t4auto"
	fileName = "config.json"
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds user preferences and the schedule. Empty fields fall back
// to defaults through the accessor methods.
type Config struct {
	BaseURL           string  `json:"base_url,omitempty"`
	Username          string  `json:"username,omitempty"`
	DefaultReason     string  `json:"default_reason,omitempty"`
	RequestsPerSecond float64 `json:"requests_per_second,omitempty"`

	// Durations use time.ParseDuration syntax ("30s", "2m").
	CollisionOffset string `json:"collision_offset,omitempty"`
	ActionTimeout   string `json:"action_timeout,omitempty"`

	Schedule []schedule.Row `json:"schedule,omitempty"`
}

// Dir returns the directory holding the config file. The database and
// logs live next to it.
func Dir() (string, error) {
	p, err := Path()
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}

// Path returns the absolute path to the config file.
// If SetPath has been called, that value is returned instead.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// EffectiveBaseURL returns BaseURL or the default back office.
func (c *Config) EffectiveBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return redcat.DefaultBaseURL
}

// EffectiveReason returns DefaultReason or the built-in default.
func (c *Config) EffectiveReason() string {
	if c.DefaultReason != "" {
		return c.DefaultReason
	}
	return domain.DefaultReason
}

// CollisionOffsetDuration parses CollisionOffset. Empty means disabled.
func (c *Config) CollisionOffsetDuration() (time.Duration, error) {
	return parseDuration("collision_offset", c.CollisionOffset, 0)
}

// ActionTimeoutDuration parses ActionTimeout. Empty means the scheduler
// default.
func (c *Config) ActionTimeoutDuration() (time.Duration, error) {
	return parseDuration("action_timeout", c.ActionTimeout, scheduler.DefaultActionTimeout)
}

func parseDuration(key, v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: %s must not be negative", key)
	}
	return d, nil
}

// Load reads the config file from disk and returns the parsed Config.
// If the file does not exist, a zero-value Config is returned (not an error).
func Load() (*Config, error) {
	return loadFrom("")
}

func loadFrom(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the parent directory if needed.
// The file may hold a username, so it is written owner-only.
func (c *Config) Save() error {
	return c.saveTo("")
}

func (c *Config) saveTo(path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}

	return nil
}

// LoadFrom reads the config from the given path. Intended for testing.
func LoadFrom(path string) (*Config, error) {
	return loadFrom(path)
}

// SaveTo writes the config to the given path. Intended for testing.
func (c *Config) SaveTo(path string) error {
	return c.saveTo(path)
}
