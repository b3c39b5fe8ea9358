package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"t4auto/internal/redcat"
)

// KeySpec describes a single scalar configuration key. The schedule is
// edited through the schedule commands, not here.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "base-url").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set validates value and applies it to the given Config (in memory
	// only; the caller is responsible for calling Save). An empty value
	// resets the key to its default.
	Set func(cfg *Config, value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "base-url",
		Description: "Back office URL (default " + redcat.DefaultBaseURL + ")",
		Get:         func(cfg *Config) string { return cfg.BaseURL },
		Set: func(cfg *Config, v string) error {
			if v != "" {
				u, err := url.Parse(v)
				if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
					return fmt.Errorf("invalid base URL %q (want http(s)://host)", v)
				}
				v = strings.TrimRight(v, "/")
			}
			cfg.BaseURL = v
			return nil
		},
	},
	{
		Name:        "username",
		Description: "Account used by 'schedule run' (password is kept in the OS keychain)",
		Get:         func(cfg *Config) string { return cfg.Username },
		Set: func(cfg *Config, v string) error {
			cfg.Username = v
			return nil
		},
	},
	{
		Name:        "default-reason",
		Description: "Reason recorded for rows that have none",
		Get:         func(cfg *Config) string { return cfg.DefaultReason },
		Set: func(cfg *Config, v string) error {
			cfg.DefaultReason = v
			return nil
		},
	},
	{
		Name:        "requests-per-second",
		Description: "Cap on API requests per second (0 = unlimited)",
		Get: func(cfg *Config) string {
			if cfg.RequestsPerSecond == 0 {
				return ""
			}
			return strconv.FormatFloat(cfg.RequestsPerSecond, 'f', -1, 64)
		},
		Set: func(cfg *Config, v string) error {
			if v == "" {
				cfg.RequestsPerSecond = 0
				return nil
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid rate %q (want a non-negative number)", v)
			}
			cfg.RequestsPerSecond = f
			return nil
		},
	},
	{
		Name:        "collision-offset",
		Description: "Spread actions sharing a start instant by this duration (e.g. 30s; empty = off)",
		Get:         func(cfg *Config) string { return cfg.CollisionOffset },
		Set:         durationSetter(func(cfg *Config) *string { return &cfg.CollisionOffset }),
	},
	{
		Name:        "action-timeout",
		Description: "Deadline for a single offline/online action (default 2m)",
		Get:         func(cfg *Config) string { return cfg.ActionTimeout },
		Set:         durationSetter(func(cfg *Config) *string { return &cfg.ActionTimeout }),
	},
}

func durationSetter(field func(cfg *Config) *string) func(cfg *Config, v string) error {
	return func(cfg *Config, v string) error {
		if v != "" {
			d, err := time.ParseDuration(v)
			if err != nil || d < 0 {
				return fmt.Errorf("invalid duration %q (e.g. 30s, 2m)", v)
			}
		}
		*field(cfg) = v
		return nil
	}
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
