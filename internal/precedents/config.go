package precedents

import (
	"fmt"
	"os"
	"strconv"
)

// FallbackConfig controls the dev-only local fallback log written when the
// durable store rejects a deliberation outcome.
type FallbackConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// FallbackEnv maps FallbackConfig fields to environment variable names.
type FallbackEnv struct {
	Enabled string
	Path    string
}

// Finalize applies defaults, environment overrides, and validation.
func (c *FallbackConfig) Finalize(env *FallbackEnv) error {
	c.loadDefaults()

	if env != nil {
		c.loadEnv(env)
	}

	return c.validate()
}

// Merge overlays non-zero values from the overlay config.
func (c *FallbackConfig) Merge(overlay *FallbackConfig) {
	if overlay == nil {
		return
	}

	if overlay.Enabled {
		c.Enabled = overlay.Enabled
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
}

// Build returns the fallback log, or nil when disabled.
func (c *FallbackConfig) Build() *FallbackLog {
	if !c.Enabled {
		return nil
	}
	return NewFallbackLog(c.Path)
}

func (c *FallbackConfig) loadDefaults() {
	if c.Path == "" {
		c.Path = "fallback/precedents.jsonl"
	}
}

func (c *FallbackConfig) loadEnv(env *FallbackEnv) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.Enabled = b
			}
		}
	}
	if env.Path != "" {
		if v := os.Getenv(env.Path); v != "" {
			c.Path = v
		}
	}
}

func (c *FallbackConfig) validate() error {
	if c.Enabled && c.Path == "" {
		return fmt.Errorf("fallback path is required when enabled")
	}
	return nil
}
