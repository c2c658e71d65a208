package deliberation

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/tribunal/pkg/formatting"
)

// Config holds deliberation round settings.
type Config struct {
	MaxInputSize        string `toml:"max_input_size"`
	Quorum              int    `toml:"quorum"`
	MaxConcurrentRounds int    `toml:"max_concurrent_rounds"`
	CriticTimeout       string `toml:"critic_timeout"`
}

// Env maps Config fields to environment variable names.
type Env struct {
	MaxInputSize        string
	Quorum              string
	MaxConcurrentRounds string
	CriticTimeout       string
}

// Finalize applies defaults, environment overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()

	if env != nil {
		c.loadEnv(env)
	}

	return c.validate()
}

// Merge overlays non-zero values from the overlay config.
func (c *Config) Merge(overlay *Config) {
	if overlay == nil {
		return
	}

	if overlay.MaxInputSize != "" {
		c.MaxInputSize = overlay.MaxInputSize
	}
	if overlay.Quorum != 0 {
		c.Quorum = overlay.Quorum
	}
	if overlay.MaxConcurrentRounds != 0 {
		c.MaxConcurrentRounds = overlay.MaxConcurrentRounds
	}
	if overlay.CriticTimeout != "" {
		c.CriticTimeout = overlay.CriticTimeout
	}
}

// MaxInputBytes returns the parsed input size limit.
func (c *Config) MaxInputBytes() (int64, error) {
	return formatting.ParseBytes(c.MaxInputSize)
}

// CriticTimeoutDuration returns the parsed per-critic timeout.
func (c *Config) CriticTimeoutDuration() (time.Duration, error) {
	return time.ParseDuration(c.CriticTimeout)
}

func (c *Config) loadDefaults() {
	if c.MaxInputSize == "" {
		c.MaxInputSize = "64KB"
	}
	if c.MaxConcurrentRounds == 0 {
		c.MaxConcurrentRounds = 8
	}
	if c.CriticTimeout == "" {
		c.CriticTimeout = "10s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.MaxInputSize != "" {
		if v := os.Getenv(env.MaxInputSize); v != "" {
			c.MaxInputSize = v
		}
	}
	if env.Quorum != "" {
		if v := os.Getenv(env.Quorum); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Quorum = n
			}
		}
	}
	if env.MaxConcurrentRounds != "" {
		if v := os.Getenv(env.MaxConcurrentRounds); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxConcurrentRounds = n
			}
		}
	}
	if env.CriticTimeout != "" {
		if v := os.Getenv(env.CriticTimeout); v != "" {
			c.CriticTimeout = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := c.MaxInputBytes(); err != nil {
		return fmt.Errorf("invalid max_input_size: %w", err)
	}

	if c.Quorum < 0 {
		return fmt.Errorf("quorum cannot be negative: %d", c.Quorum)
	}

	if c.MaxConcurrentRounds < 1 {
		return fmt.Errorf("max_concurrent_rounds must be at least 1: %d", c.MaxConcurrentRounds)
	}

	if _, err := c.CriticTimeoutDuration(); err != nil {
		return fmt.Errorf("invalid critic_timeout: %w", err)
	}

	return nil
}
