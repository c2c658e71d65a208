package mirror

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/JaimeStill/tribunal/pkg/storage"
)

// Config selects and parameterizes the mirror driver.
type Config struct {
	Driver  string          `toml:"driver"`
	Timeout string          `toml:"timeout"`
	Storage *storage.Config `toml:"storage"`
	Webhook WebhookConfig   `toml:"webhook"`
}

// WebhookConfig holds webhook driver settings.
type WebhookConfig struct {
	URL    string `toml:"url"`
	Secret string `toml:"secret"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Driver        string
	Timeout       string
	WebhookURL    string
	WebhookSecret string
	Storage       *storage.Env
}

// Finalize applies defaults, environment variable overrides, and validation.
// The storage sub-config is only finalized when the blob driver is selected.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}

	if c.Driver == "blob" {
		if c.Storage == nil {
			c.Storage = &storage.Config{}
		}
		var storageEnv *storage.Env
		if env != nil {
			storageEnv = env.Storage
		}
		if err := c.Storage.Finalize(storageEnv); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	}

	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Driver != "" {
		c.Driver = overlay.Driver
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Storage != nil {
		if c.Storage == nil {
			c.Storage = &storage.Config{}
		}
		c.Storage.Merge(overlay.Storage)
	}
	if overlay.Webhook.URL != "" {
		c.Webhook.URL = overlay.Webhook.URL
	}
	if overlay.Webhook.Secret != "" {
		c.Webhook.Secret = overlay.Webhook.Secret
	}
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Build constructs the configured mirror system. The blob driver requires a
// started storage system, which the caller owns.
func (c *Config) Build(store storage.System, logger *slog.Logger) (System, error) {
	var driver Driver

	switch c.Driver {
	case "none", "":
		driver = Noop{}
	case "blob":
		if store == nil {
			return nil, fmt.Errorf("blob mirror requires storage configuration")
		}
		driver = NewBlob(store)
	case "webhook":
		driver = NewWebhook(c.Webhook.URL, c.Webhook.Secret)
	default:
		return nil, fmt.Errorf("unknown mirror driver %q", c.Driver)
	}

	return NewSystem(driver, c.TimeoutDuration(), logger), nil
}

func (c *Config) loadDefaults() {
	if c.Driver == "" {
		c.Driver = "none"
	}
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Driver != "" {
		if v := os.Getenv(env.Driver); v != "" {
			c.Driver = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.WebhookURL != "" {
		if v := os.Getenv(env.WebhookURL); v != "" {
			c.Webhook.URL = v
		}
	}
	if env.WebhookSecret != "" {
		if v := os.Getenv(env.WebhookSecret); v != "" {
			c.Webhook.Secret = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Driver {
	case "none", "blob", "webhook":
	default:
		return fmt.Errorf("unknown mirror driver %q", c.Driver)
	}

	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	if c.Driver == "webhook" && c.Webhook.URL == "" {
		return fmt.Errorf("webhook mirror requires url")
	}
	if c.Driver == "blob" && c.Storage == nil {
		return fmt.Errorf("blob mirror requires storage configuration")
	}

	return nil
}
