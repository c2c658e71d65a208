package config

import (
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/tribunal/internal/critics"
	"github.com/JaimeStill/tribunal/internal/deliberation"
	"github.com/JaimeStill/tribunal/internal/mirror"
	"github.com/JaimeStill/tribunal/internal/precedents"
	"github.com/JaimeStill/tribunal/internal/profiles"
	"github.com/JaimeStill/tribunal/pkg/database"
	"github.com/JaimeStill/tribunal/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvTribunalEnv             = "TRIBUNAL_ENV"
	EnvTribunalShutdownTimeout = "TRIBUNAL_SHUTDOWN_TIMEOUT"
	EnvTribunalVersion         = "TRIBUNAL_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "TRIBUNAL_DB_HOST",
	Port:            "TRIBUNAL_DB_PORT",
	Name:            "TRIBUNAL_DB_NAME",
	User:            "TRIBUNAL_DB_USER",
	Password:        "TRIBUNAL_DB_PASSWORD",
	SSLMode:         "TRIBUNAL_DB_SSL_MODE",
	MaxOpenConns:    "TRIBUNAL_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "TRIBUNAL_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "TRIBUNAL_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "TRIBUNAL_DB_CONN_TIMEOUT",
}

var deliberationEnv = &deliberation.Env{
	MaxInputSize:        "TRIBUNAL_DELIBERATION_MAX_INPUT_SIZE",
	Quorum:              "TRIBUNAL_DELIBERATION_QUORUM",
	MaxConcurrentRounds: "TRIBUNAL_DELIBERATION_MAX_CONCURRENT_ROUNDS",
	CriticTimeout:       "TRIBUNAL_DELIBERATION_CRITIC_TIMEOUT",
}

var criticsEnv = &critics.Env{
	Backend:           "TRIBUNAL_CRITICS_BACKEND",
	Members:           "TRIBUNAL_CRITICS_MEMBERS",
	AgentProviderName: "TRIBUNAL_CRITICS_AGENT_PROVIDER",
	AgentBaseURL:      "TRIBUNAL_CRITICS_AGENT_BASE_URL",
	AgentToken:        "TRIBUNAL_CRITICS_AGENT_TOKEN",
	AgentModelName:    "TRIBUNAL_CRITICS_AGENT_MODEL",
}

var profilesEnv = &profiles.Env{
	Active:  "TRIBUNAL_PROFILES_ACTIVE",
	Overlay: "TRIBUNAL_PROFILES_OVERLAY",
}

var mirrorEnv = &mirror.Env{
	Driver:        "TRIBUNAL_MIRROR_DRIVER",
	Timeout:       "TRIBUNAL_MIRROR_TIMEOUT",
	WebhookURL:    "TRIBUNAL_MIRROR_WEBHOOK_URL",
	WebhookSecret: "TRIBUNAL_MIRROR_WEBHOOK_SECRET",
	Storage: &storage.Env{
		ContainerName:    "TRIBUNAL_MIRROR_STORAGE_CONTAINER_NAME",
		ConnectionString: "TRIBUNAL_MIRROR_STORAGE_CONNECTION_STRING",
	},
}

var fallbackEnv = &precedents.FallbackEnv{
	Enabled: "TRIBUNAL_FALLBACK_ENABLED",
	Path:    "TRIBUNAL_FALLBACK_PATH",
}

// Config is the root configuration for the Tribunal service.
type Config struct {
	Server          ServerConfig              `toml:"server"`
	Database        database.Config           `toml:"database"`
	API             APIConfig                 `toml:"api"`
	Deliberation    deliberation.Config       `toml:"deliberation"`
	Critics         critics.Config            `toml:"critics"`
	Profiles        profiles.Config           `toml:"profiles"`
	Mirror          mirror.Config             `toml:"mirror"`
	Fallback        precedents.FallbackConfig `toml:"fallback"`
	ShutdownTimeout string                    `toml:"shutdown_timeout"`
	Version         string                    `toml:"version"`
}

// Env returns the TRIBUNAL_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvTribunalEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.API.Merge(&overlay.API)
	c.Deliberation.Merge(&overlay.Deliberation)
	c.Critics.Merge(&overlay.Critics)
	c.Profiles.Merge(&overlay.Profiles)
	c.Mirror.Merge(&overlay.Mirror)
	c.Fallback.Merge(&overlay.Fallback)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Deliberation.Finalize(deliberationEnv); err != nil {
		return fmt.Errorf("deliberation: %w", err)
	}
	if err := c.Critics.Finalize(criticsEnv); err != nil {
		return fmt.Errorf("critics: %w", err)
	}
	if err := c.Profiles.Finalize(profilesEnv); err != nil {
		return fmt.Errorf("profiles: %w", err)
	}
	if err := c.Mirror.Finalize(mirrorEnv); err != nil {
		return fmt.Errorf("mirror: %w", err)
	}
	if err := c.Fallback.Finalize(fallbackEnv); err != nil {
		return fmt.Errorf("fallback: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvTribunalShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvTribunalVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvTribunalEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
