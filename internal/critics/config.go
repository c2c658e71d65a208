package critics

import (
	"fmt"
	"os"
	"strings"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Config selects the critic backend and pool membership. Agent holds the
// go-agents configuration shared by all agent critics; it is only finalized
// and validated when the agent backend is selected.
type Config struct {
	Backend string               `toml:"backend"`
	Members []string             `toml:"members"`
	Agent   gaconfig.AgentConfig `toml:"agent"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Backend           string
	Members           string
	AgentProviderName string
	AgentBaseURL      string
	AgentToken        string
	AgentModelName    string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Members != nil {
		c.Members = overlay.Members
	}
	c.Agent.Merge(&overlay.Agent)
}

// Build constructs the configured critic pool.
func (c *Config) Build() (*Pool, error) {
	members := make([]Critic, 0, len(c.Members))

	for _, name := range c.Members {
		switch c.Backend {
		case BackendLexical:
			members = append(members, NewLexical(name))
		case BackendAgent:
			members = append(members, NewAgent(name, c.Agent))
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
		}
	}

	return NewPool(members...)
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendLexical
	}
	if len(c.Members) == 0 {
		c.Members = []string{"rights", "fairness", "risk", "truth", "pragmatics"}
	}

	if c.Backend == BackendAgent {
		defaults := gaconfig.DefaultAgentConfig()
		defaults.Merge(&c.Agent)
		c.Agent = defaults
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Backend != "" {
		if v := os.Getenv(env.Backend); v != "" {
			c.Backend = v
		}
	}
	if env.Members != "" {
		if v := os.Getenv(env.Members); v != "" {
			members := make([]string, 0)
			for _, part := range strings.Split(v, ",") {
				if trimmed := strings.TrimSpace(part); trimmed != "" {
					members = append(members, trimmed)
				}
			}
			if len(members) > 0 {
				c.Members = members
			}
		}
	}

	if c.Agent.Provider == nil {
		c.Agent.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Agent.Provider.Options == nil {
		c.Agent.Provider.Options = make(map[string]any)
	}
	if c.Agent.Model == nil {
		c.Agent.Model = &gaconfig.ModelConfig{}
	}

	if env.AgentProviderName != "" {
		if v := os.Getenv(env.AgentProviderName); v != "" {
			c.Agent.Provider.Name = v
		}
	}
	if env.AgentBaseURL != "" {
		if v := os.Getenv(env.AgentBaseURL); v != "" {
			c.Agent.Provider.BaseURL = v
		}
	}
	if env.AgentToken != "" {
		if v := os.Getenv(env.AgentToken); v != "" {
			c.Agent.Provider.Options["token"] = v
		}
	}
	if env.AgentModelName != "" {
		if v := os.Getenv(env.AgentModelName); v != "" {
			c.Agent.Model.Name = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendLexical, BackendAgent:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}

	if len(c.Members) == 0 {
		return fmt.Errorf("members required")
	}

	if c.Backend == BackendAgent {
		if c.Agent.Provider == nil || c.Agent.Provider.Name == "" {
			return fmt.Errorf("agent provider name required")
		}
		if c.Agent.Model == nil {
			return fmt.Errorf("agent model required")
		}
	}

	return nil
}
