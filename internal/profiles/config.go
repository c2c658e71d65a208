package profiles

import (
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// Config selects the active preset and an optional overlay file.
type Config struct {
	Active  string `toml:"active"`
	Overlay string `toml:"overlay"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Active  string
	Overlay string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *Env) error {
	if c.Active == "" {
		c.Active = "default"
	}

	if env != nil {
		if env.Active != "" {
			if v := os.Getenv(env.Active); v != "" {
				c.Active = v
			}
		}
		if env.Overlay != "" {
			if v := os.Getenv(env.Overlay); v != "" {
				c.Overlay = v
			}
		}
	}

	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Active != "" {
		c.Active = overlay.Active
	}
	if overlay.Overlay != "" {
		c.Overlay = overlay.Overlay
	}
}

// Load builds the active profile: the named preset patched by the overlay
// file, when one is configured.
func (c *Config) Load() (Profile, error) {
	profile, err := Preset(c.Active)
	if err != nil {
		return Profile{}, fmt.Errorf("preset %q: %w", c.Active, err)
	}

	if c.Overlay == "" {
		return profile, nil
	}

	data, err := os.ReadFile(c.Overlay)
	if err != nil {
		return Profile{}, fmt.Errorf("read overlay %s: %w", c.Overlay, err)
	}

	var patch OverlayPatch
	if err := toml.Unmarshal(data, &patch); err != nil {
		return Profile{}, fmt.Errorf("parse overlay %s: %w", c.Overlay, err)
	}

	return ApplyOverlay(profile, patch)
}

// OverlayPatch is the TOML overlay document shape: an optional profile rename
// plus per-dimension policy patches. Unset fields keep the preset value;
// patching a threshold without a floor re-derives the floor as threshold/2.
type OverlayPatch struct {
	Name       string                 `toml:"name"`
	Dimensions map[string]PolicyPatch `toml:"dimensions"`
}

// PolicyPatch patches a single dimension policy. Nil fields are left alone.
type PolicyPatch struct {
	Threshold  *float64 `toml:"threshold"`
	Floor      *float64 `toml:"floor"`
	Mitigation *string  `toml:"mitigation"`
}

// ApplyOverlay returns a new Profile with the patch applied. Dimensions not
// present in the base profile are appended after the existing dimensions in
// lexical order. New dimensions must patch a threshold.
func ApplyOverlay(base Profile, patch OverlayPatch) (Profile, error) {
	name := base.name
	if patch.Name != "" {
		name = patch.Name
	}

	dimensions := base.Dimensions()
	policies := make(map[string]DimensionPolicy, len(dimensions))
	for _, dimension := range dimensions {
		policies[dimension] = base.policies[dimension]
	}

	added := make([]string, 0)
	for dimension := range patch.Dimensions {
		if _, ok := policies[dimension]; !ok {
			added = append(added, dimension)
		}
	}
	sort.Strings(added)
	dimensions = append(dimensions, added...)

	for dimension, policyPatch := range patch.Dimensions {
		current, exists := policies[dimension]

		if !exists && policyPatch.Threshold == nil {
			return Profile{}, fmt.Errorf("%w: new dimension %q requires a threshold", ErrInvalidPolicy, dimension)
		}

		next := current
		if policyPatch.Threshold != nil {
			next.Threshold = *policyPatch.Threshold
			if policyPatch.Floor == nil {
				next.Floor = next.Threshold / 2
			}
		}
		if policyPatch.Floor != nil {
			next.Floor = *policyPatch.Floor
		}
		if policyPatch.Mitigation != nil {
			next.Mitigation = *policyPatch.Mitigation
		} else if !exists {
			if action, ok := defaultMitigations[dimension]; ok {
				next.Mitigation = action
			} else {
				next.Mitigation = fmt.Sprintf("review %s concerns before deployment", dimension)
			}
		}

		policies[dimension] = next
	}

	return New(name, dimensions, policies)
}
