// Package profiles implements compliance profiles for Tribunal.
// A profile names the assessment dimensions a deliberation is judged on and
// the per-dimension mitigation threshold, reject floor, and mitigation action.
// Profiles are built once at startup from a preset merged with an optional
// TOML overlay and are immutable afterwards.
package profiles

import (
	"fmt"
	"slices"
)

// DimensionPolicy holds the compliance policy for a single assessment dimension.
// Scores at or above Threshold pass. Scores below Threshold but at or above
// Floor trigger the Mitigation action. Scores below Floor reject the input.
type DimensionPolicy struct {
	Threshold  float64 `json:"threshold"`
	Floor      float64 `json:"floor"`
	Mitigation string  `json:"mitigation"`
}

// Profile is an immutable, named set of dimension policies. Dimension order is
// fixed at construction and determines the order of mitigations and minima in
// aggregated decisions.
type Profile struct {
	name       string
	dimensions []string
	policies   map[string]DimensionPolicy
}

// New constructs a validated Profile. Dimensions must be non-empty and free of
// duplicates, every dimension must have a policy, and each policy must satisfy
// 0 <= floor <= threshold <= 1.
func New(name string, dimensions []string, policies map[string]DimensionPolicy) (Profile, error) {
	if name == "" {
		return Profile{}, fmt.Errorf("%w: profile name required", ErrInvalidPolicy)
	}
	if len(dimensions) == 0 {
		return Profile{}, fmt.Errorf("%w: profile %q has no dimensions", ErrInvalidPolicy, name)
	}

	ordered := slices.Clone(dimensions)
	owned := make(map[string]DimensionPolicy, len(ordered))

	for i, dimension := range ordered {
		if slices.Index(ordered, dimension) != i {
			return Profile{}, fmt.Errorf("%w: duplicate dimension %q", ErrInvalidPolicy, dimension)
		}

		policy, ok := policies[dimension]
		if !ok {
			return Profile{}, fmt.Errorf("%w: dimension %q has no policy", ErrInvalidPolicy, dimension)
		}
		if err := policy.validate(dimension); err != nil {
			return Profile{}, err
		}

		owned[dimension] = policy
	}

	return Profile{
		name:       name,
		dimensions: ordered,
		policies:   owned,
	}, nil
}

// Name returns the profile name.
func (p Profile) Name() string {
	return p.name
}

// Dimensions returns the assessment dimensions in declared order.
func (p Profile) Dimensions() []string {
	return slices.Clone(p.dimensions)
}

// Policy returns the policy for a dimension and whether the dimension exists.
func (p Profile) Policy(dimension string) (DimensionPolicy, bool) {
	policy, ok := p.policies[dimension]
	return policy, ok
}

func (p DimensionPolicy) validate(dimension string) error {
	if p.Threshold < 0 || p.Threshold > 1 {
		return fmt.Errorf("%w: dimension %q threshold %v outside [0,1]", ErrInvalidPolicy, dimension, p.Threshold)
	}
	if p.Floor < 0 || p.Floor > p.Threshold {
		return fmt.Errorf("%w: dimension %q floor %v outside [0, threshold %v]", ErrInvalidPolicy, dimension, p.Floor, p.Threshold)
	}
	return nil
}
