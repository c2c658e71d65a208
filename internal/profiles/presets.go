package profiles

// Core assessment dimensions evaluated by the default critic pool.
const (
	DimensionRights     = "rights"
	DimensionFairness   = "fairness"
	DimensionRisk       = "risk"
	DimensionTruth      = "truth"
	DimensionPragmatics = "pragmatics"
)

// CoreDimensions returns the five core assessment dimensions in canonical order.
func CoreDimensions() []string {
	return []string{
		DimensionRights,
		DimensionFairness,
		DimensionRisk,
		DimensionTruth,
		DimensionPragmatics,
	}
}

// defaultMitigations is the per-dimension mitigation action library. Presets
// and overlays may override the action text per profile.
var defaultMitigations = map[string]string{
	DimensionRights:     "escalate for human rights review before deployment",
	DimensionFairness:   "run a disparate impact assessment and document findings",
	DimensionRisk:       "require a documented risk acceptance from the system owner",
	DimensionTruth:      "verify factual claims against authoritative sources",
	DimensionPragmatics: "pilot with a limited cohort before general rollout",
}

// defaultThresholds are the mitigation thresholds of the default preset.
var defaultThresholds = map[string]float64{
	DimensionRights:     0.50,
	DimensionFairness:   0.60,
	DimensionRisk:       0.60,
	DimensionTruth:      0.70,
	DimensionPragmatics: 0.40,
}

// presetOverrides tightens individual dimension thresholds relative to the
// default preset.
var presetOverrides = map[string]map[string]float64{
	"euai": {
		DimensionRights: 0.60,
		DimensionRisk:   0.70,
		DimensionTruth:  0.75,
	},
	"nist-high": {
		DimensionFairness: 0.70,
		DimensionRisk:     0.75,
		DimensionTruth:    0.80,
	},
}

// Preset builds one of the named built-in profiles: "default", "euai", or
// "nist-high". Floors default to half the dimension threshold.
func Preset(name string) (Profile, error) {
	thresholds := make(map[string]float64, len(defaultThresholds))
	for dimension, threshold := range defaultThresholds {
		thresholds[dimension] = threshold
	}

	switch name {
	case "default":
	case "euai", "nist-high":
		for dimension, threshold := range presetOverrides[name] {
			thresholds[dimension] = threshold
		}
	default:
		return Profile{}, ErrUnknownPreset
	}

	policies := make(map[string]DimensionPolicy, len(thresholds))
	for dimension, threshold := range thresholds {
		policies[dimension] = DimensionPolicy{
			Threshold:  threshold,
			Floor:      threshold / 2,
			Mitigation: defaultMitigations[dimension],
		}
	}

	return New(name, CoreDimensions(), policies)
}

// Default returns the default preset. Panics only if the built-in preset
// table is invalid, which is a programming error.
func Default() Profile {
	profile, err := Preset("default")
	if err != nil {
		panic("profiles: invalid default preset: " + err.Error())
	}
	return profile
}
