package vis

import "math"

// ContributionTier is the discrete visual-emphasis class derived from an
// entity's share of total output.
type ContributionTier uint8

const (
	TierLow ContributionTier = iota
	TierMedium
	TierHigh
	TierVeryHigh
	TierMax
)

// String returns a human-readable tier name.
func (t ContributionTier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	case TierVeryHigh:
		return "veryHigh"
	case TierMax:
		return "max"
	default:
		return "unknown"
	}
}

// ContributionConfig holds the four ascending thresholds and the five
// tier colors. Injected, never hardcoded at call sites.
type ContributionConfig struct {
	Low      float64
	Medium   float64
	High     float64
	VeryHigh float64
	Colors   [5]string // indexed by ContributionTier
}

// DefaultContributionConfig returns thresholds and colors tuned for
// readability on a dark background.
func DefaultContributionConfig() ContributionConfig {
	return ContributionConfig{
		Low:      0.05,
		Medium:   0.15,
		High:     0.30,
		VeryHigh: 0.50,
		Colors: [5]string{
			"#7f8c8d", // low
			"#2ecc71", // medium
			"#3498db", // high
			"#9b59b6", // veryHigh
			"#f1c40f", // max
		},
	}
}

// Classify maps an entity's totalEffect to a tier given the simulation's
// current total output. Thresholds are checked highest first so a ratio
// sitting exactly on a boundary takes the higher tier. A zero or
// negative total output would make the ratio non-finite; that case
// clamps to the lowest tier instead of propagating NaN/Inf.
func (c ContributionConfig) Classify(totalEffect, totalOutput float64) ContributionTier {
	if totalOutput <= 0 {
		return TierLow
	}
	ratio := totalEffect / totalOutput
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return TierLow
	}

	switch {
	case ratio >= c.VeryHigh:
		return TierMax
	case ratio >= c.High:
		return TierVeryHigh
	case ratio >= c.Medium:
		return TierHigh
	case ratio >= c.Low:
		return TierMedium
	default:
		return TierLow
	}
}

// Color returns the configured color for a tier.
func (c ContributionConfig) Color(tier ContributionTier) string {
	return c.Colors[tier]
}
