package loot

type Tier int

const (
	TierCommon Tier = iota
	TierRare
	TierLegendary
)

// String returns the wire value stored in ledger records.
func (t Tier) String() string {
	switch t {
	case TierLegendary:
		return "legendary"
	case TierRare:
		return "rare"
	default:
		return "common"
	}
}

// ParseTier maps a stored status value to its Tier. Unknown or empty values
// fall back to common, matching what older records carry.
func ParseTier(s string) Tier {
	switch s {
	case "legendary":
		return TierLegendary
	case "rare":
		return TierRare
	default:
		return TierCommon
	}
}

// Classify buckets a plain drop rate into a tier. Boundary values belong to
// the lower tier: 0.1 exactly is common, 0.01 exactly is rare.
func Classify(x float64) Tier {
	switch {
	case x >= 0.1:
		return TierCommon
	case x >= 0.01:
		return TierRare
	default:
		return TierLegendary
	}
}

// TierColor returns the display color for a tier badge.
func TierColor(t Tier) string {
	switch t {
	case TierLegendary:
		return "#F1C40F" // gold
	case TierRare:
		return "#3498DB" // blue
	default:
		return "#95A5A6" // gray
	}
}
