package workouts

type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

func IntensityTier(intensity int) Tier {
	switch {
	case intensity >= 8:
		return TierHigh
	case intensity >= 5:
		return TierMedium
	default:
		return TierLow
	}
}

// Color is the hex colour the tier is rendered with.
func (t Tier) Color() string {
	switch t {
	case TierHigh:
		return "#ef4444"
	case TierMedium:
		return "#f59e0b"
	default:
		return "#10b981"
	}
}
