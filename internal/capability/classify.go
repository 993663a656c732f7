package capability

// Tier is the unified five-level capability scale. Ordered: higher values
// afford more animation complexity.
type Tier int

const (
	TierMinimal Tier = iota
	TierLow
	TierMedium
	TierHigh
	TierUltra
)

func (t Tier) String() string {
	switch t {
	case TierMinimal:
		return "minimal"
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	case TierUltra:
		return "ultra"
	default:
		return "unknown"
	}
}

// ParseTier maps a config string onto a Tier; unknown strings land on
// TierLow rather than erroring, keeping config handling total.
func ParseTier(s string) Tier {
	switch s {
	case "minimal":
		return TierMinimal
	case "low":
		return TierLow
	case "medium":
		return TierMedium
	case "high":
		return TierHigh
	case "ultra":
		return TierUltra
	default:
		return TierLow
	}
}

// Signals is one static snapshot of hardware capability. Zero values encode
// missing signals; there is no error path.
type Signals struct {
	Cores    int
	MemoryGB float64
	SaveData bool
	// Connection is the effective connection type when known
	// ("4g", "3g", "2g", "slow-2g") or empty.
	Connection string
}

// Classify derives the tier from static signals. Thresholds are evaluated in
// descending order, first match wins; absent signals read as zero and fall
// through to the bottom rows.
func Classify(s Signals) Tier {
	switch {
	case s.Cores >= 12 && s.MemoryGB >= 16:
		return TierUltra
	case s.Cores >= 8 && s.MemoryGB >= 8:
		return TierHigh
	case s.Cores >= 4 && s.MemoryGB >= 4:
		return TierMedium
	}

	// Secondary rule splitting the classifier's bottom bucket: genuinely
	// weak or data-constrained devices drop to minimal.
	if s.Cores < 2 || s.MemoryGB < 2 || s.SaveData || slowConnection(s.Connection) {
		return TierMinimal
	}
	return TierLow
}

func slowConnection(kind string) bool {
	return kind == "2g" || kind == "slow-2g"
}
