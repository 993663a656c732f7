package resolve

import (
	"strings"
	"time"

	"github.com/san-kum/kinetic/internal/capability"
)

// Complexity buckets, strictly ordered cheapest first.
type Complexity int

const (
	None Complexity = iota
	Minimal
	Basic
	Standard
	Enhanced
	Complex
)

func (c Complexity) String() string {
	switch c {
	case None:
		return "none"
	case Minimal:
		return "minimal"
	case Basic:
		return "basic"
	case Standard:
		return "standard"
	case Enhanced:
		return "enhanced"
	case Complex:
		return "complex"
	default:
		return "unknown"
	}
}

// Request describes one desired animation before adaptation.
type Request struct {
	Keyframes             string
	ReducedMotionFallback string
	LowCapabilityFallback string
	Complexity            Complexity
	Duration              time.Duration
	Easing                string
	Delay                 time.Duration
	Iterations            int
	Direction             string
	FillMode              string
	Properties            []string
	AdaptToCapabilities   bool
	ForceGPU              bool
	Essential             bool
}

// Resolved is the concrete animation the renderer should run. The zero value
// is the no-op animation.
type Resolved struct {
	Keyframes  string
	Complexity Complexity
	Duration   time.Duration
	Easing     string
	Delay      time.Duration
	Iterations int
	Direction  string
	FillMode   string
	Properties []string
	UseGPU     bool
	WillChange string
}

// NoOp reports whether the resolution suppressed the animation entirely.
func (r Resolved) NoOp() bool {
	return r.Keyframes == "" || r.Complexity == None
}

// Per-tier complexity ceiling. De-escalation only: the resolved bucket is
// min(requested, ceiling), then lowered once more per optimization level.
var tierCeiling = map[capability.Tier]Complexity{
	capability.TierUltra:   Complex,
	capability.TierHigh:    Enhanced,
	capability.TierMedium:  Standard,
	capability.TierLow:     Basic,
	capability.TierMinimal: Minimal,
}

// Per-tier duration factor. Weak devices get shorter animations so the
// element spends less time mid-flight.
func durationFactor(tier capability.Tier) float64 {
	switch tier {
	case capability.TierLow:
		return 0.8
	case capability.TierMinimal:
		return 0.6
	default:
		return 1.0
	}
}

// Resolve adapts req to the tier, the monitor's optimization level and the
// reduced-motion preference.
func Resolve(req Request, tier capability.Tier, optLevel int, reducedMotion bool) Resolved {
	if req.Complexity == None || req.Keyframes == "" {
		return Resolved{}
	}

	if reducedMotion {
		return resolveReduced(req, tier)
	}

	if !req.AdaptToCapabilities {
		tier = capability.TierUltra
		optLevel = 0
	}

	// Minimal devices run essential animations only.
	if tier == capability.TierMinimal && !req.Essential {
		return Resolved{}
	}

	c := req.Complexity
	if ceiling := tierCeiling[tier]; c > ceiling {
		c = ceiling
	}
	for i := 0; i < optLevel && c > Minimal; i++ {
		c--
	}

	keyframes := req.Keyframes
	if req.LowCapabilityFallback != "" && tier <= capability.TierLow {
		keyframes = req.LowCapabilityFallback
	}

	return Resolved{
		Keyframes:  keyframes,
		Complexity: c,
		Duration:   scaleDuration(req.Duration, tier, c),
		Easing:     req.Easing,
		Delay:      req.Delay,
		Iterations: req.Iterations,
		Direction:  req.Direction,
		FillMode:   req.FillMode,
		Properties: req.Properties,
		UseGPU:     useGPU(req, tier, c),
		WillChange: willChange(req, tier, c),
	}
}

// resolveReduced honors the accessibility preference regardless of tier or
// optimization level: fallback keyframes when supplied, minimal complexity.
func resolveReduced(req Request, tier capability.Tier) Resolved {
	keyframes := req.Keyframes
	if req.ReducedMotionFallback != "" {
		keyframes = req.ReducedMotionFallback
	}
	return Resolved{
		Keyframes:  keyframes,
		Complexity: Minimal,
		Duration:   scaleDuration(req.Duration, tier, Minimal),
		Easing:     req.Easing,
		Delay:      req.Delay,
		Iterations: req.Iterations,
		Direction:  req.Direction,
		FillMode:   req.FillMode,
		Properties: req.Properties,
	}
}

func scaleDuration(d time.Duration, tier capability.Tier, c Complexity) time.Duration {
	f := durationFactor(tier)
	if c >= Enhanced {
		f *= 0.9
	}
	return time.Duration(float64(d) * f)
}

func useGPU(req Request, tier capability.Tier, c Complexity) bool {
	if c <= Minimal {
		return false
	}
	if tier == capability.TierMinimal && !req.ForceGPU {
		return false
	}
	return hasTransformProperty(req.Properties)
}

// willChange picks the compositor hint: transform work gets promoted to its
// own layer, opacity-only animations repaint without one to avoid memory
// pressure on weak devices.
func willChange(req Request, tier capability.Tier, c Complexity) string {
	if !useGPU(req, tier, c) {
		return ""
	}
	return "transform"
}

func hasTransformProperty(props []string) bool {
	for _, p := range props {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "transform" || p == "perspective" ||
			strings.HasPrefix(p, "translate") ||
			strings.HasPrefix(p, "scale") ||
			strings.HasPrefix(p, "rotate") {
			return true
		}
	}
	return false
}
