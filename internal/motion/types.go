package motion

import "math"

// Settling tolerances. A body is at rest once velocity and displacement stay
// inside these bounds for DefaultRestTicks consecutive steps.
const (
	EpsVelocity      = 0.05
	EpsDisplacement  = 0.05
	DefaultRestTicks = 3
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Clamp limits the vector magnitude to max, preserving direction.
func (v Vec3) Clamp(max float64) Vec3 {
	n := v.Norm()
	if max <= 0 || n <= max {
		return v
	}
	return v.Scale(max / n)
}

// Body is the kinematic state of one simulated element. Position is the
// displacement from the element's resting origin in pixels; velocity is in
// pixels per second.
type Body struct {
	Position Vec3
	Velocity Vec3
	Scale    float64
	Rotation float64
	Active   bool

	restStreak int
}

func NewBody() Body {
	return Body{Scale: 1}
}

// ApplyForce adds an impulse to the body's velocity and re-enters it into
// simulation regardless of prior state.
func (b *Body) ApplyForce(v Vec3) {
	b.Velocity = b.Velocity.Add(v)
	b.Active = true
	b.restStreak = 0
}

// Activate marks the body live without disturbing its state.
func (b *Body) Activate() {
	b.Active = true
	b.restStreak = 0
}

// Reset returns the body to its defaults synchronously. No animation: the
// next snapshot already reads the zeroed state.
func (b *Body) Reset() {
	b.Position = Vec3{}
	b.Velocity = Vec3{}
	b.Scale = 1
	b.Rotation = 0
	b.Active = false
	b.restStreak = 0
}

// AtRest reports whether the body is inactive with settled velocity.
func (b *Body) AtRest() bool {
	return !b.Active && b.Velocity.Norm() < EpsVelocity
}
