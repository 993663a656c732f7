package motion

import "math"

// MaxTiltDeg bounds the rotation derived from horizontal displacement when
// AffectsRotation is set, before ScaleAmplitude scaling.
const MaxTiltDeg = 12.0

// Target computes the force-implied rest offset for the body under model m
// with the pointer at the given offset from the element origin.
//
// For Free and Spring the target is the origin. The proximity models pull
// toward (Repel: away from) the pointer with magnitude
// strength*clamp(1-d/r, 0, 1); Magnetic additionally caps the target at
// MaxDisplacement.
func Target(m ForceModel, pointer Vec3) Vec3 {
	switch m.Kind {
	case KindMagnetic, KindAttract, KindRepel:
	default:
		return Vec3{}
	}

	d := pointer.Norm()
	if m.Radius <= 0 || d >= m.Radius {
		return Vec3{}
	}
	falloff := 1 - d/m.Radius
	target := pointer.Scale(m.Strength * falloff)
	if m.Kind == KindRepel {
		target = target.Scale(-1)
	}
	if m.Kind == KindMagnetic {
		target = target.Clamp(m.MaxDisplacement)
	}
	return target
}

// Step advances the body by one semi-implicit Euler step of length dt
// seconds. It returns true exactly once per rest transition: the tick on
// which the body passed the settle test and was deactivated.
//
// Inactive bodies are left untouched.
func Step(b *Body, m ForceModel, pointer Vec3, dt float64) (bool, error) {
	if err := m.Validate(); err != nil {
		return false, err
	}
	if !b.Active || dt <= 0 {
		return false, nil
	}

	target := Target(m, pointer)
	disp := b.Position.Sub(target)

	// a = (-k*x - c*v)/m with c = 2ζ√(km); velocity first, then position.
	damping := 2 * m.DampingRatio * math.Sqrt(m.Stiffness*m.Mass)
	accel := disp.Scale(-m.Stiffness).Sub(b.Velocity.Scale(damping)).Scale(1 / m.Mass)

	b.Velocity = b.Velocity.Add(accel.Scale(dt))
	b.Position = b.Position.Add(b.Velocity.Scale(dt))

	if !b.Position.IsValid() || !b.Velocity.IsValid() {
		b.Reset()
		return false, ErrInvalidState
	}

	deriveSecondary(b, m)

	if b.Velocity.Norm() < EpsVelocity && b.Position.Sub(target).Norm() < EpsDisplacement {
		b.restStreak++
	} else {
		b.restStreak = 0
	}
	if b.restStreak >= DefaultRestTicks {
		b.Active = false
		b.Velocity = Vec3{}
		b.restStreak = 0
		return true, nil
	}
	return false, nil
}

// deriveSecondary maps displacement magnitude onto scale and rotation when
// the model opts in. Displacement is normalized by the model's reach so the
// amplitude is unitless.
func deriveSecondary(b *Body, m ForceModel) {
	if !m.AffectsScale && !m.AffectsRotation {
		return
	}
	ref := m.MaxDisplacement
	if ref <= 0 {
		ref = m.Radius
	}
	if ref <= 0 {
		ref = 1
	}
	if m.AffectsScale {
		b.Scale = 1 + m.ScaleAmplitude*math.Min(b.Position.Norm()/ref, 1)
	}
	if m.AffectsRotation {
		tilt := b.Position.X / ref
		b.Rotation = math.Max(-1, math.Min(1, tilt)) * MaxTiltDeg * m.ScaleAmplitude
	}
}
