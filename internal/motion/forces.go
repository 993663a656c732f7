package motion

// Default spring parameters for the proximity models (Magnetic, Attract,
// Repel), which relax toward their force-implied target through the same
// spring-damper as an explicit Spring model.
const (
	DefaultStiffness    = 120.0
	DefaultDampingRatio = 1.0
	DefaultMass         = 1.0
)

type ForceKind int

const (
	KindFree ForceKind = iota
	KindSpring
	KindMagnetic
	KindAttract
	KindRepel
)

func (k ForceKind) String() string {
	switch k {
	case KindSpring:
		return "spring"
	case KindMagnetic:
		return "magnetic"
	case KindAttract:
		return "attract"
	case KindRepel:
		return "repel"
	default:
		return "free"
	}
}

// ForceModel is a tagged variant: Kind selects the law, and only the fields
// relevant to that law are consulted. Every variant relaxes through the
// spring-damper parameters.
type ForceModel struct {
	Kind ForceKind

	Stiffness    float64
	DampingRatio float64
	Mass         float64

	Strength        float64
	Radius          float64
	MaxDisplacement float64

	AffectsRotation bool
	AffectsScale    bool
	ScaleAmplitude  float64
}

// Free returns the model with no pointer coupling: the body relaxes to the
// origin under the default spring.
func Free() ForceModel {
	return ForceModel{
		Kind:         KindFree,
		Stiffness:    DefaultStiffness,
		DampingRatio: DefaultDampingRatio,
		Mass:         DefaultMass,
	}
}

func NewSpring(stiffness, dampingRatio, mass float64) (ForceModel, error) {
	m := ForceModel{
		Kind:         KindSpring,
		Stiffness:    stiffness,
		DampingRatio: dampingRatio,
		Mass:         mass,
	}
	if err := m.Validate(); err != nil {
		return ForceModel{}, err
	}
	return m, nil
}

func NewMagnetic(strength, radius, maxDisplacement float64) (ForceModel, error) {
	m := ForceModel{
		Kind:            KindMagnetic,
		Stiffness:       DefaultStiffness,
		DampingRatio:    DefaultDampingRatio,
		Mass:            DefaultMass,
		Strength:        strength,
		Radius:          radius,
		MaxDisplacement: maxDisplacement,
	}
	if err := m.Validate(); err != nil {
		return ForceModel{}, err
	}
	return m, nil
}

func NewAttract(strength, radius float64) (ForceModel, error) {
	m := ForceModel{
		Kind:         KindAttract,
		Stiffness:    DefaultStiffness,
		DampingRatio: DefaultDampingRatio,
		Mass:         DefaultMass,
		Strength:     strength,
		Radius:       radius,
	}
	if err := m.Validate(); err != nil {
		return ForceModel{}, err
	}
	return m, nil
}

func NewRepel(strength, radius float64) (ForceModel, error) {
	m := ForceModel{
		Kind:         KindRepel,
		Stiffness:    DefaultStiffness,
		DampingRatio: DefaultDampingRatio,
		Mass:         DefaultMass,
		Strength:     strength,
		Radius:       radius,
	}
	if err := m.Validate(); err != nil {
		return ForceModel{}, err
	}
	return m, nil
}

// Validate rejects parameters that would make the acceleration undefined or
// the force law meaningless.
func (m ForceModel) Validate() error {
	if m.Stiffness <= 0 {
		return &ConfigurationError{Param: "stiffness", Value: m.Stiffness, Reason: "must be positive"}
	}
	if m.Mass <= 0 {
		return &ConfigurationError{Param: "mass", Value: m.Mass, Reason: "must be positive"}
	}
	if m.DampingRatio < 0 {
		return &ConfigurationError{Param: "dampingRatio", Value: m.DampingRatio, Reason: "must be non-negative"}
	}
	if m.Radius < 0 {
		return &ConfigurationError{Param: "radius", Value: m.Radius, Reason: "must be non-negative"}
	}
	if m.MaxDisplacement < 0 {
		return &ConfigurationError{Param: "maxDisplacement", Value: m.MaxDisplacement, Reason: "must be non-negative"}
	}
	return nil
}
