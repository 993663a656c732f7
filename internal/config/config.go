package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/kinetic/internal/motion"
)

const (
	DefaultTargetFPS       = 60
	DefaultUpdateMs        = 1000
	DefaultStrength        = 0.3
	DefaultRadius          = 200.0
	DefaultMaxDisplacement = 10.0
)

type Config struct {
	TargetFPS     int           `yaml:"target_fps" validate:"gt=0,lte=240"`
	ReducedMotion bool          `yaml:"reduced_motion"`
	Force         ForceConfig   `yaml:"force"`
	Monitor       MonitorConfig `yaml:"monitor"`
}

type ForceConfig struct {
	Model           string  `yaml:"model" validate:"oneof=free spring magnetic attract repel"`
	Stiffness       float64 `yaml:"stiffness" validate:"gte=0"`
	DampingRatio    float64 `yaml:"damping_ratio" validate:"gte=0"`
	Mass            float64 `yaml:"mass" validate:"gte=0"`
	Strength        float64 `yaml:"strength" validate:"gte=0"`
	Radius          float64 `yaml:"radius" validate:"gte=0"`
	MaxDisplacement float64 `yaml:"max_displacement" validate:"gte=0"`
	AffectsScale    bool    `yaml:"affects_scale"`
	AffectsRotation bool    `yaml:"affects_rotation"`
	ScaleAmplitude  float64 `yaml:"scale_amplitude" validate:"gte=0"`
}

type MonitorConfig struct {
	UpdateIntervalMs int     `yaml:"update_interval_ms" validate:"gte=0"`
	LowThreshold     float64 `yaml:"low_threshold" validate:"gte=0"`
	HighThreshold    float64 `yaml:"high_threshold" validate:"gte=0"`
	MaxLevel         int     `yaml:"max_level" validate:"gte=0"`
	AutoOptimize     bool    `yaml:"auto_optimize"`
}

func DefaultConfig() *Config {
	return &Config{
		TargetFPS: DefaultTargetFPS,
		Force: ForceConfig{
			Model:           "magnetic",
			Stiffness:       motion.DefaultStiffness,
			DampingRatio:    motion.DefaultDampingRatio,
			Mass:            motion.DefaultMass,
			Strength:        DefaultStrength,
			Radius:          DefaultRadius,
			MaxDisplacement: DefaultMaxDisplacement,
		},
		Monitor: MonitorConfig{
			UpdateIntervalMs: DefaultUpdateMs,
			AutoOptimize:     true,
		},
	}
}

var validate = validator.New()

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ToForceModel builds the motion model from the force section. Construction
// re-checks the physics constraints (positive stiffness and mass), which are
// stricter than the schema's non-negativity.
func (c *Config) ToForceModel() (motion.ForceModel, error) {
	fc := c.Force
	var (
		m   motion.ForceModel
		err error
	)
	switch fc.Model {
	case "spring":
		m, err = motion.NewSpring(fc.Stiffness, fc.DampingRatio, fc.Mass)
	case "magnetic":
		m, err = motion.NewMagnetic(fc.Strength, fc.Radius, fc.MaxDisplacement)
	case "attract":
		m, err = motion.NewAttract(fc.Strength, fc.Radius)
	case "repel":
		m, err = motion.NewRepel(fc.Strength, fc.Radius)
	default:
		m = motion.Free()
	}
	if err != nil {
		return motion.ForceModel{}, err
	}
	m.AffectsScale = fc.AffectsScale
	m.AffectsRotation = fc.AffectsRotation
	m.ScaleAmplitude = fc.ScaleAmplitude
	return m, nil
}
