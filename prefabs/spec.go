package prefabs

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidThresholds is returned when an agent's chase distance is
	// smaller than its aggression distance, or either is negative.
	ErrInvalidThresholds = errors.New("prefabs: chase distance must be >= aggression distance")
	ErrInvalidSettings   = errors.New("prefabs: invalid navigation settings")
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// NavSettings are the navigation tunables shared by every agent.
type NavSettings struct {
	GridWidth         int     `yaml:"grid_width"`
	GridHeight        int     `yaml:"grid_height"`
	StaggerPeriod     int     `yaml:"stagger_period"`
	RebuildCooldown   float64 `yaml:"rebuild_cooldown"`
	RebuildDistance   float64 `yaml:"rebuild_distance"`
	ArrivalTolerance  float64 `yaml:"arrival_tolerance"`
	PatrolDelay       float64 `yaml:"patrol_delay"`
	PatrolMinDistance float64 `yaml:"patrol_min_distance"`
	TickRate          int     `yaml:"tick_rate"`
}

// DefaultNavSettings mirrors navigation.yaml.
func DefaultNavSettings() NavSettings {
	return NavSettings{
		GridWidth:         100,
		GridHeight:        100,
		StaggerPeriod:     60,
		RebuildCooldown:   2,
		RebuildDistance:   3,
		ArrivalTolerance:  0.2,
		PatrolDelay:       3,
		PatrolMinDistance: 3,
		TickRate:          60,
	}
}

func (s NavSettings) Validate() error {
	switch {
	case s.GridWidth <= 0 || s.GridHeight <= 0:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidSettings, s.GridWidth, s.GridHeight)
	case s.StaggerPeriod <= 0:
		return fmt.Errorf("%w: stagger_period %d", ErrInvalidSettings, s.StaggerPeriod)
	case s.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate %d", ErrInvalidSettings, s.TickRate)
	case s.ArrivalTolerance < 0 || s.RebuildDistance < 0 || s.RebuildCooldown < 0:
		return fmt.Errorf("%w: negative tolerance, distance or cooldown", ErrInvalidSettings)
	case s.PatrolDelay < 0 || s.PatrolMinDistance < 0:
		return fmt.Errorf("%w: negative patrol delay or distance", ErrInvalidSettings)
	}
	return nil
}

// TickDelta is the length of one tick in seconds.
func (s NavSettings) TickDelta() float64 {
	if s.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(s.TickRate)
}

func LoadNavSettings() (NavSettings, error) {
	spec, err := LoadSpec[NavSettings]("navigation.yaml")
	if err != nil {
		return NavSettings{}, err
	}
	if err := spec.Validate(); err != nil {
		return NavSettings{}, fmt.Errorf("prefabs: navigation.yaml: %w", err)
	}
	return spec, nil
}

type Vec2Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type PatrolSpec struct {
	Min Vec2Spec `yaml:"min"`
	Max Vec2Spec `yaml:"max"`
}

// AgentSpec configures one kind of navigating agent.
type AgentSpec struct {
	Name               string     `yaml:"name"`
	MoveSpeed          float64    `yaml:"move_speed"`
	AggressionDistance float64    `yaml:"aggression_distance"`
	ChaseDistance      float64    `yaml:"chase_distance"`
	Radius             float64    `yaml:"radius"`
	Patrol             PatrolSpec `yaml:"patrol"`
}

func (s AgentSpec) Validate() error {
	if s.AggressionDistance < 0 || s.ChaseDistance < 0 || s.ChaseDistance < s.AggressionDistance {
		return fmt.Errorf("%w: %s aggression=%.2f chase=%.2f", ErrInvalidThresholds, s.Name, s.AggressionDistance, s.ChaseDistance)
	}
	return nil
}

// WithOverrides returns a copy of s with the fields present in raw replaced.
// Levels use it to tweak a prefab per placement.
func (s AgentSpec) WithOverrides(raw map[string]any) (AgentSpec, error) {
	if len(raw) == 0 {
		return s, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return s, fmt.Errorf("prefabs: marshal overrides for %s: %w", s.Name, err)
	}
	out := s
	if err := yaml.Unmarshal(b, &out); err != nil {
		return s, fmt.Errorf("prefabs: apply overrides for %s: %w", s.Name, err)
	}
	if err := out.Validate(); err != nil {
		return s, err
	}
	return out, nil
}

// LoadAgentSpec loads and validates an agent prefab such as "chaser.yaml".
func LoadAgentSpec(filename string) (AgentSpec, error) {
	spec, err := LoadSpec[AgentSpec](filename)
	if err != nil {
		return AgentSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return AgentSpec{}, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return spec, nil
}
