// pkg/flier/effect.go
package flier

import "math"

// EffectKind identifies a status effect. A flier holds at most one effect per kind.
type EffectKind string

// Built-in effect kinds.
const (
	KindSpeedBoost  EffectKind = "speed_boost"
	KindOverdrive   EffectKind = "overdrive"
	KindDrag        EffectKind = "drag"
	KindFuelStarved EffectKind = "fuel_starved"
)

// Effect is a timed modifier folded into a flier's effective stats every tick.
// Remaining counts down in seconds; an infinite Remaining never expires.
type Effect struct {
	Kind      EffectKind
	Remaining float64
	Modify    func(*Stats)
}

// Tick advances the timer and reports whether the effect has run out.
func (e *Effect) Tick(deltaTime float64) bool {
	e.Remaining -= deltaTime
	return e.Remaining <= 0
}

// Permanent reports whether the effect never expires on its own.
func (e Effect) Permanent() bool {
	return math.IsInf(e.Remaining, 1)
}

// SpeedBoost raises the velocity cap by factor.
func SpeedBoost(duration, factor float64) Effect {
	return Effect{
		Kind:      KindSpeedBoost,
		Remaining: duration,
		Modify: func(s *Stats) {
			s.MaxVelocity *= factor
		},
	}
}

// Overdrive multiplies forward and maneuver thrust.
func Overdrive(duration, factor float64) Effect {
	return Effect{
		Kind:      KindOverdrive,
		Remaining: duration,
		Modify: func(s *Stats) {
			s.ForwardThrust *= factor
			s.ManeuverThrust *= factor
		},
	}
}

// Drag replaces the coasting damping factor, e.g. inside a nebula.
func Drag(duration, damping float64) Effect {
	return Effect{
		Kind:      KindDrag,
		Remaining: duration,
		Modify: func(s *Stats) {
			s.VelocityDamping = damping
		},
	}
}

// FuelStarved cuts the velocity cap to a tenth until it is removed.
func FuelStarved() Effect {
	return Effect{
		Kind:      KindFuelStarved,
		Remaining: math.Inf(1),
		Modify: func(s *Stats) {
			s.MaxVelocity *= 0.1
		},
	}
}
