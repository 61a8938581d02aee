// pkg/flier/stats.go
package flier

// Stats is a flier's capability set. Angles are in degrees.
type Stats struct {
	Health             float64
	MaxVelocity        float64
	MaxAngularVelocity float64 // degrees per second
	ForwardThrust      float64
	ManeuverThrust     float64
	RotationTorque     float64
	VelocityDamping    float64 // per-tick velocity multiplier while coasting, 0..1
}

// DefaultStats returns the stock barge tuning.
func DefaultStats() Stats {
	return Stats{
		Health:             100,
		MaxVelocity:        10,
		MaxAngularVelocity: 200,
		ForwardThrust:      8,
		ManeuverThrust:     3,
		RotationTorque:     500,
		VelocityDamping:    0.98,
	}
}
