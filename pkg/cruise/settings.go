// pkg/cruise/settings.go
package cruise

import (
	"fmt"

	"github.com/opd-ai/go-spacebarge/pkg/physics"
)

// Bounds for the avoidance fan size.
const (
	MinRaysCount = 4
	MaxRaysCount = 24
)

// Settings tunes the autopilot. Distances are in world units, angles in
// degrees and intervals in seconds.
type Settings struct {
	MaxThrustDistance  float64           `json:"maxThrustDistance" yaml:"maxThrustDistance"`
	ReachPointDistance float64           `json:"reachPointDistance" yaml:"reachPointDistance"`
	MinimumThrust      float64           `json:"minimumThrust" yaml:"minimumThrust"`
	RaysCount          int               `json:"raysCount" yaml:"raysCount"`
	SpreadAngle        float64           `json:"spreadAngle" yaml:"spreadAngle"`
	CastDistance       float64           `json:"castDistance" yaml:"castDistance"`
	CastRadius         float64           `json:"castRadius" yaml:"castRadius"`
	ObstacleMask       physics.LayerMask `json:"obstacleMask" yaml:"obstacleMask"`
	CheckInterval      float64           `json:"checkInterval" yaml:"checkInterval"`
	CastDirOffset      float64           `json:"castDirOffset" yaml:"castDirOffset"`
}

// DefaultSettings returns the stock autopilot tuning.
func DefaultSettings() Settings {
	return Settings{
		MaxThrustDistance:  12.5,
		ReachPointDistance: 0.5,
		MinimumThrust:      0.2,
		RaysCount:          6,
		SpreadAngle:        60,
		CastDistance:       10,
		CastRadius:         1.4,
		ObstacleMask:       physics.AllLayers,
		CheckInterval:      1,
		CastDirOffset:      0,
	}
}

// Validate reports the first out-of-range setting.
func (s Settings) Validate() error {
	switch {
	case s.RaysCount < MinRaysCount || s.RaysCount > MaxRaysCount:
		return fmt.Errorf("raysCount %d outside [%d, %d]", s.RaysCount, MinRaysCount, MaxRaysCount)
	case s.MaxThrustDistance <= 0:
		return fmt.Errorf("maxThrustDistance must be positive, got %g", s.MaxThrustDistance)
	case s.ReachPointDistance <= 0:
		return fmt.Errorf("reachPointDistance must be positive, got %g", s.ReachPointDistance)
	case s.MinimumThrust < 0 || s.MinimumThrust > 1:
		return fmt.Errorf("minimumThrust %g outside [0, 1]", s.MinimumThrust)
	case s.SpreadAngle < 0 || s.SpreadAngle > 360:
		return fmt.Errorf("spreadAngle %g outside [0, 360]", s.SpreadAngle)
	case s.CastDistance <= 0:
		return fmt.Errorf("castDistance must be positive, got %g", s.CastDistance)
	case s.CastRadius < 0:
		return fmt.Errorf("castRadius must not be negative, got %g", s.CastRadius)
	case s.CheckInterval < 0:
		return fmt.Errorf("checkInterval must not be negative, got %g", s.CheckInterval)
	}
	return nil
}
