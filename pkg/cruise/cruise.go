// pkg/cruise/cruise.go
package cruise

import (
	"context"
	"math"

	"github.com/opd-ai/go-spacebarge/pkg/event"
	"github.com/opd-ai/go-spacebarge/pkg/logging"
	"github.com/opd-ai/go-spacebarge/pkg/physics"
)

const (
	inputEpsilon      = 0.1
	destinationMargin = 0.5 // waypoint-to-destination distance that counts as "on target"
	alignedAngle      = 5.0 // degrees of nose error tolerated before full thrust
)

// Pilot is the input-state contract the autopilot drives. *flier.Flier satisfies it.
type Pilot interface {
	SetMoveInput(input physics.Vector2D)
	SetThrustPower(power float64)
	Position() physics.Vector3
	Forward() physics.Vector3
	HasLockTarget() bool
	AngleToMoveInput() float64
}

// Outcome records which branch produced the current waypoint.
type Outcome int

const (
	// None means no waypoint has been computed yet.
	None Outcome = iota
	// Direct targets the destination itself.
	Direct
	// Stepped advances one cast distance along a clear direct path.
	Stepped
	// FanClear picks the clear fan candidate nearest the destination.
	FanClear
	// Retreat backs off because every fan direction is blocked.
	Retreat
	// Push heads for the destination through the obstacle as a last resort.
	Push
)

func (o Outcome) String() string {
	switch o {
	case Direct:
		return "direct"
	case Stepped:
		return "stepped"
	case FanClear:
		return "fan_clear"
	case Retreat:
		return "retreat"
	case Push:
		return "push"
	default:
		return "none"
	}
}

// Control steers a pilot toward a destination, recomputing an intermediate
// waypoint around obstacles at most once per check interval.
type Control struct {
	id       uint64
	pilot    Pilot
	caster   physics.ShapeCaster
	settings Settings

	destination physics.Vector3
	waypoint    physics.Vector3
	moving      bool
	outcome     Outcome

	elapsed   float64
	nextCheck float64

	bus    *event.Bus
	logger *logging.Logger
}

// Option configures a Control at construction.
type Option func(*Control)

// WithEventBus publishes DestinationReached for the given flier id on bus.
func WithEventBus(bus *event.Bus, flierID uint64) Option {
	return func(c *Control) {
		c.bus = bus
		c.id = flierID
	}
}

// WithLogger sets the logger used for route changes.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Control) { c.logger = logger }
}

// New creates an idle autopilot for pilot. Settings are used as given;
// callers load them through config validation.
func New(pilot Pilot, caster physics.ShapeCaster, settings Settings, opts ...Option) *Control {
	c := &Control{
		pilot:    pilot,
		caster:   caster,
		settings: settings,
		waypoint: pilot.Position(),
		logger:   logging.Discard(),
	}
	c.destination = c.waypoint
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Update feeds the pilot one tick of steering toward the current waypoint.
func (c *Control) Update(deltaTime float64) {
	c.elapsed += deltaTime

	axis := c.inputAxis()
	if axis.Length() > inputEpsilon {
		c.pilot.SetMoveInput(axis)
		if c.moving {
			c.pilot.SetThrustPower(c.TargetThrust())
		} else {
			c.pilot.SetThrustPower(0)
		}
	}

	if c.waypoint.Distance(c.destination) > destinationMargin {
		c.recomputeOnInterval()
	}

	if c.moving && c.waypoint.Distance(c.destination) < destinationMargin &&
		c.inputAxis().Length() < c.settings.ReachPointDistance {
		c.onDestinationReached()
	}
}

// MoveToPoint sets a new destination and recomputes the waypoint at once,
// bypassing the check interval.
func (c *Control) MoveToPoint(destination physics.Vector3) {
	c.destination = destination
	c.recompute()
}

// Stop deactivates the autopilot. Inputs are left in place; the pilot's own
// damping bleeds the throttle.
func (c *Control) Stop() {
	c.moving = false
}

// TargetThrust is the throttle requested while moving: proportional to the
// remaining distance when aligned or locked on, otherwise the minimum so the
// pilot can straighten out first.
func (c *Control) TargetThrust() float64 {
	if c.pilot.HasLockTarget() || math.Abs(c.pilot.AngleToMoveInput()) < alignedAngle {
		return physics.Clamp(c.inputAxis().Length()/c.settings.MaxThrustDistance, c.settings.MinimumThrust, 1)
	}
	return c.settings.MinimumThrust
}

// DestinationObscured reports whether an obstacle overlaps the destination.
func (c *Control) DestinationObscured() bool {
	return c.caster.CheckSphere(c.destination, c.settings.CastRadius, c.settings.ObstacleMask)
}

func (c *Control) inputAxis() physics.Vector2D {
	return c.waypoint.Sub(c.pilot.Position()).Planar()
}

func (c *Control) recomputeOnInterval() {
	if !c.moving || c.nextCheck > c.elapsed {
		return
	}
	c.nextCheck = c.elapsed + c.settings.CheckInterval
	c.recompute()
}

func (c *Control) recompute() {
	c.moving = true
	position := c.pilot.Position()
	direct := c.destination.Sub(position)

	previous := c.outcome
	switch {
	case c.castBlocked(direct):
		c.waypoint, c.outcome = c.avoidObstacle()
	case direct.Length() < c.settings.CastDistance && !c.DestinationObscured():
		c.waypoint, c.outcome = position.Add(direct), Direct
	default:
		c.waypoint, c.outcome = c.stepToward(direct), Stepped
	}

	if c.outcome != previous {
		c.logger.Debug(context.Background(), "Autopilot route changed",
			"flierID", c.id,
			"outcome", c.outcome.String(),
			"waypoint", c.waypoint,
		)
	}
}

// avoidObstacle scans the forward fan for the clear candidate nearest the
// destination, then falls back to the point behind, then pushes on.
func (c *Control) avoidObstacle() (physics.Vector3, Outcome) {
	best := math.MaxFloat64
	var result physics.Vector3
	found := false

	for _, dir := range c.fanDirections() {
		if c.castBlocked(dir) {
			continue
		}
		candidate := c.stepToward(dir)
		if d := candidate.Distance(c.destination); d < best {
			best = d
			result = candidate
			found = true
		}
	}
	if found {
		return result, FanClear
	}

	behind := c.pilot.Forward().Neg()
	if !c.castBlocked(behind) {
		return c.stepToward(behind), Retreat
	}
	return c.stepToward(c.destination.Sub(c.pilot.Position())), Push
}

// fanDirections returns RaysCount horizontal directions spread across
// SpreadAngle, starting at the left edge of the fan relative to the nose.
func (c *Control) fanDirections() []physics.Vector3 {
	n := c.settings.RaysCount
	yaw := c.pilot.Forward().Yaw()
	step := c.settings.SpreadAngle / float64(n)
	dirs := make([]physics.Vector3, n)
	for i := range dirs {
		dirs[i] = physics.Direction(yaw - c.settings.SpreadAngle*0.5 + step*float64(i))
	}
	return dirs
}

func (c *Control) stepToward(dir physics.Vector3) physics.Vector3 {
	return c.pilot.Position().Add(dir.Normalize().Scale(c.settings.CastDistance))
}

func (c *Control) castBlocked(dir physics.Vector3) bool {
	origin := c.pilot.Position().Add(dir.Normalize().Scale(c.settings.CastDirOffset))
	ray := physics.Ray{Origin: origin, Direction: dir}
	_, hit := c.caster.SphereCast(ray, c.settings.CastRadius, c.settings.CastDistance, c.settings.ObstacleMask)
	return hit
}

func (c *Control) onDestinationReached() {
	c.moving = false
	c.logger.Info(context.Background(), "Destination reached",
		"flierID", c.id,
		"destination", c.destination,
	)
	if c.bus != nil {
		c.bus.Publish(event.NewFlierEvent(event.DestinationReached, c, c.id))
	}
}

// Destination returns the final point being flown to.
func (c *Control) Destination() physics.Vector3 { return c.destination }

// Waypoint returns the intermediate point currently steered at.
func (c *Control) Waypoint() physics.Vector3 { return c.waypoint }

// Moving reports whether the autopilot is active.
func (c *Control) Moving() bool { return c.moving }

// LastOutcome reports which branch produced the current waypoint.
func (c *Control) LastOutcome() Outcome { return c.outcome }

// Settings returns the tuning in use.
func (c *Control) Settings() Settings { return c.settings }
