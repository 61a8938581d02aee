// pkg/flier/flier.go
package flier

import (
	"math"
	"sort"

	"github.com/opd-ai/go-spacebarge/pkg/event"
	"github.com/opd-ai/go-spacebarge/pkg/physics"
)

const (
	turnInputThreshold   = 0.1
	thrustInputThreshold = 0.01
	forwardThrustCone    = 30.0 // degrees either side of the nose
	thrusterCueThreshold = 0.25
	coastingThreshold    = 0.5
	thrustDecayRate      = 2.0 // thrust power lost per second
)

// Flier turns directional intents into forces and torques on a rigid body.
// Pilots (a human input layer or the cruise autopilot) only write its input
// fields; Update reads them once per tick.
type Flier struct {
	id       uint64
	body     physics.RigidBody
	baseline Stats
	stats    Stats

	thrustPower float64
	moveInput   physics.Vector3
	turnInput   physics.Vector3
	heading     physics.Vector3
	lockTarget  Target

	immortal  bool
	enabled   bool
	thrusting bool

	effects        map[EffectKind]*Effect
	pendingRemoval map[EffectKind]struct{}
	tickingEffects bool

	notifier  Notifier
	thrusters []Thruster
}

// Option configures a Flier at construction.
type Option func(*Flier)

// WithNotifier publishes destroyed/respawned events to n.
func WithNotifier(n Notifier) Option {
	return func(f *Flier) { f.notifier = n }
}

// WithThrusters attaches thrust cues switched by thrust power.
func WithThrusters(t ...Thruster) Option {
	return func(f *Flier) { f.thrusters = append(f.thrusters, t...) }
}

// WithImmortality makes the flier ignore damage.
func WithImmortality() Option {
	return func(f *Flier) { f.immortal = true }
}

// New creates an enabled flier whose effective stats start equal to baseline.
func New(id uint64, body physics.RigidBody, baseline Stats, opts ...Option) *Flier {
	f := &Flier{
		id:             id,
		body:           body,
		baseline:       baseline,
		stats:          baseline,
		heading:        body.Forward(),
		enabled:        true,
		effects:        make(map[EffectKind]*Effect),
		pendingRemoval: make(map[EffectKind]struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Update applies one tick of steering, thrust, damping and effect timers.
// A destroyed flier does nothing until Respawn.
func (f *Flier) Update(deltaTime float64) {
	if !f.enabled {
		return
	}

	f.recomputeStats()
	f.updateHeading()
	if f.wantsHeading() {
		f.rotateTowardsHeading()
	}
	if f.hasThrustInput() {
		f.thrustManeuver()
	}
	if f.isThrustingForward() {
		f.thrustForward()
	}
	f.updateThrusters()
	f.applyDamping(deltaTime)
	f.updateEffectTimers(deltaTime)
}

// updateHeading picks the heading by priority: lock target, look input, move input.
func (f *Flier) updateHeading() {
	switch {
	case f.HasLockTarget():
		f.heading = f.lockTarget.Position().Sub(f.body.Position())
	case f.turnInput.Length() > turnInputThreshold:
		f.heading = f.turnInput.Normalize()
	default:
		f.heading = f.moveInput.Normalize()
	}
}

func (f *Flier) wantsHeading() bool {
	return f.HasLockTarget() || f.turnInput.Length() > turnInputThreshold || f.hasThrustInput()
}

func (f *Flier) hasThrustInput() bool {
	return f.thrustPower > thrustInputThreshold && f.moveInput.Length() > thrustInputThreshold
}

func (f *Flier) isThrustingForward() bool {
	return math.Abs(f.AngleToMoveInput()) < forwardThrustCone && f.hasThrustInput()
}

// torqueToHeading maps the heading error to [-1, 1], saturating at ±90°.
func (f *Flier) torqueToHeading() float64 {
	angle := physics.SignedAngleXZ(f.body.Forward(), f.heading)
	return (physics.InverseLerp(90, -90, angle) - 0.5) * 2
}

func (f *Flier) rotateTowardsHeading() {
	maxSpin := f.stats.MaxAngularVelocity * physics.Deg2Rad
	if math.Abs(f.body.AngularVelocity().Y) < maxSpin {
		f.body.AddTorque(physics.Vector3{Y: f.stats.RotationTorque * physics.Deg2Rad * f.torqueToHeading()})
	}
	spin := f.body.AngularVelocity().Y
	f.body.SetAngularVelocity(physics.Vector3{Y: physics.Clamp(spin, -maxSpin, maxSpin)})
}

func (f *Flier) thrustManeuver() {
	f.body.AddForce(f.moveInput.Scale(f.stats.ManeuverThrust * f.thrustPower))
	f.clampVelocity()
}

func (f *Flier) thrustForward() {
	f.body.AddForce(f.body.Forward().Scale(f.stats.ForwardThrust * f.thrustPower))
	f.clampVelocity()
}

func (f *Flier) clampVelocity() {
	f.body.SetVelocity(f.body.Velocity().ClampLength(f.stats.MaxVelocity))
}

func (f *Flier) updateThrusters() {
	on := f.thrustPower >= thrusterCueThreshold
	if on == f.thrusting {
		return
	}
	f.thrusting = on
	for _, t := range f.thrusters {
		t.SetThrusting(on)
	}
}

// applyDamping decays the throttle and bleeds speed while coasting.
func (f *Flier) applyDamping(deltaTime float64) {
	f.thrustPower = physics.Clamp01(f.thrustPower - deltaTime*thrustDecayRate)
	if f.thrustPower <= coastingThreshold {
		f.body.SetVelocity(f.body.Velocity().Scale(f.stats.VelocityDamping))
	}
}

// recomputeStats rebuilds effective stats from the baseline and active effects.
// Health is state, not a derived value: it is carried over and effects cannot
// change it.
func (f *Flier) recomputeStats() {
	s := f.baseline
	for _, kind := range f.effectKinds() {
		if modify := f.effects[kind].Modify; modify != nil {
			modify(&s)
		}
	}
	s.Health = physics.Clamp(f.stats.Health, 0, f.baseline.Health)
	f.stats = s
}

func (f *Flier) effectKinds() []EffectKind {
	kinds := make([]EffectKind, 0, len(f.effects))
	for kind := range f.effects {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// updateEffectTimers ticks every effect, then drops the expired ones in a
// second pass so the map is never mutated while it is being ranged over.
func (f *Flier) updateEffectTimers(deltaTime float64) {
	if len(f.effects) == 0 {
		return
	}
	f.tickingEffects = true
	for kind, e := range f.effects {
		if e.Tick(deltaTime) {
			f.pendingRemoval[kind] = struct{}{}
		}
	}
	f.tickingEffects = false
	if len(f.pendingRemoval) == 0 {
		return
	}
	for kind := range f.pendingRemoval {
		delete(f.effects, kind)
	}
	clear(f.pendingRemoval)
	f.recomputeStats()
}

// AddEffect installs e, replacing any active effect of the same kind.
func (f *Flier) AddEffect(e Effect) {
	f.effects[e.Kind] = &e
	f.recomputeStats()
}

// RemoveEffect drops the effect of the given kind if present. While effect
// timers are ticking the removal is queued for the end of that pass.
func (f *Flier) RemoveEffect(kind EffectKind) {
	if _, ok := f.effects[kind]; !ok {
		return
	}
	if f.tickingEffects {
		f.pendingRemoval[kind] = struct{}{}
		return
	}
	delete(f.effects, kind)
	f.recomputeStats()
}

// HasEffect reports whether an effect of the given kind is active.
func (f *Flier) HasEffect(kind EffectKind) bool {
	_, ok := f.effects[kind]
	return ok
}

// Effects returns a snapshot of the active effects ordered by kind.
func (f *Flier) Effects() []Effect {
	out := make([]Effect, 0, len(f.effects))
	for _, kind := range f.effectKinds() {
		out = append(out, *f.effects[kind])
	}
	return out
}

// ApplyDamage subtracts amount from health; a negative amount heals. Health is
// clamped to [0, baseline]. Reaching zero destroys the flier exactly once.
func (f *Flier) ApplyDamage(amount float64) {
	if f.stats.Health == 0 || !f.enabled || f.immortal {
		return
	}
	f.stats.Health = physics.Clamp(f.stats.Health-amount, 0, f.baseline.Health)
	if f.stats.Health == 0 {
		f.Destroy()
	}
}

// Destroy disables the flier and notifies listeners. Destroying a disabled
// flier is a no-op.
func (f *Flier) Destroy() {
	if !f.enabled {
		return
	}
	f.stats.Health = 0
	f.enabled = false
	f.publish(event.FlierDestroyed)
}

// Respawn restores full health, uprights the body and re-enables ticking.
// It does nothing while the flier is alive.
func (f *Flier) Respawn() {
	if f.enabled && f.Alive() {
		return
	}
	f.stats.Health = f.baseline.Health
	f.body.ResetUpright()
	f.enabled = true
	f.publish(event.FlierRespawned)
}

func (f *Flier) publish(t event.Type) {
	if f.notifier != nil {
		f.notifier.Publish(event.NewFlierEvent(t, f, f.id))
	}
}

// SetMoveInput implements DirectionInputHandler.
func (f *Flier) SetMoveInput(input physics.Vector2D) {
	f.moveInput = physics.FromPlanar(input)
}

// SetLookInput implements DirectionInputHandler.
func (f *Flier) SetLookInput(input physics.Vector2D) {
	f.turnInput = physics.FromPlanar(input)
}

// SetThrustPower sets the throttle, clamped to [0, 1].
func (f *Flier) SetThrustPower(power float64) {
	f.thrustPower = physics.Clamp01(power)
}

// ThrustPower returns the current throttle.
func (f *Flier) ThrustPower() float64 { return f.thrustPower }

// LockOn keeps the nose pointed at t until cleared or t becomes invalid.
func (f *Flier) LockOn(t Target) { f.lockTarget = t }

// ClearLock drops the lock target.
func (f *Flier) ClearLock() { f.lockTarget = nil }

// HasLockTarget reports whether a valid lock target is set.
func (f *Flier) HasLockTarget() bool {
	return f.lockTarget != nil && f.lockTarget.Valid()
}

// AngleToMoveInput is the signed angle in degrees from the nose to the move input.
func (f *Flier) AngleToMoveInput() float64 {
	return physics.SignedAngleXZ(f.body.Forward(), f.moveInput)
}

// SetImmortal toggles damage immunity.
func (f *Flier) SetImmortal(immortal bool) { f.immortal = immortal }

// Immortal reports whether damage is ignored.
func (f *Flier) Immortal() bool { return f.immortal }

// ID returns the flier's identifier.
func (f *Flier) ID() uint64 { return f.id }

// Body returns the rigid body the flier drives.
func (f *Flier) Body() physics.RigidBody { return f.body }

// Alive reports whether health is above zero.
func (f *Flier) Alive() bool { return f.stats.Health > 0 }

// Enabled reports whether the flier is ticking.
func (f *Flier) Enabled() bool { return f.enabled }

// Valid implements Target: a destroyed or nil flier is not worth locking onto.
func (f *Flier) Valid() bool { return f != nil && f.enabled }

// Stats returns the effective stats.
func (f *Flier) Stats() Stats { return f.stats }

// BaselineStats returns the authored stats.
func (f *Flier) BaselineStats() Stats { return f.baseline }

// Health returns current health.
func (f *Flier) Health() float64 { return f.stats.Health }

// Position returns the body position.
func (f *Flier) Position() physics.Vector3 { return f.body.Position() }

// Forward returns the body's facing.
func (f *Flier) Forward() physics.Vector3 { return f.body.Forward() }

// Heading returns the direction the flier is turning towards.
func (f *Flier) Heading() physics.Vector3 { return f.heading }

// MoveInput returns the last move input in world space.
func (f *Flier) MoveInput() physics.Vector3 { return f.moveInput }

// LookInput returns the last look input in world space.
func (f *Flier) LookInput() physics.Vector3 { return f.turnInput }

// Thrusting reports whether the thrust cue is on.
func (f *Flier) Thrusting() bool { return f.thrusting }
