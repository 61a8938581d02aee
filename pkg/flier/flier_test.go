package flier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-spacebarge/pkg/event"
	"github.com/opd-ai/go-spacebarge/pkg/physics"
)

type recordingThruster struct {
	calls []bool
}

func (r *recordingThruster) SetThrusting(on bool) { r.calls = append(r.calls, on) }

func newTestFlier(opts ...Option) (*Flier, *physics.Body) {
	body := physics.NewBody(physics.Vector3{}, 0, 1)
	return New(1, body, DefaultStats(), opts...), body
}

func countEvents(bus *event.Bus, t event.Type) *int {
	n := 0
	bus.Subscribe(t, func(event.Event) { n++ })
	return &n
}

func TestNew_EffectiveStatsEqualBaseline(t *testing.T) {
	f, body := newTestFlier()

	assert.Equal(t, f.BaselineStats(), f.Stats())
	assert.True(t, f.Alive())
	assert.True(t, f.Enabled())
	assert.Equal(t, body.Forward(), f.Heading())
}

func TestUpdate_ThrustPowerDecays(t *testing.T) {
	tests := []struct {
		name      string
		power     float64
		deltaTime float64
	}{
		{"full throttle short tick", 1, 0.016},
		{"full throttle long tick", 1, 0.4},
		{"half throttle", 0.5, 0.1},
		{"already idle", 0, 0.1},
		{"zero delta", 0.7, 0},
		{"overshoot clamps at zero", 0.3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newTestFlier()
			f.SetThrustPower(tt.power)

			f.Update(tt.deltaTime)

			expected := physics.Clamp01(tt.power - 2*tt.deltaTime)
			assert.InDelta(t, expected, f.ThrustPower(), 1e-12)
			assert.LessOrEqual(t, f.ThrustPower(), tt.power)
		})
	}
}

func TestSetThrustPower_Clamps(t *testing.T) {
	f, _ := newTestFlier()
	f.SetThrustPower(3)
	assert.Equal(t, 1.0, f.ThrustPower())
	f.SetThrustPower(-1)
	assert.Equal(t, 0.0, f.ThrustPower())
}

func TestSetMoveAndLookInput_MapToHorizontalPlane(t *testing.T) {
	f, _ := newTestFlier()

	f.SetMoveInput(physics.Vector2D{X: 1, Y: 2})
	f.SetLookInput(physics.Vector2D{X: -3, Y: 4})

	assert.Equal(t, physics.Vector3{X: 1, Z: 2}, f.MoveInput())
	assert.Equal(t, physics.Vector3{X: -3, Z: 4}, f.turnInput)
}

func TestUpdate_ThrustStraightAhead_AddsManeuverAndForwardForce(t *testing.T) {
	f, body := newTestFlier()
	f.SetMoveInput(physics.Vector2D{Y: 1})
	f.SetThrustPower(1)

	f.Update(0.01)

	stats := DefaultStats()
	assert.InDelta(t, stats.ManeuverThrust+stats.ForwardThrust, body.PendingForce().Z, 1e-9)
	assert.InDelta(t, 0, body.PendingTorque().Y, 1e-9, "already facing the input")
}

func TestUpdate_ThrustSideways_TurnsWithoutForwardForce(t *testing.T) {
	f, body := newTestFlier()
	f.SetMoveInput(physics.Vector2D{X: 1})
	f.SetThrustPower(1)

	f.Update(0.01)

	stats := DefaultStats()
	assert.InDelta(t, stats.ManeuverThrust, body.PendingForce().X, 1e-9)
	assert.InDelta(t, 0, body.PendingForce().Z, 1e-9, "input is outside the forward cone")
	assert.InDelta(t, stats.RotationTorque*physics.Deg2Rad, body.PendingTorque().Y, 1e-9)
}

func TestUpdate_TurnsLeftTowardsLeftInput(t *testing.T) {
	f, body := newTestFlier()
	f.SetLookInput(physics.Vector2D{X: -1, Y: 1})

	f.Update(0.01)

	expected := DefaultStats().RotationTorque * physics.Deg2Rad * -0.5
	assert.InDelta(t, expected, body.PendingTorque().Y, 1e-9)
	assert.Equal(t, physics.Vector3{}, body.PendingForce(), "look input alone does not thrust")
}

func TestUpdate_ClampsAngularVelocity(t *testing.T) {
	f, body := newTestFlier()
	body.SetAngularVelocity(physics.Vector3{X: 1, Y: 100})
	f.SetLookInput(physics.Vector2D{X: 1})

	f.Update(0.01)

	maxSpin := DefaultStats().MaxAngularVelocity * physics.Deg2Rad
	assert.InDelta(t, maxSpin, body.AngularVelocity().Y, 1e-9)
	assert.Zero(t, body.AngularVelocity().X)
	assert.Equal(t, physics.Vector3{}, body.PendingTorque(), "no torque while spinning at the cap")
}

func TestUpdate_NoIntent_NoRotation(t *testing.T) {
	f, body := newTestFlier()
	body.SetAngularVelocity(physics.Vector3{Y: 0.5})

	f.Update(0.01)

	assert.Equal(t, physics.Vector3{}, body.PendingTorque())
	assert.Equal(t, 0.5, body.AngularVelocity().Y, "angular velocity untouched without intent")
}

func TestUpdate_ClampsVelocityToCap(t *testing.T) {
	f, body := newTestFlier()
	body.SetVelocity(physics.Vector3{X: 30, Z: 40})
	f.SetMoveInput(physics.Vector2D{Y: 1})
	f.SetThrustPower(1)

	f.Update(0.01)

	assert.InDelta(t, DefaultStats().MaxVelocity, body.Velocity().Length(), 1e-9)
	assert.InDelta(t, 0.6, body.Velocity().Normalize().X, 1e-9, "direction preserved")
}

func TestUpdate_DampsVelocityWhileCoasting(t *testing.T) {
	f, body := newTestFlier()
	body.SetVelocity(physics.Vector3{Z: 5})

	f.Update(0.01)
	assert.InDelta(t, 5*0.98, body.Velocity().Z, 1e-9)

	f.SetThrustPower(1)
	f.Update(0.01)
	assert.InDelta(t, 5*0.98, body.Velocity().Z, 1e-9, "no damping above half throttle")
}

func TestUpdate_ThrusterCueFollowsThreshold(t *testing.T) {
	thruster := &recordingThruster{}
	f, _ := newTestFlier(WithThrusters(thruster))

	f.SetThrustPower(0.3)
	f.Update(0.01)
	require.Equal(t, []bool{true}, thruster.calls)
	assert.True(t, f.Thrusting())

	f.Update(0.01) // 0.28 -> 0.26, still on
	assert.Equal(t, []bool{true}, thruster.calls, "cue is edge triggered")

	f.Update(0.01) // cue evaluated at 0.26, then decays to 0.24
	f.Update(0.01) // evaluated at 0.24
	assert.Equal(t, []bool{true, false}, thruster.calls)
	assert.False(t, f.Thrusting())
}

func TestUpdate_HeadingPriority(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(f *Flier)
		expected physics.Vector3
	}{
		{
			name: "lock target wins",
			setup: func(f *Flier) {
				f.LockOn(PointTarget{X: 5})
				f.SetLookInput(physics.Vector2D{Y: 1})
				f.SetMoveInput(physics.Vector2D{Y: -1})
			},
			expected: physics.Vector3{X: 5},
		},
		{
			name: "look input beats move input",
			setup: func(f *Flier) {
				f.SetLookInput(physics.Vector2D{X: -2})
				f.SetMoveInput(physics.Vector2D{Y: -1})
			},
			expected: physics.Vector3{X: -1},
		},
		{
			name: "tiny look input ignored",
			setup: func(f *Flier) {
				f.SetLookInput(physics.Vector2D{X: 0.05})
				f.SetMoveInput(physics.Vector2D{Y: -3})
			},
			expected: physics.Vector3{Z: -1},
		},
		{
			name: "invalid lock target falls through",
			setup: func(f *Flier) {
				other, _ := newTestFlier()
				other.Destroy()
				f.LockOn(other)
				f.SetLookInput(physics.Vector2D{X: 1})
			},
			expected: physics.Vector3{X: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newTestFlier()
			tt.setup(f)

			f.Update(0.01)

			assert.Equal(t, tt.expected, f.Heading())
		})
	}
}

func TestLockOn_ClearLock(t *testing.T) {
	f, _ := newTestFlier()
	assert.False(t, f.HasLockTarget())

	f.LockOn(PointTarget{Z: 3})
	assert.True(t, f.HasLockTarget())

	f.ClearLock()
	assert.False(t, f.HasLockTarget())
}

func TestLockOn_NilFlierIsAbsent(t *testing.T) {
	f, _ := newTestFlier()
	f.SetMoveInput(physics.Vector2D{X: 1})

	f.LockOn((*Flier)(nil))
	assert.False(t, f.HasLockTarget())

	require.NotPanics(t, func() { f.Update(0.1) })
	assert.Equal(t, physics.Vector3{X: 1}, f.Heading())
}

func TestApplyDamage_ClampsHealth(t *testing.T) {
	tests := []struct {
		name     string
		deltas   []float64
		expected float64
	}{
		{"damage", []float64{30}, 70},
		{"heal is capped at baseline", []float64{30, -50}, 100},
		{"overkill floors at zero", []float64{150}, 0},
		{"heal after death ignored", []float64{150, -20}, 0},
		{"zero delta", []float64{0}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newTestFlier()
			for _, d := range tt.deltas {
				f.ApplyDamage(d)
			}
			assert.Equal(t, tt.expected, f.Health())
			assert.GreaterOrEqual(t, f.Health(), 0.0)
			assert.LessOrEqual(t, f.Health(), f.BaselineStats().Health)
		})
	}
}

func TestApplyDamage_DestroysExactlyOnce(t *testing.T) {
	bus := event.NewEventBus()
	destroyed := countEvents(bus, event.FlierDestroyed)
	f, _ := newTestFlier(WithNotifier(bus))

	f.ApplyDamage(60)
	assert.Equal(t, 0, *destroyed)

	f.ApplyDamage(60)
	assert.Equal(t, 1, *destroyed)
	assert.False(t, f.Alive())
	assert.False(t, f.Enabled())

	f.ApplyDamage(10)
	f.Destroy()
	assert.Equal(t, 1, *destroyed)
	assert.Equal(t, 0.0, f.Health())
}

func TestApplyDamage_ImmortalIgnored(t *testing.T) {
	f, _ := newTestFlier(WithImmortality())
	f.ApplyDamage(500)
	assert.Equal(t, 100.0, f.Health())
	assert.True(t, f.Immortal())

	f.SetImmortal(false)
	f.ApplyDamage(500)
	assert.Equal(t, 0.0, f.Health())
}

func TestRespawn_RestoresAfterDestroy(t *testing.T) {
	bus := event.NewEventBus()
	respawned := countEvents(bus, event.FlierRespawned)
	f, body := newTestFlier(WithNotifier(bus))
	body.SetTilt(30, 10)

	f.ApplyDamage(1000)
	f.Respawn()

	assert.Equal(t, f.BaselineStats().Health, f.Health())
	assert.True(t, f.Enabled())
	assert.Equal(t, 1, *respawned)
	pitch, roll := body.Tilt()
	assert.Zero(t, pitch)
	assert.Zero(t, roll)

	f.Respawn()
	assert.Equal(t, 1, *respawned, "respawn while alive is a no-op")
}

func TestRespawn_WhileAlive_NoOp(t *testing.T) {
	bus := event.NewEventBus()
	respawned := countEvents(bus, event.FlierRespawned)
	f, _ := newTestFlier(WithNotifier(bus))
	f.ApplyDamage(40)

	f.Respawn()

	assert.Equal(t, 60.0, f.Health())
	assert.Equal(t, 0, *respawned)
}

func TestUpdate_DisabledFlierDoesNothing(t *testing.T) {
	f, body := newTestFlier()
	f.Destroy()
	f.SetMoveInput(physics.Vector2D{Y: 1})
	f.SetThrustPower(1)
	body.SetVelocity(physics.Vector3{Z: 4})

	f.Update(0.1)

	assert.Equal(t, physics.Vector3{}, body.PendingForce())
	assert.Equal(t, 1.0, f.ThrustPower())
	assert.Equal(t, physics.Vector3{Z: 4}, body.Velocity())
	assert.False(t, f.Valid())
}

func TestEffects_ModifyAndExpire(t *testing.T) {
	f, _ := newTestFlier()

	f.AddEffect(SpeedBoost(1, 2))
	assert.Equal(t, 20.0, f.Stats().MaxVelocity)
	assert.True(t, f.HasEffect(KindSpeedBoost))

	f.Update(0.6)
	assert.True(t, f.HasEffect(KindSpeedBoost))
	assert.Equal(t, 20.0, f.Stats().MaxVelocity)

	f.Update(0.6)
	assert.False(t, f.HasEffect(KindSpeedBoost))
	assert.Equal(t, 10.0, f.Stats().MaxVelocity)
}

func TestEffects_SameKindReplaces(t *testing.T) {
	f, _ := newTestFlier()

	f.AddEffect(SpeedBoost(1, 2))
	f.AddEffect(SpeedBoost(5, 3))

	effects := f.Effects()
	require.Len(t, effects, 1)
	assert.Equal(t, 5.0, effects[0].Remaining)
	assert.Equal(t, 30.0, f.Stats().MaxVelocity)
}

func TestEffects_StackAcrossKinds(t *testing.T) {
	f, _ := newTestFlier()
	f.ApplyDamage(25)

	f.AddEffect(Overdrive(3, 2))
	f.AddEffect(Drag(3, 0.5))
	f.AddEffect(FuelStarved())

	stats := f.Stats()
	assert.Equal(t, 16.0, stats.ForwardThrust)
	assert.Equal(t, 6.0, stats.ManeuverThrust)
	assert.Equal(t, 0.5, stats.VelocityDamping)
	assert.InDelta(t, 1.0, stats.MaxVelocity, 1e-12)
	assert.Equal(t, 75.0, stats.Health, "health survives recomputation")

	effects := f.Effects()
	require.Len(t, effects, 3)
	assert.Equal(t, KindDrag, effects[0].Kind)
	assert.Equal(t, KindFuelStarved, effects[1].Kind)
	assert.Equal(t, KindOverdrive, effects[2].Kind)
}

func TestEffects_PermanentNeverExpires(t *testing.T) {
	f, _ := newTestFlier()
	f.AddEffect(FuelStarved())

	for i := 0; i < 10; i++ {
		f.Update(1000)
	}

	assert.True(t, f.HasEffect(KindFuelStarved))
	assert.True(t, f.Effects()[0].Permanent())
	assert.True(t, math.IsInf(f.Effects()[0].Remaining, 1))
}

func TestEffects_AllExpireSameTick(t *testing.T) {
	f, _ := newTestFlier()
	f.AddEffect(SpeedBoost(0.1, 2))
	f.AddEffect(Overdrive(0.1, 2))
	f.AddEffect(Drag(0.1, 0.5))

	f.Update(0.2)

	assert.Empty(t, f.Effects())
	assert.Equal(t, f.BaselineStats(), f.Stats())
}

func TestEffects_CannotChangeHealth(t *testing.T) {
	f, _ := newTestFlier()
	f.ApplyDamage(20)

	f.AddEffect(Effect{
		Kind:      KindOverdrive,
		Remaining: 10,
		Modify:    func(s *Stats) { s.Health *= 1.5 },
	})
	for i := 0; i < 5; i++ {
		f.Update(0.1)
	}

	assert.Equal(t, 80.0, f.Stats().Health)
	assert.LessOrEqual(t, f.Stats().Health, f.BaselineStats().Health)
}

func TestRemoveEffect(t *testing.T) {
	f, _ := newTestFlier()
	f.AddEffect(FuelStarved())

	f.RemoveEffect(KindFuelStarved)
	f.RemoveEffect(KindDrag)

	assert.False(t, f.HasEffect(KindFuelStarved))
	assert.Equal(t, 10.0, f.Stats().MaxVelocity)
}

func TestRemoveEffect_WhileTickingIsDeferred(t *testing.T) {
	f, _ := newTestFlier()
	f.AddEffect(SpeedBoost(5, 2))
	f.AddEffect(Drag(5, 0.5))

	f.tickingEffects = true
	f.RemoveEffect(KindDrag)
	assert.True(t, f.HasEffect(KindDrag), "removal waits for the timer pass")
	f.tickingEffects = false

	f.Update(0.1)
	assert.False(t, f.HasEffect(KindDrag))
	assert.True(t, f.HasEffect(KindSpeedBoost))
}

func TestAngleToMoveInput(t *testing.T) {
	f, _ := newTestFlier()

	f.SetMoveInput(physics.Vector2D{X: 1, Y: 1})
	assert.InDelta(t, -45, f.AngleToMoveInput(), 1e-9)

	f.SetMoveInput(physics.Vector2D{})
	assert.Equal(t, 0.0, f.AngleToMoveInput())
}
