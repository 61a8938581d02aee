// pkg/engine/simulation_test.go
package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-spacebarge/pkg/cruise"
	"github.com/opd-ai/go-spacebarge/pkg/flier"
	"github.com/opd-ai/go-spacebarge/pkg/physics"
)

func TestClockAdvance(t *testing.T) {
	var c Clock
	c.Advance(0.25)
	c.Advance(0.5)

	assert.Equal(t, 0.5, c.Delta)
	assert.InDelta(t, 0.75, c.Total, 1e-9)
	assert.Equal(t, uint64(2), c.Tick)
}

func TestSimulationTickDelta(t *testing.T) {
	tests := []struct {
		name      string
		deltas    []float64
		wantTicks uint64
		wantTotal float64
	}{
		{"zero ignored", []float64{0}, 0, 0},
		{"negative ignored", []float64{-1}, 0, 0},
		{"under cap", []float64{0.02, 0.03}, 2, 0.05},
		{"capped", []float64{5}, 1, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := NewSimulation(SimulationOptions{MaxDeltaTime: 0.05})
			for _, dt := range tt.deltas {
				sim.Tick(dt)
			}
			clock := sim.Clock()
			assert.Equal(t, tt.wantTicks, clock.Tick)
			assert.InDelta(t, tt.wantTotal, clock.Total, 1e-9)
		})
	}
}

func newPilotedFlier(sim *Simulation, position physics.Vector3) (*flier.Flier, *physics.Body, *cruise.Control) {
	body := physics.NewBody(position, 0, 1)
	f := flier.New(1, body, flier.DefaultStats())
	autopilot := cruise.New(f, physics.NewObstacleField(400), cruise.DefaultSettings())
	sim.AddFlier(f, body, autopilot, hullRadius)
	return f, body, autopilot
}

func TestSimulationSystemOrder(t *testing.T) {
	sim := NewSimulation(SimulationOptions{MaxDeltaTime: 0.1})
	f, body, autopilot := newPilotedFlier(sim, physics.Vector3{})

	autopilot.MoveToPoint(physics.Vector3{Z: 50})
	sim.Tick(0.05)

	// autopilot input, flier force and body integration all land in one tick
	assert.True(t, f.Thrusting())
	assert.Greater(t, body.Velocity().Z, 0.0)
	assert.Greater(t, body.Position().Z, 0.0)
	assert.Equal(t, physics.Vector3{}, body.PendingForce())
}

func TestSimulationRemove(t *testing.T) {
	sim := NewSimulation(SimulationOptions{MaxDeltaTime: 0.1})
	body := physics.NewBody(physics.Vector3{}, 0, 1)
	f := flier.New(1, body, flier.DefaultStats())
	basic := sim.AddFlier(f, body, nil, hullRadius)

	body.SetVelocity(physics.Vector3{X: 2})
	sim.Remove(basic)
	sim.Tick(0.1)

	assert.Equal(t, physics.Vector3{}, body.Position())
}

func TestBodySystemConfinesToWorld(t *testing.T) {
	sim := NewSimulation(SimulationOptions{MaxDeltaTime: 1, WorldSize: 100})
	body := physics.NewBody(physics.Vector3{X: 49, Z: -49}, 0, 1)
	f := flier.New(1, body, flier.DefaultStats())
	sim.AddFlier(f, body, nil, hullRadius)

	body.SetVelocity(physics.Vector3{X: 5, Z: -5})
	sim.Tick(1)

	assert.Equal(t, 50.0, body.Position().X)
	assert.Equal(t, -50.0, body.Position().Z)
	assert.Zero(t, body.Velocity().X)
	assert.Zero(t, body.Velocity().Z)
}

func TestCollisionSystemDamage(t *testing.T) {
	field := physics.NewObstacleField(400, physics.Sphere{Center: physics.Vector3{Z: 2}, Radius: 2, Layer: 1})

	tests := []struct {
		name       string
		position   physics.Vector3
		damage     float64
		wantHealth float64
	}{
		{"overlapping", physics.Vector3{}, 20, 90},
		{"clear of obstacle", physics.Vector3{X: 10}, 20, 100},
		{"damage disabled", physics.Vector3{}, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := NewSimulation(SimulationOptions{
				MaxDeltaTime:    0.1,
				Obstacles:       field,
				CollisionDamage: tt.damage,
			})
			body := physics.NewBody(tt.position, 0, 1)
			f := flier.New(1, body, flier.DefaultStats())
			sim.AddFlier(f, body, nil, hullRadius)

			for i := 0; i < 5; i++ {
				sim.Tick(0.1)
			}
			assert.InDelta(t, tt.wantHealth, f.Health(), 1e-6)
		})
	}
}

func TestSimulationRunStopsOnCancel(t *testing.T) {
	sim := NewSimulation(SimulationOptions{MaxDeltaTime: 0.1})
	ctx, cancel := context.WithCancel(context.Background())

	ticks := make(chan Clock, 100)
	done := make(chan error, 1)
	go func() {
		done <- sim.Run(ctx, 200, func(c Clock) {
			select {
			case ticks <- c:
			default:
			}
		})
	}()

	select {
	case c := <-ticks:
		assert.GreaterOrEqual(t, c.Tick, uint64(1))
	case <-time.After(2 * time.Second):
		t.Fatal("no tick within 2s")
	}

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
