// pkg/engine/simulation.go
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-spacebarge/pkg/cruise"
	"github.com/opd-ai/go-spacebarge/pkg/flier"
	"github.com/opd-ai/go-spacebarge/pkg/fuel"
	"github.com/opd-ai/go-spacebarge/pkg/logging"
	"github.com/opd-ai/go-spacebarge/pkg/physics"
)

// Clock is the simulation time seen by the current tick.
type Clock struct {
	Delta float64
	Total float64
	Tick  uint64
}

// Advance moves the clock forward by one tick of deltaTime seconds.
func (c *Clock) Advance(deltaTime float64) {
	c.Delta = deltaTime
	c.Total += deltaTime
	c.Tick++
}

// SimulationOptions configures a Simulation
type SimulationOptions struct {
	MaxDeltaTime    float64 // per-tick cap, seconds
	WorldSize       float64 // side of the square bodies are confined to; 0 disables
	Obstacles       physics.ShapeCaster
	CollisionDamage float64 // health lost per second inside an obstacle
	Logger          *logging.Logger
}

// Simulation owns the ECS world and advances every registered system once
// per tick, in priority order.
type Simulation struct {
	mu     sync.RWMutex
	world  *ecs.World
	clock  Clock
	maxDt  float64
	logger *logging.Logger

	cruise    *CruiseSystem
	fliers    *FlierSystem
	fuel      *FuelSystem
	bodies    *BodySystem
	collision *CollisionSystem
}

// NewSimulation creates an empty simulation
func NewSimulation(opts SimulationOptions) *Simulation {
	if opts.MaxDeltaTime <= 0 {
		opts.MaxDeltaTime = 0.1
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	s := &Simulation{
		world:     &ecs.World{},
		maxDt:     opts.MaxDeltaTime,
		logger:    opts.Logger,
		cruise:    &CruiseSystem{},
		fliers:    &FlierSystem{},
		fuel:      &FuelSystem{},
		bodies:    &BodySystem{halfWorld: opts.WorldSize / 2},
		collision: &CollisionSystem{field: opts.Obstacles, damage: opts.CollisionDamage},
	}

	s.world.AddSystem(s.cruise)
	s.world.AddSystem(s.fliers)
	s.world.AddSystem(s.fuel)
	s.world.AddSystem(s.bodies)
	s.world.AddSystem(s.collision)

	return s
}

// AddSystem registers an extra system, such as a level controller.
func (s *Simulation) AddSystem(system ecs.System) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world.AddSystem(system)
}

// AddFlier registers a flier, its body and an optional autopilot. hullRadius
// is used for obstacle collisions.
func (s *Simulation) AddFlier(f *flier.Flier, body *physics.Body, autopilot *cruise.Control, hullRadius float64) ecs.BasicEntity {
	s.mu.Lock()
	defer s.mu.Unlock()

	basic := ecs.NewBasic()
	if autopilot != nil {
		s.cruise.Add(&basic, autopilot)
	}
	s.fliers.Add(&basic, f)
	s.bodies.Add(&basic, body)
	s.collision.Add(&basic, f, body, hullRadius)
	return basic
}

// AddTank registers a fuel tank.
func (s *Simulation) AddTank(tank *fuel.Tank) ecs.BasicEntity {
	s.mu.Lock()
	defer s.mu.Unlock()

	basic := ecs.NewBasic()
	s.fuel.Add(&basic, tank)
	return basic
}

// Remove drops an entity from every system.
func (s *Simulation) Remove(basic ecs.BasicEntity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world.RemoveEntity(basic)
}

// Tick advances the world by deltaTime seconds, capped at the maximum
// delta. Non-positive deltas are ignored.
func (s *Simulation) Tick(deltaTime float64) {
	if deltaTime <= 0 {
		return
	}
	if deltaTime > s.maxDt {
		deltaTime = s.maxDt
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clock.Advance(deltaTime)
	s.world.Update(float32(deltaTime))
}

// Clock returns the current simulation time.
func (s *Simulation) Clock() Clock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock
}

// Read runs fn while no tick is in progress.
func (s *Simulation) Read(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// Run ticks in real time at tickRate until ctx is cancelled, calling
// afterTick (if set) after every tick.
func (s *Simulation) Run(ctx context.Context, tickRate int, afterTick func(Clock)) error {
	if tickRate <= 0 {
		tickRate = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	s.logger.Info(ctx, "Simulation loop started", "tickRate", tickRate)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Simulation loop stopped", "ticks", s.Clock().Tick)
			return ctx.Err()
		case now := <-ticker.C:
			s.Tick(now.Sub(last).Seconds())
			last = now
			if afterTick != nil {
				afterTick(s.Clock())
			}
		}
	}
}
