// pkg/engine/level.go
package engine

import (
	"context"
	"fmt"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-spacebarge/pkg/config"
	"github.com/opd-ai/go-spacebarge/pkg/cruise"
	"github.com/opd-ai/go-spacebarge/pkg/event"
	"github.com/opd-ai/go-spacebarge/pkg/flier"
	"github.com/opd-ai/go-spacebarge/pkg/fuel"
	"github.com/opd-ai/go-spacebarge/pkg/logging"
	"github.com/opd-ai/go-spacebarge/pkg/physics"
	"github.com/opd-ai/go-spacebarge/pkg/player"
	"github.com/opd-ai/go-spacebarge/pkg/reward"
)

// PlayerID is the flier id of the player's barge; enemies count up from 1.
const PlayerID uint64 = 0

// hullRadius is the collision radius of every flier.
const hullRadius = 1.0

// Actor is one flier in the level with its body, autopilot and patrol route.
type Actor struct {
	Name      string
	Flier     *flier.Flier
	Body      *physics.Body
	Autopilot *cruise.Control
	Patrol    []physics.Vector3

	spawn      config.SpawnConfig
	nextPoint  int
	respawnAt  float64
	awaitSpawn bool
}

// Level builds fliers, autopilots, rewards and the fuel tank from config
// and restarts them on Init.
type Level struct {
	cfg    *config.GameConfig
	sim    *Simulation
	bus    *event.Bus
	logger *logging.Logger
	runID  string

	stats   *player.Stats
	field   *physics.ObstacleField
	tank    *fuel.Tank
	player  *Actor
	enemies []*Actor
	rewards []*reward.DestroyReward
	actors  map[uint64]*Actor
}

// NewLevel validates cfg and assembles the level into a fresh simulation
func NewLevel(cfg *config.GameConfig, bus *event.Bus, logger *logging.Logger) (*Level, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid level config: %w", err)
	}
	if bus == nil {
		bus = event.NewEventBus()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	runID := logging.GenerateCorrelationID()
	l := &Level{
		cfg:    cfg,
		bus:    bus,
		logger: logger.With("runID", runID),
		runID:  runID,
		stats:  player.NewStats(cfg.Player.StartingCanisters),
		field:  physics.NewObstacleField(cfg.WorldSize, cfg.ObstacleSpheres()...),
		actors: make(map[uint64]*Actor),
	}
	l.sim = NewSimulation(SimulationOptions{
		MaxDeltaTime:    cfg.Simulation.MaxDeltaTime,
		WorldSize:       cfg.WorldSize,
		Obstacles:       l.field,
		CollisionDamage: cfg.Simulation.CollisionDamage,
		Logger:          l.logger,
	})

	l.buildPlayer()
	for i, e := range cfg.Enemies {
		l.buildEnemy(uint64(i+1), e)
	}

	l.bus.Subscribe(event.DestinationReached, l.handleDestinationReached)
	l.bus.Subscribe(event.FlierDestroyed, l.handleFlierDestroyed)
	l.sim.AddSystem(l)

	return l, nil
}

func (l *Level) newActor(id uint64, name string, spawn config.SpawnConfig, immortal bool) *Actor {
	opts := []flier.Option{flier.WithNotifier(l.bus)}
	if immortal {
		opts = append(opts, flier.WithImmortality())
	}
	body := physics.NewBody(spawn.Position.Vector(), spawn.Yaw, l.cfg.Flier.Mass)
	f := flier.New(id, body, l.cfg.FlierStats(), opts...)
	autopilot := cruise.New(f, l.field, l.cfg.Cruise,
		cruise.WithEventBus(l.bus, id),
		cruise.WithLogger(l.logger.ForFlier(id, name)),
	)

	a := &Actor{
		Name:      name,
		Flier:     f,
		Body:      body,
		Autopilot: autopilot,
		spawn:     spawn,
	}
	l.sim.AddFlier(f, body, autopilot, hullRadius)
	l.actors[id] = a
	return a
}

func (l *Level) buildPlayer() {
	l.player = l.newActor(PlayerID, "Player", l.cfg.PlayerSpawn, l.cfg.Player.Immortal)
	l.tank = fuel.NewTank(l.cfg.Fuel.Capacity, l.cfg.Fuel.DrainRate, l.stats, fuel.WithEventBus(l.bus))
	l.sim.AddTank(l.tank)
}

func (l *Level) buildEnemy(id uint64, cfg config.EnemyConfig) {
	a := l.newActor(id, cfg.Name, cfg.Spawn, false)
	for _, p := range cfg.Patrol {
		a.Patrol = append(a.Patrol, p.Vector())
	}
	l.enemies = append(l.enemies, a)

	r := reward.New(l.cfg.Reward.DestroyAmount)
	r.Attach(l.bus, id, l.stats)
	l.rewards = append(l.rewards, r)
}

// Init resets score and canisters, binds the fuel tank to the player,
// respawns every flier at its spawn point and restarts enemy patrols.
func (l *Level) Init() {
	l.sim.mu.Lock()
	l.stats.Reset(l.cfg.Player.StartingCanisters)
	l.tank.Bind(l.player.Flier)
	l.tank.Reset()

	l.respawn(l.player)
	l.player.Autopilot.Stop()
	for _, e := range l.enemies {
		l.respawn(e)
		e.nextPoint = 0
		l.patrol(e)
	}
	l.sim.mu.Unlock()

	l.logger.Info(context.Background(), "Level started",
		"enemies", len(l.enemies),
		"obstacles", len(l.cfg.Obstacles),
	)
	l.bus.Publish(&event.BaseEvent{EventType: event.LevelStarted, Source: l})
}

// Reset restarts the level; it is the same as Init.
func (l *Level) Reset() {
	l.Init()
}

// respawn puts the actor back at its spawn point with full health.
func (l *Level) respawn(a *Actor) {
	a.Body.SetPosition(a.spawn.Position.Vector())
	a.Body.SetYaw(a.spawn.Yaw)
	a.Body.SetVelocity(physics.Vector3{})
	a.Body.SetAngularVelocity(physics.Vector3{})
	a.Flier.SetThrustPower(0)
	a.Flier.SetMoveInput(physics.Vector2D{})
	a.Flier.SetLookInput(physics.Vector2D{})
	a.Flier.ApplyDamage(-a.Flier.BaselineStats().Health)
	a.Flier.Respawn()
	a.awaitSpawn = false
}

func (l *Level) patrol(a *Actor) {
	if len(a.Patrol) == 0 {
		return
	}
	a.Autopilot.MoveToPoint(a.Patrol[a.nextPoint])
}

func (l *Level) handleDestinationReached(e event.Event) {
	fe, ok := e.(*event.FlierEvent)
	if !ok || fe.FlierID == PlayerID {
		return
	}
	a, ok := l.actors[fe.FlierID]
	if !ok || len(a.Patrol) == 0 {
		return
	}
	a.nextPoint = (a.nextPoint + 1) % len(a.Patrol)
	l.patrol(a)
}

func (l *Level) handleFlierDestroyed(e event.Event) {
	fe, ok := e.(*event.FlierEvent)
	if !ok {
		return
	}
	a, ok := l.actors[fe.FlierID]
	if !ok {
		return
	}
	a.Autopilot.Stop()
	l.logger.Info(context.Background(), "Flier destroyed", "flierID", fe.FlierID, "name", a.Name)
	if fe.FlierID == PlayerID {
		return
	}
	a.awaitSpawn = true
	a.respawnAt = l.sim.clock.Total + l.cfg.Simulation.RespawnDelay
}

// Update satisfies the ecs.System interface; it brings destroyed enemies
// back once their respawn delay has passed.
func (l *Level) Update(dt float32) {
	now := l.sim.clock.Total
	for _, e := range l.enemies {
		if !e.awaitSpawn || now < e.respawnAt {
			continue
		}
		l.respawn(e)
		l.patrol(e)
		l.logger.Debug(context.Background(), "Enemy respawned", "flierID", e.Flier.ID(), "name", e.Name)
	}
}

// Remove satisfies the ecs.System interface
func (l *Level) Remove(ecs.BasicEntity) {}

// Priority satisfies the ecs.Prioritizer interface
func (l *Level) Priority() int { return priorityLevel }

// Tick advances the level by deltaTime seconds.
func (l *Level) Tick(deltaTime float64) {
	l.sim.Tick(deltaTime)
}

// MovePlayerTo engages the player's autopilot toward destination.
func (l *Level) MovePlayerTo(destination physics.Vector3) {
	l.sim.mu.Lock()
	defer l.sim.mu.Unlock()
	l.player.Autopilot.MoveToPoint(destination)
}

// StopPlayer disengages the player's autopilot.
func (l *Level) StopPlayer() {
	l.sim.mu.Lock()
	defer l.sim.mu.Unlock()
	l.player.Autopilot.Stop()
}

// PlayerAlive reports whether the player's barge is intact.
func (l *Level) PlayerAlive() bool {
	var alive bool
	l.sim.Read(func() { alive = l.player.Flier.Alive() })
	return alive
}

// Simulation returns the underlying simulation.
func (l *Level) Simulation() *Simulation { return l.sim }

// Bus returns the level's event bus.
func (l *Level) Bus() *event.Bus { return l.bus }

// Stats returns the player's score and canister reserve.
func (l *Level) Stats() *player.Stats { return l.stats }

// Player returns the player's actor.
func (l *Level) Player() *Actor { return l.player }

// Enemies returns the enemy actors in config order.
func (l *Level) Enemies() []*Actor { return l.enemies }

// Tank returns the player's fuel tank.
func (l *Level) Tank() *fuel.Tank { return l.tank }

// Obstacles returns the obstacle field.
func (l *Level) Obstacles() *physics.ObstacleField { return l.field }

// RunID returns the correlation id attached to this level's logs.
func (l *Level) RunID() string { return l.runID }
