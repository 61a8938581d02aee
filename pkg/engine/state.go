// pkg/engine/state.go
package engine

import (
	"github.com/opd-ai/go-spacebarge/pkg/cruise"
	"github.com/opd-ai/go-spacebarge/pkg/fuel"
	"github.com/opd-ai/go-spacebarge/pkg/physics"
)

// State is a read-only snapshot of a level, safe to hand to renderers
type State struct {
	Clock     Clock
	Fliers    []FlierState
	Obstacles []physics.Sphere
	Fuel      FuelState
	Score     int
	WorldSize float64
}

// FlierState is the rendered state of one flier
type FlierState struct {
	ID          uint64
	Name        string
	Player      bool
	Position    physics.Vector3
	Yaw         float64
	Health      float64
	MaxHealth   float64
	Alive       bool
	Thrusting   bool
	ThrustPower float64
	Moving      bool
	Waypoint    physics.Vector3
	Destination physics.Vector3
	Outcome     cruise.Outcome
}

// FuelState is the HUD view of the player's tank
type FuelState struct {
	Fill       float64
	Band       fuel.Band
	Canisters  int
	PulseScale float64
}

// Snapshot returns the level state between ticks
func (l *Level) Snapshot() *State {
	var state *State
	l.sim.Read(func() {
		state = l.createSnapshot()
	})
	return state
}

func (l *Level) createSnapshot() *State {
	state := &State{
		Clock:     l.sim.clock,
		Obstacles: append([]physics.Sphere(nil), l.field.Obstacles()...),
		Score:     l.stats.Score(),
		WorldSize: l.cfg.WorldSize,
		Fuel: FuelState{
			Fill:       l.tank.Fill(),
			Band:       l.tank.Band(),
			Canisters:  l.tank.Canisters(),
			PulseScale: l.tank.PulseScale(),
		},
	}

	state.Fliers = append(state.Fliers, flierState(l.player, true))
	for _, e := range l.enemies {
		state.Fliers = append(state.Fliers, flierState(e, false))
	}
	return state
}

func flierState(a *Actor, isPlayer bool) FlierState {
	return FlierState{
		ID:          a.Flier.ID(),
		Name:        a.Name,
		Player:      isPlayer,
		Position:    a.Body.Position(),
		Yaw:         a.Body.Yaw(),
		Health:      a.Flier.Health(),
		MaxHealth:   a.Flier.BaselineStats().Health,
		Alive:       a.Flier.Alive(),
		Thrusting:   a.Flier.Thrusting(),
		ThrustPower: a.Flier.ThrustPower(),
		Moving:      a.Autopilot.Moving(),
		Waypoint:    a.Autopilot.Waypoint(),
		Destination: a.Autopilot.Destination(),
		Outcome:     a.Autopilot.LastOutcome(),
	}
}
