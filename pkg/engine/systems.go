// pkg/engine/systems.go
package engine

import (
	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-spacebarge/pkg/cruise"
	"github.com/opd-ai/go-spacebarge/pkg/flier"
	"github.com/opd-ai/go-spacebarge/pkg/fuel"
	"github.com/opd-ai/go-spacebarge/pkg/physics"
)

// System priorities; the world updates higher priorities first so pilots
// write inputs before fliers read them and bodies integrate last.
const (
	priorityLevel     = 50
	priorityCruise    = 40
	priorityFlier     = 30
	priorityFuel      = 20
	priorityBody      = 10
	priorityCollision = 0
)

type cruiseEntity struct {
	basic   *ecs.BasicEntity
	control *cruise.Control
}

// CruiseSystem ticks autopilots.
type CruiseSystem struct {
	entities []cruiseEntity
}

// Add registers an autopilot.
func (s *CruiseSystem) Add(basic *ecs.BasicEntity, control *cruise.Control) {
	s.entities = append(s.entities, cruiseEntity{basic, control})
}

// Remove satisfies the ecs.System interface
func (s *CruiseSystem) Remove(basic ecs.BasicEntity) {
	s.entities = removeEntity(s.entities, basic, func(e cruiseEntity) *ecs.BasicEntity { return e.basic })
}

// Update satisfies the ecs.System interface
func (s *CruiseSystem) Update(dt float32) {
	for _, e := range s.entities {
		e.control.Update(float64(dt))
	}
}

// Priority satisfies the ecs.Prioritizer interface
func (s *CruiseSystem) Priority() int { return priorityCruise }

type flierEntity struct {
	basic *ecs.BasicEntity
	flier *flier.Flier
}

// FlierSystem ticks vehicle controllers.
type FlierSystem struct {
	entities []flierEntity
}

// Add registers a flier.
func (s *FlierSystem) Add(basic *ecs.BasicEntity, f *flier.Flier) {
	s.entities = append(s.entities, flierEntity{basic, f})
}

// Remove satisfies the ecs.System interface
func (s *FlierSystem) Remove(basic ecs.BasicEntity) {
	s.entities = removeEntity(s.entities, basic, func(e flierEntity) *ecs.BasicEntity { return e.basic })
}

// Update satisfies the ecs.System interface
func (s *FlierSystem) Update(dt float32) {
	for _, e := range s.entities {
		e.flier.Update(float64(dt))
	}
}

// Priority satisfies the ecs.Prioritizer interface
func (s *FlierSystem) Priority() int { return priorityFlier }

type fuelEntity struct {
	basic *ecs.BasicEntity
	tank  *fuel.Tank
}

// FuelSystem drains fuel tanks.
type FuelSystem struct {
	entities []fuelEntity
}

// Add registers a tank.
func (s *FuelSystem) Add(basic *ecs.BasicEntity, tank *fuel.Tank) {
	s.entities = append(s.entities, fuelEntity{basic, tank})
}

// Remove satisfies the ecs.System interface
func (s *FuelSystem) Remove(basic ecs.BasicEntity) {
	s.entities = removeEntity(s.entities, basic, func(e fuelEntity) *ecs.BasicEntity { return e.basic })
}

// Update satisfies the ecs.System interface
func (s *FuelSystem) Update(dt float32) {
	for _, e := range s.entities {
		e.tank.Update(float64(dt))
	}
}

// Priority satisfies the ecs.Prioritizer interface
func (s *FuelSystem) Priority() int { return priorityFuel }

type bodyEntity struct {
	basic *ecs.BasicEntity
	body  *physics.Body
}

// BodySystem integrates rigid bodies and keeps them inside the world square.
type BodySystem struct {
	entities  []bodyEntity
	halfWorld float64
}

// Add registers a body.
func (s *BodySystem) Add(basic *ecs.BasicEntity, body *physics.Body) {
	s.entities = append(s.entities, bodyEntity{basic, body})
}

// Remove satisfies the ecs.System interface
func (s *BodySystem) Remove(basic ecs.BasicEntity) {
	s.entities = removeEntity(s.entities, basic, func(e bodyEntity) *ecs.BasicEntity { return e.basic })
}

// Update satisfies the ecs.System interface
func (s *BodySystem) Update(dt float32) {
	for _, e := range s.entities {
		e.body.Step(float64(dt))
		s.confine(e.body)
	}
}

// confine clamps the body to the world square and kills outward velocity.
func (s *BodySystem) confine(body *physics.Body) {
	if s.halfWorld <= 0 {
		return
	}
	pos, vel := body.Position(), body.Velocity()
	if pos.X < -s.halfWorld || pos.X > s.halfWorld {
		pos.X = physics.Clamp(pos.X, -s.halfWorld, s.halfWorld)
		vel.X = 0
	}
	if pos.Z < -s.halfWorld || pos.Z > s.halfWorld {
		pos.Z = physics.Clamp(pos.Z, -s.halfWorld, s.halfWorld)
		vel.Z = 0
	}
	body.SetPosition(pos)
	body.SetVelocity(vel)
}

// Priority satisfies the ecs.Prioritizer interface
func (s *BodySystem) Priority() int { return priorityBody }

type collisionEntity struct {
	basic  *ecs.BasicEntity
	target flier.Damageable
	body   physics.RigidBody
	radius float64
}

// CollisionSystem damages fliers overlapping an obstacle, scaled by time spent inside.
type CollisionSystem struct {
	entities []collisionEntity
	field    physics.ShapeCaster
	damage   float64 // per second
}

// Add registers a damageable hull of the given radius.
func (s *CollisionSystem) Add(basic *ecs.BasicEntity, target flier.Damageable, body physics.RigidBody, radius float64) {
	s.entities = append(s.entities, collisionEntity{basic, target, body, radius})
}

// Remove satisfies the ecs.System interface
func (s *CollisionSystem) Remove(basic ecs.BasicEntity) {
	s.entities = removeEntity(s.entities, basic, func(e collisionEntity) *ecs.BasicEntity { return e.basic })
}

// Update satisfies the ecs.System interface
func (s *CollisionSystem) Update(dt float32) {
	if s.field == nil || s.damage <= 0 {
		return
	}
	for _, e := range s.entities {
		if s.field.CheckSphere(e.body.Position(), e.radius, physics.AllLayers) {
			e.target.ApplyDamage(s.damage * float64(dt))
		}
	}
}

// Priority satisfies the ecs.Prioritizer interface
func (s *CollisionSystem) Priority() int { return priorityCollision }

func removeEntity[T any](entities []T, basic ecs.BasicEntity, get func(T) *ecs.BasicEntity) []T {
	for i, e := range entities {
		if get(e).ID() == basic.ID() {
			return append(entities[:i], entities[i+1:]...)
		}
	}
	return entities
}
