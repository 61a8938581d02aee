package flier

import (
	"github.com/opd-ai/go-spacebarge/pkg/event"
	"github.com/opd-ai/go-spacebarge/pkg/physics"
)

// DirectionInputHandler receives planar steering input from a pilot, human or AI.
type DirectionInputHandler interface {
	SetMoveInput(input physics.Vector2D)
	SetLookInput(input physics.Vector2D)
}

// Damageable takes damage (positive) or healing (negative).
type Damageable interface {
	ApplyDamage(amount float64)
}

// Target is something a flier can lock its heading onto. An invalid target is
// treated as no target at all.
type Target interface {
	Position() physics.Vector3
	Valid() bool
}

// Notifier receives lifecycle notifications. *event.Bus satisfies it.
type Notifier interface {
	Publish(e event.Event)
}

// Thruster is a visual or audio thrust cue driven on and off by thrust power.
type Thruster interface {
	SetThrusting(on bool)
}

// PointTarget is a fixed world position usable as a lock target.
type PointTarget physics.Vector3

// Position implements Target.
func (p PointTarget) Position() physics.Vector3 { return physics.Vector3(p) }

// Valid implements Target.
func (p PointTarget) Valid() bool { return true }
