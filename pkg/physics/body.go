// pkg/physics/body.go
package physics

// RigidBody is the slice of a host physics body the controllers drive.
// Forces and torques accumulate until the host integrates them.
type RigidBody interface {
	Position() Vector3
	Forward() Vector3
	Velocity() Vector3
	SetVelocity(v Vector3)
	AngularVelocity() Vector3 // radians per second
	SetAngularVelocity(w Vector3)
	AddForce(f Vector3)
	AddTorque(t Vector3)
	ResetUpright()
}

// Body is a minimal yaw-only rigid body used as the reference host for
// headless simulation and tests.
type Body struct {
	position        Vector3
	velocity        Vector3
	angularVelocity Vector3
	yaw             float64 // degrees
	pitch           float64 // degrees
	roll            float64 // degrees
	mass            float64
	inertia         float64
	force           Vector3
	torque          Vector3
}

// NewBody creates a body at position facing yawDeg.
func NewBody(position Vector3, yawDeg, mass float64) *Body {
	if mass <= 0 {
		mass = 1
	}
	return &Body{
		position: position,
		yaw:      yawDeg,
		mass:     mass,
		inertia:  mass,
	}
}

// Step integrates accumulated force and torque over deltaTime and clears them.
func (b *Body) Step(deltaTime float64) {
	if deltaTime <= 0 {
		return
	}

	b.velocity = b.velocity.Add(b.force.Scale(deltaTime / b.mass))
	b.angularVelocity = b.angularVelocity.Add(b.torque.Scale(deltaTime / b.inertia))

	b.position = b.position.Add(b.velocity.Scale(deltaTime))
	b.yaw += b.angularVelocity.Y * Rad2Deg * deltaTime
	b.pitch += b.angularVelocity.X * Rad2Deg * deltaTime
	b.roll += b.angularVelocity.Z * Rad2Deg * deltaTime

	b.force = Vector3{}
	b.torque = Vector3{}
}

// Position returns the body's position.
func (b *Body) Position() Vector3 { return b.position }

// SetPosition teleports the body.
func (b *Body) SetPosition(p Vector3) { b.position = p }

// Forward returns the horizontal facing direction.
func (b *Body) Forward() Vector3 { return Direction(b.yaw) }

// Yaw returns the facing in degrees.
func (b *Body) Yaw() float64 { return b.yaw }

// SetYaw sets the facing in degrees.
func (b *Body) SetYaw(yawDeg float64) { b.yaw = yawDeg }

// Tilt returns pitch and roll in degrees.
func (b *Body) Tilt() (pitch, roll float64) { return b.pitch, b.roll }

// SetTilt sets pitch and roll in degrees, e.g. after a knock.
func (b *Body) SetTilt(pitch, roll float64) {
	b.pitch = pitch
	b.roll = roll
}

// Velocity returns the linear velocity.
func (b *Body) Velocity() Vector3 { return b.velocity }

// SetVelocity overrides the linear velocity.
func (b *Body) SetVelocity(v Vector3) { b.velocity = v }

// AngularVelocity returns the angular velocity in radians per second.
func (b *Body) AngularVelocity() Vector3 { return b.angularVelocity }

// SetAngularVelocity overrides the angular velocity.
func (b *Body) SetAngularVelocity(w Vector3) { b.angularVelocity = w }

// AddForce accumulates a continuous force for the next Step.
func (b *Body) AddForce(f Vector3) { b.force = b.force.Add(f) }

// AddTorque accumulates a continuous torque for the next Step.
func (b *Body) AddTorque(t Vector3) { b.torque = b.torque.Add(t) }

// PendingForce returns the force accumulated since the last Step.
func (b *Body) PendingForce() Vector3 { return b.force }

// PendingTorque returns the torque accumulated since the last Step.
func (b *Body) PendingTorque() Vector3 { return b.torque }

// ResetUpright clears pitch and roll, keeping the heading.
func (b *Body) ResetUpright() {
	b.pitch = 0
	b.roll = 0
	b.angularVelocity.X = 0
	b.angularVelocity.Z = 0
}
