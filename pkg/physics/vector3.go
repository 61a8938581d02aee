// pkg/physics/vector3.go
package physics

import "math"

// Vector3 is a point or direction in world space. Y is up; yaw 0 faces +Z.
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

// Up is the world up axis.
var Up = Vector3{Y: 1}

// FromPlanar lifts a planar input onto the horizontal plane (x→X, y→Z).
func FromPlanar(v Vector2D) Vector3 {
	return Vector3{X: v.X, Z: v.Y}
}

// Direction returns the horizontal unit vector for a yaw given in degrees.
func Direction(yawDeg float64) Vector3 {
	rad := yawDeg * Deg2Rad
	return Vector3{X: math.Sin(rad), Z: math.Cos(rad)}
}

// Add returns the sum of two vectors
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub returns the difference between two vectors
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Scale multiplies the vector by a scalar value
func (v Vector3) Scale(factor float64) Vector3 {
	return Vector3{X: v.X * factor, Y: v.Y * factor, Z: v.Z * factor}
}

// Neg returns the opposite vector.
func (v Vector3) Neg() Vector3 {
	return Vector3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Dot returns the dot product of two vectors
func (v Vector3) Dot(other Vector3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// LengthSquared returns magnitude squared (optimization for comparisons)
func (v Vector3) LengthSquared() float64 {
	return v.Dot(v)
}

// Length returns the magnitude of the vector
func (v Vector3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// Normalize returns a unit vector in the same direction, or the zero vector.
func (v Vector3) Normalize() Vector3 {
	length := v.Length()
	if length == 0 {
		return Vector3{}
	}
	return v.Scale(1 / length)
}

// Distance returns the distance between two points
func (v Vector3) Distance(other Vector3) float64 {
	return v.Sub(other).Length()
}

// Flat drops the vertical component.
func (v Vector3) Flat() Vector3 {
	return Vector3{X: v.X, Z: v.Z}
}

// Planar returns the horizontal components as a Vector2D (X→x, Z→y).
func (v Vector3) Planar() Vector2D {
	return Vector2D{X: v.X, Y: v.Z}
}

// Yaw returns the heading of the horizontal projection in degrees.
func (v Vector3) Yaw() float64 {
	if v.X == 0 && v.Z == 0 {
		return 0
	}
	return math.Atan2(v.X, v.Z) * Rad2Deg
}

// ClampLength rescales the vector to max when it is longer, preserving direction.
func (v Vector3) ClampLength(max float64) Vector3 {
	if v.Length() > max {
		return v.Normalize().Scale(max)
	}
	return v
}

// SignedAngleXZ returns the angle in degrees from one horizontal direction to
// another, counter-clockwise positive in the (x, z) plane. Zero when either
// vector has no horizontal extent.
func SignedAngleXZ(from, to Vector3) float64 {
	if (from.X == 0 && from.Z == 0) || (to.X == 0 && to.Z == 0) {
		return 0
	}
	cross := from.X*to.Z - from.Z*to.X
	dot := from.X*to.X + from.Z*to.Z
	return math.Atan2(cross, dot) * Rad2Deg
}
