// pkg/physics/collision.go
package physics

import "math"

// LayerMask selects obstacle layers; bit i set means layer i is included.
type LayerMask uint32

// AllLayers matches every layer.
const AllLayers LayerMask = math.MaxUint32

// Includes reports whether the mask selects the given layer bits.
func (m LayerMask) Includes(layer LayerMask) bool {
	return m&layer != 0
}

// Ray is an origin and a direction; the direction need not be normalized.
type Ray struct {
	Origin    Vector3
	Direction Vector3
}

// Hit describes the nearest obstacle found by a cast.
type Hit struct {
	Distance float64
	Point    Vector3
}

// ShapeCaster answers the geometric queries the autopilot relies on.
type ShapeCaster interface {
	// SphereCast sweeps a sphere along ray and reports the nearest hit within maxDistance.
	SphereCast(ray Ray, radius, maxDistance float64, mask LayerMask) (Hit, bool)
	// CheckSphere reports whether any obstacle overlaps the sphere.
	CheckSphere(center Vector3, radius float64, mask LayerMask) bool
}

// Sphere is a spherical obstacle on a layer.
type Sphere struct {
	Center Vector3
	Radius float64
	Layer  LayerMask
}

// Overlaps checks whether a sphere at center with radius intersects s.
func (s Sphere) Overlaps(center Vector3, radius float64) bool {
	return s.Center.Distance(center) < s.Radius+radius
}

// Sweep intersects a sphere of radius moving along ray with s. The cast
// starting inside s reports a hit at distance zero.
func (s Sphere) Sweep(ray Ray, radius, maxDistance float64) (Hit, bool) {
	dir := ray.Direction.Normalize()
	if dir == (Vector3{}) {
		return Hit{}, false
	}

	combined := s.Radius + radius
	m := ray.Origin.Sub(s.Center)
	c := m.LengthSquared() - combined*combined
	if c <= 0 {
		return Hit{Distance: 0, Point: s.contact(ray.Origin)}, true
	}

	b := m.Dot(dir)
	if b > 0 {
		return Hit{}, false
	}
	disc := b*b - c
	if disc < 0 {
		return Hit{}, false
	}

	t := -b - math.Sqrt(disc)
	if t > maxDistance {
		return Hit{}, false
	}
	return Hit{Distance: t, Point: s.contact(ray.Origin.Add(dir.Scale(t)))}, true
}

// contact projects a swept centre onto the obstacle surface.
func (s Sphere) contact(sweptCenter Vector3) Vector3 {
	n := sweptCenter.Sub(s.Center).Normalize()
	return s.Center.Add(n.Scale(s.Radius))
}

// QuadTree indexes obstacle centres on the horizontal plane (x, z).
type QuadTree struct {
	Boundary  Rect
	Capacity  int
	Points    []Vector2D
	Indices   []int
	Divided   bool
	NorthWest *QuadTree
	NorthEast *QuadTree
	SouthWest *QuadTree
	SouthEast *QuadTree
}

// Rect represents a rectangular area
type Rect struct {
	Center Vector2D
	Width  float64
	Height float64
}

// Contains reports whether point lies inside the rectangle (max edges exclusive).
func (r Rect) Contains(point Vector2D) bool {
	return point.X >= r.Center.X-r.Width/2 &&
		point.X < r.Center.X+r.Width/2 &&
		point.Y >= r.Center.Y-r.Height/2 &&
		point.Y < r.Center.Y+r.Height/2
}

// NewQuadTree creates a new quad tree with the given boundary and capacity
func NewQuadTree(boundary Rect, capacity int) *QuadTree {
	return &QuadTree{
		Boundary: boundary,
		Capacity: capacity,
		Points:   make([]Vector2D, 0, capacity),
		Indices:  make([]int, 0, capacity),
		Divided:  false,
	}
}

// Insert stores an obstacle index at a planar point. It returns false when the
// point lies outside the tree boundary.
func (qt *QuadTree) Insert(point Vector2D, index int) bool {
	if !qt.Boundary.Contains(point) {
		return false
	}

	if len(qt.Points) < qt.Capacity && !qt.Divided {
		qt.Points = append(qt.Points, point)
		qt.Indices = append(qt.Indices, index)
		return true
	}

	if !qt.Divided {
		qt.Subdivide()
	}

	return qt.NorthWest.Insert(point, index) ||
		qt.NorthEast.Insert(point, index) ||
		qt.SouthWest.Insert(point, index) ||
		qt.SouthEast.Insert(point, index)
}

// Subdivide splits the quadtree into four quadrants
func (qt *QuadTree) Subdivide() {
	x := qt.Boundary.Center.X
	y := qt.Boundary.Center.Y
	w := qt.Boundary.Width / 2
	h := qt.Boundary.Height / 2

	nw := Rect{Center: Vector2D{X: x - w/2, Y: y + h/2}, Width: w, Height: h}
	ne := Rect{Center: Vector2D{X: x + w/2, Y: y + h/2}, Width: w, Height: h}
	sw := Rect{Center: Vector2D{X: x - w/2, Y: y - h/2}, Width: w, Height: h}
	se := Rect{Center: Vector2D{X: x + w/2, Y: y - h/2}, Width: w, Height: h}

	qt.NorthWest = NewQuadTree(nw, qt.Capacity)
	qt.NorthEast = NewQuadTree(ne, qt.Capacity)
	qt.SouthWest = NewQuadTree(sw, qt.Capacity)
	qt.SouthEast = NewQuadTree(se, qt.Capacity)
	qt.Divided = true
}

// Query returns the indices of all points inside area.
func (qt *QuadTree) Query(area Rect) []int {
	found := make([]int, 0)

	// If area doesn't intersect boundary, return empty
	if !qt.intersects(area) {
		return found
	}

	// Check objects in this quad
	for i, point := range qt.Points {
		if area.Contains(point) {
			found = append(found, qt.Indices[i])
		}
	}

	// If not divided, we're done
	if !qt.Divided {
		return found
	}

	// Check children
	found = append(found, qt.NorthWest.Query(area)...)
	found = append(found, qt.NorthEast.Query(area)...)
	found = append(found, qt.SouthWest.Query(area)...)
	found = append(found, qt.SouthEast.Query(area)...)

	return found
}

func (qt *QuadTree) intersects(area Rect) bool {
	return !(area.Center.X-area.Width/2 > qt.Boundary.Center.X+qt.Boundary.Width/2 ||
		area.Center.X+area.Width/2 < qt.Boundary.Center.X-qt.Boundary.Width/2 ||
		area.Center.Y-area.Height/2 > qt.Boundary.Center.Y+qt.Boundary.Height/2 ||
		area.Center.Y+area.Height/2 < qt.Boundary.Center.Y-qt.Boundary.Height/2)
}

// Clear empties the tree so it can be repopulated.
func (qt *QuadTree) Clear() {
	qt.Points = qt.Points[:0]
	qt.Indices = qt.Indices[:0]
	qt.Divided = false
	qt.NorthWest = nil
	qt.NorthEast = nil
	qt.SouthWest = nil
	qt.SouthEast = nil
}
