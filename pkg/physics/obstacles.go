// pkg/physics/obstacles.go
package physics

import "math"

// ObstacleField is a static set of spherical obstacles answering shape-cast
// queries. It is the reference ShapeCaster used by the simulation and tests.
type ObstacleField struct {
	obstacles []Sphere
	index     *QuadTree
	outside   []int // obstacles beyond the index boundary, scanned linearly
	maxRadius float64
}

// NewObstacleField creates a field indexed over a square world of the given size.
func NewObstacleField(worldSize float64, obstacles ...Sphere) *ObstacleField {
	if worldSize <= 0 {
		worldSize = 1000
	}
	f := &ObstacleField{
		index: NewQuadTree(Rect{Width: worldSize, Height: worldSize}, 8),
	}
	for _, o := range obstacles {
		f.Add(o)
	}
	return f
}

// Add inserts an obstacle. A zero layer is treated as layer 1.
func (f *ObstacleField) Add(o Sphere) {
	if o.Layer == 0 {
		o.Layer = 1
	}
	idx := len(f.obstacles)
	f.obstacles = append(f.obstacles, o)
	if !f.index.Insert(o.Center.Planar(), idx) {
		f.outside = append(f.outside, idx)
	}
	f.maxRadius = math.Max(f.maxRadius, o.Radius)
}

// Obstacles returns the obstacles in insertion order.
func (f *ObstacleField) Obstacles() []Sphere {
	return f.obstacles
}

// SphereCast implements ShapeCaster.
func (f *ObstacleField) SphereCast(ray Ray, radius, maxDistance float64, mask LayerMask) (Hit, bool) {
	end := ray.Origin.Add(ray.Direction.Normalize().Scale(maxDistance))
	area := boundsOf(ray.Origin.Planar(), end.Planar(), radius+f.maxRadius)

	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, idx := range f.candidates(area) {
		o := f.obstacles[idx]
		if !mask.Includes(o.Layer) {
			continue
		}
		hit, ok := o.Sweep(ray, radius, maxDistance)
		if ok && hit.Distance < best.Distance {
			best = hit
			found = true
		}
	}
	return best, found
}

// CheckSphere implements ShapeCaster.
func (f *ObstacleField) CheckSphere(center Vector3, radius float64, mask LayerMask) bool {
	area := boundsOf(center.Planar(), center.Planar(), radius+f.maxRadius)
	for _, idx := range f.candidates(area) {
		o := f.obstacles[idx]
		if mask.Includes(o.Layer) && o.Overlaps(center, radius) {
			return true
		}
	}
	return false
}

func (f *ObstacleField) candidates(area Rect) []int {
	return append(f.index.Query(area), f.outside...)
}

// boundsOf returns the rectangle spanning a and b grown by margin on every side.
func boundsOf(a, b Vector2D, margin float64) Rect {
	minX, maxX := math.Min(a.X, b.X)-margin, math.Max(a.X, b.X)+margin
	minY, maxY := math.Min(a.Y, b.Y)-margin, math.Max(a.Y, b.Y)+margin
	return Rect{
		Center: Vector2D{X: (minX + maxX) / 2, Y: (minY + maxY) / 2},
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}
