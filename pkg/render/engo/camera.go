// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-spacebarge/pkg/physics"
)

// CameraSystem follows the player and maps between world XZ and engo space.
// World +X is screen right and world +Z is screen up; one world unit is
// unitScale game pixels.
type CameraSystem struct {
	target    engo.Point
	targetSet bool

	// engo camera distance; larger shows more of the world
	zoom    float32
	minZoom float32
	maxZoom float32

	followSpeed float32
	smoothing   bool

	currentPos engo.Point
	unitScale  float32
	viewWidth  float32
	viewHeight float32
}

// NewCameraSystem creates a camera for a viewport of the given game size
func NewCameraSystem(unitScale, viewWidth, viewHeight float32) *CameraSystem {
	if unitScale <= 0 {
		unitScale = 1
	}
	return &CameraSystem{
		zoom:        1.0,
		minZoom:     0.25,
		maxZoom:     4.0,
		followSpeed: 4.0,
		smoothing:   true,
		unitScale:   unitScale,
		viewWidth:   viewWidth,
		viewHeight:  viewHeight,
	}
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}

// Update eases toward the target and pushes position and zoom to engo
func (cs *CameraSystem) Update(dt float32) {
	cs.handleZoomInput()
	if cs.targetSet {
		cs.follow(dt)
	}
	cs.applyCameraTransform()
}

func (cs *CameraSystem) handleZoomInput() {
	if scrollY := engo.Input.Mouse.ScrollY; scrollY != 0 {
		cs.SetZoom(cs.zoom * (1 - scrollY*0.1))
	}
	if engo.Input.Button(buttonZoomIn).Down() {
		cs.SetZoom(cs.zoom * 0.98)
	}
	if engo.Input.Button(buttonZoomOut).Down() {
		cs.SetZoom(cs.zoom * 1.02)
	}
}

// follow moves the camera a dt-scaled fraction of the way to the target
func (cs *CameraSystem) follow(dt float32) {
	if !cs.smoothing {
		cs.currentPos = cs.target
		return
	}
	t := physics.Clamp01(float64(cs.followSpeed * dt))
	cs.currentPos.X += (cs.target.X - cs.currentPos.X) * float32(t)
	cs.currentPos.Y += (cs.target.Y - cs.currentPos.Y) * float32(t)
}

func (cs *CameraSystem) applyCameraTransform() {
	engo.Mailbox.Dispatch(common.CameraMessage{Axis: common.XAxis, Value: cs.currentPos.X})
	engo.Mailbox.Dispatch(common.CameraMessage{Axis: common.YAxis, Value: cs.currentPos.Y})
	engo.Mailbox.Dispatch(common.CameraMessage{Axis: common.ZAxis, Value: cs.zoom})
}

// SetTarget sets the world position the camera follows. The first target
// snaps the camera into place.
func (cs *CameraSystem) SetTarget(target physics.Vector3) {
	cs.target = cs.ToEngo(target)
	if !cs.targetSet || !cs.smoothing {
		cs.currentPos = cs.target
	}
	cs.targetSet = true
}

// ClearTarget clears the camera target
func (cs *CameraSystem) ClearTarget() {
	cs.targetSet = false
}

// SetZoom sets the camera zoom level
func (cs *CameraSystem) SetZoom(zoom float32) {
	cs.zoom = cs.clampZoom(zoom)
}

// Zoom returns the current zoom level
func (cs *CameraSystem) Zoom() float32 {
	return cs.zoom
}

func (cs *CameraSystem) clampZoom(zoom float32) float32 {
	if zoom < cs.minZoom {
		return cs.minZoom
	}
	if zoom > cs.maxZoom {
		return cs.maxZoom
	}
	return zoom
}

// EnableSmoothing enables or disables camera smoothing
func (cs *CameraSystem) EnableSmoothing(enabled bool) {
	cs.smoothing = enabled
}

// CurrentPosition returns the camera centre in engo space
func (cs *CameraSystem) CurrentPosition() engo.Point {
	return cs.currentPos
}

// ToEngo converts a world position to engo space
func (cs *CameraSystem) ToEngo(p physics.Vector3) engo.Point {
	return engo.Point{
		X: float32(p.X) * cs.unitScale,
		Y: -float32(p.Z) * cs.unitScale,
	}
}

// ScreenToWorld converts a point in the viewport, origin top left, to a
// world position on the ground plane
func (cs *CameraSystem) ScreenToWorld(screen engo.Point) physics.Vector3 {
	x := (screen.X-cs.viewWidth/2)*cs.zoom + cs.currentPos.X
	y := (screen.Y-cs.viewHeight/2)*cs.zoom + cs.currentPos.Y
	return physics.Vector3{
		X: float64(x / cs.unitScale),
		Z: float64(-y / cs.unitScale),
	}
}
