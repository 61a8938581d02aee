// pkg/render/engo/renderer.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-spacebarge/pkg/engine"
)

// World-space sprite sizes, in world units.
const (
	flierLength = 3.0
	flierWidth  = 2.0
	markerSize  = 0.8
)

// Draw order.
const (
	zObstacle float32 = iota
	zRoute
	zFlier
)

type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

type routeSprites struct {
	waypoint    *sprite
	destination *sprite
}

// EngoRenderer mirrors level snapshots into engo render components
type EngoRenderer struct {
	renderSystem *common.RenderSystem
	camera       *CameraSystem
	assets       *AssetManager

	fliers    map[uint64]*sprite
	routes    map[uint64]routeSprites
	obstacles []*sprite
}

// NewEngoRenderer creates a renderer drawing through renderSystem
func NewEngoRenderer(renderSystem *common.RenderSystem, camera *CameraSystem, assets *AssetManager) *EngoRenderer {
	return &EngoRenderer{
		renderSystem: renderSystem,
		camera:       camera,
		assets:       assets,
		fliers:       make(map[uint64]*sprite),
		routes:       make(map[uint64]routeSprites),
	}
}

func (r *EngoRenderer) newSprite(drawable common.Drawable, c color.Color, z float32) *sprite {
	s := &sprite{BasicEntity: ecs.NewBasic()}
	s.RenderComponent = common.RenderComponent{Drawable: drawable, Color: c}
	s.RenderComponent.SetShader(common.LegacyShader)
	s.RenderComponent.SetZIndex(z)
	r.renderSystem.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	return s
}

// Render implements render.Renderer
func (r *EngoRenderer) Render(state *engine.State) error {
	if len(r.obstacles) == 0 {
		for _, o := range state.Obstacles {
			s := r.newSprite(r.assets.ObstacleDrawable(), obstacleColor, zObstacle)
			size := float32(o.Radius*2) * r.camera.unitScale
			s.Width, s.Height = size, size
			s.Position = centeredPosition(r.camera.ToEngo(o.Center), size, size, 0)
			r.obstacles = append(r.obstacles, s)
		}
	}

	for _, f := range state.Fliers {
		r.renderRoute(f)
		r.renderFlier(f)
	}
	return nil
}

func (r *EngoRenderer) renderFlier(f engine.FlierState) {
	s, ok := r.fliers[f.ID]
	if !ok {
		s = r.newSprite(r.assets.FlierDrawable(), FlierColor(f), zFlier)
		s.Width = flierWidth * r.camera.unitScale
		s.Height = flierLength * r.camera.unitScale
		r.fliers[f.ID] = s
	}
	s.Color = FlierColor(f)
	s.Rotation = float32(f.Yaw)
	s.Position = centeredPosition(r.camera.ToEngo(f.Position), s.Width, s.Height, s.Rotation)
}

func (r *EngoRenderer) renderRoute(f engine.FlierState) {
	route, ok := r.routes[f.ID]
	if !ok {
		route = routeSprites{
			waypoint:    r.newSprite(r.assets.MarkerDrawable(), waypointColor, zRoute),
			destination: r.newSprite(r.assets.MarkerDrawable(), destinationColor, zRoute),
		}
		r.routes[f.ID] = route
	}

	visible := f.Alive && f.Moving
	size := float32(markerSize) * r.camera.unitScale
	for _, m := range []struct {
		s   *sprite
		pos engo.Point
	}{
		{route.waypoint, r.camera.ToEngo(f.Waypoint)},
		{route.destination, r.camera.ToEngo(f.Destination)},
	} {
		m.s.Hidden = !visible
		m.s.Width, m.s.Height = size, size
		m.s.Position = centeredPosition(m.pos, size, size, 0)
	}
	// enemy destinations are only drawn while they differ from the waypoint
	route.destination.Hidden = !visible || (!f.Player && route.waypoint.Position == route.destination.Position)
}

// centeredPosition returns the top-left SpaceComponent position that puts
// the centre of a w×h box rotated by rotation degrees at center. engo
// rotates clockwise about the top-left corner.
func centeredPosition(center engo.Point, w, h, rotation float32) engo.Point {
	sin, cos := math.Sincos(float64(rotation) * math.Pi / 180)
	hx, hy := float64(w/2), float64(h/2)
	return engo.Point{
		X: center.X - float32(hx*cos-hy*sin),
		Y: center.Y - float32(hx*sin+hy*cos),
	}
}
