// pkg/render/engo/scene.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-spacebarge/pkg/engine"
	"github.com/opd-ai/go-spacebarge/pkg/logging"
)

// DefaultUnitScale is game pixels per world unit.
const DefaultUnitScale = 6

// GameScene shows a running level in an engo window. The scene owns the
// simulation clock: each frame ticks the level by the frame time.
type GameScene struct {
	level     *engine.Level
	logger    *logging.Logger
	unitScale float32

	assets   *AssetManager
	renderer *EngoRenderer
	camera   *CameraSystem
	input    *InputSystem
	hud      *HUD
}

// NewGameScene creates a new game scene
func NewGameScene(level *engine.Level, logger *logging.Logger) *GameScene {
	if logger == nil {
		logger = logging.Discard()
	}
	return &GameScene{
		level:     level,
		logger:    logger,
		unitScale: DefaultUnitScale,
		assets:    NewAssetManager(),
	}
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "SpacebargeScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *GameScene) Preload() {
	if err := scene.assets.Preload(); err != nil {
		scene.logger.Error(context.Background(), "Asset preload failed", err)
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	ctx := context.Background()

	common.SetBackground(backgroundColor)
	if err := scene.assets.LoadAssets(); err != nil {
		scene.logger.Error(ctx, "HUD font unavailable, drawing without text", err)
	}

	state := scene.level.Snapshot()
	half := float32(state.WorldSize/2) * scene.unitScale
	common.CameraBounds = engo.AABB{
		Min: engo.Point{X: -half, Y: -half},
		Max: engo.Point{X: half, Y: half},
	}

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)

	scene.camera = NewCameraSystem(scene.unitScale, engo.GameWidth(), engo.GameHeight())
	scene.renderer = NewEngoRenderer(renderSystem, scene.camera, scene.assets)
	scene.hud = NewHUD(renderSystem, scene.assets)
	scene.input = NewInputSystem(scene.level, scene.camera)

	RegisterButtons()
	world.AddSystem(scene.input)
	world.AddSystem(&levelSystem{scene: scene})
	world.AddSystem(scene.camera)

	scene.logger.Info(ctx, "Viewer scene ready",
		"runID", scene.level.RunID(),
		"width", engo.GameWidth(),
		"height", engo.GameHeight(),
	)
}

// Exit is called when the window closes (required by Engo)
func (scene *GameScene) Exit() {
	scene.logger.Info(context.Background(), "Viewer closed", "ticks", scene.level.Simulation().Clock().Tick)
}

// draw mirrors one snapshot into the camera, sprites and HUD
func (scene *GameScene) draw(state *engine.State) {
	for _, f := range state.Fliers {
		if f.Player {
			scene.camera.SetTarget(f.Position)
		}
	}
	if err := scene.renderer.Render(state); err != nil {
		scene.logger.Error(context.Background(), "Render failed", err)
	}
	scene.hud.Sync(state)
}

// levelSystem ticks the level once per frame and redraws it
type levelSystem struct {
	scene *GameScene
}

// Remove satisfies the ecs.System interface
func (ls *levelSystem) Remove(basic ecs.BasicEntity) {}

// Update satisfies the ecs.System interface
func (ls *levelSystem) Update(dt float32) {
	ls.scene.level.Tick(float64(dt))
	ls.scene.draw(ls.scene.level.Snapshot())
}
