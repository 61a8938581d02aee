// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-spacebarge/pkg/physics"
)

// Button names registered with engo.Input.
const (
	buttonReset   = "reset"
	buttonStop    = "stop"
	buttonZoomIn  = "zoomIn"
	buttonZoomOut = "zoomOut"
	buttonQuit    = "quit"
)

// Commander receives the player's commands; *engine.Level implements it.
type Commander interface {
	MovePlayerTo(destination physics.Vector3)
	StopPlayer()
	Reset()
}

// RegisterButtons binds the viewer's keys
func RegisterButtons() {
	engo.Input.RegisterButton(buttonReset, engo.KeyR)
	engo.Input.RegisterButton(buttonStop, engo.KeyS, engo.KeySpace)
	engo.Input.RegisterButton(buttonZoomIn, engo.KeyE)
	engo.Input.RegisterButton(buttonZoomOut, engo.KeyQ)
	engo.Input.RegisterButton(buttonQuit, engo.KeyEscape)
}

// InputSystem turns clicks into autopilot destinations and keys into level commands
type InputSystem struct {
	commander Commander
	camera    *CameraSystem
}

// NewInputSystem creates a new input system
func NewInputSystem(commander Commander, camera *CameraSystem) *InputSystem {
	return &InputSystem{commander: commander, camera: camera}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update processes input
func (is *InputSystem) Update(dt float32) {
	if engo.Input.Button(buttonQuit).JustPressed() {
		engo.Exit()
		return
	}
	if engo.Input.Button(buttonReset).JustPressed() {
		is.commander.Reset()
	}
	if engo.Input.Button(buttonStop).JustPressed() {
		is.commander.StopPlayer()
	}

	mouse := engo.Input.Mouse
	if mouse.Action == engo.Press && mouse.Button == engo.MouseButtonLeft {
		is.handleClick(engo.Point{
			X: mouse.X * engo.GameWidth() / engo.WindowWidth(),
			Y: mouse.Y * engo.GameHeight() / engo.WindowHeight(),
		})
	}
}

// handleClick sends the player to the world point under the cursor
func (is *InputSystem) handleClick(screen engo.Point) {
	is.commander.MovePlayerTo(is.camera.ScreenToWorld(screen))
}
