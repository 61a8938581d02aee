// pkg/render/terminal.go
package render

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode"

	"github.com/opd-ai/go-spacebarge/pkg/engine"
	"github.com/opd-ai/go-spacebarge/pkg/physics"
)

const fuelBarWidth = 10

// TerminalRenderer draws a top-down ASCII view of the XZ plane, +Z up the screen
type TerminalRenderer struct {
	out         io.Writer
	width       int
	height      int
	buffer      [][]rune
	scale       float64 // world units per cell
	centerPos   physics.Vector2D
	clearScreen bool
}

// NewTerminalRenderer creates a new terminal renderer with the specified dimensions
func NewTerminalRenderer(out io.Writer, width, height int, scale float64) *TerminalRenderer {
	if scale <= 0 {
		scale = 1
	}
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	r := &TerminalRenderer{
		out:    out,
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
	}
	r.Clear()
	return r
}

// SetClearScreen makes Present emit an ANSI clear before every frame
func (r *TerminalRenderer) SetClearScreen(enabled bool) {
	r.clearScreen = enabled
}

// SetCenter sets the center position of the view, in world X and Z
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
}

// worldToScreen converts world coordinates to screen coordinates
func (r *TerminalRenderer) worldToScreen(pos physics.Vector3) (int, int) {
	screenX := math.Floor((pos.X-r.centerPos.X)/r.scale + float64(r.width)/2)
	screenY := math.Floor(float64(r.height)/2 - (pos.Z-r.centerPos.Y)/r.scale)
	return int(screenX), int(screenY)
}

// screenToWorld returns the world position at the middle of a cell
func (r *TerminalRenderer) screenToWorld(x, y int) physics.Vector3 {
	return physics.Vector3{
		X: (float64(x)+0.5-float64(r.width)/2)*r.scale + r.centerPos.X,
		Z: (float64(r.height)/2-float64(y)-0.5)*r.scale + r.centerPos.Y,
	}
}

func (r *TerminalRenderer) plot(pos physics.Vector3, symbol rune) {
	x, y := r.worldToScreen(pos)
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = symbol
	}
}

// Clear blanks the frame buffer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
}

// RenderObstacle fills every cell whose center lies inside the sphere
func (r *TerminalRenderer) RenderObstacle(o physics.Sphere) {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			if r.screenToWorld(x, y).Distance(o.Center.Flat()) < o.Radius {
				r.buffer[y][x] = '#'
			}
		}
	}
	r.plot(o.Center, '#')
}

// RenderRoute marks the autopilot waypoint and destination of a moving flier
func (r *TerminalRenderer) RenderRoute(f engine.FlierState) {
	if !f.Moving || !f.Alive {
		return
	}
	r.plot(f.Destination, '*')
	if f.Waypoint.Distance(f.Destination) > r.scale/2 {
		r.plot(f.Waypoint, '+')
	}
}

// RenderFlier draws the player as a heading arrow and enemies by initial
func (r *TerminalRenderer) RenderFlier(f engine.FlierState) {
	r.plot(f.Position, flierSymbol(f))
}

func flierSymbol(f engine.FlierState) rune {
	switch {
	case !f.Alive:
		return 'x'
	case f.Player:
		return headingArrow(f.Yaw)
	case f.Name != "":
		return unicode.ToUpper([]rune(f.Name)[0])
	default:
		return 'E'
	}
}

// headingArrow picks one of eight arrows for a yaw in degrees, 0 being up.
func headingArrow(yaw float64) rune {
	arrows := []rune{'^', '/', '>', '\\', 'v', '/', '<', '\\'}
	deg := math.Mod(math.Mod(yaw, 360)+360, 360)
	return arrows[int(math.Round(deg/45))%8]
}

// Render draws one complete frame of the level, centred on the player
func (r *TerminalRenderer) Render(state *engine.State) error {
	r.Clear()
	for _, f := range state.Fliers {
		if f.Player {
			r.SetCenter(f.Position.Planar())
		}
	}
	for _, o := range state.Obstacles {
		r.RenderObstacle(o)
	}
	for _, f := range state.Fliers {
		r.RenderRoute(f)
	}
	for _, f := range state.Fliers {
		r.RenderFlier(f)
	}
	return r.Present(HUDLine(state))
}

// Present writes the frame buffer with a border and the hud line underneath
func (r *TerminalRenderer) Present(hud string) error {
	w := bufio.NewWriter(r.out)
	if r.clearScreen {
		w.WriteString("\033[H\033[2J")
	}

	border := "+" + strings.Repeat("-", r.width) + "+\n"
	w.WriteString(border)
	for y := range r.buffer {
		w.WriteByte('|')
		w.WriteString(string(r.buffer[y]))
		w.WriteString("|\n")
	}
	w.WriteString(border)
	if hud != "" {
		w.WriteString(hud)
		w.WriteByte('\n')
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// HUDLine summarises fuel, canisters, score and the player's autopilot
func HUDLine(state *engine.State) string {
	filled := int(math.Round(physics.Clamp01(state.Fuel.Fill) * fuelBarWidth))
	bar := strings.Repeat("=", filled) + strings.Repeat(".", fuelBarWidth-filled)

	line := fmt.Sprintf("fuel [%s] %-5s (%dx)  score %d  t=%.1fs",
		bar, state.Fuel.Band, state.Fuel.Canisters, state.Score, state.Clock.Total)
	for _, f := range state.Fliers {
		if !f.Player {
			continue
		}
		switch {
		case !f.Alive:
			line += "  DESTROYED"
		case f.Moving:
			line += fmt.Sprintf("  autopilot %s", f.Outcome)
		}
	}
	return line
}
