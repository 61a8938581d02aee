// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-spacebarge/pkg/engine"
	"github.com/opd-ai/go-spacebarge/pkg/physics"
)

// HUD layout in screen pixels.
const (
	hudMargin    = 10
	fuelBarW     = 200
	fuelBarH     = 16
	pipSize      = 12
	pipGap       = 6
	maxPips      = 8
	hudTextY     = hudMargin + fuelBarH + pipSize + 2*pipGap
	hudPanelW    = fuelBarW + 2*hudMargin
	hudPanelH    = hudTextY + 24
	hudBaseZ     = 100
	hudTextLimit = 48
)

// HUD draws the fuel bar, spare canisters and score in screen space
type HUD struct {
	renderSystem *common.RenderSystem
	assets       *AssetManager

	panel   *sprite
	fuelBg  *sprite
	fuelBar *sprite
	pips    []*sprite
	text    *sprite

	lastText string
}

// NewHUD creates the HUD sprites
func NewHUD(renderSystem *common.RenderSystem, assets *AssetManager) *HUD {
	hud := &HUD{renderSystem: renderSystem, assets: assets}

	hud.panel = hud.newRect(hudPanelColor, hudBaseZ, 0, 0, hudPanelW, hudPanelH)
	hud.fuelBg = hud.newRect(wreckColor, hudBaseZ+1, hudMargin, hudMargin, fuelBarW, fuelBarH)
	hud.fuelBar = hud.newRect(fuelFullColor, hudBaseZ+2, hudMargin, hudMargin, fuelBarW, fuelBarH)
	for i := 0; i < maxPips; i++ {
		hud.pips = append(hud.pips, hud.newRect(fuelFullColor, hudBaseZ+2, 0, 0, pipSize, pipSize))
	}

	if font := assets.Font(); font != nil {
		hud.text = &sprite{BasicEntity: ecs.NewBasic()}
		hud.text.RenderComponent = common.RenderComponent{
			Drawable: common.Text{Font: font, Text: " "},
			Color:    hudTextColor,
		}
		hud.text.RenderComponent.SetShader(common.TextHUDShader)
		hud.text.RenderComponent.SetZIndex(hudBaseZ + 2)
		hud.text.Position = engo.Point{X: hudMargin, Y: hudTextY}
		renderSystem.Add(&hud.text.BasicEntity, &hud.text.RenderComponent, &hud.text.SpaceComponent)
	}
	return hud
}

func (hud *HUD) newRect(c color.Color, z float32, x, y, w, h float32) *sprite {
	s := &sprite{BasicEntity: ecs.NewBasic()}
	s.RenderComponent = common.RenderComponent{Drawable: hud.assets.MarkerDrawable(), Color: c}
	s.RenderComponent.SetShader(common.LegacyHUDShader)
	s.RenderComponent.SetZIndex(z)
	s.SpaceComponent = common.SpaceComponent{Position: engo.Point{X: x, Y: y}, Width: w, Height: h}
	hud.renderSystem.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	return s
}

// Sync updates the HUD from a level snapshot
func (hud *HUD) Sync(state *engine.State) {
	hud.fuelBar.Width = fuelFillWidth(state.Fuel.Fill)
	hud.fuelBar.Color = BandColor(state.Fuel.Band)

	for i, pip := range hud.pips {
		pip.Hidden = i >= state.Fuel.Canisters
		pip.Color = hud.fuelBar.Color
		pip.Width, pip.Height, pip.Position = pipLayout(i, state.Fuel.PulseScale)
	}

	if hud.text == nil {
		return
	}
	if text := hudText(state); text != hud.lastText {
		hud.lastText = text
		hud.text.Drawable = common.Text{Font: hud.assets.Font(), Text: text}
	}
}

// fuelFillWidth is the fuel bar width in pixels for a fill ratio
func fuelFillWidth(fill float64) float32 {
	return float32(physics.Clamp01(fill)) * fuelBarW
}

// pipLayout sizes and places canister pip i, scaled about its centre by the
// refill pulse
func pipLayout(i int, pulse float64) (float32, float32, engo.Point) {
	if pulse <= 0 {
		pulse = 1
	}
	size := pipSize * float32(pulse)
	cx := float32(hudMargin + i*(pipSize+pipGap) + pipSize/2)
	cy := float32(hudMargin + fuelBarH + pipGap + pipSize/2)
	return size, size, engo.Point{X: cx - size/2, Y: cy - size/2}
}

// hudText is the score line under the fuel bar
func hudText(state *engine.State) string {
	text := fmt.Sprintf("score %d  %dx  %s", state.Score, state.Fuel.Canisters, state.Fuel.Band)
	for _, f := range state.Fliers {
		if f.Player && !f.Alive {
			text += "  DESTROYED (R)"
		}
	}
	if len(text) > hudTextLimit {
		text = text[:hudTextLimit]
	}
	return text
}
