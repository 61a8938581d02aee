// pkg/render/engo/assets.go
package engo

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/opd-ai/go-spacebarge/pkg/engine"
	"github.com/opd-ai/go-spacebarge/pkg/fuel"
)

const hudFontURL = "gomono.ttf"

// Palette
var (
	backgroundColor  = color.RGBA{10, 12, 20, 255}
	playerColor      = color.RGBA{80, 200, 255, 255}
	enemyColor       = color.RGBA{255, 90, 70, 255}
	wreckColor       = color.RGBA{110, 110, 110, 255}
	obstacleColor    = color.RGBA{120, 95, 70, 255}
	obstacleBorder   = color.RGBA{190, 160, 120, 255}
	waypointColor    = color.RGBA{255, 255, 255, 160}
	destinationColor = color.RGBA{120, 255, 120, 200}
	hudTextColor     = color.RGBA{230, 230, 230, 255}
	hudPanelColor    = color.RGBA{0, 0, 0, 160}

	fuelFullColor  = color.RGBA{90, 220, 90, 255}
	fuelLowColor   = color.RGBA{240, 200, 60, 255}
	fuelEmptyColor = color.RGBA{230, 60, 60, 255}
)

// AssetManager loads the HUD font and hands out shape drawables
type AssetManager struct {
	font *common.Font
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{}
}

// Preload registers the embedded HUD font with engo's file loader
func (am *AssetManager) Preload() error {
	if err := engo.Files.LoadReaderData(hudFontURL, bytes.NewReader(gomono.TTF)); err != nil {
		return fmt.Errorf("failed to load hud font: %w", err)
	}
	return nil
}

// LoadAssets builds the HUD font from the preloaded data
func (am *AssetManager) LoadAssets() error {
	am.font = &common.Font{
		URL:  hudFontURL,
		FG:   hudTextColor,
		Size: 18,
	}
	if err := am.font.CreatePreloaded(); err != nil {
		return fmt.Errorf("failed to create hud font: %w", err)
	}
	return nil
}

// Font returns the HUD font, nil before LoadAssets.
func (am *AssetManager) Font() *common.Font {
	return am.font
}

// FlierDrawable is an isosceles triangle with its apex at the nose.
func (am *AssetManager) FlierDrawable() common.Drawable {
	return common.Triangle{TriangleType: common.TriangleIsosceles}
}

// ObstacleDrawable is an outlined disc.
func (am *AssetManager) ObstacleDrawable() common.Drawable {
	return common.Circle{BorderWidth: 2, BorderColor: obstacleBorder}
}

// MarkerDrawable is used for waypoints, destinations and HUD bars.
func (am *AssetManager) MarkerDrawable() common.Drawable {
	return common.Rectangle{}
}

// FlierColor picks the tint for a flier.
func FlierColor(f engine.FlierState) color.Color {
	switch {
	case !f.Alive:
		return wreckColor
	case f.Player:
		return playerColor
	default:
		return enemyColor
	}
}

// BandColor picks the fuel bar tint for a band.
func BandColor(b fuel.Band) color.Color {
	switch b {
	case fuel.Empty:
		return fuelEmptyColor
	case fuel.Low:
		return fuelLowColor
	default:
		return fuelFullColor
	}
}
