// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-spacebarge/pkg/engine"
	"github.com/opd-ai/go-spacebarge/pkg/logging"
)

// Renderer draws level snapshots.
type Renderer interface {
	Render(state *engine.State) error
}

// NullRenderer draws nothing and logs a debug line per frame.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &NullRenderer{logger: logger}
}

// Render implements Renderer.
func (d *NullRenderer) Render(state *engine.State) error {
	ctx := context.Background()
	if state == nil {
		d.logger.Debug(ctx, "Render called with nil state")
		return nil
	}
	d.logger.Debug(ctx, "Frame rendered",
		"tick", state.Clock.Tick,
		"fliers", len(state.Fliers),
		"score", state.Score,
		"fuel_band", state.Fuel.Band.String(),
	)
	return nil
}

var (
	_ Renderer = (*NullRenderer)(nil)
	_ Renderer = (*TerminalRenderer)(nil)
)
