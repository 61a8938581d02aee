// pkg/render/guarded.go
package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-spacebarge/pkg/engine"
	"github.com/opd-ai/go-spacebarge/pkg/logging"
)

// GuardSettings tunes a GuardedRenderer.
type GuardSettings struct {
	// MaxConsecutiveFailures trips the breaker.
	MaxConsecutiveFailures uint32
	// Cooldown is how long frames are skipped before a trial frame.
	Cooldown time.Duration
}

// DefaultGuardSettings trips after 5 failed frames and retries every 5s.
func DefaultGuardSettings() GuardSettings {
	return GuardSettings{MaxConsecutiveFailures: 5, Cooldown: 5 * time.Second}
}

// GuardedRenderer wraps a renderer in a circuit breaker. After repeated
// failures frames are skipped until the cooldown passes.
type GuardedRenderer struct {
	next    Renderer
	breaker *gobreaker.CircuitBreaker
}

// NewGuardedRenderer wraps next.
func NewGuardedRenderer(next Renderer, settings GuardSettings, logger *logging.Logger) *GuardedRenderer {
	if logger == nil {
		logger = logging.Discard()
	}
	if settings.MaxConsecutiveFailures == 0 {
		settings.MaxConsecutiveFailures = DefaultGuardSettings().MaxConsecutiveFailures
	}

	return &GuardedRenderer{
		next: next,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "renderer",
			MaxRequests: 1,
			Timeout:     settings.Cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= settings.MaxConsecutiveFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn(context.Background(), "Render circuit breaker state changed",
					"name", name,
					"from", from.String(),
					"to", to.String(),
				)
			},
		}),
	}
}

// Render draws state through the wrapped renderer. Skipped frames return
// ErrFrameSkipped.
func (g *GuardedRenderer) Render(state *engine.State) error {
	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, g.next.Render(state)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrFrameSkipped
	}
	return err
}

// State returns the breaker state.
func (g *GuardedRenderer) State() gobreaker.State {
	return g.breaker.State()
}

// Name satisfies health.HealthCheck.
func (g *GuardedRenderer) Name() string {
	return "renderer"
}

// Check satisfies health.HealthCheck; an open breaker is unhealthy.
func (g *GuardedRenderer) Check(ctx context.Context) error {
	if state := g.breaker.State(); state == gobreaker.StateOpen {
		return fmt.Errorf("renderer circuit %s after %d consecutive failures", state, g.breaker.Counts().ConsecutiveFailures)
	}
	return nil
}

// ErrFrameSkipped is returned while the breaker is open.
var ErrFrameSkipped = errors.New("frame skipped: renderer circuit open")

var _ Renderer = (*GuardedRenderer)(nil)
