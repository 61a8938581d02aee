// pkg/fuel/tank.go
package fuel

import (
	"github.com/opd-ai/go-spacebarge/pkg/event"
	"github.com/opd-ai/go-spacebarge/pkg/flier"
	"github.com/opd-ai/go-spacebarge/pkg/physics"
)

// Tank defaults.
const (
	DefaultCapacity  = 100.0
	DefaultDrainRate = 2.0 // units per second while thrusting

	pulseStartScale = 1.8
	pulseSpeed      = 5.0
)

// Band is the coarse fill level shown by the HUD colour.
type Band int

const (
	Full Band = iota
	Low
	Empty
)

func (b Band) String() string {
	switch b {
	case Low:
		return "low"
	case Empty:
		return "empty"
	default:
		return "full"
	}
}

// BandFor classifies a fill ratio in [0, 1].
func BandFor(fill float64) Band {
	switch {
	case fill < 0.3:
		return Empty
	case fill < 0.45:
		return Low
	default:
		return Full
	}
}

// Consumer is the flier burning the fuel. *flier.Flier satisfies it.
type Consumer interface {
	ID() uint64
	ThrustPower() float64
	Alive() bool
	AddEffect(e flier.Effect)
	RemoveEffect(kind flier.EffectKind)
}

// Reserve hands out spare canisters. *player.Stats satisfies it.
type Reserve interface {
	TakeCanister() bool
	FuelCanisters() int
}

// Tank drains while its consumer thrusts. When it runs dry a spare canister
// refills it; without one the consumer is slowed by the FuelStarved effect.
type Tank struct {
	capacity  float64
	drainRate float64
	amount    float64
	pulse     float64 // refill animation progress, 1 when idle

	consumer Consumer
	reserve  Reserve
	bus      *event.Bus
}

// Option configures a Tank.
type Option func(*Tank)

// WithEventBus publishes FuelEmpty and FuelRefilled on bus.
func WithEventBus(bus *event.Bus) Option {
	return func(t *Tank) { t.bus = bus }
}

// NewTank creates a full tank. Non-positive capacity or negative drain rate
// fall back to the defaults.
func NewTank(capacity, drainRate float64, reserve Reserve, opts ...Option) *Tank {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if drainRate < 0 {
		drainRate = DefaultDrainRate
	}
	t := &Tank{
		capacity:  capacity,
		drainRate: drainRate,
		amount:    capacity,
		pulse:     1,
		reserve:   reserve,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Bind attaches the tank to a consumer. A nil consumer leaves the tank idle.
func (t *Tank) Bind(c Consumer) {
	t.consumer = c
}

// Reset fills the tank and lifts any fuel starvation on the bound consumer.
func (t *Tank) Reset() {
	t.amount = t.capacity
	t.pulse = 1
	if t.consumer != nil {
		t.consumer.RemoveEffect(flier.KindFuelStarved)
	}
}

// Update advances the refill pulse and drains fuel while the consumer thrusts.
func (t *Tank) Update(deltaTime float64) {
	if t.pulse < 1 {
		t.pulse = physics.Clamp01(t.pulse + deltaTime*pulseSpeed)
	}
	if t.consumer == nil || t.consumer.ThrustPower() <= 0 {
		return
	}
	if t.amount <= 0 || !t.consumer.Alive() {
		return
	}

	t.amount = physics.Clamp(t.amount-deltaTime*t.drainRate, 0, t.capacity)
	if t.amount <= 0 {
		t.onEmpty()
	}
}

func (t *Tank) onEmpty() {
	if t.reserve != nil && t.reserve.TakeCanister() {
		t.refill()
		t.publish(event.FuelRefilled)
		return
	}
	t.consumer.AddEffect(flier.FuelStarved())
	t.publish(event.FuelEmpty)
}

func (t *Tank) refill() {
	t.amount = t.capacity
	t.pulse = 0
	t.consumer.RemoveEffect(flier.KindFuelStarved)
}

func (t *Tank) publish(eventType event.Type) {
	if t.bus == nil {
		return
	}
	canisters := 0
	if t.reserve != nil {
		canisters = t.reserve.FuelCanisters()
	}
	t.bus.Publish(event.NewFuelEvent(eventType, t, t.consumer.ID(), canisters))
}

// Amount returns the fuel left.
func (t *Tank) Amount() float64 { return t.amount }

// Capacity returns the full-tank amount.
func (t *Tank) Capacity() float64 { return t.capacity }

// Fill returns the fuel left as a ratio of capacity.
func (t *Tank) Fill() float64 { return t.amount / t.capacity }

// Band returns the HUD colour band for the current fill.
func (t *Tank) Band() Band { return BandFor(t.Fill()) }

// PulseScale is the canister counter's scale, 1.8 right after a refill
// easing back to 1.
func (t *Tank) PulseScale() float64 {
	return physics.Lerp(pulseStartScale, 1, t.pulse)
}

// Canisters returns the spare canisters left in the reserve.
func (t *Tank) Canisters() int {
	if t.reserve == nil {
		return 0
	}
	return t.reserve.FuelCanisters()
}
