// pkg/reward/reward.go
package reward

import (
	"github.com/opd-ai/go-spacebarge/pkg/event"
)

// DefaultAmount is the score granted for destroying an enemy.
const DefaultAmount = 350

// ScoreKeeper accumulates score. *player.Stats satisfies it.
type ScoreKeeper interface {
	AddScore(amount int) int
}

// DestroyReward grants score when a specific flier is destroyed.
type DestroyReward struct {
	Amount int

	subscription *event.Subscription
}

// New creates a reward of the given amount; a non-positive amount uses DefaultAmount.
func New(amount int) *DestroyReward {
	if amount <= 0 {
		amount = DefaultAmount
	}
	return &DestroyReward{Amount: amount}
}

// Attach listens for flierID being destroyed and credits keeper each time.
// Attaching again replaces the previous binding.
func (r *DestroyReward) Attach(bus *event.Bus, flierID uint64, keeper ScoreKeeper) {
	r.Detach()
	r.subscription = bus.Subscribe(event.FlierDestroyed, func(e event.Event) {
		fe, ok := e.(*event.FlierEvent)
		if !ok || fe.FlierID != flierID {
			return
		}
		score := keeper.AddScore(r.Amount)
		bus.Publish(event.NewRewardEvent(r, flierID, r.Amount, score))
	})
}

// Detach stops granting the reward.
func (r *DestroyReward) Detach() {
	if r.subscription == nil {
		return
	}
	r.subscription.Cancel()
	r.subscription = nil
}

// Attached reports whether the reward is listening.
func (r *DestroyReward) Attached() bool {
	return r.subscription != nil
}
