// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Gameplay event types
const (
	FlierSpawned       Type = "flier_spawned"
	FlierDestroyed     Type = "flier_destroyed"
	FlierRespawned     Type = "flier_respawned"
	DestinationReached Type = "destination_reached"
	FuelEmpty          Type = "fuel_empty"
	FuelRefilled       Type = "fuel_refilled"
	RewardGranted      Type = "reward_granted"
	LevelStarted       Type = "level_started"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription is returned by Subscribe; Cancel removes the handler.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers. Handlers run on the
// caller's goroutine and may subscribe or cancel without deadlocking.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := append([]subscriber(nil), b.handlers[event.GetType()]...)
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// FlierEvent reports a lifecycle change of one flier.
type FlierEvent struct {
	BaseEvent
	FlierID uint64
}

// NewFlierEvent creates a new flier event
func NewFlierEvent(eventType Type, source interface{}, flierID uint64) *FlierEvent {
	return &FlierEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		FlierID: flierID,
	}
}

// RewardEvent is published when destroying a flier pays out score.
type RewardEvent struct {
	BaseEvent
	FlierID uint64
	Amount  int
	Score   int
}

// NewRewardEvent creates a new reward event
func NewRewardEvent(source interface{}, flierID uint64, amount, score int) *RewardEvent {
	return &RewardEvent{
		BaseEvent: BaseEvent{
			EventType: RewardGranted,
			Source:    source,
		},
		FlierID: flierID,
		Amount:  amount,
		Score:   score,
	}
}

// FuelEvent reports a fuel tank running dry or being refilled.
type FuelEvent struct {
	BaseEvent
	FlierID   uint64
	Canisters int
}

// NewFuelEvent creates a new fuel event
func NewFuelEvent(eventType Type, source interface{}, flierID uint64, canisters int) *FuelEvent {
	return &FuelEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		FlierID:   flierID,
		Canisters: canisters,
	}
}
