// Package events provides an explicit publish/subscribe channel between the
// scheduling core and game glue (UI, score, haptics). The bus is a plain
// object handed to the components that need it; there is no static global.
//
// Lifetime rules: subscribers are notified synchronously on the publishing
// goroutine (the game tick), must not block, and must Unsubscribe before
// being discarded. Dispatch during Dispatch is permitted; subscription
// changes take effect for the next event.
package events

// EventType identifies a kind of event.
type EventType string

const (
	// EffectAdmitted fires when a play request passes admission control.
	EffectAdmitted EventType = "effect_admitted"
	// EffectRejected fires when a play request is rejected; the payload
	// carries the reason.
	EffectRejected EventType = "effect_rejected"
	// EffectStopped fires when an effect is explicitly stopped.
	EffectStopped EventType = "effect_stopped"
	// EffectAutoReleased fires when an auto-release timer returns an effect
	// to its pool.
	EffectAutoReleased EventType = "effect_auto_released"
	// PoolExhausted fires when an admitted effect could not acquire an
	// instance.
	PoolExhausted EventType = "pool_exhausted"
)

// RejectionReason explains why a play request was not admitted.
type RejectionReason string

const (
	ReasonNotRegistered RejectionReason = "not_registered"
	ReasonDistance      RejectionReason = "distance"
	ReasonBudget        RejectionReason = "budget"
	ReasonRateLimited   RejectionReason = "rate_limited"
	ReasonPoolExhausted RejectionReason = "pool_exhausted"
)

// Event is a published notification. Data depends on the type: effect
// events carry EffectPayload.
type Event struct {
	Type EventType
	Data interface{}
}

// EffectPayload accompanies every effect event.
type EffectPayload struct {
	TypeID string
	Reason RejectionReason // set for EffectRejected only
	Cost   int             // particle cost involved, when known
}

// Listener receives published events. Implementations must be comparable
// (pointer receivers are the norm) so Unsubscribe can find them.
type Listener interface {
	OnEvent(event Event)
}

// Bus dispatches events to subscribers. Not safe for concurrent mutation;
// owned by the game tick like the rest of the scheduling core.
type Bus struct {
	listeners map[EventType][]Listener
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[EventType][]Listener),
	}
}

// Subscribe registers a listener for an event type.
func (b *Bus) Subscribe(eventType EventType, listener Listener) {
	b.listeners[eventType] = append(b.listeners[eventType], listener)
}

// Unsubscribe removes a previously registered listener.
func (b *Bus) Unsubscribe(eventType EventType, listener Listener) {
	listeners, exists := b.listeners[eventType]
	if !exists {
		return
	}
	for i, l := range listeners {
		if l == listener {
			b.listeners[eventType] = append(listeners[:i], listeners[i+1:]...)
			break
		}
	}
}

// Dispatch delivers the event to every subscriber of its type.
func (b *Bus) Dispatch(event Event) {
	listeners, exists := b.listeners[event.Type]
	if !exists {
		return
	}
	// Snapshot so subscription changes during delivery affect only the next
	// event.
	snapshot := make([]Listener, len(listeners))
	copy(snapshot, listeners)
	for _, listener := range snapshot {
		listener.OnEvent(event)
	}
}
