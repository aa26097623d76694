package game

import "gonum.org/v1/gonum/spatial/r3"

type EventType int

const (
	EventTilesProceeded EventType = iota
	EventCrash
	EventWallHit
	EventSplash
	EventRecovered
	EventGameOver
	EventNearMiss
)

type Event struct {
	Type EventType
	Pos  r3.Vec
	Data int // Generic payload (evicted tile ID, crash side, 1 if a life was lost).
}

type EventHandler func(Event)

type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	if eb == nil {
		return
	}
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
