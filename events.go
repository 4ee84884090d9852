package burrow

import (
	"github.com/akmonengine/burrow/level"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	WALL_HIT EventType = iota
	OBJECT_HIT
	TERRAIN_HIT
	CEILING_HIT
	DOOR_ACTIVATE
	DOOR_CLOSE
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

type WallHitEvent struct {
	Mover *level.Object
	Room  *level.Room
	Face  int

	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

func (e WallHitEvent) Type() EventType { return WALL_HIT }

type ObjectHitEvent struct {
	Mover *level.Object
	Other *level.Object

	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

func (e ObjectHitEvent) Type() EventType { return OBJECT_HIT }

type TerrainHitEvent struct {
	Mover *level.Object
	Cell  int

	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

func (e TerrainHitEvent) Type() EventType { return TERRAIN_HIT }

type CeilingHitEvent struct {
	Mover *level.Object
	Point mgl64.Vec3
}

func (e CeilingHitEvent) Type() EventType { return CEILING_HIT }

// Door events
type DoorActivateEvent struct {
	Mover *level.Object
	Room  *level.Room
}

func (e DoorActivateEvent) Type() EventType { return DOOR_ACTIVATE }

type DoorCloseEvent struct {
	Room *level.Room
}

func (e DoorCloseEvent) Type() EventType { return DOOR_CLOSE }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 256),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// emit buffers an event until the next flush
func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

// Flush sends all buffered events to their listeners and empties the
// buffer. Call it once per simulation step, after responses ran.
func (e *Events) Flush() {
	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}

	e.buffer = e.buffer[:0]
}
