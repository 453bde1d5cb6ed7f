package application

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/example/conference-manager/internal/directory"
	"github.com/example/conference-manager/internal/registry"
	"github.com/example/conference-manager/internal/scheduler"
)

// Engine bundles the catalog state with the services that operate on it.
// All services share the same registry, store, and reservation index, so a
// single Engine is the unit a process works with.
type Engine struct {
	Rooms  *registry.RoomRegistry
	Events *registry.EventStore
	Index  *scheduler.Index

	RoomService       *RoomService
	EventService      *EventService
	SpeakerService    *SpeakerService
	EnrollmentService *EnrollmentService
	Directory         *directory.Service
}

// EngineOption adjusts optional engine behavior at construction time.
type EngineOption func(*Engine)

// WithSuggestionCacheTTL bounds how long the event service serves cached room
// suggestions. Non-positive values keep the default.
func WithSuggestionCacheTTL(ttl time.Duration) EngineOption {
	return func(e *Engine) { e.EventService.setSuggestionCacheTTL(ttl) }
}

// NewEngine assembles an empty engine.
func NewEngine(idGenerator func() string, now func() time.Time, logger *slog.Logger, opts ...EngineOption) *Engine {
	rooms := registry.NewRoomRegistry()
	events := registry.NewEventStore()
	index := scheduler.NewIndex()

	engine := &Engine{
		Rooms:             rooms,
		Events:            events,
		Index:             index,
		RoomService:       NewRoomServiceWithLogger(rooms, idGenerator, now, logger),
		EventService:      NewEventServiceWithLogger(rooms, events, index, idGenerator, now, logger),
		SpeakerService:    NewSpeakerServiceWithLogger(events, now, logger),
		EnrollmentService: NewEnrollmentServiceWithLogger(events, now, logger),
		Directory:         directory.NewServiceWithLogger(idGenerator, now, logger),
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Restore loads a previously exported state into an empty engine and rebuilds
// the reservation index. It rejects snapshots whose events double book a room,
// reference unknown rooms, or break the capacity bounds.
func (e *Engine) Restore(rooms []registry.Room, events []registry.Event) error {
	for _, room := range rooms {
		if !e.Rooms.Add(room) {
			return fmt.Errorf("restore: duplicate room number %d", room.Number)
		}
	}

	for _, event := range events {
		room, ok := e.Rooms.Get(event.RoomID)
		if !ok {
			return fmt.Errorf("restore: event %s references unknown room %s", event.ID, event.RoomID)
		}
		if !event.Type.Valid() {
			return fmt.Errorf("restore: event %s has unknown type %q", event.ID, event.Type)
		}
		if event.Capacity > room.Capacity {
			return fmt.Errorf("restore: event %s capacity %d exceeds room %d capacity %d", event.ID, event.Capacity, room.Number, room.Capacity)
		}
		if len(event.AttendeeIDs) > event.Capacity {
			return fmt.Errorf("restore: event %s enrolls %d attendees for capacity %d", event.ID, len(event.AttendeeIDs), event.Capacity)
		}
		if e.Index.Overlaps(event.RoomID, event.Start, event.End(), "") {
			return fmt.Errorf("restore: event %s overlaps an earlier event in room %s", event.ID, event.RoomID)
		}
		e.Events.Put(event)
		e.Index.Reserve(event.RoomID, event.ID, event.Start, event.End())
	}
	return nil
}

// State exports the current rooms and events.
func (e *Engine) State() ([]registry.Room, []registry.Event) {
	return e.Rooms.List(), e.Events.All()
}
