package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/conference-manager/internal/registry"
)

var (
	roomCounter  uint64
	eventCounter uint64
)

var referenceTime = time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// RoomOption configures a generated room fixture.
type RoomOption func(*registry.Room)

// WithRoomNumber overrides the room number.
func WithRoomNumber(number int) RoomOption {
	return func(room *registry.Room) {
		room.Number = number
	}
}

// WithRoomCapacity overrides the room capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(room *registry.Room) {
		room.Capacity = capacity
	}
}

// WithRoomFeatures sets the feature flags.
func WithRoomFeatures(hasTech, hasTable, hasStage bool) RoomOption {
	return func(room *registry.Room) {
		room.HasTech = hasTech
		room.HasTable = hasTable
		room.HasStage = hasStage
	}
}

// WithRoomConstraints sets the constraint tags.
func WithRoomConstraints(tags ...string) RoomOption {
	return func(room *registry.Room) {
		room.Constraints = tags
	}
}

// NewRoomFixture returns a deterministic room with optional overrides. Each
// call yields a distinct ID and room number unless overridden.
func NewRoomFixture(opts ...RoomOption) registry.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	room := registry.Room{
		ID:        fmt.Sprintf("room-%03d", idx),
		Number:    100 + int(idx),
		Capacity:  40,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// EventOption configures a generated event fixture.
type EventOption func(*registry.Event)

// WithEventTitle overrides the event title.
func WithEventTitle(title string) EventOption {
	return func(event *registry.Event) {
		event.Title = title
	}
}

// WithEventStart overrides the start time.
func WithEventStart(start time.Time) EventOption {
	return func(event *registry.Event) {
		event.Start = start
	}
}

// WithEventDuration overrides the duration.
func WithEventDuration(d time.Duration) EventOption {
	return func(event *registry.Event) {
		event.Duration = d
	}
}

// WithEventRoom places the event in the given room.
func WithEventRoom(roomID string) EventOption {
	return func(event *registry.Event) {
		event.RoomID = roomID
	}
}

// WithEventType overrides the event type.
func WithEventType(typ registry.EventType) EventOption {
	return func(event *registry.Event) {
		event.Type = typ
	}
}

// WithEventCapacity overrides the attendee capacity.
func WithEventCapacity(capacity int) EventOption {
	return func(event *registry.Event) {
		event.Capacity = capacity
	}
}

// WithSpeakers sets the speaker list.
func WithSpeakers(speakerIDs ...string) EventOption {
	return func(event *registry.Event) {
		event.SpeakerIDs = speakerIDs
	}
}

// WithAttendees sets the attendee list.
func WithAttendees(attendeeIDs ...string) EventOption {
	return func(event *registry.Event) {
		event.AttendeeIDs = attendeeIDs
	}
}

// NewEventFixture returns a deterministic event with optional overrides.
// Successive fixtures start an hour apart so they never collide by default.
func NewEventFixture(opts ...EventOption) registry.Event {
	idx := atomic.AddUint64(&eventCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	event := registry.Event{
		ID:        fmt.Sprintf("event-%03d", idx),
		Title:     fmt.Sprintf("Session %03d", idx),
		Start:     referenceTime.Add(time.Duration(idx) * time.Hour),
		Duration:  time.Hour,
		RoomID:    "room-001",
		Type:      registry.EventTypeNoSpeaker,
		Capacity:  40,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&event)
	}
	return event
}
