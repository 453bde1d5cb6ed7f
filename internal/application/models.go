package application

import (
	"time"

	"github.com/example/conference-manager/internal/registry"
)

// RoomInput captures caller provided fields for a new room.
type RoomInput struct {
	Number   int
	Capacity int
	HasTech  bool
	HasTable bool
	HasStage bool
}

// EventInput captures caller provided fields for a new event. It plays the
// role of the event builder: the service validates the referenced room before
// anything is committed.
type EventInput struct {
	Title      string
	Start      time.Time
	Duration   time.Duration
	RoomNumber int
	Type       registry.EventType
	Capacity   int
}

// SuggestRoomsParams narrows the room suggestion query. Capacity is the
// minimum seat count; Constraints must all be present on a suggested room.
type SuggestRoomsParams struct {
	Start       time.Time
	Duration    time.Duration
	Capacity    int
	Constraints []string
}
