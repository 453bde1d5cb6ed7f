package registry

import "time"

// EventType governs how many speakers an event may carry.
type EventType string

const (
	// EventTypeNoSpeaker permits no speakers at all.
	EventTypeNoSpeaker EventType = "no_speaker"
	// EventTypeOneSpeaker permits at most one speaker.
	EventTypeOneSpeaker EventType = "one_speaker"
	// EventTypeMultiSpeaker permits any number of speakers.
	EventTypeMultiSpeaker EventType = "multi_speaker"
)

// Valid reports whether the type is one of the known variants.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeNoSpeaker, EventTypeOneSpeaker, EventTypeMultiSpeaker:
		return true
	}
	return false
}

// Room represents a physical or virtual space events can be scheduled into.
// Number is the user-facing identifier; ID is internal. Number and Capacity
// are immutable after creation.
type Room struct {
	ID          string
	Number      int
	Capacity    int
	HasTech     bool
	HasTable    bool
	HasStage    bool
	Constraints []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy so callers cannot mutate registry state.
func (r Room) Clone() Room {
	out := r
	if r.Constraints != nil {
		out.Constraints = make([]string, len(r.Constraints))
		copy(out.Constraints, r.Constraints)
	}
	return out
}

// Event represents a scheduled occupation of a room for a time window.
// The window is half-open: [Start, Start+Duration).
type Event struct {
	ID          string
	Title       string
	Start       time.Time
	Duration    time.Duration
	RoomID      string
	Type        EventType
	Capacity    int
	SpeakerIDs  []string
	AttendeeIDs []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// End returns the exclusive end of the event's time window.
func (e Event) End() time.Time {
	return e.Start.Add(e.Duration)
}

// HasSpeaker reports whether the speaker is already on the event.
func (e Event) HasSpeaker(speakerID string) bool {
	for _, id := range e.SpeakerIDs {
		if id == speakerID {
			return true
		}
	}
	return false
}

// HasAttendee reports whether the attendee is enrolled in the event.
func (e Event) HasAttendee(attendeeID string) bool {
	for _, id := range e.AttendeeIDs {
		if id == attendeeID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot mutate store state.
func (e Event) Clone() Event {
	out := e
	if e.SpeakerIDs != nil {
		out.SpeakerIDs = make([]string, len(e.SpeakerIDs))
		copy(out.SpeakerIDs, e.SpeakerIDs)
	}
	if e.AttendeeIDs != nil {
		out.AttendeeIDs = make([]string, len(e.AttendeeIDs))
		copy(out.AttendeeIDs, e.AttendeeIDs)
	}
	return out
}
