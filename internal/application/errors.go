package application

import "errors"

var (
	// ErrNotFound is returned when the requested room or event does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrRoomNumberTaken is returned when a room number is already in use.
	ErrRoomNumberTaken = errors.New("application: room number taken")
	// ErrTimeConflict is returned when a window overlaps an existing reservation in the same room.
	ErrTimeConflict = errors.New("application: time conflict")
	// ErrCapacityExceeded is returned when an event capacity exceeds its room's capacity.
	ErrCapacityExceeded = errors.New("application: capacity exceeded")
	// ErrEventFull is returned when a signup would exceed the event capacity.
	ErrEventFull = errors.New("application: event full")
	// ErrAlreadyEnrolled is returned when the attendee is already signed up.
	ErrAlreadyEnrolled = errors.New("application: already enrolled")
	// ErrNotEnrolled is returned when cancelling an enrollment that does not exist.
	ErrNotEnrolled = errors.New("application: not enrolled")
	// ErrNoSpeakers is returned when removing a speaker from a speakerless event.
	ErrNoSpeakers = errors.New("application: event has no speakers")
	// ErrEventType is returned when a speaker operation does not match the event's type.
	ErrEventType = errors.New("application: operation does not match event type")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
