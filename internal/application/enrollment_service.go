package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/conference-manager/internal/registry"
)

// EnrollmentService signs attendees up for events and cancels enrollments,
// enforcing the event capacity. It never touches the reservation index.
type EnrollmentService struct {
	events *registry.EventStore
	now    func() time.Time
	logger *slog.Logger

	// Serializes read-modify-write of an event's attendee set so two
	// concurrent signups cannot both take the last seat.
	mu sync.Mutex
}

// NewEnrollmentService constructs an enrollment service over the shared event store.
func NewEnrollmentService(events *registry.EventStore, now func() time.Time) *EnrollmentService {
	return NewEnrollmentServiceWithLogger(events, now, nil)
}

// NewEnrollmentServiceWithLogger constructs an enrollment service with a specified logger.
func NewEnrollmentServiceWithLogger(events *registry.EventStore, now func() time.Time, logger *slog.Logger) *EnrollmentService {
	if now == nil {
		now = time.Now
	}
	return &EnrollmentService{events: events, now: now, logger: defaultLogger(logger)}
}

func (s *EnrollmentService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EnrollmentService", operation, attrs...)
}

// Signup enrolls the attendee. It fails when the event is unknown, the
// attendee is already enrolled, or the event is full.
func (s *EnrollmentService) Signup(ctx context.Context, eventID, attendeeID string) (err error) {
	if s == nil || s.events == nil {
		return fmt.Errorf("EnrollmentService is not configured")
	}

	logger := s.loggerWith(ctx, "Signup", "event_id", eventID, "attendee_id", attendeeID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to sign up attendee", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "attendee signed up")
	}()

	if attendeeID == "" {
		vErr := &ValidationError{}
		vErr.add("attendee_id", "attendee id is required")
		err = vErr
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events.Get(eventID)
	if !ok {
		err = ErrNotFound
		return
	}
	if event.HasAttendee(attendeeID) {
		err = ErrAlreadyEnrolled
		return
	}
	if len(event.AttendeeIDs) >= event.Capacity {
		err = ErrEventFull
		return
	}

	event.AttendeeIDs = append(event.AttendeeIDs, attendeeID)
	event.UpdatedAt = s.now()
	s.events.Put(event)
	return
}

// Cancel removes the attendee's enrollment. It fails when the attendee is
// not enrolled in that event.
func (s *EnrollmentService) Cancel(ctx context.Context, eventID, attendeeID string) (err error) {
	if s == nil || s.events == nil {
		return fmt.Errorf("EnrollmentService is not configured")
	}

	logger := s.loggerWith(ctx, "Cancel", "event_id", eventID, "attendee_id", attendeeID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to cancel enrollment", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "enrollment cancelled")
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events.Get(eventID)
	if !ok {
		err = ErrNotFound
		return
	}
	if !event.HasAttendee(attendeeID) {
		err = ErrNotEnrolled
		return
	}

	remaining := make([]string, 0, len(event.AttendeeIDs)-1)
	for _, id := range event.AttendeeIDs {
		if id != attendeeID {
			remaining = append(remaining, id)
		}
	}
	event.AttendeeIDs = remaining
	event.UpdatedAt = s.now()
	s.events.Put(event)
	return
}
