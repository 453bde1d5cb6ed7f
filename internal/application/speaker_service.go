package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/conference-manager/internal/registry"
)

// SpeakerService enforces the speaker-cardinality rules per event type. Each
// operation checks the event's declared type itself, so a caller invoking the
// wrong operation fails with ErrEventType instead of silently corrupting the
// speaker set.
type SpeakerService struct {
	events *registry.EventStore
	now    func() time.Time
	logger *slog.Logger
}

// NewSpeakerService constructs a speaker service over the shared event store.
func NewSpeakerService(events *registry.EventStore, now func() time.Time) *SpeakerService {
	return NewSpeakerServiceWithLogger(events, now, nil)
}

// NewSpeakerServiceWithLogger constructs a speaker service with a specified logger.
func NewSpeakerServiceWithLogger(events *registry.EventStore, now func() time.Time, logger *slog.Logger) *SpeakerService {
	if now == nil {
		now = time.Now
	}
	return &SpeakerService{events: events, now: now, logger: defaultLogger(logger)}
}

func (s *SpeakerService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SpeakerService", operation, attrs...)
}

// AssignSoleSpeaker sets the speaker of a OneSpeaker event. An already
// assigned speaker is replaced in a single logical step.
func (s *SpeakerService) AssignSoleSpeaker(ctx context.Context, eventID, speakerID string) (err error) {
	if s == nil || s.events == nil {
		return fmt.Errorf("SpeakerService is not configured")
	}

	logger := s.loggerWith(ctx, "AssignSoleSpeaker", "event_id", eventID, "speaker_id", speakerID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to assign speaker", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "sole speaker assigned")
	}()

	if speakerID == "" {
		vErr := &ValidationError{}
		vErr.add("speaker_id", "speaker id is required")
		err = vErr
		return
	}

	event, ok := s.events.Get(eventID)
	if !ok {
		err = ErrNotFound
		return
	}
	if event.Type != registry.EventTypeOneSpeaker {
		err = ErrEventType
		return
	}

	event.SpeakerIDs = []string{speakerID}
	event.UpdatedAt = s.now()
	s.events.Put(event)
	return
}

// AddSpeaker appends a speaker to a MultiSpeaker event. The speaker set is
// deduplicated; adding a speaker twice succeeds without a second entry.
func (s *SpeakerService) AddSpeaker(ctx context.Context, eventID, speakerID string) (err error) {
	if s == nil || s.events == nil {
		return fmt.Errorf("SpeakerService is not configured")
	}

	logger := s.loggerWith(ctx, "AddSpeaker", "event_id", eventID, "speaker_id", speakerID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add speaker", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "speaker added")
	}()

	if speakerID == "" {
		vErr := &ValidationError{}
		vErr.add("speaker_id", "speaker id is required")
		err = vErr
		return
	}

	event, ok := s.events.Get(eventID)
	if !ok {
		err = ErrNotFound
		return
	}
	if event.Type != registry.EventTypeMultiSpeaker {
		err = ErrEventType
		return
	}
	if event.HasSpeaker(speakerID) {
		return
	}

	event.SpeakerIDs = append(event.SpeakerIDs, speakerID)
	event.UpdatedAt = s.now()
	s.events.Put(event)
	return
}

// RemoveSpeaker removes a speaker from the event. Removing from a
// speakerless event fails with ErrNoSpeakers; removing a speaker who is not
// assigned, while others are, succeeds as a no-op.
func (s *SpeakerService) RemoveSpeaker(ctx context.Context, eventID, speakerID string) (err error) {
	if s == nil || s.events == nil {
		return fmt.Errorf("SpeakerService is not configured")
	}

	logger := s.loggerWith(ctx, "RemoveSpeaker", "event_id", eventID, "speaker_id", speakerID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to remove speaker", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "speaker removed")
	}()

	event, ok := s.events.Get(eventID)
	if !ok {
		err = ErrNotFound
		return
	}
	if len(event.SpeakerIDs) == 0 {
		err = ErrNoSpeakers
		return
	}
	if !event.HasSpeaker(speakerID) {
		return
	}

	remaining := make([]string, 0, len(event.SpeakerIDs)-1)
	for _, id := range event.SpeakerIDs {
		if id != speakerID {
			remaining = append(remaining, id)
		}
	}
	event.SpeakerIDs = remaining
	event.UpdatedAt = s.now()
	s.events.Put(event)
	return
}
