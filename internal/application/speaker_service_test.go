package application

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/example/conference-manager/internal/registry"
)

func newTestSpeakerService() (*SpeakerService, *registry.EventStore) {
	events := registry.NewEventStore()
	now := func() time.Time { return nineAM }
	return NewSpeakerService(events, now), events
}

func putEvent(events *registry.EventStore, id string, typ registry.EventType, speakers ...string) {
	events.Put(registry.Event{
		ID:         id,
		Title:      "Session",
		Start:      nineAM,
		Duration:   time.Hour,
		RoomID:     "room-1",
		Type:       typ,
		Capacity:   10,
		SpeakerIDs: speakers,
	})
}

func TestSpeakerService_AssignSoleSpeaker(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns when no speaker is set", func(t *testing.T) {
		svc, events := newTestSpeakerService()
		putEvent(events, "event-1", registry.EventTypeOneSpeaker)

		if err := svc.AssignSoleSpeaker(ctx, "event-1", "speaker-a"); err != nil {
			t.Fatalf("AssignSoleSpeaker failed: %v", err)
		}
		event, _ := events.Get("event-1")
		if !reflect.DeepEqual(event.SpeakerIDs, []string{"speaker-a"}) {
			t.Fatalf("expected {speaker-a}, got %v", event.SpeakerIDs)
		}
	})

	t.Run("replaces an existing speaker in one step", func(t *testing.T) {
		svc, events := newTestSpeakerService()
		putEvent(events, "event-1", registry.EventTypeOneSpeaker, "speaker-a")

		if err := svc.AssignSoleSpeaker(ctx, "event-1", "speaker-b"); err != nil {
			t.Fatalf("AssignSoleSpeaker failed: %v", err)
		}
		event, _ := events.Get("event-1")
		if !reflect.DeepEqual(event.SpeakerIDs, []string{"speaker-b"}) {
			t.Fatalf("expected exactly {speaker-b}, got %v", event.SpeakerIDs)
		}
	})

	t.Run("rejects non one-speaker events", func(t *testing.T) {
		svc, events := newTestSpeakerService()
		putEvent(events, "event-1", registry.EventTypeNoSpeaker)
		putEvent(events, "event-2", registry.EventTypeMultiSpeaker)

		if err := svc.AssignSoleSpeaker(ctx, "event-1", "speaker-a"); !errors.Is(err, ErrEventType) {
			t.Fatalf("expected ErrEventType for no-speaker event, got %v", err)
		}
		if err := svc.AssignSoleSpeaker(ctx, "event-2", "speaker-a"); !errors.Is(err, ErrEventType) {
			t.Fatalf("expected ErrEventType for multi-speaker event, got %v", err)
		}
	})

	t.Run("fails for unknown events", func(t *testing.T) {
		svc, _ := newTestSpeakerService()
		if err := svc.AssignSoleSpeaker(ctx, "event-404", "speaker-a"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSpeakerService_AddSpeaker(t *testing.T) {
	ctx := context.Background()

	t.Run("appends speakers to multi-speaker events", func(t *testing.T) {
		svc, events := newTestSpeakerService()
		putEvent(events, "event-1", registry.EventTypeMultiSpeaker)

		if err := svc.AddSpeaker(ctx, "event-1", "speaker-a"); err != nil {
			t.Fatalf("AddSpeaker failed: %v", err)
		}
		if err := svc.AddSpeaker(ctx, "event-1", "speaker-b"); err != nil {
			t.Fatalf("AddSpeaker failed: %v", err)
		}

		event, _ := events.Get("event-1")
		if !reflect.DeepEqual(event.SpeakerIDs, []string{"speaker-a", "speaker-b"}) {
			t.Fatalf("unexpected speakers: %v", event.SpeakerIDs)
		}
	})

	t.Run("deduplicates repeated adds", func(t *testing.T) {
		svc, events := newTestSpeakerService()
		putEvent(events, "event-1", registry.EventTypeMultiSpeaker, "speaker-a")

		if err := svc.AddSpeaker(ctx, "event-1", "speaker-a"); err != nil {
			t.Fatalf("expected duplicate add to succeed, got %v", err)
		}
		event, _ := events.Get("event-1")
		if len(event.SpeakerIDs) != 1 {
			t.Fatalf("expected a single entry, got %v", event.SpeakerIDs)
		}
	})

	t.Run("rejects non multi-speaker events", func(t *testing.T) {
		svc, events := newTestSpeakerService()
		putEvent(events, "event-1", registry.EventTypeOneSpeaker)

		if err := svc.AddSpeaker(ctx, "event-1", "speaker-a"); !errors.Is(err, ErrEventType) {
			t.Fatalf("expected ErrEventType, got %v", err)
		}
	})
}

func TestSpeakerService_RemoveSpeaker(t *testing.T) {
	ctx := context.Background()

	t.Run("removes an assigned speaker", func(t *testing.T) {
		svc, events := newTestSpeakerService()
		putEvent(events, "event-1", registry.EventTypeMultiSpeaker, "speaker-a", "speaker-b")

		if err := svc.RemoveSpeaker(ctx, "event-1", "speaker-a"); err != nil {
			t.Fatalf("RemoveSpeaker failed: %v", err)
		}
		event, _ := events.Get("event-1")
		if !reflect.DeepEqual(event.SpeakerIDs, []string{"speaker-b"}) {
			t.Fatalf("unexpected speakers: %v", event.SpeakerIDs)
		}
	})

	t.Run("fails when the event has no speakers", func(t *testing.T) {
		svc, events := newTestSpeakerService()
		putEvent(events, "event-1", registry.EventTypeMultiSpeaker)

		if err := svc.RemoveSpeaker(ctx, "event-1", "speaker-a"); !errors.Is(err, ErrNoSpeakers) {
			t.Fatalf("expected ErrNoSpeakers, got %v", err)
		}
	})

	t.Run("absent speaker among others is a no-op success", func(t *testing.T) {
		svc, events := newTestSpeakerService()
		putEvent(events, "event-1", registry.EventTypeMultiSpeaker, "speaker-a")

		if err := svc.RemoveSpeaker(ctx, "event-1", "speaker-z"); err != nil {
			t.Fatalf("expected no-op success, got %v", err)
		}
		event, _ := events.Get("event-1")
		if !reflect.DeepEqual(event.SpeakerIDs, []string{"speaker-a"}) {
			t.Fatalf("unexpected speakers: %v", event.SpeakerIDs)
		}
	})

	t.Run("fails for unknown events", func(t *testing.T) {
		svc, _ := newTestSpeakerService()
		if err := svc.RemoveSpeaker(ctx, "event-404", "speaker-a"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
