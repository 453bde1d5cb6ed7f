package application

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/conference-manager/internal/registry"
	"github.com/example/conference-manager/internal/scheduler"
)

var nineAM = time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)

type serviceHarness struct {
	rooms  *registry.RoomRegistry
	events *registry.EventStore
	index  *scheduler.Index
	svc    *EventService
}

func newServiceHarness(t *testing.T) *serviceHarness {
	t.Helper()

	rooms := registry.NewRoomRegistry()
	events := registry.NewEventStore()
	index := scheduler.NewIndex()

	var counter atomic.Int64
	idGen := func() string {
		return fmt.Sprintf("event-%d", counter.Add(1))
	}
	now := func() time.Time { return nineAM }

	return &serviceHarness{
		rooms:  rooms,
		events: events,
		index:  index,
		svc:    NewEventService(rooms, events, index, idGen, now),
	}
}

func (h *serviceHarness) addRoom(t *testing.T, id string, number, capacity int) registry.Room {
	t.Helper()
	room := registry.Room{ID: id, Number: number, Capacity: capacity}
	if !h.rooms.Add(room) {
		t.Fatalf("failed to add room %d", number)
	}
	return room
}

func (h *serviceHarness) mustCreate(t *testing.T, input EventInput) registry.Event {
	t.Helper()
	event, err := h.svc.CreateEvent(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateEvent(%+v) failed: %v", input, err)
	}
	return event
}

func keynoteInput(roomNumber int) EventInput {
	return EventInput{
		Title:      "Keynote",
		Start:      nineAM,
		Duration:   60 * time.Minute,
		RoomNumber: roomNumber,
		Type:       registry.EventTypeOneSpeaker,
		Capacity:   40,
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an event and reserves the window", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)

		event := h.mustCreate(t, keynoteInput(101))

		if event.ID == "" || event.RoomID != "room-1" {
			t.Fatalf("unexpected event: %+v", event)
		}
		stored, ok := h.events.Get(event.ID)
		if !ok || stored.Title != "Keynote" {
			t.Fatalf("event not committed to store: %+v, %v", stored, ok)
		}
		if !h.index.Overlaps("room-1", nineAM, nineAM.Add(time.Hour), "") {
			t.Fatal("expected window to be reserved")
		}
	})

	t.Run("fails when the room does not exist", func(t *testing.T) {
		h := newServiceHarness(t)

		_, err := h.svc.CreateEvent(ctx, keynoteInput(101))
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("fails when capacity exceeds the room capacity", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)

		input := keynoteInput(101)
		input.Capacity = 60
		_, err := h.svc.CreateEvent(ctx, input)
		if !errors.Is(err, ErrCapacityExceeded) {
			t.Fatalf("expected ErrCapacityExceeded, got %v", err)
		}
		if len(h.events.All()) != 0 {
			t.Fatal("expected no event to be committed")
		}
	})

	t.Run("rejects an overlapping window in the same room", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		h.mustCreate(t, keynoteInput(101))

		workshop := EventInput{
			Title:      "Workshop",
			Start:      nineAM.Add(30 * time.Minute),
			Duration:   60 * time.Minute,
			RoomNumber: 101,
			Type:       registry.EventTypeNoSpeaker,
			Capacity:   10,
		}
		_, err := h.svc.CreateEvent(ctx, workshop)
		if !errors.Is(err, ErrTimeConflict) {
			t.Fatalf("expected ErrTimeConflict, got %v", err)
		}
	})

	t.Run("touching endpoints do not conflict", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		h.mustCreate(t, keynoteInput(101))

		workshop := EventInput{
			Title:      "Workshop",
			Start:      nineAM.Add(60 * time.Minute),
			Duration:   60 * time.Minute,
			RoomNumber: 101,
			Type:       registry.EventTypeNoSpeaker,
			Capacity:   10,
		}
		if _, err := h.svc.CreateEvent(ctx, workshop); err != nil {
			t.Fatalf("expected back-to-back event to succeed, got %v", err)
		}
	})

	t.Run("same window in another room succeeds", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		h.addRoom(t, "room-2", 102, 50)
		h.mustCreate(t, keynoteInput(101))

		if _, err := h.svc.CreateEvent(ctx, keynoteInput(102)); err != nil {
			t.Fatalf("expected parallel event in another room to succeed, got %v", err)
		}
	})

	t.Run("validates input fields", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)

		_, err := h.svc.CreateEvent(ctx, EventInput{RoomNumber: 101, Type: registry.EventType("plenary")})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"title", "start", "duration", "capacity", "type"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected field error for %q, got %v", field, vErr.FieldErrors)
			}
		}
	})
}

func TestEventService_RemoveEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("removal frees the slot", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		event := h.mustCreate(t, keynoteInput(101))

		if err := h.svc.RemoveEvent(ctx, event.ID); err != nil {
			t.Fatalf("RemoveEvent failed: %v", err)
		}
		if _, ok := h.events.Get(event.ID); ok {
			t.Fatal("expected event to be purged")
		}
		if h.index.Overlaps("room-1", nineAM, nineAM.Add(time.Hour), "") {
			t.Fatal("expected window to be released")
		}

		// Freed slot can be reused.
		h.mustCreate(t, keynoteInput(101))
	})

	t.Run("second removal fails and alters nothing", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		event := h.mustCreate(t, keynoteInput(101))
		other := h.mustCreate(t, EventInput{
			Title:      "Workshop",
			Start:      nineAM.Add(time.Hour),
			Duration:   30 * time.Minute,
			RoomNumber: 101,
			Type:       registry.EventTypeNoSpeaker,
			Capacity:   10,
		})

		if err := h.svc.RemoveEvent(ctx, event.ID); err != nil {
			t.Fatalf("first removal failed: %v", err)
		}
		if err := h.svc.RemoveEvent(ctx, event.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second removal, got %v", err)
		}

		if _, ok := h.events.Get(other.ID); !ok {
			t.Fatal("unrelated event disappeared")
		}
		if !h.index.Overlaps("room-1", nineAM.Add(time.Hour), nineAM.Add(90*time.Minute), "") {
			t.Fatal("unrelated reservation disappeared")
		}
	})

	t.Run("unknown event fails", func(t *testing.T) {
		h := newServiceHarness(t)
		if err := h.svc.RemoveEvent(ctx, "event-404"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestEventService_UpdateTime(t *testing.T) {
	ctx := context.Background()

	t.Run("reschedules within the room", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		event := h.mustCreate(t, keynoteInput(101))

		newStart := nineAM.Add(2 * time.Hour)
		if err := h.svc.UpdateTime(ctx, event.ID, newStart); err != nil {
			t.Fatalf("UpdateTime failed: %v", err)
		}

		updated, _ := h.events.Get(event.ID)
		if !updated.Start.Equal(newStart) {
			t.Fatalf("expected start %v, got %v", newStart, updated.Start)
		}
		if h.index.Overlaps("room-1", nineAM, nineAM.Add(time.Hour), "") {
			t.Fatal("old window still reserved")
		}
		if !h.index.Overlaps("room-1", newStart, newStart.Add(time.Hour), "") {
			t.Fatal("new window not reserved")
		}
	})

	t.Run("conflicting reschedule leaves state unchanged", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		keynote := h.mustCreate(t, keynoteInput(101))
		h.mustCreate(t, EventInput{
			Title:      "Workshop",
			Start:      nineAM.Add(2 * time.Hour),
			Duration:   60 * time.Minute,
			RoomNumber: 101,
			Type:       registry.EventTypeNoSpeaker,
			Capacity:   10,
		})

		before, _ := h.events.Get(keynote.ID)
		err := h.svc.UpdateTime(ctx, keynote.ID, nineAM.Add(150*time.Minute))
		if !errors.Is(err, ErrTimeConflict) {
			t.Fatalf("expected ErrTimeConflict, got %v", err)
		}

		after, _ := h.events.Get(keynote.ID)
		if !reflect.DeepEqual(before, after) {
			t.Fatalf("event mutated on failed update: %+v vs %+v", before, after)
		}
		if !h.index.Overlaps("room-1", nineAM, nineAM.Add(time.Hour), "") {
			t.Fatal("original reservation lost on failed update")
		}
	})

	t.Run("same start time is a no-op success", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		event := h.mustCreate(t, keynoteInput(101))

		before, _ := h.events.Get(event.ID)
		reservationsBefore := h.index.ReservationsFor("room-1")

		if err := h.svc.UpdateTime(ctx, event.ID, nineAM); err != nil {
			t.Fatalf("expected no-op success, got %v", err)
		}

		after, _ := h.events.Get(event.ID)
		if !reflect.DeepEqual(before, after) {
			t.Fatal("no-op update mutated the event")
		}
		if !reflect.DeepEqual(reservationsBefore, h.index.ReservationsFor("room-1")) {
			t.Fatal("no-op update mutated the index")
		}
	})

	t.Run("event may move into its own old window", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		event := h.mustCreate(t, keynoteInput(101))

		// Shift by 30 minutes: overlaps the prior window, which is excluded.
		if err := h.svc.UpdateTime(ctx, event.ID, nineAM.Add(30*time.Minute)); err != nil {
			t.Fatalf("expected self-overlapping reschedule to succeed, got %v", err)
		}
	})

	t.Run("unknown event fails", func(t *testing.T) {
		h := newServiceHarness(t)
		if err := h.svc.UpdateTime(ctx, "event-404", nineAM); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestEventService_UpdateRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("moves the reservation to the new room", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		h.addRoom(t, "room-2", 102, 50)
		event := h.mustCreate(t, keynoteInput(101))

		if err := h.svc.UpdateRoom(ctx, event.ID, 102); err != nil {
			t.Fatalf("UpdateRoom failed: %v", err)
		}

		updated, _ := h.events.Get(event.ID)
		if updated.RoomID != "room-2" {
			t.Fatalf("expected room-2, got %s", updated.RoomID)
		}
		if h.index.Overlaps("room-1", nineAM, nineAM.Add(time.Hour), "") {
			t.Fatal("old room still reserved")
		}
		if !h.index.Overlaps("room-2", nineAM, nineAM.Add(time.Hour), "") {
			t.Fatal("new room not reserved")
		}
	})

	t.Run("fails when the new room is occupied", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		h.addRoom(t, "room-2", 102, 50)
		event := h.mustCreate(t, keynoteInput(101))
		h.mustCreate(t, keynoteInput(102))

		err := h.svc.UpdateRoom(ctx, event.ID, 102)
		if !errors.Is(err, ErrTimeConflict) {
			t.Fatalf("expected ErrTimeConflict, got %v", err)
		}

		after, _ := h.events.Get(event.ID)
		if after.RoomID != "room-1" {
			t.Fatal("event moved despite conflict")
		}
		if !h.index.Overlaps("room-1", nineAM, nineAM.Add(time.Hour), "") {
			t.Fatal("original reservation lost on failed move")
		}
	})

	t.Run("fails when the new room is unknown", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		event := h.mustCreate(t, keynoteInput(101))

		if err := h.svc.UpdateRoom(ctx, event.ID, 999); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("fails when the new room is too small", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		h.addRoom(t, "room-2", 102, 20)
		event := h.mustCreate(t, keynoteInput(101))

		if err := h.svc.UpdateRoom(ctx, event.ID, 102); !errors.Is(err, ErrCapacityExceeded) {
			t.Fatalf("expected ErrCapacityExceeded, got %v", err)
		}
	})

	t.Run("same room is a no-op success", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		event := h.mustCreate(t, keynoteInput(101))

		before, _ := h.events.Get(event.ID)
		reservationsBefore := h.index.ReservationsFor("room-1")

		if err := h.svc.UpdateRoom(ctx, event.ID, 101); err != nil {
			t.Fatalf("expected no-op success, got %v", err)
		}

		after, _ := h.events.Get(event.ID)
		if !reflect.DeepEqual(before, after) {
			t.Fatal("no-op update mutated the event")
		}
		if !reflect.DeepEqual(reservationsBefore, h.index.ReservationsFor("room-1")) {
			t.Fatal("no-op update mutated the index")
		}
	})
}

func TestEventService_UpdateCapacity(t *testing.T) {
	ctx := context.Background()

	t.Run("updates within the room bound", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		event := h.mustCreate(t, keynoteInput(101))

		if err := h.svc.UpdateCapacity(ctx, event.ID, 45); err != nil {
			t.Fatalf("UpdateCapacity failed: %v", err)
		}
		updated, _ := h.events.Get(event.ID)
		if updated.Capacity != 45 {
			t.Fatalf("expected capacity 45, got %d", updated.Capacity)
		}
	})

	t.Run("rejects a capacity above the room and restores the prior value", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		event := h.mustCreate(t, keynoteInput(101))

		err := h.svc.UpdateCapacity(ctx, event.ID, 60)
		if !errors.Is(err, ErrCapacityExceeded) {
			t.Fatalf("expected ErrCapacityExceeded, got %v", err)
		}

		after, _ := h.events.Get(event.ID)
		if after.Capacity != 40 {
			t.Fatalf("expected capacity restored to 40, got %d", after.Capacity)
		}
	})

	t.Run("rejects a capacity below the current enrollment", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		event := h.mustCreate(t, keynoteInput(101))

		enrollment := NewEnrollmentService(h.events, nil)
		for i := 0; i < 3; i++ {
			if err := enrollment.Signup(ctx, event.ID, fmt.Sprintf("attendee-%d", i)); err != nil {
				t.Fatalf("signup failed: %v", err)
			}
		}

		if err := h.svc.UpdateCapacity(ctx, event.ID, 2); !errors.Is(err, ErrCapacityExceeded) {
			t.Fatalf("expected ErrCapacityExceeded, got %v", err)
		}
		after, _ := h.events.Get(event.ID)
		if after.Capacity != 40 {
			t.Fatalf("expected capacity restored to 40, got %d", after.Capacity)
		}
	})

	t.Run("rejects non-positive capacity", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		event := h.mustCreate(t, keynoteInput(101))

		var vErr *ValidationError
		if err := h.svc.UpdateCapacity(ctx, event.ID, 0); !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestEventService_UpdateTitle(t *testing.T) {
	ctx := context.Background()
	h := newServiceHarness(t)
	h.addRoom(t, "room-1", 101, 50)
	event := h.mustCreate(t, keynoteInput(101))

	if err := h.svc.UpdateTitle(ctx, event.ID, "Opening Keynote"); err != nil {
		t.Fatalf("UpdateTitle failed: %v", err)
	}
	updated, _ := h.events.Get(event.ID)
	if updated.Title != "Opening Keynote" {
		t.Fatalf("expected renamed title, got %q", updated.Title)
	}

	if err := h.svc.UpdateTitle(ctx, "event-404", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEventService_RoomSchedule(t *testing.T) {
	ctx := context.Background()
	h := newServiceHarness(t)
	h.addRoom(t, "room-1", 101, 50)
	keynote := h.mustCreate(t, keynoteInput(101))
	workshop := h.mustCreate(t, EventInput{
		Title:      "Workshop",
		Start:      nineAM.Add(time.Hour),
		Duration:   30 * time.Minute,
		RoomNumber: 101,
		Type:       registry.EventTypeNoSpeaker,
		Capacity:   10,
	})

	schedule, err := h.svc.RoomSchedule(ctx, 101)
	if err != nil {
		t.Fatalf("RoomSchedule failed: %v", err)
	}
	if len(schedule) != 2 || schedule[0].EventID != keynote.ID || schedule[1].EventID != workshop.ID {
		t.Fatalf("unexpected schedule: %+v", schedule)
	}

	if _, err := h.svc.RoomSchedule(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEventService_SuggestRooms(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by capacity, constraints, and availability", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)
		h.addRoom(t, "room-2", 102, 10)
		h.addRoom(t, "room-3", 103, 80)

		roomSvc := NewRoomService(h.rooms, nil, nil)
		if err := roomSvc.SetRoomConstraints(ctx, 103, []string{"projector"}); err != nil {
			t.Fatalf("SetRoomConstraints failed: %v", err)
		}

		// Occupy room 101 for the queried window.
		h.mustCreate(t, keynoteInput(101))

		params := SuggestRoomsParams{Start: nineAM, Duration: time.Hour, Capacity: 20}
		rooms, err := h.svc.SuggestRooms(ctx, params)
		if err != nil {
			t.Fatalf("SuggestRooms failed: %v", err)
		}
		if len(rooms) != 1 || rooms[0].Number != 103 {
			t.Fatalf("expected only room 103, got %+v", rooms)
		}

		params.Constraints = []string{"projector"}
		rooms, err = h.svc.SuggestRooms(ctx, params)
		if err != nil {
			t.Fatalf("SuggestRooms with constraints failed: %v", err)
		}
		if len(rooms) != 1 || rooms[0].Number != 103 {
			t.Fatalf("expected room 103 for projector constraint, got %+v", rooms)
		}

		params.Constraints = []string{"stage-lighting"}
		rooms, err = h.svc.SuggestRooms(ctx, params)
		if err != nil {
			t.Fatalf("SuggestRooms with unmet constraint failed: %v", err)
		}
		if len(rooms) != 0 {
			t.Fatalf("expected no rooms for unmet constraint, got %+v", rooms)
		}
	})

	t.Run("schedule mutations invalidate cached suggestions", func(t *testing.T) {
		h := newServiceHarness(t)
		h.addRoom(t, "room-1", 101, 50)

		params := SuggestRoomsParams{Start: nineAM, Duration: time.Hour, Capacity: 10}
		rooms, err := h.svc.SuggestRooms(ctx, params)
		if err != nil || len(rooms) != 1 {
			t.Fatalf("expected room 101 to be free, got %+v, %v", rooms, err)
		}

		h.mustCreate(t, keynoteInput(101))

		rooms, err = h.svc.SuggestRooms(ctx, params)
		if err != nil {
			t.Fatalf("SuggestRooms failed: %v", err)
		}
		if len(rooms) != 0 {
			t.Fatalf("expected stale suggestion to be invalidated, got %+v", rooms)
		}
	})
}

// No double-booking must hold after an arbitrary interleaving of creates,
// moves, and removals racing over a small set of rooms.
func TestEventService_NoDoubleBookingUnderConcurrency(t *testing.T) {
	h := newServiceHarness(t)
	h.addRoom(t, "room-1", 101, 100)
	h.addRoom(t, "room-2", 102, 100)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			roomNumber := 101
			if i%2 == 0 {
				roomNumber = 102
			}
			input := EventInput{
				Title:      fmt.Sprintf("Session %d", i),
				Start:      nineAM.Add(time.Duration(i%4) * 30 * time.Minute),
				Duration:   time.Hour,
				RoomNumber: roomNumber,
				Type:       registry.EventTypeNoSpeaker,
				Capacity:   10,
			}
			event, err := h.svc.CreateEvent(ctx, input)
			if err != nil {
				return
			}
			if i%3 == 0 {
				_ = h.svc.UpdateRoom(ctx, event.ID, 101)
			}
			if i%5 == 0 {
				_ = h.svc.RemoveEvent(ctx, event.ID)
			}
		}(i)
	}
	wg.Wait()

	events := h.events.All()
	for i := 0; i < len(events); i++ {
		for j := i + 1; j < len(events); j++ {
			a, b := events[i], events[j]
			if a.RoomID != b.RoomID {
				continue
			}
			if scheduler.Overlap(a.Start, a.End(), b.Start, b.End()) {
				t.Fatalf("double booking: %s and %s overlap in %s", a.ID, b.ID, a.RoomID)
			}
		}
	}
}

// A move changes which room lock protects an event. A reschedule or a second
// move racing the first must not check one room while committing into
// another, and a creator holding the target room's lock must never share a
// window with the moved event.
func TestEventService_MoveRescheduleRaceKeepsRoomsConflictFree(t *testing.T) {
	h := newServiceHarness(t)
	roomA := h.addRoom(t, "room-1", 101, 100)
	roomB := h.addRoom(t, "room-2", 102, 100)

	ctx := context.Background()
	mover := h.mustCreate(t, EventInput{
		Title:      "Roaming Session",
		Start:      nineAM.Add(4 * time.Hour),
		Duration:   time.Hour,
		RoomNumber: 101,
		Type:       registry.EventTypeNoSpeaker,
		Capacity:   10,
	})

	const iterations = 300
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			_ = h.svc.UpdateRoom(ctx, mover.ID, 102)
			_ = h.svc.UpdateRoom(ctx, mover.ID, 101)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			_ = h.svc.UpdateTime(ctx, mover.ID, nineAM.Add(6*time.Hour))
			_ = h.svc.UpdateTime(ctx, mover.ID, nineAM.Add(4*time.Hour))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			competitor, err := h.svc.CreateEvent(ctx, EventInput{
				Title:      "Competing Session",
				Start:      nineAM.Add(4*time.Hour + 30*time.Minute),
				Duration:   time.Hour,
				RoomNumber: 102,
				Type:       registry.EventTypeNoSpeaker,
				Capacity:   10,
			})
			if err != nil {
				continue
			}
			_ = h.svc.RemoveEvent(ctx, competitor.ID)
		}
	}()
	wg.Wait()

	for _, roomID := range []string{roomA.ID, roomB.ID} {
		reservations := h.index.ReservationsFor(roomID)
		for i := 0; i < len(reservations); i++ {
			for j := i + 1; j < len(reservations); j++ {
				a, b := reservations[i], reservations[j]
				if scheduler.Overlap(a.Start, a.End, b.Start, b.End) {
					t.Fatalf("room %s double booked: %+v overlaps %+v", roomID, a, b)
				}
			}
		}
	}

	// The mover's stored room and its reservation must agree.
	final, ok := h.events.Get(mover.ID)
	if !ok {
		t.Fatal("moved event disappeared")
	}
	if !h.index.Overlaps(final.RoomID, final.Start, final.End(), "") {
		t.Fatalf("moved event holds no reservation in its room %s", final.RoomID)
	}
}
