package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/example/conference-manager/internal/registry"
	"github.com/example/conference-manager/internal/scheduler"
)

// EventService orchestrates event lifecycle operations against the room
// registry, the event store, and the reservation index. It is the only
// component that commits (room, time window) reservations.
//
// A per-room mutex spans every overlap-check-then-reserve sequence so two
// concurrent writers cannot both observe a free window and both commit.
// Cross-room moves take both room locks in ascending room-ID order. Because
// a move changes which lock protects an event, lock acquisition re-reads the
// event and retries until the held lock covers the event's current room.
type EventService struct {
	rooms       *registry.RoomRegistry
	events      *registry.EventStore
	index       *scheduler.Index
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger

	lockMu    sync.Mutex
	roomLocks map[string]*sync.Mutex

	suggestions *suggestionCache
}

// NewEventService constructs an event service owning the supplied state.
func NewEventService(rooms *registry.RoomRegistry, events *registry.EventStore, index *scheduler.Index, idGenerator func() string, now func() time.Time) *EventService {
	return NewEventServiceWithLogger(rooms, events, index, idGenerator, now, nil)
}

// NewEventServiceWithLogger constructs an event service with a specified logger.
func NewEventServiceWithLogger(rooms *registry.RoomRegistry, events *registry.EventStore, index *scheduler.Index, idGenerator func() string, now func() time.Time, logger *slog.Logger) *EventService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &EventService{
		rooms:       rooms,
		events:      events,
		index:       index,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
		roomLocks:   make(map[string]*sync.Mutex),
		suggestions: newSuggestionCache(0, 0, now),
	}
}

// setSuggestionCacheTTL replaces the suggestion cache with one bounded by the
// given TTL. Construction time only; not safe once the service is shared.
func (s *EventService) setSuggestionCacheTTL(ttl time.Duration) {
	s.suggestions = newSuggestionCache(ttl, 0, s.now)
}

func (s *EventService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EventService", operation, attrs...)
}

func (s *EventService) configured() error {
	if s == nil || s.rooms == nil || s.events == nil || s.index == nil {
		return fmt.Errorf("EventService is not configured")
	}
	return nil
}

func (s *EventService) roomLock(roomID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	lock, ok := s.roomLocks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		s.roomLocks[roomID] = lock
	}
	return lock
}

// lockRooms acquires the locks for the given rooms in ascending room-ID
// order and returns a release function. Duplicate IDs are locked once.
func (s *EventService) lockRooms(roomIDs ...string) func() {
	unique := make([]string, 0, len(roomIDs))
	seen := make(map[string]struct{}, len(roomIDs))
	for _, id := range roomIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)

	locks := make([]*sync.Mutex, 0, len(unique))
	for _, id := range unique {
		lock := s.roomLock(id)
		lock.Lock()
		locks = append(locks, lock)
	}
	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}
}

// lockEventRoom locks the room currently holding the event and returns the
// event as read under that lock. A concurrent move can change the event's
// room between the initial read and the lock acquisition; the held lock then
// covers the wrong room, so it is dropped and the sequence retried.
func (s *EventService) lockEventRoom(eventID string) (registry.Event, func(), error) {
	for {
		event, ok := s.events.Get(eventID)
		if !ok {
			return registry.Event{}, nil, ErrNotFound
		}
		unlock := s.lockRooms(event.RoomID)
		current, ok := s.events.Get(eventID)
		if !ok {
			unlock()
			return registry.Event{}, nil, ErrNotFound
		}
		if current.RoomID == event.RoomID {
			return current, unlock, nil
		}
		unlock()
	}
}

// CreateEvent validates the input, resolves the referenced room, and commits
// the event together with its reservation. Failure leaves no trace.
func (s *EventService) CreateEvent(ctx context.Context, input EventInput) (event registry.Event, err error) {
	if err = s.configured(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "CreateEvent", "room_number", input.RoomNumber, "title", input.Title)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("event_id", event.ID).InfoContext(ctx, "event created")
	}()

	vErr := &ValidationError{}
	validateEventInput(input, vErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	room, ok := s.rooms.FindByNumber(input.RoomNumber)
	if !ok {
		err = ErrNotFound
		return
	}
	if input.Capacity > room.Capacity {
		err = ErrCapacityExceeded
		return
	}

	start := input.Start
	end := start.Add(input.Duration)

	unlock := s.lockRooms(room.ID)
	defer unlock()

	if s.index.Overlaps(room.ID, start, end, "") {
		err = ErrTimeConflict
		return
	}

	created := s.now()
	event = registry.Event{
		ID:        s.idGenerator(),
		Title:     input.Title,
		Start:     start,
		Duration:  input.Duration,
		RoomID:    room.ID,
		Type:      input.Type,
		Capacity:  input.Capacity,
		CreatedAt: created,
		UpdatedAt: created,
	}
	s.events.Put(event)
	s.index.Reserve(room.ID, event.ID, start, end)
	s.suggestions.Invalidate()
	return
}

// RemoveEvent releases the event's reservation and purges it from the store.
// Removing an unknown or already-removed event fails with ErrNotFound and
// alters nothing.
func (s *EventService) RemoveEvent(ctx context.Context, eventID string) (err error) {
	if err = s.configured(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "RemoveEvent", "event_id", eventID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to remove event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "event removed")
	}()

	event, unlock, lockErr := s.lockEventRoom(eventID)
	if lockErr != nil {
		err = lockErr
		return
	}
	defer unlock()

	s.index.Release(event.RoomID, eventID)
	s.events.Remove(eventID)
	s.suggestions.Invalidate()
	return
}

// UpdateTime reschedules the event within its room. The event's own
// reservation is excluded from the conflict check; an equal start time
// succeeds as a no-op. On failure all state is left untouched.
func (s *EventService) UpdateTime(ctx context.Context, eventID string, newStart time.Time) (err error) {
	if err = s.configured(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "UpdateTime", "event_id", eventID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update event time", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "event time updated")
	}()

	if newStart.IsZero() {
		vErr := &ValidationError{}
		vErr.add("start", "start is required")
		err = vErr
		return
	}

	event, unlock, lockErr := s.lockEventRoom(eventID)
	if lockErr != nil {
		err = lockErr
		return
	}
	defer unlock()

	if event.Start.Equal(newStart) {
		return
	}

	newEnd := newStart.Add(event.Duration)
	if s.index.Overlaps(event.RoomID, newStart, newEnd, event.ID) {
		err = ErrTimeConflict
		return
	}

	s.index.Release(event.RoomID, event.ID)
	s.index.Reserve(event.RoomID, event.ID, newStart, newEnd)
	event.Start = newStart
	event.UpdatedAt = s.now()
	s.events.Put(event)
	s.suggestions.Invalidate()
	return
}

// UpdateRoom moves the event to the room with the given number. The current
// window must be free in the new room and the event capacity must still fit.
// Moving to the current room succeeds as a no-op.
func (s *EventService) UpdateRoom(ctx context.Context, eventID string, newRoomNumber int) (err error) {
	if err = s.configured(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "UpdateRoom", "event_id", eventID, "room_number", newRoomNumber)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update event room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "event room updated")
	}()

	newRoom, ok := s.rooms.FindByNumber(newRoomNumber)
	if !ok {
		err = ErrNotFound
		return
	}

	// Lock the event's current room together with the target. The lock must
	// cover the room the event is in when the move commits, so a concurrent
	// move that changes the event's room forces a retry.
	var (
		event  registry.Event
		unlock func()
	)
	for {
		pre, ok := s.events.Get(eventID)
		if !ok {
			err = ErrNotFound
			return
		}
		unlock = s.lockRooms(pre.RoomID, newRoom.ID)
		event, ok = s.events.Get(eventID)
		if !ok {
			unlock()
			err = ErrNotFound
			return
		}
		if event.RoomID == pre.RoomID {
			break
		}
		unlock()
	}
	defer unlock()

	if newRoom.ID == event.RoomID {
		return
	}
	if event.Capacity > newRoom.Capacity {
		err = ErrCapacityExceeded
		return
	}

	start := event.Start
	end := event.End()
	if s.index.Overlaps(newRoom.ID, start, end, event.ID) {
		err = ErrTimeConflict
		return
	}

	s.index.Release(event.RoomID, event.ID)
	s.index.Reserve(newRoom.ID, event.ID, start, end)
	event.RoomID = newRoom.ID
	event.UpdatedAt = s.now()
	s.events.Put(event)
	s.suggestions.Invalidate()
	return
}

// UpdateCapacity changes the event capacity. A value above the room capacity
// or below the current enrollment is rejected, and the previously valid
// capacity is written back explicitly so a reader never observes an invalid
// intermediate value.
func (s *EventService) UpdateCapacity(ctx context.Context, eventID string, newCapacity int) (err error) {
	if err = s.configured(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "UpdateCapacity", "event_id", eventID, "capacity", newCapacity)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update event capacity", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "event capacity updated")
	}()

	if newCapacity <= 0 {
		vErr := &ValidationError{}
		vErr.add("capacity", "capacity must be positive")
		err = vErr
		return
	}

	event, ok := s.events.Get(eventID)
	if !ok {
		err = ErrNotFound
		return
	}
	room, ok := s.rooms.Get(event.RoomID)
	if !ok {
		err = ErrNotFound
		return
	}

	if newCapacity > room.Capacity || newCapacity < len(event.AttendeeIDs) {
		// Compensating write: restore the prior valid capacity.
		s.events.Put(event)
		err = ErrCapacityExceeded
		return
	}

	event.Capacity = newCapacity
	event.UpdatedAt = s.now()
	s.events.Put(event)
	return
}

// UpdateTitle renames the event unconditionally if it exists.
func (s *EventService) UpdateTitle(ctx context.Context, eventID, title string) (err error) {
	if err = s.configured(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "UpdateTitle", "event_id", eventID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update event title", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "event title updated")
	}()

	if title == "" {
		vErr := &ValidationError{}
		vErr.add("title", "title is required")
		err = vErr
		return
	}

	event, ok := s.events.Get(eventID)
	if !ok {
		err = ErrNotFound
		return
	}

	event.Title = title
	event.UpdatedAt = s.now()
	s.events.Put(event)
	return
}

// GetEvent returns the event with the given identifier.
func (s *EventService) GetEvent(ctx context.Context, eventID string) (registry.Event, error) {
	if err := s.configured(); err != nil {
		return registry.Event{}, err
	}
	event, ok := s.events.Get(eventID)
	if !ok {
		return registry.Event{}, ErrNotFound
	}
	return event, nil
}

// ListEvents returns every scheduled event ordered by start time, then ID.
func (s *EventService) ListEvents(ctx context.Context) ([]registry.Event, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	return s.events.All(), nil
}

// RoomSchedule returns the committed reservations for a room, ordered by
// start time.
func (s *EventService) RoomSchedule(ctx context.Context, roomNumber int) ([]scheduler.Reservation, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	room, ok := s.rooms.FindByNumber(roomNumber)
	if !ok {
		return nil, ErrNotFound
	}
	return s.index.ReservationsFor(room.ID), nil
}

// SuggestRooms returns rooms that are free for the requested window, seat at
// least the requested capacity, and carry every requested constraint tag.
// Results are cached briefly; any schedule mutation drops the cache.
func (s *EventService) SuggestRooms(ctx context.Context, params SuggestRoomsParams) (rooms []registry.Room, err error) {
	if err = s.configured(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "SuggestRooms", "capacity", params.Capacity)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to suggest rooms", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(rooms)).InfoContext(ctx, "rooms suggested")
	}()

	vErr := &ValidationError{}
	if params.Start.IsZero() {
		vErr.add("start", "start is required")
	}
	if params.Duration <= 0 {
		vErr.add("duration", "duration must be positive")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	key := buildSuggestionCacheKey(params)
	if cached, ok := s.suggestions.Get(key); ok {
		rooms = cached
		return
	}

	wanted := normalizeTags(params.Constraints)
	end := params.Start.Add(params.Duration)

	for _, room := range s.rooms.List() {
		if room.Capacity < params.Capacity {
			continue
		}
		if !hasAllTags(room.Constraints, wanted) {
			continue
		}
		if s.index.Overlaps(room.ID, params.Start, end, "") {
			continue
		}
		rooms = append(rooms, room)
	}

	s.suggestions.Store(key, rooms)
	return
}

func validateEventInput(input EventInput, vErr *ValidationError) {
	if input.Title == "" {
		vErr.add("title", "title is required")
	}
	if input.Start.IsZero() {
		vErr.add("start", "start is required")
	}
	if input.Duration <= 0 {
		vErr.add("duration", "duration must be positive")
	}
	if input.Capacity <= 0 {
		vErr.add("capacity", "capacity must be positive")
	}
	if !input.Type.Valid() {
		vErr.add("type", "unknown event type")
	}
}

func hasAllTags(have, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, tag := range have {
		set[tag] = struct{}{}
	}
	for _, tag := range wanted {
		if _, ok := set[tag]; !ok {
			return false
		}
	}
	return true
}
