package registry

import (
	"sort"
	"sync"
)

// RoomRegistry owns the set of rooms. Room numbers are unique and user
// facing; internal identifiers come from the injected generator.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]Room
}

// NewRoomRegistry returns an empty registry.
func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[string]Room)}
}

// Add stores a new room. It reports false when the room number is already
// taken; the registry itself imposes no other rules.
func (r *RoomRegistry) Add(room Room) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.rooms {
		if existing.Number == room.Number {
			return false
		}
	}
	r.rooms[room.ID] = room.Clone()
	return true
}

// Get returns the room with the given internal identifier.
func (r *RoomRegistry) Get(id string) (Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return Room{}, false
	}
	return room.Clone(), true
}

// FindByNumber returns the room with the given user-facing number.
func (r *RoomRegistry) FindByNumber(number int) (Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, room := range r.rooms {
		if room.Number == number {
			return room.Clone(), true
		}
	}
	return Room{}, false
}

// Update replaces the stored room record. It reports false when the room is
// unknown. Number and Capacity of the stored record are preserved; they are
// immutable after creation.
func (r *RoomRegistry) Update(room Room) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.rooms[room.ID]
	if !ok {
		return false
	}
	room.Number = existing.Number
	room.Capacity = existing.Capacity
	r.rooms[room.ID] = room.Clone()
	return true
}

// List returns every room ordered by room number.
func (r *RoomRegistry) List() []Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
