package registry

import (
	"sort"
	"sync"
)

// EventStore is pure keyed storage for events. All invariant enforcement
// lives in the services that write to it.
type EventStore struct {
	mu     sync.RWMutex
	events map[string]Event
}

// NewEventStore returns an empty store.
func NewEventStore() *EventStore {
	return &EventStore{events: make(map[string]Event)}
}

// Put stores or replaces the event record.
func (s *EventStore) Put(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ID] = event.Clone()
}

// Get returns the event with the given identifier.
func (s *EventStore) Get(id string) (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[id]
	if !ok {
		return Event{}, false
	}
	return event.Clone(), true
}

// Remove deletes the event and reports whether it was present.
func (s *EventStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return false
	}
	delete(s.events, id)
	return true
}

// All returns every event ordered by start time, then identifier.
func (s *EventStore) All() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, 0, len(s.events))
	for _, event := range s.events {
		out = append(out, event.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].ID < out[j].ID
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
