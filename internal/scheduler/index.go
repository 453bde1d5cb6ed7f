package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Reservation records a committed occupation of a room for a half-open time
// window [Start, End).
type Reservation struct {
	EventID string
	Start   time.Time
	End     time.Time
}

// Index tracks committed reservations per room and answers overlap queries.
//
// Rooms at a conference number in the dozens, so a linear scan over a room's
// reservations is sufficient; the contract permits swapping in an interval
// tree per room without changing callers.
type Index struct {
	mu    sync.RWMutex
	rooms map[string][]Reservation
}

// NewIndex returns an empty reservation index.
func NewIndex() *Index {
	return &Index{rooms: make(map[string][]Reservation)}
}

// Overlap reports whether the half-open intervals [start1, end1) and
// [start2, end2) intersect. Touching endpoints do not overlap.
func Overlap(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}

// Overlaps reports whether any committed reservation for roomID, other than
// excludeEventID, intersects [start, end). Pass an empty excludeEventID to
// consider every reservation.
func (ix *Index) Overlaps(roomID string, start, end time.Time, excludeEventID string) bool {
	if ix == nil {
		return false
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	for _, res := range ix.rooms[roomID] {
		if excludeEventID != "" && res.EventID == excludeEventID {
			continue
		}
		if Overlap(start, end, res.Start, res.End) {
			return true
		}
	}
	return false
}

// Reserve inserts a reservation for the event. The caller is responsible for
// having confirmed the window is free; Reserve itself does not re-check.
func (ix *Index) Reserve(roomID, eventID string, start, end time.Time) {
	if ix == nil {
		return
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.rooms[roomID] = append(ix.rooms[roomID], Reservation{
		EventID: eventID,
		Start:   start,
		End:     end,
	})
}

// Release removes the event's reservation from the room, if present.
func (ix *Index) Release(roomID, eventID string) {
	if ix == nil {
		return
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()

	reservations := ix.rooms[roomID]
	for i, res := range reservations {
		if res.EventID == eventID {
			ix.rooms[roomID] = append(reservations[:i], reservations[i+1:]...)
			break
		}
	}
	if len(ix.rooms[roomID]) == 0 {
		delete(ix.rooms, roomID)
	}
}

// ReservationsFor returns a copy of the room's reservations ordered by start
// time, then event ID.
func (ix *Index) ReservationsFor(roomID string) []Reservation {
	if ix == nil {
		return nil
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	reservations := ix.rooms[roomID]
	if len(reservations) == 0 {
		return nil
	}
	out := make([]Reservation, len(reservations))
	copy(out, reservations)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].EventID < out[j].EventID
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
