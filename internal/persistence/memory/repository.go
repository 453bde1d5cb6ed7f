// Package memory provides an in-memory snapshot repository. It backs tests
// and runs where durability is not needed.
package memory

import (
	"context"
	"sync"

	"github.com/example/conference-manager/internal/persistence"
)

// Repository keeps the latest snapshot in process memory.
type Repository struct {
	mu    sync.RWMutex
	snap  persistence.Snapshot
	saved bool
}

// NewRepository creates an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{}
}

// SaveSnapshot replaces the stored snapshot.
func (r *Repository) SaveSnapshot(ctx context.Context, snap persistence.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snap = cloneSnapshot(snap)
	r.saved = true
	return nil
}

// LoadSnapshot returns the stored snapshot.
func (r *Repository) LoadSnapshot(ctx context.Context) (persistence.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.saved {
		return persistence.Snapshot{}, persistence.ErrNoSnapshot
	}
	return cloneSnapshot(r.snap), nil
}

// Close is a no-op for the in-memory backend.
func (r *Repository) Close() error {
	return nil
}

func cloneSnapshot(snap persistence.Snapshot) persistence.Snapshot {
	out := persistence.Snapshot{SavedAt: snap.SavedAt}
	for _, room := range snap.Rooms {
		room.Constraints = append([]string(nil), room.Constraints...)
		out.Rooms = append(out.Rooms, room)
	}
	for _, event := range snap.Events {
		event.SpeakerIDs = append([]string(nil), event.SpeakerIDs...)
		event.AttendeeIDs = append([]string(nil), event.AttendeeIDs...)
		out.Events = append(out.Events, event)
	}
	out.Users = append([]persistence.User(nil), snap.Users...)
	return out
}
