package persistence

import "context"

// SnapshotRepository stores and retrieves full engine snapshots.
type SnapshotRepository interface {
	// SaveSnapshot replaces the stored snapshot with the given one.
	SaveSnapshot(ctx context.Context, snap Snapshot) error

	// LoadSnapshot returns the stored snapshot, or ErrNoSnapshot when the
	// backend is empty.
	LoadSnapshot(ctx context.Context) (Snapshot, error)

	// Close releases backend resources.
	Close() error
}
