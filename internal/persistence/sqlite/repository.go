// Package sqlite stores engine snapshots in a SQLite database. A snapshot
// save replaces the previous contents in a single transaction, so the file
// always holds exactly one consistent export.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/conference-manager/internal/persistence"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshot_meta (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	saved_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rooms (
	id          TEXT PRIMARY KEY,
	number      INTEGER NOT NULL UNIQUE,
	capacity    INTEGER NOT NULL CHECK (capacity > 0),
	has_tech    INTEGER NOT NULL DEFAULT 0,
	has_table   INTEGER NOT NULL DEFAULT 0,
	has_stage   INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS room_constraints (
	room_id  TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	tag      TEXT NOT NULL,
	PRIMARY KEY (room_id, tag)
);

CREATE TABLE IF NOT EXISTS events (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	start            TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL CHECK (duration_seconds > 0),
	room_id          TEXT NOT NULL REFERENCES rooms(id),
	type             TEXT NOT NULL,
	capacity         INTEGER NOT NULL CHECK (capacity > 0),
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS event_speakers (
	event_id   TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	speaker_id TEXT NOT NULL,
	PRIMARY KEY (event_id, speaker_id)
);

CREATE TABLE IF NOT EXISTS event_attendees (
	event_id    TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	attendee_id TEXT NOT NULL,
	PRIMARY KEY (event_id, attendee_id)
);

CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE COLLATE NOCASE,
	display_name  TEXT NOT NULL,
	role          TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);
`

// Repository implements persistence.SnapshotRepository on SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository opens the database and ensures the schema exists.
func NewRepository(cfg Config) (*Repository, error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: creating schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveSnapshot replaces the stored snapshot with the given one.
func (r *Repository) SaveSnapshot(ctx context.Context, snap persistence.Snapshot) error {
	return withTransaction(ctx, r.db, func(tx *sql.Tx) error {
		// Child tables cascade from their parents.
		for _, stmt := range []string{"DELETE FROM events", "DELETE FROM rooms", "DELETE FROM users", "DELETE FROM snapshot_meta"} {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("sqlite: clearing previous snapshot: %w", err)
			}
		}

		savedAt := snap.SavedAt
		if savedAt.IsZero() {
			savedAt = time.Now().UTC()
		}
		if _, err := tx.Exec("INSERT INTO snapshot_meta (id, saved_at) VALUES (1, ?)", formatTime(savedAt)); err != nil {
			return fmt.Errorf("sqlite: writing snapshot metadata: %w", err)
		}

		for _, room := range snap.Rooms {
			if err := insertRoom(tx, room); err != nil {
				return err
			}
		}
		for _, event := range snap.Events {
			if err := insertEvent(tx, event); err != nil {
				return err
			}
		}
		for _, user := range snap.Users {
			if _, err := tx.Exec(`
				INSERT INTO users (id, username, display_name, role, password_hash, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				user.ID, user.Username, user.DisplayName, user.Role, user.PasswordHash,
				formatTime(user.CreatedAt), formatTime(user.UpdatedAt),
			); err != nil {
				return fmt.Errorf("sqlite: inserting user %s: %w", user.ID, err)
			}
		}
		return nil
	})
}

// LoadSnapshot returns the stored snapshot, or persistence.ErrNoSnapshot
// when the database holds none.
func (r *Repository) LoadSnapshot(ctx context.Context) (persistence.Snapshot, error) {
	var snap persistence.Snapshot

	var savedAtStr string
	err := r.db.QueryRowContext(ctx, "SELECT saved_at FROM snapshot_meta WHERE id = 1").Scan(&savedAtStr)
	if err == sql.ErrNoRows {
		return persistence.Snapshot{}, persistence.ErrNoSnapshot
	}
	if err != nil {
		return persistence.Snapshot{}, fmt.Errorf("sqlite: reading snapshot metadata: %w", err)
	}
	if snap.SavedAt, err = parseTime(savedAtStr); err != nil {
		return persistence.Snapshot{}, err
	}

	if snap.Rooms, err = r.loadRooms(ctx); err != nil {
		return persistence.Snapshot{}, err
	}
	if snap.Events, err = r.loadEvents(ctx); err != nil {
		return persistence.Snapshot{}, err
	}
	if snap.Users, err = r.loadUsers(ctx); err != nil {
		return persistence.Snapshot{}, err
	}
	return snap, nil
}

func (r *Repository) loadUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, display_name, role, password_hash, created_at, updated_at
		FROM users
		ORDER BY username ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		var user persistence.User
		var createdAtStr, updatedAtStr string

		if err := rows.Scan(
			&user.ID, &user.Username, &user.DisplayName, &user.Role, &user.PasswordHash,
			&createdAtStr, &updatedAtStr,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user: %w", err)
		}
		if user.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, err
		}
		if user.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}
	return users, nil
}

func insertRoom(tx *sql.Tx, room persistence.Room) error {
	_, err := tx.Exec(`
		INSERT INTO rooms (id, number, capacity, has_tech, has_table, has_stage, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		room.ID,
		room.Number,
		room.Capacity,
		boolToInt(room.HasTech),
		boolToInt(room.HasTable),
		boolToInt(room.HasStage),
		formatTime(room.CreatedAt),
		formatTime(room.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting room %s: %w", room.ID, err)
	}

	for i, tag := range room.Constraints {
		if _, err := tx.Exec(
			"INSERT INTO room_constraints (room_id, position, tag) VALUES (?, ?, ?)",
			room.ID, i, tag,
		); err != nil {
			return fmt.Errorf("sqlite: inserting constraint for room %s: %w", room.ID, err)
		}
	}
	return nil
}

func insertEvent(tx *sql.Tx, event persistence.Event) error {
	_, err := tx.Exec(`
		INSERT INTO events (id, title, start, duration_seconds, room_id, type, capacity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.Title,
		formatTime(event.Start),
		int64(event.Duration.Seconds()),
		event.RoomID,
		event.Type,
		event.Capacity,
		formatTime(event.CreatedAt),
		formatTime(event.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting event %s: %w", event.ID, err)
	}

	for i, speakerID := range event.SpeakerIDs {
		if _, err := tx.Exec(
			"INSERT INTO event_speakers (event_id, position, speaker_id) VALUES (?, ?, ?)",
			event.ID, i, speakerID,
		); err != nil {
			return fmt.Errorf("sqlite: inserting speaker for event %s: %w", event.ID, err)
		}
	}
	for i, attendeeID := range event.AttendeeIDs {
		if _, err := tx.Exec(
			"INSERT INTO event_attendees (event_id, position, attendee_id) VALUES (?, ?, ?)",
			event.ID, i, attendeeID,
		); err != nil {
			return fmt.Errorf("sqlite: inserting attendee for event %s: %w", event.ID, err)
		}
	}
	return nil
}

func (r *Repository) loadRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, number, capacity, has_tech, has_table, has_stage, created_at, updated_at
		FROM rooms
		ORDER BY number ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing rooms: %w", err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		var room persistence.Room
		var hasTech, hasTable, hasStage int
		var createdAtStr, updatedAtStr string

		if err := rows.Scan(
			&room.ID, &room.Number, &room.Capacity,
			&hasTech, &hasTable, &hasStage,
			&createdAtStr, &updatedAtStr,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning room: %w", err)
		}
		room.HasTech = hasTech != 0
		room.HasTable = hasTable != 0
		room.HasStage = hasStage != 0
		if room.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, err
		}
		if room.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating rooms: %w", err)
	}

	for i := range rooms {
		if rooms[i].Constraints, err = r.loadTags(ctx,
			"SELECT tag FROM room_constraints WHERE room_id = ? ORDER BY position ASC", rooms[i].ID); err != nil {
			return nil, err
		}
	}
	return rooms, nil
}

func (r *Repository) loadEvents(ctx context.Context) ([]persistence.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, start, duration_seconds, room_id, type, capacity, created_at, updated_at
		FROM events
		ORDER BY start ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing events: %w", err)
	}
	defer rows.Close()

	var events []persistence.Event
	for rows.Next() {
		var event persistence.Event
		var startStr, createdAtStr, updatedAtStr string
		var durationSeconds int64

		if err := rows.Scan(
			&event.ID, &event.Title, &startStr, &durationSeconds,
			&event.RoomID, &event.Type, &event.Capacity,
			&createdAtStr, &updatedAtStr,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning event: %w", err)
		}
		event.Duration = time.Duration(durationSeconds) * time.Second
		if event.Start, err = parseTime(startStr); err != nil {
			return nil, err
		}
		if event.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, err
		}
		if event.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating events: %w", err)
	}

	for i := range events {
		if events[i].SpeakerIDs, err = r.loadTags(ctx,
			"SELECT speaker_id FROM event_speakers WHERE event_id = ? ORDER BY position ASC", events[i].ID); err != nil {
			return nil, err
		}
		if events[i].AttendeeIDs, err = r.loadTags(ctx,
			"SELECT attendee_id FROM event_attendees WHERE event_id = ? ORDER BY position ASC", events[i].ID); err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (r *Repository) loadTags(ctx context.Context, query, id string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying %s: %w", id, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("sqlite: scanning value for %s: %w", id, err)
		}
		out = append(out, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating values for %s: %w", id, err)
	}
	return out, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
