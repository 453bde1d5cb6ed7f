// Package persistence defines the snapshot records the engine can export and
// re-import. The storage format is opaque to callers; only the repository
// implementations know how a snapshot is laid out on disk or on the wire.
package persistence

import (
	"time"

	"github.com/example/conference-manager/internal/directory"
	"github.com/example/conference-manager/internal/registry"
)

// Room is the stored form of a catalog room.
type Room struct {
	ID          string    `json:"id"`
	Number      int       `json:"number"`
	Capacity    int       `json:"capacity"`
	HasTech     bool      `json:"has_tech"`
	HasTable    bool      `json:"has_table"`
	HasStage    bool      `json:"has_stage"`
	Constraints []string  `json:"constraints,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Event is the stored form of a scheduled event.
type Event struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Start       time.Time     `json:"start"`
	Duration    time.Duration `json:"duration"`
	RoomID      string        `json:"room_id"`
	Type        string        `json:"type"`
	Capacity    int           `json:"capacity"`
	SpeakerIDs  []string      `json:"speaker_ids,omitempty"`
	AttendeeIDs []string      `json:"attendee_ids,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// User is the stored form of a directory account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Snapshot is a full export of the engine state at a point in time.
type Snapshot struct {
	SavedAt time.Time `json:"saved_at"`
	Rooms   []Room    `json:"rooms"`
	Events  []Event   `json:"events"`
	Users   []User    `json:"users,omitempty"`
}

// RoomFromDomain converts a catalog room into its stored form.
func RoomFromDomain(room registry.Room) Room {
	return Room{
		ID:          room.ID,
		Number:      room.Number,
		Capacity:    room.Capacity,
		HasTech:     room.HasTech,
		HasTable:    room.HasTable,
		HasStage:    room.HasStage,
		Constraints: append([]string(nil), room.Constraints...),
		CreatedAt:   room.CreatedAt,
		UpdatedAt:   room.UpdatedAt,
	}
}

// ToDomain converts a stored room back into the catalog model.
func (r Room) ToDomain() registry.Room {
	return registry.Room{
		ID:          r.ID,
		Number:      r.Number,
		Capacity:    r.Capacity,
		HasTech:     r.HasTech,
		HasTable:    r.HasTable,
		HasStage:    r.HasStage,
		Constraints: append([]string(nil), r.Constraints...),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// EventFromDomain converts a scheduled event into its stored form.
func EventFromDomain(event registry.Event) Event {
	return Event{
		ID:          event.ID,
		Title:       event.Title,
		Start:       event.Start,
		Duration:    event.Duration,
		RoomID:      event.RoomID,
		Type:        string(event.Type),
		Capacity:    event.Capacity,
		SpeakerIDs:  append([]string(nil), event.SpeakerIDs...),
		AttendeeIDs: append([]string(nil), event.AttendeeIDs...),
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}

// ToDomain converts a stored event back into the registry model.
func (e Event) ToDomain() registry.Event {
	return registry.Event{
		ID:          e.ID,
		Title:       e.Title,
		Start:       e.Start,
		Duration:    e.Duration,
		RoomID:      e.RoomID,
		Type:        registry.EventType(e.Type),
		Capacity:    e.Capacity,
		SpeakerIDs:  append([]string(nil), e.SpeakerIDs...),
		AttendeeIDs: append([]string(nil), e.AttendeeIDs...),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// UserFromDomain converts a directory account into its stored form.
func UserFromDomain(user directory.User) User {
	return User{
		ID:           user.ID,
		Username:     user.Username,
		DisplayName:  user.DisplayName,
		Role:         string(user.Role),
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

// ToDomain converts a stored account back into the directory model.
func (u User) ToDomain() directory.User {
	return directory.User{
		ID:           u.ID,
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		Role:         directory.Role(u.Role),
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// SnapshotFromDomain assembles a snapshot from the live catalog state.
func SnapshotFromDomain(rooms []registry.Room, events []registry.Event, savedAt time.Time) Snapshot {
	snap := Snapshot{SavedAt: savedAt}
	for _, room := range rooms {
		snap.Rooms = append(snap.Rooms, RoomFromDomain(room))
	}
	for _, event := range events {
		snap.Events = append(snap.Events, EventFromDomain(event))
	}
	return snap
}

// WithUsers attaches directory accounts to the snapshot.
func (s Snapshot) WithUsers(users []directory.User) Snapshot {
	s.Users = nil
	for _, user := range users {
		s.Users = append(s.Users, UserFromDomain(user))
	}
	return s
}

// DomainUsers converts the stored accounts back into directory models.
func (s Snapshot) DomainUsers() []directory.User {
	users := make([]directory.User, 0, len(s.Users))
	for _, u := range s.Users {
		users = append(users, u.ToDomain())
	}
	return users
}

// DomainRooms converts the stored rooms back into catalog models.
func (s Snapshot) DomainRooms() []registry.Room {
	rooms := make([]registry.Room, 0, len(s.Rooms))
	for _, r := range s.Rooms {
		rooms = append(rooms, r.ToDomain())
	}
	return rooms
}

// DomainEvents converts the stored events back into registry models.
func (s Snapshot) DomainEvents() []registry.Event {
	events := make([]registry.Event, 0, len(s.Events))
	for _, e := range s.Events {
		events = append(events, e.ToDomain())
	}
	return events
}
