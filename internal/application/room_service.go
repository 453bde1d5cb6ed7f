package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/conference-manager/internal/registry"
)

// RoomService orchestrates validation and registry writes for rooms.
type RoomService struct {
	rooms       *registry.RoomRegistry
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRoomService constructs a room service with the provided dependencies.
func NewRoomService(rooms *registry.RoomRegistry, idGenerator func() string, now func() time.Time) *RoomService {
	return NewRoomServiceWithLogger(rooms, idGenerator, now, nil)
}

// NewRoomServiceWithLogger constructs a room service with a specified logger.
func NewRoomServiceWithLogger(rooms *registry.RoomRegistry, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{rooms: rooms, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// CreateRoom validates input and registers a new room. Capability flags
// default to false and the constraint set starts empty unless provided.
func (s *RoomService) CreateRoom(ctx context.Context, input RoomInput) (room registry.Room, err error) {
	if s == nil || s.rooms == nil {
		err = fmt.Errorf("RoomService is not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateRoom", "room_number", input.Number)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_id", room.ID).InfoContext(ctx, "room created")
	}()

	vErr := &ValidationError{}
	if input.Number <= 0 {
		vErr.add("number", "room number must be positive")
	}
	if input.Capacity <= 0 {
		vErr.add("capacity", "capacity must be positive")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	room = registry.Room{
		ID:        s.idGenerator(),
		Number:    input.Number,
		Capacity:  input.Capacity,
		HasTech:   input.HasTech,
		HasTable:  input.HasTable,
		HasStage:  input.HasStage,
		CreatedAt: s.now(),
	}
	room.UpdatedAt = room.CreatedAt

	if !s.rooms.Add(room) {
		room = registry.Room{}
		err = ErrRoomNumberTaken
		return
	}
	return
}

// FindRoomByNumber resolves a user-facing room number.
func (s *RoomService) FindRoomByNumber(ctx context.Context, number int) (registry.Room, error) {
	if s == nil || s.rooms == nil {
		return registry.Room{}, fmt.Errorf("RoomService is not configured")
	}

	room, ok := s.rooms.FindByNumber(number)
	if !ok {
		return registry.Room{}, ErrNotFound
	}
	return room, nil
}

// SetRoomConstraints replaces the free-text constraint tag set for a room.
// Constraints do not interact with scheduling, so no conflict check is needed.
func (s *RoomService) SetRoomConstraints(ctx context.Context, number int, tags []string) (err error) {
	if s == nil || s.rooms == nil {
		return fmt.Errorf("RoomService is not configured")
	}

	logger := s.loggerWith(ctx, "SetRoomConstraints", "room_number", number)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to set room constraints", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room constraints updated")
	}()

	room, ok := s.rooms.FindByNumber(number)
	if !ok {
		err = ErrNotFound
		return
	}

	room.Constraints = normalizeTags(tags)
	room.UpdatedAt = s.now()
	if !s.rooms.Update(room) {
		err = ErrNotFound
	}
	return
}

// SetRoomFeatures updates the capability flags for a room.
func (s *RoomService) SetRoomFeatures(ctx context.Context, number int, hasTech, hasTable, hasStage bool) (err error) {
	if s == nil || s.rooms == nil {
		return fmt.Errorf("RoomService is not configured")
	}

	logger := s.loggerWith(ctx, "SetRoomFeatures", "room_number", number)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to set room features", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room features updated")
	}()

	room, ok := s.rooms.FindByNumber(number)
	if !ok {
		err = ErrNotFound
		return
	}

	room.HasTech = hasTech
	room.HasTable = hasTable
	room.HasStage = hasStage
	room.UpdatedAt = s.now()
	if !s.rooms.Update(room) {
		err = ErrNotFound
	}
	return
}

// ListRooms returns every registered room ordered by room number.
func (s *RoomService) ListRooms(ctx context.Context) ([]registry.Room, error) {
	if s == nil || s.rooms == nil {
		return nil, fmt.Errorf("RoomService is not configured")
	}
	return s.rooms.List(), nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.ToLower(strings.TrimSpace(tag))
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
