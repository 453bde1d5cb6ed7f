// Package directory holds the user accounts the conference core refers to by
// identifier: organizers, speakers, and attendees. It is an identity
// registry only; no scheduling invariant depends on it.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when the requested account does not exist.
	ErrNotFound = errors.New("directory: not found")
	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("directory: username taken")
	// ErrInvalidCredentials is returned when a password check fails.
	ErrInvalidCredentials = errors.New("directory: invalid credentials")
)

// Role classifies an account.
type Role string

const (
	// RoleOrganizer can manage rooms and events.
	RoleOrganizer Role = "organizer"
	// RoleSpeaker can be assigned to events.
	RoleSpeaker Role = "speaker"
	// RoleAttendee can enroll in events.
	RoleAttendee Role = "attendee"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleOrganizer, RoleSpeaker, RoleAttendee:
		return true
	}
	return false
}

// User represents a registered account. The password hash never leaves the
// package in plain form.
type User struct {
	ID           string
	Username     string
	DisplayName  string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Service owns the account map and enforces username uniqueness.
type Service struct {
	mu          sync.RWMutex
	users       map[string]User
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewService constructs a directory service.
func NewService(idGenerator func() string, now func() time.Time) *Service {
	return NewServiceWithLogger(idGenerator, now, nil)
}

// NewServiceWithLogger constructs a directory service with a specified logger.
func NewServiceWithLogger(idGenerator func() string, now func() time.Time, logger *slog.Logger) *Service {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:       make(map[string]User),
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
	}
}

// CreateUser registers a new account with an argon2id password hash.
func (s *Service) CreateUser(ctx context.Context, username, displayName, password string, role Role) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("directory Service is nil")
	}

	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)
	if username == "" {
		return User{}, fmt.Errorf("directory: username is required")
	}
	if password == "" {
		return User{}, fmt.Errorf("directory: password is required")
	}
	if !role.Valid() {
		return User{}, fmt.Errorf("directory: unknown role %q", role)
	}
	if displayName == "" {
		displayName = username
	}

	hash, err := hashPassword(password, defaultArgon2idParams)
	if err != nil {
		return User{}, fmt.Errorf("directory: hashing password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, username) {
			return User{}, ErrUsernameTaken
		}
	}

	user := User{
		ID:           s.idGenerator(),
		Username:     username,
		DisplayName:  displayName,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user

	s.logger.InfoContext(ctx, "user created", "service", "Directory", "user_id", user.ID, "role", string(role))
	return user, nil
}

// Get returns the account with the given identifier.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("directory Service is nil")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

// FindByUsername resolves an account by its username, case-insensitively.
func (s *Service) FindByUsername(ctx context.Context, username string) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("directory Service is nil")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

// ListByRole returns accounts with the given role ordered by username.
func (s *Service) ListByRole(ctx context.Context, role Role) ([]User, error) {
	if s == nil {
		return nil, fmt.Errorf("directory Service is nil")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []User
	for _, user := range s.users {
		if user.Role == role {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Username) < strings.ToLower(out[j].Username)
	})
	return out, nil
}

// Export returns every account ordered by username.
func (s *Service) Export() []User {
	if s == nil {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Username) < strings.ToLower(out[j].Username)
	})
	return out
}

// Restore loads previously exported accounts into an empty directory,
// keeping their identifiers and password hashes.
func (s *Service) Restore(users []User) error {
	if s == nil {
		return fmt.Errorf("directory Service is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(users))
	for _, user := range users {
		if user.ID == "" {
			return fmt.Errorf("directory: restore: account %q has no id", user.Username)
		}
		if _, dup := s.users[user.ID]; dup {
			return fmt.Errorf("directory: restore: duplicate account id %s", user.ID)
		}
		lower := strings.ToLower(user.Username)
		if _, dup := seen[lower]; dup {
			return fmt.Errorf("directory: restore: duplicate username %q", user.Username)
		}
		seen[lower] = struct{}{}
		s.users[user.ID] = user
	}
	return nil
}

// VerifyCredentials checks a username and password pair against the stored
// hash. Unknown usernames and wrong passwords both map to
// ErrInvalidCredentials so callers cannot probe for registered names.
func (s *Service) VerifyCredentials(ctx context.Context, username, password string) (User, error) {
	user, err := s.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := verifyPassword(user.PasswordHash, password); err != nil {
		s.logger.WarnContext(ctx, "credential check failed", "service", "Directory", "user_id", user.ID)
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// MissingIDs reports which of the given identifiers are unknown to the
// directory. Presentation layers use it to flag dangling references.
func (s *Service) MissingIDs(ctx context.Context, ids []string) []string {
	if s == nil {
		return ids
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var missing []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := s.users[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}
