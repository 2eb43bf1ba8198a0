package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/labelforge/labelforge/pkg/errors"
)

// MemoryStore is an in-memory account store for development and testing.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*User // keyed by lowercased username
}

// NewMemoryStore creates an empty in-memory account store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*User)}
}

// Insert stores a new user.
func (s *MemoryStore) Insert(ctx context.Context, user *User) error {
	key := strings.ToLower(user.Username)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[key]; ok {
		return errors.New(errors.ErrCodeAlreadyExists, "username already exists")
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return errors.New(errors.ErrCodeAlreadyExists, "email already registered")
		}
	}

	copied := *user
	s.users[key] = &copied
	return nil
}

// FindByUsername retrieves a user by username.
func (s *MemoryStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[strings.ToLower(username)]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

// FindByEmail retrieves a user by email.
func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
