// Package auth manages user accounts for the labelforge API.
//
// Accounts are username/email/password triples with bcrypt-hashed
// passwords. Storage is pluggable: an in-memory store for development and
// a MongoDB-backed store for deployments.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/labelforge/labelforge/pkg/errors"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// User is a registered account.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash []byte    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) == nil
}

// Store is the interface for account storage backends.
type Store interface {
	// Insert stores a new user. Returns ErrCodeAlreadyExists if the
	// username or email is taken.
	Insert(ctx context.Context, user *User) error

	// FindByUsername retrieves a user by username.
	// Returns nil, nil when no such user exists.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByEmail retrieves a user by email.
	// Returns nil, nil when no such user exists.
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// Service implements registration and login on top of a Store.
type Service struct {
	store Store
}

// NewService creates an auth service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register validates the signup fields and creates the account.
func (s *Service) Register(ctx context.Context, username, email, password, confirm string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "all fields are required")
	}
	if password != confirm {
		return nil, errors.New(errors.ErrCodeInvalidInput, "passwords do not match")
	}
	if len(password) < MinPasswordLength {
		return nil, errors.New(errors.ErrCodeInvalidInput, "password must be at least %d characters long", MinPasswordLength)
	}
	if !strings.Contains(email, "@") {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid email address")
	}

	if existing, err := s.store.FindByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, errors.New(errors.ErrCodeAlreadyExists, "username already exists")
	}
	if existing, err := s.store.FindByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, errors.New(errors.ErrCodeAlreadyExists, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash password")
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.store.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials and returns the user.
// Wrong username and wrong password return the same error so the API
// doesn't leak which accounts exist.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	if username == "" || password == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "please provide both username and password")
	}

	user, err := s.store.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.CheckPassword(password) {
		return nil, errors.New(errors.ErrCodeUnauthorized, "invalid username or password")
	}
	return user, nil
}
