package auth

import (
	"context"
	"testing"

	"github.com/labelforge/labelforge/pkg/errors"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	user, err := svc.Register(ctx, "alice", "alice@example.com", "secret1", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.ID == "" {
		t.Error("user ID should not be empty")
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q", user.Username)
	}
	if !user.CheckPassword("secret1") {
		t.Error("CheckPassword should accept the registered password")
	}
	if user.CheckPassword("wrong") {
		t.Error("CheckPassword should reject a wrong password")
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name                               string
		username, email, password, confirm string
		wantCode                           errors.Code
	}{
		{"missing username", "", "a@b.c", "secret1", "secret1", errors.ErrCodeInvalidInput},
		{"missing email", "alice", "", "secret1", "secret1", errors.ErrCodeInvalidInput},
		{"missing password", "alice", "a@b.c", "", "", errors.ErrCodeInvalidInput},
		{"mismatched confirm", "alice", "a@b.c", "secret1", "secret2", errors.ErrCodeInvalidInput},
		{"short password", "alice", "a@b.c", "abc", "abc", errors.ErrCodeInvalidInput},
		{"bad email", "alice", "nope", "secret1", "secret1", errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(NewMemoryStore())
			_, err := svc.Register(ctx, tt.username, tt.email, tt.password, tt.confirm)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error code = %q, want %q", errors.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestRegisterDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "secret1", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Register(ctx, "alice", "other@example.com", "secret1", "secret1"); !errors.Is(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("duplicate username: code = %q, want ALREADY_EXISTS", errors.GetCode(err))
	}
	if _, err := svc.Register(ctx, "bob", "alice@example.com", "secret1", "secret1"); !errors.Is(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("duplicate email: code = %q, want ALREADY_EXISTS", errors.GetCode(err))
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "secret1", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, err := svc.Authenticate(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q", user.Username)
	}
}

func TestAuthenticateRejects(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())
	_, _ = svc.Register(ctx, "alice", "alice@example.com", "secret1", "secret1")

	tests := []struct {
		name               string
		username, password string
		wantCode           errors.Code
	}{
		{"wrong password", "alice", "nope12", errors.ErrCodeUnauthorized},
		{"unknown user", "mallory", "secret1", errors.ErrCodeUnauthorized},
		{"empty fields", "", "", errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tt.username, tt.password)
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error code = %q, want %q", errors.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestAuthenticateSameErrorForUserAndPassword(t *testing.T) {
	// Login failures must not reveal whether the account exists.
	ctx := context.Background()
	svc := NewService(NewMemoryStore())
	_, _ = svc.Register(ctx, "alice", "alice@example.com", "secret1", "secret1")

	_, errUser := svc.Authenticate(ctx, "mallory", "secret1")
	_, errPass := svc.Authenticate(ctx, "alice", "wrong1")

	if errUser.Error() != errPass.Error() {
		t.Errorf("error messages differ: %q vs %q", errUser, errPass)
	}
}

func TestMemoryStoreCaseInsensitiveUsername(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store)
	_, _ = svc.Register(ctx, "Alice", "alice@example.com", "secret1", "secret1")

	u, err := store.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if u == nil {
		t.Fatal("lookup should be case-insensitive")
	}
}
