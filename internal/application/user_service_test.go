package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newUserService(store *memoryStore, sender EmailSender, now time.Time) *UserService {
	svc := NewUserService(store, store, sender, sequentialIDs("user"), func() string { return "verify-token" }, fixedNow(now), 24*time.Hour)
	// Tests do not need a real argon2id derivation per case.
	svc.hashPassword = func(password string) (string, error) { return "hashed:" + password, nil }
	return svc
}

func TestUserService_Register(t *testing.T) {
	t.Run("validates input", func(t *testing.T) {
		store := newMemoryStore()
		svc := newUserService(store, nil, accessNow)

		_, err := svc.Register(context.Background(), RegisterUserParams{
			Email:       "not-an-address",
			DisplayName: " ",
			Password:    "short",
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"email", "display_name", "password"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected error on %q, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("normalizes the email and stores the account unverified", func(t *testing.T) {
		store := newMemoryStore()
		sender := &captureSender{}
		svc := newUserService(store, sender, accessNow)

		user, err := svc.Register(context.Background(), RegisterUserParams{
			Email:       "  Alice@Example.COM ",
			DisplayName: "Alice",
			Password:    "correct horse",
		})
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if user.Email != "alice@example.com" {
			t.Fatalf("expected normalized email, got %q", user.Email)
		}
		if user.EmailVerified() {
			t.Fatalf("new accounts must start unverified")
		}
		if len(sender.messages) != 1 || !strings.Contains(sender.messages[0].Body, "verify-token") {
			t.Fatalf("expected verification delivery, got %+v", sender.messages)
		}
		if _, ok := store.verifications[HashToken("verify-token")]; !ok {
			t.Fatalf("verification stored under something other than the token hash")
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		store := newMemoryStore()
		svc := newUserService(store, nil, accessNow)

		params := RegisterUserParams{Email: "alice@example.com", DisplayName: "Alice", Password: "correct horse"}
		if _, err := svc.Register(context.Background(), params); err != nil {
			t.Fatalf("first register: %v", err)
		}
		if _, err := svc.Register(context.Background(), params); !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestUserService_VerifyEmail(t *testing.T) {
	register := func(t *testing.T, store *memoryStore, svc *UserService) User {
		t.Helper()
		user, err := svc.Register(context.Background(), RegisterUserParams{
			Email:       "alice@example.com",
			DisplayName: "Alice",
			Password:    "correct horse",
		})
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		return user
	}

	t.Run("consumes the token and marks the account verified", func(t *testing.T) {
		store := newMemoryStore()
		svc := newUserService(store, nil, accessNow)
		registered := register(t, store, svc)

		user, err := svc.VerifyEmail(context.Background(), VerifyEmailParams{Token: "verify-token"})
		if err != nil {
			t.Fatalf("VerifyEmail: %v", err)
		}
		if user.ID != registered.ID || !user.EmailVerified() {
			t.Fatalf("unexpected user: %+v", user)
		}
		if len(store.verifications) != 0 {
			t.Fatalf("token not consumed")
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		store := newMemoryStore()
		svc := newUserService(store, nil, accessNow)
		register(t, store, svc)

		if _, err := svc.VerifyEmail(context.Background(), VerifyEmailParams{Token: "wrong"}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		store := newMemoryStore()
		svc := newUserService(store, nil, accessNow)
		register(t, store, svc)

		late := NewUserService(store, store, nil, nil, nil, fixedNow(accessNow.Add(25*time.Hour)), 24*time.Hour)
		if _, err := late.VerifyEmail(context.Background(), VerifyEmailParams{Token: "verify-token"}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for expired token, got %v", err)
		}
	})
}
