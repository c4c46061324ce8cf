package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kunalroy0223/liveiq/internal/domain"
)

func TestSignupValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(30)

	cases := []struct {
		name                        string
		username, password, confirm string
		field                       string
	}{
		{"missing username", "", "pw123456", "pw123456", "username"},
		{"missing password", "alice", "", "", "password"},
		{"missing confirm", "alice", "pw123456", "", "confirm"},
		{"mismatched confirm", "alice", "pw123456", "pw654321", "confirm"},
	}
	for _, tc := range cases {
		_, err := env.users.Signup(ctx, tc.username, tc.password, tc.confirm)
		var verr domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
		if verr.Field != tc.field {
			t.Fatalf("%s: field %q, want %q", tc.name, verr.Field, tc.field)
		}
	}
}

func TestSignupRejectsDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(30)

	if _, err := env.users.Signup(ctx, "alice", "pw123456", "pw123456"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := env.users.Signup(ctx, "alice", "other999", "other999"); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("duplicate signup: got %v", err)
	}
}

func TestSignupHashesPassword(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(30)

	user, err := env.users.Signup(ctx, "alice", "pw123456", "pw123456")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	stored, err := env.users.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.PasswordHash == "pw123456" || stored.PasswordHash == "" {
		t.Fatalf("password stored without hashing")
	}
}

func TestLoginUserAndAdmin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(30)
	signup(t, env, "alice")

	user, isAdmin, err := env.users.Login(ctx, "alice", "secret123")
	if err != nil || isAdmin {
		t.Fatalf("user login: isAdmin=%v err=%v", isAdmin, err)
	}
	if user.Username != "alice" {
		t.Fatalf("login returned %q", user.Username)
	}

	_, isAdmin, err = env.users.Login(ctx, "Admin", "Admin@123")
	if err != nil || !isAdmin {
		t.Fatalf("admin login: isAdmin=%v err=%v", isAdmin, err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(30)
	signup(t, env, "alice")

	if _, _, err := env.users.Login(ctx, "alice", "wrongpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}
	if _, _, err := env.users.Login(ctx, "nobody", "whatever1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: got %v", err)
	}
	if _, _, err := env.users.Login(ctx, "Admin", "not-the-admin-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("bad admin password must fall through to user auth: got %v", err)
	}
}

func TestResetScores(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(30)
	user := signup(t, env, "alice")
	addQuestion(t, env, "What is 2 + 2?", "4")

	if _, err := env.live.SubmitAnswer(ctx, user.ID, "4"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.live.Reveal(ctx); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	stored, _ := env.users.Get(ctx, user.ID)
	if stored.Score == 0 {
		t.Fatalf("expected a score before reset")
	}

	if err := env.users.ResetScores(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	stored, _ = env.users.Get(ctx, user.ID)
	if stored.Score != 0 {
		t.Fatalf("reset left score %d", stored.Score)
	}
}
