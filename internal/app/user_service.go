package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kunalroy0223/liveiq/internal/domain"
)

// UserService handles signup, login, presence, and the admin score reset.
// Passwords are bcrypt-hashed; the single admin account is a configured
// credential pair checked before any user lookup.
type UserService struct {
	users UserRepository
	hub   *Hub

	adminUsername string
	adminPassword string
	now           func() time.Time
}

func NewUserService(users UserRepository, hub *Hub, adminUsername, adminPassword string) *UserService {
	return &UserService{
		users:         users,
		hub:           hub,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
		now:           time.Now,
	}
}

// Signup registers a new participant. The duplicate-username pre-check runs
// first so the caller gets a field-level error; the store's unique index
// backstops the race it leaves open.
func (s *UserService) Signup(ctx context.Context, username, password, confirm string) (domain.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	confirm = strings.TrimSpace(confirm)

	switch {
	case username == "":
		return domain.User{}, domain.ValidationError{Field: "username", Message: "username is required"}
	case password == "":
		return domain.User{}, domain.ValidationError{Field: "password", Message: "password is required"}
	case confirm == "":
		return domain.User{}, domain.ValidationError{Field: "confirm", Message: "please confirm your password"}
	case password != confirm:
		return domain.User{}, domain.ValidationError{Field: "confirm", Message: "passwords do not match"}
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return domain.User{}, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Score:        0,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}

	s.broadcastLeaderboard(ctx)
	return user, nil
}

// Login authenticates either the configured admin pair or a stored user.
// The boolean reports an admin login; for users the returned record is the
// stored one with lastActive freshly touched.
func (s *UserService) Login(ctx context.Context, username, password string) (domain.User, bool, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if username == "" {
		return domain.User{}, false, domain.ValidationError{Field: "username", Message: "username is required"}
	}
	if password == "" {
		return domain.User{}, false, domain.ValidationError{Field: "password", Message: "password is required"}
	}

	if username == s.adminUsername && password == s.adminPassword {
		return domain.User{Username: s.adminUsername}, true, nil
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, false, domain.ErrInvalidCredentials
		}
		return domain.User{}, false, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, false, domain.ErrInvalidCredentials
	}

	s.Touch(ctx, user.ID)
	user.LastActive = s.now()
	return user, false, nil
}

// Touch marks a user as active now, feeding the 7-day presence window.
func (s *UserService) Touch(ctx context.Context, userID string) {
	if err := s.users.TouchLastActive(ctx, userID, s.now()); err != nil {
		log.Printf("user: touch lastActive for %s: %v", userID, err)
	}
}

// Get returns one user by ID.
func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// List returns the current users snapshot.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// ResetScores zeroes every user's score in one bulk write, independent of
// any per-user increments in flight.
func (s *UserService) ResetScores(ctx context.Context) error {
	if err := s.users.ResetScores(ctx); err != nil {
		return err
	}
	s.broadcastLeaderboard(ctx)
	return nil
}

func (s *UserService) broadcastLeaderboard(ctx context.Context) {
	if err := broadcastLeaderboard(ctx, s.users, s.hub, s.now()); err != nil {
		log.Printf("user: leaderboard broadcast: %v", err)
	}
}
