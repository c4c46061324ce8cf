package app

import (
	"context"
	"time"

	"github.com/kunalroy0223/liveiq/internal/domain"
)

// LiveRepository stores the singleton live document.
type LiveRepository interface {
	Get(ctx context.Context) (domain.LiveState, error)
	Set(ctx context.Context, live domain.LiveState) error
}

// QuestionRepository stores quiz questions. List returns questions ordered
// by their admin-assigned order, ascending.
type QuestionRepository interface {
	Create(ctx context.Context, q domain.Question) error
	Update(ctx context.Context, q domain.Question) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (domain.Question, error)
	List(ctx context.Context) ([]domain.Question, error)
}

// UserRepository stores participants. AddScore must be an atomic increment
// at the store layer so concurrent reveals cannot lose updates.
type UserRepository interface {
	Create(ctx context.Context, u domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	AddScore(ctx context.Context, id string, delta int) (int, error)
	ResetScores(ctx context.Context) error
	TouchLastActive(ctx context.Context, id string, at time.Time) error
}

// SubmissionStore keeps per-question answer submissions and the settle marks
// that make reveal processing idempotent. MarkSettled reports true only the
// first time it is called for a (question, user) pair.
type SubmissionStore interface {
	Put(ctx context.Context, sub domain.Submission) error
	Get(ctx context.Context, questionID, userID string) (domain.Submission, bool, error)
	List(ctx context.Context, questionID string) (map[string]domain.Submission, error)
	MarkSettled(ctx context.Context, questionID, userID string) (bool, error)
}
