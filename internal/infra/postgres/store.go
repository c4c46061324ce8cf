package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/kunalroy0223/liveiq/internal/domain"
)

const liveDocID = "current"

// LiveStore persists the singleton live document as a one-row table.
type LiveStore struct {
	pool *pgxpool.Pool
}

func NewLiveStore(pool *pgxpool.Pool) *LiveStore {
	return &LiveStore{pool: pool}
}

func (s *LiveStore) Get(ctx context.Context) (domain.LiveState, error) {
	var live domain.LiveState
	var activeID sql.NullString
	err := s.pool.QueryRow(ctx,
		`SELECT is_started, is_paused, reveal_answer, active_question_id FROM live WHERE id=$1`,
		liveDocID,
	).Scan(&live.IsStarted, &live.IsPaused, &live.RevealAnswer, &activeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LiveState{}, nil
	}
	if err != nil {
		return domain.LiveState{}, fmt.Errorf("load live state: %w", err)
	}
	live.ActiveQuestionID = activeID.String
	return live, nil
}

func (s *LiveStore) Set(ctx context.Context, live domain.LiveState) error {
	var activeID any
	if live.ActiveQuestionID != "" {
		activeID = live.ActiveQuestionID
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO live (id, is_started, is_paused, reveal_answer, active_question_id)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
		   is_started=EXCLUDED.is_started,
		   is_paused=EXCLUDED.is_paused,
		   reveal_answer=EXCLUDED.reveal_answer,
		   active_question_id=EXCLUDED.active_question_id`,
		liveDocID, live.IsStarted, live.IsPaused, live.RevealAnswer, activeID,
	)
	if err != nil {
		return fmt.Errorf("store live state: %w", err)
	}
	return nil
}

// QuestionStore persists questions in Postgres.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

func (s *QuestionStore) Create(ctx context.Context, q domain.Question) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO questions (id, question_text, answer, bonus_time, "order", created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		q.ID, q.QuestionText, q.Answer, q.BonusTime, q.Order, q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func (s *QuestionStore) Update(ctx context.Context, q domain.Question) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE questions SET question_text=$2, answer=$3, bonus_time=$4, "order"=$5 WHERE id=$1`,
		q.ID, q.QuestionText, q.Answer, q.BonusTime, q.Order,
	)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (s *QuestionStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (s *QuestionStore) GetByID(ctx context.Context, id string) (domain.Question, error) {
	var q domain.Question
	err := s.pool.QueryRow(ctx,
		`SELECT id, question_text, answer, bonus_time, "order", created_at FROM questions WHERE id=$1`,
		id,
	).Scan(&q.ID, &q.QuestionText, &q.Answer, &q.BonusTime, &q.Order, &q.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("load question: %w", err)
	}
	return q, nil
}

func (s *QuestionStore) List(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, question_text, answer, bonus_time, "order", created_at
		 FROM questions ORDER BY "order" ASC, created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.QuestionText, &q.Answer, &q.BonusTime, &q.Order, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// UserStore persists users in Postgres. Score increments are single UPDATE
// statements, so concurrent reveals cannot lose updates.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) Create(ctx context.Context, u domain.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, username, password_hash, score, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Username, u.PasswordHash, u.Score, u.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: the unique index backstops the signup pre-check race.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	return s.getUser(ctx, `WHERE id=$1`, id)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.getUser(ctx, `WHERE username=$1`, username)
}

func (s *UserStore) getUser(ctx context.Context, where string, arg any) (domain.User, error) {
	var u domain.User
	var lastActive sql.NullTime
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, score, created_at, last_active FROM users `+where,
		arg,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Score, &u.CreatedAt, &lastActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	u.LastActive = lastActive.Time
	return u, nil
}

func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, username, password_hash, score, created_at, last_active
		 FROM users ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		var lastActive sql.NullTime
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Score, &u.CreatedAt, &lastActive); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.LastActive = lastActive.Time
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *UserStore) AddScore(ctx context.Context, id string, delta int) (int, error) {
	var total int
	err := s.pool.QueryRow(ctx,
		`UPDATE users SET score = score + $2 WHERE id=$1 RETURNING score`,
		id, delta,
	).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment score: %w", err)
	}
	return total, nil
}

func (s *UserStore) ResetScores(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `UPDATE users SET score = 0`); err != nil {
		return fmt.Errorf("reset scores: %w", err)
	}
	return nil
}

func (s *UserStore) TouchLastActive(ctx context.Context, id string, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET last_active=$2 WHERE id=$1`, id, at)
	if err != nil {
		return fmt.Errorf("touch last_active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
