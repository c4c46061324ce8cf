package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kunalroy0223/liveiq/internal/domain"
)

// LiveStore holds the singleton live document in memory.
type LiveStore struct {
	mu   sync.RWMutex
	live domain.LiveState
}

func NewLiveStore() *LiveStore {
	return &LiveStore{}
}

func (s *LiveStore) Get(_ context.Context) (domain.LiveState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live, nil
}

func (s *LiveStore) Set(_ context.Context, live domain.LiveState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live = live
	return nil
}

// QuestionStore is an in-memory question repository.
type QuestionStore struct {
	mu        sync.RWMutex
	questions map[string]domain.Question
}

func NewQuestionStore() *QuestionStore {
	return &QuestionStore{questions: make(map[string]domain.Question)}
}

func (s *QuestionStore) Create(_ context.Context, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[q.ID] = q
	return nil
}

func (s *QuestionStore) Update(_ context.Context, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[q.ID]; !ok {
		return domain.ErrQuestionNotFound
	}
	s.questions[q.ID] = q
	return nil
}

func (s *QuestionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(s.questions, id)
	return nil
}

func (s *QuestionStore) GetByID(_ context.Context, id string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (s *QuestionStore) List(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// UserStore is an in-memory user repository.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

func (s *UserStore) Create(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return domain.ErrUsernameTaken
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

// List returns users ordered by signup time so downstream stable sorts see
// a deterministic snapshot.
func (s *UserStore) List(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *UserStore) AddScore(_ context.Context, id string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	u.Score += delta
	s.users[id] = u
	return u.Score, nil
}

func (s *UserStore) ResetScores(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		u.Score = 0
		s.users[id] = u
	}
	return nil
}

func (s *UserStore) TouchLastActive(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastActive = at
	s.users[id] = u
	return nil
}

// SubmissionStore keeps submissions and settle marks in memory.
type SubmissionStore struct {
	mu          sync.RWMutex
	submissions map[string]map[string]domain.Submission
	settled     map[string]struct{}
}

func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{
		submissions: make(map[string]map[string]domain.Submission),
		settled:     make(map[string]struct{}),
	}
}

func (s *SubmissionStore) Put(_ context.Context, sub domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byUser, ok := s.submissions[sub.QuestionID]
	if !ok {
		byUser = make(map[string]domain.Submission)
		s.submissions[sub.QuestionID] = byUser
	}
	byUser[sub.UserID] = sub
	return nil
}

func (s *SubmissionStore) Get(_ context.Context, questionID, userID string) (domain.Submission, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[questionID][userID]
	return sub, ok, nil
}

func (s *SubmissionStore) List(_ context.Context, questionID string) (map[string]domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Submission, len(s.submissions[questionID]))
	for userID, sub := range s.submissions[questionID] {
		out[userID] = sub
	}
	return out, nil
}

func (s *SubmissionStore) MarkSettled(_ context.Context, questionID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := questionID + "|" + userID
	if _, done := s.settled[key]; done {
		return false, nil
	}
	s.settled[key] = struct{}{}
	return true, nil
}
