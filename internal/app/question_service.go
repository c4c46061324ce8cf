package app

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kunalroy0223/liveiq/internal/domain"
)

// QuestionService handles the admin question CRUD. Creating a question also
// makes it live, matching the original admin console's add-and-go-live flow.
type QuestionService struct {
	questions QuestionRepository
	live      *LiveService
	hub       *Hub
	now       func() time.Time
}

func NewQuestionService(questions QuestionRepository, live *LiveService, hub *Hub) *QuestionService {
	return &QuestionService{questions: questions, live: live, hub: hub, now: time.Now}
}

// QuestionInput is the admin-facing create/update payload.
type QuestionInput struct {
	QuestionText string `json:"questionText"`
	Answer       string `json:"answer"`
	BonusTime    int    `json:"bonusTime"`
	Order        int    `json:"order"`
}

func (in QuestionInput) validate() error {
	if strings.TrimSpace(in.QuestionText) == "" {
		return domain.ValidationError{Field: "questionText", Message: "question text is required"}
	}
	if strings.TrimSpace(in.Answer) == "" {
		return domain.ValidationError{Field: "answer", Message: "answer is required"}
	}
	return nil
}

// Create stores a new question and immediately starts it as the active one.
// A zero order defaults to the end of the list.
func (s *QuestionService) Create(ctx context.Context, in QuestionInput) (domain.Question, error) {
	if err := in.validate(); err != nil {
		return domain.Question{}, err
	}

	order := in.Order
	if order == 0 {
		existing, err := s.questions.List(ctx)
		if err != nil {
			return domain.Question{}, err
		}
		order = len(existing) + 1
	}

	question := domain.Question{
		ID:           uuid.NewString(),
		QuestionText: strings.TrimSpace(in.QuestionText),
		Answer:       strings.TrimSpace(in.Answer),
		BonusTime:    in.BonusTime,
		Order:        order,
		CreatedAt:    s.now(),
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return domain.Question{}, err
	}

	if _, err := s.live.ActivateQuestion(ctx, question.ID); err != nil {
		log.Printf("question: activate after create: %v", err)
	}
	s.broadcast(ctx)
	return question, nil
}

// Update edits an existing question in place. The live pointer is untouched;
// clients pick the new text up from the questions snapshot.
func (s *QuestionService) Update(ctx context.Context, id string, in QuestionInput) (domain.Question, error) {
	if err := in.validate(); err != nil {
		return domain.Question{}, err
	}
	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}
	question.QuestionText = strings.TrimSpace(in.QuestionText)
	question.Answer = strings.TrimSpace(in.Answer)
	question.BonusTime = in.BonusTime
	if in.Order != 0 {
		question.Order = in.Order
	}
	if err := s.questions.Update(ctx, question); err != nil {
		return domain.Question{}, err
	}
	s.broadcast(ctx)
	return question, nil
}

// Delete removes a question and clears the live active pointer when it was
// the one on screen.
func (s *QuestionService) Delete(ctx context.Context, id string) error {
	if _, err := s.questions.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.questions.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.live.ClearActiveIf(ctx, id); err != nil {
		log.Printf("question: clear active after delete: %v", err)
	}
	s.broadcast(ctx)
	return nil
}

// List returns every question ordered by order ascending.
func (s *QuestionService) List(ctx context.Context) ([]domain.Question, error) {
	return s.questions.List(ctx)
}

// Get returns one question by ID.
func (s *QuestionService) Get(ctx context.Context, id string) (domain.Question, error) {
	return s.questions.GetByID(ctx, id)
}

func (s *QuestionService) broadcast(ctx context.Context) {
	list, err := s.questions.List(ctx)
	if err != nil {
		log.Printf("question: snapshot broadcast: %v", err)
		return
	}
	s.hub.Broadcast(Event{Type: EventQuestions, Payload: list}.To(RoleAdmin))
	s.hub.Broadcast(Event{Type: EventQuestions, Payload: stripAnswers(list)}.To(RolePlayer, RoleWall))
}
