package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kunalroy0223/liveiq/internal/domain"
	"github.com/kunalroy0223/liveiq/internal/quiz"
)

// Event types carried over the hub. Each type is a full snapshot of one
// collection or a self-contained signal; ordering across types is not
// guaranteed.
const (
	EventLive         = "live"
	EventView         = "view"
	EventQuestions    = "questions"
	EventLeaderboard  = "leaderboard"
	EventTick         = "tick"
	EventTimeUp       = "timeUp"
	EventReveal       = "reveal"
	EventRevealResult = "revealResult"
)

// TickPayload carries the countdown's current value.
type TickPayload struct {
	Seconds int `json:"seconds"`
}

// RevealPayload discloses the active question's answer.
type RevealPayload struct {
	QuestionID   string `json:"questionId"`
	QuestionText string `json:"questionText"`
	Answer       string `json:"answer"`
}

// LiveService owns the quiz lifecycle: the singleton live document, the
// server-side countdown, answer submissions, and reveal settlement. All
// control operations are serialized so the countdown handle always agrees
// with the stored live state.
type LiveService struct {
	live        LiveRepository
	questions   QuestionRepository
	users       UserRepository
	submissions SubmissionStore
	hub         *Hub

	countdown       *quiz.Countdown
	questionSeconds int
	now             func() time.Time

	mu sync.Mutex
}

// NewLiveService wires the lifecycle service. questionSeconds is the
// per-question countdown length; tickInterval is one second in production
// and shortened in tests.
func NewLiveService(live LiveRepository, questions QuestionRepository, users UserRepository, submissions SubmissionStore, hub *Hub, questionSeconds int, tickInterval time.Duration) *LiveService {
	s := &LiveService{
		live:            live,
		questions:       questions,
		users:           users,
		submissions:     submissions,
		hub:             hub,
		questionSeconds: questionSeconds,
		now:             time.Now,
	}
	s.countdown = quiz.NewCountdown(tickInterval,
		func(remaining int) {
			hub.Broadcast(Event{Type: EventTick, Payload: TickPayload{Seconds: remaining}})
		},
		func() {
			hub.Broadcast(Event{Type: EventTimeUp, Payload: TickPayload{Seconds: 0}})
		},
	)
	return s
}

// Countdown exposes the owned timer handle, mainly for snapshots and tests.
func (s *LiveService) Countdown() *quiz.Countdown { return s.countdown }

// Start begins (or re-arms) the quiz session, preserving an already active
// question. The countdown starts only when a question is live.
func (s *LiveService) Start(ctx context.Context) (domain.LiveState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.live.Get(ctx)
	if err != nil {
		return domain.LiveState{}, err
	}
	live = domain.LiveState{IsStarted: true, ActiveQuestionID: live.ActiveQuestionID}
	if err := s.live.Set(ctx, live); err != nil {
		return domain.LiveState{}, err
	}
	if live.ActiveQuestionID != "" {
		s.countdown.Start(s.questionSeconds)
	} else {
		s.countdown.Stop()
	}
	s.publishLive(ctx, live)
	return live, nil
}

// Pause suspends the countdown without resetting it.
func (s *LiveService) Pause(ctx context.Context) (domain.LiveState, error) {
	return s.togglePause(ctx, true)
}

// Resume continues the countdown from its stored value.
func (s *LiveService) Resume(ctx context.Context) (domain.LiveState, error) {
	return s.togglePause(ctx, false)
}

func (s *LiveService) togglePause(ctx context.Context, paused bool) (domain.LiveState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.live.Get(ctx)
	if err != nil {
		return domain.LiveState{}, err
	}
	if !live.IsStarted {
		return domain.LiveState{}, domain.ErrNotStarted
	}
	live.IsPaused = paused
	if err := s.live.Set(ctx, live); err != nil {
		return domain.LiveState{}, err
	}
	if paused {
		s.countdown.Pause()
	} else if !live.RevealAnswer {
		s.countdown.Resume()
	}
	s.publishLive(ctx, live)
	return live, nil
}

// End resets the session to idle and clears the active question.
func (s *LiveService) End(ctx context.Context) (domain.LiveState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.live.Get(ctx)
	if err != nil {
		return domain.LiveState{}, err
	}
	if !live.IsStarted {
		return domain.LiveState{}, domain.ErrNotStarted
	}
	live = domain.LiveState{}
	if err := s.live.Set(ctx, live); err != nil {
		return domain.LiveState{}, err
	}
	s.countdown.Stop()
	s.publishLive(ctx, live)
	return live, nil
}

// Reveal discloses the active question's answer, stops the countdown, and
// settles every stored submission exactly once. Repeated reveals are safe:
// the settle mark keeps each (question, user) award at-most-once.
func (s *LiveService) Reveal(ctx context.Context) ([]domain.RevealResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.live.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !live.IsStarted {
		return nil, domain.ErrNotStarted
	}
	if live.ActiveQuestionID == "" {
		return nil, domain.ErrNoActiveQuestion
	}
	question, err := s.questions.GetByID(ctx, live.ActiveQuestionID)
	if err != nil {
		return nil, err
	}

	live.RevealAnswer = true
	if err := s.live.Set(ctx, live); err != nil {
		return nil, err
	}
	s.countdown.Pause()

	results, err := s.settle(ctx, question)
	if err != nil {
		return nil, err
	}

	s.publishLive(ctx, live)
	answer := question.Answer
	if answer == "" {
		answer = "(no answer provided)"
	}
	s.hub.Broadcast(Event{Type: EventReveal, Payload: RevealPayload{
		QuestionID:   question.ID,
		QuestionText: question.QuestionText,
		Answer:       answer,
	}})
	for _, res := range results {
		s.hub.Broadcast(Event{Type: EventRevealResult, Payload: res}.ToUser(res.UserID))
	}
	if err := broadcastLeaderboard(ctx, s.users, s.hub, s.now()); err != nil {
		log.Printf("live: leaderboard broadcast after reveal: %v", err)
	}
	return results, nil
}

func (s *LiveService) settle(ctx context.Context, question domain.Question) ([]domain.RevealResult, error) {
	subs, err := s.submissions.List(ctx, question.ID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	results := make([]domain.RevealResult, 0, len(subs))
	for userID, sub := range subs {
		first, err := s.submissions.MarkSettled(ctx, question.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("settle mark: %w", err)
		}
		if !first {
			continue
		}

		correct := quiz.AnswersMatch(sub.Answer, question.Answer)
		awarded := 0
		if correct {
			awarded = quiz.Points(sub.SecondsLeft)
		}

		total := 0
		if awarded > 0 {
			total, err = s.users.AddScore(ctx, userID, awarded)
		} else {
			var user domain.User
			user, err = s.users.GetByID(ctx, userID)
			total = user.Score
		}
		if err != nil {
			log.Printf("live: settle score for user %s: %v", userID, err)
			continue
		}

		results = append(results, domain.RevealResult{
			UserID:     userID,
			QuestionID: question.ID,
			Submitted:  sub.Answer,
			Correct:    correct,
			Awarded:    awarded,
			TotalScore: total,
		})
	}
	return results, nil
}

// Next activates the question after the current one in order-sorted sequence.
func (s *LiveService) Next(ctx context.Context) (domain.LiveState, error) {
	return s.advance(ctx, 1)
}

// Prev activates the question before the current one.
func (s *LiveService) Prev(ctx context.Context) (domain.LiveState, error) {
	return s.advance(ctx, -1)
}

func (s *LiveService) advance(ctx context.Context, offset int) (domain.LiveState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.live.Get(ctx)
	if err != nil {
		return domain.LiveState{}, err
	}
	if !live.IsStarted {
		return domain.LiveState{}, domain.ErrNotStarted
	}
	questions, err := s.questions.List(ctx)
	if err != nil {
		return domain.LiveState{}, err
	}
	target, err := quiz.Advance(live, questions, offset)
	if err != nil {
		return domain.LiveState{}, err
	}
	return s.activateLocked(ctx, target.ID)
}

// ActivateQuestion makes the given question live and re-arms the session:
// started, unpaused, answer hidden, fresh countdown. Question creation uses
// this to mirror the original admin behavior of add-and-go-live.
func (s *LiveService) ActivateQuestion(ctx context.Context, questionID string) (domain.LiveState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activateLocked(ctx, questionID)
}

func (s *LiveService) activateLocked(ctx context.Context, questionID string) (domain.LiveState, error) {
	live := domain.LiveState{IsStarted: true, ActiveQuestionID: questionID}
	if err := s.live.Set(ctx, live); err != nil {
		return domain.LiveState{}, err
	}
	s.countdown.Start(s.questionSeconds)
	s.publishLive(ctx, live)
	return live, nil
}

// ClearActiveIf drops the active pointer when it references questionID,
// used after a question delete. Other live flags are left untouched.
func (s *LiveService) ClearActiveIf(ctx context.Context, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.live.Get(ctx)
	if err != nil {
		return err
	}
	if live.ActiveQuestionID != questionID {
		return nil
	}
	live.ActiveQuestionID = ""
	if err := s.live.Set(ctx, live); err != nil {
		return err
	}
	s.countdown.Stop()
	s.publishLive(ctx, live)
	return nil
}

// SubmitAnswer stores a participant's answer for the active question along
// with the seconds remaining right now. Empty answers are accepted (the
// implicit submit at expiry); they settle to zero points. The stored record
// is what reveal evaluates, never a re-timed value.
func (s *LiveService) SubmitAnswer(ctx context.Context, userID, answer string) (domain.Submission, error) {
	live, err := s.live.Get(ctx)
	if err != nil {
		return domain.Submission{}, err
	}
	if !live.IsStarted {
		return domain.Submission{}, domain.ErrNotStarted
	}
	if live.RevealAnswer {
		return domain.Submission{}, domain.ErrAnswerRevealed
	}
	if live.IsPaused {
		return domain.Submission{}, domain.ErrQuizPaused
	}
	if live.ActiveQuestionID == "" {
		return domain.Submission{}, domain.ErrNoActiveQuestion
	}

	sub := domain.Submission{
		UserID:      userID,
		QuestionID:  live.ActiveQuestionID,
		Answer:      answer,
		SecondsLeft: s.countdown.Remaining(),
		SubmittedAt: s.now(),
	}
	if err := s.submissions.Put(ctx, sub); err != nil {
		return domain.Submission{}, fmt.Errorf("store submission: %w", err)
	}
	return sub, nil
}

// State returns the current live document.
func (s *LiveService) State(ctx context.Context) (domain.LiveState, error) {
	return s.live.Get(ctx)
}

// Snapshot composes the initial event set a new subscriber needs: live
// state, the questions list (answers stripped for non-admin roles), the
// leaderboard, the countdown value, and the reveal payload when a reveal is
// in progress.
func (s *LiveService) Snapshot(ctx context.Context, role Role) ([]Event, error) {
	live, err := s.live.Get(ctx)
	if err != nil {
		return nil, err
	}
	questions, err := s.questions.List(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	visible := questions
	view := quiz.View(live, questions)
	if role != RoleAdmin {
		visible = stripAnswers(questions)
		view = stripViewAnswer(view)
	}
	events := []Event{
		{Type: EventLive, Payload: live},
		{Type: EventView, Payload: view},
		{Type: EventQuestions, Payload: visible},
		{Type: EventLeaderboard, Payload: quiz.BuildLeaderboard(users, s.now())},
		{Type: EventTick, Payload: TickPayload{Seconds: s.countdown.Remaining()}},
	}
	if live.RevealAnswer && live.ActiveQuestionID != "" {
		if q, err := s.questions.GetByID(ctx, live.ActiveQuestionID); err == nil {
			answer := q.Answer
			if answer == "" {
				answer = "(no answer provided)"
			}
			events = append(events, Event{Type: EventReveal, Payload: RevealPayload{
				QuestionID:   q.ID,
				QuestionText: q.QuestionText,
				Answer:       answer,
			}})
		}
	}
	return events, nil
}

// publishLive fans out the raw live document plus the reduced view state
// every front end renders from. The same reducer output serves all three
// roles; only the embedded answer differs.
func (s *LiveService) publishLive(ctx context.Context, live domain.LiveState) {
	s.hub.Broadcast(Event{Type: EventLive, Payload: live})

	questions, err := s.questions.List(ctx)
	if err != nil {
		log.Printf("live: view broadcast: %v", err)
		return
	}
	view := quiz.View(live, questions)
	s.hub.Broadcast(Event{Type: EventView, Payload: view}.To(RoleAdmin))
	s.hub.Broadcast(Event{Type: EventView, Payload: stripViewAnswer(view)}.To(RolePlayer, RoleWall))
}

// stripViewAnswer blanks the active question's answer; it reaches player and
// wall clients only through reveal events.
func stripViewAnswer(view quiz.ViewState) quiz.ViewState {
	if view.ActiveQuestion != nil {
		q := *view.ActiveQuestion
		q.Answer = ""
		view.ActiveQuestion = &q
	}
	return view
}

// broadcastLeaderboard recomputes the scoreboard from the users snapshot and
// fans it out to every role.
func broadcastLeaderboard(ctx context.Context, users UserRepository, hub *Hub, now time.Time) error {
	list, err := users.List(ctx)
	if err != nil {
		return err
	}
	hub.Broadcast(Event{Type: EventLeaderboard, Payload: quiz.BuildLeaderboard(list, now)})
	return nil
}

// stripAnswers removes answer text before a snapshot reaches player or wall
// clients; answers travel only inside reveal events.
func stripAnswers(questions []domain.Question) []domain.Question {
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	for i := range out {
		out[i].Answer = ""
	}
	return out
}
