package quiz

import (
	"github.com/kunalroy0223/liveiq/internal/domain"
)

// Phase is the interpreted quiz lifecycle state.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhasePaused  Phase = "paused"
	PhaseReveal  Phase = "reveal"
)

// DerivePhase interprets a LiveState into a Phase. Paused and reveal flags
// are only meaningful while the quiz is started; reveal wins over paused
// because a revealed answer always stops the countdown.
func DerivePhase(live domain.LiveState) Phase {
	if !live.IsStarted {
		return PhaseIdle
	}
	if live.RevealAnswer {
		return PhaseReveal
	}
	if live.IsPaused {
		return PhasePaused
	}
	return PhaseRunning
}

// ViewState is the shared reducer output consumed by all three front ends.
// Admin reads the Can* flags, the participant page reads the answer-entry
// flags, and the wall reads the overlay and reveal flags.
type ViewState struct {
	Phase          Phase            `json:"phase"`
	ActiveQuestion *domain.Question `json:"activeQuestion,omitempty"`

	// Admin control enablement.
	CanStart  bool `json:"canStart"`
	CanPause  bool `json:"canPause"`
	CanResume bool `json:"canResume"`
	CanEnd    bool `json:"canEnd"`
	CanReveal bool `json:"canReveal"`
	CanNext   bool `json:"canNext"`
	CanPrev   bool `json:"canPrev"`

	// Participant view.
	AcceptAnswers bool `json:"acceptAnswers"`
	ShowCountdown bool `json:"showCountdown"`

	// Wall view.
	ShowOverlay    bool   `json:"showOverlay"`
	OverlayMessage string `json:"overlayMessage,omitempty"`
	ShowAnswer     bool   `json:"showAnswer"`
}

// View is the pure reducer (LiveState, questions snapshot) -> ViewState.
// Questions must already be sorted by order ascending; the reducer never
// mutates its inputs.
func View(live domain.LiveState, questions []domain.Question) ViewState {
	phase := DerivePhase(live)
	view := ViewState{Phase: phase}

	if live.ActiveQuestionID != "" {
		if i := indexOf(questions, live.ActiveQuestionID); i >= 0 {
			q := questions[i]
			view.ActiveQuestion = &q
		}
	}

	view.CanStart = !live.IsStarted
	view.CanPause = live.IsStarted && !live.IsPaused
	view.CanResume = live.IsStarted && live.IsPaused
	view.CanEnd = live.IsStarted
	view.CanReveal = live.IsStarted
	view.CanNext = live.IsStarted
	view.CanPrev = live.IsStarted

	running := phase == PhaseRunning && view.ActiveQuestion != nil
	view.AcceptAnswers = running
	// Invariant: a revealed answer and a decrementing countdown never co-occur.
	view.ShowCountdown = running

	view.ShowAnswer = phase == PhaseReveal && view.ActiveQuestion != nil
	switch {
	case phase == PhaseIdle:
		view.ShowOverlay = true
		view.OverlayMessage = "Waiting for admin to start the quiz..."
	case live.IsStarted && view.ActiveQuestion == nil:
		view.ShowOverlay = true
		view.OverlayMessage = "Waiting for admin to select the next question..."
	}

	return view
}

// Advance computes the question at currentIndex+offset in the order-sorted
// list. Out-of-range navigation returns ErrNoNextQuestion or
// ErrNoPreviousQuestion. An unset active question starts from index -1, so
// "next" on a fresh session lands on the first question.
func Advance(live domain.LiveState, questions []domain.Question, offset int) (domain.Question, error) {
	idx := indexOf(questions, live.ActiveQuestionID)
	next := idx + offset
	if next < 0 || next >= len(questions) {
		if offset > 0 {
			return domain.Question{}, domain.ErrNoNextQuestion
		}
		return domain.Question{}, domain.ErrNoPreviousQuestion
	}
	return questions[next], nil
}

func indexOf(questions []domain.Question, id string) int {
	if id == "" {
		return -1
	}
	for i := range questions {
		if questions[i].ID == id {
			return i
		}
	}
	return -1
}
