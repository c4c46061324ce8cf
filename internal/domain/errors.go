package domain

import "errors"

var (
	// ErrNotStarted is returned when a quiz control requires a running session.
	ErrNotStarted = errors.New("quiz not started yet")
	// ErrNoNextQuestion is returned when navigating past the last question.
	ErrNoNextQuestion = errors.New("no next question")
	// ErrNoPreviousQuestion is returned when navigating before the first question.
	ErrNoPreviousQuestion = errors.New("no previous question")
	// ErrNoActiveQuestion is returned when an operation needs a live question.
	ErrNoActiveQuestion = errors.New("no active question")
	// ErrAnswerRevealed rejects submissions after the answer has been disclosed.
	ErrAnswerRevealed = errors.New("answer already revealed")
	// ErrQuizPaused rejects submissions while the countdown is suspended.
	ErrQuizPaused = errors.New("quiz is paused")
	// ErrQuestionNotFound indicates an unknown question ID.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrUserNotFound indicates an unknown user ID or username.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is the signup duplicate pre-check failure.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials covers both bad usernames and bad passwords at login.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError reports a bad input field. Handlers surface it inline next
// to the offending field; nothing is mutated when one is returned.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

