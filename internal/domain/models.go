package domain

import "time"

// LiveState is the singleton record describing the current quiz phase and
// which question is live. It is exclusively written by admin operations;
// every connected client observes it through snapshot broadcasts.
type LiveState struct {
	IsStarted        bool   `json:"isStarted"`
	IsPaused         bool   `json:"isPaused"`
	RevealAnswer     bool   `json:"revealAnswer"`
	ActiveQuestionID string `json:"activeQuestionId,omitempty"`
}

// Question is a single short-answer quiz question. Order is a dense
// admin-assigned integer that defines navigation sequence; it is not
// guaranteed contiguous.
type Question struct {
	ID           string    `json:"id"`
	QuestionText string    `json:"questionText"`
	Answer       string    `json:"answer,omitempty"`
	BonusTime    int       `json:"bonusTime"`
	Order        int       `json:"order"`
	CreatedAt    time.Time `json:"createdAt"`
}

// User is a registered participant. PasswordHash is a bcrypt hash; the
// plaintext never leaves the auth handler.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Score        int       `json:"score"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActive   time.Time `json:"lastActive,omitempty"`
}

// Submission is a participant's stored answer for one question, captured
// with the seconds remaining on the countdown at the moment it arrived.
// Scores are settled from this record at reveal time, never re-timed.
type Submission struct {
	UserID      string    `json:"userId"`
	QuestionID  string    `json:"questionId"`
	Answer      string    `json:"answer"`
	SecondsLeft int       `json:"secondsLeft"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// RevealResult summarizes reveal settlement for one participant.
type RevealResult struct {
	UserID     string `json:"userId"`
	QuestionID string `json:"questionId"`
	Submitted  string `json:"submitted"`
	Correct    bool   `json:"correct"`
	Awarded    int    `json:"awarded"`
	TotalScore int    `json:"totalScore"`
}

// LeaderboardEntry is a ranked view of a user.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Medal    string `json:"medal,omitempty"`
}

// Leaderboard captures the ordered scoreboard plus presence counters
// derived from the users snapshot.
type Leaderboard struct {
	Entries     []LeaderboardEntry `json:"entries"`
	TotalUsers  int                `json:"totalUsers"`
	ActiveUsers int                `json:"activeUsers"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}
