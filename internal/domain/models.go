package domain

import (
	"strings"
	"time"
)

// Tier is a difficulty level.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
	// TierAll is the wildcard used for sampling and leaderboard filters.
	TierAll Tier = "all"
)

// Tiers lists the concrete tiers in progression order.
var Tiers = []Tier{TierEasy, TierMedium, TierHard}

// ParseTier accepts a case-insensitive tier name. An empty string maps to TierAll.
func ParseTier(raw string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(raw))) {
	case TierEasy:
		return TierEasy, nil
	case TierMedium:
		return TierMedium, nil
	case TierHard:
		return TierHard, nil
	case TierAll, "":
		return TierAll, nil
	}
	return "", ErrInvalidTier
}

// Valid reports whether t is one of the three concrete tiers.
func (t Tier) Valid() bool {
	return t == TierEasy || t == TierMedium || t == TierHard
}

// Status is the quiz session lifecycle state.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

// EndReason explains why a session reached Finished.
type EndReason string

const (
	EndWrongAnswer EndReason = "wrong_answer"
	EndTimeout     EndReason = "timeout"
	EndExhausted   EndReason = "exhausted"
)

// SaveStatus tracks asynchronous leaderboard persistence of a finished session.
type SaveStatus string

const (
	SavePending SaveStatus = "pending"
	SaveSaved   SaveStatus = "saved"
	SaveFailed  SaveStatus = "failed"
	SaveSkipped SaveStatus = "skipped"
)

// CapitalFact is one catalog row. Uniqueness key is (Country, Capital).
type CapitalFact struct {
	Country string `json:"country" yaml:"country"`
	Capital string `json:"capital" yaml:"capital"`
	Tier    Tier   `json:"tier" yaml:"tier"`
}

// ID derives the stable question id from the uniqueness key.
func (f CapitalFact) ID() string {
	return strings.ToLower(f.Country) + "|" + strings.ToLower(f.Capital)
}

// Question is a fact prepared for display with four shuffled options.
type Question struct {
	// ID is opaque and issued per question. Key is the fact's natural key and
	// never leaves the server.
	ID      string   `json:"id"`
	Key     string   `json:"-"`
	Country string   `json:"country"`
	Capital string   `json:"-"`
	Tier    Tier     `json:"tier"`
	Options []string `json:"options"`
}

// AnsweredQuestion records one submission within a session.
type AnsweredQuestion struct {
	QuestionID    string `json:"questionId"`
	Country       string `json:"country"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	PointsEarned  int    `json:"pointsEarned"`
	TimeRemaining int    `json:"timeRemaining"`
	Tier          Tier   `json:"tier"`
}

// SessionResult is emitted once when a session finishes.
type SessionResult struct {
	SessionID         string             `json:"sessionId"`
	Username          string             `json:"username"`
	Score             int                `json:"score"`
	Tier              Tier               `json:"tier"`
	QuestionsAnswered int                `json:"questionsAnswered"`
	Answers           []AnsweredQuestion `json:"answers"`
	Reason            EndReason          `json:"reason"`
	FinishedAt        time.Time          `json:"finishedAt"`
}

// SessionView is what the UI reads on every render.
type SessionView struct {
	SessionID         string             `json:"sessionId"`
	Username          string             `json:"username"`
	Status            Status             `json:"status"`
	Tier              Tier               `json:"tier"`
	CurrentQuestion   *Question          `json:"currentQuestion,omitempty"`
	TimeLeft          int                `json:"timeLeft"`
	Score             int                `json:"score"`
	QuestionsAnswered int                `json:"questionsAnswered"`
	Answers           []AnsweredQuestion `json:"answers,omitempty"`
	Reason            EndReason          `json:"reason,omitempty"`
	SaveStatus        SaveStatus         `json:"saveStatus,omitempty"`
	NewBest           bool               `json:"newBest,omitempty"`
}

// StartRequest carries what the UI submits to begin a quiz.
type StartRequest struct {
	Username          string
	Pin               string
	SaveToLeaderboard bool
}

// LeaderboardEntry is one persisted row; at most one per (Username, Tier).
type LeaderboardEntry struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Score         int       `json:"score"`
	Tier          Tier      `json:"tier"`
	Timestamp     time.Time `json:"timestamp"`
	IsBestOverall bool      `json:"isBestOverall"`
	PinHash       *string   `json:"-"`
}

// RecordOutcome reports what RecordScore changed.
type RecordOutcome struct {
	Entry          LeaderboardEntry `json:"entry"`
	TierImproved   bool             `json:"tierImproved"`
	NewOverallBest bool             `json:"newOverallBest"`
	// NewBest fires when either the tier score or the overall best improved.
	NewBest bool `json:"newBest"`
}

// UserScores groups a user's rows for display.
type UserScores struct {
	Username  string                    `json:"username"`
	BestScore *LeaderboardEntry         `json:"bestScore"`
	Scores    []LeaderboardEntry        `json:"scores"`
	ByTier    map[Tier]LeaderboardEntry `json:"byTier"`
}

// SaveOutcome is reported back to a session once the writer has run.
type SaveOutcome struct {
	Status  SaveStatus
	NewBest bool
	Err     error
}
