package model

import (
	"encoding/json"
	"time"
)

// QuizAttempt records a single play-through of a completed quiz. Attempts are
// append-only; the leaderboard is derived from them.
// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	OwnerID uint `gorm:"index;not null" json:"ownerId"`
	QuizID  uint `gorm:"index;not null" json:"quizId"`
	Score   int  `gorm:"not null" json:"score"`
	// Answers is the ordered log of {question, selected, correct} entries.
	Answers     json.RawMessage `gorm:"type:json" json:"answers"`
	CompletedAt time.Time       `json:"completedAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
