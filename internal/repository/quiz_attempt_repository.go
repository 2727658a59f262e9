package repository

import (
	"studyforge_backend/internal/model"

	"gorm.io/gorm"
)

type QuizAttemptRepository struct {
	DB *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{DB: db}
}

func (r *QuizAttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

// LeaderboardRow is one aggregated leaderboard entry.
type LeaderboardRow struct {
	UserID     uint   `gorm:"column:user_id" json:"userId"`
	Name       string `gorm:"column:name" json:"name"`
	Avatar     string `gorm:"column:avatar" json:"avatar"`
	TotalScore int64  `gorm:"column:total_score" json:"totalScore"`
}

// Totals aggregates every attempt into per-user score sums, ranked
// descending. Ties break on ascending user id, which keeps ranks stable
// across reads.
func (r *QuizAttemptRepository) Totals(limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	q := r.DB.Table("quiz_attempts").
		Select("quiz_attempts.owner_id AS user_id, users.name AS name, users.avatar AS avatar, SUM(quiz_attempts.score) AS total_score").
		Joins("JOIN users ON users.id = quiz_attempts.owner_id").
		Where("quiz_attempts.deleted_at IS NULL").
		Group("quiz_attempts.owner_id, users.name, users.avatar").
		Order("total_score DESC, user_id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(&rows).Error
	return rows, err
}
