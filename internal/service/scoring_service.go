package service

import (
	"context"
	"encoding/json"
	"studyforge_backend/internal/model"
	"studyforge_backend/internal/repository"
	"studyforge_backend/internal/util"
	"studyforge_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	leaderboardCacheKey = "leaderboard:top"
	leaderboardCacheTTL = 30 * time.Second
	leaderboardLimit    = 100
)

// ScoringService records quiz attempts and derives the leaderboard from
// them. The database aggregation is authoritative; redis only caches the
// assembled top list for a short window.
type ScoringService struct {
	attempts *repository.QuizAttemptRepository
	rdb      *redis.Client // optional
}

func NewScoringService(attempts *repository.QuizAttemptRepository, rdb *redis.Client) *ScoringService {
	return &ScoringService{
		attempts: attempts,
		rdb:      rdb,
	}
}

// RecordAttempt appends one play-through. Attempts are never mutated or
// deleted afterwards.
func (s *ScoringService) RecordAttempt(ownerID, quizID uint, score int, answers json.RawMessage) (*model.QuizAttempt, error) {
	attempt := &model.QuizAttempt{
		OwnerID:     ownerID,
		QuizID:      quizID,
		Score:       score,
		Answers:     answers,
		CompletedAt: time.Now(),
	}
	if err := s.attempts.Create(attempt); err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(context.Background(), leaderboardCacheKey).Err(); err != nil {
			logger.Log.Warn("leaderboard cache invalidation failed", zap.Error(err))
		}
	}

	return attempt, nil
}

// Leaderboard returns the ranked top list: total score per user, descending,
// ties broken by ascending user id.
func (s *ScoringService) Leaderboard(ctx context.Context) ([]repository.LeaderboardRow, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, leaderboardCacheKey).Bytes(); err == nil {
			var rows []repository.LeaderboardRow
			if err := json.Unmarshal(cached, &rows); err == nil {
				return rows, nil
			}
		}
	}

	rows, err := s.attempts.Totals(leaderboardLimit)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(rows); err == nil {
			if err := s.rdb.Set(ctx, leaderboardCacheKey, data, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
			}
		}
	}

	return rows, nil
}

// Rank holds one user's leaderboard position.
type Rank struct {
	Rank       int   `json:"rank"`
	TotalScore int64 `json:"total_score"`
}

// MyRank returns the caller's rank, or util.ErrNoAttempts for a user who
// has never completed a quiz.
func (s *ScoringService) MyRank(ctx context.Context, ownerID uint) (*Rank, error) {
	// Rank needs the full ordering, not just the cached top slice.
	rows, err := s.attempts.Totals(0)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if row.UserID == ownerID {
			return &Rank{Rank: i + 1, TotalScore: row.TotalScore}, nil
		}
	}
	return nil, util.ErrNoAttempts
}
