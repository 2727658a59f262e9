package controller

import (
	"encoding/json"
	"errors"
	"studyforge_backend/internal/service"
	"studyforge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ScoringController struct {
	ScoringService *service.ScoringService
}

func NewScoringController(scoringService *service.ScoringService) *ScoringController {
	return &ScoringController{
		ScoringService: scoringService,
	}
}

// RecordAttemptRequest defines the quiz attempt payload
// swagger:model RecordAttemptRequest
type RecordAttemptRequest struct {
	QuizID  uint            `json:"quiz_id" binding:"required"`
	Score   int             `json:"score" binding:"min=0"`
	Answers json.RawMessage `json:"answers"`
}

// RecordAttempt godoc
// @Summary Record a completed quiz play-through
// @Tags scoring
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body RecordAttemptRequest true "attempt payload"
// @Success 201 {object} util.Response{data=model.QuizAttempt} "attempt"
// @Failure 400 {object} util.Response "invalid payload"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/quiz-attempts [post]
func (c *ScoringController) RecordAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RecordAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.ScoringService.RecordAttempt(claims.UserID, req.QuizID, req.Score, req.Answers)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, attempt)
}

// Leaderboard godoc
// @Summary Top users by total quiz score
// @Produce  json
// @Tags scoring
// @Success 200 {object} util.Response{data=[]repository.LeaderboardRow} "ranked totals"
// @Router /api/leaderboard [get]
func (c *ScoringController) Leaderboard(ctx *gin.Context) {
	rows, err := c.ScoringService.Leaderboard(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, rows)
}

// MyRank godoc
// @Summary The caller's leaderboard position
// @Produce  json
// @Tags scoring
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Rank} "rank"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 404 {object} util.Response "no attempts yet"
// @Router /api/leaderboard/my-rank [get]
func (c *ScoringController) MyRank(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	rank, err := c.ScoringService.MyRank(ctx.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrNoAttempts) {
			util.Error(ctx, 404, "No attempts recorded yet")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, rank)
}
