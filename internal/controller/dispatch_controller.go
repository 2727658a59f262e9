package controller

import (
	"studyforge_backend/internal/service"
	"studyforge_backend/internal/util"
	"studyforge_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DispatchController receives database change webhooks and hands new rows to
// the generation worker. Deliveries are at-least-once; the worker's
// conditional claim makes duplicates harmless.
type DispatchController struct {
	GenerationService *service.GenerationService
}

func NewDispatchController(generationService *service.GenerationService) *DispatchController {
	return &DispatchController{
		GenerationService: generationService,
	}
}

// webhookEnvelope is the change-event payload posted by the dispatcher.
type webhookEnvelope struct {
	Type   string `json:"type"`
	Table  string `json:"table"`
	Record struct {
		ID uint `json:"id"`
	} `json:"record"`
}

// ProcessExam godoc
// @Summary Exam generation webhook
// @Description Triggers generation for a newly inserted exam row
// @Tags hooks
// @Accept  json
// @Produce  json
// @Param   X-Webhook-Secret header string true "shared secret"
// @Param   body body object true "change event"
// @Success 200 {object} util.Response "processed or ignored"
// @Failure 401 {object} util.Response "bad secret"
// @Failure 500 {object} util.Response "store unreachable"
// @Router /api/hooks/exams [post]
func (c *DispatchController) ProcessExam(ctx *gin.Context) {
	c.handle(ctx, "exams")
}

// ProcessCourse godoc
// @Summary Course generation webhook
// @Tags hooks
// @Accept  json
// @Produce  json
// @Param   body body object true "change event"
// @Success 200 {object} util.Response "processed or ignored"
// @Failure 500 {object} util.Response "store unreachable"
// @Router /api/hooks/courses [post]
func (c *DispatchController) ProcessCourse(ctx *gin.Context) {
	c.handle(ctx, "courses")
}

// ProcessQuiz godoc
// @Summary Quiz generation webhook
// @Tags hooks
// @Accept  json
// @Produce  json
// @Param   body body object true "change event"
// @Success 200 {object} util.Response "processed or ignored"
// @Failure 500 {object} util.Response "store unreachable"
// @Router /api/hooks/quizzes [post]
func (c *DispatchController) ProcessQuiz(ctx *gin.Context) {
	c.handle(ctx, "quizzes")
}

func (c *DispatchController) handle(ctx *gin.Context, table string) {
	var envelope webhookEnvelope
	if err := ctx.ShouldBindJSON(&envelope); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// Dispatchers may replay or fan out events beyond what this route
	// handles. Anything that is not a fresh insert for this table is
	// acknowledged without action so the sender does not retry it forever.
	if envelope.Type != "INSERT" || envelope.Table != table {
		util.Success(ctx, gin.H{"message": "Event ignored"})
		return
	}

	if envelope.Record.ID == 0 {
		util.BadRequest(ctx, "record id is required")
		return
	}

	if err := c.GenerationService.Process(ctx.Request.Context(), envelope.Record.ID); err != nil {
		logger.Log.Error("webhook processing failed",
			zap.String("table", table),
			zap.Uint("artifactId", envelope.Record.ID),
			zap.Error(err))
		util.InternalServerError(ctx)
		return
	}

	util.Success(ctx, gin.H{"message": "Processing complete"})
}
