package controller

import (
	"strconv"
	"studyforge_backend/internal/model"
	"studyforge_backend/internal/service"
	"studyforge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ArtifactController struct {
	ArtifactService *service.ArtifactService
}

func NewArtifactController(artifactService *service.ArtifactService) *ArtifactController {
	return &ArtifactController{
		ArtifactService: artifactService,
	}
}

// CreateExamRequest defines the exam creation payload
// swagger:model CreateExamRequest
type CreateExamRequest struct {
	Title        string `json:"title" binding:"required"`
	SourceText   string `json:"source_text" binding:"required"`
	NumQuestions int    `json:"num_questions" binding:"omitempty,min=1,max=50"`
}

// CreateExam godoc
// @Summary Create an exam from source material
// @Description Inserts a pending exam record; generation runs asynchronously
// @Tags artifacts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateExamRequest true "exam payload"
// @Success 201 {object} util.Response{data=model.Artifact} "pending record"
// @Failure 400 {object} util.Response "invalid payload"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/exams [post]
func (c *ArtifactController) CreateExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var params map[string]any
	if req.NumQuestions > 0 {
		params = map[string]any{"num_questions": req.NumQuestions}
	}

	a, err := c.ArtifactService.Create(claims.UserID, model.KindExam, req.Title, req.SourceText, "", params)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, a)
}

// CreateCourseRequest defines the course creation payload
// swagger:model CreateCourseRequest
type CreateCourseRequest struct {
	Title      string `json:"title" binding:"required"`
	Topic      string `json:"topic" binding:"required"`
	NumModules int    `json:"num_modules" binding:"omitempty,min=1,max=20"`
}

// CreateCourse godoc
// @Summary Create a course outline from a topic
// @Description Inserts a pending course record; generation runs asynchronously
// @Tags artifacts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateCourseRequest true "course payload"
// @Success 201 {object} util.Response{data=model.Artifact} "pending record"
// @Failure 400 {object} util.Response "invalid payload"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/courses [post]
func (c *ArtifactController) CreateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var params map[string]any
	if req.NumModules > 0 {
		params = map[string]any{"num_modules": req.NumModules}
	}

	a, err := c.ArtifactService.Create(claims.UserID, model.KindCourse, req.Title, req.Topic, "", params)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, a)
}

// CreateQuizRequest defines the quiz creation payload
// swagger:model CreateQuizRequest
type CreateQuizRequest struct {
	Title string `json:"title" binding:"required"`
	Topic string `json:"topic" binding:"required"`
	Level string `json:"level" binding:"required,oneof=beginner intermediate expert"`
}

// CreateQuiz godoc
// @Summary Create a gamified quiz from a topic
// @Description Inserts a pending quiz record; generation runs asynchronously
// @Tags artifacts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateQuizRequest true "quiz payload"
// @Success 201 {object} util.Response{data=model.Artifact} "pending record"
// @Failure 400 {object} util.Response "invalid payload"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/quizzes [post]
func (c *ArtifactController) CreateQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.ArtifactService.Create(claims.UserID, model.KindQuiz, req.Title, req.Topic, req.Level, nil)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, a)
}

// ListExams godoc
// @Summary List the caller's exams, newest first
// @Tags artifacts
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Artifact} "exams"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/exams [get]
func (c *ArtifactController) ListExams(ctx *gin.Context) {
	c.list(ctx, model.KindExam)
}

// ListCourses godoc
// @Summary List the caller's courses, newest first
// @Tags artifacts
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Artifact} "courses"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/courses [get]
func (c *ArtifactController) ListCourses(ctx *gin.Context) {
	c.list(ctx, model.KindCourse)
}

// ListQuizzes godoc
// @Summary List the caller's quizzes, newest first
// @Tags artifacts
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Artifact} "quizzes"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/quizzes [get]
func (c *ArtifactController) ListQuizzes(ctx *gin.Context) {
	c.list(ctx, model.KindQuiz)
}

func (c *ArtifactController) list(ctx *gin.Context, kind model.ArtifactKind) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	records, err := c.ArtifactService.List(claims.UserID, kind)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, records)
}

// DeleteExam godoc
// @Summary Delete one of the caller's exams
// @Description Always 204; a missing or non-owned id is treated the same
// @Tags artifacts
// @Security BearerAuth
// @Param   id path int true "exam id"
// @Success 204 "deleted"
// @Failure 400 {object} util.Response "invalid id"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/exams/{id} [delete]
func (c *ArtifactController) DeleteExam(ctx *gin.Context) {
	c.delete(ctx)
}

// DeleteCourse godoc
// @Summary Delete one of the caller's courses
// @Tags artifacts
// @Security BearerAuth
// @Param   id path int true "course id"
// @Success 204 "deleted"
// @Failure 400 {object} util.Response "invalid id"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/courses/{id} [delete]
func (c *ArtifactController) DeleteCourse(ctx *gin.Context) {
	c.delete(ctx)
}

// DeleteQuiz godoc
// @Summary Delete one of the caller's quizzes
// @Tags artifacts
// @Security BearerAuth
// @Param   id path int true "quiz id"
// @Success 204 "deleted"
// @Failure 400 {object} util.Response "invalid id"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/quizzes/{id} [delete]
func (c *ArtifactController) DeleteQuiz(ctx *gin.Context) {
	c.delete(ctx)
}

func (c *ArtifactController) delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.ArtifactService.Delete(uint(id), claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.NoContent(ctx)
}
