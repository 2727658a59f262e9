package controller

import (
	"studyforge_backend/internal/realtime"
	"studyforge_backend/internal/util"
	"studyforge_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventsController exposes the live artifact feed over websocket.
type EventsController struct {
	Hub *realtime.Hub
}

func NewEventsController(hub *realtime.Hub) *EventsController {
	return &EventsController{Hub: hub}
}

// Subscribe godoc
// @Summary Subscribe to artifact change events
// @Description Upgrades to a websocket that streams the caller's artifact inserts and status updates
// @Tags events
// @Security BearerAuth
// @Success 101 "switching protocols"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/ws [get]
func (c *EventsController) Subscribe(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := realtime.ServeWS(c.Hub, ctx.Writer, ctx.Request, claims.UserID); err != nil {
		logger.Log.Warn("websocket upgrade failed", zap.Uint("userId", claims.UserID), zap.Error(err))
	}
}
