package middleware

import (
	"strings"
	"studyforge_backend/internal/config"
	"studyforge_backend/internal/util"
	"studyforge_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		// Websocket clients cannot set headers; allow a query token.
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWTSecret())
		if err != nil {
			logger.Log.Debug("JWT parse failed", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// WebhookMiddleware authenticates dispatch deliveries with a shared secret.
// Requests lacking the secret are rejected before any record is touched.
func WebhookMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-Webhook-Secret") != cfg.WebhookSecret() {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
