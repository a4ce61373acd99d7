package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dwbooks/bookmanager/internal/models"
	"github.com/dwbooks/bookmanager/internal/service"
	"github.com/dwbooks/bookmanager/internal/utils"
)

const userIDKey = "userId"

// RequestIDMiddleware tags every request with an X-Request-ID header,
// generating one when the client did not send one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Set("requestId", requestID)
		c.Next()
	}
}

// TokenAuthMiddleware returns a Gin middleware for authentication. The
// bearer token travels in the "token" query parameter, not a header; the
// clients of this API depend on that convention.
func TokenAuthMiddleware(svc service.Service, log *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")

		userID, err := svc.UserIDForToken(c.Request.Context(), token)
		if err != nil {
			log.Error("auth: resolving token: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.MessageResponse{
				Message: "ERROR. Server error",
			})
			return
		}

		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.MessageResponse{
				Message: "User not authorized",
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// userIDFromContext returns the user id set by TokenAuthMiddleware.
func userIDFromContext(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
