package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/tippace/internal/common"
	"github.com/dmitrijs2005/tippace/internal/logging"
	"github.com/dmitrijs2005/tippace/internal/server/auth"
	"github.com/gin-gonic/gin"
)

// authentication accepts "Authorization: Bearer <token>" and stores the
// token's user id under common.UserIDContextKey.
func authentication(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, newErrorResponse("missing token"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, newErrorResponse(common.ErrInvalidToken.Error()))
			return
		}

		userID, err := auth.GetUserIDFromToken(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, newErrorResponse(err.Error()))
			return
		}

		c.Set(common.UserIDContextKey, userID)
		c.Next()
	}
}

func requestLogger(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		l.Debug(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
