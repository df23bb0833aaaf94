package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"secondbrain/logger"
	"secondbrain/utils"

	"github.com/gin-gonic/gin"
)

// RecoveryMiddleware turns a panic in a handler into a 500 response and an
// error log carrying the stack.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					slog.String("panic", fmt.Sprint(rec)),
					slog.String("path", c.Request.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)
				utils.TrackError("panic", c.FullPath())
				c.AbortWithStatusJSON(http.StatusInternalServerError, &utils.Response{
					Status: http.StatusInternalServerError,
					Error:  "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
