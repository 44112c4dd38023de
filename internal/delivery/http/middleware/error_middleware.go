package middleware

import (
	"errors"
	"net/http"

	"alumnet-backend/internal/delivery/http/response"
	"alumnet-backend/pkg/apperror"
	"alumnet-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler converts errors pushed onto the gin context into the standard
// JSON envelope. Anything that is not an AppError is logged server-side and
// answered with a generic message so internal detail never reaches clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code == http.StatusInternalServerError {
				logger.Log.Error("internal error", "error", appErr.Err, "path", c.FullPath())
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		logger.Log.Error("unhandled error", "error", err, "path", c.FullPath())
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
