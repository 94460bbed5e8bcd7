package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIResponse is the uniform envelope carried by every endpoint response,
// success or failure, so clients can branch on Success alone. All five keys
// are always present.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Message   string      `json:"message"`
	Errors    interface{} `json:"errors"`
	Timestamp time.Time   `json:"timestamp"`
}

// JSONSuccess writes a success envelope.
func JSONSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, APIResponse{
		Success:   true,
		Data:      data,
		Message:   message,
		Errors:    nil,
		Timestamp: time.Now().UTC(),
	})
}

// JSONError writes a failure envelope and logs the condition.
func JSONError(c *gin.Context, status int, message string, errs interface{}) {
	GetLogger().Warn(message, zap.Int("status", status), zap.Any("errors", errs))
	c.JSON(status, APIResponse{
		Success:   false,
		Data:      nil,
		Message:   message,
		Errors:    errs,
		Timestamp: time.Now().UTC(),
	})
}

// ErrorHandler is a middleware to catch panics and return a structured envelope.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))
				JSONError(c, http.StatusInternalServerError, "Internal Server Error", nil)
				c.Abort()
			}
		}()
		c.Next()
	}
}
