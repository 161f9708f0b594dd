package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the generic envelope used for errors and simple payloads.
// Handlers with a contracted body shape (register, login, orders) marshal
// their own structs; everything carries success+message at minimum.
type APIResponse[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Data      T      `json:"data,omitempty"`
	Error     any    `json:"error,omitempty"`
}

func OK[T any](c *gin.Context, status int, data T, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, APIResponse[T]{
		Success:   true,
		Message:   message,
		RequestID: c.GetString("request_id"),
		Data:      data,
	})
}

// Fail writes an error envelope. Details must never carry a raw error
// object; only validation field maps and other whitelisted values go there.
func Fail(c *gin.Context, status int, message string, details any) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, APIResponse[any]{
		Success:   false,
		Message:   message,
		RequestID: c.GetString("request_id"),
		Error:     details,
	})
}

// Abort is Fail for middleware: it also stops the handler chain.
func Abort(c *gin.Context, status int, message string, details any) {
	c.AbortWithStatusJSON(status, APIResponse[any]{
		Success:   false,
		Message:   message,
		RequestID: c.GetString("request_id"),
		Error:     details,
	})
}
