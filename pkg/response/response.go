// Package response writes the JSON bodies returned by the HTTP API.
package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is the body of every non-2xx response.
type Error struct {
	Error string `json:"error" example:"content plan not found"`
}

// Message is returned by endpoints that only acknowledge an action.
type Message struct {
	Message string `json:"message" example:"content processing completed"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func BadRequest(c *gin.Context, msg string) {
	abort(c, http.StatusBadRequest, msg)
}

func NotFound(c *gin.Context, msg string) {
	abort(c, http.StatusNotFound, msg)
}

func Conflict(c *gin.Context, msg string) {
	abort(c, http.StatusConflict, msg)
}

// InternalError logs err and responds with msg so driver details stay out of
// the response body.
func InternalError(c *gin.Context, msg string, err error) {
	slog.Error(msg, "error", err, "path", c.FullPath(), "request_id", c.GetString("request_id"))
	abort(c, http.StatusInternalServerError, msg)
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Error{Error: msg})
}
