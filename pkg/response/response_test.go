package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestWriters(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		write      func(c *gin.Context)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "success",
			write:      func(c *gin.Context) { Success(c, gin.H{"id": 1}) },
			wantStatus: http.StatusOK,
			wantBody:   `{"id":1}`,
		},
		{
			name:       "created",
			write:      func(c *gin.Context) { Created(c, Message{Message: "ok"}) },
			wantStatus: http.StatusCreated,
			wantBody:   `{"message":"ok"}`,
		},
		{
			name:       "badRequest",
			write:      func(c *gin.Context) { BadRequest(c, "theme is required") },
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"theme is required"}`,
		},
		{
			name:       "notFound",
			write:      func(c *gin.Context) { NotFound(c, "content plan not found") },
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"content plan not found"}`,
		},
		{
			name:       "conflict",
			write:      func(c *gin.Context) { Conflict(c, "busy") },
			wantStatus: http.StatusConflict,
			wantBody:   `{"error":"busy"}`,
		},
		{
			name:       "internalErrorHidesCause",
			write:      func(c *gin.Context) { InternalError(c, "failed to fetch", errors.New("dial tcp: refused")) },
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"failed to fetch"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			tt.write(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
