package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"contentpilot/internal/model"
	"contentpilot/internal/store"
	"contentpilot/pkg/response"
)

type CreateAPIKeyRequest struct {
	Provider string `json:"provider" binding:"required" example:"Groq"`
	KeyName  string `json:"keyName" binding:"required" example:"production"`
	KeyValue string `json:"keyValue" binding:"required"`
}

// APIKeyView is an api_keys row with the secret masked.
type APIKeyView struct {
	ID        uint      `json:"id"`
	Provider  string    `json:"provider"`
	KeyName   string    `json:"keyName"`
	KeyValue  string    `json:"keyValue" example:"****abcd"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newAPIKeyView(k model.APIKey) APIKeyView {
	return APIKeyView{
		ID:        k.ID,
		Provider:  k.Provider,
		KeyName:   k.KeyName,
		KeyValue:  maskSecret(k.KeyValue),
		IsActive:  k.IsActive,
		CreatedAt: k.CreatedAt,
		UpdatedAt: k.UpdatedAt,
	}
}

// maskSecret keeps the last four characters of values long enough to hide.
func maskSecret(v string) string {
	if len(v) <= 8 {
		return strings.Repeat("*", len(v))
	}
	return "****" + v[len(v)-4:]
}

// ListAPIKeys godoc
//
//	@Summary	List stored API keys
//	@Tags		api-keys
//	@Produce	json
//	@Success	200	{array}		APIKeyView
//	@Failure	500	{object}	response.Error
//	@Router		/api/api-keys [get]
func (h *Handler) ListAPIKeys(c *gin.Context) {
	keys, err := h.keys.ListAPIKeys(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to fetch API keys", err)
		return
	}
	views := make([]APIKeyView, 0, len(keys))
	for _, k := range keys {
		views = append(views, newAPIKeyView(k))
	}
	response.Success(c, views)
}

// CreateAPIKey godoc
//
//	@Summary	Store an API key
//	@Tags		api-keys
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateAPIKeyRequest	true	"Key"
//	@Success	201		{object}	APIKeyView
//	@Failure	400		{object}	response.Error
//	@Failure	500		{object}	response.Error
//	@Router		/api/api-keys [post]
func (h *Handler) CreateAPIKey(c *gin.Context) {
	var req CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindingError(err))
		return
	}
	key := &model.APIKey{
		Provider: req.Provider,
		KeyName:  req.KeyName,
		KeyValue: req.KeyValue,
		IsActive: true,
	}
	if err := h.keys.CreateAPIKey(c.Request.Context(), key); err != nil {
		response.InternalError(c, "failed to create API key", err)
		return
	}
	response.Created(c, newAPIKeyView(*key))
}

// DeleteAPIKey godoc
//
//	@Summary	Delete an API key
//	@Tags		api-keys
//	@Produce	json
//	@Param		id	path		int	true	"Key ID"
//	@Success	200	{object}	response.Message
//	@Failure	404	{object}	response.Error
//	@Router		/api/api-keys/{id} [delete]
func (h *Handler) DeleteAPIKey(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "invalid id")
		return
	}
	if _, err := h.keys.DeleteAPIKey(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(c, "API key not found")
			return
		}
		response.InternalError(c, "failed to delete API key", err)
		return
	}
	response.Success(c, response.Message{Message: "API key deleted"})
}
