package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"contentpilot/internal/model"
	"contentpilot/internal/store"
	"contentpilot/pkg/response"
)

type CreateTemplateRequest struct {
	Name        string  `json:"name" binding:"required" example:"default_content_generator"`
	Description *string `json:"description"`
	Prompt      string  `json:"prompt" binding:"required"`
}

// ListTemplates godoc
//
//	@Summary	List prompt templates
//	@Tags		prompt-templates
//	@Produce	json
//	@Success	200	{array}		model.PromptTemplate
//	@Failure	500	{object}	response.Error
//	@Router		/api/prompt-templates [get]
func (h *Handler) ListTemplates(c *gin.Context) {
	templates, err := h.templates.ListTemplates(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to fetch prompt templates", err)
		return
	}
	response.Success(c, templates)
}

// CreateTemplate godoc
//
//	@Summary	Create a prompt template
//	@Tags		prompt-templates
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateTemplateRequest	true	"Template"
//	@Success	201		{object}	model.PromptTemplate
//	@Failure	400		{object}	response.Error
//	@Failure	409		{object}	response.Error
//	@Router		/api/prompt-templates [post]
func (h *Handler) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindingError(err))
		return
	}
	tmpl := &model.PromptTemplate{
		Name:        req.Name,
		Description: req.Description,
		Prompt:      req.Prompt,
		IsActive:    true,
	}
	if err := h.templates.CreateTemplate(c.Request.Context(), tmpl); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			response.Conflict(c, "a template with this name already exists")
			return
		}
		response.InternalError(c, "failed to create prompt template", err)
		return
	}
	response.Created(c, tmpl)
}

// DeleteTemplate godoc
//
//	@Summary	Delete a prompt template
//	@Tags		prompt-templates
//	@Produce	json
//	@Param		id	path		int	true	"Template ID"
//	@Success	200	{object}	response.Message
//	@Failure	404	{object}	response.Error
//	@Router		/api/prompt-templates/{id} [delete]
func (h *Handler) DeleteTemplate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "invalid id")
		return
	}
	if _, err := h.templates.DeleteTemplate(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(c, "prompt template not found")
			return
		}
		response.InternalError(c, "failed to delete prompt template", err)
		return
	}
	response.Success(c, response.Message{Message: "prompt template deleted"})
}
